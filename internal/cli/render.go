package cli

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mgpai22/vid2srt/internal/subtitle"
	"github.com/mgpai22/vid2srt/internal/transcript"
)

var renderCmd = &cobra.Command{
	Use:   "render [transcript.json]",
	Short: "Render a saved word-level transcript as SRT",
	Long: `Segment a transcript written by "generate --save-transcript" into subtitles
without calling the speech-to-text provider again. Use it to try different
line and duration limits.

Use "-o -" to print the subtitles to stdout.

Examples:
  vid2srt render video.json
  vid2srt render video.json --max-chars 32 --max-lines 1 -o short.srt
  vid2srt render video.json -o -`,
	Args: cobra.ExactArgs(1),
	RunE: runRender,
}

func init() {
	rootCmd.AddCommand(renderCmd)

	addSubtitleFlags(renderCmd.Flags())
}

func runRender(cmd *cobra.Command, args []string) error {
	transcriptPath := args[0]

	if err := applySubtitleFlags(cmd.Flags(), cfg); err != nil {
		return err
	}

	segmenter, err := subtitle.NewSegmenter(cfg.SegmenterConfig())
	if err != nil {
		return err
	}

	f, err := transcript.Load(transcriptPath)
	if err != nil {
		return err
	}
	results, err := f.RecognitionResults()
	if err != nil {
		return err
	}

	doc, err := segmenter.Segment(results)
	if err != nil {
		return fmt.Errorf("failed to generate subtitles: %w", err)
	}

	outputFlag, _ := cmd.Flags().GetString("output")
	if outputFlag == "-" {
		content, err := subtitle.RenderSRT(doc)
		if err != nil {
			return err
		}
		_, err = fmt.Fprint(cmd.OutOrStdout(), content)
		return err
	}

	outputPath, err := resolveOutputPath(transcriptPath, strings.TrimSpace(outputFlag))
	if err != nil {
		return err
	}

	logger.Debugw("Rendering transcript",
		"input", transcriptPath,
		"output", outputPath,
		"cues", len(doc.Cues),
	)

	if err := subtitle.NewWriter().Write(doc, outputPath); err != nil {
		return fmt.Errorf("failed to write subtitles: %w", err)
	}

	absOutput, _ := filepath.Abs(outputPath)
	fmt.Fprintf(cmd.OutOrStdout(), "Subtitles written: %s (%d entries)\n", absOutput, len(doc.Cues))
	return nil
}
