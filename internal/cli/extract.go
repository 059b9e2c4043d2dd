package cli

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mgpai22/vid2srt/internal/audio"
)

var extractCmd = &cobra.Command{
	Use:   "extract [video_file]",
	Short: "Extract audio from a video file",
	Long: `Extract the audio track from a video file and save it as a separate audio file.

The default is the 16 kHz mono 16-bit PCM WAV that google recognition expects.
Supports multiple output formats: wav, mp3, aac, flac.

Examples:
  vid2srt extract video.mp4
  vid2srt extract video.mp4 -o audio.mp3 -f mp3
  vid2srt extract video.mp4 --format wav --sample-rate 44100 --channels 2`,
	Args: cobra.ExactArgs(1),
	RunE: runExtract,
}

func init() {
	rootCmd.AddCommand(extractCmd)

	def := audio.DefaultExtractOptions()
	extractCmd.Flags().
		StringP("format", "f", def.Format, "Output audio format (wav, mp3, aac, flac)")
	extractCmd.Flags().
		IntP("sample-rate", "r", def.SampleRate, "Sample rate in Hz (e.g., 16000, 44100, 48000)")
	extractCmd.Flags().
		IntP("channels", "c", def.Channels, "Number of audio channels (1=mono, 2=stereo)")
	extractCmd.Flags().
		String("bitrate", "", "Bitrate for lossy formats (e.g., 128k, 320k)")
}

var validFormats = map[string]bool{
	"wav":  true,
	"mp3":  true,
	"aac":  true,
	"flac": true,
}

func runExtract(cmd *cobra.Command, args []string) error {
	videoPath := args[0]

	format, _ := cmd.Flags().GetString("format")
	sampleRate, _ := cmd.Flags().GetInt("sample-rate")
	channels, _ := cmd.Flags().GetInt("channels")
	bitrate, _ := cmd.Flags().GetString("bitrate")
	outputPath, _ := cmd.Flags().GetString("output")

	format = strings.ToLower(format)
	if !validFormats[format] {
		return fmt.Errorf(
			"invalid format %q: supported formats are wav, mp3, aac, flac",
			format,
		)
	}

	opts := audio.ExtractOptions{
		Format:     format,
		SampleRate: sampleRate,
		Channels:   channels,
		Bitrate:    bitrate,
	}

	if outputPath == "" {
		outputPath = strings.TrimSuffix(videoPath, filepath.Ext(videoPath)) + opts.Extension()
	}
	if samePath(outputPath, videoPath) {
		return fmt.Errorf("output %s would overwrite the input; use --output", outputPath)
	}

	logger.Infow("Extracting audio",
		"video", videoPath,
		"output", outputPath,
		"format", format,
		"sample_rate", sampleRate,
		"channels", channels,
	)

	if err := extractAudio(cmd.Context(), videoPath, outputPath, opts); err != nil {
		return err
	}

	absOutput, _ := filepath.Abs(outputPath)
	fmt.Printf("Audio extracted successfully: %s\n", absOutput)

	return nil
}

func samePath(a, b string) bool {
	absA, errA := filepath.Abs(a)
	absB, errB := filepath.Abs(b)
	if errA != nil || errB != nil {
		return filepath.Clean(a) == filepath.Clean(b)
	}
	return absA == absB
}
