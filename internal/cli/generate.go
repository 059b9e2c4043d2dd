package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/mgpai22/vid2srt/internal/audio"
	"github.com/mgpai22/vid2srt/internal/config"
	"github.com/mgpai22/vid2srt/internal/progress"
	"github.com/mgpai22/vid2srt/internal/subtitle"
	"github.com/mgpai22/vid2srt/internal/transcribe"
	"github.com/mgpai22/vid2srt/internal/transcript"
)

var generateCmd = &cobra.Command{
	Use:   "generate [media_file]",
	Short: "Generate SRT subtitles for an audio or video file",
	Long: `Generate subtitles for the specified audio or video file using speech-to-text.

The command accepts both audio files (mp3, wav, flac, etc.) and video files (mp4, mkv, etc.).
The audio track is extracted, transcribed with word timestamps and written as SubRip
next to the input (video.mp4 -> video.srt). An existing file is never overwritten:
video-0.srt, video-1.srt, ... are tried instead.

Providers:
  google  Cloud Speech-to-Text long-running recognition; the audio is staged in a
          Cloud Storage bucket and deleted afterwards (default)
  openai  Whisper with word timestamps; audio is split into chunks
  gemini  Gemini with a JSON word-timestamp prompt; audio is split into chunks

Examples:
  vid2srt generate video.mp4 --bucket my-bucket
  vid2srt generate talk.mkv -l de-DE --max-chars 37
  vid2srt generate podcast.mp3 -p openai -d 5 --concurrency 4
  vid2srt generate video.mp4 --save-transcript video.json`,
	Args: cobra.ExactArgs(1),
	RunE: runGenerate,
}

func init() {
	rootCmd.AddCommand(generateCmd)

	addTranscribeFlags(generateCmd.Flags())
	addSubtitleFlags(generateCmd.Flags())
	generateCmd.Flags().
		String("save-transcript", "", "Also write the word-level transcript as JSON to this path")
}

func runGenerate(cmd *cobra.Command, args []string) error {
	mediaPath := args[0]
	ctx := cmd.Context()

	if _, err := os.Stat(mediaPath); os.IsNotExist(err) {
		return fmt.Errorf("file not found: %s", mediaPath)
	}
	if !audio.IsMediaFile(mediaPath) {
		return fmt.Errorf("unsupported file type: %s (expected audio or video file)", filepath.Ext(mediaPath))
	}

	if err := applyTranscribeFlags(cmd.Flags(), cfg); err != nil {
		return err
	}
	if err := applySubtitleFlags(cmd.Flags(), cfg); err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	segmenter, err := subtitle.NewSegmenter(cfg.SegmenterConfig())
	if err != nil {
		return err
	}

	provider, err := transcribe.ParseProvider(cfg.Transcribe.Provider)
	if err != nil {
		return err
	}

	outputFlag, _ := cmd.Flags().GetString("output")
	outputPath, err := resolveOutputPath(mediaPath, outputFlag)
	if err != nil {
		return err
	}
	transcriptPath, _ := cmd.Flags().GetString("save-transcript")

	logger.Infow("Starting subtitle generation",
		"input", mediaPath,
		"output", outputPath,
		"provider", provider,
		"language", cfg.Transcribe.Language,
	)

	tempDir, err := os.MkdirTemp("", "vid2srt-*")
	if err != nil {
		return fmt.Errorf("failed to create temp directory: %w", err)
	}
	defer func() {
		if err := os.RemoveAll(tempDir); err != nil {
			logger.Warnw("Failed to remove temp directory", "path", tempDir, "error", err)
		}
	}()

	// 1/4
	extractOpts := provider.ExtractOptions()
	audioPath := filepath.Join(tempDir, "audio"+extractOpts.Extension())
	step := progress.Start("[1/4] Extracting audio")
	if err := extractAudio(ctx, mediaPath, audioPath, extractOpts); err != nil {
		step.Fail("Audio extraction failed")
		return err
	}
	duration, err := audio.GetDuration(ctx, audioPath)
	if err != nil {
		step.Fail("Audio extraction failed")
		return fmt.Errorf("failed to get audio duration: %w", err)
	}
	step.Succeed(fmt.Sprintf("Audio extracted (%s)", duration.Round(time.Second)))

	transcriber, err := transcribe.Factory(ctx, provider, transcribeOptions(cfg))
	if err != nil {
		return fmt.Errorf("failed to create transcriber: %w", err)
	}
	defer func() { _ = transcriber.Close() }()

	// 2/4 and 3/4
	var result *transcribe.Result
	switch t := transcriber.(type) {
	case *transcribe.GoogleTranscriber:
		result, err = transcribeStaged(ctx, t, audioPath)
	case transcribe.ConcurrentTranscriber:
		result, err = transcribeChunked(ctx, t, audioPath, tempDir)
	default:
		result, err = transcriber.Transcribe(ctx, audioPath)
	}
	if err != nil {
		return err
	}
	result.Duration = duration

	logger.Infow("Transcription complete",
		"results", len(result.Results),
		"words", result.WordCount(),
	)

	if transcriptPath != "" {
		f := transcript.FromResults(result.Results, cfg.Transcribe.Language, string(provider))
		if err := f.Save(transcriptPath); err != nil {
			return err
		}
		logger.Infow("Transcript saved", "path", transcriptPath)
	}

	// 4/4
	step = progress.Start("[4/4] Writing subtitles")
	doc, err := segmenter.Segment(result.Results)
	if err != nil {
		step.Fail("Segmentation failed")
		return fmt.Errorf("failed to generate subtitles: %w", err)
	}
	if err := subtitle.NewWriter().Write(doc, outputPath); err != nil {
		step.Fail("Writing subtitles failed")
		return fmt.Errorf("failed to write subtitles: %w", err)
	}
	step.Succeed(fmt.Sprintf("%d subtitles written", len(doc.Cues)))

	logger.Infow("Subtitles written",
		"cues", len(doc.Cues),
		"subtitle_duration", doc.Duration(),
	)

	absOutput, _ := filepath.Abs(outputPath)
	fmt.Printf("Subtitles generated successfully: %s\n", absOutput)
	fmt.Printf("  Entries: %d\n", len(doc.Cues))
	fmt.Printf("  Duration: %s\n", duration.Round(time.Millisecond))

	return nil
}

// resolveOutputPath picks the flag value or "<media>.srt" and moves past
// existing files.
func resolveOutputPath(mediaPath, outputFlag string) (string, error) {
	outputPath := outputFlag
	if outputPath == "" {
		outputPath = subtitle.DefaultOutputPath(mediaPath)
	}
	return subtitle.UniquePath(outputPath)
}

func transcribeOptions(c *config.Config) transcribe.Options {
	opts := transcribe.Options{
		Language: c.Transcribe.Language,
		Model:    c.Transcribe.Model,
		Logger:   logger,
		Google: transcribe.GoogleOptions{
			Bucket:          c.Google.Bucket,
			CredentialsFile: c.Google.CredentialsFile,
			ObjectPrefix:    c.Google.ObjectPrefix,
			Timeout:         time.Duration(c.Google.TimeoutSeconds) * time.Second,
		},
	}
	switch c.Transcribe.Provider {
	case config.ProviderOpenAI:
		opts.APIKey = c.OpenAI.APIKey
	case config.ProviderGemini:
		opts.APIKey = c.Gemini.APIKey
	}
	return opts
}

func extractAudio(ctx context.Context, mediaPath, audioPath string, opts audio.ExtractOptions) error {
	hasAudio, err := audio.HasAudio(ctx, mediaPath)
	if err != nil {
		return fmt.Errorf("failed to probe %s: %w", mediaPath, err)
	}
	if !hasAudio {
		return fmt.Errorf("%s has no audio stream", mediaPath)
	}
	if err := audio.ExtractAudio(ctx, mediaPath, audioPath, opts); err != nil {
		return fmt.Errorf("failed to extract audio: %w", err)
	}
	return nil
}

// transcribeStaged uploads the audio, runs recognition and always deletes the
// staged object. A failed delete only warns.
func transcribeStaged(
	ctx context.Context,
	t *transcribe.GoogleTranscriber,
	audioPath string,
) (*transcribe.Result, error) {
	step := progress.Start("[2/4] Uploading audio to Cloud Storage")
	object, uri, err := t.Upload(ctx, audioPath)
	if err != nil {
		step.Fail("Upload failed")
		return nil, err
	}
	step.Succeed("Uploaded " + uri)

	defer func() {
		cleanupCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 30*time.Second)
		defer cancel()
		step := progress.Start("Removing staged audio")
		if err := t.Cleanup(cleanupCtx, object); err != nil {
			step.Warn("Could not delete " + uri)
			logger.Warnw("Failed to delete staged audio", "uri", uri, "error", err)
			return
		}
		step.Succeed("Deleted " + uri)
	}()

	step = progress.Start("[3/4] Transcribing audio")
	result, err := t.Recognize(ctx, uri)
	if err != nil {
		step.Fail("Transcription failed")
		return nil, err
	}
	step.Succeed(fmt.Sprintf("Transcribed %d words", result.WordCount()))
	return result, nil
}

// transcribeChunked splits the audio and transcribes the chunks in parallel.
func transcribeChunked(
	ctx context.Context,
	t transcribe.ConcurrentTranscriber,
	audioPath, tempDir string,
) (*transcribe.Result, error) {
	chunkDur := time.Duration(cfg.Transcribe.ChunkMinutes) * time.Minute

	step := progress.Start("[2/4] Splitting audio")
	chunks, err := audio.ChunkAudio(ctx, audioPath, chunkDur, filepath.Join(tempDir, "chunks"))
	if err != nil {
		step.Fail("Splitting failed")
		return nil, fmt.Errorf("failed to split audio: %w", err)
	}
	step.Succeed(fmt.Sprintf("Split into %d chunks of %s", len(chunks), chunkDur))

	step = progress.Start("[3/4] Transcribing audio")
	result, err := t.TranscribeWithChunks(ctx, chunks, cfg.Transcribe.Concurrency)
	if err != nil {
		step.Fail("Transcription failed")
		if errors.Is(err, context.Canceled) {
			return nil, err
		}
		return nil, fmt.Errorf("transcription failed: %w", err)
	}
	step.Succeed(fmt.Sprintf("Transcribed %d words", result.WordCount()))
	return result, nil
}
