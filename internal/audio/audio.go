package audio

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	ffmpeg "github.com/u2takey/ffmpeg-go"

	ffmpegbin "github.com/mgpai22/vid2srt/internal/ffmpeg"
)

// audio chunk info
type ChunkInfo struct {
	Path      string
	Index     int
	StartTime time.Duration
	EndTime   time.Duration
}

// settings for the extracted audio track
type ExtractOptions struct {
	Format     string // Output format (wav, flac, mp3, aac)
	SampleRate int    // Sample rate in Hz
	Channels   int    // Number of channels (1=mono, 2=stereo)
	Bitrate    string // Bitrate for lossy formats (e.g., "64k")
}

// Extension returns the file extension for the output format.
func (o ExtractOptions) Extension() string {
	switch o.Format {
	case "mp3", "aac", "flac":
		return "." + o.Format
	default:
		return ".wav"
	}
}

// 16-bit PCM mono at 16 kHz, the LINEAR16 input long-running recognition expects
func DefaultExtractOptions() ExtractOptions {
	return ExtractOptions{
		Format:     "wav",
		SampleRate: 16000,
		Channels:   1,
	}
}

// compressed mono for upload-size-limited APIs
func CompressedExtractOptions() ExtractOptions {
	return ExtractOptions{
		Format:     "mp3",
		SampleRate: 16000,
		Channels:   1,
		Bitrate:    "64k",
	}
}

// JSON output from ffprobe
type ffprobeOutput struct {
	Format struct {
		Duration string `json:"duration"`
	} `json:"format"`
	Streams []struct {
		CodecType string `json:"codec_type"`
	} `json:"streams"`
}

type probeResult struct {
	duration time.Duration
	hasAudio bool
}

func probe(ctx context.Context, filePath string) (probeResult, error) {
	if _, err := os.Stat(filePath); os.IsNotExist(err) {
		return probeResult{}, fmt.Errorf("file not found: %s", filePath)
	}

	ffprobePath, err := ffmpegbin.FFprobePath()
	if err != nil {
		return probeResult{}, err
	}

	cmd := exec.CommandContext(ctx, ffprobePath,
		"-v", "quiet",
		"-print_format", "json",
		"-show_format",
		"-show_streams",
		filePath,
	)

	var out bytes.Buffer
	cmd.Stdout = &out

	if err := cmd.Run(); err != nil {
		return probeResult{}, fmt.Errorf("ffprobe failed: %w", err)
	}

	return parseProbe(out.Bytes())
}

func parseProbe(data []byte) (probeResult, error) {
	var p ffprobeOutput
	if err := json.Unmarshal(data, &p); err != nil {
		return probeResult{}, fmt.Errorf("failed to parse ffprobe output: %w", err)
	}

	seconds, err := strconv.ParseFloat(strings.TrimSpace(p.Format.Duration), 64)
	if err != nil {
		return probeResult{}, fmt.Errorf("failed to parse duration: %w", err)
	}

	res := probeResult{duration: time.Duration(seconds * float64(time.Second))}
	for _, s := range p.Streams {
		if s.CodecType == "audio" {
			res.hasAudio = true
			break
		}
	}
	return res, nil
}

// duration of an audio/video file
func GetDuration(ctx context.Context, filePath string) (time.Duration, error) {
	p, err := probe(ctx, filePath)
	if err != nil {
		return 0, err
	}
	return p.duration, nil
}

// HasAudio reports whether the file carries at least one audio stream.
func HasAudio(ctx context.Context, filePath string) (bool, error) {
	p, err := probe(ctx, filePath)
	if err != nil {
		return false, err
	}
	return p.hasAudio, nil
}

func extractKwargs(opts ExtractOptions) ffmpeg.KwArgs {
	kwargs := ffmpeg.KwArgs{
		"vn": "",              // No video
		"ar": opts.SampleRate, // Sample rate
		"ac": opts.Channels,   // Channels
	}

	switch opts.Format {
	case "mp3":
		kwargs["acodec"] = "libmp3lame"
		if opts.Bitrate != "" {
			kwargs["b:a"] = opts.Bitrate
		}
	case "aac":
		kwargs["acodec"] = "aac"
		if opts.Bitrate != "" {
			kwargs["b:a"] = opts.Bitrate
		}
	case "flac":
		kwargs["acodec"] = "flac"
	default:
		kwargs["acodec"] = "pcm_s16le"
	}
	return kwargs
}

// runFFmpeg executes a compiled ffmpeg-go stream under ctx.
func runFFmpeg(ctx context.Context, stream *ffmpeg.Stream) error {
	ffmpegPath, err := ffmpegbin.FFmpegPath()
	if err != nil {
		return err
	}

	var stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, ffmpegPath, stream.GetArgs()...)
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return fmt.Errorf("%w: %s", err, lastLine(stderr.String()))
	}
	return nil
}

func lastLine(s string) string {
	s = strings.TrimSpace(s)
	if i := strings.LastIndexByte(s, '\n'); i >= 0 {
		return s[i+1:]
	}
	return s
}

// ExtractAudio writes the audio track of an audio or video file to outputPath.
func ExtractAudio(
	ctx context.Context,
	inputPath, outputPath string,
	opts ExtractOptions,
) error {
	if _, err := os.Stat(inputPath); os.IsNotExist(err) {
		return fmt.Errorf("input file not found: %s", inputPath)
	}

	outputDir := filepath.Dir(outputPath)
	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	stream := ffmpeg.Input(inputPath).
		Output(outputPath, extractKwargs(opts)).
		OverWriteOutput()

	if err := runFFmpeg(ctx, stream); err != nil {
		return fmt.Errorf("audio extraction failed: %w", err)
	}

	return nil
}

// chunkJob represents a single chunk to be created
type chunkJob struct {
	index        int
	startSeconds float64
	endSeconds   float64
	chunkPath    string
}

func planChunks(
	audioPath, outputDir string,
	total, chunkDuration time.Duration,
) []chunkJob {
	baseName := strings.TrimSuffix(
		filepath.Base(audioPath),
		filepath.Ext(audioPath),
	)
	ext := filepath.Ext(audioPath)

	chunkSeconds := chunkDuration.Seconds()
	totalSeconds := total.Seconds()

	var jobs []chunkJob
	for i := 0; ; i++ {
		startSeconds := float64(i) * chunkSeconds
		if startSeconds >= totalSeconds {
			break
		}

		endSeconds := startSeconds + chunkSeconds
		if endSeconds > totalSeconds {
			endSeconds = totalSeconds
		}

		jobs = append(jobs, chunkJob{
			index:        i,
			startSeconds: startSeconds,
			endSeconds:   endSeconds,
			chunkPath: filepath.Join(
				outputDir,
				fmt.Sprintf("%s_chunk_%03d%s", baseName, i, ext),
			),
		})
	}
	return jobs
}

// splits an audio file into chunks of specified duration
func ChunkAudio(
	ctx context.Context,
	audioPath string,
	chunkDuration time.Duration,
	outputDir string,
) ([]ChunkInfo, error) {
	return ChunkAudioConcurrent(ctx, audioPath, chunkDuration, outputDir, 0)
}

// ChunkAudioConcurrent splits an audio file into chunks with configurable concurrency.
// If concurrency is 0 or negative, it defaults to 10 concurrent workers.
func ChunkAudioConcurrent(
	ctx context.Context,
	audioPath string,
	chunkDuration time.Duration,
	outputDir string,
	concurrency int,
) ([]ChunkInfo, error) {
	if chunkDuration <= 0 {
		return nil, fmt.Errorf(
			"chunk duration must be positive, got %v",
			chunkDuration,
		)
	}

	if concurrency <= 0 {
		concurrency = 10
	}

	totalDuration, err := GetDuration(ctx, audioPath)
	if err != nil {
		return nil, fmt.Errorf("failed to get audio duration: %w", err)
	}

	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}

	jobs := planChunks(audioPath, outputDir, totalDuration, chunkDuration)

	var (
		mu       sync.Mutex
		chunks   []ChunkInfo
		firstErr error
		wg       sync.WaitGroup
	)

	sem := make(chan struct{}, concurrency)

	for _, job := range jobs {
		if ctx.Err() != nil {
			break
		}

		wg.Add(1)
		go func(j chunkJob) {
			defer wg.Done()

			sem <- struct{}{}
			defer func() { <-sem }()

			mu.Lock()
			hasErr := firstErr != nil
			mu.Unlock()
			if hasErr || ctx.Err() != nil {
				return
			}

			stream := ffmpeg.Input(audioPath).
				Output(j.chunkPath, ffmpeg.KwArgs{
					"ss": j.startSeconds,
					"t":  j.endSeconds - j.startSeconds,
					"c":  "copy", // Copy codec for speed
				}).
				OverWriteOutput()

			err := runFFmpeg(ctx, stream)

			mu.Lock()
			defer mu.Unlock()

			if err != nil {
				if firstErr == nil {
					firstErr = fmt.Errorf(
						"failed to create chunk %d: %w",
						j.index,
						err,
					)
				}
				return
			}

			chunks = append(chunks, ChunkInfo{
				Path:      j.chunkPath,
				Index:     j.index,
				StartTime: time.Duration(j.startSeconds * float64(time.Second)),
				EndTime:   time.Duration(j.endSeconds * float64(time.Second)),
			})
		}(job)
	}

	wg.Wait()

	if err := ctx.Err(); err != nil {
		_ = CleanupChunks(chunks)
		return nil, err
	}
	if firstErr != nil {
		_ = CleanupChunks(chunks)
		return nil, firstErr
	}

	// sort chunks by index to maintain order
	sort.Slice(chunks, func(i, j int) bool {
		return chunks[i].Index < chunks[j].Index
	})

	return chunks, nil
}

var videoExts = map[string]bool{
	".mp4":  true,
	".mkv":  true,
	".avi":  true,
	".mov":  true,
	".wmv":  true,
	".flv":  true,
	".webm": true,
	".m4v":  true,
	".mpeg": true,
	".mpg":  true,
	".3gp":  true,
}

var audioExts = map[string]bool{
	".mp3":  true,
	".wav":  true,
	".aac":  true,
	".flac": true,
	".ogg":  true,
	".m4a":  true,
	".wma":  true,
	".aiff": true,
}

// checks if the file is a video based on extension
func IsVideoFile(path string) bool {
	return videoExts[strings.ToLower(filepath.Ext(path))]
}

// checks if the file is an audio file based on extension
func IsAudioFile(path string) bool {
	return audioExts[strings.ToLower(filepath.Ext(path))]
}

// checks if the file is either audio or video
func IsMediaFile(path string) bool {
	return IsAudioFile(path) || IsVideoFile(path)
}

// removes all chunk files
func CleanupChunks(chunks []ChunkInfo) error {
	var lastErr error
	for _, chunk := range chunks {
		if err := os.Remove(chunk.Path); err != nil && !os.IsNotExist(err) {
			lastErr = err
		}
	}
	return lastErr
}
