package transcribe

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/mgpai22/vid2srt/internal/audio"
	"github.com/mgpai22/vid2srt/internal/logging"
	"github.com/mgpai22/vid2srt/internal/subtitle"
)

// transcription result
type Result struct {
	Results  []subtitle.RecognitionResult
	Language string
	Duration time.Duration
}

// WordCount returns the number of timed words across all results.
func (r *Result) WordCount() int {
	n := 0
	for _, res := range r.Results {
		n += len(res.Words)
	}
	return n
}

// interface for audio transcription
type Transcriber interface {
	Transcribe(ctx context.Context, audioPath string) (*Result, error)
	Close() error
}

type ConcurrentTranscriber interface {
	Transcriber
	TranscribeWithChunks(
		ctx context.Context,
		chunks []audio.ChunkInfo,
		concurrency int,
	) (*Result, error)
}

// transcription service provider
type Provider string

const (
	ProviderGoogle Provider = "google"
	ProviderOpenAI Provider = "openai"
	ProviderGemini Provider = "gemini"
)

// ParseProvider maps a case-insensitive name to a Provider.
func ParseProvider(name string) (Provider, error) {
	p := Provider(strings.ToLower(strings.TrimSpace(name)))
	switch p {
	case ProviderGoogle, ProviderOpenAI, ProviderGemini:
		return p, nil
	default:
		return "", fmt.Errorf("unsupported provider: %s", name)
	}
}

// ExtractOptions returns the audio format the provider accepts.
func (p Provider) ExtractOptions() audio.ExtractOptions {
	if p == ProviderGoogle {
		return audio.DefaultExtractOptions()
	}
	return audio.CompressedExtractOptions()
}

// GoogleOptions configures the Cloud Storage staging and the long-running
// recognition wait.
type GoogleOptions struct {
	Bucket          string
	CredentialsFile string
	ObjectPrefix    string
	Timeout         time.Duration
}

// transcription options
type Options struct {
	Language string // BCP-47 language of the audio, e.g. "en-US"
	Model    string
	Prompt   string
	APIKey   string
	Google   GoogleOptions
	Logger   *logging.Logger // receives cleanup warnings; nil discards them
}

// creates transcriber based on provider
func Factory(
	ctx context.Context,
	provider Provider,
	opts Options,
) (Transcriber, error) {
	switch provider {
	case ProviderGoogle:
		return NewGoogleTranscriber(ctx, opts)
	case ProviderOpenAI:
		return NewOpenAITranscriber(ctx, opts.APIKey, opts)
	case ProviderGemini:
		return NewGeminiTranscriber(ctx, opts.APIKey, opts)
	default:
		return nil, fmt.Errorf("unsupported provider: %s", provider)
	}
}

// isoLanguage reduces a BCP-47 tag to its ISO-639-1 primary subtag.
func isoLanguage(tag string) string {
	tag = strings.TrimSpace(tag)
	if i := strings.IndexAny(tag, "-_"); i >= 0 {
		tag = tag[:i]
	}
	return strings.ToLower(tag)
}

func totalDuration(chunks []audio.ChunkInfo) (d time.Duration) {
	if len(chunks) > 0 {
		d = chunks[len(chunks)-1].EndTime
	}
	return d
}
