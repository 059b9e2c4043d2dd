package config

import "github.com/mgpai22/vid2srt/internal/subtitle"

const (
	ProviderGoogle = "google"
	ProviderOpenAI = "openai"
	ProviderGemini = "gemini"
)

// Default returns the configuration used when no file is present.
func Default() *Config {
	seg := subtitle.DefaultSegmenterConfig()
	return &Config{
		Subtitle: Subtitle{
			MaxCharsPerLine:     seg.MaxCharsPerLine,
			MaxLinesPerSubtitle: seg.MaxLinesPerCue,
			MaxCueDuration:      seg.MaxCueDuration,
			TerminalPunctuation: seg.TerminalPunctuation,
		},
		Transcribe: Transcribe{
			Provider:     ProviderGoogle,
			Language:     "en-US",
			ChunkMinutes: 10,
			Concurrency:  3,
		},
		Google: Google{
			ObjectPrefix:   "audio-transcripts/",
			TimeoutSeconds: 900,
		},
	}
}
