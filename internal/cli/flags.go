package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/pflag"

	"github.com/mgpai22/vid2srt/internal/config"
)

// segmentation limits shared by generate and render
func addSubtitleFlags(fs *pflag.FlagSet) {
	def := config.Default().Subtitle
	fs.Int("max-chars", def.MaxCharsPerLine, "Maximum characters per subtitle line")
	fs.Int("max-lines", def.MaxLinesPerSubtitle, "Maximum lines per subtitle")
	fs.Float64("max-duration", def.MaxCueDuration, "Maximum subtitle duration in seconds")
	fs.String("punctuation", def.TerminalPunctuation, "Characters that end a subtitle when a word ends with them")
	fs.Bool("skip-empty-words", false, "Drop words that are empty after trimming whitespace")
}

// applySubtitleFlags copies explicitly set flags over the config values.
func applySubtitleFlags(fs *pflag.FlagSet, c *config.Config) error {
	var err error
	if fs.Changed("max-chars") {
		if c.Subtitle.MaxCharsPerLine, err = fs.GetInt("max-chars"); err != nil {
			return err
		}
	}
	if fs.Changed("max-lines") {
		if c.Subtitle.MaxLinesPerSubtitle, err = fs.GetInt("max-lines"); err != nil {
			return err
		}
	}
	if fs.Changed("max-duration") {
		if c.Subtitle.MaxCueDuration, err = fs.GetFloat64("max-duration"); err != nil {
			return err
		}
	}
	if fs.Changed("punctuation") {
		if c.Subtitle.TerminalPunctuation, err = fs.GetString("punctuation"); err != nil {
			return err
		}
	}
	if fs.Changed("skip-empty-words") {
		if c.Subtitle.SkipEmptyWords, err = fs.GetBool("skip-empty-words"); err != nil {
			return err
		}
	}
	return nil
}

func addTranscribeFlags(fs *pflag.FlagSet) {
	def := config.Default()
	fs.StringP("provider", "p", def.Transcribe.Provider, "Speech-to-text provider (google, openai, gemini)")
	fs.String("model", "", "Provider model to use for transcription")
	fs.StringP("api-key", "k", "", "API key for openai or gemini (or set OPENAI_API_KEY / GEMINI_API_KEY)")
	fs.IntP("chunk-duration", "d", def.Transcribe.ChunkMinutes, "Chunk duration in minutes for openai and gemini")
	fs.Int("concurrency", def.Transcribe.Concurrency, "Number of parallel transcription workers")
	fs.StringP("bucket", "b", "", "Cloud Storage bucket for google (or set VID2SRT_GCS_BUCKET)")
	fs.String("credentials", "", "Service account JSON for google (or set GOOGLE_APPLICATION_CREDENTIALS)")
	fs.Int("timeout", def.Google.TimeoutSeconds, "Seconds to wait for google long-running recognition")
}

// applyTranscribeFlags copies explicitly set flags over the config values.
// The api key goes to whichever provider is selected after the override.
func applyTranscribeFlags(fs *pflag.FlagSet, c *config.Config) error {
	stringFlags := []struct {
		name string
		dst  *string
	}{
		{"provider", &c.Transcribe.Provider},
		{"model", &c.Transcribe.Model},
		{"language", &c.Transcribe.Language},
		{"bucket", &c.Google.Bucket},
		{"credentials", &c.Google.CredentialsFile},
	}
	for _, f := range stringFlags {
		if fs.Lookup(f.name) == nil || !fs.Changed(f.name) {
			continue
		}
		v, err := fs.GetString(f.name)
		if err != nil {
			return err
		}
		*f.dst = v
	}
	c.Transcribe.Provider = strings.ToLower(strings.TrimSpace(c.Transcribe.Provider))

	intFlags := []struct {
		name string
		dst  *int
	}{
		{"chunk-duration", &c.Transcribe.ChunkMinutes},
		{"concurrency", &c.Transcribe.Concurrency},
		{"timeout", &c.Google.TimeoutSeconds},
	}
	for _, f := range intFlags {
		if fs.Lookup(f.name) == nil || !fs.Changed(f.name) {
			continue
		}
		v, err := fs.GetInt(f.name)
		if err != nil {
			return err
		}
		*f.dst = v
	}

	if fs.Changed("api-key") {
		key, err := fs.GetString("api-key")
		if err != nil {
			return err
		}
		switch c.Transcribe.Provider {
		case config.ProviderOpenAI:
			c.OpenAI.APIKey = key
		case config.ProviderGemini:
			c.Gemini.APIKey = key
		default:
			return fmt.Errorf("--api-key is not used by the %s provider", c.Transcribe.Provider)
		}
	}
	return nil
}
