package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"

	"github.com/mgpai22/vid2srt/internal/subtitle"
)

// Subtitle contains the cue segmentation limits.
type Subtitle struct {
	MaxCharsPerLine     int     `toml:"max_chars_per_line"`
	MaxLinesPerSubtitle int     `toml:"max_lines_per_subtitle"`
	MaxCueDuration      float64 `toml:"max_cue_duration"` // seconds
	TerminalPunctuation string  `toml:"terminal_punctuation"`
	SkipEmptyWords      bool    `toml:"skip_empty_words"`
}

// Transcribe selects the speech provider and how audio is sent to it.
type Transcribe struct {
	Provider     string `toml:"provider"`
	Language     string `toml:"language"`
	Model        string `toml:"model"`
	ChunkMinutes int    `toml:"chunk_minutes"`
	Concurrency  int    `toml:"concurrency"`
}

// Google contains Cloud Storage and Speech-to-Text settings.
type Google struct {
	Bucket          string `toml:"bucket"`
	CredentialsFile string `toml:"credentials_file"`
	ObjectPrefix    string `toml:"object_prefix"`
	TimeoutSeconds  int    `toml:"timeout_seconds"`
}

// APIKey holds a key for a hosted model provider.
type APIKey struct {
	APIKey string `toml:"api_key"`
}

// Config encapsulates all configuration values for vid2srt.
type Config struct {
	Subtitle   Subtitle   `toml:"subtitle"`
	Transcribe Transcribe `toml:"transcribe"`
	Google     Google     `toml:"google"`
	OpenAI     APIKey     `toml:"openai"`
	Gemini     APIKey     `toml:"gemini"`
}

// DefaultConfigPath returns the absolute path to the default configuration file location.
func DefaultConfigPath() (string, error) {
	return expandPath("~/.config/vid2srt/config.toml")
}

// Load reads the configuration file at path, or the default location when
// path is empty. A missing default file yields the defaults; a missing
// explicit file is an error. Environment variables fill unset keys.
func Load(path string) (*Config, error) {
	explicit := path != ""
	if !explicit {
		defaultPath, err := DefaultConfigPath()
		if err != nil {
			return nil, err
		}
		path = defaultPath
	} else {
		expanded, err := expandPath(path)
		if err != nil {
			return nil, err
		}
		path = expanded
	}

	cfg := Default()

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := toml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	case errors.Is(err, fs.ErrNotExist) && !explicit:
		// defaults only
	default:
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}

	cfg.applyEnv()
	cfg.normalize()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks limits and the provider name.
func (c *Config) Validate() error {
	if err := c.SegmenterConfig().Validate(); err != nil {
		return err
	}
	switch c.Transcribe.Provider {
	case ProviderGoogle, ProviderOpenAI, ProviderGemini:
	default:
		return fmt.Errorf("unknown provider %q: use google, openai, or gemini", c.Transcribe.Provider)
	}
	if c.Transcribe.ChunkMinutes <= 0 {
		return fmt.Errorf("chunk_minutes must be positive, got %d", c.Transcribe.ChunkMinutes)
	}
	if c.Transcribe.Concurrency <= 0 {
		return fmt.Errorf("concurrency must be positive, got %d", c.Transcribe.Concurrency)
	}
	if c.Google.TimeoutSeconds <= 0 {
		return fmt.Errorf("google timeout_seconds must be positive, got %d", c.Google.TimeoutSeconds)
	}
	return nil
}

// SegmenterConfig converts the [subtitle] section for the segmenter.
func (c *Config) SegmenterConfig() subtitle.SegmenterConfig {
	return subtitle.SegmenterConfig{
		MaxCharsPerLine:     c.Subtitle.MaxCharsPerLine,
		MaxLinesPerCue:      c.Subtitle.MaxLinesPerSubtitle,
		MaxCueDuration:      c.Subtitle.MaxCueDuration,
		TerminalPunctuation: c.Subtitle.TerminalPunctuation,
		SkipEmptyWords:      c.Subtitle.SkipEmptyWords,
	}
}

func (c *Config) applyEnv() {
	if c.OpenAI.APIKey == "" {
		c.OpenAI.APIKey = os.Getenv("OPENAI_API_KEY")
	}
	if c.Gemini.APIKey == "" {
		c.Gemini.APIKey = os.Getenv("GEMINI_API_KEY")
	}
	if c.Google.CredentialsFile == "" {
		c.Google.CredentialsFile = os.Getenv("GOOGLE_APPLICATION_CREDENTIALS")
	}
	if c.Google.Bucket == "" {
		c.Google.Bucket = os.Getenv("VID2SRT_GCS_BUCKET")
	}
}

func (c *Config) normalize() {
	c.Transcribe.Provider = strings.ToLower(strings.TrimSpace(c.Transcribe.Provider))
	if c.Google.CredentialsFile != "" {
		if expanded, err := expandPath(c.Google.CredentialsFile); err == nil {
			c.Google.CredentialsFile = expanded
		}
	}
}

func expandPath(path string) (string, error) {
	if path == "~" || strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		path = filepath.Join(home, strings.TrimPrefix(path, "~"))
	}
	return filepath.Abs(path)
}
