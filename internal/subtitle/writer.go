package subtitle

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// SubRip format
type SRTWriter struct{}

func NewWriter() Writer {
	return &SRTWriter{}
}

// writes the document to an SRT file, UTF-8 encoded
func (w *SRTWriter) Write(doc *Document, path string) error {
	content, err := RenderSRT(doc)
	if err != nil {
		return err
	}

	if err := ensureDir(path); err != nil {
		return err
	}

	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		return fmt.Errorf("failed to write subtitle file: %w", err)
	}
	return nil
}

func ensureDir(path string) error {
	dir := filepath.Dir(path)
	return os.MkdirAll(dir, 0755)
}

// file extension for SubRip output
const Extension = ".srt"

// DefaultOutputPath places the subtitle next to the media file.
func DefaultOutputPath(mediaPath string) string {
	return strings.TrimSuffix(mediaPath, filepath.Ext(mediaPath)) + Extension
}

// UniquePath returns path unchanged when nothing exists there. Otherwise it
// tries "<stem>-0<ext>", "<stem>-1<ext>", ... and returns the first free one.
func UniquePath(path string) (string, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return path, nil
	} else if err != nil {
		return "", fmt.Errorf("failed to check output path: %w", err)
	}

	ext := filepath.Ext(path)
	stem := strings.TrimSuffix(path, ext)

	for counter := 0; ; counter++ {
		candidate := fmt.Sprintf("%s-%d%s", stem, counter, ext)
		_, err := os.Stat(candidate)
		if os.IsNotExist(err) {
			return candidate, nil
		}
		if err != nil {
			return "", fmt.Errorf("failed to check output path: %w", err)
		}
	}
}
