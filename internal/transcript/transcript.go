// Package transcript stores recognizer output on disk so subtitles can be
// re-rendered with different limits without calling the speech API again.
package transcript

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/mgpai22/vid2srt/internal/subtitle"
)

// File is the on-disk transcript layout.
type File struct {
	Language string   `json:"language,omitempty"`
	Provider string   `json:"provider,omitempty"`
	Results  []Result `json:"results"`
}

// a nil Words means the key was absent or null
type Result struct {
	Words []Word `json:"words"`
}

// timings are pointers so a missing field can be told apart from zero
type Word struct {
	Word  *string  `json:"word"`
	Start *float64 `json:"start"`
	End   *float64 `json:"end"`
}

// FromResults builds a transcript file from recognizer results.
func FromResults(
	results []subtitle.RecognitionResult,
	language, provider string,
) *File {
	f := &File{
		Language: language,
		Provider: provider,
		Results:  make([]Result, len(results)),
	}
	for i, r := range results {
		words := make([]Word, len(r.Words))
		for j, w := range r.Words {
			text, start, end := w.Text, w.Start, w.End
			words[j] = Word{Word: &text, Start: &start, End: &end}
		}
		f.Results[i] = Result{Words: words}
	}
	return f
}

// RecognitionResults converts the file for segmentation. A word missing its
// text or either timing fails with subtitle.ErrMalformedInput.
func (f *File) RecognitionResults() ([]subtitle.RecognitionResult, error) {
	if f.Results == nil {
		return nil, &subtitle.InputError{
			Kind:   subtitle.ErrMalformedInput,
			Result: -1,
			Word:   -1,
			Reason: "transcript has no results field",
		}
	}

	results := make([]subtitle.RecognitionResult, len(f.Results))
	for i, r := range f.Results {
		if r.Words == nil {
			return nil, subtitle.MalformedResult(i, "result has no words field")
		}
		words := make([]subtitle.TimedWord, 0, len(r.Words))
		for j, w := range r.Words {
			switch {
			case w.Word == nil:
				return nil, subtitle.MalformedWord(i, j, "missing word text")
			case w.Start == nil:
				return nil, subtitle.MalformedWord(i, j, "word %q missing start time", *w.Word)
			case w.End == nil:
				return nil, subtitle.MalformedWord(i, j, "word %q missing end time", *w.Word)
			}
			words = append(words, subtitle.TimedWord{
				Text:  *w.Word,
				Start: *w.Start,
				End:   *w.End,
			})
		}
		results[i] = subtitle.RecognitionResult{Words: words}
	}
	return results, nil
}

// Load reads a transcript JSON file.
func Load(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read transcript: %w", err)
	}

	var f File
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to parse transcript %s: %w", path, err)
	}
	return &f, nil
}

// Save writes the transcript as indented JSON.
func (f *File) Save(path string) error {
	data, err := json.MarshalIndent(f, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode transcript: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create transcript directory: %w", err)
	}
	if err := os.WriteFile(path, append(data, '\n'), 0644); err != nil {
		return fmt.Errorf("failed to write transcript: %w", err)
	}
	return nil
}
