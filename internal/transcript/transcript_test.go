package transcript

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/mgpai22/vid2srt/internal/subtitle"
)

func writeFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "transcript.json")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write transcript: %v", err)
	}
	return path
}

func TestLoadAndConvert(t *testing.T) {
	path := writeFile(t, `{
		"language": "en-US",
		"results": [
			{"words": []},
			{"words": [
				{"word": "Hello", "start": 0.0, "end": 0.4},
				{"word": "world.", "start": 0.4, "end": 0.9}
			]}
		]
	}`)

	f, err := Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if f.Language != "en-US" {
		t.Errorf("language = %q, want en-US", f.Language)
	}

	results, err := f.RecognitionResults()
	if err != nil {
		t.Fatalf("RecognitionResults returned error: %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("expected 2 results, got %d", len(results))
	}
	if len(results[0].Words) != 0 {
		t.Errorf("expected empty first result, got %d words", len(results[0].Words))
	}

	want := subtitle.TimedWord{Text: "world.", Start: 0.4, End: 0.9}
	if results[1].Words[1] != want {
		t.Errorf("word = %+v, want %+v", results[1].Words[1], want)
	}
}

func TestRecognitionResultsMissingFields(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"missing results", `{"language": "en"}`},
		{"missing words", `{"results": [{}]}`},
		{"null words", `{"results": [{"words": null}]}`},
		{"missing word", `{"results": [{"words": [{"start": 0, "end": 1}]}]}`},
		{"missing start", `{"results": [{"words": [{"word": "a", "end": 1}]}]}`},
		{"missing end", `{"results": [{"words": [{"word": "a", "start": 0}]}]}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f, err := Load(writeFile(t, tt.content))
			if err != nil {
				t.Fatalf("Load returned error: %v", err)
			}
			_, err = f.RecognitionResults()
			if !errors.Is(err, subtitle.ErrMalformedInput) {
				t.Errorf("error = %v, want ErrMalformedInput", err)
			}
		})
	}
}

func TestLoadInvalidJSON(t *testing.T) {
	if _, err := Load(writeFile(t, `{"results": [`)); err == nil {
		t.Error("expected error for invalid JSON")
	}
	if _, err := Load(filepath.Join(t.TempDir(), "missing.json")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestSaveThenLoadKeepsResults(t *testing.T) {
	in := []subtitle.RecognitionResult{
		{Words: []subtitle.TimedWord{{Text: "Hi", Start: 1.0, End: 1.2}}},
		{},
	}

	path := filepath.Join(t.TempDir(), "out", "transcript.json")
	if err := FromResults(in, "en-US", "google").Save(path); err != nil {
		t.Fatalf("Save returned error: %v", err)
	}

	f, err := Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if f.Provider != "google" {
		t.Errorf("provider = %q, want google", f.Provider)
	}

	out, err := f.RecognitionResults()
	if err != nil {
		t.Fatalf("RecognitionResults returned error: %v", err)
	}
	if len(out) != 2 || len(out[0].Words) != 1 || len(out[1].Words) != 0 {
		t.Fatalf("unexpected results: %+v", out)
	}
	if out[0].Words[0] != in[0].Words[0] {
		t.Errorf("word = %+v, want %+v", out[0].Words[0], in[0].Words[0])
	}
}
