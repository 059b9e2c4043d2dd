package transcribe

import (
	"errors"
	"strings"
	"testing"

	"google.golang.org/genai"

	"github.com/mgpai22/vid2srt/internal/subtitle"
)

func TestExtractUtterances(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		wantCount int
		wantErr   bool
	}{
		{
			name: "plain valid array",
			input: `[
				{"words": [{"word": "Hello", "start": 0.0, "end": 0.4}, {"word": "world.", "start": 0.4, "end": 0.9}]},
				{"words": [{"word": "Bye.", "start": 1.0, "end": 1.3}]}
			]`,
			wantCount: 2,
		},
		{
			name: "preamble and trailing text",
			input: `Here is your transcript:
			[{"words": [{"word": "Test", "start": 1.0, "end": 1.5}]}]
			That's all!`,
			wantCount: 1,
		},
		{
			name:      "wrapper object with utterances key",
			input:     `{"utterances": [{"words": [{"word": "Wrapped", "start": 0, "end": 1}]}]}`,
			wantCount: 1,
		},
		{
			name:      "nested wrapper object with unknown keys",
			input:     `{"response": {"data": [{"words": [{"word": "Nested", "start": 0, "end": 1}]}]}}`,
			wantCount: 1,
		},
		{
			name: "multiple arrays picks first valid",
			input: `[1, 2, 3]
			[{"words": [{"word": "Actual", "start": 0, "end": 1}]}]`,
			wantCount: 1,
		},
		{
			name: "unrelated object first then utterance array",
			input: `{"status": "ok", "count": 5}
			[{"words": [{"word": "Real", "start": 0, "end": 1}]}]`,
			wantCount: 1,
		},
		{
			name:    "empty array",
			input:   `[]`,
			wantErr: true,
		},
		{
			name:    "utterances without words",
			input:   `[{"words": []}, {}]`,
			wantErr: true,
		},
		{
			name:    "no JSON at all",
			input:   `This is just plain text with no JSON content.`,
			wantErr: true,
		},
		{
			name:    "truncated JSON",
			input:   `[{"words": [{"word": "incomplete", "start": 0`,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			utterances, err := extractUtterances(tt.input)
			if tt.wantErr {
				if err == nil {
					t.Error("expected error but got none")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if len(utterances) != tt.wantCount {
				t.Errorf("got %d utterances, want %d", len(utterances), tt.wantCount)
			}
		})
	}
}

func TestCleanJSONResponse(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "plain JSON",
			input: `[{"words": []}]`,
			want:  `[{"words": []}]`,
		},
		{
			name:  "json code fence",
			input: "```json\n[{\"words\": []}]\n```",
			want:  `[{"words": []}]`,
		},
		{
			name:  "plain code fence",
			input: "```\n[{\"words\": []}]\n```",
			want:  `[{"words": []}]`,
		},
		{
			name:  "with leading/trailing whitespace",
			input: "  \n\n```json\n[1]\n```\n\n  ",
			want:  `[1]`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := cleanJSONResponse(tt.input); got != tt.want {
				t.Errorf("cleanJSONResponse() = %q, want %q", got, tt.want)
			}
		})
	}
}

func geminiResponse(texts ...string) *genai.GenerateContentResponse {
	parts := make([]*genai.Part, len(texts))
	for i, text := range texts {
		parts[i] = genai.NewPartFromText(text)
	}
	return &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{
			{Content: genai.NewContentFromParts(parts, genai.RoleModel)},
		},
	}
}

func TestParseTranscriptionResponse(t *testing.T) {
	resp := geminiResponse(
		"```json\n[{\"words\": [{\"word\": \"Hello\", \"start\": 0.5, ",
		"\"end\": 0.9}, {\"word\": \"there.\", \"start\": 0.9, \"end\": 1.4}]}]\n```",
	)

	results, err := parseTranscriptionResponse(resp)
	if err != nil {
		t.Fatalf("parseTranscriptionResponse returned error: %v", err)
	}
	if len(results) != 1 || len(results[0].Words) != 2 {
		t.Fatalf("unexpected results: %+v", results)
	}

	want := subtitle.TimedWord{Text: "there.", Start: 0.9, End: 1.4}
	if results[0].Words[1] != want {
		t.Errorf("word = %+v, want %+v", results[0].Words[1], want)
	}
}

func TestParseTranscriptionResponseMissingTiming(t *testing.T) {
	resp := geminiResponse(`[{"words": [{"word": "Hello", "start": 0.5}]}]`)

	_, err := parseTranscriptionResponse(resp)
	if !errors.Is(err, subtitle.ErrMalformedInput) {
		t.Errorf("error = %v, want ErrMalformedInput", err)
	}
}

func TestParseTranscriptionResponseEmpty(t *testing.T) {
	if _, err := parseTranscriptionResponse(nil); err == nil {
		t.Error("expected error for nil response")
	}
	if _, err := parseTranscriptionResponse(&genai.GenerateContentResponse{}); err == nil {
		t.Error("expected error for response without candidates")
	}
	if _, err := parseTranscriptionResponse(geminiResponse("")); err == nil {
		t.Error("expected error for response without text")
	}
}

func TestBuildTranscriptionPrompt(t *testing.T) {
	tr := &GeminiTranscriber{options: Options{Language: "fr-FR", Prompt: "Speakers: Ana."}}
	prompt := tr.buildTranscriptionPrompt()

	for _, want := range []string{"'word', 'start', and 'end'", "The audio is in fr-FR.", "Speakers: Ana."} {
		if !strings.Contains(prompt, want) {
			t.Errorf("prompt missing %q:\n%s", want, prompt)
		}
	}
}
