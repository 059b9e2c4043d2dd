package transcribe

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"regexp"
	"strings"

	"google.golang.org/genai"

	"github.com/mgpai22/vid2srt/internal/audio"
	"github.com/mgpai22/vid2srt/internal/subtitle"
	"github.com/mgpai22/vid2srt/internal/transcript"
)

// implements Transcriber interface using Google Gemini
type GeminiTranscriber struct {
	client  *genai.Client
	model   string
	options Options
}

func NewGeminiTranscriber(ctx context.Context, apiKey string, opts Options) (*GeminiTranscriber, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("API key is required")
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	model := opts.Model
	if model == "" {
		model = "gemini-2.5-flash"
	}

	return &GeminiTranscriber{
		client:  client,
		model:   model,
		options: opts,
	}, nil
}

// transcribes single audio file
func (t *GeminiTranscriber) Transcribe(ctx context.Context, audioPath string) (*Result, error) {
	results, err := t.transcribeFile(ctx, audioPath)
	if err != nil {
		return nil, err
	}

	duration, _ := audio.GetDuration(ctx, audioPath)

	return &Result{
		Results:  results,
		Language: t.options.Language,
		Duration: duration,
	}, nil
}

func (t *GeminiTranscriber) transcribeFile(ctx context.Context, audioPath string) ([]subtitle.RecognitionResult, error) {
	if _, err := os.Stat(audioPath); os.IsNotExist(err) {
		return nil, fmt.Errorf("audio file not found: %s", audioPath)
	}

	uploadedFile, err := t.client.Files.UploadFromPath(ctx, audioPath, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to upload audio file: %w", err)
	}

	defer func() {
		_, _ = t.client.Files.Delete(context.WithoutCancel(ctx), uploadedFile.Name, nil)
	}()

	parts := []*genai.Part{
		genai.NewPartFromText(t.buildTranscriptionPrompt()),
		genai.NewPartFromURI(uploadedFile.URI, uploadedFile.MIMEType),
	}
	contents := []*genai.Content{
		genai.NewContentFromParts(parts, genai.RoleUser),
	}

	config := &genai.GenerateContentConfig{
		ResponseMIMEType: "application/json",
		Temperature:      genai.Ptr[float32](0),
	}

	result, err := t.client.Models.GenerateContent(ctx, t.model, contents, config)
	if err != nil {
		return nil, fmt.Errorf("transcription failed: %w", err)
	}

	results, err := parseTranscriptionResponse(result)
	if err != nil {
		return nil, fmt.Errorf("failed to parse transcription: %w", err)
	}
	return results, nil
}

// transcribes multiple chunks in parallel
func (t *GeminiTranscriber) TranscribeWithChunks(ctx context.Context, chunks []audio.ChunkInfo, concurrency int) (*Result, error) {
	results, err := transcribeChunks(ctx, chunks, concurrency, func(ctx context.Context, chunk audio.ChunkInfo) ([]subtitle.RecognitionResult, error) {
		return t.transcribeFile(ctx, chunk.Path)
	})
	if err != nil {
		return nil, err
	}

	return &Result{
		Results:  results,
		Language: t.options.Language,
		Duration: totalDuration(chunks),
	}, nil
}

// creates the prompt for transcription
func (t *GeminiTranscriber) buildTranscriptionPrompt() string {
	var sb strings.Builder

	sb.WriteString("Generate a verbatim transcript of this audio with word-level timestamps. ")
	sb.WriteString("Group the words into utterances, one per sentence or phrase. ")
	sb.WriteString("Format your response as a JSON array of utterance objects, each with a 'words' field ")
	sb.WriteString("holding an array of objects with 'word', 'start', and 'end' fields, ")
	sb.WriteString("where 'start' and 'end' are timestamps in seconds (as numbers) from the beginning of the audio. ")
	sb.WriteString("Keep punctuation attached to the word it follows. ")

	if t.options.Language != "" {
		fmt.Fprintf(&sb, "The audio is in %s. ", t.options.Language)
	}

	if t.options.Prompt != "" {
		sb.WriteString(t.options.Prompt)
		sb.WriteString(" ")
	}

	sb.WriteString("Return ONLY the JSON array, no other text or markdown formatting.")

	return sb.String()
}

// parses Gemini's response into recognition results
func parseTranscriptionResponse(result *genai.GenerateContentResponse) ([]subtitle.RecognitionResult, error) {
	if result == nil || len(result.Candidates) == 0 {
		return nil, fmt.Errorf("empty response from Gemini")
	}

	var responseText strings.Builder
	for _, candidate := range result.Candidates {
		if candidate.Content != nil {
			for _, part := range candidate.Content.Parts {
				responseText.WriteString(part.Text)
			}
		}
	}

	if responseText.Len() == 0 {
		return nil, fmt.Errorf("no text in Gemini response")
	}

	utterances, err := extractUtterances(cleanJSONResponse(responseText.String()))
	if err != nil {
		return nil, err
	}

	f := &transcript.File{Results: utterances}
	return f.RecognitionResults()
}

var jsonBlockRegex = regexp.MustCompile("```(?:json)?\\s*")

// removes markdown formatting from the response
func cleanJSONResponse(s string) string {
	s = strings.TrimSpace(s)

	s = jsonBlockRegex.ReplaceAllString(s, "")
	s = strings.ReplaceAll(s, "```", "")

	return strings.TrimSpace(s)
}

// extractUtterances finds the first JSON array of utterances in s. Models
// sometimes add prose around the JSON or wrap the array in an object, so
// every '[' and '{' is tried as a starting point and objects are searched
// recursively.
func extractUtterances(s string) ([]transcript.Result, error) {
	for i := 0; i < len(s); i++ {
		if s[i] != '[' && s[i] != '{' {
			continue
		}

		var value any
		dec := json.NewDecoder(strings.NewReader(s[i:]))
		if err := dec.Decode(&value); err != nil {
			continue
		}

		if utterances, ok := findUtterances(value); ok {
			return utterances, nil
		}
		// skip the whole value so nested arrays are not retried
		i += int(dec.InputOffset()) - 1
	}

	return nil, fmt.Errorf("no utterance array in response: %s", truncateString(s, 200))
}

func findUtterances(value any) ([]transcript.Result, bool) {
	switch v := value.(type) {
	case []any:
		raw, err := json.Marshal(v)
		if err != nil {
			return nil, false
		}
		var utterances []transcript.Result
		if err := json.Unmarshal(raw, &utterances); err != nil {
			return nil, false
		}
		if !validateUtterances(utterances) {
			return nil, false
		}
		return utterances, true
	case map[string]any:
		for _, key := range []string{"utterances", "results", "transcript", "segments"} {
			if inner, ok := v[key]; ok {
				if u, ok := findUtterances(inner); ok {
					return u, true
				}
			}
		}
		for _, inner := range v {
			if u, ok := findUtterances(inner); ok {
				return u, true
			}
		}
	}
	return nil, false
}

// at least one utterance must carry a word
func validateUtterances(utterances []transcript.Result) bool {
	for _, u := range utterances {
		if len(u.Words) > 0 {
			return true
		}
	}
	return false
}

// truncates a string to maxLen characters
func truncateString(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "..."
}

func (t *GeminiTranscriber) Close() error {
	return nil
}
