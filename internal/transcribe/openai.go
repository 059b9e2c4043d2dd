package transcribe

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"

	"github.com/mgpai22/vid2srt/internal/audio"
	"github.com/mgpai22/vid2srt/internal/subtitle"
)

// implements Transcriber interface using OpenAI Audio API
type OpenAITranscriber struct {
	client  openai.Client
	model   string
	options Options
}

// segment from OpenAI Whisper verbose_json response
type whisperSegment struct {
	Start float64 `json:"start"`
	End   float64 `json:"end"`
	Text  string  `json:"text"`
}

type whisperWord struct {
	Word  string  `json:"word"`
	Start float64 `json:"start"`
	End   float64 `json:"end"`
}

// verbose_json response structure from Whisper
type whisperVerboseResponse struct {
	Text     string           `json:"text"`
	Segments []whisperSegment `json:"segments"`
	Words    []whisperWord    `json:"words"`
	Language string           `json:"language"`
	Duration float64          `json:"duration"`
}

func NewOpenAITranscriber(
	ctx context.Context,
	apiKey string,
	opts Options,
) (*OpenAITranscriber, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("API key is required")
	}

	client := openai.NewClient(option.WithAPIKey(apiKey))

	// word timestamps are only available from whisper-1
	model := opts.Model
	if model == "" {
		model = "whisper-1"
	}

	return &OpenAITranscriber{
		client:  client,
		model:   model,
		options: opts,
	}, nil
}

// transcribes single audio file
func (t *OpenAITranscriber) Transcribe(
	ctx context.Context,
	audioPath string,
) (*Result, error) {
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

func (t *OpenAITranscriber) transcribeFile(
	ctx context.Context,
	audioPath string,
) ([]subtitle.RecognitionResult, error) {
	file, err := os.Open(audioPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open audio file: %w", err)
	}
	defer func() { _ = file.Close() }()

	params := openai.AudioTranscriptionNewParams{
		File:                   file,
		Model:                  openai.AudioModel(t.model),
		ResponseFormat:         openai.AudioResponseFormatVerboseJSON,
		TimestampGranularities: []string{"word", "segment"},
	}

	if lang := isoLanguage(t.options.Language); lang != "" {
		params.Language = openai.String(lang)
	}

	if t.options.Prompt != "" {
		params.Prompt = openai.String(t.options.Prompt)
	}

	resp, err := t.client.Audio.Transcriptions.New(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("transcription failed: %w", err)
	}

	return parseVerboseJSONResponse(resp.RawJSON())
}

// parseVerboseJSONResponse groups word timestamps into one recognition
// result per Whisper segment.
func parseVerboseJSONResponse(rawJSON string) ([]subtitle.RecognitionResult, error) {
	if rawJSON == "" {
		return nil, fmt.Errorf("empty response")
	}

	var verboseResp whisperVerboseResponse
	if err := json.Unmarshal([]byte(rawJSON), &verboseResp); err != nil {
		return nil, fmt.Errorf("failed to parse verbose_json response: %w", err)
	}

	if len(verboseResp.Words) == 0 {
		if strings.TrimSpace(verboseResp.Text) != "" {
			return nil, fmt.Errorf("response has text but no word timestamps")
		}
		return nil, nil
	}

	return groupWords(verboseResp.Words, verboseResp.Segments), nil
}

func groupWords(
	words []whisperWord,
	segments []whisperSegment,
) []subtitle.RecognitionResult {
	if len(segments) == 0 {
		return []subtitle.RecognitionResult{{Words: toTimedWords(words)}}
	}

	grouped := make([][]whisperWord, len(segments))
	k := 0
	for _, w := range words {
		for k < len(segments)-1 && w.Start >= segments[k].End {
			k++
		}
		grouped[k] = append(grouped[k], w)
	}

	results := make([]subtitle.RecognitionResult, 0, len(segments))
	for i, ws := range grouped {
		if len(ws) == 0 {
			continue
		}
		results = append(results, subtitle.RecognitionResult{
			Words: toTimedWords(punctuate(ws, segments[i].Text)),
		})
	}
	return results
}

// punctuate restores the punctuation Whisper keeps in segment text but drops
// from word entries. When the tokens line up one to one the segment tokens
// replace the words; otherwise only a closing mark is carried over.
func punctuate(words []whisperWord, segmentText string) []whisperWord {
	tokens := strings.Fields(segmentText)
	if len(tokens) == 0 {
		return words
	}

	out := make([]whisperWord, len(words))
	copy(out, words)

	if len(tokens) == len(words) {
		for i := range out {
			out[i].Word = tokens[i]
		}
		return out
	}

	lastToken := tokens[len(tokens)-1]
	mark := lastToken[len(lastToken)-1]
	if strings.IndexByte(".?!", mark) >= 0 {
		last := &out[len(out)-1]
		if !strings.HasSuffix(last.Word, string(mark)) {
			last.Word += string(mark)
		}
	}
	return out
}

func toTimedWords(words []whisperWord) []subtitle.TimedWord {
	out := make([]subtitle.TimedWord, len(words))
	for i, w := range words {
		out[i] = subtitle.TimedWord{Text: w.Word, Start: w.Start, End: w.End}
	}
	return out
}

// transcribes multiple chunks in parallel
func (t *OpenAITranscriber) TranscribeWithChunks(
	ctx context.Context,
	chunks []audio.ChunkInfo,
	concurrency int,
) (*Result, error) {
	results, err := transcribeChunks(ctx, chunks, concurrency,
		func(ctx context.Context, chunk audio.ChunkInfo) ([]subtitle.RecognitionResult, error) {
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

func (t *OpenAITranscriber) Close() error {
	return nil
}
