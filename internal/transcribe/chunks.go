package transcribe

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/mgpai22/vid2srt/internal/audio"
	"github.com/mgpai22/vid2srt/internal/subtitle"
)

// transcribes one chunk; word times are relative to the chunk start
type chunkFunc func(
	ctx context.Context,
	chunk audio.ChunkInfo,
) ([]subtitle.RecognitionResult, error)

// holds the result of transcribing a chunk
type chunkResult struct {
	Index   int
	Results []subtitle.RecognitionResult
	Error   error
}

// transcribeChunks runs fn over chunks with a bounded worker pool and merges
// the output in chunk order, shifting word times by each chunk's offset.
// The first failure cancels the remaining work.
func transcribeChunks(
	ctx context.Context,
	chunks []audio.ChunkInfo,
	concurrency int,
	fn chunkFunc,
) ([]subtitle.RecognitionResult, error) {
	if len(chunks) == 0 {
		return nil, nil
	}

	if concurrency <= 0 {
		concurrency = 3
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	workChan := make(chan audio.ChunkInfo)
	resultChan := make(chan chunkResult, len(chunks))

	var wg sync.WaitGroup
	for i := 0; i < concurrency; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for {
				select {
				case <-ctx.Done():
					return
				case chunk, ok := <-workChan:
					if !ok {
						return
					}
					if ctx.Err() != nil {
						return
					}

					results, err := fn(ctx, chunk)
					if err != nil {
						cancel()
					}
					resultChan <- chunkResult{
						Index:   chunk.Index,
						Results: offsetResults(results, chunk.StartTime.Seconds()),
						Error:   err,
					}
				}
			}
		}()
	}

	go func() {
		defer close(workChan)
		for _, chunk := range chunks {
			select {
			case <-ctx.Done():
				return
			case workChan <- chunk:
			}
		}
	}()

	go func() {
		wg.Wait()
		close(resultChan)
	}()

	results := make([]chunkResult, 0, len(chunks))
	var firstErr error
	for result := range resultChan {
		if result.Error != nil && firstErr == nil {
			firstErr = fmt.Errorf(
				"chunk %d failed: %w",
				result.Index,
				result.Error,
			)
			cancel()
		}
		if result.Error == nil {
			results = append(results, result)
		}
	}
	if firstErr != nil {
		return nil, firstErr
	}
	if len(results) != len(chunks) {
		// cancelled by the parent before every chunk ran
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		return nil, fmt.Errorf("transcribed %d of %d chunks", len(results), len(chunks))
	}

	// sort by index to maintain order
	sort.Slice(results, func(i, j int) bool {
		return results[i].Index < results[j].Index
	})

	var merged []subtitle.RecognitionResult
	for _, r := range results {
		merged = append(merged, r.Results...)
	}
	return merged, nil
}

// offsetResults returns a copy of results with every word shifted by seconds.
func offsetResults(
	results []subtitle.RecognitionResult,
	seconds float64,
) []subtitle.RecognitionResult {
	if seconds == 0 || results == nil {
		return results
	}
	out := make([]subtitle.RecognitionResult, len(results))
	for i, r := range results {
		words := make([]subtitle.TimedWord, len(r.Words))
		for j, w := range r.Words {
			words[j] = subtitle.TimedWord{
				Text:  w.Text,
				Start: w.Start + seconds,
				End:   w.End + seconds,
			}
		}
		out[i] = subtitle.RecognitionResult{Words: words}
	}
	return out
}
