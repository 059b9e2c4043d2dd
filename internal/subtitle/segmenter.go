package subtitle

import (
	"fmt"
	"math"
	"strings"
	"unicode/utf8"
)

// DefaultTerminalPunctuation ends a cue after the word that carries it.
const DefaultTerminalPunctuation = ".?!"

// limits applied while grouping words into cues
type SegmenterConfig struct {
	MaxCharsPerLine     int
	MaxLinesPerCue      int
	MaxCueDuration      float64 // seconds
	TerminalPunctuation string
	SkipEmptyWords      bool
}

func DefaultSegmenterConfig() SegmenterConfig {
	return SegmenterConfig{
		MaxCharsPerLine:     42,
		MaxLinesPerCue:      2,
		MaxCueDuration:      3.5,
		TerminalPunctuation: DefaultTerminalPunctuation,
	}
}

// Validate rejects non-positive limits.
func (c SegmenterConfig) Validate() error {
	if c.MaxCharsPerLine <= 0 {
		return fmt.Errorf("max chars per line must be positive, got %d", c.MaxCharsPerLine)
	}
	if c.MaxLinesPerCue <= 0 {
		return fmt.Errorf("max lines per cue must be positive, got %d", c.MaxLinesPerCue)
	}
	if c.MaxCueDuration <= 0 || math.IsNaN(c.MaxCueDuration) {
		return fmt.Errorf("max cue duration must be positive, got %v", c.MaxCueDuration)
	}
	return nil
}

// Segmenter greedily groups timed words into cues.
type Segmenter struct {
	cfg SegmenterConfig
}

func NewSegmenter(cfg SegmenterConfig) (*Segmenter, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Segmenter{cfg: cfg}, nil
}

func NewDefaultSegmenter() *Segmenter {
	return &Segmenter{cfg: DefaultSegmenterConfig()}
}

// Segment turns recognition results into a document. Results are consumed in
// order and words never cross a result boundary; cue numbering runs across
// the whole document. Any invalid word aborts the call with no document.
func (s *Segmenter) Segment(results []RecognitionResult) (*Document, error) {
	seg := &segmentation{cfg: s.cfg, next: 1}

	for ri, result := range results {
		if err := seg.consume(ri, result); err != nil {
			return nil, err
		}
	}

	return &Document{Cues: seg.cues}, nil
}

// Generate segments the results and renders them as SRT text.
func (s *Segmenter) Generate(results []RecognitionResult) (string, error) {
	doc, err := s.Segment(results)
	if err != nil {
		return "", err
	}
	return RenderSRT(doc)
}

type pendingWord struct {
	text string
	end  float64
}

// state for one Segment call
type segmentation struct {
	cfg  SegmenterConfig
	next int
	cues []Cue

	words []pendingWord
	start float64
}

func (g *segmentation) consume(ri int, result RecognitionResult) error {
	// words from the previous result never leak into this one
	g.words = g.words[:0]

	for wi, w := range result.Words {
		if err := checkWord(ri, wi, w); err != nil {
			return err
		}

		text := strings.TrimSpace(w.Text)
		if text == "" && g.cfg.SkipEmptyWords {
			continue
		}

		if len(g.words) == 0 {
			g.start = w.Start
		}

		if g.exceedsLimits(text, w) && len(g.words) > 0 {
			g.flush()
			g.start = w.Start
		}
		g.words = append(g.words, pendingWord{text: text, end: w.End})

		// a sentence end closes the cue it belongs to
		if endsSentence(text, g.cfg.TerminalPunctuation) {
			g.flush()
		}
	}

	if len(g.words) > 0 {
		g.flush()
	}
	return nil
}

// exceedsLimits reports whether appending the word would break a line,
// length or duration limit of the pending cue. The length limit only
// applies once the candidate text already wraps.
func (g *segmentation) exceedsLimits(text string, w TimedWord) bool {
	candidate := g.candidate(text)
	lines := strings.Count(candidate, "\n") + 1

	switch {
	case lines > g.cfg.MaxLinesPerCue:
		return true
	case utf8.RuneCountInString(candidate) > g.cfg.MaxCharsPerLine && lines > 1:
		return true
	default:
		return w.End-g.start > g.cfg.MaxCueDuration
	}
}

// candidate is the cue text if word were appended
func (g *segmentation) candidate(word string) string {
	var sb strings.Builder
	for _, p := range g.words {
		sb.WriteString(p.text)
		sb.WriteByte(' ')
	}
	sb.WriteString(word)
	return sb.String()
}

func (g *segmentation) flush() {
	texts := make([]string, len(g.words))
	for i, p := range g.words {
		texts[i] = p.text
	}

	g.cues = append(g.cues, Cue{
		Index: g.next,
		Start: g.start,
		End:   g.words[len(g.words)-1].end,
		Text:  strings.TrimSpace(strings.Join(texts, " ")),
	})
	g.next++
	g.words = g.words[:0]
}

func endsSentence(text, punctuation string) bool {
	if text == "" {
		return false
	}
	r, _ := utf8.DecodeLastRuneInString(text)
	return strings.ContainsRune(punctuation, r)
}

func checkWord(ri, wi int, w TimedWord) error {
	for _, v := range []float64{w.Start, w.End} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return MalformedWord(ri, wi, "word %q has non-finite timing", w.Text)
		}
	}
	if w.Start < 0 {
		return invalidWord(ri, wi, "word %q starts at negative time %v", w.Text, w.Start)
	}
	if w.End < w.Start {
		return invalidWord(ri, wi, "word %q ends at %v before its start %v", w.Text, w.End, w.Start)
	}
	return nil
}
