package subtitle

// single recognized token, times in seconds
type TimedWord struct {
	Text  string
	Start float64
	End   float64
}

// ordered run of words for one utterance, as split by the recognizer
type RecognitionResult struct {
	Words []TimedWord
}

// single SRT entry
type Cue struct {
	Index int
	Start float64
	End   float64
	Text  string
}

// complete cue track
type Document struct {
	Cues []Cue
}

// Duration returns the time covered from the first cue start to the last
// cue end, or zero for an empty document.
func (d *Document) Duration() float64 {
	if d == nil || len(d.Cues) == 0 {
		return 0
	}
	return d.Cues[len(d.Cues)-1].End - d.Cues[0].Start
}

// interface for writing documents to files
type Writer interface {
	Write(doc *Document, path string) error
}
