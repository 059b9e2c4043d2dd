package subtitle

import (
	"fmt"
	"strconv"
	"strings"
)

// RenderSRT prints the document in SubRip layout: index, time range, text
// and a blank line per cue, joined by single newlines. The output ends with
// one newline after the last cue text; an empty document renders as "".
func RenderSRT(doc *Document) (string, error) {
	if doc == nil || len(doc.Cues) == 0 {
		return "", nil
	}

	lines := make([]string, 0, len(doc.Cues)*4)
	for _, cue := range doc.Cues {
		start, err := FormatTimestamp(cue.Start)
		if err != nil {
			return "", fmt.Errorf("cue %d start: %w", cue.Index, err)
		}
		end, err := FormatTimestamp(cue.End)
		if err != nil {
			return "", fmt.Errorf("cue %d end: %w", cue.Index, err)
		}

		lines = append(lines,
			strconv.Itoa(cue.Index),
			start+" --> "+end,
			cue.Text,
			"",
		)
	}

	return strings.Join(lines, "\n"), nil
}
