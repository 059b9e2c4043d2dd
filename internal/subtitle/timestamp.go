package subtitle

import (
	"fmt"
	"math"
)

const (
	millisPerHour   = 3_600_000
	millisPerMinute = 60_000
	millisPerSecond = 1_000
)

// FormatTimestamp renders seconds as an SRT timestamp (HH:MM:SS,mmm).
//
// The value is rounded to the nearest millisecond, halves away from zero.
// Hours are not wrapped at 24, so long recordings keep counting up.
func FormatTimestamp(seconds float64) (string, error) {
	if math.IsNaN(seconds) || math.IsInf(seconds, 0) {
		return "", &InputError{
			Kind:   ErrInvalidInput,
			Result: -1,
			Word:   -1,
			Reason: fmt.Sprintf("timestamp %v is not a finite number", seconds),
		}
	}
	if seconds < 0 {
		return "", &InputError{
			Kind:   ErrInvalidInput,
			Result: -1,
			Word:   -1,
			Reason: fmt.Sprintf("timestamp %v is negative", seconds),
		}
	}

	// millisecond counts must fit in an int64
	if seconds*1000.0 >= math.MaxInt64 {
		return "", &InputError{
			Kind:   ErrInvalidInput,
			Result: -1,
			Word:   -1,
			Reason: fmt.Sprintf("timestamp %v is out of range", seconds),
		}
	}

	millis := int64(math.Round(seconds * 1000.0))

	hours := millis / millisPerHour
	millis %= millisPerHour

	minutes := millis / millisPerMinute
	millis %= millisPerMinute

	secs := millis / millisPerSecond
	millis %= millisPerSecond

	return fmt.Sprintf("%02d:%02d:%02d,%03d", hours, minutes, secs, millis), nil
}
