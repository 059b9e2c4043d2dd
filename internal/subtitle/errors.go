package subtitle

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidInput marks values that are present but out of range, such as
	// a negative timestamp or a word ending before it starts.
	ErrInvalidInput = errors.New("invalid input")

	// ErrMalformedInput marks a result or word missing a required field.
	ErrMalformedInput = errors.New("malformed input")
)

// InputError locates a rejected value inside the recognizer output.
// Result and Word are zero-based; -1 means the position does not apply.
type InputError struct {
	Kind   error
	Result int
	Word   int
	Reason string
}

func (e *InputError) Error() string {
	switch {
	case e.Result >= 0 && e.Word >= 0:
		return fmt.Sprintf("%v: result %d, word %d: %s", e.Kind, e.Result, e.Word, e.Reason)
	case e.Result >= 0:
		return fmt.Sprintf("%v: result %d: %s", e.Kind, e.Result, e.Reason)
	default:
		return fmt.Sprintf("%v: %s", e.Kind, e.Reason)
	}
}

func (e *InputError) Unwrap() error {
	return e.Kind
}

func invalidWord(result, word int, format string, args ...any) error {
	return &InputError{
		Kind:   ErrInvalidInput,
		Result: result,
		Word:   word,
		Reason: fmt.Sprintf(format, args...),
	}
}

// MalformedWord reports a word missing a required field. Producers that
// decode recognizer output use it so callers see one error type.
func MalformedWord(result, word int, format string, args ...any) error {
	return &InputError{
		Kind:   ErrMalformedInput,
		Result: result,
		Word:   word,
		Reason: fmt.Sprintf(format, args...),
	}
}

// MalformedResult reports a recognition result that cannot be read.
func MalformedResult(result int, format string, args ...any) error {
	return &InputError{
		Kind:   ErrMalformedInput,
		Result: result,
		Word:   -1,
		Reason: fmt.Sprintf(format, args...),
	}
}
