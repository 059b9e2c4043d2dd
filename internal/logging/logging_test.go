package logging

import (
	"testing"

	"go.uber.org/zap/zapcore"
)

func TestNewLogger(t *testing.T) {
	for _, verbose := range []bool{false, true} {
		logger := NewLogger(verbose)
		if logger == nil || logger.SugaredLogger == nil {
			t.Fatalf("NewLogger(%v) returned nil logger", verbose)
		}

		enabled := logger.Desugar().Core().Enabled(zapcore.DebugLevel)
		if enabled != verbose {
			t.Errorf("NewLogger(%v): debug enabled = %v", verbose, enabled)
		}
	}
}

func TestNopAndClose(t *testing.T) {
	logger := Nop()
	logger.Infow("discarded", "key", "value")
	logger.Close()

	var nilLogger *Logger
	nilLogger.Close()
}
