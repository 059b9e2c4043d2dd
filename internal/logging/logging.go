package logging

import (
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Logger is the structured logger shared by the CLI commands.
type Logger struct {
	*zap.SugaredLogger
}

// NewLogger builds a console logger on stderr. Verbose lowers the level to
// debug and adds caller information.
func NewLogger(verbose bool) *Logger {
	level := zapcore.InfoLevel
	if verbose {
		level = zapcore.DebugLevel
	}

	encoderCfg := zap.NewDevelopmentEncoderConfig()
	encoderCfg.EncodeLevel = zapcore.CapitalColorLevelEncoder
	encoderCfg.EncodeTime = zapcore.TimeEncoderOfLayout("15:04:05")
	if !verbose {
		encoderCfg.CallerKey = ""
	}

	core := zapcore.NewCore(
		zapcore.NewConsoleEncoder(encoderCfg),
		zapcore.Lock(os.Stderr),
		zap.NewAtomicLevelAt(level),
	)

	opts := []zap.Option{}
	if verbose {
		opts = append(opts, zap.AddCaller())
	}

	return &Logger{SugaredLogger: zap.New(core, opts...).Sugar()}
}

// Nop discards everything; used by tests and library callers.
func Nop() *Logger {
	return &Logger{SugaredLogger: zap.NewNop().Sugar()}
}

// Close flushes buffered entries. Sync errors on terminals are ignored.
func (l *Logger) Close() {
	if l == nil || l.SugaredLogger == nil {
		return
	}
	_ = l.Sync()
}
