// Package log provides structured logging bound to run context.
//
// All diagnostics flow through this package. Logging is best-effort
// and never participates in control flow: no method returns an error.
package log

import (
	"io"
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Logger wraps zap with run context fields (dialect, harness version).
type Logger struct {
	zap *zap.Logger
}

// NewLogger creates a logger for one run, writing to os.Stderr.
// The dialect is attached to every entry.
func NewLogger(dialect string) *Logger {
	return newLoggerWithWriter(dialect, os.Stderr)
}

// Nop returns a logger that discards everything. Useful as a default
// for library callers that did not configure logging.
func Nop() *Logger {
	return &Logger{zap: zap.NewNop()}
}

// WithOutput returns a new logger writing to w instead. Used by tests
// to capture diagnostic output.
func (l *Logger) WithOutput(w io.Writer) *Logger {
	core := newCore(w)
	return &Logger{zap: l.zap.WithOptions(zap.WrapCore(func(zapcore.Core) zapcore.Core { return core }))}
}

func newCore(w io.Writer) zapcore.Core {
	encoderConfig := zapcore.EncoderConfig{
		TimeKey:     "timestamp",
		LevelKey:    "level",
		MessageKey:  "message",
		EncodeTime:  zapcore.RFC3339NanoTimeEncoder,
		EncodeLevel: zapcore.LowercaseLevelEncoder,
	}
	return zapcore.NewCore(
		zapcore.NewJSONEncoder(encoderConfig),
		zapcore.AddSync(w),
		zapcore.DebugLevel,
	)
}

func newLoggerWithWriter(dialect string, w io.Writer) *Logger {
	zapLogger := zap.New(newCore(w)).With(zap.String("dialect", dialect))
	return &Logger{zap: zapLogger}
}

// With returns a logger with additional bound fields.
func (l *Logger) With(fields map[string]any) *Logger {
	return &Logger{zap: l.zap.With(toZapFields(fields)...)}
}

// Debug logs a debug message with structured fields.
func (l *Logger) Debug(message string, fields map[string]any) {
	l.zap.Debug(message, toZapFields(fields)...)
}

// Info logs an info message with structured fields.
func (l *Logger) Info(message string, fields map[string]any) {
	l.zap.Info(message, toZapFields(fields)...)
}

// Warn logs a warning message with structured fields.
func (l *Logger) Warn(message string, fields map[string]any) {
	l.zap.Warn(message, toZapFields(fields)...)
}

// Error logs an error message with structured fields.
func (l *Logger) Error(message string, fields map[string]any) {
	l.zap.Error(message, toZapFields(fields)...)
}

func toZapFields(fields map[string]any) []zap.Field {
	if len(fields) == 0 {
		return nil
	}
	zf := make([]zap.Field, 0, len(fields))
	for k, v := range fields {
		zf = append(zf, zap.Any(k, v))
	}
	return zf
}
