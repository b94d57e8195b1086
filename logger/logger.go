// Package logger defines the logging abstraction used across tcpverify.
// Components log through the Logger interface so that applications embedding
// the harness can plug in their own logging framework; the default
// implementation is backed by log/slog.
package logger

// Level indicates the logging severity level.
type Level = int8

const (
	// DebugLevel logs are voluminous (per-segment events, state changes)
	// and are usually disabled outside scenario debugging.
	DebugLevel Level = iota - 1
	// InfoLevel is the default logging priority.
	InfoLevel
	// WarnLevel logs flag suspicious but non-fatal conditions.
	WarnLevel
	// ErrorLevel logs report failures that require attention.
	ErrorLevel
)

// Logger defines a common interface for structured logging with key-value
// pairs.
type Logger interface {
	// Debug logs a message at DebugLevel.
	Debug(msg string, keysAndValues ...any)
	// Info logs a message at InfoLevel.
	Info(msg string, keysAndValues ...any)
	// Warn logs a message at WarnLevel.
	Warn(msg string, keysAndValues ...any)
	// Error logs a message at ErrorLevel.
	Error(msg string, keysAndValues ...any)
	// With creates a child logger with additional structured context.
	// Key-values added to the child don't affect the parent, and vice versa.
	With(keysAndValues ...any) Logger
	// Level returns the minimum enabled level for this logger.
	Level() Level
	// SetLevel sets the minimum enabled level for this logger.
	SetLevel(level Level)
}
