// Package logger implements a logging adapter using log/slog.
package logger

import (
	"io"
	"log/slog"
	"os"

	"github.com/weft-build/weft/internal/core/ports"
)

// Logger implements ports.Logger using log/slog. Nested loggers carry their
// full scope path as a single attribute, so every line written by a worker
// is attributable to its project without the worker knowing its position.
type Logger struct {
	base   *slog.Logger
	scoped *slog.Logger
	scope  string
}

// New creates a Logger writing human-readable output to stderr.
func New() ports.Logger {
	return NewWithWriter(os.Stderr)
}

// NewWithWriter creates a Logger writing to w. Used by tests and when the
// progress UI owns stderr.
func NewWithWriter(w io.Writer) ports.Logger {
	handler := slog.NewTextHandler(w, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	})
	base := slog.New(handler)
	return &Logger{base: base, scoped: base}
}

// Discard creates a Logger that drops everything.
func Discard() ports.Logger {
	return NewWithWriter(io.Discard)
}

// Info logs an informational message with optional key-value pairs.
func (l *Logger) Info(msg string, args ...any) {
	l.scoped.Info(msg, args...)
}

// Error logs an error.
func (l *Logger) Error(err error) {
	l.scoped.Error("operation failed", "error", err)
}

// Nested returns a child logger whose scope is this logger's scope extended
// by key.
func (l *Logger) Nested(key string) ports.Logger {
	scope := key
	if l.scope != "" {
		scope = l.scope + "/" + key
	}
	return &Logger{
		base:   l.base,
		scoped: l.base.With(slog.String("scope", scope)),
		scope:  scope,
	}
}
