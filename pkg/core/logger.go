package core

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
)

// nopHandler is a slog.Handler that discards every record. Enabled returns
// false so callers skip formatting entirely.
type nopHandler struct{}

func (nopHandler) Enabled(context.Context, slog.Level) bool  { return false }
func (nopHandler) Handle(context.Context, slog.Record) error { return nil }
func (nopHandler) WithAttrs([]slog.Attr) slog.Handler        { return nopHandler{} }
func (nopHandler) WithGroup(string) slog.Handler             { return nopHandler{} }

// SlogLogger implements Logger on top of a *slog.Logger. Printf messages are
// logged at the configured level with trailing newlines trimmed.
type SlogLogger struct {
	logger *slog.Logger
	level  slog.Level
}

// NewSlogLogger wraps l. A nil l yields a silent logger.
func NewSlogLogger(l *slog.Logger, level slog.Level) *SlogLogger {
	if l == nil {
		l = slog.New(nopHandler{})
	}
	return &SlogLogger{logger: l, level: level}
}

// NewWriterLogger creates a text logger writing to w.
func NewWriterLogger(w io.Writer, verbose bool) *SlogLogger {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	h := slog.NewTextHandler(w, &slog.HandlerOptions{Level: level})
	return NewSlogLogger(slog.New(h), slog.LevelInfo)
}

// NewNopLogger returns a logger that discards all output.
func NewNopLogger() *SlogLogger {
	return NewSlogLogger(nil, slog.LevelInfo)
}

// Printf implements Logger
func (l *SlogLogger) Printf(format string, args ...interface{}) {
	ctx := context.Background()
	if !l.logger.Enabled(ctx, l.level) {
		return
	}
	l.logger.Log(ctx, l.level, strings.TrimRight(fmt.Sprintf(format, args...), "\n"))
}

// Debug logs a structured record at debug level.
func (l *SlogLogger) Debug(msg string, args ...any) {
	l.logger.Debug(msg, args...)
}

// Warn logs a structured record at warn level.
func (l *SlogLogger) Warn(msg string, args ...any) {
	l.logger.Warn(msg, args...)
}

// Slog returns the underlying *slog.Logger.
func (l *SlogLogger) Slog() *slog.Logger {
	return l.logger
}
