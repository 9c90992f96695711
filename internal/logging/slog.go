package logging

import (
	"context"
	"io"
	"log/slog"
	"strings"
)

const redacted = "[REDACTED]"

// sensitiveKeys name attributes whose values must never reach a log sink.
var sensitiveKeys = map[string]struct{}{
	"key":        {},
	"iv":         {},
	"ciphertext": {},
	"plaintext":  {},
	"passphrase": {},
	"password":   {},
}

type SlogLogger struct {
	l *slog.Logger
}

func NewSlogLogger(l *slog.Logger) *SlogLogger {
	return &SlogLogger{l: l}
}

// NewJSON builds a JSON logger writing to w at the given level, with key
// material redacted.
func NewJSON(w io.Writer, level slog.Leveler) *SlogLogger {
	return NewSlogLogger(slog.New(slog.NewJSONHandler(w, handlerOptions(level))))
}

// NewText is NewJSON with the logfmt-style text handler.
func NewText(w io.Writer, level slog.Leveler) *SlogLogger {
	return NewSlogLogger(slog.New(slog.NewTextHandler(w, handlerOptions(level))))
}

// Discard returns a logger that drops everything.
func Discard() *SlogLogger {
	return NewText(io.Discard, slog.LevelError)
}

func handlerOptions(level slog.Leveler) *slog.HandlerOptions {
	return &slog.HandlerOptions{Level: level, ReplaceAttr: redact}
}

func redact(groups []string, a slog.Attr) slog.Attr {
	if _, ok := sensitiveKeys[strings.ToLower(a.Key)]; ok {
		return slog.String(a.Key, redacted)
	}
	return a
}

func (s *SlogLogger) Debug(ctx context.Context, msg string, args ...any) {
	s.l.DebugContext(ctx, msg, args...)
}

func (s *SlogLogger) Info(ctx context.Context, msg string, args ...any) {
	s.l.InfoContext(ctx, msg, args...)
}

func (s *SlogLogger) Warn(ctx context.Context, msg string, args ...any) {
	s.l.WarnContext(ctx, msg, args...)
}

func (s *SlogLogger) Error(ctx context.Context, msg string, args ...any) {
	s.l.ErrorContext(ctx, msg, args...)
}

func (s *SlogLogger) With(args ...any) Logger {
	return &SlogLogger{l: s.l.With(args...)}
}
