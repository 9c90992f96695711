// Package logging is the structured logger used by the evidence server and
// CLI. Callers depend on Logger; the slog-backed implementation lives in
// slog.go.
package logging

import "context"

// Logger is a context-aware, structured logger. Args are key-value pairs:
//
//	log.Info(ctx, "evidence stored", "id", id, "report_id", reportID)
type Logger interface {
	Debug(ctx context.Context, msg string, args ...any)
	Info(ctx context.Context, msg string, args ...any)
	Warn(ctx context.Context, msg string, args ...any)
	Error(ctx context.Context, msg string, args ...any)

	// With returns a child logger that always includes the given pairs.
	With(args ...any) Logger
}
