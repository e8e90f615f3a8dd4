package pg

import "context"

// logger is the slice of *slog.Logger that Migrate needs; keeping it an
// interface lets tests pass a recording fake.
type logger interface {
	InfoContext(ctx context.Context, msg string, args ...any)
	ErrorContext(ctx context.Context, msg string, args ...any)
}
