package logger

import (
	"context"
	"log/slog"
)

type fieldsKey struct{}

// With returns a context carrying fields on top of those already attached.
// Components tag their own logger with them through From.
func With(ctx context.Context, fields ...any) context.Context {
	if len(fields) == 0 {
		return ctx
	}
	prev := Fields(ctx)
	merged := make([]any, 0, len(prev)+len(fields))
	merged = append(merged, prev...)
	merged = append(merged, fields...)
	return context.WithValue(ctx, fieldsKey{}, merged)
}

// Fields returns the attributes attached to ctx, if any.
func Fields(ctx context.Context) []any {
	if ctx == nil {
		return nil
	}
	fields, _ := ctx.Value(fieldsKey{}).([]any)
	return fields
}

// From returns base tagged with the request fields carried by ctx. A nil base
// falls back to the process logger.
func From(ctx context.Context, base *slog.Logger) *slog.Logger {
	if base == nil {
		base = LoggerWrapper()
	}
	fields := Fields(ctx)
	if len(fields) == 0 {
		return base
	}
	return base.With(fields...)
}
