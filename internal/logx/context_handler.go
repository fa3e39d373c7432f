package logx

import (
	"context"
	"log/slog"
)

type contextKey struct{}

var attrsKey contextKey

// ContextHandler decorates a slog.Handler and appends to every record the
// attributes attached to the context with WithAttrs.
type ContextHandler struct {
	slog.Handler
}

// Handle implements slog.Handler.
func (h ContextHandler) Handle(ctx context.Context, record slog.Record) error {
	if attrs, ok := ctx.Value(attrsKey).([]slog.Attr); ok {
		record.AddAttrs(attrs...)
	}

	return h.Handler.Handle(ctx, record)
}

// WithAttrs attaches attributes to the context; they are added to every log
// record emitted with that context.
func WithAttrs(parent context.Context, attrs ...slog.Attr) context.Context {
	existing, _ := parent.Value(attrsKey).([]slog.Attr)

	merged := make([]slog.Attr, 0, len(existing)+len(attrs))
	merged = append(merged, existing...)
	merged = append(merged, attrs...)

	return context.WithValue(parent, attrsKey, merged)
}

var _ slog.Handler = ContextHandler{}
