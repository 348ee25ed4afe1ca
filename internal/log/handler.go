package log

import (
	"context"
	"log/slog"

	"go.opentelemetry.io/otel/trace"

	"github.com/tuanvumaihuynh/stockledger/internal/session"
	"github.com/tuanvumaihuynh/stockledger/pkg/correlationid"
)

var _ slog.Handler = enrichedHandler{}

// enrichedHandler adds the request-scoped values found in the record's
// context: correlation ID, the caller's user and store, and the active span.
type enrichedHandler struct {
	slog.Handler
}

func newEnrichedHandler(h slog.Handler) enrichedHandler {
	return enrichedHandler{Handler: h}
}

func (eh enrichedHandler) Handle(ctx context.Context, r slog.Record) error {
	r.AddAttrs(contextAttrs(ctx)...)
	return eh.Handler.Handle(ctx, r)
}

func (eh enrichedHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return newEnrichedHandler(eh.Handler.WithAttrs(attrs))
}

func (eh enrichedHandler) WithGroup(name string) slog.Handler {
	return newEnrichedHandler(eh.Handler.WithGroup(name))
}

func contextAttrs(ctx context.Context) []slog.Attr {
	if ctx == nil {
		return nil
	}

	attrs := make([]slog.Attr, 0, 5)

	if correlationID, ok := correlationid.FromContext(ctx); ok {
		attrs = append(attrs, slog.String("correlation_id", correlationID))
	}

	if sess, ok := session.FromContext(ctx); ok {
		attrs = append(attrs,
			slog.String("user_id", sess.UserID),
			slog.String("store_id", sess.StoreID),
		)
	}

	if spanCtx := trace.SpanContextFromContext(ctx); spanCtx.IsValid() {
		attrs = append(attrs,
			slog.String("trace_id", spanCtx.TraceID().String()),
			slog.String("span_id", spanCtx.SpanID().String()),
		)
	}

	return attrs
}
