// Package outbox carries request context across the outbox table and Kafka.
package outbox

import (
	"context"

	"github.com/twmb/franz-go/pkg/kgo"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"

	"github.com/tuanvumaihuynh/stockledger/pkg/correlationid"
)

const (
	ContentTypeHeader = "Content-Type"
	ContentTypeJSON   = "application/json"
)

// BuildHeaders captures the trace context and correlation ID of ctx for an
// outbox row. Events raised outside a request, such as the scheduled
// low-stock sweep, get a fresh correlation ID.
func BuildHeaders(ctx context.Context) map[string]string {
	headers := map[string]string{
		ContentTypeHeader: ContentTypeJSON,
	}

	otel.GetTextMapPropagator().Inject(ctx, propagation.MapCarrier(headers))

	correlationID, ok := correlationid.FromContext(ctx)
	if !ok {
		correlationID = correlationid.New()
	}
	headers[correlationid.Header] = correlationID

	return headers
}

// ExtractContextFromHeaders restores what BuildHeaders captured.
func ExtractContextFromHeaders(ctx context.Context, headers map[string]string) context.Context {
	ctx = otel.GetTextMapPropagator().Extract(ctx, propagation.MapCarrier(headers))

	if correlationID, ok := headers[correlationid.Header]; ok && correlationID != "" {
		ctx = correlationid.NewContext(ctx, correlationID)
	}

	return ctx
}

// ContextFromRecord adds the record's correlation ID to ctx. Trace context is
// left alone since the kafka tracer already started a span from the headers.
func ContextFromRecord(ctx context.Context, rec *kgo.Record) context.Context {
	for _, header := range rec.Headers {
		if header.Key == correlationid.Header && len(header.Value) > 0 {
			return correlationid.NewContext(ctx, string(header.Value))
		}
	}
	return ctx
}
