package mq

import (
	"github.com/twmb/franz-go/plugin/kotel"
	"go.opentelemetry.io/otel"
)

var tracer = otel.Tracer("internal/storage/mq")

// kTracer injects trace context into produced record headers and starts a
// process span per consumed record, so a stock.low alert handled by the
// notifier joins the trace of the HTTP request that drained the stock.
var kTracer = kotel.NewTracer(
	kotel.TracerProvider(otel.GetTracerProvider()),
	kotel.TracerPropagator(otel.GetTextMapPropagator()),
)
