package telemetry_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"

	"github.com/tuanvumaihuynh/stockledger/internal/config"
	"github.com/tuanvumaihuynh/stockledger/internal/telemetry"
)

func TestInitTracerWithoutCollector(t *testing.T) {
	cleanup, err := telemetry.InitTracer(context.Background(), config.Otel{ServiceName: "stockledger"})
	require.NoError(t, err)
	require.NoError(t, cleanup(context.Background()))

	assert.ElementsMatch(t, []string{"traceparent", "tracestate", "baggage"}, otel.GetTextMapPropagator().Fields())
}
