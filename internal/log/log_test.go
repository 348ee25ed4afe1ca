package log_test

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tuanvumaihuynh/stockledger/internal/config"
	"github.com/tuanvumaihuynh/stockledger/internal/log"
	"github.com/tuanvumaihuynh/stockledger/internal/session"
	"github.com/tuanvumaihuynh/stockledger/pkg/correlationid"
)

func TestEnrichedLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := log.New(&buf, config.Log{Format: config.LogFormatJSON, Level: slog.LevelInfo})

	ctx := correlationid.NewContext(context.Background(), "corr-1")
	ctx = session.NewContext(ctx, session.Session{UserID: "u1", StoreID: "s1"})

	logger.InfoContext(ctx, "stock adjusted", slog.Int("stock", 15))

	var rec map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &rec))

	assert.Equal(t, "stock adjusted", rec["msg"])
	assert.Equal(t, "corr-1", rec["correlation_id"])
	assert.Equal(t, "u1", rec["user_id"])
	assert.Equal(t, "s1", rec["store_id"])
	assert.EqualValues(t, 15, rec["stock"])
	assert.NotContains(t, rec, "trace_id")
}

func TestTextLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := log.New(&buf, config.Log{Format: config.LogFormatText, Level: slog.LevelWarn})

	logger.Info("hidden")
	logger.Warn("shown")

	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "shown")
}

func TestServiceAttr(t *testing.T) {
	var buf bytes.Buffer
	logger := log.New(&buf, config.Log{Format: config.LogFormatJSON, Level: slog.LevelInfo, Service: "sl-relay"})

	logger.Info("relaying outbox msgs")

	var rec map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &rec))
	assert.Equal(t, "sl-relay", rec["service"])
}
