package config_test

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tuanvumaihuynh/stockledger/internal/config"
)

func TestNew(t *testing.T) {
	config.DotEnvFile = filepath.Join(t.TempDir(), "missing.env")

	type Config struct {
		Log       config.Log
		HTTP      config.HTTP
		Inventory config.Inventory
		Notifier  config.Notifier
	}

	t.Run("Should apply defaults", func(t *testing.T) {
		cfg, err := config.New[Config]()
		require.NoError(t, err)

		assert.Equal(t, config.LogFormatJSON, cfg.Log.Format)
		assert.Equal(t, slog.LevelInfo, cfg.Log.Level)
		assert.Equal(t, uint32(8000), cfg.HTTP.Port)
		assert.Equal(t, []string{"*"}, cfg.HTTP.CorsAllowedOrigins)
		assert.Equal(t, 5*time.Second, cfg.HTTP.ShutdownTimeout)
		assert.Equal(t, 20, cfg.Inventory.LowStockThreshold)
		assert.Equal(t, 50, cfg.Inventory.HighDemandSold)
		assert.Equal(t, "0 8 * * *", cfg.Inventory.SweepSchedule)
		assert.Equal(t, 10*time.Second, cfg.Notifier.PushTimeout)
	})

	t.Run("Should read environment", func(t *testing.T) {
		t.Setenv("LOG_FORMAT", "text")
		t.Setenv("INVENTORY_LOW_STOCK_THRESHOLD", "5")

		cfg, err := config.New[Config]()
		require.NoError(t, err)

		assert.Equal(t, config.LogFormatText, cfg.Log.Format)
		assert.Equal(t, 5, cfg.Inventory.LowStockThreshold)
	})

	t.Run("Should load dotenv file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), ".env")
		require.NoError(t, os.WriteFile(path, []byte("NOTIFIER_PUSH_WEBHOOK_URL=http://push.local\n"), 0o600))
		config.DotEnvFile = path
		t.Cleanup(func() { _ = os.Unsetenv("NOTIFIER_PUSH_WEBHOOK_URL") })

		cfg, err := config.New[Config]()
		require.NoError(t, err)

		assert.Equal(t, "http://push.local", cfg.Notifier.PushWebhookURL)
	})

	t.Run("Should apply storage and transport defaults", func(t *testing.T) {
		t.Setenv("POSTGRES_HOST", "localhost")
		t.Setenv("POSTGRES_USER", "stockledger")
		t.Setenv("POSTGRES_PASSWORD", "secret")
		t.Setenv("POSTGRES_DB", "stockledger")
		t.Setenv("KAFKA_ADDRESSES", "kafka-0:9092,kafka-1:9092")

		type Infra struct {
			Postgres config.Postgres
			Kafka    config.Kafka
			Relay    config.Relay
			Otel     config.Otel
		}

		cfg, err := config.New[Infra]()
		require.NoError(t, err)

		assert.Equal(t, 5432, cfg.Postgres.Port)
		assert.Equal(t, "stockledger", cfg.Postgres.ApplicationName)
		assert.Equal(t, []string{"kafka-0:9092", "kafka-1:9092"}, cfg.Kafka.Addresses)
		assert.Equal(t, "stockledger-notifier", cfg.Kafka.Group)
		assert.Equal(t, 10*time.Second, cfg.Relay.ProduceTimeout)
		assert.Equal(t, "stockledger", cfg.Otel.ServiceName)
		assert.False(t, cfg.Otel.Enabled())
	})

	t.Run("Should require kafka addresses", func(t *testing.T) {
		type Infra struct {
			Kafka config.Kafka
		}

		_, err := config.New[Infra]()
		assert.Error(t, err)
	})

	t.Run("Should reject unknown log format", func(t *testing.T) {
		t.Setenv("LOG_FORMAT", "xml")

		_, err := config.New[Config]()
		assert.Error(t, err)
	})
}
