package config

import "time"

type Relay struct {
	BatchSize uint32        `env:"RELAY_BATCH_SIZE" envDefault:"100"`
	Interval  time.Duration `env:"RELAY_INTERVAL" envDefault:"1s"`

	// ProduceTimeout bounds a single outbox row's trip to Kafka so one stuck
	// partition cannot hold the batch transaction open.
	ProduceTimeout time.Duration `env:"RELAY_PRODUCE_TIMEOUT" envDefault:"10s"`

	// Retention is how long processed rows are kept for inspection. Zero
	// keeps them forever.
	Retention     time.Duration `env:"RELAY_RETENTION" envDefault:"168h"`
	PurgeInterval time.Duration `env:"RELAY_PURGE_INTERVAL" envDefault:"1h"`
}
