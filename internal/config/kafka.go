package config

import "time"

type Kafka struct {
	Addresses []string `env:"KAFKA_ADDRESSES,required" envSeparator:","`
	ClientID  string   `env:"KAFKA_CLIENT_ID" envDefault:"stockledger"`

	// Group is only used by consumers. Each deployment of the notifier
	// shares one group so stock.low events are handled once.
	Group string `env:"KAFKA_GROUP" envDefault:"stockledger-notifier"`

	ProducerLinger time.Duration `env:"KAFKA_PRODUCER_LINGER" envDefault:"5ms"`
}
