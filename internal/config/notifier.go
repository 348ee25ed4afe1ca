package config

import "time"

type Notifier struct {
	PushWebhookURL   string        `env:"NOTIFIER_PUSH_WEBHOOK_URL"`
	PushWebhookToken string        `env:"NOTIFIER_PUSH_WEBHOOK_TOKEN"`
	PushTimeout      time.Duration `env:"NOTIFIER_PUSH_TIMEOUT" envDefault:"10s"`
}
