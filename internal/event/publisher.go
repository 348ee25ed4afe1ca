package event

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/tuanvumaihuynh/stockledger/internal/repository"
	"github.com/tuanvumaihuynh/stockledger/internal/storage/db"
	"github.com/tuanvumaihuynh/stockledger/pkg/outbox"
)

type Message struct {
	Topic string
	// Key keeps messages of the same entity on one partition. Empty means no key.
	Key     string
	Payload any
}

// Publisher records events for delivery.
type Publisher interface {
	// WithDB returns a publisher writing through db, typically a transaction.
	WithDB(db db.DB) Publisher
	Publish(ctx context.Context, msg Message) error
}

var _ Publisher = (*OutboxPublisher)(nil)

// OutboxPublisher writes events to the outbox table; the relay ships them to Kafka.
type OutboxPublisher struct {
	outboxMsgRepo repository.OutboxMsgRepository
}

func NewOutboxPublisher(outboxMsgRepo repository.OutboxMsgRepository) *OutboxPublisher {
	return &OutboxPublisher{
		outboxMsgRepo: outboxMsgRepo,
	}
}

func (p *OutboxPublisher) WithDB(db db.DB) Publisher {
	return &OutboxPublisher{
		outboxMsgRepo: p.outboxMsgRepo.WithDB(db),
	}
}

func (p *OutboxPublisher) Publish(ctx context.Context, msg Message) error {
	payload, err := json.Marshal(msg.Payload)
	if err != nil {
		return fmt.Errorf("marshal %s event: %w", msg.Topic, err)
	}

	var key *string
	if msg.Key != "" {
		key = &msg.Key
	}

	if err := p.outboxMsgRepo.CreateOutboxMsg(ctx, repository.CreateOutboxMsgParams{
		Topic:        msg.Topic,
		Headers:      outbox.BuildHeaders(ctx),
		Payload:      payload,
		PartitionKey: key,
	}); err != nil {
		return fmt.Errorf("outbox msg repository create outbox msg: %w", err)
	}

	return nil
}
