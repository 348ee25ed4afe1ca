package event

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/tuanvumaihuynh/stockledger/internal/model"
	"github.com/tuanvumaihuynh/stockledger/internal/storage/mq"
)

// Notifier stores an in-app notification for the owner of a store.
type Notifier interface {
	NotifyStoreOwner(ctx context.Context, storeID, title, body string, category model.NotificationCategory) (model.Notification, error)
}

// Pusher forwards a stored notification to an external push channel.
type Pusher interface {
	Push(ctx context.Context, notification model.Notification) error
}

// Service is the event service.
type Service struct {
	logger     *slog.Logger
	mqConsumer mq.Consumer
	notifier   Notifier
	pusher     Pusher
}

// New creates a new event service. pusher may be nil.
func New(
	logger *slog.Logger,
	mqConsumer mq.Consumer,
	notifier Notifier,
	pusher Pusher,
) *Service {
	return &Service{
		logger:     logger.With(slog.String("service", "event")),
		mqConsumer: mqConsumer,
		notifier:   notifier,
		pusher:     pusher,
	}
}

type CleanupFunc func()

func (s *Service) Run(ctx context.Context) (CleanupFunc, error) {
	if err := s.RegisterHandlers(); err != nil {
		return nil, err
	}

	mqCleanup, err := s.mqConsumer.Run(ctx)
	if err != nil {
		return nil, fmt.Errorf("run mq consumer: %w", err)
	}

	cleanup := func() {
		mqCleanup()
	}

	return cleanup, nil
}

func (s *Service) RegisterHandlers() error {
	if err := s.mqConsumer.RegisterHandler(
		TopicProductCreated,
		func(ctx context.Context, topic string, payload []byte) error {
			var ev ProductCreatedEvent
			if err := json.Unmarshal(payload, &ev); err != nil {
				return fmt.Errorf("unmarshal product created event: %w", err)
			}

			if err := s.handleProductCreatedEvent(ctx, ev); err != nil {
				return fmt.Errorf("handle product created event: %w", err)
			}

			return nil
		},
	); err != nil {
		return fmt.Errorf("register product created event handler: %w", err)
	}

	if err := s.mqConsumer.RegisterHandler(
		TopicStockLow,
		func(ctx context.Context, topic string, payload []byte) error {
			var ev StockLowEvent
			if err := json.Unmarshal(payload, &ev); err != nil {
				return fmt.Errorf("unmarshal stock low event: %w", err)
			}

			if err := s.handleStockLowEvent(ctx, ev); err != nil {
				return fmt.Errorf("handle stock low event: %w", err)
			}

			return nil
		},
	); err != nil {
		return fmt.Errorf("register stock low event handler: %w", err)
	}

	return nil
}
