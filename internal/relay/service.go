package relay

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/tuanvumaihuynh/stockledger/internal/config"
	"github.com/tuanvumaihuynh/stockledger/internal/repository"
	"github.com/tuanvumaihuynh/stockledger/internal/storage/db"
	"github.com/tuanvumaihuynh/stockledger/internal/storage/mq"
	"github.com/tuanvumaihuynh/stockledger/pkg/outbox"
	"github.com/tuanvumaihuynh/stockledger/pkg/ptr"
)

type Service struct {
	cfg           config.Relay
	logger        *slog.Logger
	db            db.DB
	outboxMsgRepo repository.OutboxMsgRepository
	mqProducer    mq.Producer

	lastPurge time.Time
	stopChan  chan struct{}
}

func NewService(
	cfg config.Relay,
	logger *slog.Logger,
	db db.DB,
	outboxMsgRepo repository.OutboxMsgRepository,
	mqProducer mq.Producer,
) *Service {
	return &Service{
		cfg:           cfg,
		logger:        logger.With(slog.String("service", "relay")),
		db:            db,
		outboxMsgRepo: outboxMsgRepo,
		mqProducer:    mqProducer,
		stopChan:      make(chan struct{}),
	}
}

type CleanupFunc func()

func (s *Service) Run(ctx context.Context) CleanupFunc {
	ctx, cancel := context.WithCancel(ctx)

	stoppedChan := make(chan struct{})
	go func() {
		defer close(stoppedChan)
		s.run(ctx)
	}()

	return func() {
		close(s.stopChan)
		select {
		case <-stoppedChan:
		case <-time.After(5 * time.Second):
			cancel()
		}
	}
}

func (s *Service) run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case <-s.stopChan:
			return
		case <-time.After(s.cfg.Interval):
			if _, err := s.relayOnce(ctx); err != nil {
				s.logger.ErrorContext(ctx, "error relaying outbox msgs", slog.Any("error", err))
			}
			s.maybePurge(ctx)
		}
	}
}

// maybePurge deletes processed rows older than the retention window, at most
// once per PurgeInterval.
func (s *Service) maybePurge(ctx context.Context) {
	if s.cfg.Retention <= 0 || time.Since(s.lastPurge) < s.cfg.PurgeInterval {
		return
	}
	s.lastPurge = time.Now()

	n, err := s.outboxMsgRepo.DeleteProcessedOutboxMsgs(ctx, repository.DeleteProcessedOutboxMsgsParams{
		ProcessedBefore: s.lastPurge.Add(-s.cfg.Retention),
	})
	if err != nil {
		s.logger.ErrorContext(ctx, "error purging outbox msgs", slog.Any("error", err))
		return
	}
	if n > 0 {
		s.logger.InfoContext(ctx, "purged processed outbox msgs", slog.Int64("count", n))
	}
}

// Drain relays batches until the outbox is empty and returns how many rows
// were handled. Rows that failed to produce count too; they are marked with
// their error and not picked up again.
func (s *Service) Drain(ctx context.Context) (int, error) {
	total := 0
	for {
		n, err := s.relayOnce(ctx)
		total += n
		if err != nil {
			return total, err
		}
		if n == 0 {
			return total, nil
		}
	}
}

func (s *Service) relayOnce(ctx context.Context) (int, error) {
	var n int
	err := s.db.WithTx(ctx, func(db db.DB) error {
		var err error
		n, err = s.relayBatch(ctx, db)
		return err
	})
	return n, err
}

// relayBatch ships one batch of unprocessed outbox messages. Rows stay locked
// by the transaction, so concurrent relays skip them.
func (s *Service) relayBatch(ctx context.Context, db db.DB) (int, error) {
	outboxMsgs, err := s.outboxMsgRepo.
		WithDB(db).
		ListUnprocessedOutboxMsgs(ctx, repository.ListUnprocessedOutboxMsgsParams{
			//nolint:gosec
			BatchSize: int32(s.cfg.BatchSize),
		})
	if err != nil {
		return 0, fmt.Errorf("list unprocessed outbox msgs: %w", err)
	}

	if len(outboxMsgs) == 0 {
		return 0, nil
	}

	s.logger.InfoContext(ctx, "relaying outbox msgs", slog.Int("count", len(outboxMsgs)))

	items := make([]repository.BulkUpdateOutboxMsgsItem, 0, len(outboxMsgs))
	var (
		mu sync.Mutex
		wg sync.WaitGroup
	)

	for _, msg := range outboxMsgs {
		wg.Go(func() {
			msgCtx, cancel := context.WithTimeout(outbox.ExtractContextFromHeaders(ctx, msg.Headers), s.cfg.ProduceTimeout)
			defer cancel()

			var msgErr *string
			if err := s.mqProducer.Produce(msgCtx, mq.ProduceMsg{
				Topic:        msg.Topic,
				Headers:      msg.Headers,
				Payload:      msg.Payload,
				PartitionKey: msg.PartitionKey,
			}); err != nil {
				s.logger.ErrorContext(msgCtx,
					"error producing message",
					slog.String("outbox_msg_id", msg.ID.String()),
					slog.String("topic", msg.Topic),
					slog.Any("error", err),
				)
				msgErr = ptr.New(err.Error())
			}

			mu.Lock()
			items = append(items, repository.BulkUpdateOutboxMsgsItem{
				ID:    msg.ID,
				Error: msgErr,
			})
			mu.Unlock()
		})
	}

	wg.Wait()

	if err := s.outboxMsgRepo.
		WithDB(db).
		BulkUpdateOutboxMsgs(ctx, repository.BulkUpdateOutboxMsgsParams{
			Items: items,
		}); err != nil {
		return 0, fmt.Errorf("bulk update outbox msgs: %w", err)
	}

	return len(items), nil
}
