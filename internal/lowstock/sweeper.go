// Package lowstock periodically emits stock.low for every product sitting in
// the low-stock band.
package lowstock

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/tuanvumaihuynh/stockledger/internal/config"
	"github.com/tuanvumaihuynh/stockledger/internal/event"
	"github.com/tuanvumaihuynh/stockledger/internal/model"
)

const sweepTimeout = 2 * time.Minute

// ProductLister lists products with 0 < stock < threshold across stores.
type ProductLister interface {
	ListLowStockProducts(ctx context.Context, threshold int) ([]model.Product, error)
}

type Sweeper struct {
	cfg       config.Inventory
	logger    *slog.Logger
	products  ProductLister
	publisher event.Publisher
	cron      *cron.Cron
}

func NewSweeper(
	cfg config.Inventory,
	logger *slog.Logger,
	products ProductLister,
	publisher event.Publisher,
) *Sweeper {
	return &Sweeper{
		cfg:       cfg,
		logger:    logger.With(slog.String("service", "lowstock")),
		products:  products,
		publisher: publisher,
		cron:      cron.New(),
	}
}

type CleanupFunc func()

// Run schedules the sweep. An empty schedule disables it.
func (s *Sweeper) Run(ctx context.Context) (CleanupFunc, error) {
	if s.cfg.SweepSchedule == "" {
		s.logger.InfoContext(ctx, "low stock sweep disabled")
		return func() {}, nil
	}

	if _, err := s.cron.AddFunc(s.cfg.SweepSchedule, func() {
		sweepCtx, cancel := context.WithTimeout(ctx, sweepTimeout)
		defer cancel()

		if _, err := s.Sweep(sweepCtx); err != nil {
			s.logger.ErrorContext(sweepCtx, "error sweeping low stock products", slog.Any("error", err))
		}
	}); err != nil {
		return nil, fmt.Errorf("schedule low stock sweep %q: %w", s.cfg.SweepSchedule, err)
	}

	s.cron.Start()

	return func() {
		<-s.cron.Stop().Done()
	}, nil
}

// Sweep publishes one stock.low event per low-stock product and returns how
// many were published. A failed publish is logged and the sweep continues.
func (s *Sweeper) Sweep(ctx context.Context) (int, error) {
	products, err := s.products.ListLowStockProducts(ctx, s.cfg.LowStockThreshold)
	if err != nil {
		return 0, fmt.Errorf("list low stock products: %w", err)
	}

	published := 0
	for _, p := range products {
		if err := s.publisher.Publish(ctx, event.Message{
			Topic: event.TopicStockLow,
			Key:   p.ID,
			Payload: event.StockLowEvent{
				StoreID:   p.StoreID,
				ProductID: p.ID,
				Name:      p.Name,
				Stock:     p.Stock,
				Threshold: s.cfg.LowStockThreshold,
			},
		}); err != nil {
			s.logger.ErrorContext(ctx, "error publishing stock low event",
				slog.String("product_id", p.ID),
				slog.Any("error", err),
			)
			continue
		}
		published++
	}

	s.logger.InfoContext(ctx, "low stock sweep done",
		slog.Int("products", len(products)),
		slog.Int("published", published),
	)

	return published, nil
}
