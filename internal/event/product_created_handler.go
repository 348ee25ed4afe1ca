package event

import (
	"context"
	"log/slog"
)

func (s *Service) handleProductCreatedEvent(ctx context.Context, ev ProductCreatedEvent) error {
	s.logger.InfoContext(ctx, "handling product created event",
		slog.String("store_id", ev.StoreID),
		slog.String("product_id", ev.ProductID),
		slog.Int("stock", ev.Stock),
	)
	return nil
}
