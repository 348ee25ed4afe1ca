package service

import (
	"context"
	"log/slog"

	"github.com/tuanvumaihuynh/stockledger/internal/event"
	"github.com/tuanvumaihuynh/stockledger/internal/model"
)

// stockAlerter publishes stock.low after a committed decrement leaves a
// product below the threshold. Publishing failures never fail the caller.
type stockAlerter struct {
	logger    *slog.Logger
	publisher event.Publisher
	threshold int
}

func (a stockAlerter) afterAdjust(ctx context.Context, product model.Product, changeQty int) {
	if changeQty >= 0 || product.Stock >= a.threshold {
		return
	}

	if err := a.publisher.Publish(ctx, event.Message{
		Topic: event.TopicStockLow,
		Key:   product.ID,
		Payload: event.StockLowEvent{
			StoreID:   product.StoreID,
			ProductID: product.ID,
			Name:      product.Name,
			Stock:     product.Stock,
			Threshold: a.threshold,
		},
	}); err != nil {
		a.logger.ErrorContext(ctx, "error publishing stock low event",
			slog.String("product_id", product.ID),
			slog.Int("stock", product.Stock),
			slog.Any("error", err),
		)
	}
}
