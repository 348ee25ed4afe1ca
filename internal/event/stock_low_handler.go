package event

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/tuanvumaihuynh/stockledger/internal/model"
)

// StockAlert builds the owner notification for a low-stock event.
func StockAlert(ev StockLowEvent) (title, body string, category model.NotificationCategory) {
	if ev.Stock <= 0 {
		return "Out of Stock",
			fmt.Sprintf("%s is out of stock (Stock: 0)", ev.Name),
			model.NotificationCategoryOutOfStock
	}
	return "Low Stock Alert",
		fmt.Sprintf("%s is running low (Stock: %d)", ev.Name, ev.Stock),
		model.NotificationCategoryLowStock
}

func (s *Service) handleStockLowEvent(ctx context.Context, ev StockLowEvent) error {
	title, body, category := StockAlert(ev)

	notification, err := s.notifier.NotifyStoreOwner(ctx, ev.StoreID, title, body, category)
	if err != nil {
		return fmt.Errorf("notify store owner: %w", err)
	}

	s.logger.InfoContext(ctx, "stock alert sent",
		slog.String("store_id", ev.StoreID),
		slog.String("product_id", ev.ProductID),
		slog.Int("stock", ev.Stock),
		slog.String("notification_id", notification.ID),
	)

	if s.pusher == nil {
		return nil
	}

	// The in-app notification is already stored; a failed push is only logged.
	if err := s.pusher.Push(ctx, notification); err != nil {
		s.logger.WarnContext(ctx, "error pushing stock alert",
			slog.String("notification_id", notification.ID),
			slog.Any("error", err),
		)
	}

	return nil
}
