package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/tuanvumaihuynh/stockledger/internal/apperr"
	"github.com/tuanvumaihuynh/stockledger/internal/config"
	"github.com/tuanvumaihuynh/stockledger/internal/event"
	"github.com/tuanvumaihuynh/stockledger/internal/ledger"
	"github.com/tuanvumaihuynh/stockledger/internal/model"
	"github.com/tuanvumaihuynh/stockledger/internal/repository"
	"github.com/tuanvumaihuynh/stockledger/pkg/ptr"
)

type RecordSaleParams struct {
	StoreID   string
	ProductID string
	Quantity  int
	// UnitPrice overrides the product's selling price when set.
	UnitPrice *decimal.Decimal
	Customer  string
}

type SaleService interface {
	// RecordSale takes the quantity out of stock, then logs the sale. A failed
	// log write does not put the stock back.
	RecordSale(ctx context.Context, params RecordSaleParams) (model.Sale, error)
	ListSales(ctx context.Context, storeID string) ([]model.Sale, error)
	// DeleteSale removes the log entry only; stock is not restored.
	DeleteSale(ctx context.Context, storeID, saleID string) error
}

type saleService struct {
	ledger   ledger.Ledger
	saleRepo repository.SaleRepository
	alerter  stockAlerter
}

func NewSaleService(
	cfg config.Inventory,
	logger *slog.Logger,
	ledger ledger.Ledger,
	saleRepo repository.SaleRepository,
	publisher event.Publisher,
) SaleService {
	return &saleService{
		ledger:   ledger,
		saleRepo: saleRepo,
		alerter: stockAlerter{
			logger:    logger,
			publisher: publisher,
			threshold: cfg.LowStockThreshold,
		},
	}
}

func (s *saleService) RecordSale(ctx context.Context, params RecordSaleParams) (model.Sale, error) {
	if params.Quantity <= 0 {
		return model.Sale{}, apperr.InvalidArgumentErr.WithMsg("quantity must be greater than 0")
	}

	product, err := s.ledger.AdjustStock(ctx, ledger.StockAdjustment{
		StoreID:   params.StoreID,
		ProductID: params.ProductID,
		ChangeQty: -params.Quantity,
		Changes: model.ProductChanges{
			AmountSoldDelta: params.Quantity,
		},
	})
	if err != nil {
		return model.Sale{}, fmt.Errorf("ledger adjust stock: %w", err)
	}

	// the decrement is committed; alert even if the sale log below fails
	s.alerter.afterAdjust(ctx, product, -params.Quantity)

	unitPrice := ptr.Deref(params.UnitPrice, product.EffectiveSellingPrice())

	id, err := uuid.NewV7()
	if err != nil {
		return model.Sale{}, fmt.Errorf("generate uuid v7: %w", err)
	}

	sale := model.Sale{
		ID:           id.String(),
		StoreID:      params.StoreID,
		ProductID:    product.ID,
		ProductName:  product.Name,
		Customer:     params.Customer,
		QuantitySold: params.Quantity,
		UnitPrice:    unitPrice,
		SalePrice:    unitPrice.Mul(decimal.NewFromInt(int64(params.Quantity))),
		CreatedAt:    time.Now(),
	}

	if err := s.saleRepo.CreateSale(ctx, sale); err != nil {
		return model.Sale{}, fmt.Errorf("sale repository create sale: %w", err)
	}

	return sale, nil
}

func (s *saleService) ListSales(ctx context.Context, storeID string) ([]model.Sale, error) {
	sales, err := s.saleRepo.ListSales(ctx, storeID, time.Time{})
	if err != nil {
		return nil, fmt.Errorf("sale repository list sales: %w", err)
	}

	return sales, nil
}

func (s *saleService) DeleteSale(ctx context.Context, storeID, saleID string) error {
	if err := s.saleRepo.DeleteSale(ctx, storeID, saleID); err != nil {
		return fmt.Errorf("sale repository delete sale: %w", err)
	}

	return nil
}
