package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/tuanvumaihuynh/stockledger/internal/apperr"
	"github.com/tuanvumaihuynh/stockledger/internal/ledger"
	"github.com/tuanvumaihuynh/stockledger/internal/model"
	"github.com/tuanvumaihuynh/stockledger/internal/repository"
)

type PurchaseItem struct {
	ProductID string
	Name      string
	Price     decimal.Decimal
	Quantity  int
}

type RecordPurchaseParams struct {
	StoreID  string
	Supplier *string
	Items    []PurchaseItem
}

type PurchaseService interface {
	// RecordPurchase restocks every item in order and logs one purchase per
	// item. It stops at the first failing item; earlier items stay applied.
	RecordPurchase(ctx context.Context, params RecordPurchaseParams) ([]model.Purchase, error)
	ListPurchases(ctx context.Context, storeID string) ([]model.Purchase, error)
}

type purchaseService struct {
	ledger       ledger.Ledger
	purchaseRepo repository.PurchaseRepository
}

func NewPurchaseService(
	ledger ledger.Ledger,
	purchaseRepo repository.PurchaseRepository,
) PurchaseService {
	return &purchaseService{
		ledger:       ledger,
		purchaseRepo: purchaseRepo,
	}
}

func (s *purchaseService) RecordPurchase(ctx context.Context, params RecordPurchaseParams) ([]model.Purchase, error) {
	if len(params.Items) == 0 {
		return nil, apperr.InvalidArgumentErr.WithMsg("purchase has no items")
	}
	for i, item := range params.Items {
		if item.Quantity <= 0 {
			return nil, apperr.InvalidArgumentErr.WithMsgf(
				"item %d: quantity must be greater than 0", i)
		}
	}

	purchases := make([]model.Purchase, 0, len(params.Items))
	for i, item := range params.Items {
		product, err := s.ledger.EnsureAndAdjust(ctx, params.StoreID, ledger.EnsureProduct{
			ID:       item.ProductID,
			Name:     item.Name,
			Price:    item.Price,
			Quantity: item.Quantity,
			Supplier: params.Supplier,
		})
		if err != nil {
			return purchases, fmt.Errorf("item %d (%s): ledger ensure and adjust: %w", i, item.ProductID, err)
		}

		id, err := uuid.NewV7()
		if err != nil {
			return purchases, fmt.Errorf("generate uuid v7: %w", err)
		}

		purchase := model.Purchase{
			ID:          id.String(),
			StoreID:     params.StoreID,
			ProductID:   product.ID,
			ProductName: product.Name,
			Quantity:    item.Quantity,
			UnitPrice:   item.Price,
			Supplier:    product.Supplier,
			CreatedAt:   time.Now(),
		}
		if err := s.purchaseRepo.CreatePurchase(ctx, purchase); err != nil {
			return purchases, fmt.Errorf("item %d (%s): purchase repository create purchase: %w", i, item.ProductID, err)
		}

		purchases = append(purchases, purchase)
	}

	return purchases, nil
}

func (s *purchaseService) ListPurchases(ctx context.Context, storeID string) ([]model.Purchase, error) {
	purchases, err := s.purchaseRepo.ListPurchases(ctx, storeID)
	if err != nil {
		return nil, fmt.Errorf("purchase repository list purchases: %w", err)
	}

	return purchases, nil
}
