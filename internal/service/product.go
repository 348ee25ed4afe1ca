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
	"github.com/tuanvumaihuynh/stockledger/internal/storage/db"
)

type CreateProductParams struct {
	StoreID      string
	Name         string
	Category     string
	Price        decimal.Decimal
	SellingPrice *decimal.Decimal
	Stock        int
	Supplier     *string
}

type UpdateProductDetailsParams struct {
	StoreID      string
	ProductID    string
	Category     *string
	Price        *decimal.Decimal
	SellingPrice *decimal.Decimal
	Supplier     *string
}

type AdjustStockParams struct {
	StoreID   string
	ProductID string
	ChangeQty int
}

type ProductService interface {
	CreateProduct(ctx context.Context, params CreateProductParams) (model.Product, error)
	ListProducts(ctx context.Context, storeID string) ([]model.Product, error)
	GetProduct(ctx context.Context, storeID, productID string) (model.Product, error)
	// UpdateProductDetails edits catalog fields. Stock is only changed through AdjustStock.
	UpdateProductDetails(ctx context.Context, params UpdateProductDetailsParams) (model.Product, error)
	AdjustStock(ctx context.Context, params AdjustStockParams) (model.Product, error)
}

type productService struct {
	db          db.DB
	ledger      ledger.Ledger
	productRepo repository.ProductRepository
	publisher   event.Publisher
	alerter     stockAlerter
}

func NewProductService(
	cfg config.Inventory,
	logger *slog.Logger,
	db db.DB,
	ledger ledger.Ledger,
	productRepo repository.ProductRepository,
	publisher event.Publisher,
) ProductService {
	return &productService{
		db:          db,
		ledger:      ledger,
		productRepo: productRepo,
		publisher:   publisher,
		alerter: stockAlerter{
			logger:    logger,
			publisher: publisher,
			threshold: cfg.LowStockThreshold,
		},
	}
}

func (s *productService) CreateProduct(ctx context.Context, params CreateProductParams) (model.Product, error) {
	if params.Stock < 0 {
		return model.Product{}, apperr.InvalidArgumentErr.WithMsg("stock cannot be negative")
	}

	id, err := uuid.NewV7()
	if err != nil {
		return model.Product{}, fmt.Errorf("generate uuid v7: %w", err)
	}

	now := time.Now()
	product := model.Product{
		ID:           id.String(),
		StoreID:      params.StoreID,
		Name:         params.Name,
		Category:     params.Category,
		Stock:        params.Stock,
		Price:        params.Price,
		SellingPrice: params.SellingPrice,
		Supplier:     params.Supplier,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	ev := event.ProductCreatedEvent{
		StoreID:   product.StoreID,
		ProductID: product.ID,
		Name:      product.Name,
		Category:  product.Category,
		Price:     product.Price,
		Stock:     product.Stock,
	}

	if err := s.db.WithTx(ctx, func(db db.DB) error {
		if err := s.productRepo.
			WithDB(db).
			CreateProduct(ctx, product); err != nil {
			return fmt.Errorf("product repository create product: %w", err)
		}

		if err := s.publisher.
			WithDB(db).
			Publish(ctx, event.Message{
				Topic:   event.TopicProductCreated,
				Key:     product.ID,
				Payload: ev,
			}); err != nil {
			return fmt.Errorf("publish product created event: %w", err)
		}

		return nil
	}); err != nil {
		return model.Product{}, fmt.Errorf("db with tx: %w", err)
	}

	return product, nil
}

func (s *productService) ListProducts(ctx context.Context, storeID string) ([]model.Product, error) {
	products, err := s.productRepo.ListProducts(ctx, storeID)
	if err != nil {
		return nil, fmt.Errorf("product repository list products: %w", err)
	}

	return products, nil
}

func (s *productService) GetProduct(ctx context.Context, storeID, productID string) (model.Product, error) {
	product, err := s.productRepo.GetProduct(ctx, storeID, productID)
	if err != nil {
		return model.Product{}, fmt.Errorf("product repository get product: %w", err)
	}

	return product, nil
}

func (s *productService) UpdateProductDetails(ctx context.Context, params UpdateProductDetailsParams) (model.Product, error) {
	product, err := s.productRepo.UpdateProductDetails(ctx, repository.UpdateProductDetailsParams{
		StoreID:      params.StoreID,
		ID:           params.ProductID,
		Category:     params.Category,
		Price:        params.Price,
		SellingPrice: params.SellingPrice,
		Supplier:     params.Supplier,
		UpdatedAt:    time.Now(),
	})
	if err != nil {
		return model.Product{}, fmt.Errorf("product repository update product details: %w", err)
	}

	return product, nil
}

func (s *productService) AdjustStock(ctx context.Context, params AdjustStockParams) (model.Product, error) {
	if params.ChangeQty == 0 {
		return model.Product{}, apperr.InvalidArgumentErr.WithMsg("change quantity cannot be zero")
	}

	product, err := s.ledger.AdjustStock(ctx, ledger.StockAdjustment{
		StoreID:   params.StoreID,
		ProductID: params.ProductID,
		ChangeQty: params.ChangeQty,
	})
	if err != nil {
		return model.Product{}, fmt.Errorf("ledger adjust stock: %w", err)
	}

	s.alerter.afterAdjust(ctx, product, params.ChangeQty)

	return product, nil
}
