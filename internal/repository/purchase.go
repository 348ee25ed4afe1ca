package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/tuanvumaihuynh/stockledger/internal/model"
	"github.com/tuanvumaihuynh/stockledger/internal/storage/db"
)

type PurchaseRepository interface {
	WithDB(db db.DB) PurchaseRepository
	CreatePurchase(ctx context.Context, purchase model.Purchase) error
	ListPurchases(ctx context.Context, storeID string) ([]model.Purchase, error)
}

type purchaseRepository struct {
	db db.DB
}

func NewPurchaseRepository(db db.DB) PurchaseRepository {
	return &purchaseRepository{
		db: db,
	}
}

func (r purchaseRepository) WithDB(db db.DB) PurchaseRepository {
	return &purchaseRepository{
		db: db,
	}
}

type purchaseRow struct {
	ID          string         `db:"id"`
	StoreID     string         `db:"store_id"`
	ProductID   string         `db:"product_id"`
	ProductName string         `db:"product_name"`
	Quantity    int32          `db:"quantity"`
	UnitPrice   pgtype.Numeric `db:"unit_price"`
	Supplier    *string        `db:"supplier"`
	CreatedAt   time.Time      `db:"created_at"`
}

func (r purchaseRepository) CreatePurchase(ctx context.Context, purchase model.Purchase) error {
	unitPrice, err := toNumeric(purchase.UnitPrice)
	if err != nil {
		return fmt.Errorf("unit price: %w", err)
	}

	if _, err := r.db.Exec(ctx, `
		INSERT INTO purchases (id, store_id, product_id, product_name, quantity,
			unit_price, supplier, created_at)
		VALUES (@id, @store_id, @product_id, @product_name, @quantity,
			@unit_price, @supplier, @created_at)
	`, pgx.NamedArgs{
		"id":           purchase.ID,
		"store_id":     purchase.StoreID,
		"product_id":   purchase.ProductID,
		"product_name": purchase.ProductName,
		"quantity":     purchase.Quantity,
		"unit_price":   unitPrice,
		"supplier":     purchase.Supplier,
		"created_at":   purchase.CreatedAt,
	}); err != nil {
		return fmt.Errorf("insert purchase: %w", err)
	}

	return nil
}

func (r purchaseRepository) ListPurchases(ctx context.Context, storeID string) ([]model.Purchase, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, store_id, product_id, product_name, quantity,
			unit_price, supplier, created_at
		FROM purchases
		WHERE store_id = @store_id
		ORDER BY created_at DESC, id
	`, pgx.NamedArgs{
		"store_id": storeID,
	})
	if err != nil {
		return nil, fmt.Errorf("query purchases: %w", err)
	}

	purchaseRows, err := pgx.CollectRows(rows, pgx.RowToStructByName[purchaseRow])
	if err != nil {
		return nil, fmt.Errorf("collect purchases: %w", err)
	}

	purchases := make([]model.Purchase, 0, len(purchaseRows))
	for _, row := range purchaseRows {
		purchases = append(purchases, model.Purchase{
			ID:          row.ID,
			StoreID:     row.StoreID,
			ProductID:   row.ProductID,
			ProductName: row.ProductName,
			Quantity:    int(row.Quantity),
			UnitPrice:   fromNumeric(row.UnitPrice),
			Supplier:    row.Supplier,
			CreatedAt:   row.CreatedAt,
		})
	}

	return purchases, nil
}
