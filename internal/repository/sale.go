package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/tuanvumaihuynh/stockledger/internal/apperr"
	"github.com/tuanvumaihuynh/stockledger/internal/model"
	"github.com/tuanvumaihuynh/stockledger/internal/storage/db"
)

type SaleRepository interface {
	WithDB(db db.DB) SaleRepository
	CreateSale(ctx context.Context, sale model.Sale) error
	// ListSales lists the sales of a store created at or after since, newest first.
	ListSales(ctx context.Context, storeID string, since time.Time) ([]model.Sale, error)
	DeleteSale(ctx context.Context, storeID, id string) error
}

type saleRepository struct {
	db db.DB
}

func NewSaleRepository(db db.DB) SaleRepository {
	return &saleRepository{
		db: db,
	}
}

func (r saleRepository) WithDB(db db.DB) SaleRepository {
	return &saleRepository{
		db: db,
	}
}

type saleRow struct {
	ID           string         `db:"id"`
	StoreID      string         `db:"store_id"`
	ProductID    string         `db:"product_id"`
	ProductName  string         `db:"product_name"`
	Customer     string         `db:"customer"`
	QuantitySold int32          `db:"quantity_sold"`
	UnitPrice    pgtype.Numeric `db:"unit_price"`
	SalePrice    pgtype.Numeric `db:"sale_price"`
	CreatedAt    time.Time      `db:"created_at"`
}

func (r saleRepository) CreateSale(ctx context.Context, sale model.Sale) error {
	unitPrice, err := toNumeric(sale.UnitPrice)
	if err != nil {
		return fmt.Errorf("unit price: %w", err)
	}
	salePrice, err := toNumeric(sale.SalePrice)
	if err != nil {
		return fmt.Errorf("sale price: %w", err)
	}

	if _, err := r.db.Exec(ctx, `
		INSERT INTO sales (id, store_id, product_id, product_name, customer,
			quantity_sold, unit_price, sale_price, created_at)
		VALUES (@id, @store_id, @product_id, @product_name, @customer,
			@quantity_sold, @unit_price, @sale_price, @created_at)
	`, pgx.NamedArgs{
		"id":            sale.ID,
		"store_id":      sale.StoreID,
		"product_id":    sale.ProductID,
		"product_name":  sale.ProductName,
		"customer":      sale.Customer,
		"quantity_sold": sale.QuantitySold,
		"unit_price":    unitPrice,
		"sale_price":    salePrice,
		"created_at":    sale.CreatedAt,
	}); err != nil {
		return fmt.Errorf("insert sale: %w", err)
	}

	return nil
}

func (r saleRepository) ListSales(ctx context.Context, storeID string, since time.Time) ([]model.Sale, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, store_id, product_id, product_name, customer,
			quantity_sold, unit_price, sale_price, created_at
		FROM sales
		WHERE store_id = @store_id AND created_at >= @since
		ORDER BY created_at DESC, id
	`, pgx.NamedArgs{
		"store_id": storeID,
		"since":    since,
	})
	if err != nil {
		return nil, fmt.Errorf("query sales: %w", err)
	}

	saleRows, err := pgx.CollectRows(rows, pgx.RowToStructByName[saleRow])
	if err != nil {
		return nil, fmt.Errorf("collect sales: %w", err)
	}

	sales := make([]model.Sale, 0, len(saleRows))
	for _, row := range saleRows {
		sales = append(sales, model.Sale{
			ID:           row.ID,
			StoreID:      row.StoreID,
			ProductID:    row.ProductID,
			ProductName:  row.ProductName,
			Customer:     row.Customer,
			QuantitySold: int(row.QuantitySold),
			UnitPrice:    fromNumeric(row.UnitPrice),
			SalePrice:    fromNumeric(row.SalePrice),
			CreatedAt:    row.CreatedAt,
		})
	}

	return sales, nil
}

func (r saleRepository) DeleteSale(ctx context.Context, storeID, id string) error {
	tag, err := r.db.Exec(ctx, `
		DELETE FROM sales
		WHERE store_id = @store_id AND id = @id
	`, pgx.NamedArgs{
		"store_id": storeID,
		"id":       id,
	})
	if err != nil {
		return fmt.Errorf("delete sale: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.SaleNotFoundErr
	}

	return nil
}
