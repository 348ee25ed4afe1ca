package repository

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/shopspring/decimal"

	"github.com/tuanvumaihuynh/stockledger/internal/apperr"
	"github.com/tuanvumaihuynh/stockledger/internal/model"
	"github.com/tuanvumaihuynh/stockledger/internal/storage/db"
)

type UpdateProductDetailsParams struct {
	StoreID      string
	ID           string
	Category     *string
	Price        *decimal.Decimal
	SellingPrice *decimal.Decimal
	Supplier     *string
	UpdatedAt    time.Time
}

type ProductRepository interface {
	WithDB(db db.DB) ProductRepository
	CreateProduct(ctx context.Context, product model.Product) error
	GetProduct(ctx context.Context, storeID, id string) (model.Product, error)
	// GetProductForUpdate locks the row until the surrounding transaction ends.
	GetProductForUpdate(ctx context.Context, storeID, id string) (model.Product, error)
	UpdateProductStock(ctx context.Context, product model.Product) error
	UpdateProductDetails(ctx context.Context, params UpdateProductDetailsParams) (model.Product, error)
	ListProducts(ctx context.Context, storeID string) ([]model.Product, error)
	// ListLowStockProducts lists products of every store with 0 < stock < threshold.
	ListLowStockProducts(ctx context.Context, threshold int) ([]model.Product, error)
}

type productRepository struct {
	db db.DB
}

func NewProductRepository(db db.DB) ProductRepository {
	return &productRepository{
		db: db,
	}
}

func (r productRepository) WithDB(db db.DB) ProductRepository {
	return &productRepository{
		db: db,
	}
}

const productColumns = `store_id, id, name, category, stock, price, selling_price,
	amount_bought, amount_sold, supplier, created_at, updated_at`

type productRow struct {
	StoreID      string         `db:"store_id"`
	ID           string         `db:"id"`
	Name         string         `db:"name"`
	Category     string         `db:"category"`
	Stock        int32          `db:"stock"`
	Price        pgtype.Numeric `db:"price"`
	SellingPrice pgtype.Numeric `db:"selling_price"`
	AmountBought int32          `db:"amount_bought"`
	AmountSold   int32          `db:"amount_sold"`
	Supplier     *string        `db:"supplier"`
	CreatedAt    time.Time      `db:"created_at"`
	UpdatedAt    time.Time      `db:"updated_at"`
}

func (row productRow) toModel() model.Product {
	return model.Product{
		ID:           row.ID,
		StoreID:      row.StoreID,
		Name:         row.Name,
		Category:     row.Category,
		Stock:        int(row.Stock),
		Price:        fromNumeric(row.Price),
		SellingPrice: fromNullNumeric(row.SellingPrice),
		AmountBought: int(row.AmountBought),
		AmountSold:   int(row.AmountSold),
		Supplier:     row.Supplier,
		CreatedAt:    row.CreatedAt,
		UpdatedAt:    row.UpdatedAt,
	}
}

func productArgs(product model.Product) (pgx.NamedArgs, error) {
	for _, v := range []int{product.Stock, product.AmountBought, product.AmountSold} {
		if v > math.MaxInt32 || v < math.MinInt32 {
			return nil, fmt.Errorf("counter out of range: %d", v)
		}
	}

	price, err := toNumeric(product.Price)
	if err != nil {
		return nil, fmt.Errorf("price: %w", err)
	}
	sellingPrice, err := toNullNumeric(product.SellingPrice)
	if err != nil {
		return nil, fmt.Errorf("selling price: %w", err)
	}

	return pgx.NamedArgs{
		"store_id":      product.StoreID,
		"id":            product.ID,
		"name":          product.Name,
		"category":      product.Category,
		"stock":         product.Stock,
		"price":         price,
		"selling_price": sellingPrice,
		"amount_bought": product.AmountBought,
		"amount_sold":   product.AmountSold,
		"supplier":      product.Supplier,
		"created_at":    product.CreatedAt,
		"updated_at":    product.UpdatedAt,
	}, nil
}

func (r productRepository) CreateProduct(ctx context.Context, product model.Product) error {
	args, err := productArgs(product)
	if err != nil {
		return fmt.Errorf("build product args: %w", err)
	}

	if _, err := r.db.Exec(ctx, `
		INSERT INTO products (`+productColumns+`)
		VALUES (@store_id, @id, @name, @category, @stock, @price, @selling_price,
			@amount_bought, @amount_sold, @supplier, @created_at, @updated_at)
	`, args); err != nil {
		if db.IsUniqueViolation(err) {
			return apperr.ProductAlreadyExistsErr.WrapParent(err)
		}
		return fmt.Errorf("insert product: %w", err)
	}

	return nil
}

func (r productRepository) GetProduct(ctx context.Context, storeID, id string) (model.Product, error) {
	return r.getProduct(ctx, `
		SELECT `+productColumns+`
		FROM products
		WHERE store_id = @store_id AND id = @id
	`, storeID, id)
}

func (r productRepository) GetProductForUpdate(ctx context.Context, storeID, id string) (model.Product, error) {
	return r.getProduct(ctx, `
		SELECT `+productColumns+`
		FROM products
		WHERE store_id = @store_id AND id = @id
		FOR UPDATE
	`, storeID, id)
}

func (r productRepository) getProduct(ctx context.Context, query, storeID, id string) (model.Product, error) {
	rows, err := r.db.Query(ctx, query, pgx.NamedArgs{
		"store_id": storeID,
		"id":       id,
	})
	if err != nil {
		return model.Product{}, fmt.Errorf("query product: %w", err)
	}

	row, err := pgx.CollectExactlyOneRow(rows, pgx.RowToStructByName[productRow])
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.Product{}, apperr.ProductNotFoundErr
		}
		return model.Product{}, fmt.Errorf("collect product: %w", err)
	}

	return row.toModel(), nil
}

func (r productRepository) UpdateProductStock(ctx context.Context, product model.Product) error {
	args, err := productArgs(product)
	if err != nil {
		return fmt.Errorf("build product args: %w", err)
	}

	tag, err := r.db.Exec(ctx, `
		UPDATE products
		SET
			stock         = @stock,
			price         = @price,
			selling_price = @selling_price,
			amount_bought = @amount_bought,
			amount_sold   = @amount_sold,
			supplier      = @supplier,
			updated_at    = @updated_at
		WHERE store_id = @store_id AND id = @id
	`, args)
	if err != nil {
		return fmt.Errorf("update product stock: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.ProductNotFoundErr
	}

	return nil
}

func (r productRepository) UpdateProductDetails(ctx context.Context, params UpdateProductDetailsParams) (model.Product, error) {
	var price pgtype.Numeric
	if params.Price != nil {
		n, err := toNumeric(*params.Price)
		if err != nil {
			return model.Product{}, fmt.Errorf("price: %w", err)
		}
		price = n
	}
	sellingPrice, err := toNullNumeric(params.SellingPrice)
	if err != nil {
		return model.Product{}, fmt.Errorf("selling price: %w", err)
	}

	rows, err := r.db.Query(ctx, `
		UPDATE products
		SET
			category      = COALESCE(@category::text, category),
			price         = COALESCE(@price::numeric, price),
			selling_price = COALESCE(@selling_price::numeric, selling_price),
			supplier      = COALESCE(@supplier::text, supplier),
			updated_at    = @updated_at
		WHERE store_id = @store_id AND id = @id
		RETURNING `+productColumns+`
	`, pgx.NamedArgs{
		"store_id":      params.StoreID,
		"id":            params.ID,
		"category":      params.Category,
		"price":         price,
		"selling_price": sellingPrice,
		"supplier":      params.Supplier,
		"updated_at":    params.UpdatedAt,
	})
	if err != nil {
		return model.Product{}, fmt.Errorf("update product details: %w", err)
	}

	row, err := pgx.CollectExactlyOneRow(rows, pgx.RowToStructByName[productRow])
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.Product{}, apperr.ProductNotFoundErr
		}
		return model.Product{}, fmt.Errorf("collect product: %w", err)
	}

	return row.toModel(), nil
}

func (r productRepository) ListProducts(ctx context.Context, storeID string) ([]model.Product, error) {
	return r.listProducts(ctx, `
		SELECT `+productColumns+`
		FROM products
		WHERE store_id = @store_id
		ORDER BY name, id
	`, pgx.NamedArgs{"store_id": storeID})
}

func (r productRepository) ListLowStockProducts(ctx context.Context, threshold int) ([]model.Product, error) {
	return r.listProducts(ctx, `
		SELECT `+productColumns+`
		FROM products
		WHERE stock > 0 AND stock < @threshold
		ORDER BY store_id, stock, id
	`, pgx.NamedArgs{"threshold": threshold})
}

func (r productRepository) listProducts(ctx context.Context, query string, args pgx.NamedArgs) ([]model.Product, error) {
	rows, err := r.db.Query(ctx, query, args)
	if err != nil {
		return nil, fmt.Errorf("query products: %w", err)
	}

	productRows, err := pgx.CollectRows(rows, pgx.RowToStructByName[productRow])
	if err != nil {
		return nil, fmt.Errorf("collect products: %w", err)
	}

	products := make([]model.Product, 0, len(productRows))
	for _, row := range productRows {
		products = append(products, row.toModel())
	}

	return products, nil
}
