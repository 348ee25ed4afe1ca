package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/tuanvumaihuynh/stockledger/internal/apperr"
	"github.com/tuanvumaihuynh/stockledger/internal/model"
	"github.com/tuanvumaihuynh/stockledger/internal/storage/db"
)

type SupplierRepository interface {
	WithDB(db db.DB) SupplierRepository
	CreateSupplier(ctx context.Context, supplier model.Supplier) error
	GetSupplier(ctx context.Context, storeID, id string) (model.Supplier, error)
	// UpdateSupplier replaces every editable field of the supplier.
	UpdateSupplier(ctx context.Context, supplier model.Supplier) error
	DeleteSupplier(ctx context.Context, storeID, id string) error
	ListSuppliers(ctx context.Context, storeID string) ([]model.Supplier, error)
}

type supplierRepository struct {
	db db.DB
}

func NewSupplierRepository(db db.DB) SupplierRepository {
	return &supplierRepository{
		db: db,
	}
}

func (r supplierRepository) WithDB(db db.DB) SupplierRepository {
	return &supplierRepository{
		db: db,
	}
}

const supplierColumns = `id, store_id, name, contact, email, phone, address,
	products, rating, status, created_at, updated_at`

type supplierRow struct {
	ID        string         `db:"id"`
	StoreID   string         `db:"store_id"`
	Name      string         `db:"name"`
	Contact   string         `db:"contact"`
	Email     string         `db:"email"`
	Phone     string         `db:"phone"`
	Address   string         `db:"address"`
	Products  []string       `db:"products"`
	Rating    pgtype.Numeric `db:"rating"`
	Status    string         `db:"status"`
	CreatedAt time.Time      `db:"created_at"`
	UpdatedAt time.Time      `db:"updated_at"`
}

func (row supplierRow) toModel() model.Supplier {
	return model.Supplier{
		ID:        row.ID,
		StoreID:   row.StoreID,
		Name:      row.Name,
		Contact:   row.Contact,
		Email:     row.Email,
		Phone:     row.Phone,
		Address:   row.Address,
		Products:  row.Products,
		Rating:    fromNumeric(row.Rating),
		Status:    model.SupplierStatus(row.Status),
		CreatedAt: row.CreatedAt,
		UpdatedAt: row.UpdatedAt,
	}
}

func supplierArgs(supplier model.Supplier) (pgx.NamedArgs, error) {
	rating, err := toNumeric(supplier.Rating)
	if err != nil {
		return nil, fmt.Errorf("rating: %w", err)
	}

	products := supplier.Products
	if products == nil {
		products = []string{}
	}

	return pgx.NamedArgs{
		"id":         supplier.ID,
		"store_id":   supplier.StoreID,
		"name":       supplier.Name,
		"contact":    supplier.Contact,
		"email":      supplier.Email,
		"phone":      supplier.Phone,
		"address":    supplier.Address,
		"products":   products,
		"rating":     rating,
		"status":     string(supplier.Status),
		"created_at": supplier.CreatedAt,
		"updated_at": supplier.UpdatedAt,
	}, nil
}

func (r supplierRepository) CreateSupplier(ctx context.Context, supplier model.Supplier) error {
	args, err := supplierArgs(supplier)
	if err != nil {
		return fmt.Errorf("build supplier args: %w", err)
	}

	if _, err := r.db.Exec(ctx, `
		INSERT INTO suppliers (`+supplierColumns+`)
		VALUES (@id, @store_id, @name, @contact, @email, @phone, @address,
			@products, @rating, @status, @created_at, @updated_at)
	`, args); err != nil {
		return fmt.Errorf("insert supplier: %w", err)
	}

	return nil
}

func (r supplierRepository) GetSupplier(ctx context.Context, storeID, id string) (model.Supplier, error) {
	rows, err := r.db.Query(ctx, `
		SELECT `+supplierColumns+`
		FROM suppliers
		WHERE store_id = @store_id AND id = @id
	`, pgx.NamedArgs{
		"store_id": storeID,
		"id":       id,
	})
	if err != nil {
		return model.Supplier{}, fmt.Errorf("query supplier: %w", err)
	}

	row, err := pgx.CollectExactlyOneRow(rows, pgx.RowToStructByName[supplierRow])
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.Supplier{}, apperr.SupplierNotFoundErr
		}
		return model.Supplier{}, fmt.Errorf("collect supplier: %w", err)
	}

	return row.toModel(), nil
}

func (r supplierRepository) UpdateSupplier(ctx context.Context, supplier model.Supplier) error {
	args, err := supplierArgs(supplier)
	if err != nil {
		return fmt.Errorf("build supplier args: %w", err)
	}

	tag, err := r.db.Exec(ctx, `
		UPDATE suppliers
		SET
			name       = @name,
			contact    = @contact,
			email      = @email,
			phone      = @phone,
			address    = @address,
			products   = @products,
			rating     = @rating,
			status     = @status,
			updated_at = @updated_at
		WHERE store_id = @store_id AND id = @id
	`, args)
	if err != nil {
		return fmt.Errorf("update supplier: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.SupplierNotFoundErr
	}

	return nil
}

func (r supplierRepository) DeleteSupplier(ctx context.Context, storeID, id string) error {
	tag, err := r.db.Exec(ctx, `
		DELETE FROM suppliers
		WHERE store_id = @store_id AND id = @id
	`, pgx.NamedArgs{
		"store_id": storeID,
		"id":       id,
	})
	if err != nil {
		return fmt.Errorf("delete supplier: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.SupplierNotFoundErr
	}

	return nil
}

func (r supplierRepository) ListSuppliers(ctx context.Context, storeID string) ([]model.Supplier, error) {
	rows, err := r.db.Query(ctx, `
		SELECT `+supplierColumns+`
		FROM suppliers
		WHERE store_id = @store_id
		ORDER BY name, id
	`, pgx.NamedArgs{
		"store_id": storeID,
	})
	if err != nil {
		return nil, fmt.Errorf("query suppliers: %w", err)
	}

	supplierRows, err := pgx.CollectRows(rows, pgx.RowToStructByName[supplierRow])
	if err != nil {
		return nil, fmt.Errorf("collect suppliers: %w", err)
	}

	suppliers := make([]model.Supplier, 0, len(supplierRows))
	for _, row := range supplierRows {
		suppliers = append(suppliers, row.toModel())
	}

	return suppliers, nil
}
