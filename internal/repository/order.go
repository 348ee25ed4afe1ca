package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/tuanvumaihuynh/stockledger/internal/apperr"
	"github.com/tuanvumaihuynh/stockledger/internal/model"
	"github.com/tuanvumaihuynh/stockledger/internal/storage/db"
)

type UpdateOrderStatusParams struct {
	StoreID   string
	ID        string
	Status    model.OrderStatus
	UpdatedAt time.Time
}

type OrderRepository interface {
	WithDB(db db.DB) OrderRepository
	CreateOrder(ctx context.Context, order model.Order) error
	ListOrders(ctx context.Context, storeID string) ([]model.Order, error)
	UpdateOrderStatus(ctx context.Context, params UpdateOrderStatusParams) (model.Order, error)
}

type orderRepository struct {
	db db.DB
}

func NewOrderRepository(db db.DB) OrderRepository {
	return &orderRepository{
		db: db,
	}
}

func (r orderRepository) WithDB(db db.DB) OrderRepository {
	return &orderRepository{
		db: db,
	}
}

const orderColumns = `id, store_id, customer, email, items, total, status, created_at, updated_at`

type orderRow struct {
	ID        string         `db:"id"`
	StoreID   string         `db:"store_id"`
	Customer  string         `db:"customer"`
	Email     string         `db:"email"`
	Items     []byte         `db:"items"`
	Total     pgtype.Numeric `db:"total"`
	Status    string         `db:"status"`
	CreatedAt time.Time      `db:"created_at"`
	UpdatedAt time.Time      `db:"updated_at"`
}

func (row orderRow) toModel() (model.Order, error) {
	var items []model.OrderItem
	if err := json.Unmarshal(row.Items, &items); err != nil {
		return model.Order{}, fmt.Errorf("unmarshal items of order %s: %w", row.ID, err)
	}

	return model.Order{
		ID:        row.ID,
		StoreID:   row.StoreID,
		Customer:  row.Customer,
		Email:     row.Email,
		Items:     items,
		Total:     fromNumeric(row.Total),
		Status:    model.OrderStatus(row.Status),
		CreatedAt: row.CreatedAt,
		UpdatedAt: row.UpdatedAt,
	}, nil
}

func (r orderRepository) CreateOrder(ctx context.Context, order model.Order) error {
	items := order.Items
	if items == nil {
		items = []model.OrderItem{}
	}
	itemsBytes, err := json.Marshal(items)
	if err != nil {
		return fmt.Errorf("marshal items: %w", err)
	}

	total, err := toNumeric(order.Total)
	if err != nil {
		return fmt.Errorf("total: %w", err)
	}

	if _, err := r.db.Exec(ctx, `
		INSERT INTO orders (`+orderColumns+`)
		VALUES (@id, @store_id, @customer, @email, @items, @total, @status, @created_at, @updated_at)
	`, pgx.NamedArgs{
		"id":         order.ID,
		"store_id":   order.StoreID,
		"customer":   order.Customer,
		"email":      order.Email,
		"items":      itemsBytes,
		"total":      total,
		"status":     string(order.Status),
		"created_at": order.CreatedAt,
		"updated_at": order.UpdatedAt,
	}); err != nil {
		return fmt.Errorf("insert order: %w", err)
	}

	return nil
}

func (r orderRepository) ListOrders(ctx context.Context, storeID string) ([]model.Order, error) {
	rows, err := r.db.Query(ctx, `
		SELECT `+orderColumns+`
		FROM orders
		WHERE store_id = @store_id
		ORDER BY created_at DESC, id
	`, pgx.NamedArgs{
		"store_id": storeID,
	})
	if err != nil {
		return nil, fmt.Errorf("query orders: %w", err)
	}

	orderRows, err := pgx.CollectRows(rows, pgx.RowToStructByName[orderRow])
	if err != nil {
		return nil, fmt.Errorf("collect orders: %w", err)
	}

	orders := make([]model.Order, 0, len(orderRows))
	for _, row := range orderRows {
		order, err := row.toModel()
		if err != nil {
			return nil, err
		}
		orders = append(orders, order)
	}

	return orders, nil
}

func (r orderRepository) UpdateOrderStatus(ctx context.Context, params UpdateOrderStatusParams) (model.Order, error) {
	rows, err := r.db.Query(ctx, `
		UPDATE orders
		SET
			status     = @status,
			updated_at = @updated_at
		WHERE store_id = @store_id AND id = @id
		RETURNING `+orderColumns+`
	`, pgx.NamedArgs{
		"store_id":   params.StoreID,
		"id":         params.ID,
		"status":     string(params.Status),
		"updated_at": params.UpdatedAt,
	})
	if err != nil {
		return model.Order{}, fmt.Errorf("update order status: %w", err)
	}

	row, err := pgx.CollectExactlyOneRow(rows, pgx.RowToStructByName[orderRow])
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.Order{}, apperr.OrderNotFoundErr
		}
		return model.Order{}, fmt.Errorf("collect order: %w", err)
	}

	return row.toModel()
}
