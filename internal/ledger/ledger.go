// Package ledger owns every mutation of a product's stock level.
//
// Stock never goes negative: a decrement larger than the stock on hand fails
// with *InsufficientStockError and leaves the document untouched. The ledger
// emits no events; callers decide what to do with the committed product.
package ledger

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/shopspring/decimal"

	"github.com/tuanvumaihuynh/stockledger/internal/apperr"
	"github.com/tuanvumaihuynh/stockledger/internal/model"
)

// MaxStock is the largest stock or counter value a product can hold.
const MaxStock = math.MaxInt32

// StockAdjustment is a signed stock change plus the fields merged on success.
// A positive ChangeQty restocks, a negative one sells.
type StockAdjustment struct {
	StoreID   string
	ProductID string
	ChangeQty int
	Changes   model.ProductChanges
}

// EnsureProduct describes a catalog item being bought into a store.
type EnsureProduct struct {
	ID       string
	Name     string
	Price    decimal.Decimal
	Quantity int
	Supplier *string
}

type Ledger interface {
	// AdjustStock applies adj atomically and returns the committed product.
	AdjustStock(ctx context.Context, adj StockAdjustment) (model.Product, error)
	// EnsureAndAdjust creates the product when missing, then adds Quantity to
	// its stock and bought counter.
	EnsureAndAdjust(ctx context.Context, storeID string, product EnsureProduct) (model.Product, error)
}

type ledger struct {
	docs Documents
	now  func() time.Time
}

func New(docs Documents) Ledger {
	return &ledger{
		docs: docs,
		now:  time.Now,
	}
}

func (l *ledger) AdjustStock(ctx context.Context, adj StockAdjustment) (model.Product, error) {
	if adj.StoreID == "" || adj.ProductID == "" {
		return model.Product{}, apperr.InvalidArgumentErr.WithMsg("store id and product id are required")
	}
	if adj.Changes.AmountBoughtDelta < 0 || adj.Changes.AmountSoldDelta < 0 {
		return model.Product{}, apperr.InvalidArgumentErr.WithMsg("counters cannot decrease")
	}
	if adj.ChangeQty < -MaxStock || adj.ChangeQty > MaxStock ||
		adj.Changes.AmountBoughtDelta > MaxStock || adj.Changes.AmountSoldDelta > MaxStock {
		return model.Product{}, apperr.InvalidArgumentErr.WithMsgf("change quantity must be between %d and %d", -MaxStock, MaxStock)
	}

	var committed model.Product
	if err := l.docs.Transact(ctx, func(ctx context.Context, tx Tx) error {
		product, err := tx.Get(ctx, adj.StoreID, adj.ProductID)
		if err != nil {
			return fmt.Errorf("get product: %w", err)
		}

		next, err := applyAdjustment(product, adj.ChangeQty, adj.Changes)
		if err != nil {
			return err
		}
		next.UpdatedAt = l.now()

		if err := tx.Put(ctx, next); err != nil {
			return fmt.Errorf("put product: %w", err)
		}

		committed = next
		return nil
	}); err != nil {
		return model.Product{}, fmt.Errorf("adjust stock of %s: %w", adj.ProductID, err)
	}

	return committed, nil
}

func applyAdjustment(product model.Product, changeQty int, changes model.ProductChanges) (model.Product, error) {
	current := max(product.Stock, 0)

	if changeQty < 0 && current < -changeQty {
		return model.Product{}, &InsufficientStockError{
			ProductID:   product.ID,
			ProductName: product.Name,
			Requested:   -changeQty,
			Available:   current,
		}
	}

	if changeQty > 0 && current > MaxStock-changeQty {
		return model.Product{}, apperr.InvalidArgumentErr.WithMsgf(
			"stock of %s would exceed %d", product.ID, MaxStock)
	}
	if product.AmountBought > MaxStock-changes.AmountBoughtDelta ||
		product.AmountSold > MaxStock-changes.AmountSoldDelta {
		return model.Product{}, apperr.InvalidArgumentErr.WithMsgf(
			"counters of %s would exceed %d", product.ID, MaxStock)
	}

	next := changes.Apply(product)
	next.Stock = max(current+changeQty, 0)

	return next, nil
}

func (l *ledger) EnsureAndAdjust(ctx context.Context, storeID string, product EnsureProduct) (model.Product, error) {
	if storeID == "" {
		return model.Product{}, apperr.InvalidArgumentErr.WithMsg("store id is required")
	}
	if product.ID == "" {
		return model.Product{}, apperr.InvalidArgumentErr.WithMsgf(
			"missing product id for product: %s", product.Name)
	}
	if product.Quantity < 0 || product.Quantity > MaxStock {
		return model.Product{}, apperr.InvalidArgumentErr.WithMsgf("quantity must be between 0 and %d", MaxStock)
	}

	supplier := product.Supplier
	if supplier != nil && *supplier == "" {
		supplier = nil
	}

	if err := l.ensure(ctx, storeID, product, supplier); err != nil {
		return model.Product{}, err
	}

	price := product.Price
	adjusted, err := l.AdjustStock(ctx, StockAdjustment{
		StoreID:   storeID,
		ProductID: product.ID,
		ChangeQty: product.Quantity,
		Changes: model.ProductChanges{
			AmountBoughtDelta: product.Quantity,
			Price:             &price,
			Supplier:          supplier,
		},
	})
	if err != nil {
		return model.Product{}, err
	}

	return adjusted, nil
}

// ensure creates an empty product document when none exists. It is not part
// of the adjustment transaction, so two first purchases of the same item can
// race here; the losing Create fails with ProductAlreadyExists.
func (l *ledger) ensure(ctx context.Context, storeID string, product EnsureProduct, supplier *string) error {
	_, err := l.docs.Get(ctx, storeID, product.ID)
	if err == nil {
		return nil
	}
	if !errors.Is(err, apperr.ProductNotFoundErr) {
		return fmt.Errorf("get product %s: %w", product.ID, err)
	}

	now := l.now()
	if err := l.docs.Create(ctx, model.Product{
		ID:        product.ID,
		StoreID:   storeID,
		Name:      product.Name,
		Price:     product.Price,
		Supplier:  supplier,
		CreatedAt: now,
		UpdatedAt: now,
	}); err != nil {
		return fmt.Errorf("create product %s: %w", product.ID, err)
	}

	return nil
}
