package ledger_test

import (
	"context"
	"errors"
	"math"
	"sync"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tuanvumaihuynh/stockledger/internal/apperr"
	"github.com/tuanvumaihuynh/stockledger/internal/ledger"
	"github.com/tuanvumaihuynh/stockledger/internal/model"
	"github.com/tuanvumaihuynh/stockledger/internal/storage/memstore"
	"github.com/tuanvumaihuynh/stockledger/pkg/ptr"
)

const storeID = "store-1"

func seed(t *testing.T, docs *memstore.Products, products ...model.Product) {
	t.Helper()
	for _, p := range products {
		p.StoreID = storeID
		require.NoError(t, docs.Create(context.Background(), p))
	}
}

func stockOf(t *testing.T, docs *memstore.Products, productID string) int {
	t.Helper()
	p, err := docs.Get(context.Background(), storeID, productID)
	require.NoError(t, err)
	return p.Stock
}

func TestAdjustStock(t *testing.T) {
	ctx := context.Background()

	t.Run("Should decrement within stock", func(t *testing.T) {
		docs := memstore.NewProducts()
		seed(t, docs, model.Product{ID: "p1", Name: "Widget", Stock: 20, Price: decimal.NewFromInt(10)})
		l := ledger.New(docs)

		p, err := l.AdjustStock(ctx, ledger.StockAdjustment{StoreID: storeID, ProductID: "p1", ChangeQty: -5})
		require.NoError(t, err)
		assert.Equal(t, 15, p.Stock)
		assert.Equal(t, 15, stockOf(t, docs, "p1"))
	})

	t.Run("Should reject decrement beyond stock and keep it unchanged", func(t *testing.T) {
		docs := memstore.NewProducts()
		seed(t, docs, model.Product{ID: "p1", Name: "Widget", Stock: 3})
		l := ledger.New(docs)

		_, err := l.AdjustStock(ctx, ledger.StockAdjustment{
			StoreID:   storeID,
			ProductID: "p1",
			ChangeQty: -5,
			Changes:   model.ProductChanges{AmountSoldDelta: 5},
		})
		require.Error(t, err)
		assert.ErrorIs(t, err, apperr.InsufficientStockErr)

		var stockErr *ledger.InsufficientStockError
		require.True(t, errors.As(err, &stockErr))
		assert.Equal(t, "Widget", stockErr.ProductName)
		assert.Equal(t, 5, stockErr.Requested)
		assert.Equal(t, 3, stockErr.Available)

		p, err := docs.Get(ctx, storeID, "p1")
		require.NoError(t, err)
		assert.Equal(t, 3, p.Stock)
		assert.Equal(t, 0, p.AmountSold)
	})

	t.Run("Should allow selling the last unit", func(t *testing.T) {
		docs := memstore.NewProducts()
		seed(t, docs, model.Product{ID: "p1", Stock: 4})
		l := ledger.New(docs)

		p, err := l.AdjustStock(ctx, ledger.StockAdjustment{StoreID: storeID, ProductID: "p1", ChangeQty: -4})
		require.NoError(t, err)
		assert.Equal(t, 0, p.Stock)
	})

	t.Run("Should fail on missing product", func(t *testing.T) {
		l := ledger.New(memstore.NewProducts())

		_, err := l.AdjustStock(ctx, ledger.StockAdjustment{StoreID: storeID, ProductID: "nope", ChangeQty: 1})
		assert.ErrorIs(t, err, apperr.ProductNotFoundErr)
	})

	t.Run("Should reject missing identifiers", func(t *testing.T) {
		l := ledger.New(memstore.NewProducts())

		_, err := l.AdjustStock(ctx, ledger.StockAdjustment{StoreID: storeID, ChangeQty: 1})
		assert.ErrorIs(t, err, apperr.InvalidArgumentErr)

		_, err = l.AdjustStock(ctx, ledger.StockAdjustment{ProductID: "p1", ChangeQty: 1})
		assert.ErrorIs(t, err, apperr.InvalidArgumentErr)
	})

	t.Run("Should reject decreasing counters", func(t *testing.T) {
		docs := memstore.NewProducts()
		seed(t, docs, model.Product{ID: "p1", Stock: 4, AmountSold: 2})
		l := ledger.New(docs)

		_, err := l.AdjustStock(ctx, ledger.StockAdjustment{
			StoreID:   storeID,
			ProductID: "p1",
			ChangeQty: 1,
			Changes:   model.ProductChanges{AmountSoldDelta: -1},
		})
		assert.ErrorIs(t, err, apperr.InvalidArgumentErr)
	})

	t.Run("Should merge changes with the adjustment", func(t *testing.T) {
		docs := memstore.NewProducts()
		seed(t, docs, model.Product{ID: "p1", Stock: 10, AmountSold: 1, Price: decimal.NewFromInt(2)})
		l := ledger.New(docs)

		p, err := l.AdjustStock(ctx, ledger.StockAdjustment{
			StoreID:   storeID,
			ProductID: "p1",
			ChangeQty: -2,
			Changes: model.ProductChanges{
				AmountSoldDelta: 2,
				SellingPrice:    ptr.New(decimal.NewFromInt(3)),
			},
		})
		require.NoError(t, err)
		assert.Equal(t, 8, p.Stock)
		assert.Equal(t, 3, p.AmountSold)
		assert.True(t, p.EffectiveSellingPrice().Equal(decimal.NewFromInt(3)))
		assert.False(t, p.UpdatedAt.IsZero())
	})

	t.Run("Should treat a negative stored stock as zero", func(t *testing.T) {
		docs := memstore.NewProducts()
		seed(t, docs, model.Product{ID: "p1", Stock: -2})
		l := ledger.New(docs)

		_, err := l.AdjustStock(ctx, ledger.StockAdjustment{StoreID: storeID, ProductID: "p1", ChangeQty: -1})
		assert.ErrorIs(t, err, apperr.InsufficientStockErr)

		p, err := l.AdjustStock(ctx, ledger.StockAdjustment{StoreID: storeID, ProductID: "p1", ChangeQty: 1})
		require.NoError(t, err)
		assert.Equal(t, 1, p.Stock)
	})

	t.Run("Should commute same-sign increments", func(t *testing.T) {
		for _, order := range [][]int{{5, 3}, {3, 5}} {
			docs := memstore.NewProducts()
			seed(t, docs, model.Product{ID: "p1", Stock: 10})
			l := ledger.New(docs)

			for _, qty := range order {
				_, err := l.AdjustStock(ctx, ledger.StockAdjustment{StoreID: storeID, ProductID: "p1", ChangeQty: qty})
				require.NoError(t, err)
			}
			assert.Equal(t, 18, stockOf(t, docs, "p1"))
		}
	})

	t.Run("Should never go negative over a sequence", func(t *testing.T) {
		docs := memstore.NewProducts()
		seed(t, docs, model.Product{ID: "p1", Stock: 5})
		l := ledger.New(docs)

		for _, qty := range []int{-3, -4, 2, -1, -6, 10, -9, -1, -1} {
			_, err := l.AdjustStock(ctx, ledger.StockAdjustment{StoreID: storeID, ProductID: "p1", ChangeQty: qty})
			if err != nil {
				require.ErrorIs(t, err, apperr.InsufficientStockErr)
			}
			require.GreaterOrEqual(t, stockOf(t, docs, "p1"), 0)
		}
		assert.Equal(t, 2, stockOf(t, docs, "p1"))
	})
}

func TestAdjustStockBounds(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name      string
		stock     int
		changeQty int
		changes   model.ProductChanges
	}{
		{name: "smallest int decrement", stock: 10, changeQty: math.MinInt},
		{name: "largest int restock", stock: 10, changeQty: math.MaxInt},
		{name: "decrement below the stock limit", stock: 10, changeQty: -ledger.MaxStock - 1},
		{name: "restock past the stock limit", stock: 10, changeQty: ledger.MaxStock - 9},
		{name: "counter past the limit", stock: 10, changeQty: 1, changes: model.ProductChanges{AmountBoughtDelta: math.MaxInt}},
	}

	for _, tt := range tests {
		t.Run("Should reject "+tt.name+" and keep stock", func(t *testing.T) {
			docs := memstore.NewProducts()
			seed(t, docs, model.Product{ID: "p1", Name: "Widget", Stock: tt.stock})
			l := ledger.New(docs)

			_, err := l.AdjustStock(ctx, ledger.StockAdjustment{
				StoreID:   storeID,
				ProductID: "p1",
				ChangeQty: tt.changeQty,
				Changes:   tt.changes,
			})
			assert.ErrorIs(t, err, apperr.InvalidArgumentErr)
			assert.Equal(t, tt.stock, stockOf(t, docs, "p1"))
		})
	}

	t.Run("Should restock up to the limit", func(t *testing.T) {
		docs := memstore.NewProducts()
		seed(t, docs, model.Product{ID: "p1", Stock: 10})
		l := ledger.New(docs)

		p, err := l.AdjustStock(ctx, ledger.StockAdjustment{StoreID: storeID, ProductID: "p1", ChangeQty: ledger.MaxStock - 10})
		require.NoError(t, err)
		assert.Equal(t, ledger.MaxStock, p.Stock)
	})

	t.Run("Should reject a purchase quantity past the limit", func(t *testing.T) {
		docs := memstore.NewProducts()
		l := ledger.New(docs)

		_, err := l.EnsureAndAdjust(ctx, storeID, ledger.EnsureProduct{ID: "p1", Quantity: math.MaxInt})
		assert.ErrorIs(t, err, apperr.InvalidArgumentErr)
		assert.Empty(t, docs.List(storeID))
	})
}

func TestAdjustStockConcurrent(t *testing.T) {
	ctx := context.Background()

	t.Run("Should let exactly one of two sales take the last unit", func(t *testing.T) {
		for range 50 {
			docs := memstore.NewProducts()
			seed(t, docs, model.Product{ID: "p1", Name: "Widget", Stock: 1})
			l := ledger.New(docs)

			var wg sync.WaitGroup
			errs := make([]error, 2)
			for i := range errs {
				wg.Go(func() {
					_, errs[i] = l.AdjustStock(ctx, ledger.StockAdjustment{
						StoreID:   storeID,
						ProductID: "p1",
						ChangeQty: -1,
						Changes:   model.ProductChanges{AmountSoldDelta: 1},
					})
				})
			}
			wg.Wait()

			successes, insufficient := 0, 0
			for _, err := range errs {
				switch {
				case err == nil:
					successes++
				case errors.Is(err, apperr.InsufficientStockErr):
					insufficient++
				default:
					t.Fatalf("unexpected error: %v", err)
				}
			}
			assert.Equal(t, 1, successes)
			assert.Equal(t, 1, insufficient)

			p, err := docs.Get(ctx, storeID, "p1")
			require.NoError(t, err)
			assert.Equal(t, 0, p.Stock)
			assert.Equal(t, 1, p.AmountSold)
		}
	})

	t.Run("Should not lose concurrent increments", func(t *testing.T) {
		docs := memstore.NewProducts()
		seed(t, docs, model.Product{ID: "p1", Stock: 0})
		l := ledger.New(docs)

		var wg sync.WaitGroup
		for range 20 {
			wg.Go(func() {
				_, err := l.AdjustStock(ctx, ledger.StockAdjustment{
					StoreID:   storeID,
					ProductID: "p1",
					ChangeQty: 2,
					Changes:   model.ProductChanges{AmountBoughtDelta: 2},
				})
				assert.NoError(t, err)
			})
		}
		wg.Wait()

		p, err := docs.Get(ctx, storeID, "p1")
		require.NoError(t, err)
		assert.Equal(t, 40, p.Stock)
		assert.Equal(t, 40, p.AmountBought)
	})
}

func TestEnsureAndAdjust(t *testing.T) {
	ctx := context.Background()

	t.Run("Should create a missing product with the purchased quantity", func(t *testing.T) {
		docs := memstore.NewProducts()
		l := ledger.New(docs)

		p, err := l.EnsureAndAdjust(ctx, storeID, ledger.EnsureProduct{
			ID:       "new1",
			Name:     "Widget",
			Price:    decimal.RequireFromString("9.5"),
			Quantity: 4,
		})
		require.NoError(t, err)

		stored, err := docs.Get(ctx, storeID, "new1")
		require.NoError(t, err)
		for _, got := range []model.Product{p, stored} {
			assert.Equal(t, "Widget", got.Name)
			assert.Equal(t, 4, got.Stock)
			assert.Equal(t, 4, got.AmountBought)
			assert.Equal(t, 0, got.AmountSold)
			assert.True(t, got.Price.Equal(decimal.RequireFromString("9.5")))
			assert.Nil(t, got.Supplier)
			assert.False(t, got.CreatedAt.IsZero())
		}
		assert.Len(t, docs.List(storeID), 1)
	})

	t.Run("Should restock an existing product", func(t *testing.T) {
		docs := memstore.NewProducts()
		seed(t, docs, model.Product{
			ID:           "p1",
			Name:         "Widget",
			Stock:        6,
			AmountBought: 10,
			AmountSold:   4,
			Price:        decimal.NewFromInt(8),
		})
		l := ledger.New(docs)

		p, err := l.EnsureAndAdjust(ctx, storeID, ledger.EnsureProduct{
			ID:       "p1",
			Name:     "Widget",
			Price:    decimal.NewFromInt(7),
			Quantity: 5,
			Supplier: ptr.New("Acme"),
		})
		require.NoError(t, err)
		assert.Equal(t, 11, p.Stock)
		assert.Equal(t, 15, p.AmountBought)
		assert.Equal(t, 4, p.AmountSold)
		assert.True(t, p.Price.Equal(decimal.NewFromInt(7)))
		require.NotNil(t, p.Supplier)
		assert.Equal(t, "Acme", *p.Supplier)
	})

	t.Run("Should keep the supplier when none is given", func(t *testing.T) {
		docs := memstore.NewProducts()
		seed(t, docs, model.Product{ID: "p1", Stock: 1, Supplier: ptr.New("Acme")})
		l := ledger.New(docs)

		p, err := l.EnsureAndAdjust(ctx, storeID, ledger.EnsureProduct{ID: "p1", Quantity: 1, Supplier: ptr.New("")})
		require.NoError(t, err)
		require.NotNil(t, p.Supplier)
		assert.Equal(t, "Acme", *p.Supplier)
	})

	t.Run("Should require a product id", func(t *testing.T) {
		docs := memstore.NewProducts()
		l := ledger.New(docs)

		_, err := l.EnsureAndAdjust(ctx, storeID, ledger.EnsureProduct{Name: "Widget", Quantity: 1})
		assert.ErrorIs(t, err, apperr.InvalidArgumentErr)
		assert.Empty(t, docs.List(storeID))
	})

	t.Run("Should reject negative quantity", func(t *testing.T) {
		l := ledger.New(memstore.NewProducts())

		_, err := l.EnsureAndAdjust(ctx, storeID, ledger.EnsureProduct{ID: "p1", Quantity: -1})
		assert.ErrorIs(t, err, apperr.InvalidArgumentErr)
	})

	t.Run("Should propagate store errors", func(t *testing.T) {
		boom := errors.New("store unreachable")
		l := ledger.New(failingDocs{err: boom})

		_, err := l.EnsureAndAdjust(ctx, storeID, ledger.EnsureProduct{ID: "p1", Quantity: 1})
		assert.ErrorIs(t, err, boom)

		_, err = l.AdjustStock(ctx, ledger.StockAdjustment{StoreID: storeID, ProductID: "p1", ChangeQty: 1})
		assert.ErrorIs(t, err, boom)
	})
}

// lockstepDocs holds every point Get until two have been made, so two
// callers both observe a missing product before either creates it.
type lockstepDocs struct {
	*memstore.Products
	arrived sync.WaitGroup
}

func newLockstepDocs() *lockstepDocs {
	d := &lockstepDocs{Products: memstore.NewProducts()}
	d.arrived.Add(2)
	return d
}

func (d *lockstepDocs) Get(ctx context.Context, storeID, productID string) (model.Product, error) {
	p, err := d.Products.Get(ctx, storeID, productID)
	d.arrived.Done()
	d.arrived.Wait()
	return p, err
}

func TestEnsureAndAdjustRace(t *testing.T) {
	docs := newLockstepDocs()
	l := ledger.New(docs)

	errs := make([]error, 2)
	var wg sync.WaitGroup
	for i := range errs {
		wg.Go(func() {
			_, errs[i] = l.EnsureAndAdjust(context.Background(), storeID, ledger.EnsureProduct{
				ID:       "p1",
				Name:     "Widget",
				Price:    decimal.NewFromInt(3),
				Quantity: 4,
			})
		})
	}
	wg.Wait()

	failed := 0
	for _, err := range errs {
		if err != nil {
			assert.ErrorIs(t, err, apperr.ProductAlreadyExistsErr)
			failed++
		}
	}
	assert.Equal(t, 1, failed)

	p, err := docs.Products.Get(context.Background(), storeID, "p1")
	require.NoError(t, err)
	assert.Equal(t, 4, p.Stock)
	assert.Equal(t, 4, p.AmountBought)
}

type failingDocs struct {
	err error
}

func (f failingDocs) Get(context.Context, string, string) (model.Product, error) {
	return model.Product{}, f.err
}

func (f failingDocs) Create(context.Context, model.Product) error {
	return f.err
}

func (f failingDocs) Transact(context.Context, func(context.Context, ledger.Tx) error) error {
	return f.err
}
