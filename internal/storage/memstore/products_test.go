package memstore_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tuanvumaihuynh/stockledger/internal/apperr"
	"github.com/tuanvumaihuynh/stockledger/internal/ledger"
	"github.com/tuanvumaihuynh/stockledger/internal/model"
	"github.com/tuanvumaihuynh/stockledger/internal/storage/memstore"
)

func TestProducts(t *testing.T) {
	ctx := context.Background()

	t.Run("Should create and get", func(t *testing.T) {
		s := memstore.NewProducts()
		require.NoError(t, s.Create(ctx, model.Product{ID: "p1", StoreID: "s1", Name: "Widget", Stock: 3}))

		p, err := s.Get(ctx, "s1", "p1")
		require.NoError(t, err)
		assert.Equal(t, 3, p.Stock)

		_, err = s.Get(ctx, "s2", "p1")
		assert.ErrorIs(t, err, apperr.ProductNotFoundErr)

		err = s.Create(ctx, model.Product{ID: "p1", StoreID: "s1"})
		assert.ErrorIs(t, err, apperr.ProductAlreadyExistsErr)
	})

	t.Run("Should discard writes of a failed transaction", func(t *testing.T) {
		s := memstore.NewProducts()
		require.NoError(t, s.Create(ctx, model.Product{ID: "p1", StoreID: "s1", Stock: 3}))

		boom := errors.New("boom")
		err := s.Transact(ctx, func(ctx context.Context, tx ledger.Tx) error {
			p, err := tx.Get(ctx, "s1", "p1")
			require.NoError(t, err)
			p.Stock = 100
			require.NoError(t, tx.Put(ctx, p))
			return boom
		})
		assert.ErrorIs(t, err, boom)

		p, err := s.Get(ctx, "s1", "p1")
		require.NoError(t, err)
		assert.Equal(t, 3, p.Stock)
	})

	t.Run("Should reject put without read", func(t *testing.T) {
		s := memstore.NewProducts()
		err := s.Transact(ctx, func(ctx context.Context, tx ledger.Tx) error {
			return tx.Put(ctx, model.Product{ID: "p1", StoreID: "s1"})
		})
		assert.Error(t, err)
	})

	t.Run("Should hold the document lock until commit", func(t *testing.T) {
		s := memstore.NewProducts()
		require.NoError(t, s.Create(ctx, model.Product{ID: "p1", StoreID: "s1"}))

		locked := make(chan struct{})
		release := make(chan struct{})
		done := make(chan error, 1)

		go func() {
			done <- s.Transact(ctx, func(ctx context.Context, tx ledger.Tx) error {
				if _, err := tx.Get(ctx, "s1", "p1"); err != nil {
					return err
				}
				close(locked)
				<-release
				return nil
			})
		}()
		<-locked

		waitCtx, cancel := context.WithTimeout(ctx, 50*time.Millisecond)
		defer cancel()
		err := s.Transact(waitCtx, func(ctx context.Context, tx ledger.Tx) error {
			_, err := tx.Get(ctx, "s1", "p1")
			return err
		})
		assert.ErrorIs(t, err, context.DeadlineExceeded)

		close(release)
		require.NoError(t, <-done)

		err = s.Transact(ctx, func(ctx context.Context, tx ledger.Tx) error {
			_, err := tx.Get(ctx, "s1", "p1")
			return err
		})
		assert.NoError(t, err)
	})

	t.Run("Should list by store ordered by name", func(t *testing.T) {
		s := memstore.NewProducts()
		require.NoError(t, s.Create(ctx, model.Product{ID: "b", StoreID: "s1", Name: "Bolt"}))
		require.NoError(t, s.Create(ctx, model.Product{ID: "a", StoreID: "s1", Name: "Anchor"}))
		require.NoError(t, s.Create(ctx, model.Product{ID: "c", StoreID: "s2", Name: "Chain"}))

		products := s.List("s1")
		require.Len(t, products, 2)
		assert.Equal(t, "Anchor", products[0].Name)
		assert.Equal(t, "Bolt", products[1].Name)
	})
}
