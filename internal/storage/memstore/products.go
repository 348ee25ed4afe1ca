// Package memstore is an in-memory product document store.
//
// It gives the same guarantees as the PostgreSQL store: a transactional read
// locks the document until the transaction ends, and writes become visible
// only on commit.
package memstore

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"sync"

	"github.com/tuanvumaihuynh/stockledger/internal/apperr"
	"github.com/tuanvumaihuynh/stockledger/internal/ledger"
	"github.com/tuanvumaihuynh/stockledger/internal/model"
)

var (
	_ ledger.Documents = (*Products)(nil)
	_ ledger.Tx        = (*productsTx)(nil)
)

type docKey struct {
	storeID   string
	productID string
}

type Products struct {
	mu    sync.Mutex
	docs  map[docKey]model.Product
	locks map[docKey]chan struct{}
}

func NewProducts() *Products {
	return &Products{
		docs:  make(map[docKey]model.Product),
		locks: make(map[docKey]chan struct{}),
	}
}

func (s *Products) Get(_ context.Context, storeID, productID string) (model.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.docs[docKey{storeID, productID}]
	if !ok {
		return model.Product{}, apperr.ProductNotFoundErr
	}
	return clone(p), nil
}

func (s *Products) Create(_ context.Context, product model.Product) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	k := docKey{product.StoreID, product.ID}
	if _, ok := s.docs[k]; ok {
		return apperr.ProductAlreadyExistsErr
	}
	s.docs[k] = clone(product)
	return nil
}

// List returns the products of a store ordered by name.
func (s *Products) List(storeID string) []model.Product {
	s.mu.Lock()
	defer s.mu.Unlock()

	var products []model.Product
	for k, p := range s.docs {
		if k.storeID == storeID {
			products = append(products, clone(p))
		}
	}
	slices.SortFunc(products, func(a, b model.Product) int {
		return strings.Compare(a.Name, b.Name)
	})
	return products
}

func (s *Products) Transact(ctx context.Context, fn func(ctx context.Context, tx ledger.Tx) error) error {
	tx := &productsTx{
		store:  s,
		held:   make(map[docKey]chan struct{}),
		writes: make(map[docKey]model.Product),
	}
	defer tx.release()

	if err := fn(ctx, tx); err != nil {
		return err
	}

	tx.commit()
	return nil
}

func (s *Products) lockFor(k docKey) chan struct{} {
	s.mu.Lock()
	defer s.mu.Unlock()

	l, ok := s.locks[k]
	if !ok {
		l = make(chan struct{}, 1)
		s.locks[k] = l
	}
	return l
}

type productsTx struct {
	store  *Products
	held   map[docKey]chan struct{}
	writes map[docKey]model.Product
}

func (tx *productsTx) Get(ctx context.Context, storeID, productID string) (model.Product, error) {
	k := docKey{storeID, productID}
	if p, ok := tx.writes[k]; ok {
		return clone(p), nil
	}

	if _, ok := tx.held[k]; !ok {
		l := tx.store.lockFor(k)
		select {
		case l <- struct{}{}:
		case <-ctx.Done():
			return model.Product{}, fmt.Errorf("lock product %s: %w", productID, ctx.Err())
		}
		tx.held[k] = l
	}

	return tx.store.Get(ctx, storeID, productID)
}

func (tx *productsTx) Put(_ context.Context, product model.Product) error {
	k := docKey{product.StoreID, product.ID}
	if _, ok := tx.held[k]; !ok {
		return fmt.Errorf("put product %s: not read in this transaction", product.ID)
	}
	tx.writes[k] = clone(product)
	return nil
}

func (tx *productsTx) commit() {
	tx.store.mu.Lock()
	defer tx.store.mu.Unlock()

	for k, p := range tx.writes {
		tx.store.docs[k] = p
	}
}

func (tx *productsTx) release() {
	for _, l := range tx.held {
		<-l
	}
}

func clone(p model.Product) model.Product {
	if p.SellingPrice != nil {
		sp := *p.SellingPrice
		p.SellingPrice = &sp
	}
	if p.Supplier != nil {
		s := *p.Supplier
		p.Supplier = &s
	}
	return p
}
