package ledger

import (
	"context"

	"github.com/tuanvumaihuynh/stockledger/internal/model"
)

// Documents is the product document store the ledger works against.
//
// Get and Create are point operations outside any transaction. Transact runs
// fn in a single atomicity scope: reads through Tx lock the document until fn
// returns, and nothing written through Tx is visible unless fn returns nil.
type Documents interface {
	// Get returns apperr.ProductNotFoundErr when the product does not exist.
	Get(ctx context.Context, storeID, productID string) (model.Product, error)
	// Create returns apperr.ProductAlreadyExistsErr when the id is taken.
	Create(ctx context.Context, product model.Product) error
	Transact(ctx context.Context, fn func(ctx context.Context, tx Tx) error) error
}

// Tx is the transactional view of Documents.
type Tx interface {
	// Get reads and locks the product for the rest of the transaction.
	Get(ctx context.Context, storeID, productID string) (model.Product, error)
	// Put overwrites the mutable fields of a product read in the same transaction.
	Put(ctx context.Context, product model.Product) error
}
