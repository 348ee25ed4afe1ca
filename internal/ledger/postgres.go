package ledger

import (
	"context"

	"github.com/tuanvumaihuynh/stockledger/internal/model"
	"github.com/tuanvumaihuynh/stockledger/internal/repository"
	"github.com/tuanvumaihuynh/stockledger/internal/storage/db"
)

var (
	_ Documents = (*pgDocuments)(nil)
	_ Tx        = (*pgTx)(nil)
)

// pgDocuments keeps products in PostgreSQL. Transactional reads use
// SELECT ... FOR UPDATE, which serializes adjustments of the same row.
type pgDocuments struct {
	db          db.DB
	productRepo repository.ProductRepository
}

func NewPostgresDocuments(db db.DB, productRepo repository.ProductRepository) Documents {
	return &pgDocuments{
		db:          db,
		productRepo: productRepo,
	}
}

func (d *pgDocuments) Get(ctx context.Context, storeID, productID string) (model.Product, error) {
	return d.productRepo.GetProduct(ctx, storeID, productID)
}

func (d *pgDocuments) Create(ctx context.Context, product model.Product) error {
	return d.productRepo.CreateProduct(ctx, product)
}

func (d *pgDocuments) Transact(ctx context.Context, fn func(ctx context.Context, tx Tx) error) error {
	return d.db.WithTx(ctx, func(db db.DB) error {
		return fn(ctx, &pgTx{productRepo: d.productRepo.WithDB(db)})
	})
}

type pgTx struct {
	productRepo repository.ProductRepository
}

func (t *pgTx) Get(ctx context.Context, storeID, productID string) (model.Product, error) {
	return t.productRepo.GetProductForUpdate(ctx, storeID, productID)
}

func (t *pgTx) Put(ctx context.Context, product model.Product) error {
	return t.productRepo.UpdateProductStock(ctx, product)
}
