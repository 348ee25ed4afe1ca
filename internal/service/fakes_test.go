package service_test

import (
	"context"
	"slices"
	"sync"
	"time"

	"github.com/tuanvumaihuynh/stockledger/internal/apperr"
	"github.com/tuanvumaihuynh/stockledger/internal/event"
	"github.com/tuanvumaihuynh/stockledger/internal/ledger"
	"github.com/tuanvumaihuynh/stockledger/internal/model"
	"github.com/tuanvumaihuynh/stockledger/internal/repository"
	"github.com/tuanvumaihuynh/stockledger/internal/storage/db"
	"github.com/tuanvumaihuynh/stockledger/internal/storage/memstore"
)

// productRepo serves repository reads and writes from the same memstore the
// ledger adjusts.
type productRepo struct {
	repository.ProductRepository

	docs *memstore.Products
	err  error
}

func (r *productRepo) WithDB(db.DB) repository.ProductRepository {
	return r
}

func (r *productRepo) CreateProduct(ctx context.Context, product model.Product) error {
	if r.err != nil {
		return r.err
	}
	return r.docs.Create(ctx, product)
}

func (r *productRepo) GetProduct(ctx context.Context, storeID, id string) (model.Product, error) {
	return r.docs.Get(ctx, storeID, id)
}

func (r *productRepo) ListProducts(_ context.Context, storeID string) ([]model.Product, error) {
	return r.docs.List(storeID), nil
}

func (r *productRepo) UpdateProductDetails(ctx context.Context, params repository.UpdateProductDetailsParams) (model.Product, error) {
	var updated model.Product
	err := r.docs.Transact(ctx, func(ctx context.Context, tx ledger.Tx) error {
		p, err := tx.Get(ctx, params.StoreID, params.ID)
		if err != nil {
			return err
		}
		if params.Category != nil {
			p.Category = *params.Category
		}
		p = model.ProductChanges{
			Price:        params.Price,
			SellingPrice: params.SellingPrice,
			Supplier:     params.Supplier,
		}.Apply(p)
		p.UpdatedAt = params.UpdatedAt
		updated = p
		return tx.Put(ctx, p)
	})
	return updated, err
}

type fakePublisher struct {
	mu   sync.Mutex
	msgs []event.Message
	err  error
}

func (p *fakePublisher) WithDB(db.DB) event.Publisher {
	return p
}

func (p *fakePublisher) Publish(_ context.Context, msg event.Message) error {
	if p.err != nil {
		return p.err
	}
	p.mu.Lock()
	p.msgs = append(p.msgs, msg)
	p.mu.Unlock()
	return nil
}

func (p *fakePublisher) topics() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	topics := make([]string, 0, len(p.msgs))
	for _, m := range p.msgs {
		topics = append(topics, m.Topic)
	}
	return topics
}

type saleRepo struct {
	repository.SaleRepository

	sales []model.Sale
	err   error
}

func (r *saleRepo) CreateSale(_ context.Context, sale model.Sale) error {
	if r.err != nil {
		return r.err
	}
	r.sales = append(r.sales, sale)
	return nil
}

func (r *saleRepo) ListSales(_ context.Context, storeID string, since time.Time) ([]model.Sale, error) {
	var sales []model.Sale
	for _, s := range r.sales {
		if s.StoreID == storeID && !s.CreatedAt.Before(since) {
			sales = append(sales, s)
		}
	}
	return sales, nil
}

func (r *saleRepo) DeleteSale(_ context.Context, storeID, id string) error {
	for i, s := range r.sales {
		if s.StoreID == storeID && s.ID == id {
			r.sales = slices.Delete(r.sales, i, i+1)
			return nil
		}
	}
	return apperr.SaleNotFoundErr
}

type purchaseRepo struct {
	repository.PurchaseRepository

	purchases []model.Purchase
}

func (r *purchaseRepo) CreatePurchase(_ context.Context, purchase model.Purchase) error {
	r.purchases = append(r.purchases, purchase)
	return nil
}

func (r *purchaseRepo) ListPurchases(context.Context, string) ([]model.Purchase, error) {
	return r.purchases, nil
}

type supplierRepo struct {
	repository.SupplierRepository

	suppliers map[string]model.Supplier
}

func newSupplierRepo() *supplierRepo {
	return &supplierRepo{suppliers: map[string]model.Supplier{}}
}

func (r *supplierRepo) CreateSupplier(_ context.Context, supplier model.Supplier) error {
	r.suppliers[supplier.ID] = supplier
	return nil
}

func (r *supplierRepo) GetSupplier(_ context.Context, storeID, id string) (model.Supplier, error) {
	s, ok := r.suppliers[id]
	if !ok || s.StoreID != storeID {
		return model.Supplier{}, apperr.SupplierNotFoundErr
	}
	return s, nil
}

func (r *supplierRepo) UpdateSupplier(_ context.Context, supplier model.Supplier) error {
	r.suppliers[supplier.ID] = supplier
	return nil
}

func (r *supplierRepo) DeleteSupplier(_ context.Context, storeID, id string) error {
	s, ok := r.suppliers[id]
	if !ok || s.StoreID != storeID {
		return apperr.SupplierNotFoundErr
	}
	delete(r.suppliers, id)
	return nil
}

type orderRepo struct {
	repository.OrderRepository

	orders map[string]model.Order
}

func newOrderRepo() *orderRepo {
	return &orderRepo{orders: map[string]model.Order{}}
}

func (r *orderRepo) CreateOrder(_ context.Context, order model.Order) error {
	r.orders[order.ID] = order
	return nil
}

func (r *orderRepo) UpdateOrderStatus(_ context.Context, params repository.UpdateOrderStatusParams) (model.Order, error) {
	o, ok := r.orders[params.ID]
	if !ok || o.StoreID != params.StoreID {
		return model.Order{}, apperr.OrderNotFoundErr
	}
	o.Status = params.Status
	o.UpdatedAt = params.UpdatedAt
	r.orders[o.ID] = o
	return o, nil
}

type notificationRepo struct {
	repository.NotificationRepository

	notifications []model.Notification
}

func (r *notificationRepo) CreateNotification(_ context.Context, n model.Notification) error {
	r.notifications = append(r.notifications, n)
	return nil
}

func (r *notificationRepo) ListNotifications(_ context.Context, params repository.ListNotificationsParams) ([]model.Notification, error) {
	var out []model.Notification
	for _, n := range slices.Backward(r.notifications) {
		if n.UserID == params.UserID && (!params.UnreadOnly || !n.Read) {
			out = append(out, n)
		}
	}
	return out, nil
}

func (r *notificationRepo) MarkNotificationRead(_ context.Context, userID, id string) error {
	for i, n := range r.notifications {
		if n.UserID == userID && n.ID == id {
			r.notifications[i].Read = true
			return nil
		}
	}
	return apperr.NotificationNotFoundErr
}

type accountRepo struct {
	repository.AccountRepository

	stores map[string]model.Store
	users  map[string]model.User
	err    error
}

func newAccountRepo() *accountRepo {
	return &accountRepo{stores: map[string]model.Store{}, users: map[string]model.User{}}
}

func (r *accountRepo) WithDB(db.DB) repository.AccountRepository {
	return r
}

func (r *accountRepo) CreateStore(_ context.Context, store model.Store) error {
	r.stores[store.ID] = store
	return nil
}

func (r *accountRepo) GetStore(_ context.Context, id string) (model.Store, error) {
	s, ok := r.stores[id]
	if !ok {
		return model.Store{}, apperr.StoreNotFoundErr
	}
	return s, nil
}

func (r *accountRepo) CreateUser(_ context.Context, user model.User) error {
	if r.err != nil {
		return r.err
	}
	r.users[user.ID] = user
	return nil
}

func (r *accountRepo) GetUser(_ context.Context, id string) (model.User, error) {
	u, ok := r.users[id]
	if !ok {
		return model.User{}, apperr.UserNotFoundErr
	}
	return u, nil
}
