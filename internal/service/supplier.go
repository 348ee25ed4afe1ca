package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/tuanvumaihuynh/stockledger/internal/model"
	"github.com/tuanvumaihuynh/stockledger/internal/repository"
	"github.com/tuanvumaihuynh/stockledger/pkg/ptr"
)

type SupplierParams struct {
	StoreID  string
	Name     string
	Contact  string
	Email    string
	Phone    string
	Address  string
	Products []string
	// Rating defaults to model.DefaultSupplierRating.
	Rating *decimal.Decimal
	// Status defaults to Active.
	Status model.SupplierStatus
}

type SupplierService interface {
	CreateSupplier(ctx context.Context, params SupplierParams) (model.Supplier, error)
	UpdateSupplier(ctx context.Context, supplierID string, params SupplierParams) (model.Supplier, error)
	DeleteSupplier(ctx context.Context, storeID, supplierID string) error
	ListSuppliers(ctx context.Context, storeID string) ([]model.Supplier, error)
}

type supplierService struct {
	supplierRepo repository.SupplierRepository
}

func NewSupplierService(supplierRepo repository.SupplierRepository) SupplierService {
	return &supplierService{
		supplierRepo: supplierRepo,
	}
}

func (params SupplierParams) apply(supplier model.Supplier) model.Supplier {
	supplier.Name = params.Name
	supplier.Contact = params.Contact
	supplier.Email = params.Email
	supplier.Phone = params.Phone
	supplier.Address = params.Address
	supplier.Products = params.Products

	supplier.Rating = ptr.Deref(params.Rating, model.DefaultSupplierRating)

	supplier.Status = model.SupplierStatusActive
	if params.Status != "" {
		supplier.Status = params.Status
	}

	return supplier
}

func (s *supplierService) CreateSupplier(ctx context.Context, params SupplierParams) (model.Supplier, error) {
	id, err := uuid.NewV7()
	if err != nil {
		return model.Supplier{}, fmt.Errorf("generate uuid v7: %w", err)
	}

	now := time.Now()
	supplier := params.apply(model.Supplier{
		ID:        id.String(),
		StoreID:   params.StoreID,
		CreatedAt: now,
		UpdatedAt: now,
	})

	if err := s.supplierRepo.CreateSupplier(ctx, supplier); err != nil {
		return model.Supplier{}, fmt.Errorf("supplier repository create supplier: %w", err)
	}

	return supplier, nil
}

func (s *supplierService) UpdateSupplier(ctx context.Context, supplierID string, params SupplierParams) (model.Supplier, error) {
	existing, err := s.supplierRepo.GetSupplier(ctx, params.StoreID, supplierID)
	if err != nil {
		return model.Supplier{}, fmt.Errorf("supplier repository get supplier: %w", err)
	}

	supplier := params.apply(existing)
	supplier.UpdatedAt = time.Now()

	if err := s.supplierRepo.UpdateSupplier(ctx, supplier); err != nil {
		return model.Supplier{}, fmt.Errorf("supplier repository update supplier: %w", err)
	}

	return supplier, nil
}

func (s *supplierService) DeleteSupplier(ctx context.Context, storeID, supplierID string) error {
	if err := s.supplierRepo.DeleteSupplier(ctx, storeID, supplierID); err != nil {
		return fmt.Errorf("supplier repository delete supplier: %w", err)
	}

	return nil
}

func (s *supplierService) ListSuppliers(ctx context.Context, storeID string) ([]model.Supplier, error) {
	suppliers, err := s.supplierRepo.ListSuppliers(ctx, storeID)
	if err != nil {
		return nil, fmt.Errorf("supplier repository list suppliers: %w", err)
	}

	return suppliers, nil
}
