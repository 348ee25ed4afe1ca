package http

import (
	"fmt"
	"net/http"

	"github.com/shopspring/decimal"

	"github.com/tuanvumaihuynh/stockledger/internal/model"
	"github.com/tuanvumaihuynh/stockledger/internal/service"
)

type supplierRequest struct {
	Name     string               `json:"name" validate:"required"`
	Contact  string               `json:"contact"`
	Email    string               `json:"email" validate:"omitempty,email"`
	Phone    string               `json:"phone"`
	Address  string               `json:"address"`
	Products []string             `json:"products"`
	Rating   *decimal.Decimal     `json:"rating" validate:"omitempty,gte=0,lte=5"`
	Status   model.SupplierStatus `json:"status" validate:"omitempty,enum"`
}

func (req supplierRequest) params(storeID string) service.SupplierParams {
	return service.SupplierParams{
		StoreID:  storeID,
		Name:     req.Name,
		Contact:  req.Contact,
		Email:    req.Email,
		Phone:    req.Phone,
		Address:  req.Address,
		Products: req.Products,
		Rating:   req.Rating,
		Status:   req.Status,
	}
}

type supplierHandler struct {
	base
	supplierSvc service.SupplierService
}

func newSupplierHandler(b base, supplierSvc service.SupplierService) *supplierHandler {
	return &supplierHandler{
		base:        b,
		supplierSvc: supplierSvc,
	}
}

func (h *supplierHandler) ListSuppliers(w http.ResponseWriter, r *http.Request) error {
	sess, err := mustSession(r)
	if err != nil {
		return err
	}

	suppliers, err := h.supplierSvc.ListSuppliers(r.Context(), sess.StoreID)
	if err != nil {
		return fmt.Errorf("supplier service list suppliers: %w", err)
	}

	return h.writeJSON(w, r, http.StatusOK, orEmpty(suppliers))
}

func (h *supplierHandler) CreateSupplier(w http.ResponseWriter, r *http.Request) error {
	sess, err := mustSession(r)
	if err != nil {
		return err
	}

	var req supplierRequest
	if err := h.decode(w, r, &req); err != nil {
		return err
	}

	supplier, err := h.supplierSvc.CreateSupplier(r.Context(), req.params(sess.StoreID))
	if err != nil {
		return fmt.Errorf("supplier service create supplier: %w", err)
	}

	return h.writeJSON(w, r, http.StatusCreated, supplier)
}

func (h *supplierHandler) UpdateSupplier(w http.ResponseWriter, r *http.Request) error {
	sess, err := mustSession(r)
	if err != nil {
		return err
	}

	supplierID, err := pathParam(r, "supplierId")
	if err != nil {
		return err
	}

	var req supplierRequest
	if err := h.decode(w, r, &req); err != nil {
		return err
	}

	supplier, err := h.supplierSvc.UpdateSupplier(r.Context(), supplierID, req.params(sess.StoreID))
	if err != nil {
		return fmt.Errorf("supplier service update supplier: %w", err)
	}

	return h.writeJSON(w, r, http.StatusOK, supplier)
}

func (h *supplierHandler) DeleteSupplier(w http.ResponseWriter, r *http.Request) error {
	sess, err := mustSession(r)
	if err != nil {
		return err
	}

	supplierID, err := pathParam(r, "supplierId")
	if err != nil {
		return err
	}

	if err := h.supplierSvc.DeleteSupplier(r.Context(), sess.StoreID, supplierID); err != nil {
		return fmt.Errorf("supplier service delete supplier: %w", err)
	}

	return noContent(w)
}
