package http

import (
	"fmt"
	"net/http"

	"github.com/shopspring/decimal"

	"github.com/tuanvumaihuynh/stockledger/internal/service"
)

type recordSaleRequest struct {
	ProductID string           `json:"product_id" validate:"required"`
	Quantity  int              `json:"quantity" validate:"gt=0,lte=2147483647"`
	UnitPrice *decimal.Decimal `json:"unit_price" validate:"omitempty,gte=0,money"`
	Customer  string           `json:"customer"`
}

type saleHandler struct {
	base
	saleSvc service.SaleService
}

func newSaleHandler(b base, saleSvc service.SaleService) *saleHandler {
	return &saleHandler{
		base:    b,
		saleSvc: saleSvc,
	}
}

func (h *saleHandler) ListSales(w http.ResponseWriter, r *http.Request) error {
	sess, err := mustSession(r)
	if err != nil {
		return err
	}

	sales, err := h.saleSvc.ListSales(r.Context(), sess.StoreID)
	if err != nil {
		return fmt.Errorf("sale service list sales: %w", err)
	}

	return h.writeJSON(w, r, http.StatusOK, orEmpty(sales))
}

func (h *saleHandler) RecordSale(w http.ResponseWriter, r *http.Request) error {
	sess, err := mustSession(r)
	if err != nil {
		return err
	}

	var req recordSaleRequest
	if err := h.decode(w, r, &req); err != nil {
		return err
	}

	sale, err := h.saleSvc.RecordSale(r.Context(), service.RecordSaleParams{
		StoreID:   sess.StoreID,
		ProductID: req.ProductID,
		Quantity:  req.Quantity,
		UnitPrice: req.UnitPrice,
		Customer:  req.Customer,
	})
	if err != nil {
		return fmt.Errorf("sale service record sale: %w", err)
	}

	return h.writeJSON(w, r, http.StatusCreated, sale)
}

func (h *saleHandler) DeleteSale(w http.ResponseWriter, r *http.Request) error {
	sess, err := mustSession(r)
	if err != nil {
		return err
	}

	saleID, err := pathParam(r, "saleId")
	if err != nil {
		return err
	}

	if err := h.saleSvc.DeleteSale(r.Context(), sess.StoreID, saleID); err != nil {
		return fmt.Errorf("sale service delete sale: %w", err)
	}

	return noContent(w)
}
