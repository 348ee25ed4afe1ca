package http

import (
	"fmt"
	"net/http"

	"github.com/shopspring/decimal"

	"github.com/tuanvumaihuynh/stockledger/internal/service"
)

type purchaseItemRequest struct {
	ProductID string          `json:"product_id" validate:"required"`
	Name      string          `json:"name" validate:"required"`
	Price     decimal.Decimal `json:"price" validate:"gte=0,money"`
	Quantity  int             `json:"quantity" validate:"gt=0,lte=2147483647"`
}

type recordPurchaseRequest struct {
	Supplier *string               `json:"supplier"`
	Items    []purchaseItemRequest `json:"items" validate:"required,min=1,dive"`
}

type purchaseHandler struct {
	base
	purchaseSvc service.PurchaseService
}

func newPurchaseHandler(b base, purchaseSvc service.PurchaseService) *purchaseHandler {
	return &purchaseHandler{
		base:        b,
		purchaseSvc: purchaseSvc,
	}
}

func (h *purchaseHandler) ListPurchases(w http.ResponseWriter, r *http.Request) error {
	sess, err := mustSession(r)
	if err != nil {
		return err
	}

	purchases, err := h.purchaseSvc.ListPurchases(r.Context(), sess.StoreID)
	if err != nil {
		return fmt.Errorf("purchase service list purchases: %w", err)
	}

	return h.writeJSON(w, r, http.StatusOK, orEmpty(purchases))
}

func (h *purchaseHandler) RecordPurchase(w http.ResponseWriter, r *http.Request) error {
	sess, err := mustSession(r)
	if err != nil {
		return err
	}

	var req recordPurchaseRequest
	if err := h.decode(w, r, &req); err != nil {
		return err
	}

	items := make([]service.PurchaseItem, 0, len(req.Items))
	for _, item := range req.Items {
		items = append(items, service.PurchaseItem{
			ProductID: item.ProductID,
			Name:      item.Name,
			Price:     item.Price,
			Quantity:  item.Quantity,
		})
	}

	purchases, err := h.purchaseSvc.RecordPurchase(r.Context(), service.RecordPurchaseParams{
		StoreID:  sess.StoreID,
		Supplier: req.Supplier,
		Items:    items,
	})
	if err != nil {
		return fmt.Errorf("purchase service record purchase: %w", err)
	}

	return h.writeJSON(w, r, http.StatusCreated, purchases)
}
