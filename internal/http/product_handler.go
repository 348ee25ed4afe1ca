package http

import (
	"fmt"
	"net/http"

	"github.com/shopspring/decimal"

	"github.com/tuanvumaihuynh/stockledger/internal/service"
)

type createProductRequest struct {
	Name         string           `json:"name" validate:"required"`
	Category     string           `json:"category"`
	Price        decimal.Decimal  `json:"price" validate:"gte=0,money"`
	SellingPrice *decimal.Decimal `json:"selling_price" validate:"omitempty,gte=0,money"`
	Stock        int              `json:"stock" validate:"gte=0,lte=2147483647"`
	Supplier     *string          `json:"supplier"`
}

type updateProductRequest struct {
	Category     *string          `json:"category"`
	Price        *decimal.Decimal `json:"price" validate:"omitempty,gte=0,money"`
	SellingPrice *decimal.Decimal `json:"selling_price" validate:"omitempty,gte=0,money"`
	Supplier     *string          `json:"supplier"`
}

type adjustStockRequest struct {
	ChangeQty int `json:"change_qty" validate:"min=-2147483647,max=2147483647"`
}

type productHandler struct {
	base
	productSvc service.ProductService
}

func newProductHandler(b base, productSvc service.ProductService) *productHandler {
	return &productHandler{
		base:       b,
		productSvc: productSvc,
	}
}

func (h *productHandler) ListProducts(w http.ResponseWriter, r *http.Request) error {
	sess, err := mustSession(r)
	if err != nil {
		return err
	}

	products, err := h.productSvc.ListProducts(r.Context(), sess.StoreID)
	if err != nil {
		return fmt.Errorf("product service list products: %w", err)
	}

	return h.writeJSON(w, r, http.StatusOK, orEmpty(products))
}

func (h *productHandler) CreateProduct(w http.ResponseWriter, r *http.Request) error {
	sess, err := mustSession(r)
	if err != nil {
		return err
	}

	var req createProductRequest
	if err := h.decode(w, r, &req); err != nil {
		return err
	}

	product, err := h.productSvc.CreateProduct(r.Context(), service.CreateProductParams{
		StoreID:      sess.StoreID,
		Name:         req.Name,
		Category:     req.Category,
		Price:        req.Price,
		SellingPrice: req.SellingPrice,
		Stock:        req.Stock,
		Supplier:     req.Supplier,
	})
	if err != nil {
		return fmt.Errorf("product service create product: %w", err)
	}

	return h.writeJSON(w, r, http.StatusCreated, product)
}

func (h *productHandler) GetProduct(w http.ResponseWriter, r *http.Request) error {
	sess, err := mustSession(r)
	if err != nil {
		return err
	}

	productID, err := pathParam(r, "productId")
	if err != nil {
		return err
	}

	product, err := h.productSvc.GetProduct(r.Context(), sess.StoreID, productID)
	if err != nil {
		return fmt.Errorf("product service get product: %w", err)
	}

	return h.writeJSON(w, r, http.StatusOK, product)
}

func (h *productHandler) UpdateProductDetails(w http.ResponseWriter, r *http.Request) error {
	sess, err := mustSession(r)
	if err != nil {
		return err
	}

	productID, err := pathParam(r, "productId")
	if err != nil {
		return err
	}

	var req updateProductRequest
	if err := h.decode(w, r, &req); err != nil {
		return err
	}

	product, err := h.productSvc.UpdateProductDetails(r.Context(), service.UpdateProductDetailsParams{
		StoreID:      sess.StoreID,
		ProductID:    productID,
		Category:     req.Category,
		Price:        req.Price,
		SellingPrice: req.SellingPrice,
		Supplier:     req.Supplier,
	})
	if err != nil {
		return fmt.Errorf("product service update product details: %w", err)
	}

	return h.writeJSON(w, r, http.StatusOK, product)
}

func (h *productHandler) AdjustStock(w http.ResponseWriter, r *http.Request) error {
	sess, err := mustSession(r)
	if err != nil {
		return err
	}

	productID, err := pathParam(r, "productId")
	if err != nil {
		return err
	}

	var req adjustStockRequest
	if err := h.decode(w, r, &req); err != nil {
		return err
	}

	product, err := h.productSvc.AdjustStock(r.Context(), service.AdjustStockParams{
		StoreID:   sess.StoreID,
		ProductID: productID,
		ChangeQty: req.ChangeQty,
	})
	if err != nil {
		return fmt.Errorf("product service adjust stock: %w", err)
	}

	return h.writeJSON(w, r, http.StatusOK, product)
}
