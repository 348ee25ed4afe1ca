package http

import (
	"fmt"
	"net/http"

	"github.com/shopspring/decimal"

	"github.com/tuanvumaihuynh/stockledger/internal/model"
	"github.com/tuanvumaihuynh/stockledger/internal/service"
)

type orderItemRequest struct {
	Name     string          `json:"name" validate:"required"`
	Quantity int             `json:"quantity" validate:"gt=0,lte=2147483647"`
	Price    decimal.Decimal `json:"price" validate:"gte=0,money"`
}

type createOrderRequest struct {
	Customer string             `json:"customer" validate:"required"`
	Email    string             `json:"email" validate:"omitempty,email"`
	Items    []orderItemRequest `json:"items" validate:"required,min=1,dive"`
	Status   model.OrderStatus  `json:"status" validate:"omitempty,enum"`
}

type updateOrderStatusRequest struct {
	Status model.OrderStatus `json:"status" validate:"required,enum"`
}

type orderHandler struct {
	base
	orderSvc service.OrderService
}

func newOrderHandler(b base, orderSvc service.OrderService) *orderHandler {
	return &orderHandler{
		base:     b,
		orderSvc: orderSvc,
	}
}

func (h *orderHandler) ListOrders(w http.ResponseWriter, r *http.Request) error {
	sess, err := mustSession(r)
	if err != nil {
		return err
	}

	orders, err := h.orderSvc.ListOrders(r.Context(), sess.StoreID)
	if err != nil {
		return fmt.Errorf("order service list orders: %w", err)
	}

	return h.writeJSON(w, r, http.StatusOK, orEmpty(orders))
}

func (h *orderHandler) CreateOrder(w http.ResponseWriter, r *http.Request) error {
	sess, err := mustSession(r)
	if err != nil {
		return err
	}

	var req createOrderRequest
	if err := h.decode(w, r, &req); err != nil {
		return err
	}

	items := make([]model.OrderItem, 0, len(req.Items))
	for _, item := range req.Items {
		items = append(items, model.OrderItem{
			Name:     item.Name,
			Quantity: item.Quantity,
			Price:    item.Price,
		})
	}

	order, err := h.orderSvc.CreateOrder(r.Context(), service.CreateOrderParams{
		StoreID:  sess.StoreID,
		Customer: req.Customer,
		Email:    req.Email,
		Items:    items,
		Status:   req.Status,
	})
	if err != nil {
		return fmt.Errorf("order service create order: %w", err)
	}

	return h.writeJSON(w, r, http.StatusCreated, order)
}

func (h *orderHandler) UpdateOrderStatus(w http.ResponseWriter, r *http.Request) error {
	sess, err := mustSession(r)
	if err != nil {
		return err
	}

	orderID, err := pathParam(r, "orderId")
	if err != nil {
		return err
	}

	var req updateOrderStatusRequest
	if err := h.decode(w, r, &req); err != nil {
		return err
	}

	order, err := h.orderSvc.UpdateOrderStatus(r.Context(), sess.StoreID, orderID, req.Status)
	if err != nil {
		return fmt.Errorf("order service update order status: %w", err)
	}

	return h.writeJSON(w, r, http.StatusOK, order)
}
