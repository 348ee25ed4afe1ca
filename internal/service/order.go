package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/tuanvumaihuynh/stockledger/internal/apperr"
	"github.com/tuanvumaihuynh/stockledger/internal/model"
	"github.com/tuanvumaihuynh/stockledger/internal/repository"
)

type CreateOrderParams struct {
	StoreID  string
	Customer string
	Email    string
	Items    []model.OrderItem
	// Status defaults to Processing.
	Status model.OrderStatus
}

// OrderService keeps customer orders. Orders never touch stock.
type OrderService interface {
	CreateOrder(ctx context.Context, params CreateOrderParams) (model.Order, error)
	ListOrders(ctx context.Context, storeID string) ([]model.Order, error)
	UpdateOrderStatus(ctx context.Context, storeID, orderID string, status model.OrderStatus) (model.Order, error)
}

type orderService struct {
	orderRepo repository.OrderRepository
}

func NewOrderService(orderRepo repository.OrderRepository) OrderService {
	return &orderService{
		orderRepo: orderRepo,
	}
}

func (s *orderService) CreateOrder(ctx context.Context, params CreateOrderParams) (model.Order, error) {
	status := params.Status
	if status == "" {
		status = model.OrderStatusProcessing
	}
	if err := status.Validate(); err != nil {
		return model.Order{}, apperr.InvalidArgumentErr.WithMsg(err.Error())
	}

	id, err := uuid.NewV7()
	if err != nil {
		return model.Order{}, fmt.Errorf("generate uuid v7: %w", err)
	}

	now := time.Now()
	order := model.Order{
		ID:        id.String(),
		StoreID:   params.StoreID,
		Customer:  params.Customer,
		Email:     params.Email,
		Items:     params.Items,
		Total:     model.OrderTotal(params.Items),
		Status:    status,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.orderRepo.CreateOrder(ctx, order); err != nil {
		return model.Order{}, fmt.Errorf("order repository create order: %w", err)
	}

	return order, nil
}

func (s *orderService) ListOrders(ctx context.Context, storeID string) ([]model.Order, error) {
	orders, err := s.orderRepo.ListOrders(ctx, storeID)
	if err != nil {
		return nil, fmt.Errorf("order repository list orders: %w", err)
	}

	return orders, nil
}

func (s *orderService) UpdateOrderStatus(ctx context.Context, storeID, orderID string, status model.OrderStatus) (model.Order, error) {
	if err := status.Validate(); err != nil {
		return model.Order{}, apperr.InvalidArgumentErr.WithMsg(err.Error())
	}

	order, err := s.orderRepo.UpdateOrderStatus(ctx, repository.UpdateOrderStatusParams{
		StoreID:   storeID,
		ID:        orderID,
		Status:    status,
		UpdatedAt: time.Now(),
	})
	if err != nil {
		return model.Order{}, fmt.Errorf("order repository update order status: %w", err)
	}

	return order, nil
}
