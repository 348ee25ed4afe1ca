package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/tuanvumaihuynh/stockledger/internal/event"
	"github.com/tuanvumaihuynh/stockledger/internal/model"
	"github.com/tuanvumaihuynh/stockledger/internal/repository"
)

type NotificationService interface {
	Send(ctx context.Context, userID, title, body string, category model.NotificationCategory) (model.Notification, error)
	NotifyStoreOwner(ctx context.Context, storeID, title, body string, category model.NotificationCategory) (model.Notification, error)
	ListNotifications(ctx context.Context, userID string, unreadOnly bool) ([]model.Notification, error)
	MarkRead(ctx context.Context, userID, notificationID string) error
}

var _ event.Notifier = (NotificationService)(nil)

type notificationService struct {
	notificationRepo repository.NotificationRepository
	accountRepo      repository.AccountRepository
}

func NewNotificationService(
	notificationRepo repository.NotificationRepository,
	accountRepo repository.AccountRepository,
) NotificationService {
	return &notificationService{
		notificationRepo: notificationRepo,
		accountRepo:      accountRepo,
	}
}

func (s *notificationService) Send(ctx context.Context, userID, title, body string, category model.NotificationCategory) (model.Notification, error) {
	if category == "" {
		category = model.NotificationCategoryInfo
	}

	id, err := uuid.NewV7()
	if err != nil {
		return model.Notification{}, fmt.Errorf("generate uuid v7: %w", err)
	}

	notification := model.Notification{
		ID:        id.String(),
		UserID:    userID,
		Title:     title,
		Body:      body,
		Category:  category,
		CreatedAt: time.Now(),
	}

	if err := s.notificationRepo.CreateNotification(ctx, notification); err != nil {
		return model.Notification{}, fmt.Errorf("notification repository create notification: %w", err)
	}

	return notification, nil
}

func (s *notificationService) NotifyStoreOwner(ctx context.Context, storeID, title, body string, category model.NotificationCategory) (model.Notification, error) {
	store, err := s.accountRepo.GetStore(ctx, storeID)
	if err != nil {
		return model.Notification{}, fmt.Errorf("account repository get store: %w", err)
	}

	return s.Send(ctx, store.OwnerID, title, body, category)
}

func (s *notificationService) ListNotifications(ctx context.Context, userID string, unreadOnly bool) ([]model.Notification, error) {
	notifications, err := s.notificationRepo.ListNotifications(ctx, repository.ListNotificationsParams{
		UserID:     userID,
		UnreadOnly: unreadOnly,
	})
	if err != nil {
		return nil, fmt.Errorf("notification repository list notifications: %w", err)
	}

	return notifications, nil
}

func (s *notificationService) MarkRead(ctx context.Context, userID, notificationID string) error {
	if err := s.notificationRepo.MarkNotificationRead(ctx, userID, notificationID); err != nil {
		return fmt.Errorf("notification repository mark notification read: %w", err)
	}

	return nil
}
