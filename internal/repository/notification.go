package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/tuanvumaihuynh/stockledger/internal/apperr"
	"github.com/tuanvumaihuynh/stockledger/internal/model"
	"github.com/tuanvumaihuynh/stockledger/internal/storage/db"
)

type ListNotificationsParams struct {
	UserID     string
	UnreadOnly bool
}

type NotificationRepository interface {
	WithDB(db db.DB) NotificationRepository
	CreateNotification(ctx context.Context, notification model.Notification) error
	// ListNotifications lists notifications newest first.
	ListNotifications(ctx context.Context, params ListNotificationsParams) ([]model.Notification, error)
	MarkNotificationRead(ctx context.Context, userID, id string) error
}

type notificationRepository struct {
	db db.DB
}

func NewNotificationRepository(db db.DB) NotificationRepository {
	return &notificationRepository{
		db: db,
	}
}

func (r notificationRepository) WithDB(db db.DB) NotificationRepository {
	return &notificationRepository{
		db: db,
	}
}

type notificationRow struct {
	ID        string    `db:"id"`
	UserID    string    `db:"user_id"`
	Title     string    `db:"title"`
	Body      string    `db:"body"`
	Category  string    `db:"category"`
	Read      bool      `db:"read"`
	CreatedAt time.Time `db:"created_at"`
}

func (r notificationRepository) CreateNotification(ctx context.Context, notification model.Notification) error {
	if _, err := r.db.Exec(ctx, `
		INSERT INTO notifications (id, user_id, title, body, category, read, created_at)
		VALUES (@id, @user_id, @title, @body, @category, @read, @created_at)
	`, pgx.NamedArgs{
		"id":         notification.ID,
		"user_id":    notification.UserID,
		"title":      notification.Title,
		"body":       notification.Body,
		"category":   string(notification.Category),
		"read":       notification.Read,
		"created_at": notification.CreatedAt,
	}); err != nil {
		return fmt.Errorf("insert notification: %w", err)
	}

	return nil
}

func (r notificationRepository) ListNotifications(ctx context.Context, params ListNotificationsParams) ([]model.Notification, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, user_id, title, body, category, read, created_at
		FROM notifications
		WHERE user_id = @user_id
			AND (NOT @unread_only::boolean OR NOT read)
		ORDER BY created_at DESC, id DESC
	`, pgx.NamedArgs{
		"user_id":     params.UserID,
		"unread_only": params.UnreadOnly,
	})
	if err != nil {
		return nil, fmt.Errorf("query notifications: %w", err)
	}

	notificationRows, err := pgx.CollectRows(rows, pgx.RowToStructByName[notificationRow])
	if err != nil {
		return nil, fmt.Errorf("collect notifications: %w", err)
	}

	notifications := make([]model.Notification, 0, len(notificationRows))
	for _, row := range notificationRows {
		notifications = append(notifications, model.Notification{
			ID:        row.ID,
			UserID:    row.UserID,
			Title:     row.Title,
			Body:      row.Body,
			Category:  model.NotificationCategory(row.Category),
			Read:      row.Read,
			CreatedAt: row.CreatedAt,
		})
	}

	return notifications, nil
}

func (r notificationRepository) MarkNotificationRead(ctx context.Context, userID, id string) error {
	tag, err := r.db.Exec(ctx, `
		UPDATE notifications
		SET read = TRUE
		WHERE user_id = @user_id AND id = @id
	`, pgx.NamedArgs{
		"user_id": userID,
		"id":      id,
	})
	if err != nil {
		return fmt.Errorf("mark notification read: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotificationNotFoundErr
	}

	return nil
}
