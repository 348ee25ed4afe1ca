package model

import "time"

type NotificationCategory string

const (
	NotificationCategoryInfo       NotificationCategory = "info"
	NotificationCategoryLowStock   NotificationCategory = "low-stock"
	NotificationCategoryOutOfStock NotificationCategory = "out-of-stock"
)

type Notification struct {
	ID        string               `json:"id"`
	UserID    string               `json:"user_id"`
	Title     string               `json:"title"`
	Body      string               `json:"body"`
	Category  NotificationCategory `json:"category"`
	Read      bool                 `json:"read"`
	CreatedAt time.Time            `json:"created_at"`
}
