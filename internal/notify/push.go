// Package notify forwards stored notifications to an external push webhook.
package notify

import (
	"context"
	"fmt"
	"net/http"

	"github.com/go-resty/resty/v2"

	"github.com/tuanvumaihuynh/stockledger/internal/config"
	"github.com/tuanvumaihuynh/stockledger/internal/event"
	"github.com/tuanvumaihuynh/stockledger/internal/model"
)

var _ event.Pusher = (*PushClient)(nil)

// PushClient posts notifications as JSON to the configured webhook.
type PushClient struct {
	httpClient *resty.Client
}

func NewPushClient(cfg config.Notifier) *PushClient {
	restyClient := resty.New()
	restyClient.
		SetBaseURL(cfg.PushWebhookURL).
		SetHeader("Content-Type", "application/json").
		SetTimeout(cfg.PushTimeout)
	if cfg.PushWebhookToken != "" {
		restyClient.SetAuthToken(cfg.PushWebhookToken)
	}

	return &PushClient{
		httpClient: restyClient,
	}
}

type pushRequest struct {
	ID       string                     `json:"id"`
	UserID   string                     `json:"user_id"`
	Title    string                     `json:"title"`
	Body     string                     `json:"body"`
	Category model.NotificationCategory `json:"category"`
}

type pushError struct {
	Message string `json:"message"`
}

func (c *PushClient) Push(ctx context.Context, notification model.Notification) error {
	apiErr := new(pushError)

	resp, err := c.httpClient.R().
		SetContext(ctx).
		SetBody(pushRequest{
			ID:       notification.ID,
			UserID:   notification.UserID,
			Title:    notification.Title,
			Body:     notification.Body,
			Category: notification.Category,
		}).
		SetError(apiErr).
		Post("")
	if err != nil {
		return fmt.Errorf("post push notification: %w", err)
	}

	if resp.StatusCode() >= http.StatusBadRequest {
		return fmt.Errorf("push webhook error: status=%d, message=%s", resp.StatusCode(), apiErr.Message)
	}

	return nil
}
