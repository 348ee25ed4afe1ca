package http

import (
	"fmt"
	"net/http"

	"github.com/tuanvumaihuynh/stockledger/internal/service"
)

type notificationHandler struct {
	base
	notificationSvc service.NotificationService
}

func newNotificationHandler(b base, notificationSvc service.NotificationService) *notificationHandler {
	return &notificationHandler{
		base:            b,
		notificationSvc: notificationSvc,
	}
}

func (h *notificationHandler) ListNotifications(w http.ResponseWriter, r *http.Request) error {
	sess, err := mustSession(r)
	if err != nil {
		return err
	}

	unread, err := queryParam[bool](r, "unread")
	if err != nil {
		return err
	}

	notifications, err := h.notificationSvc.ListNotifications(r.Context(), sess.UserID, unread != nil && *unread)
	if err != nil {
		return fmt.Errorf("notification service list notifications: %w", err)
	}

	return h.writeJSON(w, r, http.StatusOK, orEmpty(notifications))
}

func (h *notificationHandler) MarkRead(w http.ResponseWriter, r *http.Request) error {
	sess, err := mustSession(r)
	if err != nil {
		return err
	}

	notificationID, err := pathParam(r, "notificationId")
	if err != nil {
		return err
	}

	if err := h.notificationSvc.MarkRead(r.Context(), sess.UserID, notificationID); err != nil {
		return fmt.Errorf("notification service mark read: %w", err)
	}

	return noContent(w)
}
