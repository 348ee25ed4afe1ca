package http

import (
	"fmt"
	"net/http"

	"github.com/tuanvumaihuynh/stockledger/internal/service"
)

type analyticsHandler struct {
	base
	analyticsSvc service.AnalyticsService
}

func newAnalyticsHandler(b base, analyticsSvc service.AnalyticsService) *analyticsHandler {
	return &analyticsHandler{
		base:         b,
		analyticsSvc: analyticsSvc,
	}
}

func (h *analyticsHandler) Summary(w http.ResponseWriter, r *http.Request) error {
	sess, err := mustSession(r)
	if err != nil {
		return err
	}

	summary, err := h.analyticsSvc.Summary(r.Context(), sess.StoreID)
	if err != nil {
		return fmt.Errorf("analytics service summary: %w", err)
	}

	return h.writeJSON(w, r, http.StatusOK, summary)
}
