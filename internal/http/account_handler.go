package http

import (
	"fmt"
	"net/http"

	"github.com/tuanvumaihuynh/stockledger/internal/model"
	"github.com/tuanvumaihuynh/stockledger/internal/service"
	"github.com/tuanvumaihuynh/stockledger/internal/session"
)

type signUpRequest struct {
	Username  string `json:"username" validate:"required"`
	Email     string `json:"email" validate:"required,email"`
	Mobile    string `json:"mobile"`
	StoreName string `json:"store_name" validate:"required"`
}

type signUpResponse struct {
	User  model.User  `json:"user"`
	Store model.Store `json:"store"`
}

type accountHandler struct {
	base
	accountSvc service.AccountService
	sessions   *session.Manager
}

func newAccountHandler(b base, accountSvc service.AccountService, sessions *session.Manager) *accountHandler {
	return &accountHandler{
		base:       b,
		accountSvc: accountSvc,
		sessions:   sessions,
	}
}

func (h *accountHandler) SignUp(w http.ResponseWriter, r *http.Request) error {
	var req signUpRequest
	if err := h.decode(w, r, &req); err != nil {
		return err
	}

	res, err := h.accountSvc.SignUp(r.Context(), service.SignUpParams{
		Username:  req.Username,
		Email:     req.Email,
		Mobile:    req.Mobile,
		StoreName: req.StoreName,
	})
	if err != nil {
		return fmt.Errorf("account service sign up: %w", err)
	}

	return h.writeJSON(w, r, http.StatusCreated, signUpResponse{User: res.User, Store: res.Store})
}

func (h *accountHandler) Logout(w http.ResponseWriter, r *http.Request) error {
	sess, err := mustSession(r)
	if err != nil {
		return err
	}

	h.sessions.Invalidate(sess.UserID)

	return noContent(w)
}
