package http

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/oapi-codegen/runtime"

	"github.com/tuanvumaihuynh/stockledger/internal/apperr"
	"github.com/tuanvumaihuynh/stockledger/internal/session"
	"github.com/tuanvumaihuynh/stockledger/pkg/validator"
)

const maxBodyBytes = 1 << 20

// base carries what every handler needs to decode requests and write responses.
type base struct {
	logger    *slog.Logger
	validator validator.Validator
}

// decode reads a JSON body into dst and validates it.
func (b base) decode(w http.ResponseWriter, r *http.Request, dst any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return apperr.InvalidArgumentErr.WithMsgf("invalid request body: %v", err)
	}

	return b.validator.Validate(dst)
}

func (b base) writeJSON(w http.ResponseWriter, r *http.Request, status int, v any) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(v); err != nil {
		b.logger.WarnContext(r.Context(), "error encoding response", slog.Any("error", err))
	}

	return nil
}

func noContent(w http.ResponseWriter) error {
	w.WriteHeader(http.StatusNoContent)
	return nil
}

// pathParam binds a required simple-style path parameter.
func pathParam(r *http.Request, name string) (string, error) {
	var value string
	if err := runtime.BindStyledParameterWithOptions("simple", name, chi.URLParam(r, name), &value,
		runtime.BindStyledParameterOptions{
			ParamLocation: runtime.ParamLocationPath,
			Explode:       false,
			Required:      true,
		}); err != nil {
		return "", apperr.InvalidArgumentErr.WithMsgf("invalid format for parameter %s: %v", name, err)
	}

	return value, nil
}

// queryParam binds an optional form-style query parameter.
func queryParam[T any](r *http.Request, name string) (*T, error) {
	var value *T
	if err := runtime.BindQueryParameter("form", true, false, name, r.URL.Query(), &value); err != nil {
		return nil, apperr.InvalidArgumentErr.WithMsgf("invalid format for parameter %s: %v", name, err)
	}

	return value, nil
}

// mustSession returns the session stored by the session middleware.
func mustSession(r *http.Request) (session.Session, error) {
	sess, ok := session.FromContext(r.Context())
	if !ok {
		return session.Session{}, apperr.UnauthenticatedErr
	}
	return sess, nil
}

func orEmpty[T any](items []T) []T {
	if items == nil {
		return []T{}
	}
	return items
}
