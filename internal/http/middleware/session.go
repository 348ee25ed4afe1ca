package middleware

import (
	"net/http"

	"github.com/tuanvumaihuynh/stockledger/internal/apperr"
	"github.com/tuanvumaihuynh/stockledger/internal/session"
)

// UserIDHeader identifies the acting user. Authentication happens upstream.
const UserIDHeader = "X-User-ID"

type ErrorHandlerFunc func(w http.ResponseWriter, r *http.Request, err error)

// Session resolves the caller's session and stores it in the request context.
func Session(manager *session.Manager, onError ErrorHandlerFunc) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			userID := r.Header.Get(UserIDHeader)
			if userID == "" {
				onError(w, r, apperr.UnauthenticatedErr)
				return
			}

			sess, err := manager.Resolve(r.Context(), userID)
			if err != nil {
				onError(w, r, err)
				return
			}

			next.ServeHTTP(w, r.WithContext(session.NewContext(r.Context(), sess)))
		})
	}
}
