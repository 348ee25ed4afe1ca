// Package session holds the explicit per-request tenant context.
//
// A Session is resolved once per request from the user profile and passed
// down through context; nothing is kept in process-wide ambient state except
// the Manager's cache, which is invalidated explicitly on logout.
package session

import "context"

// Session identifies the acting user and the store they operate on.
type Session struct {
	UserID   string
	StoreID  string
	Username string
}

type ctxKey struct{}

// NewContext returns a copy of ctx carrying sess.
func NewContext(ctx context.Context, sess Session) context.Context {
	return context.WithValue(ctx, ctxKey{}, sess)
}

// FromContext returns the session stored in ctx, if any.
func FromContext(ctx context.Context) (Session, bool) {
	sess, ok := ctx.Value(ctxKey{}).(Session)
	return sess, ok
}
