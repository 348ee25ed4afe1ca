package session

import (
	"context"
	"fmt"

	lru "github.com/hashicorp/golang-lru"
)

// DefaultCacheSize is used when NewManager is given a non-positive size.
const DefaultCacheSize = 10_000

// Loader loads the session of a user from the profile store.
type Loader interface {
	LoadSession(ctx context.Context, userID string) (Session, error)
}

// LoaderFunc adapts a function to Loader.
type LoaderFunc func(ctx context.Context, userID string) (Session, error)

func (f LoaderFunc) LoadSession(ctx context.Context, userID string) (Session, error) {
	return f(ctx, userID)
}

// Manager caches sessions by user ID, evicting the least recently used one
// when full. Logout must call Invalidate so the next request reloads the
// user's store.
type Manager struct {
	loader Loader
	cache  *lru.Cache
}

func NewManager(loader Loader, size int) *Manager {
	if size <= 0 {
		size = DefaultCacheSize
	}

	cache, err := lru.New(size)
	if err != nil {
		// only returned for a non-positive size
		panic(err)
	}

	return &Manager{loader: loader, cache: cache}
}

// Resolve returns the cached session of userID, loading it on a miss.
// Failed loads are not cached.
func (m *Manager) Resolve(ctx context.Context, userID string) (Session, error) {
	if v, ok := m.cache.Get(userID); ok {
		return v.(Session), nil
	}

	sess, err := m.loader.LoadSession(ctx, userID)
	if err != nil {
		return Session{}, fmt.Errorf("load session: %w", err)
	}

	m.cache.Add(userID, sess)
	return sess, nil
}

func (m *Manager) Invalidate(userID string) {
	m.cache.Remove(userID)
}

// Len returns the number of cached sessions.
func (m *Manager) Len() int {
	return m.cache.Len()
}
