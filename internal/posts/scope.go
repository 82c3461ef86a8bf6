package posts

import (
	"context"
	"errors"
	"sync/atomic"
)

// ErrScopeViolation is returned when the store is looked up from a context
// that has no active provider scope.
var ErrScopeViolation = errors.New("posts store accessed outside of its provider scope")

type scopeKey struct{}

type scope struct {
	store  *Store
	active atomic.Bool
}

// Provide makes store reachable from the returned context and every context
// derived from it. The scope stays active until release is called; lookups
// after that fail with ErrScopeViolation.
func Provide(ctx context.Context, store *Store) (context.Context, func()) {
	sc := &scope{store: store}
	sc.active.Store(true)
	return context.WithValue(ctx, scopeKey{}, sc), func() { sc.active.Store(false) }
}

// FromContext returns the store provided to ctx.
func FromContext(ctx context.Context) (*Store, error) {
	if ctx == nil {
		return nil, ErrScopeViolation
	}
	sc, ok := ctx.Value(scopeKey{}).(*scope)
	if !ok || sc.store == nil || !sc.active.Load() {
		return nil, ErrScopeViolation
	}
	return sc.store, nil
}

// Use returns the store provided to ctx and panics with ErrScopeViolation
// when there is none. Views call this; a missing provider is a wiring bug.
func Use(ctx context.Context) *Store {
	s, err := FromContext(ctx)
	if err != nil {
		panic(err)
	}
	return s
}
