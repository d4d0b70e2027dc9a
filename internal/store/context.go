package store

import "context"

type ctxKey struct{}

// NewContext returns a copy of ctx that carries s
func NewContext(ctx context.Context, s *Store) context.Context {
	return context.WithValue(ctx, ctxKey{}, s)
}

// FromContext returns the store carried by ctx. Reaching for the store
// outside a store scope is a programming error, so it panics with ErrNoStore.
func FromContext(ctx context.Context) *Store {
	if ctx != nil {
		if s, ok := ctx.Value(ctxKey{}).(*Store); ok && s != nil {
			return s
		}
	}
	panic(ErrNoStore)
}
