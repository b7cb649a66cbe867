package cache

import "context"

// NullStore is a no-op store that never remembers anything. Used when
// caching is disabled.
type NullStore struct{}

// NewNullStore creates a null store.
func NewNullStore() Store {
	return &NullStore{}
}

// Lookup always misses.
func (NullStore) Lookup(context.Context, string) (bool, error) { return false, nil }

// Store does nothing.
func (NullStore) Store(context.Context, string) error { return nil }

// Flush does nothing.
func (NullStore) Flush(context.Context) error { return nil }

// Close does nothing.
func (NullStore) Close() error { return nil }

var _ Store = NullStore{}
