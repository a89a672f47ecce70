// Package cache stores opaque byte snapshots under string keys.
//
// The repository index persists its scan results through a Cache so that
// repeated CLI runs against a large local repository can skip the walk.
// FileCache keeps entries as JSON files under a directory; NullCache stores
// nothing and is used when caching is disabled.
package cache

import (
	"context"
	"time"
)

// Cache is a key/value store with optional expiry.
type Cache interface {
	// Get returns the stored data and whether the key was present and fresh.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores data under key. A zero ttl never expires.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases resources held by the cache.
	Close() error
}
