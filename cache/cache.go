// Package cache stores fetched bytes (remote cover images) between runs.
//
// Three backends share the Cache interface: FileCache for the CLI,
// RedisCache when several renderers share one store, and NullCache when
// caching is disabled.
package cache

import (
	"context"
	"time"
)

// Cache is a byte store with optional per-entry expiry.
type Cache interface {
	// Get returns the value and whether it was found. A missing or expired
	// entry is a miss, not an error.
	Get(ctx context.Context, key string) ([]byte, bool, error)
	// Set stores data. A ttl <= 0 means the entry never expires.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Close() error
}
