package repository

import (
	"context"
	"time"
)

// Cache defines the interface for caching operations.
// Implemented by Redis for multi-instance deployments and by an in-memory
// cache for single-node and test setups. The primary use is the API token
// to user-ID lookup on authenticated requests.
type Cache interface {
	// Get retrieves a value by key.
	// Returns ErrCacheMiss if the key doesn't exist.
	Get(ctx context.Context, key string) ([]byte, error)

	// Set stores a value with an optional TTL.
	// If ttl is 0, the value doesn't expire.
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error

	// Delete removes a value by key.
	Delete(ctx context.Context, key string) error

	// Exists checks if a key exists.
	Exists(ctx context.Context, key string) (bool, error)

	// Close releases any resources held by the cache.
	Close() error
}

// CacheKey generates cache keys for common scenarios.
type CacheKey struct{}

// APIToken returns a cache key for an API token lookup.
func (CacheKey) APIToken(token string) string {
	return "cache:token:" + token
}
