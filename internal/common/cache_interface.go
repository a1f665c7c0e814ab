package common

import "time"

// CacheInterface defines the contract for cache implementations. Values are
// opaque encoded bytes so every backend stores them the same way.
type CacheInterface interface {
	// Set stores a value in cache with the given key and duration
	Set(key string, value []byte, duration time.Duration)

	// Get retrieves a value from cache by key
	Get(key string) ([]byte, bool)

	// Delete removes a value from cache by key
	Delete(key string)

	// GetOrSet retrieves a value from cache, or loads it using the loader function if not found
	GetOrSet(key string, duration time.Duration, loader func() ([]byte, error)) ([]byte, error)

	// Close closes any underlying connections (for Redis, etc.)
	Close() error
}
