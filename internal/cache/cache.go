// Package cache provides the caching abstraction for Atlant CMS.
// The marketing site is read-heavy: SEO metadata and published content
// are fetched on every page render, so hot natural-key lookups are
// served through a cache decorator over the repository layer.
package cache

import (
	"context"
	"errors"
	"time"
)

var (
	// ErrCacheMiss indicates the key was not found in cache.
	ErrCacheMiss = errors.New("cache miss")

	// ErrCacheUnavailable indicates the cache backend is unavailable.
	ErrCacheUnavailable = errors.New("cache unavailable")
)

// Cache is the minimal contract the repository decorator needs.
// Implemented by the in-memory cache (single node) and Redis
// (distributed).
type Cache interface {
	// Get retrieves a value by key.
	// Returns ErrCacheMiss if the key doesn't exist.
	Get(ctx context.Context, key string) ([]byte, error)

	// Set stores a value with an optional TTL.
	// If ttl is 0, the value doesn't expire.
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error

	// SetNX sets a value only if the key doesn't exist.
	// Returns true if the value was set.
	SetNX(ctx context.Context, key string, value []byte, ttl time.Duration) (bool, error)

	// Delete removes a value by key. Deleting a missing key is not an
	// error.
	Delete(ctx context.Context, keys ...string) error

	// Exists checks if a key exists.
	Exists(ctx context.Context, key string) (bool, error)

	// Close releases the cache resources.
	Close() error
}
