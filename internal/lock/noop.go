package lock

import (
	"context"
	"time"
)

// NoopLocker implements Locker without any locking. Used when the
// deployment relies solely on the database's unique constraints.
type NoopLocker struct{}

// NewNoopLocker creates a no-op locker.
func NewNoopLocker() *NoopLocker {
	return &NoopLocker{}
}

// Acquire always succeeds.
func (n *NoopLocker) Acquire(ctx context.Context, key string, ttl time.Duration) (bool, error) {
	return true, nil
}

// AcquireWithRetry always succeeds.
func (n *NoopLocker) AcquireWithRetry(ctx context.Context, key string, ttl time.Duration, maxRetries int, retryDelay time.Duration) (bool, error) {
	return true, nil
}

// Release always reports the lock as released.
func (n *NoopLocker) Release(ctx context.Context, key string) (bool, error) {
	return true, nil
}

// IsHeld always reports the lock as free.
func (n *NoopLocker) IsHeld(ctx context.Context, key string) (bool, error) {
	return false, nil
}

var _ Locker = (*NoopLocker)(nil)
