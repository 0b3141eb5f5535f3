// Package lock provides distributed and local locking abstractions.
// The services take a short per-natural-key lock around their
// check-then-write sequences (uniqueness check before create, existence
// check before update) so two concurrent writes on the same slug or
// page path cannot both pass the check. Single-node deployments use
// memory locks; multi-node deployments use Redis locks.
package lock

import (
	"context"
	"errors"
	"time"
)

// ErrNotAcquired indicates the lock is held by another owner.
var ErrNotAcquired = errors.New("lock not acquired")

// Locker is the locking contract. Locks auto-expire after their TTL so
// a crashed process cannot wedge a key forever.
type Locker interface {
	// Acquire attempts to acquire a lock.
	// Returns true if the lock was acquired, false if it's held elsewhere.
	Acquire(ctx context.Context, key string, ttl time.Duration) (bool, error)

	// AcquireWithRetry attempts to acquire a lock, retrying up to
	// maxRetries times with retryDelay between attempts.
	AcquireWithRetry(ctx context.Context, key string, ttl time.Duration, maxRetries int, retryDelay time.Duration) (bool, error)

	// Release releases a lock.
	// Returns true if the lock was released, false if it wasn't held.
	Release(ctx context.Context, key string) (bool, error)

	// IsHeld checks if the lock is currently held.
	IsHeld(ctx context.Context, key string) (bool, error)
}

// WithLock runs fn while holding the named lock, retrying acquisition
// briefly before giving up with ErrNotAcquired.
func WithLock(ctx context.Context, locker Locker, key string, ttl time.Duration, fn func(ctx context.Context) error) error {
	acquired, err := locker.AcquireWithRetry(ctx, key, ttl, 10, 50*time.Millisecond)
	if err != nil {
		return err
	}
	if !acquired {
		return ErrNotAcquired
	}
	defer locker.Release(context.WithoutCancel(ctx), key)

	return fn(ctx)
}
