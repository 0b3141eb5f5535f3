// Package service provides the business logic services for Atlant CMS.
package service

import "errors"

// Common service errors.
var (
	// ErrInternalError wraps infrastructure failures so callers never
	// branch on driver-specific errors.
	ErrInternalError = errors.New("internal error")

	// ErrNoNaturalKey indicates a key lookup on an aggregate whose
	// collection declares no natural key. Wiring defect.
	ErrNoNaturalKey = errors.New("aggregate has no natural key")

	// ErrOrderNotSupported indicates an order update on an aggregate
	// without a display order. Wiring defect.
	ErrOrderNotSupported = errors.New("aggregate has no display order")

	// ErrLockContention indicates a natural-key lock could not be
	// acquired in time.
	ErrLockContention = errors.New("write lock contention")
)
