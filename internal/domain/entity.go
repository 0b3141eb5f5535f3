// Package domain contains the core business entities for Atlant CMS.
// These are pure Go structs with no infrastructure dependencies,
// representing the content aggregates of the marketing site.
package domain

import (
	"time"

	"github.com/google/uuid"
)

// Entity is the common base embedded by every aggregate.
// Identity is defined solely by ID: two entities with the same ID are
// the same aggregate regardless of their other field values.
type Entity struct {
	// ID is the unique identifier, generated at construction.
	ID uuid.UUID `json:"id"`

	// CreatedAt is the timestamp when the aggregate was created.
	CreatedAt time.Time `json:"created_at"`

	// UpdatedAt is the timestamp when the aggregate was last updated.
	UpdatedAt time.Time `json:"updated_at"`
}

// NewEntity creates a new Entity with a generated ID and current timestamps.
func NewEntity() Entity {
	now := time.Now().UTC()
	return Entity{
		ID:        uuid.New(),
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// AggregateID returns the identity of the aggregate.
func (e *Entity) AggregateID() uuid.UUID { return e.ID }

// Meta exposes the embedded Entity for identity-preserving updates.
func (e *Entity) Meta() *Entity { return e }

// Touch bumps UpdatedAt to the current time.
func (e *Entity) Touch() { e.UpdatedAt = time.Now().UTC() }

// Equal reports identity equality. Field values are deliberately
// ignored; aggregates are compared by ID only.
func (e *Entity) Equal(other *Entity) bool {
	if other == nil {
		return false
	}
	return e.ID == other.ID
}

// Aggregate is implemented by every domain aggregate via the embedded
// Entity base. Repositories and services are generic over this interface.
type Aggregate interface {
	AggregateID() uuid.UUID
	Meta() *Entity
}

// Orderable is implemented by aggregates with a display-order field.
type Orderable interface {
	DisplayOrder() int
	SetDisplayOrder(order int)
}
