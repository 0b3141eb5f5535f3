// Package repository defines data access contracts for Atlant CMS.
// These interfaces abstract the document store, allowing different
// implementations (SQLite, PostgreSQL, in-memory) while keeping the
// service layer clean.
//
// Repositories are dumb storage: absence is reported as ErrNotFound,
// never as an aggregate-typed error. Converting absence into a typed
// domain failure is the service layer's job alone.
package repository

import (
	"context"
	"encoding/json"

	"github.com/google/uuid"

	"github.com/prn-tf/atlant-cms/internal/domain"
)

// SortAscending and SortDescending are the signed sort orders accepted
// by FindMany.
const (
	SortAscending  = 1
	SortDescending = -1
)

// Filters restricts FindMany/CountMany to records whose declared key
// columns hold the given values. Unknown columns are ignored by
// implementations rather than failing the query.
type Filters map[string]string

// ListOptions describes sorting and pagination for FindMany.
type ListOptions struct {
	// SortField is a declared key column or "order"/"created_at".
	SortField string

	// SortOrder is SortAscending or SortDescending.
	SortOrder int

	// Offset is the number of records to skip.
	Offset int

	// Limit is the maximum number of records to return. Zero means no limit.
	Limit int

	// Filters narrows the result set.
	Filters Filters
}

// ListResult is a paginated list with its filter-wide total.
type ListResult[T domain.Aggregate] struct {
	Items []T
	Total int64
}

// Repository is the storage contract shared by every aggregate.
type Repository[T domain.Aggregate] interface {
	// Add persists a new aggregate.
	Add(ctx context.Context, entity T) error

	// GetByID retrieves an aggregate by ID.
	// Returns ErrNotFound if absent.
	GetByID(ctx context.Context, id uuid.UUID) (T, error)

	// GetByKey retrieves an aggregate by a declared key column.
	// Returns ErrNotFound if absent.
	GetByKey(ctx context.Context, column, value string) (T, error)

	// ExistsByKey checks whether any record holds the given key value.
	ExistsByKey(ctx context.Context, column, value string) (bool, error)

	// ExistsOther checks whether a record other than excludeID holds
	// the given key value. Used for uniqueness re-checks on update.
	ExistsOther(ctx context.Context, column, value string, excludeID uuid.UUID) (bool, error)

	// Update replaces an existing aggregate.
	// Returns ErrNotFound if absent.
	Update(ctx context.Context, entity T) error

	// Delete removes an aggregate by ID.
	// Returns ErrNotFound if absent.
	Delete(ctx context.Context, id uuid.UUID) error

	// FindMany returns the aggregates matching opts.Filters, sorted and
	// paginated. An empty result is a nil or empty slice, never an error.
	FindMany(ctx context.Context, opts ListOptions) ([]T, error)

	// CountMany returns the total matching the filters, independent of
	// offset/limit.
	CountMany(ctx context.Context, filters Filters) (int64, error)
}

// KeySpec declares one indexed column extracted from an aggregate.
// Unique keys double as natural keys: the store places a unique index
// on them so the database backs up the service-level uniqueness check.
type KeySpec[T domain.Aggregate] struct {
	// Column is the column name ("slug", "page_path", "category").
	Column string

	// Unique marks the column as a natural key.
	Unique bool

	// Value extracts the column value from an aggregate.
	Value func(T) string
}

// CollectionSpec describes how one aggregate type is stored: the table
// name, its indexed key columns, and a factory for decode targets.
type CollectionSpec[T domain.Aggregate] struct {
	// Table is the collection/table name.
	Table string

	// Keys are the indexed columns.
	Keys []KeySpec[T]

	// New returns an empty aggregate to decode into.
	New func() T

	// Encode and Decode override the default JSON codec. Used by
	// collections whose API representation hides fields that still
	// must be persisted (the user password hash).
	Encode func(T) ([]byte, error)
	Decode func(data []byte) (T, error)
}

// EncodeDoc serializes an aggregate for storage.
func (s CollectionSpec[T]) EncodeDoc(entity T) ([]byte, error) {
	if s.Encode != nil {
		return s.Encode(entity)
	}
	return json.Marshal(entity)
}

// DecodeDoc deserializes a stored document.
func (s CollectionSpec[T]) DecodeDoc(data []byte) (T, error) {
	if s.Decode != nil {
		return s.Decode(data)
	}
	entity := s.New()
	if err := json.Unmarshal(data, entity); err != nil {
		var zero T
		return zero, err
	}
	return entity, nil
}

// Key returns the spec for a column, if declared.
func (s CollectionSpec[T]) Key(column string) (KeySpec[T], bool) {
	for _, k := range s.Keys {
		if k.Column == column {
			return k, true
		}
	}
	return KeySpec[T]{}, false
}
