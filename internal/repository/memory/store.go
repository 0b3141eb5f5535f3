// Package memory provides an in-memory repository implementation.
// It backs the "memory" database driver for dependency-free local runs
// and is the storage double used by the service test suites.
package memory

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"sync"

	"github.com/google/uuid"

	"github.com/prn-tf/atlant-cms/internal/domain"
	"github.com/prn-tf/atlant-cms/internal/repository"
)

// Store implements repository.Repository backed by a map.
// Documents are kept in their encoded form so every read returns an
// independent copy, matching the copy semantics of the SQL stores.
type Store[T domain.Aggregate] struct {
	mu   sync.RWMutex
	spec repository.CollectionSpec[T]
	docs map[uuid.UUID][]byte
}

// New creates an empty in-memory store for one collection.
func New[T domain.Aggregate](spec repository.CollectionSpec[T]) *Store[T] {
	return &Store[T]{
		spec: spec,
		docs: make(map[uuid.UUID][]byte),
	}
}

// Add persists a new aggregate.
func (s *Store[T]) Add(ctx context.Context, entity T) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, key := range s.spec.Keys {
		if !key.Unique {
			continue
		}
		if s.lockedExists(key, key.Value(entity), uuid.Nil) {
			return fmt.Errorf("%w: %s=%s", repository.ErrDuplicateKey, key.Column, key.Value(entity))
		}
	}

	data, err := s.spec.EncodeDoc(entity)
	if err != nil {
		return err
	}
	s.docs[entity.AggregateID()] = data
	return nil
}

// GetByID retrieves an aggregate by ID.
func (s *Store[T]) GetByID(ctx context.Context, id uuid.UUID) (T, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var zero T
	data, ok := s.docs[id]
	if !ok {
		return zero, repository.ErrNotFound
	}
	return s.spec.DecodeDoc(data)
}

// GetByKey retrieves an aggregate by a declared key column.
func (s *Store[T]) GetByKey(ctx context.Context, column, value string) (T, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var zero T
	key, ok := s.spec.Key(column)
	if !ok {
		return zero, fmt.Errorf("%w: %s", repository.ErrUnknownColumn, column)
	}

	for _, data := range s.docs {
		entity, err := s.spec.DecodeDoc(data)
		if err != nil {
			return zero, err
		}
		if key.Value(entity) == value {
			return entity, nil
		}
	}
	return zero, repository.ErrNotFound
}

// ExistsByKey checks whether any record holds the given key value.
func (s *Store[T]) ExistsByKey(ctx context.Context, column, value string) (bool, error) {
	return s.ExistsOther(ctx, column, value, uuid.Nil)
}

// ExistsOther checks whether a record other than excludeID holds the
// given key value.
func (s *Store[T]) ExistsOther(ctx context.Context, column, value string, excludeID uuid.UUID) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	key, ok := s.spec.Key(column)
	if !ok {
		return false, fmt.Errorf("%w: %s", repository.ErrUnknownColumn, column)
	}
	return s.lockedExists(key, value, excludeID), nil
}

// lockedExists must be called with the mutex held.
func (s *Store[T]) lockedExists(key repository.KeySpec[T], value string, excludeID uuid.UUID) bool {
	for id, data := range s.docs {
		if id == excludeID {
			continue
		}
		entity, err := s.spec.DecodeDoc(data)
		if err != nil {
			continue
		}
		if key.Value(entity) == value {
			return true
		}
	}
	return false
}

// Update replaces an existing aggregate.
func (s *Store[T]) Update(ctx context.Context, entity T) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := entity.AggregateID()
	if _, ok := s.docs[id]; !ok {
		return repository.ErrNotFound
	}

	for _, key := range s.spec.Keys {
		if !key.Unique {
			continue
		}
		if s.lockedExists(key, key.Value(entity), id) {
			return fmt.Errorf("%w: %s=%s", repository.ErrDuplicateKey, key.Column, key.Value(entity))
		}
	}

	data, err := s.spec.EncodeDoc(entity)
	if err != nil {
		return err
	}
	s.docs[id] = data
	return nil
}

// Delete removes an aggregate by ID.
func (s *Store[T]) Delete(ctx context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.docs[id]; !ok {
		return repository.ErrNotFound
	}
	delete(s.docs, id)
	return nil
}

// FindMany returns the aggregates matching opts.Filters, sorted and
// paginated.
func (s *Store[T]) FindMany(ctx context.Context, opts repository.ListOptions) ([]T, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	type row struct {
		entity T
		fields map[string]any
	}

	var rows []row
	for _, data := range s.docs {
		entity, err := s.spec.DecodeDoc(data)
		if err != nil {
			return nil, err
		}
		if !s.matches(entity, opts.Filters) {
			continue
		}
		fields := make(map[string]any)
		if err := json.Unmarshal(data, &fields); err != nil {
			return nil, err
		}
		rows = append(rows, row{entity: entity, fields: fields})
	}

	sortField := opts.SortField
	if sortField == "" {
		sortField = "created_at"
	}
	descending := opts.SortOrder == repository.SortDescending

	sort.SliceStable(rows, func(i, j int) bool {
		less := fieldLess(rows[i].fields[sortField], rows[j].fields[sortField])
		if descending {
			return !less && !fieldEqual(rows[i].fields[sortField], rows[j].fields[sortField])
		}
		return less
	})

	if opts.Offset > 0 {
		if opts.Offset >= len(rows) {
			return nil, nil
		}
		rows = rows[opts.Offset:]
	}
	if opts.Limit > 0 && opts.Limit < len(rows) {
		rows = rows[:opts.Limit]
	}

	items := make([]T, len(rows))
	for i, r := range rows {
		items[i] = r.entity
	}
	return items, nil
}

// CountMany returns the total matching the filters.
func (s *Store[T]) CountMany(ctx context.Context, filters repository.Filters) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var total int64
	for _, data := range s.docs {
		entity, err := s.spec.DecodeDoc(data)
		if err != nil {
			return 0, err
		}
		if s.matches(entity, filters) {
			total++
		}
	}
	return total, nil
}

func (s *Store[T]) matches(entity T, filters repository.Filters) bool {
	for column, want := range filters {
		key, ok := s.spec.Key(column)
		if !ok {
			// Unknown filter columns are ignored, matching the SQL stores.
			continue
		}
		if key.Value(entity) != want {
			return false
		}
	}
	return true
}

// fieldLess compares two decoded JSON field values. Numbers compare
// numerically, everything else falls back to string comparison
// (RFC 3339 timestamps order correctly as strings).
func fieldLess(a, b any) bool {
	fa, aNum := a.(float64)
	fb, bNum := b.(float64)
	if aNum && bNum {
		return fa < fb
	}
	return fmt.Sprint(a) < fmt.Sprint(b)
}

func fieldEqual(a, b any) bool {
	fa, aNum := a.(float64)
	fb, bNum := b.(float64)
	if aNum && bNum {
		return fa == fb
	}
	return fmt.Sprint(a) == fmt.Sprint(b)
}

// Len reports the number of stored documents. Test helper.
func (s *Store[T]) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.docs)
}
