package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/prn-tf/atlant-cms/internal/domain"
	"github.com/prn-tf/atlant-cms/internal/lock"
	"github.com/prn-tf/atlant-cms/internal/repository"
)

// lockTTL bounds how long a natural-key write lock may outlive its
// holder after a crash.
const lockTTL = 5 * time.Second

// NaturalKey declares the business-unique field of an aggregate.
type NaturalKey[T domain.Aggregate] struct {
	// Column is the repository key column holding the value.
	Column string

	// Value extracts the key value from an aggregate.
	Value func(T) string
}

// Definition binds an aggregate type to its service behavior: its
// typed not-found/already-exists errors, optional natural key, and
// default sort field.
type Definition[T domain.Aggregate] struct {
	// Name tags log entries and lock keys.
	Name string

	// NotFound is the aggregate-typed not-found error.
	NotFound error

	// AlreadyExists is the aggregate-typed conflict error.
	// Required when Key is set.
	AlreadyExists error

	// Key is the natural key, if the aggregate has one.
	Key *NaturalKey[T]

	// DefaultSort is the sort field used when the caller specifies none.
	DefaultSort string
}

// Store is the generic aggregate service. It is the only layer that
// enforces cross-record invariants: repositories are dumb storage,
// handlers are dumb routing. One Store is instantiated per aggregate
// type; aggregates with extra invariants (products, certificate
// parents, users) wrap it.
type Store[T domain.Aggregate] struct {
	def      Definition[T]
	repo     repository.Repository[T]
	locks    lock.Locker
	onDelete func(ctx context.Context, entity T) error
	logger   zerolog.Logger
}

// StoreOption configures a Store.
type StoreOption[T domain.Aggregate] func(*Store[T])

// WithCascadeDelete installs a hook invoked before the aggregate is
// removed, used by parents that own child records.
func WithCascadeDelete[T domain.Aggregate](fn func(ctx context.Context, entity T) error) StoreOption[T] {
	return func(s *Store[T]) { s.onDelete = fn }
}

// NewStore creates a Store for one aggregate type.
func NewStore[T domain.Aggregate](def Definition[T], repo repository.Repository[T], locks lock.Locker, logger zerolog.Logger, opts ...StoreOption[T]) *Store[T] {
	s := &Store[T]{
		def:    def,
		repo:   repo,
		locks:  locks,
		logger: logger.With().Str("service", def.Name).Logger(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Definition exposes the store's definition to wrapping services.
func (s *Store[T]) Definition() Definition[T] { return s.def }

// Create persists a new aggregate. When the aggregate has a natural
// key, the key is checked for uniqueness first under a per-key lock;
// the storage unique index remains as backstop for deployments running
// with the noop locker. The input entity is echoed back, not re-fetched.
func (s *Store[T]) Create(ctx context.Context, entity T) (T, error) {
	var zero T

	err := s.withKeyLock(ctx, entity, func(ctx context.Context) error {
		if s.def.Key != nil {
			value := s.def.Key.Value(entity)
			exists, err := s.repo.ExistsByKey(ctx, s.def.Key.Column, value)
			if err != nil {
				return s.internal(err, "failed to check uniqueness")
			}
			if exists {
				return s.conflict(value)
			}
		}
		if err := s.repo.Add(ctx, entity); err != nil {
			if errors.Is(err, repository.ErrDuplicateKey) {
				return s.conflict(s.keyValue(entity))
			}
			return s.internal(err, "failed to add")
		}
		return nil
	})
	if err != nil {
		return zero, err
	}

	s.logger.Info().
		Str("id", entity.AggregateID().String()).
		Msg("created")

	return entity, nil
}

// GetByID retrieves an aggregate by ID.
func (s *Store[T]) GetByID(ctx context.Context, id uuid.UUID) (T, error) {
	var zero T

	entity, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return zero, s.missing(id.String())
		}
		return zero, s.internal(err, "failed to get by id")
	}
	return entity, nil
}

// GetByKey retrieves an aggregate by its natural key value.
func (s *Store[T]) GetByKey(ctx context.Context, value string) (T, error) {
	var zero T
	if s.def.Key == nil {
		return zero, fmt.Errorf("%w: %s", ErrNoNaturalKey, s.def.Name)
	}

	entity, err := s.repo.GetByKey(ctx, s.def.Key.Column, value)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return zero, s.missing(value)
		}
		return zero, s.internal(err, "failed to get by key")
	}
	return entity, nil
}

// Update replaces an existing aggregate. The stored record's ID and
// CreatedAt always win over whatever the caller supplied; a changed
// natural key is re-checked for collisions with other records. The
// input entity is echoed back with its identity fields corrected.
func (s *Store[T]) Update(ctx context.Context, entity T) (T, error) {
	var zero T
	id := entity.AggregateID()

	existing, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return zero, s.missing(id.String())
		}
		return zero, s.internal(err, "failed to get by id")
	}

	// Identity fields are service-controlled, never client-controlled.
	meta := entity.Meta()
	meta.ID = id
	meta.CreatedAt = existing.Meta().CreatedAt
	meta.Touch()

	err = s.withKeyLock(ctx, entity, func(ctx context.Context) error {
		if s.def.Key != nil {
			value := s.def.Key.Value(entity)
			taken, err := s.repo.ExistsOther(ctx, s.def.Key.Column, value, id)
			if err != nil {
				return s.internal(err, "failed to check uniqueness")
			}
			if taken {
				return s.conflict(value)
			}
		}
		if err := s.repo.Update(ctx, entity); err != nil {
			switch {
			case errors.Is(err, repository.ErrNotFound):
				return s.missing(id.String())
			case errors.Is(err, repository.ErrDuplicateKey):
				return s.conflict(s.keyValue(entity))
			}
			return s.internal(err, "failed to update")
		}
		return nil
	})
	if err != nil {
		return zero, err
	}

	s.logger.Info().
		Str("id", id.String()).
		Msg("updated")

	return entity, nil
}

// UpdateOrder is an existence-checked partial update touching only the
// display order and UpdatedAt. Unlike Update it returns the freshly
// fetched record, not an echo of the input.
func (s *Store[T]) UpdateOrder(ctx context.Context, id uuid.UUID, order int) (T, error) {
	var zero T

	if _, err := domain.NewOrder(order); err != nil {
		return zero, err
	}

	entity, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return zero, s.missing(id.String())
		}
		return zero, s.internal(err, "failed to get by id")
	}

	orderable, ok := any(entity).(domain.Orderable)
	if !ok {
		return zero, fmt.Errorf("%w: %s", ErrOrderNotSupported, s.def.Name)
	}
	orderable.SetDisplayOrder(order)
	entity.Meta().Touch()

	if err := s.repo.Update(ctx, entity); err != nil {
		return zero, s.internal(err, "failed to update order")
	}

	updated, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return zero, s.internal(err, "failed to re-fetch after order update")
	}
	return updated, nil
}

// Delete removes an aggregate, running the cascade hook first so owned
// children never outlive their parent.
func (s *Store[T]) Delete(ctx context.Context, id uuid.UUID) error {
	entity, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return s.missing(id.String())
		}
		return s.internal(err, "failed to get by id")
	}

	if s.onDelete != nil {
		if err := s.onDelete(ctx, entity); err != nil {
			return err
		}
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return s.missing(id.String())
		}
		return s.internal(err, "failed to delete")
	}

	s.logger.Info().
		Str("id", id.String()).
		Msg("deleted")

	return nil
}

// List returns one page of aggregates plus the filter-wide total. The
// fetch and the count have no data dependency, so they run
// concurrently. An unknown or empty sort field falls back to the
// aggregate's default rather than failing.
func (s *Store[T]) List(ctx context.Context, opts repository.ListOptions) (repository.ListResult[T], error) {
	if opts.SortField == "" {
		opts.SortField = s.def.DefaultSort
	}

	var result repository.ListResult[T]

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		items, err := s.repo.FindMany(gctx, opts)
		if err != nil {
			return s.internal(err, "failed to find")
		}
		result.Items = items
		return nil
	})
	g.Go(func() error {
		total, err := s.repo.CountMany(gctx, opts.Filters)
		if err != nil {
			return s.internal(err, "failed to count")
		}
		result.Total = total
		return nil
	})

	if err := g.Wait(); err != nil {
		return repository.ListResult[T]{}, err
	}
	return result, nil
}

// Count returns the total matching the filters.
func (s *Store[T]) Count(ctx context.Context, filters repository.Filters) (int64, error) {
	total, err := s.repo.CountMany(ctx, filters)
	if err != nil {
		return 0, s.internal(err, "failed to count")
	}
	return total, nil
}

// withKeyLock serializes check-then-write sequences on the same
// natural-key value. Aggregates without a natural key write directly.
func (s *Store[T]) withKeyLock(ctx context.Context, entity T, fn func(ctx context.Context) error) error {
	if s.def.Key == nil {
		return fn(ctx)
	}

	key := fmt.Sprintf("%s:%s:%s", s.def.Name, s.def.Key.Column, s.def.Key.Value(entity))
	err := lock.WithLock(ctx, s.locks, key, lockTTL, fn)
	if errors.Is(err, lock.ErrNotAcquired) {
		return fmt.Errorf("%w: %s", ErrLockContention, key)
	}
	return err
}

func (s *Store[T]) keyValue(entity T) string {
	if s.def.Key == nil {
		return ""
	}
	return s.def.Key.Value(entity)
}

func (s *Store[T]) missing(resource string) error {
	return domain.NewDomainError(s.def.NotFound, "", resource)
}

func (s *Store[T]) conflict(value string) error {
	return domain.NewDomainError(s.def.AlreadyExists, "", value)
}

func (s *Store[T]) internal(err error, msg string) error {
	s.logger.Error().Err(err).Msg(msg)
	return fmt.Errorf("%w: %v", ErrInternalError, err)
}
