package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/prn-tf/atlant-cms/internal/cache"
	"github.com/prn-tf/atlant-cms/internal/domain"
)

// Cached decorates a Repository with read-through caching of the two
// hot single-record lookups, GetByID and GetByKey. List queries are not
// cached; the admin panel that issues them is not on the render path.
//
// Cache failures degrade to the inner repository: a page render must
// never fail because Redis is down.
type Cached[T domain.Aggregate] struct {
	inner  Repository[T]
	cache  cache.Cache
	spec   CollectionSpec[T]
	ttl    time.Duration
	logger zerolog.Logger
}

// NewCached wraps a repository with a read-through cache.
func NewCached[T domain.Aggregate](inner Repository[T], c cache.Cache, spec CollectionSpec[T], ttl time.Duration, logger zerolog.Logger) *Cached[T] {
	return &Cached[T]{
		inner:  inner,
		cache:  c,
		spec:   spec,
		ttl:    ttl,
		logger: logger.With().Str("component", "cached-repo").Str("collection", spec.Table).Logger(),
	}
}

func (r *Cached[T]) idKey(id uuid.UUID) string {
	return fmt.Sprintf("%s:id:%s", r.spec.Table, id)
}

func (r *Cached[T]) keyKey(column, value string) string {
	return fmt.Sprintf("%s:%s:%s", r.spec.Table, column, value)
}

// cacheKeys returns every cache key under which an entity may live.
func (r *Cached[T]) cacheKeys(entity T) []string {
	keys := []string{r.idKey(entity.AggregateID())}
	for _, key := range r.spec.Keys {
		keys = append(keys, r.keyKey(key.Column, key.Value(entity)))
	}
	return keys
}

func (r *Cached[T]) lookup(ctx context.Context, cacheKey string) (T, bool) {
	var zero T
	data, err := r.cache.Get(ctx, cacheKey)
	if err != nil {
		if !errors.Is(err, cache.ErrCacheMiss) {
			r.logger.Warn().Err(err).Str("key", cacheKey).Msg("cache read failed")
		}
		return zero, false
	}
	entity, err := r.spec.DecodeDoc(data)
	if err != nil {
		r.logger.Warn().Err(err).Str("key", cacheKey).Msg("cached document is corrupt")
		return zero, false
	}
	return entity, true
}

func (r *Cached[T]) store(ctx context.Context, cacheKey string, entity T) {
	data, err := r.spec.EncodeDoc(entity)
	if err != nil {
		return
	}
	if err := r.cache.Set(ctx, cacheKey, data, r.ttl); err != nil {
		r.logger.Warn().Err(err).Str("key", cacheKey).Msg("cache write failed")
	}
}

func (r *Cached[T]) invalidate(ctx context.Context, entity T) {
	if err := r.cache.Delete(ctx, r.cacheKeys(entity)...); err != nil {
		r.logger.Warn().Err(err).Msg("cache invalidation failed")
	}
}

// Add persists a new aggregate and invalidates any stale entries.
func (r *Cached[T]) Add(ctx context.Context, entity T) error {
	if err := r.inner.Add(ctx, entity); err != nil {
		return err
	}
	r.invalidate(ctx, entity)
	return nil
}

// GetByID retrieves an aggregate by ID, preferring the cache.
func (r *Cached[T]) GetByID(ctx context.Context, id uuid.UUID) (T, error) {
	if entity, ok := r.lookup(ctx, r.idKey(id)); ok {
		return entity, nil
	}

	entity, err := r.inner.GetByID(ctx, id)
	if err != nil {
		return entity, err
	}
	r.store(ctx, r.idKey(id), entity)
	return entity, nil
}

// GetByKey retrieves an aggregate by key column, preferring the cache.
func (r *Cached[T]) GetByKey(ctx context.Context, column, value string) (T, error) {
	if entity, ok := r.lookup(ctx, r.keyKey(column, value)); ok {
		return entity, nil
	}

	entity, err := r.inner.GetByKey(ctx, column, value)
	if err != nil {
		return entity, err
	}
	r.store(ctx, r.keyKey(column, value), entity)
	return entity, nil
}

// ExistsByKey passes through to the inner repository. Existence checks
// guard writes, so they must see the store, not the cache.
func (r *Cached[T]) ExistsByKey(ctx context.Context, column, value string) (bool, error) {
	return r.inner.ExistsByKey(ctx, column, value)
}

// ExistsOther passes through to the inner repository.
func (r *Cached[T]) ExistsOther(ctx context.Context, column, value string, excludeID uuid.UUID) (bool, error) {
	return r.inner.ExistsOther(ctx, column, value, excludeID)
}

// Update replaces an aggregate and invalidates its cache entries, old
// and new: a renamed natural key must drop the entry under the previous
// value too.
func (r *Cached[T]) Update(ctx context.Context, entity T) error {
	if previous, err := r.inner.GetByID(ctx, entity.AggregateID()); err == nil {
		r.invalidate(ctx, previous)
	}
	if err := r.inner.Update(ctx, entity); err != nil {
		return err
	}
	r.invalidate(ctx, entity)
	return nil
}

// Delete removes an aggregate and its cache entries.
func (r *Cached[T]) Delete(ctx context.Context, id uuid.UUID) error {
	if previous, err := r.inner.GetByID(ctx, id); err == nil {
		r.invalidate(ctx, previous)
	}
	if err := r.inner.Delete(ctx, id); err != nil {
		return err
	}
	if err := r.cache.Delete(ctx, r.idKey(id)); err != nil {
		r.logger.Warn().Err(err).Msg("cache invalidation failed")
	}
	return nil
}

// FindMany passes through to the inner repository.
func (r *Cached[T]) FindMany(ctx context.Context, opts ListOptions) ([]T, error) {
	return r.inner.FindMany(ctx, opts)
}

// CountMany passes through to the inner repository.
func (r *Cached[T]) CountMany(ctx context.Context, filters Filters) (int64, error) {
	return r.inner.CountMany(ctx, filters)
}

var _ Repository[*domain.SeoSettings] = (*Cached[*domain.SeoSettings])(nil)
