package postgres

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/prn-tf/atlant-cms/internal/domain"
	"github.com/prn-tf/atlant-cms/internal/repository"
)

// uniqueViolationCode is the PostgreSQL error code for unique_violation.
const uniqueViolationCode = "23505"

var jsonFieldRegex = regexp.MustCompile(`^[a-z][a-z0-9_]*$`)

// Collection implements repository.Repository for one aggregate type on
// PostgreSQL.
type Collection[T domain.Aggregate] struct {
	db   *DB
	spec repository.CollectionSpec[T]
}

// NewCollection creates the collection and ensures its schema exists.
func NewCollection[T domain.Aggregate](ctx context.Context, db *DB, spec repository.CollectionSpec[T]) (*Collection[T], error) {
	c := &Collection[T]{db: db, spec: spec}
	if err := c.ensureSchema(ctx); err != nil {
		return nil, fmt.Errorf("failed to ensure schema for %s: %w", spec.Table, err)
	}
	return c, nil
}

func (c *Collection[T]) ensureSchema(ctx context.Context) error {
	var cols strings.Builder
	for _, key := range c.spec.Keys {
		cols.WriteString(fmt.Sprintf(", %s TEXT NOT NULL DEFAULT ''", key.Column))
	}

	create := fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS %s (
			id UUID PRIMARY KEY,
			data JSONB NOT NULL,
			created_at TIMESTAMPTZ NOT NULL,
			updated_at TIMESTAMPTZ NOT NULL%s
		)
	`, c.spec.Table, cols.String())

	if _, err := c.db.pool.Exec(ctx, create); err != nil {
		return err
	}

	for _, key := range c.spec.Keys {
		unique := ""
		if key.Unique {
			unique = "UNIQUE "
		}
		index := fmt.Sprintf(
			"CREATE %sINDEX IF NOT EXISTS idx_%s_%s ON %s (%s)",
			unique, c.spec.Table, key.Column, c.spec.Table, key.Column,
		)
		if _, err := c.db.pool.Exec(ctx, index); err != nil {
			return err
		}
	}
	return nil
}

// Add persists a new aggregate.
func (c *Collection[T]) Add(ctx context.Context, entity T) error {
	data, err := c.spec.EncodeDoc(entity)
	if err != nil {
		return fmt.Errorf("failed to encode document: %w", err)
	}

	columns := []string{"id", "data", "created_at", "updated_at"}
	meta := entity.Meta()
	args := []any{entity.AggregateID(), data, meta.CreatedAt, meta.UpdatedAt}
	for _, key := range c.spec.Keys {
		columns = append(columns, key.Column)
		args = append(args, key.Value(entity))
	}

	placeholders := make([]string, len(columns))
	for i := range columns {
		placeholders[i] = fmt.Sprintf("$%d", i+1)
	}

	query := fmt.Sprintf(
		"INSERT INTO %s (%s) VALUES (%s)",
		c.spec.Table, strings.Join(columns, ", "), strings.Join(placeholders, ", "),
	)

	if _, err := c.db.pool.Exec(ctx, query, args...); err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: %s", repository.ErrDuplicateKey, c.spec.Table)
		}
		return fmt.Errorf("failed to insert into %s: %w", c.spec.Table, err)
	}
	return nil
}

// GetByID retrieves an aggregate by ID.
func (c *Collection[T]) GetByID(ctx context.Context, id uuid.UUID) (T, error) {
	var zero T
	query := fmt.Sprintf("SELECT data FROM %s WHERE id = $1", c.spec.Table)

	var data []byte
	if err := c.db.pool.QueryRow(ctx, query, id).Scan(&data); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return zero, repository.ErrNotFound
		}
		return zero, fmt.Errorf("failed to get from %s: %w", c.spec.Table, err)
	}
	return c.spec.DecodeDoc(data)
}

// GetByKey retrieves an aggregate by a declared key column.
func (c *Collection[T]) GetByKey(ctx context.Context, column, value string) (T, error) {
	var zero T
	if _, ok := c.spec.Key(column); !ok {
		return zero, fmt.Errorf("%w: %s", repository.ErrUnknownColumn, column)
	}

	query := fmt.Sprintf("SELECT data FROM %s WHERE %s = $1", c.spec.Table, column)

	var data []byte
	if err := c.db.pool.QueryRow(ctx, query, value).Scan(&data); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return zero, repository.ErrNotFound
		}
		return zero, fmt.Errorf("failed to get from %s: %w", c.spec.Table, err)
	}
	return c.spec.DecodeDoc(data)
}

// ExistsByKey checks whether any record holds the given key value.
func (c *Collection[T]) ExistsByKey(ctx context.Context, column, value string) (bool, error) {
	return c.ExistsOther(ctx, column, value, uuid.Nil)
}

// ExistsOther checks whether a record other than excludeID holds the
// given key value.
func (c *Collection[T]) ExistsOther(ctx context.Context, column, value string, excludeID uuid.UUID) (bool, error) {
	if _, ok := c.spec.Key(column); !ok {
		return false, fmt.Errorf("%w: %s", repository.ErrUnknownColumn, column)
	}

	query := fmt.Sprintf(
		"SELECT EXISTS(SELECT 1 FROM %s WHERE %s = $1 AND id != $2)",
		c.spec.Table, column,
	)

	var exists bool
	if err := c.db.pool.QueryRow(ctx, query, value, excludeID).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check existence in %s: %w", c.spec.Table, err)
	}
	return exists, nil
}

// Update replaces an existing aggregate.
func (c *Collection[T]) Update(ctx context.Context, entity T) error {
	data, err := c.spec.EncodeDoc(entity)
	if err != nil {
		return fmt.Errorf("failed to encode document: %w", err)
	}

	assignments := []string{"data = $1", "updated_at = $2"}
	args := []any{data, entity.Meta().UpdatedAt}
	for _, key := range c.spec.Keys {
		assignments = append(assignments, fmt.Sprintf("%s = $%d", key.Column, len(args)+1))
		args = append(args, key.Value(entity))
	}
	args = append(args, entity.AggregateID())

	query := fmt.Sprintf(
		"UPDATE %s SET %s WHERE id = $%d",
		c.spec.Table, strings.Join(assignments, ", "), len(args),
	)

	tag, err := c.db.pool.Exec(ctx, query, args...)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: %s", repository.ErrDuplicateKey, c.spec.Table)
		}
		return fmt.Errorf("failed to update %s: %w", c.spec.Table, err)
	}
	if tag.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// Delete removes an aggregate by ID.
func (c *Collection[T]) Delete(ctx context.Context, id uuid.UUID) error {
	query := fmt.Sprintf("DELETE FROM %s WHERE id = $1", c.spec.Table)

	tag, err := c.db.pool.Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to delete from %s: %w", c.spec.Table, err)
	}
	if tag.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// FindMany returns the aggregates matching opts.Filters, sorted and
// paginated.
func (c *Collection[T]) FindMany(ctx context.Context, opts repository.ListOptions) ([]T, error) {
	where, args := c.buildWhere(opts.Filters)

	direction := "ASC"
	if opts.SortOrder == repository.SortDescending {
		direction = "DESC"
	}

	query := fmt.Sprintf(
		"SELECT data FROM %s%s ORDER BY %s %s OFFSET $%d",
		c.spec.Table, where, c.sortExpr(opts.SortField), direction, len(args)+1,
	)
	args = append(args, opts.Offset)
	if opts.Limit > 0 {
		query += fmt.Sprintf(" LIMIT $%d", len(args)+1)
		args = append(args, opts.Limit)
	}

	rows, err := c.db.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query %s: %w", c.spec.Table, err)
	}
	defer rows.Close()

	var items []T
	for rows.Next() {
		var data []byte
		if err := rows.Scan(&data); err != nil {
			return nil, fmt.Errorf("failed to scan row from %s: %w", c.spec.Table, err)
		}
		entity, err := c.spec.DecodeDoc(data)
		if err != nil {
			return nil, fmt.Errorf("failed to decode document from %s: %w", c.spec.Table, err)
		}
		items = append(items, entity)
	}
	return items, rows.Err()
}

// CountMany returns the total matching the filters.
func (c *Collection[T]) CountMany(ctx context.Context, filters repository.Filters) (int64, error) {
	where, args := c.buildWhere(filters)

	query := fmt.Sprintf("SELECT COUNT(*) FROM %s%s", c.spec.Table, where)

	var total int64
	if err := c.db.pool.QueryRow(ctx, query, args...).Scan(&total); err != nil {
		return 0, fmt.Errorf("failed to count %s: %w", c.spec.Table, err)
	}
	return total, nil
}

func (c *Collection[T]) buildWhere(filters repository.Filters) (string, []any) {
	var clauses []string
	var args []any
	for column, value := range filters {
		if _, ok := c.spec.Key(column); !ok {
			continue
		}
		clauses = append(clauses, fmt.Sprintf("%s = $%d", column, len(args)+1))
		args = append(args, value)
	}
	if len(clauses) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(clauses, " AND "), args
}

func (c *Collection[T]) sortExpr(field string) string {
	switch field {
	case "", "created_at":
		return "created_at"
	case "updated_at":
		return "updated_at"
	}
	if _, ok := c.spec.Key(field); ok {
		return field
	}
	if jsonFieldRegex.MatchString(field) {
		return fmt.Sprintf("data->>'%s'", field)
	}
	return "created_at"
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolationCode
}
