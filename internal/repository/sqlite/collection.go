package sqlite

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/prn-tf/atlant-cms/internal/domain"
	"github.com/prn-tf/atlant-cms/internal/repository"
)

// jsonFieldRegex bounds the sort fields we are willing to splice into a
// json_extract expression.
var jsonFieldRegex = regexp.MustCompile(`^[a-z][a-z0-9_]*$`)

// Collection implements repository.Repository for one aggregate type on
// SQLite. The aggregate is stored as a JSON document; declared key
// columns are extracted into real columns so they can be indexed,
// filtered, and constrained.
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
			id TEXT PRIMARY KEY,
			data TEXT NOT NULL,
			created_at TEXT NOT NULL,
			updated_at TEXT NOT NULL%s
		)
	`, c.spec.Table, cols.String())

	if _, err := c.db.db.ExecContext(ctx, create); err != nil {
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
		if _, err := c.db.db.ExecContext(ctx, index); err != nil {
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
	placeholders := []string{"?", "?", "?", "?"}
	meta := entity.Meta()
	args := []any{
		entity.AggregateID().String(),
		string(data),
		meta.CreatedAt.UTC().Format(timeFormat),
		meta.UpdatedAt.UTC().Format(timeFormat),
	}
	for _, key := range c.spec.Keys {
		columns = append(columns, key.Column)
		placeholders = append(placeholders, "?")
		args = append(args, key.Value(entity))
	}

	query := fmt.Sprintf(
		"INSERT INTO %s (%s) VALUES (%s)",
		c.spec.Table, strings.Join(columns, ", "), strings.Join(placeholders, ", "),
	)

	if _, err := c.db.db.ExecContext(ctx, query, args...); err != nil {
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
	query := fmt.Sprintf("SELECT data FROM %s WHERE id = ?", c.spec.Table)

	var data string
	if err := c.db.db.QueryRowContext(ctx, query, id.String()).Scan(&data); err != nil {
		if isNoRows(err) {
			return zero, repository.ErrNotFound
		}
		return zero, fmt.Errorf("failed to get from %s: %w", c.spec.Table, err)
	}
	return c.spec.DecodeDoc([]byte(data))
}

// GetByKey retrieves an aggregate by a declared key column.
func (c *Collection[T]) GetByKey(ctx context.Context, column, value string) (T, error) {
	var zero T
	if _, ok := c.spec.Key(column); !ok {
		return zero, fmt.Errorf("%w: %s", repository.ErrUnknownColumn, column)
	}

	query := fmt.Sprintf("SELECT data FROM %s WHERE %s = ?", c.spec.Table, column)

	var data string
	if err := c.db.db.QueryRowContext(ctx, query, value).Scan(&data); err != nil {
		if isNoRows(err) {
			return zero, repository.ErrNotFound
		}
		return zero, fmt.Errorf("failed to get from %s: %w", c.spec.Table, err)
	}
	return c.spec.DecodeDoc([]byte(data))
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
		"SELECT EXISTS(SELECT 1 FROM %s WHERE %s = ? AND id != ?)",
		c.spec.Table, column,
	)

	var exists int
	if err := c.db.db.QueryRowContext(ctx, query, value, excludeID.String()).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check existence in %s: %w", c.spec.Table, err)
	}
	return exists != 0, nil
}

// Update replaces an existing aggregate.
func (c *Collection[T]) Update(ctx context.Context, entity T) error {
	data, err := c.spec.EncodeDoc(entity)
	if err != nil {
		return fmt.Errorf("failed to encode document: %w", err)
	}

	assignments := []string{"data = ?", "updated_at = ?"}
	args := []any{
		string(data),
		entity.Meta().UpdatedAt.UTC().Format(timeFormat),
	}
	for _, key := range c.spec.Keys {
		assignments = append(assignments, fmt.Sprintf("%s = ?", key.Column))
		args = append(args, key.Value(entity))
	}
	args = append(args, entity.AggregateID().String())

	query := fmt.Sprintf(
		"UPDATE %s SET %s WHERE id = ?",
		c.spec.Table, strings.Join(assignments, ", "),
	)

	result, err := c.db.db.ExecContext(ctx, query, args...)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: %s", repository.ErrDuplicateKey, c.spec.Table)
		}
		return fmt.Errorf("failed to update %s: %w", c.spec.Table, err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read rows affected: %w", err)
	}
	if affected == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// Delete removes an aggregate by ID.
func (c *Collection[T]) Delete(ctx context.Context, id uuid.UUID) error {
	query := fmt.Sprintf("DELETE FROM %s WHERE id = ?", c.spec.Table)

	result, err := c.db.db.ExecContext(ctx, query, id.String())
	if err != nil {
		return fmt.Errorf("failed to delete from %s: %w", c.spec.Table, err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read rows affected: %w", err)
	}
	if affected == 0 {
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

	limit := opts.Limit
	if limit <= 0 {
		limit = -1 // no limit in SQLite
	}

	query := fmt.Sprintf(
		"SELECT data FROM %s%s ORDER BY %s %s LIMIT ? OFFSET ?",
		c.spec.Table, where, c.sortExpr(opts.SortField), direction,
	)
	args = append(args, limit, opts.Offset)

	rows, err := c.db.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query %s: %w", c.spec.Table, err)
	}
	defer rows.Close()

	var items []T
	for rows.Next() {
		var data string
		if err := rows.Scan(&data); err != nil {
			return nil, fmt.Errorf("failed to scan row from %s: %w", c.spec.Table, err)
		}
		entity, err := c.spec.DecodeDoc([]byte(data))
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
	if err := c.db.db.QueryRowContext(ctx, query, args...).Scan(&total); err != nil {
		return 0, fmt.Errorf("failed to count %s: %w", c.spec.Table, err)
	}
	return total, nil
}

// buildWhere assembles the WHERE clause from declared filter columns.
// Undeclared columns are dropped.
func (c *Collection[T]) buildWhere(filters repository.Filters) (string, []any) {
	var clauses []string
	var args []any
	for column, value := range filters {
		if _, ok := c.spec.Key(column); !ok {
			continue
		}
		clauses = append(clauses, fmt.Sprintf("%s = ?", column))
		args = append(args, value)
	}
	if len(clauses) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(clauses, " AND "), args
}

// sortExpr resolves a sort field to a safe ORDER BY expression: a
// declared key column, one of the real timestamp columns, or a
// json_extract over the document for anything else that looks like a
// field name. Unknown shapes fall back to created_at.
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
		return fmt.Sprintf("json_extract(data, '$.%s')", field)
	}
	return "created_at"
}

// timeFormat is the timestamp column layout. RFC 3339 keeps the
// lexicographic and chronological orders aligned.
const timeFormat = time.RFC3339Nano
