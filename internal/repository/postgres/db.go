// Package postgres provides the PostgreSQL document store for Atlant
// CMS, mirroring the sqlite package on a pgx connection pool. Documents
// live in a jsonb column; declared key columns are extracted for
// indexing and unique constraints.
package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

// Config holds PostgreSQL connection settings.
type Config struct {
	Host            string
	Port            int
	User            string
	Password        string
	Database        string
	SSLMode         string
	MaxConns        int32
	ConnMaxLifetime time.Duration
}

// DSN returns the PostgreSQL connection string.
func (c Config) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.Database, c.SSLMode,
	)
}

// DB wraps a pgx connection pool.
type DB struct {
	pool   *pgxpool.Pool
	logger zerolog.Logger
}

// NewDB creates a new PostgreSQL connection pool.
func NewDB(ctx context.Context, cfg Config, logger zerolog.Logger) (*DB, error) {
	poolCfg, err := pgxpool.ParseConfig(cfg.DSN())
	if err != nil {
		return nil, fmt.Errorf("failed to parse postgres config: %w", err)
	}
	if cfg.MaxConns > 0 {
		poolCfg.MaxConns = cfg.MaxConns
	}
	if cfg.ConnMaxLifetime > 0 {
		poolCfg.MaxConnLifetime = cfg.ConnMaxLifetime
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create postgres pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping postgres: %w", err)
	}

	logger.Info().
		Str("host", cfg.Host).
		Str("database", cfg.Database).
		Msg("postgres pool opened")

	return &DB{
		pool:   pool,
		logger: logger.With().Str("component", "postgres").Logger(),
	}, nil
}

// Ping verifies the database connection.
func (d *DB) Ping(ctx context.Context) error {
	return d.pool.Ping(ctx)
}

// Health runs a trivial query to verify the database is usable.
func (d *DB) Health(ctx context.Context) error {
	var one int
	return d.pool.QueryRow(ctx, "SELECT 1").Scan(&one)
}

// Close closes the connection pool.
func (d *DB) Close() error {
	d.pool.Close()
	return nil
}
