// Package repository persists the engine's bookkeeping: per-function usage
// counters and the rename history feeding exports. The store speaks
// database/sql and accepts either a sqlite file path (the default) or a
// postgres URL, wrapping a pgx pool the way the daemon's other tooling
// expects.
package repository

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	_ "modernc.org/sqlite"
)

type Config struct {
	DSN         string
	DialTimeout time.Duration
}

// Store wraps the database handle plus the optional pgx pool backing it.
type Store struct {
	db     *sql.DB
	pool   *pgxpool.Pool
	logger *slog.Logger
}

// Open connects to the configured database and ensures the schema exists.
func Open(ctx context.Context, cfg Config, logger *slog.Logger) (*Store, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.DialTimeout <= 0 {
		cfg.DialTimeout = 3 * time.Second
	}

	s := &Store{logger: logger}

	if isPostgresDSN(cfg.DSN) {
		pc, err := pgxpool.ParseConfig(cfg.DSN)
		if err != nil {
			return nil, fmt.Errorf("parse dsn: %w", err)
		}
		pc.ConnConfig.RuntimeParams["application_name"] = "pdfutils"
		dialCtx, cancel := context.WithTimeout(ctx, cfg.DialTimeout)
		defer cancel()
		pool, err := pgxpool.NewWithConfig(dialCtx, pc)
		if err != nil {
			return nil, fmt.Errorf("connect postgres: %w", err)
		}
		s.pool = pool
		s.db = stdlib.OpenDBFromPool(pool)
		logger.Info("connected to postgres store")
	} else {
		db, err := sql.Open("sqlite", cfg.DSN)
		if err != nil {
			return nil, fmt.Errorf("open sqlite %s: %w", cfg.DSN, err)
		}
		// modernc sqlite is single-writer; serialize access
		db.SetMaxOpenConns(1)
		s.db = db
		logger.Info("opened sqlite store", "path", cfg.DSN)
	}

	if err := s.migrate(ctx); err != nil {
		_ = s.Close()
		return nil, err
	}
	return s, nil
}

func isPostgresDSN(dsn string) bool {
	return strings.HasPrefix(dsn, "postgres://") || strings.HasPrefix(dsn, "postgresql://")
}

func (s *Store) migrate(ctx context.Context) error {
	// timestamps are RFC3339 TEXT so sqlite and postgres scan identically
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS function_usage (
			name       TEXT PRIMARY KEY,
			count      BIGINT NOT NULL DEFAULT 0,
			last_used  TEXT NOT NULL DEFAULT ''
		)`,
		`CREATE TABLE IF NOT EXISTS rename_history (
			id             TEXT PRIMARY KEY,
			old_path       TEXT NOT NULL,
			new_path       TEXT NOT NULL,
			suggested_name TEXT NOT NULL,
			dates          TEXT NOT NULL,
			names          TEXT NOT NULL,
			organizations  TEXT NOT NULL,
			renamed_at     TEXT NOT NULL
		)`,
	}
	for _, stmt := range stmts {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
	}
	return nil
}

// HealthCheck pings the underlying database.
func (s *Store) HealthCheck(ctx context.Context, timeout time.Duration) error {
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}
	return s.db.PingContext(ctx)
}

// Close closes the database connections gracefully.
func (s *Store) Close() error {
	s.logger.Info("closing store")
	err := s.db.Close()
	if s.pool != nil {
		s.pool.Close()
	}
	return err
}
