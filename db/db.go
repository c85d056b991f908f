// Package db archives recap runs in Postgres.
package db

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq" // postgres driver
	"go.uber.org/zap"
)

const (
	maxOpenConns    = 25
	maxIdleConns    = 25
	connMaxLifetime = 5 * time.Minute
)

// schema is applied on demand so a fresh database works without a separate
// migration step.
const schema = `
CREATE TABLE IF NOT EXISTS repositories (
	id BIGSERIAL PRIMARY KEY,
	owner TEXT NOT NULL,
	name TEXT NOT NULL,
	description TEXT NOT NULL DEFAULT '',
	default_branch TEXT NOT NULL DEFAULT '',
	url TEXT NOT NULL DEFAULT '',
	stars INTEGER NOT NULL DEFAULT 0,
	UNIQUE (owner, name)
);

CREATE TABLE IF NOT EXISTS commits (
	sha TEXT PRIMARY KEY,
	repository_id BIGINT NOT NULL REFERENCES repositories(id) ON DELETE CASCADE,
	title TEXT NOT NULL,
	category TEXT NOT NULL,
	author TEXT,
	committer TEXT,
	committed_at TIMESTAMPTZ,
	url TEXT NOT NULL DEFAULT ''
);

CREATE INDEX IF NOT EXISTS commits_repository_idx ON commits (repository_id, committed_at);
`

// Store is a Postgres-backed archive of recap runs.
type Store struct {
	conn *sqlx.DB
	log  *zap.Logger
}

// Open connects to the database named by the DSN and tunes the pool.
func Open(dsn string, log *zap.Logger) (*Store, error) {
	if dsn == "" {
		return nil, fmt.Errorf("%w: dsn cannot be empty", ErrInvalidInput)
	}
	if log == nil {
		log = zap.NewNop()
	}

	conn, err := sqlx.Connect("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConnect, err)
	}

	conn.SetMaxOpenConns(maxOpenConns)
	conn.SetMaxIdleConns(maxIdleConns)
	conn.SetConnMaxLifetime(connMaxLifetime)

	log.Debug("database connection established",
		zap.Int("max_open_conns", maxOpenConns),
		zap.Int("max_idle_conns", maxIdleConns),
		zap.Duration("conn_max_lifetime", connMaxLifetime))

	return &Store{conn: conn, log: log}, nil
}

// EnsureSchema creates the archive tables when they do not exist yet.
func (s *Store) EnsureSchema(ctx context.Context) error {
	if _, err := s.conn.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("failed to apply schema: %w", err)
	}
	return nil
}

// Close releases the connection pool.
func (s *Store) Close() error {
	return s.conn.Close()
}
