// This file implements a PostgreSQL-backed store for generation receipts.
package store

import (
	"database/sql"
	"fmt"
	"log/slog"

	_ "embed"

	_ "github.com/lib/pq"

	"github.com/ridhwanrazaliwork/BlogPipe/internal/models"
)

//go:embed migrations_postgres.sql
var postgresMigrations string

// PostgresStore persists receipts to a PostgreSQL database.
type PostgresStore struct {
	db *sql.DB
}

// NewPostgresStore creates a new PostgreSQL store with the configured DSN.
func NewPostgresStore(opts ...Option) (*PostgresStore, error) {
	var cfg Opts
	for _, opt := range opts {
		opt(&cfg)
	}
	dsn := cfg.PostgresDSN
	if dsn == "" {
		return nil, fmt.Errorf("database DSN not set")
	}

	db, err := sql.Open("postgres", dsn)
	if err != nil {
		slog.Error("NewPostgresStore: failed to open PostgreSQL connection", "error", err)
		return nil, err
	}
	if err := db.Ping(); err != nil {
		slog.Error("NewPostgresStore: PostgreSQL ping failed", "error", err)
		return nil, err
	}
	if _, err := db.Exec(postgresMigrations); err != nil {
		slog.Error("NewPostgresStore: failed to run migrations", "error", err)
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}
	slog.Debug("NewPostgresStore: PostgreSQL store ready")
	return &PostgresStore{db: db}, nil
}

// AddPost inserts a receipt.
func (s *PostgresStore) AddPost(r models.PostReceipt) error {
	_, err := s.db.Exec(
		`INSERT INTO posts (id, topic, key, model, status, kind, time) VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		r.ID, r.Topic, nilIfEmpty(r.Key), nilIfEmpty(r.Model), string(r.Status), nilIfEmpty(r.Kind), r.Time,
	)
	if err != nil {
		slog.Error("PostgresStore.AddPost failed", "error", err, "topic", r.Topic)
		return fmt.Errorf("failed to insert receipt for %q: %w", r.Topic, err)
	}
	slog.Debug("PostgresStore.AddPost succeeded", "topic", r.Topic, "status", r.Status)
	return nil
}

// GetPosts returns all receipts, most recent first.
func (s *PostgresStore) GetPosts() ([]models.PostReceipt, error) {
	rows, err := s.db.Query(`SELECT id, topic, key, model, status, kind, time FROM posts ORDER BY time DESC`)
	if err != nil {
		slog.Error("PostgresStore.GetPosts query failed", "error", err)
		return nil, fmt.Errorf("failed to query receipts: %w", err)
	}
	defer rows.Close()
	return scanReceipts(rows)
}

// Close closes the database connection.
func (s *PostgresStore) Close() error {
	return s.db.Close()
}
