// This file implements a SQLite-backed store for generation receipts.
package store

import (
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	_ "embed"

	_ "github.com/mattn/go-sqlite3"

	"github.com/ridhwanrazaliwork/BlogPipe/internal/models"
)

// DefaultDirPermissions defines the default permissions for database directories
const DefaultDirPermissions = 0755

//go:embed migrations_sqlite.sql
var sqliteMigrations string

// SQLiteStore persists receipts to a SQLite database file.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore creates a new SQLite store with the configured DSN.
// The DSN is a file path; its directory is created if missing.
func NewSQLiteStore(opts ...Option) (*SQLiteStore, error) {
	var cfg Opts
	for _, opt := range opts {
		opt(&cfg)
	}
	dsn := cfg.SQLiteDSN
	if dsn == "" {
		return nil, fmt.Errorf("database DSN not set")
	}

	dir := filepath.Dir(dsn)
	if err := os.MkdirAll(dir, DefaultDirPermissions); err != nil {
		slog.Error("NewSQLiteStore: failed to create database directory", "error", err, "dir", dir)
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		slog.Error("NewSQLiteStore: failed to open SQLite connection", "error", err)
		return nil, err
	}
	if err := db.Ping(); err != nil {
		slog.Error("NewSQLiteStore: SQLite ping failed", "error", err)
		return nil, err
	}
	if _, err := db.Exec(sqliteMigrations); err != nil {
		slog.Error("NewSQLiteStore: failed to run migrations", "error", err)
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}
	slog.Debug("NewSQLiteStore: SQLite store ready", "path", dsn)
	return &SQLiteStore{db: db}, nil
}

// AddPost inserts a receipt.
func (s *SQLiteStore) AddPost(r models.PostReceipt) error {
	_, err := s.db.Exec(
		`INSERT INTO posts (id, topic, key, model, status, kind, time) VALUES (?, ?, ?, ?, ?, ?, ?)`,
		r.ID, r.Topic, nilIfEmpty(r.Key), nilIfEmpty(r.Model), string(r.Status), nilIfEmpty(r.Kind), r.Time,
	)
	if err != nil {
		slog.Error("SQLiteStore.AddPost failed", "error", err, "topic", r.Topic)
		return fmt.Errorf("failed to insert receipt for %q: %w", r.Topic, err)
	}
	slog.Debug("SQLiteStore.AddPost succeeded", "topic", r.Topic, "status", r.Status)
	return nil
}

// GetPosts returns all receipts, most recent first.
func (s *SQLiteStore) GetPosts() ([]models.PostReceipt, error) {
	rows, err := s.db.Query(`SELECT id, topic, key, model, status, kind, time FROM posts ORDER BY time DESC`)
	if err != nil {
		slog.Error("SQLiteStore.GetPosts query failed", "error", err)
		return nil, fmt.Errorf("failed to query receipts: %w", err)
	}
	defer rows.Close()
	return scanReceipts(rows)
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
