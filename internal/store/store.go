// Package store provides storage backends for BlogPipe generation receipts.
//
// A receipt is recorded for every invocation of the generation pipeline and
// backs the read-side /posts endpoint. Backends: PostgreSQL, SQLite, and an
// in-memory store used when no DSN is configured.
package store

import (
	"sort"
	"strings"
	"sync"

	"github.com/ridhwanrazaliwork/BlogPipe/internal/models"
)

// DSN types returned by DetectDSNType.
const (
	DSNTypePostgres = "postgres"
	DSNTypeSQLite   = "sqlite"
)

// Store records and lists generation receipts.
type Store interface {
	AddPost(receipt models.PostReceipt) error
	GetPosts() ([]models.PostReceipt, error)
	Close() error
}

// Opts holds configuration options for store backends.
type Opts struct {
	PostgresDSN string
	SQLiteDSN   string
}

// Option defines a configuration option for store backends.
type Option func(*Opts)

// WithPostgresDSN configures a PostgreSQL-backed store.
func WithPostgresDSN(dsn string) Option {
	return func(o *Opts) {
		o.PostgresDSN = dsn
	}
}

// WithSQLiteDSN configures a SQLite-backed store with the given file path.
func WithSQLiteDSN(dsn string) Option {
	return func(o *Opts) {
		o.SQLiteDSN = dsn
	}
}

// DetectDSNType classifies a DSN as postgres or sqlite. PostgreSQL DSNs use
// the postgres:// scheme or key=value form; anything else is treated as a
// SQLite file path.
func DetectDSNType(dsn string) string {
	if strings.HasPrefix(dsn, "postgres://") || strings.HasPrefix(dsn, "postgresql://") || strings.Contains(dsn, "host=") {
		return DSNTypePostgres
	}
	return DSNTypeSQLite
}

// Open creates the store selected by the configured options: PostgreSQL when
// a postgres DSN is set, SQLite when a file path is set, otherwise in-memory.
func Open(opts ...Option) (Store, error) {
	var cfg Opts
	for _, opt := range opts {
		opt(&cfg)
	}
	switch {
	case cfg.PostgresDSN != "":
		return NewPostgresStore(opts...)
	case cfg.SQLiteDSN != "":
		return NewSQLiteStore(opts...)
	default:
		return NewInMemoryStore(), nil
	}
}

// InMemoryStore is a mutex-guarded in-memory receipt store.
type InMemoryStore struct {
	mu       sync.RWMutex
	receipts []models.PostReceipt
}

// NewInMemoryStore creates an empty in-memory receipt store.
func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{}
}

// AddPost appends a receipt.
func (s *InMemoryStore) AddPost(receipt models.PostReceipt) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.receipts = append(s.receipts, receipt)
	return nil
}

// GetPosts returns all receipts, most recent first.
func (s *InMemoryStore) GetPosts() ([]models.PostReceipt, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.PostReceipt, len(s.receipts))
	copy(out, s.receipts)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Time > out[j].Time })
	return out, nil
}

// Close is a no-op for the in-memory store.
func (s *InMemoryStore) Close() error {
	return nil
}
