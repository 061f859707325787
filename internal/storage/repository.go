// Package storage contains the storage-agnostic contracts for the roster
// destination store, plus a factory registry that lets backends register
// themselves at init time. Callers select a backend by kind ("sqlite",
// "postgres") without importing driver packages directly.
package storage

import (
	"context"
	"fmt"
	"sync"

	"github.com/kvachher/masti-reg-tracker/pkg/records"
)

// Config selects and configures a storage backend.
type Config struct {
	// Kind selects the backend implementation registered under that name.
	Kind string

	// DSN is the backend connection string: a file path for sqlite, a
	// postgresql:// URL for postgres.
	DSN string

	// Table is the destination table name.
	Table string

	// IDColumn names the store-assigned primary key column. Its value in
	// incoming records is discarded; the store reassigns it on insert.
	IDColumn string
}

// Repository is the write-side contract of the destination store.
//
// EstablishSchema destructively replaces any existing table with one whose
// columns are exactly the given set: the id column as the store-assigned
// primary key, every other column as text. It must be called once per run,
// before any Insert.
//
// Insert appends each record as one row. It never deduplicates and never
// updates existing rows. Calling it before EstablishSchema fails with
// ErrSchemaNotInitialized; a record whose column set disagrees with the
// established schema fails with *SchemaMismatchError before any row of the
// batch is written.
type Repository interface {
	EstablishSchema(ctx context.Context, columns []string) error
	Insert(ctx context.Context, recs []records.Record) (int64, error)
	Close() error
}

// Factory builds a Repository for a backend kind.
type Factory func(ctx context.Context, cfg Config) (Repository, error)

var (
	mu        sync.RWMutex
	factories = map[string]Factory{}
)

// Register registers (or replaces) the factory for a backend kind. It is
// called from backend packages' init functions.
func Register(kind string, f Factory) {
	mu.Lock()
	defer mu.Unlock()
	factories[kind] = f
}

// New builds a Repository for cfg.Kind, or errors when no backend is
// registered under that kind.
func New(ctx context.Context, cfg Config) (Repository, error) {
	mu.RLock()
	f, ok := factories[cfg.Kind]
	mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("storage: no backend registered for kind %q", cfg.Kind)
	}
	return f(ctx, cfg)
}
