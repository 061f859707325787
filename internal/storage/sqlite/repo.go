// Package sqlite implements the roster storage.Repository on a local SQLite
// file using database/sql. Inserts run inside a single transaction with a
// prepared statement; SQLite has no bulk-load API like Postgres COPY, but a
// transaction keeps performance fine for roster-sized volumes.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	// Pure-Go SQLite driver; alternative: github.com/mattn/go-sqlite3.
	_ "modernc.org/sqlite"

	"github.com/kvachher/masti-reg-tracker/internal/storage"
	"github.com/kvachher/masti-reg-tracker/pkg/records"
)

// Config holds SQLite repository configuration derived from storage.Config.
type Config struct {
	// DSN is a SQLite connection string or file path, e.g.
	//   "file:roster.db?cache=shared"
	//   "roster.db"
	DSN string

	// Table is the destination table name.
	Table string

	// IDColumn is the store-assigned integer primary key column.
	IDColumn string
}

// Repository is a SQLite-backed implementation of storage.Repository.
type Repository struct {
	db  *sql.DB
	cfg Config

	// columns is the schema established for this run; nil until
	// EstablishSchema succeeds.
	columns []string
}

// NewRepository opens a SQLite connection for the given DSN and returns a
// Repository plus a close function for cleanup.
func NewRepository(ctx context.Context, cfg Config) (*Repository, func(), error) {
	if strings.TrimSpace(cfg.DSN) == "" {
		return nil, nil, fmt.Errorf("sqlite: DSN must not be empty")
	}
	if strings.TrimSpace(cfg.Table) == "" {
		return nil, nil, fmt.Errorf("sqlite: table must not be empty")
	}

	db, err := sql.Open("sqlite", cfg.DSN)
	if err != nil {
		return nil, nil, fmt.Errorf("sqlite: open: %w", err)
	}

	// Ping with a short timeout to fail fast on an unusable DSN.
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		db.Close()
		return nil, nil, fmt.Errorf("sqlite: ping: %w", err)
	}

	closeFn := func() { db.Close() }
	return &Repository{db: db, cfg: cfg}, closeFn, nil
}

// EstablishSchema drops any previous table and creates it fresh with the
// given columns: the id column as INTEGER PRIMARY KEY, everything else TEXT.
// Re-running the pipeline is idempotent by virtue of this destructive
// recreate.
func (r *Repository) EstablishSchema(ctx context.Context, columns []string) error {
	if len(columns) == 0 {
		return fmt.Errorf("sqlite: EstablishSchema: columns must not be empty")
	}

	if _, err := r.db.ExecContext(ctx,
		fmt.Sprintf("DROP TABLE IF EXISTS %s", quoteIdent(r.cfg.Table)),
	); err != nil {
		return fmt.Errorf("sqlite: drop table: %w", err)
	}

	defs := make([]string, 0, len(columns))
	for _, c := range columns {
		if c == r.cfg.IDColumn {
			defs = append(defs, fmt.Sprintf("%s INTEGER PRIMARY KEY", quoteIdent(c)))
			continue
		}
		defs = append(defs, fmt.Sprintf("%s TEXT", quoteIdent(c)))
	}
	stmt := fmt.Sprintf(
		"CREATE TABLE %s (\n  %s\n)",
		quoteIdent(r.cfg.Table),
		strings.Join(defs, ",\n  "),
	)
	if _, err := r.db.ExecContext(ctx, stmt); err != nil {
		return fmt.Errorf("sqlite: create table: %w", err)
	}

	r.columns = append([]string(nil), columns...)
	return nil
}

// Insert appends the records as rows. The store assigns the id column; the
// record's own id value, if any, is discarded. The whole batch is validated
// against the established schema before the transaction begins, so a
// mismatching file writes nothing.
func (r *Repository) Insert(ctx context.Context, recs []records.Record) (int64, error) {
	if r.columns == nil {
		return 0, storage.ErrSchemaNotInitialized
	}
	if len(recs) == 0 {
		return 0, nil
	}

	for _, rec := range recs {
		cols := make(map[string]struct{}, len(rec))
		for k := range rec {
			cols[k] = struct{}{}
		}
		if err := storage.CheckColumns(r.cfg.Table, r.columns, r.cfg.IDColumn, cols); err != nil {
			return 0, err
		}
	}

	insertCols := r.insertColumns()
	placeholders := make([]string, len(insertCols))
	quoted := make([]string, len(insertCols))
	for i, c := range insertCols {
		placeholders[i] = "?"
		quoted[i] = quoteIdent(c)
	}
	stmtSQL := fmt.Sprintf(
		"INSERT INTO %s (%s) VALUES (%s)",
		quoteIdent(r.cfg.Table),
		strings.Join(quoted, ", "),
		strings.Join(placeholders, ", "),
	)

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("sqlite: begin tx: %w", err)
	}
	stmt, err := tx.PrepareContext(ctx, stmtSQL)
	if err != nil {
		_ = tx.Rollback()
		return 0, fmt.Errorf("sqlite: prepare insert: %w", err)
	}
	defer stmt.Close()

	var inserted int64
	for _, rec := range recs {
		args := make([]any, len(insertCols))
		for i, c := range insertCols {
			args[i] = rec[c]
		}
		if _, err := stmt.ExecContext(ctx, args...); err != nil {
			_ = tx.Rollback()
			return 0, fmt.Errorf("sqlite: insert: %w", err)
		}
		inserted++
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("sqlite: commit: %w", err)
	}
	return inserted, nil
}

// insertColumns returns the established columns minus the store-assigned id.
func (r *Repository) insertColumns() []string {
	out := make([]string, 0, len(r.columns))
	for _, c := range r.columns {
		if c == r.cfg.IDColumn {
			continue
		}
		out = append(out, c)
	}
	return out
}

func quoteIdent(id string) string {
	return `"` + strings.ReplaceAll(id, `"`, `""`) + `"`
}
