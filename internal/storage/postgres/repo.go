// Package postgres implements the roster storage.Repository on Postgres
// using pgx v5. Rows go in via pgx CopyFrom, which is the fastest bulk path
// Postgres offers.
package postgres

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/kvachher/masti-reg-tracker/internal/storage"
	"github.com/kvachher/masti-reg-tracker/pkg/records"
)

// Config holds Postgres repository configuration.
type Config struct {
	DSN      string // connection string for pgxpool
	Table    string // target table name, optionally schema-qualified
	IDColumn string // store-assigned identity column
}

// Repository is a Postgres-backed implementation of storage.Repository.
type Repository struct {
	pool *pgxpool.Pool
	cfg  Config

	columns []string
}

// NewRepository constructs a Repository and returns a close function for
// cleanup.
func NewRepository(ctx context.Context, cfg Config) (*Repository, func(), error) {
	if strings.TrimSpace(cfg.DSN) == "" {
		return nil, nil, fmt.Errorf("postgres: DSN must not be empty")
	}
	pool, err := pgxpool.New(ctx, cfg.DSN)
	if err != nil {
		return nil, nil, fmt.Errorf("pgxpool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, nil, fmt.Errorf("postgres: ping: %w", err)
	}
	closeFn := func() { pool.Close() }
	return &Repository{pool: pool, cfg: cfg}, closeFn, nil
}

// EstablishSchema drops and recreates the target table: identity primary
// key plus TEXT columns, mirroring the SQLite backend's shape.
func (r *Repository) EstablishSchema(ctx context.Context, columns []string) error {
	if len(columns) == 0 {
		return fmt.Errorf("postgres: EstablishSchema: columns must not be empty")
	}

	fq := pgFQN(r.cfg.Table)
	if _, err := r.pool.Exec(ctx, "DROP TABLE IF EXISTS "+fq); err != nil {
		return fmt.Errorf("postgres: drop table: %w", err)
	}

	defs := make([]string, 0, len(columns))
	for _, c := range columns {
		if c == r.cfg.IDColumn {
			defs = append(defs, pgIdent(c)+" BIGINT GENERATED ALWAYS AS IDENTITY PRIMARY KEY")
			continue
		}
		defs = append(defs, pgIdent(c)+" TEXT")
	}
	stmt := fmt.Sprintf("CREATE TABLE %s (\n  %s\n)", fq, strings.Join(defs, ",\n  "))
	if _, err := r.pool.Exec(ctx, stmt); err != nil {
		return fmt.Errorf("postgres: create table: %w", err)
	}

	r.columns = append([]string(nil), columns...)
	return nil
}

// Insert bulk-loads the records with CopyFrom after validating every record
// against the established schema. The id column is omitted so the identity
// populates it.
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

	insertCols := make([]string, 0, len(r.columns))
	for _, c := range r.columns {
		if c == r.cfg.IDColumn {
			continue
		}
		insertCols = append(insertCols, c)
	}

	rows := make([][]any, len(recs))
	for i, rec := range recs {
		row := make([]any, len(insertCols))
		for j, c := range insertCols {
			row[j] = rec[c]
		}
		rows[i] = row
	}

	ident := pgx.Identifier(strings.Split(r.cfg.Table, "."))
	n, err := r.pool.CopyFrom(ctx, ident, insertCols, pgx.CopyFromRows(rows))
	if err != nil {
		return n, fmt.Errorf("postgres: copy: %w", err)
	}
	return n, nil
}

func pgIdent(id string) string {
	return `"` + strings.ReplaceAll(id, `"`, `""`) + `"`
}

func pgFQN(fqn string) string {
	parts := strings.Split(fqn, ".")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, pgIdent(p))
		}
	}
	return strings.Join(out, ".")
}
