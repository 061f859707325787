package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"path/filepath"
	"testing"

	"github.com/kvachher/masti-reg-tracker/internal/storage"
	"github.com/kvachher/masti-reg-tracker/pkg/records"
)

func testRepo(t *testing.T) (*Repository, *sql.DB) {
	t.Helper()

	dsn := filepath.Join(t.TempDir(), "roster.db")
	repo, closeFn, err := NewRepository(context.Background(), Config{
		DSN:      dsn,
		Table:    "roster",
		IDColumn: "id",
	})
	if err != nil {
		t.Fatalf("NewRepository() error = %v", err)
	}
	t.Cleanup(closeFn)

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		t.Fatalf("open verification handle: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return repo, db
}

func TestNewRepositoryValidatesConfig(t *testing.T) {
	t.Parallel()

	if _, _, err := NewRepository(context.Background(), Config{Table: "roster"}); err == nil {
		t.Error("empty DSN: error = nil, want non-nil")
	}
	if _, _, err := NewRepository(context.Background(), Config{DSN: "x.db"}); err == nil {
		t.Error("empty table: error = nil, want non-nil")
	}
}

func TestEstablishSchemaAndInsert(t *testing.T) {
	t.Parallel()

	repo, db := testRepo(t)
	ctx := context.Background()

	columns := []string{"id", "first_name", "last_name", "team"}
	if err := repo.EstablishSchema(ctx, columns); err != nil {
		t.Fatalf("EstablishSchema() error = %v", err)
	}

	recs := []records.Record{
		{"id": "99", "first_name": "Priya", "last_name": "Sharma", "team": "RAAS"},
		{"id": "", "first_name": "Arjun", "last_name": "Patel", "team": "RAAS"},
	}
	n, err := repo.Insert(ctx, recs)
	if err != nil {
		t.Fatalf("Insert() error = %v", err)
	}
	if n != 2 {
		t.Errorf("Insert() = %d, want 2", n)
	}

	var count int
	if err := db.QueryRow(`SELECT COUNT(*) FROM roster`).Scan(&count); err != nil {
		t.Fatalf("count rows: %v", err)
	}
	if count != 2 {
		t.Errorf("row count = %d, want 2", count)
	}

	// The store assigns ids; the record's own "99" must not survive.
	var id int
	var first string
	if err := db.QueryRow(`SELECT id, first_name FROM roster ORDER BY id LIMIT 1`).Scan(&id, &first); err != nil {
		t.Fatalf("read first row: %v", err)
	}
	if id != 1 {
		t.Errorf("first assigned id = %d, want 1", id)
	}
	if first != "Priya" {
		t.Errorf("first_name = %q, want Priya", first)
	}
}

func TestInsertBeforeEstablishSchema(t *testing.T) {
	t.Parallel()

	repo, _ := testRepo(t)
	_, err := repo.Insert(context.Background(), []records.Record{{"first_name": "x"}})
	if !errors.Is(err, storage.ErrSchemaNotInitialized) {
		t.Fatalf("Insert() error = %v, want ErrSchemaNotInitialized", err)
	}
}

func TestInsertSchemaMismatchWritesNothing(t *testing.T) {
	t.Parallel()

	repo, db := testRepo(t)
	ctx := context.Background()

	if err := repo.EstablishSchema(ctx, []string{"id", "first_name", "team"}); err != nil {
		t.Fatalf("EstablishSchema() error = %v", err)
	}

	recs := []records.Record{
		{"first_name": "Priya", "team": "RAAS"},
		{"first_name": "Arjun", "team": "RAAS", "favorite_color": "teal"},
	}
	_, err := repo.Insert(ctx, recs)
	var mismatch *storage.SchemaMismatchError
	if !errors.As(err, &mismatch) {
		t.Fatalf("Insert() error = %v, want *SchemaMismatchError", err)
	}
	if len(mismatch.Unknown) != 1 || mismatch.Unknown[0] != "favorite_color" {
		t.Errorf("Unknown = %v, want [favorite_color]", mismatch.Unknown)
	}

	var count int
	if err := db.QueryRow(`SELECT COUNT(*) FROM roster`).Scan(&count); err != nil {
		t.Fatalf("count rows: %v", err)
	}
	if count != 0 {
		t.Errorf("row count after rejected batch = %d, want 0", count)
	}
}

func TestEstablishSchemaReplacesExistingTable(t *testing.T) {
	t.Parallel()

	repo, db := testRepo(t)
	ctx := context.Background()

	columns := []string{"id", "first_name", "team"}
	if err := repo.EstablishSchema(ctx, columns); err != nil {
		t.Fatalf("first EstablishSchema() error = %v", err)
	}
	if _, err := repo.Insert(ctx, []records.Record{{"first_name": "Priya", "team": "RAAS"}}); err != nil {
		t.Fatalf("Insert() error = %v", err)
	}

	// Re-establishing drops the old rows.
	if err := repo.EstablishSchema(ctx, columns); err != nil {
		t.Fatalf("second EstablishSchema() error = %v", err)
	}
	var count int
	if err := db.QueryRow(`SELECT COUNT(*) FROM roster`).Scan(&count); err != nil {
		t.Fatalf("count rows: %v", err)
	}
	if count != 0 {
		t.Errorf("row count after recreate = %d, want 0", count)
	}
}

func TestRegisteredFactory(t *testing.T) {
	t.Parallel()

	dsn := filepath.Join(t.TempDir(), "roster.db")
	repo, err := storage.New(context.Background(), storage.Config{
		Kind:     "sqlite",
		DSN:      dsn,
		Table:    "roster",
		IDColumn: "id",
	})
	if err != nil {
		t.Fatalf("storage.New() error = %v", err)
	}
	if err := repo.EstablishSchema(context.Background(), []string{"id", "team"}); err != nil {
		t.Errorf("EstablishSchema() via factory error = %v", err)
	}
	if err := repo.Close(); err != nil {
		t.Errorf("Close() error = %v", err)
	}
}
