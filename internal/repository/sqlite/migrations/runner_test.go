package migrations_test

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"
	"testing/fstest"

	"github.com/msomdec/quizcert/internal/repository/sqlite/migrations"

	_ "modernc.org/sqlite"
)

func openDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", filepath.Join(t.TempDir(), "migrate.db"))
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { db.Close() })
	return db
}

func TestRunFS_AppliesInOrder(t *testing.T) {
	db := openDB(t)
	ctx := context.Background()

	fsys := fstest.MapFS{
		"002_add_row.sql": {Data: []byte("INSERT INTO things (name) VALUES ('second');")},
		"001_create.sql":  {Data: []byte("CREATE TABLE things (id INTEGER PRIMARY KEY, name TEXT);")},
		"notes.txt":       {Data: []byte("ignored")},
	}

	if err := migrations.RunFS(ctx, db, fsys); err != nil {
		t.Fatalf("RunFS: %v", err)
	}

	var name string
	if err := db.QueryRowContext(ctx, "SELECT name FROM things").Scan(&name); err != nil {
		t.Fatalf("select: %v", err)
	}
	if name != "second" {
		t.Fatalf("expected row 'second', got %q", name)
	}
}

func TestRunFS_FailedMigrationIsNotRecorded(t *testing.T) {
	db := openDB(t)
	ctx := context.Background()

	fsys := fstest.MapFS{
		"001_broken.sql": {Data: []byte("CREATE TABLE oops (")},
	}

	if err := migrations.RunFS(ctx, db, fsys); err == nil {
		t.Fatal("expected error for broken migration")
	}

	var count int
	if err := db.QueryRowContext(ctx, "SELECT COUNT(*) FROM schema_migrations").Scan(&count); err != nil {
		t.Fatalf("count: %v", err)
	}
	if count != 0 {
		t.Fatalf("expected 0 recorded migrations, got %d", count)
	}
}

func TestRun_EmbeddedMigrationsAreIdempotent(t *testing.T) {
	db := openDB(t)
	ctx := context.Background()

	if err := migrations.Run(ctx, db); err != nil {
		t.Fatalf("first Run: %v", err)
	}
	if err := migrations.Run(ctx, db); err != nil {
		t.Fatalf("second Run: %v", err)
	}

	var count int
	if err := db.QueryRowContext(ctx, "SELECT COUNT(*) FROM schema_migrations").Scan(&count); err != nil {
		t.Fatalf("count: %v", err)
	}
	if count != 3 {
		t.Fatalf("expected 3 migration records, got %d", count)
	}
}
