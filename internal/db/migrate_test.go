package db

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/jackc/pgx/v5/pgxpool"
)

func TestMigrationFiles(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"002_b.sql", "001_a.sql", "notes.txt"} {
		if err := os.WriteFile(filepath.Join(dir, name), []byte("SELECT 1;"), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	if err := os.Mkdir(filepath.Join(dir, "003_dir.sql"), 0o755); err != nil {
		t.Fatal(err)
	}

	names, err := migrationFiles(dir)
	if err != nil {
		t.Fatalf("migrationFiles: %v", err)
	}
	if len(names) != 2 || names[0] != "001_a.sql" || names[1] != "002_b.sql" {
		t.Fatalf("names = %v", names)
	}

	if _, err := migrationFiles(filepath.Join(dir, "missing")); err == nil {
		t.Fatal("expected error for missing dir")
	}
}

// Runs only if DATABASE_URL is set.
func TestMigrate_Postgres(t *testing.T) {
	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		t.Skip("DATABASE_URL not set")
	}
	ctx := context.Background()
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		t.Fatalf("connect: %v", err)
	}
	defer pool.Close()

	dir := filepath.Join("..", "migrations")
	if _, err := Migrate(ctx, pool, dir); err != nil {
		t.Fatalf("Migrate: %v", err)
	}
	// a second run has nothing left to do
	again, err := Migrate(ctx, pool, dir)
	if err != nil || len(again) != 0 {
		t.Fatalf("second Migrate = %v, %v", again, err)
	}

	list, err := ListMigrations(ctx, pool, dir)
	if err != nil {
		t.Fatalf("ListMigrations: %v", err)
	}
	for _, m := range list {
		if !m.Applied {
			t.Fatalf("%s not applied", m.Name)
		}
	}
}
