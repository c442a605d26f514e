package db

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"taskboard/internal/logger"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const migrationsTable = `
CREATE TABLE IF NOT EXISTS schema_migrations (
    name       TEXT PRIMARY KEY,
    applied_at TIMESTAMPTZ NOT NULL DEFAULT now()
)`

// Migration is one .sql file of the migrations directory.
type Migration struct {
	Name    string
	Applied bool
}

// ListMigrations returns the .sql files in dir in name order and whether
// each one is recorded in schema_migrations.
func ListMigrations(ctx context.Context, pool *pgxpool.Pool, dir string) ([]Migration, error) {
	names, err := migrationFiles(dir)
	if err != nil {
		return nil, err
	}
	if _, err := pool.Exec(ctx, migrationsTable); err != nil {
		return nil, fmt.Errorf("create schema_migrations: %w", err)
	}

	applied := make(map[string]bool)
	rows, err := pool.Query(ctx, `SELECT name FROM schema_migrations`)
	if err != nil {
		return nil, fmt.Errorf("list applied migrations: %w", err)
	}
	appliedNames, err := pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
		return nil, fmt.Errorf("scan applied migrations: %w", err)
	}
	for _, n := range appliedNames {
		applied[n] = true
	}

	out := make([]Migration, 0, len(names))
	for _, n := range names {
		out = append(out, Migration{Name: n, Applied: applied[n]})
	}
	return out, nil
}

// Migrate applies every pending migration, each in its own transaction,
// and returns the names it applied.
func Migrate(ctx context.Context, pool *pgxpool.Pool, dir string) ([]string, error) {
	migrations, err := ListMigrations(ctx, pool, dir)
	if err != nil {
		return nil, err
	}

	var done []string
	for _, m := range migrations {
		if m.Applied {
			continue
		}
		sql, err := os.ReadFile(filepath.Join(dir, m.Name))
		if err != nil {
			return done, fmt.Errorf("read migration %s: %w", m.Name, err)
		}
		err = pgx.BeginFunc(ctx, pool, func(tx pgx.Tx) error {
			if _, err := tx.Exec(ctx, string(sql)); err != nil {
				return err
			}
			_, err := tx.Exec(ctx, `INSERT INTO schema_migrations (name) VALUES ($1)`, m.Name)
			return err
		})
		if err != nil {
			return done, fmt.Errorf("apply migration %s: %w", m.Name, err)
		}
		logger.Info("migration applied", "name", m.Name)
		done = append(done, m.Name)
	}
	return done, nil
}

func migrationFiles(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read migrations dir: %w", err)
	}
	var names []string
	for _, e := range entries {
		if !e.IsDir() && strings.HasSuffix(e.Name(), ".sql") {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)
	return names, nil
}
