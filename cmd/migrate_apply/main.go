package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"taskboard/internal/db"
	"taskboard/internal/logger"

	"github.com/joho/godotenv"
)

func main() {
	apply := flag.Bool("apply", false, "apply pending migrations instead of listing them")
	dir := flag.String("dir", filepath.Join("internal", "migrations"), "migrations directory")
	flag.Parse()

	_ = godotenv.Load()
	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		logger.Fatal("DATABASE_URL not set")
	}

	ctx := context.Background()
	pool, err := db.Connect(ctx, dsn)
	if err != nil {
		logger.Fatal("connect", "error", err)
	}
	defer pool.Close()

	if !*apply {
		migrations, err := db.ListMigrations(ctx, pool, *dir)
		if err != nil {
			logger.Fatal("list migrations", "error", err)
		}
		for _, m := range migrations {
			state := "pending"
			if m.Applied {
				state = "applied"
			}
			fmt.Printf("%-8s %s\n", state, m.Name)
		}
		return
	}

	applied, err := db.Migrate(ctx, pool, *dir)
	if err != nil {
		logger.Fatal("migrate", "error", err, "applied", applied)
	}
	fmt.Printf("applied %d migration(s)\n", len(applied))
}
