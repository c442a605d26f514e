// seed_tasks writes a seed file (or the sample board) into the configured
// task store, replacing what is there.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"taskboard/internal/config"
	"taskboard/internal/db"
	"taskboard/internal/domain"
	"taskboard/internal/logger"
	"taskboard/internal/seed"
	"taskboard/internal/service"
	"taskboard/internal/taskstore"
)

func main() {
	file := flag.String("file", "", "YAML seed file (default: sample board)")
	dump := flag.Bool("dump", false, "print the current store as YAML instead of seeding")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("invalid configuration", "error", err)
	}
	logger.Init(cfg.LogLevel, cfg.LogJSON)

	ctx := context.Background()
	store, err := db.Open(ctx, cfg)
	if err != nil {
		logger.Fatal("failed to open task store", "error", err)
	}
	if store == nil {
		logger.Fatal("STORE_DRIVER=memory has nothing to seed; use postgres or sqlite")
	}
	defer store.Close()

	if *dump {
		tasks, err := store.Repo.List(ctx)
		if err != nil {
			logger.Fatal("list tasks", "error", err)
		}
		if err := seed.Write(os.Stdout, tasks); err != nil {
			logger.Fatal("write yaml", "error", err)
		}
		return
	}

	var tasks []*domain.Task
	if *file != "" {
		if tasks, err = seed.LoadFile(*file); err != nil {
			logger.Fatal("load seed", "error", err)
		}
	} else {
		tasks = seed.Sample()
	}

	svc := service.NewTaskService(service.WithRepository(store.Repo), service.WithLocation(cfg.Location))
	// clear the store first so LoadTasks replaces rather than merges
	existing, err := store.Repo.List(ctx)
	if err != nil {
		logger.Fatal("list tasks", "error", err)
	}
	for _, t := range existing {
		if err := store.Repo.Delete(ctx, t.ID); err != nil {
			logger.Fatal("clear task", "id", t.ID, "error", err)
		}
	}
	if _, err := svc.Dispatch(ctx, taskstore.LoadTasks{Tasks: tasks}); err != nil {
		logger.Fatal("seed tasks", "error", err)
	}
	fmt.Printf("seeded %d tasks into %s store\n", len(svc.Tasks()), cfg.StoreDriver)
}
