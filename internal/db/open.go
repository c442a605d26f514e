package db

import (
	"context"
	"fmt"

	"taskboard/internal/config"
	"taskboard/internal/logger"
	"taskboard/internal/repository"
	"taskboard/internal/service"
)

// Store is an opened task repository and activity log plus what is
// needed to check and release them.
type Store struct {
	Repo   service.TaskRepository
	Events service.EventRepository
	ping   func(ctx context.Context) error
	close  func()
}

func (s *Store) Ping(ctx context.Context) error { return s.ping(ctx) }

func (s *Store) Close() { s.close() }

// Open returns the repository for cfg.StoreDriver. The memory driver has
// no repository and a nil Store is returned.
func Open(ctx context.Context, cfg *config.Config) (*Store, error) {
	switch cfg.StoreDriver {
	case config.DriverMemory:
		logger.Info("using in-memory task store")
		return nil, nil
	case config.DriverPostgres:
		pool, err := Connect(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, err
		}
		repo := repository.NewTaskRepository(pool)
		return &Store{
			Repo:   repo,
			Events: repository.NewAuditRepository(pool),
			ping:   repo.Ping,
			close:  pool.Close,
		}, nil
	case config.DriverSQLite:
		repo, err := repository.NewSQLiteTaskRepository(cfg.SQLitePath)
		if err != nil {
			return nil, err
		}
		events, err := repository.NewSQLiteAuditRepository(repo)
		if err != nil {
			_ = repo.Close()
			return nil, err
		}
		logger.Info("sqlite store opened", "path", cfg.SQLitePath)
		return &Store{
			Repo:   repo,
			Events: events,
			ping:   repo.Ping,
			close:  func() { _ = repo.Close() },
		}, nil
	}
	return nil, fmt.Errorf("unknown store driver %q", cfg.StoreDriver)
}
