package app

import (
	"context"
	"database/sql"
	"fmt"

	"todo_app/internal/config"
	"todo_app/internal/logger"
	"todo_app/internal/repository"
	"todo_app/internal/repository/db"
	"todo_app/internal/service"

	"github.com/google/uuid"
)

// App is the wired core shared by the HTTP and terminal hosts.
type App struct {
	Repos    *repository.Repository
	Manager  *service.StateManager
	Services *service.Service

	db *sql.DB
}

// New opens the configured store, hydrates the state manager and wires the
// host-facing services.
func New(ctx context.Context, cfg *config.Config, log *logger.Logger) (*App, error) {
	log = logger.OrNop(log)

	repos, conn, err := openRepository(cfg.Storage, log)
	if err != nil {
		return nil, err
	}

	manager := service.NewStateManager(repos.Snapshots,
		service.WithLogger(log),
		service.WithContext(ctx),
		service.WithHasher(service.NewBcryptHasher(cfg.Auth.BcryptCost)),
	)
	manager.Hydrate()

	key := cfg.Auth.SigningKey
	if key == "" {
		key = uuid.NewString()
		log.Warnw("auth.signing_key not set; tokens will not survive a restart")
	}
	tokens := service.NewTokenService(key, cfg.Auth.TokenTTL)

	return &App{
		Repos:    repos,
		Manager:  manager,
		Services: service.NewService(manager, tokens),
		db:       conn,
	}, nil
}

// openRepository initializes the store selected by storage.driver.
func openRepository(cfg config.StorageConfig, log *logger.Logger) (*repository.Repository, *sql.DB, error) {
	switch cfg.Driver {
	case config.DriverMemory:
		log.Infow("storage_open", "driver", cfg.Driver)
		return repository.NewRepositoryWithStore(repository.NewMemoryStore()), nil, nil
	case config.DriverSQLite:
		conn, err := db.InitDB(cfg.Path)
		if err != nil {
			return nil, nil, fmt.Errorf("init sqlite: %w", err)
		}
		log.Infow("storage_open", "driver", cfg.Driver, "path", cfg.Path)
		return repository.NewRepository(conn), conn, nil
	default:
		return nil, nil, fmt.Errorf("unknown storage driver %q", cfg.Driver)
	}
}

// Close releases the database, if any.
func (a *App) Close() error {
	if a.db == nil {
		return nil
	}
	return a.db.Close()
}
