// Package cli wires shared dependencies for the CLI commands.
package cli

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/bnema/tabsaver/internal/cli/styles"
	"github.com/bnema/tabsaver/internal/config"
	"github.com/bnema/tabsaver/internal/domain/repository"
	"github.com/bnema/tabsaver/internal/infrastructure/persistence/sqlite"
	"github.com/bnema/tabsaver/internal/logging"
)

// App holds CLI dependencies.
type App struct {
	Config    *config.Config
	Manager   *config.Manager
	Theme     *styles.Theme
	BuildInfo styles.BuildInfo

	States  repository.FrozenStateRepository
	Savings repository.SavingsRepository

	db  *sql.DB
	ctx context.Context
}

// NewApp creates a CLI application with all dependencies.
func NewApp() (*App, error) {
	manager, err := config.NewManager()
	if err != nil {
		return nil, fmt.Errorf("create config manager: %w", err)
	}
	if err := manager.Load(); err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	cfg := manager.Get()

	logger := logging.NewFromConfigValues(cfg.Logging.Level, cfg.Logging.Format)
	ctx := logging.WithContext(context.Background(), logger)

	db, err := sqlite.NewConnection(ctx, cfg.Database.Path)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	return &App{
		Config:  cfg,
		Manager: manager,
		Theme:   styles.NewTheme(),
		States:  sqlite.NewFrozenStateRepository(db),
		Savings: sqlite.NewSavingsRepository(db),
		db:      db,
		ctx:     ctx,
	}, nil
}

// Context returns the base context carrying the configured logger.
func (a *App) Context() context.Context {
	return a.ctx
}

// DB exposes the raw connection for wiring that needs it.
func (a *App) DB() *sql.DB {
	return a.db
}

// Close releases held resources.
func (a *App) Close() error {
	if a.db != nil {
		return a.db.Close()
	}
	return nil
}
