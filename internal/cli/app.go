// Package cli provides CLI commands using Bubble Tea TUI.
package cli

import (
	"context"
	"database/sql"
	"fmt"
	"os"

	"github.com/biraysutcuoglu/KeyValueStore/internal/build"
	"github.com/biraysutcuoglu/KeyValueStore/internal/cache"
	"github.com/biraysutcuoglu/KeyValueStore/internal/cli/styles"
	"github.com/biraysutcuoglu/KeyValueStore/internal/config"
	"github.com/biraysutcuoglu/KeyValueStore/internal/logging"
	"github.com/biraysutcuoglu/KeyValueStore/internal/persistence/sqlite"
)

// App holds CLI dependencies.
type App struct {
	Config    *config.Config
	Theme     *styles.Theme
	BuildInfo build.Info
	Store     *sqlite.Store
	Cache     *cache.Cache

	db  *sql.DB
	ctx context.Context
}

// NewApp creates a new CLI application with all dependencies.
func NewApp() (*App, error) {
	cfg := loadConfig()

	theme := styles.NewTheme()

	logLevel := cfg.Logging.Level
	if envLevel := os.Getenv("KVSTORE_LOG_LEVEL"); envLevel != "" {
		logLevel = envLevel
	}
	logger := logging.NewFromConfigValues(logLevel, cfg.Logging.Format)
	ctx := logging.WithContext(context.Background(), logger)

	db, err := sqlite.NewConnection(ctx, cfg.Database.Path)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	store := sqlite.NewStore(db)

	kv, err := cache.New(store, cfg.Cache.CapacityBytes)
	if err != nil {
		if closeErr := db.Close(); closeErr != nil {
			logger.Warn().Err(closeErr).Msg("failed to close database")
		}
		return nil, fmt.Errorf("create cache: %w", err)
	}

	logger.Debug().
		Str("db_path", cfg.Database.Path).
		Int64("capacity_bytes", cfg.Cache.CapacityBytes).
		Msg("store connected")

	return &App{
		Config: cfg,
		Theme:  theme,
		Store:  store,
		Cache:  kv,
		db:     db,
		ctx:    ctx,
	}, nil
}

// Close releases all resources.
func (a *App) Close() error {
	if a.db != nil {
		return a.db.Close()
	}
	return nil
}

// Ctx returns the application context with logger.
func (a *App) Ctx() context.Context {
	return a.ctx
}

// DB returns the underlying database handle.
func (a *App) DB() *sql.DB {
	return a.db
}

// loadConfig loads configuration from standard locations.
func loadConfig() *config.Config {
	mgr, err := config.NewManager()
	if err != nil {
		// Return default config if manager fails
		return config.DefaultConfig()
	}

	if err := mgr.Load(); err != nil {
		// Return default config if loading fails
		return config.DefaultConfig()
	}

	return mgr.Get()
}
