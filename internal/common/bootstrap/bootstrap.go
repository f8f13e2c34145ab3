// Package bootstrap holds the startup steps shared by the API server and the
// operator CLI.
package bootstrap

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v4/pgxpool"

	"github.com/gnr-surgicals/inventory/internal/common/config"
	"github.com/gnr-surgicals/inventory/internal/common/constants"
	"github.com/gnr-surgicals/inventory/internal/common/db"
	"github.com/gnr-surgicals/inventory/internal/common/logger"
)

type App struct {
	Config config.InventoryConfig
	Log    *logger.Logger
	Pool   *pgxpool.Pool
}

// Validator decides which configuration an entry point needs.
type Validator func(cfg *config.InventoryConfig) error

func ServerRequirements(cfg *config.InventoryConfig) error {
	return cfg.Validate()
}

func ToolRequirements(cfg *config.InventoryConfig) error {
	return cfg.RequireDatabase()
}

// New loads and checks configuration and builds the logger. The pool is
// opened separately by OpenPool.
func New(serviceName string, validate Validator, opts ...config.Option) (*App, error) {
	cfg, err := config.Load(opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if err := validate(&cfg); err != nil {
		return nil, err
	}

	log, err := logger.New(cfg.LogDir, serviceName, cfg.LogLevel)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	if cfg.UsingDevelopmentSecret {
		log.WithFields(context.Background(), logger.Fields{
			"env":    cfg.Env,
			"action": "config_dev_secret",
		}).Warn("INVENTORY_JWT_SECRET is not set, using the built-in development secret; do not run like this outside development")
	}

	return &App{Config: cfg, Log: log}, nil
}

func (a *App) Migrate(ctx context.Context) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, constants.DBMigrationTimeout)
	defer cancel()
	return db.Migrate(ctx, a.Log, a.Config.DatabaseURL)
}

// OpenPool connects to Postgres and starts publishing pool metrics until ctx
// is done.
func (a *App) OpenPool(ctx context.Context) error {
	pool, err := db.NewPool(ctx, a.Log, a.Config.DatabaseURL)
	if err != nil {
		return err
	}
	db.StartPoolMetrics(ctx, pool, constants.DBPoolMetricsInterval)
	a.Pool = pool
	return nil
}

func (a *App) Close() {
	if a.Pool != nil {
		a.Pool.Close()
		a.Log.Info("database connection pool closed")
	}
	_ = a.Log.Close()
}
