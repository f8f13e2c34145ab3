package db

import (
	"context"
	"fmt"

	pgx "github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/stdlib"
	"github.com/pressly/goose/v3"

	"github.com/gnr-surgicals/inventory/internal/common/db/migrations"
	"github.com/gnr-surgicals/inventory/internal/common/logger"
	"github.com/gnr-surgicals/inventory/internal/observability/metrics"
)

// Migrate applies the embedded schema migrations through database/sql, which
// goose requires.
func Migrate(ctx context.Context, log *logger.Logger, databaseURL string) (int64, error) {
	connCfg, err := pgx.ParseConfig(databaseURL)
	if err != nil {
		return 0, fmt.Errorf("parse database url: %w", err)
	}

	sqlDB := stdlib.OpenDB(*connCfg)
	defer sqlDB.Close()

	goose.SetBaseFS(migrations.FS)
	if err := goose.SetDialect("pgx"); err != nil {
		return 0, fmt.Errorf("set goose dialect: %w", err)
	}

	if err := goose.UpContext(ctx, sqlDB, "."); err != nil {
		return 0, fmt.Errorf("apply migrations: %w", err)
	}

	version, err := goose.GetDBVersionContext(ctx, sqlDB)
	if err != nil {
		return 0, fmt.Errorf("read schema version: %w", err)
	}

	metrics.DBSchemaVersion.Set(float64(version))
	log.WithFields(ctx, logger.Fields{
		"action":  "db_migrate",
		"version": version,
	}).Info("database schema up to date")

	return version, nil
}
