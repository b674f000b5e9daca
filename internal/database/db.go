// internal/database/db.go

// Package database is the Postgres store for accounts, ratings, results and
// the historian's action log.
package database

import (
	"context"
	_ "embed"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jason-s-yu/arcade/internal/config"
	"github.com/sirupsen/logrus"
)

// DB is the global pool. Connect it once at application startup.
var DB *pgxpool.Pool

//go:embed schema.sql
var schema string

// ConnectDB opens the global pool and checks that the server answers.
func ConnectDB(ctx context.Context, cfg config.Postgres) error {
	poolCfg, err := pgxpool.ParseConfig(cfg.URL())
	if err != nil {
		return fmt.Errorf("unable to parse pgx config: %w", err)
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return fmt.Errorf("unable to create pgx pool: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := pool.Ping(pingCtx); err != nil {
		pool.Close()
		return fmt.Errorf("db ping error: %w", err)
	}

	DB = pool
	logrus.WithFields(logrus.Fields{"host": cfg.Host, "database": cfg.Database}).Info("connected to database")
	return nil
}

// EnsureSchema creates any missing tables. It is safe to run repeatedly.
func EnsureSchema(ctx context.Context) error {
	if _, err := DB.Exec(ctx, schema); err != nil {
		return fmt.Errorf("failed to apply schema: %w", err)
	}
	return nil
}
