// cmd/historian/main.go pops game actions from the Redis queue and persists
// them to PostgreSQL, marking games abandoned after a period of inactivity.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/jason-s-yu/arcade/internal/cache"
	"github.com/jason-s-yu/arcade/internal/config"
	"github.com/jason-s-yu/arcade/internal/database"
	"github.com/jason-s-yu/arcade/internal/historian"
	_ "github.com/joho/godotenv/autoload"
)

func main() {
	cfg := config.Load()

	logger := cfg.NewLogger()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := cache.ConnectRedis(cfg.Redis); err != nil {
		logger.Fatal(err)
	}
	defer cache.Rdb.Close()

	if err := database.ConnectDB(ctx, cfg.Postgres); err != nil {
		logger.Fatal(err)
	}
	defer database.DB.Close()
	if err := database.EnsureSchema(ctx); err != nil {
		logger.Fatalf("schema: %v", err)
	}

	queue := cache.NewActionQueue(cache.Rdb, cfg.Redis.QueueName)
	svc := historian.New(queue, database.HistorySink{}, cfg.Historian, logger.WithField("component", "historian"))

	logger.WithField("queue", queue.Name()).Debug("consuming action queue")
	if err := svc.Run(ctx); err != nil {
		logger.Fatalf("historian: %v", err)
	}
	logger.Info("historian shutdown complete")
}
