// cmd/server/main.go
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jason-s-yu/arcade/internal/auth"
	"github.com/jason-s-yu/arcade/internal/cache"
	"github.com/jason-s-yu/arcade/internal/config"
	"github.com/jason-s-yu/arcade/internal/database"
	"github.com/jason-s-yu/arcade/internal/handlers"
	"github.com/jason-s-yu/arcade/internal/lobby"
	"github.com/jason-s-yu/arcade/internal/replication"
	_ "github.com/joho/godotenv/autoload"
)

func main() {
	cfg := config.Load()

	logger := cfg.NewLogger()

	// keys from disk let tokens survive restarts
	privPath, pubPath := os.Getenv("AUTH_PRIVATE_KEY_PATH"), os.Getenv("AUTH_PUBLIC_KEY_PATH")
	var err error
	if privPath != "" && pubPath != "" {
		err = auth.InitFromPath(privPath, pubPath)
	} else {
		err = auth.Init()
	}
	if err != nil {
		logger.Fatalf("auth init: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	srv := &handlers.Server{
		Logger:         logger,
		AllowedOrigins: cfg.AllowedOrigins,
	}

	var claims lobby.SeatClaimer
	if err := cache.ConnectRedis(cfg.Redis); err != nil {
		logger.Warnf("%v; relaying in memory, single instance only", err)
		memory := replication.NewMemoryRelay()
		defer memory.Close()
		srv.Relay = memory
		claims = lobby.NewMemoryClaims()
	} else {
		defer cache.Rdb.Close()
		srv.Relay = cache.NewRedisRelay(cache.Rdb, cfg.Redis.Prefix, logger.WithField("component", "relay"))
		claims = cache.NewSeatClaims(cache.Rdb, cfg.Redis.Prefix, cfg.Redis.HostClaimTTL)
	}
	srv.Lobbies = lobby.NewService(lobby.NewLobbyStore(), claims, logger.WithField("component", "lobby"))

	if err := database.ConnectDB(ctx, cfg.Postgres); err != nil {
		logger.Warnf("%v; registered accounts disabled", err)
	} else {
		defer database.DB.Close()
		if err := database.EnsureSchema(ctx); err != nil {
			logger.Fatalf("schema: %v", err)
		}
		srv.Accounts = database.Accounts{}
	}

	httpServer := &http.Server{
		Addr:              cfg.ListenAddr,
		Handler:           srv.Routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			logger.Warnf("shutdown: %v", err)
		}
	}()

	logger.Infof("Running on %s", cfg.ListenAddr)
	if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Fatalf("server exited: %v", err)
	}
	logger.Info("server stopped")
}
