// internal/cache/redis.go

// Package cache holds the Redis-backed pieces: the lobby relay, seat claims
// and the historian's action queue.
package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/jason-s-yu/arcade/internal/config"
	"github.com/redis/go-redis/v9"
)

// Rdb is the global Redis client. Connect it once at application startup.
var Rdb *redis.Client

// ConnectRedis initializes the global Redis client and checks that it answers.
func ConnectRedis(cfg config.Redis) error {
	client := redis.NewClient(&redis.Options{
		Addr: cfg.Addr,
		DB:   cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return fmt.Errorf("failed to connect to Redis at %s: %w", cfg.Addr, err)
	}
	Rdb = client
	return nil
}

func lobbyKey(prefix string, parts ...string) string {
	key := prefix + ":lobby"
	for _, p := range parts {
		key += ":" + p
	}
	return key
}
