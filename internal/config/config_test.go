// internal/config/config_test.go
package config

import (
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("REDIS_ADDR", "")
	t.Setenv("HISTORIAN_BATCH_SIZE", "")
	t.Setenv("NOTICE_DURATION", "")

	cfg := Load()
	assert.Equal(t, "localhost:6379", cfg.Redis.Addr)
	assert.Equal(t, 20, cfg.Historian.BatchSize)
	assert.Equal(t, 2500*time.Millisecond, cfg.NoticeDuration)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("REDIS_ADDR", "cache:6380")
	t.Setenv("REDIS_DB", "3")
	t.Setenv("HISTORIAN_FLUSH_MS", "250")
	t.Setenv("HOST_CLAIM_TTL", "1h")
	t.Setenv("PG_HOST", "db")
	t.Setenv("PG_DATABASE", "games")
	t.Setenv("POSTGRES_USER", "u")
	t.Setenv("POSTGRES_PASSWORD", "p")
	t.Setenv("PG_PORT", "5433")

	cfg := Load()
	assert.Equal(t, "cache:6380", cfg.Redis.Addr)
	assert.Equal(t, 3, cfg.Redis.DB)
	assert.Equal(t, 250*time.Millisecond, cfg.Historian.FlushInterval)
	assert.Equal(t, time.Hour, cfg.Redis.HostClaimTTL)
	assert.Equal(t, "postgres://u:p@db:5433/games", cfg.Postgres.URL())
}

func TestLoadIgnoresGarbage(t *testing.T) {
	t.Setenv("REDIS_DB", "two")
	t.Setenv("HOST_CLAIM_TTL", "-5m")

	cfg := Load()
	assert.Equal(t, 0, cfg.Redis.DB)
	assert.Equal(t, 24*time.Hour, cfg.Redis.HostClaimTTL)
}

func TestNewLogger(t *testing.T) {
	cfg := Config{LogLevel: "debug", LogFormat: "JSON"}
	logger := cfg.NewLogger()
	assert.Equal(t, logrus.DebugLevel, logger.GetLevel())
	assert.IsType(t, &logrus.JSONFormatter{}, logger.Formatter)

	logger = Config{LogLevel: "loud"}.NewLogger()
	assert.Equal(t, logrus.InfoLevel, logger.GetLevel())
	assert.IsType(t, &logrus.TextFormatter{}, logger.Formatter)
}
