// internal/config/config.go

// Package config reads process settings from the environment. A .env file in
// the working directory is loaded first when present.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	_ "github.com/joho/godotenv/autoload"
	"github.com/sirupsen/logrus"
)

// Redis locates the relay, host-claim and action-queue backend.
type Redis struct {
	Addr         string
	DB           int
	Prefix       string
	QueueName    string
	HostClaimTTL time.Duration
}

// Postgres locates the durable store for users, results and game history.
type Postgres struct {
	User     string
	Password string
	Host     string
	Port     string
	Database string
}

// URL is the pgx connection string.
func (p Postgres) URL() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s", p.User, p.Password, p.Host, p.Port, p.Database)
}

// Historian tunes batching and the abandonment sweep.
type Historian struct {
	BatchSize         int
	FlushInterval     time.Duration
	InactivityTimeout time.Duration
	SweepInterval     time.Duration
}

// Config is everything the binaries read from the environment.
type Config struct {
	ListenAddr     string
	AllowedOrigins []string
	LogLevel       string
	LogFormat      string
	Redis          Redis
	Postgres       Postgres
	Historian      Historian
	NoticeDuration time.Duration
}

// Load reads the environment, falling back to defaults for anything unset or
// unparsable.
func Load() Config {
	return Config{
		ListenAddr:     getEnv("LISTEN_ADDR", ":8080"),
		AllowedOrigins: []string{getEnv("ALLOWED_ORIGIN", "localhost:*")},
		LogLevel:       getEnv("LOG_LEVEL", "info"),
		LogFormat:      getEnv("LOG_FORMAT", "text"),
		Redis: Redis{
			Addr:         getEnv("REDIS_ADDR", "localhost:6379"),
			DB:           getEnvInt("REDIS_DB", 0),
			Prefix:       getEnv("REDIS_PREFIX", "arcade"),
			QueueName:    getEnv("HISTORIAN_QUEUE_NAME", "arcade_actions"),
			HostClaimTTL: getEnvDuration("HOST_CLAIM_TTL", 24*time.Hour),
		},
		Postgres: Postgres{
			User:     getEnv("POSTGRES_USER", "postgres"),
			Password: os.Getenv("POSTGRES_PASSWORD"),
			Host:     getEnv("PG_HOST", "localhost"),
			Port:     getEnv("PG_PORT", "5432"),
			Database: getEnv("PG_DATABASE", "arcade"),
		},
		Historian: Historian{
			BatchSize:         getEnvInt("HISTORIAN_BATCH_SIZE", 20),
			FlushInterval:     time.Duration(getEnvInt("HISTORIAN_FLUSH_MS", 500)) * time.Millisecond,
			InactivityTimeout: time.Duration(getEnvInt("GAME_INACTIVITY_TIMEOUT_SEC", 600)) * time.Second,
			SweepInterval:     getEnvDuration("HISTORIAN_SWEEP_INTERVAL", time.Minute),
		},
		NoticeDuration: getEnvDuration("NOTICE_DURATION", 2500*time.Millisecond),
	}
}

// NewLogger builds a logger at LOG_LEVEL, writing JSON when LOG_FORMAT is
// "json". An unknown level falls back to info.
func (c Config) NewLogger() *logrus.Logger {
	logger := logrus.New()
	level, err := logrus.ParseLevel(c.LogLevel)
	if err != nil {
		level = logrus.InfoLevel
	}
	logger.SetLevel(level)
	if strings.EqualFold(c.LogFormat, "json") {
		logger.SetFormatter(&logrus.JSONFormatter{})
	}
	return logger
}

// getEnv reads an environment variable or returns a default value.
func getEnv(key, def string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return def
}

// getEnvInt parses an environment variable as an integer, else returns def.
func getEnvInt(key string, def int) int {
	s := os.Getenv(key)
	if s == "" {
		return def
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	return v
}

func getEnvDuration(key string, def time.Duration) time.Duration {
	s := os.Getenv(key)
	if s == "" {
		return def
	}
	v, err := time.ParseDuration(s)
	if err != nil || v <= 0 {
		return def
	}
	return v
}
