// Package config loads server settings from the environment and an optional .env file.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Storage backends
const (
	StoragePostgres = "postgres"
	StorageMemory   = "memory"
)

// minSessionSecret is the shortest accepted SESSION_SECRET in bytes
const minSessionSecret = 32

type Config struct {
	Port              string
	Storage           string
	DatabaseURL       string
	SessionSecret     string
	MediaRoot         string
	StaticDir         string
	RedisURL          string
	PostsPerPage      int
	IndexCacheTTL     time.Duration
	RateLimitRequests int
	RateLimitWindow   time.Duration
	SecureCookies     bool
	TrustProxy        bool
}

// Load reads .env (if present) and the environment
func Load() (Config, error) {
	_ = godotenv.Load()

	cfg := Config{
		Port:              getEnv("PORT", "8080"),
		Storage:           strings.ToLower(getEnv("STORAGE", StoragePostgres)),
		DatabaseURL:       getEnv("DATABASE_URL", ""),
		SessionSecret:     getEnv("SESSION_SECRET", ""),
		MediaRoot:         getEnv("MEDIA_ROOT", "media"),
		StaticDir:         getEnv("STATIC_DIR", "static"),
		RedisURL:          getEnv("REDIS_URL", ""),
		PostsPerPage:      getEnvAsInt("POSTS_PER_PAGE", 10),
		IndexCacheTTL:     getEnvAsDuration("INDEX_CACHE_TTL", 20*time.Second),
		RateLimitRequests: getEnvAsInt("RATE_LIMIT_REQUESTS", 100),
		RateLimitWindow:   getEnvAsDuration("RATE_LIMIT_WINDOW", time.Minute),
		SecureCookies:     getEnvAsBool("SECURE_COOKIES", false),
		TrustProxy:        getEnvAsBool("TRUST_PROXY", false),
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks required settings
func (c Config) Validate() error {
	switch c.Storage {
	case StoragePostgres:
		if c.DatabaseURL == "" {
			return fmt.Errorf("DATABASE_URL is required when STORAGE=%s", StoragePostgres)
		}
	case StorageMemory:
	default:
		return fmt.Errorf("STORAGE must be %q or %q, got %q", StoragePostgres, StorageMemory, c.Storage)
	}

	if len(c.SessionSecret) < minSessionSecret {
		return fmt.Errorf("SESSION_SECRET must be at least %d bytes", minSessionSecret)
	}
	if c.PostsPerPage <= 0 {
		return fmt.Errorf("POSTS_PER_PAGE must be positive")
	}
	return nil
}

func getEnv(key, fallback string) string {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback
	}
	return value
}

func getEnvAsInt(key string, fallback int) int {
	if value, err := strconv.Atoi(getEnv(key, "")); err == nil {
		return value
	}
	return fallback
}

func getEnvAsDuration(key string, fallback time.Duration) time.Duration {
	if value, err := time.ParseDuration(getEnv(key, "")); err == nil {
		return value
	}
	return fallback
}

func getEnvAsBool(key string, fallback bool) bool {
	if value, err := strconv.ParseBool(getEnv(key, "")); err == nil {
		return value
	}
	return fallback
}
