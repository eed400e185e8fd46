// Package config builds the process-wide configuration once at startup.
// Modules receive the relevant sections through their constructors; nothing
// reads the environment after Load returns.
package config

import (
	"os"
	"strconv"
	"time"
)

// Store drivers.
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// StoreConfig selects and configures the persistence adapter.
type StoreConfig struct {
	Driver      string
	SQLitePath  string
	PostgresURL string
}

// CacheConfig configures the Redis cache backend.
type CacheConfig struct {
	RedisAddr string
	Prefix    string
	TTL       time.Duration
}

// AuthConfig configures token issuance.
type AuthConfig struct {
	// JWTSecret signs identity tokens. Empty is a configuration error
	// surfaced on the first issue attempt, never a silent weak default.
	JWTSecret     string
	TokenDuration time.Duration
	Issuer        string
}

// Config is the full application configuration.
type Config struct {
	Env      string
	HTTPPort int
	Auth     AuthConfig
	Store    StoreConfig
	Cache    CacheConfig
}

// Development reports whether the app runs in development mode. It controls
// how much error detail reaches clients.
func (c Config) Development() bool {
	return c.Env != "production"
}

// Load builds the configuration from the environment.
func Load() Config {
	return Config{
		Env:      getEnv("APP_ENV", "development"),
		HTTPPort: getEnvInt("HTTP_PORT", 3000),
		Auth: AuthConfig{
			JWTSecret:     os.Getenv("JWT_SECRET"),
			TokenDuration: getEnvDuration("TOKEN_DURATION", 24*time.Hour),
			Issuer:        getEnv("JWT_ISSUER", "medical-appointments"),
		},
		Store: StoreConfig{
			Driver:      getEnv("STORE_DRIVER", DriverSQLite),
			SQLitePath:  getEnv("DB_PATH", "./medical_appointments.db"),
			PostgresURL: os.Getenv("DATABASE_URL"),
		},
		Cache: CacheConfig{
			RedisAddr: getEnv("REDIS_ADDR", "localhost:6379"),
			Prefix:    getEnv("CACHE_PREFIX", "users:"),
			TTL:       getEnvDuration("CACHE_TTL", 60*time.Second),
		},
	}
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return fallback
}
