package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"github.com/robfig/cron/v3"
)

// Config holds the application configuration.
type Config struct {
	ServerPort  int
	AppEnv      string
	LogLevel    string
	CORSOrigins []string

	// Storage
	StorageDriver  string // sqlite, redis or memory
	DatabasePath   string
	RedisAddr      string
	RedisPassword  string
	RedisDB        int
	RedisKeyPrefix string

	// Accounts
	AdminUsername  string
	AdminPassword  string
	PasswordScheme string // plain or bcrypt
	JWTSecret      string

	// Listings
	SeedSampleListings bool
	DefaultCity        string

	EventLogLimit       int
	MaintenanceSchedule string
}

// IsProduction reports whether the service runs with APP_ENV=production.
func (c *Config) IsProduction() bool {
	return c.AppEnv == "production"
}

// Load loads configuration from an optional .env file and environment variables,
// falling back to defaults.
func Load() (*Config, error) {
	_ = godotenv.Load() // .env is optional

	port, err := getEnvInt("PORT", 8080)
	if err != nil {
		return nil, err
	}
	redisDB, err := getEnvInt("REDIS_DB", 0)
	if err != nil {
		return nil, err
	}
	eventLimit, err := getEnvInt("EVENT_LOG_LIMIT", 500)
	if err != nil {
		return nil, err
	}
	seed, err := getEnvBool("SEED_SAMPLE_LISTINGS", true)
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		ServerPort:          port,
		AppEnv:              getEnv("APP_ENV", "development"),
		LogLevel:            getEnv("LOG_LEVEL", "info"),
		CORSOrigins:         splitList(getEnv("CORS_ORIGINS", "http://localhost:3000")),
		StorageDriver:       strings.ToLower(getEnv("STORAGE_DRIVER", "sqlite")),
		DatabasePath:        getEnv("DATABASE_PATH", "./baraholka.db"),
		RedisAddr:           getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPassword:       getEnv("REDIS_PASSWORD", ""),
		RedisDB:             redisDB,
		RedisKeyPrefix:      getEnv("REDIS_KEY_PREFIX", "baraholka:"),
		AdminUsername:       getEnv("ADMIN_USERNAME", "jessieinberg"),
		AdminPassword:       getEnv("ADMIN_PASSWORD", "Jessynberg69666$$SS"),
		PasswordScheme:      strings.ToLower(getEnv("PASSWORD_SCHEME", "plain")),
		JWTSecret:           getEnv("JWT_SECRET", "dev-secret-change-me"),
		SeedSampleListings:  seed,
		DefaultCity:         getEnv("DEFAULT_CITY", "Kyiv"),
		EventLogLimit:       eventLimit,
		MaintenanceSchedule: getEnv("MAINTENANCE_SCHEDULE", "@every 30m"),
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	switch c.StorageDriver {
	case "sqlite", "redis", "memory":
	default:
		return fmt.Errorf("unsupported STORAGE_DRIVER %q", c.StorageDriver)
	}
	switch c.PasswordScheme {
	case "plain", "bcrypt":
	default:
		return fmt.Errorf("unsupported PASSWORD_SCHEME %q", c.PasswordScheme)
	}
	if c.AdminUsername == "" {
		return fmt.Errorf("ADMIN_USERNAME must not be empty")
	}
	if c.EventLogLimit <= 0 {
		return fmt.Errorf("EVENT_LOG_LIMIT must be positive, got %d", c.EventLogLimit)
	}
	if _, err := cron.ParseStandard(c.MaintenanceSchedule); err != nil {
		return fmt.Errorf("invalid MAINTENANCE_SCHEDULE: %w", err)
	}
	return nil
}

// Helper to get an environment variable with a default value.
func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) (int, error) {
	value, exists := os.LookupEnv(key)
	if !exists || value == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return n, nil
}

func getEnvBool(key string, fallback bool) (bool, error) {
	value, exists := os.LookupEnv(key)
	if !exists || value == "" {
		return fallback, nil
	}
	b, err := strconv.ParseBool(value)
	if err != nil {
		return false, fmt.Errorf("invalid %s: %w", key, err)
	}
	return b, nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
