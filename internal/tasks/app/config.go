package app

import (
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	Issuer     string        // issuer claim of access tokens (default: http://localhost:8080)
	NumKeys    int           // signing keys generated at startup (default: 2, max: 10)
	AccessTTL  time.Duration // access token lifetime (default: 5m)
	RefreshTTL time.Duration // refresh token lifetime (default: 24h)

	// RequireActive refuses logins from users never activated with the CLI.
	RequireActive bool

	DatabaseFile string // path to SQLite database file (default: ./tasks.db)
	PepperFile   string // path to file containing pepper for password hashing (default: ./pepper.key)
	Timezone     string // zone task timestamps are rendered in (default: Local)

	RedisAddr     string // optional: shared revocation list; empty keeps it in memory
	RedisPassword string
	RedisDB       int

	TracesExporter string // none, stdout or otlp (default: none)
	OTLPEndpoint   string // OTLP/HTTP collector (default: localhost:4318)

	Env                  string        // Environment (dev, staging, prod) (default: dev)
	LogLevel             string        // Log level (debug, info, warn, error) (default: info)
	LogFormat            string        // Log format (json, text) (default: json)
	Port                 int           // HTTP server port (default: 8080)
	ShutdownGracePeriod  time.Duration // Graceful shutdown timeout (default: 10s)
	HousekeepingInterval time.Duration // Housekeeping interval (default: 1h)
}

func LoadConfig() Config {
	return Config{
		Issuer:        getEnvOrDefault("TASKS_ISSUER", "http://localhost:8080"),
		NumKeys:       getEnvIntOrDefault("TASKS_NUM_KEYS", 2),
		AccessTTL:     getEnvDurationOrDefault("TASKS_ACCESS_TTL", 5*time.Minute),
		RefreshTTL:    getEnvDurationOrDefault("TASKS_REFRESH_TTL", 24*time.Hour),
		RequireActive: getEnvBoolOrDefault("TASKS_REQUIRE_ACTIVE", false),

		DatabaseFile: getEnvOrDefault("TASKS_DB_FILE", "tasks.db"),
		PepperFile:   getEnvOrDefault("TASKS_PEPPER_FILE", "pepper.key"),
		Timezone:     getEnvOrDefault("TASKS_TIMEZONE", "Local"),

		RedisAddr:     os.Getenv("REDIS_ADDR"),
		RedisPassword: os.Getenv("REDIS_PASSWORD"),
		RedisDB:       getEnvIntOrDefault("REDIS_DB", 0),

		TracesExporter: getEnvOrDefault("OTEL_TRACES_EXPORTER", "none"),
		OTLPEndpoint:   getEnvOrDefault("OTEL_EXPORTER_OTLP_ENDPOINT", "localhost:4318"),

		Env:                  getEnvOrDefault("ENV", "dev"),
		LogLevel:             getEnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:            getEnvOrDefault("LOG_FORMAT", "json"),
		Port:                 getEnvIntOrDefault("PORT", 8080),
		ShutdownGracePeriod:  getEnvDurationOrDefault("SHUTDOWN_GRACE_PERIOD", 10*time.Second),
		HousekeepingInterval: getEnvDurationOrDefault("HOUSEKEEPING_INTERVAL", time.Hour),
	}
}

// Location resolves Timezone, falling back to the host zone.
func (c Config) Location() *time.Location {
	if c.Timezone == "" || strings.EqualFold(c.Timezone, "Local") {
		return time.Local
	}
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.Local
	}
	return loc
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	if intValue, err := strconv.Atoi(value); err == nil {
		return intValue
	}

	return defaultValue
}

func getEnvBoolOrDefault(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	if b, err := strconv.ParseBool(value); err == nil {
		return b
	}

	return defaultValue
}

func getEnvDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	// Try parsing as duration (e.g., "1h", "30m", "90s")
	if duration, err := time.ParseDuration(value); err == nil {
		return duration
	}

	// Try parsing as integer minutes
	if minutes, err := strconv.Atoi(value); err == nil {
		return time.Duration(minutes) * time.Minute
	}

	return defaultValue
}
