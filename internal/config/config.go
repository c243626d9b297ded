// Package config loads server settings from the environment.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	// HTTP server
	Port            int
	ShutdownTimeout time.Duration

	// Logging
	LogLevel  string
	LogFormat string

	// Settlement
	DefaultTolerance int64
	MaxMembers       int
	MaxTransactions  int

	// Metrics
	MetricsPath string
}

// Load reads the configuration from the environment. A .env file in the
// working directory is applied first when present; variables already set in
// the environment take precedence.
func Load() *Config {
	_ = godotenv.Load()

	return &Config{
		Port:            getEnvInt("PORT", 8080),
		ShutdownTimeout: getEnvDuration("SHUTDOWN_TIMEOUT", 15*time.Second),

		LogLevel:  strings.ToLower(getEnv("LOG_LEVEL", "info")),
		LogFormat: strings.ToLower(getEnv("LOG_FORMAT", "text")),

		DefaultTolerance: int64(getEnvInt("DEFAULT_TOLERANCE", 1000)),
		MaxMembers:       getEnvInt("MAX_MEMBERS", 100),
		MaxTransactions:  getEnvInt("MAX_TRANSACTIONS", 10000),

		MetricsPath: getEnv("METRICS_PATH", "/metrics"),
	}
}

// Validate validates the configuration and returns an error if invalid
func (c *Config) Validate() error {
	var errors []string

	if c.Port < 1 || c.Port > 65535 {
		errors = append(errors, fmt.Sprintf("invalid port %d: must be between 1 and 65535", c.Port))
	}

	if c.ShutdownTimeout < time.Second {
		errors = append(errors, fmt.Sprintf("invalid shutdown timeout %v: must be at least 1 second", c.ShutdownTimeout))
	}

	switch c.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		errors = append(errors, fmt.Sprintf("invalid log level '%s': must be one of debug, info, warn, error", c.LogLevel))
	}

	switch c.LogFormat {
	case "text", "json":
	default:
		errors = append(errors, fmt.Sprintf("invalid log format '%s': must be text or json", c.LogFormat))
	}

	if c.DefaultTolerance < 0 {
		errors = append(errors, fmt.Sprintf("invalid default tolerance %d: must not be negative", c.DefaultTolerance))
	}

	if c.MaxMembers < 1 {
		errors = append(errors, fmt.Sprintf("invalid max members %d: must be at least 1", c.MaxMembers))
	}
	if c.MaxTransactions < 1 {
		errors = append(errors, fmt.Sprintf("invalid max transactions %d: must be at least 1", c.MaxTransactions))
	}

	if !strings.HasPrefix(c.MetricsPath, "/") {
		errors = append(errors, fmt.Sprintf("invalid metrics path '%s': must start with /", c.MetricsPath))
	}

	if len(errors) > 0 {
		return fmt.Errorf("configuration validation failed:\n- %s", strings.Join(errors, "\n- "))
	}

	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
