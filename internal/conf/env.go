package conf

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// envBinding holds metadata for environment variable bindings (internal use)
type envBinding struct {
	ConfigKey string             // Viper config key
	EnvVar    string             // Environment variable name
	Validate  func(string) error // Optional validation function
}

// getEnvBindings returns all environment variable bindings with validation
func getEnvBindings() []envBinding {
	return []envBinding{
		{"debug", "MRFERREIRA_DEBUG", validateEnvBool},

		// Server
		{"server.host", "MRFERREIRA_SERVER_HOST", nil},
		{"server.port", "MRFERREIRA_SERVER_PORT", validateEnvPort},
		{"server.read_timeout", "MRFERREIRA_SERVER_READ_TIMEOUT", validateEnvDuration},
		{"server.write_timeout", "MRFERREIRA_SERVER_WRITE_TIMEOUT", validateEnvDuration},
		{"server.shutdown_timeout", "MRFERREIRA_SERVER_SHUTDOWN_TIMEOUT", validateEnvDuration},
		{"server.gzip", "MRFERREIRA_SERVER_GZIP", validateEnvBool},

		// Catalog API
		{"catalog.base_url", "MRFERREIRA_CATALOG_BASE_URL", validateEnvURL},
		{"catalog.timeout", "MRFERREIRA_CATALOG_TIMEOUT", validateEnvDuration},
		{"catalog.providers_ttl", "MRFERREIRA_CATALOG_PROVIDERS_TTL", validateEnvDuration},

		// Object storage
		{"storage.enabled", "MRFERREIRA_STORAGE_ENABLED", validateEnvBool},
		{"storage.bucket", "MRFERREIRA_STORAGE_BUCKET", nil},
		{"storage.credentials_file", "MRFERREIRA_STORAGE_CREDENTIALS_FILE", validateEnvFile},
		{"storage.anonymous", "MRFERREIRA_STORAGE_ANONYMOUS", validateEnvBool},
		{"storage.endpoint", "MRFERREIRA_STORAGE_ENDPOINT", validateEnvURL},
		{"storage.rate_limit", "MRFERREIRA_STORAGE_RATE_LIMIT", validateEnvNonNegativeFloat},
		{"storage.concurrency", "MRFERREIRA_STORAGE_CONCURRENCY", validateEnvPositiveInt},

		// Listing visits
		{"listing.visit_ttl", "MRFERREIRA_LISTING_VISIT_TTL", validateEnvDuration},

		// Content
		{"content.file", "MRFERREIRA_CONTENT_FILE", validateEnvFile},

		// Logging
		{"logging.default_level", "MRFERREIRA_LOG_LEVEL", validateEnvLogLevel},
		{"logging.timezone", "MRFERREIRA_LOG_TIMEZONE", validateEnvTimezone},
		{"logging.file_output.path", "MRFERREIRA_LOG_FILE", nil},

		// Telemetry
		{"sentry.enabled", "MRFERREIRA_SENTRY_ENABLED", validateEnvBool},
		{"sentry.dsn", "MRFERREIRA_SENTRY_DSN", validateEnvURL},
		{"sentry.environment", "MRFERREIRA_SENTRY_ENVIRONMENT", nil},

		{"metrics.enabled", "MRFERREIRA_METRICS_ENABLED", validateEnvBool},
	}
}

// bindEnvVars sets up environment variable bindings with validation (internal)
func bindEnvVars() error {
	var problems []string

	for _, binding := range getEnvBindings() {
		if err := viper.BindEnv(binding.ConfigKey, binding.EnvVar); err != nil {
			problems = append(problems, fmt.Sprintf("failed to bind %s: %v", binding.EnvVar, err))
			continue
		}

		if binding.Validate != nil {
			if envValue := os.Getenv(binding.EnvVar); envValue != "" {
				if err := binding.Validate(envValue); err != nil {
					problems = append(problems, fmt.Sprintf("invalid %s value '%s': %v", binding.EnvVar, envValue, err))
				}
			}
		}
	}

	if len(problems) > 0 {
		return fmt.Errorf("environment variable issues:\n  - %s", strings.Join(problems, "\n  - "))
	}
	return nil
}

// Environment variable validation functions

func validateEnvBool(value string) error {
	if _, err := strconv.ParseBool(value); err != nil {
		return fmt.Errorf("must be true/false, 1/0, t/f")
	}
	return nil
}

func validateEnvPort(value string) error {
	port, err := strconv.Atoi(value)
	if err != nil {
		return fmt.Errorf("port must be numeric")
	}
	if port < 1 || port > 65535 {
		return fmt.Errorf("port must be between 1 and 65535, got %d", port)
	}
	return nil
}

func validateEnvDuration(value string) error {
	d, err := time.ParseDuration(value)
	if err != nil {
		return fmt.Errorf("expected a duration like 30s or 5m: %w", err)
	}
	if d <= 0 {
		return fmt.Errorf("duration must be positive")
	}
	return nil
}

func validateEnvURL(value string) error {
	u, err := url.Parse(value)
	if err != nil {
		return err
	}
	if u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("must be an absolute URL")
	}
	return nil
}

func validateEnvFile(value string) error {
	info, err := os.Stat(value)
	if err != nil {
		return fmt.Errorf("file not accessible: %w", err)
	}
	if info.IsDir() {
		return fmt.Errorf("path is a directory")
	}
	return nil
}

func validateEnvNonNegativeFloat(value string) error {
	f, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return fmt.Errorf("must be a number")
	}
	if f < 0 {
		return fmt.Errorf("must not be negative")
	}
	return nil
}

func validateEnvPositiveInt(value string) error {
	n, err := strconv.Atoi(value)
	if err != nil {
		return fmt.Errorf("must be an integer")
	}
	if n < 1 {
		return fmt.Errorf("must be at least 1")
	}
	return nil
}

func validateEnvLogLevel(value string) error {
	switch strings.ToLower(value) {
	case "trace", "debug", "info", "warn", "warning", "error":
		return nil
	}
	return fmt.Errorf("unknown log level")
}

func validateEnvTimezone(value string) error {
	if _, err := time.LoadLocation(value); err != nil {
		return fmt.Errorf("unknown timezone: %w", err)
	}
	return nil
}
