// Package conf loads the service settings from config.yaml, environment
// variables and command line flags.
package conf

import (
	"fmt"
	"net"
	"sync"
	"time"

	"github.com/spf13/viper"

	"github.com/mrferreira/mrferreira-web/internal/errors"
	"github.com/mrferreira/mrferreira-web/internal/logger"
)

// Settings is the root of the configuration.
type Settings struct {
	Debug   bool                 `yaml:"debug" mapstructure:"debug"`
	Server  ServerSettings       `yaml:"server" mapstructure:"server"`
	Catalog CatalogSettings      `yaml:"catalog" mapstructure:"catalog"`
	Storage StorageSettings      `yaml:"storage" mapstructure:"storage"`
	Listing ListingSettings      `yaml:"listing" mapstructure:"listing"`
	Content ContentSettings      `yaml:"content" mapstructure:"content"`
	Logging logger.LoggingConfig `yaml:"logging" mapstructure:"logging"`
	Sentry  SentrySettings       `yaml:"sentry" mapstructure:"sentry"`
	Metrics MetricsSettings      `yaml:"metrics" mapstructure:"metrics"`

	// Version is set at build time, never read from config.
	Version string `yaml:"-" mapstructure:"-"`
}

// ServerSettings configures the HTTP server.
type ServerSettings struct {
	Host            string        `yaml:"host" mapstructure:"host"`
	Port            string        `yaml:"port" mapstructure:"port"`
	ReadTimeout     time.Duration `yaml:"read_timeout" mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `yaml:"write_timeout" mapstructure:"write_timeout"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" mapstructure:"shutdown_timeout"`
	// CacheMaxAge is the max-age sent for pages, in seconds. 0 sends no-cache.
	CacheMaxAge int  `yaml:"cache_max_age" mapstructure:"cache_max_age"`
	Gzip        bool `yaml:"gzip" mapstructure:"gzip"`
}

// Addr returns host:port.
func (s ServerSettings) Addr() string {
	return net.JoinHostPort(s.Host, s.Port)
}

// CatalogSettings configures the remote catalog API.
type CatalogSettings struct {
	BaseURL      string        `yaml:"base_url" mapstructure:"base_url"`
	Timeout      time.Duration `yaml:"timeout" mapstructure:"timeout"`
	UserAgent    string        `yaml:"user_agent" mapstructure:"user_agent"`
	ProvidersTTL time.Duration `yaml:"providers_ttl" mapstructure:"providers_ttl"`
}

// StorageSettings configures object storage for photos and logos.
type StorageSettings struct {
	Enabled           bool          `yaml:"enabled" mapstructure:"enabled"`
	Bucket            string        `yaml:"bucket" mapstructure:"bucket"`
	CredentialsFile   string        `yaml:"credentials_file" mapstructure:"credentials_file"`
	Anonymous         bool          `yaml:"anonymous" mapstructure:"anonymous"`
	Endpoint          string        `yaml:"endpoint" mapstructure:"endpoint"`
	DownloadOrigin    string        `yaml:"download_origin" mapstructure:"download_origin"`
	SignedURLFallback bool          `yaml:"signed_url_fallback" mapstructure:"signed_url_fallback"`
	SignedURLExpiry   time.Duration `yaml:"signed_url_expiry" mapstructure:"signed_url_expiry"`
	CacheTTL          time.Duration `yaml:"cache_ttl" mapstructure:"cache_ttl"`
	NegativeCacheTTL  time.Duration `yaml:"negative_cache_ttl" mapstructure:"negative_cache_ttl"`
	RateLimit         float64       `yaml:"rate_limit" mapstructure:"rate_limit"` // resolutions per second, 0 = unlimited
	Burst             int           `yaml:"burst" mapstructure:"burst"`
	Concurrency       int           `yaml:"concurrency" mapstructure:"concurrency"`
}

// ListingSettings configures listing visits.
type ListingSettings struct {
	VisitTTL time.Duration `yaml:"visit_ttl" mapstructure:"visit_ttl"`
}

// ContentSettings points at an optional content override file.
type ContentSettings struct {
	File string `yaml:"file" mapstructure:"file"`
}

// SentrySettings configures opt-in error telemetry.
type SentrySettings struct {
	Enabled     bool    `yaml:"enabled" mapstructure:"enabled"`
	DSN         string  `yaml:"dsn" mapstructure:"dsn"`
	Environment string  `yaml:"environment" mapstructure:"environment"`
	SampleRate  float64 `yaml:"sample_rate" mapstructure:"sample_rate"`
	Debug       bool    `yaml:"debug" mapstructure:"debug"`
}

// MetricsSettings toggles the Prometheus endpoint.
type MetricsSettings struct {
	Enabled bool   `yaml:"enabled" mapstructure:"enabled"`
	Path    string `yaml:"path" mapstructure:"path"`
}

var (
	settingsInstance *Settings
	settingsMutex    sync.RWMutex
)

// Load reads config.yaml (configFile when given, otherwise the first one
// found in the default paths), environment variables and bound flags into
// Settings. A missing config file is not an error: defaults apply.
func Load(configFile string) (*Settings, error) {
	settingsMutex.Lock()
	defer settingsMutex.Unlock()

	if err := initViper(configFile); err != nil {
		return nil, err
	}

	settings := &Settings{}
	if err := viper.Unmarshal(settings); err != nil {
		return nil, errors.New(fmt.Errorf("error unmarshaling config into struct: %w", err)).
			Component("configuration").
			Category(errors.CategoryConfiguration).
			Build()
	}

	if err := ValidateSettings(settings); err != nil {
		return nil, err
	}

	settingsInstance = settings
	return settings, nil
}

// initViper registers defaults and env bindings and reads the config file.
func initViper(configFile string) error {
	setDefaultConfig()

	if err := bindEnvVars(); err != nil {
		return errors.New(err).
			Component("configuration").
			Category(errors.CategoryValidation).
			Build()
	}

	if configFile != "" {
		viper.SetConfigFile(configFile)
	} else {
		viper.SetConfigName("config")
		viper.SetConfigType("yaml")
		for _, path := range GetDefaultConfigPaths() {
			viper.AddConfigPath(path)
		}
	}

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			return nil
		}
		return errors.New(fmt.Errorf("fatal error reading config file: %w", err)).
			Component("configuration").
			Category(errors.CategoryConfiguration).
			Context("config_file", configFile).
			Build()
	}
	return nil
}

// ConfigFileUsed returns the path of the loaded config file, or "" when
// running on defaults.
func ConfigFileUsed() string {
	return viper.ConfigFileUsed()
}

// GetSettings returns the last loaded settings.
func GetSettings() *Settings {
	settingsMutex.RLock()
	defer settingsMutex.RUnlock()
	return settingsInstance
}
