package conf

import (
	"time"

	"github.com/spf13/viper"

	"github.com/mrferreira/mrferreira-web/internal/logger"
)

// Default values shared with flags and tests.
const (
	DefaultPort           = "8080"
	DefaultCatalogBaseURL = "https://mrferreira-api.vercel.app/api/api"
	DefaultBucket         = "mrferreira-web.appspot.com"
)

// setDefaultConfig registers every default with viper.
func setDefaultConfig() {
	viper.SetDefault("debug", false)

	viper.SetDefault("server.host", "")
	viper.SetDefault("server.port", DefaultPort)
	viper.SetDefault("server.read_timeout", 15*time.Second)
	viper.SetDefault("server.write_timeout", 60*time.Second)
	viper.SetDefault("server.shutdown_timeout", 10*time.Second)
	viper.SetDefault("server.cache_max_age", 0)
	viper.SetDefault("server.gzip", true)

	viper.SetDefault("catalog.base_url", DefaultCatalogBaseURL)
	viper.SetDefault("catalog.timeout", 15*time.Second)
	viper.SetDefault("catalog.user_agent", "mrferreira-web")
	viper.SetDefault("catalog.providers_ttl", 5*time.Minute)

	viper.SetDefault("storage.enabled", true)
	viper.SetDefault("storage.bucket", DefaultBucket)
	viper.SetDefault("storage.credentials_file", "")
	viper.SetDefault("storage.anonymous", false)
	viper.SetDefault("storage.endpoint", "")
	viper.SetDefault("storage.download_origin", "")
	viper.SetDefault("storage.signed_url_fallback", false)
	viper.SetDefault("storage.signed_url_expiry", time.Hour)
	viper.SetDefault("storage.cache_ttl", 6*time.Hour)
	viper.SetDefault("storage.negative_cache_ttl", 5*time.Minute)
	viper.SetDefault("storage.rate_limit", 20.0)
	viper.SetDefault("storage.burst", 10)
	viper.SetDefault("storage.concurrency", 8)

	viper.SetDefault("listing.visit_ttl", 15*time.Minute)

	viper.SetDefault("content.file", "")

	viper.SetDefault("logging.default_level", logger.DefaultLogLevel)
	viper.SetDefault("logging.timezone", "Local")
	viper.SetDefault("logging.console.enabled", logger.DefaultConsoleEnabled)
	viper.SetDefault("logging.console.level", logger.DefaultLogLevel)
	viper.SetDefault("logging.file_output.enabled", logger.DefaultFileEnabled)
	viper.SetDefault("logging.file_output.path", logger.DefaultLogPath)
	viper.SetDefault("logging.file_output.level", logger.DefaultLogLevel)
	viper.SetDefault("logging.file_output.max_size", logger.DefaultMaxSize)
	viper.SetDefault("logging.file_output.max_age", logger.DefaultMaxAge)
	viper.SetDefault("logging.file_output.max_rotated_files", logger.DefaultMaxRotatedFiles)
	viper.SetDefault("logging.file_output.compress", logger.DefaultCompressLogs)
	viper.SetDefault("logging.modules.access.enabled", true)
	viper.SetDefault("logging.modules.access.file_path", logger.DefaultAccessLogPath)
	viper.SetDefault("logging.modules.access.level", logger.DefaultLogLevel)
	viper.SetDefault("logging.modules.imageprovider.enabled", true)
	viper.SetDefault("logging.modules.imageprovider.file_path", logger.DefaultImageproviderLogPath)
	viper.SetDefault("logging.modules.imageprovider.level", logger.DefaultLogLevel)

	viper.SetDefault("sentry.enabled", false)
	viper.SetDefault("sentry.dsn", "")
	viper.SetDefault("sentry.environment", "production")
	viper.SetDefault("sentry.sample_rate", 1.0)
	viper.SetDefault("sentry.debug", false)

	viper.SetDefault("metrics.enabled", true)
	viper.SetDefault("metrics.path", "/metrics")
}
