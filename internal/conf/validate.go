package conf

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/mrferreira/mrferreira-web/internal/errors"
)

// ValidationError represents a collection of validation errors
type ValidationError struct {
	Errors []string
}

// Error returns a string representation of the validation errors
func (ve ValidationError) Error() string {
	return fmt.Sprintf("validation errors: %s", strings.Join(ve.Errors, "; "))
}

// ErrorCategory implements errors.CategorizedError.
func (ve ValidationError) ErrorCategory() errors.ErrorCategory {
	return errors.CategoryValidation
}

// ValidateSettings validates the entire Settings struct
func ValidateSettings(settings *Settings) error {
	ve := ValidationError{}
	collect := func(errs []string) { ve.Errors = append(ve.Errors, errs...) }

	collect(validateServerSettings(&settings.Server))
	collect(validateCatalogSettings(&settings.Catalog))
	collect(validateStorageSettings(&settings.Storage))

	if settings.Listing.VisitTTL <= 0 {
		ve.Errors = append(ve.Errors, "listing.visit_ttl must be positive")
	}
	if settings.Sentry.Enabled && settings.Sentry.DSN == "" {
		ve.Errors = append(ve.Errors, "sentry.dsn is required when sentry is enabled")
	}
	if settings.Sentry.SampleRate < 0 || settings.Sentry.SampleRate > 1 {
		ve.Errors = append(ve.Errors, "sentry.sample_rate must be between 0 and 1")
	}
	if settings.Metrics.Enabled && !strings.HasPrefix(settings.Metrics.Path, "/") {
		ve.Errors = append(ve.Errors, "metrics.path must start with /")
	}

	if len(ve.Errors) > 0 {
		return ve
	}
	return nil
}

func validateServerSettings(s *ServerSettings) []string {
	var errs []string
	port, err := strconv.Atoi(s.Port)
	if err != nil || port < 1 || port > 65535 {
		errs = append(errs, fmt.Sprintf("server.port must be a number between 1 and 65535, got %q", s.Port))
	}
	if s.ReadTimeout <= 0 || s.WriteTimeout <= 0 || s.ShutdownTimeout <= 0 {
		errs = append(errs, "server timeouts must be positive")
	}
	if s.CacheMaxAge < 0 {
		errs = append(errs, "server.cache_max_age must not be negative")
	}
	return errs
}

func validateCatalogSettings(s *CatalogSettings) []string {
	var errs []string
	u, err := url.Parse(s.BaseURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		errs = append(errs, fmt.Sprintf("catalog.base_url must be an absolute http(s) URL, got %q", s.BaseURL))
	}
	if s.Timeout <= 0 {
		errs = append(errs, "catalog.timeout must be positive")
	}
	if s.ProvidersTTL <= 0 {
		errs = append(errs, "catalog.providers_ttl must be positive")
	}
	return errs
}

func validateStorageSettings(s *StorageSettings) []string {
	if !s.Enabled {
		return nil
	}
	var errs []string
	if strings.TrimSpace(s.Bucket) == "" {
		errs = append(errs, "storage.bucket is required when storage is enabled")
	}
	if s.Concurrency < 1 {
		errs = append(errs, "storage.concurrency must be at least 1")
	}
	if s.RateLimit < 0 {
		errs = append(errs, "storage.rate_limit must not be negative")
	}
	if s.CacheTTL <= 0 {
		errs = append(errs, "storage.cache_ttl must be positive")
	}
	if s.SignedURLFallback && s.SignedURLExpiry <= 0 {
		errs = append(errs, "storage.signed_url_expiry must be positive when signed_url_fallback is on")
	}
	return errs
}
