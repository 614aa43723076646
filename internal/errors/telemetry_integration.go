// Package errors - telemetry integration (optional)
package errors

import (
	"fmt"
	"regexp"
	"strings"
	"sync"

	"github.com/getsentry/sentry-go"
)

// TelemetryReporter is an interface for reporting errors to telemetry systems
type TelemetryReporter interface {
	ReportError(err *EnhancedError)
	IsEnabled() bool
}

// SentryReporter implements TelemetryReporter for Sentry
type SentryReporter struct {
	enabled bool
}

// NewSentryReporter creates a new Sentry telemetry reporter
func NewSentryReporter(enabled bool) *SentryReporter {
	return &SentryReporter{enabled: enabled}
}

// IsEnabled returns whether Sentry telemetry is enabled
func (sr *SentryReporter) IsEnabled() bool {
	return sr.enabled
}

// ReportError reports an enhanced error to Sentry with URLs and tokens scrubbed
func (sr *SentryReporter) ReportError(ee *EnhancedError) {
	if !sr.enabled || ee.IsReported() {
		return
	}

	message := ScrubMessage(fmt.Sprintf("[%s] %s", ee.Category, ee.Err.Error()))
	title := errorTitle(ee)

	sentry.WithScope(func(scope *sentry.Scope) {
		scope.SetTag("error_title", title)
		scope.SetTag("component", ee.GetComponent())
		scope.SetTag("category", string(ee.Category))
		if ee.Priority != "" {
			scope.SetTag("priority", ee.Priority)
		}

		for key, value := range ee.GetContext() {
			if s, ok := value.(string); ok {
				value = ScrubMessage(s)
			}
			scope.SetContext(key, map[string]any{"value": value})
		}

		level := levelForCategory(ee.Category)
		scope.SetLevel(level)
		scope.SetFingerprint([]string{title, ee.GetComponent(), string(ee.Category)})

		event := sentry.NewEvent()
		event.Message = message
		event.Level = level
		event.Exception = []sentry.Exception{{Type: title, Value: message}}
		sentry.CaptureEvent(event)
	})

	ee.MarkReported()
}

// errorTitle builds a grouping title such as "Imageprovider Image Resolve".
func errorTitle(ee *EnhancedError) string {
	var parts []string
	if c := ee.GetComponent(); c != "" && c != ComponentUnknown {
		parts = append(parts, titleWords(c))
	}
	if ee.Category != "" {
		parts = append(parts, titleWords(string(ee.Category)))
	}
	if op, ok := ee.GetContext()["operation"].(string); ok && op != "" {
		parts = append(parts, titleWords(op))
	}
	if len(parts) == 0 {
		return fmt.Sprintf("%T", ee.Err)
	}
	return strings.Join(parts, " ")
}

func titleWords(s string) string {
	words := strings.FieldsFunc(s, func(r rune) bool { return r == '-' || r == '_' || r == '.' || r == ' ' })
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}

// levelForCategory maps categories to Sentry levels
func levelForCategory(category ErrorCategory) sentry.Level {
	switch category {
	case CategoryNetwork, CategoryTimeout, CategoryCatalogAPI, CategoryImageResolve, CategoryStorage:
		return sentry.LevelWarning
	case CategoryNotFound, CategoryValidation, CategoryCancellation:
		return sentry.LevelInfo
	default:
		return sentry.LevelError
	}
}

var (
	reporterMu              sync.RWMutex
	globalTelemetryReporter TelemetryReporter
)

// SetTelemetryReporter sets the global telemetry reporter; nil disables reporting
func SetTelemetryReporter(reporter TelemetryReporter) {
	reporterMu.Lock()
	defer reporterMu.Unlock()
	globalTelemetryReporter = reporter
	hasActiveReporting.Store(reporter != nil && reporter.IsEnabled())
}

// GetTelemetryReporter returns the current telemetry reporter
func GetTelemetryReporter() TelemetryReporter {
	reporterMu.RLock()
	defer reporterMu.RUnlock()
	return globalTelemetryReporter
}

func reportToTelemetry(ee *EnhancedError) {
	reporter := GetTelemetryReporter()
	if reporter != nil && reporter.IsEnabled() {
		reporter.ReportError(ee)
	}
}

var (
	queryRegex  = regexp.MustCompile(`(https?://[^?\s]+)\?\S*`)
	tokenRegex  = regexp.MustCompile(`(?i)(token|api[_-]?key|auth|signature)[=:]\S+`)
	longHexRegx = regexp.MustCompile(`[0-9a-fA-F]{32,}`)
)

// ScrubMessage removes query strings and download tokens from a message.
// Firebase download URLs carry their access token in the query string.
func ScrubMessage(message string) string {
	scrubbed := queryRegex.ReplaceAllString(message, "$1?[REDACTED]")
	scrubbed = tokenRegex.ReplaceAllString(scrubbed, "[TOKEN_REDACTED]")
	return longHexRegx.ReplaceAllString(scrubbed, "[ID_REDACTED]")
}
