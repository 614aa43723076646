// Package telemetry wires opt-in error reporting to Sentry.
package telemetry

import (
	"sync/atomic"
	"time"

	"github.com/getsentry/sentry-go"

	"github.com/mrferreira/mrferreira-web/internal/conf"
	"github.com/mrferreira/mrferreira-web/internal/errors"
	"github.com/mrferreira/mrferreira-web/internal/logger"
)

var sentryInitialized atomic.Bool

// InitSentry initializes the Sentry SDK and registers the error reporter.
// Nothing happens unless telemetry is explicitly enabled.
func InitSentry(settings *conf.Settings) error {
	return initSentry(settings, nil)
}

func initSentry(settings *conf.Settings, transport sentry.Transport) error {
	log := logger.Global().Module("telemetry")
	if !settings.Sentry.Enabled {
		log.Info("Sentry telemetry is disabled (opt-in required)")
		return nil
	}

	release := "mrferreira-web"
	if settings.Version != "" {
		release += "@" + settings.Version
	}

	err := sentry.Init(sentry.ClientOptions{
		Dsn:              settings.Sentry.DSN,
		SampleRate:       settings.Sentry.SampleRate,
		Debug:            settings.Sentry.Debug,
		AttachStacktrace: false,
		Environment:      settings.Sentry.Environment,
		ServerName:       "",
		Release:          release,
		Transport:        transport,
		BeforeSend: func(event *sentry.Event, _ *sentry.EventHint) *sentry.Event {
			return applyPrivacyFilters(event)
		},
	})
	if err != nil {
		return errors.New(err).
			Component("telemetry").
			Category(errors.CategoryConfiguration).
			Context("operation", "sentry_init").
			Build()
	}

	errors.SetTelemetryReporter(errors.NewSentryReporter(true))
	sentryInitialized.Store(true)

	log.Info("Sentry telemetry initialized",
		logger.String("environment", settings.Sentry.Environment),
		logger.String("release", release))
	return nil
}

// applyPrivacyFilters drops user, host and request details and scrubs URLs
// and tokens from the message.
func applyPrivacyFilters(event *sentry.Event) *sentry.Event {
	event.User = sentry.User{}
	event.ServerName = ""
	event.Request = nil
	event.Message = errors.ScrubMessage(event.Message)

	if event.Contexts != nil {
		delete(event.Contexts, "device")
		delete(event.Contexts, "os")
	}
	if event.Tags != nil {
		delete(event.Tags, "server_name")
		delete(event.Tags, "hostname")
	}
	for i := range event.Exception {
		event.Exception[i].Value = errors.ScrubMessage(event.Exception[i].Value)
	}
	return event
}

// IsInitialized reports whether Sentry is active.
func IsInitialized() bool {
	return sentryInitialized.Load()
}

// Flush waits up to timeout for queued events. It reports whether the
// queue drained; with Sentry disabled it returns true at once.
func Flush(timeout time.Duration) bool {
	if !sentryInitialized.Load() {
		return true
	}
	return sentry.Flush(timeout)
}
