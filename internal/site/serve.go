package site

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/mrferreira/mrferreira-web/internal/conf"
	"github.com/mrferreira/mrferreira-web/internal/httpcontroller"
	"github.com/mrferreira/mrferreira-web/internal/listing"
	"github.com/mrferreira/mrferreira-web/internal/logger"
)

// Serve runs the web server until ctx is canceled or the listener fails,
// then shuts down within the configured timeout.
func Serve(ctx context.Context, settings *conf.Settings) error {
	log := logger.Global().Module("site")

	services, err := NewServices(ctx, settings)
	if err != nil {
		return err
	}
	defer func() {
		if err := services.Close(); err != nil {
			log.Warn("Failed to close services", logger.Error(err))
		}
	}()

	deps := services.ListingDeps()
	server, err := httpcontroller.New(settings, httpcontroller.Deps{
		Visits:    listing.NewVisits(deps, settings.Listing.VisitTTL, settings.Listing.VisitTTL),
		Listing:   deps,
		Site:      services.Content,
		Metrics:   services.Metrics,
		Log:       logger.Global().Module("http"),
		AccessLog: logger.Global().Module("access"),
	})
	if err != nil {
		return err
	}

	hup := make(chan os.Signal, 1)
	signal.Notify(hup, syscall.SIGHUP)
	defer signal.Stop(hup)

	errChan := server.Start()
	if err := waitForShutdown(ctx, errChan, hup, logger.Global(), log); err != nil {
		return err
	}

	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), settings.Server.ShutdownTimeout)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}

// logRotator reopens log files, see logger.CentralLogger.Rotate.
type logRotator interface {
	Rotate() error
}

// waitForShutdown blocks until ctx is canceled or the server fails. Each
// signal on hup rotates the log files, for logrotate setups.
func waitForShutdown(ctx context.Context, errChan <-chan error, hup <-chan os.Signal, logs logRotator, log logger.Logger) error {
	for {
		select {
		case <-ctx.Done():
			log.Info("Shutdown requested")
			return nil
		case err, ok := <-errChan:
			if ok && err != nil {
				return err
			}
			return nil
		case <-hup:
			if err := logs.Rotate(); err != nil {
				log.Warn("Failed to rotate log files", logger.Error(err))
				continue
			}
			log.Info("Log files rotated")
		}
	}
}
