// Package httpcontroller runs the public web site: server-rendered pages,
// htmx fragments for the category search, a small JSON API and the
// operational endpoints.
package httpcontroller

import (
	"context"
	"io"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/mrferreira/mrferreira-web/internal/conf"
	"github.com/mrferreira/mrferreira-web/internal/content"
	"github.com/mrferreira/mrferreira-web/internal/errors"
	"github.com/mrferreira/mrferreira-web/internal/httpcontroller/handlers"
	"github.com/mrferreira/mrferreira-web/internal/listing"
	"github.com/mrferreira/mrferreira-web/internal/logger"
	"github.com/mrferreira/mrferreira-web/internal/observability"
)

// Server encapsulates the echo server and the services its routes use.
type Server struct {
	Echo     *echo.Echo
	Settings *conf.Settings
	Handlers *handlers.Handlers
	Metrics  *observability.Metrics

	log       logger.Logger
	accessLog logger.Logger
}

// Deps are the services a Server is wired with.
type Deps struct {
	Visits  *listing.Visits
	Listing listing.Deps
	Site    *content.Site
	// Metrics is optional; without it no HTTP metrics are recorded and the
	// metrics route is not registered.
	Metrics *observability.Metrics
	// Log and AccessLog default to the global "http" and "access" modules.
	Log       logger.Logger
	AccessLog logger.Logger
}

// New builds the server: templates, middleware and routes.
func New(settings *conf.Settings, deps Deps) (*Server, error) {
	if deps.Log == nil {
		deps.Log = logger.Global().Module("http")
	}
	if deps.AccessLog == nil {
		deps.AccessLog = logger.Global().Module("access")
	}
	if deps.Visits == nil {
		deps.Visits = listing.NewVisits(deps.Listing, settings.Listing.VisitTTL, settings.Listing.VisitTTL)
	}

	s := &Server{
		Echo:      echo.New(),
		Settings:  settings,
		Handlers:  handlers.New(deps.Visits, deps.Listing, deps.Site, deps.Log),
		Metrics:   deps.Metrics,
		log:       deps.Log,
		accessLog: deps.AccessLog,
	}

	if err := s.initializeServer(); err != nil {
		return nil, err
	}
	return s, nil
}

// initializeServer configures and initializes the server.
func (s *Server) initializeServer() error {
	s.Echo.HideBanner = true
	s.Echo.HidePort = true
	// Requests are logged by LoggingMiddleware.
	s.Echo.Logger.SetOutput(io.Discard)
	s.Echo.HTTPErrorHandler = s.Handlers.HandleError

	if err := s.setupTemplateRenderer(); err != nil {
		return err
	}
	s.configureMiddleware()
	s.initRoutes()
	return nil
}

// Start begins listening in the background. The returned channel yields a
// listen error, if any, and is closed when the server stops.
func (s *Server) Start() <-chan error {
	errChan := make(chan error, 1)
	addr := s.Settings.Server.Addr()
	// Shutdown stops s.Echo.Server, so the timeouts are set on it
	s.Echo.Server.ReadTimeout = s.Settings.Server.ReadTimeout
	s.Echo.Server.WriteTimeout = s.Settings.Server.WriteTimeout

	go func() {
		defer close(errChan)
		s.log.Info("HTTP server starting", logger.String("addr", addr))
		if err := s.Echo.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errChan <- errors.New(err).
				Component("httpcontroller").
				Category(errors.CategoryNetwork).
				Context("addr", addr).
				Build()
		}
	}()
	return errChan
}

// Shutdown stops accepting connections and waits for in-flight requests
// until ctx expires.
func (s *Server) Shutdown(ctx context.Context) error {
	s.log.Info("HTTP server shutting down")
	if err := s.Echo.Shutdown(ctx); err != nil {
		return errors.New(err).
			Component("httpcontroller").
			Category(errors.CategoryGeneric).
			Build()
	}
	return nil
}
