package httpcontroller

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/mrferreira/mrferreira-web/internal/logger"
)

// unmatchedRoute labels requests that hit no registered route.
const unmatchedRoute = "unmatched"

// configureMiddleware sets up middleware for the server. Recover sits inside
// the logging middleware so panics are logged and counted like any failure.
func (s *Server) configureMiddleware() {
	s.Echo.Use(s.RequestIDMiddleware())
	s.Echo.Use(s.LoggingMiddleware())
	s.Echo.Use(middleware.Recover())
	if s.Settings.Server.Gzip {
		s.Echo.Use(s.GzipMiddleware())
	}
	s.Echo.Use(s.CacheControlMiddleware())
	s.Echo.Use(s.VaryHeaderMiddleware())
}

// RequestIDMiddleware tags each request with a short id, echoed in the
// X-Request-ID header and attached to the request context as trace id.
func (s *Server) RequestIDMiddleware() echo.MiddlewareFunc {
	return middleware.RequestIDWithConfig(middleware.RequestIDConfig{
		Generator: func() string {
			return uuid.New().String()[:8]
		},
		RequestIDHandler: func(c echo.Context, id string) {
			req := c.Request()
			c.SetRequest(req.WithContext(logger.WithTraceID(req.Context(), id)))
		},
	})
}

// LoggingMiddleware writes one access log entry per request and records the
// HTTP metrics by route pattern.
func (s *Server) LoggingMiddleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()

			if err := next(c); err != nil {
				// Commits the response so the status below is final.
				c.Error(err)
			}

			req := c.Request()
			res := c.Response()
			elapsed := time.Since(start)

			route := c.Path()
			if route == "" || (res.Status == http.StatusNotFound && !s.isRoute(route)) {
				route = unmatchedRoute
			}
			if s.Metrics != nil {
				s.Metrics.HTTP.RecordRequest(req.Method, route, res.Status, elapsed.Seconds())
			}

			fields := []logger.Field{
				logger.String("method", req.Method),
				logger.String("path", req.URL.Path),
				logger.String("route", route),
				logger.Int("status", res.Status),
				logger.Int64("bytes_out", res.Size),
				logger.Duration("latency", elapsed),
				logger.String("ip", c.RealIP()),
			}
			if req.URL.RawQuery != "" {
				fields = append(fields, logger.String("query", req.URL.RawQuery))
			}

			log := s.accessLog.WithContext(req.Context())
			switch {
			case res.Status >= http.StatusInternalServerError:
				log.Error("HTTP request", fields...)
			case res.Status >= http.StatusBadRequest:
				log.Warn("HTTP request", fields...)
			default:
				log.Info("HTTP request", fields...)
			}
			return nil
		}
	}
}

// isRoute reports whether path is a registered route pattern.
func (s *Server) isRoute(path string) bool {
	for _, r := range s.Echo.Routes() {
		if r.Path == path {
			return true
		}
	}
	return false
}

// GzipMiddleware configures Gzip compression for the server
func (s *Server) GzipMiddleware() echo.MiddlewareFunc {
	return middleware.GzipWithConfig(middleware.GzipConfig{
		Level:     6,
		MinLength: 2048,
		Skipper: func(c echo.Context) bool {
			// promhttp negotiates its own compression
			return c.Path() == s.metricsPath()
		},
	})
}

// CacheControlMiddleware sets cache headers based on the request path.
// Anything tied to a listing visit is never cached.
func (s *Server) CacheControlMiddleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			path := c.Request().URL.Path
			h := c.Response().Header()

			switch {
			case strings.HasPrefix(path, "/assets/"):
				h.Set("Cache-Control", "public, max-age=604800, immutable")
			case strings.HasPrefix(path, "/api/"):
				h.Set("Cache-Control", "no-store")
				h.Set("Pragma", "no-cache")
				h.Set("Expires", "0")
			case path == "/health", path == s.metricsPath():
				h.Set("Cache-Control", "no-store")
			case c.Request().Header.Get("HX-Request") != "", strings.HasSuffix(path, "/produtos"):
				h.Set("Cache-Control", "no-store")
			case s.Settings.Server.CacheMaxAge > 0:
				h.Set("Cache-Control", "public, max-age="+strconv.Itoa(s.Settings.Server.CacheMaxAge))
			default:
				h.Set("Cache-Control", "no-cache")
			}
			return next(c)
		}
	}
}

// VaryHeaderMiddleware sets "Vary: HX-Request" for all responses.
func (s *Server) VaryHeaderMiddleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			c.Response().Header().Add("Vary", "HX-Request")
			return next(c)
		}
	}
}
