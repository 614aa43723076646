package httpcontroller

import (
	"github.com/labstack/echo/v4"
)

// defaultMetricsPath is used when metrics are enabled without a path.
const defaultMetricsPath = "/metrics"

// PageRouteConfig describes a full-page route.
type PageRouteConfig struct {
	Path    string
	Handler echo.HandlerFunc
}

// initRoutes registers every route of the site.
func (s *Server) initRoutes() {
	h := s.Handlers

	pageRoutes := []PageRouteConfig{
		{Path: "/", Handler: h.Home},
		{Path: "/empresas", Handler: h.Providers},
		{Path: "/categoria/:categoryId", Handler: h.Category},
	}
	for _, r := range pageRoutes {
		s.Echo.GET(r.Path, r.Handler)
	}

	// htmx fragment: first call loads the visit, later calls only filter
	s.Echo.GET("/categoria/:categoryId/produtos", h.Products)

	api := s.Echo.Group("/api/v1")
	api.GET("/categories/:categoryId/products", h.APIProducts)
	api.GET("/providers", h.APIProviders)

	s.Echo.GET("/health", h.Health)
	s.Echo.HEAD("/health", h.Health)

	if path := s.metricsPath(); path != "" {
		s.Echo.GET(path, echo.WrapHandler(s.Metrics.Handler()))
	}

	s.Echo.StaticFS("/assets", echo.MustSubFS(ViewsFs, "views/assets"))
}

// metricsPath returns the metrics route, or "" when it is not served.
func (s *Server) metricsPath() string {
	if s.Metrics == nil || !s.Settings.Metrics.Enabled {
		return ""
	}
	if s.Settings.Metrics.Path == "" {
		return defaultMetricsPath
	}
	return s.Settings.Metrics.Path
}
