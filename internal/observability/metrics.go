// Package observability provides metrics and monitoring capabilities for the catalog site.
package observability

import (
	"fmt"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/mrferreira/mrferreira-web/internal/observability/metrics"
)

// Metrics holds all the metric collectors for the application.
type Metrics struct {
	registry      *prometheus.Registry
	HTTP          *metrics.HTTPMetrics
	Catalog       *metrics.CatalogMetrics
	ImageProvider *metrics.ImageProviderMetrics
}

// NewMetrics creates a new instance of Metrics, initializing all metric collectors.
// It returns an error if any metric collector fails to initialize.
func NewMetrics() (*Metrics, error) {
	registry := prometheus.NewRegistry()

	if err := registry.Register(collectors.NewGoCollector()); err != nil {
		return nil, fmt.Errorf("failed to register Go collector: %w", err)
	}
	if err := registry.Register(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{})); err != nil {
		return nil, fmt.Errorf("failed to register process collector: %w", err)
	}

	httpMetrics, err := metrics.NewHTTPMetrics(registry)
	if err != nil {
		return nil, fmt.Errorf("failed to create HTTP metrics: %w", err)
	}

	catalogMetrics, err := metrics.NewCatalogMetrics(registry)
	if err != nil {
		return nil, fmt.Errorf("failed to create Catalog metrics: %w", err)
	}

	imageProviderMetrics, err := metrics.NewImageProviderMetrics(registry)
	if err != nil {
		return nil, fmt.Errorf("failed to create ImageProvider metrics: %w", err)
	}

	return &Metrics{
		registry:      registry,
		HTTP:          httpMetrics,
		Catalog:       catalogMetrics,
		ImageProvider: imageProviderMetrics,
	}, nil
}

// Registry exposes the underlying registry, mainly for tests.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler returns the Prometheus scrape handler for this registry.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{
		ErrorHandling: promhttp.HTTPErrorOnError,
	})
}
