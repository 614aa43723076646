package metrics

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
)

// CatalogMetrics tracks calls to the remote catalog API and listing loads.
type CatalogMetrics struct {
	requestsTotal   *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
	listingLoads    *prometheus.CounterVec
	activeVisits    prometheus.Gauge
}

// NewCatalogMetrics creates and registers the catalog metrics.
func NewCatalogMetrics(registry *prometheus.Registry) (*CatalogMetrics, error) {
	m := &CatalogMetrics{
		requestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "catalog_api_requests_total",
			Help: "Total number of catalog API requests by endpoint and outcome.",
		}, []string{"endpoint", "outcome"}),
		requestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "catalog_api_request_duration_seconds",
			Help:    "Duration of catalog API requests in seconds.",
			Buckets: outboundBuckets,
		}, []string{"endpoint"}),
		listingLoads: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "catalog_listing_loads_total",
			Help: "Total number of listing loads; partial means one of the fetches failed.",
		}, []string{"result"}),
		activeVisits: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "catalog_listing_visits",
			Help: "Number of listing visits currently held in memory.",
		}),
	}
	if err := registry.Register(m); err != nil {
		return nil, fmt.Errorf("failed to register catalog metrics: %w", err)
	}
	return m, nil
}

// ObserveRequest records a catalog API call.
func (m *CatalogMetrics) ObserveRequest(endpoint string, err error, durationSeconds float64) {
	outcome := OutcomeSuccess
	if err != nil {
		outcome = OutcomeError
	}
	m.requestsTotal.WithLabelValues(endpoint, outcome).Inc()
	m.requestDuration.WithLabelValues(endpoint).Observe(durationSeconds)
}

// RecordListingLoad counts a finished listing load ("complete" or "partial").
func (m *CatalogMetrics) RecordListingLoad(result string) {
	m.listingLoads.WithLabelValues(result).Inc()
}

// SetActiveVisits updates the number of live listing visits.
func (m *CatalogMetrics) SetActiveVisits(n int) {
	m.activeVisits.Set(float64(n))
}

// Describe implements the prometheus.Collector interface.
func (m *CatalogMetrics) Describe(ch chan<- *prometheus.Desc) {
	m.requestsTotal.Describe(ch)
	m.requestDuration.Describe(ch)
	m.listingLoads.Describe(ch)
	ch <- m.activeVisits.Desc()
}

// Collect implements the prometheus.Collector interface.
func (m *CatalogMetrics) Collect(ch chan<- prometheus.Metric) {
	m.requestsTotal.Collect(ch)
	m.requestDuration.Collect(ch)
	m.listingLoads.Collect(ch)
	ch <- m.activeVisits
}
