package metrics

import (
	"fmt"
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
)

// HTTPMetrics contains Prometheus metrics for inbound HTTP requests
type HTTPMetrics struct {
	requestsTotal   *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
	requestErrors   *prometheus.CounterVec
	templateErrors  *prometheus.CounterVec
}

// NewHTTPMetrics creates and registers new HTTP handler metrics
func NewHTTPMetrics(registry *prometheus.Registry) (*HTTPMetrics, error) {
	m := &HTTPMetrics{}
	m.initMetrics()
	if err := registry.Register(m); err != nil {
		return nil, fmt.Errorf("failed to register HTTP metrics: %w", err)
	}
	return m, nil
}

func (m *HTTPMetrics) initMetrics() {
	m.requestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "route", "status_code"}, // route is the echo route pattern, e.g. /categoria/:categoryId
	)

	m.requestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Time taken for HTTP requests",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)

	m.requestErrors = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_request_errors_total",
			Help: "Total number of HTTP requests answered with a 5xx status",
		},
		[]string{"method", "route"},
	)

	m.templateErrors = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_template_render_errors_total",
			Help: "Total number of template rendering failures",
		},
		[]string{"template"},
	)
}

// RecordRequest records one handled request
func (m *HTTPMetrics) RecordRequest(method, route string, status int, durationSeconds float64) {
	m.requestsTotal.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.requestDuration.WithLabelValues(method, route).Observe(durationSeconds)
	if status >= 500 {
		m.requestErrors.WithLabelValues(method, route).Inc()
	}
}

// RecordTemplateError counts a failed template execution
func (m *HTTPMetrics) RecordTemplateError(template string) {
	m.templateErrors.WithLabelValues(template).Inc()
}

// Describe implements the prometheus.Collector interface.
func (m *HTTPMetrics) Describe(ch chan<- *prometheus.Desc) {
	m.requestsTotal.Describe(ch)
	m.requestDuration.Describe(ch)
	m.requestErrors.Describe(ch)
	m.templateErrors.Describe(ch)
}

// Collect implements the prometheus.Collector interface.
func (m *HTTPMetrics) Collect(ch chan<- prometheus.Metric) {
	m.requestsTotal.Collect(ch)
	m.requestDuration.Collect(ch)
	m.requestErrors.Collect(ch)
	m.templateErrors.Collect(ch)
}
