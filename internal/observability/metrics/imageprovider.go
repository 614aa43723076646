package metrics

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
)

// ImageProviderMetrics contains the Prometheus metrics for storage URL resolution.
type ImageProviderMetrics struct {
	CacheSize          prometheus.Gauge
	CacheHits          prometheus.Counter
	CacheMisses        prometheus.Counter
	Resolutions        prometheus.Counter
	ResolveErrors      prometheus.Counter
	ResolveDuration    prometheus.Histogram
	RateLimitedWaiting prometheus.Counter
}

// NewImageProviderMetrics creates and registers the image provider metrics.
func NewImageProviderMetrics(registry *prometheus.Registry) (*ImageProviderMetrics, error) {
	m := &ImageProviderMetrics{}
	m.initMetrics()
	if err := registry.Register(m); err != nil {
		return nil, fmt.Errorf("failed to register ImageProvider metrics: %w", err)
	}
	return m, nil
}

func (m *ImageProviderMetrics) initMetrics() {
	m.CacheSize = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "image_provider_cache_entries",
		Help: "Number of resolved storage URLs held in the process cache.",
	})

	m.CacheHits = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "image_provider_cache_hits_total",
		Help: "Total number of cache hits.",
	})

	m.CacheMisses = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "image_provider_cache_misses_total",
		Help: "Total number of cache misses.",
	})

	m.Resolutions = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "image_provider_resolutions_total",
		Help: "Total number of storage URL resolutions sent to object storage.",
	})

	m.ResolveErrors = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "image_provider_resolve_errors_total",
		Help: "Total number of failed storage URL resolutions.",
	})

	m.ResolveDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "image_provider_resolve_duration_seconds",
		Help:    "Duration of storage URL resolutions in seconds.",
		Buckets: outboundBuckets,
	})

	m.RateLimitedWaiting = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "image_provider_rate_limited_total",
		Help: "Total number of resolutions that had to wait for the rate limiter.",
	})
}

// SetCacheSize updates the number of cached entries.
func (m *ImageProviderMetrics) SetCacheSize(entries int) {
	m.CacheSize.Set(float64(entries))
}

// IncrementCacheHits increases the cache hit counter by one.
func (m *ImageProviderMetrics) IncrementCacheHits() {
	m.CacheHits.Inc()
}

// IncrementCacheMisses increases the cache miss counter by one.
func (m *ImageProviderMetrics) IncrementCacheMisses() {
	m.CacheMisses.Inc()
}

// IncrementResolutions increases the resolution counter by one.
func (m *ImageProviderMetrics) IncrementResolutions() {
	m.Resolutions.Inc()
}

// IncrementResolveErrors increases the resolution error counter by one.
func (m *ImageProviderMetrics) IncrementResolveErrors() {
	m.ResolveErrors.Inc()
}

// IncrementRateLimited counts a resolution delayed by the rate limiter.
func (m *ImageProviderMetrics) IncrementRateLimited() {
	m.RateLimitedWaiting.Inc()
}

// ObserveResolveDuration records the duration of one resolution in seconds.
func (m *ImageProviderMetrics) ObserveResolveDuration(durationSeconds float64) {
	m.ResolveDuration.Observe(durationSeconds)
}

// Collect implements the prometheus.Collector interface.
func (m *ImageProviderMetrics) Collect(ch chan<- prometheus.Metric) {
	ch <- m.CacheSize
	ch <- m.CacheHits
	ch <- m.CacheMisses
	ch <- m.Resolutions
	ch <- m.ResolveErrors
	ch <- m.ResolveDuration
	ch <- m.RateLimitedWaiting
}

// Describe implements the prometheus.Collector interface.
func (m *ImageProviderMetrics) Describe(ch chan<- *prometheus.Desc) {
	ch <- m.CacheSize.Desc()
	ch <- m.CacheHits.Desc()
	ch <- m.CacheMisses.Desc()
	ch <- m.Resolutions.Desc()
	ch <- m.ResolveErrors.Desc()
	ch <- m.ResolveDuration.Desc()
	ch <- m.RateLimitedWaiting.Desc()
}
