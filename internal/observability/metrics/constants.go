// Package metrics provides the Prometheus collectors for the catalog site.
package metrics

// Catalog API endpoints used as label values.
const (
	EndpointCategory  = "category"
	EndpointProviders = "providers"
)

// Outcome label values.
const (
	OutcomeSuccess = "success"
	OutcomeError   = "error"
)

// Buckets for outbound calls (catalog API, object storage), in seconds.
var outboundBuckets = []float64{0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10}
