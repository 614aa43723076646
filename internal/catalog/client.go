package catalog

import (
	"context"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/mrferreira/mrferreira-web/internal/errors"
	"github.com/mrferreira/mrferreira-web/internal/httpclient"
	"github.com/mrferreira/mrferreira-web/internal/logger"
	"github.com/mrferreira/mrferreira-web/internal/observability/metrics"
)

// DefaultBaseURL is the production catalog API.
const DefaultBaseURL = "https://mrferreira-api.vercel.app/api/api"

// Client reads the catalog.
type Client interface {
	// ProductsByCategory returns every product of a category in API order.
	ProductsByCategory(ctx context.Context, categoryID string) ([]Product, error)
	// Providers returns all providers.
	Providers(ctx context.Context) ([]Provider, error)
}

// ProviderSource is satisfied by Client and by ProviderStore.
type ProviderSource interface {
	Providers(ctx context.Context) ([]Provider, error)
}

// APIClient is the REST implementation of Client.
type APIClient struct {
	baseURL string
	http    *httpclient.Client
	metrics *metrics.CatalogMetrics
	log     logger.Logger
}

// ClientOption configures an APIClient.
type ClientOption func(*APIClient)

// WithMetrics records every API call in m.
func WithMetrics(m *metrics.CatalogMetrics) ClientOption {
	return func(c *APIClient) { c.metrics = m }
}

// WithLogger replaces the global "catalog" module logger.
func WithLogger(l logger.Logger) ClientOption {
	return func(c *APIClient) { c.log = l }
}

// NewAPIClient returns a client for the API rooted at baseURL.
func NewAPIClient(baseURL string, hc *httpclient.Client, opts ...ClientOption) (*APIClient, error) {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	u, err := url.Parse(baseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil, errors.Newf("invalid catalog base URL %q", baseURL).
			Component("catalog").
			Category(errors.CategoryConfiguration).
			Build()
	}
	if hc == nil {
		hc = httpclient.New(nil)
	}

	c := &APIClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    hc,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.log == nil {
		c.log = logger.Global().Module("catalog")
	}
	return c, nil
}

// ProductsByCategory implements Client.
func (c *APIClient) ProductsByCategory(ctx context.Context, categoryID string) ([]Product, error) {
	categoryID = strings.TrimSpace(categoryID)
	if categoryID == "" || categoryID == "." || categoryID == ".." {
		return nil, errors.Newf("invalid category id %q", categoryID).
			Component("catalog").
			Category(errors.CategoryValidation).
			Build()
	}

	var env resultsEnvelope[Product]
	endpoint := c.baseURL + "/category/" + url.PathEscape(categoryID)
	if err := c.get(ctx, metrics.EndpointCategory, endpoint, &env); err != nil {
		return nil, err
	}
	if env.Results == nil {
		return []Product{}, nil
	}

	c.log.Debug("Products fetched",
		logger.String("category_id", categoryID),
		logger.Int("count", len(env.Results)))
	return env.Results, nil
}

// Providers implements Client.
func (c *APIClient) Providers(ctx context.Context) ([]Provider, error) {
	var env resultsEnvelope[Provider]
	if err := c.get(ctx, metrics.EndpointProviders, c.baseURL+"/providers", &env); err != nil {
		return nil, err
	}
	if env.Results == nil {
		return []Provider{}, nil
	}

	c.log.Debug("Providers fetched", logger.Int("count", len(env.Results)))
	return env.Results, nil
}

func (c *APIClient) get(ctx context.Context, endpoint, rawURL string, out any) error {
	start := time.Now()
	err := c.http.GetJSON(ctx, rawURL, out)
	elapsed := time.Since(start)
	if c.metrics != nil {
		c.metrics.ObserveRequest(endpoint, err, elapsed.Seconds())
	}
	if err == nil {
		return nil
	}

	builder := errors.New(err).
		Component("catalog").
		Context("endpoint", endpoint).
		Timing("catalog_"+endpoint, elapsed)

	var statusErr *httpclient.StatusError
	switch {
	case errors.As(err, &statusErr):
		builder = builder.Category(errors.CategoryCatalogAPI).
			Context("status_code", statusErr.StatusCode)
		if statusErr.StatusCode >= http.StatusInternalServerError {
			// every page of the site renders empty while the API fails
			builder = builder.Priority(errors.PriorityHigh)
		}
	case ctx.Err() != nil:
		// leave it to category detection: timeout or cancellation
	case errors.Is(err, httpclient.ErrDecode):
		builder = builder.Category(errors.CategoryCatalogAPI)
	default:
		builder = builder.Category(errors.CategoryNetwork).
			Priority(errors.PriorityHigh).
			NetworkContext(rawURL, 0)
	}
	return builder.Build()
}
