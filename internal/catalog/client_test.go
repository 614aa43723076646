package catalog

import (
	"context"
	"io"
	"net/http"
	"testing"
	"time"

	"github.com/jarcoal/httpmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrferreira/mrferreira-web/internal/errors"
	"github.com/mrferreira/mrferreira-web/internal/httpclient"
	"github.com/mrferreira/mrferreira-web/internal/logger"
)

const testBaseURL = "https://api.test/api"

func newMockedClient(t *testing.T) (*APIClient, *httpmock.MockTransport) {
	t.Helper()
	transport := httpmock.NewMockTransport()
	hc := httpclient.New(&httpclient.Config{Transport: transport})
	t.Cleanup(hc.Close)

	c, err := NewAPIClient(testBaseURL+"/", hc,
		WithLogger(logger.NewSlogLogger(io.Discard, logger.LogLevelDebug, time.UTC)))
	require.NoError(t, err)
	return c, transport
}

func TestProductsByCategory(t *testing.T) {
	t.Parallel()

	c, transport := newMockedClient(t)
	transport.RegisterResponder(http.MethodGet, testBaseURL+"/category/sofas",
		httpmock.NewStringResponder(http.StatusOK,
			`{"results":[{"id":1,"nome":"Sofá","id_category":"sofas","id_provider":2,"foto":null}]}`))

	products, err := c.ProductsByCategory(t.Context(), "sofas")
	require.NoError(t, err)
	require.Len(t, products, 1)
	assert.Equal(t, "Sofá", products[0].Name)
	assert.Equal(t, 1, transport.GetCallCountInfo()["GET "+testBaseURL+"/category/sofas"])
}

func TestProductsByCategoryEscapesID(t *testing.T) {
	t.Parallel()

	c, transport := newMockedClient(t)
	transport.RegisterResponder(http.MethodGet, `=~^https://api\.test/api/category/mesas%20e%20cadeiras$`,
		httpmock.NewStringResponder(http.StatusOK, `{"results":[]}`))

	products, err := c.ProductsByCategory(t.Context(), "mesas e cadeiras")
	require.NoError(t, err)
	assert.Empty(t, products)
	assert.NotNil(t, products)
}

func TestProductsByCategoryRejectsBlankID(t *testing.T) {
	t.Parallel()

	c, transport := newMockedClient(t)
	for _, id := range []string{"", "  ", ".."} {
		_, err := c.ProductsByCategory(t.Context(), id)
		require.Error(t, err)
		assert.True(t, errors.IsCategory(err, errors.CategoryValidation), "id %q", id)
	}
	assert.Zero(t, transport.GetTotalCallCount())
}

func TestProvidersMissingResults(t *testing.T) {
	t.Parallel()

	c, transport := newMockedClient(t)
	transport.RegisterResponder(http.MethodGet, testBaseURL+"/providers",
		httpmock.NewStringResponder(http.StatusOK, `{}`))

	providers, err := c.Providers(t.Context())
	require.NoError(t, err)
	assert.Empty(t, providers)
	assert.NotNil(t, providers)
}

func TestClientErrorCategories(t *testing.T) {
	t.Parallel()

	c, transport := newMockedClient(t)
	transport.RegisterResponder(http.MethodGet, testBaseURL+"/providers",
		httpmock.NewStringResponder(http.StatusServiceUnavailable, `down`))
	transport.RegisterResponder(http.MethodGet, testBaseURL+"/category/broken",
		httpmock.NewStringResponder(http.StatusOK, `<html>`))
	transport.RegisterResponder(http.MethodGet, testBaseURL+"/category/offline",
		httpmock.NewErrorResponder(errors.NewStd("dial tcp: connection refused")))

	_, err := c.Providers(t.Context())
	require.Error(t, err)
	assert.True(t, errors.IsCategory(err, errors.CategoryCatalogAPI))
	var ee *errors.EnhancedError
	require.ErrorAs(t, err, &ee)
	assert.Equal(t, http.StatusServiceUnavailable, ee.GetContext()["status_code"])
	assert.Equal(t, errors.PriorityHigh, ee.Priority)

	_, err = c.ProductsByCategory(t.Context(), "broken")
	assert.True(t, errors.IsCategory(err, errors.CategoryCatalogAPI))
	require.ErrorAs(t, err, &ee)
	assert.Empty(t, ee.Priority, "decode failures keep the default priority")

	_, err = c.ProductsByCategory(t.Context(), "offline")
	assert.True(t, errors.IsCategory(err, errors.CategoryNetwork))
	require.ErrorAs(t, err, &ee)
	assert.Equal(t, errors.PriorityHigh, ee.Priority)
}

func TestClientCanceledContext(t *testing.T) {
	t.Parallel()

	c, transport := newMockedClient(t)
	transport.RegisterResponder(http.MethodGet, testBaseURL+"/providers",
		func(req *http.Request) (*http.Response, error) {
			<-req.Context().Done()
			return nil, req.Context().Err()
		})

	ctx, cancel := context.WithCancel(t.Context())
	cancel()
	_, err := c.Providers(ctx)
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestNewAPIClientValidatesBaseURL(t *testing.T) {
	t.Parallel()

	_, err := NewAPIClient("not a url", nil)
	require.Error(t, err)
	assert.True(t, errors.IsCategory(err, errors.CategoryConfiguration))
}
