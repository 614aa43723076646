package httpclient

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func newTestClient(t *testing.T) *Client {
	t.Helper()
	return newTestClientWithConfig(t, nil)
}

func newTestClientWithConfig(t *testing.T, cfg *Config) *Client {
	t.Helper()
	client := New(cfg)
	t.Cleanup(client.Close)
	return client
}

func newTestServer(t *testing.T, handler http.HandlerFunc) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return server
}

// closeResponseBody tolerates nil responses so it can be deferred before
// checking the error.
func closeResponseBody(t *testing.T, resp *http.Response) {
	t.Helper()
	if resp == nil || resp.Body == nil {
		return
	}
	if err := resp.Body.Close(); err != nil {
		t.Logf("failed to close response body: %v", err)
	}
}
