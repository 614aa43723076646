package httpclient

import (
	"context"
	"io"
	"net/http"
	"sync/atomic"
	"testing"
	"time"

	"github.com/jarcoal/httpmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	t.Run("default config", func(t *testing.T) {
		client := New(nil)

		require.NotNil(t, client)
		assert.Equal(t, DefaultTimeout, client.defaultTimeout)
		assert.Equal(t, defaultUserAgent, client.userAgent)
	})

	t.Run("custom config", func(t *testing.T) {
		cfg := Config{
			DefaultTimeout: 5 * time.Second,
			UserAgent:      "TestAgent/1.0",
		}
		client := New(&cfg)

		assert.Equal(t, 5*time.Second, client.defaultTimeout)
		assert.Equal(t, "TestAgent/1.0", client.userAgent)
		assert.Zero(t, cfg.MaxIdleConns, "caller config must not be mutated")
	})
}

func TestDo_BasicRequest(t *testing.T) {
	server := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("success"))
	})

	client := newTestClient(t)

	req, err := http.NewRequestWithContext(t.Context(), http.MethodGet, server.URL, http.NoBody)
	require.NoError(t, err)

	resp, err := client.Do(t.Context(), req)
	require.NoError(t, err)
	defer closeResponseBody(t, resp)

	assert.Equal(t, http.StatusOK, resp.StatusCode)

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, "success", string(body))
}

func TestDo_UserAgent(t *testing.T) {
	var receivedUA atomic.Value
	server := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		receivedUA.Store(r.Header.Get("User-Agent"))
		w.WriteHeader(http.StatusOK)
	})

	client := newTestClientWithConfig(t, &Config{UserAgent: "CustomAgent/2.0"})

	resp, err := client.Get(t.Context(), server.URL)
	require.NoError(t, err)
	defer closeResponseBody(t, resp)

	assert.Equal(t, "CustomAgent/2.0", receivedUA.Load())
}

func TestDo_ContextCancellation(t *testing.T) {
	server := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(time.Second)
		w.WriteHeader(http.StatusOK)
	})

	client := newTestClient(t)

	ctx, cancel := context.WithCancel(t.Context())
	cancel()

	resp, err := client.Get(ctx, server.URL)
	defer closeResponseBody(t, resp)

	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestDo_DefaultTimeout(t *testing.T) {
	server := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	})

	client := newTestClientWithConfig(t, &Config{DefaultTimeout: 50 * time.Millisecond})

	start := time.Now()
	resp, err := client.Get(context.Background(), server.URL)
	defer closeResponseBody(t, resp)

	require.Error(t, err)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Less(t, time.Since(start), time.Second)
}

func TestDo_BodyReadableAfterReturn(t *testing.T) {
	server := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"results":[]}`))
	})

	client := newTestClientWithConfig(t, &Config{DefaultTimeout: time.Second})

	// No deadline on ctx: the default timeout context must outlive Do.
	resp, err := client.Get(context.Background(), server.URL)
	require.NoError(t, err)
	defer closeResponseBody(t, resp)

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.JSONEq(t, `{"results":[]}`, string(body))
}

func TestGetJSON(t *testing.T) {
	transport := httpmock.NewMockTransport()
	transport.RegisterResponder(http.MethodGet, "https://api.test/providers",
		httpmock.NewStringResponder(http.StatusOK, `{"results":[{"id":1,"nome":"Acme"}]}`))
	transport.RegisterResponder(http.MethodGet, "https://api.test/broken",
		httpmock.NewStringResponder(http.StatusInternalServerError, `{"error":"boom"}`))
	transport.RegisterResponder(http.MethodGet, "https://api.test/garbage",
		httpmock.NewStringResponder(http.StatusOK, `not json`))

	client := newTestClientWithConfig(t, &Config{Transport: transport})

	t.Run("decodes body", func(t *testing.T) {
		var out struct {
			Results []struct {
				ID   int    `json:"id"`
				Nome string `json:"nome"`
			} `json:"results"`
		}
		require.NoError(t, client.GetJSON(t.Context(), "https://api.test/providers", &out))
		require.Len(t, out.Results, 1)
		assert.Equal(t, "Acme", out.Results[0].Nome)
	})

	t.Run("status error", func(t *testing.T) {
		var out map[string]any
		err := client.GetJSON(t.Context(), "https://api.test/broken", &out)

		var statusErr *StatusError
		require.ErrorAs(t, err, &statusErr)
		assert.Equal(t, http.StatusInternalServerError, statusErr.StatusCode)
		assert.Contains(t, statusErr.Body, "boom")
	})

	t.Run("decode error", func(t *testing.T) {
		var out map[string]any
		err := client.GetJSON(t.Context(), "https://api.test/garbage", &out)
		require.ErrorIs(t, err, ErrDecode)
		assert.Contains(t, err.Error(), "https://api.test/garbage")
	})
}

func TestHooks(t *testing.T) {
	server := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})

	client := newTestClient(t)

	var before, after atomic.Int32
	var status atomic.Int32
	client.SetBeforeRequestHook(func(*http.Request) { before.Add(1) })
	client.SetAfterResponseHook(func(_ *http.Request, resp *http.Response, err error) {
		after.Add(1)
		if err == nil {
			status.Store(int32(resp.StatusCode))
		}
	})

	resp, err := client.Get(t.Context(), server.URL)
	require.NoError(t, err)
	closeResponseBody(t, resp)

	assert.Equal(t, int32(1), before.Load())
	assert.Equal(t, int32(1), after.Load())
	assert.Equal(t, int32(http.StatusNoContent), status.Load())
}
