package imageprovider

import (
	"context"
	"fmt"
	"io"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrferreira/mrferreira-web/internal/errors"
	"github.com/mrferreira/mrferreira-web/internal/logger"
)

func testLogger() logger.Logger {
	return logger.NewSlogLogger(io.Discard, logger.LogLevelError, time.UTC)
}

// mockResolver resolves "ok/..." paths and fails everything else.
type mockResolver struct {
	calls    atomic.Int32
	inFlight atomic.Int32
	peak     atomic.Int32
	delay    time.Duration
}

func (m *mockResolver) Resolve(ctx context.Context, path string) (string, error) {
	m.calls.Add(1)
	cur := m.inFlight.Add(1)
	defer m.inFlight.Add(-1)
	for {
		p := m.peak.Load()
		if cur <= p || m.peak.CompareAndSwap(p, cur) {
			break
		}
	}
	if m.delay > 0 {
		select {
		case <-time.After(m.delay):
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}
	if len(path) > 3 && path[:3] == "ok/" {
		return "https://cdn.test/" + path, nil
	}
	return "", errors.NotFoundError("object", path)
}

func TestURLMapFirstWriteWins(t *testing.T) {
	t.Parallel()

	m := NewURLMap()
	assert.True(t, m.Set("a.jpg", "https://one"))
	assert.False(t, m.Set("a.jpg", "https://two"))

	u, ok := m.Get("a.jpg")
	require.True(t, ok)
	assert.Equal(t, "https://one", u)

	_, ok = m.Get("missing.jpg")
	assert.False(t, ok)
	assert.Equal(t, 1, m.Len())
}

func TestURLMapSnapshotIsCopy(t *testing.T) {
	t.Parallel()

	m := NewURLMap()
	m.Set("a.jpg", "https://a")
	snap := m.Snapshot()
	snap["b.jpg"] = "https://b"

	assert.Equal(t, 1, m.Len())
}

func TestURLMapConcurrentSet(t *testing.T) {
	t.Parallel()

	m := NewURLMap()
	var wg sync.WaitGroup
	var stored atomic.Int32
	for i := range 50 {
		wg.Go(func() {
			if m.Set(fmt.Sprintf("p%d", i%10), fmt.Sprintf("u%d", i)) {
				stored.Add(1)
			}
		})
	}
	wg.Wait()

	assert.Equal(t, 10, m.Len())
	assert.Equal(t, int32(10), stored.Load())
}

func TestResolveAll(t *testing.T) {
	t.Parallel()

	r := &mockResolver{}
	urls := NewURLMap()
	paths := []string{"ok/a.jpg", "", "ok/b.jpg", "ok/a.jpg", "missing.jpg"}

	ResolveAll(t.Context(), r, paths, urls, 4, testLogger())

	assert.Equal(t, int32(3), r.calls.Load(), "distinct non-empty paths only")
	assert.Equal(t, map[string]string{
		"ok/a.jpg": "https://cdn.test/ok/a.jpg",
		"ok/b.jpg": "https://cdn.test/ok/b.jpg",
	}, urls.Snapshot())
}

func TestResolveAllSkipsKnownPaths(t *testing.T) {
	t.Parallel()

	r := &mockResolver{}
	urls := NewURLMap()
	urls.Set("ok/a.jpg", "https://already")

	ResolveAll(t.Context(), r, []string{"ok/a.jpg"}, urls, 1, testLogger())

	assert.Zero(t, r.calls.Load())
	u, _ := urls.Get("ok/a.jpg")
	assert.Equal(t, "https://already", u)
}

func TestResolveAllRespectsLimit(t *testing.T) {
	t.Parallel()

	r := &mockResolver{delay: 20 * time.Millisecond}
	paths := make([]string, 12)
	for i := range paths {
		paths[i] = fmt.Sprintf("ok/%d.jpg", i)
	}
	urls := NewURLMap()

	ResolveAll(t.Context(), r, paths, urls, 3, testLogger())

	assert.Equal(t, 12, urls.Len())
	assert.LessOrEqual(t, r.peak.Load(), int32(3))
}

func TestDisabledResolver(t *testing.T) {
	t.Parallel()

	_, err := Disabled().Resolve(t.Context(), "a.jpg")
	require.Error(t, err)
	assert.True(t, errors.IsNotFound(err))
}
