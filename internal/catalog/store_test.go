package catalog

import (
	"context"
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

type countingSource struct {
	calls atomic.Int32
	fail  atomic.Bool
	delay time.Duration
}

func (s *countingSource) Providers(ctx context.Context) ([]Provider, error) {
	s.calls.Add(1)
	if s.delay > 0 {
		time.Sleep(s.delay)
	}
	if s.fail.Load() {
		return nil, errors.NewStd("providers unavailable")
	}
	return []Provider{{ID: "1", Name: "Acme", Logo: "logos/acme.png"}}, nil
}

func discardLogger() logger.Logger {
	return logger.NewSlogLogger(io.Discard, logger.LogLevelInfo, time.UTC)
}

func TestProviderStoreCachesSuccess(t *testing.T) {
	t.Parallel()

	src := &countingSource{}
	store := NewProviderStore(src, time.Minute, discardLogger())

	for range 3 {
		providers, err := store.Providers(t.Context())
		require.NoError(t, err)
		require.Len(t, providers, 1)
	}
	assert.Equal(t, int32(1), src.calls.Load())

	store.Invalidate()
	_, err := store.Providers(t.Context())
	require.NoError(t, err)
	assert.Equal(t, int32(2), src.calls.Load())
}

func TestProviderStoreDoesNotCacheFailure(t *testing.T) {
	t.Parallel()

	src := &countingSource{}
	src.fail.Store(true)
	store := NewProviderStore(src, time.Minute, discardLogger())

	providers, err := store.Providers(t.Context())
	require.Error(t, err)
	assert.Empty(t, providers)
	assert.NotNil(t, providers)

	src.fail.Store(false)
	providers, err = store.Providers(t.Context())
	require.NoError(t, err)
	assert.Len(t, providers, 1)
	assert.Equal(t, int32(2), src.calls.Load())
}

func TestProviderStoreSharesConcurrentMisses(t *testing.T) {
	t.Parallel()

	src := &countingSource{delay: 50 * time.Millisecond}
	store := NewProviderStore(src, time.Minute, discardLogger())

	var wg sync.WaitGroup
	for range 8 {
		wg.Go(func() {
			_, err := store.Providers(context.Background())
			assert.NoError(t, err)
		})
	}
	wg.Wait()
	assert.Equal(t, int32(1), src.calls.Load())
}

func TestProviderStoreExpires(t *testing.T) {
	t.Parallel()

	src := &countingSource{}
	store := NewProviderStore(src, 20*time.Millisecond, discardLogger())

	_, err := store.Providers(t.Context())
	require.NoError(t, err)
	time.Sleep(40 * time.Millisecond)
	_, err = store.Providers(t.Context())
	require.NoError(t, err)
	assert.Equal(t, int32(2), src.calls.Load())
}

func TestLookupKeepsFirstDuplicate(t *testing.T) {
	t.Parallel()

	idx := Lookup([]Provider{{ID: "1", Name: "A"}, {ID: "1", Name: "B"}, {ID: "2", Name: "C"}})
	assert.Len(t, idx, 2)
	assert.Equal(t, "A", idx["1"].Name)
}
