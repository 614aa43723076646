// Package imageprovider turns the opaque storage paths carried by products
// and providers (photos, logos) into URLs a browser can fetch.
package imageprovider

import (
	"context"
	"maps"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/mrferreira/mrferreira-web/internal/errors"
	"github.com/mrferreira/mrferreira-web/internal/logger"
)

// DefaultConcurrency bounds ResolveAll when no limit is given.
const DefaultConcurrency = 8

// Resolver resolves one storage path to a fetchable URL.
type Resolver interface {
	Resolve(ctx context.Context, path string) (string, error)
}

// ResolverFunc adapts a function to Resolver.
type ResolverFunc func(ctx context.Context, path string) (string, error)

// Resolve implements Resolver.
func (f ResolverFunc) Resolve(ctx context.Context, path string) (string, error) {
	return f(ctx, path)
}

// Disabled returns a Resolver that resolves nothing; every image is omitted.
func Disabled() Resolver {
	return ResolverFunc(func(_ context.Context, path string) (string, error) {
		return "", errors.Newf("image storage disabled, cannot resolve %q", path).
			Component("imageprovider").
			Category(errors.CategoryNotFound).
			Build()
	})
}

// URLMap maps storage paths to resolved URLs. It only grows: once a path is
// set its URL never changes or disappears. Safe for concurrent use.
type URLMap struct {
	mu   sync.RWMutex
	urls map[string]string
}

// NewURLMap returns an empty map.
func NewURLMap() *URLMap {
	return &URLMap{urls: make(map[string]string)}
}

// Get returns the URL for path.
func (m *URLMap) Get(path string) (string, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	u, ok := m.urls[path]
	return u, ok
}

// Set stores url for path unless path already has one. It reports whether
// the value was stored.
func (m *URLMap) Set(path, url string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, exists := m.urls[path]; exists {
		return false
	}
	m.urls[path] = url
	return true
}

// Len returns the number of resolved paths.
func (m *URLMap) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.urls)
}

// Snapshot returns a copy of the current contents.
func (m *URLMap) Snapshot() map[string]string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return maps.Clone(m.urls)
}

// ResolveAll resolves every distinct non-empty path not yet in urls, at most
// limit at a time, and stores the successes. Failures are logged and leave
// the path unmapped; one failure never stops the others.
func ResolveAll(ctx context.Context, resolver Resolver, paths []string, urls *URLMap, limit int, log logger.Logger) {
	if limit < 1 {
		limit = DefaultConcurrency
	}
	if log == nil {
		log = logger.Global().Module("imageprovider")
	}

	seen := make(map[string]struct{}, len(paths))
	var g errgroup.Group
	g.SetLimit(limit)

	for _, path := range paths {
		if path == "" {
			continue
		}
		if _, dup := seen[path]; dup {
			continue
		}
		seen[path] = struct{}{}
		if _, ok := urls.Get(path); ok {
			continue
		}

		g.Go(func() error {
			start := time.Now()
			u, err := resolver.Resolve(ctx, path)
			if err != nil {
				level := logger.LogLevelWarn
				if errors.IsNotFound(err) {
					level = logger.LogLevelDebug
				}
				log.Log(level, "Image URL resolution failed",
					logger.String("path", path),
					logger.Duration("elapsed", time.Since(start)),
					logger.Error(err))
				return nil
			}
			urls.Set(path, u)
			return nil
		})
	}
	_ = g.Wait()
}
