package catalog

import (
	"context"
	"time"

	"github.com/patrickmn/go-cache"
	"golang.org/x/sync/singleflight"

	"github.com/mrferreira/mrferreira-web/internal/logger"
)

// DefaultProviderTTL is how long a successful provider list is reused.
const DefaultProviderTTL = 5 * time.Minute

const providersKey = "providers"

// ProviderStore shares one provider list between every page for a TTL.
// Failed fetches are never cached, so the next caller retries.
type ProviderStore struct {
	source ProviderSource
	cache  *cache.Cache
	group  singleflight.Group
	ttl    time.Duration
	log    logger.Logger
}

// NewProviderStore wraps source. A non-positive ttl uses DefaultProviderTTL.
func NewProviderStore(source ProviderSource, ttl time.Duration, log logger.Logger) *ProviderStore {
	if ttl <= 0 {
		ttl = DefaultProviderTTL
	}
	if log == nil {
		log = logger.Global().Module("catalog")
	}
	return &ProviderStore{
		source: source,
		// expired entries are only read through Get, which checks expiry itself
		cache: cache.New(ttl, 0),
		ttl:   ttl,
		log:   log.Module("providers"),
	}
}

// Providers returns the cached list, fetching it when absent or expired.
// Concurrent misses share one fetch. On failure the list is empty and the
// error is returned for the caller to log.
func (s *ProviderStore) Providers(ctx context.Context) ([]Provider, error) {
	if v, ok := s.cache.Get(providersKey); ok {
		return v.([]Provider), nil
	}

	v, err, _ := s.group.Do(providersKey, func() (any, error) {
		providers, err := s.source.Providers(ctx)
		if err != nil {
			return nil, err
		}
		s.cache.Set(providersKey, providers, s.ttl)
		s.log.Debug("Provider list cached",
			logger.Int("count", len(providers)),
			logger.Duration("ttl", s.ttl))
		return providers, nil
	})
	if err != nil {
		return []Provider{}, err
	}
	return v.([]Provider), nil
}

// Lookup returns an index of providers by id.
func Lookup(providers []Provider) map[ID]Provider {
	idx := make(map[ID]Provider, len(providers))
	for _, p := range providers {
		if _, dup := idx[p.ID]; !dup {
			idx[p.ID] = p
		}
	}
	return idx
}

// Invalidate drops the cached list.
func (s *ProviderStore) Invalidate() {
	s.cache.Delete(providersKey)
}
