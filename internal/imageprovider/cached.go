package imageprovider

import (
	"context"
	"time"

	"github.com/patrickmn/go-cache"
	"golang.org/x/sync/singleflight"
	"golang.org/x/time/rate"

	"github.com/mrferreira/mrferreira-web/internal/errors"
	"github.com/mrferreira/mrferreira-web/internal/logger"
	"github.com/mrferreira/mrferreira-web/internal/observability/metrics"
)

const (
	defaultCacheTTL        = 6 * time.Hour
	defaultNegativeTTL     = 5 * time.Minute
	defaultCleanupInterval = 10 * time.Minute
)

// CacheConfig configures a CachedResolver. Zero values pick defaults;
// a negative NegativeTTL disables negative caching and a zero RatePerSecond
// disables rate limiting.
type CacheConfig struct {
	TTL             time.Duration
	NegativeTTL     time.Duration
	CleanupInterval time.Duration
	RatePerSecond   float64
	Burst           int
}

// negativeEntry remembers a path whose object does not exist.
type negativeEntry struct {
	err error
}

// CachedResolver shares resolved URLs across listings. Concurrent lookups of
// the same path issue one upstream call, and upstream calls are rate limited.
type CachedResolver struct {
	next        Resolver
	cache       *cache.Cache
	group       singleflight.Group
	limiter     *rate.Limiter
	ttl         time.Duration
	negativeTTL time.Duration
	metrics     *metrics.ImageProviderMetrics
	log         logger.Logger
}

// NewCachedResolver wraps next. m may be nil.
func NewCachedResolver(next Resolver, cfg CacheConfig, m *metrics.ImageProviderMetrics, log logger.Logger) *CachedResolver {
	if cfg.TTL <= 0 {
		cfg.TTL = defaultCacheTTL
	}
	if cfg.NegativeTTL == 0 {
		cfg.NegativeTTL = defaultNegativeTTL
	}
	if cfg.CleanupInterval == 0 {
		cfg.CleanupInterval = defaultCleanupInterval
	}
	if log == nil {
		log = logger.Global().Module("imageprovider")
	}

	var limiter *rate.Limiter
	if cfg.RatePerSecond > 0 {
		burst := max(cfg.Burst, 1)
		limiter = rate.NewLimiter(rate.Limit(cfg.RatePerSecond), burst)
	}

	c := &CachedResolver{
		next:        next,
		cache:       cache.New(cfg.TTL, cfg.CleanupInterval),
		limiter:     limiter,
		ttl:         cfg.TTL,
		negativeTTL: cfg.NegativeTTL,
		metrics:     m,
		log:         log.Module("cache"),
	}
	c.log.Debug("Image cache configured",
		logger.Duration("ttl", cfg.TTL),
		logger.Duration("negative_ttl", cfg.NegativeTTL),
		logger.Float64("rate_per_second", cfg.RatePerSecond))
	return c
}

// Resolve implements Resolver.
func (c *CachedResolver) Resolve(ctx context.Context, path string) (string, error) {
	if v, ok := c.cache.Get(path); ok {
		if c.metrics != nil {
			c.metrics.IncrementCacheHits()
		}
		if neg, isNeg := v.(negativeEntry); isNeg {
			return "", neg.err
		}
		return v.(string), nil
	}
	if c.metrics != nil {
		c.metrics.IncrementCacheMisses()
	}

	v, err, shared := c.group.Do(path, func() (any, error) {
		return c.fetch(ctx, path)
	})
	if shared {
		c.log.Trace("Resolution shared with concurrent caller", logger.String("path", path))
	}
	if err != nil {
		return "", err
	}
	return v.(string), nil
}

func (c *CachedResolver) fetch(ctx context.Context, path string) (string, error) {
	if c.limiter != nil && !c.limiter.Allow() {
		if c.metrics != nil {
			c.metrics.IncrementRateLimited()
		}
		if err := c.limiter.Wait(ctx); err != nil {
			return "", errors.New(err).
				Component("imageprovider").
				Category(errors.CategoryImageCache).
				Context("operation", "rate_limit_wait").
				Build()
		}
	}

	start := time.Now()
	u, err := c.next.Resolve(ctx, path)
	if c.metrics != nil {
		c.metrics.IncrementResolutions()
		c.metrics.ObserveResolveDuration(time.Since(start).Seconds())
	}

	if err != nil {
		if c.metrics != nil {
			c.metrics.IncrementResolveErrors()
		}
		if c.negativeTTL > 0 && errors.IsNotFound(err) {
			c.cache.Set(path, negativeEntry{err: err}, c.negativeTTL)
			c.updateSize()
		}
		return "", err
	}

	c.cache.Set(path, u, c.ttl)
	c.updateSize()
	return u, nil
}

func (c *CachedResolver) updateSize() {
	if c.metrics != nil {
		c.metrics.SetCacheSize(c.cache.ItemCount())
	}
}

// Len returns the number of cached entries, negative ones included.
func (c *CachedResolver) Len() int {
	return c.cache.ItemCount()
}

// Flush drops every cached entry.
func (c *CachedResolver) Flush() {
	c.cache.Flush()
	c.updateSize()
}
