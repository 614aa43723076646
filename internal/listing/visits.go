package listing

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"

	"github.com/mrferreira/mrferreira-web/internal/logger"
)

// DefaultVisitTTL is how long an idle visit is kept.
const DefaultVisitTTL = 15 * time.Minute

// Visits keeps loaded listings between the requests of one page visit,
// keyed by a random visit id. Each access slides the expiry.
type Visits struct {
	deps  Deps
	cache *cache.Cache
	log   logger.Logger
}

// NewVisits creates the visit registry. cleanup is the interval of the
// expired-entry sweep; values below one disable it.
func NewVisits(deps Deps, ttl, cleanup time.Duration) *Visits {
	deps = deps.withDefaults()
	if ttl <= 0 {
		ttl = DefaultVisitTTL
	}
	return &Visits{
		deps:  deps,
		cache: cache.New(ttl, cleanup),
		log:   deps.Log.Module("visits"),
	}
}

// Open returns the loaded listing of visitID. When the visit is unknown,
// expired or belongs to another category, a new visit is started and loaded.
// created reports whether that happened.
func (v *Visits) Open(ctx context.Context, categoryID, visitID string) (id string, l *Listing, created bool) {
	if visitID != "" {
		if cached, ok := v.cache.Get(visitID); ok {
			existing := cached.(*Listing)
			if existing.CategoryID() == categoryID {
				v.cache.SetDefault(visitID, existing)
				existing.Load(ctx)
				return visitID, existing, false
			}
		}
	}

	id = uuid.NewString()
	l = New(categoryID, v.deps)
	v.cache.SetDefault(id, l)

	if v.deps.Metrics != nil {
		v.deps.Metrics.SetActiveVisits(v.cache.ItemCount())
	}
	v.log.Debug("Listing visit started",
		logger.String("visit", id),
		logger.String("category_id", categoryID),
		logger.Bool("replaced", visitID != ""))

	l.Load(ctx)
	return id, l, true
}

// Get returns an existing visit without loading anything.
func (v *Visits) Get(visitID string) (*Listing, bool) {
	cached, ok := v.cache.Get(visitID)
	if !ok {
		return nil, false
	}
	return cached.(*Listing), true
}

// Len returns the number of stored visits, expired ones not yet swept included.
func (v *Visits) Len() int {
	return v.cache.ItemCount()
}
