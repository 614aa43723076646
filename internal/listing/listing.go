// Package listing builds the product listing of one category page: products
// and providers are fetched together once, photos are resolved to URLs, and
// every search afterwards filters the fetched products in memory.
package listing

import (
	"context"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"
	"golang.org/x/text/cases"

	"github.com/mrferreira/mrferreira-web/internal/catalog"
	"github.com/mrferreira/mrferreira-web/internal/imageprovider"
	"github.com/mrferreira/mrferreira-web/internal/logger"
	"github.com/mrferreira/mrferreira-web/internal/observability/metrics"
)

// Load results recorded in metrics.
const (
	resultComplete = "complete"
	resultPartial  = "partial"
)

// Deps are the collaborators shared by every listing.
type Deps struct {
	Products  catalog.Client
	Providers catalog.ProviderSource
	Images    imageprovider.Resolver
	// Concurrency bounds parallel photo resolutions per listing.
	Concurrency int
	Metrics     *metrics.CatalogMetrics
	Log         logger.Logger
}

func (d Deps) withDefaults() Deps {
	if d.Providers == nil {
		d.Providers = d.Products
	}
	if d.Images == nil {
		d.Images = imageprovider.Disabled()
	}
	if d.Concurrency < 1 {
		d.Concurrency = imageprovider.DefaultConcurrency
	}
	if d.Log == nil {
		d.Log = logger.Global().Module("listing")
	}
	return d
}

// Card is one displayed product.
type Card struct {
	// Key is stable across renders: the product id.
	Key          string     `json:"key"`
	ProductID    catalog.ID `json:"id"`
	Name         string     `json:"nome"`
	ProviderID   catalog.ID `json:"id_provider,omitempty"`
	ProviderName string     `json:"provider"`
	Slug         string     `json:"slug"`
	Link         string     `json:"link"`
	// ImageURL is empty when the product has no photo or it did not resolve.
	ImageURL string `json:"image_url,omitempty"`
}

// HasImage reports whether the card should render an image.
func (c Card) HasImage() bool { return c.ImageURL != "" }

// Listing holds the fetched state of one category page visit.
type Listing struct {
	categoryID string
	deps       Deps
	log        logger.Logger

	once sync.Once

	mu         sync.RWMutex
	loading    bool
	products   []catalog.Product
	folded     []string // caseless product names, parallel to products
	providers  map[catalog.ID]catalog.Provider
	images     *imageprovider.URLMap
	productErr error
	loadedAt   time.Time
}

// New returns an unloaded listing for categoryID.
func New(categoryID string, deps Deps) *Listing {
	deps = deps.withDefaults()
	return &Listing{
		categoryID: categoryID,
		deps:       deps,
		log:        deps.Log.With(logger.String("category_id", categoryID)),
		providers:  map[catalog.ID]catalog.Provider{},
		images:     imageprovider.NewURLMap(),
	}
}

// Load fetches products and providers concurrently and resolves product
// photos as soon as the products arrive. It runs once per listing; later calls wait for the first to finish
// and return immediately after. Failures are logged and leave the affected
// list empty. Load is not interrupted when ctx is canceled, so a visit
// abandoned mid-load still completes for the next request.
func (l *Listing) Load(ctx context.Context) {
	l.once.Do(func() {
		l.load(context.WithoutCancel(ctx))
	})
}

func (l *Listing) load(ctx context.Context) {
	start := time.Now()
	l.mu.Lock()
	l.loading = true
	l.mu.Unlock()

	var (
		g         errgroup.Group
		products  []catalog.Product
		providers []catalog.Provider
		provErr   error
	)

	g.Go(func() error {
		var err error
		products, err = l.deps.Products.ProductsByCategory(ctx, l.categoryID)
		if err != nil {
			l.log.Error("Failed to fetch products", logger.Error(err))
			products = nil
		}

		folded := make([]string, len(products))
		fold := cases.Fold()
		for i, p := range products {
			folded[i] = fold.String(p.Name)
		}

		// the loading window covers the product fetch only
		l.mu.Lock()
		l.products = products
		l.folded = folded
		l.productErr = err
		l.loading = false
		l.mu.Unlock()

		// photos depend on the products only, not on the providers fetch
		paths := make([]string, 0, len(products))
		for _, p := range products {
			if path := p.PhotoPath(); path != "" {
				paths = append(paths, path)
			}
		}
		imageprovider.ResolveAll(ctx, l.deps.Images, paths, l.images, l.deps.Concurrency, l.log)
		return nil
	})

	g.Go(func() error {
		providers, provErr = l.deps.Providers.Providers(ctx)
		if provErr != nil {
			l.log.Error("Failed to fetch providers", logger.Error(provErr))
			providers = nil
		}
		l.mu.Lock()
		l.providers = catalog.Lookup(providers)
		l.mu.Unlock()
		return nil
	})

	_ = g.Wait()

	l.mu.Lock()
	l.loadedAt = time.Now()
	productErr := l.productErr
	l.mu.Unlock()

	result := resultComplete
	if productErr != nil || provErr != nil {
		result = resultPartial
	}
	if l.deps.Metrics != nil {
		l.deps.Metrics.RecordListingLoad(result)
	}

	l.log.Info("Listing loaded",
		logger.Int("products", len(products)),
		logger.Int("providers", len(providers)),
		logger.Int("images", l.images.Len()),
		logger.String("result", result),
		logger.Duration("elapsed", time.Since(start)))
}

// Cards returns the products whose name contains search, ignoring case, in
// fetched order. The term is matched as given, spaces included; only the
// empty search returns every product. No I/O.
func (l *Listing) Cards(search string) []Card {
	needle := cases.Fold().String(search)

	l.mu.RLock()
	defer l.mu.RUnlock()

	cards := make([]Card, 0, len(l.products))
	for i, p := range l.products {
		if needle != "" && !strings.Contains(l.folded[i], needle) {
			continue
		}
		cards = append(cards, l.card(p))
	}
	return cards
}

// card joins a product with its provider and photo. Caller holds l.mu.
func (l *Listing) card(p catalog.Product) Card {
	provider, known := l.providers[p.ProviderID]
	linkProvider := catalog.ID("")
	if known {
		linkProvider = provider.ID
	}

	c := Card{
		Key:          p.ID.String(),
		ProductID:    p.ID,
		Name:         p.Name,
		ProviderID:   linkProvider,
		ProviderName: provider.Name,
		Slug:         catalog.Slug(p.Name),
		Link:         catalog.ProductLink(linkProvider, p.Name, p.ID),
	}
	if path := p.PhotoPath(); path != "" {
		c.ImageURL, _ = l.images.Get(path)
	}
	return c
}

// Loading reports whether the product fetch is in flight.
func (l *Listing) Loading() bool {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.loading
}

// Len returns the number of fetched products.
func (l *Listing) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.products)
}

// CategoryID returns the category this listing shows.
func (l *Listing) CategoryID() string {
	return l.categoryID
}

// Images exposes the listing's path to URL mapping.
func (l *Listing) Images() *imageprovider.URLMap {
	return l.images
}

// Err returns the product fetch error, if any.
func (l *Listing) Err() error {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.productErr
}

// LoadedAt returns when Load finished, or the zero time before that.
func (l *Listing) LoadedAt() time.Time {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.loadedAt
}
