// Package site wires the catalog, image storage, content and metrics into
// the services shared by the web server and the CLI.
package site

import (
	"context"

	"github.com/mrferreira/mrferreira-web/internal/catalog"
	"github.com/mrferreira/mrferreira-web/internal/conf"
	"github.com/mrferreira/mrferreira-web/internal/content"
	"github.com/mrferreira/mrferreira-web/internal/errors"
	"github.com/mrferreira/mrferreira-web/internal/httpclient"
	"github.com/mrferreira/mrferreira-web/internal/imageprovider"
	"github.com/mrferreira/mrferreira-web/internal/listing"
	"github.com/mrferreira/mrferreira-web/internal/logger"
	"github.com/mrferreira/mrferreira-web/internal/observability"
)

// Services are the long-lived collaborators built from Settings.
type Services struct {
	Settings  *conf.Settings
	Metrics   *observability.Metrics
	HTTP      *httpclient.Client
	Catalog   *catalog.APIClient
	Providers *catalog.ProviderStore
	Images    *imageprovider.CachedResolver
	Content   *content.Site

	storage *imageprovider.FirebaseResolver
}

// NewServices builds every service. With storage disabled photos and logos
// never resolve and cards render without images.
func NewServices(ctx context.Context, settings *conf.Settings) (*Services, error) {
	logs := logger.Global()

	m, err := observability.NewMetrics()
	if err != nil {
		return nil, errors.New(err).
			Component("site").
			Category(errors.CategoryConfiguration).
			Context("operation", "create_metrics").
			Build()
	}

	siteContent, err := content.Load(settings.Content.File)
	if err != nil {
		return nil, err
	}

	hc := httpclient.New(&httpclient.Config{
		DefaultTimeout: settings.Catalog.Timeout,
		UserAgent:      userAgent(settings),
	})

	catalogLog := logs.Module("catalog")
	client, err := catalog.NewAPIClient(settings.Catalog.BaseURL, hc,
		catalog.WithMetrics(m.Catalog),
		catalog.WithLogger(catalogLog))
	if err != nil {
		hc.Close()
		return nil, err
	}

	s := &Services{
		Settings:  settings,
		Metrics:   m,
		HTTP:      hc,
		Catalog:   client,
		Providers: catalog.NewProviderStore(client, settings.Catalog.ProvidersTTL, catalogLog),
		Content:   siteContent,
	}

	imageLog := logs.Module("imageprovider")
	var inner imageprovider.Resolver = imageprovider.Disabled()
	if settings.Storage.Enabled {
		s.storage, err = imageprovider.NewFirebaseResolver(ctx, firebaseConfig(settings.Storage), imageLog)
		if err != nil {
			hc.Close()
			return nil, err
		}
		inner = s.storage
	} else {
		imageLog.Info("Image storage disabled, cards render without images")
	}

	s.Images = imageprovider.NewCachedResolver(inner, imageprovider.CacheConfig{
		TTL:           settings.Storage.CacheTTL,
		NegativeTTL:   settings.Storage.NegativeCacheTTL,
		RatePerSecond: settings.Storage.RateLimit,
		Burst:         settings.Storage.Burst,
	}, m.ImageProvider, imageLog)

	return s, nil
}

func firebaseConfig(st conf.StorageSettings) imageprovider.FirebaseConfig {
	return imageprovider.FirebaseConfig{
		Bucket:            st.Bucket,
		CredentialsFile:   st.CredentialsFile,
		Anonymous:         st.Anonymous,
		Endpoint:          st.Endpoint,
		SignedURLFallback: st.SignedURLFallback,
		SignedURLExpiry:   st.SignedURLExpiry,
		DownloadOrigin:    st.DownloadOrigin,
	}
}

func userAgent(settings *conf.Settings) string {
	ua := settings.Catalog.UserAgent
	if ua != "" && settings.Version != "" {
		ua += "/" + settings.Version
	}
	return ua
}

// ListingDeps returns the collaborators every listing shares.
func (s *Services) ListingDeps() listing.Deps {
	return listing.Deps{
		Products:    s.Catalog,
		Providers:   s.Providers,
		Images:      s.Images,
		Concurrency: s.Settings.Storage.Concurrency,
		Metrics:     s.Metrics.Catalog,
		Log:         logger.Global().Module("listing"),
	}
}

// Close releases the storage client and idle connections.
func (s *Services) Close() error {
	s.HTTP.Close()
	if s.storage != nil {
		return s.storage.Close()
	}
	return nil
}
