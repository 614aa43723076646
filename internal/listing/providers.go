package listing

import (
	"context"

	"github.com/mrferreira/mrferreira-web/internal/catalog"
	"github.com/mrferreira/mrferreira-web/internal/imageprovider"
	"github.com/mrferreira/mrferreira-web/internal/logger"
)

// ProviderCard is one partner in the providers carousel.
type ProviderCard struct {
	ID      catalog.ID `json:"id"`
	Name    string     `json:"nome"`
	Slug    string     `json:"slug"`
	Link    string     `json:"link"`
	LogoURL string     `json:"logo_url,omitempty"`
}

// ProvidersSection returns every provider with its logo resolved and its
// catalog link. A failed fetch is logged and yields no cards; a logo that
// does not resolve leaves LogoURL empty.
func ProvidersSection(ctx context.Context, deps Deps) []ProviderCard {
	deps = deps.withDefaults()
	log := deps.Log.Module("providers")

	providers, err := deps.Providers.Providers(ctx)
	if err != nil {
		log.Error("Failed to fetch providers", logger.Error(err))
		return []ProviderCard{}
	}

	logos := make([]string, 0, len(providers))
	for _, p := range providers {
		logos = append(logos, p.Logo)
	}
	urls := imageprovider.NewURLMap()
	imageprovider.ResolveAll(ctx, deps.Images, logos, urls, deps.Concurrency, log)

	cards := make([]ProviderCard, 0, len(providers))
	for _, p := range providers {
		logo, _ := urls.Get(p.Logo)
		cards = append(cards, ProviderCard{
			ID:      p.ID,
			Name:    p.Name,
			Slug:    catalog.Slug(p.Name),
			Link:    catalog.ProviderLink(p),
			LogoURL: logo,
		})
	}
	return cards
}
