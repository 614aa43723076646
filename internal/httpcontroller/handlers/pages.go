package handlers

import (
	"net/http"
	"net/url"

	"github.com/labstack/echo/v4"

	"github.com/mrferreira/mrferreira-web/internal/content"
	"github.com/mrferreira/mrferreira-web/internal/listing"
	"github.com/mrferreira/mrferreira-web/internal/logger"
)

// Page is the layout data shared by every full page.
type Page struct {
	Title     string
	Site      *content.Site
	Copyright string
	// Partners are listed in the footer.
	Partners []listing.ProviderCard
}

// HomePage renders the providers carousel.
type HomePage struct {
	Page
	Providers []listing.ProviderCard
}

// CategoryPage is the shell of a category listing. Products are loaded by
// the fragment request it triggers.
type CategoryPage struct {
	Page
	CategoryID string
	Search     string
	// ProductsPath is the escaped fragment URL the shell loads cards from.
	ProductsPath string
}

// ProductsFragment is the card list of one listing visit. A failed product
// fetch renders like a search with no results.
type ProductsFragment struct {
	CategoryID string
	VisitID    string
	Search     string
	Cards      []listing.Card
	// Total is the unfiltered product count.
	Total int
}

// ErrorPage is rendered for failed page requests.
type ErrorPage struct {
	Page
	Code    int
	Message string
}

// Home renders the landing page with every provider.
func (h *Handlers) Home(c echo.Context) error {
	ctx := c.Request().Context()
	providers := listing.ProvidersSection(ctx, h.withLog(c))

	page := Page{
		Title:     h.Site.Company.Name,
		Site:      h.Site,
		Copyright: h.Site.CopyrightLine(h.now()),
		Partners:  providers,
	}
	return c.Render(http.StatusOK, "home", HomePage{Page: page, Providers: providers})
}

// Providers renders every partner company on its own page.
func (h *Handlers) Providers(c echo.Context) error {
	providers := listing.ProvidersSection(c.Request().Context(), h.withLog(c))

	page := Page{
		Title:     h.Site.PartnersTitle,
		Site:      h.Site,
		Copyright: h.Site.CopyrightLine(h.now()),
		Partners:  providers,
	}
	return c.Render(http.StatusOK, "providers", HomePage{Page: page, Providers: providers})
}

// Category renders the listing shell: search box, loading indicator and the
// container the cards fragment is swapped into.
func (h *Handlers) Category(c echo.Context) error {
	categoryID, err := categoryParam(c)
	if err != nil {
		return err
	}
	page := CategoryPage{
		Page:         h.basePage(c.Request().Context(), categoryID),
		CategoryID:   categoryID,
		Search:       c.QueryParam("search"),
		ProductsPath: "/categoria/" + url.PathEscape(categoryID) + "/produtos",
	}
	return c.Render(http.StatusOK, "category", page)
}

// Products renders the cards of a listing visit. The first request of a
// visit loads the listing; later requests carrying the visit id only filter.
func (h *Handlers) Products(c echo.Context) error {
	categoryID, err := categoryParam(c)
	if err != nil {
		return err
	}
	search := c.QueryParam("search")

	visitID, l, created := h.Visits.Open(c.Request().Context(), categoryID, c.QueryParam("visit"))
	if created {
		h.log.WithContext(c.Request().Context()).Debug("Listing loaded for visit",
			logger.String("visit", visitID),
			logger.String("category_id", categoryID),
			logger.Int("products", l.Len()))
	}

	c.Response().Header().Set(VisitHeader, visitID)
	return c.Render(http.StatusOK, "products", ProductsFragment{
		CategoryID: categoryID,
		VisitID:    visitID,
		Search:     search,
		Cards:      l.Cards(search),
		Total:      l.Len(),
	})
}

// withLog returns the listing deps logging with the request's trace id.
func (h *Handlers) withLog(c echo.Context) listing.Deps {
	deps := h.Listing
	if deps.Log != nil {
		deps.Log = deps.Log.WithContext(c.Request().Context())
	}
	return deps
}
