package handlers

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/mrferreira/mrferreira-web/internal/listing"
)

// ProductsResponse is the JSON form of a listing visit.
type ProductsResponse struct {
	CategoryID string         `json:"category_id"`
	Visit      string         `json:"visit"`
	Search     string         `json:"search,omitempty"`
	Total      int            `json:"total"`
	Count      int            `json:"count"`
	// Products is empty, never null, when the fetch failed.
	Products []listing.Card `json:"products"`
}

// ProvidersResponse lists every provider with logo and link.
type ProvidersResponse struct {
	Count     int                    `json:"count"`
	Providers []listing.ProviderCard `json:"providers"`
}

// HealthResponse reports liveness.
type HealthResponse struct {
	Status    string    `json:"status"`
	Visits    int       `json:"visits"`
	Timestamp time.Time `json:"timestamp"`
}

// APIProducts returns the filtered cards of a listing visit as JSON.
func (h *Handlers) APIProducts(c echo.Context) error {
	categoryID, err := categoryParam(c)
	if err != nil {
		return err
	}
	search := c.QueryParam("search")

	visitID, l, _ := h.Visits.Open(c.Request().Context(), categoryID, c.QueryParam("visit"))
	cards := l.Cards(search)

	resp := ProductsResponse{
		CategoryID: categoryID,
		Visit:      visitID,
		Search:     search,
		Total:      l.Len(),
		Count:      len(cards),
		Products:   cards,
	}

	c.Response().Header().Set(VisitHeader, visitID)
	return c.JSON(http.StatusOK, resp)
}

// APIProviders returns every provider with its resolved logo.
func (h *Handlers) APIProviders(c echo.Context) error {
	providers := listing.ProvidersSection(c.Request().Context(), h.withLog(c))
	return c.JSON(http.StatusOK, ProvidersResponse{Count: len(providers), Providers: providers})
}

// Health reports that the server is up.
func (h *Handlers) Health(c echo.Context) error {
	visits := 0
	if h.Visits != nil {
		visits = h.Visits.Len()
	}
	return c.JSON(http.StatusOK, HealthResponse{
		Status:    "ok",
		Visits:    visits,
		Timestamp: h.now().UTC(),
	})
}
