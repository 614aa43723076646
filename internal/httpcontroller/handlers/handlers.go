// Package handlers contains the page, fragment and JSON handlers of the web
// server and the error handler that maps categorized errors to responses.
package handlers

import (
	"context"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/mrferreira/mrferreira-web/internal/catalog"
	"github.com/mrferreira/mrferreira-web/internal/content"
	"github.com/mrferreira/mrferreira-web/internal/errors"
	"github.com/mrferreira/mrferreira-web/internal/listing"
	"github.com/mrferreira/mrferreira-web/internal/logger"
)

// VisitHeader carries the listing visit id on fragment and API responses.
const VisitHeader = "X-Visit-ID"

// Handlers holds the shared state used by every route.
type Handlers struct {
	Visits  *listing.Visits
	Listing listing.Deps
	Site    *content.Site

	log logger.Logger
	now func() time.Time
}

// HandlerError carries the status and user-facing message of a failed request.
type HandlerError struct {
	Err     error
	Message string
	Code    int
}

func (e *HandlerError) Error() string {
	if e.Err == nil {
		return e.Message
	}
	return e.Message + ": " + e.Err.Error()
}

func (e *HandlerError) Unwrap() error { return e.Err }

// New creates the handlers. A nil log uses the global "http" module.
func New(visits *listing.Visits, deps listing.Deps, site *content.Site, log logger.Logger) *Handlers {
	if log == nil {
		log = logger.Global().Module("http")
	}
	if site == nil {
		site = &content.Site{}
		if def, err := content.Default(); err == nil {
			site = def
		}
	}
	return &Handlers{
		Visits:  visits,
		Listing: deps,
		Site:    site,
		log:     log,
		now:     time.Now,
	}
}

// NewHandlerError wraps err with an HTTP status and message.
func (h *Handlers) NewHandlerError(err error, message string, code int) *HandlerError {
	return &HandlerError{Err: err, Message: message, Code: code}
}

// StatusFor maps an error to the HTTP status it should produce.
func StatusFor(err error) int {
	var he *HandlerError
	if errors.As(err, &he) && he.Code != 0 {
		return he.Code
	}
	var echoErr *echo.HTTPError
	if errors.As(err, &echoErr) {
		return echoErr.Code
	}
	var ee *errors.EnhancedError
	if errors.As(err, &ee) {
		switch ee.Category {
		case errors.CategoryNotFound:
			return http.StatusNotFound
		case errors.CategoryValidation:
			return http.StatusBadRequest
		case errors.CategoryCatalogAPI, errors.CategoryNetwork:
			return http.StatusBadGateway
		case errors.CategoryTimeout:
			return http.StatusGatewayTimeout
		}
	}
	return http.StatusInternalServerError
}

// publicMessage returns the text shown to the client. Server errors never
// expose their cause.
func publicMessage(err error, code int) string {
	if code >= http.StatusInternalServerError {
		return http.StatusText(code)
	}
	var he *HandlerError
	if errors.As(err, &he) && he.Message != "" {
		return he.Message
	}
	var echoErr *echo.HTTPError
	if errors.As(err, &echoErr) {
		if msg, ok := echoErr.Message.(string); ok {
			return msg
		}
		return http.StatusText(code)
	}
	var ee *errors.EnhancedError
	if errors.As(err, &ee) {
		return ee.Error()
	}
	return http.StatusText(code)
}

// HandleError is the echo HTTP error handler. API routes get JSON, pages get
// the error template.
func (h *Handlers) HandleError(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	code := StatusFor(err)
	message := publicMessage(err, code)
	log := h.log.WithContext(c.Request().Context())

	if code >= http.StatusInternalServerError {
		log.Error("Request failed",
			logger.String("method", c.Request().Method),
			logger.String("path", c.Request().URL.Path),
			logger.Int("status", code),
			logger.Error(err))
	} else {
		log.Debug("Request rejected",
			logger.String("path", c.Request().URL.Path),
			logger.Int("status", code),
			logger.String("reason", message))
	}

	c.Response().Header().Set("Cache-Control", "no-store")

	var respErr error
	switch {
	case c.Request().Method == http.MethodHead:
		respErr = c.NoContent(code)
	case isAPIRequest(c):
		respErr = c.JSON(code, map[string]any{"error": message, "code": code})
	default:
		page := ErrorPage{Page: h.basePage(c.Request().Context(), http.StatusText(code)), Code: code, Message: message}
		if renderErr := c.Render(code, "error", page); renderErr != nil {
			respErr = c.String(code, message)
		}
	}
	if respErr != nil {
		log.Warn("Failed to write error response", logger.Error(respErr))
	}
}

func isAPIRequest(c echo.Context) bool {
	return strings.HasPrefix(c.Request().URL.Path, "/api/")
}

// categoryParam reads and validates the :categoryId path parameter.
func categoryParam(c echo.Context) (string, error) {
	raw := c.Param("categoryId")
	id, err := url.PathUnescape(raw)
	if err != nil {
		return "", errors.ValidationError("invalid category id")
	}
	id = strings.TrimSpace(id)
	switch id {
	case "", ".", "..":
		return "", errors.ValidationError("invalid category id")
	}
	return id, nil
}

// basePage fills the layout data shared by every page. Footer partners come
// from the shared provider store; a failed fetch leaves them out.
func (h *Handlers) basePage(ctx context.Context, title string) Page {
	p := Page{
		Title:     title,
		Site:      h.Site,
		Copyright: h.Site.CopyrightLine(h.now()),
	}
	var source catalog.ProviderSource = h.Listing.Providers
	if source == nil && h.Listing.Products != nil {
		source = h.Listing.Products
	}
	if source == nil {
		return p
	}
	providers, err := source.Providers(ctx)
	if err != nil {
		h.log.WithContext(ctx).Warn("Footer partners unavailable", logger.Error(err))
		return p
	}
	p.Partners = make([]listing.ProviderCard, 0, len(providers))
	for _, pr := range providers {
		p.Partners = append(p.Partners, listing.ProviderCard{
			ID:   pr.ID,
			Name: pr.Name,
			Slug: catalog.Slug(pr.Name),
			Link: catalog.ProviderLink(pr),
		})
	}
	return p
}
