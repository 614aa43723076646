package httpcontroller

import (
	"bytes"
	"embed"
	"html/template"
	"io"

	"github.com/labstack/echo/v4"

	"github.com/mrferreira/mrferreira-web/internal/errors"
	"github.com/mrferreira/mrferreira-web/internal/logger"
	"github.com/mrferreira/mrferreira-web/internal/observability/metrics"
)

// ViewsFs holds the page templates and static assets.
//
//go:embed views
var ViewsFs embed.FS

// TemplateRenderer is the echo.Renderer for the embedded views.
type TemplateRenderer struct {
	templates *template.Template
	metrics   *metrics.HTTPMetrics
	log       logger.Logger
}

// Render executes the named template into a buffer first, so a failing
// template never leaves a half-written page.
func (t *TemplateRenderer) Render(w io.Writer, name string, data any, c echo.Context) error {
	var buf bytes.Buffer
	if err := t.templates.ExecuteTemplate(&buf, name, data); err != nil {
		if t.metrics != nil {
			t.metrics.RecordTemplateError(name)
		}
		t.log.WithContext(c.Request().Context()).Error("Template execution failed",
			logger.String("template", name),
			logger.Error(err))
		return errors.New(err).
			Component("httpcontroller").
			Category(errors.CategoryTemplate).
			Context("template", name).
			Build()
	}

	_, err := buf.WriteTo(w)
	return err
}

// parseTemplates parses every view with the template functions.
func parseTemplates() (*template.Template, error) {
	tmpl, err := template.New("").Funcs(GetTemplateFunctions()).ParseFS(ViewsFs, "views/*.html")
	if err != nil {
		return nil, errors.New(err).
			Component("httpcontroller").
			Category(errors.CategoryTemplate).
			Build()
	}
	return tmpl, nil
}

// setupTemplateRenderer configures the template renderer for the server
func (s *Server) setupTemplateRenderer() error {
	tmpl, err := parseTemplates()
	if err != nil {
		return err
	}

	r := &TemplateRenderer{templates: tmpl, log: s.log}
	if s.Metrics != nil {
		r.metrics = s.Metrics.HTTP
	}
	s.Echo.Renderer = r
	return nil
}
