package httpcontroller

import (
	"html/template"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrferreira/mrferreira-web/internal/content"
)

func TestCategoryName(t *testing.T) {
	t.Parallel()

	tests := map[string]string{
		"sofas":           "Sofas",
		"sofas-retrateis": "Sofas Retrateis",
		"mesas_de_jantar": "Mesas De Jantar",
		"poltronas--":     "Poltronas",
		"12":              "12",
	}
	for in, want := range tests {
		assert.Equal(t, want, categoryName(in), in)
	}
}

func TestInitial(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "É", initial("  érica móveis"))
	assert.Equal(t, "M", initial("Móveis Jaú"))
	assert.Equal(t, "?", initial(""))
}

func TestPlural(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "produto", plural(1, "produto", "produtos"))
	assert.Equal(t, "produtos", plural(0, "produto", "produtos"))
	assert.Equal(t, "produtos", plural(7, "produto", "produtos"))
}

func TestContactLinks(t *testing.T) {
	t.Parallel()

	site, err := content.Default()
	require.NoError(t, err)

	assert.Equal(t, template.URL("tel:+5514997831356"), telHref(site))
	assert.Equal(t, template.URL("mailto:a@b.com"), mailtoHref(" a@b.com "))
}

func TestTemplatesParse(t *testing.T) {
	t.Parallel()

	tmpl, err := parseTemplates()
	require.NoError(t, err)
	for _, name := range []string{"head", "footer", "home", "providers", "provider-grid", "category", "products", "error"} {
		assert.NotNil(t, tmpl.Lookup(name), name)
	}
}
