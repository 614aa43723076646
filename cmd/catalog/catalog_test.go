package catalog

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrferreira/mrferreira-web/internal/listing"
)

func TestPrintProducts(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	err := printProducts(&buf, []listing.Card{
		{Key: "1", ProductID: "1", Name: "Sofá Milano", ProviderName: "Jaú Estofados", Link: "/produtos/jau-estofados/sofa-milano", ImageURL: "https://img.test/milano.jpg"},
		{Key: "2", ProductID: "2", Name: "Poltrona", ProviderName: "Jaú Estofados", Link: "/produtos/jau-estofados/poltrona"},
	})
	require.NoError(t, err)

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	require.Len(t, lines, 4)
	assert.True(t, strings.HasPrefix(lines[0], "NAME"))
	assert.Contains(t, lines[1], "https://img.test/milano.jpg")
	assert.True(t, strings.HasSuffix(lines[2], "-"), "missing image prints a dash")
	assert.Equal(t, "2 products", lines[3])
}

func TestPrintProviders(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	require.NoError(t, printProviders(&buf, []listing.ProviderCard{
		{ID: "7", Name: "Jaú Estofados", Link: "/empresas/jau-estofados", LogoURL: "https://img.test/jau.png"},
	}))

	out := buf.String()
	assert.Contains(t, out, "ID")
	assert.Contains(t, out, "Jaú Estofados")
	assert.Contains(t, out, "https://img.test/jau.png")
}

func TestCommandTree(t *testing.T) {
	t.Parallel()

	cmd := Command(nil)
	names := make([]string, 0, 2)
	for _, sub := range cmd.Commands() {
		names = append(names, sub.Name())
	}
	assert.ElementsMatch(t, []string{"products", "providers"}, names)

	products, _, err := cmd.Find([]string{"products"})
	require.NoError(t, err)
	assert.NotNil(t, products.Flags().Lookup("search"))
}
