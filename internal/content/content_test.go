package content

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrferreira/mrferreira-web/internal/errors"
)

func TestDefault(t *testing.T) {
	t.Parallel()

	site, err := Default()
	require.NoError(t, err)

	assert.Equal(t, "MR Ferreira Representações", site.Company.Name)
	assert.Equal(t, "(14) 99783-1356", site.Contact.Phone)
	assert.Equal(t, "tel:+5514997831356", site.PhoneHref())
	assert.Len(t, site.Contact.Emails, 2)
	assert.Equal(t, "Jaú, SP", site.Location())
	require.Len(t, site.Social, 3)
	assert.Equal(t, "https://www.instagram.com/mr_representacoesjau/", site.Social[1].URL)
	require.Len(t, site.Navigation, 5)
	assert.Equal(t, Link{Label: "Produtos", Href: "/produtos"}, site.Navigation[1])
	assert.Equal(t, "Ver catálogo", site.ProviderCTA)
}

func TestCopyrightLine(t *testing.T) {
	t.Parallel()

	site, err := Default()
	require.NoError(t, err)
	assert.Equal(t,
		"2026 © MR Ferreira Representações. Todos os direitos reservados.",
		site.CopyrightLine(time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)))
}

func TestLoadOverride(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "content.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
contact:
  phone: "(14) 3622-0000"
  emails: [vendas@example.com]
`), 0o600))

	site, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "(14) 3622-0000", site.Contact.Phone)
	assert.Equal(t, []string{"vendas@example.com"}, site.Contact.Emails)
	assert.Equal(t, "MR Ferreira Representações", site.Company.Name, "untouched defaults survive")
	assert.Len(t, site.Navigation, 5)
}

func TestLoadErrors(t *testing.T) {
	t.Parallel()

	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
	assert.True(t, errors.IsCategory(err, errors.CategoryConfiguration))

	bad := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(bad, []byte("company: [unterminated"), 0o600))
	_, err = Load(bad)
	require.Error(t, err)

	blank := filepath.Join(t.TempDir(), "blank.yaml")
	require.NoError(t, os.WriteFile(blank, []byte("company:\n  name: \"\"\n"), 0o600))
	_, err = Load(blank)
	require.Error(t, err)
	assert.True(t, errors.IsCategory(err, errors.CategoryValidation))
}
