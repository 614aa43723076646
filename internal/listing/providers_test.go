package listing

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProvidersSection(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	f.respond("/providers", http.StatusOK, providersJSON)

	cards := ProvidersSection(t.Context(), f.deps)
	require.Len(t, cards, 2)

	assert.Equal(t, "Móveis Jaú", cards[0].Name)
	assert.Equal(t, "/empresa/10?empresa=moveis-jau", cards[0].Link)
	assert.Equal(t, "https://cdn.test/jau.png", cards[0].LogoURL)

	assert.Equal(t, "/empresa/11?empresa=estofados-bauru", cards[1].Link)
	assert.Empty(t, cards[1].LogoURL, "unresolved logo")
}

func TestProvidersSectionFailure(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	f.respond("/providers", http.StatusServiceUnavailable, `down`)

	cards := ProvidersSection(t.Context(), f.deps)
	assert.NotNil(t, cards)
	assert.Empty(t, cards)
	assert.Zero(t, f.resolver.calls.Load())
}
