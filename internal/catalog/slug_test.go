package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSlug(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in, want string
	}{
		{"Sofá Retrátil 3 Lugares", "sofa-retratil-3-lugares"},
		{"  Cadeira   Gamer!! ", "cadeira-gamer"},
		{"Mesa de Jantar - Açaí", "mesa-de-jantar-acai"},
		{"Poltrona/Puff", "poltrona-puff"},
		{"ÇÃO", "cao"},
		{"", ""},
		{"---", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Slug(tt.in), "Slug(%q)", tt.in)
	}
}

func TestProductLink(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "/fornecedor/3/sofa-retratil?idProduct=10",
		ProductLink("3", "Sofá Retrátil", "10"))
	assert.Equal(t, "/fornecedor/undefined/sofa-retratil?idProduct=10",
		ProductLink("", "Sofá Retrátil", "10"))
}

func TestProviderLink(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "/empresa/4?empresa=moveis-sao-jose",
		ProviderLink(Provider{ID: "4", Name: "Móveis São José"}))
}
