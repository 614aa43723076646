package catalog

import (
	"net/url"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// UnknownProviderSegment fills the provider segment of a product link when
// the product's provider is not in the provider list.
const UnknownProviderSegment = "undefined"

// Slug turns a display name into a URL-safe path segment:
// "Sofá Retrátil 3 Lugares" becomes "sofa-retratil-3-lugares".
func Slug(name string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(t, name)
	if err != nil {
		folded = name
	}

	var b strings.Builder
	b.Grow(len(folded))
	pendingDash := false
	for _, r := range strings.ToLower(folded) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			if pendingDash && b.Len() > 0 {
				b.WriteByte('-')
			}
			pendingDash = false
			b.WriteRune(r)
			continue
		}
		pendingDash = true
	}
	return b.String()
}

// ProductLink builds the detail page link of a product:
// /fornecedor/{providerId}/{slug}?idProduct={id}.
func ProductLink(providerID ID, productName string, productID ID) string {
	segment := providerID.String()
	if providerID.IsZero() {
		segment = UnknownProviderSegment
	}
	q := url.Values{}
	q.Set("idProduct", productID.String())
	return "/fornecedor/" + url.PathEscape(segment) + "/" + Slug(productName) + "?" + q.Encode()
}

// ProviderLink builds the catalog page link of a provider:
// /empresa/{id}?empresa={slug}.
func ProviderLink(p Provider) string {
	q := url.Values{}
	q.Set("empresa", Slug(p.Name))
	return "/empresa/" + url.PathEscape(p.ID.String()) + "?" + q.Encode()
}
