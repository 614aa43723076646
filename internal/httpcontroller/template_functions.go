package httpcontroller

import (
	"html/template"
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/mrferreira/mrferreira-web/internal/content"
)

// GetTemplateFunctions returns a map of functions that can be used in templates
func GetTemplateFunctions() template.FuncMap {
	return template.FuncMap{
		"categoryName": categoryName,
		"initial":      initial,
		"plural":       plural,
		"tel":          telHref,
		"mailto":       mailtoHref,
	}
}

// titleCase title-cases s using Brazilian Portuguese rules. A Caser is not
// safe for concurrent use, so each call gets its own.
func titleCase(s string) string {
	return cases.Title(language.BrazilianPortuguese).String(s)
}

// categoryName turns a category id such as "sofas-retrateis" into a heading.
func categoryName(id string) string {
	name := strings.Join(strings.FieldsFunc(id, func(r rune) bool {
		return r == '-' || r == '_' || unicode.IsSpace(r)
	}), " ")
	return titleCase(name)
}

// initial returns the upper-cased first letter of name, used when a
// provider has no logo.
func initial(name string) string {
	r, _ := utf8.DecodeRuneInString(strings.TrimSpace(name))
	if r == utf8.RuneError {
		return "?"
	}
	return strings.ToUpper(string(r))
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}

// telHref marks the site's tel: link as safe; html/template would otherwise
// rewrite the scheme.
func telHref(site *content.Site) template.URL {
	return template.URL(site.PhoneHref()) //nolint:gosec // digits only
}

func mailtoHref(addr string) template.URL {
	return template.URL("mailto:" + strings.TrimSpace(addr)) //nolint:gosec // configured site content
}
