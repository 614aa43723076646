// Package content holds the static copy of the site: company data, contact
// channels, social links and navigation. Defaults are embedded; an override
// file can replace any of them.
package content

import (
	_ "embed"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/mrferreira/mrferreira-web/internal/errors"
)

//go:embed content.yaml
var defaultContent []byte

// Company describes the business.
type Company struct {
	Name      string `yaml:"name"`
	ShortName string `yaml:"short_name"`
	Tagline   string `yaml:"tagline"`
	City      string `yaml:"city"`
	State     string `yaml:"state"`
}

// Contact lists the contact channels shown in the footer.
type Contact struct {
	Phone  string   `yaml:"phone"`
	Emails []string `yaml:"emails"`
}

// Link is a labeled navigation target.
type Link struct {
	Label string `yaml:"label"`
	Href  string `yaml:"href"`
}

// Social is a social network profile.
type Social struct {
	Name string `yaml:"name"`
	Icon string `yaml:"icon"`
	URL  string `yaml:"url"`
}

// Site is the whole static copy.
type Site struct {
	Company       Company  `yaml:"company"`
	Contact       Contact  `yaml:"contact"`
	Social        []Social `yaml:"social"`
	Navigation    []Link   `yaml:"navigation"`
	PartnersTitle string   `yaml:"partners_title"`
	ProviderCTA   string   `yaml:"provider_cta"`
	Copyright     string   `yaml:"copyright"`
}

// Default returns the embedded content.
func Default() (*Site, error) {
	return parse(defaultContent, "embedded content.yaml")
}

// Load returns the embedded content with overridePath merged on top. Fields
// absent from the override keep their defaults. An empty path loads the
// defaults only.
func Load(overridePath string) (*Site, error) {
	site, err := Default()
	if err != nil {
		return nil, err
	}
	if overridePath == "" {
		return site, nil
	}

	data, err := os.ReadFile(overridePath)
	if err != nil {
		return nil, errors.New(err).
			Component("content").
			Category(errors.CategoryConfiguration).
			Context("path", overridePath).
			Build()
	}
	if err := yaml.Unmarshal(data, site); err != nil {
		return nil, errors.New(err).
			Component("content").
			Category(errors.CategoryConfiguration).
			Context("path", overridePath).
			Build()
	}
	return site, site.validate()
}

func parse(data []byte, source string) (*Site, error) {
	var site Site
	if err := yaml.Unmarshal(data, &site); err != nil {
		return nil, errors.New(err).
			Component("content").
			Category(errors.CategoryConfiguration).
			Context("path", source).
			Build()
	}
	return &site, site.validate()
}

func (s *Site) validate() error {
	if strings.TrimSpace(s.Company.Name) == "" {
		return errors.ValidationError("content: company.name is required")
	}
	return nil
}

// CopyrightLine renders the copyright text for the given time.
func (s *Site) CopyrightLine(now time.Time) string {
	return strings.ReplaceAll(s.Copyright, "{year}", strconv.Itoa(now.Year()))
}

// Location returns "City, ST".
func (s *Site) Location() string {
	switch {
	case s.Company.City == "":
		return s.Company.State
	case s.Company.State == "":
		return s.Company.City
	}
	return s.Company.City + ", " + s.Company.State
}

// PhoneHref returns a tel: link for the contact phone.
func (s *Site) PhoneHref() string {
	var digits strings.Builder
	for _, r := range s.Contact.Phone {
		if r >= '0' && r <= '9' {
			digits.WriteRune(r)
		}
	}
	if digits.Len() == 0 {
		return ""
	}
	return "tel:+55" + digits.String()
}
