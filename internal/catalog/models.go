// Package catalog talks to the remote catalog API: products by category and
// the list of providers (the partner companies behind each product line).
package catalog

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
)

// ID identifies a product, category or provider. The API sends numeric ids
// but older records carry strings, so both decode into the same canonical
// string form.
type ID string

// UnmarshalJSON accepts a JSON number, a JSON string or null.
func (id *ID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	switch {
	case bytes.Equal(data, []byte("null")):
		*id = ""
		return nil
	case len(data) > 0 && data[0] == '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*id = ID(s)
		return nil
	}

	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("invalid id %s: %w", data, err)
	}
	// 12.0 and 12 name the same record
	if f, err := n.Float64(); err == nil && f == float64(int64(f)) {
		*id = ID(strconv.FormatInt(int64(f), 10))
		return nil
	}
	*id = ID(n.String())
	return nil
}

// MarshalJSON writes integer ids as numbers and everything else as strings.
func (id ID) MarshalJSON() ([]byte, error) {
	if _, err := strconv.ParseInt(string(id), 10, 64); err == nil {
		return []byte(id), nil
	}
	return json.Marshal(string(id))
}

// String returns the canonical form.
func (id ID) String() string { return string(id) }

// IsZero reports whether the id is absent.
func (id ID) IsZero() bool { return id == "" }

// Product is one catalog entry as served by the API.
type Product struct {
	ID         ID      `json:"id"`
	Name       string  `json:"nome"`
	CategoryID ID      `json:"id_category"`
	ProviderID ID      `json:"id_provider"`
	Photo      *string `json:"foto"`
}

// PhotoPath returns the storage path of the product photo, or "" when the
// product has none.
func (p Product) PhotoPath() string {
	if p.Photo == nil {
		return ""
	}
	return *p.Photo
}

// Provider is a partner company.
type Provider struct {
	ID   ID     `json:"id"`
	Name string `json:"nome"`
	Logo string `json:"logo"`
}

// resultsEnvelope is the wrapper every list endpoint returns.
type resultsEnvelope[T any] struct {
	Results []T `json:"results"`
}
