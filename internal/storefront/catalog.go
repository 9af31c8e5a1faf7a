// Package storefront serves a small perfume shop with the same markup as the listing the
// suite was written against, so the page objects can run without the live site.
package storefront

import (
	"bytes"
	_ "embed"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed catalog.yaml
var defaultCatalog []byte

// Product is one tile of the listing
type Product struct {
	Name       string            `yaml:"name"`
	Price      string            `yaml:"price"`
	Attributes map[string]string `yaml:"attributes"`
}

// Catalog is the listing content: the facets shown above the grid and the products
type Catalog struct {
	Title    string    `yaml:"title"`
	Facets   []string  `yaml:"facets"`
	Products []Product `yaml:"products"`
}

// Selection maps a facet name to the values ticked in it
type Selection map[string][]string

// Option is a facet value together with how many products carry it
type Option struct {
	Value string
	Count int
}

// DefaultCatalog returns the embedded catalog
func DefaultCatalog() (*Catalog, error) {
	return ParseCatalog(bytes.NewReader(defaultCatalog))
}

// LoadCatalog reads a catalog file, or the embedded one when path is empty
func LoadCatalog(path string) (*Catalog, error) {
	if path == "" {
		return DefaultCatalog()
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open catalog: %w", err)
	}
	defer f.Close()
	return ParseCatalog(f)
}

// ParseCatalog decodes and validates a YAML catalog
func ParseCatalog(r io.Reader) (*Catalog, error) {
	var c Catalog
	if err := yaml.NewDecoder(r).Decode(&c); err != nil {
		return nil, fmt.Errorf("failed to decode catalog: %w", err)
	}
	if len(c.Facets) == 0 {
		return nil, fmt.Errorf("catalog has no facets")
	}
	for i, p := range c.Products {
		if p.Name == "" {
			return nil, fmt.Errorf("product %d has no name", i+1)
		}
		for _, facet := range c.Facets {
			if p.Attributes[facet] == "" {
				return nil, fmt.Errorf("product %q has no %s", p.Name, facet)
			}
		}
	}
	return &c, nil
}

// Filter returns the products matching sel: any ticked value within a facet, every facet
func (c *Catalog) Filter(sel Selection) []Product {
	var out []Product
	for _, p := range c.Products {
		if matches(p, sel) {
			out = append(out, p)
		}
	}
	return out
}

func matches(p Product, sel Selection) bool {
	for facet, values := range sel {
		if len(values) == 0 {
			continue
		}
		found := false
		for _, v := range values {
			if p.Attributes[facet] == v {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

// Options lists the values of facet in name order with their product counts
func (c *Catalog) Options(facet string) []Option {
	counts := map[string]int{}
	for _, p := range c.Products {
		if v := p.Attributes[facet]; v != "" {
			counts[v]++
		}
	}
	options := make([]Option, 0, len(counts))
	for v, n := range counts {
		options = append(options, Option{Value: v, Count: n})
	}
	sort.Slice(options, func(i, j int) bool { return options[i].Value < options[j].Value })
	return options
}

// ParseSelection reads the facet query parameters, comma separated as the filter panel writes them.
// Parameters that are not facets are ignored.
func (c *Catalog) ParseSelection(query map[string][]string) Selection {
	sel := Selection{}
	for _, facet := range c.Facets {
		for _, raw := range query[facet] {
			for _, v := range strings.Split(raw, ",") {
				if v = strings.TrimSpace(v); v != "" {
					sel[facet] = append(sel[facet], v)
				}
			}
		}
	}
	return sel
}

// Has reports whether value is ticked in facet
func (s Selection) Has(facet, value string) bool {
	for _, v := range s[facet] {
		if v == value {
			return true
		}
	}
	return false
}
