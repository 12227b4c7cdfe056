package currency

import (
	_ "embed"
	"fmt"
	"math"
	"sync"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

//go:embed catalog.yaml
var defaultCatalogYAML []byte

var (
	defaultCatalog     *Catalog
	defaultCatalogOnce sync.Once
)

type catalogEntry struct {
	Info         `yaml:",inline"`
	FallbackRate float64 `yaml:"fallback_rate" validate:"gt=0"`
}

type catalogDocument struct {
	Base       string         `yaml:"base" validate:"required,len=3,alpha,uppercase"`
	Currencies []catalogEntry `yaml:"currencies" validate:"required,min=1,dive"`
}

// Catalog is the immutable table of supported currencies together with the
// approximate rates served when no live data is available.
type Catalog struct {
	base     string
	items    []Info
	index    map[string]int
	fallback map[string]float64
}

// DefaultCatalog returns the catalog embedded in the binary. It panics if the
// embedded document is invalid.
func DefaultCatalog() *Catalog {
	defaultCatalogOnce.Do(func() {
		c, err := ParseCatalog(defaultCatalogYAML)
		if err != nil {
			panic(fmt.Sprintf("currency: invalid embedded catalog: %v", err))
		}
		defaultCatalog = c
	})
	return defaultCatalog
}

// ParseCatalog decodes and validates a YAML catalog document.
func ParseCatalog(data []byte) (*Catalog, error) {
	var doc catalogDocument
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to decode catalog: %w", err)
	}

	if err := validator.New().Struct(doc); err != nil {
		return nil, fmt.Errorf("invalid catalog: %w", err)
	}

	c := &Catalog{
		base:     doc.Base,
		items:    make([]Info, 0, len(doc.Currencies)),
		index:    make(map[string]int, len(doc.Currencies)),
		fallback: make(map[string]float64, len(doc.Currencies)),
	}

	for _, entry := range doc.Currencies {
		if _, dup := c.index[entry.Code]; dup {
			return nil, fmt.Errorf("invalid catalog: duplicate currency %s", entry.Code)
		}
		if math.IsInf(entry.FallbackRate, 0) || math.IsNaN(entry.FallbackRate) {
			return nil, fmt.Errorf("invalid catalog: %s: %w", entry.Code, ErrInvalidRate)
		}
		c.index[entry.Code] = len(c.items)
		c.items = append(c.items, entry.Info)
		c.fallback[entry.Code] = entry.FallbackRate
	}

	if _, ok := c.index[c.base]; !ok {
		return nil, fmt.Errorf("invalid catalog: base currency %s is not listed", c.base)
	}
	c.fallback[c.base] = 1.0

	return c, nil
}

// Base returns the currency every stored rate is expressed against.
func (c *Catalog) Base() string {
	return c.base
}

// List returns the supported currencies in catalog order.
func (c *Catalog) List() []Info {
	out := make([]Info, len(c.items))
	copy(out, c.items)
	return out
}

// Lookup finds a currency by its exact code.
func (c *Catalog) Lookup(code string) (Info, bool) {
	i, ok := c.index[code]
	if !ok {
		return Info{}, false
	}
	return c.items[i], true
}

// Codes returns the supported currency codes in catalog order.
func (c *Catalog) Codes() []string {
	codes := make([]string, len(c.items))
	for i, item := range c.items {
		codes[i] = item.Code
	}
	return codes
}

// Len returns the number of supported currencies.
func (c *Catalog) Len() int {
	return len(c.items)
}

// FallbackRates returns a copy of the static approximate rate table.
func (c *Catalog) FallbackRates() map[string]float64 {
	out := make(map[string]float64, len(c.fallback))
	for code, rate := range c.fallback {
		out[code] = rate
	}
	return out
}
