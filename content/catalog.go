package content

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"os"
	"sync"

	"gopkg.in/yaml.v3"
)

// FAQ is a question/answer pair exposed to templates as a record.
type FAQ struct {
	Question string `yaml:"question"`
	Answer   string `yaml:"answer"`
}

// Subject is a service or condition the practice writes pages about.
type Subject struct {
	Slug        string   `yaml:"slug"`
	Name        string   `yaml:"name"`
	Description string   `yaml:"description"`
	Symptoms    []string `yaml:"symptoms"`
	Treatments  []string `yaml:"treatments"`
	FAQs        []FAQ    `yaml:"faqs"`
}

// Location is a city the practice targets with landing pages.
type Location struct {
	Slug          string   `yaml:"slug"`
	Name          string   `yaml:"name"`
	County        string   `yaml:"county"`
	Lat           float64  `yaml:"lat"`
	Lon           float64  `yaml:"lon"`
	Neighborhoods []string `yaml:"neighborhoods"`
}

// Catalog holds the descriptive tables page variables are drawn from.
type Catalog struct {
	Subjects  []Subject  `yaml:"subjects"`
	Locations []Location `yaml:"locations"`
}

// Subject returns the subject with the given slug.
func (c *Catalog) Subject(slug string) (Subject, bool) {
	for _, s := range c.Subjects {
		if s.Slug == slug {
			return s, true
		}
	}
	return Subject{}, false
}

// Location returns the location with the given slug.
func (c *Catalog) Location(slug string) (Location, bool) {
	for _, l := range c.Locations {
		if l.Slug == slug {
			return l, true
		}
	}
	return Location{}, false
}

// LocationSlugs returns location slugs in catalog order.
func (c *Catalog) LocationSlugs() []string {
	out := make([]string, 0, len(c.Locations))
	for _, l := range c.Locations {
		out = append(out, l.Slug)
	}
	return out
}

// DecodeCatalog reads a YAML catalog.
func DecodeCatalog(r io.Reader) (*Catalog, error) {
	var c Catalog
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&c); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("decode catalog: %w", err)
	}
	for i, s := range c.Subjects {
		if s.Slug == "" {
			return nil, fmt.Errorf("decode catalog: subject %d has no slug", i)
		}
	}
	for i, l := range c.Locations {
		if l.Slug == "" {
			return nil, fmt.Errorf("decode catalog: location %d has no slug", i)
		}
	}
	return &c, nil
}

// ReadCatalogFile decodes the YAML catalog at path.
func ReadCatalogFile(path string) (*Catalog, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return DecodeCatalog(f)
}

//go:embed catalog.yaml
var defaultCatalogYAML []byte

// DefaultCatalogYAML returns the built-in catalog document.
func DefaultCatalogYAML() []byte {
	return append([]byte(nil), defaultCatalogYAML...)
}

var defaultCatalog = sync.OnceValue(func() *Catalog {
	c, err := DecodeCatalog(bytes.NewReader(defaultCatalogYAML))
	if err != nil {
		panic(err)
	}
	return c
})

// DefaultCatalog returns the built-in catalog. The result is shared and must
// not be modified.
func DefaultCatalog() *Catalog {
	return defaultCatalog()
}
