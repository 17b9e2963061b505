package content

import (
	"net/url"
	"path"
	"strings"
	"time"

	"github.com/eringen/pagegen/engine"
)

// Page is one rendered unit: a template resolved against one variable table.
type Page struct {
	Template    string        `json:"template"`
	Kind        engine.Format `json:"kind"`
	Title       string        `json:"title"`
	Slug        string        `json:"slug"`
	Description string        `json:"description"`
	Body        string        `json:"body"`
	Keywords    []string      `json:"keywords"`
	Meta        PageMeta      `json:"meta"`
}

// PageMeta is bookkeeping attached to a rendered page.
type PageMeta struct {
	Subject     string              `json:"subject,omitempty"`
	Location    string              `json:"location,omitempty"`
	URL         string              `json:"url"`
	BatchID     string              `json:"batchId,omitempty"`
	GeneratedAt time.Time           `json:"generatedAt"`
	Diagnostics []engine.Diagnostic `json:"diagnostics,omitempty"`
}

// BuildURL joins a base URL with path segments, ensuring a trailing slash.
func BuildURL(base string, pathSegments ...string) string {
	u, err := url.Parse(base)
	if err != nil {
		return base
	}
	u.Path = path.Join(u.Path, path.Join(pathSegments...))
	if len(pathSegments) > 0 && !strings.HasSuffix(u.Path, "/") {
		u.Path += "/"
	}
	return u.String()
}

// FilterEmpty trims each value and drops the ones left empty.
func FilterEmpty(vals []string) []string {
	var out []string
	for _, v := range vals {
		if s := strings.TrimSpace(v); s != "" {
			out = append(out, s)
		}
	}
	return out
}
