package engine

import (
	"strconv"
	"strings"
	"sync"
	"unicode"
)

// fallbackSlug is issued for titles with no usable characters.
const fallbackSlug = "page"

// Slugify converts a title to a lowercase, hyphen-delimited slug. Characters
// other than ASCII letters, digits, whitespace and hyphens are dropped; runs
// of whitespace and hyphens become a single hyphen.
func Slugify(s string) string {
	s = strings.ToLower(s)
	var b strings.Builder
	sep := false
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			if sep && b.Len() > 0 {
				b.WriteByte('-')
			}
			sep = false
			b.WriteRune(r)
		case r == '-' || unicode.IsSpace(r):
			sep = true
		}
	}
	return b.String()
}

// SlugRegistry hands out slugs that are unique among those it has issued.
// Use one registry per generation batch.
type SlugRegistry struct {
	mu    sync.Mutex
	taken map[string]struct{}
}

// NewSlugRegistry returns an empty registry.
func NewSlugRegistry() *SlugRegistry {
	return &SlugRegistry{taken: make(map[string]struct{})}
}

// Unique slugifies title and registers the result, appending -1, -2, ... on
// collision.
func (r *SlugRegistry) Unique(title string) string {
	base := Slugify(title)
	if base == "" {
		base = fallbackSlug
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	slug := base
	for n := 1; ; n++ {
		if _, ok := r.taken[slug]; !ok {
			break
		}
		slug = base + "-" + strconv.Itoa(n)
	}
	r.taken[slug] = struct{}{}
	return slug
}

// Len returns the number of slugs issued so far.
func (r *SlugRegistry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.taken)
}
