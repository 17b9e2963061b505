package views

import "github.com/eringen/pagegen/content"

// SiteConfig holds the practice details every layout needs.
type SiteConfig struct {
	Name        string
	URL         string
	Description string
	Phone       string
	Address     string
}

// PageMeta carries per-page OpenGraph and SEO metadata into the <head>.
type PageMeta struct {
	Title       string
	Description string
	URL         string // canonical + og:url
	OGType      string // "website" or "article"
	Keywords    []string
	Image       string // og:image, optional
	JSONLD      string // pre-encoded structured data, optional
}

// PageRow is one line of the admin batch table.
type PageRow struct {
	Page   *content.Page
	Valid  bool
	Errors []string
}

// TemplateRow is one stored template listed in the admin.
type TemplateRow struct {
	Name     string
	Filename string
	Updated  string
}
