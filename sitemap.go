package pagegen

import (
	"encoding/xml"
	"io"

	"github.com/eringen/pagegen/content"
)

type sitemapURLSet struct {
	XMLName xml.Name     `xml:"urlset"`
	XMLNS   string       `xml:"xmlns,attr"`
	URLs    []sitemapURL `xml:"url"`
}

type sitemapURL struct {
	Loc     string `xml:"loc"`
	LastMod string `xml:"lastmod,omitempty"`
}

// writeSitemap encodes the site root plus every page of a batch.
func writeSitemap(w io.Writer, base string, pages []*content.Page) error {
	urls := []sitemapURL{
		{Loc: content.BuildURL(base)},
	}
	for _, p := range pages {
		u := sitemapURL{Loc: content.BuildURL(base, p.Slug)}
		if !p.Meta.GeneratedAt.IsZero() {
			u.LastMod = p.Meta.GeneratedAt.Format("2006-01-02")
		}
		urls = append(urls, u)
	}
	sitemap := sitemapURLSet{
		XMLNS: "http://www.sitemaps.org/schemas/sitemap/0.9",
		URLs:  urls,
	}
	if _, err := io.WriteString(w, xml.Header); err != nil {
		return err
	}
	enc := xml.NewEncoder(w)
	enc.Indent("", "  ")
	return enc.Encode(sitemap)
}
