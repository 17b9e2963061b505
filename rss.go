package pagegen

import (
	"encoding/xml"
	"io"
	"time"

	"github.com/eringen/pagegen/content"
)

type rssXML struct {
	XMLName xml.Name   `xml:"rss"`
	Version string     `xml:"version,attr"`
	Channel rssChannel `xml:"channel"`
}

type rssChannel struct {
	Title       string    `xml:"title"`
	Link        string    `xml:"link"`
	Description string    `xml:"description"`
	Items       []rssItem `xml:"item"`
}

type rssItem struct {
	Title       string `xml:"title"`
	Link        string `xml:"link"`
	Description string `xml:"description"`
	PubDate     string `xml:"pubDate,omitempty"`
	GUID        string `xml:"guid"`
}

// writeRSS encodes a batch as an RSS 2.0 feed.
func writeRSS(w io.Writer, cfg SiteConfig, pages []*content.Page) error {
	items := make([]rssItem, 0, len(pages))
	for _, p := range pages {
		pageURL := content.BuildURL(cfg.URL, p.Slug)
		item := rssItem{
			Title:       p.Title,
			Link:        pageURL,
			Description: p.Description,
			GUID:        pageURL,
		}
		if !p.Meta.GeneratedAt.IsZero() {
			item.PubDate = p.Meta.GeneratedAt.Format(time.RFC1123Z)
		}
		items = append(items, item)
	}
	feed := rssXML{
		Version: "2.0",
		Channel: rssChannel{
			Title:       cfg.Name,
			Link:        content.BuildURL(cfg.URL),
			Description: cfg.Description,
			Items:       items,
		},
	}
	if _, err := io.WriteString(w, xml.Header); err != nil {
		return err
	}
	return xml.NewEncoder(w).Encode(feed)
}
