package views

import (
	"bytes"
	"context"
	"fmt"

	"github.com/a-h/templ"

	"github.com/eringen/pagegen/content"
)

// Index lists the pages of the current preview batch.
func Index(cfg SiteConfig, pages []*content.Page, batchID string) templ.Component {
	body := component(func(_ context.Context, buf *bytes.Buffer) error {
		fmt.Fprintf(buf, "<h1>%s</h1>\n", templ.EscapeString(cfg.Name))
		if cfg.Description != "" {
			fmt.Fprintf(buf, "<p>%s</p>\n", templ.EscapeString(cfg.Description))
		}
		if len(pages) == 0 {
			buf.WriteString("<p>No pages generated.</p>\n")
			return nil
		}
		fmt.Fprintf(buf, "<p>Batch <code>%s</code> &middot; %d pages</p>\n<ul>\n", templ.EscapeString(batchID), len(pages))
		for _, p := range pages {
			fmt.Fprintf(buf, "<li><a href=\"/pages/%s/\">%s</a> <small>%s</small></li>\n",
				PathEscape(p.Slug), templ.EscapeString(p.Title), templ.EscapeString(p.Template))
		}
		buf.WriteString("</ul>\n")
		return nil
	})
	return Layout(cfg, PageMeta{Title: cfg.Name, Description: cfg.Description, URL: content.BuildURL(cfg.URL)}, body)
}

// NotFound is the 404 page.
func NotFound(cfg SiteConfig) templ.Component {
	return Layout(cfg, PageMeta{Title: "Page not found"}, Raw(`<h1>Page not found</h1><p><a href="/">Back to all pages</a></p>`))
}

// ServerError is the 500 page.
func ServerError(cfg SiteConfig) templ.Component {
	return Layout(cfg, PageMeta{Title: "Something went wrong"}, Raw(`<h1>Something went wrong</h1><p>Please try again in a moment.</p>`))
}
