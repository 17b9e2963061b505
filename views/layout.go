package views

import (
	"bytes"
	"context"
	"fmt"

	"github.com/a-h/templ"
)

const stylesheet = `body{font-family:system-ui,sans-serif;max-width:46rem;margin:0 auto;padding:1.5rem;color:#1c1917;line-height:1.6}
a{color:#0f766e}header,footer{font-size:.9rem;color:#57534e}table{border-collapse:collapse;width:100%}
td,th{border-bottom:1px solid #e7e5e4;padding:.35rem;text-align:left;vertical-align:top}
.bad{color:#b91c1c}.ok{color:#15803d}pre.plain{white-space:pre-wrap}`

// Layout wraps body in a full HTML document with SEO metadata.
func Layout(cfg SiteConfig, meta PageMeta, body templ.Component) templ.Component {
	return component(func(ctx context.Context, buf *bytes.Buffer) error {
		title := meta.Title
		if title == "" {
			title = cfg.Name
		}
		ogType := meta.OGType
		if ogType == "" {
			ogType = "website"
		}

		buf.WriteString("<!DOCTYPE html>\n<html lang=\"en\">\n<head>\n<meta charset=\"utf-8\">\n")
		buf.WriteString(`<meta name="viewport" content="width=device-width, initial-scale=1">` + "\n")
		fmt.Fprintf(buf, "<title>%s</title>\n", templ.EscapeString(title))
		if meta.Description != "" {
			fmt.Fprintf(buf, "<meta name=\"description\" content=\"%s\">\n", templ.EscapeString(meta.Description))
		}
		if len(meta.Keywords) > 0 {
			fmt.Fprintf(buf, "<meta name=\"keywords\" content=\"%s\">\n", templ.EscapeString(JoinKeywords(meta.Keywords)))
		}
		if meta.URL != "" {
			fmt.Fprintf(buf, "<link rel=\"canonical\" href=\"%s\">\n", templ.EscapeString(meta.URL))
			fmt.Fprintf(buf, "<meta property=\"og:url\" content=\"%s\">\n", templ.EscapeString(meta.URL))
		}
		fmt.Fprintf(buf, "<meta property=\"og:type\" content=\"%s\">\n", templ.EscapeString(ogType))
		fmt.Fprintf(buf, "<meta property=\"og:title\" content=\"%s\">\n", templ.EscapeString(title))
		fmt.Fprintf(buf, "<meta property=\"og:site_name\" content=\"%s\">\n", templ.EscapeString(cfg.Name))
		if meta.Description != "" {
			fmt.Fprintf(buf, "<meta property=\"og:description\" content=\"%s\">\n", templ.EscapeString(meta.Description))
		}
		if meta.Image != "" {
			fmt.Fprintf(buf, "<meta property=\"og:image\" content=\"%s\">\n", templ.EscapeString(meta.Image))
		}
		if meta.JSONLD != "" {
			fmt.Fprintf(buf, "<script type=\"application/ld+json\">%s</script>\n", meta.JSONLD)
		}
		fmt.Fprintf(buf, "<style>%s</style>\n</head>\n<body>\n", stylesheet)

		fmt.Fprintf(buf, "<header><a href=\"/\">%s</a>", templ.EscapeString(cfg.Name))
		if cfg.Phone != "" {
			fmt.Fprintf(buf, " &middot; <a href=\"tel:%s\">%s</a>", templ.EscapeString(cfg.Phone), templ.EscapeString(cfg.Phone))
		}
		buf.WriteString("</header>\n<main>\n")
		if body != nil {
			if err := body.Render(ctx, buf); err != nil {
				return err
			}
		}
		buf.WriteString("\n</main>\n<footer>")
		buf.WriteString(templ.EscapeString(cfg.Name))
		if cfg.Address != "" {
			buf.WriteString(" &middot; " + templ.EscapeString(cfg.Address))
		}
		buf.WriteString("</footer>\n</body>\n</html>\n")
		return nil
	})
}
