package pagegen

import (
	"bytes"
	"context"
	"net/http"
	"strings"

	"github.com/a-h/templ"
	"github.com/labstack/echo/v4"

	"github.com/eringen/pagegen/content"
	"github.com/eringen/pagegen/engine"
	"github.com/eringen/pagegen/views"
)

// Render writes a templ component as an HTTP 200 HTML response.
func Render(c echo.Context, cmp templ.Component) error {
	return RenderStatus(c, http.StatusOK, cmp)
}

// RenderStatus writes a templ component with a specific HTTP status code.
func RenderStatus(c echo.Context, code int, cmp templ.Component) error {
	c.Response().Header().Set(echo.HeaderContentType, echo.MIMETextHTMLCharsetUTF8)
	c.Response().WriteHeader(code)
	return cmp.Render(c.Request().Context(), c.Response().Writer)
}

// PageComponent turns a rendered page into a complete HTML document. Markup
// templates that already contain an <html> element are served as they are;
// everything else is wrapped in the site layout, with prose converted from
// Markdown and plain text escaped.
func PageComponent(p *content.Page, cfg SiteConfig, image string) templ.Component {
	var body templ.Component
	switch p.Kind {
	case engine.FormatMarkup:
		if isDocument(p.Body) {
			return views.Raw(p.Body)
		}
		body = views.Raw(p.Body)
	case engine.FormatProse:
		body = views.Markdown(p.Body)
	default:
		body = views.Preformatted(p.Body)
	}
	return views.Layout(cfg.viewConfig(), pageMeta(p, cfg, image), body)
}

// PageHTML renders PageComponent into memory.
func PageHTML(ctx context.Context, p *content.Page, cfg SiteConfig, image string) ([]byte, error) {
	var buf bytes.Buffer
	if err := PageComponent(p, cfg, image).Render(ctx, &buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func isDocument(body string) bool {
	head := strings.ToLower(body)
	if len(head) > 512 {
		head = head[:512]
	}
	return strings.Contains(head, "<html")
}
