package pagegen

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/eringen/pagegen/content"
	"github.com/eringen/pagegen/engine"
	"github.com/eringen/pagegen/views"
)

func (a *App) handleIndex(c echo.Context) error {
	pages, batchID := a.Cache.Pages()
	return Render(c, views.Index(a.Config.viewConfig(), pages, batchID))
}

func (a *App) handlePage(c echo.Context) error {
	p, err := a.Cache.Page(c.Param("slug"))
	if errors.Is(err, ErrNotFound) {
		return RenderStatus(c, http.StatusNotFound, views.NotFound(a.Config.viewConfig()))
	}
	if err != nil {
		return err
	}
	return Render(c, PageComponent(p, a.Config, a.ogImageURL()))
}

type renderResponse struct {
	Page       *content.Page      `json:"page"`
	Validation content.Validation `json:"validation"`
}

// handleAPIRender renders one template outside any batch. The subject
// defaults to the template's category; extra string variables may be passed
// as query parameters.
func (a *App) handleAPIRender(c echo.Context) error {
	gen := a.Generator()
	name := c.Param("name")
	subject := c.QueryParam("subject")
	if subject == "" {
		subject = gen.Category(name)
	}

	vars := gen.PageVars(subject, c.QueryParam("location"))
	for key, vals := range c.QueryParams() {
		if key == "subject" || key == "location" || len(vals) == 0 {
			continue
		}
		vars[key] = engine.String(vals[0])
	}

	p, err := gen.Render(name, vars)
	if errors.Is(err, content.ErrTemplateNotFound) {
		return c.JSON(http.StatusNotFound, map[string]string{"error": fmt.Sprintf("template %q not found", name)})
	}
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, renderResponse{Page: p, Validation: gen.Validate(p)})
}

type batchResponse struct {
	BatchID string           `json:"batchId"`
	Pages   []renderResponse `json:"pages"`
}

func (a *App) handleAPIBatch(c echo.Context) error {
	gen := a.Generator()
	pages, batchID := a.Cache.Pages()
	resp := batchResponse{BatchID: batchID, Pages: make([]renderResponse, 0, len(pages))}
	for _, p := range pages {
		resp.Pages = append(resp.Pages, renderResponse{Page: p, Validation: gen.Validate(p)})
	}
	return c.JSON(http.StatusOK, resp)
}

func (a *App) handleSitemap(c echo.Context) error {
	pages, _ := a.Cache.Pages()
	c.Response().Header().Set(echo.HeaderContentType, "application/xml; charset=utf-8")
	c.Response().WriteHeader(http.StatusOK)
	return writeSitemap(c.Response(), a.Config.URL, pages)
}

func (a *App) handleFeed(c echo.Context) error {
	pages, _ := a.Cache.Pages()
	c.Response().Header().Set(echo.HeaderContentType, "application/rss+xml; charset=utf-8")
	c.Response().WriteHeader(http.StatusOK)
	return writeRSS(c.Response(), a.Config, pages)
}

func (a *App) handleRobots(c echo.Context) error {
	var b strings.Builder
	b.WriteString("User-agent: *\nDisallow: /admin/\nDisallow: /api/\n")
	fmt.Fprintf(&b, "Sitemap: %s\n", siteFileURL(a.Config.URL, "sitemap.xml"))
	return c.String(http.StatusOK, b.String())
}

func (a *App) handleOGImage(c echo.Context) error {
	img, err := a.loadOGImage()
	if errors.Is(err, ErrNotFound) {
		return echo.ErrNotFound
	}
	if err != nil {
		return err
	}
	return c.Blob(http.StatusOK, "image/jpeg", img)
}

func (a *App) httpErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}
	var he *echo.HTTPError
	ok := errors.As(err, &he)
	if ok && he.Code == http.StatusNotFound && !strings.HasPrefix(c.Request().URL.Path, "/api/") {
		_ = RenderStatus(c, http.StatusNotFound, views.NotFound(a.Config.viewConfig()))
		return
	}
	code := http.StatusInternalServerError
	if ok {
		code = he.Code
	}
	if code >= 500 {
		a.logger.Error("server error", "path", c.Request().URL.Path, "error", err)
		_ = RenderStatus(c, code, views.ServerError(a.Config.viewConfig()))
		return
	}
	a.Echo.DefaultHTTPErrorHandler(err, c)
}
