package pagegen

import (
	"crypto/subtle"
	"errors"
	"net/http"
	"net/url"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/eringen/pagegen/views"
)

const maxTemplateSize = 1 << 20

func (a *App) handleAdmin(c echo.Context) error {
	if !IsAdmin(c) {
		return Render(c, views.AdminLogin(a.Config.viewConfig(), false, CsrfToken(c)))
	}
	return a.renderAdminDashboard(c, c.QueryParam("msg"))
}

func (a *App) handleAdminLogin(c echo.Context) error {
	ip := c.RealIP()
	if !a.loginLimiter.Check(ip) {
		return c.String(http.StatusTooManyRequests, "Too many login attempts. Try again later.")
	}
	pass := c.FormValue("password")
	if subtle.ConstantTimeCompare([]byte(pass), []byte(a.Config.AdminPassword)) == 1 {
		a.loginLimiter.Reset(ip)
		if err := setAdminSession(c); err != nil {
			return err
		}
		return c.Redirect(http.StatusSeeOther, "/admin/")
	}
	a.loginLimiter.Record(ip)
	a.logger.Warn("failed admin login", "ip", ip)
	return RenderStatus(c, http.StatusUnauthorized, views.AdminLogin(a.Config.viewConfig(), true, CsrfToken(c)))
}

func handleAdminLogout(c echo.Context) error {
	if err := clearAdminSession(c); err != nil {
		return err
	}
	return c.Redirect(http.StatusSeeOther, "/admin/")
}

// handleAdminRegenerate re-reads the template source and drops the cached
// batch, so the next view renders a fresh batch with a new slug registry.
func (a *App) handleAdminRegenerate(c echo.Context) error {
	if !IsAdmin(c) {
		return c.Redirect(http.StatusSeeOther, "/admin/")
	}
	if err := a.Reload(c.Request().Context()); err != nil {
		return err
	}
	return redirectWithMessage(c, "Batch regenerated.")
}

func (a *App) handleAdminTemplate(c echo.Context) error {
	if !IsAdmin(c) {
		return c.Redirect(http.StatusSeeOther, "/admin/")
	}
	if a.Store == nil {
		return echo.ErrNotFound
	}
	st, err := a.Store.Get(c.Request().Context(), c.Param("name"))
	if errors.Is(err, ErrNotFound) {
		return echo.ErrNotFound
	}
	if err != nil {
		return err
	}
	return Render(c, views.AdminTemplateForm(a.Config.viewConfig(), st.Filename, st.Content, CsrfToken(c)))
}

func (a *App) handleAdminTemplateSave(c echo.Context) error {
	if !IsAdmin(c) {
		return c.Redirect(http.StatusSeeOther, "/admin/")
	}
	if a.Store == nil {
		return c.String(http.StatusConflict, "Templates are read from a directory; configure a database to edit them here.")
	}
	filename := strings.TrimSpace(c.FormValue("filename"))
	body := c.FormValue("content")
	if filename == "" {
		return redirectWithMessage(c, "Filename is required.")
	}
	if len(body) > maxTemplateSize {
		return c.String(http.StatusRequestEntityTooLarge, "Template too large")
	}
	ctx := c.Request().Context()
	if err := a.Store.Save(ctx, filename, []byte(body), a.now()); err != nil {
		return redirectWithMessage(c, "Not saved: "+err.Error())
	}
	if err := a.Reload(ctx); err != nil {
		return err
	}
	return redirectWithMessage(c, "Saved "+filename+".")
}

func (a *App) handleAdminTemplateDelete(c echo.Context) error {
	if !IsAdmin(c) {
		return c.Redirect(http.StatusSeeOther, "/admin/")
	}
	if a.Store == nil {
		return echo.ErrNotFound
	}
	ctx := c.Request().Context()
	if err := a.Store.Delete(ctx, c.Param("name")); err != nil {
		if errors.Is(err, ErrNotFound) {
			return echo.ErrNotFound
		}
		return err
	}
	if err := a.Reload(ctx); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

func redirectWithMessage(c echo.Context, msg string) error {
	return c.Redirect(http.StatusSeeOther, "/admin/?msg="+url.QueryEscape(msg))
}

func (a *App) renderAdminDashboard(c echo.Context, msg string) error {
	gen := a.Generator()
	pages, batchID := a.Cache.Pages()
	rows := make([]views.PageRow, 0, len(pages))
	for _, p := range pages {
		v := gen.Validate(p)
		rows = append(rows, views.PageRow{Page: p, Valid: v.Valid, Errors: v.Errors})
	}

	var templates []views.TemplateRow
	if a.Store != nil {
		stored, err := a.Store.List(c.Request().Context())
		if err != nil {
			return err
		}
		for _, st := range stored {
			templates = append(templates, views.TemplateRow{
				Name:     st.Name,
				Filename: st.Filename,
				Updated:  st.UpdatedAt.Format("2006-01-02 15:04"),
			})
		}
	}
	return Render(c, views.AdminDashboard(a.Config.viewConfig(), batchID, rows, templates, a.Store != nil, msg, CsrfToken(c)))
}
