package pagegen

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/eringen/pagegen/engine"
)

var testNow = time.Date(2026, time.October, 18, 9, 30, 0, 0, time.UTC)

var testTemplates = engine.MapSource{
	"keratoconus.html": "---\ntitle: \"{{subjectDisplay}} Care in {{locationDisplay}}\"\ncategory: keratoconus\n---\n<h1>{{title}}</h1>\n<ul>{{#each symptoms}}<li>{{this}}</li>{{/each}}</ul>\n{{>_cta}}",
	"dry-eye.md":       "---\ntitle: \"Dry Eye Relief near {{city}}\"\n---\n# {{title}}\n\n{{subjectDescription}}",
	"_cta.html":        `<a href="tel:{{phone}}">Call {{businessName}}</a>`,
}

func newTestApp(t *testing.T, src engine.Source) *App {
	t.Helper()
	a := New(SiteConfig{
		Name:          "Clear Sight Eye Care",
		URL:           "https://example.com",
		Phone:         "555-0100",
		AdminPassword: "correct horse",
		SessionSecret: "0123456789abcdef0123456789abcdef",
		BatchSize:     6,
	}, WithSource(src), WithLogger(testLogger()), WithClock(func() time.Time { return testNow }))
	if err := a.Setup(context.Background()); err != nil {
		t.Fatalf("Setup: %v", err)
	}
	t.Cleanup(func() { a.Close() })
	return a
}

func serve(a *App, req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	a.Handler().ServeHTTP(rec, req)
	return rec
}

func get(a *App, target string) *httptest.ResponseRecorder {
	return serve(a, httptest.NewRequest(http.MethodGet, target, nil))
}

func TestIndexListsBatch(t *testing.T) {
	a := newTestApp(t, testTemplates)
	rec := get(a, "/")
	if rec.Code != http.StatusOK {
		t.Fatalf("GET / = %d", rec.Code)
	}
	body := rec.Body.String()
	for _, want := range []string{
		`href="/pages/keratoconus-care-in-irvine/"`,
		`href="/pages/dry-eye-relief-near-irvine/"`,
		"6 pages",
	} {
		if !strings.Contains(body, want) {
			t.Errorf("index missing %q", want)
		}
	}
}

func TestPageHandler(t *testing.T) {
	a := newTestApp(t, testTemplates)

	rec := get(a, "/pages/keratoconus-care-in-irvine/")
	if rec.Code != http.StatusOK {
		t.Fatalf("GET page = %d", rec.Code)
	}
	body := rec.Body.String()
	for _, want := range []string{
		"<title>Keratoconus Care in Irvine</title>",
		`<link rel="canonical" href="https://example.com/keratoconus-care-in-irvine/">`,
		"<li>Blurred or distorted vision</li>",
		`<a href="tel:555-0100">Call Clear Sight Eye Care</a>`,
		`"@type":"MedicalWebPage"`,
	} {
		if !strings.Contains(body, want) {
			t.Errorf("page missing %q", want)
		}
	}

	prose := get(a, "/pages/dry-eye-relief-near-irvine/")
	if !strings.Contains(prose.Body.String(), "<h1>Dry Eye Relief near Irvine</h1>") {
		t.Errorf("prose page not converted to HTML:\n%s", prose.Body.String())
	}
}

func TestPageHandlerNotFound(t *testing.T) {
	a := newTestApp(t, testTemplates)
	rec := get(a, "/pages/no-such-page/")
	if rec.Code != http.StatusNotFound {
		t.Errorf("GET missing page = %d, want 404", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "Page not found") {
		t.Error("404 page not rendered")
	}
}

func TestTrailingSlashRedirect(t *testing.T) {
	a := newTestApp(t, testTemplates)
	rec := get(a, "/pages/keratoconus-care-in-irvine")
	if rec.Code != http.StatusMovedPermanently {
		t.Errorf("GET without slash = %d, want 301", rec.Code)
	}
}

func TestAPIRender(t *testing.T) {
	a := newTestApp(t, testTemplates)
	rec := get(a, "/api/render/keratoconus?location=tustin")
	if rec.Code != http.StatusOK {
		t.Fatalf("GET /api/render = %d: %s", rec.Code, rec.Body.String())
	}
	var resp struct {
		Page struct {
			Title string `json:"title"`
			Slug  string `json:"slug"`
			Meta  struct {
				URL      string `json:"url"`
				Location string `json:"location"`
			} `json:"meta"`
		} `json:"page"`
		Validation struct {
			Valid  bool     `json:"valid"`
			Errors []string `json:"errors"`
		} `json:"validation"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Page.Title != "Keratoconus Care in Tustin" || resp.Page.Slug != "keratoconus-care-in-tustin" {
		t.Errorf("page = %+v", resp.Page)
	}
	if resp.Page.Meta.Location != "tustin" {
		t.Errorf("location = %q", resp.Page.Meta.Location)
	}
	if resp.Validation.Errors == nil {
		t.Error("validation errors should be an empty list, not null")
	}
}

func TestAPIRenderUnknownTemplate(t *testing.T) {
	a := newTestApp(t, testTemplates)
	rec := get(a, "/api/render/missing")
	if rec.Code != http.StatusNotFound {
		t.Errorf("GET unknown template = %d, want 404", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `"error"`) {
		t.Errorf("body = %s", rec.Body.String())
	}
}

func TestAPIBatch(t *testing.T) {
	a := newTestApp(t, testTemplates)
	rec := get(a, "/api/batch")
	var resp struct {
		BatchID string            `json:"batchId"`
		Pages   []json.RawMessage `json:"pages"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.BatchID == "" || len(resp.Pages) != 6 {
		t.Errorf("batch = %s with %d pages", resp.BatchID, len(resp.Pages))
	}
}

func TestSitemapAndFeed(t *testing.T) {
	a := newTestApp(t, testTemplates)

	sitemap := get(a, "/sitemap.xml").Body.String()
	if !strings.Contains(sitemap, "<loc>https://example.com/keratoconus-care-in-irvine/</loc>") {
		t.Errorf("sitemap missing page:\n%s", sitemap)
	}
	if !strings.Contains(sitemap, "<lastmod>2026-10-18</lastmod>") {
		t.Error("sitemap missing lastmod")
	}

	feed := get(a, "/feed.xml").Body.String()
	if !strings.Contains(feed, "<title>Dry Eye Relief near Irvine</title>") {
		t.Errorf("feed missing item:\n%s", feed)
	}

	robots := get(a, "/robots.txt").Body.String()
	if !strings.Contains(robots, "Sitemap: https://example.com/sitemap.xml") {
		t.Errorf("robots = %q", robots)
	}
}

func TestOGImageNotConfigured(t *testing.T) {
	a := newTestApp(t, testTemplates)
	if rec := get(a, "/og-image.jpg"); rec.Code != http.StatusNotFound {
		t.Errorf("GET /og-image.jpg = %d, want 404", rec.Code)
	}
}

// adminClient carries cookies between requests the way a browser would.
type adminClient struct {
	t       *testing.T
	a       *App
	cookies map[string]*http.Cookie
	csrf    string
}

func newAdminClient(t *testing.T, a *App) *adminClient {
	c := &adminClient{t: t, a: a, cookies: map[string]*http.Cookie{}}
	rec := c.do(httptest.NewRequest(http.MethodGet, "/admin/", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("GET /admin/ = %d", rec.Code)
	}
	if c.csrf == "" {
		t.Fatal("no csrf cookie issued")
	}
	return c
}

func (c *adminClient) do(req *http.Request) *httptest.ResponseRecorder {
	for _, ck := range c.cookies {
		req.AddCookie(ck)
	}
	rec := serve(c.a, req)
	for _, ck := range rec.Result().Cookies() {
		c.cookies[ck.Name] = ck
		if ck.Name == "_csrf" {
			c.csrf = ck.Value
		}
	}
	return rec
}

func (c *adminClient) post(path string, form url.Values) *httptest.ResponseRecorder {
	if form == nil {
		form = url.Values{}
	}
	form.Set("_csrf", c.csrf)
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return c.do(req)
}

func TestAdminLoginAndRegenerate(t *testing.T) {
	a := newTestApp(t, testTemplates)
	c := newAdminClient(t, a)

	rec := c.post("/admin/login/", url.Values{"password": {"correct horse"}})
	if rec.Code != http.StatusSeeOther {
		t.Fatalf("login = %d: %s", rec.Code, rec.Body.String())
	}

	_, before := a.Cache.Pages()
	dash := c.do(httptest.NewRequest(http.MethodGet, "/admin/", nil))
	if !strings.Contains(dash.Body.String(), "Dashboard") {
		t.Fatalf("dashboard not shown after login:\n%s", dash.Body.String())
	}

	rec = c.post("/admin/regenerate/", nil)
	if rec.Code != http.StatusSeeOther {
		t.Fatalf("regenerate = %d", rec.Code)
	}
	if loc := rec.Header().Get("Location"); !strings.HasPrefix(loc, "/admin/?msg=") {
		t.Errorf("regenerate redirect = %q", loc)
	}
	_, after := a.Cache.Pages()
	if after == "" || after == before {
		t.Errorf("batch id after regenerate = %q, before %q", after, before)
	}
}

func TestAdminRequiresCSRF(t *testing.T) {
	a := newTestApp(t, testTemplates)
	form := url.Values{"password": {"correct horse"}}
	req := httptest.NewRequest(http.MethodPost, "/admin/login/", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	if rec := serve(a, req); rec.Code != http.StatusForbidden {
		t.Errorf("login without csrf = %d, want 403", rec.Code)
	}
}

func TestAdminRegenerateRequiresLogin(t *testing.T) {
	a := newTestApp(t, testTemplates)
	c := newAdminClient(t, a)
	_, before := a.Cache.Pages()
	rec := c.post("/admin/regenerate/", nil)
	if rec.Code != http.StatusSeeOther || rec.Header().Get("Location") != "/admin/" {
		t.Errorf("anonymous regenerate = %d to %q", rec.Code, rec.Header().Get("Location"))
	}
	if _, after := a.Cache.Pages(); after != before {
		t.Error("anonymous regenerate replaced the batch")
	}
}

func TestAdminLoginRateLimited(t *testing.T) {
	a := newTestApp(t, testTemplates)
	c := newAdminClient(t, a)
	for i := 0; i < 5; i++ {
		if rec := c.post("/admin/login/", url.Values{"password": {"wrong"}}); rec.Code != http.StatusUnauthorized {
			t.Fatalf("attempt %d = %d, want 401", i+1, rec.Code)
		}
	}
	if rec := c.post("/admin/login/", url.Values{"password": {"correct horse"}}); rec.Code != http.StatusTooManyRequests {
		t.Errorf("attempt after limit = %d, want 429", rec.Code)
	}
}

func TestAdminTemplateEditing(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	if err := store.Save(ctx, "myopia-control.html", []byte("<p>{{subjectDisplay}} for kids in {{city}}</p>"), testNow); err != nil {
		t.Fatal(err)
	}
	a := newTestApp(t, store)
	if a.Store == nil {
		t.Fatal("store source not exposed as App.Store")
	}

	c := newAdminClient(t, a)
	c.post("/admin/login/", url.Values{"password": {"correct horse"}})

	edit := c.do(httptest.NewRequest(http.MethodGet, "/admin/templates/myopia-control/", nil))
	if edit.Code != http.StatusOK || !strings.Contains(edit.Body.String(), "{{subjectDisplay}} for kids") {
		t.Fatalf("edit form = %d:\n%s", edit.Code, edit.Body.String())
	}

	rec := c.post("/admin/templates/", url.Values{
		"filename": {"scleral-lenses.html"},
		"content":  {"---\ntitle: Scleral Lenses in {{city}}\n---\n<p>fit</p>"},
	})
	if rec.Code != http.StatusSeeOther {
		t.Fatalf("save = %d", rec.Code)
	}
	if got := a.Generator().Engine().Pages(); len(got) != 2 {
		t.Errorf("engine pages after save = %v, want 2", got)
	}

	del := httptest.NewRequest(http.MethodDelete, "/admin/templates/scleral-lenses/", nil)
	del.Header.Set("X-CSRF-Token", c.csrf)
	if rec := c.do(del); rec.Code != http.StatusNoContent {
		t.Errorf("delete = %d", rec.Code)
	}
	if got := a.Generator().Engine().Pages(); len(got) != 1 {
		t.Errorf("engine pages after delete = %v, want 1", got)
	}
}
