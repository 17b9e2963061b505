package content

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/eringen/pagegen/engine"
)

// ErrTemplateNotFound is returned by Render for a name the engine does not
// know. The default template only stands in for an empty source, never for a
// missing name.
var ErrTemplateNotFound = errors.New("content: template not found")

// Generator assembles pages from an engine, the business defaults and the
// catalog. It is safe for concurrent use.
type Generator struct {
	engine   *engine.Engine
	logger   *slog.Logger
	business Business
	catalog  *Catalog
	rules    Rules
	now      func() time.Time
	defaults engine.Vars
}

// Option configures a Generator.
type Option func(*Generator)

// WithCatalog replaces the built-in catalog.
func WithCatalog(c *Catalog) Option {
	return func(g *Generator) {
		if c != nil {
			g.catalog = c
		}
	}
}

// WithRules sets the validation thresholds.
func WithRules(r Rules) Option {
	return func(g *Generator) { g.rules = r }
}

// WithClock sets the time source used for date variables and timestamps.
func WithClock(now func() time.Time) Option {
	return func(g *Generator) {
		if now != nil {
			g.now = now
		}
	}
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(g *Generator) {
		if l != nil {
			g.logger = l
		}
	}
}

// NewGenerator builds a Generator. The default variable table is computed
// once here and cloned into every render.
func NewGenerator(eng *engine.Engine, b Business, opts ...Option) *Generator {
	g := &Generator{
		engine:   eng,
		logger:   slog.Default(),
		business: b,
		catalog:  DefaultCatalog(),
		rules:    DefaultRules(),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(g)
	}
	g.defaults = Defaults(b, g.now())
	return g
}

// Engine returns the underlying template engine.
func (g *Generator) Engine() *engine.Engine { return g.engine }

// Catalog returns the catalog page variables are drawn from.
func (g *Generator) Catalog() *Catalog { return g.catalog }

// Rules returns the configured validation thresholds.
func (g *Generator) Rules() Rules { return g.rules }

// Defaults returns a copy of the default variable table.
func (g *Generator) Defaults() engine.Vars { return g.defaults.Merge(nil) }

// PageVars builds the page-specific table for subject and location.
func (g *Generator) PageVars(subject, location string) engine.Vars {
	return PageVars(g.catalog, g.business, subject, location)
}

// Validate checks p against the generator's rules.
func (g *Generator) Validate(p *Page) Validation {
	return Validate(p, g.rules)
}

// Render resolves template name against the defaults overlaid with vars.
// The slug is unique only within this call; use a Batch to share a slug
// namespace across pages.
func (g *Generator) Render(name string, vars engine.Vars) (*Page, error) {
	return g.render(engine.NewSlugRegistry(), "", name, vars)
}

// Category returns the subject a template is written about: its front
// matter category, or the template name when none is declared.
func (g *Generator) Category(name string) string {
	if t, ok := g.engine.Template(name); ok && t.Meta.Category != "" {
		return t.Meta.Category
	}
	return name
}

func (g *Generator) render(slugs *engine.SlugRegistry, batchID, name string, vars engine.Vars) (*Page, error) {
	t, ok := g.engine.Template(name)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrTemplateNotFound, name)
	}
	merged := g.defaults.Merge(vars)
	meta := metaPatterns(t.Meta, vars)

	var diags []engine.Diagnostic
	resolve := func(pattern string) string {
		out := g.engine.RenderString(pattern, merged)
		diags = append(diags, out.Diagnostics...)
		return strings.Join(strings.Fields(out.Text), " ")
	}

	p := &Page{
		Template:    name,
		Kind:        t.Kind,
		Title:       resolve(meta.Title),
		Description: resolve(meta.Description),
	}
	for _, k := range meta.Keywords {
		p.Keywords = append(p.Keywords, resolve(k))
	}
	p.Keywords = FilterEmpty(p.Keywords)
	if p.Keywords == nil {
		p.Keywords = []string{}
	}
	p.Slug = slugs.Unique(p.Title)

	baseURL := merged["baseUrl"].Text()
	canonical := BuildURL(baseURL, p.Slug)
	if baseURL == "" {
		canonical = "/" + p.Slug + "/"
	}

	body, _ := g.engine.Render(name, merged.Merge(engine.Vars{
		"title":        engine.String(p.Title),
		"description":  engine.String(p.Description),
		"keywords":     engine.List(p.Keywords...),
		"slug":         engine.String(p.Slug),
		"canonicalUrl": engine.String(canonical),
	}))
	p.Body = body.Text
	diags = append(diags, body.Diagnostics...)

	p.Meta = PageMeta{
		Subject:     merged["subject"].Text(),
		Location:    merged["location"].Text(),
		URL:         canonical,
		BatchID:     batchID,
		GeneratedAt: g.now(),
		Diagnostics: diags,
	}
	return p, nil
}

// metaPatterns picks the title, description and keyword patterns for a
// render: caller variables win over front matter, front matter over the
// built-in patterns.
func metaPatterns(m engine.Meta, vars engine.Vars) engine.Meta {
	out := engine.DefaultMeta()
	if m.Title != "" {
		out.Title = m.Title
	}
	if m.Description != "" {
		out.Description = m.Description
	}
	if len(m.Keywords) > 0 {
		out.Keywords = m.Keywords
	}
	if v, ok := vars["title"]; ok && v.Text() != "" {
		out.Title = v.Text()
	}
	if v, ok := vars["description"]; ok && v.Text() != "" {
		out.Description = v.Text()
	}
	if v, ok := vars["keywords"]; ok && v.Truthy() {
		if items := v.Items(); items != nil {
			out.Keywords = items
		} else {
			out.Keywords = strings.Split(v.Text(), ",")
		}
	}
	return out
}

// Batch is one generation run. Every batch owns its slug registry, so slugs
// are unique within a batch and batches never affect one another.
type Batch struct {
	ID    string
	gen   *Generator
	slugs *engine.SlugRegistry
}

// NewBatch starts a batch with an empty slug registry.
func (g *Generator) NewBatch() *Batch {
	return &Batch{ID: uuid.NewString(), gen: g, slugs: engine.NewSlugRegistry()}
}

// Render is Generator.Render sharing the batch's slug registry.
func (b *Batch) Render(name string, vars engine.Vars) (*Page, error) {
	return b.gen.render(b.slugs, b.ID, name, vars)
}

// Generate renders count pages. The i-th page uses template
// pool[i%len(pool)] and location locations[(i/len(pool))%len(locations)],
// where pool is the sorted list of non-partial templates, so every template
// is paired with one location before the walk moves to the next.
func (b *Batch) Generate(count int) []*Page {
	g := b.gen
	pool := g.engine.Pages()
	if count <= 0 || len(pool) == 0 {
		return []*Page{}
	}
	locations := g.catalog.LocationSlugs()
	if len(locations) == 0 {
		locations = []string{""}
	}

	pages := make([]*Page, 0, count)
	for i := 0; i < count; i++ {
		name := pool[i%len(pool)]
		location := locations[(i/len(pool))%len(locations)]
		p, err := b.Render(name, g.PageVars(g.Category(name), location))
		if err != nil {
			g.logger.Warn("skipping page", "template", name, "error", err)
			continue
		}
		pages = append(pages, p)
	}
	g.logger.Info("Generated batch", "batch", b.ID, "pages", len(pages), "templates", len(pool))
	return pages
}

// GenerateBatch renders count pages in a fresh batch.
func (g *Generator) GenerateBatch(count int) []*Page {
	return g.NewBatch().Generate(count)
}
