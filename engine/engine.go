package engine

import (
	"context"
	"log/slog"
	"sort"
	"strings"
)

// Engine renders named templates. It is immutable once built and safe for
// concurrent use; all per-render state lives in the call.
type Engine struct {
	logger    *slog.Logger
	templates map[string]*Template
	trees     map[string][]node
	names     []string
}

// New loads the templates of src and returns an Engine. It always succeeds:
// see Load for the fallback rules.
func New(ctx context.Context, logger *slog.Logger, src Source) *Engine {
	if logger == nil {
		logger = slog.Default()
	}
	templates := Load(ctx, logger, src)
	names := make([]string, 0, len(templates))
	trees := make(map[string][]node, len(templates))
	for name, t := range templates {
		names = append(names, name)
		trees[name] = parse(t.Content)
	}
	sort.Strings(names)
	return &Engine{logger: logger, templates: templates, trees: trees, names: names}
}

// Output is the result of rendering text.
type Output struct {
	Text        string
	Diagnostics []Diagnostic
}

// Render resolves the template called name against vars. The second result
// is false when no such template exists.
func (e *Engine) Render(name string, vars Vars) (Output, bool) {
	if _, ok := e.templates[name]; !ok {
		return Output{}, false
	}
	ev := newEvaluator(e.templates, e.trees, vars)
	var b strings.Builder
	ev.includes = append(ev.includes, name)
	ev.render(&b, e.trees[name], ev.root)
	return e.finish(name, b.String(), ev.diags), true
}

// RenderString resolves an ad-hoc template text, such as a title pattern,
// with the same rules as Render. Includes refer to the engine's templates.
func (e *Engine) RenderString(text string, vars Vars) Output {
	if !strings.Contains(text, leftDelim) {
		return Output{Text: text}
	}
	ev := newEvaluator(e.templates, e.trees, vars)
	var b strings.Builder
	ev.render(&b, parse(text), ev.root)
	return e.finish("", b.String(), ev.diags)
}

func (e *Engine) finish(name, text string, diags []Diagnostic) Output {
	if HasPlaceholder(text) {
		e.logger.Debug("removing placeholder syntax from rendered output", "template", name)
		text = scrub(text)
	}
	for _, d := range diags {
		e.logger.Debug("render diagnostic", "template", name, "diagnostic", d.String())
	}
	return Output{Text: text, Diagnostics: diags}
}

// Template returns the template called name.
func (e *Engine) Template(name string) (*Template, bool) {
	t, ok := e.templates[name]
	return t, ok
}

// Names returns every template name in sorted order, partials included.
func (e *Engine) Names() []string {
	return append([]string(nil), e.names...)
}

// Pages returns the sorted names of templates that render as standalone
// pages, i.e. everything except partials.
func (e *Engine) Pages() []string {
	var out []string
	for _, name := range e.names {
		if !e.templates[name].IsPartial() {
			out = append(out, name)
		}
	}
	return out
}
