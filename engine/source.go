package engine

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"path"
	"sort"
	"time"
)

// Source yields the template collection an Engine is built from.
type Source interface {
	LoadTemplates(ctx context.Context) ([]*Template, error)
}

// templateExts lists the file extensions FSSource picks up.
var templateExts = map[string]struct{}{
	".html":     {},
	".htm":      {},
	".md":       {},
	".markdown": {},
	".txt":      {},
}

// IsTemplateFile reports whether a file name has a template extension.
func IsTemplateFile(name string) bool {
	_, ok := templateExts[path.Ext(name)]
	return ok
}

// FSSource loads every template file found directly inside Dir of FS.
type FSSource struct {
	FS     fs.FS
	Dir    string
	Logger *slog.Logger
}

// LoadTemplates implements Source. Files that cannot be read or whose front
// matter does not parse are logged and skipped.
func (s FSSource) LoadTemplates(ctx context.Context) ([]*Template, error) {
	dir := s.Dir
	if dir == "" {
		dir = "."
	}
	entries, err := fs.ReadDir(s.FS, dir)
	if err != nil {
		return nil, fmt.Errorf("read template dir %q: %w", dir, err)
	}
	logger := s.Logger
	if logger == nil {
		logger = slog.Default()
	}

	var out []*Template
	for _, entry := range entries {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if entry.IsDir() {
			continue
		}
		if !IsTemplateFile(entry.Name()) {
			continue
		}
		p := path.Join(dir, entry.Name())
		raw, err := fs.ReadFile(s.FS, p)
		if err != nil {
			logger.Warn("skipping unreadable template", "path", p, "error", err)
			continue
		}
		var modTime time.Time
		if info, err := entry.Info(); err == nil {
			modTime = info.ModTime()
		}
		t, err := NewTemplate(entry.Name(), raw, modTime)
		if err != nil {
			logger.Warn("skipping template", "path", p, "error", err)
			continue
		}
		out = append(out, t)
	}
	return out, nil
}

// MapSource serves templates from memory, keyed by file name.
type MapSource map[string]string

// LoadTemplates implements Source.
func (m MapSource) LoadTemplates(ctx context.Context) ([]*Template, error) {
	names := make([]string, 0, len(m))
	for name := range m {
		names = append(names, name)
	}
	sort.Strings(names)
	out := make([]*Template, 0, len(m))
	now := time.Now()
	for _, name := range names {
		t, err := NewTemplate(name, []byte(m[name]), now)
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, nil
}

// ErrNoTemplates is logged when a source yields an empty collection.
var ErrNoTemplates = errors.New("no templates found")

// Load reads src into a name-keyed set. It never fails: a source error or an
// empty source leaves exactly one synthesized default template. When two
// templates share a name the later one wins.
func Load(ctx context.Context, logger *slog.Logger, src Source) map[string]*Template {
	set := make(map[string]*Template)
	var templates []*Template
	var err error
	if src == nil {
		err = ErrNoTemplates
	} else {
		templates, err = src.LoadTemplates(ctx)
	}
	if err == nil && len(templates) == 0 {
		err = ErrNoTemplates
	}
	if err != nil {
		logger.Warn("falling back to default template", "error", err)
		t := defaultTemplate()
		set[t.Name] = t
		return set
	}
	for _, t := range templates {
		if prev, ok := set[t.Name]; ok {
			logger.Warn("duplicate template name", "name", t.Name, "kept", t.Kind, "replaced", prev.Kind)
		}
		set[t.Name] = t
	}
	logger.Info("Loaded templates", "count", len(set))
	if !hasPage(set) {
		logger.Warn("source has only partials; batches will be empty", "count", len(set))
	}
	return set
}

func hasPage(set map[string]*Template) bool {
	for _, t := range set {
		if !t.IsPartial() {
			return true
		}
	}
	return false
}
