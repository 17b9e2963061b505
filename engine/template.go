package engine

import (
	"bytes"
	"fmt"
	"path"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Format describes the output a template produces. The engine does not
// behave differently per format; callers use it to pick file extensions and
// post-processing.
type Format string

const (
	FormatMarkup Format = "markup"
	FormatProse  Format = "prose"
	FormatText   Format = "text"
)

// FormatForExt maps a file extension (with dot) to a template format.
func FormatForExt(ext string) Format {
	switch strings.ToLower(ext) {
	case ".html", ".htm":
		return FormatMarkup
	case ".md", ".markdown":
		return FormatProse
	}
	return FormatText
}

// Meta is the optional front matter of a template. Title, Description and
// Keywords are themselves templates resolved against the page variables.
type Meta struct {
	Title       string   `yaml:"title"`
	Description string   `yaml:"description"`
	Keywords    []string `yaml:"keywords"`
	Category    string   `yaml:"category"`
}

// Template is a named document loaded once and never modified afterwards.
type Template struct {
	Name    string
	Content string
	Kind    Format
	ModTime time.Time
	Meta    Meta
}

// IsPartial reports whether the template is only meant to be included.
func (t *Template) IsPartial() bool {
	return strings.HasPrefix(t.Name, "_")
}

// NewTemplate builds a template from a file name and raw document, splitting
// off YAML front matter when present.
func NewTemplate(filename string, raw []byte, modTime time.Time) (*Template, error) {
	ext := path.Ext(filename)
	t := &Template{
		Name:    strings.TrimSuffix(path.Base(filename), ext),
		Kind:    FormatForExt(ext),
		ModTime: modTime,
	}
	meta, body, err := splitFrontMatter(raw)
	if err != nil {
		return nil, fmt.Errorf("template %s: %w", t.Name, err)
	}
	t.Meta = meta
	t.Content = body
	return t, nil
}

var fence = []byte("---")

func splitFrontMatter(raw []byte) (Meta, string, error) {
	var meta Meta
	raw = bytes.TrimPrefix(raw, []byte("\xef\xbb\xbf"))
	if !bytes.HasPrefix(raw, fence) {
		return meta, string(raw), nil
	}
	first := bytes.IndexByte(raw, '\n')
	if first < 0 || len(bytes.TrimSpace(raw[:first])) != len(fence) {
		return meta, string(raw), nil
	}
	rest := raw[first+1:]
	end := findFence(rest)
	if end < 0 {
		return meta, string(raw), nil
	}
	if err := yaml.Unmarshal(rest[:end], &meta); err != nil {
		return meta, "", fmt.Errorf("front matter: %w", err)
	}
	body := rest[end:]
	if nl := bytes.IndexByte(body, '\n'); nl >= 0 {
		body = body[nl+1:]
	} else {
		body = nil
	}
	return meta, string(body), nil
}

// findFence returns the offset of the closing "---" line in b, or -1.
func findFence(b []byte) int {
	offset := 0
	for offset <= len(b) {
		line := b[offset:]
		nl := bytes.IndexByte(line, '\n')
		if nl >= 0 {
			line = line[:nl]
		}
		if bytes.Equal(bytes.TrimRight(line, " \t\r"), fence) {
			return offset
		}
		if nl < 0 {
			return -1
		}
		offset += nl + 1
	}
	return -1
}

// DefaultTemplateName is the name of the template synthesized when a source
// yields nothing.
const DefaultTemplateName = "default"

const defaultTemplateContent = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>{{title}}</title>
<meta name="description" content="{{description}}">
</head>
<body>
<h1>{{#if subjectDisplay}}{{subjectDisplay}} in {{/if}}{{locationDisplay}}</h1>
<p>{{businessName}} serves patients in {{locationDisplay}}.{{#if phone}} Call {{phone}} to schedule an exam.{{/if}}</p>
<footer>&copy; {{currentYear}} {{businessName}}</footer>
</body>
</html>
`

// DefaultMeta returns the metadata patterns used when a template declares
// none of its own.
func DefaultMeta() Meta {
	return Meta{
		Title:       "{{subjectDisplay}} in {{locationDisplay}} | {{businessName}}",
		Description: "{{businessName}} provides {{subjectDisplay}} care for patients in {{locationDisplay}}. Call {{phone}} to book a visit.",
		Keywords:    []string{"{{subjectDisplay}}", "{{subjectDisplay}} {{locationDisplay}}", "eye doctor {{locationDisplay}}"},
	}
}

func defaultTemplate() *Template {
	return &Template{
		Name:    DefaultTemplateName,
		Content: defaultTemplateContent,
		Kind:    FormatMarkup,
		ModTime: time.Now(),
		Meta:    DefaultMeta(),
	}
}
