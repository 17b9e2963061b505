package engine

import (
	"fmt"
	"regexp"
	"strings"
)

// maxIncludeDepth bounds include nesting independently of cycle detection.
const maxIncludeDepth = 16

// maxItemDepth bounds how often a loop item's text is itself evaluated, so an
// item such as "{{this}}" cannot expand forever.
const maxItemDepth = 4

// placeholderPattern matches anything shaped like a template tag.
var placeholderPattern = regexp.MustCompile(`(?s)\{\{.*?\}\}`)

// HasPlaceholder reports whether s still contains a {{...}} token.
func HasPlaceholder(s string) bool {
	return placeholderPattern.MatchString(s)
}

// scrub removes every {{...}} token, repeating until none is left since a
// removal can join the halves of another.
func scrub(s string) string {
	for placeholderPattern.MatchString(s) {
		s = placeholderPattern.ReplaceAllString(s, "")
	}
	return s
}

// DiagnosticKind classifies a non-fatal problem found while rendering.
type DiagnosticKind string

const (
	DiagUnknownInclude DiagnosticKind = "unknown-include"
	DiagIncludeCycle   DiagnosticKind = "include-cycle"
	DiagIncludeDepth   DiagnosticKind = "include-depth"
	DiagNotSequence    DiagnosticKind = "each-not-sequence"
)

// Diagnostic records a construct that degraded to empty output.
type Diagnostic struct {
	Kind     DiagnosticKind `json:"kind"`
	Name     string         `json:"name"`
	Template string         `json:"template,omitempty"`
}

func (d Diagnostic) String() string {
	if d.Template == "" {
		return fmt.Sprintf("%s: %s", d.Kind, d.Name)
	}
	return fmt.Sprintf("%s: %s (in %s)", d.Kind, d.Name, d.Template)
}

// scope resolves names for one block instance, falling back to its parent.
type scope struct {
	parent *scope
	vars   Vars
	record Record
	this   *string
}

func (s *scope) lookup(name string) (Value, bool) {
	v, _, ok := s.resolve(name)
	return v, ok
}

// resolve is lookup that also reports whether the value came from a loop
// item (a record field or this) rather than a variable table.
func (s *scope) resolve(name string) (v Value, item, ok bool) {
	for cur := s; cur != nil; cur = cur.parent {
		if cur.record != nil {
			if f, ok := cur.record[name]; ok {
				return String(f), true, true
			}
		}
		if cur.this != nil && name == "this" {
			return String(*cur.this), true, true
		}
		if cur.vars != nil {
			if v, ok := cur.vars[name]; ok {
				return v, false, true
			}
		}
	}
	return Value{}, false, false
}

// evaluator holds the state of a single render call.
type evaluator struct {
	templates map[string]*Template
	root      *scope
	trees     map[string][]node
	includes  []string
	items     int // depth of loop item text being evaluated
	diags     []Diagnostic
}

func newEvaluator(templates map[string]*Template, trees map[string][]node, vars Vars) *evaluator {
	return &evaluator{
		templates: templates,
		root:      &scope{vars: vars},
		trees:     trees,
	}
}

func (e *evaluator) current() string {
	if n := len(e.includes); n > 0 {
		return e.includes[n-1]
	}
	return ""
}

func (e *evaluator) note(kind DiagnosticKind, name string) {
	e.diags = append(e.diags, Diagnostic{Kind: kind, Name: name, Template: e.current()})
}

func (e *evaluator) render(b *strings.Builder, nodes []node, sc *scope) {
	for _, n := range nodes {
		switch n := n.(type) {
		case textNode:
			b.WriteString(n.text)
		case varNode:
			v, item, ok := sc.resolve(n.name)
			if !ok {
				continue
			}
			if item {
				e.itemText(b, v.Text())
			} else {
				b.WriteString(v.Text())
			}
		case includeNode:
			e.include(b, n.name)
		case ifNode:
			if v, ok := sc.lookup(n.name); ok && v.Truthy() {
				e.render(b, n.body, sc)
			}
		case eachNode:
			e.each(b, n, sc)
		}
	}
}

// itemText writes a loop item's value. Placeholders and conditionals inside
// it resolve against the root table, as they would once the loop had been
// expanded in place. Includes are not followed: they resolve before loops.
func (e *evaluator) itemText(b *strings.Builder, text string) {
	if !strings.Contains(text, leftDelim) || e.items >= maxItemDepth {
		b.WriteString(text)
		return
	}
	e.items++
	e.render(b, parse(text), e.root)
	e.items--
}

// include renders another template against the root table: partials are
// resolved before any enclosing loop binds its item fields.
func (e *evaluator) include(b *strings.Builder, name string) {
	if e.items > 0 {
		return
	}
	if _, ok := e.templates[name]; !ok {
		e.note(DiagUnknownInclude, name)
		return
	}
	for _, active := range e.includes {
		if active == name {
			e.note(DiagIncludeCycle, name)
			return
		}
	}
	if len(e.includes) >= maxIncludeDepth {
		e.note(DiagIncludeDepth, name)
		return
	}
	e.includes = append(e.includes, name)
	e.render(b, e.trees[name], e.root)
	e.includes = e.includes[:len(e.includes)-1]
}

func (e *evaluator) each(b *strings.Builder, n eachNode, sc *scope) {
	v, ok := sc.lookup(n.name)
	if !ok || !v.IsSequence() {
		e.note(DiagNotSequence, n.name)
		return
	}
	switch v.Kind {
	case KindList:
		for _, item := range v.list {
			e.render(b, n.body, &scope{parent: sc, this: &item})
		}
	case KindRecords:
		for _, rec := range v.records {
			e.render(b, n.body, &scope{parent: sc, record: rec})
		}
	}
}
