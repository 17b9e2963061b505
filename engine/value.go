package engine

import (
	"maps"
	"strconv"
	"strings"
)

// ValueKind tags the variant held by a Value.
type ValueKind int

const (
	KindString ValueKind = iota
	KindBool
	KindList
	KindRecords
)

func (k ValueKind) String() string {
	switch k {
	case KindString:
		return "string"
	case KindBool:
		return "bool"
	case KindList:
		return "list"
	case KindRecords:
		return "records"
	}
	return "unknown"
}

// Record is one element of a records sequence: field name to scalar.
type Record map[string]string

// Value is a template variable. Only one of the payload fields is meaningful,
// selected by Kind. Build values with String, Bool, List and Records.
type Value struct {
	Kind    ValueKind
	str     string
	boolean bool
	list    []string
	records []Record
}

// String returns a scalar value.
func String(s string) Value {
	return Value{Kind: KindString, str: s}
}

// Bool returns a boolean value.
func Bool(b bool) Value {
	return Value{Kind: KindBool, boolean: b}
}

// List returns an ordered sequence of scalars.
func List(items ...string) Value {
	return Value{Kind: KindList, list: items}
}

// Records returns an ordered sequence of records.
func Records(items ...Record) Value {
	return Value{Kind: KindRecords, records: items}
}

// Truthy reports whether an {{#if}} block guarded by v is kept.
func (v Value) Truthy() bool {
	switch v.Kind {
	case KindString:
		return v.str != ""
	case KindBool:
		return v.boolean
	case KindList:
		return len(v.list) > 0
	case KindRecords:
		return len(v.records) > 0
	}
	return false
}

// Text is the string form substituted for a {{name}} placeholder.
func (v Value) Text() string {
	switch v.Kind {
	case KindString:
		return v.str
	case KindBool:
		return strconv.FormatBool(v.boolean)
	case KindList:
		return strings.Join(v.list, ", ")
	}
	return ""
}

// Items returns the scalars of a list value.
func (v Value) Items() []string {
	if v.Kind != KindList {
		return nil
	}
	return v.list
}

// RecordItems returns the records of a records value.
func (v Value) RecordItems() []Record {
	if v.Kind != KindRecords {
		return nil
	}
	return v.records
}

// IsSequence reports whether v can drive an {{#each}} block.
func (v Value) IsSequence() bool {
	return v.Kind == KindList || v.Kind == KindRecords
}

// Vars is a variable table.
type Vars map[string]Value

// Merge returns a new table holding v overlaid with overlay. Neither input is
// modified.
func (v Vars) Merge(overlay Vars) Vars {
	out := make(Vars, len(v)+len(overlay))
	maps.Copy(out, v)
	maps.Copy(out, overlay)
	return out
}

// Lookup returns the value bound to name.
func (v Vars) Lookup(name string) (Value, bool) {
	val, ok := v[name]
	return val, ok
}
