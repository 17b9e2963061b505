package engine

import (
	"fmt"
	"sync"
	"testing"
)

func TestSlugify(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"What IS Keratoconus?  Guide!!", "what-is-keratoconus-guide"},
		{"Dry Eye Treatment in Irvine, CA", "dry-eye-treatment-in-irvine-ca"},
		{"  --Scleral -- Lenses--  ", "scleral-lenses"},
		{"Myopia\tControl\nFAQ", "myopia-control-faq"},
		{"Crème brûlée", "crme-brle"},
		{"2024 Guide: 10 Tips", "2024-guide-10-tips"},
		{"!!!", ""},
	}
	for _, tt := range tests {
		if got := Slugify(tt.input); got != tt.expected {
			t.Errorf("Slugify(%q) = %q, want %q", tt.input, got, tt.expected)
		}
	}
}

func TestSlugRegistryUnique(t *testing.T) {
	r := NewSlugRegistry()
	first := r.Unique("Keratoconus Specialist")
	second := r.Unique("keratoconus specialist!")
	third := r.Unique("KERATOCONUS   SPECIALIST")
	if first != "keratoconus-specialist" {
		t.Errorf("first = %q, want unmodified base", first)
	}
	if second != "keratoconus-specialist-1" {
		t.Errorf("second = %q, want %q", second, "keratoconus-specialist-1")
	}
	if third != "keratoconus-specialist-2" {
		t.Errorf("third = %q, want %q", third, "keratoconus-specialist-2")
	}
	if r.Len() != 3 {
		t.Errorf("Len() = %d, want 3", r.Len())
	}
}

func TestSlugRegistrySkipsTakenSuffix(t *testing.T) {
	r := NewSlugRegistry()
	r.Unique("guide 1")
	r.Unique("guide")
	if got := r.Unique("guide"); got != "guide-2" {
		t.Errorf("got %q, want %q", got, "guide-2")
	}
}

func TestSlugRegistryEmptyTitle(t *testing.T) {
	r := NewSlugRegistry()
	if got := r.Unique("???"); got != "page" {
		t.Errorf("got %q, want %q", got, "page")
	}
	if got := r.Unique(""); got != "page-1" {
		t.Errorf("got %q, want %q", got, "page-1")
	}
}

func TestSlugRegistriesAreIndependent(t *testing.T) {
	var wg sync.WaitGroup
	results := make([][]string, 4)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			r := NewSlugRegistry()
			for j := 0; j < 3; j++ {
				results[i] = append(results[i], r.Unique("Same Title"))
			}
		}(i)
	}
	wg.Wait()
	want := []string{"same-title", "same-title-1", "same-title-2"}
	for i, got := range results {
		if fmt.Sprint(got) != fmt.Sprint(want) {
			t.Errorf("batch %d = %v, want %v", i, got, want)
		}
	}
}
