package content

import (
	"strings"
	"testing"
)

func compliantPage() *Page {
	return &Page{
		Title:       "Keratoconus Specialist in Irvine",
		Description: "Clear Sight Eye Care diagnoses and treats keratoconus for patients across Irvine.",
		Body:        strings.Repeat("Scleral lenses restore clear vision. ", 8),
		Keywords:    []string{"keratoconus irvine"},
	}
}

func TestValidateCompliantPage(t *testing.T) {
	v := Validate(compliantPage(), DefaultRules())
	if !v.Valid {
		t.Errorf("Valid = false, errors %q", v.Errors)
	}
	if v.Errors == nil || len(v.Errors) != 0 {
		t.Errorf("Errors = %#v, want empty non-nil list", v.Errors)
	}
}

func TestValidateShortTitle(t *testing.T) {
	p := compliantPage()
	p.Title = "Short"
	v := Validate(p, DefaultRules())
	if v.Valid {
		t.Fatal("5-character title passed validation")
	}
	if len(v.Errors) != 1 || !strings.HasPrefix(v.Errors[0], "title too short") {
		t.Errorf("Errors = %q", v.Errors)
	}
}

func TestValidateReportsEveryFailure(t *testing.T) {
	p := &Page{Title: "Hi", Description: "Brief.", Body: "tiny", Keywords: []string{" ", ""}}
	v := Validate(p, DefaultRules())
	want := []string{
		"title too short: 2 characters, minimum 10",
		"description too short: 6 characters, minimum 50",
		"body too short: 4 characters, minimum 200",
		"keywords missing: at least 1 required",
	}
	if len(v.Errors) != len(want) {
		t.Fatalf("Errors = %q, want %d messages", v.Errors, len(want))
	}
	for i := range want {
		if v.Errors[i] != want[i] {
			t.Errorf("Errors[%d] = %q, want %q", i, v.Errors[i], want[i])
		}
	}
}

func TestValidateCountsCharacters(t *testing.T) {
	p := compliantPage()
	p.Title = "Ojos sanos ñ"
	rules := DefaultRules()
	rules.MinTitle = 12
	if v := Validate(p, rules); !v.Valid {
		t.Errorf("12-rune title rejected: %q", v.Errors)
	}
}

func TestValidateCustomRules(t *testing.T) {
	p := compliantPage()
	rules := Rules{MinKeywords: 3}
	v := Validate(p, rules)
	if v.Valid || len(v.Errors) != 1 || v.Errors[0] != "too few keywords: 1, minimum 3" {
		t.Errorf("Validate = %+v", v)
	}
}

func TestValidateDoesNotModifyPage(t *testing.T) {
	p := compliantPage()
	p.Title = "x"
	before := *p
	Validate(p, DefaultRules())
	if p.Title != before.Title || p.Body != before.Body {
		t.Error("Validate modified the page")
	}
}
