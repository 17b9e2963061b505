package content

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// Rules are the minimum sizes a page must meet to pass validation.
// Lengths are counted in characters after trimming surrounding space.
type Rules struct {
	MinTitle       int
	MinDescription int
	MinBody        int
	MinKeywords    int
}

// DefaultRules returns the thresholds used when none are configured.
func DefaultRules() Rules {
	return Rules{MinTitle: 10, MinDescription: 50, MinBody: 200, MinKeywords: 1}
}

// Validation is the advisory outcome of Validate. Errors is never nil.
type Validation struct {
	Valid  bool     `json:"valid"`
	Errors []string `json:"errors"`
}

// Validate checks p against r. It never modifies or rejects the page.
func Validate(p *Page, r Rules) Validation {
	errs := []string{}
	check := func(field, value string, min int) {
		if n := utf8.RuneCountInString(strings.TrimSpace(value)); n < min {
			errs = append(errs, fmt.Sprintf("%s too short: %d characters, minimum %d", field, n, min))
		}
	}
	check("title", p.Title, r.MinTitle)
	check("description", p.Description, r.MinDescription)
	check("body", p.Body, r.MinBody)

	if n := len(FilterEmpty(p.Keywords)); n < r.MinKeywords {
		if n == 0 {
			errs = append(errs, fmt.Sprintf("keywords missing: at least %d required", r.MinKeywords))
		} else {
			errs = append(errs, fmt.Sprintf("too few keywords: %d, minimum %d", n, r.MinKeywords))
		}
	}
	return Validation{Valid: len(errs) == 0, Errors: errs}
}
