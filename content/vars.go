package content

import (
	"strconv"
	"strings"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/eringen/pagegen/engine"
)

// Business identifies the practice every page is written for.
type Business struct {
	Name    string
	URL     string
	Phone   string
	Email   string
	Address string
	Coord   Coord
}

// Defaults builds the process-wide variable table. Call it once at startup;
// page tables are merged over it per render.
func Defaults(b Business, now time.Time) engine.Vars {
	return engine.Vars{
		"businessName": engine.String(b.Name),
		"baseUrl":      engine.String(strings.TrimRight(b.URL, "/")),
		"phone":        engine.String(b.Phone),
		"email":        engine.String(b.Email),
		"address":      engine.String(b.Address),
		"currentDate":  engine.String(now.Format("January 2, 2006")),
		"currentYear":  engine.String(strconv.Itoa(now.Year())),
		"isoDate":      engine.String(now.Format("2006-01-02")),
	}
}

var titleCaser = cases.Title(language.English)

// Display turns a category slug into its human-readable form:
// "dry-eye" becomes "Dry Eye".
func Display(slug string) string {
	s := strings.Join(strings.Fields(strings.ReplaceAll(slug, "-", " ")), " ")
	return titleCaser.String(s)
}

// PageVars builds the page-specific table for one subject and location.
// Unknown categories still get their display forms, and an unknown subject
// gets a generic description.
func PageVars(cat *Catalog, b Business, subject, location string) engine.Vars {
	vars := engine.Vars{
		"subject":         engine.String(subject),
		"subjectDisplay":  engine.String(Display(subject)),
		"location":        engine.String(location),
		"locationDisplay": engine.String(Display(location)),
		"city":            engine.String(Display(location)),
	}

	if s, ok := cat.Subject(subject); ok {
		if s.Name != "" {
			vars["subjectDisplay"] = engine.String(s.Name)
		}
		vars["subjectDescription"] = engine.String(s.Description)
		vars["symptoms"] = engine.List(s.Symptoms...)
		vars["treatments"] = engine.List(s.Treatments...)
		faqs := make([]engine.Record, 0, len(s.FAQs))
		for _, f := range s.FAQs {
			faqs = append(faqs, engine.Record{"question": f.Question, "answer": f.Answer})
		}
		vars["faqs"] = engine.Records(faqs...)
	} else {
		vars["subjectDescription"] = engine.String(genericDescription(Display(subject)))
	}

	if l, ok := cat.Location(location); ok {
		name := l.Name
		if name == "" {
			name = Display(l.Slug)
		}
		vars["locationDisplay"] = engine.String(name)
		vars["city"] = engine.String(name)
		vars["county"] = engine.String(l.County)
		vars["neighborhoods"] = engine.List(l.Neighborhoods...)
		vars["hasNeighborhoods"] = engine.Bool(len(l.Neighborhoods) > 0)

		to := Coord{Lat: l.Lat, Lon: l.Lon}
		if !b.Coord.IsZero() && !to.IsZero() {
			c := EstimateCommute(to, b.Coord)
			vars["distanceMiles"] = engine.String(strconv.FormatFloat(c.Miles, 'f', 1, 64))
			vars["driveMinutes"] = engine.String(strconv.Itoa(c.Minutes))
		}
	}
	return vars
}

func genericDescription(display string) string {
	if display == "" {
		return "Comprehensive eye care with advanced diagnostics and personalized treatment plans."
	}
	return "Comprehensive " + strings.ToLower(display) + " care with advanced diagnostics and personalized treatment plans."
}
