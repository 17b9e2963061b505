package pagegen

import (
	"encoding/json"

	"github.com/eringen/pagegen/content"
	"github.com/eringen/pagegen/views"
)

// MedicalBusinessJsonLD returns a JSON-LD string describing the practice.
func MedicalBusinessJsonLD(cfg SiteConfig) string {
	data := map[string]interface{}{
		"@context": "https://schema.org",
		"@type":    "MedicalBusiness",
		"name":     cfg.Name,
		"url":      content.BuildURL(cfg.URL),
	}
	if cfg.Description != "" {
		data["description"] = cfg.Description
	}
	if cfg.Phone != "" {
		data["telephone"] = cfg.Phone
	}
	if cfg.Address != "" {
		data["address"] = cfg.Address
	}
	if cfg.ClinicLat != 0 || cfg.ClinicLon != 0 {
		data["geo"] = map[string]interface{}{
			"@type":     "GeoCoordinates",
			"latitude":  cfg.ClinicLat,
			"longitude": cfg.ClinicLon,
		}
	}
	b, err := json.Marshal(data)
	if err != nil {
		return "{}"
	}
	return string(b)
}

// WebPageJsonLD returns a JSON-LD string for one generated page.
func WebPageJsonLD(p *content.Page, cfg SiteConfig) string {
	data := map[string]interface{}{
		"@context":    "https://schema.org",
		"@type":       "MedicalWebPage",
		"name":        p.Title,
		"description": p.Description,
		"url":         p.Meta.URL,
		"publisher": map[string]string{
			"@type": "MedicalBusiness",
			"name":  cfg.Name,
		},
	}
	if !p.Meta.GeneratedAt.IsZero() {
		data["dateModified"] = p.Meta.GeneratedAt.Format("2006-01-02")
	}
	if len(p.Keywords) > 0 {
		data["keywords"] = views.JoinKeywords(p.Keywords)
	}
	if p.Meta.Location != "" {
		data["about"] = map[string]string{
			"@type": "Place",
			"name":  content.Display(p.Meta.Location),
		}
	}
	b, err := json.Marshal(data)
	if err != nil {
		return "{}"
	}
	return string(b)
}

func (c SiteConfig) viewConfig() views.SiteConfig {
	return views.SiteConfig{
		Name:        c.Name,
		URL:         c.URL,
		Description: c.Description,
		Phone:       c.Phone,
		Address:     c.Address,
	}
}

func pageMeta(p *content.Page, cfg SiteConfig, image string) views.PageMeta {
	return views.PageMeta{
		Title:       p.Title,
		Description: p.Description,
		URL:         p.Meta.URL,
		OGType:      "article",
		Keywords:    p.Keywords,
		Image:       image,
		JSONLD:      WebPageJsonLD(p, cfg),
	}
}
