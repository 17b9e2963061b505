package pagegen

import (
	"bytes"
	"context"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestExport(t *testing.T) {
	a := newTestApp(t, testTemplates)
	out := t.TempDir()

	res, err := a.Export(context.Background(), ExportOptions{OutDir: out, Count: 4, Concurrency: 2})
	if err != nil {
		t.Fatalf("Export: %v", err)
	}
	if len(res.Pages) != 4 || res.BatchID == "" {
		t.Fatalf("result = %d pages, batch %q", len(res.Pages), res.BatchID)
	}
	if res.Files != 6 {
		t.Errorf("Files = %d, want 4 pages + sitemap + feed", res.Files)
	}

	sitemap, err := os.ReadFile(filepath.Join(out, "sitemap.xml"))
	if err != nil {
		t.Fatal(err)
	}
	for _, p := range res.Pages {
		html, err := os.ReadFile(filepath.Join(out, p.Slug, "index.html"))
		if err != nil {
			t.Errorf("page %s not written: %v", p.Slug, err)
			continue
		}
		if !strings.Contains(string(html), "<title>"+p.Title+"</title>") {
			t.Errorf("page %s has no title", p.Slug)
		}
		if !strings.Contains(string(sitemap), "/"+p.Slug+"/</loc>") {
			t.Errorf("sitemap missing %s", p.Slug)
		}
	}
	if _, err := os.Stat(filepath.Join(out, "feed.xml")); err != nil {
		t.Errorf("feed.xml: %v", err)
	}
}

func TestExportWithOGImage(t *testing.T) {
	dir := t.TempDir()
	var buf bytes.Buffer
	if err := png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, 400, 200))); err != nil {
		t.Fatal(err)
	}
	src := filepath.Join(dir, "hero.png")
	if err := os.WriteFile(src, buf.Bytes(), 0o644); err != nil {
		t.Fatal(err)
	}

	a := newTestApp(t, testTemplates)
	a.Config.OGImagePath = src
	out := filepath.Join(dir, "site")
	res, err := a.Export(context.Background(), ExportOptions{OutDir: out, Count: 1})
	if err != nil {
		t.Fatalf("Export: %v", err)
	}
	if res.Files != 4 {
		t.Errorf("Files = %d, want 4", res.Files)
	}
	if _, err := os.Stat(filepath.Join(out, "og-image.jpg")); err != nil {
		t.Errorf("og-image.jpg: %v", err)
	}
	html, _ := os.ReadFile(filepath.Join(out, res.Pages[0].Slug, "index.html"))
	if !strings.Contains(string(html), `<meta property="og:image" content="https://example.com/og-image.jpg">`) {
		t.Error("page does not reference the og image")
	}
}

func TestExportRequiresOutDir(t *testing.T) {
	a := newTestApp(t, testTemplates)
	if _, err := a.Export(context.Background(), ExportOptions{Count: 1}); err == nil {
		t.Error("expected error without output directory")
	}
}
