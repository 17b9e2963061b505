package pagegen

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync/atomic"

	natomic "github.com/natefinch/atomic"
	"golang.org/x/sync/errgroup"

	"github.com/eringen/pagegen/content"
)

// ExportOptions controls a static export.
type ExportOptions struct {
	OutDir      string
	Count       int
	Concurrency int // parallel page writes (default 8)
}

// ExportResult summarizes a finished export.
type ExportResult struct {
	BatchID string
	Pages   []*content.Page
	Files   int
	Invalid int
}

// Export generates one batch and writes it under opts.OutDir as
// <slug>/index.html plus sitemap.xml, feed.xml and, when configured,
// og-image.jpg. Every file is replaced atomically, so a reader never sees a
// half-written page.
func (a *App) Export(ctx context.Context, opts ExportOptions) (ExportResult, error) {
	if opts.OutDir == "" {
		return ExportResult{}, fmt.Errorf("pagegen: export: no output directory")
	}
	if opts.Concurrency <= 0 {
		opts.Concurrency = 8
	}
	if err := os.MkdirAll(opts.OutDir, 0o755); err != nil {
		return ExportResult{}, fmt.Errorf("pagegen: export: %w", err)
	}

	gen := a.Generator()
	pages := gen.GenerateBatch(opts.Count)
	res := ExportResult{Pages: pages}
	if len(pages) > 0 {
		res.BatchID = pages[0].Meta.BatchID
	}
	image := a.ogImageURL()

	var files atomic.Int64
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(opts.Concurrency)

	for _, p := range pages {
		if !gen.Validate(p).Valid {
			res.Invalid++
		}
		g.Go(func() error {
			html, err := PageHTML(ctx, p, a.Config, image)
			if err != nil {
				return fmt.Errorf("render %s: %w", p.Slug, err)
			}
			if err := writeFile(filepath.Join(opts.OutDir, p.Slug, "index.html"), html); err != nil {
				return err
			}
			files.Add(1)
			return nil
		})
	}

	g.Go(func() error {
		var buf bytes.Buffer
		if err := writeSitemap(&buf, a.Config.URL, pages); err != nil {
			return err
		}
		if err := writeFile(filepath.Join(opts.OutDir, "sitemap.xml"), buf.Bytes()); err != nil {
			return err
		}
		files.Add(1)
		return nil
	})
	g.Go(func() error {
		var buf bytes.Buffer
		if err := writeRSS(&buf, a.Config, pages); err != nil {
			return err
		}
		if err := writeFile(filepath.Join(opts.OutDir, "feed.xml"), buf.Bytes()); err != nil {
			return err
		}
		files.Add(1)
		return nil
	})
	if a.Config.OGImagePath != "" {
		g.Go(func() error {
			img, err := a.loadOGImage()
			if err != nil {
				return fmt.Errorf("og image: %w", err)
			}
			if err := writeFile(filepath.Join(opts.OutDir, "og-image.jpg"), img); err != nil {
				return err
			}
			files.Add(1)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return res, fmt.Errorf("pagegen: export: %w", err)
	}
	res.Files = int(files.Load())
	a.logger.Info("Exported batch", "batch", res.BatchID, "pages", len(pages), "files", res.Files, "dir", opts.OutDir)
	return res, nil
}

func writeFile(path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return natomic.WriteFile(path, bytes.NewReader(data))
}
