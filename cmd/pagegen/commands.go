package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"text/tabwriter"

	"github.com/eringen/pagegen"
	"github.com/eringen/pagegen/content"
)

func openApp(ctx context.Context, cfg pagegen.SiteConfig) (*pagegen.App, error) {
	app := pagegen.New(cfg, pagegen.WithLogger(newLogger()))
	if err := app.Setup(ctx); err != nil {
		app.Close()
		return nil, err
	}
	return app, nil
}

func runGenerate(args []string) error {
	fs := flag.NewFlagSet("generate", flag.ExitOnError)
	var src sourceFlags
	src.register(fs)
	count := fs.Int("count", 0, "pages in the batch (default $BATCH_SIZE or 32)")
	name := fs.String("template", "", "render only this template")
	subject := fs.String("subject", "", "subject for -template (default the template's category)")
	location := fs.String("location", "", "location slug for -template")
	asJSON := fs.Bool("json", false, "print pages as JSON")
	body := fs.Bool("body", false, "include rendered bodies in text output")
	fs.Parse(args)

	cfg := configFromEnv()
	src.apply(&cfg)
	if *count > 0 {
		cfg.BatchSize = *count
	}

	ctx := context.Background()
	app, err := openApp(ctx, cfg)
	if err != nil {
		return err
	}
	defer app.Close()
	gen := app.Generator()

	var pages []*content.Page
	if *name != "" {
		subj := *subject
		if subj == "" {
			subj = gen.Category(*name)
		}
		p, err := gen.Render(*name, gen.PageVars(subj, *location))
		if err != nil {
			return err
		}
		pages = []*content.Page{p}
	} else {
		pages = gen.GenerateBatch(app.Config.BatchSize)
	}

	if *asJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(pages)
	}
	printPages(os.Stdout, pages, *body)
	return nil
}

func printPages(w io.Writer, pages []*content.Page, withBody bool) {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "SLUG\tTEMPLATE\tTITLE")
	for _, p := range pages {
		fmt.Fprintf(tw, "%s\t%s\t%s\n", p.Slug, p.Template, p.Title)
	}
	tw.Flush()
	if !withBody {
		return
	}
	for _, p := range pages {
		fmt.Fprintf(w, "\n=== %s ===\n%s\n", p.Slug, p.Body)
	}
}

func runExport(args []string) error {
	fs := flag.NewFlagSet("export", flag.ExitOnError)
	var src sourceFlags
	src.register(fs)
	out := fs.String("out", "public", "output directory")
	count := fs.Int("count", 0, "pages to export (default $BATCH_SIZE or 32)")
	concurrency := fs.Int("concurrency", 8, "parallel page writes")
	ogImage := fs.String("og-image", "", "social preview image (default $OG_IMAGE_PATH)")
	fs.Parse(args)

	cfg := configFromEnv()
	src.apply(&cfg)
	if *ogImage != "" {
		cfg.OGImagePath = *ogImage
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	app, err := openApp(ctx, cfg)
	if err != nil {
		return err
	}
	defer app.Close()

	n := *count
	if n <= 0 {
		n = app.Config.BatchSize
	}
	res, err := app.Export(ctx, pagegen.ExportOptions{OutDir: *out, Count: n, Concurrency: *concurrency})
	if err != nil {
		return err
	}
	fmt.Printf("Exported %d pages (%d files) to %s, batch %s\n", len(res.Pages), res.Files, *out, res.BatchID)
	if res.Invalid > 0 {
		fmt.Printf("%d pages fail validation; run 'pagegen validate' for details\n", res.Invalid)
	}
	return nil
}

var errInvalidPages = errors.New("some pages failed validation")

func runValidate(args []string) error {
	fs := flag.NewFlagSet("validate", flag.ExitOnError)
	var src sourceFlags
	src.register(fs)
	count := fs.Int("count", 0, "pages to check (default $BATCH_SIZE or 32)")
	fs.Parse(args)

	cfg := configFromEnv()
	src.apply(&cfg)
	if *count > 0 {
		cfg.BatchSize = *count
	}
	app, err := openApp(context.Background(), cfg)
	if err != nil {
		return err
	}
	defer app.Close()

	gen := app.Generator()
	invalid := 0
	for _, p := range gen.GenerateBatch(app.Config.BatchSize) {
		v := gen.Validate(p)
		if v.Valid {
			fmt.Printf("ok    %s\n", p.Slug)
			continue
		}
		invalid++
		fmt.Printf("FAIL  %s\n", p.Slug)
		for _, e := range v.Errors {
			fmt.Printf("      %s\n", e)
		}
		for _, d := range p.Meta.Diagnostics {
			fmt.Printf("      %s: %s (in %s)\n", d.Kind, d.Name, d.Template)
		}
	}
	if invalid > 0 {
		return fmt.Errorf("%w: %d", errInvalidPages, invalid)
	}
	return nil
}

func runImport(args []string) error {
	fs := flag.NewFlagSet("import", flag.ExitOnError)
	dsn := fs.String("db", pagegen.EnvOr("DATABASE_DSN", "data/templates.db"), "SQL template store DSN")
	dir := fs.String("templates", pagegen.EnvOr("TEMPLATES_DIR", "templates"), "template directory to import")
	fs.Parse(args)

	store, err := pagegen.NewStore(*dsn, newLogger())
	if err != nil {
		return err
	}
	defer store.Close()

	n, err := store.ImportDir(context.Background(), os.DirFS(*dir), ".")
	if err != nil {
		return err
	}
	fmt.Printf("Imported %d templates from %s\n", n, *dir)
	return nil
}

func runServe(args []string) error {
	fs := flag.NewFlagSet("serve", flag.ExitOnError)
	var src sourceFlags
	src.register(fs)
	addr := fs.String("addr", "", "listen address (default $ADDR or :3000)")
	fs.Parse(args)

	cfg := configFromEnv()
	src.apply(&cfg)
	if *addr != "" {
		cfg.Addr = *addr
	}
	cfg.AdminPassword = pagegen.MustEnv("ADMIN_PASSWORD")
	cfg.SessionSecret = pagegen.MustEnv("ADMIN_SESSION_SECRET")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app := pagegen.New(cfg, pagegen.WithLogger(newLogger()))
	defer app.Close()
	return app.Start(ctx)
}
