package main

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"text/template"

	"github.com/eringen/pagegen/content"
	"github.com/eringen/pagegen/scaffold"
)

// scaffoldData holds the variables passed to every scaffold template.
type scaffoldData struct {
	ProjectName string
	SiteName    string
}

func runNew(name string) error {
	dirName := filepath.Base(filepath.Clean(name))

	if _, err := os.Stat(dirName); err == nil {
		return fmt.Errorf("directory %q already exists", dirName)
	}

	data := scaffoldData{
		ProjectName: dirName,
		SiteName:    content.Display(dirName),
	}

	fmt.Printf("Creating new pagegen project: %s\n\n", dirName)

	root := "templates"
	err := fs.WalkDir(scaffold.Templates, root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		relPath, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		outPath := filepath.Join(dirName, relPath)
		if d.IsDir() {
			return os.MkdirAll(outPath, 0o755)
		}
		raw, err := scaffold.Templates.ReadFile(path)
		if err != nil {
			return fmt.Errorf("read %s: %w", path, err)
		}

		outPath = strings.TrimSuffix(outPath, ".tmpl")
		if filepath.Base(outPath) == "dotenv" {
			outPath = filepath.Join(filepath.Dir(outPath), ".env.example")
		}

		tmpl, err := template.New(filepath.Base(path)).Delims("[[", "]]").Parse(string(raw))
		if err != nil {
			return fmt.Errorf("parse template %s: %w", path, err)
		}
		f, err := os.Create(outPath)
		if err != nil {
			return fmt.Errorf("create %s: %w", outPath, err)
		}
		defer f.Close()
		if err := tmpl.Execute(f, data); err != nil {
			return fmt.Errorf("execute template %s: %w", path, err)
		}
		fmt.Printf("  created %s\n", outPath)
		return nil
	})
	if err != nil {
		return err
	}

	catalogPath := filepath.Join(dirName, "catalog.yaml")
	if err := os.WriteFile(catalogPath, content.DefaultCatalogYAML(), 0o644); err != nil {
		return err
	}
	fmt.Printf("  created %s\n", catalogPath)

	fmt.Println()
	fmt.Println("Done! Next steps:")
	fmt.Println()
	fmt.Printf("  cd %s\n", dirName)
	fmt.Println("  cp .env.example .env   # set SITE_NAME, SITE_URL and SITE_PHONE")
	fmt.Println("  pagegen validate")
	fmt.Println("  pagegen export -out public")
	fmt.Println()
	fmt.Println("Edit templates/*.html and templates/*.md, and catalog.yaml for subjects and locations.")
	fmt.Println("Set ADMIN_PASSWORD and ADMIN_SESSION_SECRET before running 'pagegen serve'.")
	return nil
}
