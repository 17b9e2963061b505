package main

import (
	"fmt"
	"os"
)

// version is set at build time via ldflags.
var version = "dev"

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	args := os.Args[2:]
	var err error
	switch os.Args[1] {
	case "new":
		if len(args) < 1 {
			fmt.Fprintln(os.Stderr, "Usage: pagegen new <project-name>")
			os.Exit(1)
		}
		err = runNew(args[0])
	case "generate":
		err = runGenerate(args)
	case "export":
		err = runExport(args)
	case "validate":
		err = runValidate(args)
	case "import":
		err = runImport(args)
	case "serve":
		err = runServe(args)
	case "version":
		fmt.Printf("pagegen %s\n", version)
	case "help", "-h", "--help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", os.Args[1])
		printUsage()
		os.Exit(1)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println(`pagegen - programmatic landing pages for eye-care practices

Usage:
  pagegen <command> [flags]

Commands:
  new <name>    Create a new project with starter templates and a catalog
  generate      Render a batch (or one template) and print it
  export        Write a batch as a static site
  validate      Check a batch against the SEO rules; exits 1 if any page fails
  import        Copy a template directory into the SQL template store
  serve         Run the preview server with the admin dashboard
  version       Print the pagegen version
  help          Show this help message

Run 'pagegen <command> -h' for the flags of a command. Site settings are read
from the environment (SITE_NAME, SITE_URL, TEMPLATES_DIR, DATABASE_DSN, ...).

Examples:
  pagegen new orange-county-eyes
  pagegen generate -count 10 -json
  pagegen generate -template keratoconus -location irvine
  pagegen export -out public -count 200
  pagegen import -db data/templates.db -templates templates`)
}
