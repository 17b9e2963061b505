// Package content turns engine templates into pages: it builds the default
// and page-specific variable tables, assembles titles, slugs and bodies, and
// generates batches of pages cycling through the template pool.
package content
