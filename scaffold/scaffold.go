// Package scaffold provides the embedded starter files written by
// `pagegen new`.
package scaffold

import "embed"

// Templates contains all scaffold files. Files with a .tmpl suffix are
// executed with text/template using [[ ]] delimiters, so the {{ }}
// placeholders of page templates pass through untouched.
//
//go:embed all:templates
var Templates embed.FS
