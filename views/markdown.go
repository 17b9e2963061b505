package views

import (
	"bytes"
	"context"

	"github.com/a-h/templ"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/renderer/html"
)

// md renders prose templates. Raw HTML passes through because template
// authors mix markup into prose pages.
var md = goldmark.New(
	goldmark.WithExtensions(extension.GFM, extension.Typographer),
	goldmark.WithRendererOptions(html.WithUnsafe()),
)

// MarkdownToHTML converts prose to HTML.
func MarkdownToHTML(src string) (string, error) {
	var buf bytes.Buffer
	if err := md.Convert([]byte(src), &buf); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// Markdown renders prose as HTML.
func Markdown(src string) templ.Component {
	return component(func(_ context.Context, buf *bytes.Buffer) error {
		return md.Convert([]byte(src), buf)
	})
}
