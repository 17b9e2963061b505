package views

import (
	"bytes"
	"context"
	"io"
	"net/url"
	"strings"

	"github.com/a-h/templ"
)

// PathEscape wraps url.PathEscape for use in links.
func PathEscape(s string) string {
	return url.PathEscape(s)
}

// JoinKeywords formats keywords for a meta tag or table cell.
func JoinKeywords(kw []string) string {
	return strings.Join(kw, ", ")
}

// component buffers the whole document so a failed write leaves nothing
// half-rendered.
func component(fn func(ctx context.Context, buf *bytes.Buffer) error) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		var buf bytes.Buffer
		if err := fn(ctx, &buf); err != nil {
			return err
		}
		_, err := w.Write(buf.Bytes())
		return err
	})
}

// Raw emits trusted HTML unchanged. Rendered page bodies go through here.
func Raw(s string) templ.Component {
	return templ.Raw(s)
}

// Preformatted wraps plain text in an escaped <pre> block.
func Preformatted(s string) templ.Component {
	return component(func(_ context.Context, buf *bytes.Buffer) error {
		buf.WriteString(`<pre class="plain">`)
		buf.WriteString(templ.EscapeString(s))
		buf.WriteString(`</pre>`)
		return nil
	})
}
