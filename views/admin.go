package views

import (
	"bytes"
	"context"
	"fmt"

	"github.com/a-h/templ"
)

func csrfField(token string) string {
	return fmt.Sprintf(`<input type="hidden" name="_csrf" value="%s">`, templ.EscapeString(token))
}

// AdminLogin renders the password form.
func AdminLogin(cfg SiteConfig, showError bool, csrfToken string) templ.Component {
	body := component(func(_ context.Context, buf *bytes.Buffer) error {
		buf.WriteString("<h1>Admin</h1>\n")
		if showError {
			buf.WriteString(`<p class="bad">Invalid password.</p>` + "\n")
		}
		buf.WriteString(`<form method="post" action="/admin/login/">`)
		buf.WriteString(csrfField(csrfToken))
		buf.WriteString(`<input type="password" name="password" autofocus required> <button type="submit">Log in</button></form>`)
		return nil
	})
	return Layout(cfg, PageMeta{Title: "Admin login"}, body)
}

// AdminDashboard shows the current batch with its validation report and,
// when templates live in a database, the stored templates.
func AdminDashboard(cfg SiteConfig, batchID string, rows []PageRow, templates []TemplateRow, storeEnabled bool, message, csrfToken string) templ.Component {
	body := component(func(_ context.Context, buf *bytes.Buffer) error {
		buf.WriteString("<h1>Dashboard</h1>\n")
		if message != "" {
			fmt.Fprintf(buf, "<p class=\"ok\">%s</p>\n", templ.EscapeString(message))
		}
		buf.WriteString(`<form method="post" action="/admin/regenerate/">` + csrfField(csrfToken) + `<button type="submit">Regenerate batch</button></form>` + "\n")
		buf.WriteString(`<form method="post" action="/admin/logout/">` + csrfField(csrfToken) + `<button type="submit">Log out</button></form>` + "\n")

		invalid := 0
		for _, r := range rows {
			if !r.Valid {
				invalid++
			}
		}
		fmt.Fprintf(buf, "<h2>Batch <code>%s</code></h2>\n<p>%d pages, %d with validation issues</p>\n", templ.EscapeString(batchID), len(rows), invalid)
		buf.WriteString("<table><thead><tr><th>Page</th><th>Template</th><th>Status</th></tr></thead><tbody>\n")
		for _, r := range rows {
			fmt.Fprintf(buf, "<tr><td><a href=\"/pages/%s/\">%s</a></td><td>%s</td><td>",
				PathEscape(r.Page.Slug), templ.EscapeString(r.Page.Title), templ.EscapeString(r.Page.Template))
			if r.Valid {
				buf.WriteString(`<span class="ok">valid</span>`)
			} else {
				buf.WriteString(`<ul class="bad">`)
				for _, e := range r.Errors {
					fmt.Fprintf(buf, "<li>%s</li>", templ.EscapeString(e))
				}
				buf.WriteString(`</ul>`)
			}
			buf.WriteString("</td></tr>\n")
		}
		buf.WriteString("</tbody></table>\n")

		if !storeEnabled {
			return nil
		}
		buf.WriteString("<h2>Stored templates</h2>\n<table><tbody>\n")
		for _, t := range templates {
			fmt.Fprintf(buf, "<tr><td><a href=\"/admin/templates/%s/\">%s</a></td><td>%s</td><td>%s</td></tr>\n",
				PathEscape(t.Name), templ.EscapeString(t.Name), templ.EscapeString(t.Filename), templ.EscapeString(t.Updated))
		}
		buf.WriteString("</tbody></table>\n")
		renderTemplateForm(buf, "", "", csrfToken)
		return nil
	})
	return Layout(cfg, PageMeta{Title: "Dashboard"}, body)
}

// AdminTemplateForm edits one stored template.
func AdminTemplateForm(cfg SiteConfig, filename, source, csrfToken string) templ.Component {
	body := component(func(_ context.Context, buf *bytes.Buffer) error {
		fmt.Fprintf(buf, "<h1>%s</h1>\n", templ.EscapeString(filename))
		renderTemplateForm(buf, filename, source, csrfToken)
		return nil
	})
	return Layout(cfg, PageMeta{Title: filename}, body)
}

func renderTemplateForm(buf *bytes.Buffer, filename, source, csrfToken string) {
	buf.WriteString(`<form method="post" action="/admin/templates/">`)
	buf.WriteString(csrfField(csrfToken))
	fmt.Fprintf(buf, `<p><input name="filename" placeholder="keratoconus.html" value="%s" required></p>`, templ.EscapeString(filename))
	fmt.Fprintf(buf, `<p><textarea name="content" rows="20" cols="80">%s</textarea></p>`, templ.EscapeString(source))
	buf.WriteString(`<button type="submit">Save template</button></form>` + "\n")
}
