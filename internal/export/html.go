package export

import (
	"bytes"
	"fmt"
	"html/template"
	"strings"
	"time"

	"github.com/bookforge/bookforge-api/internal/markup"
)

const htmlPageTemplate = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>{{.Title}}</title>
<style>
  @page { margin: 2.5cm; }
  body { font-family: Georgia, "Times New Roman", serif; max-width: 46em; margin: 0 auto; line-height: 1.55; color: #000; }
  header { text-align: center; border-bottom: 2px solid #333; padding-bottom: 1em; margin-bottom: 2em; }
  header h1 { margin-bottom: 0.2em; }
  header .author { font-style: italic; font-size: 1.1em; }
  header .meta { color: #555; font-size: 0.9em; margin-top: 0.6em; }
  h1, h2, h3 { page-break-after: avoid; }
  pre { background: #f4f4f4; border: 1px solid #ddd; padding: 0.8em; overflow-x: auto; font-family: "Courier New", monospace; font-size: 0.9em; page-break-inside: avoid; }
  footer { text-align: center; color: #777; font-size: 0.8em; border-top: 1px solid #ccc; margin-top: 3em; padding-top: 1em; }
</style>
</head>
<body>
<header>
  <h1>{{.Title}}</h1>
  <div class="author">by {{.Author}}</div>
  <div class="meta">{{.Language}} &middot; {{.Level}} &middot; {{.NumberOfPages}} pages &middot; created {{.CreatedAt}}</div>
</header>
{{.Body}}
<footer>Generated by BookForge at {{.GeneratedAt}}</footer>
</body>
</html>
`

var htmlPage = template.Must(template.New("page").Parse(htmlPageTemplate))

// RenderHTML wraps the document in the print-oriented page template. The
// caller downloads it and prints to PDF from the browser; no PDF bytes are
// rasterized server side.
func RenderHTML(doc markup.Document, meta Meta) []byte {
	var body strings.Builder

	for _, b := range doc.Blocks {
		switch b.Kind {
		case markup.BlockHeading:
			level := b.Level
			if level > 3 {
				level = 3
			}
			fmt.Fprintf(&body, "<h%d>%s</h%d>\n", level, template.HTMLEscapeString(b.Text), level)
		case markup.BlockCode:
			fmt.Fprintf(&body, "<pre><code>%s</code></pre>\n", template.HTMLEscapeString(b.Text))
		case markup.BlockText:
			body.WriteString("<p>")
			for _, s := range b.Spans {
				if s.Bold {
					fmt.Fprintf(&body, `<span style="color:#%s;font-weight:bold">%s</span>`,
						s.Color, template.HTMLEscapeString(s.Text))
				} else {
					body.WriteString(template.HTMLEscapeString(s.Text))
				}
			}
			body.WriteString("</p>\n")
		}
	}

	var out bytes.Buffer
	_ = htmlPage.Execute(&out, struct {
		Title, Author, Language, Level string
		NumberOfPages                  int
		CreatedAt, GeneratedAt         string
		Body                           template.HTML
	}{
		Title:         meta.Title,
		Author:        meta.Author,
		Language:      meta.Language,
		Level:         meta.Level,
		NumberOfPages: meta.NumberOfPages,
		CreatedAt:     meta.CreatedAt.Format("2006-01-02"),
		GeneratedAt:   time.Now().UTC().Format(time.RFC3339),
		Body:          template.HTML(body.String()),
	})
	return out.Bytes()
}
