package export

import (
	"archive/zip"
	"bytes"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/bookforge/bookforge-api/internal/markup"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testMeta = Meta{
	Title:         "Intro to Go",
	Author:        "A. Dev",
	Language:      "Go",
	Level:         "Beginner",
	NumberOfPages: 20,
	CreatedAt:     time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
}

const testContent = "# Intro to Go\n" +
	"Use a **function** for every **tip** you implement.\n" +
	"```\nfunc main() {}\n```"

func TestSanitizeFilename(t *testing.T) {
	cases := map[string]string{
		"My Book: Part #1!": "MyBookPart1",
		"Intro to Go":       "IntrotoGo",
		"snake_case_title":  "snake_case_title",
		"!!!":               "book",
		"":                  "book",
	}
	for in, want := range cases {
		assert.Equal(t, want, SanitizeFilename(in), "input %q", in)
	}
}

func TestParseFormat(t *testing.T) {
	for _, s := range []string{"PDF", "pdf", " docx ", "EPUB"} {
		_, err := ParseFormat(s)
		assert.NoError(t, err, "input %q", s)
	}
	_, err := ParseFormat("RTF")
	assert.ErrorIs(t, err, ErrUnsupportedFormat)
}

func TestRenderHTML(t *testing.T) {
	doc := markup.Transform(testContent)
	html := string(RenderHTML(doc, testMeta))

	assert.Contains(t, html, "<h1>Intro to Go</h1>")
	assert.Contains(t, html, "by A. Dev")
	assert.Contains(t, html, `<span style="color:#FF0000;font-weight:bold">function</span>`)
	assert.Contains(t, html, `<span style="color:#008000;font-weight:bold">tip</span>`)
	assert.Contains(t, html, "<pre><code>func main() {}</code></pre>")
	assert.Contains(t, html, "Generated by BookForge at ")
}

func TestRenderHTMLEscapes(t *testing.T) {
	doc := markup.Transform("Watch out for **<script>** injection & co.")
	html := string(RenderHTML(doc, testMeta))

	assert.NotContains(t, html, "<script>")
	assert.Contains(t, html, "&lt;script&gt;")
	assert.Contains(t, html, "&amp; co.")
}

func TestExportPDFPayload(t *testing.T) {
	doc := markup.Transform(testContent)
	res, err := Export(FormatPDF, doc, testMeta)
	require.NoError(t, err)

	assert.Equal(t, "IntrotoGo.html", res.Filename)
	assert.Equal(t, "text/html; charset=utf-8", res.ContentType)
	assert.NotEmpty(t, res.Data)
}

func TestExportDOCX(t *testing.T) {
	doc := markup.Transform(testContent)
	res, err := Export(FormatDOCX, doc, testMeta)
	require.NoError(t, err)

	assert.Equal(t, "IntrotoGo.docx", res.Filename)
	assert.Equal(t, "application/vnd.openxmlformats-officedocument.wordprocessingml.document", res.ContentType)

	zr, err := zip.NewReader(bytes.NewReader(res.Data), int64(len(res.Data)))
	require.NoError(t, err)

	var names []string
	var documentXML string
	for _, f := range zr.File {
		names = append(names, f.Name)
		if f.Name == "word/document.xml" {
			rc, err := f.Open()
			require.NoError(t, err)
			raw, err := io.ReadAll(rc)
			require.NoError(t, err)
			_ = rc.Close()
			documentXML = string(raw)
		}
	}

	assert.Contains(t, names, "[Content_Types].xml")
	assert.Contains(t, names, "_rels/.rels")
	assert.Contains(t, names, "word/styles.xml")
	require.NotEmpty(t, documentXML, "document.xml missing from package")

	// Title heading renders the unsanitized title text.
	assert.Contains(t, documentXML, ">Intro to Go</w:t>")
	assert.Contains(t, documentXML, "by A. Dev")
	// Run-level classification survives: bold red language keyword.
	assert.Contains(t, documentXML, `<w:b/><w:color w:val="FF0000"/>`)
	assert.Contains(t, documentXML, `<w:color w:val="008000"/>`)
	// Code renders in a monospace run.
	assert.Contains(t, documentXML, `Courier New`)
	// Centered footer with the fixed label.
	assert.Contains(t, documentXML, "Generated by BookForge at ")
}

func TestDOCXEscapesMarkup(t *testing.T) {
	doc := markup.Transform("Beware of **<w:evil>** & friends.")
	data, err := RenderDOCX(doc, testMeta)
	require.NoError(t, err)

	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	require.NoError(t, err)
	for _, f := range zr.File {
		if f.Name != "word/document.xml" {
			continue
		}
		rc, err := f.Open()
		require.NoError(t, err)
		raw, err := io.ReadAll(rc)
		require.NoError(t, err)
		_ = rc.Close()
		assert.NotContains(t, string(raw), "<w:evil>")
		assert.Contains(t, string(raw), "&lt;w:evil&gt;")
	}
}

func TestExportEPUB(t *testing.T) {
	doc := markup.Transform(testContent)
	res, err := Export(FormatEPUB, doc, testMeta)
	require.NoError(t, err)

	assert.Equal(t, "IntrotoGo.epub", res.Filename)
	assert.Equal(t, "application/epub+zip", res.ContentType)
	require.True(t, len(res.Data) > 4, "epub payload too small")
	assert.True(t, bytes.HasPrefix(res.Data, []byte("PK")), "epub must be a zip container")
}

func TestExportUnsupportedFormat(t *testing.T) {
	_, err := Export(Format("RTF"), markup.Document{}, testMeta)
	assert.ErrorIs(t, err, ErrUnsupportedFormat)
}

func TestSectionHTMLStripsShell(t *testing.T) {
	doc := markup.Transform("# Title\nbody text")
	section := sectionHTML(doc)
	assert.False(t, strings.Contains(section, "<html"), "section must not contain page shell")
	assert.False(t, strings.Contains(section, "<footer>"))
	assert.Contains(t, section, "<h1>Title</h1>")
}
