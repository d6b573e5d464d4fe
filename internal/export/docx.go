package export

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"fmt"
	"strings"
	"time"

	"github.com/bookforge/bookforge-api/internal/markup"
)

// DOCX assembly. A .docx file is a zip with a content-types part, a package
// relationship part, a style part and the document body. The body is built
// run by run so the classifier's bold/color decisions survive verbatim.

const docxContentTypes = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<Types xmlns="http://schemas.openxmlformats.org/package/2006/content-types">
<Default Extension="rels" ContentType="application/vnd.openxmlformats-package.relationships+xml"/>
<Default Extension="xml" ContentType="application/xml"/>
<Override PartName="/word/document.xml" ContentType="application/vnd.openxmlformats-officedocument.wordprocessingml.document.main+xml"/>
<Override PartName="/word/styles.xml" ContentType="application/vnd.openxmlformats-officedocument.wordprocessingml.styles+xml"/>
</Types>`

const docxRels = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships">
<Relationship Id="rId1" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/officeDocument" Target="word/document.xml"/>
</Relationships>`

const docxDocumentRels = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships">
<Relationship Id="rId1" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/styles" Target="styles.xml"/>
</Relationships>`

const docxStyles = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<w:styles xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main">
<w:style w:type="paragraph" w:styleId="Heading1"><w:name w:val="heading 1"/><w:pPr><w:spacing w:before="360" w:after="120"/></w:pPr><w:rPr><w:b/><w:sz w:val="36"/></w:rPr></w:style>
<w:style w:type="paragraph" w:styleId="Heading2"><w:name w:val="heading 2"/><w:pPr><w:spacing w:before="280" w:after="100"/></w:pPr><w:rPr><w:b/><w:sz w:val="30"/></w:rPr></w:style>
<w:style w:type="paragraph" w:styleId="Heading3"><w:name w:val="heading 3"/><w:pPr><w:spacing w:before="240" w:after="80"/></w:pPr><w:rPr><w:b/><w:sz w:val="26"/></w:rPr></w:style>
</w:styles>`

const docxFooterLabel = "Generated by BookForge"

// RenderDOCX serializes the document to DOCX bytes.
func RenderDOCX(doc markup.Document, meta Meta) ([]byte, error) {
	var body strings.Builder

	body.WriteString(`<?xml version="1.0" encoding="UTF-8" standalone="yes"?>`)
	body.WriteString(`<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main"><w:body>`)

	// Centered title, italic centered author line, metadata paragraph.
	writePara(&body, `<w:pPr><w:jc w:val="center"/></w:pPr>`,
		docxRun(meta.Title, `<w:b/><w:sz w:val="56"/>`))
	writePara(&body, `<w:pPr><w:jc w:val="center"/></w:pPr>`,
		docxRun("by "+meta.Author, `<w:i/><w:sz w:val="32"/>`))
	metaLine := fmt.Sprintf("%s | %s | %d pages | created %s",
		meta.Language, meta.Level, meta.NumberOfPages, meta.CreatedAt.Format("2006-01-02"))
	writePara(&body, `<w:pPr><w:jc w:val="center"/></w:pPr>`,
		docxRun(metaLine, `<w:color w:val="555555"/><w:sz w:val="20"/>`))

	for _, b := range doc.Blocks {
		switch b.Kind {
		case markup.BlockHeading:
			level := b.Level
			if level > 3 {
				level = 3
			}
			writePara(&body, fmt.Sprintf(`<w:pPr><w:pStyle w:val="Heading%d"/></w:pPr>`, level),
				docxRun(b.Text, ""))
		case markup.BlockCode:
			var runs strings.Builder
			for i, line := range strings.Split(b.Text, "\n") {
				if i > 0 {
					runs.WriteString(`<w:r><w:br/></w:r>`)
				}
				runs.WriteString(docxRun(line, `<w:rFonts w:ascii="Courier New" w:hAnsi="Courier New"/><w:sz w:val="20"/>`))
			}
			writePara(&body, "", runs.String())
		case markup.BlockText:
			var runs strings.Builder
			for _, s := range b.Spans {
				var props string
				if s.Bold {
					props = fmt.Sprintf(`<w:b/><w:color w:val="%s"/>`, s.Color)
				}
				runs.WriteString(docxRun(s.Text, props))
			}
			writePara(&body, "", runs.String())
		}
	}

	// Centered footer: fixed label plus ISO-8601 generation timestamp.
	footer := fmt.Sprintf("%s at %s", docxFooterLabel, time.Now().UTC().Format(time.RFC3339))
	writePara(&body, `<w:pPr><w:jc w:val="center"/></w:pPr>`,
		docxRun(footer, `<w:i/><w:color w:val="777777"/><w:sz w:val="18"/>`))

	body.WriteString(`</w:body></w:document>`)

	return zipDocx(body.String())
}

func writePara(sb *strings.Builder, props, runs string) {
	sb.WriteString("<w:p>")
	sb.WriteString(props)
	sb.WriteString(runs)
	sb.WriteString("</w:p>")
}

func docxRun(text, props string) string {
	var sb strings.Builder
	sb.WriteString("<w:r>")
	if props != "" {
		sb.WriteString("<w:rPr>")
		sb.WriteString(props)
		sb.WriteString("</w:rPr>")
	}
	sb.WriteString(`<w:t xml:space="preserve">`)
	sb.WriteString(xmlEscape(text))
	sb.WriteString("</w:t></w:r>")
	return sb.String()
}

func xmlEscape(s string) string {
	var buf bytes.Buffer
	_ = xml.EscapeText(&buf, []byte(s))
	return buf.String()
}

func zipDocx(documentXML string) ([]byte, error) {
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)

	parts := []struct {
		name    string
		content string
	}{
		{"[Content_Types].xml", docxContentTypes},
		{"_rels/.rels", docxRels},
		{"word/_rels/document.xml.rels", docxDocumentRels},
		{"word/styles.xml", docxStyles},
		{"word/document.xml", documentXML},
	}

	for _, p := range parts {
		w, err := zw.Create(p.name)
		if err != nil {
			return nil, fmt.Errorf("failed to create docx part %s: %w", p.name, err)
		}
		if _, err := w.Write([]byte(p.content)); err != nil {
			return nil, fmt.Errorf("failed to write docx part %s: %w", p.name, err)
		}
	}

	if err := zw.Close(); err != nil {
		return nil, fmt.Errorf("failed to finalize docx package: %w", err)
	}
	return buf.Bytes(), nil
}
