// Package export turns a markup.Document plus book metadata into a
// downloadable payload. Three formats are supported: a print-oriented HTML
// page (the "PDF" the browser prints), a DOCX package, and an EPUB.
package export

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/bookforge/bookforge-api/internal/markup"
)

type Format string

const (
	FormatPDF  Format = "PDF"
	FormatDOCX Format = "DOCX"
	FormatEPUB Format = "EPUB"
)

var ErrUnsupportedFormat = errors.New("unsupported export format")

// ParseFormat normalizes a user-supplied format string.
func ParseFormat(s string) (Format, error) {
	switch Format(strings.ToUpper(strings.TrimSpace(s))) {
	case FormatPDF:
		return FormatPDF, nil
	case FormatDOCX:
		return FormatDOCX, nil
	case FormatEPUB:
		return FormatEPUB, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, s)
	}
}

// Meta carries the book metadata rendered into every export.
type Meta struct {
	Title         string
	Author        string
	Language      string
	Level         string
	NumberOfPages int
	CreatedAt     time.Time
}

// Result is a finished download payload.
type Result struct {
	Data        []byte
	Filename    string
	ContentType string
}

// Export renders doc in the requested format.
func Export(format Format, doc markup.Document, meta Meta) (*Result, error) {
	switch format {
	case FormatPDF:
		data := RenderHTML(doc, meta)
		return &Result{
			Data:        data,
			Filename:    SanitizeFilename(meta.Title) + ".html",
			ContentType: "text/html; charset=utf-8",
		}, nil
	case FormatDOCX:
		data, err := RenderDOCX(doc, meta)
		if err != nil {
			return nil, err
		}
		return &Result{
			Data:        data,
			Filename:    SanitizeFilename(meta.Title) + ".docx",
			ContentType: "application/vnd.openxmlformats-officedocument.wordprocessingml.document",
		}, nil
	case FormatEPUB:
		data, err := RenderEPUB(doc, meta)
		if err != nil {
			return nil, err
		}
		return &Result{
			Data:        data,
			Filename:    SanitizeFilename(meta.Title) + ".epub",
			ContentType: "application/epub+zip",
		}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}
}
