package export

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/bookforge/bookforge-api/internal/markup"
	epub "github.com/go-shiori/go-epub"
)

// RenderEPUB builds an EPUB from the same rendered HTML the print export
// uses, with the page shell stripped so only the content section remains.
func RenderEPUB(doc markup.Document, meta Meta) ([]byte, error) {
	e, err := epub.NewEpub(meta.Title)
	if err != nil {
		return nil, fmt.Errorf("failed to create epub: %w", err)
	}
	e.SetAuthor(meta.Author)
	e.SetLang("en")
	e.SetDescription(fmt.Sprintf("A %s level book about %s.", meta.Level, meta.Language))

	if _, err := e.AddSection(sectionHTML(doc), meta.Title, "", ""); err != nil {
		return nil, fmt.Errorf("failed to add epub section: %w", err)
	}

	// go-epub writes to a path, so stage through a temp file.
	tmpDir, err := os.MkdirTemp("", "bookforge-epub-*")
	if err != nil {
		return nil, fmt.Errorf("failed to create temp dir: %w", err)
	}
	defer func() { _ = os.RemoveAll(tmpDir) }()

	outPath := filepath.Join(tmpDir, SanitizeFilename(meta.Title)+".epub")
	if err := e.Write(outPath); err != nil {
		return nil, fmt.Errorf("failed to write epub file: %w", err)
	}

	data, err := os.ReadFile(outPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read epub file: %w", err)
	}
	return data, nil
}

// sectionHTML renders only the content markup, without the print page shell.
func sectionHTML(doc markup.Document) string {
	full := string(RenderHTML(doc, Meta{}))
	if i := strings.Index(full, "</header>"); i >= 0 {
		full = full[i+len("</header>"):]
	}
	if i := strings.Index(full, "<footer>"); i >= 0 {
		full = full[:i]
	}
	return strings.TrimSpace(full)
}
