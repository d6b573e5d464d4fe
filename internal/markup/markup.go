// Package markup converts raw generated book text into a structured
// block/run representation shared by every export format.
//
// The input is line oriented: a run of leading '#' marks a heading of that
// depth, a ``` fence delimits verbatim code, and **...** inside an ordinary
// line requests a bold run whose color comes from the keyword classifier.
package markup

import (
	"regexp"
	"strings"
)

type BlockKind int

const (
	BlockHeading BlockKind = iota
	BlockCode
	BlockText
)

// Span is a single styled run inside a text block.
type Span struct {
	Text  string
	Bold  bool
	Color Color
}

// Block is one element of a Document: a heading, a verbatim code block, or a
// text line made of styled spans.
type Block struct {
	Kind  BlockKind
	Level int    // heading depth, headings only
	Text  string // heading or code text
	Spans []Span // text blocks only
}

// Document is the ordered, transient representation of a book's content.
// It is never persisted; both exporters derive it on demand.
type Document struct {
	Blocks []Block
}

var (
	headingRe = regexp.MustCompile(`^(#+)\s*(.*)$`)
	boldRe    = regexp.MustCompile(`\*\*(.+?)\*\*`)
)

const fenceToken = "```"

// Transform parses raw content into a Document. It is deterministic and
// idempotent: the same input always yields an identical Document, and
// transforming a Document rendered back to text reproduces the structure.
func Transform(content string) Document {
	var doc Document

	lines := strings.Split(content, "\n")
	inCode := false
	var code []string

	for _, line := range lines {
		if strings.HasPrefix(strings.TrimSpace(line), fenceToken) {
			if inCode {
				doc.Blocks = append(doc.Blocks, Block{Kind: BlockCode, Text: strings.Join(code, "\n")})
				code = nil
			}
			inCode = !inCode
			continue
		}
		if inCode {
			code = append(code, line)
			continue
		}

		if strings.TrimSpace(line) == "" {
			continue
		}

		if m := headingRe.FindStringSubmatch(line); m != nil {
			doc.Blocks = append(doc.Blocks, Block{
				Kind:  BlockHeading,
				Level: len(m[1]),
				Text:  strings.TrimSpace(m[2]),
			})
			continue
		}

		doc.Blocks = append(doc.Blocks, Block{Kind: BlockText, Spans: splitSpans(line)})
	}

	// Unterminated fence: keep the collected lines rather than dropping them.
	if inCode && len(code) > 0 {
		doc.Blocks = append(doc.Blocks, Block{Kind: BlockCode, Text: strings.Join(code, "\n")})
	}

	return doc
}

// splitSpans scans a text line left to right for **...** spans. Text outside
// a span is a plain black run; text inside is bold with a classified color.
func splitSpans(line string) []Span {
	var spans []Span
	last := 0

	for _, loc := range boldRe.FindAllStringSubmatchIndex(line, -1) {
		if loc[0] > last {
			spans = append(spans, Span{Text: line[last:loc[0]], Color: ColorBlack})
		}
		inner := line[loc[2]:loc[3]]
		spans = append(spans, Span{Text: inner, Bold: true, Color: Classify(inner)})
		last = loc[1]
	}
	if last < len(line) {
		spans = append(spans, Span{Text: line[last:], Color: ColorBlack})
	}

	return spans
}

// Text renders the Document back to the line-oriented source form. The round
// trip Transform(doc.Text()) reproduces the same block structure.
func (d Document) Text() string {
	var sb strings.Builder

	for i, b := range d.Blocks {
		if i > 0 {
			sb.WriteString("\n")
		}
		switch b.Kind {
		case BlockHeading:
			sb.WriteString(strings.Repeat("#", b.Level))
			sb.WriteString(" ")
			sb.WriteString(b.Text)
		case BlockCode:
			sb.WriteString(fenceToken)
			sb.WriteString("\n")
			sb.WriteString(b.Text)
			sb.WriteString("\n")
			sb.WriteString(fenceToken)
		case BlockText:
			for _, s := range b.Spans {
				if s.Bold {
					sb.WriteString("**")
					sb.WriteString(s.Text)
					sb.WriteString("**")
				} else {
					sb.WriteString(s.Text)
				}
			}
		}
	}

	return sb.String()
}
