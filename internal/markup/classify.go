package markup

import "strings"

// Color is an RRGGBB hex value without the leading '#'. Exporters prepend
// whatever prefix their format needs.
type Color string

const (
	ColorRed    Color = "FF0000" // language keywords
	ColorGreen  Color = "008000" // advisory keywords
	ColorPurple Color = "800080" // complexity keywords
	ColorOrange Color = "FFA500" // failure keywords
	ColorSlate  Color = "2F4F4F" // bold default
	ColorBlack  Color = "000000" // plain text
)

type colorRule struct {
	keywords []string
	color    Color
}

// colorRules is evaluated in order; the first category containing a keyword
// of the span wins. Ordering is the precedence contract, do not sort.
var colorRules = []colorRule{
	{
		keywords: []string{
			"function", "class", "method", "variable", "object", "array",
			"string", "number", "boolean", "null", "undefined",
			"const", "let", "var",
		},
		color: ColorRed,
	},
	{
		keywords: []string{
			"best practice", "tip", "recommendation", "guideline",
			"important", "note", "warning", "caution",
		},
		color: ColorGreen,
	},
	{
		keywords: []string{
			"advanced", "complex", "optimization", "performance",
			"algorithm", "pattern", "architecture", "design",
		},
		color: ColorPurple,
	},
	{
		keywords: []string{
			"error", "exception", "bug", "fail", "crash", "invalid",
		},
		color: ColorOrange,
	},
}

// Classify picks the color for a bold span from its own text,
// case-insensitively. A span matching no category is still bold, in the
// default slate, never plain.
func Classify(span string) Color {
	lower := strings.ToLower(span)
	for _, rule := range colorRules {
		for _, kw := range rule.keywords {
			if strings.Contains(lower, kw) {
				return rule.color
			}
		}
	}
	return ColorSlate
}
