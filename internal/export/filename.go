package export

import "regexp"

var filenameRe = regexp.MustCompile(`[^A-Za-z0-9_]+`)

// SanitizeFilename strips every character outside [A-Za-z0-9_]. Stripped
// characters are removed, not replaced: "My Book: Part #1!" becomes
// "MyBookPart1".
func SanitizeFilename(title string) string {
	clean := filenameRe.ReplaceAllString(title, "")
	if clean == "" {
		return "book"
	}
	return clean
}
