package generate

import (
	"fmt"
	"strings"
)

// BuildPrompt assembles the instruction string sent to the content provider.
// Pure string formatting: the same BookSpec always yields a byte-identical
// prompt. Callers must validate the spec first; missing fields are embedded
// as-is, never rejected here.
func BuildPrompt(spec BookSpec) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "Create a comprehensive programming book titled %q by %s.\n\n", spec.Title, spec.Author)

	sb.WriteString("BOOK SPECIFICATIONS:\n")
	fmt.Fprintf(&sb, "- Programming Language: %s\n", spec.Language)
	fmt.Fprintf(&sb, "- Difficulty Level: %s\n", spec.Level)
	fmt.Fprintf(&sb, "- Writing Style: %s\n", spec.Style)
	fmt.Fprintf(&sb, "- Tone: %s\n", spec.Tone)
	fmt.Fprintf(&sb, "- Learning Goals: %s\n", spec.Goals)
	fmt.Fprintf(&sb, "- Target Length: Approximately %d pages\n", spec.NumberOfPages)

	sb.WriteString("\nTOPICS TO COVER:\n")
	for i, topic := range spec.Topics {
		fmt.Fprintf(&sb, "%d. %s\n", i+1, topic)
	}

	sb.WriteString("\nREQUIREMENTS:\n")
	fmt.Fprintf(&sb, "- Include %d practical examples per topic\n", spec.ExamplesPerTopic)
	fmt.Fprintf(&sb, "- Target approximately %d pages total\n", spec.NumberOfPages)
	if spec.IncludeTableOfContents {
		sb.WriteString("- Include a detailed table of contents\n")
	} else {
		sb.WriteString("- No table of contents needed\n")
	}
	if spec.IncludeExercises {
		sb.WriteString("- Include practice exercises and challenges\n")
	} else {
		sb.WriteString("- No exercises needed\n")
	}
	if spec.CodeExplanation {
		sb.WriteString("- Provide detailed explanations for all code examples\n")
	} else {
		sb.WriteString("- Minimal code explanations\n")
	}
	fmt.Fprintf(&sb, "- Use a %s tone throughout\n", strings.ToLower(string(spec.Tone)))
	fmt.Fprintf(&sb, "- Make content engaging and practical for %s level learners\n", strings.ToLower(string(spec.Level)))

	sb.WriteString("\nSTRUCTURE:\n")
	sb.WriteString("1. Introduction and setup\n")
	sb.WriteString("2. Each topic with examples and explanations\n")
	if spec.IncludeExercises {
		sb.WriteString("3. Practice exercises for each topic\n")
		sb.WriteString("4. Summary and next steps\n")
	} else {
		sb.WriteString("3. Summary and next steps\n")
	}

	fmt.Fprintf(&sb, "\nPlease generate the complete book content following these specifications. "+
		"Make it comprehensive, well-structured, and ready for publication. "+
		"The content should be approximately %d pages long.\n", spec.NumberOfPages)

	return sb.String()
}
