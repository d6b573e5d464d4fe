package generate

import (
	"fmt"
	"strings"
)

type Level string

const (
	LevelBeginner     Level = "Beginner"
	LevelIntermediate Level = "Intermediate"
	LevelAdvanced     Level = "Advanced"
	LevelExpert       Level = "Expert"
)

type Tone string

const (
	ToneFriendly     Tone = "Friendly"
	ToneProfessional Tone = "Professional"
	ToneAcademic     Tone = "Academic"
	ToneCasual       Tone = "Casual"
	ToneFormal       Tone = "Formal"
)

// BookSpec is the user-submitted description of the book to generate.
// Language is the programming language being taught, not a locale.
type BookSpec struct {
	Title                  string   `json:"title"`
	Author                 string   `json:"author"`
	Language               string   `json:"language"`
	Level                  Level    `json:"level"`
	Style                  string   `json:"style"`
	Tone                   Tone     `json:"tone"`
	Goals                  string   `json:"goals"`
	Topics                 []string `json:"topics"`
	ExamplesPerTopic       int      `json:"examplesPerTopic"`
	NumberOfPages          int      `json:"numberOfPages"`
	IncludeTableOfContents bool     `json:"includeTableOfContents"`
	IncludeExercises       bool     `json:"includeExercises"`
	CodeExplanation        bool     `json:"codeExplanation"`
	Format                 string   `json:"format"`
}

// ValidationError reports which field failed validation.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func invalid(field, message string) error {
	return &ValidationError{Field: field, Message: message}
}

// Normalize trims whitespace and drops blank topics. Call before Validate.
func (s *BookSpec) Normalize() {
	s.Title = strings.TrimSpace(s.Title)
	s.Author = strings.TrimSpace(s.Author)
	s.Language = strings.TrimSpace(s.Language)
	s.Style = strings.TrimSpace(s.Style)
	s.Goals = strings.TrimSpace(s.Goals)

	topics := s.Topics[:0]
	for _, t := range s.Topics {
		if trimmed := strings.TrimSpace(t); trimmed != "" {
			topics = append(topics, trimmed)
		}
	}
	s.Topics = topics
}

// Validate enforces the submission invariants: all string fields non-empty,
// topics non-empty after trimming, integers in range, enums known.
func (s *BookSpec) Validate() error {
	if s.Title == "" {
		return invalid("title", "title is required")
	}
	if s.Author == "" {
		return invalid("author", "author is required")
	}
	if s.Language == "" {
		return invalid("language", "programming language is required")
	}
	if s.Style == "" {
		return invalid("style", "writing style is required")
	}
	if s.Goals == "" {
		return invalid("goals", "learning goals are required")
	}

	switch s.Level {
	case LevelBeginner, LevelIntermediate, LevelAdvanced, LevelExpert:
	default:
		return invalid("level", fmt.Sprintf("unknown level %q", s.Level))
	}

	switch s.Tone {
	case ToneFriendly, ToneProfessional, ToneAcademic, ToneCasual, ToneFormal:
	default:
		return invalid("tone", fmt.Sprintf("unknown tone %q", s.Tone))
	}

	if len(s.Topics) == 0 {
		return invalid("topics", "at least one non-blank topic is required")
	}
	if s.ExamplesPerTopic < 1 || s.ExamplesPerTopic > 10 {
		return invalid("examplesPerTopic", "must be between 1 and 10")
	}
	if s.NumberOfPages < 10 || s.NumberOfPages > 500 {
		return invalid("numberOfPages", "must be between 10 and 500")
	}

	return nil
}
