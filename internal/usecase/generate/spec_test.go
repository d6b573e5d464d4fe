package generate

import (
	"errors"
	"testing"
)

func TestValidateValidSpec(t *testing.T) {
	spec := validSpec()
	spec.Normalize()
	if err := spec.Validate(); err != nil {
		t.Errorf("expected valid spec, got %v", err)
	}
}

func TestValidateFieldErrors(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*BookSpec)
		field  string
	}{
		{"missing title", func(s *BookSpec) { s.Title = "  " }, "title"},
		{"missing author", func(s *BookSpec) { s.Author = "" }, "author"},
		{"missing language", func(s *BookSpec) { s.Language = "" }, "language"},
		{"missing style", func(s *BookSpec) { s.Style = "" }, "style"},
		{"missing goals", func(s *BookSpec) { s.Goals = "" }, "goals"},
		{"bad level", func(s *BookSpec) { s.Level = "Wizard" }, "level"},
		{"bad tone", func(s *BookSpec) { s.Tone = "Sarcastic" }, "tone"},
		{"blank topics", func(s *BookSpec) { s.Topics = []string{" ", "\t"} }, "topics"},
		{"no topics", func(s *BookSpec) { s.Topics = nil }, "topics"},
		{"examples too low", func(s *BookSpec) { s.ExamplesPerTopic = 0 }, "examplesPerTopic"},
		{"examples too high", func(s *BookSpec) { s.ExamplesPerTopic = 11 }, "examplesPerTopic"},
		{"pages too low", func(s *BookSpec) { s.NumberOfPages = 9 }, "numberOfPages"},
		{"pages too high", func(s *BookSpec) { s.NumberOfPages = 501 }, "numberOfPages"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			spec := validSpec()
			tc.mutate(&spec)
			spec.Normalize()

			err := spec.Validate()
			if err == nil {
				t.Fatal("expected validation error")
			}
			var verr *ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("expected *ValidationError, got %T", err)
			}
			if verr.Field != tc.field {
				t.Errorf("expected field %q, got %q", tc.field, verr.Field)
			}
		})
	}
}

func TestNormalizeTrimsTopics(t *testing.T) {
	spec := validSpec()
	spec.Topics = []string{"  Syntax ", "", "Goroutines", "   "}
	spec.Normalize()

	if len(spec.Topics) != 2 {
		t.Fatalf("expected 2 topics, got %d: %v", len(spec.Topics), spec.Topics)
	}
	if spec.Topics[0] != "Syntax" || spec.Topics[1] != "Goroutines" {
		t.Errorf("unexpected topics: %v", spec.Topics)
	}
}
