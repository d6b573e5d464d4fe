package repository

import (
	"context"
	"errors"
)

// Provider failure classes. The HTTP layer and the book record both surface
// these with distinct user-facing messages; none are retried automatically.
var (
	ErrQuotaExhausted = errors.New("provider quota exhausted")
	ErrRateLimited    = errors.New("provider rate limited")
)

// GenerationResult carries the generated text plus the provider's usage metadata.
type GenerationResult struct {
	Content      string
	Model        string
	PromptTokens int32
	OutputTokens int32
	TotalTokens  int32
}

// LLMClient defines the interface for generating book text from a prompt.
type LLMClient interface {
	GenerateBook(ctx context.Context, prompt string) (*GenerationResult, error)
	Name() string
}

// UserMessage maps a generation error to the message shown to the requesting
// user and recorded on the failed book.
func UserMessage(err error) string {
	switch {
	case errors.Is(err, ErrQuotaExhausted):
		return "The content provider's quota is exhausted. Please try again later."
	case errors.Is(err, ErrRateLimited):
		return "The content provider is rate limiting requests. Please retry in a moment."
	default:
		return "Book generation failed. Please resubmit the request."
	}
}
