package llm

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/bookforge/bookforge-api/internal/domain/repository"
	"google.golang.org/api/googleapi"
)

// classifyProviderError maps a provider failure onto the domain's error
// taxonomy. Quota exhaustion and rate limiting both surface as HTTP 429 from
// Google's APIs; the message distinguishes them.
func classifyProviderError(err error) error {
	var gerr *googleapi.Error
	if errors.As(err, &gerr) {
		switch gerr.Code {
		case http.StatusTooManyRequests:
			if mentionsQuota(gerr.Message) {
				return fmt.Errorf("%w: %v", repository.ErrQuotaExhausted, err)
			}
			return fmt.Errorf("%w: %v", repository.ErrRateLimited, err)
		}
	}

	msg := strings.ToLower(err.Error())
	switch {
	case mentionsQuota(msg):
		return fmt.Errorf("%w: %v", repository.ErrQuotaExhausted, err)
	case strings.Contains(msg, "rate limit") || strings.Contains(msg, "resource has been exhausted"):
		return fmt.Errorf("%w: %v", repository.ErrRateLimited, err)
	default:
		return fmt.Errorf("generation failed: %w", err)
	}
}

func mentionsQuota(msg string) bool {
	lower := strings.ToLower(msg)
	return strings.Contains(lower, "quota") || strings.Contains(lower, "billing")
}

// classifyHTTPStatus maps a plain HTTP status from a provider (Ollama) onto
// the same taxonomy.
func classifyHTTPStatus(status int, body string) error {
	base := fmt.Errorf("provider returned status %d: %s", status, body)
	if status == http.StatusTooManyRequests {
		if mentionsQuota(body) {
			return fmt.Errorf("%w: %v", repository.ErrQuotaExhausted, base)
		}
		return fmt.Errorf("%w: %v", repository.ErrRateLimited, base)
	}
	return base
}
