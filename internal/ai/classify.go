package ai

import (
	"errors"
	"net/http"

	"github.com/sashabaranov/go-openai"
)

// FailureKind groups completion failures for diagnostics. Every kind degrades to
// the same fallback.
type FailureKind string

const (
	FailureConfig    FailureKind = "auth"
	FailureRateLimit FailureKind = "rate_limit"
	FailureUnknown   FailureKind = "unknown"
)

// Classify maps a completion error to its failure kind
func Classify(err error) FailureKind {
	if errors.Is(err, ErrNotConfigured) {
		return FailureConfig
	}

	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		if code, ok := apiErr.Code.(string); ok && code == "insufficient_quota" {
			return FailureRateLimit
		}
		return classifyStatus(apiErr.HTTPStatusCode)
	}

	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		return classifyStatus(reqErr.HTTPStatusCode)
	}

	return FailureUnknown
}

func classifyStatus(status int) FailureKind {
	switch status {
	case http.StatusUnauthorized, http.StatusForbidden:
		return FailureConfig
	case http.StatusTooManyRequests:
		return FailureRateLimit
	default:
		return FailureUnknown
	}
}
