package aianthropic

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/Abraxas-365/aiwriter/pkg/errx"
	"github.com/anthropics/anthropic-sdk-go"
)

var (
	errorRegistry = errx.NewRegistry("ANTHROPIC")

	ErrAPIRequest            = errorRegistry.Register("API_REQUEST_FAILED", errx.TypeExternal, http.StatusBadGateway, "Failed to make request to Anthropic API")
	ErrAPIUnauthorized       = errorRegistry.Register("API_UNAUTHORIZED", errx.TypeExternal, http.StatusBadGateway, "Invalid or missing Anthropic API key")
	ErrAPIRateLimit          = errorRegistry.Register("API_RATE_LIMIT", errx.TypeExternal, http.StatusTooManyRequests, "Anthropic API rate limit exceeded")
	ErrAPIOverloaded         = errorRegistry.Register("API_OVERLOADED", errx.TypeExternal, http.StatusServiceUnavailable, "Anthropic API is overloaded")
	ErrModelNotFound         = errorRegistry.Register("MODEL_NOT_FOUND", errx.TypeExternal, http.StatusBadGateway, "Requested model not found or not accessible")
	ErrContextLengthExceeded = errorRegistry.Register("CONTEXT_LENGTH_EXCEEDED", errx.TypeExternal, http.StatusBadGateway, "Prompt exceeds model context window")
	ErrTimeout               = errorRegistry.Register("TIMEOUT", errx.TypeExternal, http.StatusGatewayTimeout, "Anthropic API call timed out")
	ErrEmptyMessages         = errorRegistry.Register("EMPTY_MESSAGES", errx.TypeValidation, http.StatusBadRequest, "Messages array cannot be empty")
	ErrMissingAPIKey         = errorRegistry.Register("MISSING_API_KEY", errx.TypeValidation, http.StatusBadRequest, "Anthropic API key is required")
	ErrEmptyResponse         = errorRegistry.Register("EMPTY_RESPONSE", errx.TypeExternal, http.StatusBadGateway, "Anthropic response contained no text")
)

func ParseAnthropicError(err error) *errx.Error {
	if err == nil {
		return nil
	}

	var custom *errx.Error
	if errors.As(err, &custom) {
		return custom
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return errorRegistry.NewWithCause(ErrTimeout, err)
	}

	var apiErr *anthropic.Error
	if errors.As(err, &apiErr) {
		switch apiErr.StatusCode {
		case http.StatusUnauthorized, http.StatusForbidden:
			return errorRegistry.NewWithCause(ErrAPIUnauthorized, err)
		case http.StatusTooManyRequests:
			return errorRegistry.NewWithCause(ErrAPIRateLimit, err)
		case http.StatusNotFound:
			return errorRegistry.NewWithCause(ErrModelNotFound, err)
		case 529:
			return errorRegistry.NewWithCause(ErrAPIOverloaded, err)
		}
	}

	lower := strings.ToLower(err.Error())
	var code *errx.ErrorCode
	switch {
	case strings.Contains(lower, "authentication") || strings.Contains(lower, "x-api-key"):
		code = ErrAPIUnauthorized
	case strings.Contains(lower, "rate limit") || strings.Contains(lower, "rate_limit"):
		code = ErrAPIRateLimit
	case strings.Contains(lower, "overloaded"):
		code = ErrAPIOverloaded
	case strings.Contains(lower, "prompt is too long") || strings.Contains(lower, "context"):
		code = ErrContextLengthExceeded
	default:
		code = ErrAPIRequest
	}
	return errorRegistry.NewWithCause(code, err)
}
