package aiopenai

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/Abraxas-365/aiwriter/pkg/errx"
	"github.com/openai/openai-go/v3"
)

var (
	errorRegistry = errx.NewRegistry("OPENAI")

	ErrAPIRequest            = errorRegistry.Register("API_REQUEST_FAILED", errx.TypeExternal, http.StatusBadGateway, "Failed to make request to OpenAI API")
	ErrAPIResponse           = errorRegistry.Register("API_RESPONSE_INVALID", errx.TypeExternal, http.StatusBadGateway, "Invalid response from OpenAI API")
	ErrAPIUnauthorized       = errorRegistry.Register("API_UNAUTHORIZED", errx.TypeExternal, http.StatusBadGateway, "Invalid or missing OpenAI API key")
	ErrAPIRateLimit          = errorRegistry.Register("API_RATE_LIMIT", errx.TypeExternal, http.StatusTooManyRequests, "OpenAI API rate limit exceeded")
	ErrModelNotFound         = errorRegistry.Register("MODEL_NOT_FOUND", errx.TypeExternal, http.StatusBadGateway, "Requested model not found or not accessible")
	ErrContextLengthExceeded = errorRegistry.Register("CONTEXT_LENGTH_EXCEEDED", errx.TypeExternal, http.StatusBadGateway, "Context length exceeds model maximum")
	ErrContentPolicy         = errorRegistry.Register("CONTENT_POLICY", errx.TypeExternal, http.StatusBadGateway, "Request rejected by OpenAI content policy")
	ErrTimeout               = errorRegistry.Register("TIMEOUT", errx.TypeExternal, http.StatusGatewayTimeout, "OpenAI API call timed out")
	ErrEmptyMessages         = errorRegistry.Register("EMPTY_MESSAGES", errx.TypeValidation, http.StatusBadRequest, "Messages array cannot be empty")
	ErrMissingAPIKey         = errorRegistry.Register("MISSING_API_KEY", errx.TypeValidation, http.StatusBadRequest, "OpenAI API key is required")
	ErrNoChoicesInResponse   = errorRegistry.Register("NO_CHOICES", errx.TypeExternal, http.StatusBadGateway, "No choices in OpenAI response")
	ErrNoImageInResponse     = errorRegistry.Register("NO_IMAGE", errx.TypeExternal, http.StatusBadGateway, "No image in OpenAI response")
)

// ParseOpenAIError classifies an SDK error. Status codes from *openai.Error
// take precedence over message matching.
func ParseOpenAIError(err error) *errx.Error {
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

	var apiErr *openai.Error
	if errors.As(err, &apiErr) {
		switch apiErr.StatusCode {
		case http.StatusUnauthorized, http.StatusForbidden:
			return errorRegistry.NewWithCause(ErrAPIUnauthorized, err)
		case http.StatusTooManyRequests:
			return errorRegistry.NewWithCause(ErrAPIRateLimit, err)
		case http.StatusNotFound:
			return errorRegistry.NewWithCause(ErrModelNotFound, err)
		}
	}

	lower := strings.ToLower(err.Error())
	var code *errx.ErrorCode
	switch {
	case strings.Contains(lower, "unauthorized") || strings.Contains(lower, "api key"):
		code = ErrAPIUnauthorized
	case strings.Contains(lower, "rate limit") || strings.Contains(lower, "rate_limit") || strings.Contains(lower, "quota"):
		code = ErrAPIRateLimit
	case strings.Contains(lower, "model") && strings.Contains(lower, "not found"):
		code = ErrModelNotFound
	case strings.Contains(lower, "context length") || strings.Contains(lower, "maximum context"):
		code = ErrContextLengthExceeded
	case strings.Contains(lower, "content_policy") || strings.Contains(lower, "safety system"):
		code = ErrContentPolicy
	default:
		code = ErrAPIRequest
	}
	return errorRegistry.NewWithCause(code, err)
}
