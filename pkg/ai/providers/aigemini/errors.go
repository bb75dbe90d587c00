package aigemini

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/Abraxas-365/aiwriter/pkg/errx"
	"google.golang.org/genai"
)

var (
	errorRegistry = errx.NewRegistry("GEMINI")

	ErrClientInit      = errorRegistry.Register("CLIENT_INIT_FAILED", errx.TypeInternal, http.StatusInternalServerError, "Failed to create Gemini client")
	ErrAPIRequest      = errorRegistry.Register("API_REQUEST_FAILED", errx.TypeExternal, http.StatusBadGateway, "Failed to make request to Gemini API")
	ErrAPIResponse     = errorRegistry.Register("API_RESPONSE_INVALID", errx.TypeExternal, http.StatusBadGateway, "Invalid response from Gemini API")
	ErrAPIUnauthorized = errorRegistry.Register("API_UNAUTHORIZED", errx.TypeExternal, http.StatusBadGateway, "Invalid or missing Gemini API key")
	ErrAPIRateLimit    = errorRegistry.Register("API_RATE_LIMIT", errx.TypeExternal, http.StatusTooManyRequests, "Gemini API rate limit exceeded")
	ErrModelNotFound   = errorRegistry.Register("MODEL_NOT_FOUND", errx.TypeExternal, http.StatusBadGateway, "Requested model not found or not accessible")
	ErrBlocked         = errorRegistry.Register("CONTENT_BLOCKED", errx.TypeExternal, http.StatusBadGateway, "Response blocked by Gemini safety filters")
	ErrTimeout         = errorRegistry.Register("TIMEOUT", errx.TypeExternal, http.StatusGatewayTimeout, "Gemini API call timed out")
	ErrEmptyMessages   = errorRegistry.Register("EMPTY_MESSAGES", errx.TypeValidation, http.StatusBadRequest, "Messages array cannot be empty")
	ErrNoImage         = errorRegistry.Register("NO_IMAGE", errx.TypeExternal, http.StatusBadGateway, "No image in Gemini response")
)

func ParseGeminiError(err error) *errx.Error {
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

	var apiErr genai.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.Code {
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
	case strings.Contains(lower, "api key") || strings.Contains(lower, "permission denied"):
		code = ErrAPIUnauthorized
	case strings.Contains(lower, "resource exhausted") || strings.Contains(lower, "resource_exhausted") || strings.Contains(lower, "quota"):
		code = ErrAPIRateLimit
	case strings.Contains(lower, "not found"):
		code = ErrModelNotFound
	default:
		code = ErrAPIRequest
	}
	return errorRegistry.NewWithCause(code, err)
}
