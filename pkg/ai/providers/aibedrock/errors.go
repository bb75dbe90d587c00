package aibedrock

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/Abraxas-365/aiwriter/pkg/errx"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime/types"
)

var (
	errorRegistry = errx.NewRegistry("BEDROCK")

	ErrAPIRequest            = errorRegistry.Register("API_REQUEST_FAILED", errx.TypeExternal, http.StatusBadGateway, "Failed to make request to Bedrock")
	ErrAPIResponse           = errorRegistry.Register("API_RESPONSE_INVALID", errx.TypeExternal, http.StatusBadGateway, "Invalid response from Bedrock")
	ErrAPIUnauthorized       = errorRegistry.Register("API_UNAUTHORIZED", errx.TypeExternal, http.StatusBadGateway, "Access to the Bedrock model was denied")
	ErrAPIRateLimit          = errorRegistry.Register("API_RATE_LIMIT", errx.TypeExternal, http.StatusTooManyRequests, "Bedrock request was throttled")
	ErrModelNotFound         = errorRegistry.Register("MODEL_NOT_FOUND", errx.TypeExternal, http.StatusBadGateway, "Requested model not found or not enabled")
	ErrContextLengthExceeded = errorRegistry.Register("CONTEXT_LENGTH_EXCEEDED", errx.TypeExternal, http.StatusBadGateway, "Input is too long for the model")
	ErrInvalidRequest        = errorRegistry.Register("INVALID_REQUEST", errx.TypeExternal, http.StatusBadGateway, "Bedrock rejected the request")
	ErrTimeout               = errorRegistry.Register("TIMEOUT", errx.TypeExternal, http.StatusGatewayTimeout, "Bedrock call timed out")
	ErrEmptyMessages         = errorRegistry.Register("EMPTY_MESSAGES", errx.TypeValidation, http.StatusBadRequest, "Messages array cannot be empty")
)

func ParseBedrockError(err error) *errx.Error {
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

	var (
		accessDenied *types.AccessDeniedException
		throttled    *types.ThrottlingException
		notFound     *types.ResourceNotFoundException
		validation   *types.ValidationException
		modelTimeout *types.ModelTimeoutException
	)
	switch {
	case errors.As(err, &accessDenied):
		return errorRegistry.NewWithCause(ErrAPIUnauthorized, err)
	case errors.As(err, &throttled):
		return errorRegistry.NewWithCause(ErrAPIRateLimit, err)
	case errors.As(err, &notFound):
		return errorRegistry.NewWithCause(ErrModelNotFound, err)
	case errors.As(err, &modelTimeout):
		return errorRegistry.NewWithCause(ErrTimeout, err)
	case errors.As(err, &validation):
		if strings.Contains(strings.ToLower(validation.ErrorMessage()), "too long") {
			return errorRegistry.NewWithCause(ErrContextLengthExceeded, err)
		}
		return errorRegistry.NewWithCause(ErrInvalidRequest, err)
	}

	lower := strings.ToLower(err.Error())
	switch {
	case strings.Contains(lower, "credentials") || strings.Contains(lower, "access denied"):
		return errorRegistry.NewWithCause(ErrAPIUnauthorized, err)
	case strings.Contains(lower, "throttl"):
		return errorRegistry.NewWithCause(ErrAPIRateLimit, err)
	default:
		return errorRegistry.NewWithCause(ErrAPIRequest, err)
	}
}
