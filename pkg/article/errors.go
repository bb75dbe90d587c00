package article

import (
	"net/http"

	"github.com/Abraxas-365/aiwriter/pkg/errx"
)

var ErrRegistry = errx.NewRegistry("ARTICLE")

var (
	CodeNotFound          = ErrRegistry.Register("NOT_FOUND", errx.TypeNotFound, http.StatusNotFound, "Article not found")
	CodeDuplicateID       = ErrRegistry.Register("DUPLICATE_ID", errx.TypeConflict, http.StatusConflict, "Article id already exists")
	CodeNotReady          = ErrRegistry.Register("NOT_READY", errx.TypeBusiness, http.StatusBadRequest, "Article is not completed yet")
	CodeUnsupportedFormat = ErrRegistry.Register("UNSUPPORTED_FORMAT", errx.TypeValidation, http.StatusBadRequest, "Unsupported download format")
	CodeInvalidID         = ErrRegistry.Register("INVALID_ID", errx.TypeValidation, http.StatusBadRequest, "Article id is required")
	CodeInvalidTopic      = ErrRegistry.Register("INVALID_TOPIC", errx.TypeValidation, http.StatusBadRequest, "Topic must be 1 to 255 characters")
	CodeInvalidTier       = ErrRegistry.Register("INVALID_TIER", errx.TypeValidation, http.StatusBadRequest, "Tier must be one of A, B, C, D")
	CodeInvalidFormat     = ErrRegistry.Register("INVALID_FORMAT", errx.TypeValidation, http.StatusBadRequest, "Format must be one of markdown, pdf, html, social")
	CodeInvalidPagination = ErrRegistry.Register("INVALID_PAGINATION", errx.TypeValidation, http.StatusBadRequest, "Page must be >= 1 and limit between 1 and 100")
	CodeInvalidStatus     = ErrRegistry.Register("INVALID_STATUS", errx.TypeValidation, http.StatusBadRequest, "Unknown article status")
	CodeInvalidTransition = ErrRegistry.Register("INVALID_TRANSITION", errx.TypeBusiness, http.StatusConflict, "Status transition not allowed")
	CodeQueueFull         = ErrRegistry.Register("QUEUE_FULL", errx.TypeUnavailable, http.StatusServiceUnavailable, "Generation queue is full, try again later")
	CodeStoreFailure      = ErrRegistry.Register("STORE_FAILURE", errx.TypeInternal, http.StatusInternalServerError, "Article store failure")
	CodeProviderFailure   = ErrRegistry.Register("PROVIDER_FAILURE", errx.TypeExternal, http.StatusBadGateway, "Content provider failed")
	CodeStageTimeout      = ErrRegistry.Register("STAGE_TIMEOUT", errx.TypeExternal, http.StatusGatewayTimeout, "Pipeline stage timed out")
)

func ErrNotFound(id string) *errx.Error {
	return ErrRegistry.New(CodeNotFound).WithDetail("article_id", id)
}

func ErrDuplicateID(id string) *errx.Error {
	return ErrRegistry.New(CodeDuplicateID).WithDetail("article_id", id)
}

func ErrNotReady(id string, status Status) *errx.Error {
	return ErrRegistry.New(CodeNotReady).
		WithDetail("article_id", id).
		WithDetail("status", status)
}

func ErrUnsupportedFormat(format string) *errx.Error {
	return ErrRegistry.New(CodeUnsupportedFormat).WithDetail("format", format)
}

func ErrInvalidID() *errx.Error         { return ErrRegistry.New(CodeInvalidID) }
func ErrInvalidTopic() *errx.Error      { return ErrRegistry.New(CodeInvalidTopic) }
func ErrInvalidTier() *errx.Error       { return ErrRegistry.New(CodeInvalidTier) }
func ErrInvalidFormat() *errx.Error     { return ErrRegistry.New(CodeInvalidFormat) }
func ErrInvalidPagination() *errx.Error { return ErrRegistry.New(CodeInvalidPagination) }
func ErrInvalidStatus() *errx.Error     { return ErrRegistry.New(CodeInvalidStatus) }
func ErrQueueFull() *errx.Error         { return ErrRegistry.New(CodeQueueFull) }

func ErrInvalidTransition(id string, from, to Status) *errx.Error {
	return ErrRegistry.New(CodeInvalidTransition).
		WithDetail("article_id", id).
		WithDetail("from", from).
		WithDetail("to", to)
}

// ErrStoreFailure wraps a persistence error.
func ErrStoreFailure(op string, cause error) *errx.Error {
	return ErrRegistry.NewWithCause(CodeStoreFailure, cause).WithDetail("operation", op)
}

// ErrProviderFailure wraps a capability error raised during stage.
func ErrProviderFailure(stage Status, cause error) *errx.Error {
	return ErrRegistry.NewWithCause(CodeProviderFailure, cause).WithDetail("stage", stage)
}

func ErrStageTimeout(stage Status, cause error) *errx.Error {
	return ErrRegistry.NewWithCause(CodeStageTimeout, cause).WithDetail("stage", stage)
}
