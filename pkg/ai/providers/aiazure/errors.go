package aiazure

import (
	"net/http"

	"github.com/Abraxas-365/aiwriter/pkg/ai/providers/aiopenai"
	"github.com/Abraxas-365/aiwriter/pkg/errx"
)

var (
	errorRegistry = errx.NewRegistry("AZURE")

	ErrMissingEndpoint   = errorRegistry.Register("MISSING_ENDPOINT", errx.TypeValidation, http.StatusBadRequest, "Azure OpenAI endpoint is required")
	ErrMissingDeployment = errorRegistry.Register("MISSING_DEPLOYMENT", errx.TypeValidation, http.StatusBadRequest, "Azure OpenAI deployment name is required")
	ErrAPIRequest        = errorRegistry.Register("API_REQUEST_FAILED", errx.TypeExternal, http.StatusBadGateway, "Azure OpenAI request failed")
)

// ParseAzureError keeps the OpenAI classification and adds the Azure code on top.
func ParseAzureError(err error) *errx.Error {
	if err == nil {
		return nil
	}
	return errorRegistry.NewWithCause(ErrAPIRequest, aiopenai.ParseOpenAIError(err))
}
