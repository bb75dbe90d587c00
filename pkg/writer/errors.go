package writer

import (
	"net/http"

	"github.com/Abraxas-365/aiwriter/pkg/errx"
)

var ErrRegistry = errx.NewRegistry("WRITER")

var (
	CodeEmptyDraft       = ErrRegistry.Register("EMPTY_DRAFT", errx.TypeExternal, http.StatusBadGateway, "Model returned an empty article")
	CodeGenerationFailed = ErrRegistry.Register("GENERATION_FAILED", errx.TypeExternal, http.StatusBadGateway, "Article generation failed")
	CodeResearchFailed   = ErrRegistry.Register("RESEARCH_FAILED", errx.TypeExternal, http.StatusBadGateway, "Topic research failed")
)

func ErrEmptyDraft(topic string) *errx.Error {
	return ErrRegistry.New(CodeEmptyDraft).WithDetail("topic", topic)
}

func ErrGenerationFailed(cause error) *errx.Error {
	return ErrRegistry.NewWithCause(CodeGenerationFailed, cause)
}

func ErrResearchFailed(cause error) *errx.Error {
	return ErrRegistry.NewWithCause(CodeResearchFailed, cause)
}
