package notifx

import "github.com/Abraxas-365/aiwriter/pkg/errx"

var ErrRegistry = errx.NewRegistry("NOTIFX")

var (
	CodeSendFailed       = ErrRegistry.Register("SEND_FAILED", errx.TypeExternal, 0, "Failed to send email")
	CodeInvalidMessage   = ErrRegistry.Register("INVALID_MESSAGE", errx.TypeValidation, 0, "Invalid email message")
	CodeTemplateNotFound = ErrRegistry.Register("TEMPLATE_NOT_FOUND", errx.TypeInternal, 0, "Email template not found")
	CodeTemplateParse    = ErrRegistry.Register("TEMPLATE_PARSE", errx.TypeInternal, 0, "Failed to parse email template")
	CodeTemplateRender   = ErrRegistry.Register("TEMPLATE_RENDER", errx.TypeInternal, 0, "Failed to render email template")
)

func ErrInvalidMessage(reason string) *errx.Error {
	return ErrRegistry.New(CodeInvalidMessage).WithDetail("reason", reason)
}

func ErrSendFailed(provider string, cause error) *errx.Error {
	return ErrRegistry.NewWithCause(CodeSendFailed, cause).WithDetail("provider", provider)
}
