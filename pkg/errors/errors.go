package errors

import "errors"

// Codes shared between the domain services and the HTTP layer.
const (
	CodeMissingInput        = "missing_input"
	CodeTextTooShort        = "text_too_short"
	CodeInvalidPlan         = "invalid_plan"
	CodeStripeNotConfigured = "stripe_not_configured"
	CodeCheckoutFailed      = "checkout_failed"
	CodeInvalidSignature    = "invalid_signature"
	CodeWebhookFailed       = "webhook_failed"
	CodeMissingFields       = "missing_fields"
	CodeInvalidEditID       = "invalid_edit_id"
	CodeEditStoreFailed     = "edit_store_failed"
)

// AppError carries a machine readable code next to the human message.
type AppError struct {
	Code    string
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// Wrap produces a new AppError instance.
func Wrap(code, message string, err error) error {
	return &AppError{Code: code, Message: message, Err: err}
}

// IsCode reports whether err is an AppError with the given code.
func IsCode(err error, code string) bool {
	return CodeOf(err) == code
}

// CodeOf returns the code of the first AppError in the chain, or "".
func CodeOf(err error) string {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code
	}
	return ""
}

// MessageOf returns the AppError message without the wrapped cause.
func MessageOf(err error) string {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Message
	}
	if err == nil {
		return ""
	}
	return err.Error()
}
