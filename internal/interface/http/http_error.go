package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "github.com/Boltflix/oh-my-freud-backend/pkg/errors"
)

// HTTPError is the transport form of a failure: status plus the
// {"error":{"code","message"}} body.
type HTTPError struct {
	Status  int
	Code    string
	Message string
	Err     error
}

func (e *HTTPError) Error() string {
	switch {
	case e == nil:
		return ""
	case e.Err != nil:
		return e.Err.Error()
	default:
		return e.Message
	}
}

// NewHTTPError is a helper to build an HTTPError instance.
func NewHTTPError(status int, code, message string, err error) *HTTPError {
	return &HTTPError{Status: status, Code: code, Message: message, Err: err}
}

var statusByCode = map[string]int{
	apperrors.CodeMissingInput:        http.StatusBadRequest,
	apperrors.CodeTextTooShort:        http.StatusBadRequest,
	apperrors.CodeInvalidPlan:         http.StatusBadRequest,
	apperrors.CodeInvalidSignature:    http.StatusBadRequest,
	apperrors.CodeMissingFields:       http.StatusBadRequest,
	apperrors.CodeInvalidEditID:       http.StatusBadRequest,
	apperrors.CodeStripeNotConfigured: http.StatusServiceUnavailable,
	apperrors.CodeCheckoutFailed:      http.StatusBadGateway,
	apperrors.CodeEditStoreFailed:     http.StatusBadGateway,
	apperrors.CodeWebhookFailed:       http.StatusInternalServerError,
}

// fromDomain maps a domain error onto a response. Codes without a known
// status become fallbackCode with a 500 and a generic message.
func fromDomain(err error, fallbackCode string) *HTTPError {
	if status, ok := statusByCode[apperrors.CodeOf(err)]; ok {
		return NewHTTPError(status, apperrors.CodeOf(err), apperrors.MessageOf(err), err)
	}
	return NewHTTPError(http.StatusInternalServerError, fallbackCode, "something went wrong", err)
}

func asHTTPError(err error) *HTTPError {
	var httpErr *HTTPError
	if errors.As(err, &httpErr) {
		return httpErr
	}
	return fromDomain(err, "internal_error")
}

func abortWithError(c *gin.Context, err *HTTPError) {
	if err != nil {
		_ = c.Error(err)
	}
	c.Abort()
}
