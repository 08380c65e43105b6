package completion

import (
	"errors"
	"net/http"
	"strings"

	"github.com/Boltflix/oh-my-freud-backend/internal/infra/llm/chatgpt"
)

var unavailableHints = []string{
	"does not exist",
	"not found",
	"not available",
	"no access",
	"not supported",
	"unsupported model",
	"deprecated",
}

// IsModelUnavailable reports whether err means the requested model cannot be
// served, so the next candidate may succeed. Auth, quota, rate limit and
// content errors are not retried across models.
func IsModelUnavailable(err error) bool {
	var apiErr *chatgpt.APIError
	if !errors.As(err, &apiErr) {
		return false
	}
	if apiErr.Code == "model_not_found" {
		return true
	}
	switch apiErr.StatusCode {
	case http.StatusNotFound:
		return true
	case http.StatusBadRequest, http.StatusForbidden:
		msg := strings.ToLower(apiErr.Message + " " + apiErr.Body)
		if !strings.Contains(msg, "model") {
			return false
		}
		for _, hint := range unavailableHints {
			if strings.Contains(msg, hint) {
				return true
			}
		}
	}
	return false
}
