package completion

import "github.com/Boltflix/oh-my-freud-backend/pkg/metrics"

// Kind classifies how an upstream call ended.
type Kind int

const (
	KindSuccess Kind = iota
	KindTimeout
	KindUpstreamError
)

func (k Kind) String() string {
	switch k {
	case KindSuccess:
		return "success"
	case KindTimeout:
		return "timeout"
	default:
		return "upstream_error"
	}
}

// Reasons attached to upstream errors.
const (
	ReasonNotConfigured = "not_configured"
	ReasonCanceled      = "canceled"
	ReasonEmptyChoices  = "empty_choices"
	ReasonRequestFailed = "request_failed"
)

// Outcome is the value every completion attempt resolves to. Invoke never
// returns an error; failures are encoded here.
type Outcome struct {
	Kind   Kind
	Text   string
	Model  string
	Reason string
	Err    error
	Usage  metrics.TokenUsage
	// Attempts counts the candidate models that were actually called.
	Attempts int
}

// Success builds a successful outcome.
func Success(text, model string) Outcome {
	return Outcome{Kind: KindSuccess, Text: text, Model: model, Attempts: 1}
}

// Timeout builds an outcome for a call that lost the deadline race.
func Timeout() Outcome {
	return Outcome{Kind: KindTimeout}
}

// UpstreamError builds a failed outcome.
func UpstreamError(reason string, err error) Outcome {
	return Outcome{Kind: KindUpstreamError, Reason: reason, Err: err}
}
