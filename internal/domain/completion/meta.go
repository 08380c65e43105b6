package completion

import "github.com/Boltflix/oh-my-freud-backend/pkg/metrics"

// Source tells clients where the returned content came from.
type Source string

const (
	SourceModel    Source = "model"
	SourceMerged   Source = "merged"
	SourceFallback Source = "fallback"
)

// SourceFor derives the provenance from how many of total fields were
// replaced by canned content.
func SourceFor(replaced, total int) Source {
	switch {
	case replaced == 0:
		return SourceModel
	case replaced >= total:
		return SourceFallback
	default:
		return SourceMerged
	}
}

// Meta is attached to every AI backed response body.
type Meta struct {
	Source         Source              `json:"source"`
	Upstream       string              `json:"upstream"`
	Model          string              `json:"model,omitempty"`
	ReplacedFields []string            `json:"replacedFields,omitempty"`
	DurationMs     int64               `json:"durationMs"`
	TokenUsage     *metrics.TokenUsage `json:"tokenUsage,omitempty"`
}
