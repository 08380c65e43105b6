package interpretation

import "github.com/Boltflix/oh-my-freud-backend/internal/domain/completion"

// ShapedResult is Result plus the legacy names older clients read the
// analysis from. Aliases are only populated at this boundary.
type ShapedResult struct {
	Result
	FullText               string `json:"fullText,omitempty"`
	PsychoanalyticAnalysis string `json:"psychoanalyticAnalysis,omitempty"`
	AnalysisText           string `json:"analysisText,omitempty"`
	LongAnalysis           string `json:"longAnalysis,omitempty"`
}

// Shape builds the response body.
func Shape(result Result, meta completion.Meta, compatAliases bool) Body {
	shaped := ShapedResult{Result: result}
	if compatAliases {
		shaped.FullText = result.Analysis
		shaped.PsychoanalyticAnalysis = result.Analysis
		shaped.AnalysisText = result.Analysis
		shaped.LongAnalysis = result.Analysis
	}
	return Body{Result: shaped, Meta: meta}
}
