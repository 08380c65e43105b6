package interpretation

import (
	"github.com/Boltflix/oh-my-freud-backend/internal/domain/completion"
	"github.com/Boltflix/oh-my-freud-backend/internal/domain/locale"
)

// Request is the dream submitted by a client. Either Text or Description
// carries the dream body.
type Request struct {
	Text         string   `json:"text"`
	Description  string   `json:"description"`
	Title        string   `json:"title"`
	Lang         string   `json:"lang"`
	Language     string   `json:"language"`
	Mood         *float64 `json:"mood"`
	SleepQuality *float64 `json:"sleepQuality"`
	IsRecurring  *bool    `json:"isRecurring"`
}

// Symbol pairs a dream image with its reading.
type Symbol struct {
	Name    string `json:"symbol" yaml:"symbol"`
	Meaning string `json:"meaning" yaml:"meaning"`
}

// Result is the interpretation returned to clients.
type Result struct {
	Summary            string          `json:"summary" yaml:"summary"`
	Analysis           string          `json:"analysis" yaml:"analysis"`
	Symbols            []Symbol        `json:"symbols" yaml:"symbols"`
	Themes             []string        `json:"themes" yaml:"themes"`
	AssociationPrompts []string        `json:"associationPrompts" yaml:"associationPrompts"`
	Language           locale.Language `json:"language" yaml:"language"`
}

// Clone returns a deep copy.
func (r Result) Clone() Result {
	out := r
	out.Symbols = append([]Symbol(nil), r.Symbols...)
	out.Themes = append([]string(nil), r.Themes...)
	out.AssociationPrompts = append([]string(nil), r.AssociationPrompts...)
	return out
}

// Thresholds are the minimum content rules every Result must satisfy.
type Thresholds struct {
	MinAnalysisWords int
	MinSymbols       int
	MinThemes        int
	MinPrompts       int
}

// DefaultThresholds holds the canonical minimums.
var DefaultThresholds = Thresholds{
	MinAnalysisWords: 300,
	MinSymbols:       5,
	MinThemes:        3,
	MinPrompts:       5,
}

// Config wires runtime settings for the interpretation service.
type Config struct {
	DefaultLanguage locale.Language
	Thresholds      Thresholds
	MinTextChars    int
	MaxTextChars    int
	MaxTokens       int
	Temperature     float32
	CompatAliases   bool
}

// Field names reported in Meta.ReplacedFields.
const (
	FieldSummary            = "summary"
	FieldAnalysis           = "analysis"
	FieldSymbols            = "symbols"
	FieldThemes             = "themes"
	FieldAssociationPrompts = "associationPrompts"
)

var contentFields = []string{FieldSummary, FieldAnalysis, FieldSymbols, FieldThemes, FieldAssociationPrompts}

// Body is the serialized response envelope.
type Body struct {
	Result ShapedResult    `json:"result"`
	Meta   completion.Meta `json:"meta"`
}
