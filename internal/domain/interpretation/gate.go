package interpretation

import (
	"github.com/Boltflix/oh-my-freud-backend/internal/domain/locale"
	"github.com/Boltflix/oh-my-freud-backend/pkg/util"
)

// QualityGate merges model output with catalog content field by field so the
// returned Result always satisfies Thresholds.
type QualityGate struct {
	Thresholds Thresholds
	Catalog    *Catalog
}

// Decision is the gate output and the fields it had to replace.
type Decision struct {
	Result   Result
	Replaced []string
}

// Accept builds the final Result. A nil obj means nothing usable came back
// from the model and the catalog entry is returned as is.
func (g QualityGate) Accept(obj map[string]any, lang locale.Language) Decision {
	if obj == nil {
		res := g.Catalog.Lookup(lang)
		res.Analysis = g.Catalog.PaddedAnalysis(lang, g.Thresholds.MinAnalysisWords)
		res.Language = lang
		return Decision{Result: res, Replaced: append([]string(nil), contentFields...)}
	}
	return g.merge(draftFromObject(obj), lang)
}

func (g QualityGate) merge(d draft, lang locale.Language) Decision {
	fallback := g.Catalog.Lookup(lang)
	var replaced []string

	res := Result{Language: lang}

	res.Summary = d.Summary
	if res.Summary == "" {
		res.Summary = fallback.Summary
		replaced = append(replaced, FieldSummary)
	}

	res.Analysis = d.Analysis
	if util.WordCount(res.Analysis) < g.Thresholds.MinAnalysisWords {
		res.Analysis = g.Catalog.PaddedAnalysis(lang, g.Thresholds.MinAnalysisWords)
		replaced = append(replaced, FieldAnalysis)
	}

	res.Symbols = normalizeSymbols(d.Symbols)
	if len(res.Symbols) < g.Thresholds.MinSymbols {
		res.Symbols = fallback.Symbols
		replaced = append(replaced, FieldSymbols)
	}

	res.Themes = util.NormalizeList(d.Themes)
	if len(res.Themes) < g.Thresholds.MinThemes {
		res.Themes = fallback.Themes
		replaced = append(replaced, FieldThemes)
	}

	res.AssociationPrompts = util.NormalizeList(d.AssociationPrompts)
	if len(res.AssociationPrompts) < g.Thresholds.MinPrompts {
		res.AssociationPrompts = fallback.AssociationPrompts
		replaced = append(replaced, FieldAssociationPrompts)
	}

	return Decision{Result: res, Replaced: replaced}
}
