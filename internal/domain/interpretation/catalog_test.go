package interpretation

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/Boltflix/oh-my-freud-backend/internal/domain/locale"
	"github.com/Boltflix/oh-my-freud-backend/pkg/util"
)

func TestCatalogCoversEveryLanguage(t *testing.T) {
	t.Parallel()

	catalog := testCatalog(t)
	require.Equal(t, locale.Supported, catalog.Languages())
	require.NoError(t, catalog.Validate(DefaultThresholds))
	for _, lang := range locale.Supported {
		entry := catalog.Lookup(lang)
		require.Equal(t, lang, entry.Language)
		requireValidResult(t, entry, DefaultThresholds)
	}
}

func TestCatalogLookupIsIdempotent(t *testing.T) {
	t.Parallel()

	catalog := testCatalog(t)
	first := catalog.Lookup(locale.PortugueseBR)
	second := catalog.Lookup(locale.PortugueseBR)
	require.Equal(t, first, second)

	first.Symbols[0].Name = "mutated"
	first.Themes[0] = "mutated"
	third := catalog.Lookup(locale.PortugueseBR)
	require.Equal(t, second, third)
}

func TestCatalogFallsBackToDefaultLanguage(t *testing.T) {
	t.Parallel()

	catalog := testCatalog(t)
	delete(catalog.entries, locale.FrenchFR)

	got := catalog.Lookup(locale.FrenchFR)
	require.Equal(t, catalog.Lookup(locale.EnglishUS), got)
	require.Error(t, catalog.Validate(DefaultThresholds))
}

func TestPaddedAnalysisReachesThreshold(t *testing.T) {
	t.Parallel()

	catalog := testCatalog(t)
	base := catalog.Lookup(locale.EnglishUS).Analysis
	padded := catalog.PaddedAnalysis(locale.EnglishUS, 450)

	require.GreaterOrEqual(t, util.WordCount(padded), 450)
	require.True(t, len(padded) > len(base))
	require.Equal(t, base, padded[:len(base)])
	require.Equal(t, base, catalog.PaddedAnalysis(locale.EnglishUS, 10))
}

func TestQualityGateNoStructuredData(t *testing.T) {
	t.Parallel()

	catalog := testCatalog(t)
	gate := QualityGate{Thresholds: DefaultThresholds, Catalog: catalog}
	decision := gate.Accept(nil, locale.FrenchFR)

	require.Equal(t, catalog.Lookup(locale.FrenchFR), decision.Result)
	require.Equal(t, contentFields, decision.Replaced)
}

func TestQualityGateReadsLegacyKeys(t *testing.T) {
	t.Parallel()

	gate := QualityGate{Thresholds: Thresholds{MinAnalysisWords: 3, MinSymbols: 2, MinThemes: 1, MinPrompts: 1}, Catalog: testCatalog(t)}
	decision := gate.Accept(map[string]any{
		"resumo":    "resumo curto",
		"analise":   "uma análise bem curta",
		"simbolos":  []any{[]any{"Casa", "Segurança"}, "Porta", map[string]any{"symbol": ""}},
		"temas":     []any{"Lar", "lar", " "},
		"perguntas": "O que a casa representa?",
	}, locale.PortugueseBR)

	require.Empty(t, decision.Replaced)
	require.Equal(t, "resumo curto", decision.Result.Summary)
	require.Equal(t, []Symbol{{Name: "Casa", Meaning: "Segurança"}, {Name: "Porta"}}, decision.Result.Symbols)
	require.Equal(t, []string{"Lar"}, decision.Result.Themes)
	require.Equal(t, []string{"O que a casa representa?"}, decision.Result.AssociationPrompts)
	require.Equal(t, locale.PortugueseBR, decision.Result.Language)
}

func TestQualityGateDeduplicatesBeforeCounting(t *testing.T) {
	t.Parallel()

	catalog := testCatalog(t)
	gate := QualityGate{Thresholds: DefaultThresholds, Catalog: catalog}
	decision := gate.Accept(map[string]any{
		"summary": "ok",
		"themes":  []any{"Fear", "fear", "FEAR"},
	}, locale.EnglishUS)

	require.Equal(t, catalog.Lookup(locale.EnglishUS).Themes, decision.Result.Themes)
	require.Contains(t, decision.Replaced, FieldThemes)
	require.NotContains(t, decision.Replaced, FieldSummary)
}
