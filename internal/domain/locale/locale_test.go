package locale

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNormalize(t *testing.T) {
	t.Parallel()

	cases := []struct {
		hint string
		def  Language
		want Language
	}{
		{hint: "pt", def: EnglishUS, want: PortugueseBR},
		{hint: "pt-BR", def: EnglishUS, want: PortugueseBR},
		{hint: "PT-br", def: EnglishUS, want: PortugueseBR},
		{hint: "pt_PT", def: EnglishUS, want: PortugueseBR},
		{hint: "es", def: EnglishUS, want: SpanishES},
		{hint: "es-MX", def: EnglishUS, want: SpanishES},
		{hint: "fr", def: EnglishUS, want: FrenchFR},
		{hint: " FR-ca ", def: EnglishUS, want: FrenchFR},
		{hint: "en-GB", def: PortugueseBR, want: EnglishUS},
		{hint: "xx-unknown", def: EnglishUS, want: EnglishUS},
		{hint: "xx-unknown", def: PortugueseBR, want: PortugueseBR},
		{hint: "", def: SpanishES, want: SpanishES},
		{hint: "p", def: EnglishUS, want: EnglishUS},
		{hint: "de", def: "", want: Default},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.hint+"/"+string(tc.def), func(t *testing.T) {
			t.Parallel()
			require.Equal(t, tc.want, Normalize(tc.hint, tc.def))
		})
	}
}

func TestParse(t *testing.T) {
	t.Parallel()

	lang, ok := Parse("PT-BR")
	require.True(t, ok)
	require.Equal(t, PortugueseBR, lang)

	_, ok = Parse("pt")
	require.False(t, ok)
}

func TestDisplayNameFallsBack(t *testing.T) {
	t.Parallel()
	require.Equal(t, "French (France)", FrenchFR.DisplayName())
	require.Equal(t, EnglishUS.DisplayName(), Language("de-DE").DisplayName())
}
