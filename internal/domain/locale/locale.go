// Package locale maps client supplied language hints onto the languages the
// product writes in.
package locale

import "strings"

// Language is a supported output language tag.
type Language string

const (
	PortugueseBR Language = "pt-BR"
	EnglishUS    Language = "en-US"
	SpanishES    Language = "es-ES"
	FrenchFR     Language = "fr-FR"
)

// Default is used when neither the hint nor the configured default resolve.
const Default = EnglishUS

// Supported lists every language in a stable order.
var Supported = []Language{PortugueseBR, EnglishUS, SpanishES, FrenchFR}

var byPrefix = map[string]Language{
	"pt": PortugueseBR,
	"en": EnglishUS,
	"es": SpanishES,
	"fr": FrenchFR,
}

var displayNames = map[Language]string{
	PortugueseBR: "Brazilian Portuguese",
	EnglishUS:    "American English",
	SpanishES:    "Spanish (Spain)",
	FrenchFR:     "French (France)",
}

// Normalize resolves hint by its two letter prefix, case-insensitively.
// Unknown or empty hints resolve to def, or to Default when def is not supported.
func Normalize(hint string, def Language) Language {
	clean := strings.ToLower(strings.TrimSpace(hint))
	if len(clean) >= 2 {
		if lang, ok := byPrefix[clean[:2]]; ok {
			return lang
		}
	}
	if def.Valid() {
		return def
	}
	return Default
}

// Parse accepts an exact tag (case-insensitive) and reports whether it is supported.
func Parse(tag string) (Language, bool) {
	clean := strings.TrimSpace(tag)
	for _, lang := range Supported {
		if strings.EqualFold(string(lang), clean) {
			return lang, true
		}
	}
	return "", false
}

// Valid reports whether l is one of the supported languages.
func (l Language) Valid() bool {
	_, ok := displayNames[l]
	return ok
}

// DisplayName is the English name used inside model prompts.
func (l Language) DisplayName() string {
	if name, ok := displayNames[l]; ok {
		return name
	}
	return displayNames[Default]
}

func (l Language) String() string {
	return string(l)
}
