package interpretation

import (
	"strings"

	"github.com/Boltflix/oh-my-freud-backend/internal/domain/completion"
)

// draft is what the model produced before the quality gate looked at it.
type draft struct {
	Summary            string
	Analysis           string
	Symbols            []Symbol
	Themes             []string
	AssociationPrompts []string
}

// draftFromObject reads a coerced model object, accepting the Portuguese keys
// and alternate shapes older prompts produced.
func draftFromObject(obj map[string]any) draft {
	return draft{
		Summary:            completion.String(obj, "summary", "resumo"),
		Analysis:           completion.String(obj, "analysis", "analise", "análise", "fullText"),
		Symbols:            readSymbols(completion.Objects(obj, "symbols", "simbolos", "símbolos")),
		Themes:             completion.Strings(obj, "themes", "temas"),
		AssociationPrompts: completion.Strings(obj, "associationPrompts", "perguntas", "prompts"),
	}
}

// readSymbols accepts "name", ["name","meaning"] and {"symbol"|"name","meaning"}.
func readSymbols(items []any) []Symbol {
	out := make([]Symbol, 0, len(items))
	for _, item := range items {
		var sym Symbol
		switch v := item.(type) {
		case string:
			sym.Name = v
		case []any:
			if len(v) > 0 {
				sym.Name, _ = v[0].(string)
			}
			if len(v) > 1 {
				sym.Meaning, _ = v[1].(string)
			}
		case map[string]any:
			sym.Name = completion.String(v, "symbol", "name", "simbolo", "símbolo")
			sym.Meaning = completion.String(v, "meaning", "significado", "interpretation")
		}
		out = append(out, sym)
	}
	return out
}

// normalizeSymbols drops unnamed symbols and duplicates by name.
func normalizeSymbols(items []Symbol) []Symbol {
	out := make([]Symbol, 0, len(items))
	seen := make(map[string]struct{}, len(items))
	for _, sym := range items {
		name := strings.TrimSpace(sym.Name)
		if name == "" {
			continue
		}
		key := strings.ToLower(name)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, Symbol{Name: name, Meaning: strings.TrimSpace(sym.Meaning)})
	}
	return out
}
