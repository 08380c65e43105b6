package interpretation

import (
	"embed"
	"fmt"
	"path"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/Boltflix/oh-my-freud-backend/internal/domain/locale"
	"github.com/Boltflix/oh-my-freud-backend/pkg/util"
)

//go:embed catalog/*.yaml
var catalogFiles embed.FS

type catalogEntry struct {
	Result `yaml:",inline"`
	Filler []string `yaml:"filler"`
}

// Catalog is the read-only table of pre-written interpretations used when
// the model result is unusable.
type Catalog struct {
	entries     map[locale.Language]catalogEntry
	defaultLang locale.Language
}

// LoadCatalog parses the embedded catalog files.
func LoadCatalog(defaultLang locale.Language) (*Catalog, error) {
	if !defaultLang.Valid() {
		defaultLang = locale.Default
	}
	files, err := catalogFiles.ReadDir("catalog")
	if err != nil {
		return nil, fmt.Errorf("list catalog: %w", err)
	}
	entries := make(map[locale.Language]catalogEntry, len(files))
	for _, f := range files {
		raw, err := catalogFiles.ReadFile(path.Join("catalog", f.Name()))
		if err != nil {
			return nil, fmt.Errorf("read catalog %s: %w", f.Name(), err)
		}
		var entry catalogEntry
		if err := yaml.Unmarshal(raw, &entry); err != nil {
			return nil, fmt.Errorf("parse catalog %s: %w", f.Name(), err)
		}
		lang, ok := locale.Parse(string(entry.Language))
		if !ok {
			return nil, fmt.Errorf("catalog %s: unsupported language %q", f.Name(), entry.Language)
		}
		entry.Language = lang
		entry.Analysis = strings.TrimSpace(entry.Analysis)
		entry.Summary = strings.TrimSpace(entry.Summary)
		entries[lang] = entry
	}
	return &Catalog{entries: entries, defaultLang: defaultLang}, nil
}

// Lookup returns a copy of the entry for lang, or the default language entry
// when lang has none.
func (c *Catalog) Lookup(lang locale.Language) Result {
	return c.entry(lang).Result.Clone()
}

// Languages lists the languages with an authored entry.
func (c *Catalog) Languages() []locale.Language {
	out := make([]locale.Language, 0, len(c.entries))
	for _, lang := range locale.Supported {
		if _, ok := c.entries[lang]; ok {
			out = append(out, lang)
		}
	}
	return out
}

// PaddedAnalysis returns the catalog analysis for lang extended with filler
// paragraphs until it reaches minWords.
func (c *Catalog) PaddedAnalysis(lang locale.Language, minWords int) string {
	entry := c.entry(lang)
	analysis := entry.Analysis
	if len(entry.Filler) == 0 {
		return analysis
	}
	for i := 0; util.WordCount(analysis) < minWords && i < 64; i++ {
		analysis += "\n\n" + strings.TrimSpace(entry.Filler[i%len(entry.Filler)])
	}
	return analysis
}

// Validate checks that every supported language has an entry meeting th.
func (c *Catalog) Validate(th Thresholds) error {
	for _, lang := range locale.Supported {
		entry, ok := c.entries[lang]
		if !ok {
			return fmt.Errorf("catalog: missing entry for %s", lang)
		}
		switch {
		case entry.Summary == "":
			return fmt.Errorf("catalog %s: summary is empty", lang)
		case util.WordCount(c.PaddedAnalysis(lang, th.MinAnalysisWords)) < th.MinAnalysisWords:
			return fmt.Errorf("catalog %s: analysis below %d words", lang, th.MinAnalysisWords)
		case len(normalizeSymbols(entry.Symbols)) < th.MinSymbols:
			return fmt.Errorf("catalog %s: fewer than %d symbols", lang, th.MinSymbols)
		case len(util.NormalizeList(entry.Themes)) < th.MinThemes:
			return fmt.Errorf("catalog %s: fewer than %d themes", lang, th.MinThemes)
		case len(util.NormalizeList(entry.AssociationPrompts)) < th.MinPrompts:
			return fmt.Errorf("catalog %s: fewer than %d association prompts", lang, th.MinPrompts)
		}
	}
	return nil
}

func (c *Catalog) entry(lang locale.Language) catalogEntry {
	if entry, ok := c.entries[lang]; ok {
		return entry
	}
	if entry, ok := c.entries[c.defaultLang]; ok {
		return entry
	}
	for _, l := range locale.Supported {
		if entry, ok := c.entries[l]; ok {
			return entry
		}
	}
	return catalogEntry{}
}
