package wellness

import (
	"embed"
	"fmt"
	"path"

	"gopkg.in/yaml.v3"

	"github.com/Boltflix/oh-my-freud-backend/internal/domain/locale"
)

//go:embed catalog/*.yaml
var catalogFiles embed.FS

type catalogEntry struct {
	Language    string             `yaml:"language"`
	Sleep       SleepKit           `yaml:"sleep"`
	Association AssociationSession `yaml:"association"`
}

// Catalog holds the canned wellness content per language.
type Catalog struct {
	entries     map[locale.Language]catalogEntry
	defaultLang locale.Language
}

// LoadCatalog parses the embedded wellness catalog.
func LoadCatalog(defaultLang locale.Language) (*Catalog, error) {
	if !defaultLang.Valid() {
		defaultLang = locale.Default
	}
	files, err := catalogFiles.ReadDir("catalog")
	if err != nil {
		return nil, fmt.Errorf("list wellness catalog: %w", err)
	}
	entries := make(map[locale.Language]catalogEntry, len(files))
	for _, f := range files {
		raw, err := catalogFiles.ReadFile(path.Join("catalog", f.Name()))
		if err != nil {
			return nil, fmt.Errorf("read wellness catalog %s: %w", f.Name(), err)
		}
		var entry catalogEntry
		if err := yaml.Unmarshal(raw, &entry); err != nil {
			return nil, fmt.Errorf("parse wellness catalog %s: %w", f.Name(), err)
		}
		lang, ok := locale.Parse(entry.Language)
		if !ok {
			return nil, fmt.Errorf("wellness catalog %s: unsupported language %q", f.Name(), entry.Language)
		}
		entries[lang] = entry
	}
	return &Catalog{entries: entries, defaultLang: defaultLang}, nil
}

// Sleep returns a copy of the sleep kit for lang.
func (c *Catalog) Sleep(lang locale.Language) SleepKit {
	kit := c.entry(lang).Sleep
	out := kit
	out.Exercises = make([]Exercise, len(kit.Exercises))
	for i, ex := range kit.Exercises {
		ex.Steps = append([]string(nil), ex.Steps...)
		out.Exercises[i] = ex
	}
	out.WeeklyPlan = make([]DayPlan, len(kit.WeeklyPlan))
	for i, day := range kit.WeeklyPlan {
		day.Actions = append([]string(nil), day.Actions...)
		out.WeeklyPlan[i] = day
	}
	out.Cautions = append([]string(nil), kit.Cautions...)
	out.Language = lang
	return out
}

// Association returns a copy of the free-association session for lang.
func (c *Catalog) Association(lang locale.Language, mode string) AssociationSession {
	session := c.entry(lang).Association
	out := session
	out.Session = append([]string(nil), session.Session...)
	out.Cautions = append([]string(nil), session.Cautions...)
	out.Mode = mode
	out.Language = lang
	return out
}

// Validate checks every supported language against limits.
func (c *Catalog) Validate(limits Limits) error {
	for _, lang := range locale.Supported {
		if _, ok := c.entries[lang]; !ok {
			return fmt.Errorf("wellness catalog: missing entry for %s", lang)
		}
		kit := c.Sleep(lang)
		if missing := missingSleepFields(kit, limits); len(missing) > 0 {
			return fmt.Errorf("wellness catalog %s: sleep kit fails %v", lang, missing)
		}
		session := c.Association(lang, ModeFreud)
		if missing := missingAssociationFields(session, limits); len(missing) > 0 {
			return fmt.Errorf("wellness catalog %s: association session fails %v", lang, missing)
		}
	}
	return nil
}

func (c *Catalog) entry(lang locale.Language) catalogEntry {
	if entry, ok := c.entries[lang]; ok {
		return entry
	}
	return c.entries[c.defaultLang]
}
