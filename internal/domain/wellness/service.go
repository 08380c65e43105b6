package wellness

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/Boltflix/oh-my-freud-backend/internal/domain/completion"
	"github.com/Boltflix/oh-my-freud-backend/internal/domain/locale"
	"github.com/Boltflix/oh-my-freud-backend/pkg/util"
)

// Service produces the wellness kits. Every call returns a complete result.
type Service interface {
	SleepHygiene(ctx context.Context, req SleepRequest) (SleepBody, error)
	FreeAssociation(ctx context.Context, req AssociationRequest) (AssociationBody, error)
}

type service struct {
	cfg       Config
	completer completion.Completer
	catalog   *Catalog
	logger    *slog.Logger
	now       func() time.Time
}

// NewService wires the wellness domain and validates its catalog.
func NewService(cfg Config, completer completion.Completer, catalog *Catalog, logger *slog.Logger) (Service, error) {
	if cfg.Limits == (Limits{}) {
		cfg.Limits = DefaultLimits
	}
	if !cfg.DefaultLanguage.Valid() {
		cfg.DefaultLanguage = locale.Default
	}
	if err := catalog.Validate(cfg.Limits); err != nil {
		return nil, err
	}
	return &service{
		cfg:       cfg,
		completer: completer,
		catalog:   catalog,
		logger:    logger.With("component", "wellness.service"),
		now:       time.Now,
	}, nil
}

func (s *service) SleepHygiene(ctx context.Context, req SleepRequest) (SleepBody, error) {
	start := s.now()
	lang := locale.Normalize(util.FirstNonEmpty(req.Lang, req.Language), s.cfg.DefaultLanguage)

	prompt := completion.Prompt{
		System:      "You are a concise behavioral sleep coach with evidence-informed advice. Respond ONLY with a JSON object, no markdown.",
		User:        sleepPrompt(lang, req.Preferences),
		MaxTokens:   900,
		Temperature: 0.6,
		JSONMode:    true,
	}
	outcome := s.completer.Invoke(ctx, prompt)

	fallback := s.catalog.Sleep(lang)
	kit := fallback
	replaced := []string{"overview", "exercises", "weeklyPlan", "cautions"}
	if obj, ok := completion.Coerce(outcome); ok {
		kit, replaced = mergeSleep(sleepFromObject(obj), fallback, s.cfg.Limits)
	}
	meta := s.meta(outcome, replaced, 4, start)
	s.log("sleep hygiene", lang, outcome, meta)
	return SleepBody{Result: kit, Meta: meta}, nil
}

func (s *service) FreeAssociation(ctx context.Context, req AssociationRequest) (AssociationBody, error) {
	start := s.now()
	lang := locale.Normalize(util.FirstNonEmpty(req.Lang, req.Language), s.cfg.DefaultLanguage)
	mode := ModeFreud
	if strings.EqualFold(strings.TrimSpace(req.Mode), ModeNeutral) {
		mode = ModeNeutral
	}

	persona := "You are a playful, precise psychoanalyst channeling a light Freud vibe, without moralizing."
	if mode == ModeNeutral {
		persona = "You are a neutral, supportive journaling coach."
	}
	prompt := completion.Prompt{
		System:      persona + " Respond ONLY with a JSON object, no markdown.",
		User:        associationPrompt(lang),
		MaxTokens:   700,
		Temperature: 0.7,
		JSONMode:    true,
	}
	outcome := s.completer.Invoke(ctx, prompt)

	fallback := s.catalog.Association(lang, mode)
	session := fallback
	replaced := []string{"guidance", "session", "cautions"}
	if obj, ok := completion.Coerce(outcome); ok {
		session, replaced = mergeAssociation(associationFromObject(obj), fallback, s.cfg.Limits)
	}
	meta := s.meta(outcome, replaced, 3, start)
	s.log("free association", lang, outcome, meta)
	return AssociationBody{Result: session, Meta: meta}, nil
}

func (s *service) meta(outcome completion.Outcome, replaced []string, total int, start time.Time) completion.Meta {
	return completion.Meta{
		Source:         completion.SourceFor(len(replaced), total),
		Upstream:       outcome.Kind.String(),
		Model:          outcome.Model,
		ReplacedFields: replaced,
		DurationMs:     util.SinceMs(start, s.now),
		TokenUsage:     outcome.Usage.Ptr(),
	}
}

func (s *service) log(kind string, lang locale.Language, outcome completion.Outcome, meta completion.Meta) {
	if meta.Source != completion.SourceModel {
		s.logger.Warn(kind+" served with fallback content", "lang", lang, "upstream", meta.Upstream, "reason", outcome.Reason, "replaced", meta.ReplacedFields, "error", outcome.Err)
		return
	}
	s.logger.Info(kind+" generated", "lang", lang, "model", meta.Model, "duration_ms", meta.DurationMs)
}

func sleepPrompt(lang locale.Language, prefs map[string]any) string {
	prefJSON := "{}"
	if len(prefs) > 0 {
		if raw, err := json.Marshal(prefs); err == nil {
			prefJSON = util.Truncate(string(raw), 2000)
		}
	}
	return fmt.Sprintf(`Write EVERYTHING in %s (%s).
Create a practical sleep-hygiene kit tailored for a busy adult:
- "overview": 2-3 sentences.
- "exercises": array of 3-5 items {"title","duration","steps"} with 3-5 steps each.
- "weeklyPlan": exactly 7 items {"day","focus","actions"} with 2-3 actions each.
- "cautions": 2-4 succinct notes.
Return ONLY JSON shaped as {"overview":...,"exercises":[...],"weeklyPlan":[...],"cautions":[...],"language":"%s"}.
User preferences (optional): %s`, lang.DisplayName(), lang, lang, prefJSON)
}

func associationPrompt(lang locale.Language) string {
	return fmt.Sprintf(`Write EVERYTHING in %s (%s).
Provide:
- "guidance": 1-2 sentences for setup (timer, no censorship).
- "session": 10 short, lively and safe prompts, without numbering.
- "cautions": 1-2 brief safety notes.
Return ONLY JSON shaped as {"guidance":...,"session":[...],"cautions":[...],"language":"%s"}.`, lang.DisplayName(), lang, lang)
}
