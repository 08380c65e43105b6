package interpretation

import (
	"context"
	"fmt"
	"log/slog"
	"time"
	"unicode/utf8"

	"github.com/Boltflix/oh-my-freud-backend/internal/domain/completion"
	"github.com/Boltflix/oh-my-freud-backend/internal/domain/locale"
	apperrors "github.com/Boltflix/oh-my-freud-backend/pkg/errors"
	"github.com/Boltflix/oh-my-freud-backend/pkg/util"
)

// Service interprets dreams. Upstream failures never surface as errors; only
// invalid input does.
type Service interface {
	Interpret(ctx context.Context, req Request) (Body, error)
}

type service struct {
	cfg       Config
	completer completion.Completer
	gate      QualityGate
	logger    *slog.Logger
	now       func() time.Time
}

// NewService wires the interpretation pipeline. The catalog is checked
// against the configured thresholds so a misconfiguration fails at boot.
func NewService(cfg Config, completer completion.Completer, catalog *Catalog, logger *slog.Logger) (Service, error) {
	if cfg.Thresholds == (Thresholds{}) {
		cfg.Thresholds = DefaultThresholds
	}
	if !cfg.DefaultLanguage.Valid() {
		cfg.DefaultLanguage = locale.Default
	}
	if cfg.MinTextChars <= 0 {
		cfg.MinTextChars = 1
	}
	if err := catalog.Validate(cfg.Thresholds); err != nil {
		return nil, fmt.Errorf("fallback catalog: %w", err)
	}
	return &service{
		cfg:       cfg,
		completer: completer,
		gate:      QualityGate{Thresholds: cfg.Thresholds, Catalog: catalog},
		logger:    logger.With("component", "interpretation.service"),
		now:       time.Now,
	}, nil
}

func (s *service) Interpret(ctx context.Context, req Request) (Body, error) {
	start := s.now()

	in, err := s.validate(req)
	if err != nil {
		return Body{}, err
	}
	lang := locale.Normalize(util.FirstNonEmpty(req.Lang, req.Language), s.cfg.DefaultLanguage)

	outcome := s.completer.Invoke(ctx, buildPrompt(lang, in, s.cfg))
	obj, ok := completion.Coerce(outcome)
	switch {
	case outcome.Kind == completion.KindTimeout:
		s.logger.Warn("interpretation upstream timed out, serving fallback", "lang", lang)
	case outcome.Kind == completion.KindUpstreamError:
		s.logger.Warn("interpretation upstream failed, serving fallback", "lang", lang, "reason", outcome.Reason, "model", outcome.Model, "error", outcome.Err)
	case !ok:
		s.logger.Warn("interpretation model output malformed, serving fallback", "lang", lang, "model", outcome.Model, "length", len(outcome.Text))
	}

	decision := s.gate.Accept(obj, lang)
	if ok && len(decision.Replaced) > 0 {
		s.logger.Warn("interpretation merged with fallback content", "lang", lang, "model", outcome.Model, "replaced", decision.Replaced)
	}

	meta := completion.Meta{
		Source:         completion.SourceFor(len(decision.Replaced), len(contentFields)),
		Upstream:       outcome.Kind.String(),
		Model:          outcome.Model,
		ReplacedFields: decision.Replaced,
		DurationMs:     util.SinceMs(start, s.now),
		TokenUsage:     outcome.Usage.Ptr(),
	}
	s.logger.Info("dream interpreted", "lang", lang, "source", meta.Source, "upstream", meta.Upstream, "duration_ms", meta.DurationMs)

	return Shape(decision.Result, meta, s.cfg.CompatAliases), nil
}

func (s *service) validate(req Request) (dreamInput, error) {
	text := util.StripControl(util.FirstNonEmpty(req.Text, req.Description))
	if text == "" {
		return dreamInput{}, apperrors.Wrap(apperrors.CodeMissingInput, "dream text is required", nil)
	}
	if utf8.RuneCountInString(text) < s.cfg.MinTextChars {
		return dreamInput{}, apperrors.Wrap(apperrors.CodeTextTooShort, fmt.Sprintf("dream text must have at least %d characters", s.cfg.MinTextChars), nil)
	}

	in := dreamInput{
		Title:       util.Truncate(util.StripControl(util.FirstNonEmpty(req.Title)), 200),
		Text:        util.Truncate(text, s.cfg.MaxTextChars),
		IsRecurring: req.IsRecurring,
	}
	var valid bool
	if in.Mood, valid = rating(req.Mood); !valid {
		s.logger.Info("ignoring out of range mood", "value", *req.Mood)
	}
	if in.SleepQuality, valid = rating(req.SleepQuality); !valid {
		s.logger.Info("ignoring out of range sleep quality", "value", *req.SleepQuality)
	}
	return in, nil
}
