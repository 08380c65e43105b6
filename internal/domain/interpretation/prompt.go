package interpretation

import (
	"fmt"
	"strings"

	"github.com/Boltflix/oh-my-freud-backend/internal/domain/completion"
	"github.com/Boltflix/oh-my-freud-backend/internal/domain/locale"
)

const (
	minRating = 1
	maxRating = 5
)

// dreamInput is a validated request ready for prompting.
type dreamInput struct {
	Title        string
	Text         string
	Mood         *int
	SleepQuality *int
	IsRecurring  *bool
}

// buildPrompt renders the system and user instructions for one dream.
func buildPrompt(lang locale.Language, in dreamInput, cfg Config) completion.Prompt {
	return completion.Prompt{
		System:      buildSystemPrompt(lang, cfg.Thresholds),
		User:        buildUserPrompt(lang, in),
		MaxTokens:   cfg.MaxTokens,
		Temperature: cfg.Temperature,
		JSONMode:    true,
	}
}

func buildSystemPrompt(lang locale.Language, th Thresholds) string {
	low := th.MinAnalysisWords * 2
	if low < 600 {
		low = 600
	}
	high := low + 300

	var b strings.Builder
	b.WriteString("You are a careful psychoanalytic dream interpreter. You are warm, specific and never diagnose or give medical advice. ")
	fmt.Fprintf(&b, "Write every field in %s (%s). ", lang.DisplayName(), lang)
	b.WriteString("Respond ONLY with a single valid JSON object and nothing else: no markdown, no code fences, no commentary. Use exactly this shape:\n")
	b.WriteString(`{"summary":string,"analysis":string,"symbols":[{"symbol":string,"meaning":string}],"themes":[string],"associationPrompts":[string],"language":string}`)
	b.WriteString("\nRules:\n")
	b.WriteString("- summary: one short paragraph.\n")
	fmt.Fprintf(&b, "- analysis: 4 to 6 paragraphs separated by blank lines, between %d and %d words in total, tied to the concrete images of the dream.\n", low, high)
	fmt.Fprintf(&b, "- symbols: at least %d entries, each with a short meaning.\n", maxInt(th.MinSymbols, 1))
	fmt.Fprintf(&b, "- themes: %d to %d short phrases.\n", maxInt(th.MinThemes, 1), maxInt(th.MinThemes, 1)+3)
	fmt.Fprintf(&b, "- associationPrompts: %d to %d open reflective questions.\n", maxInt(th.MinPrompts, 1), maxInt(th.MinPrompts, 1)+2)
	fmt.Fprintf(&b, "- language: exactly %q.", string(lang))
	return b.String()
}

func buildUserPrompt(lang locale.Language, in dreamInput) string {
	title := in.Title
	if title == "" {
		title = "(untitled)"
	}
	var b strings.Builder
	fmt.Fprintf(&b, "Dream title: %s\n", title)
	fmt.Fprintf(&b, "Dream description:\n%s\n", in.Text)
	if in.Mood != nil {
		fmt.Fprintf(&b, "Mood on waking (%d-%d): %d\n", minRating, maxRating, *in.Mood)
	}
	if in.SleepQuality != nil {
		fmt.Fprintf(&b, "Sleep quality (%d-%d): %d\n", minRating, maxRating, *in.SleepQuality)
	}
	if in.IsRecurring != nil {
		recurring := "no"
		if *in.IsRecurring {
			recurring = "yes"
		}
		fmt.Fprintf(&b, "Recurring dream: %s\n", recurring)
	}
	fmt.Fprintf(&b, "Language: %s", lang)
	return b.String()
}

// rating rounds v and keeps it only when it lies within the accepted range.
func rating(v *float64) (*int, bool) {
	if v == nil {
		return nil, true
	}
	rounded := int(*v + 0.5)
	if *v < minRating || *v > maxRating {
		return nil, false
	}
	return &rounded, true
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
