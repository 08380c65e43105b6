package wellness

import (
	"strings"

	"github.com/Boltflix/oh-my-freud-backend/internal/domain/completion"
	"github.com/Boltflix/oh-my-freud-backend/pkg/util"
)

func sleepFromObject(obj map[string]any) SleepKit {
	kit := SleepKit{
		Overview: completion.String(obj, "overview", "resumo"),
		Cautions: util.NormalizeList(completion.Strings(obj, "cautions", "cuidados")),
	}
	for _, item := range completion.Objects(obj, "exercises", "exercicios") {
		m, ok := item.(map[string]any)
		if !ok {
			continue
		}
		ex := Exercise{
			Title:    completion.String(m, "title", "titulo"),
			Duration: completion.String(m, "duration", "duracao"),
			Steps:    util.NormalizeList(completion.Strings(m, "steps", "passos")),
		}
		if ex.Title != "" && len(ex.Steps) > 0 {
			kit.Exercises = append(kit.Exercises, ex)
		}
	}
	for _, item := range completion.Objects(obj, "weeklyPlan", "plano") {
		m, ok := item.(map[string]any)
		if !ok {
			continue
		}
		day := DayPlan{
			Day:     completion.String(m, "day", "dia"),
			Focus:   completion.String(m, "focus", "foco"),
			Actions: util.NormalizeList(completion.Strings(m, "actions", "acoes")),
		}
		if day.Day != "" && len(day.Actions) > 0 {
			kit.WeeklyPlan = append(kit.WeeklyPlan, day)
		}
	}
	return kit
}

func associationFromObject(obj map[string]any) AssociationSession {
	return AssociationSession{
		Guidance: completion.String(obj, "guidance", "orientacao"),
		Session:  util.NormalizeList(stripNumbering(completion.Strings(obj, "session", "prompts"))),
		Cautions: util.NormalizeList(completion.Strings(obj, "cautions", "cuidados")),
	}
}

// stripNumbering removes "1." or "1)" prefixes models add to numbered lists.
func stripNumbering(items []string) []string {
	out := make([]string, 0, len(items))
	for _, item := range items {
		clean := strings.TrimSpace(item)
		i := 0
		for i < len(clean) && clean[i] >= '0' && clean[i] <= '9' {
			i++
		}
		if i > 0 && i < len(clean) && (clean[i] == '.' || clean[i] == ')') {
			clean = strings.TrimSpace(clean[i+1:])
		}
		out = append(out, clean)
	}
	return out
}

func missingSleepFields(kit SleepKit, limits Limits) []string {
	var missing []string
	if kit.Overview == "" {
		missing = append(missing, "overview")
	}
	if len(kit.Exercises) < limits.MinExercises {
		missing = append(missing, "exercises")
	}
	if len(kit.WeeklyPlan) < limits.PlanDays {
		missing = append(missing, "weeklyPlan")
	}
	if len(kit.Cautions) < limits.MinCautions {
		missing = append(missing, "cautions")
	}
	return missing
}

func missingAssociationFields(session AssociationSession, limits Limits) []string {
	var missing []string
	if session.Guidance == "" {
		missing = append(missing, "guidance")
	}
	if len(session.Session) < limits.MinSessionItems {
		missing = append(missing, "session")
	}
	if len(session.Cautions) < limits.MinCautions {
		missing = append(missing, "cautions")
	}
	return missing
}

// mergeSleep keeps every field of got that meets limits and takes the rest
// from fallback.
func mergeSleep(got, fallback SleepKit, limits Limits) (SleepKit, []string) {
	missing := missingSleepFields(got, limits)
	for _, field := range missing {
		switch field {
		case "overview":
			got.Overview = fallback.Overview
		case "exercises":
			got.Exercises = fallback.Exercises
		case "weeklyPlan":
			got.WeeklyPlan = fallback.WeeklyPlan
		case "cautions":
			got.Cautions = fallback.Cautions
		}
	}
	if limits.PlanDays > 0 && len(got.WeeklyPlan) > limits.PlanDays {
		got.WeeklyPlan = got.WeeklyPlan[:limits.PlanDays]
	}
	got.Language = fallback.Language
	return got, missing
}

func mergeAssociation(got, fallback AssociationSession, limits Limits) (AssociationSession, []string) {
	missing := missingAssociationFields(got, limits)
	for _, field := range missing {
		switch field {
		case "guidance":
			got.Guidance = fallback.Guidance
		case "session":
			got.Session = fallback.Session
		case "cautions":
			got.Cautions = fallback.Cautions
		}
	}
	got.Mode = fallback.Mode
	got.Language = fallback.Language
	return got, missing
}
