package wellness

import (
	"github.com/Boltflix/oh-my-freud-backend/internal/domain/completion"
	"github.com/Boltflix/oh-my-freud-backend/internal/domain/locale"
)

// Association modes select the persona of the free-association coach.
const (
	ModeFreud   = "freud"
	ModeNeutral = "neutral"
)

// SleepRequest asks for a sleep-hygiene kit.
type SleepRequest struct {
	Lang        string         `json:"lang"`
	Language    string         `json:"language"`
	Preferences map[string]any `json:"preferences"`
}

// AssociationRequest asks for a free-association session.
type AssociationRequest struct {
	Lang     string `json:"lang"`
	Language string `json:"language"`
	Mode     string `json:"mode"`
}

// Exercise is a short routine with ordered steps.
type Exercise struct {
	Title    string   `json:"title" yaml:"title"`
	Duration string   `json:"duration" yaml:"duration"`
	Steps    []string `json:"steps" yaml:"steps"`
}

// DayPlan is one day of the weekly plan.
type DayPlan struct {
	Day     string   `json:"day" yaml:"day"`
	Focus   string   `json:"focus" yaml:"focus"`
	Actions []string `json:"actions" yaml:"actions"`
}

// SleepKit is the sleep-hygiene result.
type SleepKit struct {
	Overview   string          `json:"overview" yaml:"overview"`
	Exercises  []Exercise      `json:"exercises" yaml:"exercises"`
	WeeklyPlan []DayPlan       `json:"weeklyPlan" yaml:"weeklyPlan"`
	Cautions   []string        `json:"cautions" yaml:"cautions"`
	Language   locale.Language `json:"language" yaml:"-"`
}

// AssociationSession is the free-association result.
type AssociationSession struct {
	Guidance string          `json:"guidance" yaml:"guidance"`
	Session  []string        `json:"session" yaml:"session"`
	Cautions []string        `json:"cautions" yaml:"cautions"`
	Mode     string          `json:"mode" yaml:"-"`
	Language locale.Language `json:"language" yaml:"-"`
}

// SleepBody is the serialized sleep-hygiene response.
type SleepBody struct {
	Result SleepKit        `json:"result"`
	Meta   completion.Meta `json:"meta"`
}

// AssociationBody is the serialized free-association response.
type AssociationBody struct {
	Result AssociationSession `json:"result"`
	Meta   completion.Meta    `json:"meta"`
}

// Limits are the minimum content rules for both results.
type Limits struct {
	MinExercises    int
	PlanDays        int
	MinCautions     int
	MinSessionItems int
}

// DefaultLimits holds the canonical minimums.
var DefaultLimits = Limits{
	MinExercises:    3,
	PlanDays:        7,
	MinCautions:     1,
	MinSessionItems: 8,
}

// Config wires runtime settings for the wellness service.
type Config struct {
	DefaultLanguage locale.Language
	Limits          Limits
	Temperature     float32
}
