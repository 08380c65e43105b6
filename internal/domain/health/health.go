package health

import (
	"time"

	"github.com/Boltflix/oh-my-freud-backend/pkg/util"
)

// Report is the payload served by the health endpoint.
type Report struct {
	OK             bool      `json:"ok"`
	HasOpenAI      bool      `json:"hasOpenAI"`
	HasStripe      bool      `json:"hasStripe"`
	HasWebhook     bool      `json:"hasWebhook"`
	HasDatabase    bool      `json:"hasDatabase"`
	HasCache       bool      `json:"hasCache"`
	HasObjectStore bool      `json:"hasObjectStore"`
	Now            time.Time `json:"now"`
}

// Integrations lists which backends were wired at boot.
type Integrations struct {
	OpenAI      bool
	Stripe      bool
	Webhook     bool
	Database    bool
	Cache       bool
	ObjectStore bool
}

// Service reports process health.
type Service interface {
	Report() Report
}

type service struct {
	integrations Integrations
	now          func() time.Time
}

// NewService captures the wiring state for later reports.
func NewService(integrations Integrations) Service {
	return &service{integrations: integrations, now: util.NowUTC}
}

func (s *service) Report() Report {
	in := s.integrations
	return Report{
		OK:             true,
		HasOpenAI:      in.OpenAI,
		HasStripe:      in.Stripe,
		HasWebhook:     in.Webhook,
		HasDatabase:    in.Database,
		HasCache:       in.Cache,
		HasObjectStore: in.ObjectStore,
		Now:            s.now(),
	}
}
