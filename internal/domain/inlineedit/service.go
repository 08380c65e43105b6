package inlineedit

import (
	"context"
	"log/slog"
	"strings"
	"time"

	apperrors "github.com/Boltflix/oh-my-freud-backend/pkg/errors"
	"github.com/Boltflix/oh-my-freud-backend/pkg/util"
)

// ReasonDisabled is reported when edits are switched off.
const ReasonDisabled = "inline_edit_disabled"

// Request carries a client-side edit of an interpretation.
type Request struct {
	EditID      string `json:"editId"`
	NewFullText string `json:"newFullText"`
}

// Response acknowledges an edit.
type Response struct {
	Success     bool       `json:"success"`
	Applied     bool       `json:"applied"`
	Reason      string     `json:"reason,omitempty"`
	EditID      string     `json:"editId,omitempty"`
	NewFullText string     `json:"newFullText,omitempty"`
	StoredAt    *time.Time `json:"storedAt,omitempty"`
}

// Store persists edit blobs.
type Store interface {
	Put(ctx context.Context, key string, body []byte) error
}

// Config toggles the edit hook.
type Config struct {
	Enabled bool
}

// Service applies inline edits.
type Service interface {
	Apply(ctx context.Context, req Request) (Response, error)
	Enabled() bool
}

type service struct {
	cfg    Config
	store  Store
	logger *slog.Logger
	now    func() time.Time
}

// NewService constructs the inline edit service.
func NewService(cfg Config, store Store, logger *slog.Logger) Service {
	return &service{
		cfg:    cfg,
		store:  store,
		logger: logger.With("component", "inlineedit.service"),
		now:    util.NowUTC,
	}
}

func (s *service) Enabled() bool {
	return s.cfg.Enabled && s.store != nil
}

func (s *service) Apply(ctx context.Context, req Request) (Response, error) {
	if !s.Enabled() {
		return Response{Success: true, Applied: false, Reason: ReasonDisabled}, nil
	}
	editID := strings.TrimSpace(req.EditID)
	if editID == "" || strings.TrimSpace(req.NewFullText) == "" {
		return Response{}, apperrors.Wrap(apperrors.CodeMissingFields, "editId and newFullText are required", nil)
	}
	if !validID(editID) {
		return Response{}, apperrors.Wrap(apperrors.CodeInvalidEditID, "editId may only contain letters, digits, '-' and '_'", nil)
	}

	if err := s.store.Put(ctx, Key(editID), []byte(req.NewFullText)); err != nil {
		return Response{}, apperrors.Wrap(apperrors.CodeEditStoreFailed, "could not store edit", err)
	}
	storedAt := s.now()
	s.logger.Info("inline edit stored", "edit_id", editID, "chars", len([]rune(req.NewFullText)))
	return Response{
		Success:     true,
		Applied:     true,
		EditID:      editID,
		NewFullText: req.NewFullText,
		StoredAt:    &storedAt,
	}, nil
}

// Key returns the blob key for an edit id.
func Key(editID string) string {
	return "edits/" + editID + ".txt"
}

func validID(id string) bool {
	if len(id) > 128 {
		return false
	}
	for _, r := range id {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
		default:
			return false
		}
	}
	return true
}
