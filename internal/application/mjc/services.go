package mjc

import (
	"context"
	"errors"
	"fmt"
	"math/rand"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/kangopak/ohisee-api/internal/application"
	domaudit "github.com/kangopak/ohisee-api/internal/domain/audit"
	domain "github.com/kangopak/ohisee-api/internal/domain/mjc"
)

// CloseOutDays is the close-out due offset applied when a job card is raised.
const CloseOutDays = 14

// ErrHygieneIncomplete rejects a clearance request while any of the 10
// checklist items is unverified.
var ErrHygieneIncomplete = errors.New("BRCGS violation: all 10 hygiene items must be verified before granting clearance")

// Service implements the MJC use cases. Safe for concurrent use.
type Service struct {
	Repo  domain.Repository
	Audit domaudit.Repository
	Clock application.Clock
	Log   *zap.SugaredLogger
}

// CreateCommand carries the submitted job card form.
type CreateCommand struct {
	MachineName    string
	Description    string
	WorkCarriedOut string
	Urgency        domain.Urgency
	Draft          bool
}

// Create raises a new job card. The close-out due date is fixed at 14
// days from the raise date.
func (s *Service) Create(ctx context.Context, actor domaudit.Actor, cmd CreateCommand) (*domain.MJC, error) {
	now := s.Clock.Now()

	status := domain.StatusOpen
	if cmd.Draft {
		status = domain.StatusDraft
	}
	m := &domain.MJC{
		ID:              domain.ID(uuid.New().String()),
		Number:          fmt.Sprintf("MJC-%d-%08d", now.Year(), rand.Intn(100000000)),
		RaisedByUserID:  actor.UserID,
		MachineName:     cmd.MachineName,
		Description:     cmd.Description,
		WorkCarriedOut:  cmd.WorkCarriedOut,
		Urgency:         cmd.Urgency,
		Status:          status,
		CreatedAt:       now,
		CloseOutDueDate: now.AddDate(0, 0, CloseOutDays),
	}
	if m.Urgency == "" {
		m.Urgency = domain.UrgencyMedium
	}

	if err := s.Repo.Save(ctx, m); err != nil {
		return nil, fmt.Errorf("save mjc: %w", err)
	}

	s.appendAudit(ctx, actor, m, "mjc_created")
	return m, nil
}

// UpdateCommand carries editable fields.
type UpdateCommand struct {
	WorkCarriedOut string
	Urgency        domain.Urgency
	Status         domain.Status
}

// Update applies the edit to an existing job card.
func (s *Service) Update(ctx context.Context, actor domaudit.Actor, id domain.ID, cmd UpdateCommand) (*domain.MJC, error) {
	m, err := s.Repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if cmd.WorkCarriedOut != "" {
		m.WorkCarriedOut = cmd.WorkCarriedOut
	}
	if cmd.Urgency != "" {
		m.Urgency = cmd.Urgency
	}
	if cmd.Status != "" {
		m.Status = cmd.Status
	}
	if err := s.Repo.Save(ctx, m); err != nil {
		return nil, fmt.Errorf("update mjc: %w", err)
	}
	s.appendAudit(ctx, actor, m, "mjc_updated")
	return m, nil
}

// GrantHygieneClearance verifies the mandatory checklist and closes the
// card. All 10 items must be true; production may not resume otherwise.
func (s *Service) GrantHygieneClearance(ctx context.Context, actor domaudit.Actor, id domain.ID, checklist domain.HygieneChecklist) (*domain.MJC, error) {
	if !checklist.AllVerified() {
		return nil, ErrHygieneIncomplete
	}

	m, err := s.Repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	now := s.Clock.Now()
	m.Hygiene = checklist
	m.HygieneClearedBy = actor.Name
	m.HygieneClearedAt = &now
	m.Status = domain.StatusClosed
	m.ClosedAt = &now

	if err := s.Repo.Save(ctx, m); err != nil {
		return nil, fmt.Errorf("grant hygiene clearance: %w", err)
	}

	s.appendAudit(ctx, actor, m, "hygiene_clearance_granted")
	return m, nil
}

// Get returns one job card.
func (s *Service) Get(ctx context.Context, id domain.ID) (*domain.MJC, error) {
	return s.Repo.Get(ctx, id)
}

// List returns job cards matching the filter.
func (s *Service) List(ctx context.Context, f domain.Filter) ([]*domain.MJC, error) {
	return s.Repo.List(ctx, f)
}

func (s *Service) appendAudit(ctx context.Context, actor domaudit.Actor, m *domain.MJC, action string) {
	entry := &domaudit.Entry{
		ID:         uuid.New().String(),
		EntityType: "mjc",
		EntityID:   string(m.ID),
		Action:     action,
		UserID:     actor.UserID,
		UserName:   actor.Name,
		UserRole:   actor.Role,
		IPAddress:  actor.IP,
		Detail:     map[string]any{"job_card_number": m.Number, "status": string(m.Status)},
		CreatedAt:  s.Clock.Now(),
	}
	if err := s.Audit.Append(ctx, entry); err != nil {
		s.Log.Errorw("mjc audit entry failed", "action", action, "mjc", m.Number, "error", err)
	}
}
