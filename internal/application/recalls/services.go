package recalls

import (
	"context"
	"fmt"
	"math/rand"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/kangopak/ohisee-api/internal/application"
	domaudit "github.com/kangopak/ohisee-api/internal/domain/audit"
	domain "github.com/kangopak/ohisee-api/internal/domain/recall"
)

// Service implements the recall / mock-recall use cases.
type Service struct {
	Repo  domain.Repository
	Audit domaudit.Repository
	Clock application.Clock
	Log   *zap.SugaredLogger
}

// InitiateCommand starts a recall or traceability exercise.
type InitiateCommand struct {
	Kind         domain.Kind
	Reason       string
	ProductCode  string
	BatchNumbers string
	NCAID        string
}

// Initiate opens the recall and writes its audit entry. Recalls are
// audit-critical: a failed audit write fails the initiation.
func (s *Service) Initiate(ctx context.Context, actor domaudit.Actor, cmd InitiateCommand) (*domain.Recall, error) {
	now := s.Clock.Now()
	r := &domain.Recall{
		ID:           domain.ID(uuid.New().String()),
		Number:       fmt.Sprintf("RCL-%d-%06d", now.Year(), rand.Intn(1000000)),
		Kind:         cmd.Kind,
		Reason:       cmd.Reason,
		ProductCode:  cmd.ProductCode,
		BatchNumbers: cmd.BatchNumbers,
		NCAID:        cmd.NCAID,
		InitiatedBy:  actor.UserID,
		Status:       domain.StatusInitiated,
		CreatedAt:    now,
	}
	if r.Kind == "" {
		r.Kind = domain.KindMock
	}

	if err := s.Repo.Save(ctx, r); err != nil {
		return nil, fmt.Errorf("save recall: %w", err)
	}

	entry := &domaudit.Entry{
		ID:         uuid.New().String(),
		EntityType: "recall",
		EntityID:   string(r.ID),
		Action:     "recall_initiated",
		UserID:     actor.UserID,
		UserName:   actor.Name,
		UserRole:   actor.Role,
		IPAddress:  actor.IP,
		Detail:     map[string]any{"recall_number": r.Number, "kind": string(r.Kind), "product_code": r.ProductCode},
		CreatedAt:  now,
	}
	if err := s.Audit.Append(ctx, entry); err != nil {
		return nil, fmt.Errorf("recall audit write failed: %w", err)
	}
	return r, nil
}

// Complete marks the recall finished.
func (s *Service) Complete(ctx context.Context, id domain.ID) (*domain.Recall, error) {
	r, err := s.Repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	r.Status = domain.StatusCompleted
	if err := s.Repo.Save(ctx, r); err != nil {
		return nil, fmt.Errorf("complete recall: %w", err)
	}
	return r, nil
}

// List returns recent recalls.
func (s *Service) List(ctx context.Context, limit int) ([]*domain.Recall, error) {
	return s.Repo.List(ctx, limit)
}
