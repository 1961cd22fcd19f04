package complaints

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/kangopak/ohisee-api/internal/application"
	appnca "github.com/kangopak/ohisee-api/internal/application/nca"
	domaudit "github.com/kangopak/ohisee-api/internal/domain/audit"
	domain "github.com/kangopak/ohisee-api/internal/domain/complaint"
	domnca "github.com/kangopak/ohisee-api/internal/domain/nca"
)

// Service implements the customer complaint use cases.
type Service struct {
	Repo  domain.Repository
	NCAs  *appnca.Service
	Clock application.Clock
	Log   *zap.SugaredLogger
}

// CreateCommand carries a received complaint.
type CreateCommand struct {
	CustomerName string
	ProductCode  string
	Description  string
}

// Create logs a customer complaint.
func (s *Service) Create(ctx context.Context, actor domaudit.Actor, cmd CreateCommand) (*domain.Complaint, error) {
	now := s.Clock.Now()
	c := &domain.Complaint{
		ID:           domain.ID(uuid.New().String()),
		Number:       fmt.Sprintf("CMP-%d-%06d", now.Year(), now.UnixMilli()%1000000),
		CustomerName: cmd.CustomerName,
		ProductCode:  cmd.ProductCode,
		Description:  cmd.Description,
		ReceivedAt:   now,
		Status:       domain.StatusOpen,
		CreatedBy:    actor.UserID,
		CreatedAt:    now,
	}
	if err := s.Repo.Save(ctx, c); err != nil {
		return nil, fmt.Errorf("save complaint: %w", err)
	}
	return c, nil
}

// EscalateToNCA raises a customer-origin NCA from the complaint and
// links the two records.
func (s *Service) EscalateToNCA(ctx context.Context, actor domaudit.Actor, id domain.ID) (*domnca.NCA, error) {
	c, err := s.Repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if c.LinkedNCAID != "" {
		return nil, fmt.Errorf("complaint %s already linked to NCA %s", c.Number, c.LinkedNCAID)
	}

	desc := c.Description
	if !strings.Contains(strings.ToLower(desc), "complaint") {
		desc = fmt.Sprintf("Customer complaint %s from %s: %s", c.Number, c.CustomerName, c.Description)
	}
	n, err := s.NCAs.Create(ctx, actor, appnca.CreateCommand{
		NCType:             domnca.TypeOther,
		NCTypeOther:        "customer-complaint",
		ProductDescription: c.ProductCode,
		Description:        desc,
	})
	if err != nil {
		return nil, fmt.Errorf("create nca from complaint: %w", err)
	}

	if err := s.Repo.LinkNCA(ctx, c.ID, string(n.ID)); err != nil {
		return nil, fmt.Errorf("link complaint to nca: %w", err)
	}
	return n, nil
}

// Get returns one complaint.
func (s *Service) Get(ctx context.Context, id domain.ID) (*domain.Complaint, error) {
	return s.Repo.Get(ctx, id)
}

// GetByNCA returns the complaint linked to an NCA, if any.
func (s *Service) GetByNCA(ctx context.Context, ncaID string) (*domain.Complaint, error) {
	return s.Repo.GetByNCA(ctx, ncaID)
}
