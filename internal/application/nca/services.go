package nca

import (
	"context"
	"fmt"
	"math/rand"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/kangopak/ohisee-api/internal/application"
	domaudit "github.com/kangopak/ohisee-api/internal/domain/audit"
	domain "github.com/kangopak/ohisee-api/internal/domain/nca"
	domnotify "github.com/kangopak/ohisee-api/internal/domain/notify"
)

// PerformanceUpdater recalculates supplier metrics after a supplier
// origin NCA is created or closed. Best-effort collaborator.
type PerformanceUpdater interface {
	RecalculateFromNCA(ctx context.Context, n *domain.NCA) error
}

// Service implements the NCA use cases. Safe for concurrent use.
type Service struct {
	Repo        domain.Repository
	Audit       domaudit.Repository
	Notifier    domnotify.Notifier
	Performance PerformanceUpdater
	Clock       application.Clock
	Log         *zap.SugaredLogger
}

// CreateCommand carries the submitted NCA form.
type CreateCommand struct {
	WorkOrderID        string
	NCType             domain.NCType
	NCTypeOther        string
	SupplierName       string
	ProductDescription string
	SupplierWOBatch    string
	Quantity           *float64
	QuantityUnit       string
	CartonNumbers      string
	Description        string
	MachineStatus      domain.MachineStatus
	EstimatedDowntime  *float64
	RootCauseAnalysis  string
	CorrectiveAction   string
	DispositionDiscard bool
	Confidential       bool
}

// Create records a new NCA with status submitted. A machine-down report
// additionally triggers a best-effort alert to maintenance.
func (s *Service) Create(ctx context.Context, actor domaudit.Actor, cmd CreateCommand) (*domain.NCA, error) {
	now := s.Clock.Now()

	n := &domain.NCA{
		ID:                 domain.ID(uuid.New().String()),
		Number:             generateNumber(now.Year()),
		RaisedByUserID:     actor.UserID,
		WorkOrderID:        cmd.WorkOrderID,
		NCType:             cmd.NCType,
		NCTypeOther:        cmd.NCTypeOther,
		SupplierName:       cmd.SupplierName,
		ProductDescription: cmd.ProductDescription,
		SupplierWOBatch:    cmd.SupplierWOBatch,
		Quantity:           cmd.Quantity,
		QuantityUnit:       cmd.QuantityUnit,
		CartonNumbers:      cmd.CartonNumbers,
		Description:        cmd.Description,
		MachineStatus:      cmd.MachineStatus,
		EstimatedDowntime:  cmd.EstimatedDowntime,
		RootCauseAnalysis:  cmd.RootCauseAnalysis,
		CorrectiveAction:   cmd.CorrectiveAction,
		DispositionDiscard: cmd.DispositionDiscard,
		Confidential:       cmd.Confidential,
		Status:             domain.StatusSubmitted,
		CreatedAt:          now,
	}
	if n.MachineStatus == "" {
		n.MachineStatus = domain.MachineOperational
	}
	if n.MachineStatus == domain.MachineDown {
		n.MachineDownSince = &now
	}

	if err := s.Repo.Save(ctx, n); err != nil {
		return nil, fmt.Errorf("save nca: %w", err)
	}

	s.appendAudit(ctx, actor, n, "nca_created")
	s.sendMachineDownAlertIfNeeded(ctx, actor, n)
	s.recalcSupplierIfNeeded(ctx, n)

	return n, nil
}

// SaveDraft stores a partial NCA with status draft. Drafts block the
// end-of-day submission until completed or discarded.
func (s *Service) SaveDraft(ctx context.Context, actor domaudit.Actor, cmd CreateCommand) (*domain.NCA, error) {
	now := s.Clock.Now()

	n := &domain.NCA{
		ID:                 domain.ID(uuid.New().String()),
		Number:             generateNumber(now.Year()),
		RaisedByUserID:     actor.UserID,
		WorkOrderID:        cmd.WorkOrderID,
		NCType:             cmd.NCType,
		SupplierName:       cmd.SupplierName,
		ProductDescription: cmd.ProductDescription,
		Quantity:           cmd.Quantity,
		QuantityUnit:       cmd.QuantityUnit,
		Description:        cmd.Description,
		MachineStatus:      cmd.MachineStatus,
		Confidential:       cmd.Confidential,
		Status:             domain.StatusDraft,
		CreatedAt:          now,
	}
	if n.MachineStatus == "" {
		n.MachineStatus = domain.MachineOperational
	}

	if err := s.Repo.Save(ctx, n); err != nil {
		return nil, fmt.Errorf("save nca draft: %w", err)
	}
	return n, nil
}

// CloseCommand carries the close-out fields.
type CloseCommand struct {
	RootCauseAnalysis string
	CorrectiveAction  string
}

// Close marks an NCA closed with the close-out date, then refreshes the
// supplier's performance record when applicable.
func (s *Service) Close(ctx context.Context, actor domaudit.Actor, id domain.ID, cmd CloseCommand) (*domain.NCA, error) {
	n, err := s.Repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	now := s.Clock.Now()
	if cmd.RootCauseAnalysis != "" {
		n.RootCauseAnalysis = cmd.RootCauseAnalysis
	}
	if cmd.CorrectiveAction != "" {
		n.CorrectiveAction = cmd.CorrectiveAction
	}
	n.Status = domain.StatusClosed
	n.CloseOutDate = &now

	if err := s.Repo.Save(ctx, n); err != nil {
		return nil, fmt.Errorf("close nca: %w", err)
	}

	s.appendAudit(ctx, actor, n, "nca_closed")
	s.recalcSupplierIfNeeded(ctx, n)
	return n, nil
}

// Get returns one NCA.
func (s *Service) Get(ctx context.Context, id domain.ID) (*domain.NCA, error) {
	return s.Repo.Get(ctx, id)
}

// List returns NCAs matching the filter.
func (s *Service) List(ctx context.Context, f domain.Filter) ([]*domain.NCA, error) {
	return s.Repo.List(ctx, f)
}

// generateNumber builds NCA-YYYY-NNNNNNNN.
func generateNumber(year int) string {
	return fmt.Sprintf("NCA-%d-%08d", year, rand.Intn(100000000))
}

func (s *Service) appendAudit(ctx context.Context, actor domaudit.Actor, n *domain.NCA, action string) {
	entry := &domaudit.Entry{
		ID:         uuid.New().String(),
		EntityType: "nca",
		EntityID:   string(n.ID),
		Action:     action,
		UserID:     actor.UserID,
		UserName:   actor.Name,
		UserRole:   actor.Role,
		IPAddress:  actor.IP,
		Detail:     map[string]any{"nca_number": n.Number, "status": string(n.Status)},
		CreatedAt:  s.Clock.Now(),
	}
	if err := s.Audit.Append(ctx, entry); err != nil {
		// Audit is best-effort for routine lifecycle events.
		s.Log.Errorw("nca audit entry failed", "action", action, "nca", n.Number, "error", err)
	}
}

func (s *Service) sendMachineDownAlertIfNeeded(ctx context.Context, actor domaudit.Actor, n *domain.NCA) {
	if n.MachineStatus != domain.MachineDown {
		return
	}
	alert := domnotify.MachineDownAlert{
		NCANumber:   n.Number,
		MachineName: n.ProductDescription,
		Description: n.Description,
		ReportedBy:  actor.Name,
		DownSince:   s.Clock.Now(),
	}
	if n.MachineDownSince != nil {
		alert.DownSince = *n.MachineDownSince
	}
	if n.EstimatedDowntime != nil {
		alert.EstimatedHours = *n.EstimatedDowntime
	}
	if err := s.Notifier.SendMachineDownAlert(ctx, alert); err != nil {
		s.Log.Errorw("machine down alert failed", "nca", n.Number, "error", err)
	}
}

func (s *Service) recalcSupplierIfNeeded(ctx context.Context, n *domain.NCA) {
	if s.Performance == nil || !n.SupplierOrigin() {
		return
	}
	if err := s.Performance.RecalculateFromNCA(ctx, n); err != nil {
		s.Log.Errorw("supplier performance update failed", "nca", n.Number, "supplier", n.SupplierName, "error", err)
	}
}
