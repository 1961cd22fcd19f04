package waste

import (
	"context"
	"errors"
	"fmt"
	"math"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/kangopak/ohisee-api/internal/application"
	domaudit "github.com/kangopak/ohisee-api/internal/domain/audit"
	domnca "github.com/kangopak/ohisee-api/internal/domain/nca"
	domain "github.com/kangopak/ohisee-api/internal/domain/waste"
)

// ErrNotDiscard rejects manifest creation for NCAs whose disposition is
// not discard.
var ErrNotDiscard = errors.New("waste manifest requires a discard disposition on the NCA")

// Service implements the waste manifest use cases.
type Service struct {
	Repo  domain.Repository
	NCAs  domnca.Repository
	Clock application.Clock
	Log   *zap.SugaredLogger
}

// CreateCommand carries the physical disposal record.
type CreateCommand struct {
	NCAID            string
	WasteType        string
	PhysicalQuantity float64
	QuantityUnit     string
	DisposalMethod   string
}

// CreateFromNCA writes the manifest for a discarded NCA. A physical
// count outside 5% of the NCA quantity is allowed but logged for the
// reconciliation check to flag at closure.
func (s *Service) CreateFromNCA(ctx context.Context, actor domaudit.Actor, cmd CreateCommand) (*domain.Manifest, error) {
	n, err := s.NCAs.Get(ctx, domnca.ID(cmd.NCAID))
	if err != nil {
		return nil, fmt.Errorf("fetch nca: %w", err)
	}
	if !n.DispositionDiscard {
		return nil, ErrNotDiscard
	}

	if n.Quantity != nil {
		diff := math.Abs(cmd.PhysicalQuantity - *n.Quantity)
		if diff > *n.Quantity*0.05 {
			s.Log.Warnw("waste manifest quantity outside tolerance",
				"nca", n.Number, "nca_quantity", *n.Quantity, "physical_quantity", cmd.PhysicalQuantity)
		}
	}

	m := &domain.Manifest{
		ID:               domain.ID(uuid.New().String()),
		NCAID:            cmd.NCAID,
		WasteType:        cmd.WasteType,
		PhysicalQuantity: cmd.PhysicalQuantity,
		QuantityUnit:     cmd.QuantityUnit,
		DisposalMethod:   cmd.DisposalMethod,
		CreatedBy:        actor.UserID,
		CreatedAt:        s.Clock.Now(),
	}
	if err := s.Repo.Save(ctx, m); err != nil {
		return nil, fmt.Errorf("save waste manifest: %w", err)
	}
	return m, nil
}

// GetByNCA returns the manifest linked to an NCA, if any.
func (s *Service) GetByNCA(ctx context.Context, ncaID string) (*domain.Manifest, error) {
	return s.Repo.GetByNCA(ctx, ncaID)
}
