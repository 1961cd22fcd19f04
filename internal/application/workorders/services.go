package workorders

import (
	"context"
	"time"

	domain "github.com/kangopak/ohisee-api/internal/domain/workorder"
)

// Service exposes the work order reads plus completion, which the
// end-of-day close-out drives.
type Service struct {
	Repo domain.Repository
}

func (s *Service) Get(ctx context.Context, id domain.ID) (*domain.WorkOrder, error) {
	return s.Repo.Get(ctx, id)
}

func (s *Service) ListByOperator(ctx context.Context, operatorID string) ([]*domain.WorkOrder, error) {
	return s.Repo.ListByOperator(ctx, operatorID)
}

func (s *Service) Complete(ctx context.Context, operatorID string, ids []domain.ID, at time.Time) error {
	return s.Repo.CompleteByOwner(ctx, operatorID, ids, at)
}
