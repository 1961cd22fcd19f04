package suppliers

import (
	"context"
	"fmt"
	"math"
	"time"

	"go.uber.org/zap"

	"github.com/kangopak/ohisee-api/internal/application"
	domnca "github.com/kangopak/ohisee-api/internal/domain/nca"
	domain "github.com/kangopak/ohisee-api/internal/domain/supplier"
)

// Service maintains supplier performance metrics from supplier-origin
// NCAs (BRCGS 3.4 supplier approval and performance monitoring).
type Service struct {
	Suppliers domain.Repository
	NCAs      domnca.Repository
	Clock     application.Clock
	Log       *zap.SugaredLogger
}

// RecalculateFromNCA refreshes the metrics of the supplier named on the
// NCA. Unknown suppliers are skipped without error.
func (s *Service) RecalculateFromNCA(ctx context.Context, n *domnca.NCA) error {
	if !n.SupplierOrigin() {
		return nil
	}

	sup, err := s.Suppliers.FindByName(ctx, n.SupplierName)
	if err != nil {
		return fmt.Errorf("find supplier: %w", err)
	}
	if sup == nil {
		s.Log.Warnw("supplier not found for nca", "supplier", n.SupplierName, "nca", n.Number)
		return nil
	}

	now := s.Clock.Now()
	yearStart := time.Date(now.Year(), 1, 1, 0, 0, 0, 0, now.Location())

	last12, err := s.NCAs.List(ctx, domnca.Filter{
		NCType:       domnca.TypeRawMaterial,
		SupplierName: n.SupplierName,
		Since:        now.AddDate(0, -12, 0),
	})
	if err != nil {
		return fmt.Errorf("count supplier ncas: %w", err)
	}

	ytd := 0
	var lastNCA *time.Time
	var closureSum float64
	closureCount := 0
	for _, row := range last12 {
		if !row.CreatedAt.Before(yearStart) {
			ytd++
		}
		if lastNCA == nil || row.CreatedAt.After(*lastNCA) {
			t := row.CreatedAt
			lastNCA = &t
		}
		if row.Status == domnca.StatusClosed && row.CloseOutDate != nil {
			closureSum += row.CloseOutDate.Sub(row.CreatedAt).Hours() / 24
			closureCount++
		}
	}

	var avgClosure *float64
	if closureCount > 0 {
		v := math.Round(closureSum/float64(closureCount)*10) / 10
		avgClosure = &v
	}

	rating := QualityRating(len(last12))
	sup.NCACountYTD = ytd
	sup.NCACountLast12Mo = len(last12)
	sup.AvgClosureDays = avgClosure
	sup.QualityRating = &rating
	sup.RiskLevel = RiskLevelFor(len(last12), avgClosure)
	sup.LastNCADate = lastNCA

	if err := s.Suppliers.Save(ctx, sup); err != nil {
		return fmt.Errorf("save supplier metrics: %w", err)
	}
	return nil
}

// PerformanceScore computes the 0-100 score for one supplier.
func (s *Service) PerformanceScore(ctx context.Context, id domain.ID) (int, error) {
	sup, err := s.Suppliers.Get(ctx, id)
	if err != nil {
		return 0, err
	}
	return Score(sup), nil
}

// List returns all suppliers with their current metrics.
func (s *Service) List(ctx context.Context) ([]*domain.Supplier, error) {
	return s.Suppliers.List(ctx)
}

// QualityRating maps the 12-month NCA count onto a 1.0-5.0 scale:
// zero NCAs is a perfect 5.0, ten or more bottoms out at 1.0.
func QualityRating(ncaCount int) float64 {
	if ncaCount <= 0 {
		return 5.0
	}
	r := 5.0 - float64(ncaCount-1)*0.4
	return math.Max(1.0, math.Min(5.0, r))
}

// RiskLevelFor derives the risk band from the 12-month NCA count and
// the average closure time in days.
func RiskLevelFor(ncaCount int, avgClosureDays *float64) domain.RiskLevel {
	closure := 0.0
	if avgClosureDays != nil {
		closure = *avgClosureDays
	}
	switch {
	case ncaCount >= 10 || closure > 30:
		return domain.RiskCritical
	case ncaCount >= 5 || closure > 20:
		return domain.RiskHigh
	case ncaCount >= 2:
		return domain.RiskMedium
	default:
		return domain.RiskLow
	}
}

// Score starts at 100 and deducts for NCA volume (4 per NCA, max 40),
// quality-rating shortfall (10 per point below 5.0), late deliveries
// (0.2 per percent below 100) and the standing risk level.
func Score(sup *domain.Supplier) int {
	score := 100.0

	score -= math.Min(40, float64(sup.NCACountLast12Mo)*4)
	if sup.QualityRating != nil {
		score -= (5.0 - *sup.QualityRating) * 10
	}
	if sup.OnTimeDeliveryPct != nil {
		score -= (100 - *sup.OnTimeDeliveryPct) * 0.2
	}
	switch sup.RiskLevel {
	case domain.RiskCritical:
		score -= 20
	case domain.RiskHigh:
		score -= 10
	case domain.RiskMedium:
		score -= 5
	}

	return int(math.Max(0, math.Min(100, score)))
}
