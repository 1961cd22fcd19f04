package trends

import (
	"context"
	"math"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/kangopak/ohisee-api/internal/application"
	dommjc "github.com/kangopak/ohisee-api/internal/domain/mjc"
	domnca "github.com/kangopak/ohisee-api/internal/domain/nca"
)

// Service produces the dashboard and trend-analysis aggregates.
// A failed upstream fetch degrades to an empty result instead of an
// error: charts render zeroes rather than failing the page.
type Service struct {
	NCAs  domnca.Repository
	MJCs  dommjc.Repository
	Clock application.Clock
	Log   *zap.SugaredLogger
}

// YearTrends aggregates all NCAs raised in the given year.
func (s *Service) YearTrends(ctx context.Context, year int) YearSummary {
	rows, err := s.NCAs.ListByYear(ctx, year)
	if err != nil {
		s.Log.Errorw("year trend fetch failed", "year", year, "error", err)
		return AggregateYear(nil, s.Clock.Now())
	}
	return AggregateYear(rows, s.Clock.Now())
}

// NCWeeklySeries returns the trailing 12-week NCA count series.
func (s *Service) NCWeeklySeries(ctx context.Context) []WeekCount {
	now := s.Clock.Now()
	rows, err := s.NCAs.List(ctx, domnca.Filter{Since: now.AddDate(0, 0, -84)})
	if err != nil {
		s.Log.Errorw("weekly trend fetch failed", "error", err)
		return WeeklyCounts(nil, now)
	}
	return WeeklyCounts(rows, now)
}

// UrgencyResponse is the mean hours from raise to close per urgency.
type UrgencyResponse struct {
	Urgency  string  `json:"urgency"`
	AvgHours float64 `json:"avg_hours"`
}

// MaintenanceResponse averages closed-MJC response times by urgency.
func (s *Service) MaintenanceResponse(ctx context.Context) []UrgencyResponse {
	rows, err := s.MJCs.List(ctx, dommjc.Filter{Status: dommjc.StatusClosed})
	if err != nil {
		s.Log.Errorw("maintenance response fetch failed", "error", err)
		rows = nil
	}
	return maintenanceResponse(rows)
}

func maintenanceResponse(rows []*dommjc.MJC) []UrgencyResponse {
	order := []dommjc.Urgency{dommjc.UrgencyCritical, dommjc.UrgencyHigh, dommjc.UrgencyMedium, dommjc.UrgencyLow}
	sums := map[dommjc.Urgency]float64{}
	counts := map[dommjc.Urgency]int{}
	for _, m := range rows {
		if m.ClosedAt == nil {
			continue
		}
		sums[m.Urgency] += m.ClosedAt.Sub(m.CreatedAt).Hours()
		counts[m.Urgency]++
	}
	out := make([]UrgencyResponse, 0, len(order))
	for _, u := range order {
		avg := 0.0
		if counts[u] > 0 {
			avg = math.Round(sums[u]/float64(counts[u])*10) / 10
		}
		out = append(out, UrgencyResponse{Urgency: capitalize(string(u)), AvgHours: avg})
	}
	return out
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return string(s[0]-'a'+'A') + s[1:]
}

// DashboardKPIs is the production dashboard bundle.
type DashboardKPIs struct {
	OpenNCAs            int               `json:"open_ncas"`
	OpenMJCs            int               `json:"open_mjcs"`
	WeeklyNCASeries     []WeekCount       `json:"weekly_nca_series"`
	MaintenanceResponse []UrgencyResponse `json:"maintenance_response"`
}

// Dashboard fans the independent KPI reads out concurrently and awaits
// them jointly. This is a latency optimization only; no ordering between
// the reads is required or enforced.
func (s *Service) Dashboard(ctx context.Context) (DashboardKPIs, error) {
	var kpis DashboardKPIs
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		rows, err := s.NCAs.List(gctx, domnca.Filter{Status: domnca.StatusSubmitted})
		if err != nil {
			s.Log.Errorw("open nca count failed", "error", err)
			return nil
		}
		kpis.OpenNCAs = len(rows)
		return nil
	})
	g.Go(func() error {
		rows, err := s.MJCs.List(gctx, dommjc.Filter{Status: dommjc.StatusOpen})
		if err != nil {
			s.Log.Errorw("open mjc count failed", "error", err)
			return nil
		}
		kpis.OpenMJCs = len(rows)
		return nil
	})
	g.Go(func() error {
		kpis.WeeklyNCASeries = s.NCWeeklySeries(gctx)
		return nil
	})
	g.Go(func() error {
		kpis.MaintenanceResponse = s.MaintenanceResponse(gctx)
		return nil
	})

	if err := g.Wait(); err != nil {
		return DashboardKPIs{}, err
	}
	return kpis, nil
}
