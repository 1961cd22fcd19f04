package trends

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domnca "github.com/kangopak/ohisee-api/internal/domain/nca"
)

func TestCategorizeCascade(t *testing.T) {
	cases := []struct {
		description string
		want        string
	}{
		{"Gusset seal split during cooling", "Seal Integrity"},
		{"Machine guard loose on line 4", "Equipment & Tools"},
		{"Foreign body found in carton", "Contamination"},
		{"Print registration drifted on front panel", "Print & Registration"},
		{"Supplier delivered off-spec material", "Material Quality"},
		{"Short quantity in packed cartons", "Packing & Quantity"},
		{"Pallet label missing", "Other"},
		{"", "Other"},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, Categorize(tc.description), "description %q", tc.description)
	}
}

func TestCategorizeFirstBucketWins(t *testing.T) {
	// Mentions both a seal and a machine; the cascade is ordered, so the
	// earlier bucket takes it.
	assert.Equal(t, "Seal Integrity", Categorize("Seal jaws on the machine ran cold"))
}

func dayPtr(t time.Time) *time.Time { return &t }

func TestAggregateYear(t *testing.T) {
	now := time.Date(2026, 6, 15, 12, 0, 0, 0, time.UTC)
	jan5 := time.Date(2026, 1, 5, 8, 0, 0, 0, time.UTC)
	mar1 := time.Date(2026, 3, 1, 8, 0, 0, 0, time.UTC)

	ncas := []*domnca.NCA{
		{
			// Closed 8 days after raise: counts in January Under10.
			NCType: domnca.TypeRawMaterial, SupplierName: "Flexofilm",
			Description: "Supplier material gauge out of spec",
			Status:      domnca.StatusClosed,
			CreatedAt:   jan5, CloseOutDate: dayPtr(jan5.AddDate(0, 0, 8)),
		},
		{
			// Still open, due 25 days out: March Under30.
			NCType:      domnca.TypeFinishedGoods,
			Description: "Seal failure on gusset",
			Status:      domnca.StatusSubmitted,
			CreatedAt:   mar1, CloseOutDueDate: dayPtr(mar1.AddDate(0, 0, 25)),
		},
		{
			// Still open with no due date: aged against now (>30 days).
			NCType:      domnca.TypeWIP,
			Description: "Seal wrinkling on WIP reels",
			Status:      domnca.StatusSubmitted,
			CreatedAt:   mar1,
		},
	}

	s := AggregateYear(ncas, now)

	require.Len(t, s.MonthlyTrends, 12)
	require.Len(t, s.AgeAnalysis, 12)
	assert.Equal(t, "January", s.MonthlyTrends[0].Month)
	assert.Equal(t, 1, s.MonthlyTrends[0].Opened)
	assert.Equal(t, 1, s.MonthlyTrends[0].Closed)
	assert.Equal(t, 0, s.MonthlyTrends[0].StillOpen)
	assert.Equal(t, 2, s.MonthlyTrends[2].Opened)
	assert.Equal(t, 2, s.MonthlyTrends[2].StillOpen)

	assert.Equal(t, 1, s.AgeAnalysis[0].Under10Days)
	assert.Equal(t, 1, s.AgeAnalysis[2].Under30Days)
	assert.Equal(t, 1, s.AgeAnalysis[2].Over30Days)

	assert.Equal(t, 3, s.TotalOpened)
	assert.Equal(t, 1, s.TotalClosed)
	assert.Equal(t, 2, s.TotalStillOpen)

	require.NotEmpty(t, s.CategoryBreakdown)
	assert.Equal(t, Share{Name: "Seal Integrity", Count: 2, Percentage: 67}, s.CategoryBreakdown[0])
	assert.Equal(t, Share{Name: "Material Quality", Count: 1, Percentage: 33}, s.CategoryBreakdown[1])

	require.Len(t, s.SourceBreakdown, 3)
	assert.Equal(t, Share{Name: "in-house", Count: 2, Percentage: 67}, s.SourceBreakdown[0])
	assert.Equal(t, Share{Name: "supplier", Count: 1, Percentage: 33}, s.SourceBreakdown[1])
	assert.Equal(t, Share{Name: "customer", Count: 0, Percentage: 0}, s.SourceBreakdown[2])
}

func TestAggregateYearEmpty(t *testing.T) {
	s := AggregateYear(nil, time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC))
	require.Len(t, s.MonthlyTrends, 12)
	assert.Equal(t, "December", s.MonthlyTrends[11].Month)
	assert.Zero(t, s.TotalOpened)
	require.Len(t, s.SourceBreakdown, 3)
	for _, sh := range s.SourceBreakdown {
		assert.Zero(t, sh.Count)
		assert.Zero(t, sh.Percentage)
	}
}

func TestToSharesRoundsIndependently(t *testing.T) {
	// 1/3 splits: each share rounds on its own, so the total drifts to 99.
	shares := toShares(map[string]int{"a": 1, "b": 1, "c": 1})
	sum := 0
	for _, s := range shares {
		assert.Equal(t, 33, s.Percentage)
		sum += s.Percentage
	}
	assert.Equal(t, 99, sum)
}

func TestToSharesSortsByCountThenName(t *testing.T) {
	shares := toShares(map[string]int{"beta": 2, "alpha": 2, "gamma": 5})
	require.Len(t, shares, 3)
	assert.Equal(t, "gamma", shares[0].Name)
	assert.Equal(t, "alpha", shares[1].Name)
	assert.Equal(t, "beta", shares[2].Name)
}

func TestWeeklyCountsTrailingWindow(t *testing.T) {
	now := time.Date(2026, 8, 31, 9, 0, 0, 0, time.UTC) // Monday, ISO week 36

	ncas := []*domnca.NCA{
		{CreatedAt: now},                       // current week
		{CreatedAt: now.AddDate(0, 0, -7)},     // previous week
		{CreatedAt: now.AddDate(0, 0, -7)},     // previous week
		{CreatedAt: now.AddDate(0, 0, -12*7)},  // just outside the window
		{CreatedAt: now.AddDate(0, 0, -20*7)},  // far outside
	}

	weeks := WeeklyCounts(ncas, now)
	require.Len(t, weeks, 12)
	assert.Equal(t, "2026-W25", weeks[0].Week)
	assert.Equal(t, "2026-W36", weeks[11].Week)
	assert.Equal(t, 1, weeks[11].Count)
	assert.Equal(t, 2, weeks[10].Count)
	assert.Equal(t, 0, weeks[0].Count)

	total := 0
	for _, w := range weeks {
		total += w.Count
	}
	assert.Equal(t, 3, total, "records outside the 12-week window are dropped")
}
