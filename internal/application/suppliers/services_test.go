package suppliers

import (
	"testing"

	"github.com/stretchr/testify/assert"

	domain "github.com/kangopak/ohisee-api/internal/domain/supplier"
)

func TestQualityRating(t *testing.T) {
	cases := []struct {
		ncas int
		want float64
	}{
		{0, 5.0},
		{1, 5.0},
		{2, 4.6},
		{5, 3.4},
		{10, 1.4},
		{11, 1.0},
		{50, 1.0},
	}
	for _, tc := range cases {
		assert.InDelta(t, tc.want, QualityRating(tc.ncas), 0.0001, "nca count %d", tc.ncas)
	}
}

func floatPtr(v float64) *float64 { return &v }

func TestRiskLevelFor(t *testing.T) {
	cases := []struct {
		name    string
		ncas    int
		closure *float64
		want    domain.RiskLevel
	}{
		{"clean record", 0, nil, domain.RiskLow},
		{"one nca", 1, floatPtr(5), domain.RiskLow},
		{"two ncas", 2, nil, domain.RiskMedium},
		{"five ncas", 5, nil, domain.RiskHigh},
		{"slow closure alone", 1, floatPtr(21), domain.RiskHigh},
		{"ten ncas", 10, nil, domain.RiskCritical},
		{"very slow closure alone", 0, floatPtr(31), domain.RiskCritical},
		{"boundary closure 30 is not critical", 4, floatPtr(30), domain.RiskHigh},
		{"boundary closure 20 is not high", 1, floatPtr(20), domain.RiskLow},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, RiskLevelFor(tc.ncas, tc.closure))
		})
	}
}

func TestScoreDeductions(t *testing.T) {
	t.Run("perfect supplier", func(t *testing.T) {
		s := &domain.Supplier{RiskLevel: domain.RiskLow}
		assert.Equal(t, 100, Score(s))
	})

	t.Run("nca volume capped at 40", func(t *testing.T) {
		s := &domain.Supplier{NCACountLast12Mo: 25, RiskLevel: domain.RiskLow}
		assert.Equal(t, 60, Score(s))
	})

	t.Run("all deductions stack", func(t *testing.T) {
		s := &domain.Supplier{
			NCACountLast12Mo:  5,                // -20
			QualityRating:     floatPtr(3.4),    // -16
			OnTimeDeliveryPct: floatPtr(80),     // -4
			RiskLevel:         domain.RiskHigh,  // -10
		}
		assert.Equal(t, 50, Score(s))
	})

	t.Run("floor at zero", func(t *testing.T) {
		s := &domain.Supplier{
			NCACountLast12Mo:  12,
			QualityRating:     floatPtr(1.0),
			OnTimeDeliveryPct: floatPtr(0),
			RiskLevel:         domain.RiskCritical,
		}
		assert.Equal(t, 0, Score(s))
	})
}
