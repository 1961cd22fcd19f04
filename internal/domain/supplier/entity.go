package supplier

import "time"

// ID type for a supplier row.
type ID string

// RiskLevel enum, derived from NCA history (BRCGS 3.4).
type RiskLevel string

const (
	RiskLow      RiskLevel = "low"
	RiskMedium   RiskLevel = "medium"
	RiskHigh     RiskLevel = "high"
	RiskCritical RiskLevel = "critical"
)

// Supplier carries the rolling performance metrics maintained from NCAs.
type Supplier struct {
	ID                ID         `json:"id"`
	Name              string     `json:"supplier_name"`
	NCACountYTD       int        `json:"nca_count_ytd"`
	NCACountLast12Mo  int        `json:"nca_count_last_12mo"`
	AvgClosureDays    *float64   `json:"avg_closure_days,omitempty"`
	QualityRating     *float64   `json:"quality_rating,omitempty"`
	OnTimeDeliveryPct *float64   `json:"on_time_delivery_pct,omitempty"`
	RiskLevel         RiskLevel  `json:"risk_level,omitempty"`
	LastNCADate       *time.Time `json:"last_nca_date,omitempty"`
}
