package reconciliation

import (
	"context"
	"fmt"
	"math"

	domnca "github.com/kangopak/ohisee-api/internal/domain/nca"
	domwaste "github.com/kangopak/ohisee-api/internal/domain/waste"
	domwo "github.com/kangopak/ohisee-api/internal/domain/workorder"
)

// QuantityTolerance is the accepted relative difference between the NCA
// quantity and the waste manifest's physical count.
const QuantityTolerance = 0.05

// Details are the raw quantities the reconciliation compared.
type Details struct {
	NCAQuantity      *float64 `json:"nca_quantity"`
	NCAUnit          string   `json:"nca_unit,omitempty"`
	ProductionLogQty *float64 `json:"production_log_quantity"`
	WasteManifestQty *float64 `json:"waste_manifest_quantity"`
	Reconciled       bool     `json:"reconciled"`
}

// Result of reconciling one NCA before closure.
type Result struct {
	IsValid  bool     `json:"is_valid"`
	Errors   []string `json:"errors"`
	Warnings []string `json:"warnings"`
	Details  Details  `json:"details"`
}

// Service validates NCA quantities against production logs and waste
// manifests before an NCA may close.
type Service struct {
	NCAs       domnca.Repository
	WorkOrders domwo.Repository
	Waste      domwaste.Repository
}

// ValidateNCA fetches the linked rows and reconciles their quantities.
func (s *Service) ValidateNCA(ctx context.Context, id domnca.ID) (Result, error) {
	n, err := s.NCAs.Get(ctx, id)
	if err != nil {
		return Result{}, fmt.Errorf("fetch nca: %w", err)
	}

	var prodQty *float64
	if n.WorkOrderID != "" {
		wo, err := s.WorkOrders.Get(ctx, domwo.ID(n.WorkOrderID))
		if err == nil && wo != nil {
			prodQty = wo.QuantityProduced
		}
	}

	var wasteQty *float64
	if n.DispositionDiscard {
		m, err := s.Waste.GetByNCA(ctx, string(id))
		if err == nil && m != nil {
			wasteQty = &m.PhysicalQuantity
		}
	}

	return Reconcile(n.Quantity, n.QuantityUnit, prodQty, wasteQty, n.DispositionDiscard), nil
}

// Reconcile compares the three quantity sources. Pure function.
func Reconcile(ncaQty *float64, unit string, prodQty, wasteQty *float64, discard bool) Result {
	res := Result{
		IsValid:  true,
		Errors:   []string{},
		Warnings: []string{},
		Details: Details{
			NCAQuantity:      ncaQty,
			NCAUnit:          unit,
			ProductionLogQty: prodQty,
			WasteManifestQty: wasteQty,
		},
	}

	if ncaQty == nil {
		res.Warnings = append(res.Warnings, "NCA has no recorded quantity; reconciliation skipped")
		return res
	}

	if prodQty != nil {
		switch {
		case *ncaQty > *prodQty:
			res.IsValid = false
			res.Errors = append(res.Errors, fmt.Sprintf("NCA quantity (%.0f) exceeds the work order's produced quantity (%.0f)", *ncaQty, *prodQty))
		case *ncaQty < *prodQty*0.1:
			res.Warnings = append(res.Warnings, "NCA quantity is under 10% of the production run; confirm the affected count is complete")
		}
	}

	if discard && wasteQty == nil {
		res.Warnings = append(res.Warnings, "discard disposition has no linked waste manifest")
	}
	if wasteQty != nil {
		diff := math.Abs(*wasteQty - *ncaQty)
		if diff > *ncaQty*QuantityTolerance {
			res.IsValid = false
			res.Errors = append(res.Errors, fmt.Sprintf("waste manifest quantity (%.0f) does not reconcile with NCA quantity (%.0f) within 5%%", *wasteQty, *ncaQty))
		}
	}

	res.Details.Reconciled = res.IsValid && len(res.Warnings) == 0
	return res
}
