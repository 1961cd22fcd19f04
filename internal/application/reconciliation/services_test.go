package reconciliation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fp(v float64) *float64 { return &v }

func TestReconcileNoQuantitySkips(t *testing.T) {
	res := Reconcile(nil, "", fp(1000), nil, false)

	assert.True(t, res.IsValid)
	require.Len(t, res.Warnings, 1)
	assert.Contains(t, res.Warnings[0], "reconciliation skipped")
	assert.False(t, res.Details.Reconciled)
}

func TestReconcileQuantityExceedsProduction(t *testing.T) {
	res := Reconcile(fp(1200), "units", fp(1000), nil, false)

	assert.False(t, res.IsValid)
	require.Len(t, res.Errors, 1)
	assert.Contains(t, res.Errors[0], "exceeds the work order's produced quantity")
	assert.False(t, res.Details.Reconciled)
}

func TestReconcileTinyShareWarns(t *testing.T) {
	res := Reconcile(fp(50), "units", fp(1000), nil, false)

	assert.True(t, res.IsValid)
	require.Len(t, res.Warnings, 1)
	assert.Contains(t, res.Warnings[0], "under 10%")
}

func TestReconcileDiscardWithoutManifestWarns(t *testing.T) {
	res := Reconcile(fp(500), "units", fp(1000), nil, true)

	assert.True(t, res.IsValid)
	require.Len(t, res.Warnings, 1)
	assert.Contains(t, res.Warnings[0], "no linked waste manifest")
	assert.False(t, res.Details.Reconciled)
}

func TestReconcileWasteOutsideTolerance(t *testing.T) {
	// 5% of 1000 is 50; a 60-unit gap fails.
	res := Reconcile(fp(1000), "units", nil, fp(940), true)

	assert.False(t, res.IsValid)
	require.Len(t, res.Errors, 1)
	assert.Contains(t, res.Errors[0], "within 5%")
}

func TestReconcileWasteWithinTolerance(t *testing.T) {
	res := Reconcile(fp(1000), "units", fp(5000), fp(960), true)

	assert.True(t, res.IsValid)
	assert.Empty(t, res.Errors)
	assert.Empty(t, res.Warnings)
	assert.True(t, res.Details.Reconciled)
}

func TestReconcileNeverReturnsNilSlices(t *testing.T) {
	res := Reconcile(fp(100), "kg", nil, nil, false)
	assert.NotNil(t, res.Errors)
	assert.NotNil(t, res.Warnings)
	assert.True(t, res.Details.Reconciled)
}
