package mjc

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHygieneChecklistAllVerified(t *testing.T) {
	var empty HygieneChecklist
	assert.False(t, empty.AllVerified())

	full := HygieneChecklist{true, true, true, true, true, true, true, true, true, true}
	assert.True(t, full.AllVerified())
}

func TestHygieneChecklistNineOfTenFails(t *testing.T) {
	// Any single unverified item blocks clearance, whichever it is.
	for i := 0; i < HygieneItemCount; i++ {
		cl := HygieneChecklist{true, true, true, true, true, true, true, true, true, true}
		cl[i] = false
		assert.False(t, cl.AllVerified(), "item %d unverified must block", i)
	}
}

func TestHygieneChecklistItems(t *testing.T) {
	cl := HygieneChecklist{true}
	items := cl.Items()

	require.Len(t, items, HygieneItemCount)
	assert.Equal(t, HygieneItemLabels[0], items[0].Label)
	assert.True(t, items[0].Verified)
	assert.False(t, items[9].Verified)
	assert.Equal(t, "Quality check performed on first production output", items[9].Label)
}
