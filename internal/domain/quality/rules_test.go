package quality

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const goodDescription = "Laminate delamination found on batch B-2045 during inspection at 14:30 in Finishing Area 2. Approximately 150 units affected. No product release yet."

func TestCheckDescriptionCompletenessLengthByType(t *testing.T) {
	cases := []struct {
		ncType string
		min    int
	}{
		{"raw-material", 120},
		{"finished-goods", 150},
		{"wip", 130},
		{"incident", 200},
		{"other", 100},
		{"unknown-type", 100},
	}
	for _, tc := range cases {
		t.Run(tc.ncType, func(t *testing.T) {
			short := strings.Repeat("x", tc.min-1)
			res := CheckDescriptionCompleteness(short, tc.ncType)
			assert.False(t, res.Valid)

			long := strings.Repeat("x", tc.min)
			res = CheckDescriptionCompleteness(long, tc.ncType)
			assert.True(t, res.Valid, "length alone should not block at the minimum")
		})
	}
}

func TestCheckDescriptionCompletenessVagueText(t *testing.T) {
	res := CheckDescriptionCompleteness("Bad product. Found problem.", "finished-goods")

	require.False(t, res.Valid)
	var hasLengthError, hasVagueWarning bool
	for _, i := range res.Issues {
		if i.Severity == SeverityError {
			hasLengthError = true
			assert.Contains(t, i.Message, "150")
		}
		if i.Severity == SeverityWarning && strings.Contains(i.Message, "vague language") {
			hasVagueWarning = true
		}
	}
	assert.True(t, hasLengthError)
	assert.True(t, hasVagueWarning)
}

func TestCheckDescriptionCompletenessMissingElements(t *testing.T) {
	// Long enough for the raw-material minimum, but says nothing concrete.
	desc := strings.Repeat("the laminate web exhibited visual defects across its surface ", 3)
	require.GreaterOrEqual(t, len(desc), 120)

	res := CheckDescriptionCompleteness(desc, "raw-material")
	assert.True(t, res.Valid, "missing elements warn, they do not block")

	var found bool
	for _, i := range res.Issues {
		if strings.Contains(i.Message, "Description incomplete") {
			found = true
			assert.Contains(t, i.Message, "when it occurred")
			assert.Contains(t, i.Message, "batch/carton numbers")
		}
	}
	assert.True(t, found)
}

func TestCheckDescriptionCompletenessGoodText(t *testing.T) {
	res := CheckDescriptionCompleteness(goodDescription, "raw-material")
	assert.True(t, res.Valid)
	assert.Empty(t, res.Issues)
}

func TestCheckRootCauseDepth(t *testing.T) {
	assert.True(t, CheckRootCauseDepth("").Valid, "empty analysis is optional")
	assert.True(t, CheckRootCauseDepth("   ").Valid)

	shallow := CheckRootCauseDepth("Operator error")
	require.False(t, shallow.Valid)
	require.Len(t, shallow.Issues, 1)
	assert.Equal(t, "root_cause_analysis", shallow.Issues[0].Field)

	// One sentence but two causal markers still passes.
	causal := CheckRootCauseDepth("The seal failed because the jaw drifted low due to a worn thermocouple")
	assert.True(t, causal.Valid)

	deep := CheckRootCauseDepth("Seal failure occurred because the jaw temperature drifted low. The drift was caused by a worn thermocouple that was overdue for calibration.")
	assert.True(t, deep.Valid)
}

func TestCheckCorrectiveActionSpecificity(t *testing.T) {
	assert.True(t, CheckCorrectiveActionSpecificity("").Valid)

	res := CheckCorrectiveActionSpecificity("Fix the machine")
	assert.True(t, res.Valid, "corrective action findings are advisory")
	require.Len(t, res.Issues, 3)
	for _, i := range res.Issues {
		assert.Equal(t, SeverityWarning, i.Severity)
	}

	full := CheckCorrectiveActionSpecificity("Maintenance supervisor to replace the thermocouple by 15/09/2026 and QA to verify seal strength on the next three runs.")
	assert.True(t, full.Valid)
	assert.Empty(t, full.Issues)
}
