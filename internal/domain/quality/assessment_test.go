package quality

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewAssessmentClampsSubScores(t *testing.T) {
	a := NewAssessment(Breakdown{
		Completeness:         45, // above the 30 max
		Accuracy:             25,
		Clarity:              -3, // below zero
		HazardIdentification: 15,
		Evidence:             10,
	}, nil, nil)

	assert.Equal(t, 30, a.Breakdown.Completeness)
	assert.Equal(t, 0, a.Breakdown.Clarity)
	assert.Equal(t, a.Breakdown.Sum(), a.Score)
	assert.Equal(t, 80, a.Score)
	assert.True(t, a.ThresholdMet)
}

func TestNewAssessmentThresholdBoundary(t *testing.T) {
	exactly := NewAssessment(Breakdown{25, 20, 15, 10, 5}, nil, nil)
	require.Equal(t, 75, exactly.Score)
	assert.True(t, exactly.ThresholdMet)

	below := NewAssessment(Breakdown{25, 20, 15, 10, 4}, nil, nil)
	require.Equal(t, 74, below.Score)
	assert.False(t, below.ThresholdMet)
}

func TestNewAssessmentNeverReturnsNilSlices(t *testing.T) {
	a := NewAssessment(Breakdown{}, nil, nil)
	assert.NotNil(t, a.Errors)
	assert.NotNil(t, a.Warnings)
	assert.Empty(t, a.Errors)
}

func TestConfidentialPassIsPerfectScore(t *testing.T) {
	a := ConfidentialPass()
	assert.Equal(t, 100, a.Score)
	assert.True(t, a.ThresholdMet)
	assert.Equal(t, Breakdown{30, 25, 20, 15, 10}, a.Breakdown)
	assert.Empty(t, a.Errors)
}

func TestMJCPlaceholderPassesAtThreshold(t *testing.T) {
	a := MJCPlaceholder()
	assert.Equal(t, 75, a.Score)
	assert.True(t, a.ThresholdMet)
	assert.Equal(t, a.Breakdown.Sum(), a.Score)
}

func TestDegradedAssessmentsSumAndBlock(t *testing.T) {
	cases := []struct {
		name string
		a    Assessment
		want int
	}{
		{"description", DegradedDescription(nil), 50},
		{"root cause", DegradedRootCause(nil), 55},
		{"corrective action", DegradedCorrectiveAction(nil), 60},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, tc.a.Score)
			assert.Equal(t, tc.a.Breakdown.Sum(), tc.a.Score)
			assert.False(t, tc.a.ThresholdMet)
		})
	}
}

func TestDegradedSplitsIssuesBySeverity(t *testing.T) {
	issues := []Issue{
		{Field: "nc_description", Severity: SeverityError},
		{Field: "nc_description", Severity: SeverityWarning},
	}
	a := DegradedDescription(issues)
	require.Len(t, a.Errors, 1)
	require.Len(t, a.Warnings, 1)
	assert.Equal(t, SeverityError, a.Errors[0].Severity)
	assert.Equal(t, SeverityWarning, a.Warnings[0].Severity)
}
