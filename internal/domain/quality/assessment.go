package quality

// FormType discriminates which record kind an assessment applies to.
type FormType string

const (
	FormNCA FormType = "nca"
	FormMJC FormType = "mjc"
)

// PassThreshold is the minimum overall score required to submit
// without a supervisor override.
const PassThreshold = 75

// Sub-score maxima
const (
	MaxCompleteness = 30
	MaxAccuracy     = 25
	MaxClarity      = 20
	MaxHazardID     = 15
	MaxEvidence     = 10
)

// Breakdown holds the weighted sub-scores of a quality assessment.
type Breakdown struct {
	Completeness         int `json:"completeness"`
	Accuracy             int `json:"accuracy"`
	Clarity              int `json:"clarity"`
	HazardIdentification int `json:"hazard_identification"`
	Evidence             int `json:"evidence"`
}

// Clamped returns a copy with each sub-score forced into [0, max].
func (b Breakdown) Clamped() Breakdown {
	return Breakdown{
		Completeness:         clamp(b.Completeness, MaxCompleteness),
		Accuracy:             clamp(b.Accuracy, MaxAccuracy),
		Clarity:              clamp(b.Clarity, MaxClarity),
		HazardIdentification: clamp(b.HazardIdentification, MaxHazardID),
		Evidence:             clamp(b.Evidence, MaxEvidence),
	}
}

// Sum returns the overall score (0-100).
func (b Breakdown) Sum() int {
	return b.Completeness + b.Accuracy + b.Clarity + b.HazardIdentification + b.Evidence
}

func clamp(v, max int) int {
	if v < 0 {
		return 0
	}
	if v > max {
		return max
	}
	return v
}

// Severity of a validation issue.
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
)

// Issue is a single field-level finding attached to an assessment.
type Issue struct {
	Field      string   `json:"field"`
	Message    string   `json:"message"`
	Severity   Severity `json:"severity"`
	BRCGSRef   string   `json:"brcgs_requirement,omitempty"`
	ExampleFix string   `json:"example_fix,omitempty"`
}

// Assessment is the result of scoring one record. It is never persisted
// on its own; only the submit-or-block decision it enables has side effects.
type Assessment struct {
	Score        int       `json:"score"`
	ThresholdMet bool      `json:"threshold_met"`
	Breakdown    Breakdown `json:"breakdown"`
	Errors       []Issue   `json:"errors"`
	Warnings     []Issue   `json:"warnings"`
}

// NewAssessment builds an assessment from a breakdown, clamping each
// sub-score to its maximum so the overall score always equals the sum.
func NewAssessment(b Breakdown, errs, warns []Issue) Assessment {
	cb := b.Clamped()
	score := cb.Sum()
	if errs == nil {
		errs = []Issue{}
	}
	if warns == nil {
		warns = []Issue{}
	}
	return Assessment{
		Score:        score,
		ThresholdMet: score >= PassThreshold,
		Breakdown:    cb,
		Errors:       errs,
		Warnings:     warns,
	}
}

// ConfidentialPass is the synthetic assessment returned for confidential
// incident reports. Their content is never sent to the scoring backend
// and they must never be blocked by automated scoring.
func ConfidentialPass() Assessment {
	return NewAssessment(Breakdown{
		Completeness:         MaxCompleteness,
		Accuracy:             MaxAccuracy,
		Clarity:              MaxClarity,
		HazardIdentification: MaxHazardID,
		Evidence:             MaxEvidence,
	}, nil, nil)
}

// MJCPlaceholder is the synthetic passing assessment for maintenance job
// cards. The scoring backend does not support MJC records yet, so the
// gate passes them at exactly the threshold.
func MJCPlaceholder() Assessment {
	return NewAssessment(Breakdown{
		Completeness:         23,
		Accuracy:             19,
		Clarity:              15,
		HazardIdentification: 11,
		Evidence:             7,
	}, nil, nil)
}
