package quality

import (
	"fmt"
	"regexp"
	"strings"
)

// Record carries the scoreable free-text fields of an NCA or MJC.
// Callers may fill any subset; empty fields are skipped by the checks.
type Record struct {
	NCType             string `json:"nc_type,omitempty"`
	Description        string `json:"nc_description,omitempty"`
	ProductDescription string `json:"nc_product_description,omitempty"`
	SupplierName       string `json:"supplier_name,omitempty"`
	RootCauseAnalysis  string `json:"root_cause_analysis,omitempty"`
	CorrectiveAction   string `json:"corrective_action,omitempty"`
	WorkCarriedOut     string `json:"work_carried_out,omitempty"`
}

// RuleResult is the outcome of one rule-based check.
type RuleResult struct {
	Valid  bool
	Issues []Issue
}

// Minimum description lengths per NC type (BRCGS 5.7.2).
var descriptionMinLengths = map[string]int{
	"raw-material":   120,
	"finished-goods": 150,
	"wip":            130,
	"incident":       200,
	"other":          100,
}

const defaultDescriptionMin = 100

var (
	reWhat     = regexp.MustCompile(`(?i)\b(what|found|discovered|observed|detected|identified)\b`)
	reWhen     = regexp.MustCompile(`(?i)\b(\d{1,2}:\d{2}|\d{1,2}/\d{1,2}/\d{4}|today|yesterday|at \d+|on \w+day)\b`)
	reWhere    = regexp.MustCompile(`(?i)\b(area|line|machine|station|location|section|zone)\b`)
	reQuantity = regexp.MustCompile(`(?i)\b(\d+|approximately|about|around|several|many|few)\b`)
	reBatch    = regexp.MustCompile(`(?i)\b(batch|carton|reel|box|lot|B-|C-|R-)\b`)

	reVagueDescriptors = regexp.MustCompile(`(?i)\b(bad|broken|wrong|issue|problem)\b`)
	reVagueQuantities  = regexp.MustCompile(`(?i)\b(some|few|many|several)\b`)
	reVagueTerms       = regexp.MustCompile(`(?i)\b(thing|stuff|something|anything)\b`)

	reWhy          = regexp.MustCompile(`(?i)\b(why|because|due to|caused by)\b`)
	reOwner        = regexp.MustCompile(`(?i)\b(responsible|assigned|owner|by \w+|team leader|supervisor|manager)\b`)
	reDeadline     = regexp.MustCompile(`(?i)\b(by|within|before|deadline|due)\b.{0,20}\b(\d|day|week|month|date)`)
	reVerification = regexp.MustCompile(`(?i)\b(verify|check|confirm|validate|monitor|review|audit|inspect|test)\b`)
)

// CheckDescriptionCompleteness validates the NC description against the
// per-type minimum length, required elements and vague-language patterns.
// Only the length violation blocks; everything else is advisory.
func CheckDescriptionCompleteness(description, ncType string) RuleResult {
	var issues []Issue

	min, ok := descriptionMinLengths[ncType]
	if !ok {
		min = defaultDescriptionMin
	}
	if len(description) < min {
		issues = append(issues, Issue{
			Field:      "nc_description",
			Message:    fmt.Sprintf("Description must be at least %d characters for %s non-conformances.", min, strings.ReplaceAll(ncType, "-", " ")),
			Severity:   SeverityError,
			BRCGSRef:   "BRCGS 5.7.2",
			ExampleFix: `Example: "Laminate delamination found on batch B-2045 during inspection at 14:30 in Finishing Area 2. Approximately 150 units affected. No product release yet."`,
		})
	}

	var missing []string
	if !reWhat.MatchString(description) {
		missing = append(missing, "what happened")
	}
	if !reWhen.MatchString(description) {
		missing = append(missing, "when it occurred (time/date)")
	}
	if !reWhere.MatchString(description) {
		missing = append(missing, "where it occurred (location/area)")
	}
	if !reQuantity.MatchString(description) {
		missing = append(missing, "quantity affected")
	}
	if !reBatch.MatchString(description) {
		missing = append(missing, "batch/carton numbers")
	}
	if len(missing) > 0 {
		issues = append(issues, Issue{
			Field:    "nc_description",
			Message:  fmt.Sprintf("Description incomplete. Please add: %s.", strings.Join(missing, ", ")),
			Severity: SeverityWarning,
			BRCGSRef: "BRCGS 5.7.2",
		})
	}

	// Vague wording only matters when the text is also short.
	if len(description) < 100 {
		var vague []string
		if reVagueDescriptors.MatchString(description) {
			vague = append(vague, "vague descriptors")
		}
		if reVagueQuantities.MatchString(description) {
			vague = append(vague, "unspecific quantities")
		}
		if reVagueTerms.MatchString(description) {
			vague = append(vague, "non-specific terms")
		}
		if len(vague) > 0 {
			issues = append(issues, Issue{
				Field:    "nc_description",
				Message:  fmt.Sprintf("Description contains vague language (%s). Please be more specific with details, measurements, and quantities.", strings.Join(vague, ", ")),
				Severity: SeverityWarning,
			})
		}
	}

	return RuleResult{Valid: !hasError(issues), Issues: issues}
}

// CheckRootCauseDepth flags shallow root-cause analyses. The field is
// optional; an empty analysis is valid.
func CheckRootCauseDepth(analysis string) RuleResult {
	if strings.TrimSpace(analysis) == "" {
		return RuleResult{Valid: true}
	}

	sentences := 0
	for _, s := range strings.FieldsFunc(analysis, func(r rune) bool { return r == '.' || r == '!' || r == '?' }) {
		if strings.TrimSpace(s) != "" {
			sentences++
		}
	}
	whyCount := len(reWhy.FindAllString(analysis, -1))

	if sentences <= 1 && whyCount < 2 {
		return RuleResult{Valid: false, Issues: []Issue{{
			Field:      "root_cause_analysis",
			Message:    "Root cause analysis is too shallow. Ask 'why' repeatedly until the underlying cause is identified, not just the symptom.",
			Severity:   SeverityWarning,
			BRCGSRef:   "BRCGS 3.11",
			ExampleFix: "Example: \"Seal failure occurred because the jaw temperature drifted low. The drift was caused by a worn thermocouple that was overdue for calibration.\"",
		}}}
	}
	return RuleResult{Valid: true}
}

// CheckCorrectiveActionSpecificity warns when a corrective action lacks
// an owner, a deadline or a verification step. Optional field.
func CheckCorrectiveActionSpecificity(action string) RuleResult {
	if strings.TrimSpace(action) == "" {
		return RuleResult{Valid: true}
	}

	var issues []Issue
	if !reOwner.MatchString(action) {
		issues = append(issues, Issue{
			Field:    "corrective_action",
			Message:  "Corrective action does not name a responsible person or role.",
			Severity: SeverityWarning,
			BRCGSRef: "BRCGS 3.7",
		})
	}
	if !reDeadline.MatchString(action) {
		issues = append(issues, Issue{
			Field:    "corrective_action",
			Message:  "Corrective action has no completion deadline or timeframe.",
			Severity: SeverityWarning,
			BRCGSRef: "BRCGS 3.7",
		})
	}
	if !reVerification.MatchString(action) {
		issues = append(issues, Issue{
			Field:      "corrective_action",
			Message:    "Corrective action does not state how effectiveness will be verified.",
			Severity:   SeverityWarning,
			ExampleFix: "Add e.g. \"QA to verify seal strength on the next three production runs.\"",
		})
	}
	return RuleResult{Valid: !hasError(issues), Issues: issues}
}

func hasError(issues []Issue) bool {
	for _, i := range issues {
		if i.Severity == SeverityError {
			return true
		}
	}
	return false
}

// Degraded assessments returned when a rule-based check fails outright,
// skipping the remote scorer for obvious violations.

func DegradedDescription(issues []Issue) Assessment {
	return NewAssessment(Breakdown{10, 10, 10, 10, 10}, errorsOf(issues), warningsOf(issues))
}

func DegradedRootCause(issues []Issue) Assessment {
	return NewAssessment(Breakdown{15, 15, 10, 10, 5}, errorsOf(issues), warningsOf(issues))
}

func DegradedCorrectiveAction(issues []Issue) Assessment {
	return NewAssessment(Breakdown{20, 15, 15, 5, 5}, errorsOf(issues), warningsOf(issues))
}

func errorsOf(issues []Issue) []Issue {
	var out []Issue
	for _, i := range issues {
		if i.Severity == SeverityError {
			out = append(out, i)
		}
	}
	return out
}

func warningsOf(issues []Issue) []Issue {
	var out []Issue
	for _, i := range issues {
		if i.Severity == SeverityWarning {
			out = append(out, i)
		}
	}
	return out
}
