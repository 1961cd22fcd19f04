package prompt

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/kangopak/ohisee-api/internal/domain/quality"
)

// ScorerSystemPrompt instructs the model to grade a quality record and
// reply with JSON matching the assessment schema.
func ScorerSystemPrompt(languageLevel int) string {
	if languageLevel <= 0 {
		languageLevel = 4
	}
	return fmt.Sprintf(`You are a BRCGS Packaging Materials Issue 7 quality auditor for a food-packaging manufacturer.
Grade the submitted record against BRCGS documentation requirements and reply with ONLY a JSON object, no prose, matching exactly this schema:

{
  "breakdown": {
    "completeness": <0-30, are all required facts present: what, when, where, quantity, batch/WO>,
    "accuracy": <0-25, are the facts specific and verifiable rather than vague>,
    "clarity": <0-20, can a reader unfamiliar with the shift understand it; write for language level %d>,
    "hazard_identification": <0-15, are food-safety hazards and product-contact risks identified>,
    "evidence": <0-10, are batch numbers, photos, measurements or references cited>
  },
  "errors": [ {"field": "...", "message": "...", "severity": "error", "brcgs_requirement": "...", "example_fix": "..."} ],
  "warnings": [ {"field": "...", "message": "...", "severity": "warning", "brcgs_requirement": "...", "example_fix": "..."} ]
}

Rules:
- Sub-scores must not exceed their maxima.
- An error means the record cannot be accepted as written; a warning means it should be improved.
- example_fix must be a concrete rewrite of the offending text, not advice.
- Cite the BRCGS clause (for example "3.7 Corrective action") in brcgs_requirement where one applies.`, languageLevel)
}

// ScorerUserPrompt serializes the record for grading.
func ScorerUserPrompt(formType quality.FormType, rec quality.Record, userRole string) string {
	b, _ := json.Marshal(rec)
	var sb strings.Builder
	fmt.Fprintf(&sb, "Form type: %s\n", formType)
	if userRole != "" {
		fmt.Fprintf(&sb, "Submitted by role: %s\n", userRole)
	}
	sb.WriteString("Record:\n")
	sb.Write(b)
	return sb.String()
}
