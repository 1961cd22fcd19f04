package prompt

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/kangopak/ohisee-api/internal/domain/knowledge"
	"github.com/kangopak/ohisee-api/internal/domain/quality"
)

// SuggestSystemPrompt instructs the model to rewrite one field of a
// quality record, grounded in the provided procedure clauses.
const SuggestSystemPrompt = `You are a BRCGS documentation coach for factory-floor operators at a food-packaging manufacturer.
Rewrite the given field text so it would pass a BRCGS audit: specific facts (what, when, where, quantity, batch), no vague language, plain words an operator would actually write.
Base the rewrite on the procedure clauses provided; never invent batch numbers or measurements the operator did not supply - use bracketed placeholders like [batch number] instead.
Reply with ONLY a JSON object, no prose, matching exactly this schema:

{
  "text": "<the rewritten field text>",
  "confidence": "<high|medium|low>",
  "confidence_percentage": <0-100>,
  "procedure_references": ["<code and clause of each procedure used>"]
}`

// SuggestUserPrompt serializes the rewrite request plus supporting
// knowledge-base clauses.
func SuggestUserPrompt(req quality.SuggestRequest, docs []*knowledge.Document) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Form type: %s\nField: %s\nCurrent text:\n%s\n", req.FormType, req.Field, req.Text)

	if rec, err := json.Marshal(req.Record); err == nil {
		sb.WriteString("\nFull record for context:\n")
		sb.Write(rec)
		sb.WriteString("\n")
	}

	if len(docs) > 0 {
		sb.WriteString("\nProcedure clauses:\n")
		for _, d := range docs {
			fmt.Fprintf(&sb, "- [%s] %s (%s): %s\n", d.Code, d.Title, d.Section, d.Content)
		}
	}
	return sb.String()
}
