package quality

import "context"

// ScoreRequest is the payload sent to the remote scoring backend.
type ScoreRequest struct {
	FormType      FormType
	Record        Record
	LanguageLevel int
	UserRole      string
}

// Scorer is the port to the remote AI scoring backend.
type Scorer interface {
	Score(ctx context.Context, req ScoreRequest) (Assessment, error)
}

// SuggestRequest asks for a rewrite of one field's current text.
type SuggestRequest struct {
	FormType FormType
	Field    string
	Text     string
	Record   Record
}

// Suggestion is a proposed rewrite with confidence and the procedure
// clauses it is based on.
type Suggestion struct {
	Text          string   `json:"text"`
	Confidence    string   `json:"confidence"`
	ConfidencePct int      `json:"confidence_percentage"`
	ProcedureRefs []string `json:"procedure_references"`
}

// Suggester is the port to the remote writing-assistance backend.
type Suggester interface {
	Suggest(ctx context.Context, req SuggestRequest) (Suggestion, error)
}
