package httpserver

import (
	"net/http"

	appeod "github.com/kangopak/ohisee-api/internal/application/endofday"
	domquality "github.com/kangopak/ohisee-api/internal/domain/quality"
	"github.com/kangopak/ohisee-api/internal/middleware"
)

type qualityBody struct {
	FormType     string            `json:"form_type"`
	Record       domquality.Record `json:"record"`
	Confidential bool              `json:"confidential"`
}

// POST /v1/quality/check
// Advisory inline scoring of a partial record; never blocks anything.
func (r *Router) handleQualityCheck(w http.ResponseWriter, req *http.Request) error {
	var body qualityBody
	if err := decode(req, &body); err != nil {
		return err
	}
	if err := middleware.ValidateFormType(body.FormType); err != nil {
		return badRequest(err.Error())
	}

	assessment, err := r.deps.Quality.CheckField(req.Context(), domquality.FormType(body.FormType), body.Record)
	if err != nil {
		return err
	}
	return respond(w, http.StatusOK, assessment)
}

// POST /v1/quality/validate
// The submission gate: decides pass or block at the moment of submission.
func (r *Router) handleQualityValidate(w http.ResponseWriter, req *http.Request) error {
	var body qualityBody
	if err := decode(req, &body); err != nil {
		return err
	}
	if err := middleware.ValidateFormType(body.FormType); err != nil {
		return badRequest(err.Error())
	}

	decision, err := r.deps.Quality.ValidateSubmission(req.Context(), domquality.FormType(body.FormType), body.Record, body.Confidential)
	if err != nil {
		return err
	}
	middleware.IncrementValidations()
	return respond(w, http.StatusOK, decision)
}

// POST /v1/quality/suggest
func (r *Router) handleQualitySuggest(w http.ResponseWriter, req *http.Request) error {
	var body struct {
		FormType string            `json:"form_type"`
		Field    string            `json:"field"`
		Text     string            `json:"text"`
		Record   domquality.Record `json:"record"`
	}
	if err := decode(req, &body); err != nil {
		return err
	}
	if err := middleware.ValidateFormType(body.FormType); err != nil {
		return badRequest(err.Error())
	}
	if body.Field == "" {
		return badRequest("field is required")
	}

	suggestion, err := r.deps.Quality.SuggestRewrite(req.Context(), domquality.SuggestRequest{
		FormType: domquality.FormType(body.FormType),
		Field:    body.Field,
		Text:     body.Text,
		Record:   body.Record,
	})
	if err != nil {
		return err
	}
	return respond(w, http.StatusOK, suggestion)
}

// POST /v1/quality/override
func (r *Router) handleQualityOverride(w http.ResponseWriter, req *http.Request) error {
	var body struct {
		FormType string `json:"form_type"`
		RecordID string `json:"record_id"`
		Score    int    `json:"score"`
		Reason   string `json:"reason"`
	}
	if err := decode(req, &body); err != nil {
		return err
	}
	if err := middleware.ValidateFormType(body.FormType); err != nil {
		return badRequest(err.Error())
	}
	if body.RecordID == "" {
		return badRequest("record_id is required")
	}

	actor := middleware.ActorFromContext(req.Context())
	if err := r.deps.Quality.RecordOverride(req.Context(), actor, domquality.FormType(body.FormType), body.RecordID, body.Score, body.Reason); err != nil {
		return err
	}
	middleware.IncrementOverrides()
	return respond(w, http.StatusOK, map[string]any{"overridden": true})
}

// POST /v1/end-of-day
func (r *Router) handleEndOfDay(w http.ResponseWriter, req *http.Request) error {
	var body struct {
		ShiftNotes   string   `json:"shift_notes"`
		NCAIDs       []string `json:"nca_ids"`
		MJCIDs       []string `json:"mjc_ids"`
		WorkOrderIDs []string `json:"work_order_ids"`
	}
	if err := decode(req, &body); err != nil {
		return err
	}

	actor := middleware.ActorFromContext(req.Context())
	result, err := r.deps.EndOfDay.Submit(req.Context(), actor, appeod.SubmitCommand{
		ShiftNotes:   middleware.SanitizeString(body.ShiftNotes),
		NCAIDs:       body.NCAIDs,
		MJCIDs:       body.MJCIDs,
		WorkOrderIDs: body.WorkOrderIDs,
	})
	if err != nil {
		return err
	}
	middleware.IncrementSubmissions()
	return respond(w, http.StatusOK, result)
}
