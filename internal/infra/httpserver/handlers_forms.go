package httpserver

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	appmjc "github.com/kangopak/ohisee-api/internal/application/mjc"
	appnca "github.com/kangopak/ohisee-api/internal/application/nca"
	dommjc "github.com/kangopak/ohisee-api/internal/domain/mjc"
	domnca "github.com/kangopak/ohisee-api/internal/domain/nca"
	domwo "github.com/kangopak/ohisee-api/internal/domain/workorder"
	"github.com/kangopak/ohisee-api/internal/middleware"
)

type ncaBody struct {
	WorkOrderID        string   `json:"wo_id"`
	NCType             string   `json:"nc_type"`
	NCTypeOther        string   `json:"nc_type_other"`
	SupplierName       string   `json:"supplier_name"`
	ProductDescription string   `json:"nc_product_description"`
	SupplierWOBatch    string   `json:"supplier_wo_batch"`
	Quantity           *float64 `json:"quantity"`
	QuantityUnit       string   `json:"quantity_unit"`
	CartonNumbers      string   `json:"carton_numbers"`
	Description        string   `json:"nc_description"`
	MachineStatus      string   `json:"machine_status"`
	EstimatedDowntime  *float64 `json:"estimated_downtime"`
	RootCauseAnalysis  string   `json:"root_cause_analysis"`
	CorrectiveAction   string   `json:"corrective_action"`
	DispositionDiscard bool     `json:"disposition_discard"`
	Confidential       bool     `json:"confidential"`
}

func (b ncaBody) command() appnca.CreateCommand {
	return appnca.CreateCommand{
		WorkOrderID:        b.WorkOrderID,
		NCType:             domnca.NCType(b.NCType),
		NCTypeOther:        middleware.SanitizeString(b.NCTypeOther),
		SupplierName:       middleware.SanitizeString(b.SupplierName),
		ProductDescription: middleware.SanitizeString(b.ProductDescription),
		SupplierWOBatch:    middleware.SanitizeString(b.SupplierWOBatch),
		Quantity:           b.Quantity,
		QuantityUnit:       b.QuantityUnit,
		CartonNumbers:      middleware.SanitizeString(b.CartonNumbers),
		Description:        middleware.SanitizeString(b.Description),
		MachineStatus:      domnca.MachineStatus(b.MachineStatus),
		EstimatedDowntime:  b.EstimatedDowntime,
		RootCauseAnalysis:  middleware.SanitizeString(b.RootCauseAnalysis),
		CorrectiveAction:   middleware.SanitizeString(b.CorrectiveAction),
		DispositionDiscard: b.DispositionDiscard,
		Confidential:       b.Confidential,
	}
}

// POST /v1/ncas
func (r *Router) handleCreateNCA(w http.ResponseWriter, req *http.Request) error {
	var body ncaBody
	if err := decode(req, &body); err != nil {
		return err
	}
	if err := middleware.ValidateNCType(body.NCType); err != nil {
		return badRequest(err.Error())
	}
	if err := middleware.ValidateMachineStatus(body.MachineStatus); err != nil {
		return badRequest(err.Error())
	}

	actor := middleware.ActorFromContext(req.Context())
	n, err := r.deps.NCAs.Create(req.Context(), actor, body.command())
	if err != nil {
		return err
	}
	if n.MachineStatus == domnca.MachineDown {
		middleware.IncrementMachineDownAlerts()
	}
	return respond(w, http.StatusCreated, n)
}

// POST /v1/ncas/draft
func (r *Router) handleSaveNCADraft(w http.ResponseWriter, req *http.Request) error {
	var body ncaBody
	if err := decode(req, &body); err != nil {
		return err
	}
	if body.NCType != "" {
		if err := middleware.ValidateNCType(body.NCType); err != nil {
			return badRequest(err.Error())
		}
	}

	actor := middleware.ActorFromContext(req.Context())
	n, err := r.deps.NCAs.SaveDraft(req.Context(), actor, body.command())
	if err != nil {
		return err
	}
	return respond(w, http.StatusCreated, n)
}

// GET /v1/ncas?status=&nc_type=&supplier=&mine=&limit=
func (r *Router) handleListNCAs(w http.ResponseWriter, req *http.Request) error {
	q := req.URL.Query()
	limit, _ := strconv.Atoi(q.Get("limit"))

	f := domnca.Filter{
		Status:       domnca.Status(q.Get("status")),
		NCType:       domnca.NCType(q.Get("nc_type")),
		SupplierName: q.Get("supplier"),
		Limit:        middleware.ValidateLimit(limit),
	}
	if q.Get("mine") == "true" {
		f.RaisedBy = middleware.ActorFromContext(req.Context()).UserID
	}

	list, err := r.deps.NCAs.List(req.Context(), f)
	if err != nil {
		return err
	}
	return respond(w, http.StatusOK, list)
}

// GET /v1/ncas/{id}
func (r *Router) handleGetNCA(w http.ResponseWriter, req *http.Request) error {
	n, err := r.deps.NCAs.Get(req.Context(), domnca.ID(chi.URLParam(req, "id")))
	if err != nil {
		return err
	}
	return respond(w, http.StatusOK, n)
}

// POST /v1/ncas/{id}/close
func (r *Router) handleCloseNCA(w http.ResponseWriter, req *http.Request) error {
	var body struct {
		RootCauseAnalysis string `json:"root_cause_analysis"`
		CorrectiveAction  string `json:"corrective_action"`
	}
	if err := decode(req, &body); err != nil {
		return err
	}

	actor := middleware.ActorFromContext(req.Context())
	n, err := r.deps.NCAs.Close(req.Context(), actor, domnca.ID(chi.URLParam(req, "id")), appnca.CloseCommand{
		RootCauseAnalysis: middleware.SanitizeString(body.RootCauseAnalysis),
		CorrectiveAction:  middleware.SanitizeString(body.CorrectiveAction),
	})
	if err != nil {
		return err
	}
	return respond(w, http.StatusOK, n)
}

// GET /v1/ncas/{id}/reconciliation
func (r *Router) handleReconcileNCA(w http.ResponseWriter, req *http.Request) error {
	res, err := r.deps.Reconciliation.ValidateNCA(req.Context(), domnca.ID(chi.URLParam(req, "id")))
	if err != nil {
		return err
	}
	return respond(w, http.StatusOK, res)
}

// GET /v1/ncas/{id}/audit
func (r *Router) handleNCAAudit(w http.ResponseWriter, req *http.Request) error {
	entries, err := r.deps.Audit.ListByEntity(req.Context(), "nca", chi.URLParam(req, "id"))
	if err != nil {
		return err
	}
	return respond(w, http.StatusOK, entries)
}

// POST /v1/mjcs
func (r *Router) handleCreateMJC(w http.ResponseWriter, req *http.Request) error {
	var body struct {
		MachineName    string `json:"machine_name"`
		Description    string `json:"description"`
		WorkCarriedOut string `json:"work_carried_out"`
		Urgency        string `json:"urgency"`
		Draft          bool   `json:"draft"`
	}
	if err := decode(req, &body); err != nil {
		return err
	}
	if err := middleware.ValidateUrgency(body.Urgency); err != nil {
		return badRequest(err.Error())
	}
	if body.MachineName == "" {
		return badRequest("machine_name is required")
	}

	actor := middleware.ActorFromContext(req.Context())
	m, err := r.deps.MJCs.Create(req.Context(), actor, appmjc.CreateCommand{
		MachineName:    middleware.SanitizeString(body.MachineName),
		Description:    middleware.SanitizeString(body.Description),
		WorkCarriedOut: middleware.SanitizeString(body.WorkCarriedOut),
		Urgency:        dommjc.Urgency(body.Urgency),
		Draft:          body.Draft,
	})
	if err != nil {
		return err
	}
	return respond(w, http.StatusCreated, m)
}

// GET /v1/mjcs?status=&mine=&limit=
func (r *Router) handleListMJCs(w http.ResponseWriter, req *http.Request) error {
	q := req.URL.Query()
	limit, _ := strconv.Atoi(q.Get("limit"))

	f := dommjc.Filter{
		Status: dommjc.Status(q.Get("status")),
		Limit:  middleware.ValidateLimit(limit),
	}
	if q.Get("mine") == "true" {
		f.RaisedBy = middleware.ActorFromContext(req.Context()).UserID
	}

	list, err := r.deps.MJCs.List(req.Context(), f)
	if err != nil {
		return err
	}
	return respond(w, http.StatusOK, list)
}

// GET /v1/mjcs/{id}
func (r *Router) handleGetMJC(w http.ResponseWriter, req *http.Request) error {
	m, err := r.deps.MJCs.Get(req.Context(), dommjc.ID(chi.URLParam(req, "id")))
	if err != nil {
		return err
	}
	return respond(w, http.StatusOK, m)
}

// PATCH /v1/mjcs/{id}
func (r *Router) handleUpdateMJC(w http.ResponseWriter, req *http.Request) error {
	var body struct {
		WorkCarriedOut string `json:"work_carried_out"`
		Urgency        string `json:"urgency"`
		Status         string `json:"status"`
	}
	if err := decode(req, &body); err != nil {
		return err
	}
	if err := middleware.ValidateUrgency(body.Urgency); err != nil {
		return badRequest(err.Error())
	}

	actor := middleware.ActorFromContext(req.Context())
	m, err := r.deps.MJCs.Update(req.Context(), actor, dommjc.ID(chi.URLParam(req, "id")), appmjc.UpdateCommand{
		WorkCarriedOut: middleware.SanitizeString(body.WorkCarriedOut),
		Urgency:        dommjc.Urgency(body.Urgency),
		Status:         dommjc.Status(body.Status),
	})
	if err != nil {
		return err
	}
	return respond(w, http.StatusOK, m)
}

// POST /v1/mjcs/{id}/hygiene-clearance
func (r *Router) handleHygieneClearance(w http.ResponseWriter, req *http.Request) error {
	var body struct {
		Checklist []bool `json:"hygiene_checklist"`
	}
	if err := decode(req, &body); err != nil {
		return err
	}
	checklist, err := checklistFromSlice(body.Checklist)
	if err != nil {
		return err
	}

	actor := middleware.ActorFromContext(req.Context())
	m, err := r.deps.MJCs.GrantHygieneClearance(req.Context(), actor, dommjc.ID(chi.URLParam(req, "id")), checklist)
	if err != nil {
		return err
	}
	return respond(w, http.StatusOK, m)
}

// GET /v1/work-orders
func (r *Router) handleListWorkOrders(w http.ResponseWriter, req *http.Request) error {
	actor := middleware.ActorFromContext(req.Context())
	list, err := r.deps.WorkOrders.ListByOperator(req.Context(), actor.UserID)
	if err != nil {
		return err
	}
	return respond(w, http.StatusOK, list)
}

// GET /v1/work-orders/{id}
func (r *Router) handleGetWorkOrder(w http.ResponseWriter, req *http.Request) error {
	wo, err := r.deps.WorkOrders.Get(req.Context(), domwo.ID(chi.URLParam(req, "id")))
	if err != nil {
		return err
	}
	return respond(w, http.StatusOK, wo)
}
