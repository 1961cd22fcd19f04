package httpserver

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	appcomplaints "github.com/kangopak/ohisee-api/internal/application/complaints"
	apprecalls "github.com/kangopak/ohisee-api/internal/application/recalls"
	appwaste "github.com/kangopak/ohisee-api/internal/application/waste"
	domcomplaint "github.com/kangopak/ohisee-api/internal/domain/complaint"
	domrecall "github.com/kangopak/ohisee-api/internal/domain/recall"
	domsupplier "github.com/kangopak/ohisee-api/internal/domain/supplier"
	"github.com/kangopak/ohisee-api/internal/middleware"
)

// GET /v1/dashboard
func (r *Router) handleDashboard(w http.ResponseWriter, req *http.Request) error {
	kpis, err := r.deps.Trends.Dashboard(req.Context())
	if err != nil {
		return err
	}
	return respond(w, http.StatusOK, kpis)
}

// GET /v1/trends/{year}
func (r *Router) handleYearTrends(w http.ResponseWriter, req *http.Request) error {
	year, err := strconv.Atoi(chi.URLParam(req, "year"))
	if err != nil {
		return badRequest("year must be numeric")
	}
	year = middleware.ValidateYear(year, currentYear(r))
	return respond(w, http.StatusOK, r.deps.Trends.YearTrends(req.Context(), year))
}

func currentYear(r *Router) int {
	return r.deps.Trends.Clock.Now().Year()
}

// GET /v1/suppliers
func (r *Router) handleListSuppliers(w http.ResponseWriter, req *http.Request) error {
	list, err := r.deps.Suppliers.List(req.Context())
	if err != nil {
		return err
	}
	return respond(w, http.StatusOK, list)
}

// GET /v1/suppliers/{id}/score
func (r *Router) handleSupplierScore(w http.ResponseWriter, req *http.Request) error {
	id := domsupplier.ID(chi.URLParam(req, "id"))
	score, err := r.deps.Suppliers.PerformanceScore(req.Context(), id)
	if err != nil {
		return err
	}
	return respond(w, http.StatusOK, map[string]any{"supplier_id": id, "performance_score": score})
}

// POST /v1/complaints
func (r *Router) handleCreateComplaint(w http.ResponseWriter, req *http.Request) error {
	var body struct {
		CustomerName string `json:"customer_name"`
		ProductCode  string `json:"product_code"`
		Description  string `json:"description"`
	}
	if err := decode(req, &body); err != nil {
		return err
	}
	if body.CustomerName == "" || body.Description == "" {
		return badRequest("customer_name and description are required")
	}

	actor := middleware.ActorFromContext(req.Context())
	c, err := r.deps.Complaints.Create(req.Context(), actor, appcomplaints.CreateCommand{
		CustomerName: middleware.SanitizeString(body.CustomerName),
		ProductCode:  middleware.SanitizeString(body.ProductCode),
		Description:  middleware.SanitizeString(body.Description),
	})
	if err != nil {
		return err
	}
	return respond(w, http.StatusCreated, c)
}

// GET /v1/complaints/{id}
func (r *Router) handleGetComplaint(w http.ResponseWriter, req *http.Request) error {
	c, err := r.deps.Complaints.Get(req.Context(), domcomplaint.ID(chi.URLParam(req, "id")))
	if err != nil {
		return err
	}
	return respond(w, http.StatusOK, c)
}

// POST /v1/complaints/{id}/escalate
func (r *Router) handleEscalateComplaint(w http.ResponseWriter, req *http.Request) error {
	actor := middleware.ActorFromContext(req.Context())
	n, err := r.deps.Complaints.EscalateToNCA(req.Context(), actor, domcomplaint.ID(chi.URLParam(req, "id")))
	if err != nil {
		return err
	}
	return respond(w, http.StatusCreated, n)
}

// POST /v1/recalls
func (r *Router) handleInitiateRecall(w http.ResponseWriter, req *http.Request) error {
	var body struct {
		Kind         string `json:"kind"`
		Reason       string `json:"reason"`
		ProductCode  string `json:"product_code"`
		BatchNumbers string `json:"batch_numbers"`
		NCAID        string `json:"nca_id"`
	}
	if err := decode(req, &body); err != nil {
		return err
	}
	if body.Reason == "" || body.ProductCode == "" {
		return badRequest("reason and product_code are required")
	}
	if body.Kind != "" && body.Kind != "mock" && body.Kind != "actual" {
		return badRequest("invalid kind: allowed values are mock, actual")
	}

	actor := middleware.ActorFromContext(req.Context())
	rec, err := r.deps.Recalls.Initiate(req.Context(), actor, apprecalls.InitiateCommand{
		Kind:         domrecall.Kind(body.Kind),
		Reason:       middleware.SanitizeString(body.Reason),
		ProductCode:  middleware.SanitizeString(body.ProductCode),
		BatchNumbers: middleware.SanitizeString(body.BatchNumbers),
		NCAID:        body.NCAID,
	})
	if err != nil {
		return err
	}
	return respond(w, http.StatusCreated, rec)
}

// GET /v1/recalls?limit=
func (r *Router) handleListRecalls(w http.ResponseWriter, req *http.Request) error {
	limit, _ := strconv.Atoi(req.URL.Query().Get("limit"))
	list, err := r.deps.Recalls.List(req.Context(), middleware.ValidateLimit(limit))
	if err != nil {
		return err
	}
	return respond(w, http.StatusOK, list)
}

// POST /v1/recalls/{id}/complete
func (r *Router) handleCompleteRecall(w http.ResponseWriter, req *http.Request) error {
	rec, err := r.deps.Recalls.Complete(req.Context(), domrecall.ID(chi.URLParam(req, "id")))
	if err != nil {
		return err
	}
	return respond(w, http.StatusOK, rec)
}

// POST /v1/waste
func (r *Router) handleCreateWaste(w http.ResponseWriter, req *http.Request) error {
	var body struct {
		NCAID            string  `json:"nca_id"`
		WasteType        string  `json:"waste_type"`
		PhysicalQuantity float64 `json:"physical_quantity"`
		QuantityUnit     string  `json:"quantity_unit"`
		DisposalMethod   string  `json:"disposal_method"`
	}
	if err := decode(req, &body); err != nil {
		return err
	}
	if body.NCAID == "" {
		return badRequest("nca_id is required")
	}
	if body.PhysicalQuantity <= 0 {
		return badRequest("physical_quantity must be positive")
	}

	actor := middleware.ActorFromContext(req.Context())
	m, err := r.deps.Waste.CreateFromNCA(req.Context(), actor, appwaste.CreateCommand{
		NCAID:            body.NCAID,
		WasteType:        middleware.SanitizeString(body.WasteType),
		PhysicalQuantity: body.PhysicalQuantity,
		QuantityUnit:     body.QuantityUnit,
		DisposalMethod:   middleware.SanitizeString(body.DisposalMethod),
	})
	if err != nil {
		return err
	}
	return respond(w, http.StatusCreated, m)
}

// GET /v1/ncas/{id}/waste
func (r *Router) handleGetWasteByNCA(w http.ResponseWriter, req *http.Request) error {
	m, err := r.deps.Waste.GetByNCA(req.Context(), chi.URLParam(req, "id"))
	if err != nil {
		return err
	}
	return respond(w, http.StatusOK, m)
}
