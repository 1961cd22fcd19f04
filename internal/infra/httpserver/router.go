package httpserver

import (
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"

	appcomplaints "github.com/kangopak/ohisee-api/internal/application/complaints"
	appeod "github.com/kangopak/ohisee-api/internal/application/endofday"
	appmjc "github.com/kangopak/ohisee-api/internal/application/mjc"
	appnca "github.com/kangopak/ohisee-api/internal/application/nca"
	appquality "github.com/kangopak/ohisee-api/internal/application/quality"
	apprecalls "github.com/kangopak/ohisee-api/internal/application/recalls"
	apprecon "github.com/kangopak/ohisee-api/internal/application/reconciliation"
	appsuppliers "github.com/kangopak/ohisee-api/internal/application/suppliers"
	apptrends "github.com/kangopak/ohisee-api/internal/application/trends"
	appwaste "github.com/kangopak/ohisee-api/internal/application/waste"
	appwo "github.com/kangopak/ohisee-api/internal/application/workorders"
	domaudit "github.com/kangopak/ohisee-api/internal/domain/audit"
	dommjc "github.com/kangopak/ohisee-api/internal/domain/mjc"
	domquality "github.com/kangopak/ohisee-api/internal/domain/quality"
	"github.com/kangopak/ohisee-api/internal/middleware"
)

// Deps bundles the services the HTTP surface exposes.
type Deps struct {
	Quality        *appquality.Service
	NCAs           *appnca.Service
	MJCs           *appmjc.Service
	WorkOrders     *appwo.Service
	EndOfDay       *appeod.Service
	Trends         *apptrends.Service
	Suppliers      *appsuppliers.Service
	Reconciliation *apprecon.Service
	Complaints     *appcomplaints.Service
	Recalls        *apprecalls.Service
	Waste          *appwaste.Service
	Audit          domaudit.Repository
	HealthCheckers map[string]middleware.HealthChecker
	AllowedOrigins []string
}

type Router struct {
	deps Deps
}

func NewRouter(deps Deps) http.Handler {
	r := &Router{deps: deps}
	mux := chi.NewRouter()

	origins := deps.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	mux.Use(cors.Handler(cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Authorization", "Content-Type", "X-User-Id", "X-User-Name", "X-User-Role"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	mux.Get("/health", middleware.HealthHandler(deps.HealthCheckers))
	mux.Get("/ready", middleware.ReadinessHandler)
	mux.Get("/live", middleware.LivenessHandler)
	mux.Get("/metrics", middleware.MetricsHandler)

	mux.Route("/v1", func(rt chi.Router) {
		rt.Route("/ncas", func(rn chi.Router) {
			rn.Post("/", r.wrap(r.handleCreateNCA))
			rn.Post("/draft", r.wrap(r.handleSaveNCADraft))
			rn.Get("/", r.wrap(r.handleListNCAs))
			rn.Get("/{id}", r.wrap(r.handleGetNCA))
			rn.Post("/{id}/close", r.wrap(r.handleCloseNCA))
			rn.Get("/{id}/reconciliation", r.wrap(r.handleReconcileNCA))
			rn.Get("/{id}/waste", r.wrap(r.handleGetWasteByNCA))
			rn.Get("/{id}/audit", r.wrap(r.handleNCAAudit))
		})

		rt.Route("/mjcs", func(rm chi.Router) {
			rm.Post("/", r.wrap(r.handleCreateMJC))
			rm.Get("/", r.wrap(r.handleListMJCs))
			rm.Get("/{id}", r.wrap(r.handleGetMJC))
			rm.Patch("/{id}", r.wrap(r.handleUpdateMJC))
			rm.Post("/{id}/hygiene-clearance", r.wrap(r.handleHygieneClearance))
		})

		rt.Get("/work-orders", r.wrap(r.handleListWorkOrders))
		rt.Get("/work-orders/{id}", r.wrap(r.handleGetWorkOrder))

		// Scoring routes fan into the AI backend; keep their budget tight.
		rt.Route("/quality", func(rq chi.Router) {
			rq.Use(middleware.RateLimit(10, 1))
			rq.Post("/check", r.wrap(r.handleQualityCheck))
			rq.Post("/validate", r.wrap(r.handleQualityValidate))
			rq.Post("/suggest", r.wrap(r.handleQualitySuggest))
			rq.Post("/override", r.wrap(r.handleQualityOverride))
		})

		rt.Post("/end-of-day", r.wrap(r.handleEndOfDay))

		rt.Get("/dashboard", r.wrap(r.handleDashboard))
		rt.Get("/trends/{year}", r.wrap(r.handleYearTrends))

		rt.Get("/suppliers", r.wrap(r.handleListSuppliers))
		rt.Get("/suppliers/{id}/score", r.wrap(r.handleSupplierScore))

		rt.Route("/complaints", func(rc chi.Router) {
			rc.Post("/", r.wrap(r.handleCreateComplaint))
			rc.Get("/{id}", r.wrap(r.handleGetComplaint))
			rc.Post("/{id}/escalate", r.wrap(r.handleEscalateComplaint))
		})

		rt.Route("/recalls", func(rr chi.Router) {
			rr.Post("/", r.wrap(r.handleInitiateRecall))
			rr.Get("/", r.wrap(r.handleListRecalls))
			rr.Post("/{id}/complete", r.wrap(r.handleCompleteRecall))
		})

		rt.Post("/waste", r.wrap(r.handleCreateWaste))
	})

	return mux
}

type handlerFunc func(http.ResponseWriter, *http.Request) error

// badRequestError marks client-side validation failures.
type badRequestError struct{ msg string }

func (e *badRequestError) Error() string { return e.msg }

func badRequest(msg string) error { return &badRequestError{msg: msg} }

func (r *Router) wrap(h handlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, req *http.Request) {
		err := h(w, req)
		if err == nil {
			return
		}

		var badReq *badRequestError
		var draftBlocker *appeod.DraftBlockerError
		switch {
		case errors.Is(err, sql.ErrNoRows):
			fail(w, http.StatusNotFound, "not found")
		case errors.As(err, &draftBlocker):
			fail(w, http.StatusConflict, draftBlocker.Error())
		case errors.Is(err, domquality.ErrScorerUnavailable):
			fail(w, http.StatusBadGateway, err.Error())
		case errors.Is(err, domquality.ErrOverrideReasonTooShort),
			errors.Is(err, domquality.ErrUnknownFormType),
			errors.Is(err, appmjc.ErrHygieneIncomplete),
			errors.Is(err, appwaste.ErrNotDiscard),
			errors.As(err, &badReq):
			fail(w, http.StatusBadRequest, err.Error())
		default:
			fail(w, http.StatusInternalServerError, err.Error())
		}
	}
}

type envelope struct {
	Success bool   `json:"success"`
	Data    any    `json:"data,omitempty"`
	Error   string `json:"error,omitempty"`
}

func respond(w http.ResponseWriter, status int, data any) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	return json.NewEncoder(w).Encode(envelope{Success: true, Data: data})
}

func fail(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(envelope{Success: false, Error: msg})
}

func decode(req *http.Request, v any) error {
	if err := json.NewDecoder(req.Body).Decode(v); err != nil {
		return badRequest("invalid request body: " + err.Error())
	}
	return nil
}

// checklistFromSlice converts the wire checklist into the fixed array,
// rejecting any length other than the mandatory 10.
func checklistFromSlice(items []bool) (dommjc.HygieneChecklist, error) {
	var out dommjc.HygieneChecklist
	if len(items) != dommjc.HygieneItemCount {
		return out, badRequest("hygiene_checklist must contain exactly 10 items")
	}
	copy(out[:], items)
	return out, nil
}
