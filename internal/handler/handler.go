package handler

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"

	"github.com/ilfiscal/fiscal-data-service/internal/integrations/treasury"
	"github.com/ilfiscal/fiscal-data-service/internal/service"
)

// BenchmarkClient fetches the external debt benchmark
type BenchmarkClient interface {
	GetTenYearYield() (*treasury.Yield, error)
}

type Handler struct {
	svc      *service.Service
	treasury BenchmarkClient
	log      *logrus.Logger
}

func NewHandler(svc *service.Service, treasury BenchmarkClient, log *logrus.Logger) *Handler {
	return &Handler{svc: svc, treasury: treasury, log: log}
}

// RegisterRoutes attaches all API routes to the router. Entity codes contain
// slashes (e.g. 016/020/32), so the {code} routes use a greedy pattern and
// the bare entity route is registered after every suffixed one.
func (h *Handler) RegisterRoutes(r *mux.Router) {
	api := r.PathPrefix("/api/v1").Subrouter()

	api.HandleFunc("/health", h.Health).Methods("GET")
	api.HandleFunc("/tables", h.Tables).Methods("GET")

	api.HandleFunc("/entities/search", h.SearchEntities).Methods("GET")
	api.HandleFunc("/entities/compare", h.CompareEntities).Methods("GET")
	api.HandleFunc("/entities/rank", h.RankEntities).Methods("GET")

	api.HandleFunc("/entities/{code:.+}/revenues", h.Revenues).Methods("GET")
	api.HandleFunc("/entities/{code:.+}/expenditures", h.Expenditures).Methods("GET")
	api.HandleFunc("/entities/{code:.+}/fund-balances", h.FundBalances).Methods("GET")
	api.HandleFunc("/entities/{code:.+}/debt", h.Debt).Methods("GET")
	api.HandleFunc("/entities/{code:.+}/pensions", h.Pensions).Methods("GET")
	api.HandleFunc("/entities/{code:.+}/fiscal-health/report", h.EmailFiscalHealth).Methods("POST")
	api.HandleFunc("/entities/{code:.+}/fiscal-health", h.FiscalHealth).Methods("GET")
	api.HandleFunc("/entities/{code:.+}/peers", h.Peers).Methods("GET")
	api.HandleFunc("/entities/{code:.+}", h.Entity).Methods("GET")

	api.HandleFunc("/counties/{county}/entities", h.CountyEntities).Methods("GET")
	api.HandleFunc("/counties/{county}/summary", h.CountySummary).Methods("GET")

	api.HandleFunc("/benchmarks/treasury", h.TreasuryBenchmark).Methods("GET")
}

// Health reports service and database status
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.Ping(); err != nil {
		h.log.Errorf("Database ping failed: %v", err)
		h.respondError(w, http.StatusServiceUnavailable, "database unavailable")
		return
	}
	h.respondJSON(w, http.StatusOK, map[string]string{
		"service":     "fiscal-data-service",
		"data_source": h.svc.DataSource(),
	})
}

// Tables lists the queryable comptroller tables
func (h *Handler) Tables(w http.ResponseWriter, r *http.Request) {
	h.respondJSON(w, http.StatusOK, map[string]interface{}{
		"tables": h.svc.Tables(),
	})
}

// SearchEntities handles GET /entities/search?q=&limit=
func (h *Handler) SearchEntities(w http.ResponseWriter, r *http.Request) {
	term := r.URL.Query().Get("q")
	limit := queryInt(r, "limit", 0)

	entities, err := h.svc.SearchEntities(term, limit)
	if err != nil {
		h.respondServiceError(w, err)
		return
	}
	h.respondJSON(w, http.StatusOK, map[string]interface{}{
		"query":    term,
		"count":    len(entities),
		"entities": entities,
	})
}

// Entity handles GET /entities/{code}
func (h *Handler) Entity(w http.ResponseWriter, r *http.Request) {
	entity, err := h.svc.EntityDetails(mux.Vars(r)["code"])
	if err != nil {
		h.respondServiceError(w, err)
		return
	}
	h.respondJSON(w, http.StatusOK, entity)
}

// Revenues handles GET /entities/{code}/revenues
func (h *Handler) Revenues(w http.ResponseWriter, r *http.Request) {
	breakdown, err := h.svc.RevenueBreakdown(mux.Vars(r)["code"])
	if err != nil {
		h.respondServiceError(w, err)
		return
	}
	h.respondJSON(w, http.StatusOK, breakdown)
}

// Expenditures handles GET /entities/{code}/expenditures
func (h *Handler) Expenditures(w http.ResponseWriter, r *http.Request) {
	breakdown, err := h.svc.ExpenditureBreakdown(mux.Vars(r)["code"])
	if err != nil {
		h.respondServiceError(w, err)
		return
	}
	h.respondJSON(w, http.StatusOK, breakdown)
}

// FundBalances handles GET /entities/{code}/fund-balances
func (h *Handler) FundBalances(w http.ResponseWriter, r *http.Request) {
	breakdown, err := h.svc.FundBalances(mux.Vars(r)["code"])
	if err != nil {
		h.respondServiceError(w, err)
		return
	}
	h.respondJSON(w, http.StatusOK, breakdown)
}

// Debt handles GET /entities/{code}/debt
func (h *Handler) Debt(w http.ResponseWriter, r *http.Request) {
	summary, err := h.svc.DebtSummary(mux.Vars(r)["code"])
	if err != nil {
		h.respondServiceError(w, err)
		return
	}
	h.respondJSON(w, http.StatusOK, summary)
}

// Pensions handles GET /entities/{code}/pensions
func (h *Handler) Pensions(w http.ResponseWriter, r *http.Request) {
	summary, err := h.svc.PensionSummary(mux.Vars(r)["code"])
	if err != nil {
		h.respondServiceError(w, err)
		return
	}
	h.respondJSON(w, http.StatusOK, summary)
}

// FiscalHealth handles GET /entities/{code}/fiscal-health
func (h *Handler) FiscalHealth(w http.ResponseWriter, r *http.Request) {
	result, err := h.svc.FiscalHealth(mux.Vars(r)["code"])
	if err != nil {
		h.respondServiceError(w, err)
		return
	}
	h.respondJSON(w, http.StatusOK, result)
}

// emailReportRequest is the body of POST /entities/{code}/fiscal-health/report
type emailReportRequest struct {
	Recipient string `json:"recipient"`
}

// EmailFiscalHealth handles POST /entities/{code}/fiscal-health/report
func (h *Handler) EmailFiscalHealth(w http.ResponseWriter, r *http.Request) {
	var req emailReportRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	code := mux.Vars(r)["code"]
	if err := h.svc.EmailHealthReport(code, req.Recipient); err != nil {
		h.respondServiceError(w, err)
		return
	}
	h.respondJSON(w, http.StatusOK, map[string]string{
		"code":      code,
		"recipient": req.Recipient,
		"delivery":  "sent",
	})
}

// Peers handles GET /entities/{code}/peers
func (h *Handler) Peers(w http.ResponseWriter, r *http.Request) {
	peers, err := h.svc.PeerEntities(mux.Vars(r)["code"])
	if err != nil {
		h.respondServiceError(w, err)
		return
	}
	h.respondJSON(w, http.StatusOK, map[string]interface{}{
		"count": len(peers),
		"peers": peers,
	})
}

// CompareEntities handles GET /entities/compare?codes=a,b,c
func (h *Handler) CompareEntities(w http.ResponseWriter, r *http.Request) {
	raw := r.URL.Query().Get("codes")
	var codes []string
	for _, c := range strings.Split(raw, ",") {
		if c = strings.TrimSpace(c); c != "" {
			codes = append(codes, c)
		}
	}

	comparisons, err := h.svc.CompareEntities(codes)
	if err != nil {
		h.respondServiceError(w, err)
		return
	}
	h.respondJSON(w, http.StatusOK, map[string]interface{}{
		"count":    len(comparisons),
		"entities": comparisons,
	})
}

// RankEntities handles GET /entities/rank?metric=&entity_type=&county=&order=&limit=
func (h *Handler) RankEntities(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	ranked, err := h.svc.RankEntities(
		q.Get("metric"), q.Get("entity_type"), q.Get("county"), q.Get("order"),
		queryInt(r, "limit", 0),
	)
	if err != nil {
		h.respondServiceError(w, err)
		return
	}
	h.respondJSON(w, http.StatusOK, map[string]interface{}{
		"metric":   q.Get("metric"),
		"count":    len(ranked),
		"entities": ranked,
	})
}

// CountyEntities handles GET /counties/{county}/entities?entity_type=
func (h *Handler) CountyEntities(w http.ResponseWriter, r *http.Request) {
	county := mux.Vars(r)["county"]
	entities, err := h.svc.CountyEntities(county, r.URL.Query().Get("entity_type"))
	if err != nil {
		h.respondServiceError(w, err)
		return
	}
	h.respondJSON(w, http.StatusOK, map[string]interface{}{
		"county":   county,
		"count":    len(entities),
		"entities": entities,
	})
}

// CountySummary handles GET /counties/{county}/summary
func (h *Handler) CountySummary(w http.ResponseWriter, r *http.Request) {
	summary, err := h.svc.CountySummary(mux.Vars(r)["county"])
	if err != nil {
		h.respondServiceError(w, err)
		return
	}
	h.respondJSON(w, http.StatusOK, summary)
}

// TreasuryBenchmark handles GET /benchmarks/treasury
func (h *Handler) TreasuryBenchmark(w http.ResponseWriter, r *http.Request) {
	if h.treasury == nil {
		h.respondError(w, http.StatusServiceUnavailable, "benchmark source not configured")
		return
	}
	yield, err := h.treasury.GetTenYearYield()
	if err != nil {
		h.log.Errorf("Failed to fetch treasury benchmark: %v", err)
		h.respondError(w, http.StatusBadGateway, "benchmark source unavailable")
		return
	}
	h.respondJSON(w, http.StatusOK, yield)
}

// queryInt reads an integer query parameter, falling back on absence or junk
func queryInt(r *http.Request, name string, fallback int) int {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return fallback
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return n
}
