// Package chi exposes the search, facet, quality, and cache-admin contracts
// over HTTP. Handlers stay thin: decode, delegate, encode.
package chi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/leadscout/leadscout/internal/cache"
	"github.com/leadscout/leadscout/internal/domain"
	dquality "github.com/leadscout/leadscout/internal/domain/quality"
	dsearch "github.com/leadscout/leadscout/internal/domain/search"
	"github.com/leadscout/leadscout/internal/repository/activity"
	healthuc "github.com/leadscout/leadscout/internal/usecase/health"
)

// Consumer interfaces over the use-case services (ISP).
type (
	searchExecutor interface {
		Execute(ctx context.Context, req *dsearch.Request) (*dsearch.Response, error)
	}
	facetProvider interface {
		GetFacetedSearchData(ctx context.Context, term string, filters *dsearch.Filters, entityType dsearch.EntityType) (*dsearch.FacetResponse, error)
	}
	qualityAnalyzer interface {
		GenerateReport(ctx context.Context) (*dquality.Report, error)
		FindDuplicates(ctx context.Context, limit int) ([]dquality.Candidate, error)
	}
	healthChecker interface {
		Check(ctx context.Context) healthuc.Report
	}
	eventRecorder interface {
		Record(ctx context.Context, ev *activity.Event) error
	}
)

// Server holds the HTTP handlers.
type Server struct {
	search  searchExecutor
	facets  facetProvider
	quality qualityAnalyzer
	health  healthChecker
	events  eventRecorder
	cache   cache.Cache // optional
	logger  *zap.Logger

	duplicateLimit int
}

// NewServer creates an HTTP API server. cache may be nil.
func NewServer(
	search searchExecutor,
	facets facetProvider,
	quality qualityAnalyzer,
	health healthChecker,
	events eventRecorder,
	c cache.Cache,
	duplicateLimit int,
	logger *zap.Logger,
) *Server {
	return &Server{
		search:         search,
		facets:         facets,
		quality:        quality,
		health:         health,
		events:         events,
		cache:          c,
		logger:         logger,
		duplicateLimit: duplicateLimit,
	}
}

// Routes mounts every endpoint on the router.
func (s *Server) Routes(r chi.Router) {
	r.Post("/v1/search", s.Search)
	r.Post("/v1/facets", s.Facets)
	r.Get("/v1/quality/report", s.QualityReport)
	r.Get("/v1/quality/duplicates", s.Duplicates)
	r.Post("/v1/events", s.RecordEvent)
	r.Get("/v1/cache/stats", s.CacheStats)
	r.Delete("/v1/cache", s.InvalidateCache)
	r.Get("/healthz", s.HealthCheck)
	r.Get("/metrics", s.Metrics)
}

// searchRequest is the inbound search contract.
type searchRequest struct {
	Query    string           `json:"query"`
	Type     string           `json:"searchType"`
	Limit    int              `json:"limit"`
	Offset   int              `json:"offset"`
	Filters  *dsearch.Filters `json:"filters"`
	UseCache *bool            `json:"useCache"`
	UserID   string           `json:"userId"`
}

// Search handles POST /v1/search.
func (s *Server) Search(w http.ResponseWriter, r *http.Request) {
	var req searchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, "Invalid request body: "+err.Error())
		return
	}

	if req.Type == "" {
		req.Type = string(dsearch.TypeBoth)
	}
	// Caching is opt-out.
	useCache := req.UseCache == nil || *req.UseCache

	dreq := &dsearch.Request{
		Query:    req.Query,
		Type:     dsearch.EntityType(req.Type),
		Limit:    req.Limit,
		Offset:   req.Offset,
		UseCache: useCache,
		UserID:   req.UserID,
	}
	if req.Filters != nil {
		dreq.Filters = *req.Filters
	}

	resp, err := s.search.Execute(r.Context(), dreq)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// facetRequest is the inbound faceted-search contract.
type facetRequest struct {
	Term    string           `json:"term"`
	Type    string           `json:"searchType"`
	Filters *dsearch.Filters `json:"appliedFilters"`
}

// Facets handles POST /v1/facets.
func (s *Server) Facets(w http.ResponseWriter, r *http.Request) {
	var req facetRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, "Invalid request body: "+err.Error())
		return
	}
	if req.Type == "" {
		req.Type = string(dsearch.TypeBoth)
	}

	resp, err := s.facets.GetFacetedSearchData(r.Context(), req.Term, req.Filters, dsearch.EntityType(req.Type))
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// QualityReport handles GET /v1/quality/report.
func (s *Server) QualityReport(w http.ResponseWriter, r *http.Request) {
	report, err := s.quality.GenerateReport(r.Context())
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, report)
}

// Duplicates handles GET /v1/quality/duplicates.
func (s *Server) Duplicates(w http.ResponseWriter, r *http.Request) {
	limit := s.duplicateLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			writeError(w, http.StatusBadRequest, codeValidationFailed, "limit must be a non-negative integer")
			return
		}
		limit = n
	}

	cands, err := s.quality.FindDuplicates(r.Context(), limit)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	if cands == nil {
		cands = []dquality.Candidate{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"duplicates": cands, "count": len(cands)})
}

// eventRequest is the inbound interaction-recording contract.
type eventRequest struct {
	UserID      string `json:"userId"`
	EntityID    string `json:"entityId"`
	EntityType  string `json:"entityType"`
	Kind        string `json:"kind"`
	Industry    string `json:"industry"`
	City        string `json:"city"`
	State       string `json:"state"`
	CompanyType string `json:"companyType"`
	Seniority   string `json:"seniority"`
}

// RecordEvent handles POST /v1/events.
func (s *Server) RecordEvent(w http.ResponseWriter, r *http.Request) {
	var req eventRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, "Invalid request body: "+err.Error())
		return
	}

	ev := &activity.Event{
		UserID:      req.UserID,
		EntityID:    req.EntityID,
		EntityType:  req.EntityType,
		Kind:        activity.Kind(req.Kind),
		Industry:    req.Industry,
		City:        req.City,
		State:       req.State,
		CompanyType: req.CompanyType,
		Seniority:   req.Seniority,
	}
	if err := s.events.Record(r.Context(), ev); err != nil {
		writeError(w, http.StatusBadRequest, codeValidationFailed, err.Error())
		return
	}
	w.WriteHeader(http.StatusAccepted)
}

// CacheStats handles GET /v1/cache/stats.
func (s *Server) CacheStats(w http.ResponseWriter, r *http.Request) {
	if s.cache == nil {
		writeError(w, http.StatusNotFound, codeBadRequest, "cache disabled")
		return
	}

	h := s.cache.Health()
	writeJSON(w, http.StatusOK, map[string]any{
		"status":  h.Status,
		"issues":  h.Issues,
		"hitRate": h.Stats.HitRate(),
		"stats":   h.Stats,
	})
}

// InvalidateCache handles DELETE /v1/cache. A tag or pattern query parameter
// scopes the invalidation; with neither, the cache is cleared.
func (s *Server) InvalidateCache(w http.ResponseWriter, r *http.Request) {
	if s.cache == nil {
		writeError(w, http.StatusNotFound, codeBadRequest, "cache disabled")
		return
	}

	q := r.URL.Query()
	switch {
	case q.Get("tag") != "":
		n := s.cache.InvalidateTag(r.Context(), q.Get("tag"))
		writeJSON(w, http.StatusOK, map[string]int{"invalidated": n})
	case q.Get("pattern") != "":
		n, err := s.cache.InvalidatePattern(r.Context(), q.Get("pattern"))
		if err != nil {
			writeError(w, http.StatusBadRequest, codeValidationFailed, "invalid pattern: "+err.Error())
			return
		}
		writeJSON(w, http.StatusOK, map[string]int{"invalidated": n})
	default:
		s.cache.Clear(r.Context())
		writeJSON(w, http.StatusOK, map[string]string{"status": "cleared"})
	}
}

// HealthCheck handles GET /healthz.
func (s *Server) HealthCheck(w http.ResponseWriter, r *http.Request) {
	report := s.health.Check(r.Context())

	httpStatus := http.StatusOK
	if report.Status != healthuc.Healthy {
		httpStatus = http.StatusServiceUnavailable
	}
	writeJSON(w, httpStatus, map[string]any{
		"status": report.Status,
		"checks": report.Checks,
	})
}

// Metrics handles GET /metrics.
func (s *Server) Metrics(w http.ResponseWriter, r *http.Request) {
	promhttp.Handler().ServeHTTP(w, r)
}

// Wire error codes.
const (
	codeBadRequest       = "bad_request"
	codeValidationFailed = "validation_failed"
	codeStoreUnavailable = "store_unavailable"
	codeNotFound         = "not_found"
	codeInternal         = "internal_error"
)

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// handleDomainError maps use-case sentinels onto HTTP statuses. Anything
// unmapped is an internal error with a generic message.
func (s *Server) handleDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrValidation):
		writeError(w, http.StatusBadRequest, codeValidationFailed, err.Error())
	case errors.Is(err, domain.ErrNotFound):
		writeError(w, http.StatusNotFound, codeNotFound, domain.ErrNotFound.Error())
	case errors.Is(err, domain.ErrStoreUnavailable):
		writeError(w, http.StatusServiceUnavailable, codeStoreUnavailable, domain.ErrStoreUnavailable.Error())
	default:
		s.logger.Error("request failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, codeInternal, "internal error")
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, errorResponse{Code: code, Message: message})
}
