package chi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/EashcodeX/itglue-clone-sub001/internal/domain"
	"github.com/EashcodeX/itglue-clone-sub001/internal/domain/search/request"
	healthuc "github.com/EashcodeX/itglue-clone-sub001/internal/usecase/health"
	searchuc "github.com/EashcodeX/itglue-clone-sub001/internal/usecase/search"
)

// Error codes returned in ErrorResponse.Code.
const (
	codeBadRequest       = "bad_request"
	codeValidationFailed = "validation_failed"
	codeEmptyQuery       = "empty_query"
	codeInvalidScope     = "invalid_scope"
	codeNotFound         = "not_found"
	codeUnavailable      = "search_unavailable"
	codeInternalError    = "internal_error"
)

// Searcher is the search use case as seen by the transport.
type Searcher interface {
	Search(ctx context.Context, req *request.Request) (searchuc.Response, error)
	InvalidateOrganization(ctx context.Context, organizationID string) error
	Flush(ctx context.Context) error
}

// HealthChecker reports component health.
type HealthChecker interface {
	Check(ctx context.Context) healthuc.Report
}

// errorHandler tries to handle a domain error. Returns true if handled.
type errorHandler func(w http.ResponseWriter, err error, msg string) bool

// Options carries request defaults taken from configuration.
type Options struct {
	// DefaultLimit applies when the caller does not pass limit=.
	DefaultLimit int
	MaxLimit     int
	// Fuzzy applies when the caller does not pass fuzzy=.
	Fuzzy bool
}

// Server serves the deep search HTTP API.
type Server struct {
	search        Searcher
	health        HealthChecker
	opts          Options
	validate      *validator.Validate
	logger        *zap.Logger
	errorHandlers []errorHandler
}

// NewServer creates an HTTP API server.
func NewServer(search Searcher, health HealthChecker, opts Options, logger *zap.Logger) *Server {
	if opts.MaxLimit <= 0 {
		opts.MaxLimit = request.MaxLimit
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Server{
		search:   search,
		health:   health,
		opts:     opts,
		validate: validator.New(validator.WithRequiredStructEnabled()),
		logger:   logger,
	}
	s.errorHandlers = []errorHandler{
		sentinelHandler(domain.ErrEmptyQuery, http.StatusBadRequest, codeEmptyQuery),
		sentinelHandler(domain.ErrInvalidScope, http.StatusBadRequest, codeInvalidScope),
		sentinelHandler(domain.ErrInvalidRequest, http.StatusBadRequest, codeValidationFailed),
		sentinelHandler(domain.ErrNotFound, http.StatusNotFound, codeNotFound),
		sentinelHandler(domain.ErrUnavailable, http.StatusServiceUnavailable, codeUnavailable),
	}
	return s
}

// Register mounts every route on r.
func (s *Server) Register(r chi.Router) {
	r.Get("/search", s.Search)
	r.Post("/organizations/{organizationID}/cache/invalidate", s.InvalidateOrganization)
	r.Delete("/cache", s.FlushCache)
	r.Get("/health", s.HealthCheck)
	r.Handle("/metrics", promhttp.Handler())
}

// Search handles GET /search.
func (s *Server) Search(w http.ResponseWriter, r *http.Request) {
	params, err := parseSearchParams(r.URL.Query())
	if err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, err.Error())
		return
	}
	if err := s.validate.Struct(params); err != nil {
		writeError(w, http.StatusBadRequest, codeValidationFailed, validationMessage(err))
		return
	}

	req, err := params.toRequest(s.opts)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}

	resp, err := s.search.Search(r.Context(), &req)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, searchResponseFrom(resp))
}

// InvalidateOrganization handles POST /organizations/{organizationID}/cache/invalidate.
func (s *Server) InvalidateOrganization(w http.ResponseWriter, r *http.Request) {
	if err := s.search.InvalidateOrganization(r.Context(), chi.URLParam(r, "organizationID")); err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// FlushCache handles DELETE /cache.
func (s *Server) FlushCache(w http.ResponseWriter, r *http.Request) {
	if err := s.search.Flush(r.Context()); err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// HealthCheck handles GET /health.
func (s *Server) HealthCheck(w http.ResponseWriter, r *http.Request) {
	report := s.health.Check(r.Context())

	checks := make(map[string]string, len(report.Checks))
	for k, v := range report.Checks {
		checks[k] = string(v)
	}

	// A degraded service still answers searches.
	httpStatus := http.StatusOK
	if report.Status == healthuc.Unhealthy {
		httpStatus = http.StatusServiceUnavailable
	}
	writeJSON(w, httpStatus, HealthResponse{Status: string(report.Status), Checks: checks})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, ErrorResponse{Code: code, Message: message})
}

// safeDomainMessage returns a sentinel error message for the client without exposing internals.
func safeDomainMessage(err error) string {
	sentinels := []error{
		domain.ErrEmptyQuery,
		domain.ErrInvalidScope,
		domain.ErrInvalidRequest,
		domain.ErrNotFound,
		domain.ErrUnavailable,
	}
	for _, s := range sentinels {
		if errors.Is(err, s) {
			// Request errors carry the offending value, which the caller already knows.
			if s != domain.ErrUnavailable {
				return err.Error()
			}
			return s.Error()
		}
	}
	return "internal error"
}

// sentinelHandler returns an errorHandler that matches a single sentinel error.
func sentinelHandler(sentinel error, status int, code string) errorHandler {
	return func(w http.ResponseWriter, err error, msg string) bool {
		if !errors.Is(err, sentinel) {
			return false
		}
		writeError(w, status, code, msg)
		return true
	}
}

func (s *Server) handleDomainError(w http.ResponseWriter, r *http.Request, err error) {
	log := loggerFrom(r, s.logger)
	msg := safeDomainMessage(err)
	for _, h := range s.errorHandlers {
		if h(w, err, msg) {
			log.Warn("domain error", zap.Error(err))
			return
		}
	}
	log.Error("internal error", zap.Error(err))
	writeError(w, http.StatusInternalServerError, codeInternalError, "internal error")
}
