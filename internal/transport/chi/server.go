package chi

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/oapi-codegen/runtime"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/kailas-cloud/opsconsole/internal/domain"
	dombudget "github.com/kailas-cloud/opsconsole/internal/domain/budget"
	domscope "github.com/kailas-cloud/opsconsole/internal/domain/scope"
	"github.com/kailas-cloud/opsconsole/internal/logger"
	budgetuc "github.com/kailas-cloud/opsconsole/internal/usecase/budget"
	healthuc "github.com/kailas-cloud/opsconsole/internal/usecase/health"
	scopeuc "github.com/kailas-cloud/opsconsole/internal/usecase/scope"
	sessionuc "github.com/kailas-cloud/opsconsole/internal/usecase/session"
	"github.com/kailas-cloud/opsconsole/internal/version"
)

// retryAfterSeconds is advertised while the workspace list is still loading.
const retryAfterSeconds = "1"

// errorHandler tries to handle a domain error. Returns true if handled.
type errorHandler func(w http.ResponseWriter, err error, msg string) bool

// Server serves the console API and page routes.
type Server struct {
	scope         *scopeuc.Service
	session       *sessionuc.Service
	budgets       *budgetuc.Service
	health        *healthuc.Service
	shell         *AppShell
	metrics       http.Handler
	logger        *zap.Logger
	errorHandlers []errorHandler
}

// NewServer creates an HTTP server.
func NewServer(
	scope *scopeuc.Service,
	session *sessionuc.Service,
	budgets *budgetuc.Service,
	health *healthuc.Service,
	shell *AppShell,
	logger *zap.Logger,
) *Server {
	s := &Server{
		scope:   scope,
		session: session,
		budgets: budgets,
		health:  health,
		shell:   shell,
		metrics: promhttp.Handler(),
		logger:  logger,
	}
	s.errorHandlers = []errorHandler{
		sentinelHandler(domain.ErrInvalidRequest, http.StatusBadRequest, ErrorCodeBadRequest),
		sentinelHandler(domain.ErrUnauthorized, http.StatusUnauthorized, ErrorCodeUnauthorized),
		sentinelHandler(domain.ErrNotFound, http.StatusNotFound, ErrorCodeNotFound),
		sentinelHandler(domain.ErrUpstream, http.StatusBadGateway, ErrorCodeUpstream),
	}
	return s
}

// HealthCheck handles GET /health.
func (s *Server) HealthCheck(w http.ResponseWriter, r *http.Request) {
	report := s.health.Check(r.Context())

	checks := make(map[string]string, len(report.Checks))
	for k, v := range report.Checks {
		checks[k] = string(v)
	}

	httpStatus := http.StatusOK
	if report.Status == healthuc.Unhealthy {
		httpStatus = http.StatusServiceUnavailable
	}

	writeJSON(w, httpStatus, HealthResponse{
		Status:  string(report.Status),
		Checks:  checks,
		Version: version.Version,
	})
}

// Metrics handles GET /metrics.
func (s *Server) Metrics(w http.ResponseWriter, r *http.Request) {
	s.metrics.ServeHTTP(w, r)
}

// ResolveScope handles GET /api/v1/scope/resolve.
func (s *Server) ResolveScope(w http.ResponseWriter, r *http.Request) {
	sess, ok := requireSession(w, r)
	if !ok {
		return
	}

	var (
		path string
		wait *bool
	)
	if err := runtime.BindQueryParameter("form", true, true, "path", r.URL.Query(), &path); err != nil {
		writeError(w, http.StatusBadRequest, ErrorCodeBadRequest, err.Error())
		return
	}
	if err := runtime.BindQueryParameter("form", true, false, "wait", r.URL.Query(), &wait); err != nil {
		writeError(w, http.StatusBadRequest, ErrorCodeBadRequest, err.Error())
		return
	}

	ev, err := s.scope.Evaluate(r.Context(), sess, path, wait != nil && *wait)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}

	status := http.StatusOK
	if ev.Resolution.Outcome == domscope.OutcomeLoading {
		w.Header().Set("Retry-After", retryAfterSeconds)
		status = http.StatusAccepted
	}
	writeJSON(w, status, resolutionToResponse(ev))
}

// InitSession handles POST /api/v1/session/init.
func (s *Server) InitSession(w http.ResponseWriter, r *http.Request) {
	sess, ok := requireSession(w, r)
	if !ok {
		return
	}

	var req SessionInitRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if req.Path == "" {
		writeError(w, http.StatusBadRequest, ErrorCodeBadRequest, "path is required")
		return
	}

	res, err := s.session.InitializeFresh(r.Context(), sess, req.Path)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, SessionInitResponse{
		Action:       string(res.Action),
		CurrentOrgID: res.CurrentOrgID,
		Redirect:     res.Redirect,
	})
}

// GetOrganization handles GET /api/v1/session/organization.
func (s *Server) GetOrganization(w http.ResponseWriter, r *http.Request) {
	sess, ok := requireSession(w, r)
	if !ok {
		return
	}

	orgID, err := s.session.CurrentOrganization(r.Context(), sess)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, OrganizationResponse{CurrentOrgID: orgID})
}

// SelectOrganization handles PUT /api/v1/session/organization.
func (s *Server) SelectOrganization(w http.ResponseWriter, r *http.Request) {
	sess, ok := requireSession(w, r)
	if !ok {
		return
	}

	var req SelectOrganizationRequest
	if !decodeBody(w, r, &req) {
		return
	}

	if err := s.session.SelectOrganization(r.Context(), sess, req.OrgID); err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	orgID := req.OrgID
	writeJSON(w, http.StatusOK, OrganizationResponse{CurrentOrgID: &orgID})
}

// ClearOrganization handles DELETE /api/v1/session/organization.
func (s *Server) ClearOrganization(w http.ResponseWriter, r *http.Request) {
	sess, ok := requireSession(w, r)
	if !ok {
		return
	}

	if err := s.session.ClearOrganization(r.Context(), sess); err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// BudgetUsage handles GET /api/v1/budgets/usage.
func (s *Server) BudgetUsage(w http.ResponseWriter, r *http.Request) {
	sess, ok := requireSession(w, r)
	if !ok {
		return
	}

	var (
		scopeType string
		scopeID   int64
		month     *string
	)
	q := r.URL.Query()
	for _, bind := range []func() error{
		func() error { return runtime.BindQueryParameter("form", true, true, "scopeType", q, &scopeType) },
		func() error { return runtime.BindQueryParameter("form", true, true, "scopeId", q, &scopeID) },
		func() error { return runtime.BindQueryParameter("form", true, false, "month", q, &month) },
	} {
		if err := bind(); err != nil {
			writeError(w, http.StatusBadRequest, ErrorCodeBadRequest, err.Error())
			return
		}
	}

	m := ""
	if month != nil {
		m = *month
	}
	view, err := s.budgets.Usage(r.Context(), sess, dombudget.ScopeType(scopeType), scopeID, m)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, viewToResponse(view))
}

// EvaluateBudget handles POST /api/v1/budgets/evaluate.
func (s *Server) EvaluateBudget(w http.ResponseWriter, r *http.Request) {
	if _, ok := requireSession(w, r); !ok {
		return
	}

	var req EvaluateBudgetRequest
	if !decodeBody(w, r, &req) {
		return
	}

	view, err := s.budgets.Evaluate(req.Enabled, snapshotFromPayload(req.Snapshot))
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, viewToResponse(view))
}

func requireSession(w http.ResponseWriter, r *http.Request) (domain.Session, bool) {
	sess, ok := SessionFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, ErrorCodeUnauthorized, "missing session")
	}
	return sess, ok
}

func decodeBody(w http.ResponseWriter, r *http.Request, dest any) bool {
	if err := json.NewDecoder(r.Body).Decode(dest); err != nil {
		writeError(w, http.StatusBadRequest, ErrorCodeBadRequest, "Invalid request body: "+err.Error())
		return false
	}
	return true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code ErrorCode, message string) {
	writeJSON(w, status, ErrorResponse{
		Code:    code,
		Message: message,
	})
}

// safeDomainMessage returns a sentinel error message for the client without exposing internals.
func safeDomainMessage(err error) string {
	sentinels := []error{
		domain.ErrInvalidRequest,
		domain.ErrUnauthorized,
		domain.ErrNotFound,
		domain.ErrUpstream,
	}
	for _, s := range sentinels {
		if errors.Is(err, s) {
			return s.Error()
		}
	}
	return "internal error"
}

// sentinelHandler returns an errorHandler that matches a single sentinel error.
func sentinelHandler(sentinel error, status int, code ErrorCode) errorHandler {
	return func(w http.ResponseWriter, err error, msg string) bool {
		if !errors.Is(err, sentinel) {
			return false
		}
		writeError(w, status, code, msg)
		return true
	}
}

func (s *Server) handleDomainError(w http.ResponseWriter, r *http.Request, err error) {
	log := logger.FromContext(r.Context())
	msg := safeDomainMessage(err)
	for _, h := range s.errorHandlers {
		if h(w, err, msg) {
			log.Warn("domain error", zap.Error(err))
			return
		}
	}
	log.Error("internal error", zap.Error(err))
	writeError(w, http.StatusInternalServerError, ErrorCodeInternal, "internal error")
}

func resolutionToResponse(ev scopeuc.Evaluation) ResolutionResponse {
	return ResolutionResponse{
		Rule:    string(ev.Rule),
		Outcome: string(ev.Resolution.Outcome),
		Target:  ev.Resolution.Target,
		Reason:  ev.Resolution.Reason,
	}
}

func snapshotFromPayload(p *SnapshotPayload) *dombudget.Snapshot {
	if p == nil {
		return nil
	}
	s := &dombudget.Snapshot{
		ScopeType:        dombudget.ScopeType(p.ScopeType),
		ScopeID:          p.ScopeID,
		Month:            p.Month,
		UsedUSD:          p.UsedUSD,
		HardLimitUSD:     p.HardLimitUSD,
		SoftLimitUSD:     p.SoftLimitUSD,
		RemainingHardUSD: p.RemainingHardUSD,
		RemainingSoftUSD: p.RemainingSoftUSD,
		RequestCount:     p.RequestCount,
		TotalTokens:      p.TotalTokens,
		LastUpdatedAt:    p.LastUpdatedAt,
	}
	for _, m := range p.Models {
		s.Models = append(s.Models, dombudget.ModelUsage(m))
	}
	return s
}

func viewToResponse(v dombudget.View) BudgetViewResponse {
	models := make([]ModelViewResponse, len(v.Models))
	for i, m := range v.Models {
		models[i] = ModelViewResponse{
			Model:        m.Model,
			UsedUSD:      m.UsedUSD,
			UsedDisplay:  m.UsedDisplay,
			RequestCount: m.RequestCount,
			TotalTokens:  m.TotalTokens,
		}
	}
	return BudgetViewResponse{
		ScopeType:            string(v.ScopeType),
		ScopeID:              v.ScopeID,
		Month:                v.Month,
		Enabled:              v.Enabled,
		Status:               string(v.Status),
		HardExceeded:         v.HardExceeded,
		SoftExceeded:         v.SoftExceeded,
		UsedUSD:              v.UsedUSD,
		PrimaryLimitUSD:      v.PrimaryLimitUSD,
		PrimaryLimitKind:     string(v.PrimaryLimitKind),
		UsagePercent:         v.UsagePercent,
		UsedDisplay:          v.UsedDisplay,
		PrimaryLimitDisplay:  v.PrimaryLimitDisplay,
		HardLimitDisplay:     v.HardLimitDisplay,
		SoftLimitDisplay:     v.SoftLimitDisplay,
		RemainingHardDisplay: v.RemainingHardDisplay,
		RemainingSoftDisplay: v.RemainingSoftDisplay,
		RequestCount:         v.RequestCount,
		TotalTokens:          v.TotalTokens,
		LastUpdatedAt:        v.LastUpdatedAt,
		Models:               models,
	}
}
