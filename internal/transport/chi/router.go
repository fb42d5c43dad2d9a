package chi

import (
	"net/http"

	gochi "github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/kailas-cloud/opsconsole/internal/metrics"
)

// NewRouter wires middleware and routes for s.
func NewRouter(s *Server, auth *Authenticator, logger *zap.Logger) http.Handler {
	r := gochi.NewRouter()
	r.Use(jsonRecoverer(logger))
	r.Use(RequestID)
	r.Use(wideEventMiddleware(logger))
	r.Use(metrics.Middleware())
	r.Use(SessionMiddleware(auth))

	r.Get("/health", s.HealthCheck)
	r.Get("/metrics", s.Metrics)

	r.Route("/api/v1", func(r gochi.Router) {
		r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
			writeError(w, http.StatusNotFound, ErrorCodeNotFound, "route not found")
		})
		r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
			writeError(w, http.StatusMethodNotAllowed, ErrorCodeBadRequest, "method not allowed")
		})

		r.Get("/scope/resolve", s.ResolveScope)
		r.Post("/session/init", s.InitSession)
		r.Get("/session/organization", s.GetOrganization)
		r.Put("/session/organization", s.SelectOrganization)
		r.Delete("/session/organization", s.ClearOrganization)
		r.Get("/budgets/usage", s.BudgetUsage)
		r.Post("/budgets/evaluate", s.EvaluateBudget)
	})

	r.Get("/orgs/{orgId}/workspaces/{workspaceId}", s.GuardPage)
	r.Get("/orgs/{orgId}/workspaces/{workspaceId}/*", s.GuardPage)
	r.Get("/workspaces/{workspaceId}", s.LegacyRedirect)
	r.Get("/workspaces/{workspaceId}/*", s.LegacyRedirect)
	r.Get("/*", s.Page)

	return r
}
