package chi

import (
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/kailas-cloud/opsconsole/internal/domain"
	domscope "github.com/kailas-cloud/opsconsole/internal/domain/scope"
	"github.com/kailas-cloud/opsconsole/internal/logger"
)

// GuardPage handles GET /orgs/{orgId}/workspaces/{workspaceId}/*.
func (s *Server) GuardPage(w http.ResponseWriter, r *http.Request) {
	s.resolvePage(w, r)
}

// LegacyRedirect handles GET /workspaces/{workspaceId}/*.
func (s *Server) LegacyRedirect(w http.ResponseWriter, r *http.Request) {
	s.resolvePage(w, r)
}

// Page handles every other GET: static assets, then the initializer for
// authenticated callers, then the app shell.
func (s *Server) Page(w http.ResponseWriter, r *http.Request) {
	if s.shell.IsAsset(r.URL.Path) {
		s.shell.ServeHTTP(w, r)
		return
	}

	if sess, ok := SessionFromContext(r.Context()); ok {
		res, err := s.session.Initialize(r.Context(), sess, r.URL.Path)
		switch {
		case err != nil:
			logger.FromContext(r.Context()).Warn("Session initialization failed", zap.Error(err))
		case res.Redirect != "":
			redirect(w, res.Redirect)
			return
		}
	}
	s.shell.ServeHTTP(w, r)
}

// resolvePage runs the scope resolver on a workspace page. Unauthenticated
// callers get the app shell, which shows the login screen.
func (s *Server) resolvePage(w http.ResponseWriter, r *http.Request) {
	sess, ok := SessionFromContext(r.Context())
	if !ok {
		s.shell.ServeHTTP(w, r)
		return
	}

	ev, err := s.scope.Evaluate(r.Context(), sess, r.URL.RequestURI(), true)
	switch {
	case errors.Is(err, domain.ErrUnauthorized):
		s.shell.ServeHTTP(w, r)
		return
	case err != nil:
		s.handleDomainError(w, r, err)
		return
	}

	res := ev.Resolution
	switch res.Outcome {
	case domscope.OutcomeAllow:
		s.shell.ServeHTTP(w, r)
	case domscope.OutcomeRedirectCanonical, domscope.OutcomeRedirectOnboarding, domscope.OutcomeRedirectDashboard:
		redirect(w, res.Target)
	case domscope.OutcomeDeny:
		if res.Reason == domscope.ReasonListUnavailable {
			w.Header().Set("Retry-After", retryAfterSeconds)
			writeError(w, http.StatusServiceUnavailable, ErrorCodeUnavailable, res.Reason)
			return
		}
		writeError(w, http.StatusForbidden, ErrorCodeForbidden, res.Reason)
	default:
		w.Header().Set("Retry-After", retryAfterSeconds)
		writeError(w, http.StatusServiceUnavailable, ErrorCodeUnavailable, "workspace list loading")
	}
}

// redirect answers 302 with target as is. http.Redirect would clean the
// path and drop empty or dot segments from the preserved suffix.
func redirect(w http.ResponseWriter, target string) {
	w.Header().Set("Location", target)
	w.WriteHeader(http.StatusFound)
}
