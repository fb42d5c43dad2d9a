package scope

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/kailas-cloud/opsconsole/internal/domain"
	domscope "github.com/kailas-cloud/opsconsole/internal/domain/scope"
)

// Rule names which resolver handled a path.
type Rule string

// Rules.
const (
	RuleRoute  Rule = "route"
	RuleLegacy Rule = "legacy"
)

// Routes are the fixed fallback destinations.
type Routes struct {
	Onboarding string
	Dashboard  string
}

// Evaluation is one resolved path. Resolution.Target is filled for every redirect.
type Evaluation struct {
	Rule       Rule
	Resolution domscope.Resolution
}

// Service evaluates console paths for a session.
type Service struct {
	lister       WorkspaceLister
	routes       Routes
	pendingAfter time.Duration
	resolutions  *prometheus.CounterVec
	logger       *zap.Logger
}

// New creates a Service.
// pendingAfter bounds how long a non-waiting evaluation blocks on the list fetch.
// resolutions is a counter vec with labels "rule" and "outcome", passed explicitly; can be nil.
func New(
	lister WorkspaceLister,
	routes Routes,
	pendingAfter time.Duration,
	resolutions *prometheus.CounterVec,
	logger *zap.Logger,
) *Service {
	return &Service{
		lister:       lister,
		routes:       routes,
		pendingAfter: pendingAfter,
		resolutions:  resolutions,
		logger:       logger,
	}
}

// Evaluate resolves rawPath (path plus optional query) for sess.
// With wait=false a fetch slower than pendingAfter yields Loading while the
// fetch keeps running. A path that is neither org-scoped nor legacy is
// ErrInvalidRequest. A rejected session is ErrUnauthorized.
func (s *Service) Evaluate(ctx context.Context, sess domain.Session, rawPath string, wait bool) (Evaluation, error) {
	var (
		rule    Rule
		resolve func(domscope.ListState) domscope.Resolution
	)
	if t, ok := domscope.ParseOrgPath(rawPath); ok {
		rule = RuleRoute
		resolve = func(l domscope.ListState) domscope.Resolution { return domscope.Resolve(t, l) }
	} else if t, ok := domscope.ParseLegacyPath(rawPath); ok {
		rule = RuleLegacy
		resolve = func(l domscope.ListState) domscope.Resolution { return domscope.ResolveLegacy(t, l) }
	} else {
		return Evaluation{}, fmt.Errorf("path %q is not workspace-scoped: %w", rawPath, domain.ErrInvalidRequest)
	}

	// Malformed ids are decided before any fetch.
	res := resolve(domscope.Pending())
	if !res.Terminal() {
		state, err := s.listState(ctx, sess, wait)
		if err != nil {
			return Evaluation{}, err
		}
		res = resolve(state)
		if state.Phase() == domscope.PhaseFailed {
			s.logger.Warn("Workspace list unavailable",
				zap.String("subject", sess.Subject),
				zap.String("rule", string(rule)),
				zap.String("outcome", string(res.Outcome)),
				zap.Error(state.Err()))
		}
	}

	res = s.fillTarget(res)
	if s.resolutions != nil {
		s.resolutions.WithLabelValues(string(rule), string(res.Outcome)).Inc()
	}
	return Evaluation{Rule: rule, Resolution: res}, nil
}

func (s *Service) listState(ctx context.Context, sess domain.Session, wait bool) (domscope.ListState, error) {
	fetchCtx := ctx
	if !wait && s.pendingAfter > 0 {
		var cancel context.CancelFunc
		fetchCtx, cancel = context.WithTimeout(ctx, s.pendingAfter)
		defer cancel()
	}

	list, err := s.lister.ListWorkspaces(fetchCtx, sess)
	switch {
	case err == nil:
		return domscope.Resolved(list), nil
	case ctx.Err() != nil:
		return domscope.ListState{}, fmt.Errorf("evaluate scope: %w", ctx.Err())
	case errors.Is(err, context.DeadlineExceeded) && fetchCtx.Err() != nil:
		return domscope.Pending(), nil
	case errors.Is(err, domain.ErrUnauthorized):
		return domscope.ListState{}, err
	default:
		return domscope.Failed(err), nil
	}
}

func (s *Service) fillTarget(res domscope.Resolution) domscope.Resolution {
	switch res.Outcome {
	case domscope.OutcomeRedirectOnboarding:
		res.Target = s.routes.Onboarding
	case domscope.OutcomeRedirectDashboard:
		res.Target = s.routes.Dashboard
	}
	return res
}
