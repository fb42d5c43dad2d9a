package session

import (
	"context"
	"errors"
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/kailas-cloud/opsconsole/internal/domain"
	"github.com/kailas-cloud/opsconsole/internal/domain/scope"
)

// InitResult is the outcome of one initializer run.
// Redirect is empty unless the caller must be sent to onboarding.
type InitResult struct {
	Action       scope.Action
	CurrentOrgID *int64
	Redirect     string
}

// Service owns the persisted current-organization selection. Only the
// initializer and explicit user actions write it.
type Service struct {
	lister          WorkspaceLister
	invalidator     ListInvalidator
	store           SelectionStore
	onboardingPath  string
	reconciliations *prometheus.CounterVec
	logger          *zap.Logger
}

// New creates a Service. invalidator and reconciliations can be nil.
func New(
	lister WorkspaceLister,
	invalidator ListInvalidator,
	store SelectionStore,
	onboardingPath string,
	reconciliations *prometheus.CounterVec,
	logger *zap.Logger,
) *Service {
	return &Service{
		lister:          lister,
		invalidator:     invalidator,
		store:           store,
		onboardingPath:  onboardingPath,
		reconciliations: reconciliations,
		logger:          logger,
	}
}

// Initialize reconciles the persisted organization against the workspace
// list, served from the cache when present. It is idempotent. A failed
// list fetch is logged and leaves state untouched.
func (s *Service) Initialize(ctx context.Context, sess domain.Session, currentPath string) (InitResult, error) {
	if !scope.NeedsReconcile(sess.Subject != "", currentPath) {
		return s.skip(ctx, sess)
	}
	return s.reconcile(ctx, sess, currentPath)
}

// InitializeFresh is Initialize after dropping the cached list, so a
// workspace created since the last fetch is seen.
func (s *Service) InitializeFresh(ctx context.Context, sess domain.Session, currentPath string) (InitResult, error) {
	if !scope.NeedsReconcile(sess.Subject != "", currentPath) {
		return s.skip(ctx, sess)
	}
	s.invalidate(ctx, sess.Subject)
	return s.reconcile(ctx, sess, currentPath)
}

func (s *Service) reconcile(ctx context.Context, sess domain.Session, currentPath string) (InitResult, error) {
	list, err := s.lister.ListWorkspaces(ctx, sess)
	if err != nil {
		if ctx.Err() != nil {
			return InitResult{}, fmt.Errorf("initialize session: %w", ctx.Err())
		}
		s.logger.Warn("Skipping organization reconcile: workspace list unavailable",
			zap.String("subject", sess.Subject), zap.Error(err))
		return s.skip(ctx, sess)
	}

	persisted, err := s.store.Get(ctx, sess.Subject)
	if err != nil {
		return InitResult{}, fmt.Errorf("initialize session: %w", err)
	}

	rec := scope.Reconcile(persisted, scope.Resolved(list), currentPath, s.onboardingPath)
	s.count(rec.Action)

	res := InitResult{Action: rec.Action}
	switch rec.Action {
	case scope.ActionSet:
		if err := s.store.Set(ctx, sess.Subject, rec.OrgID); err != nil {
			return InitResult{}, fmt.Errorf("initialize session: %w", err)
		}
		orgID := rec.OrgID
		res.CurrentOrgID = &orgID
		s.logger.Info("Reset current organization",
			zap.String("subject", sess.Subject),
			zap.Int64("org_id", orgID),
			zap.Int64s("member_orgs", list.Organizations()))
	case scope.ActionClear:
		if err := s.store.Clear(ctx, sess.Subject); err != nil {
			return InitResult{}, fmt.Errorf("initialize session: %w", err)
		}
	case scope.ActionKeep:
		res.CurrentOrgID = persisted
	}
	if rec.Onboarding {
		res.Redirect = s.onboardingPath
	}
	return res, nil
}

func (s *Service) skip(ctx context.Context, sess domain.Session) (InitResult, error) {
	s.count(scope.ActionSkip)
	res := InitResult{Action: scope.ActionSkip}
	if sess.Subject == "" {
		return res, nil
	}
	current, err := s.store.Get(ctx, sess.Subject)
	if err != nil {
		return InitResult{}, fmt.Errorf("read current organization: %w", err)
	}
	res.CurrentOrgID = current
	return res, nil
}

// SelectOrganization records an explicit choice. The org must own at
// least one of the caller's workspaces; a miss refetches once so a
// just-created organization is found.
func (s *Service) SelectOrganization(ctx context.Context, sess domain.Session, orgID int64) error {
	if orgID <= 0 {
		return fmt.Errorf("organization id must be positive: %w", domain.ErrInvalidRequest)
	}

	ok, err := s.hasOrganization(ctx, sess, orgID)
	if err == nil && !ok && s.invalidator != nil {
		s.invalidate(ctx, sess.Subject)
		ok, err = s.hasOrganization(ctx, sess, orgID)
	}
	if err != nil {
		return fmt.Errorf("select organization: %w", err)
	}
	if !ok {
		return fmt.Errorf("organization %d: %w", orgID, domain.ErrNotFound)
	}

	if err := s.store.Set(ctx, sess.Subject, orgID); err != nil {
		return fmt.Errorf("select organization: %w", err)
	}
	s.count("select")
	return nil
}

// ClearOrganization drops the persisted selection.
func (s *Service) ClearOrganization(ctx context.Context, sess domain.Session) error {
	if err := s.store.Clear(ctx, sess.Subject); err != nil {
		return fmt.Errorf("clear organization: %w", err)
	}
	return nil
}

// CurrentOrganization returns the persisted selection, nil when unset.
func (s *Service) CurrentOrganization(ctx context.Context, sess domain.Session) (*int64, error) {
	id, err := s.store.Get(ctx, sess.Subject)
	if err != nil {
		return nil, fmt.Errorf("read current organization: %w", err)
	}
	return id, nil
}

func (s *Service) hasOrganization(ctx context.Context, sess domain.Session, orgID int64) (bool, error) {
	list, err := s.lister.ListWorkspaces(ctx, sess)
	if err != nil {
		return false, err
	}
	return list.HasOrganization(orgID), nil
}

func (s *Service) invalidate(ctx context.Context, subject string) {
	if s.invalidator == nil {
		return
	}
	if err := s.invalidator.Invalidate(ctx, subject); err != nil && !errors.Is(err, context.Canceled) {
		s.logger.Warn("Failed to invalidate workspace cache", zap.String("subject", subject), zap.Error(err))
	}
}

func (s *Service) count(action scope.Action) {
	if s.reconciliations != nil {
		s.reconciliations.WithLabelValues(string(action)).Inc()
	}
}
