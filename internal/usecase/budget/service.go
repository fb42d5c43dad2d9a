package budget

import (
	"context"
	"errors"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/kailas-cloud/opsconsole/internal/domain"
	dombudget "github.com/kailas-cloud/opsconsole/internal/domain/budget"
)

// Service derives budget views.
type Service struct {
	source UsageSource
	now    func() time.Time
}

// New creates a Service. source can be nil when only Evaluate is used.
func New(source UsageSource) *Service {
	return &Service{source: source, now: time.Now}
}

// Usage fetches one scope's snapshot and governance flag and evaluates them.
// An invalid month falls back to the current UTC month. Missing settings
// mean governance is off.
func (s *Service) Usage(
	ctx context.Context,
	sess domain.Session,
	scopeType dombudget.ScopeType,
	scopeID int64,
	month string,
) (dombudget.View, error) {
	if !scopeType.Valid() {
		return dombudget.View{}, fmt.Errorf("scope type %q: %w", scopeType, domain.ErrInvalidRequest)
	}
	if scopeID <= 0 {
		return dombudget.View{}, fmt.Errorf("scope id must be positive: %w", domain.ErrInvalidRequest)
	}
	if s.source == nil {
		return dombudget.View{}, fmt.Errorf("budget usage: %w", domain.ErrUpstream)
	}

	now := s.now()
	month = dombudget.FormatUsageMonthAt(month, now)

	var (
		snap    *dombudget.Snapshot
		enabled bool
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		snap, err = s.source.BudgetUsage(gctx, sess, scopeType, scopeID, month)
		return err
	})
	g.Go(func() error {
		on, err := s.source.BudgetEnabled(gctx, sess, scopeType, scopeID)
		if errors.Is(err, domain.ErrNotFound) {
			return nil
		}
		enabled = on
		return err
	})
	if err := g.Wait(); err != nil {
		return dombudget.View{}, fmt.Errorf("budget usage: %w", err)
	}
	if snap == nil {
		return dombudget.View{}, fmt.Errorf("budget usage: empty snapshot: %w", domain.ErrUpstream)
	}

	return dombudget.Evaluate(enabled, snap, now), nil
}

// Evaluate derives a view from caller-supplied data.
func (s *Service) Evaluate(enabled bool, snap *dombudget.Snapshot) (dombudget.View, error) {
	if snap == nil {
		return dombudget.View{}, fmt.Errorf("snapshot is required: %w", domain.ErrInvalidRequest)
	}
	return dombudget.Evaluate(enabled, snap, s.now()), nil
}
