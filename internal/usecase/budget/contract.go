package budget

import (
	"context"

	"github.com/kailas-cloud/opsconsole/internal/domain"
	dombudget "github.com/kailas-cloud/opsconsole/internal/domain/budget"
)

// UsageSource provides budget usage snapshots and governance settings.
type UsageSource interface {
	BudgetUsage(
		ctx context.Context,
		sess domain.Session,
		scopeType dombudget.ScopeType,
		scopeID int64,
		month string,
	) (*dombudget.Snapshot, error)
	BudgetEnabled(ctx context.Context, sess domain.Session, scopeType dombudget.ScopeType, scopeID int64) (bool, error)
}
