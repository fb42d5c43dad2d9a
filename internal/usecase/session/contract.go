package session

import (
	"context"

	"github.com/kailas-cloud/opsconsole/internal/domain"
	"github.com/kailas-cloud/opsconsole/internal/domain/workspace"
)

// WorkspaceLister returns the caller's workspace list.
type WorkspaceLister interface {
	ListWorkspaces(ctx context.Context, sess domain.Session) (workspace.List, error)
}

// ListInvalidator drops a cached workspace list.
type ListInvalidator interface {
	Invalidate(ctx context.Context, subject string) error
}

// SelectionStore persists the current organization per subject.
type SelectionStore interface {
	Get(ctx context.Context, subject string) (*int64, error)
	Set(ctx context.Context, subject string, orgID int64) error
	Clear(ctx context.Context, subject string) error
}
