package scope

import (
	"context"

	"github.com/kailas-cloud/opsconsole/internal/domain"
	"github.com/kailas-cloud/opsconsole/internal/domain/workspace"
)

// WorkspaceLister returns the caller's workspace list.
type WorkspaceLister interface {
	ListWorkspaces(ctx context.Context, sess domain.Session) (workspace.List, error)
}
