package scope

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/opsconsole/internal/domain"
	"github.com/kailas-cloud/opsconsole/internal/domain/workspace"
)

var testSession = domain.Session{Subject: "user-1", Token: "tok"}

var testRoutes = Routes{Onboarding: "/onboarding", Dashboard: "/dashboard"}

func memberships() workspace.List {
	return workspace.List{
		{ID: 1, OrganizationID: 7, Name: "core"},
		{ID: 2, OrganizationID: 9, Name: "labs"},
	}
}

// mockLister implements WorkspaceLister.
type mockLister struct {
	listFn func(ctx context.Context, sess domain.Session) (workspace.List, error)
	calls  atomic.Int32
}

func (m *mockLister) ListWorkspaces(ctx context.Context, sess domain.Session) (workspace.List, error) {
	m.calls.Add(1)
	if m.listFn != nil {
		return m.listFn(ctx, sess)
	}
	return memberships(), nil
}

func newTestService(t *testing.T, lister *mockLister) *Service {
	t.Helper()
	return New(lister, testRoutes, 20*time.Millisecond, nil, zap.NewNop())
}
