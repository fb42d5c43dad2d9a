package session

import (
	"context"
	"testing"

	"go.uber.org/zap"

	"github.com/kailas-cloud/opsconsole/internal/domain"
	"github.com/kailas-cloud/opsconsole/internal/domain/workspace"
)

var testSession = domain.Session{Subject: "user-1", Token: "tok"}

func memberships() workspace.List {
	return workspace.List{
		{ID: 1, OrganizationID: 7, Name: "core"},
		{ID: 2, OrganizationID: 9, Name: "labs"},
	}
}

func i64(v int64) *int64 { return &v }

type mockLister struct {
	lists []workspace.List // returned in order; the last one repeats
	err   error
	calls int
}

func (m *mockLister) ListWorkspaces(_ context.Context, _ domain.Session) (workspace.List, error) {
	m.calls++
	if m.err != nil {
		return nil, m.err
	}
	if len(m.lists) == 0 {
		return memberships(), nil
	}
	i := min(m.calls-1, len(m.lists)-1)
	return m.lists[i], nil
}

type mockInvalidator struct {
	subjects []string
}

func (m *mockInvalidator) Invalidate(_ context.Context, subject string) error {
	m.subjects = append(m.subjects, subject)
	return nil
}

// mockStore implements SelectionStore over a map.
type mockStore struct {
	data   map[string]int64
	getErr error
	writes int
}

func newMockStore() *mockStore { return &mockStore{data: make(map[string]int64)} }

func (m *mockStore) Get(_ context.Context, subject string) (*int64, error) {
	if m.getErr != nil {
		return nil, m.getErr
	}
	v, ok := m.data[subject]
	if !ok {
		return nil, nil
	}
	return &v, nil
}

func (m *mockStore) Set(_ context.Context, subject string, orgID int64) error {
	m.writes++
	m.data[subject] = orgID
	return nil
}

func (m *mockStore) Clear(_ context.Context, subject string) error {
	m.writes++
	delete(m.data, subject)
	return nil
}

func newTestService(t *testing.T, l *mockLister, st *mockStore) (*Service, *mockInvalidator) {
	t.Helper()
	inv := &mockInvalidator{}
	return New(l, inv, st, "/onboarding", nil, zap.NewNop()), inv
}
