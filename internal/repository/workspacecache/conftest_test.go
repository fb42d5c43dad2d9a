package workspacecache

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/opsconsole/internal/db"
	"github.com/kailas-cloud/opsconsole/internal/domain"
	"github.com/kailas-cloud/opsconsole/internal/domain/workspace"
)

var testSession = domain.Session{Subject: "user-1", Token: "tok"}

func testList() workspace.List {
	return workspace.List{
		{ID: 1, OrganizationID: 7, Name: "core", MyRole: workspace.RoleOwner, Status: workspace.StatusActive, CreatedAt: "2025-01-02T03:04:05Z"},
		{ID: 2, OrganizationID: 9, Name: "labs", DisplayName: "Labs", MyRole: workspace.RoleMember, Status: workspace.StatusActive},
	}
}

// mockLister counts calls and optionally blocks until release is closed.
type mockLister struct {
	list    workspace.List
	err     error
	calls   atomic.Int32
	release chan struct{}
}

func (m *mockLister) ListWorkspaces(_ context.Context, _ domain.Session) (workspace.List, error) {
	m.calls.Add(1)
	if m.release != nil {
		<-m.release
	}
	return m.list, m.err
}

// memKV is an in-memory KV store recording TTLs.
type memKV struct {
	mu   sync.Mutex
	data map[string][]byte
	ttls map[string]time.Duration
}

func newMemKV() *memKV {
	return &memKV{data: make(map[string][]byte), ttls: make(map[string]time.Duration)}
}

func (m *memKV) Get(_ context.Context, key string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.data[key]
	if !ok {
		return nil, db.ErrKeyNotFound
	}
	return v, nil
}

func (m *memKV) SetWithTTL(_ context.Context, key string, value []byte, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = value
	m.ttls[key] = ttl
	return nil
}

func (m *memKV) Del(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data, key)
	return nil
}

func (m *memKV) has(key string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.data[key]
	return ok
}

func newTestLister(t *testing.T, inner *mockLister) (*CachedLister, *memKV) {
	t.Helper()
	kv := newMemKV()
	return New(inner, kv, "opsconsole:", time.Minute, nil, zap.NewNop()), kv
}
