package chi

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"

	"github.com/kailas-cloud/opsconsole/internal/domain"
	dombudget "github.com/kailas-cloud/opsconsole/internal/domain/budget"
	"github.com/kailas-cloud/opsconsole/internal/domain/workspace"
	budgetuc "github.com/kailas-cloud/opsconsole/internal/usecase/budget"
	healthuc "github.com/kailas-cloud/opsconsole/internal/usecase/health"
	scopeuc "github.com/kailas-cloud/opsconsole/internal/usecase/scope"
	sessionuc "github.com/kailas-cloud/opsconsole/internal/usecase/session"
)

const (
	testSecret  = "test-secret-test-secret-test-secret"
	testIssuer  = "platform"
	testSubject = "user-42"
)

// memberships: workspaces 1 and 3 in org 7, workspace 2 in org 9.
var memberships = workspace.List{
	{ID: 1, OrganizationID: 7, Name: "alpha"},
	{ID: 2, OrganizationID: 9, Name: "beta"},
	{ID: 3, OrganizationID: 7, Name: "gamma"},
}

type mockLister struct {
	listFn func(ctx context.Context, sess domain.Session) (workspace.List, error)
}

func (m *mockLister) ListWorkspaces(ctx context.Context, sess domain.Session) (workspace.List, error) {
	if m.listFn != nil {
		return m.listFn(ctx, sess)
	}
	return memberships, nil
}

func (m *mockLister) Invalidate(context.Context, string) error { return nil }

type memSelection struct {
	mu   sync.Mutex
	orgs map[string]int64
}

func newMemSelection() *memSelection { return &memSelection{orgs: map[string]int64{}} }

func (m *memSelection) Get(_ context.Context, subject string) (*int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.orgs[subject]
	if !ok {
		return nil, nil
	}
	return &v, nil
}

func (m *memSelection) Set(_ context.Context, subject string, orgID int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.orgs[subject] = orgID
	return nil
}

func (m *memSelection) Clear(_ context.Context, subject string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.orgs, subject)
	return nil
}

type mockUsage struct {
	usageFn   func() (*dombudget.Snapshot, error)
	enabledFn func() (bool, error)
}

func (m *mockUsage) BudgetUsage(
	context.Context, domain.Session, dombudget.ScopeType, int64, string,
) (*dombudget.Snapshot, error) {
	return m.usageFn()
}

func (m *mockUsage) BudgetEnabled(context.Context, domain.Session, dombudget.ScopeType, int64) (bool, error) {
	if m.enabledFn != nil {
		return m.enabledFn()
	}
	return true, nil
}

type mockPinger struct{ err error }

func (m mockPinger) Ping(context.Context) error { return m.err }

type testEnv struct {
	lister    *mockLister
	selection *memSelection
	usage     *mockUsage
	pinger    *mockPinger
	shell     *AppShell
	handler   http.Handler
}

type envOption func(*testEnv)

func withShell(a *AppShell) envOption { return func(e *testEnv) { e.shell = a } }

func newTestEnv(t *testing.T, opts ...envOption) *testEnv {
	t.Helper()
	e := &testEnv{
		lister:    &mockLister{},
		selection: newMemSelection(),
		usage: &mockUsage{usageFn: func() (*dombudget.Snapshot, error) {
			return &dombudget.Snapshot{ScopeType: dombudget.ScopeWorkspace, ScopeID: 1, Month: "2026-03"}, nil
		}},
		pinger: &mockPinger{},
		shell:  NewAppShell(""),
	}
	for _, o := range opts {
		o(e)
	}

	logger := zap.NewNop()
	scopeSvc := scopeuc.New(e.lister, scopeuc.Routes{Onboarding: "/onboarding", Dashboard: "/dashboard"},
		20*time.Millisecond, nil, logger)
	sessionSvc := sessionuc.New(e.lister, e.lister, e.selection, "/onboarding", nil, logger)
	budgetSvc := budgetuc.New(e.usage)
	healthSvc := healthuc.New(e.pinger, nil)

	srv := NewServer(scopeSvc, sessionSvc, budgetSvc, healthSvc, e.shell, logger)
	e.handler = NewRouter(srv, NewAuthenticator(testSecret, testIssuer), logger)
	return e
}

// do sends a request carrying a valid session token.
func (e *testEnv) do(t *testing.T, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	return e.doAs(t, method, target, body, mintToken(t, testSubject, testSecret, time.Hour))
}

func (e *testEnv) doAs(t *testing.T, method, target, body, token string) *httptest.ResponseRecorder {
	t.Helper()
	var rd io.Reader = http.NoBody
	if body != "" {
		rd = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, rd)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rr := httptest.NewRecorder()
	e.handler.ServeHTTP(rr, req)
	return rr
}

func mintToken(t *testing.T, subject, secret string, ttl time.Duration) string {
	t.Helper()
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   subject,
		Issuer:    testIssuer,
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(ttl)),
	})
	s, err := tok.SignedString([]byte(secret))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return s
}

func decode[T any](t *testing.T, rr *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	if err := json.NewDecoder(rr.Body).Decode(&v); err != nil {
		t.Fatalf("decode response %q: %v", rr.Body.String(), err)
	}
	return v
}

func f64(v float64) *float64 { return &v }
