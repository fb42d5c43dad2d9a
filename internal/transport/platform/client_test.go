package platform

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"go.uber.org/zap"

	"github.com/kailas-cloud/opsconsole/internal/domain"
	"github.com/kailas-cloud/opsconsole/internal/domain/budget"
	"github.com/kailas-cloud/opsconsole/internal/domain/workspace"
	"github.com/kailas-cloud/opsconsole/internal/metrics"
)

func TestMain(m *testing.M) {
	metrics.RegisterConsoleMetrics()
	os.Exit(m.Run())
}

var testSession = domain.Session{Subject: "user-1", Token: "session-token"}

func newTestClient(t *testing.T, h http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	return New(&Config{BaseURL: srv.URL + "/", Timeout: time.Second, Logger: zap.NewNop()})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func TestListWorkspaces(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/workspaces/my" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer session-token" {
			t.Errorf("unexpected auth header: %s", got)
		}
		writeJSON(w, http.StatusOK, []map[string]any{
			{"id": 1, "organizationId": 7, "name": "core", "displayName": "Core", "myRole": "OWNER", "status": "ACTIVE", "createdAt": "2025-01-02T03:04:05Z"},
			{"id": 2, "organizationId": 9, "name": "labs", "myRole": "MEMBER", "status": "ACTIVE"},
		})
	})

	got, err := c.ListWorkspaces(context.Background(), testSession)
	if err != nil {
		t.Fatalf("ListWorkspaces failed: %v", err)
	}
	want := workspace.List{
		{ID: 1, OrganizationID: 7, Name: "core", DisplayName: "Core", MyRole: workspace.RoleOwner, Status: workspace.StatusActive, CreatedAt: "2025-01-02T03:04:05Z"},
		{ID: 2, OrganizationID: 9, Name: "labs", MyRole: workspace.RoleMember, Status: workspace.StatusActive},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("mismatch (-want +got):\n%s", diff)
	}
}

func TestListWorkspaces_Empty(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, []any{})
	})
	got, err := c.ListWorkspaces(context.Background(), testSession)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got == nil || len(got) != 0 {
		t.Fatalf("expected empty non-nil list, got %#v", got)
	}
}

func TestBudgetUsage(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/budgets/usage" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		q := r.URL.Query()
		if q.Get("scopeType") != "WORKSPACE" || q.Get("scopeId") != "3" || q.Get("month") != "2026-02" {
			t.Errorf("unexpected query: %s", r.URL.RawQuery)
		}
		writeJSON(w, http.StatusOK, map[string]any{
			"scopeType":        "WORKSPACE",
			"scopeId":          3,
			"month":            "2026-02",
			"usedUsd":          12.5,
			"hardLimitUsd":     50,
			"softLimitUsd":     nil,
			"remainingHardUsd": 37.5,
			"requestCount":     40,
			"totalTokens":      12000,
			"lastUpdatedAt":    "2026-02-14T10:00:00Z",
			"models": []map[string]any{
				{"model": "gpt-4o", "usedUsd": 12.5, "requestCount": 40, "totalTokens": 12000},
			},
		})
	})

	got, err := c.BudgetUsage(context.Background(), testSession, budget.ScopeWorkspace, 3, "2026-02")
	if err != nil {
		t.Fatalf("BudgetUsage failed: %v", err)
	}
	hard, remaining := 50.0, 37.5
	want := &budget.Snapshot{
		ScopeType:        budget.ScopeWorkspace,
		ScopeID:          3,
		Month:            "2026-02",
		UsedUSD:          12.5,
		HardLimitUSD:     &hard,
		RemainingHardUSD: &remaining,
		RequestCount:     40,
		TotalTokens:      12000,
		LastUpdatedAt:    "2026-02-14T10:00:00Z",
		Models:           []budget.ModelUsage{{Model: "gpt-4o", UsedUSD: 12.5, RequestCount: 40, TotalTokens: 12000}},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("mismatch (-want +got):\n%s", diff)
	}
}

func TestBudgetUsage_OmitsEmptyMonth(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Has("month") {
			t.Errorf("month should be omitted: %s", r.URL.RawQuery)
		}
		writeJSON(w, http.StatusOK, map[string]any{"scopeType": "PROVIDER", "scopeId": 4})
	})
	if _, err := c.BudgetUsage(context.Background(), testSession, budget.ScopeProvider, 4, ""); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestBudgetEnabled(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/budgets/settings" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		writeJSON(w, http.StatusOK, map[string]any{"enabled": true})
	})
	on, err := c.BudgetEnabled(context.Background(), testSession, budget.ScopeWorkspace, 3)
	if err != nil || !on {
		t.Fatalf("BudgetEnabled = %v, %v", on, err)
	}
}

func TestErrorMapping(t *testing.T) {
	tests := []struct {
		status int
		want   error
	}{
		{http.StatusUnauthorized, domain.ErrUnauthorized},
		{http.StatusForbidden, domain.ErrUnauthorized},
		{http.StatusNotFound, domain.ErrNotFound},
		{http.StatusInternalServerError, domain.ErrUpstream},
		{http.StatusBadGateway, domain.ErrUpstream},
	}
	for _, tc := range tests {
		t.Run(http.StatusText(tc.status), func(t *testing.T) {
			c := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
				writeJSON(w, tc.status, map[string]string{"message": "nope"})
			})
			_, err := c.ListWorkspaces(context.Background(), testSession)
			if !errors.Is(err, tc.want) {
				t.Fatalf("expected %v, got %v", tc.want, err)
			}
		})
	}
}

func TestErrorMapping_KeepsStatus(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	})
	_, err := c.ListWorkspaces(context.Background(), testSession)
	var statusErr *domain.UpstreamStatusError
	if !errors.As(err, &statusErr) {
		t.Fatalf("expected UpstreamStatusError, got %v", err)
	}
	if statusErr.StatusCode != http.StatusServiceUnavailable || statusErr.Endpoint != EndpointWorkspaces {
		t.Errorf("unexpected status error: %+v", statusErr)
	}
}

func TestMalformedBody(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte("{oops"))
	})
	_, err := c.ListWorkspaces(context.Background(), testSession)
	if !errors.Is(err, domain.ErrUpstream) {
		t.Fatalf("expected ErrUpstream, got %v", err)
	}
}

func TestNetworkError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	srv.Close()
	c := New(&Config{BaseURL: srv.URL, Timeout: time.Second})

	before := testutil.ToFloat64(metrics.PlatformRequestsTotal.WithLabelValues(EndpointHealth, "error"))
	if err := c.HealthCheck(context.Background()); !errors.Is(err, domain.ErrUpstream) {
		t.Fatalf("expected ErrUpstream, got %v", err)
	}
	after := testutil.ToFloat64(metrics.PlatformRequestsTotal.WithLabelValues(EndpointHealth, "error"))
	if after != before+1 {
		t.Errorf("error counter moved by %v, want 1", after-before)
	}
}

func TestContextCanceled(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, []any{})
	})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := c.ListWorkspaces(ctx, testSession)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestHealthCheck_CountsStatus(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/healthz" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		if r.Header.Get("Authorization") != "" {
			t.Error("health check must not carry a session token")
		}
		w.WriteHeader(http.StatusNoContent)
	})
	before := testutil.ToFloat64(metrics.PlatformRequestsTotal.WithLabelValues(EndpointHealth, "204"))
	if err := c.HealthCheck(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := testutil.ToFloat64(metrics.PlatformRequestsTotal.WithLabelValues(EndpointHealth, "204")); got != before+1 {
		t.Errorf("204 counter = %v, want %v", got, before+1)
	}
}

func TestParseAPIError_Message(t *testing.T) {
	err := parseAPIError(EndpointBudgetUsage, http.StatusBadRequest, []byte(`{"error":"bad month"}`))
	if err.Error() != "platform budget_usage 400: bad month: platform api error: budget_usage answered 400" {
		t.Errorf("unexpected message: %s", err)
	}
	if !errors.Is(err, domain.ErrUpstream) {
		t.Error("expected ErrUpstream")
	}
}
