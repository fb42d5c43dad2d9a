package chi

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"testing"
	"testing/fstest"

	"github.com/kailas-cloud/opsconsole/internal/domain"
	"github.com/kailas-cloud/opsconsole/internal/domain/workspace"
)

func TestGuardPage(t *testing.T) {
	tests := []struct {
		name         string
		path         string
		listErr      error
		wantStatus   int
		wantLocation string
	}{
		{"allow", "/orgs/7/workspaces/3/usage", nil, http.StatusOK, ""},
		{"canonical redirect keeps suffix and query", "/orgs/9/workspaces/1/keys?sort=desc",
			nil, http.StatusFound, "/orgs/7/workspaces/1/keys?sort=desc"},
		{"canonical redirect keeps empty segment", "/orgs/9/workspaces/1/prompts//9?tab=x",
			nil, http.StatusFound, "/orgs/7/workspaces/1/prompts//9?tab=x"},
		{"no access", "/orgs/7/workspaces/99", nil, http.StatusForbidden, ""},
		{"invalid id", "/orgs/7/workspaces/0", nil, http.StatusForbidden, ""},
		{"list unavailable", "/orgs/7/workspaces/1", errors.New("platform down"), http.StatusServiceUnavailable, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := newTestEnv(t)
			if tt.listErr != nil {
				e.lister.listFn = func(context.Context, domain.Session) (workspace.List, error) { return nil, tt.listErr }
			}
			rr := e.do(t, http.MethodGet, tt.path, "")
			if rr.Code != tt.wantStatus {
				t.Fatalf("status: got %d, want %d (%s)", rr.Code, tt.wantStatus, rr.Body.String())
			}
			if got := rr.Header().Get("Location"); got != tt.wantLocation {
				t.Errorf("Location: got %q, want %q", got, tt.wantLocation)
			}
		})
	}
}

func TestGuardPage_NoWorkspacesGoesToOnboarding(t *testing.T) {
	e := newTestEnv(t)
	e.lister.listFn = func(context.Context, domain.Session) (workspace.List, error) { return workspace.List{}, nil }

	rr := e.do(t, http.MethodGet, "/orgs/7/workspaces/1", "")
	if rr.Code != http.StatusFound || rr.Header().Get("Location") != "/onboarding" {
		t.Errorf("got %d %q, want 302 /onboarding", rr.Code, rr.Header().Get("Location"))
	}
}

func TestGuardPage_WithoutSessionServesShell(t *testing.T) {
	e := newTestEnv(t)
	e.lister.listFn = func(context.Context, domain.Session) (workspace.List, error) {
		t.Error("workspace list must not be fetched without a session")
		return nil, nil
	}
	rr := e.doAs(t, http.MethodGet, "/orgs/7/workspaces/1", "", "")
	if rr.Code != http.StatusOK {
		t.Errorf("status: got %d, want 200", rr.Code)
	}
}

func TestLegacyRedirect(t *testing.T) {
	tests := []struct {
		name         string
		path         string
		wantLocation string
	}{
		{"member", "/workspaces/2/usage?range=7d", "/orgs/9/workspaces/2/usage?range=7d"},
		{"bare", "/workspaces/1", "/orgs/7/workspaces/1"},
		{"unknown workspace", "/workspaces/404", "/dashboard"},
		{"malformed id", "/workspaces/one", "/dashboard"},
		{"empty segment kept", "/workspaces/1/prompts//9?tab=x", "/orgs/7/workspaces/1/prompts//9?tab=x"},
		{"dot segment kept", "/workspaces/1/a/./b?tab=x", "/orgs/7/workspaces/1/a/./b?tab=x"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := newTestEnv(t)
			rr := e.do(t, http.MethodGet, tt.path, "")
			if rr.Code != http.StatusFound {
				t.Fatalf("status: got %d, want 302", rr.Code)
			}
			if got := rr.Header().Get("Location"); got != tt.wantLocation {
				t.Errorf("Location: got %q, want %q", got, tt.wantLocation)
			}
		})
	}
}

func TestPage_InitializerRuns(t *testing.T) {
	e := newTestEnv(t)
	rr := e.do(t, http.MethodGet, "/dashboard", "")
	if rr.Code != http.StatusOK {
		t.Fatalf("status: got %d, want 200", rr.Code)
	}
	got, _ := e.selection.Get(context.Background(), testSubject)
	if got == nil || *got != 7 {
		t.Errorf("persisted org: got %v, want 7", got)
	}
}

func TestPage_OnboardingRedirect(t *testing.T) {
	e := newTestEnv(t)
	e.lister.listFn = func(context.Context, domain.Session) (workspace.List, error) { return workspace.List{}, nil }

	rr := e.do(t, http.MethodGet, "/dashboard", "")
	if rr.Code != http.StatusFound || rr.Header().Get("Location") != "/onboarding" {
		t.Fatalf("got %d %q, want 302 /onboarding", rr.Code, rr.Header().Get("Location"))
	}

	rr = e.do(t, http.MethodGet, "/onboarding", "")
	if rr.Code != http.StatusOK {
		t.Errorf("on onboarding page: got %d, want 200", rr.Code)
	}
}

func TestPage_InitializerFailureStillServesShell(t *testing.T) {
	e := newTestEnv(t)
	e.lister.listFn = func(context.Context, domain.Session) (workspace.List, error) {
		return nil, domain.ErrUpstream
	}
	if rr := e.do(t, http.MethodGet, "/settings", ""); rr.Code != http.StatusOK {
		t.Errorf("status: got %d, want 200", rr.Code)
	}
}

func TestAppShell(t *testing.T) {
	fsys := fstest.MapFS{
		"index.html":    {Data: []byte("<html>console</html>")},
		"assets/app.js": {Data: []byte("console.log(1)")},
	}
	e := newTestEnv(t, withShell(NewAppShellFS(fsys)))
	e.lister.listFn = func(context.Context, domain.Session) (workspace.List, error) {
		t.Error("assets must not trigger the initializer")
		return memberships, nil
	}

	rr := e.doAs(t, http.MethodGet, "/assets/app.js", "", "")
	if rr.Code != http.StatusOK || !strings.Contains(rr.Body.String(), "console.log") {
		t.Errorf("asset: got %d %q", rr.Code, rr.Body.String())
	}

	rr = e.doAs(t, http.MethodGet, "/some/client/route", "", "")
	if rr.Code != http.StatusOK || !strings.Contains(rr.Body.String(), "<html>") {
		t.Errorf("fallback: got %d %q", rr.Code, rr.Body.String())
	}
}

func TestAppShell_IsAsset(t *testing.T) {
	a := NewAppShellFS(fstest.MapFS{
		"index.html":    {Data: []byte("x")},
		"assets/app.js": {Data: []byte("x")},
	})
	tests := map[string]bool{
		"/assets/app.js":    true,
		"/assets":           false,
		"/index.html":       false,
		"/":                 false,
		"/../assets/app.js": true,
		"/missing.js":       false,
	}
	for path, want := range tests {
		if got := a.IsAsset(path); got != want {
			t.Errorf("IsAsset(%q) = %v, want %v", path, got, want)
		}
	}
	if NewAppShell("").IsAsset("/assets/app.js") {
		t.Error("shell without a directory has no assets")
	}
}
