// Package scope reconciles the URL's org/workspace parameters, the persisted
// current-organization selection, and the caller's workspace list into one
// navigation decision.
package scope

import "github.com/kailas-cloud/opsconsole/internal/domain/workspace"

// Phase is the fetch phase of a workspace list.
type Phase int

// Phases of a workspace list fetch.
const (
	PhasePending Phase = iota
	PhaseResolved
	PhaseFailed
)

// ListState is an atomic snapshot of the workspace list as seen by one evaluation.
type ListState struct {
	phase      Phase
	workspaces workspace.List
	err        error
}

// Pending is the state of a fetch still in flight.
func Pending() ListState { return ListState{phase: PhasePending} }

// Resolved wraps a loaded list. A nil list is a loaded, empty list.
func Resolved(l workspace.List) ListState {
	return ListState{phase: PhaseResolved, workspaces: l}
}

// Failed records a fetch that ended with err.
func Failed(err error) ListState { return ListState{phase: PhaseFailed, err: err} }

// Phase returns the fetch phase.
func (s ListState) Phase() Phase { return s.phase }

// Workspaces returns the loaded list; nil unless resolved.
func (s ListState) Workspaces() workspace.List { return s.workspaces }

// Err returns the fetch error of a failed state.
func (s ListState) Err() error { return s.err }

// Outcome is the kind of a Resolution.
type Outcome string

// Resolution outcomes. Loading is transient; the rest are terminal for one evaluation.
const (
	OutcomeLoading            Outcome = "loading"
	OutcomeAllow              Outcome = "allow"
	OutcomeRedirectCanonical  Outcome = "redirect_canonical"
	OutcomeRedirectOnboarding Outcome = "redirect_onboarding"
	OutcomeRedirectDashboard  Outcome = "redirect_dashboard"
	OutcomeDeny               Outcome = "deny"
)

// Stable deny reasons.
const (
	ReasonInvalidWorkspaceID = "invalid workspace id"
	ReasonNoAccess           = "no access to workspace"
	ReasonListUnavailable    = "workspace list unavailable"
)

// Resolution is the result of one route evaluation.
// Target is set for canonical redirects, Reason for denials.
type Resolution struct {
	Outcome Outcome
	Target  string
	Reason  string
}

func loading() Resolution { return Resolution{Outcome: OutcomeLoading} }
func allow() Resolution { return Resolution{Outcome: OutcomeAllow} }
func redirectOnboarding() Resolution { return Resolution{Outcome: OutcomeRedirectOnboarding} }
func redirectDashboard() Resolution { return Resolution{Outcome: OutcomeRedirectDashboard} }
func deny(reason string) Resolution { return Resolution{Outcome: OutcomeDeny, Reason: reason} }
func canonical(target string) Resolution {
	return Resolution{Outcome: OutcomeRedirectCanonical, Target: target}
}

// Terminal reports whether the resolution ends the evaluation.
func (r Resolution) Terminal() bool { return r.Outcome != OutcomeLoading }
