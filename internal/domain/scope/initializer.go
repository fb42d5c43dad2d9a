package scope

import "strings"

// Action is what the initializer does to the persisted organization.
type Action string

// Initializer actions.
const (
	ActionSkip  Action = "skip"
	ActionKeep  Action = "keep"
	ActionSet   Action = "set"
	ActionClear Action = "clear"
)

// Reconciliation is the initializer's decision. OrgID is meaningful for
// ActionKeep and ActionSet; Onboarding asks the caller to redirect.
type Reconciliation struct {
	Action     Action
	OrgID      int64
	Onboarding bool
}

// NeedsReconcile reports whether the initializer should fetch the list at all.
func NeedsReconcile(authenticated bool, currentPath string) bool {
	return authenticated && !IsOrgScopedPath(currentPath)
}

// Reconcile checks the persisted org against the list. It never
// touches state when the list is not resolved.
func Reconcile(persisted *int64, list ListState, currentPath, onboardingPath string) Reconciliation {
	if list.Phase() != PhaseResolved {
		return Reconciliation{Action: ActionSkip}
	}
	ws := list.Workspaces()
	if len(ws) == 0 {
		return Reconciliation{
			Action:     ActionClear,
			Onboarding: !onPath(currentPath, onboardingPath),
		}
	}
	if persisted != nil && ws.HasOrganization(*persisted) {
		return Reconciliation{Action: ActionKeep, OrgID: *persisted}
	}
	return Reconciliation{Action: ActionSet, OrgID: ws[0].OrganizationID}
}

func onPath(current, target string) bool {
	path, _ := splitQuery(current)
	path = strings.TrimSuffix(path, "/")
	target = strings.TrimSuffix(target, "/")
	return path == target || strings.HasPrefix(path, target+"/")
}
