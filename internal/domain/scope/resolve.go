package scope

// Resolve runs the route guard rules in order; the first match wins.
func Resolve(t Target, list ListState) Resolution {
	wsID, ok := ParseID(t.WorkspaceParam)
	if !ok {
		return deny(ReasonInvalidWorkspaceID)
	}
	switch list.Phase() {
	case PhasePending:
		return loading()
	case PhaseFailed:
		return deny(ReasonListUnavailable)
	}
	ws := list.Workspaces()
	if len(ws) == 0 {
		return redirectOnboarding()
	}
	w, found := ws.FindByID(wsID)
	if !found {
		return deny(ReasonNoAccess)
	}
	if orgID, ok := ParseID(t.OrgParam); !ok || orgID != w.OrganizationID {
		return canonical(CanonicalPath(w.OrganizationID, w.ID, t.Suffix, t.Query))
	}
	return allow()
}

// ResolveLegacy maps a pre-org URL onto its canonical form. Anything that
// cannot be mapped goes to the dashboard; legacy paths are never denied.
func ResolveLegacy(t Target, list ListState) Resolution {
	wsID, ok := ParseID(t.WorkspaceParam)
	if !ok {
		return redirectDashboard()
	}
	switch list.Phase() {
	case PhasePending:
		return loading()
	case PhaseFailed:
		return redirectDashboard()
	}
	w, found := list.Workspaces().FindByID(wsID)
	if !found {
		return redirectDashboard()
	}
	return canonical(CanonicalPath(w.OrganizationID, w.ID, t.Suffix, t.Query))
}
