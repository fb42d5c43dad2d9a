// Package workspace models the caller's workspace memberships. The list a
// user sees is the whole authorisation boundary: no other permission check exists.
package workspace

// Role is the caller's role inside a workspace.
type Role string

// Known roles. Unknown values from the platform pass through unchanged.
const (
	RoleMember Role = "MEMBER"
	RoleAdmin  Role = "ADMIN"
	RoleOwner  Role = "OWNER"
)

// Status is the lifecycle state of a workspace.
type Status string

// StatusActive is the normal workspace state.
const StatusActive Status = "ACTIVE"

// Workspace is one membership entry.
type Workspace struct {
	ID             int64
	OrganizationID int64
	Name           string
	DisplayName    string
	MyRole         Role
	Status         Status
	CreatedAt      string
}

// List is an immutable snapshot of a user's workspaces, in platform order.
type List []Workspace

// FindByID returns the workspace with the given id.
func (l List) FindByID(id int64) (Workspace, bool) {
	for _, w := range l {
		if w.ID == id {
			return w, true
		}
	}
	return Workspace{}, false
}

// HasOrganization reports whether any workspace belongs to orgID.
func (l List) HasOrganization(orgID int64) bool {
	for _, w := range l {
		if w.OrganizationID == orgID {
			return true
		}
	}
	return false
}

// Organizations returns the distinct organization ids in first-seen order.
func (l List) Organizations() []int64 {
	seen := make(map[int64]struct{}, len(l))
	out := make([]int64, 0, len(l))
	for _, w := range l {
		if _, ok := seen[w.OrganizationID]; ok {
			continue
		}
		seen[w.OrganizationID] = struct{}{}
		out = append(out, w.OrganizationID)
	}
	return out
}
