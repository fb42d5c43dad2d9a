package scope

import (
	"errors"

	"github.com/kailas-cloud/opsconsole/internal/domain/workspace"
)

var errFetch = errors.New("connection refused")

// memberships: workspace 1 and 3 in org 7, workspace 2 in org 9.
func memberships() workspace.List {
	return workspace.List{
		{ID: 1, OrganizationID: 7, Name: "core", MyRole: workspace.RoleOwner, Status: workspace.StatusActive},
		{ID: 2, OrganizationID: 9, Name: "labs", MyRole: workspace.RoleMember, Status: workspace.StatusActive},
		{ID: 3, OrganizationID: 7, Name: "evals", MyRole: workspace.RoleAdmin, Status: workspace.StatusActive},
	}
}

func i64(v int64) *int64 { return &v }
