package platform

import (
	"context"

	"github.com/kailas-cloud/opsconsole/internal/domain"
	"github.com/kailas-cloud/opsconsole/internal/domain/workspace"
)

type workspaceDTO struct {
	ID             int64  `json:"id"`
	OrganizationID int64  `json:"organizationId"`
	Name           string `json:"name"`
	DisplayName    string `json:"displayName"`
	MyRole         string `json:"myRole"`
	Status         string `json:"status"`
	CreatedAt      string `json:"createdAt"`
}

// ListWorkspaces fetches the caller's workspace memberships in platform order.
func (c *Client) ListWorkspaces(ctx context.Context, sess domain.Session) (workspace.List, error) {
	var dtos []workspaceDTO
	if err := c.get(ctx, EndpointWorkspaces, "/api/workspaces/my", nil, sess.Token, &dtos); err != nil {
		return nil, err
	}

	list := make(workspace.List, len(dtos))
	for i, d := range dtos {
		list[i] = workspace.Workspace{
			ID:             d.ID,
			OrganizationID: d.OrganizationID,
			Name:           d.Name,
			DisplayName:    d.DisplayName,
			MyRole:         workspace.Role(d.MyRole),
			Status:         workspace.Status(d.Status),
			CreatedAt:      d.CreatedAt,
		}
	}
	return list, nil
}
