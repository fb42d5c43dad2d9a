package opsconsole

import (
	"context"
	"net/http"
)

const organizationPath = "/api/v1/session/organization"

// InitSession runs the console's initializer as if the browser had loaded path.
func (c *Client) InitSession(ctx context.Context, path string) (SessionInit, error) {
	var res SessionInit
	err := c.do(ctx, call{
		op:     "init_session",
		method: http.MethodPost,
		path:   "/api/v1/session/init",
		body:   map[string]string{"path": path},
		out:    &res,
	})
	return res, err
}

type organizationBody struct {
	CurrentOrgID *int64 `json:"currentOrgId"`
}

// CurrentOrganization returns the persisted organization, or nil when unset.
func (c *Client) CurrentOrganization(ctx context.Context) (*int64, error) {
	var body organizationBody
	err := c.do(ctx, call{op: "current_organization", method: http.MethodGet, path: organizationPath, out: &body})
	if err != nil {
		return nil, err
	}
	return body.CurrentOrgID, nil
}

// SelectOrganization switches the current organization. The caller must
// belong to a workspace of orgID; otherwise the error matches ErrNotFound.
func (c *Client) SelectOrganization(ctx context.Context, orgID int64) error {
	return c.do(ctx, call{
		op:     "select_organization",
		method: http.MethodPut,
		path:   organizationPath,
		body:   map[string]int64{"orgId": orgID},
	})
}

// ClearOrganization forgets the current organization.
func (c *Client) ClearOrganization(ctx context.Context) error {
	return c.do(ctx, call{op: "clear_organization", method: http.MethodDelete, path: organizationPath})
}
