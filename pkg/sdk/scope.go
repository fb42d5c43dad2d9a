package opsconsole

import (
	"context"
	"net/http"
)

// ResolveScope asks the console how it would treat path. With wait=false the
// console may answer OutcomeLoading while it fetches the workspace list;
// call again shortly after.
func (c *Client) ResolveScope(ctx context.Context, path string, wait bool) (Resolution, error) {
	var res Resolution
	err := c.do(ctx, call{
		op:     "resolve_scope",
		method: http.MethodGet,
		path:   "/api/v1/scope/resolve",
		params: []queryParam{{name: "path", value: path}, {name: "wait", value: wait}},
		out:    &res,
	})
	return res, err
}
