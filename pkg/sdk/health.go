package opsconsole

import (
	"context"
	"net/http"
)

// Health checks the health of all console components. An unhealthy console
// answers 503 with a report, which is returned without error.
func (c *Client) Health(ctx context.Context) (HealthStatus, error) {
	var h HealthStatus
	err := c.do(ctx, call{
		op:     "health",
		method: http.MethodGet,
		path:   "/health",
		out:    &h,
		accept: []int{http.StatusServiceUnavailable},
	})
	return h, err
}
