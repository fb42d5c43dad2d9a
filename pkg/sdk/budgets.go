package opsconsole

import (
	"context"
	"net/http"
)

// BudgetUsage returns the budget view of one scope. An empty month means the
// current one.
func (c *Client) BudgetUsage(ctx context.Context, scopeType ScopeType, scopeID int64, month string) (BudgetView, error) {
	params := []queryParam{
		{name: "scopeType", value: string(scopeType)},
		{name: "scopeId", value: scopeID},
	}
	if month != "" {
		params = append(params, queryParam{name: "month", value: month})
	}

	var view BudgetView
	err := c.do(ctx, call{
		op:     "budget_usage",
		method: http.MethodGet,
		path:   "/api/v1/budgets/usage",
		params: params,
		out:    &view,
	})
	return view, err
}

// EvaluateBudget derives a budget view from a caller-supplied snapshot.
func (c *Client) EvaluateBudget(ctx context.Context, enabled bool, snap Snapshot) (BudgetView, error) {
	body := struct {
		Enabled  bool     `json:"enabled"`
		Snapshot Snapshot `json:"snapshot"`
	}{Enabled: enabled, Snapshot: snap}

	var view BudgetView
	err := c.do(ctx, call{
		op:     "evaluate_budget",
		method: http.MethodPost,
		path:   "/api/v1/budgets/evaluate",
		body:   body,
		out:    &view,
	})
	return view, err
}
