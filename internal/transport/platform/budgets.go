package platform

import (
	"context"

	"github.com/kailas-cloud/opsconsole/internal/domain"
	"github.com/kailas-cloud/opsconsole/internal/domain/budget"
)

type modelUsageDTO struct {
	Model        string  `json:"model"`
	UsedUSD      float64 `json:"usedUsd"`
	RequestCount int64   `json:"requestCount"`
	TotalTokens  int64   `json:"totalTokens"`
}

type snapshotDTO struct {
	ScopeType        string          `json:"scopeType"`
	ScopeID          int64           `json:"scopeId"`
	Month            string          `json:"month"`
	UsedUSD          float64         `json:"usedUsd"`
	HardLimitUSD     *float64        `json:"hardLimitUsd"`
	SoftLimitUSD     *float64        `json:"softLimitUsd"`
	RemainingHardUSD *float64        `json:"remainingHardUsd"`
	RemainingSoftUSD *float64        `json:"remainingSoftUsd"`
	RequestCount     int64           `json:"requestCount"`
	TotalTokens      int64           `json:"totalTokens"`
	LastUpdatedAt    string          `json:"lastUpdatedAt"`
	Models           []modelUsageDTO `json:"models"`
}

type settingsDTO struct {
	Enabled bool `json:"enabled"`
}

// BudgetUsage fetches the usage snapshot of one scope. An empty month asks
// the platform for the current one.
func (c *Client) BudgetUsage(
	ctx context.Context,
	sess domain.Session,
	scopeType budget.ScopeType,
	scopeID int64,
	month string,
) (*budget.Snapshot, error) {
	params := []queryParam{
		{name: "scopeType", value: string(scopeType)},
		{name: "scopeId", value: scopeID},
	}
	if month != "" {
		params = append(params, queryParam{name: "month", value: month})
	}

	var dto snapshotDTO
	if err := c.get(ctx, EndpointBudgetUsage, "/api/budgets/usage", params, sess.Token, &dto); err != nil {
		return nil, err
	}

	s := &budget.Snapshot{
		ScopeType:        budget.ScopeType(dto.ScopeType),
		ScopeID:          dto.ScopeID,
		Month:            dto.Month,
		UsedUSD:          dto.UsedUSD,
		HardLimitUSD:     dto.HardLimitUSD,
		SoftLimitUSD:     dto.SoftLimitUSD,
		RemainingHardUSD: dto.RemainingHardUSD,
		RemainingSoftUSD: dto.RemainingSoftUSD,
		RequestCount:     dto.RequestCount,
		TotalTokens:      dto.TotalTokens,
		LastUpdatedAt:    dto.LastUpdatedAt,
	}
	for _, m := range dto.Models {
		s.Models = append(s.Models, budget.ModelUsage{
			Model:        m.Model,
			UsedUSD:      m.UsedUSD,
			RequestCount: m.RequestCount,
			TotalTokens:  m.TotalTokens,
		})
	}
	return s, nil
}

// BudgetEnabled reports whether budget governance is on for the scope.
func (c *Client) BudgetEnabled(
	ctx context.Context,
	sess domain.Session,
	scopeType budget.ScopeType,
	scopeID int64,
) (bool, error) {
	params := []queryParam{
		{name: "scopeType", value: string(scopeType)},
		{name: "scopeId", value: scopeID},
	}
	var dto settingsDTO
	if err := c.get(ctx, EndpointBudgetSettings, "/api/budgets/settings", params, sess.Token, &dto); err != nil {
		return false, err
	}
	return dto.Enabled, nil
}
