package opsconsole

// Outcome is a scope decision.
type Outcome string

// Outcome values.
const (
	OutcomeLoading            Outcome = "loading"
	OutcomeAllow              Outcome = "allow"
	OutcomeRedirectCanonical  Outcome = "redirect_canonical"
	OutcomeRedirectOnboarding Outcome = "redirect_onboarding"
	OutcomeRedirectDashboard  Outcome = "redirect_dashboard"
	OutcomeDeny               Outcome = "deny"
)

// Resolution is the console's decision for one path.
type Resolution struct {
	Rule    string  `json:"rule"` // "route" or "legacy"
	Outcome Outcome `json:"outcome"`
	Target  string  `json:"target,omitempty"`
	Reason  string  `json:"reason,omitempty"`
}

// SessionInit reports what the initializer did to the current organization.
type SessionInit struct {
	Action       string `json:"action"` // skip, keep, set, clear
	CurrentOrgID *int64 `json:"currentOrgId"`
	Redirect     string `json:"redirect,omitempty"`
}

// ScopeType is the governance unit a budget applies to.
type ScopeType string

// ScopeType values.
const (
	ScopeWorkspace ScopeType = "WORKSPACE"
	ScopeProvider  ScopeType = "PROVIDER"
)

// ModelUsage is one per-model row of a snapshot.
type ModelUsage struct {
	Model        string  `json:"model"`
	UsedUSD      float64 `json:"usedUsd"`
	RequestCount int64   `json:"requestCount"`
	TotalTokens  int64   `json:"totalTokens"`
}

// Snapshot is a usage record to evaluate. Nil pointers mean unset.
type Snapshot struct {
	ScopeType        ScopeType    `json:"scopeType"`
	ScopeID          int64        `json:"scopeId"`
	Month            string       `json:"month"`
	UsedUSD          float64      `json:"usedUsd"`
	HardLimitUSD     *float64     `json:"hardLimitUsd"`
	SoftLimitUSD     *float64     `json:"softLimitUsd"`
	RemainingHardUSD *float64     `json:"remainingHardUsd"`
	RemainingSoftUSD *float64     `json:"remainingSoftUsd"`
	RequestCount     int64        `json:"requestCount"`
	TotalTokens      int64        `json:"totalTokens"`
	LastUpdatedAt    string       `json:"lastUpdatedAt,omitempty"`
	Models           []ModelUsage `json:"models,omitempty"`
}

// ModelView is one row of the spend breakdown.
type ModelView struct {
	Model        string  `json:"model"`
	UsedUSD      float64 `json:"usedUsd"`
	UsedDisplay  string  `json:"usedDisplay"`
	RequestCount int64   `json:"requestCount"`
	TotalTokens  int64   `json:"totalTokens"`
}

// BudgetView is the derived display record of one scope's budget.
type BudgetView struct {
	ScopeType            ScopeType   `json:"scopeType"`
	ScopeID              int64       `json:"scopeId"`
	Month                string      `json:"month"`
	Enabled              bool        `json:"enabled"`
	Status               string      `json:"status"` // BLOCK, DEGRADE, ON, OFF
	HardExceeded         bool        `json:"hardExceeded"`
	SoftExceeded         bool        `json:"softExceeded"`
	UsedUSD              float64     `json:"usedUsd"`
	PrimaryLimitUSD      *float64    `json:"primaryLimitUsd"`
	PrimaryLimitKind     string      `json:"primaryLimitKind,omitempty"`
	UsagePercent         *float64    `json:"usagePercent"`
	UsedDisplay          string      `json:"usedDisplay"`
	PrimaryLimitDisplay  string      `json:"primaryLimitDisplay"`
	HardLimitDisplay     string      `json:"hardLimitDisplay"`
	SoftLimitDisplay     string      `json:"softLimitDisplay"`
	RemainingHardDisplay string      `json:"remainingHardDisplay"`
	RemainingSoftDisplay string      `json:"remainingSoftDisplay"`
	RequestCount         int64       `json:"requestCount"`
	TotalTokens          int64       `json:"totalTokens"`
	LastUpdatedAt        string      `json:"lastUpdatedAt,omitempty"`
	Models               []ModelView `json:"models"`
}

// HealthStatus represents the aggregated system health.
type HealthStatus struct {
	Status  string            `json:"status"` // "ok", "degraded", "error"
	Checks  map[string]string `json:"checks"` // component → "ok"/"error"
	Version string            `json:"version"`
}
