package chi

// ErrorCode is a machine-readable error class.
type ErrorCode string

// Error codes.
const (
	ErrorCodeBadRequest   ErrorCode = "bad_request"
	ErrorCodeUnauthorized ErrorCode = "unauthorized"
	ErrorCodeForbidden    ErrorCode = "forbidden"
	ErrorCodeNotFound     ErrorCode = "not_found"
	ErrorCodeUpstream     ErrorCode = "upstream_error"
	ErrorCodeUnavailable  ErrorCode = "unavailable"
	ErrorCodeInternal     ErrorCode = "internal_error"
)

// ErrorResponse is the body of every non-2xx API answer.
type ErrorResponse struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
}

// HealthResponse is the body of GET /health.
type HealthResponse struct {
	Status  string            `json:"status"`
	Checks  map[string]string `json:"checks"`
	Version string            `json:"version"`
}

// ResolutionResponse is one scope decision.
type ResolutionResponse struct {
	Rule    string `json:"rule"`
	Outcome string `json:"outcome"`
	Target  string `json:"target,omitempty"`
	Reason  string `json:"reason,omitempty"`
}

// SessionInitRequest is the body of POST /api/v1/session/init.
type SessionInitRequest struct {
	Path string `json:"path"`
}

// SessionInitResponse reports what the initializer did.
type SessionInitResponse struct {
	Action       string `json:"action"`
	CurrentOrgID *int64 `json:"currentOrgId"`
	Redirect     string `json:"redirect,omitempty"`
}

// OrganizationResponse carries the persisted organization; null when unset.
type OrganizationResponse struct {
	CurrentOrgID *int64 `json:"currentOrgId"`
}

// SelectOrganizationRequest is the body of PUT /api/v1/session/organization.
type SelectOrganizationRequest struct {
	OrgID int64 `json:"orgId"`
}

// ModelUsagePayload is one per-model row of a snapshot.
type ModelUsagePayload struct {
	Model        string  `json:"model"`
	UsedUSD      float64 `json:"usedUsd"`
	RequestCount int64   `json:"requestCount"`
	TotalTokens  int64   `json:"totalTokens"`
}

// SnapshotPayload is a caller-supplied usage snapshot.
type SnapshotPayload struct {
	ScopeType        string              `json:"scopeType"`
	ScopeID          int64               `json:"scopeId"`
	Month            string              `json:"month"`
	UsedUSD          float64             `json:"usedUsd"`
	HardLimitUSD     *float64            `json:"hardLimitUsd"`
	SoftLimitUSD     *float64            `json:"softLimitUsd"`
	RemainingHardUSD *float64            `json:"remainingHardUsd"`
	RemainingSoftUSD *float64            `json:"remainingSoftUsd"`
	RequestCount     int64               `json:"requestCount"`
	TotalTokens      int64               `json:"totalTokens"`
	LastUpdatedAt    string              `json:"lastUpdatedAt"`
	Models           []ModelUsagePayload `json:"models"`
}

// EvaluateBudgetRequest is the body of POST /api/v1/budgets/evaluate.
type EvaluateBudgetRequest struct {
	Enabled  bool             `json:"enabled"`
	Snapshot *SnapshotPayload `json:"snapshot"`
}

// ModelViewResponse is one row of the spend breakdown.
type ModelViewResponse struct {
	Model        string  `json:"model"`
	UsedUSD      float64 `json:"usedUsd"`
	UsedDisplay  string  `json:"usedDisplay"`
	RequestCount int64   `json:"requestCount"`
	TotalTokens  int64   `json:"totalTokens"`
}

// BudgetViewResponse is the derived budget display record.
type BudgetViewResponse struct {
	ScopeType            string              `json:"scopeType"`
	ScopeID              int64               `json:"scopeId"`
	Month                string              `json:"month"`
	Enabled              bool                `json:"enabled"`
	Status               string              `json:"status"`
	HardExceeded         bool                `json:"hardExceeded"`
	SoftExceeded         bool                `json:"softExceeded"`
	UsedUSD              float64             `json:"usedUsd"`
	PrimaryLimitUSD      *float64            `json:"primaryLimitUsd"`
	PrimaryLimitKind     string              `json:"primaryLimitKind,omitempty"`
	UsagePercent         *float64            `json:"usagePercent"`
	UsedDisplay          string              `json:"usedDisplay"`
	PrimaryLimitDisplay  string              `json:"primaryLimitDisplay"`
	HardLimitDisplay     string              `json:"hardLimitDisplay"`
	SoftLimitDisplay     string              `json:"softLimitDisplay"`
	RemainingHardDisplay string              `json:"remainingHardDisplay"`
	RemainingSoftDisplay string              `json:"remainingSoftDisplay"`
	RequestCount         int64               `json:"requestCount"`
	TotalTokens          int64               `json:"totalTokens"`
	LastUpdatedAt        string              `json:"lastUpdatedAt,omitempty"`
	Models               []ModelViewResponse `json:"models"`
}
