// Package budget derives display values for a budget usage snapshot.
// Every function is total: absent or anomalous input degrades to a safe
// display value instead of an error.
package budget

// ScopeType is the governance unit a budget applies to.
type ScopeType string

// Scope type constants.
const (
	ScopeWorkspace ScopeType = "WORKSPACE"
	ScopeProvider  ScopeType = "PROVIDER"
)

// Valid reports whether t is a known scope type.
func (t ScopeType) Valid() bool {
	return t == ScopeWorkspace || t == ScopeProvider
}

// ModelUsage is spend attributed to one model within a snapshot.
type ModelUsage struct {
	Model        string
	UsedUSD      float64
	RequestCount int64
	TotalTokens  int64
}

// Snapshot is a server-computed usage record for one scope and month.
// Nil pointers mean "unset". Remaining values are trusted as supplied and
// may disagree with limit minus used.
type Snapshot struct {
	ScopeType        ScopeType
	ScopeID          int64
	Month            string
	UsedUSD          float64
	HardLimitUSD     *float64
	SoftLimitUSD     *float64
	RemainingHardUSD *float64
	RemainingSoftUSD *float64
	RequestCount     int64
	TotalTokens      int64
	LastUpdatedAt    string
	Models           []ModelUsage
}

// Limits returns the snapshot's configured limits.
func (s *Snapshot) Limits() Limits {
	return Limits{HardUSD: s.HardLimitUSD, SoftUSD: s.SoftLimitUSD}
}
