package budget

import "math"

// LimitKind names which limit governs a scope.
type LimitKind string

// Limit kinds. LimitNone means neither limit is set.
const (
	LimitHard LimitKind = "hard"
	LimitSoft LimitKind = "soft"
	LimitNone LimitKind = ""
)

// Limits holds the optional hard and soft ceilings of a scope.
type Limits struct {
	HardUSD *float64
	SoftUSD *float64
}

// ResolvePrimaryLimitUSD returns the hard limit when set, else the soft limit,
// else nil. A hard limit of zero is still a set limit.
func ResolvePrimaryLimitUSD(l Limits) *float64 {
	v, _ := PrimaryLimit(l)
	return v
}

// PrimaryLimit is ResolvePrimaryLimitUSD that also reports which limit won.
// Precedence is by tier, never by magnitude.
func PrimaryLimit(l Limits) (*float64, LimitKind) {
	switch {
	case l.HardUSD != nil:
		return l.HardUSD, LimitHard
	case l.SoftUSD != nil:
		return l.SoftUSD, LimitSoft
	default:
		return nil, LimitNone
	}
}

// CalculateUsagePercent returns used/limit*100 clamped to [0, 100].
// Returns nil when either input is missing or non-finite, or limit <= 0.
func CalculateUsagePercent(used, limit *float64) *float64 {
	if used == nil || limit == nil || !isFinite(*used) || !isFinite(*limit) || *limit <= 0 {
		return nil
	}
	pct := *used / *limit * 100
	pct = math.Max(0, math.Min(100, pct))
	return &pct
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
