package budget

// Status is the governance badge of a scope.
type Status string

// Status values, in descending display priority.
const (
	StatusBlock   Status = "BLOCK"
	StatusDegrade Status = "DEGRADE"
	StatusOn      Status = "ON"
	StatusOff     Status = "OFF"
)

// IsHardExceeded reports a breached hard limit. An unset remaining amount
// counts as not exceeded.
func IsHardExceeded(enabled bool, s *Snapshot) bool {
	return enabled && s.HardLimitUSD != nil && exhausted(s.RemainingHardUSD)
}

// IsSoftExceeded reports a breached soft limit, with the same rules as IsHardExceeded.
func IsSoftExceeded(enabled bool, s *Snapshot) bool {
	return enabled && s.SoftLimitUSD != nil && exhausted(s.RemainingSoftUSD)
}

// DeriveStatus picks the badge: BLOCK > DEGRADE > ON > OFF.
func DeriveStatus(enabled bool, s *Snapshot) Status {
	switch {
	case IsHardExceeded(enabled, s):
		return StatusBlock
	case IsSoftExceeded(enabled, s):
		return StatusDegrade
	case enabled:
		return StatusOn
	default:
		return StatusOff
	}
}

func exhausted(remaining *float64) bool {
	return remaining != nil && *remaining <= 0
}
