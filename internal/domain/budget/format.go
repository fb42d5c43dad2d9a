package budget

import (
	"regexp"
	"time"

	"github.com/shopspring/decimal"
)

// EmptyAmount is shown for absent or non-finite amounts.
const EmptyAmount = "-"

var monthPattern = regexp.MustCompile(`^\d{4}-(0[1-9]|1[0-2])$`)

// FormatUSDAmount renders a dollar amount with precision tiered by magnitude:
// 6 fraction digits below one cent, 4 below one dollar, 2 otherwise.
// Negative amounts render as "-$x".
func FormatUSDAmount(v *float64) string {
	if v == nil || !isFinite(*v) {
		return EmptyAmount
	}
	if *v == 0 {
		return "$0.00"
	}

	d := decimal.NewFromFloat(*v)
	abs := d.Abs()

	places := int32(2)
	switch {
	case abs.LessThan(decimal.New(1, -2)):
		places = 6
	case abs.LessThan(decimal.New(1, 0)):
		places = 4
	}

	sign := ""
	if d.IsNegative() {
		sign = "-"
	}
	return sign + "$" + abs.StringFixed(places)
}

// FormatUsageMonth returns month when it is a valid YYYY-MM label,
// otherwise the current UTC month.
func FormatUsageMonth(month string) string {
	return FormatUsageMonthAt(month, time.Now())
}

// FormatUsageMonthAt is FormatUsageMonth with an explicit clock.
func FormatUsageMonthAt(month string, now time.Time) string {
	if monthPattern.MatchString(month) {
		return month
	}
	return now.UTC().Format("2006-01")
}
