// Package growth projects a savings balance day by day under compound interest,
// a weekday filter and a periodic contribution schedule.
package growth

import (
	"math"

	"github.com/shopspring/decimal"
)

// Period is the compounding period a stated rate refers to.
type Period string

const (
	PerDay   Period = "per_day"
	PerMonth Period = "per_month"
	PerYear  Period = "per_year"
)

// Fixed day-count conventions. Calendar-accurate month and year lengths are not used.
const (
	DaysPerMonth = 30
	DaysPerYear  = 365
)

// ParsePeriod maps a stored period name to a Period, defaulting to PerDay.
func ParsePeriod(s string) Period {
	switch Period(s) {
	case PerMonth:
		return PerMonth
	case PerYear:
		return PerYear
	default:
		return PerDay
	}
}

// Label returns the short unit used in titles ("day", "month", "year").
func (p Period) Label() string {
	switch p {
	case PerMonth:
		return "month"
	case PerYear:
		return "year"
	default:
		return "day"
	}
}

// Rate is a percentage applied over a Period.
type Rate struct {
	Value  float64
	Period Period
}

// DailyRate converts r into an equivalent daily decimal rate. Monthly and yearly
// rates are treated as effective rates and de-compounded over 30 and 365 days.
func DailyRate(r Rate) float64 {
	v := r.Value / 100
	switch r.Period {
	case PerMonth:
		return math.Pow(1+v, 1.0/DaysPerMonth) - 1
	case PerYear:
		return math.Pow(1+v, 1.0/DaysPerYear) - 1
	default:
		return v
	}
}

// Round2 rounds v to cents, half away from zero on the exact binary value of v
// (so 1.005, stored as 1.00499..., rounds down). Applied after every compounding step.
func Round2(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return v
	}
	return decimal.NewFromFloatWithExponent(v, -2).InexactFloat64()
}
