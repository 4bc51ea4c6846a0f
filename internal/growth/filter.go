package growth

import "time"

// DayFilter selects which calendar dates take part in a projection.
// The zero value includes no weekdays; use AllDays or Weekdays to build one.
type DayFilter struct {
	all  bool
	days [7]bool
}

// AllDays includes every calendar date.
func AllDays() DayFilter {
	return DayFilter{all: true}
}

// Weekdays includes only dates falling on the given weekdays.
func Weekdays(days ...time.Weekday) DayFilter {
	var f DayFilter
	for _, d := range days {
		if d >= time.Sunday && d <= time.Saturday {
			f.days[d] = true
		}
	}
	return f
}

// WorkWeek is Monday through Friday.
func WorkWeek() DayFilter {
	return Weekdays(time.Monday, time.Tuesday, time.Wednesday, time.Thursday, time.Friday)
}

// Includes reports whether t falls on an included day.
func (f DayFilter) Includes(t time.Time) bool {
	if f.all {
		return true
	}
	return f.days[t.Weekday()]
}

// IncludesAll reports whether the filter accepts every date.
func (f DayFilter) IncludesAll() bool {
	return f.all
}

// Selected returns the included weekdays in Sunday-first order.
func (f DayFilter) Selected() []time.Weekday {
	var out []time.Weekday
	for d := time.Sunday; d <= time.Saturday; d++ {
		if f.all || f.days[d] {
			out = append(out, d)
		}
	}
	return out
}

// Empty reports whether no date can ever be included.
func (f DayFilter) Empty() bool {
	return !f.all && len(f.Selected()) == 0
}
