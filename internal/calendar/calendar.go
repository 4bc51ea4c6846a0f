// Package calendar lays projection entries and journal days out as month grids.
package calendar

import (
	"time"

	"github.com/theirongolddev/msj/internal/growth"
	"github.com/theirongolddev/msj/internal/model"
)

// Day is one projected day as rendered in the calendar.
type Day struct {
	growth.Entry
	// Profit is the change from the previous projected day. Zero on day 1.
	Profit  float64
	Start   bool
	Today   bool
	Reached bool
}

// Month holds the projected days that fall in one calendar month.
type Month struct {
	Year  int
	Month time.Month
	Days  []Day
}

// Title renders "January 2024".
func (m Month) Title() string {
	return time.Date(m.Year, m.Month, 1, 0, 0, 0, 0, time.UTC).Format("January 2006")
}

// Leading is the number of blank cells before the 1st in a Sunday-first grid.
func (m Month) Leading() int {
	return int(time.Date(m.Year, m.Month, 1, 0, 0, 0, 0, time.UTC).Weekday())
}

// Lookup returns the projected day on the given day of the month.
func (m Month) Lookup(dayOfMonth int) (Day, bool) {
	for _, d := range m.Days {
		if d.Date.Day() == dayOfMonth {
			return d, true
		}
	}
	return Day{}, false
}

// Build groups entries by month in order and marks today and the days the
// recorded progress has reached.
func Build(entries []growth.Entry, progress model.Progress, today time.Time) []Month {
	today = growth.Day(today)

	var months []Month
	for i, e := range entries {
		d := Day{
			Entry:   e,
			Start:   e.DayIndex == 1,
			Today:   growth.Day(e.Date).Equal(today),
			Reached: progress.Reached(e.DayIndex),
		}
		if i > 0 && !d.Start {
			d.Profit = growth.Round2(e.Amount - entries[i-1].Amount)
		}

		y, m, _ := e.Date.Date()
		if n := len(months); n == 0 || months[n-1].Year != y || months[n-1].Month != m {
			months = append(months, Month{Year: y, Month: m})
		}
		months[len(months)-1].Days = append(months[len(months)-1].Days, d)
	}
	return months
}

// Cell is one square of a six-week month grid.
type Cell struct {
	Date    time.Time
	InMonth bool
	Today   bool
}

// Grid returns the 42 cells of a Sunday-first month view, padded with the
// tail of the previous month and the head of the next.
func Grid(year int, month time.Month, today time.Time) [42]Cell {
	first := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	start := first.AddDate(0, 0, -int(first.Weekday()))
	today = growth.Day(today)

	var cells [42]Cell
	for i := range cells {
		d := start.AddDate(0, 0, i)
		cells[i] = Cell{
			Date:    d,
			InMonth: d.Month() == month,
			Today:   d.Equal(today),
		}
	}
	return cells
}
