package growth

import "time"

// MaxCalendarSteps bounds the number of calendar dates a projection walks.
// It is far above any horizon the calculator accepts.
const MaxCalendarSteps = 400_000

// Entry is the balance at the start of one included day.
type Entry struct {
	DayIndex int       `json:"dayIndex"`
	Date     time.Time `json:"date"`
	Amount   float64   `json:"amount"`
	IsFuture bool      `json:"isFuture"`
}

// Schedule is everything Project needs. It is a value; nothing in it is mutated.
type Schedule struct {
	Initial      float64
	DailyRate    float64
	Reinvest     float64
	TotalDays    int
	Start        time.Time
	Filter       DayFilter
	Contribution Contribution
	Today        time.Time
}

// Projection is the ordered output of Project.
type Projection struct {
	Entries []Entry
	// Degenerate is set when the walk stopped because no date could be
	// included, rather than because TotalDays was reached.
	Degenerate bool
	// Final is the balance of the last entry carried without per-step
	// rounding. Entry amounts are rounded to cents; Final is not.
	Final float64
}

// Last returns the final entry, or false when there are none.
func (p Projection) Last() (Entry, bool) {
	if len(p.Entries) == 0 {
		return Entry{}, false
	}
	return p.Entries[len(p.Entries)-1], true
}

// Day truncates t to midnight UTC of its calendar date.
func Day(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// Project walks calendar dates from Start, emitting one entry per included
// date until TotalDays+1 entries exist. The balance is rounded to cents after
// each step.
func (s Schedule) Project() Projection {
	today := s.Today
	if today.IsZero() {
		today = time.Now()
	}
	today = Day(today)
	cursor := Day(s.Start)

	growthFactor := 1 + s.DailyRate*s.Reinvest
	amount := s.Initial
	exact := s.Initial
	count := 0
	skipped := 0

	var out Projection
	out.Entries = make([]Entry, 0, max(s.TotalDays, 0)+1)

	for steps := 0; count <= s.TotalDays; steps++ {
		if steps >= MaxCalendarSteps {
			out.Degenerate = true
			break
		}
		if !s.Filter.Includes(cursor) {
			// Seven misses in a row means no weekday is selected.
			skipped++
			if skipped >= 7 {
				out.Degenerate = true
				break
			}
			cursor = cursor.AddDate(0, 0, 1)
			continue
		}
		skipped = 0

		out.Entries = append(out.Entries, Entry{
			DayIndex: count + 1,
			Date:     cursor,
			Amount:   amount,
			IsFuture: cursor.After(today),
		})
		out.Final = exact
		add := s.Contribution.ForIndex(count)
		amount = Round2(amount*growthFactor + add)
		exact = exact*growthFactor + add
		count++
		cursor = cursor.AddDate(0, 0, 1)
	}
	return out
}
