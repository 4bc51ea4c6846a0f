package growth

import (
	"errors"
	"time"
)

// ErrNoProjection is returned when a balance cannot be placed because the
// projection has no entries.
var ErrNoProjection = errors.New("no projection (no weekdays selected)")

// ProgressMatch locates a real balance on a projection.
type ProgressMatch struct {
	DayIndex int
	// Exceeded means the balance is above every projected amount and
	// DayIndex is the last day of the projection.
	Exceeded bool
}

// LocateProgress returns the first entry whose amount is at least amount.
// Amounts are not assumed to be monotonic.
func LocateProgress(entries []Entry, amount float64) ProgressMatch {
	for _, e := range entries {
		if e.Amount >= amount {
			return ProgressMatch{DayIndex: e.DayIndex}
		}
	}
	if len(entries) == 0 {
		return ProgressMatch{}
	}
	return ProgressMatch{DayIndex: entries[len(entries)-1].DayIndex, Exceeded: true}
}

// Focus picks the entry to show as "today" and the one after it. With a
// recorded progress day it is that day; otherwise it is the last entry dated
// on or before today. next repeats current at the end of the projection.
func Focus(entries []Entry, progressDay int, today time.Time) (current, next Entry, ok bool) {
	if len(entries) == 0 {
		return Entry{}, Entry{}, false
	}

	idx := 0
	if progressDay > 0 {
		idx = min(progressDay, len(entries)) - 1
	} else {
		today = Day(today)
		for i, e := range entries {
			if e.Date.After(today) {
				break
			}
			idx = i
		}
	}

	current = entries[idx]
	next = entries[min(idx+1, len(entries)-1)]
	return current, next, true
}
