package model

import "errors"

// DefaultDailyRate is the daily rate stored with an unset progress record.
const DefaultDailyRate = 0.05

// ErrInvalidAmount is returned when a progress amount is not positive.
var ErrInvalidAmount = errors.New("amount must be greater than zero")

// Progress is the user's real balance mapped onto a projection day.
type Progress struct {
	Amount    float64 `json:"amount"`
	Day       int     `json:"day"`
	IsSet     bool    `json:"isSet"`
	DailyRate float64 `json:"dailyRate"`
}

// DefaultProgress is the record returned before any progress is saved.
func DefaultProgress() Progress {
	return Progress{DailyRate: DefaultDailyRate}
}

// Reached reports whether the given projection day is at or before the recorded progress.
func (p Progress) Reached(dayIndex int) bool {
	return p.IsSet && dayIndex <= p.Day
}
