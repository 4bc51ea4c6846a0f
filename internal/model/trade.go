package model

import "time"

// Side is the direction of a trade.
type Side string

const (
	Long  Side = "Long"
	Short Side = "Short"
)

// Trade is one journal entry.
type Trade struct {
	ID         string    `json:"id"`
	Date       string    `json:"date"`
	Symbol     string    `json:"symbol"`
	Type       Side      `json:"type"`
	Entry      float64   `json:"entry"`
	Exit       float64   `json:"exit"`
	Quantity   float64   `json:"quantity"`
	ProfitLoss float64   `json:"profitLoss"`
	Notes      string    `json:"notes,omitempty"`
	Timestamp  time.Time `json:"timestamp"`
}

// DayStats summarises the trades of one day.
type DayStats struct {
	Date        string  `json:"date"`
	TotalTrades int     `json:"totalTrades"`
	Profit      float64 `json:"profit"`
	Loss        float64 `json:"loss"`
	Net         float64 `json:"net"`
}

// MonthStats summarises the trading days of one month.
type MonthStats struct {
	Month      string  `json:"month"`
	DaysTraded int     `json:"daysTraded"`
	WinDays    int     `json:"winDays"`
	Trades     int     `json:"trades"`
	Net        float64 `json:"net"`
}
