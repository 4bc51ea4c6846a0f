package model

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/theirongolddev/msj/internal/growth"
)

// HistoryEntry is one saved calculation.
type HistoryEntry struct {
	ID        int64     `json:"id"`
	CreatedAt time.Time `json:"createdAt"`
	Params    Params    `json:"params"`
	Title     string    `json:"title"`
}

// Title summarises params, e.g. "USD 1000 @ 0.5% /day • 1y 0m 0d".
func Title(p Params) string {
	return fmt.Sprintf("%s %s @ %s%% /%s • %dy %dm %dd",
		p.Currency.Code,
		strconv.FormatFloat(p.Initial, 'f', -1, 64),
		strconv.FormatFloat(p.RateValue, 'f', -1, 64),
		growth.ParsePeriod(p.RatePeriod).Label(),
		p.Years, p.Months, p.Days)
}

// Matches reports whether query (case-insensitive) appears in the title,
// currency or creation timestamp. An empty query matches everything.
func (h HistoryEntry) Matches(query string) bool {
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		return true
	}
	hay := strings.ToLower(strings.Join([]string{
		h.Title,
		h.Params.Currency.Code,
		h.Params.Currency.Symbol,
		h.CreatedAt.Format(time.RFC3339),
	}, " "))
	return strings.Contains(hay, query)
}
