// Package cli provides formatting and rendering utilities for terminal output.
package cli

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/Rhymond/go-money"
	"github.com/dustin/go-humanize"
	"github.com/shopspring/decimal"

	"github.com/theirongolddev/msj/internal/model"
)

// FormatMoney renders an amount with the currency symbol, thousands
// separators and two decimals, e.g. 1234.5 USD -> "$1,234.50".
func FormatMoney(amount float64, cur model.Currency) string {
	symbol := cur.Symbol
	if symbol == "" {
		symbol = model.CurrencyFor(cur.Code).Symbol
	}
	minor := decimal.NewFromFloat(amount).Round(2).Shift(2).IntPart()
	return money.NewFormatter(2, ".", ",", symbol, "$1").Format(minor)
}

// FormatDelta formats a change in balance with an explicit sign.
func FormatDelta(delta float64, cur model.Currency) string {
	if delta >= 0 {
		return "+" + FormatMoney(delta, cur)
	}
	return FormatMoney(delta, cur)
}

// FormatRate renders a rate value as entered, e.g. 5 per_day -> "5% / day".
func FormatRate(value float64, periodLabel string) string {
	return strconv.FormatFloat(value, 'f', -1, 64) + "% / " + periodLabel
}

// FormatNumber adds comma separators to an integer.
// e.g., 1234567 -> "1,234,567"
func FormatNumber(n int64) string {
	if n < 0 {
		return "-" + FormatNumber(-n)
	}
	return humanize.Comma(n)
}

// FormatPercent formats a 0-1 float as a percentage string.
func FormatPercent(f float64) string {
	return fmt.Sprintf("%.1f%%", f*100)
}

// FormatDate renders a day as "Mon, Jan 2 2006".
func FormatDate(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.Format("Mon, Jan 2 2006")
}

// FormatAgo renders a timestamp relative to now, e.g. "3 hours ago".
func FormatAgo(t time.Time) string {
	if t.IsZero() {
		return "never"
	}
	return humanize.Time(t)
}

// FormatDayOfWeek returns a 3-letter day abbreviation from a weekday number.
func FormatDayOfWeek(weekday int) string {
	days := []string{"Sun", "Mon", "Tue", "Wed", "Thu", "Fri", "Sat"}
	if weekday >= 0 && weekday < 7 {
		return days[weekday]
	}
	return "???"
}

// Truncate shortens s to max runes, ending with an ellipsis.
func Truncate(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	if max <= 1 {
		return string(r[:max])
	}
	return strings.TrimSpace(string(r[:max-1])) + "…"
}
