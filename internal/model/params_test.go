package model

import (
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/theirongolddev/msj/internal/growth"
)

func TestParseParamsCoercesInvalidInput(t *testing.T) {
	q := url.Values{
		"initial":  {"abc"},
		"rate":     {"2.5"},
		"period":   {"per_fortnight"},
		"years":    {"-3"},
		"months":   {"1.9"},
		"reinvest": {"NaN"},
		"contrib":  {"gift"},
		"weekdays": {"1,9,mon,1"},
		"start":    {"2024-13-40"},
	}
	p := ParseParams(q, DefaultParams())

	assert.Equal(t, 0.0, p.Initial)
	assert.Equal(t, 2.5, p.RateValue)
	assert.Equal(t, "per_day", p.RatePeriod)
	assert.Equal(t, 0, p.Years)
	assert.Equal(t, 1, p.Months)
	assert.Equal(t, 1.0, p.Reinvest)
	assert.Equal(t, "none", p.Contrib.Type)
	assert.Equal(t, []int{1}, p.SelectedDays)
	assert.Empty(t, p.StartDate)
}

func TestParseParamsKeepsBaseForMissingKeys(t *testing.T) {
	base := DefaultParams()
	base.Initial = 500
	p := ParseParams(url.Values{"rate": {"1"}}, base)

	assert.Equal(t, 500.0, p.Initial)
	assert.Equal(t, 1.0, p.RateValue)
	assert.Equal(t, "USD", p.Currency.Code)
}

func TestParseParamsCurrency(t *testing.T) {
	p := ParseParams(url.Values{"currency": {"eur"}}, DefaultParams())
	assert.Equal(t, Currency{Code: "EUR", Symbol: "€"}, p.Currency)

	p = ParseParams(url.Values{"currency": {"xyz"}}, DefaultParams())
	assert.Equal(t, "XYZ", p.Currency.Symbol)
}

func TestParamsValuesRoundTrip(t *testing.T) {
	p := DefaultParams()
	p.Initial = 1234.5
	p.IncludeWeekends = false
	p.SelectedDays = []int{1, 3, 5}
	p.StartDate = "2024-02-01"
	p.Target = 2000

	got := ParseParams(p.Values(), Params{})
	assert.Equal(t, p, got)
}

func TestParamsInput(t *testing.T) {
	p := DefaultParams()
	p.IncludeWeekends = false
	p.SelectedDays = []int{1, 2}
	p.StartDate = "2024-01-01"
	p.Contrib = Contribution{Type: "deposit", Amount: 10, Frequency: "monthly"}

	today := time.Date(2024, 1, 10, 15, 0, 0, 0, time.UTC)
	in := p.Input(today)

	assert.Equal(t, 365, in.Duration.TotalDays())
	assert.Equal(t, growth.Deposit, in.Contribution.Type)
	assert.Equal(t, growth.Monthly, in.Contribution.Frequency)
	assert.True(t, in.Filter.Includes(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)))  // Monday
	assert.False(t, in.Filter.Includes(time.Date(2024, 1, 3, 0, 0, 0, 0, time.UTC))) // Wednesday
	assert.Equal(t, "2024-01-01", in.Start.Format(DateLayout))

	p.StartDate = ""
	assert.Equal(t, "2024-01-10", p.Input(today).Start.Format(DateLayout))
}

func TestDaysLabel(t *testing.T) {
	p := DefaultParams()
	assert.Equal(t, "All days", p.DaysLabel())

	p.IncludeWeekends = false
	p.SelectedDays = []int{0, 6}
	assert.Equal(t, "Sun, Sat", p.DaysLabel())
}

func TestTitleAndMatches(t *testing.T) {
	p := DefaultParams()
	p.Initial = 1000
	p.RateValue = 0.5
	p.RatePeriod = "per_month"
	p.Years, p.Months, p.Days = 2, 3, 4
	title := Title(p)
	require.Equal(t, "USD 1000 @ 0.5% /month • 2y 3m 4d", title)

	h := HistoryEntry{
		ID:        1,
		CreatedAt: time.Date(2024, 5, 6, 7, 8, 9, 0, time.UTC),
		Params:    p,
		Title:     title,
	}
	assert.True(t, h.Matches(""))
	assert.True(t, h.Matches("usd"))
	assert.True(t, h.Matches("$"))
	assert.True(t, h.Matches("2024-05"))
	assert.True(t, h.Matches("/MONTH"))
	assert.False(t, h.Matches("eur"))
}

func TestProgressReached(t *testing.T) {
	p := DefaultProgress()
	assert.False(t, p.Reached(1))
	assert.Equal(t, DefaultDailyRate, p.DailyRate)

	p = Progress{Amount: 150, Day: 5, IsSet: true}
	assert.True(t, p.Reached(5))
	assert.False(t, p.Reached(6))
}
