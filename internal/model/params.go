// Package model defines the calculator, progress, history and journal records
// shared by the CLI, the HTTP server and the TUI.
package model

import (
	"math"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/theirongolddev/msj/internal/growth"
)

// DateLayout is the day format used in persisted records and query strings.
const DateLayout = "2006-01-02"

// Currency is a display currency. Amounts are never converted between currencies.
type Currency struct {
	Code   string `json:"code"`
	Symbol string `json:"symbol"`
}

// Contribution is the persisted form of a recurring deposit or withdrawal.
type Contribution struct {
	Type      string  `json:"type"`
	Amount    float64 `json:"amount"`
	Frequency string  `json:"frequency"`
}

// Params is the calculator form as it is stored in history.
type Params struct {
	Currency        Currency     `json:"currency"`
	Initial         float64      `json:"initial"`
	RateValue       float64      `json:"rateValue"`
	RatePeriod      string       `json:"ratePeriod"`
	Years           int          `json:"years"`
	Months          int          `json:"months"`
	Days            int          `json:"days"`
	IncludeWeekends bool         `json:"includeWeekends"`
	SelectedDays    []int        `json:"selectedDays"`
	Reinvest        float64      `json:"reinvest"`
	Contrib         Contribution `json:"contrib"`
	StartDate       string       `json:"startDate"`
	Target          float64      `json:"target,omitempty"`
}

// DefaultParams is a one-year daily projection of 100 USD at 0.05% per day.
func DefaultParams() Params {
	return Params{
		Currency:        Currency{Code: "USD", Symbol: "$"},
		Initial:         100,
		RateValue:       0.05,
		RatePeriod:      string(growth.PerDay),
		Years:           1,
		IncludeWeekends: true,
		SelectedDays:    []int{1, 2, 3, 4, 5},
		Reinvest:        1,
		Contrib:         Contribution{Type: string(growth.ContributeNone), Frequency: string(growth.Weekly)},
	}
}

// Normalize coerces out-of-range fields in place: negative durations and
// amounts become 0, a zero or NaN reinvest becomes 1, unknown enums fall back
// to their defaults and weekday indices outside 0..6 are dropped.
func (p *Params) Normalize() {
	p.Initial = finiteOrZero(p.Initial)
	p.RateValue = finiteOrZero(p.RateValue)
	p.RatePeriod = string(growth.ParsePeriod(p.RatePeriod))
	p.Years = max(p.Years, 0)
	p.Months = max(p.Months, 0)
	p.Days = max(p.Days, 0)

	p.Reinvest = finiteOrZero(p.Reinvest)
	if p.Reinvest == 0 {
		p.Reinvest = 1
	}

	p.Contrib.Type = string(growth.ParseContributionType(p.Contrib.Type))
	p.Contrib.Frequency = string(growth.ParseFrequency(p.Contrib.Frequency))
	p.Contrib.Amount = math.Max(finiteOrZero(p.Contrib.Amount), 0)

	days := []int{}
	seen := [7]bool{}
	for _, d := range p.SelectedDays {
		if d >= 0 && d <= 6 && !seen[d] {
			seen[d] = true
			days = append(days, d)
		}
	}
	p.SelectedDays = days

	if p.Target < 0 || math.IsNaN(p.Target) {
		p.Target = 0
	}
	if p.Currency.Code == "" {
		p.Currency = Currency{Code: "USD", Symbol: "$"}
	}
	p.Currency.Code = strings.ToUpper(p.Currency.Code)
	if _, err := time.Parse(DateLayout, p.StartDate); err != nil {
		p.StartDate = ""
	}
}

// Filter returns the day filter the params select.
func (p Params) Filter() growth.DayFilter {
	if p.IncludeWeekends {
		return growth.AllDays()
	}
	days := make([]time.Weekday, 0, len(p.SelectedDays))
	for _, d := range p.SelectedDays {
		days = append(days, time.Weekday(d))
	}
	return growth.Weekdays(days...)
}

// Start returns the parsed start date, or today when unset.
func (p Params) Start(today time.Time) time.Time {
	if t, err := time.Parse(DateLayout, p.StartDate); err == nil {
		return t
	}
	return growth.Day(today)
}

// Input builds the engine snapshot for these params.
func (p Params) Input(today time.Time) growth.Input {
	return growth.Input{
		Initial:  p.Initial,
		Rate:     growth.Rate{Value: p.RateValue, Period: growth.ParsePeriod(p.RatePeriod)},
		Duration: growth.Duration{Years: p.Years, Months: p.Months, Days: p.Days},
		Filter:   p.Filter(),
		Reinvest: p.Reinvest,
		Contribution: growth.Contribution{
			Type:      growth.ParseContributionType(p.Contrib.Type),
			Amount:    p.Contrib.Amount,
			Frequency: growth.ParseFrequency(p.Contrib.Frequency),
		},
		Start:  p.Start(today),
		Today:  today,
		Target: p.Target,
	}
}

// ParseParams overlays query values onto base and normalizes the result.
// Fields that are absent keep base's value; fields that fail to parse become 0.
//
// Recognised keys: currency, symbol, initial, rate, period, years, months,
// days, weekends, weekdays (comma separated 0..6), reinvest, contrib,
// contrib_amount, contrib_frequency, start, target.
func ParseParams(q url.Values, base Params) Params {
	p := base
	p.SelectedDays = append([]int(nil), base.SelectedDays...)

	if v, ok := lookup(q, "currency"); ok {
		p.Currency = CurrencyFor(v)
	}
	if v, ok := lookup(q, "symbol"); ok && v != "" {
		p.Currency.Symbol = v
	}
	if v, ok := lookup(q, "initial"); ok {
		p.Initial = parseFloat(v)
	}
	if v, ok := lookup(q, "rate"); ok {
		p.RateValue = parseFloat(v)
	}
	if v, ok := lookup(q, "period"); ok {
		p.RatePeriod = v
	}
	if v, ok := lookup(q, "years"); ok {
		p.Years = parseInt(v)
	}
	if v, ok := lookup(q, "months"); ok {
		p.Months = parseInt(v)
	}
	if v, ok := lookup(q, "days"); ok {
		p.Days = parseInt(v)
	}
	if v, ok := lookup(q, "weekends"); ok {
		p.IncludeWeekends = v != "false" && v != "0"
	}
	if v, ok := lookup(q, "weekdays"); ok {
		p.SelectedDays = ParseWeekdays(v)
	}
	if v, ok := lookup(q, "reinvest"); ok {
		p.Reinvest = parseFloat(v)
	}
	if v, ok := lookup(q, "contrib"); ok {
		p.Contrib.Type = v
	}
	if v, ok := lookup(q, "contrib_amount"); ok {
		p.Contrib.Amount = parseFloat(v)
	}
	if v, ok := lookup(q, "contrib_frequency"); ok {
		p.Contrib.Frequency = v
	}
	if v, ok := lookup(q, "start"); ok {
		p.StartDate = v
	}
	if v, ok := lookup(q, "target"); ok {
		p.Target = parseFloat(v)
	}

	p.Normalize()
	return p
}

// Values is the inverse of ParseParams.
func (p Params) Values() url.Values {
	q := url.Values{}
	q.Set("currency", p.Currency.Code)
	q.Set("initial", strconv.FormatFloat(p.Initial, 'f', -1, 64))
	q.Set("rate", strconv.FormatFloat(p.RateValue, 'f', -1, 64))
	q.Set("period", p.RatePeriod)
	q.Set("years", strconv.Itoa(p.Years))
	q.Set("months", strconv.Itoa(p.Months))
	q.Set("days", strconv.Itoa(p.Days))
	q.Set("weekends", strconv.FormatBool(p.IncludeWeekends))
	q.Set("weekdays", FormatWeekdays(p.SelectedDays))
	q.Set("reinvest", strconv.FormatFloat(p.Reinvest, 'f', -1, 64))
	q.Set("contrib", p.Contrib.Type)
	q.Set("contrib_amount", strconv.FormatFloat(p.Contrib.Amount, 'f', -1, 64))
	q.Set("contrib_frequency", p.Contrib.Frequency)
	if p.StartDate != "" {
		q.Set("start", p.StartDate)
	}
	if p.Target > 0 {
		q.Set("target", strconv.FormatFloat(p.Target, 'f', -1, 64))
	}
	return q
}

// ParseWeekdays reads "1,2,3" style lists. Weekday names ("mon", "Tue") are
// accepted too; anything else is skipped.
func ParseWeekdays(s string) []int {
	var out []int
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(strings.ToLower(part))
		if part == "" {
			continue
		}
		if n, err := strconv.Atoi(part); err == nil {
			out = append(out, n)
			continue
		}
		for i, name := range weekdayNames {
			if strings.HasPrefix(strings.ToLower(name), part) && len(part) >= 2 {
				out = append(out, i)
				break
			}
		}
	}
	return out
}

// FormatWeekdays renders indices as "1,2,3".
func FormatWeekdays(days []int) string {
	parts := make([]string, len(days))
	for i, d := range days {
		parts[i] = strconv.Itoa(d)
	}
	return strings.Join(parts, ",")
}

var weekdayNames = [7]string{"Sun", "Mon", "Tue", "Wed", "Thu", "Fri", "Sat"}

// DaysLabel describes the day filter, e.g. "All days" or "Mon, Tue, Wed".
func (p Params) DaysLabel() string {
	if p.IncludeWeekends || len(p.SelectedDays) == 0 {
		return "All days"
	}
	names := make([]string, 0, len(p.SelectedDays))
	for _, d := range p.SelectedDays {
		if d >= 0 && d <= 6 {
			names = append(names, weekdayNames[d])
		}
	}
	return strings.Join(names, ", ")
}

func lookup(q url.Values, key string) (string, bool) {
	if _, ok := q[key]; !ok {
		return "", false
	}
	return strings.TrimSpace(q.Get(key)), true
}

func parseFloat(s string) float64 {
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return finiteOrZero(f)
}

func parseInt(s string) int {
	n, err := strconv.Atoi(s)
	if err != nil {
		// "3.7" style input truncates like a form number field
		f, ferr := strconv.ParseFloat(s, 64)
		if ferr != nil || math.IsNaN(f) || math.IsInf(f, 0) {
			return 0
		}
		return int(f)
	}
	return n
}

func finiteOrZero(f float64) float64 {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	return f
}
