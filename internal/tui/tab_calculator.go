package tui

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/theirongolddev/msj/internal/cli"
	"github.com/theirongolddev/msj/internal/growth"
	"github.com/theirongolddev/msj/internal/kvstore"
	"github.com/theirongolddev/msj/internal/model"
	"github.com/theirongolddev/msj/internal/tui/components"
	"github.com/theirongolddev/msj/internal/tui/theme"
)

// calcValues mirrors the calculator form. Numbers stay strings until the
// form completes and model.ParseParams reads them.
type calcValues struct {
	initial       string
	rate          string
	period        string
	years         string
	months        string
	days          string
	weekends      bool
	weekdays      []int
	reinvest      string
	contrib       string
	contribAmount string
	contribFreq   string
	start         string
	target        string
}

type progressValues struct {
	amount string
}

func newCalcValues(p model.Params) *calcValues {
	q := p.Values()
	target := ""
	if p.Target > 0 {
		target = q.Get("target")
	}
	return &calcValues{
		initial:       q.Get("initial"),
		rate:          q.Get("rate"),
		period:        p.RatePeriod,
		years:         q.Get("years"),
		months:        q.Get("months"),
		days:          q.Get("days"),
		weekends:      p.IncludeWeekends,
		weekdays:      append([]int(nil), p.SelectedDays...),
		reinvest:      q.Get("reinvest"),
		contrib:       p.Contrib.Type,
		contribAmount: q.Get("contrib_amount"),
		contribFreq:   p.Contrib.Frequency,
		start:         p.StartDate,
		target:        target,
	}
}

// query converts the form into the same keys the HTTP API accepts.
func (v *calcValues) query() url.Values {
	q := url.Values{}
	q.Set("initial", strings.TrimSpace(v.initial))
	q.Set("rate", strings.TrimSpace(v.rate))
	q.Set("period", v.period)
	q.Set("years", strings.TrimSpace(v.years))
	q.Set("months", strings.TrimSpace(v.months))
	q.Set("days", strings.TrimSpace(v.days))
	q.Set("weekends", strconv.FormatBool(v.weekends))
	q.Set("weekdays", model.FormatWeekdays(v.weekdays))
	q.Set("reinvest", strings.TrimSpace(v.reinvest))
	q.Set("contrib", v.contrib)
	q.Set("contrib_amount", strings.TrimSpace(v.contribAmount))
	q.Set("contrib_frequency", v.contribFreq)
	q.Set("start", strings.TrimSpace(v.start))
	q.Set("target", strings.TrimSpace(v.target))
	return q
}

func validateOptionalDate(s string) error {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	if _, err := time.Parse(model.DateLayout, s); err != nil {
		return fmt.Errorf("use YYYY-MM-DD")
	}
	return nil
}

func weekdayOptions() []huh.Option[int] {
	opts := make([]huh.Option[int], 7)
	for d := range opts {
		opts[d] = huh.NewOption(cli.FormatDayOfWeek(d), d)
	}
	return opts
}

func (a *App) newParamsForm() *huh.Form {
	a.calcVals = newCalcValues(a.params)
	v := a.calcVals

	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().Title("Initial amount").Value(&v.initial).Validate(validateNumber),
			huh.NewInput().Title("Interest rate (%)").Value(&v.rate).Validate(validateNumber),
			huh.NewSelect[string]().Title("Rate applies").Options(periodOptions()...).Value(&v.period),
			huh.NewInput().Title("Reinvest fraction (0-1)").Value(&v.reinvest).Validate(validateNumber),
		).Title("Growth"),
		huh.NewGroup(
			huh.NewInput().Title("Years").Value(&v.years).Validate(validateOptionalNumber),
			huh.NewInput().Title("Months").Value(&v.months).Validate(validateOptionalNumber),
			huh.NewInput().Title("Days").Value(&v.days).Validate(validateOptionalNumber),
			huh.NewInput().Title("Start date").Placeholder("today").Value(&v.start).Validate(validateOptionalDate),
			huh.NewInput().Title("Target amount").Placeholder("none").Value(&v.target).Validate(validateOptionalNumber),
			huh.NewConfirm().Title("Include weekends?").Value(&v.weekends),
		).Title("Horizon"),
		huh.NewGroup(
			huh.NewMultiSelect[int]().Title("Interest days").Options(weekdayOptions()...).Value(&v.weekdays),
		).WithHideFunc(func() bool { return v.weekends }),
		huh.NewGroup(
			huh.NewSelect[string]().Title("Contribution").Options(
				huh.NewOption("none", string(growth.ContributeNone)),
				huh.NewOption("deposit", string(growth.Deposit)),
				huh.NewOption("withdraw", string(growth.Withdraw)),
			).Value(&v.contrib),
			huh.NewInput().Title("Amount").Value(&v.contribAmount).Validate(validateOptionalNumber),
			huh.NewSelect[string]().Title("Every").Options(
				huh.NewOption("day", string(growth.Daily)),
				huh.NewOption("week (7 included days)", string(growth.Weekly)),
				huh.NewOption("month (30 included days)", string(growth.Monthly)),
			).Value(&v.contribFreq),
		).Title("Contributions"),
	).WithTheme(huh.ThemeCharm()).WithShowHelp(true)
}

// applyParams recalculates from the completed form and records the
// calculation in history.
func (a *App) applyParams() {
	a.params = model.ParseParams(a.calcVals.query(), a.params)
	a.recompute()

	entry, err := a.hist.Add(a.params)
	if err != nil {
		a.flash = "History not saved: " + err.Error()
		return
	}
	a.flash = fmt.Sprintf("Saved to history as #%d", entry.ID)
	a.reloadHistory()
}

func (a *App) newProgressForm() *huh.Form {
	a.progVals = &progressValues{}
	if a.progress.IsSet {
		a.progVals.amount = strconv.FormatFloat(a.progress.Amount, 'f', -1, 64)
	}
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Current savings").
				Description("Your real balance, placed on the projection.").
				Value(&a.progVals.amount).
				Validate(validatePositive),
		),
	).WithTheme(huh.ThemeCharm())
}

// saveProgress locates the entered balance on the projection and stores it.
func (a *App) saveProgress() error {
	amount, err := strconv.ParseFloat(strings.TrimSpace(a.progVals.amount), 64)
	if err != nil || amount <= 0 {
		return model.ErrInvalidAmount
	}

	if len(a.result.Projection.Entries) == 0 {
		return growth.ErrNoProjection
	}
	match := growth.LocateProgress(a.result.Projection.Entries, amount)
	p := model.Progress{
		Amount:    amount,
		Day:       match.DayIndex,
		IsSet:     true,
		DailyRate: a.result.DailyRate,
	}
	if err := kvstore.Save(a.kv, kvstore.KeyProgress, p); err != nil {
		return err
	}
	a.progress = p

	if match.Exceeded {
		a.flash = "Your savings are higher than the maximum projected amount!"
	} else {
		a.flash = fmt.Sprintf("Your current savings are approximately equal to day %d of the investment.", match.DayIndex)
	}
	return nil
}

func (a App) updateCalculatorKey(key string) (tea.Model, tea.Cmd, bool) {
	switch key {
	case "e", "enter":
		f := a.newParamsForm()
		m, cmd := a.openForm(formParams, f)
		return m, cmd, true
	case "p":
		f := a.newProgressForm()
		m, cmd := a.openForm(formProgress, f)
		return m, cmd, true
	case "P":
		p := model.DefaultProgress()
		if err := kvstore.Save(a.kv, kvstore.KeyProgress, p); err != nil {
			a.flash = "Error: " + err.Error()
			return a, nil, true
		}
		a.progress = p
		a.flash = "Progress cleared"
		return a, nil, true
	}
	return a, nil, false
}

func (a App) renderCalculatorTab(cw int) string {
	t := theme.Active
	p := a.params
	res := a.result
	cur := p.Currency
	s := res.Summary
	entries := res.Projection.Entries

	labelStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	valueStyle := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.Surface)
	warnStyle := lipgloss.NewStyle().Foreground(t.Orange).Background(t.Surface)

	days := cli.FormatNumber(int64(s.Days))
	daysLabel := "Horizon (days)"
	if s.TargetMode {
		daysLabel = "Days to target"
		if !s.Reached {
			days = "not reachable"
		}
	}

	metrics := []components.Metric{
		{Label: "Final amount", Value: cli.FormatMoney(s.FinalAmount, cur), Delta: cli.FormatDelta(s.FinalAmount-p.Initial, cur), Color: t.AccentBright},
		{Label: daysLabel, Value: days, Delta: p.DaysLabel()},
		{Label: "Daily rate", Value: fmt.Sprintf("%.4f%%", res.DailyRate*100), Delta: cli.FormatRate(p.RateValue, growth.ParsePeriod(p.RatePeriod).Label())},
	}
	if a.progress.IsSet {
		metrics = append(metrics, components.Metric{
			Label: "Progress",
			Value: cli.FormatMoney(a.progress.Amount, cur),
			Delta: fmt.Sprintf("≈ day %d", a.progress.Day),
			Color: t.Green,
		})
	}

	var b strings.Builder
	b.WriteString(components.MetricCardRow(metrics, cw))
	b.WriteString("\n")

	// Focus and parameters side by side, stacked when compact.
	var focus strings.Builder
	progressDay := 0
	if a.progress.IsSet {
		progressDay = a.progress.Day
	}
	if current, next, ok := growth.Focus(entries, progressDay, a.now()); ok {
		row := func(label string, e growth.Entry) {
			focus.WriteString(labelStyle.Render(fmt.Sprintf("%-9s", label)))
			focus.WriteString(valueStyle.Render(fmt.Sprintf("day %-5d %-18s %s", e.DayIndex, cli.FormatDate(e.Date), cli.FormatMoney(e.Amount, cur))))
			focus.WriteString("\n")
		}
		row("Current", current)
		row("Next", next)
		focus.WriteString(labelStyle.Render(fmt.Sprintf("%-9s", "Gain")))
		focus.WriteString(valueStyle.Render(cli.FormatDelta(next.Amount-current.Amount, cur)))
	}

	var params strings.Builder
	params.WriteString(valueStyle.Render(model.Title(p)))
	params.WriteString("\n")
	params.WriteString(labelStyle.Render("Start     ") + valueStyle.Render(cli.FormatDate(p.Start(a.now()))))
	params.WriteString("\n")
	params.WriteString(labelStyle.Render("Reinvest  ") + valueStyle.Render(cli.FormatPercent(p.Reinvest)))
	if ct := growth.ParseContributionType(p.Contrib.Type); ct != growth.ContributeNone {
		params.WriteString("\n")
		params.WriteString(labelStyle.Render("Contrib   ") + valueStyle.Render(
			fmt.Sprintf("%s %s %s", ct, cli.FormatMoney(p.Contrib.Amount, cur), growth.ParseFrequency(p.Contrib.Frequency))))
	}

	if a.isCompactLayout() {
		b.WriteString(components.ContentCard("Today", focus.String(), cw))
		b.WriteString("\n")
		b.WriteString(components.ContentCard("Parameters", params.String(), cw))
	} else {
		widths := components.LayoutRow(cw, 2)
		b.WriteString(components.CardRow([]string{
			components.ContentCard("Today", focus.String(), widths[0]),
			components.ContentCard("Parameters", params.String(), widths[1]),
		}))
	}
	b.WriteString("\n")

	innerW := components.CardInnerWidth(cw)
	var growthBody strings.Builder
	if len(entries) > 1 {
		amounts := make([]float64, len(entries))
		for i, e := range entries {
			amounts[i] = e.Amount
		}
		growthBody.WriteString(components.Sparkline(amounts, t.Accent, innerW))
		growthBody.WriteString("\n")
	}
	barW := max(innerW-40, 10)
	if s.TargetMode && p.Target > 0 {
		have := p.Initial
		if a.progress.IsSet {
			have = a.progress.Amount
		}
		growthBody.WriteString(components.GoalBar("Target", have/p.Target,
			cli.FormatMoney(have, cur)+" of "+cli.FormatMoney(p.Target, cur), 9, barW))
		growthBody.WriteString("\n")
	}
	if a.progress.IsSet && s.FinalAmount > 0 {
		growthBody.WriteString(components.GoalBar("Plan", a.progress.Amount/s.FinalAmount,
			fmt.Sprintf("day %d of %d", a.progress.Day, len(entries)), 9, barW))
		growthBody.WriteString("\n")
	}
	if res.Projection.Degenerate {
		growthBody.WriteString(warnStyle.Render("No weekday is selected; the projection stops at day 1."))
	}
	b.WriteString(components.ContentCard("Growth", strings.TrimRight(growthBody.String(), "\n"), cw))

	return b.String()
}
