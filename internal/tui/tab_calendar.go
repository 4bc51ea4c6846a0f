package tui

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/theirongolddev/msj/internal/calendar"
	"github.com/theirongolddev/msj/internal/cli"
	"github.com/theirongolddev/msj/internal/growth"
	"github.com/theirongolddev/msj/internal/tui/components"
	"github.com/theirongolddev/msj/internal/tui/theme"
)

// calendarState is the month shown, as an offset from the anchor month.
type calendarState struct {
	offset int
}

func (a App) updateCalendarKey(key string) (tea.Model, tea.Cmd, bool) {
	switch key {
	case "[":
		a.calState.offset--
		return a, nil, true
	case "]":
		a.calState.offset++
		return a, nil, true
	case "t":
		a.calState.offset = 0
		return a, nil, true
	}
	return a, nil, false
}

// calendarAnchor is the current month when the projection covers it,
// otherwise the month the projection starts in.
func calendarAnchor(months []calendar.Month, today time.Time) time.Time {
	y, m, _ := today.Date()
	for _, mo := range months {
		if mo.Year == y && mo.Month == m {
			return time.Date(y, m, 1, 0, 0, 0, 0, time.UTC)
		}
	}
	if len(months) > 0 {
		return time.Date(months[0].Year, months[0].Month, 1, 0, 0, 0, 0, time.UTC)
	}
	return time.Date(y, m, 1, 0, 0, 0, 0, time.UTC)
}

func findMonth(months []calendar.Month, y int, m time.Month) (calendar.Month, bool) {
	for _, mo := range months {
		if mo.Year == y && mo.Month == m {
			return mo, true
		}
	}
	return calendar.Month{}, false
}

func (a App) renderCalendarTab(cw int) string {
	t := theme.Active
	now := a.now()
	cur := a.params.Currency

	months := calendar.Build(a.result.Projection.Entries, a.progress, now)
	shown := calendarAnchor(months, now).AddDate(0, a.calState.offset, 0)
	month, projected := findMonth(months, shown.Year(), shown.Month())

	innerW := components.CardInnerWidth(cw)
	cellW := max(innerW/7, 10)

	base := lipgloss.NewStyle().Width(cellW).Background(t.Surface)
	headStyle := base.Foreground(t.TextMuted).Bold(true)
	dayStyle := base.Foreground(t.TextPrimary)
	dimStyle := base.Foreground(t.TextDim)
	amountStyle := base.Foreground(t.TextMuted)
	todayStyle := base.Foreground(t.AccentBright).Background(t.SurfaceBright).Bold(true)
	reachedStyle := base.Foreground(t.Green)
	startStyle := base.Foreground(t.Cyan).Bold(true)

	var grid strings.Builder
	for d := 0; d < 7; d++ {
		grid.WriteString(headStyle.Render(cli.FormatDayOfWeek(d)))
	}
	grid.WriteString("\n")

	cells := calendar.Grid(shown.Year(), shown.Month(), now)
	for row := 0; row < 6; row++ {
		var top, bottom strings.Builder
		for col := 0; col < 7; col++ {
			c := cells[row*7+col]
			num := fmt.Sprintf("%d", c.Date.Day())
			if !c.InMonth {
				top.WriteString(dimStyle.Render(num))
				bottom.WriteString(dimStyle.Render(""))
				continue
			}

			day, ok := month.Lookup(c.Date.Day())
			switch {
			case c.Today:
				top.WriteString(todayStyle.Render(num + " •"))
			case ok && day.Start:
				top.WriteString(startStyle.Render(num + " start"))
			default:
				top.WriteString(dayStyle.Render(num))
			}

			if !ok {
				bottom.WriteString(dimStyle.Render("·"))
				continue
			}
			amount := cli.Truncate(components.CompactMoney(day.Amount, cur), cellW-1)
			if day.Reached {
				bottom.WriteString(reachedStyle.Render(amount))
			} else {
				bottom.WriteString(amountStyle.Render(amount))
			}
		}
		grid.WriteString(top.String())
		grid.WriteString("\n")
		grid.WriteString(bottom.String())
		if row < 5 {
			grid.WriteString("\n")
		}
	}

	title := shown.Format("January 2006")
	if !projected {
		title += "  (outside projection)"
	}

	var b strings.Builder
	b.WriteString(components.ContentCard(title, grid.String(), cw))

	if projected && len(month.Days) > 0 {
		first, last := month.Days[0], month.Days[len(month.Days)-1]
		var gain float64
		for _, d := range month.Days {
			gain += d.Profit
		}
		metrics := []components.Metric{
			{Label: "Days", Value: fmt.Sprintf("%d–%d", first.DayIndex, last.DayIndex), Delta: fmt.Sprintf("%d included", len(month.Days))},
			{Label: "Month end", Value: cli.FormatMoney(last.Amount, cur), Color: t.AccentBright},
			{Label: "Month gain", Value: cli.FormatDelta(growth.Round2(gain), cur), Color: t.Green},
		}
		b.WriteString("\n")
		b.WriteString(components.MetricCardRow(metrics, cw))

		gains := make([]float64, 0, len(month.Days))
		labels := make([]string, 0, len(month.Days))
		reached := 0
		for _, d := range month.Days {
			gains = append(gains, max(d.Profit, 0))
			labels = append(labels, fmt.Sprintf("%d", d.Date.Day()))
			if d.Reached {
				reached++
			}
		}

		var chart strings.Builder
		chart.WriteString(components.BarChart(gains, labels, t.Accent, innerW, 6))
		if a.progress.IsSet {
			chart.WriteString("\n\n")
			chart.WriteString(lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface).Render("Reached  "))
			chart.WriteString(components.ProgressBar(float64(reached)/float64(len(month.Days)), max(innerW-16, 10)))
		}
		b.WriteString("\n")
		b.WriteString(components.ContentCard("Daily gain", chart.String(), cw))
	}
	return b.String()
}
