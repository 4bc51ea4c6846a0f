package tui

import (
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/theirongolddev/msj/internal/cli"
	"github.com/theirongolddev/msj/internal/growth"
	"github.com/theirongolddev/msj/internal/journal"
	"github.com/theirongolddev/msj/internal/model"
	"github.com/theirongolddev/msj/internal/tui/components"
	"github.com/theirongolddev/msj/internal/tui/theme"
)

var errJournalUnavailable = errors.New("journal unavailable")

// journalState is the selected day and what was loaded for it.
type journalState struct {
	date   time.Time
	cursor int
	trades []model.Trade
	stats  model.DayStats
	month  model.MonthStats
	days   map[string]model.DayStats
	err    error
}

type tradeValues struct {
	symbol string
	side   string
	entry  string
	exit   string
	qty    string
	notes  string
}

// reloadJournal reads the selected day and its month from the database.
func (a *App) reloadJournal() {
	s := &a.journalState
	if a.jrnl == nil {
		return
	}
	date := s.date.Format(model.DateLayout)

	trades, stats, err := a.jrnl.Day(date)
	if err != nil {
		s.err = err
		return
	}
	month, days, err := a.jrnl.Month(s.date.Year(), s.date.Month())
	if err != nil {
		s.err = err
		return
	}
	s.trades, s.stats, s.month, s.days, s.err = trades, stats, month, days, nil
	s.cursor = max(0, min(s.cursor, len(trades)-1))
}

func (a *App) newTradeForm() *huh.Form {
	a.tradeVals = &tradeValues{side: string(model.Long), qty: "1"}
	v := a.tradeVals

	return huh.NewForm(
		huh.NewGroup(
			huh.NewNote().Title("New trade").Description(cli.FormatDate(a.journalState.date)),
			huh.NewInput().Title("Symbol").Value(&v.symbol).Validate(func(s string) error {
				if strings.TrimSpace(s) == "" {
					return errors.New("symbol is required")
				}
				return nil
			}),
			huh.NewSelect[string]().Title("Side").Options(
				huh.NewOption("Long", string(model.Long)),
				huh.NewOption("Short", string(model.Short)),
			).Value(&v.side),
		),
		huh.NewGroup(
			huh.NewInput().Title("Entry price").Value(&v.entry).Validate(validatePositive),
			huh.NewInput().Title("Exit price").Value(&v.exit).Validate(validatePositive),
			huh.NewInput().Title("Quantity").Value(&v.qty).Validate(validatePositive),
			huh.NewText().Title("Notes").Value(&v.notes),
		),
	).WithTheme(huh.ThemeCharm()).WithShowHelp(true)
}

func (a *App) saveTrade() error {
	if a.jrnl == nil {
		return errJournalUnavailable
	}
	v := a.tradeVals
	num := func(s string) float64 {
		f, _ := strconv.ParseFloat(strings.TrimSpace(s), 64)
		return f
	}

	tr, err := a.jrnl.Add(journal.Input{
		Date:     a.journalState.date.Format(model.DateLayout),
		Symbol:   v.symbol,
		Type:     v.side,
		Entry:    num(v.entry),
		Exit:     num(v.exit),
		Quantity: num(v.qty),
		Notes:    v.notes,
	})
	if err != nil {
		return err
	}
	a.reloadJournal()
	a.flash = fmt.Sprintf("Recorded %s %s", tr.Symbol, cli.FormatDelta(tr.ProfitLoss, a.params.Currency))
	return nil
}

func (a App) updateJournalKey(key string) (tea.Model, tea.Cmd, bool) {
	s := &a.journalState
	move := func(years, months, days int) (tea.Model, tea.Cmd, bool) {
		s.date = s.date.AddDate(years, months, days)
		s.cursor = 0
		a.reloadJournal()
		return a, nil, true
	}

	switch key {
	case "[":
		return move(0, 0, -1)
	case "]":
		return move(0, 0, 1)
	case "{":
		return move(0, -1, 0)
	case "}":
		return move(0, 1, 0)
	case "t":
		s.date = growth.Day(a.now())
		s.cursor = 0
		a.reloadJournal()
		return a, nil, true
	case "j", "down":
		if s.cursor < len(s.trades)-1 {
			s.cursor++
		}
		return a, nil, true
	case "k", "up":
		if s.cursor > 0 {
			s.cursor--
		}
		return a, nil, true
	case "i":
		if a.jrnl == nil {
			a.flash = "Error: " + errJournalUnavailable.Error()
			return a, nil, true
		}
		f := a.newTradeForm()
		m, cmd := a.openForm(formTrade, f)
		return m, cmd, true
	case "d":
		if a.jrnl == nil || len(s.trades) == 0 {
			return a, nil, true
		}
		tr := s.trades[s.cursor]
		if err := a.jrnl.Delete(tr.ID); err != nil {
			a.flash = "Error: " + err.Error()
			return a, nil, true
		}
		a.reloadJournal()
		a.flash = "Deleted " + tr.Symbol
		return a, nil, true
	}
	return a, nil, false
}

func (a App) renderJournalTab(cw int) string {
	t := theme.Active
	s := a.journalState
	cur := a.params.Currency

	labelStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	if a.jrnl == nil {
		msg := "The trading journal could not be opened."
		if a.journalErr != nil {
			msg += "\n\n" + a.journalErr.Error()
		}
		return components.ContentCard("Journal", labelStyle.Render(msg), cw)
	}

	netColor := func(v float64) lipgloss.Color {
		if v < 0 {
			return t.Red
		}
		return t.Green
	}

	var b strings.Builder
	b.WriteString(components.MetricCardRow([]components.Metric{
		{Label: "Trades today", Value: strconv.Itoa(s.stats.TotalTrades)},
		{Label: "Day net", Value: cli.FormatDelta(s.stats.Net, cur), Delta: fmt.Sprintf("+%s / -%s",
			cli.FormatMoney(s.stats.Profit, cur), cli.FormatMoney(s.stats.Loss, cur)), Color: netColor(s.stats.Net)},
		{Label: "Month net", Value: cli.FormatDelta(s.month.Net, cur), Delta: fmt.Sprintf("%d trades", s.month.Trades), Color: netColor(s.month.Net)},
		{Label: "Winning days", Value: fmt.Sprintf("%d / %d", s.month.WinDays, s.month.DaysTraded)},
	}, cw))
	b.WriteString("\n")

	innerW := components.CardInnerWidth(cw)
	var day strings.Builder
	if s.err != nil {
		day.WriteString(lipgloss.NewStyle().Foreground(t.Red).Background(t.Surface).Render("Error: " + s.err.Error()))
	} else if len(s.trades) == 0 {
		day.WriteString(labelStyle.Render("No trades. [i] to add one."))
	} else {
		day.WriteString(a.renderTradeRows(s.trades, s.cursor, innerW))
	}
	b.WriteString(components.ContentCard(cli.FormatDate(s.date), day.String(), cw))
	b.WriteString("\n")

	var month strings.Builder
	if len(s.days) == 0 {
		month.WriteString(labelStyle.Render("No trading days this month."))
	} else {
		dates := make([]string, 0, len(s.days))
		for d := range s.days {
			dates = append(dates, d)
		}
		sort.Strings(dates)
		values := make([]float64, len(dates))
		labels := make([]string, len(dates))
		for i, d := range dates {
			values[i] = s.days[d].Net
			labels[i] = d[len(d)-2:]
		}
		month.WriteString(components.NetBars(values, labels, innerW))
	}
	b.WriteString(components.ContentCard(s.date.Format("January 2006"), month.String(), cw))

	return b.String()
}

func (a App) renderTradeRows(trades []model.Trade, cursor, innerW int) string {
	t := theme.Active
	cur := a.params.Currency

	headStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface).Bold(true)
	rowStyle := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.Surface)
	selStyle := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.SurfaceBright).Bold(true)
	gain := lipgloss.NewStyle().Foreground(t.Green).Background(t.Surface)
	loss := lipgloss.NewStyle().Foreground(t.Red).Background(t.Surface)

	notesW := max(innerW-66, 8)
	format := "%-2s%-10s %-6s %12s %12s %10s %12s  %s"

	var b strings.Builder
	b.WriteString(headStyle.Render(fmt.Sprintf(format, "", "Symbol", "Side", "Entry", "Exit", "Qty", "P/L", "Notes")))
	for i, tr := range trades {
		b.WriteString("\n")
		marker, style := "", rowStyle
		if i == cursor {
			marker, style = "▸", selStyle
		}
		pl := cli.FormatDelta(tr.ProfitLoss, cur)
		line := fmt.Sprintf("%-2s%-10s %-6s %12s %12s %10s ",
			marker, cli.Truncate(tr.Symbol, 10), tr.Type,
			cli.FormatMoney(tr.Entry, cur), cli.FormatMoney(tr.Exit, cur),
			strconv.FormatFloat(tr.Quantity, 'f', -1, 64))
		b.WriteString(style.Render(line))
		if tr.ProfitLoss < 0 {
			b.WriteString(loss.Render(fmt.Sprintf("%12s", pl)))
		} else {
			b.WriteString(gain.Render(fmt.Sprintf("%12s", pl)))
		}
		b.WriteString(style.Render("  " + cli.Truncate(strings.ReplaceAll(tr.Notes, "\n", " "), notesW)))
	}
	return b.String()
}
