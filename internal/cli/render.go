package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/theirongolddev/msj/internal/calendar"
	"github.com/theirongolddev/msj/internal/model"
	"github.com/theirongolddev/msj/internal/palette"
)

// Theme colors (violet-rose preset). UsePalette replaces them.
var (
	ColorBorder    = lipgloss.Color("#5B3A8C")
	ColorTextDim   = lipgloss.Color("#8E7AA8")
	ColorTextMuted = lipgloss.Color("#D8B4E2")
	ColorText      = lipgloss.Color("#FCE7F3")
	ColorAccent    = lipgloss.Color("#E0569A")
	ColorSecondary = lipgloss.Color("#FFB0B8")
	ColorGreen     = lipgloss.Color("#34D399")
	ColorRed       = lipgloss.Color("#EF4444")
	ColorYellow    = lipgloss.Color("#FBBF24")
)

var (
	titleStyle  lipgloss.Style
	headerStyle lipgloss.Style
	valueStyle  lipgloss.Style
	mutedStyle  lipgloss.Style
	gainStyle   lipgloss.Style
	lossStyle   lipgloss.Style
	todayStyle  lipgloss.Style
	reachStyle  lipgloss.Style
	dimStyle    lipgloss.Style
)

func init() {
	buildStyles()
}

func buildStyles() {
	titleStyle = lipgloss.NewStyle().
		Bold(true).
		Foreground(ColorText).
		Align(lipgloss.Center)
	headerStyle = lipgloss.NewStyle().
		Bold(true).
		Foreground(ColorAccent)
	valueStyle = lipgloss.NewStyle().Foreground(ColorText)
	mutedStyle = lipgloss.NewStyle().Foreground(ColorTextMuted)
	gainStyle = lipgloss.NewStyle().Foreground(ColorGreen)
	lossStyle = lipgloss.NewStyle().Foreground(ColorRed)
	todayStyle = lipgloss.NewStyle().Bold(true).Foreground(ColorYellow)
	reachStyle = lipgloss.NewStyle().Foreground(ColorSecondary)
	dimStyle = lipgloss.NewStyle().Foreground(ColorTextDim)
}

// UsePalette recolors CLI output from a stored theme.
func UsePalette(v palette.Vars) {
	set := func(dst *lipgloss.Color, hex string) {
		if palette.ValidHex(hex) {
			*dst = lipgloss.Color(hex)
		}
	}
	set(&ColorAccent, v.Primary)
	set(&ColorSecondary, v.Secondary)
	set(&ColorText, v.Text)
	set(&ColorTextMuted, v.TextMuted)
	set(&ColorGreen, v.Success)
	set(&ColorRed, v.Danger)
	set(&ColorYellow, v.Warning)
	buildStyles()
}

// Table represents a bordered text table for CLI output.
type Table struct {
	Title   string
	Headers []string
	Rows    [][]string
	Widths  []int // optional column widths, auto-calculated if nil
}

// RenderTitle renders a centered title bar in a bordered box.
func RenderTitle(title string) string {
	width := 55
	border := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(ColorBorder).
		Width(width).
		Align(lipgloss.Center).
		Padding(0, 1)

	return border.Render(titleStyle.Render(title))
}

func padRight(s string, w int) string {
	return s + strings.Repeat(" ", max(0, w-lipgloss.Width(s)))
}

func padLeft(s string, w int) string {
	return strings.Repeat(" ", max(0, w-lipgloss.Width(s))) + s
}

// RenderTable renders a bordered table with headers and rows.
func RenderTable(t Table) string {
	if len(t.Rows) == 0 && len(t.Headers) == 0 {
		return ""
	}

	// Calculate column widths
	numCols := len(t.Headers)
	if numCols == 0 && len(t.Rows) > 0 {
		numCols = len(t.Rows[0])
	}

	widths := make([]int, numCols)
	if t.Widths != nil {
		copy(widths, t.Widths)
	} else {
		for i, h := range t.Headers {
			widths[i] = max(widths[i], lipgloss.Width(h))
		}
		for _, row := range t.Rows {
			for i, cell := range row {
				if i < numCols {
					widths[i] = max(widths[i], lipgloss.Width(cell))
				}
			}
		}
	}

	var b strings.Builder

	// Title above table if present
	if t.Title != "" {
		b.WriteString("  ")
		b.WriteString(headerStyle.Render(t.Title))
		b.WriteString("\n")
	}

	// Top border
	b.WriteString(dimStyle.Render("╭"))
	for i, w := range widths {
		b.WriteString(dimStyle.Render(strings.Repeat("─", w+2)))
		if i < numCols-1 {
			b.WriteString(dimStyle.Render("┬"))
		}
	}
	b.WriteString(dimStyle.Render("╮"))
	b.WriteString("\n")

	// Header row
	if len(t.Headers) > 0 {
		b.WriteString(dimStyle.Render("│"))
		for i, h := range t.Headers {
			w := widths[i]
			padded := " " + padRight(h, w) + " "
			b.WriteString(headerStyle.Render(padded))
			if i < numCols-1 {
				b.WriteString(dimStyle.Render("│"))
			}
		}
		b.WriteString(dimStyle.Render("│"))
		b.WriteString("\n")

		// Header separator
		b.WriteString(dimStyle.Render("├"))
		for i, w := range widths {
			b.WriteString(dimStyle.Render(strings.Repeat("─", w+2)))
			if i < numCols-1 {
				b.WriteString(dimStyle.Render("┼"))
			}
		}
		b.WriteString(dimStyle.Render("┤"))
		b.WriteString("\n")
	}

	// Data rows
	for _, row := range t.Rows {
		if len(row) == 1 && row[0] == "---" {
			// Separator row
			b.WriteString(dimStyle.Render("├"))
			for i, w := range widths {
				b.WriteString(dimStyle.Render(strings.Repeat("─", w+2)))
				if i < numCols-1 {
					b.WriteString(dimStyle.Render("┼"))
				}
			}
			b.WriteString(dimStyle.Render("┤"))
			b.WriteString("\n")
			continue
		}

		b.WriteString(dimStyle.Render("│"))
		for i := 0; i < numCols; i++ {
			w := widths[i]
			cell := ""
			if i < len(row) {
				cell = row[i]
			}

			// Right-align numeric columns (all except first)
			var padded string
			if i == 0 {
				padded = " " + padRight(cell, w) + " "
			} else {
				padded = " " + padLeft(cell, w) + " "
			}
			b.WriteString(valueStyle.Render(padded))
			if i < numCols-1 {
				b.WriteString(dimStyle.Render("│"))
			}
		}
		b.WriteString(dimStyle.Render("│"))
		b.WriteString("\n")
	}

	// Bottom border
	b.WriteString(dimStyle.Render("╰"))
	for i, w := range widths {
		b.WriteString(dimStyle.Render(strings.Repeat("─", w+2)))
		if i < numCols-1 {
			b.WriteString(dimStyle.Render("┴"))
		}
	}
	b.WriteString(dimStyle.Render("╯"))
	b.WriteString("\n")

	return b.String()
}

// RenderProgressBar renders how far current is toward target.
func RenderProgressBar(current, target float64, width int) string {
	if target <= 0 {
		return ""
	}

	pct := current / target
	pct = max(0, min(pct, 1))
	filled := int(pct * float64(width))

	bar := strings.Repeat("█", filled) + strings.Repeat("░", width-filled)
	return fmt.Sprintf("[%s] %s", reachStyle.Render(bar), FormatPercent(pct))
}

// RenderSparkline draws values as unicode blocks scaled between their
// minimum and maximum. Longer series are sampled down to width.
func RenderSparkline(values []float64, width int) string {
	if len(values) == 0 || width <= 0 {
		return ""
	}
	if len(values) > width {
		sampled := make([]float64, width)
		for i := range sampled {
			sampled[i] = values[i*(len(values)-1)/max(width-1, 1)]
		}
		values = sampled
	}

	blocks := []rune{'▁', '▂', '▃', '▄', '▅', '▆', '▇', '█'}

	lo, hi := values[0], values[0]
	for _, v := range values[1:] {
		lo = min(lo, v)
		hi = max(hi, v)
	}
	span := hi - lo
	if span == 0 {
		span = 1
	}

	var b strings.Builder
	for _, v := range values {
		idx := int((v - lo) * float64(len(blocks)-1) / span)
		b.WriteRune(blocks[max(0, min(idx, len(blocks)-1))])
	}
	return b.String()
}

const cellWidth = 12

func weekdayHeader() string {
	var b strings.Builder
	for i := 0; i < 7; i++ {
		b.WriteString(headerStyle.Render(fmt.Sprintf(" %-*s", cellWidth-1, FormatDayOfWeek(i))))
	}
	return b.String()
}

func pad(s string) string {
	return " " + padRight(Truncate(s, cellWidth-1), cellWidth-1)
}

// RenderMonth renders one month of a projection as a Sunday-first grid.
// Each cell shows the day number and projected balance. Reached days are
// marked with "✓" and today with "•".
func RenderMonth(m calendar.Month, cur model.Currency) string {
	var b strings.Builder
	b.WriteString("  ")
	b.WriteString(headerStyle.Render(m.Title()))
	b.WriteString("\n")
	b.WriteString(weekdayHeader())
	b.WriteString("\n")

	cells := calendar.Grid(m.Year, m.Month, time.Time{})
	for row := 0; row < 6; row++ {
		var top, bottom strings.Builder
		used := false
		for col := 0; col < 7; col++ {
			c := cells[row*7+col]
			if !c.InMonth {
				top.WriteString(pad(""))
				bottom.WriteString(pad(""))
				continue
			}
			used = true
			d, ok := m.Lookup(c.Date.Day())
			if !ok {
				top.WriteString(dimStyle.Render(pad(fmt.Sprintf("%2d", c.Date.Day()))))
				bottom.WriteString(pad(""))
				continue
			}

			label := fmt.Sprintf("%2d", c.Date.Day())
			style := valueStyle
			switch {
			case d.Today:
				label += " •"
				style = todayStyle
			case d.Reached:
				label += " ✓"
				style = reachStyle
			case !d.IsFuture:
				style = mutedStyle
			}
			top.WriteString(style.Render(pad(label)))
			bottom.WriteString(gainStyle.Render(pad(FormatMoney(d.Amount, cur))))
		}
		if !used {
			break
		}
		b.WriteString(top.String())
		b.WriteString("\n")
		b.WriteString(bottom.String())
		b.WriteString("\n")
	}
	return b.String()
}

// RenderJournalMonth renders a six-week trading calendar with the net P/L of
// each traded day.
func RenderJournalMonth(year int, month time.Month, today time.Time, days map[string]model.DayStats) string {
	var b strings.Builder
	b.WriteString("  ")
	b.WriteString(headerStyle.Render(time.Date(year, month, 1, 0, 0, 0, 0, time.UTC).Format("January 2006")))
	b.WriteString("\n")
	b.WriteString(weekdayHeader())
	b.WriteString("\n")

	cells := calendar.Grid(year, month, today)
	for row := 0; row < 6; row++ {
		var top, bottom strings.Builder
		for col := 0; col < 7; col++ {
			c := cells[row*7+col]
			label := fmt.Sprintf("%2d", c.Date.Day())
			switch {
			case c.Today:
				top.WriteString(todayStyle.Render(pad(label + " •")))
			case c.InMonth:
				top.WriteString(valueStyle.Render(pad(label)))
			default:
				top.WriteString(dimStyle.Render(pad(label)))
			}

			st, ok := days[c.Date.Format(model.DateLayout)]
			if !ok || st.TotalTrades == 0 {
				bottom.WriteString(pad(""))
				continue
			}
			text := fmt.Sprintf("%+.2f", st.Net)
			if st.Net >= 0 {
				bottom.WriteString(gainStyle.Render(pad(text)))
			} else {
				bottom.WriteString(lossStyle.Render(pad(text)))
			}
		}
		b.WriteString(top.String())
		b.WriteString("\n")
		b.WriteString(bottom.String())
		b.WriteString("\n")
	}
	return b.String()
}

// RenderSignedMoney colors a P/L or growth value green or red.
func RenderSignedMoney(v float64, cur model.Currency) string {
	if v < 0 {
		return lossStyle.Render(FormatDelta(v, cur))
	}
	return gainStyle.Render(FormatDelta(v, cur))
}

// RenderMuted renders secondary text.
func RenderMuted(s string) string {
	return mutedStyle.Render(s)
}
