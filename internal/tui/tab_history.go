package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/theirongolddev/msj/internal/cli"
	"github.com/theirongolddev/msj/internal/model"
	"github.com/theirongolddev/msj/internal/tui/components"
	"github.com/theirongolddev/msj/internal/tui/theme"
)

// historyState is the filtered list of saved calculations.
type historyState struct {
	cursor      int
	searching   bool
	searchInput textinput.Model
	query       string
	entries     []model.HistoryEntry
	err         error
}

func newHistoryState() historyState {
	return historyState{searchInput: newSearchInput("Search history...")}
}

// reloadHistory re-reads the history document with the current filter.
func (a *App) reloadHistory() {
	s := &a.histState
	entries, err := a.hist.Search(s.query)
	s.entries, s.err = entries, err
	s.cursor = max(0, min(s.cursor, len(entries)-1))
}

func (a App) updateHistorySearch(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		a.histState.query = strings.TrimSpace(a.histState.searchInput.Value())
		a.histState.searching = false
		a.histState.cursor = 0
		a.reloadHistory()
		return a, nil
	case "esc":
		a.histState.searching = false
		return a, nil
	}

	var cmd tea.Cmd
	a.histState.searchInput, cmd = a.histState.searchInput.Update(msg)
	return a, cmd
}

func (a App) updateHistoryKey(key string) (tea.Model, tea.Cmd, bool) {
	s := &a.histState

	switch key {
	case "/":
		s.searching = true
		s.searchInput = newSearchInput("Search history...")
		s.searchInput.SetValue(s.query)
		s.searchInput.Focus()
		return a, s.searchInput.Cursor.BlinkCmd(), true
	case "esc":
		if s.query != "" {
			s.query = ""
			s.cursor = 0
			a.reloadHistory()
		}
		return a, nil, true
	case "j", "down":
		if s.cursor < len(s.entries)-1 {
			s.cursor++
		}
		return a, nil, true
	case "k", "up":
		if s.cursor > 0 {
			s.cursor--
		}
		return a, nil, true
	case "enter":
		if len(s.entries) == 0 {
			return a, nil, true
		}
		e := s.entries[s.cursor]
		a.params = e.Params
		a.recompute()
		a.activeTab = tabCalculator
		a.flash = fmt.Sprintf("Loaded #%d", e.ID)
		return a, nil, true
	case "d":
		if len(s.entries) == 0 {
			return a, nil, true
		}
		e := s.entries[s.cursor]
		if err := a.hist.Delete(e.ID); err != nil {
			a.flash = "Error: " + err.Error()
			return a, nil, true
		}
		a.reloadHistory()
		a.flash = fmt.Sprintf("Deleted #%d", e.ID)
		return a, nil, true
	}
	return a, nil, false
}

func (a App) renderHistoryTab(cw, h int) string {
	t := theme.Active
	s := a.histState

	rowStyle := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.Surface)
	mutedStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	dimStyle := lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Surface)
	selStyle := lipgloss.NewStyle().Foreground(t.AccentBright).Background(t.SurfaceBright).Bold(true)
	selMuted := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.SurfaceBright)

	var body strings.Builder
	switch {
	case s.searching:
		body.WriteString(s.searchInput.View())
		body.WriteString("\n\n")
	case s.query != "":
		body.WriteString(dimStyle.Render(fmt.Sprintf("Filter: %q  [esc] clear", s.query)))
		body.WriteString("\n\n")
	}

	switch {
	case s.err != nil:
		body.WriteString(lipgloss.NewStyle().Foreground(t.Red).Background(t.Surface).Render("Error: " + s.err.Error()))
	case len(s.entries) == 0:
		body.WriteString(mutedStyle.Render("No saved calculations. Edit the calculator to add one."))
	default:
		innerW := components.CardInnerWidth(cw)
		agoW := 16
		titleW := max(innerW-agoW-10, 20)

		start, end := listWindow(len(s.entries), s.cursor, max(h-6, 3))
		for i := start; i < end; i++ {
			e := s.entries[i]
			id := fmt.Sprintf("#%-5d ", e.ID)
			title := fmt.Sprintf("%-*s", titleW, cli.Truncate(e.Title, titleW))
			ago := fmt.Sprintf("%*s", agoW, cli.FormatAgo(e.CreatedAt))
			if i == s.cursor {
				body.WriteString(selStyle.Render("▸ " + id + title))
				body.WriteString(selMuted.Render(ago))
			} else {
				body.WriteString(dimStyle.Render("  " + id))
				body.WriteString(rowStyle.Render(title))
				body.WriteString(mutedStyle.Render(ago))
			}
			if i < end-1 {
				body.WriteString("\n")
			}
		}
	}

	return components.ContentCard(fmt.Sprintf("History (%d)", len(s.entries)), body.String(), cw)
}
