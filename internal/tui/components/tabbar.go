package components

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/theirongolddev/msj/internal/tui/theme"
)

// Tab represents a single tab in the tab bar.
type Tab struct {
	Name   string
	Key    rune
	KeyPos int // position of the shortcut letter in the name (-1 if not in name)
}

// Tabs defines all available tabs.
var Tabs = []Tab{
	{Name: "Sites", Key: 's', KeyPos: 0},
	{Name: "Calculator", Key: 'c', KeyPos: 0},
	{Name: "Calendar", Key: 'a', KeyPos: 1},
	{Name: "Journal", Key: 'n', KeyPos: 4},
	{Name: "History", Key: 'h', KeyPos: 0},
	{Name: "Settings", Key: 'x', KeyPos: -1},
}

func renderTab(tab Tab, active bool) string {
	t := theme.Active

	if active {
		return lipgloss.NewStyle().
			Foreground(t.AccentBright).
			Background(t.SurfaceHover).
			Bold(true).
			Padding(0, 1).
			Render(tab.Name)
	}

	base := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	key := lipgloss.NewStyle().Foreground(t.Accent).Background(t.Surface).Bold(true).Underline(true)
	dim := lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Surface)

	var b strings.Builder
	b.WriteString(base.Render(" "))
	if tab.KeyPos >= 0 && tab.KeyPos < len(tab.Name) {
		b.WriteString(base.Render(tab.Name[:tab.KeyPos]))
		b.WriteString(key.Render(tab.Name[tab.KeyPos : tab.KeyPos+1]))
		b.WriteString(base.Render(tab.Name[tab.KeyPos+1:]))
	} else {
		b.WriteString(base.Render(tab.Name))
		b.WriteString(dim.Render("["))
		b.WriteString(key.Render(string(tab.Key)))
		b.WriteString(dim.Render("]"))
	}
	b.WriteString(base.Render(" "))
	return b.String()
}

// TabVisualWidth is the rendered width of a tab, used for mouse hit testing.
func TabVisualWidth(tab Tab, active bool) int {
	return lipgloss.Width(renderTab(tab, active))
}

// RenderTabBar renders the tab bar on one line, tabs separated by a rule.
func RenderTabBar(activeIdx int, width int) string {
	t := theme.Active
	sep := lipgloss.NewStyle().Foreground(t.Border).Background(t.Surface).Render("│")

	parts := make([]string, len(Tabs))
	for i, tab := range Tabs {
		parts[i] = renderTab(tab, i == activeIdx)
	}

	return lipgloss.NewStyle().
		Background(t.Surface).
		Width(width).
		Render(strings.Join(parts, sep))
}

// TabIdxByKey returns the tab index for a given key press, or -1.
func TabIdxByKey(key rune) int {
	for i, tab := range Tabs {
		if tab.Key == key {
			return i
		}
	}
	return -1
}
