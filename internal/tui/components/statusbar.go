package components

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/theirongolddev/msj/internal/tui/theme"
)

// RenderStatusBar renders the bottom bar: key hints on the left, info on the right.
func RenderStatusBar(width int, hints, info string) string {
	t := theme.Active

	style := lipgloss.NewStyle().
		Foreground(t.TextMuted).
		Background(t.Surface).
		Width(width)

	left := " " + hints
	right := ""
	if info != "" {
		right = info + " "
	}

	padding := width - lipgloss.Width(left) - lipgloss.Width(right)
	if padding < 1 {
		// Hints lose to info when the terminal is narrow.
		left = ""
		padding = max(width-lipgloss.Width(right), 0)
	}

	return style.Render(left + strings.Repeat(" ", padding) + right)
}
