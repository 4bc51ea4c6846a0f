package components

import (
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"

	"github.com/theirongolddev/msj/internal/tui/theme"
)

func init() {
	// Force TrueColor output so ANSI codes are generated in tests
	lipgloss.SetColorProfile(termenv.TrueColor)
}

func TestLayoutRowSumsToTotal(t *testing.T) {
	widths := LayoutRow(101, 4)
	sum := 0
	for _, w := range widths {
		sum += w
	}
	if sum != 101 {
		t.Fatalf("sum = %d, want 101", sum)
	}
	if widths[0] != 26 || widths[3] != 25 {
		t.Fatalf("widths = %v, want remainder on the first items", widths)
	}
	if LayoutRow(10, 0) != nil {
		t.Fatal("LayoutRow(n=0) should be nil")
	}
}

func TestCardRowBackgroundFill(t *testing.T) {
	theme.SetActive("flexoki-dark")

	shortCard := ContentCard("Short", "Content", 22)
	tallCard := ContentCard("Tall", "Line 1\nLine 2\nLine 3\nLine 4\nLine 5", 22)

	shortLines := lipgloss.Height(shortCard)
	tallLines := lipgloss.Height(tallCard)
	if shortLines >= tallLines {
		t.Fatal("short card should be shorter than tall card")
	}

	joined := CardRow([]string{tallCard, shortCard})
	lines := strings.Split(joined, "\n")
	if len(lines) != tallLines {
		t.Fatalf("joined height = %d, want %d", len(lines), tallLines)
	}

	for i := shortLines; i < len(lines); i++ {
		if !strings.Contains(lines[i], "\x1b[") {
			t.Fatalf("line %d has no ANSI codes: %q", i, lines[i])
		}
	}
}

func TestCardRowWidthConsistency(t *testing.T) {
	theme.SetActive("flexoki-dark")

	shortCard := ContentCard("Short", "A", 30)
	tallCard := ContentCard("Tall", "A\nB\nC\nD\nE\nF", 20)

	joined := CardRow([]string{tallCard, shortCard})
	lines := strings.Split(joined, "\n")

	want := lipgloss.Width(lines[0])
	for i, line := range lines {
		if w := lipgloss.Width(line); w != want {
			t.Fatalf("line %d width = %d, want %d", i, w, want)
		}
	}
	if want != 50 {
		t.Fatalf("row width = %d, want 50", want)
	}
}

func TestMetricCardRowWidth(t *testing.T) {
	theme.SetActive("terminal")

	row := MetricCardRow([]Metric{
		{Label: "Final", Value: "$1,234.56"},
		{Label: "Days", Value: "365", Delta: "+12"},
		{Label: "Rate", Value: "0.05%"},
	}, 90)

	for i, line := range strings.Split(row, "\n") {
		if w := lipgloss.Width(line); w != 90 {
			t.Fatalf("line %d width = %d, want 90", i, w)
		}
	}
	if !strings.Contains(row, "$1,234.56") {
		t.Fatal("value missing from card")
	}
}

func TestTabVisualWidth(t *testing.T) {
	theme.SetActive("terminal")

	if got, want := TabVisualWidth(Tabs[0], true), len("Sites")+2; got != want {
		t.Fatalf("active width = %d, want %d", got, want)
	}
	if got, want := TabVisualWidth(Tabs[0], false), len("Sites")+2; got != want {
		t.Fatalf("inactive width = %d, want %d", got, want)
	}
	settings := Tabs[len(Tabs)-1]
	if got, want := TabVisualWidth(settings, false), len("Settings")+5; got != want {
		t.Fatalf("inactive settings width = %d, want %d", got, want)
	}
}

func TestTabIdxByKey(t *testing.T) {
	if got := TabIdxByKey('n'); got != 3 {
		t.Fatalf("TabIdxByKey(n) = %d, want 3", got)
	}
	if got := TabIdxByKey('z'); got != -1 {
		t.Fatalf("TabIdxByKey(z) = %d, want -1", got)
	}
}
