package cli

import (
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/charmbracelet/lipgloss"

	"github.com/theirongolddev/msj/internal/calendar"
	"github.com/theirongolddev/msj/internal/growth"
	"github.com/theirongolddev/msj/internal/model"
)

func TestFormatMoney(t *testing.T) {
	usd := model.Currency{Code: "USD", Symbol: "$"}
	tests := []struct {
		amount float64
		cur    model.Currency
		want   string
	}{
		{0, usd, "$0.00"},
		{1234.5, usd, "$1,234.50"},
		{1000000, usd, "$1,000,000.00"},
		{-42.1, usd, "-$42.10"},
		{0.125, usd, "$0.13"},
		{10, model.Currency{Code: "EUR", Symbol: "€"}, "€10.00"},
		{1500, model.Currency{Code: "JPY"}, "¥1,500.00"},
	}
	for _, tt := range tests {
		if got := FormatMoney(tt.amount, tt.cur); got != tt.want {
			t.Errorf("FormatMoney(%v, %s) = %q, want %q", tt.amount, tt.cur.Code, got, tt.want)
		}
	}
}

func TestFormatDelta(t *testing.T) {
	usd := model.Currency{Code: "USD", Symbol: "$"}
	if got := FormatDelta(5.25, usd); got != "+$5.25" {
		t.Fatalf("FormatDelta(5.25) = %q, want %q", got, "+$5.25")
	}
	if got := FormatDelta(-5.25, usd); got != "-$5.25" {
		t.Fatalf("FormatDelta(-5.25) = %q, want %q", got, "-$5.25")
	}
}

func TestFormatNumber(t *testing.T) {
	tests := []struct {
		n    int64
		want string
	}{
		{0, "0"},
		{999, "999"},
		{1234567, "1,234,567"},
		{-1000, "-1,000"},
	}
	for _, tt := range tests {
		if got := FormatNumber(tt.n); got != tt.want {
			t.Errorf("FormatNumber(%d) = %q, want %q", tt.n, got, tt.want)
		}
	}
}

func TestFormatRate(t *testing.T) {
	if got := FormatRate(0.5, "month"); got != "0.5% / month" {
		t.Fatalf("FormatRate = %q", got)
	}
}

func TestTruncate(t *testing.T) {
	if got := Truncate("short", 10); got != "short" {
		t.Fatalf("Truncate(short) = %q", got)
	}
	got := Truncate("a much longer title", 8)
	if utf8.RuneCountInString(got) > 8 || !strings.HasSuffix(got, "…") {
		t.Fatalf("Truncate = %q, want at most 8 runes ending in an ellipsis", got)
	}
}

func TestRenderSparkline(t *testing.T) {
	got := RenderSparkline([]float64{1, 2, 3, 4, 5, 6, 7, 8}, 8)
	if got != "▁▂▃▄▅▆▇█" {
		t.Fatalf("RenderSparkline = %q", got)
	}
	long := make([]float64, 1000)
	for i := range long {
		long[i] = float64(i)
	}
	if n := utf8.RuneCountInString(RenderSparkline(long, 20)); n != 20 {
		t.Fatalf("sampled sparkline has %d runes, want 20", n)
	}
	if RenderSparkline(nil, 10) != "" {
		t.Fatal("empty series should render nothing")
	}
}

func TestRenderMonthShowsAmounts(t *testing.T) {
	entries := []growth.Entry{
		{DayIndex: 1, Date: time.Date(2024, time.March, 4, 0, 0, 0, 0, time.UTC), Amount: 100},
		{DayIndex: 2, Date: time.Date(2024, time.March, 5, 0, 0, 0, 0, time.UTC), Amount: 105},
	}
	months := calendar.Build(entries, model.DefaultProgress(), time.Date(2024, time.March, 1, 0, 0, 0, 0, time.UTC))
	out := RenderMonth(months[0], model.Currency{Code: "USD", Symbol: "$"})
	for _, want := range []string{"March 2024", "$100.00", "$105.00", "Sun"} {
		if !strings.Contains(out, want) {
			t.Errorf("RenderMonth output missing %q", want)
		}
	}
}

func TestRenderJournalMonth(t *testing.T) {
	days := map[string]model.DayStats{
		"2024-03-04": {Date: "2024-03-04", TotalTrades: 2, Net: -12.5},
	}
	out := RenderJournalMonth(2024, time.March, time.Time{}, days)
	if !strings.Contains(out, "-12.50") {
		t.Fatalf("journal month missing day net:\n%s", out)
	}
}

func TestRenderTableAlignsMultibyteCells(t *testing.T) {
	out := RenderTable(Table{
		Headers: []string{"Metric", "Value"},
		Rows: [][]string{
			{"Final", "€1,234.50"},
			{"---"},
			{"Growth", "+¥10.00"},
		},
	})
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	want := lipgloss.Width(lines[0])
	for i, l := range lines {
		if w := lipgloss.Width(l); w != want {
			t.Fatalf("line %d width = %d, want %d:\n%s", i, w, want, out)
		}
	}
}
