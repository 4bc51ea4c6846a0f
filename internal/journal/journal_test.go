package journal

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/theirongolddev/msj/internal/model"
	"github.com/theirongolddev/msj/internal/store"
)

func TestProfitLoss(t *testing.T) {
	assert.Equal(t, 20.0, ProfitLoss(model.Long, 100, 110, 2))
	assert.Equal(t, -20.0, ProfitLoss(model.Short, 100, 110, 2))
	assert.Equal(t, 0.3, ProfitLoss(model.Long, 0.1, 0.4, 1), "decimal avoids 0.30000000000000004")
	assert.Equal(t, 1.5, ProfitLoss(model.Short, 1.2345, 1.2195, 100))
}

func TestNewTrade(t *testing.T) {
	tr, err := NewTrade(Input{Date: "2024-03-04", Symbol: " eurusd ", Type: "short", Entry: 1.1, Exit: 1.0, Quantity: 10, Notes: " fade "})
	require.NoError(t, err)
	assert.Equal(t, "EURUSD", tr.Symbol)
	assert.Equal(t, model.Short, tr.Type)
	assert.Equal(t, 1.0, tr.ProfitLoss)
	assert.Equal(t, "fade", tr.Notes)

	bad := []Input{
		{Date: "03/04/2024", Symbol: "A", Type: "Long", Quantity: 1},
		{Date: "2024-03-04", Symbol: "", Type: "Long", Quantity: 1},
		{Date: "2024-03-04", Symbol: "A", Type: "Flat", Quantity: 1},
		{Date: "2024-03-04", Symbol: "A", Type: "Long", Quantity: 0},
		{Date: "2024-03-04", Symbol: "A", Type: "Long", Entry: -1, Quantity: 1},
	}
	for _, in := range bad {
		_, err := NewTrade(in)
		assert.ErrorIs(t, err, ErrInvalidTrade, "%+v", in)
	}
}

func TestStats(t *testing.T) {
	trades := []model.Trade{
		{ProfitLoss: 25.5},
		{ProfitLoss: -10.25},
		{ProfitLoss: 0},
		{ProfitLoss: 4.5},
	}
	st := Stats("2024-03-04", trades)
	assert.Equal(t, model.DayStats{Date: "2024-03-04", TotalTrades: 4, Profit: 30, Loss: 10.25, Net: 19.75}, st)

	assert.Equal(t, model.DayStats{Date: "2024-03-05"}, Stats("2024-03-05", nil))
}

func TestSummarise(t *testing.T) {
	trades := []model.Trade{
		{Date: "2024-03-04", ProfitLoss: 10},
		{Date: "2024-03-04", ProfitLoss: -4},
		{Date: "2024-03-05", ProfitLoss: -8},
		{Date: "2024-03-06", ProfitLoss: 1},
	}
	ms, days := Summarise("2024-03", trades)
	assert.Equal(t, model.MonthStats{Month: "2024-03", DaysTraded: 3, WinDays: 2, Trades: 4, Net: -1}, ms)
	assert.Equal(t, 6.0, days["2024-03-04"].Net)
}

func TestJournalRoundTrip(t *testing.T) {
	db, err := store.Open(filepath.Join(t.TempDir(), "journal.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	j := New(db)

	a, err := j.Add(Input{Date: "2024-03-04", Symbol: "aapl", Type: "Long", Entry: 100, Exit: 105, Quantity: 3})
	require.NoError(t, err)
	_, err = j.Add(Input{Date: "2024-03-20", Symbol: "tsla", Type: "Short", Entry: 200, Exit: 210, Quantity: 1})
	require.NoError(t, err)
	_, err = j.Add(Input{Date: "2024-04-01", Symbol: "nvda", Type: "Long", Entry: 1, Exit: 2, Quantity: 1})
	require.NoError(t, err)

	trades, st, err := j.Day("2024-03-04")
	require.NoError(t, err)
	require.Len(t, trades, 1)
	assert.Equal(t, "AAPL", trades[0].Symbol)
	assert.Equal(t, 15.0, st.Net)

	ms, days, err := j.Month(2024, time.March)
	require.NoError(t, err)
	assert.Equal(t, 2, ms.DaysTraded)
	assert.Equal(t, 5.0, ms.Net)
	assert.Len(t, days, 2)

	require.NoError(t, j.Delete(a.ID))
	trades, _, err = j.Day("2024-03-04")
	require.NoError(t, err)
	assert.Empty(t, trades)
}
