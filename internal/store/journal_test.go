package store

import (
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/theirongolddev/msj/internal/model"
)

func openTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := Open(filepath.Join(t.TempDir(), "nested", "journal.db"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func trade(date, symbol string, at time.Time) model.Trade {
	return model.Trade{
		Date:       date,
		Symbol:     symbol,
		Type:       model.Long,
		Entry:      10,
		Exit:       12,
		Quantity:   5,
		ProfitLoss: 10,
		Timestamp:  at,
	}
}

func TestInsertAndQuery(t *testing.T) {
	db := openTestDB(t)
	base := time.Date(2024, 3, 4, 9, 0, 0, 0, time.UTC)

	first, err := db.InsertTrade(trade("2024-03-04", "AAPL", base))
	if err != nil {
		t.Fatalf("InsertTrade: %v", err)
	}
	if first.ID == "" {
		t.Fatal("InsertTrade did not assign an id")
	}
	if _, err := db.InsertTrade(trade("2024-03-04", "MSFT", base.Add(time.Minute))); err != nil {
		t.Fatalf("InsertTrade: %v", err)
	}
	if _, err := db.InsertTrade(trade("2024-03-09", "TSLA", base)); err != nil {
		t.Fatalf("InsertTrade: %v", err)
	}

	day, err := db.TradesOn("2024-03-04")
	if err != nil {
		t.Fatalf("TradesOn: %v", err)
	}
	if len(day) != 2 || day[0].Symbol != "AAPL" || day[1].Symbol != "MSFT" {
		t.Fatalf("TradesOn = %+v, want AAPL then MSFT", day)
	}
	if !day[0].Timestamp.Equal(base) {
		t.Errorf("Timestamp = %v, want %v", day[0].Timestamp, base)
	}
	if day[0].Type != model.Long || day[0].ProfitLoss != 10 {
		t.Errorf("trade = %+v", day[0])
	}

	month, err := db.TradesBetween("2024-03-01", "2024-03-31")
	if err != nil {
		t.Fatalf("TradesBetween: %v", err)
	}
	if len(month) != 3 || month[2].Symbol != "TSLA" {
		t.Fatalf("TradesBetween = %+v", month)
	}

	counts, err := db.TradeCounts("2024-03-01", "2024-03-31")
	if err != nil {
		t.Fatalf("TradeCounts: %v", err)
	}
	if counts["2024-03-04"] != 2 || counts["2024-03-09"] != 1 {
		t.Fatalf("TradeCounts = %v", counts)
	}

	got, err := db.GetTrade(first.ID)
	if err != nil {
		t.Fatalf("GetTrade: %v", err)
	}
	if got.Symbol != "AAPL" {
		t.Errorf("GetTrade.Symbol = %q, want AAPL", got.Symbol)
	}
}

func TestDeleteTrade(t *testing.T) {
	db := openTestDB(t)
	tr, err := db.InsertTrade(trade("2024-03-04", "AAPL", time.Time{}))
	if err != nil {
		t.Fatalf("InsertTrade: %v", err)
	}

	if err := db.DeleteTrade(tr.ID); err != nil {
		t.Fatalf("DeleteTrade: %v", err)
	}
	if err := db.DeleteTrade(tr.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("second DeleteTrade = %v, want ErrNotFound", err)
	}
	if _, err := db.GetTrade(tr.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("GetTrade after delete = %v, want ErrNotFound", err)
	}
}

func TestRejectsUnknownSide(t *testing.T) {
	db := openTestDB(t)
	bad := trade("2024-03-04", "AAPL", time.Time{})
	bad.Type = "Sideways"
	if _, err := db.InsertTrade(bad); err == nil {
		t.Fatal("InsertTrade accepted an unknown side")
	}
}
