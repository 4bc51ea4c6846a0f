// Package journal records trades by day and summarises their profit and loss.
package journal

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/theirongolddev/msj/internal/model"
	"github.com/theirongolddev/msj/internal/store"
)

// ErrInvalidTrade wraps every validation failure of NewTrade.
var ErrInvalidTrade = errors.New("invalid trade")

// Input is a trade as entered by the user.
type Input struct {
	Date     string
	Symbol   string
	Type     string
	Entry    float64
	Exit     float64
	Quantity float64
	Notes    string
}

// ProfitLoss is (exit-entry)*qty for longs and (entry-exit)*qty for shorts,
// computed in decimal and rounded to cents.
func ProfitLoss(side model.Side, entry, exit, qty float64) float64 {
	e := decimal.NewFromFloat(entry)
	x := decimal.NewFromFloat(exit)
	q := decimal.NewFromFloat(qty)

	diff := x.Sub(e)
	if side == model.Short {
		diff = e.Sub(x)
	}
	return diff.Mul(q).Round(2).InexactFloat64()
}

// ParseSide accepts "long"/"short" in any case.
func ParseSide(s string) (model.Side, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "long":
		return model.Long, nil
	case "short":
		return model.Short, nil
	default:
		return "", fmt.Errorf("%w: type must be Long or Short, got %q", ErrInvalidTrade, s)
	}
}

// NewTrade validates in and returns the trade to store. The symbol is upper-cased.
func NewTrade(in Input) (model.Trade, error) {
	if _, err := time.Parse(model.DateLayout, in.Date); err != nil {
		return model.Trade{}, fmt.Errorf("%w: date must be YYYY-MM-DD, got %q", ErrInvalidTrade, in.Date)
	}
	symbol := strings.ToUpper(strings.TrimSpace(in.Symbol))
	if symbol == "" {
		return model.Trade{}, fmt.Errorf("%w: symbol is required", ErrInvalidTrade)
	}
	side, err := ParseSide(in.Type)
	if err != nil {
		return model.Trade{}, err
	}
	if in.Entry < 0 || in.Exit < 0 {
		return model.Trade{}, fmt.Errorf("%w: prices must not be negative", ErrInvalidTrade)
	}
	if in.Quantity <= 0 {
		return model.Trade{}, fmt.Errorf("%w: quantity must be positive", ErrInvalidTrade)
	}

	return model.Trade{
		Date:       in.Date,
		Symbol:     symbol,
		Type:       side,
		Entry:      in.Entry,
		Exit:       in.Exit,
		Quantity:   in.Quantity,
		ProfitLoss: ProfitLoss(side, in.Entry, in.Exit, in.Quantity),
		Notes:      strings.TrimSpace(in.Notes),
	}, nil
}

// Stats summarises the trades of one day. Zero P/L trades count toward loss.
func Stats(date string, trades []model.Trade) model.DayStats {
	profit := decimal.Zero
	loss := decimal.Zero
	for _, t := range trades {
		pl := decimal.NewFromFloat(t.ProfitLoss)
		if pl.IsPositive() {
			profit = profit.Add(pl)
		} else {
			loss = loss.Add(pl.Abs())
		}
	}
	return model.DayStats{
		Date:        date,
		TotalTrades: len(trades),
		Profit:      profit.InexactFloat64(),
		Loss:        loss.InexactFloat64(),
		Net:         profit.Sub(loss).InexactFloat64(),
	}
}

// Summarise groups trades by date and totals the month.
func Summarise(month string, trades []model.Trade) (model.MonthStats, map[string]model.DayStats) {
	byDate := make(map[string][]model.Trade)
	for _, t := range trades {
		byDate[t.Date] = append(byDate[t.Date], t)
	}

	days := make(map[string]model.DayStats, len(byDate))
	ms := model.MonthStats{Month: month}
	net := decimal.Zero
	for date, ts := range byDate {
		st := Stats(date, ts)
		days[date] = st
		ms.DaysTraded++
		ms.Trades += st.TotalTrades
		if st.Net > 0 {
			ms.WinDays++
		}
		net = net.Add(decimal.NewFromFloat(st.Net))
	}
	ms.Net = net.InexactFloat64()
	return ms, days
}

// Journal ties validation and statistics to the trade database.
type Journal struct {
	db *store.DB
}

// New returns a Journal backed by db.
func New(db *store.DB) *Journal {
	return &Journal{db: db}
}

// Add validates and stores a trade.
func (j *Journal) Add(in Input) (model.Trade, error) {
	t, err := NewTrade(in)
	if err != nil {
		return model.Trade{}, err
	}
	return j.db.InsertTrade(t)
}

// Delete removes a trade by id.
func (j *Journal) Delete(id string) error {
	return j.db.DeleteTrade(id)
}

// Day returns one day's trades and their stats.
func (j *Journal) Day(date string) ([]model.Trade, model.DayStats, error) {
	trades, err := j.db.TradesOn(date)
	if err != nil {
		return nil, model.DayStats{}, fmt.Errorf("loading trades: %w", err)
	}
	return trades, Stats(date, trades), nil
}

// Month returns the month summary and per-day stats for year/month.
func (j *Journal) Month(year int, month time.Month) (model.MonthStats, map[string]model.DayStats, error) {
	first := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	last := first.AddDate(0, 1, -1)
	trades, err := j.db.TradesBetween(first.Format(model.DateLayout), last.Format(model.DateLayout))
	if err != nil {
		return model.MonthStats{}, nil, fmt.Errorf("loading trades: %w", err)
	}
	ms, days := Summarise(first.Format("2006-01"), trades)
	return ms, days, nil
}
