// Package store provides SQLite-backed persistence for the trade journal.
package store

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/theirongolddev/msj/internal/model"

	_ "modernc.org/sqlite" // register sqlite driver
)

// ErrNotFound is returned when a trade id does not exist.
var ErrNotFound = errors.New("trade not found")

// DB is the journal database.
type DB struct {
	db *sql.DB
}

// Open opens or creates the journal database at the given path.
func Open(dbPath string) (*DB, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, fmt.Errorf("creating data dir: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(wal)&_pragma=synchronous(normal)&_pragma=foreign_keys(on)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening journal db: %w", err)
	}

	if _, err := db.Exec(schemaSQL); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}

	return &DB{db: db}, nil
}

// Close closes the journal database.
func (d *DB) Close() error {
	return d.db.Close()
}

// InsertTrade stores t, assigning an id and timestamp when they are empty.
// It returns the stored trade.
func (d *DB) InsertTrade(t model.Trade) (model.Trade, error) {
	if t.ID == "" {
		t.ID = uuid.NewString()
	}
	if t.Timestamp.IsZero() {
		t.Timestamp = time.Now()
	}
	t.Timestamp = t.Timestamp.UTC()

	_, err := d.db.Exec(`INSERT INTO trades
		(id, trade_date, symbol, side, entry_price, exit_price, quantity, profit_loss, notes, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		t.ID, t.Date, t.Symbol, string(t.Type), t.Entry, t.Exit, t.Quantity, t.ProfitLoss, t.Notes,
		t.Timestamp.Format(time.RFC3339Nano),
	)
	if err != nil {
		return model.Trade{}, fmt.Errorf("inserting trade: %w", err)
	}
	return t, nil
}

// DeleteTrade removes the trade with the given id.
func (d *DB) DeleteTrade(id string) error {
	res, err := d.db.Exec("DELETE FROM trades WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("deleting trade: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return nil
}

// GetTrade returns the trade with the given id.
func (d *DB) GetTrade(id string) (model.Trade, error) {
	rows, err := d.db.Query(selectTrades+" WHERE id = ?", id)
	if err != nil {
		return model.Trade{}, err
	}
	trades, err := scanTrades(rows)
	if err != nil {
		return model.Trade{}, err
	}
	if len(trades) == 0 {
		return model.Trade{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return trades[0], nil
}

// TradesOn returns the trades of one day (YYYY-MM-DD) in insertion order.
func (d *DB) TradesOn(date string) ([]model.Trade, error) {
	rows, err := d.db.Query(selectTrades+" WHERE trade_date = ? ORDER BY created_at, id", date)
	if err != nil {
		return nil, err
	}
	return scanTrades(rows)
}

// TradesBetween returns trades with from <= date <= to, oldest first.
func (d *DB) TradesBetween(from, to string) ([]model.Trade, error) {
	rows, err := d.db.Query(selectTrades+" WHERE trade_date >= ? AND trade_date <= ? ORDER BY trade_date, created_at, id", from, to)
	if err != nil {
		return nil, err
	}
	return scanTrades(rows)
}

// TradeCounts returns the number of trades per day for from <= date <= to.
func (d *DB) TradeCounts(from, to string) (map[string]int, error) {
	rows, err := d.db.Query(`SELECT trade_date, COUNT(*) FROM trades
		WHERE trade_date >= ? AND trade_date <= ? GROUP BY trade_date`, from, to)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	out := make(map[string]int)
	for rows.Next() {
		var date string
		var n int
		if err := rows.Scan(&date, &n); err != nil {
			return nil, err
		}
		out[date] = n
	}
	return out, rows.Err()
}

const selectTrades = `SELECT id, trade_date, symbol, side, entry_price, exit_price,
	quantity, profit_loss, notes, created_at FROM trades`

func scanTrades(rows *sql.Rows) ([]model.Trade, error) {
	defer func() { _ = rows.Close() }()

	var out []model.Trade
	for rows.Next() {
		var t model.Trade
		var side, created string
		if err := rows.Scan(&t.ID, &t.Date, &t.Symbol, &side, &t.Entry, &t.Exit,
			&t.Quantity, &t.ProfitLoss, &t.Notes, &created); err != nil {
			return nil, err
		}
		t.Type = model.Side(side)
		t.Timestamp, _ = time.Parse(time.RFC3339Nano, created)
		out = append(out, t)
	}
	return out, rows.Err()
}
