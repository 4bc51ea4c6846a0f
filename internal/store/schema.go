package store

const schemaSQL = `
CREATE TABLE IF NOT EXISTS trades (
    id                   TEXT PRIMARY KEY,
    trade_date           TEXT NOT NULL,
    symbol               TEXT NOT NULL,
    side                 TEXT NOT NULL CHECK (side IN ('Long', 'Short')),
    entry_price          REAL NOT NULL,
    exit_price           REAL NOT NULL,
    quantity             REAL NOT NULL,
    profit_loss          REAL NOT NULL,
    notes                TEXT NOT NULL DEFAULT '',
    created_at           TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_trades_date ON trades(trade_date);
CREATE INDEX IF NOT EXISTS idx_trades_symbol ON trades(symbol);
`
