package store

import (
	"database/sql"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"nifty-signals/internal/model"
)

// SQLiteStore keeps the portfolio in a local sqlite database: one account row,
// one row per holding, an append-only trades table. Saves run in a single
// transaction so stored state is never partial.
type SQLiteStore struct {
	db          *sql.DB
	path        string
	initialCash float64
}

func NewSQLiteStore(path string, initialCash float64) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, &PersistenceError{Op: "load", Path: path, Err: err}
	}

	schema := `
    CREATE TABLE IF NOT EXISTS account (
        id INTEGER PRIMARY KEY CHECK (id = 1),
        cash REAL NOT NULL
    );

    CREATE TABLE IF NOT EXISTS holdings (
        symbol TEXT PRIMARY KEY,
        shares INTEGER NOT NULL,
        avg_price REAL NOT NULL
    );

    CREATE TABLE IF NOT EXISTS trades (
        id INTEGER PRIMARY KEY AUTOINCREMENT,
        timestamp DATETIME NOT NULL,
        symbol TEXT NOT NULL,
        action TEXT NOT NULL,
        shares INTEGER NOT NULL,
        price REAL NOT NULL,
        total REAL NOT NULL,
        pnl REAL NOT NULL DEFAULT 0
    );

    CREATE INDEX IF NOT EXISTS idx_trades_symbol ON trades(symbol);
    `
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, &PersistenceError{Op: "load", Path: path, Err: err}
	}

	return &SQLiteStore{db: db, path: path, initialCash: initialCash}, nil
}

func (s *SQLiteStore) Load() (*model.Portfolio, error) {
	p := model.NewPortfolio(s.initialCash)

	var cash float64
	err := s.db.QueryRow(`SELECT cash FROM account WHERE id = 1`).Scan(&cash)
	switch {
	case err == sql.ErrNoRows:
		// No prior state; start fresh.
		return p, nil
	case err != nil:
		return nil, &PersistenceError{Op: "load", Path: s.path, Err: err}
	}
	p.Cash = cash

	rows, err := s.db.Query(`SELECT symbol, shares, avg_price FROM holdings`)
	if err != nil {
		return nil, &PersistenceError{Op: "load", Path: s.path, Err: err}
	}
	defer rows.Close()
	for rows.Next() {
		var h model.Holding
		if err := rows.Scan(&h.Symbol, &h.Shares, &h.AvgPrice); err != nil {
			return nil, &PersistenceError{Op: "load", Path: s.path, Err: err}
		}
		p.Holdings[h.Symbol] = h
	}
	if err := rows.Err(); err != nil {
		return nil, &PersistenceError{Op: "load", Path: s.path, Err: err}
	}

	trows, err := s.db.Query(`SELECT timestamp, symbol, action, shares, price, total, pnl FROM trades ORDER BY id ASC`)
	if err != nil {
		return nil, &PersistenceError{Op: "load", Path: s.path, Err: err}
	}
	defer trows.Close()
	for trows.Next() {
		var t model.Trade
		var ts time.Time
		var action string
		if err := trows.Scan(&ts, &t.Symbol, &action, &t.Shares, &t.Price, &t.Total, &t.PnL); err != nil {
			return nil, &PersistenceError{Op: "load", Path: s.path, Err: err}
		}
		t.Timestamp = ts
		t.Action = model.Signal(action)
		p.TradeLog = append(p.TradeLog, t)
	}
	if err := trows.Err(); err != nil {
		return nil, &PersistenceError{Op: "load", Path: s.path, Err: err}
	}

	return p, nil
}

func (s *SQLiteStore) Save(p *model.Portfolio) error {
	tx, err := s.db.Begin()
	if err != nil {
		return &PersistenceError{Op: "save", Path: s.path, Err: err}
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`INSERT INTO account (id, cash) VALUES (1, ?)
        ON CONFLICT(id) DO UPDATE SET cash = excluded.cash`, p.Cash); err != nil {
		return &PersistenceError{Op: "save", Path: s.path, Err: err}
	}

	if _, err := tx.Exec(`DELETE FROM holdings`); err != nil {
		return &PersistenceError{Op: "save", Path: s.path, Err: err}
	}
	for _, h := range p.Holdings {
		if _, err := tx.Exec(`INSERT INTO holdings (symbol, shares, avg_price) VALUES (?, ?, ?)`,
			h.Symbol, h.Shares, h.AvgPrice); err != nil {
			return &PersistenceError{Op: "save", Path: s.path, Err: err}
		}
	}

	// Trades are append-only; replace wholesale to keep save idempotent.
	if _, err := tx.Exec(`DELETE FROM trades`); err != nil {
		return &PersistenceError{Op: "save", Path: s.path, Err: err}
	}
	for _, t := range p.TradeLog {
		if _, err := tx.Exec(`INSERT INTO trades (timestamp, symbol, action, shares, price, total, pnl)
            VALUES (?, ?, ?, ?, ?, ?, ?)`,
			t.Timestamp, t.Symbol, string(t.Action), t.Shares, t.Price, t.Total, t.PnL); err != nil {
			return &PersistenceError{Op: "save", Path: s.path, Err: err}
		}
	}

	if err := tx.Commit(); err != nil {
		return &PersistenceError{Op: "save", Path: s.path, Err: err}
	}
	return nil
}

func (s *SQLiteStore) Close() error { return s.db.Close() }
