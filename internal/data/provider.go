package data

import "nifty-signals/internal/model"

// Provider supplies the daily bar history for one symbol, oldest first.
// Satisfied by Client (live API), Archive (parquet), and test fixtures.
type Provider interface {
	DailyBars(symbol string) (model.Series, error)
}
