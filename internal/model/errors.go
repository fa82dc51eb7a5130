package model

import "errors"

// Sentinel errors shared across the signal engine and simulators.
// Callers match with errors.Is.
var (
	// ErrInsufficientData means a price series is shorter than the minimum
	// lookback window required by the active strategy.
	ErrInsufficientData = errors.New("insufficient price data for lookback window")

	// ErrInvalidData means a series contains NaN/Inf values, missing bars,
	// or out-of-order timestamps. Rejected before any indicator math.
	ErrInvalidData = errors.New("invalid price data")

	// ErrInsufficientFunds means a buy could not be afforded. Not fatal:
	// the trade is skipped.
	ErrInsufficientFunds = errors.New("insufficient funds")

	// ErrNoPosition means a sell was requested for a symbol with no open holding.
	ErrNoPosition = errors.New("no open position")
)
