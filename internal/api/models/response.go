package models

import (
	"time"

	"nifty-signals/internal/backtest"
	"nifty-signals/internal/model"
	"nifty-signals/internal/paper"
	"nifty-signals/internal/signal"
)

// ErrorResponse is the envelope for all API errors
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

// ErrorDetail contains error information
type ErrorDetail struct {
	Code    string                 `json:"code"`
	Message string                 `json:"message"`
	Details map[string]interface{} `json:"details,omitempty"`
}

// SignalsResponse is the response for GET /api/v1/signals
type SignalsResponse struct {
	AsOf    time.Time               `json:"as_of"`
	Signals []signal.Recommendation `json:"signals"`
	Skipped []SkippedSymbol         `json:"skipped,omitempty"`
}

// SkippedSymbol records a symbol that could not be evaluated
type SkippedSymbol struct {
	Symbol string `json:"symbol"`
	Reason string `json:"reason"`
}

// PortfolioResponse is the response for GET /api/v1/portfolio
type PortfolioResponse struct {
	Snapshot model.PortfolioSnapshot `json:"snapshot"`
	Trades   []model.Trade           `json:"trades,omitempty"`
	// PricesLive is false when quotes could not be fetched and holdings
	// are valued at cost basis.
	PricesLive bool `json:"prices_live"`
}

// BacktestResponse is the response for POST /api/v1/backtest
type BacktestResponse struct {
	ID     string           `json:"id"`
	Status string           `json:"status"`
	Result *backtest.Result `json:"result"`
}

// StrategyResponse describes the active strategy configuration
type StrategyResponse struct {
	Signal  signal.Config `json:"signal"`
	Sizing  paper.Sizing  `json:"sizing"`
	MinBars int           `json:"min_bars"`
}
