package models

import (
	"nifty-signals/internal/model"
	"nifty-signals/internal/signal"
)

// BacktestRequest is the payload for POST /api/v1/backtest.
//
// Bars may be supplied inline; when omitted the server reads the symbol's
// daily bars from its parquet archive.
type BacktestRequest struct {
	Symbol         string           `json:"symbol" binding:"required"`
	Bars           []model.PriceBar `json:"bars,omitempty"`
	InitialCapital float64          `json:"initial_capital,omitempty"`
	IncludeEquity  bool             `json:"include_equity,omitempty"`
	Signal         *signal.Config   `json:"signal,omitempty"`
}
