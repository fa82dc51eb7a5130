package backtest

import (
	"time"

	"nifty-signals/internal/model"
)

// EquityRow is one bar of per-bar output: the signal applied and the
// resulting ledger state. This is the primary artifact for "what happened"
// in a backtest.
type EquityRow struct {
	Index     int          `json:"index"`
	Timestamp time.Time    `json:"timestamp"`
	Close     float64      `json:"close"`
	Signal    model.Signal `json:"signal"`
	Cash      float64      `json:"cash"`
	Shares    int64        `json:"shares"`
	Equity    float64      `json:"equity"`
}

// Result is the outcome of one backtest invocation. Read-only thereafter.
type Result struct {
	Symbol            string        `json:"symbol"`
	StartDate         time.Time     `json:"start_date"`
	EndDate           time.Time     `json:"end_date"`
	InitialCapital    float64       `json:"initial_capital"`
	FinalValue        float64       `json:"final_value"`
	StrategyReturnPct float64       `json:"strategy_return_pct"`
	BuyHoldReturnPct  float64       `json:"buy_and_hold_return_pct"`
	MaxDrawdownPct    float64       `json:"max_drawdown_pct"`
	Trades            []model.Trade `json:"trades"`
	Equity            []EquityRow   `json:"equity,omitempty"`
}
