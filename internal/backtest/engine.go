// Package backtest replays the signal rule over a historical series against
// a fresh ledger, never touching the live portfolio.
package backtest

import (
	"fmt"

	"nifty-signals/internal/model"
	"nifty-signals/internal/signal"
)

type Engine struct {
	signals *signal.Engine
	capital float64
}

// New builds a backtest engine with the given rule config and initial capital.
func New(cfg signal.Config, initialCapital float64) (*Engine, error) {
	if initialCapital <= 0 {
		return nil, fmt.Errorf("initial capital must be > 0, got %.2f", initialCapital)
	}
	eng, err := signal.New(cfg)
	if err != nil {
		return nil, err
	}
	return &Engine{signals: eng, capital: initialCapital}, nil
}

// Run replays the series bar-by-bar. A BUY while flat allocates all available
// cash; a SELL while holding liquidates the full position; both execute at
// that bar's close. Identical input and config produce an identical Result:
// nothing here reads the clock or any state outside the arguments.
func (e *Engine) Run(symbol string, series model.Series) (*Result, error) {
	signals, err := e.signals.EvaluateSeries(series)
	if err != nil {
		return nil, fmt.Errorf("backtest %s: %w", symbol, err)
	}

	p := model.NewPortfolio(e.capital)
	equity := make([]EquityRow, 0, len(series)-1)

	for i := 1; i < len(series); i++ {
		bar := series[i]
		price := bar.Close

		switch signals[i] {
		case model.SignalBuy:
			if p.Holdings[symbol].Shares == 0 {
				shares := int64(p.Cash / price)
				if shares > 0 {
					if _, err := p.Buy(symbol, shares, price, bar.Timestamp); err != nil {
						return nil, fmt.Errorf("backtest %s bar %d: %w", symbol, i, err)
					}
				}
			}
		case model.SignalSell:
			if p.Holdings[symbol].Shares > 0 {
				if _, err := p.Sell(symbol, price, bar.Timestamp); err != nil {
					return nil, fmt.Errorf("backtest %s bar %d: %w", symbol, i, err)
				}
			}
		}

		shares := p.Holdings[symbol].Shares
		equity = append(equity, EquityRow{
			Index:     i,
			Timestamp: bar.Timestamp,
			Close:     price,
			Signal:    signals[i],
			Cash:      p.Cash,
			Shares:    shares,
			Equity:    p.Cash + float64(shares)*price,
		})
	}

	final := equity[len(equity)-1].Equity
	res := &Result{
		Symbol:            symbol,
		StartDate:         series[0].Timestamp,
		EndDate:           series.Last().Timestamp,
		InitialCapital:    e.capital,
		FinalValue:        final,
		StrategyReturnPct: (final/e.capital - 1) * 100,
		BuyHoldReturnPct:  BuyHoldReturn(series),
		MaxDrawdownPct:    maxDrawdown(equity),
		Trades:            p.TradeLog,
		Equity:            equity,
	}
	return res, nil
}

// BuyHoldReturn is the benchmark percent return of a single purchase at the
// first close held through the last close.
func BuyHoldReturn(series model.Series) float64 {
	if len(series) < 2 || series[0].Close == 0 {
		return 0
	}
	return (series.Last().Close/series[0].Close - 1) * 100
}

// maxDrawdown is the simplified peak-to-trough loss over the equity curve.
func maxDrawdown(equity []EquityRow) float64 {
	if len(equity) == 0 {
		return 0
	}
	peak, trough := equity[0].Equity, equity[0].Equity
	for _, row := range equity {
		if row.Equity > peak {
			peak = row.Equity
		}
		if row.Equity < trough {
			trough = row.Equity
		}
	}
	if peak <= 0 {
		return 0
	}
	return (peak - trough) / peak * 100
}
