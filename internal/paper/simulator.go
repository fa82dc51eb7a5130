// Package paper applies the latest per-instrument signals to a persisted
// portfolio, producing at most one trade per instrument per invocation.
package paper

import (
	"errors"
	"fmt"
	"log"
	"math"
	"time"

	"nifty-signals/internal/model"
	"nifty-signals/internal/signal"
)

// Sizing holds the position-sizing constants. A buy invests
// min(cash * AllocationFraction, MaxTradeValue), rounded down to whole shares.
type Sizing struct {
	InitialCash        float64 `yaml:"initial_cash" json:"initial_cash"`
	AllocationFraction float64 `yaml:"allocation_fraction" json:"allocation_fraction"`
	MaxTradeValue      float64 `yaml:"max_trade_value" json:"max_trade_value"`
}

func DefaultSizing() Sizing {
	return Sizing{
		InitialCash:        100000,
		AllocationFraction: 0.10,
		MaxTradeValue:      10000,
	}
}

func (s Sizing) Validate() error {
	if s.InitialCash <= 0 {
		return fmt.Errorf("initial_cash must be > 0, got %.2f", s.InitialCash)
	}
	if s.AllocationFraction <= 0 || s.AllocationFraction > 1 {
		return fmt.Errorf("allocation_fraction must be in (0, 1], got %.3f", s.AllocationFraction)
	}
	if s.MaxTradeValue <= 0 {
		return fmt.Errorf("max_trade_value must be > 0, got %.2f", s.MaxTradeValue)
	}
	return nil
}

// Shares is the whole-share quantity the sizing rule affords at price.
func (s Sizing) Shares(cash, price float64) int64 {
	budget := math.Min(cash*s.AllocationFraction, s.MaxTradeValue)
	if budget > cash {
		budget = cash
	}
	if price <= 0 {
		return 0
	}
	return int64(budget / price)
}

type Simulator struct {
	sizing Sizing
}

func New(sizing Sizing) (*Simulator, error) {
	if err := sizing.Validate(); err != nil {
		return nil, fmt.Errorf("sizing invalid: %w", err)
	}
	return &Simulator{sizing: sizing}, nil
}

func (s *Simulator) Sizing() Sizing { return s.sizing }

// Apply executes the recommendations against the portfolio, in order.
// BUY opens a position only when none exists; SELL liquidates the full
// holding; HOLD does nothing. Unaffordable or unpriced instruments are
// skipped, never fatal. Returns the trades executed this invocation.
func (s *Simulator) Apply(p *model.Portfolio, recs []signal.Recommendation, prices map[string]float64, now time.Time) []model.Trade {
	executed := make([]model.Trade, 0, len(recs))

	for _, rec := range recs {
		price, ok := prices[rec.Symbol]
		if !ok || price <= 0 {
			log.Printf("[Paper] Skipping %s: no current price", rec.Symbol)
			continue
		}

		switch rec.Signal {
		case model.SignalBuy:
			if h, open := p.Holdings[rec.Symbol]; open && h.Shares > 0 {
				log.Printf("[Paper] Skipping BUY %s: position already open (%d shares)", rec.Symbol, h.Shares)
				continue
			}
			shares := s.sizing.Shares(p.Cash, price)
			if shares <= 0 {
				log.Printf("[Paper] Skipping BUY %s: budget below one share at %.2f", rec.Symbol, price)
				continue
			}
			trade, err := p.Buy(rec.Symbol, shares, price, now)
			if err != nil {
				if errors.Is(err, model.ErrInsufficientFunds) {
					log.Printf("[Paper] Skipping BUY %s: %v", rec.Symbol, err)
					continue
				}
				log.Printf("[Paper] BUY %s failed: %v", rec.Symbol, err)
				continue
			}
			executed = append(executed, trade)
			log.Printf("[Paper] BOUGHT %d %s @ %.2f", trade.Shares, trade.Symbol, trade.Price)

		case model.SignalSell:
			trade, err := p.Sell(rec.Symbol, price, now)
			if err != nil {
				if errors.Is(err, model.ErrNoPosition) {
					log.Printf("[Paper] Skipping SELL %s: no open position", rec.Symbol)
					continue
				}
				log.Printf("[Paper] SELL %s failed: %v", rec.Symbol, err)
				continue
			}
			executed = append(executed, trade)
			log.Printf("[Paper] SOLD %d %s @ %.2f (P/L: %.2f)", trade.Shares, trade.Symbol, trade.Price, trade.PnL)
		}
	}

	return executed
}
