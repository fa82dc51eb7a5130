package model

import (
	"fmt"
	"time"
)

// Holding is an open position in one instrument.
// Shares == 0 means the position is closed; AvgPrice is meaningful only
// while Shares > 0.
type Holding struct {
	Symbol   string  `json:"symbol"`
	Shares   int64   `json:"shares"`
	AvgPrice float64 `json:"avg_price"`
}

// UnrealizedPnL marks the holding to the given price.
func (h Holding) UnrealizedPnL(currentPrice float64) float64 {
	return (currentPrice - h.AvgPrice) * float64(h.Shares)
}

// Trade is an immutable execution record. Total = Shares * Price.
type Trade struct {
	Timestamp time.Time `json:"timestamp"`
	Symbol    string    `json:"symbol"`
	Action    Signal    `json:"action"`
	Shares    int64     `json:"shares"`
	Price     float64   `json:"price"`
	Total     float64   `json:"total"`
	// PnL is realized profit/loss, set on SELL trades only.
	PnL float64 `json:"pnl,omitempty"`
}

// Portfolio is the simulated cash/holdings ledger. It is owned by a single
// writer for the duration of one invocation; trades are appended in the order
// signals are processed and never rewritten.
type Portfolio struct {
	Cash     float64            `json:"cash"`
	Holdings map[string]Holding `json:"holdings"`
	TradeLog []Trade            `json:"trade_log"`
}

func NewPortfolio(initialCash float64) *Portfolio {
	return &Portfolio{
		Cash:     initialCash,
		Holdings: map[string]Holding{},
	}
}

// Buy purchases shares at price, debiting cash and folding the new lot into
// the holding at a weighted-average cost basis. Fails with
// ErrInsufficientFunds when the cost exceeds available cash; cash never goes
// negative.
func (p *Portfolio) Buy(symbol string, shares int64, price float64, ts time.Time) (Trade, error) {
	if shares <= 0 {
		return Trade{}, fmt.Errorf("buy %s: shares must be > 0", symbol)
	}
	if price <= 0 {
		return Trade{}, fmt.Errorf("buy %s: price must be > 0", symbol)
	}
	cost := float64(shares) * price
	if cost > p.Cash {
		return Trade{}, fmt.Errorf("buy %d %s @ %.2f costs %.2f with %.2f cash: %w",
			shares, symbol, price, cost, p.Cash, ErrInsufficientFunds)
	}

	p.Cash -= cost
	h := p.Holdings[symbol]
	totalShares := h.Shares + shares
	totalCost := float64(h.Shares)*h.AvgPrice + cost
	p.Holdings[symbol] = Holding{
		Symbol:   symbol,
		Shares:   totalShares,
		AvgPrice: totalCost / float64(totalShares),
	}

	t := Trade{Timestamp: ts, Symbol: symbol, Action: SignalBuy, Shares: shares, Price: price, Total: cost}
	p.TradeLog = append(p.TradeLog, t)
	return t, nil
}

// Sell liquidates the entire holding at price, crediting cash and realizing
// P&L against the average cost basis. The holding is cleared afterwards.
func (p *Portfolio) Sell(symbol string, price float64, ts time.Time) (Trade, error) {
	h, ok := p.Holdings[symbol]
	if !ok || h.Shares <= 0 {
		return Trade{}, fmt.Errorf("sell %s: %w", symbol, ErrNoPosition)
	}
	if price <= 0 {
		return Trade{}, fmt.Errorf("sell %s: price must be > 0", symbol)
	}

	proceeds := float64(h.Shares) * price
	p.Cash += proceeds
	delete(p.Holdings, symbol)

	t := Trade{
		Timestamp: ts,
		Symbol:    symbol,
		Action:    SignalSell,
		Shares:    h.Shares,
		Price:     price,
		Total:     proceeds,
		PnL:       (price - h.AvgPrice) * float64(h.Shares),
	}
	p.TradeLog = append(p.TradeLog, t)
	return t, nil
}

// TotalValue is cash plus holdings marked to the given prices. A holding with
// no quote is valued at its cost basis (conservative, matches a stale quote).
func (p *Portfolio) TotalValue(prices map[string]float64) float64 {
	total := p.Cash
	for sym, h := range p.Holdings {
		price, ok := prices[sym]
		if !ok {
			price = h.AvgPrice
		}
		total += float64(h.Shares) * price
	}
	return total
}

// HoldingView is one row of a portfolio snapshot.
type HoldingView struct {
	Symbol       string  `json:"symbol"`
	Shares       int64   `json:"shares"`
	AvgPrice     float64 `json:"avg_price"`
	CurrentPrice float64 `json:"current_price,omitempty"`
	Value        float64 `json:"value"`
	PnL          float64 `json:"pnl"`
}

// PortfolioSnapshot is the reporting view of a portfolio at current prices.
type PortfolioSnapshot struct {
	Cash       float64       `json:"cash"`
	TotalValue float64       `json:"total_value"`
	Holdings   []HoldingView `json:"holdings"`
	TradeCount int           `json:"trade_count"`
}

// Snapshot computes the reporting view. Holdings without a quote carry zero
// PnL and are valued at cost basis.
func (p *Portfolio) Snapshot(prices map[string]float64) PortfolioSnapshot {
	snap := PortfolioSnapshot{
		Cash:       p.Cash,
		TradeCount: len(p.TradeLog),
	}
	for _, h := range p.Holdings {
		view := HoldingView{Symbol: h.Symbol, Shares: h.Shares, AvgPrice: h.AvgPrice}
		if price, ok := prices[h.Symbol]; ok {
			view.CurrentPrice = price
			view.Value = float64(h.Shares) * price
			view.PnL = h.UnrealizedPnL(price)
		} else {
			view.Value = float64(h.Shares) * h.AvgPrice
		}
		snap.Holdings = append(snap.Holdings, view)
	}
	snap.TotalValue = p.TotalValue(prices)
	return snap
}
