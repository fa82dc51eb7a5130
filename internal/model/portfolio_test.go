package model

import (
	"errors"
	"math"
	"testing"
	"time"
)

var ts = time.Date(2024, 5, 2, 10, 0, 0, 0, time.UTC)

func TestBuyWeightedAverageCostBasis(t *testing.T) {
	p := NewPortfolio(10000)

	if _, err := p.Buy("TCS", 10, 100, ts); err != nil {
		t.Fatalf("first buy: %v", err)
	}
	if _, err := p.Buy("TCS", 10, 120, ts.Add(24*time.Hour)); err != nil {
		t.Fatalf("second buy: %v", err)
	}

	h := p.Holdings["TCS"]
	if h.Shares != 20 {
		t.Errorf("shares = %d, want 20", h.Shares)
	}
	if math.Abs(h.AvgPrice-110) > 1e-9 {
		t.Errorf("avg price = %v, want 110", h.AvgPrice)
	}
	if math.Abs(p.Cash-(10000-1000-1200)) > 1e-9 {
		t.Errorf("cash = %v, want 7800", p.Cash)
	}
}

func TestBuyInsufficientFunds(t *testing.T) {
	p := NewPortfolio(100)

	_, err := p.Buy("INFY", 10, 50, ts)
	if !errors.Is(err, ErrInsufficientFunds) {
		t.Fatalf("err = %v, want ErrInsufficientFunds", err)
	}
	if p.Cash != 100 || len(p.TradeLog) != 0 {
		t.Errorf("failed buy mutated portfolio: cash=%v trades=%d", p.Cash, len(p.TradeLog))
	}
}

func TestSellClearsHolding(t *testing.T) {
	p := NewPortfolio(10000)
	if _, err := p.Buy("SBIN", 10, 500, ts); err != nil {
		t.Fatalf("buy: %v", err)
	}

	trade, err := p.Sell("SBIN", 550, ts.Add(time.Hour))
	if err != nil {
		t.Fatalf("sell: %v", err)
	}
	if _, open := p.Holdings["SBIN"]; open {
		t.Error("holding still open after sell")
	}
	if trade.PnL != 500 {
		t.Errorf("realized pnl = %v, want 500", trade.PnL)
	}
	if p.Cash != 10000-5000+5500 {
		t.Errorf("cash = %v, want 10500", p.Cash)
	}
}

func TestSellWithoutPosition(t *testing.T) {
	p := NewPortfolio(1000)
	if _, err := p.Sell("ITC", 400, ts); !errors.Is(err, ErrNoPosition) {
		t.Errorf("err = %v, want ErrNoPosition", err)
	}
}

func TestTradeLogOrderImmutable(t *testing.T) {
	p := NewPortfolio(10000)
	p.Buy("A", 1, 100, ts)
	p.Buy("B", 1, 200, ts.Add(time.Minute))
	p.Sell("A", 110, ts.Add(2*time.Minute))

	want := []struct {
		symbol string
		action Signal
	}{{"A", SignalBuy}, {"B", SignalBuy}, {"A", SignalSell}}

	if len(p.TradeLog) != len(want) {
		t.Fatalf("trade log has %d entries, want %d", len(p.TradeLog), len(want))
	}
	for i, w := range want {
		if p.TradeLog[i].Symbol != w.symbol || p.TradeLog[i].Action != w.action {
			t.Errorf("trade[%d] = %s %s, want %s %s",
				i, p.TradeLog[i].Action, p.TradeLog[i].Symbol, w.action, w.symbol)
		}
	}
}

func TestTotalValueAndSnapshot(t *testing.T) {
	p := NewPortfolio(10000)
	p.Buy("TCS", 5, 1000, ts)

	prices := map[string]float64{"TCS": 1100}
	if got := p.TotalValue(prices); got != 5000+5500 {
		t.Errorf("total value = %v, want 10500", got)
	}

	snap := p.Snapshot(prices)
	if len(snap.Holdings) != 1 {
		t.Fatalf("snapshot holdings = %d, want 1", len(snap.Holdings))
	}
	if snap.Holdings[0].PnL != 500 {
		t.Errorf("unrealized pnl = %v, want 500", snap.Holdings[0].PnL)
	}

	// Missing quote: valued at cost basis, zero pnl.
	snap = p.Snapshot(nil)
	if snap.Holdings[0].Value != 5000 || snap.Holdings[0].PnL != 0 {
		t.Errorf("unquoted holding = %+v, want value 5000 pnl 0", snap.Holdings[0])
	}
}

func TestSeriesValidate(t *testing.T) {
	good := Series{
		{Timestamp: ts, Open: 1, High: 1, Low: 1, Close: 1, Volume: 1},
		{Timestamp: ts.Add(time.Hour), Open: 2, High: 2, Low: 2, Close: 2, Volume: 1},
	}
	if err := good.Validate(); err != nil {
		t.Errorf("valid series rejected: %v", err)
	}

	nan := Series{{Timestamp: ts, Close: math.NaN()}}
	if err := nan.Validate(); !errors.Is(err, ErrInvalidData) {
		t.Errorf("NaN close: err = %v, want ErrInvalidData", err)
	}

	dup := Series{
		{Timestamp: ts, Open: 1, High: 1, Low: 1, Close: 1},
		{Timestamp: ts, Open: 1, High: 1, Low: 1, Close: 1},
	}
	if err := dup.Validate(); !errors.Is(err, ErrInvalidData) {
		t.Errorf("duplicate timestamp: err = %v, want ErrInvalidData", err)
	}
}
