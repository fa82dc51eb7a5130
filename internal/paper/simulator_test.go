package paper

import (
	"testing"
	"time"

	"nifty-signals/internal/model"
	"nifty-signals/internal/signal"
)

var now = time.Date(2024, 6, 3, 15, 30, 0, 0, time.UTC)

func rec(symbol string, sig model.Signal) signal.Recommendation {
	return signal.Recommendation{Symbol: symbol, Signal: sig, Timestamp: now}
}

func TestApplyBuySizing(t *testing.T) {
	sim, err := New(DefaultSizing())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	p := model.NewPortfolio(100000)

	trades := sim.Apply(p, []signal.Recommendation{rec("RELIANCE", model.SignalBuy)},
		map[string]float64{"RELIANCE": 2500}, now)

	// Budget = min(100000*0.10, 10000) = 10000 -> 4 shares at 2500.
	if len(trades) != 1 {
		t.Fatalf("got %d trades, want 1", len(trades))
	}
	if trades[0].Shares != 4 {
		t.Errorf("shares = %d, want 4", trades[0].Shares)
	}
	if p.Cash != 90000 {
		t.Errorf("cash = %v, want 90000", p.Cash)
	}
	if h := p.Holdings["RELIANCE"]; h.Shares != 4 || h.AvgPrice != 2500 {
		t.Errorf("holding = %+v, want 4 @ 2500", h)
	}
}

func TestApplyBuySkippedWhenHolding(t *testing.T) {
	sim, _ := New(DefaultSizing())
	p := model.NewPortfolio(100000)
	if _, err := p.Buy("TCS", 2, 3000, now); err != nil {
		t.Fatalf("seed buy: %v", err)
	}

	trades := sim.Apply(p, []signal.Recommendation{rec("TCS", model.SignalBuy)},
		map[string]float64{"TCS": 3100}, now)

	if len(trades) != 0 {
		t.Errorf("got %d trades, want 0 (position already open)", len(trades))
	}
	if h := p.Holdings["TCS"]; h.Shares != 2 {
		t.Errorf("holding changed: %+v", h)
	}
}

func TestApplyBuySkippedWhenPriceAboveBudget(t *testing.T) {
	sim, _ := New(DefaultSizing())
	p := model.NewPortfolio(100000)

	// Budget is 10000; one share costs more; trade is skipped, not fatal.
	trades := sim.Apply(p, []signal.Recommendation{rec("MRF", model.SignalBuy)},
		map[string]float64{"MRF": 125000}, now)

	if len(trades) != 0 {
		t.Errorf("got %d trades, want 0", len(trades))
	}
	if p.Cash != 100000 {
		t.Errorf("cash = %v, want untouched 100000", p.Cash)
	}
}

func TestApplySellRealizesAndClears(t *testing.T) {
	sim, _ := New(DefaultSizing())
	p := model.NewPortfolio(100000)
	if _, err := p.Buy("INFY", 10, 1500, now); err != nil {
		t.Fatalf("seed buy: %v", err)
	}

	trades := sim.Apply(p, []signal.Recommendation{rec("INFY", model.SignalSell)},
		map[string]float64{"INFY": 1600}, now)

	if len(trades) != 1 {
		t.Fatalf("got %d trades, want 1", len(trades))
	}
	if trades[0].PnL != 1000 {
		t.Errorf("realized pnl = %v, want 1000", trades[0].PnL)
	}
	if _, open := p.Holdings["INFY"]; open {
		t.Error("holding should be cleared after sell")
	}
	if p.Cash != 100000-15000+16000 {
		t.Errorf("cash = %v, want 101000", p.Cash)
	}
}

func TestApplySellWithoutPositionSkipped(t *testing.T) {
	sim, _ := New(DefaultSizing())
	p := model.NewPortfolio(50000)

	trades := sim.Apply(p, []signal.Recommendation{rec("SBIN", model.SignalSell)},
		map[string]float64{"SBIN": 600}, now)

	if len(trades) != 0 {
		t.Errorf("got %d trades, want 0", len(trades))
	}
}

func TestApplyMissingPriceSkipsOnlyThatSymbol(t *testing.T) {
	sim, _ := New(DefaultSizing())
	p := model.NewPortfolio(100000)

	trades := sim.Apply(p, []signal.Recommendation{
		rec("NOQUOTE", model.SignalBuy),
		rec("ITC", model.SignalBuy),
	}, map[string]float64{"ITC": 400}, now)

	if len(trades) != 1 || trades[0].Symbol != "ITC" {
		t.Fatalf("trades = %+v, want single ITC buy", trades)
	}
}

func TestApplyCashNeverNegative(t *testing.T) {
	sim, _ := New(Sizing{InitialCash: 1000, AllocationFraction: 1, MaxTradeValue: 1e9})
	p := model.NewPortfolio(1000)

	symbols := []signal.Recommendation{
		rec("A", model.SignalBuy),
		rec("B", model.SignalBuy),
		rec("C", model.SignalBuy),
	}
	prices := map[string]float64{"A": 300, "B": 300, "C": 300}

	sim.Apply(p, symbols, prices, now)
	if p.Cash < 0 {
		t.Errorf("cash went negative: %v", p.Cash)
	}
	for _, tr := range p.TradeLog {
		if tr.Total <= 0 {
			t.Errorf("trade %+v has non-positive total", tr)
		}
	}
}

func TestApplyHoldDoesNothing(t *testing.T) {
	sim, _ := New(DefaultSizing())
	p := model.NewPortfolio(100000)

	trades := sim.Apply(p, []signal.Recommendation{rec("LT", model.SignalHold)},
		map[string]float64{"LT": 3500}, now)

	if len(trades) != 0 || len(p.TradeLog) != 0 {
		t.Errorf("HOLD produced trades: %+v", p.TradeLog)
	}
}
