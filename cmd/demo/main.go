package main

import (
	"flag"
	"fmt"
	"math"
	"time"

	"nifty-signals/internal/backtest"
	"nifty-signals/internal/model"
	"nifty-signals/internal/signal"
)

// Demo:
// - Generate a deterministic synthetic daily series (trend plus a cycle)
// - Run the signal engine and backtest over it
// - Print the resulting recommendation and backtest summary
func main() {
	n := flag.Int("n", 250, "Number of daily bars to generate")
	capital := flag.Float64("capital", 100000, "Initial capital")
	outCSV := flag.String("out", "", "Optional path to write the equity curve CSV")
	flag.Parse()

	series := syntheticSeries(*n)

	cfg := signal.Default()
	engine, err := signal.New(cfg)
	if err != nil {
		panic(err)
	}

	rec, err := engine.Evaluate("DEMO", series)
	if err != nil {
		panic(err)
	}
	fmt.Printf("Latest signal: %s @ %.2f (%s)\n", rec.Signal, rec.Price, rec.Reason)
	if rec.Signal == model.SignalBuy {
		fmt.Printf("  target %.2f, stop-loss %.2f\n", rec.Target, rec.StopLoss)
	}

	bt, err := backtest.New(cfg, *capital)
	if err != nil {
		panic(err)
	}
	result, err := bt.Run("DEMO", series)
	if err != nil {
		panic(err)
	}

	fmt.Printf("\nBacktest over %d bars:\n", len(series))
	fmt.Printf("  strategy return:  %8.2f%%\n", result.StrategyReturnPct)
	fmt.Printf("  buy&hold return:  %8.2f%%\n", result.BuyHoldReturnPct)
	fmt.Printf("  max drawdown:     %8.2f%%\n", result.MaxDrawdownPct)
	fmt.Printf("  trades:           %8d\n", len(result.Trades))

	if *outCSV != "" {
		if err := backtest.WriteEquityCSV(*outCSV, result.Equity); err != nil {
			panic(err)
		}
		fmt.Printf("Equity curve written to %s\n", *outCSV)
	}
}

// syntheticSeries builds an upward-drifting price path with a sine swing,
// enough movement to trigger both buy and sell crossovers.
func syntheticSeries(n int) model.Series {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	series := make(model.Series, 0, n)
	for i := 0; i < n; i++ {
		price := 1000 + 2*float64(i) + 80*math.Sin(float64(i)/18)
		series = append(series, model.PriceBar{
			Timestamp: start.AddDate(0, 0, i),
			Open:      price * 0.995,
			High:      price * 1.01,
			Low:       price * 0.99,
			Close:     price,
			Volume:    1_000_000,
		})
	}
	return series
}
