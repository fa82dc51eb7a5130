package main

import (
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"nifty-signals/internal/backtest"
	"nifty-signals/internal/config"
	"nifty-signals/internal/data"
	"nifty-signals/internal/model"
	"nifty-signals/internal/notify"
	"nifty-signals/internal/paper"
	"nifty-signals/internal/signal"
	"nifty-signals/internal/store"
)

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}

	switch os.Args[1] {
	case "run":
		cmdRun(os.Args[2:])
	case "signals":
		cmdSignals(os.Args[2:])
	case "backtest":
		cmdBacktest(os.Args[2:])
	default:
		usage()
		os.Exit(2)
	}
}

func usage() {
	fmt.Println("usage:")
	fmt.Println("  cli run --config config.yaml")
	fmt.Println("  cli signals --config config.yaml [--notify]")
	fmt.Println("  cli backtest --symbol RELIANCE [--data bars.json] [--config config.yaml] [--out equity.csv]")
	fmt.Println("")
	fmt.Println("notes:")
	fmt.Println("  - run evaluates every configured symbol, applies paper trades and persists the portfolio")
	fmt.Println("  - signals prints the latest BUY/SELL/HOLD recommendation per symbol")
	fmt.Println("  - backtest replays daily bars from a JSON file or the parquet archive")
}

func loadConfig(path string) *config.Config {
	cfg, err := config.Load(path)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	return cfg
}

// fetchAll pulls daily history per symbol, skipping symbols that fail so
// one bad ticker does not abort the whole run.
func fetchAll(client *data.Client, archive *data.Archive, cfg *config.Config) map[string]model.Series {
	out := make(map[string]model.Series, len(cfg.Symbols))
	for _, symbol := range cfg.Symbols {
		series, err := client.FetchDailyBars(symbol, cfg.Data.HistoryDays)
		if err != nil {
			log.Printf("[CLI] fetch %s failed, skipping: %v", symbol, err)
			continue
		}
		out[symbol] = series
		if archive != nil {
			if err := archive.SaveBars(symbol, series); err != nil {
				log.Printf("[CLI] archive %s failed: %v", symbol, err)
			}
		}
	}
	return out
}

func evaluateAll(engine *signal.Engine, history map[string]model.Series, symbols []string) []signal.Recommendation {
	var recs []signal.Recommendation
	for _, symbol := range symbols {
		series, ok := history[symbol]
		if !ok {
			continue
		}
		rec, err := engine.Evaluate(symbol, series)
		if err != nil {
			log.Printf("[CLI] evaluate %s failed, skipping: %v", symbol, err)
			continue
		}
		recs = append(recs, rec)
	}
	return recs
}

func lastPrices(history map[string]model.Series) map[string]float64 {
	prices := make(map[string]float64, len(history))
	for symbol, series := range history {
		if len(series) > 0 {
			prices[symbol] = series.Last().Close
		}
	}
	return prices
}

func cmdRun(args []string) {
	fs := flag.NewFlagSet("run", flag.ExitOnError)
	cfgPath := fs.String("config", "config.yaml", "Path to YAML config")
	_ = fs.Parse(args)

	cfg := loadConfig(*cfgPath)

	engine, err := signal.New(cfg.Signal)
	if err != nil {
		log.Fatalf("Invalid signal config: %v", err)
	}
	sim, err := paper.New(cfg.Sizing)
	if err != nil {
		log.Fatalf("Invalid sizing config: %v", err)
	}

	st, err := store.Open(cfg.Store.Kind, cfg.Store.Path, cfg.Sizing.InitialCash)
	if err != nil {
		log.Fatalf("Failed to open store: %v", err)
	}
	defer st.Close()

	portfolio, err := st.Load()
	if err != nil {
		var perr *store.PersistenceError
		if errors.As(err, &perr) {
			log.Fatalf("Portfolio load failed (%s %s): %v", perr.Op, perr.Path, perr.Err)
		}
		log.Fatalf("Portfolio load failed: %v", err)
	}

	client := data.NewClient(cfg.Data.BaseURL)
	var archive *data.Archive
	if cfg.Data.ArchiveDir != "" {
		archive = data.NewArchive(cfg.Data.ArchiveDir)
	}

	history := fetchAll(client, archive, cfg)
	if len(history) == 0 {
		log.Fatalf("No symbol could be fetched, aborting run")
	}

	recs := evaluateAll(engine, history, cfg.Symbols)
	prices := lastPrices(history)

	trades := sim.Apply(portfolio, recs, prices, time.Now())
	if err := st.Save(portfolio); err != nil {
		log.Fatalf("Portfolio save failed: %v", err)
	}

	snap := portfolio.Snapshot(prices)
	log.Printf("[CLI] run complete: %d signals, %d trades, portfolio value %.2f",
		len(recs), len(trades), snap.TotalValue)

	tg := notify.NewTelegram(cfg.Telegram.Token, cfg.Telegram.ChatID, cfg.Telegram.Channel)
	if tg.Enabled() {
		msg := notify.FormatRecommendations(recs)
		if len(trades) > 0 {
			msg += "\n" + notify.FormatTrades(trades)
		}
		msg += "\n" + notify.FormatSummary(snap, cfg.Sizing.InitialCash, time.Now())
		if err := tg.Broadcast(msg); err != nil {
			log.Printf("[CLI] telegram notify failed: %v", err)
		}
	}
}

func cmdSignals(args []string) {
	fs := flag.NewFlagSet("signals", flag.ExitOnError)
	cfgPath := fs.String("config", "config.yaml", "Path to YAML config")
	doNotify := fs.Bool("notify", false, "Send the digest to Telegram")
	_ = fs.Parse(args)

	cfg := loadConfig(*cfgPath)

	engine, err := signal.New(cfg.Signal)
	if err != nil {
		log.Fatalf("Invalid signal config: %v", err)
	}

	client := data.NewClient(cfg.Data.BaseURL)
	history := fetchAll(client, nil, cfg)
	recs := evaluateAll(engine, history, cfg.Symbols)

	fmt.Printf("%-12s %-5s %10s %8s %10s %10s  %s\n",
		"SYMBOL", "SIG", "PRICE", "CHG%", "TARGET", "STOP", "REASON")
	for _, rec := range recs {
		fmt.Printf("%-12s %-5s %10.2f %8.2f %10.2f %10.2f  %s\n",
			rec.Symbol, rec.Signal, rec.Price, rec.PercentChange, rec.Target, rec.StopLoss, rec.Reason)
	}

	if *doNotify {
		tg := notify.NewTelegram(cfg.Telegram.Token, cfg.Telegram.ChatID, cfg.Telegram.Channel)
		if !tg.Enabled() {
			log.Fatalf("Telegram is not configured (set TELEGRAM_TOKEN and a chat id)")
		}
		if err := tg.Broadcast(notify.FormatRecommendations(recs)); err != nil {
			log.Fatalf("Telegram notify failed: %v", err)
		}
	}
}

func cmdBacktest(args []string) {
	fs := flag.NewFlagSet("backtest", flag.ExitOnError)
	symbol := fs.String("symbol", "", "Symbol to backtest")
	dataPath := fs.String("data", "", "Path to JSON bars file (default: parquet archive)")
	cfgPath := fs.String("config", "config.yaml", "Path to YAML config")
	outPath := fs.String("out", "", "Optional output CSV path for the equity curve")
	capital := fs.Float64("capital", 0, "Override initial capital (0=config)")
	_ = fs.Parse(args)

	if *symbol == "" {
		fmt.Println("--symbol is required")
		os.Exit(2)
	}

	cfg := loadConfig(*cfgPath)

	var series model.Series
	var err error
	if *dataPath != "" {
		var bf *data.BarsFile
		bf, err = data.LoadBarsJSON(*dataPath)
		if err == nil {
			series = model.Series(bf.Data)
		}
	} else {
		if cfg.Data.ArchiveDir == "" {
			log.Fatalf("No --data file and no archive_dir configured")
		}
		series, err = data.NewArchive(cfg.Data.ArchiveDir).DailyBars(*symbol)
	}
	if err != nil {
		log.Fatalf("Failed to load bars for %s: %v", *symbol, err)
	}

	initial := cfg.Sizing.InitialCash
	if *capital > 0 {
		initial = *capital
	}

	engine, err := backtest.New(cfg.Signal, initial)
	if err != nil {
		log.Fatalf("Invalid backtest config: %v", err)
	}
	result, err := engine.Run(*symbol, series)
	if err != nil {
		log.Fatalf("Backtest failed: %v", err)
	}

	fmt.Printf("Backtest %s (%s to %s)\n", result.Symbol,
		result.StartDate.Format("2006-01-02"), result.EndDate.Format("2006-01-02"))
	fmt.Printf("  initial capital:  %12.2f\n", result.InitialCapital)
	fmt.Printf("  final value:      %12.2f\n", result.FinalValue)
	fmt.Printf("  strategy return:  %11.2f%%\n", result.StrategyReturnPct)
	fmt.Printf("  buy&hold return:  %11.2f%%\n", result.BuyHoldReturnPct)
	fmt.Printf("  max drawdown:     %11.2f%%\n", result.MaxDrawdownPct)
	fmt.Printf("  trades:           %12d\n", len(result.Trades))

	if *outPath != "" {
		if err := backtest.WriteEquityCSV(*outPath, result.Equity); err != nil {
			log.Fatalf("Failed to write equity CSV: %v", err)
		}
		fmt.Printf("Equity curve written to %s\n", *outPath)
	}
}
