// Package signal maps a chronological price series to a BUY/SELL/HOLD
// recommendation via a fixed indicator rule table.
package signal

import (
	"fmt"
	"time"

	"nifty-signals/internal/indicator"
	"nifty-signals/internal/model"
)

// Config holds the rule-table constants. These are operational tuning
// parameters, not computed state; Default() carries the documented values.
type Config struct {
	ShortSMA        int     `yaml:"short_sma" json:"short_sma"`
	LongSMA         int     `yaml:"long_sma" json:"long_sma"`
	RSIPeriod       int     `yaml:"rsi_period" json:"rsi_period"`
	RSIOverbought   float64 `yaml:"rsi_overbought" json:"rsi_overbought"`
	RSIOversold     float64 `yaml:"rsi_oversold" json:"rsi_oversold"`
	MACDFast        int     `yaml:"macd_fast" json:"macd_fast"`
	MACDSlow        int     `yaml:"macd_slow" json:"macd_slow"`
	MACDSignal      int     `yaml:"macd_signal" json:"macd_signal"`
	BollingerWindow int     `yaml:"bollinger_window" json:"bollinger_window"`
	BollingerK      float64 `yaml:"bollinger_k" json:"bollinger_k"`
	TargetPct       float64 `yaml:"target_pct" json:"target_pct"`
	StopLossPct     float64 `yaml:"stop_loss_pct" json:"stop_loss_pct"`
}

func Default() Config {
	return Config{
		ShortSMA:        20,
		LongSMA:         50,
		RSIPeriod:       14,
		RSIOverbought:   70,
		RSIOversold:     30,
		MACDFast:        12,
		MACDSlow:        26,
		MACDSignal:      9,
		BollingerWindow: 20,
		BollingerK:      2,
		TargetPct:       0.05,
		StopLossPct:     0.03,
	}
}

// MinBars is the minimum lookback window: the longest moving-average period.
func (c Config) MinBars() int {
	n := c.LongSMA
	if c.MACDSlow > n {
		n = c.MACDSlow
	}
	return n
}

func (c Config) Validate() error {
	if c.ShortSMA <= 0 || c.LongSMA <= 0 || c.ShortSMA >= c.LongSMA {
		return fmt.Errorf("sma periods must satisfy 0 < short < long, got %d/%d", c.ShortSMA, c.LongSMA)
	}
	if c.RSIPeriod <= 1 {
		return fmt.Errorf("rsi_period must be > 1, got %d", c.RSIPeriod)
	}
	if c.RSIOversold >= c.RSIOverbought {
		return fmt.Errorf("rsi bounds must satisfy oversold < overbought, got %.0f/%.0f", c.RSIOversold, c.RSIOverbought)
	}
	if c.MACDFast <= 0 || c.MACDSlow <= 0 || c.MACDFast >= c.MACDSlow || c.MACDSignal <= 0 {
		return fmt.Errorf("macd periods must satisfy 0 < fast < slow and signal > 0, got %d/%d/%d", c.MACDFast, c.MACDSlow, c.MACDSignal)
	}
	if c.BollingerWindow <= 1 || c.BollingerK <= 0 {
		return fmt.Errorf("bollinger window/k invalid: %d/%.2f", c.BollingerWindow, c.BollingerK)
	}
	if c.TargetPct <= 0 || c.StopLossPct <= 0 {
		return fmt.Errorf("target_pct and stop_loss_pct must be > 0")
	}
	return nil
}

func (c Config) indicatorParams() indicator.Params {
	return indicator.Params{
		ShortSMA:        c.ShortSMA,
		LongSMA:         c.LongSMA,
		RSIPeriod:       c.RSIPeriod,
		MACDFast:        c.MACDFast,
		MACDSlow:        c.MACDSlow,
		MACDSignal:      c.MACDSignal,
		BollingerWindow: c.BollingerWindow,
		BollingerK:      c.BollingerK,
	}
}

// Recommendation is the per-instrument output for the latest bar.
// Target and StopLoss are set for BUY signals only.
type Recommendation struct {
	Symbol        string       `json:"symbol"`
	Signal        model.Signal `json:"signal"`
	Price         float64      `json:"price"`
	PercentChange float64      `json:"percent_change"`
	Target        float64      `json:"target,omitempty"`
	StopLoss      float64      `json:"stop_loss,omitempty"`
	Reason        string       `json:"reason"`
	Timestamp     time.Time    `json:"timestamp"`
}

type Engine struct {
	cfg Config
}

func New(cfg Config) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("signal config invalid: %w", err)
	}
	return &Engine{cfg: cfg}, nil
}

func (e *Engine) Config() Config { return e.cfg }

// Evaluate derives the signal for the most recent bar of a series.
// The series must be valid and at least MinBars long. Output is deterministic
// for identical input.
func (e *Engine) Evaluate(symbol string, series model.Series) (Recommendation, error) {
	if err := series.Validate(); err != nil {
		return Recommendation{}, err
	}
	if len(series) < e.cfg.MinBars() {
		return Recommendation{}, fmt.Errorf("%s: %d bars, need %d: %w",
			symbol, len(series), e.cfg.MinBars(), model.ErrInsufficientData)
	}

	closes := series.Closes()
	set := indicator.Compute(closes, e.cfg.indicatorParams())
	sig, reason := e.classify(set, closes, len(series)-1)

	rec := Recommendation{
		Symbol:        symbol,
		Signal:        sig,
		Price:         series.Last().Close,
		PercentChange: series.PercentChange(),
		Reason:        reason,
		Timestamp:     series.Last().Timestamp,
	}
	if sig == model.SignalBuy {
		rec.Target = rec.Price * (1 + e.cfg.TargetPct)
		rec.StopLoss = rec.Price * (1 - e.cfg.StopLossPct)
	}
	return rec, nil
}

// EvaluateSeries derives the signal at every bar, for backtesting. The signal
// at index i uses only bars 0..i; index 0 has no prior bar and is HOLD.
func (e *Engine) EvaluateSeries(series model.Series) ([]model.Signal, error) {
	if err := series.Validate(); err != nil {
		return nil, err
	}
	if len(series) < e.cfg.MinBars() {
		return nil, fmt.Errorf("%d bars, need %d: %w", len(series), e.cfg.MinBars(), model.ErrInsufficientData)
	}

	closes := series.Closes()
	set := indicator.Compute(closes, e.cfg.indicatorParams())
	out := make([]model.Signal, len(series))
	out[0] = model.SignalHold
	for i := 1; i < len(series); i++ {
		out[i], _ = e.classify(set, closes, i)
	}
	return out, nil
}

// classify applies the rule table at index i (i >= 1):
// BUY on a short-over-long SMA crossover confirmed by RSI below the overbought
// bound and a bullish MACD; SELL on the mirrored crossunder confirmed by RSI
// above the oversold bound and a bearish MACD; HOLD otherwise.
func (e *Engine) classify(set *indicator.Set, closes []float64, i int) (model.Signal, string) {
	crossedUp := set.SMAShort[i] > set.SMALong[i] && set.SMAShort[i-1] <= set.SMALong[i-1]
	crossedDown := set.SMAShort[i] < set.SMALong[i] && set.SMAShort[i-1] >= set.SMALong[i-1]
	macdBullish := set.MACD[i] > set.MACDSignal[i]
	macdBearish := set.MACD[i] < set.MACDSignal[i]

	if crossedUp && set.RSI[i] < e.cfg.RSIOverbought && macdBullish {
		return model.SignalBuy, fmt.Sprintf("SMA%d crossed above SMA%d, RSI %.1f, MACD bullish",
			e.cfg.ShortSMA, e.cfg.LongSMA, set.RSI[i])
	}
	if crossedDown && set.RSI[i] > e.cfg.RSIOversold && macdBearish {
		return model.SignalSell, fmt.Sprintf("SMA%d crossed below SMA%d, RSI %.1f, MACD bearish",
			e.cfg.ShortSMA, e.cfg.LongSMA, set.RSI[i])
	}

	if closes[i] > set.SMALong[i] && set.RSI[i] > 50 {
		return model.SignalHold, fmt.Sprintf("above SMA%d, RSI %.1f: weak bullish", e.cfg.LongSMA, set.RSI[i])
	}
	if closes[i] < set.SMALong[i] && set.RSI[i] < 50 {
		return model.SignalHold, fmt.Sprintf("below SMA%d, RSI %.1f: weak bearish", e.cfg.LongSMA, set.RSI[i])
	}
	return model.SignalHold, "neutral"
}
