// Package indicator computes technical indicator series over close prices.
//
// The formulas mirror the rolling/ewm semantics the signal rules were tuned
// against: moving averages allow partial windows from the first bar, the RSI
// seam is pinned to a neutral 50, and no NaN is ever produced for valid input.
// Inputs are validated upstream (model.Series.Validate); these functions assume
// finite prices.
package indicator

import "math"

// SMA is a simple moving average with partial windows: the value at index i
// averages the last min(i+1, window) closes.
func SMA(closes []float64, window int) []float64 {
	out := make([]float64, len(closes))
	sum := 0.0
	for i, c := range closes {
		sum += c
		if i >= window {
			sum -= closes[i-window]
			out[i] = sum / float64(window)
		} else {
			out[i] = sum / float64(i+1)
		}
	}
	return out
}

// EMA is an exponential moving average with alpha = 2/(span+1), seeded with
// the first close.
func EMA(closes []float64, span int) []float64 {
	out := make([]float64, len(closes))
	if len(closes) == 0 {
		return out
	}
	alpha := 2.0 / float64(span+1)
	out[0] = closes[0]
	for i := 1; i < len(closes); i++ {
		out[i] = alpha*closes[i] + (1-alpha)*out[i-1]
	}
	return out
}

// RSI is the relative strength index over a rolling simple mean of gains and
// losses. Partial windows are allowed; index 0 (no delta yet) and flat
// stretches (zero gain and zero loss) report the neutral 50. A window with
// gains and no losses reports 100, and vice versa 0.
func RSI(closes []float64, window int) []float64 {
	out := make([]float64, len(closes))
	if len(closes) == 0 {
		return out
	}
	out[0] = 50

	gains := make([]float64, len(closes))
	losses := make([]float64, len(closes))
	for i := 1; i < len(closes); i++ {
		delta := closes[i] - closes[i-1]
		if delta > 0 {
			gains[i] = delta
		} else {
			losses[i] = -delta
		}
	}

	for i := 1; i < len(closes); i++ {
		start := i - window + 1
		if start < 1 {
			start = 1
		}
		var gainSum, lossSum float64
		for j := start; j <= i; j++ {
			gainSum += gains[j]
			lossSum += losses[j]
		}
		n := float64(i - start + 1)
		avgGain := gainSum / n
		avgLoss := lossSum / n

		switch {
		case avgGain == 0 && avgLoss == 0:
			out[i] = 50
		case avgLoss == 0:
			out[i] = 100
		default:
			rs := avgGain / avgLoss
			out[i] = 100 - 100/(1+rs)
		}
	}
	return out
}

// MACD returns the MACD line (fast EMA minus slow EMA), its signal line
// (EMA of the MACD line), and the histogram (line minus signal).
func MACD(closes []float64, fast, slow, signalPeriod int) (line, signal, hist []float64) {
	fastEMA := EMA(closes, fast)
	slowEMA := EMA(closes, slow)
	line = make([]float64, len(closes))
	for i := range closes {
		line[i] = fastEMA[i] - slowEMA[i]
	}
	signal = EMA(line, signalPeriod)
	hist = make([]float64, len(closes))
	for i := range closes {
		hist[i] = line[i] - signal[i]
	}
	return line, signal, hist
}

// Bollinger returns the middle band (SMA) and the upper/lower bands at k
// sample standard deviations. A single-bar window has zero deviation.
func Bollinger(closes []float64, window int, k float64) (middle, upper, lower []float64) {
	middle = SMA(closes, window)
	upper = make([]float64, len(closes))
	lower = make([]float64, len(closes))
	for i := range closes {
		start := i - window + 1
		if start < 0 {
			start = 0
		}
		n := i - start + 1
		sd := 0.0
		if n > 1 {
			var sq float64
			for j := start; j <= i; j++ {
				d := closes[j] - middle[i]
				sq += d * d
			}
			sd = math.Sqrt(sq / float64(n-1))
		}
		upper[i] = middle[i] + k*sd
		lower[i] = middle[i] - k*sd
	}
	return middle, upper, lower
}

// Params are the indicator periods the standard set is computed with.
type Params struct {
	ShortSMA        int
	LongSMA         int
	RSIPeriod       int
	MACDFast        int
	MACDSlow        int
	MACDSignal      int
	BollingerWindow int
	BollingerK      float64
}

// Set holds the standard indicator series, index-aligned with the input bars.
// Recomputed each run; never persisted.
type Set struct {
	SMAShort   []float64
	SMALong    []float64
	RSI        []float64
	MACD       []float64
	MACDSignal []float64
	MACDHist   []float64
	BollMid    []float64
	BollUpper  []float64
	BollLower  []float64
}

// Compute derives the standard indicator set for a close series.
func Compute(closes []float64, p Params) *Set {
	s := &Set{
		SMAShort: SMA(closes, p.ShortSMA),
		SMALong:  SMA(closes, p.LongSMA),
		RSI:      RSI(closes, p.RSIPeriod),
	}
	s.MACD, s.MACDSignal, s.MACDHist = MACD(closes, p.MACDFast, p.MACDSlow, p.MACDSignal)
	s.BollMid, s.BollUpper, s.BollLower = Bollinger(closes, p.BollingerWindow, p.BollingerK)
	return s
}
