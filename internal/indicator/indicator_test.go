package indicator

import (
	"math"
	"testing"
)

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestSMAPartialWindows(t *testing.T) {
	closes := []float64{10, 20, 30, 40}
	got := SMA(closes, 3)

	want := []float64{10, 15, 20, 30}
	for i := range want {
		if !almostEqual(got[i], want[i]) {
			t.Errorf("SMA[%d] = %v, want %v", i, got[i], want[i])
		}
	}
}

func TestEMASeedAndRecurrence(t *testing.T) {
	closes := []float64{10, 20}
	got := EMA(closes, 3) // alpha = 0.5

	if !almostEqual(got[0], 10) {
		t.Errorf("EMA[0] = %v, want 10", got[0])
	}
	if !almostEqual(got[1], 15) {
		t.Errorf("EMA[1] = %v, want 15", got[1])
	}
}

func TestRSIFlatSeriesIsNeutral(t *testing.T) {
	closes := []float64{100, 100, 100, 100, 100}
	got := RSI(closes, 14)

	for i, v := range got {
		if v != 50 {
			t.Errorf("RSI[%d] = %v on flat series, want 50", i, v)
		}
	}
}

func TestRSIExtremes(t *testing.T) {
	rising := []float64{100, 101, 102, 103, 104}
	got := RSI(rising, 14)
	if got[len(got)-1] != 100 {
		t.Errorf("RSI on all-gain series = %v, want 100", got[len(got)-1])
	}

	falling := []float64{104, 103, 102, 101, 100}
	got = RSI(falling, 14)
	if got[len(got)-1] != 0 {
		t.Errorf("RSI on all-loss series = %v, want 0", got[len(got)-1])
	}
}

func TestRSIBalancedMoves(t *testing.T) {
	// Equal total gain and loss inside the window: RSI = 50.
	closes := []float64{100, 102, 100, 102, 100}
	got := RSI(closes, 4)
	if !almostEqual(got[len(got)-1], 50) {
		t.Errorf("RSI with balanced moves = %v, want 50", got[len(got)-1])
	}
}

func TestMACDHistogramConsistent(t *testing.T) {
	closes := []float64{100, 101, 103, 102, 105, 107, 106, 108}
	line, signal, hist := MACD(closes, 3, 6, 2)

	for i := range closes {
		if !almostEqual(hist[i], line[i]-signal[i]) {
			t.Errorf("hist[%d] = %v, want line-signal = %v", i, hist[i], line[i]-signal[i])
		}
	}
	// Fast EMA equals slow EMA at the seed, so the MACD line starts at zero.
	if !almostEqual(line[0], 0) {
		t.Errorf("MACD[0] = %v, want 0", line[0])
	}
}

func TestBollingerBands(t *testing.T) {
	closes := []float64{10, 12, 14, 16}
	mid, upper, lower := Bollinger(closes, 4, 2)

	// Window covers the whole series at the last index.
	if !almostEqual(mid[3], 13) {
		t.Errorf("middle[3] = %v, want 13", mid[3])
	}
	// Sample std of {10,12,14,16} around 13.
	sd := math.Sqrt((9.0 + 1 + 1 + 9) / 3.0)
	if !almostEqual(upper[3], 13+2*sd) {
		t.Errorf("upper[3] = %v, want %v", upper[3], 13+2*sd)
	}
	if !almostEqual(lower[3], 13-2*sd) {
		t.Errorf("lower[3] = %v, want %v", lower[3], 13-2*sd)
	}
	// Single-bar window has zero deviation.
	if !almostEqual(upper[0], closes[0]) || !almostEqual(lower[0], closes[0]) {
		t.Errorf("bands at index 0 = (%v, %v), want both %v", upper[0], lower[0], closes[0])
	}
}

func TestComputeAlignment(t *testing.T) {
	closes := make([]float64, 60)
	for i := range closes {
		closes[i] = 100 + float64(i)
	}
	set := Compute(closes, Params{
		ShortSMA: 20, LongSMA: 50, RSIPeriod: 14,
		MACDFast: 12, MACDSlow: 26, MACDSignal: 9,
		BollingerWindow: 20, BollingerK: 2,
	})

	for name, series := range map[string][]float64{
		"SMAShort": set.SMAShort, "SMALong": set.SMALong, "RSI": set.RSI,
		"MACD": set.MACD, "MACDSignal": set.MACDSignal, "MACDHist": set.MACDHist,
		"BollMid": set.BollMid, "BollUpper": set.BollUpper, "BollLower": set.BollLower,
	} {
		if len(series) != len(closes) {
			t.Errorf("%s has %d values, want %d", name, len(series), len(closes))
		}
		for i, v := range series {
			if math.IsNaN(v) || math.IsInf(v, 0) {
				t.Fatalf("%s[%d] is not finite: %v", name, i, v)
			}
		}
	}
}
