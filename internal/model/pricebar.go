package model

import (
	"fmt"
	"math"
	"time"
)

// PriceBar is one OHLCV sample for a single instrument.
// Bars are immutable once fetched; a Series is chronological.
type PriceBar struct {
	Timestamp time.Time `json:"timestamp"`
	Open      float64   `json:"open"`
	High      float64   `json:"high"`
	Low       float64   `json:"low"`
	Close     float64   `json:"close"`
	Volume    int64     `json:"volume"`
}

// Series is a chronological sequence of bars for one instrument.
type Series []PriceBar

// Validate rejects series the indicator math must never see: NaN/Inf prices,
// zero timestamps, duplicates, and out-of-order bars. Errors wrap ErrInvalidData.
func (s Series) Validate() error {
	for i, b := range s {
		if b.Timestamp.IsZero() {
			return fmt.Errorf("%w: bar %d has zero timestamp", ErrInvalidData, i)
		}
		for _, v := range [5]float64{b.Open, b.High, b.Low, b.Close, float64(b.Volume)} {
			if math.IsNaN(v) || math.IsInf(v, 0) {
				return fmt.Errorf("%w: bar %d at %s contains NaN/Inf", ErrInvalidData, i, b.Timestamp.Format("2006-01-02"))
			}
		}
		if b.Close <= 0 {
			return fmt.Errorf("%w: bar %d at %s has non-positive close %.4f", ErrInvalidData, i, b.Timestamp.Format("2006-01-02"), b.Close)
		}
		if i > 0 && !s[i-1].Timestamp.Before(b.Timestamp) {
			return fmt.Errorf("%w: bar %d at %s not after previous bar", ErrInvalidData, i, b.Timestamp.Format("2006-01-02"))
		}
	}
	return nil
}

// Closes extracts the close column.
func (s Series) Closes() []float64 {
	out := make([]float64, len(s))
	for i, b := range s {
		out[i] = b.Close
	}
	return out
}

func (s Series) Last() PriceBar {
	return s[len(s)-1]
}

// PercentChange is the percent move of the last close from the prior close.
// Zero when the series has fewer than two bars.
func (s Series) PercentChange() float64 {
	if len(s) < 2 {
		return 0
	}
	prev := s[len(s)-2].Close
	if prev == 0 {
		return 0
	}
	return (s.Last().Close - prev) / prev * 100
}
