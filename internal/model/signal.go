package model

// Signal is a categorical trading recommendation for one instrument.
// Keep these values stable; they are serialized in API responses and messages.
type Signal string

const (
	SignalBuy  Signal = "BUY"
	SignalSell Signal = "SELL"
	SignalHold Signal = "HOLD"
)

// Actionable reports whether the signal triggers a trade.
func (s Signal) Actionable() bool {
	return s == SignalBuy || s == SignalSell
}
