// Package notify pushes signal digests and trade confirmations to Telegram.
// The core never retries; a failed send is logged and reported to the caller.
package notify

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"strings"
	"time"

	"nifty-signals/internal/model"
	"nifty-signals/internal/signal"
)

// Telegram sends messages through the Bot API. When Token or every
// destination is empty the client is disabled and sends become no-ops.
type Telegram struct {
	Token   string
	ChatID  string
	Channel string // e.g. "@Stockniftybot"
	BaseURL string
	Client  *http.Client
}

func NewTelegram(token, chatID, channel string) *Telegram {
	return &Telegram{
		Token:   token,
		ChatID:  chatID,
		Channel: channel,
		BaseURL: "https://api.telegram.org",
		Client: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// Enabled reports whether the client has a token and at least one destination.
func (t *Telegram) Enabled() bool {
	return t.Token != "" && (t.ChatID != "" || t.Channel != "")
}

// Send delivers one message to a specific chat, with HTML formatting.
func (t *Telegram) Send(text, chatID string) error {
	if t.Token == "" || chatID == "" {
		log.Printf("[Telegram] Skipping message: missing token or chat id")
		return nil
	}

	sendURL := fmt.Sprintf("%s/bot%s/sendMessage", t.BaseURL, t.Token)
	payload := url.Values{}
	payload.Set("chat_id", chatID)
	payload.Set("text", text)
	payload.Set("parse_mode", "HTML")

	resp, err := t.Client.PostForm(sendURL, payload)
	if err != nil {
		log.Printf("[Telegram] Send to %s failed: %v", chatID, err)
		return fmt.Errorf("telegram send: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		var apiResp struct {
			Description string `json:"description"`
		}
		_ = json.NewDecoder(resp.Body).Decode(&apiResp)
		log.Printf("[Telegram] Send to %s failed: %d %s", chatID, resp.StatusCode, apiResp.Description)
		return fmt.Errorf("telegram send: status %d: %s", resp.StatusCode, apiResp.Description)
	}

	log.Printf("[Telegram] Sent message to %s", chatID)
	return nil
}

// Broadcast sends the message to every configured destination. The first
// failure is returned, but all destinations are attempted.
func (t *Telegram) Broadcast(text string) error {
	if !t.Enabled() {
		log.Printf("[Telegram] Notifications disabled")
		return nil
	}
	var firstErr error
	for _, dest := range []string{t.ChatID, t.Channel} {
		if dest == "" {
			continue
		}
		if err := t.Send(text, dest); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

// FormatRecommendations renders the daily signal digest.
func FormatRecommendations(recs []signal.Recommendation) string {
	var buys, sells []string
	for _, rec := range recs {
		switch rec.Signal {
		case model.SignalBuy:
			buys = append(buys, fmt.Sprintf("<b>BUY %s</b> @ %.2f (Target: %.2f)", rec.Symbol, rec.Price, rec.Target))
		case model.SignalSell:
			sells = append(sells, fmt.Sprintf("<b>SELL %s</b> @ %.2f", rec.Symbol, rec.Price))
		}
	}
	if len(buys) == 0 && len(sells) == 0 {
		return "No strong Buy/Sell signals generated today based on the strategy."
	}

	var b strings.Builder
	b.WriteString("<b>Stock Recommendations:</b>\n\n")
	if len(buys) > 0 {
		b.WriteString("--- BUYS ---\n")
		b.WriteString(strings.Join(buys, "\n"))
		b.WriteString("\n\n")
	}
	if len(sells) > 0 {
		b.WriteString("--- SELLS ---\n")
		b.WriteString(strings.Join(sells, "\n"))
		b.WriteString("\n\n")
	}
	return strings.TrimRight(b.String(), "\n")
}

// FormatTrades renders paper-trade confirmations.
func FormatTrades(trades []model.Trade) string {
	if len(trades) == 0 {
		return "No paper trades executed this run."
	}
	var b strings.Builder
	b.WriteString("<b>Paper Trades Executed:</b>\n")
	for _, tr := range trades {
		if tr.Action == model.SignalSell {
			fmt.Fprintf(&b, "SOLD %d %s @ %.2f (P/L: %.2f)\n", tr.Shares, tr.Symbol, tr.Price, tr.PnL)
		} else {
			fmt.Fprintf(&b, "BOUGHT %d %s @ %.2f\n", tr.Shares, tr.Symbol, tr.Price)
		}
	}
	return strings.TrimRight(b.String(), "\n")
}

// FormatSummary renders the portfolio snapshot digest.
func FormatSummary(snap model.PortfolioSnapshot, initialCash float64, at time.Time) string {
	totalPnL := snap.TotalValue - initialCash
	pct := 0.0
	if initialCash > 0 {
		pct = totalPnL / initialCash * 100
	}

	var b strings.Builder
	b.WriteString("<b>Portfolio Summary</b>\n")
	fmt.Fprintf(&b, "Date: %s\n\n", at.Format("2006-01-02 15:04:05"))
	fmt.Fprintf(&b, "Cash: %.2f\n", snap.Cash)
	fmt.Fprintf(&b, "Total Value: %.2f\n", snap.TotalValue)
	fmt.Fprintf(&b, "Total P/L: %.2f (%.2f%%)\n", totalPnL, pct)
	fmt.Fprintf(&b, "Trades: %d\n", snap.TradeCount)

	if len(snap.Holdings) > 0 {
		b.WriteString("\n<b>Holdings:</b>\n")
		for _, h := range snap.Holdings {
			fmt.Fprintf(&b, "%s: %d @ %.2f | Current: %.2f | P/L: %.2f\n",
				h.Symbol, h.Shares, h.AvgPrice, h.CurrentPrice, h.PnL)
		}
	} else {
		b.WriteString("\nNo active positions")
	}
	return strings.TrimRight(b.String(), "\n")
}
