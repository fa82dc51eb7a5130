package notify

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"nifty-signals/internal/model"
	"nifty-signals/internal/signal"
)

func TestSendPostsToBotAPI(t *testing.T) {
	var gotPath string
	var gotForm map[string][]string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		r.ParseForm()
		gotForm = r.PostForm
		w.Write([]byte(`{"ok":true}`))
	}))
	defer srv.Close()

	tg := NewTelegram("token123", "42", "")
	tg.BaseURL = srv.URL

	if err := tg.Send("hello <b>world</b>", "42"); err != nil {
		t.Fatalf("Send: %v", err)
	}
	if gotPath != "/bottoken123/sendMessage" {
		t.Errorf("path = %q, want /bottoken123/sendMessage", gotPath)
	}
	if gotForm["chat_id"][0] != "42" || gotForm["parse_mode"][0] != "HTML" {
		t.Errorf("form = %v", gotForm)
	}
}

func TestSendSurfacesAPIFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"ok":false,"description":"chat not found"}`))
	}))
	defer srv.Close()

	tg := NewTelegram("token123", "42", "")
	tg.BaseURL = srv.URL

	err := tg.Send("hello", "42")
	if err == nil || !strings.Contains(err.Error(), "chat not found") {
		t.Errorf("err = %v, want chat not found", err)
	}
}

func TestDisabledClientIsNoOp(t *testing.T) {
	tg := NewTelegram("", "", "")
	if tg.Enabled() {
		t.Error("client with no token should be disabled")
	}
	if err := tg.Broadcast("hello"); err != nil {
		t.Errorf("disabled broadcast should be a no-op, got %v", err)
	}
}

func TestFormatRecommendations(t *testing.T) {
	recs := []signal.Recommendation{
		{Symbol: "RELIANCE", Signal: model.SignalBuy, Price: 2500, Target: 2625},
		{Symbol: "TCS", Signal: model.SignalSell, Price: 3000},
		{Symbol: "INFY", Signal: model.SignalHold, Price: 1500},
	}

	msg := FormatRecommendations(recs)
	if !strings.Contains(msg, "BUY RELIANCE</b> @ 2500.00 (Target: 2625.00)") {
		t.Errorf("missing buy line in %q", msg)
	}
	if !strings.Contains(msg, "SELL TCS</b> @ 3000.00") {
		t.Errorf("missing sell line in %q", msg)
	}
	if strings.Contains(msg, "INFY") {
		t.Errorf("HOLD should not appear in digest: %q", msg)
	}
}

func TestFormatRecommendationsEmpty(t *testing.T) {
	msg := FormatRecommendations(nil)
	if !strings.Contains(msg, "No strong Buy/Sell signals") {
		t.Errorf("unexpected empty digest: %q", msg)
	}
}

func TestFormatSummary(t *testing.T) {
	snap := model.PortfolioSnapshot{
		Cash:       90000,
		TotalValue: 101000,
		TradeCount: 3,
		Holdings: []model.HoldingView{
			{Symbol: "ITC", Shares: 25, AvgPrice: 400, CurrentPrice: 440, PnL: 1000},
		},
	}
	msg := FormatSummary(snap, 100000, time.Date(2024, 6, 3, 16, 0, 0, 0, time.UTC))

	if !strings.Contains(msg, "Total P/L: 1000.00 (1.00%)") {
		t.Errorf("missing total pnl in %q", msg)
	}
	if !strings.Contains(msg, "ITC: 25 @ 400.00") {
		t.Errorf("missing holding line in %q", msg)
	}
}
