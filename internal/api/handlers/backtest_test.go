package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"nifty-signals/internal/api/models"
	"nifty-signals/internal/model"
	"nifty-signals/internal/signal"

	"github.com/gin-gonic/gin"
)

func newBacktestRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	h := NewBacktestHandler(signal.Default(), 100000, nil)
	r.POST("/api/v1/backtest", h.RunBacktest)
	return r
}

func postBacktest(t *testing.T, r *gin.Engine, req models.BacktestRequest) *httptest.ResponseRecorder {
	t.Helper()
	body, err := json.Marshal(req)
	if err != nil {
		t.Fatalf("marshal request: %v", err)
	}
	w := httptest.NewRecorder()
	httpReq := httptest.NewRequest(http.MethodPost, "/api/v1/backtest", bytes.NewReader(body))
	httpReq.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, httpReq)
	return w
}

func trendBars(n int) []model.PriceBar {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	bars := make([]model.PriceBar, 0, n)
	for i := 0; i < n; i++ {
		price := 100 + float64(i)
		bars = append(bars, model.PriceBar{
			Timestamp: start.AddDate(0, 0, i),
			Open:      price,
			High:      price,
			Low:       price,
			Close:     price,
			Volume:    1000,
		})
	}
	return bars
}

func TestRunBacktestInlineBars(t *testing.T) {
	r := newBacktestRouter()

	w := postBacktest(t, r, models.BacktestRequest{
		Symbol: "DEMO",
		Bars:   trendBars(120),
	})
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", w.Code, w.Body.String())
	}

	var resp models.BacktestResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal response: %v", err)
	}
	if resp.ID == "" {
		t.Error("expected a run ID")
	}
	if resp.Status != "completed" {
		t.Errorf("status = %q, want completed", resp.Status)
	}
	if resp.Result == nil {
		t.Fatal("expected a result")
	}
	if resp.Result.Symbol != "DEMO" {
		t.Errorf("symbol = %q", resp.Result.Symbol)
	}
	if resp.Result.Equity != nil {
		t.Error("equity curve should be omitted unless requested")
	}
}

func TestRunBacktestIncludeEquity(t *testing.T) {
	r := newBacktestRouter()

	w := postBacktest(t, r, models.BacktestRequest{
		Symbol:        "DEMO",
		Bars:          trendBars(120),
		IncludeEquity: true,
	})
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", w.Code, w.Body.String())
	}

	var resp models.BacktestResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal response: %v", err)
	}
	if len(resp.Result.Equity) == 0 {
		t.Error("expected equity rows when include_equity is set")
	}
}

func TestRunBacktestMissingSymbol(t *testing.T) {
	r := newBacktestRouter()

	w := postBacktest(t, r, models.BacktestRequest{Bars: trendBars(120)})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}

	var resp models.ErrorResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal error response: %v", err)
	}
	if resp.Error.Code != "INVALID_REQUEST" {
		t.Errorf("code = %q", resp.Error.Code)
	}
}

func TestRunBacktestTooFewBars(t *testing.T) {
	r := newBacktestRouter()

	w := postBacktest(t, r, models.BacktestRequest{
		Symbol: "DEMO",
		Bars:   trendBars(10),
	})
	if w.Code != http.StatusUnprocessableEntity {
		t.Fatalf("status = %d, want 422, body %s", w.Code, w.Body.String())
	}
}

func TestRunBacktestNoBarsNoArchive(t *testing.T) {
	r := newBacktestRouter()

	w := postBacktest(t, r, models.BacktestRequest{Symbol: "DEMO"})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}
}
