package handlers

import (
	"errors"
	"log"
	"net/http"

	"nifty-signals/internal/api/models"
	"nifty-signals/internal/backtest"
	"nifty-signals/internal/data"
	"nifty-signals/internal/model"
	"nifty-signals/internal/signal"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// BacktestHandler runs strategy backtests on request
type BacktestHandler struct {
	defaults       signal.Config
	initialCapital float64
	archive        *data.Archive
}

// NewBacktestHandler creates a new backtest handler. archive may be nil
// when no bar archive is configured; requests must then carry inline bars.
func NewBacktestHandler(defaults signal.Config, initialCapital float64, archive *data.Archive) *BacktestHandler {
	return &BacktestHandler{defaults: defaults, initialCapital: initialCapital, archive: archive}
}

// RunBacktest handles POST /api/v1/backtest
func (h *BacktestHandler) RunBacktest(c *gin.Context) {
	var req models.BacktestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error: models.ErrorDetail{
				Code:    "INVALID_REQUEST",
				Message: err.Error(),
			},
		})
		return
	}

	series, err := h.loadSeries(req)
	if err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error: models.ErrorDetail{
				Code:    "DATA_FETCH_ERROR",
				Message: err.Error(),
			},
		})
		return
	}

	cfg := h.defaults
	if req.Signal != nil {
		cfg = *req.Signal
	}
	capital := h.initialCapital
	if req.InitialCapital > 0 {
		capital = req.InitialCapital
	}

	engine, err := backtest.New(cfg, capital)
	if err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error: models.ErrorDetail{
				Code:    "INVALID_CONFIG",
				Message: err.Error(),
			},
		})
		return
	}

	result, err := engine.Run(req.Symbol, series)
	if err != nil {
		status := http.StatusInternalServerError
		code := "BACKTEST_ERROR"
		if errors.Is(err, model.ErrInsufficientData) || errors.Is(err, model.ErrInvalidData) {
			status = http.StatusUnprocessableEntity
			code = "INVALID_DATA"
		}
		c.JSON(status, models.ErrorResponse{
			Error: models.ErrorDetail{
				Code:    code,
				Message: err.Error(),
			},
		})
		return
	}
	if !req.IncludeEquity {
		result.Equity = nil
	}

	id := uuid.New().String()
	log.Printf("[API] backtest %s: %s %.2f%% (buy&hold %.2f%%)",
		id, req.Symbol, result.StrategyReturnPct, result.BuyHoldReturnPct)

	c.JSON(http.StatusOK, models.BacktestResponse{
		ID:     id,
		Status: "completed",
		Result: result,
	})
}

func (h *BacktestHandler) loadSeries(req models.BacktestRequest) (model.Series, error) {
	if len(req.Bars) > 0 {
		return model.Series(req.Bars), nil
	}
	if h.archive == nil {
		return nil, errors.New("no bars supplied and no archive configured")
	}
	return h.archive.DailyBars(req.Symbol)
}
