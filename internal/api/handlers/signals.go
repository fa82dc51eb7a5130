package handlers

import (
	"log"
	"net/http"
	"time"

	"nifty-signals/internal/api/models"
	"nifty-signals/internal/config"
	"nifty-signals/internal/data"
	"nifty-signals/internal/signal"

	"github.com/gin-gonic/gin"
)

// SignalsHandler serves the latest recommendation per configured symbol
type SignalsHandler struct {
	cfg    *config.Config
	engine *signal.Engine
	bars   data.Provider
}

// NewSignalsHandler creates a new signals handler
func NewSignalsHandler(cfg *config.Config, engine *signal.Engine, bars data.Provider) *SignalsHandler {
	return &SignalsHandler{cfg: cfg, engine: engine, bars: bars}
}

// LatestSignals handles GET /api/v1/signals
//
// Symbols whose history cannot be fetched or evaluated are reported in
// the skipped list rather than failing the whole response.
func (h *SignalsHandler) LatestSignals(c *gin.Context) {
	resp := models.SignalsResponse{AsOf: time.Now()}

	for _, symbol := range h.cfg.Symbols {
		series, err := h.bars.DailyBars(symbol)
		if err != nil {
			log.Printf("[API] fetch %s failed: %v", symbol, err)
			resp.Skipped = append(resp.Skipped, models.SkippedSymbol{Symbol: symbol, Reason: err.Error()})
			continue
		}
		rec, err := h.engine.Evaluate(symbol, series)
		if err != nil {
			log.Printf("[API] evaluate %s failed: %v", symbol, err)
			resp.Skipped = append(resp.Skipped, models.SkippedSymbol{Symbol: symbol, Reason: err.Error()})
			continue
		}
		resp.Signals = append(resp.Signals, rec)
	}

	if len(resp.Signals) == 0 && len(resp.Skipped) > 0 {
		c.JSON(http.StatusBadGateway, models.ErrorResponse{
			Error: models.ErrorDetail{
				Code:    "DATA_FETCH_ERROR",
				Message: "no symbol could be evaluated",
				Details: map[string]interface{}{"skipped": resp.Skipped},
			},
		})
		return
	}

	c.JSON(http.StatusOK, resp)
}
