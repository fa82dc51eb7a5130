package handlers

import (
	"net/http"

	"nifty-signals/internal/api/models"
	"nifty-signals/internal/paper"
	"nifty-signals/internal/signal"

	"github.com/gin-gonic/gin"
)

// StrategyHandler describes the active strategy parameters
type StrategyHandler struct {
	signal signal.Config
	sizing paper.Sizing
}

// NewStrategyHandler creates a new strategy handler
func NewStrategyHandler(sig signal.Config, sizing paper.Sizing) *StrategyHandler {
	return &StrategyHandler{signal: sig, sizing: sizing}
}

// GetStrategy handles GET /api/v1/strategy
func (h *StrategyHandler) GetStrategy(c *gin.Context) {
	c.JSON(http.StatusOK, models.StrategyResponse{
		Signal:  h.signal,
		Sizing:  h.sizing,
		MinBars: h.signal.MinBars(),
	})
}
