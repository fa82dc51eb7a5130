package handlers

import (
	"log"
	"net/http"

	"nifty-signals/internal/api/models"
	"nifty-signals/internal/data"
	"nifty-signals/internal/store"

	"github.com/gin-gonic/gin"
)

// PortfolioHandler serves the paper-trading portfolio state
type PortfolioHandler struct {
	store  store.Store
	quotes *data.Client
	index  string
}

// NewPortfolioHandler creates a new portfolio handler. quotes may be nil,
// in which case holdings are valued at cost basis.
func NewPortfolioHandler(st store.Store, quotes *data.Client, index string) *PortfolioHandler {
	return &PortfolioHandler{store: st, quotes: quotes, index: index}
}

// GetPortfolio handles GET /api/v1/portfolio
func (h *PortfolioHandler) GetPortfolio(c *gin.Context) {
	p, err := h.store.Load()
	if err != nil {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{
			Error: models.ErrorDetail{
				Code:    "PERSISTENCE_ERROR",
				Message: err.Error(),
			},
		})
		return
	}

	prices := map[string]float64{}
	live := false
	if h.quotes != nil && len(p.Holdings) > 0 {
		quotes, err := h.quotes.FetchIndexQuotes(h.index)
		if err != nil {
			log.Printf("[API] quote fetch failed, valuing at cost basis: %v", err)
		} else {
			prices = data.QuoteMap(quotes)
			live = true
		}
	}

	resp := models.PortfolioResponse{
		Snapshot:   p.Snapshot(prices),
		PricesLive: live,
	}
	if c.Query("include_trades") == "true" {
		resp.Trades = p.TradeLog
	}
	c.JSON(http.StatusOK, resp)
}
