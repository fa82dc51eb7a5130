package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"nifty-signals/internal/api/handlers"
	"nifty-signals/internal/api/middleware"
	"nifty-signals/internal/config"
	"nifty-signals/internal/data"
	"nifty-signals/internal/signal"
	"nifty-signals/internal/store"

	"github.com/gin-gonic/gin"
)

func main() {
	configPath := flag.String("config", "config.yaml", "Path to YAML config")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	port := os.Getenv("API_PORT")
	if port == "" {
		port = "8080"
	}

	engine, err := signal.New(cfg.Signal)
	if err != nil {
		log.Fatalf("Invalid signal config: %v", err)
	}

	st, err := store.Open(cfg.Store.Kind, cfg.Store.Path, cfg.Sizing.InitialCash)
	if err != nil {
		log.Fatalf("Failed to open store: %v", err)
	}
	defer st.Close()

	client := data.NewClient(cfg.Data.BaseURL)
	var archive *data.Archive
	if cfg.Data.ArchiveDir != "" {
		archive = data.NewArchive(cfg.Data.ArchiveDir)
	}

	// Set up Gin router
	if os.Getenv("API_ENV") == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.Default()

	// Apply middleware
	router.Use(middleware.CORS())
	router.Use(middleware.Logger())
	router.Use(middleware.ErrorHandler())

	// Initialize handlers
	signalsHandler := handlers.NewSignalsHandler(cfg, engine, client)
	portfolioHandler := handlers.NewPortfolioHandler(st, client, cfg.Index)
	backtestHandler := handlers.NewBacktestHandler(cfg.Signal, cfg.Sizing.InitialCash, archive)
	strategyHandler := handlers.NewStrategyHandler(cfg.Signal, cfg.Sizing)

	// Health check
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	// API routes
	api := router.Group("/api/v1")
	{
		api.GET("/signals", signalsHandler.LatestSignals)
		api.GET("/portfolio", portfolioHandler.GetPortfolio)
		api.POST("/backtest", backtestHandler.RunBacktest)
		api.GET("/strategy", strategyHandler.GetStrategy)
	}

	// Start server
	addr := fmt.Sprintf(":%s", port)
	log.Printf("Starting API server on %s", addr)
	if err := router.Run(addr); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
