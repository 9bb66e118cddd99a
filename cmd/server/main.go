package main

import (
	"fmt"
	"net/http"
	"os"

	"crypto-trade-sim-go/internal/account"
	"crypto-trade-sim-go/internal/config"
	"crypto-trade-sim-go/internal/database"
	"crypto-trade-sim-go/internal/logger"
	"crypto-trade-sim-go/internal/market"
	"crypto-trade-sim-go/internal/portfolio"
	"crypto-trade-sim-go/internal/server"
	"crypto-trade-sim-go/internal/trading"
	"crypto-trade-sim-go/internal/walk"
	"go.uber.org/zap"
)

func main() {
	// Load configuration
	cfg, err := config.LoadConfig("./configs")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	log, err := logger.NewLogger(cfg.Logger.Level, cfg.Logger.Format)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	// Connect to the database and seed the coins
	db, err := database.NewDatabase(&cfg)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	log.Info("Database connection successful and schema migrated.")

	// Wire up the trading core
	marketEngine := market.NewEngine(db, log, walk.NewRand(), &cfg.Market)
	executor := trading.NewExecutor(db, log)
	portfolioSvc := portfolio.NewService(db, log, walk.NewRand(), &cfg.Performance)
	accountSvc := account.NewService(db, log, &cfg.Trading)

	apiHandler := server.NewAPIHandler(log, marketEngine, executor, portfolioSvc, accountSvc)
	mux := server.NewMux(apiHandler, &cfg.Server)

	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	log.Info("Starting web server", zap.String("address", addr))

	if err := http.ListenAndServe(addr, mux); err != nil {
		log.Fatal("Web server failed", zap.Error(err))
	}
}
