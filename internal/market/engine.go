package market

import (
	"fmt"
	"math/rand"

	"crypto-trade-sim-go/internal/config"
	"crypto-trade-sim-go/internal/models"
	"crypto-trade-sim-go/internal/walk"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Engine is the price walk engine. Every coin listing perturbs each stored
// price by a bounded random factor before the rows are returned, so the
// "market" moves on every read.
type Engine struct {
	db     *gorm.DB
	logger *zap.Logger
	rng    *rand.Rand
	steps  walk.StepSource
	floor  float64
}

// NewEngine creates a new price walk engine.
func NewEngine(db *gorm.DB, logger *zap.Logger, rng *rand.Rand, cfg *config.Market) *Engine {
	return &Engine{
		db:     db,
		logger: logger,
		rng:    rng,
		steps:  walk.Uniform{Spread: cfg.WalkSpread},
		floor:  cfg.MinPrice,
	}
}

// WalkPrices applies one random step to every coin's price and persists it.
// Each coin's update is independent; the first persistence error aborts the
// walk. Prices are clamped to the configured floor so repeated walks cannot
// drive a coin to zero (set the floor to 0 to disable the clamp).
func (e *Engine) WalkPrices() error {
	var coins []models.Coin
	if err := e.db.Find(&coins).Error; err != nil {
		return fmt.Errorf("could not load coins for price walk: %w", err)
	}

	for i := range coins {
		coin := &coins[i]
		newPrice := coin.Price * e.steps.Factor(e.rng)
		if e.floor > 0 && newPrice < e.floor {
			newPrice = e.floor
		}
		if err := e.db.Model(coin).Update("price", newPrice).Error; err != nil {
			return fmt.Errorf("could not update price for %s: %w", coin.Symbol, err)
		}
		e.logger.Debug("Walked coin price",
			zap.String("symbol", coin.Symbol),
			zap.Float64("price", newPrice))
	}

	return nil
}

// ListCoins walks all prices and returns the freshly updated rows.
func (e *Engine) ListCoins() ([]models.Coin, error) {
	if err := e.WalkPrices(); err != nil {
		return nil, err
	}

	// Re-read so the response reflects the walked prices, not a stale copy.
	var coins []models.Coin
	if err := e.db.Find(&coins).Error; err != nil {
		return nil, fmt.Errorf("could not list coins: %w", err)
	}

	return coins, nil
}
