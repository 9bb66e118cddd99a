package database

import (
	"fmt"

	"crypto-trade-sim-go/internal/config"
	"crypto-trade-sim-go/internal/models"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// NewDatabase creates a new database connection and performs auto-migration.
func NewDatabase(cfg *config.Config) (*gorm.DB, error) {
	db, err := gorm.Open(sqlite.Open(cfg.Database.DSN), &gorm.Config{
		TranslateError: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// Auto-migrate the schema and seed the coin table
	if err := AutoMigrate(db, cfg); err != nil {
		return nil, err
	}

	return db, nil
}

// AutoMigrate creates the tables and populates the initial coins from the config.
func AutoMigrate(db *gorm.DB, cfg *config.Config) error {
	if err := db.AutoMigrate(&models.User{}, &models.Coin{}, &models.Holding{}); err != nil {
		return fmt.Errorf("failed to auto-migrate database: %w", err)
	}

	// Populate the 'coins' table from the config. Existing rows keep their
	// walked price; only missing coins are created.
	for _, seed := range cfg.Market.SeedCoins {
		coin := models.Coin{Symbol: seed.Symbol, Name: seed.Name, Price: seed.Price}
		if err := db.FirstOrCreate(&coin, models.Coin{Symbol: seed.Symbol}).Error; err != nil {
			return fmt.Errorf("failed to populate coin '%s': %w", seed.Symbol, err)
		}
	}

	return nil
}
