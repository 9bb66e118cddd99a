package config

import (
	"strings"

	"github.com/spf13/viper"
)

// Config holds all configuration for the application.
type Config struct {
	Server      Server      `mapstructure:"server"`
	Database    Database    `mapstructure:"database"`
	Logger      Logger      `mapstructure:"logger"`
	Market      Market      `mapstructure:"market"`
	Trading     Trading     `mapstructure:"trading"`
	Performance Performance `mapstructure:"performance"`
}

// Server holds the configuration for the web server.
type Server struct {
	Port           int     `mapstructure:"port"`
	RateLimit      float64 `mapstructure:"rate_limit"`
	RateLimitBurst int     `mapstructure:"rate_limit_burst"`
}

// Database holds the configuration for the database.
type Database struct {
	DSN string `mapstructure:"dsn"`
}

// Logger holds the configuration for the logger.
type Logger struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// SeedCoin describes one coin created at startup.
type SeedCoin struct {
	Symbol string  `mapstructure:"symbol"`
	Name   string  `mapstructure:"name"`
	Price  float64 `mapstructure:"price"`
}

// Market holds the configuration for the price walk engine.
type Market struct {
	WalkSpread float64    `mapstructure:"walk_spread"`
	MinPrice   float64    `mapstructure:"min_price"` // 0 disables the floor
	SeedCoins  []SeedCoin `mapstructure:"seed_coins"`
}

// Trading holds the configuration for accounts and trade execution.
type Trading struct {
	StartingBalance float64 `mapstructure:"starting_balance"`
}

// Performance holds the configuration for the performance synthesizer.
type Performance struct {
	Days          int     `mapstructure:"days"`
	StepDown      float64 `mapstructure:"step_down"`
	StepUp        float64 `mapstructure:"step_up"`
	HistorySpread float64 `mapstructure:"history_spread"`
}

// LoadConfig reads configuration from file or environment variables.
func LoadConfig(path string) (config Config, err error) {
	viper.AddConfigPath(path)
	viper.SetConfigName("config") // name of config file (without extension)
	viper.SetConfigType("yml")    // or yaml, json

	// Allow environment variables to override config file
	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// Set default values
	viper.SetDefault("server.port", 8080)
	viper.SetDefault("server.rate_limit", 50) // requests per second
	viper.SetDefault("server.rate_limit_burst", 20)
	viper.SetDefault("database.dsn", "trading.db")
	viper.SetDefault("logger.level", "info")
	viper.SetDefault("logger.format", "console")
	viper.SetDefault("market.walk_spread", 0.05)
	viper.SetDefault("market.min_price", 0.01)
	viper.SetDefault("trading.starting_balance", 1000)
	viper.SetDefault("performance.days", 30)
	viper.SetDefault("performance.step_down", 0.9)
	viper.SetDefault("performance.step_up", 1.1)
	viper.SetDefault("performance.history_spread", 0.05)

	err = viper.ReadInConfig()
	if err != nil {
		return
	}

	err = viper.Unmarshal(&config)
	return
}
