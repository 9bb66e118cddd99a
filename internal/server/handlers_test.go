package server

import (
	"math/rand"
	"net/http"
	"net/http/httptest"
	"testing"

	"crypto-trade-sim-go/internal/account"
	"crypto-trade-sim-go/internal/client"
	"crypto-trade-sim-go/internal/config"
	"crypto-trade-sim-go/internal/database"
	"crypto-trade-sim-go/internal/market"
	"crypto-trade-sim-go/internal/models"
	"crypto-trade-sim-go/internal/portfolio"
	"crypto-trade-sim-go/internal/trading"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

var testConfig = config.Config{
	Server: config.Server{RateLimit: 1000, RateLimitBurst: 1000},
	Market: config.Market{
		WalkSpread: 0.05,
		MinPrice:   0.01,
		SeedCoins: []config.SeedCoin{
			{Symbol: "A", Name: "Alpha Coin", Price: 100},
			{Symbol: "B", Name: "Beta Coin", Price: 200},
			{Symbol: "C", Name: "Gamma Coin", Price: 300},
			{Symbol: "X", Name: "Delta Coin", Price: 400},
		},
	},
	Trading: config.Trading{StartingBalance: 1000},
	Performance: config.Performance{
		Days:          30,
		StepDown:      0.9,
		StepUp:        1.1,
		HistorySpread: 0.05,
	},
}

// setupServer boots the full API against an in-memory database.
func setupServer(t *testing.T) *httptest.Server {
	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, database.AutoMigrate(db, &testConfig))

	log := zap.NewNop()
	h := NewAPIHandler(log,
		market.NewEngine(db, log, rand.New(rand.NewSource(1)), &testConfig.Market),
		trading.NewExecutor(db, log),
		portfolio.NewService(db, log, rand.New(rand.NewSource(1)), &testConfig.Performance),
		account.NewService(db, log, &testConfig.Trading),
	)

	ts := httptest.NewServer(NewMux(h, &testConfig.Server))
	t.Cleanup(ts.Close)
	return ts
}

func findCoin(t *testing.T, coins []models.Coin, symbol string) models.Coin {
	for _, c := range coins {
		if c.Symbol == symbol {
			return c
		}
	}
	t.Fatalf("coin %s not found", symbol)
	return models.Coin{}
}

func TestAPI_SignupBuyAndChart(t *testing.T) {
	ts := setupServer(t)
	c := client.New(ts.URL)

	user, err := c.Signup("Test User", "test@example.com", "hunter22")
	require.NoError(t, err)
	assert.Equal(t, 1000.0, user.Balance)
	assert.Empty(t, user.Password)

	coins, err := c.ListCoins()
	require.NoError(t, err)
	require.Len(t, coins, 4)

	// Listing walked the prices; the buy is costed at the walked price.
	coinA := findCoin(t, coins, "A")
	assert.InDelta(t, 100, coinA.Price, 5)

	profile, err := c.User(user.ID)
	require.NoError(t, err)
	assert.Equal(t, user.Email, profile.Email)

	result, err := c.Buy(user.ID, coinA.ID, 2)
	require.NoError(t, err)
	assert.InDelta(t, 2, result.Holding.Amount, 1e-9)
	assert.InDelta(t, 1000-2*coinA.Price, result.User.Balance, 1e-9)

	holdings, err := c.UserCoins(user.ID)
	require.NoError(t, err)
	require.Len(t, holdings, 1)
	require.NotNil(t, holdings[0].Coin)
	assert.Equal(t, "A", holdings[0].Coin.Symbol)
	assert.InDelta(t, 2, holdings[0].Amount, 1e-9)

	report, err := c.Performance(user.ID)
	require.NoError(t, err)
	assert.Len(t, report.Portfolio.Values, 31)
	require.NotNil(t, report.BestCoin)
	require.NotNil(t, report.WorstCoin)
	assert.Equal(t, "A", report.BestCoin.Symbol)

	history, err := c.History(user.ID)
	require.NoError(t, err)
	assert.Len(t, history.Values, 31)
}

func TestAPI_ErrorMapping(t *testing.T) {
	ts := setupServer(t)
	c := client.New(ts.URL)

	user, err := c.Signup("Test User", "test@example.com", "hunter22")
	require.NoError(t, err)

	coins, err := c.ListCoins()
	require.NoError(t, err)
	coinA := findCoin(t, coins, "A")

	_, err = c.Signup("Other User", "test@example.com", "different")
	assert.ErrorContains(t, err, "Email already exists")

	_, err = c.Buy(user.ID, coinA.ID, 0)
	assert.ErrorContains(t, err, "Amount must be positive")

	_, err = c.Buy(user.ID, "missing", 1)
	assert.ErrorContains(t, err, "User or coin not found")

	_, err = c.Buy(user.ID, coinA.ID, 1e6)
	assert.ErrorContains(t, err, "Insufficient balance")

	_, err = c.Performance("missing")
	assert.ErrorContains(t, err, "User not found")

	_, err = c.User("missing")
	assert.ErrorContains(t, err, "User not found")

	// Balance untouched by the rejected purchases.
	fresh, err := c.UserCoins(user.ID)
	require.NoError(t, err)
	assert.Empty(t, fresh)
}

func TestAPI_UserIDRequired(t *testing.T) {
	ts := setupServer(t)

	resp, err := http.Get(ts.URL + "/api/user/coins")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestRateLimit(t *testing.T) {
	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, database.AutoMigrate(db, &testConfig))

	log := zap.NewNop()
	h := NewAPIHandler(log,
		market.NewEngine(db, log, rand.New(rand.NewSource(1)), &testConfig.Market),
		trading.NewExecutor(db, log),
		portfolio.NewService(db, log, rand.New(rand.NewSource(1)), &testConfig.Performance),
		account.NewService(db, log, &testConfig.Trading),
	)

	// One request per second with no burst headroom: the second immediate
	// request must be rejected.
	ts := httptest.NewServer(NewMux(h, &config.Server{RateLimit: 1, RateLimitBurst: 1}))
	defer ts.Close()

	resp, err := http.Get(ts.URL + "/api/health")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, err = http.Get(ts.URL + "/api/health")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusTooManyRequests, resp.StatusCode)
}
