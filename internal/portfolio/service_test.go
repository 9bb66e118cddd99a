package portfolio

import (
	"math/rand"
	"testing"

	"crypto-trade-sim-go/internal/config"
	"crypto-trade-sim-go/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

var testPerformanceConfig = config.Performance{
	Days:          30,
	StepDown:      0.9,
	StepUp:        1.1,
	HistorySpread: 0.05,
}

// setupTest creates a new, non-shared in-memory database for each test.
func setupTest(t *testing.T) (*gorm.DB, *Service) {
	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{})
	require.NoError(t, err)

	err = db.AutoMigrate(&models.User{}, &models.Coin{}, &models.Holding{})
	require.NoError(t, err)

	svc := NewService(db, zap.NewNop(), rand.New(rand.NewSource(1)), &testPerformanceConfig)
	return db, svc
}

func seedPortfolio(t *testing.T, db *gorm.DB) (models.User, []models.Coin) {
	user := models.User{Name: "Test User", Email: "test@example.com", Password: "x", Balance: 500}
	require.NoError(t, db.Create(&user).Error)

	coinA := models.Coin{Symbol: "A", Name: "Alpha Coin", Price: 100}
	coinB := models.Coin{Symbol: "B", Name: "Beta Coin", Price: 200}
	require.NoError(t, db.Create(&coinA).Error)
	require.NoError(t, db.Create(&coinB).Error)

	require.NoError(t, db.Create(&models.Holding{UserID: user.ID, CoinID: coinA.ID, Amount: 2}).Error)
	require.NoError(t, db.Create(&models.Holding{UserID: user.ID, CoinID: coinB.ID, Amount: 1}).Error)

	return user, []models.Coin{coinA, coinB}
}

func TestHoldings_JoinsCoins(t *testing.T) {
	db, svc := setupTest(t)
	user, _ := seedPortfolio(t, db)

	holdings, err := svc.Holdings(user.ID)
	require.NoError(t, err)
	require.Len(t, holdings, 2)

	symbols := map[string]float64{}
	for _, h := range holdings {
		require.NotNil(t, h.Coin)
		symbols[h.Coin.Symbol] = h.Amount
	}
	assert.Equal(t, 2.0, symbols["A"])
	assert.Equal(t, 1.0, symbols["B"])
}

func TestHoldings_UnknownUserYieldsEmptyList(t *testing.T) {
	_, svc := setupTest(t)

	holdings, err := svc.Holdings("missing")
	require.NoError(t, err)
	assert.Empty(t, holdings)
}

func TestPerformance_ReportShape(t *testing.T) {
	db, svc := setupTest(t)
	user, _ := seedPortfolio(t, db)

	report, err := svc.Performance(user.ID)
	require.NoError(t, err)

	assert.Len(t, report.Portfolio.Values, 31)
	assert.Len(t, report.Portfolio.Dates, 31)

	require.NotNil(t, report.BestCoin)
	require.NotNil(t, report.WorstCoin)
	assert.Contains(t, []string{"A", "B"}, report.BestCoin.Symbol)
	assert.Contains(t, []string{"A", "B"}, report.WorstCoin.Symbol)
	assert.Len(t, report.BestCoin.Performance.Values, 31)
}

func TestPerformance_NoHoldings(t *testing.T) {
	db, svc := setupTest(t)
	user := models.User{Name: "Empty", Email: "empty@example.com", Password: "x", Balance: 1000}
	require.NoError(t, db.Create(&user).Error)

	report, err := svc.Performance(user.ID)
	require.NoError(t, err)

	// No holdings: neither a best nor a worst performer, but the aggregate
	// series is still walked from the cash balance.
	assert.Nil(t, report.BestCoin)
	assert.Nil(t, report.WorstCoin)
	assert.Len(t, report.Portfolio.Values, 31)
}

func TestPerformance_UnknownUser(t *testing.T) {
	_, svc := setupTest(t)

	_, err := svc.Performance("missing")
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestHistory_UsesContinuousWalk(t *testing.T) {
	db, svc := setupTest(t)
	user, _ := seedPortfolio(t, db)

	series, err := svc.History(user.ID)
	require.NoError(t, err)
	require.Len(t, series.Values, 31)

	// Every step stays within the -5%..+5% band (small slack for the
	// two-decimal rounding applied at each step).
	prev := 500.0 + 2*100 + 1*200
	for _, v := range series.Values {
		ratio := v / prev
		assert.Greater(t, ratio, 0.94)
		assert.Less(t, ratio, 1.06)
		prev = v
	}
}

func TestHistory_UnknownUser(t *testing.T) {
	_, svc := setupTest(t)

	_, err := svc.History("missing")
	assert.ErrorIs(t, err, ErrUserNotFound)
}
