package portfolio

import (
	"errors"
	"fmt"
	"math/rand"

	"crypto-trade-sim-go/internal/config"
	"crypto-trade-sim-go/internal/models"
	"crypto-trade-sim-go/internal/performance"
	"crypto-trade-sim-go/internal/walk"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// ErrUserNotFound is returned when the referenced user does not exist.
var ErrUserNotFound = errors.New("user not found")

// Service assembles portfolio views: the holdings join, the synthesized
// performance report, and the simulated trade history.
type Service struct {
	db      *gorm.DB
	logger  *zap.Logger
	rng     *rand.Rand
	days    int
	flip    walk.StepSource
	uniform walk.StepSource
}

// NewService creates a new portfolio service.
func NewService(db *gorm.DB, logger *zap.Logger, rng *rand.Rand, cfg *config.Performance) *Service {
	return &Service{
		db:      db,
		logger:  logger,
		rng:     rng,
		days:    cfg.Days,
		flip:    walk.CoinFlip{Down: cfg.StepDown, Up: cfg.StepUp},
		uniform: walk.Uniform{Spread: cfg.HistorySpread},
	}
}

// Holdings returns every holding of the user with its coin preloaded, for
// valuation and the user-coins endpoint. An unknown user yields an empty
// list, not an error.
func (s *Service) Holdings(userID string) ([]models.Holding, error) {
	var holdings []models.Holding
	if err := s.db.Preload("Coin").Find(&holdings, "user_id = ?", userID).Error; err != nil {
		return nil, fmt.Errorf("could not load holdings: %w", err)
	}
	return holdings, nil
}

// Report is the portfolio performance payload: the aggregate series plus
// the best and worst performing holdings. BestCoin and WorstCoin are nil
// when the user holds nothing.
type Report struct {
	Portfolio performance.Series           `json:"portfolio"`
	BestCoin  *performance.CoinPerformance `json:"bestCoin"`
	WorstCoin *performance.CoinPerformance `json:"worstCoin"`
}

// valuation loads the user and their joined holdings and computes the total
// portfolio value: cash balance plus the market value of every holding.
func (s *Service) valuation(userID string) ([]models.Holding, float64, error) {
	var user models.User
	if err := s.db.First(&user, "id = ?", userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, 0, ErrUserNotFound
		}
		return nil, 0, fmt.Errorf("could not load user: %w", err)
	}

	holdings, err := s.Holdings(userID)
	if err != nil {
		return nil, 0, err
	}

	total := user.Balance
	for _, h := range holdings {
		total += h.Coin.Price * h.Amount
	}

	return holdings, total, nil
}

// Performance synthesizes a coin-flip walk for each holding, picks the best
// and worst by total return, and walks the aggregate portfolio value.
func (s *Service) Performance(userID string) (*Report, error) {
	holdings, total, err := s.valuation(userID)
	if err != nil {
		return nil, err
	}

	perfs := make([]performance.CoinPerformance, 0, len(holdings))
	for _, h := range holdings {
		perfs = append(perfs, performance.CoinPerformance{
			Symbol:      h.Coin.Symbol,
			Performance: performance.Synthesize(s.rng, h.Coin.Price*h.Amount, s.days, s.flip),
		})
	}

	best, worst := performance.BestWorst(perfs)

	s.logger.Debug("Synthesized performance report",
		zap.String("user_id", userID),
		zap.Int("holdings", len(holdings)),
		zap.Float64("total_value", total))

	return &Report{
		Portfolio: performance.Synthesize(s.rng, total, s.days, s.flip),
		BestCoin:  best,
		WorstCoin: worst,
	}, nil
}

// History synthesizes the continuous-walk variant over the total portfolio
// value, the series the trade-history view charts.
func (s *Service) History(userID string) (*performance.Series, error) {
	_, total, err := s.valuation(userID)
	if err != nil {
		return nil, err
	}

	series := performance.Synthesize(s.rng, total, s.days, s.uniform)
	return &series, nil
}
