package trading

import (
	"errors"
	"fmt"

	"crypto-trade-sim-go/internal/models"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Executor validates and executes buy orders against the ledger store.
type Executor struct {
	db     *gorm.DB
	logger *zap.Logger
}

// NewExecutor creates a new trade executor.
func NewExecutor(db *gorm.DB, logger *zap.Logger) *Executor {
	return &Executor{db: db, logger: logger}
}

// BuyResult is the outcome of a successful purchase: the debited user and
// the created or incremented holding.
type BuyResult struct {
	User    models.User    `json:"user"`
	Holding models.Holding `json:"userCoin"`
}

// Buy purchases amount units of a coin for a user. The balance check, the
// debit, and the holding upsert all run inside one transaction, so either
// both writes are applied or neither is. Concurrent buys by the same user
// serialize on the store's transaction isolation; the balance can never go
// negative.
func (ex *Executor) Buy(userID, coinID string, amount float64) (*BuyResult, error) {
	if amount <= 0 {
		return nil, ErrInvalidAmount
	}

	var result BuyResult
	err := ex.db.Transaction(func(tx *gorm.DB) error {
		var user models.User
		if err := tx.First(&user, "id = ?", userID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return fmt.Errorf("could not load user: %w", err)
		}

		var coin models.Coin
		if err := tx.First(&coin, "id = ?", coinID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return fmt.Errorf("could not load coin: %w", err)
		}

		totalCost := coin.Price * amount
		if user.Balance < totalCost {
			ex.logger.Debug("Rejecting buy, balance below total cost",
				zap.String("user_id", userID),
				zap.Float64("balance", user.Balance),
				zap.Float64("total_cost", totalCost))
			return ErrInsufficientBalance
		}

		if err := tx.Model(&user).Update("balance", user.Balance-totalCost).Error; err != nil {
			return fmt.Errorf("could not debit balance: %w", err)
		}

		// Single atomic increment-or-create, not read-then-write.
		holding := models.Holding{UserID: userID, CoinID: coinID, Amount: amount}
		if err := tx.Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "user_id"}, {Name: "coin_id"}},
			DoUpdates: clause.Assignments(map[string]interface{}{
				"amount": gorm.Expr("amount + ?", amount),
			}),
		}).Create(&holding).Error; err != nil {
			return fmt.Errorf("could not upsert holding: %w", err)
		}

		// Reload both rows so the caller sees the persisted state. The
		// holding goes into a fresh struct: after a conflicting upsert the
		// primary key filled in by Create is not trustworthy.
		if err := tx.First(&result.User, "id = ?", userID).Error; err != nil {
			return fmt.Errorf("could not reload user: %w", err)
		}
		if err := tx.First(&result.Holding, "user_id = ? AND coin_id = ?", userID, coinID).Error; err != nil {
			return fmt.Errorf("could not reload holding: %w", err)
		}

		ex.logger.Info("Executed buy",
			zap.String("user_id", userID),
			zap.String("symbol", coin.Symbol),
			zap.Float64("amount", amount),
			zap.Float64("total_cost", totalCost),
			zap.Float64("new_balance", result.User.Balance))
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &result, nil
}
