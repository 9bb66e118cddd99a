package models

import "time"

// Holding is a user's owned quantity of a specific coin.
// There is at most one row per (user, coin); repeat purchases increment Amount.
type Holding struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	UserID    string    `json:"userId" gorm:"uniqueIndex:idx_holdings_user_coin;not null"`
	CoinID    string    `json:"coinId" gorm:"uniqueIndex:idx_holdings_user_coin;not null"`
	Amount    float64   `json:"amount" gorm:"not null"`
	Coin      *Coin     `json:"coin,omitempty" gorm:"foreignKey:CoinID"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
