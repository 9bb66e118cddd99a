package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Coin represents a tradable coin and its current market price.
// Rows are seeded once at startup; only the price changes afterwards.
type Coin struct {
	ID        string    `json:"id" gorm:"primaryKey"`
	Symbol    string    `json:"symbol" gorm:"uniqueIndex;not null"`
	Name      string    `json:"name" gorm:"not null"`
	Price     float64   `json:"price" gorm:"not null"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (c *Coin) BeforeCreate(tx *gorm.DB) error {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	return nil
}
