package trading

import "errors"

var (
	// ErrInvalidAmount is returned when a buy carries a missing or
	// non-positive amount.
	ErrInvalidAmount = errors.New("trade amount must be positive")

	// ErrNotFound is returned when the referenced user or coin does not exist.
	ErrNotFound = errors.New("user or coin not found")

	// ErrInsufficientBalance is returned when the user's balance does not
	// cover the total cost of the purchase.
	ErrInsufficientBalance = errors.New("insufficient balance")
)
