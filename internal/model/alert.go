package model

import (
	"time"

	"github.com/google/uuid"
)

// PriceAlert notifies a user when a product drops to a target price.
type PriceAlert struct {
	ID          uuid.UUID  `json:"id" db:"id"`
	UserID      uuid.UUID  `json:"userId" db:"user_id"`
	ProductID   string     `json:"productId" db:"product_id"`
	TargetPrice float64    `json:"targetPrice" db:"target_price"`
	Currency    string     `json:"currency" db:"currency"`
	Active      bool       `json:"active" db:"active"`
	TriggeredAt *time.Time `json:"triggeredAt,omitempty" db:"triggered_at"`
	CreatedAt   time.Time  `json:"createdAt" db:"created_at"`
}

// AlertRequest is the payload for creating a price alert.
type AlertRequest struct {
	ProductID   string  `json:"productId"`
	TargetPrice float64 `json:"targetPrice"`
	Currency    string  `json:"currency,omitempty"`
}
