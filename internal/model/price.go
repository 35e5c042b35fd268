package model

import (
	"time"

	"github.com/google/uuid"
)

// PricePoint is one observed price for a product at a store.
type PricePoint struct {
	ID         uuid.UUID `json:"id" db:"id"`
	ProductID  string    `json:"productId" db:"product_id"`
	StoreID    string    `json:"storeId" db:"store_id"`
	Price      float64   `json:"price" db:"price"`
	Currency   string    `json:"currency" db:"currency"`
	RecordedAt time.Time `json:"recordedAt" db:"recorded_at"`
}

// PriceUpdate is an incoming price observation from a feed or the admin API.
type PriceUpdate struct {
	StoreID   string  `json:"storeId"`
	StoreName string  `json:"storeName,omitempty"`
	ProductID string  `json:"productId"`
	Price     float64 `json:"price"`
	Currency  string  `json:"currency"`
	URL       string  `json:"url,omitempty"`
	InStock   bool    `json:"inStock"`
}

// PriceUpdateRequest is the admin payload for recording prices.
type PriceUpdateRequest struct {
	Updates []PriceUpdate `json:"updates"`
}

// PriceUpdateResponse reports how many updates were recorded.
type PriceUpdateResponse struct {
	Recorded int `json:"recorded"`
}

// PriceStats summarises a window of price history.
type PriceStats struct {
	Min     float64 `json:"min"`
	Max     float64 `json:"max"`
	Average float64 `json:"average"`
	Current float64 `json:"current"`
	Change  float64 `json:"change"` // current minus first point in the window
}

// PriceHistory is the history response for a product.
type PriceHistory struct {
	ProductID string       `json:"productId"`
	StoreID   string       `json:"storeId,omitempty"`
	Days      int          `json:"days"`
	Points    []PricePoint `json:"points"`
	Stats     *PriceStats  `json:"stats,omitempty"`
}

// ComparisonEntry is one product in a comparison with its best offer.
type ComparisonEntry struct {
	Product   ProductSummary `json:"product"`
	BestOffer *Offer         `json:"bestOffer,omitempty"`
}

// Comparison is the result of comparing several products.
type Comparison struct {
	Entries    []ComparisonEntry `json:"entries"`
	CheapestID string            `json:"cheapestId,omitempty"`
	Currency   string            `json:"currency,omitempty"`
}
