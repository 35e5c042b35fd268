package model

import "time"

// Product represents a catalogue product tracked across stores.
type Product struct {
	ID          string    `json:"id" db:"id" yaml:"id"`
	Name        string    `json:"name" db:"name" yaml:"name"`
	Brand       string    `json:"brand" db:"brand" yaml:"brand"`
	Category    string    `json:"category" db:"category" yaml:"category"`
	Description string    `json:"description,omitempty" db:"description" yaml:"description"`
	Barcode     string    `json:"barcode,omitempty" db:"barcode" yaml:"barcode"`
	ImageURL    string    `json:"imageUrl,omitempty" db:"image_url" yaml:"imageUrl"`
	Rating      float64   `json:"rating" db:"rating" yaml:"rating"`
	ReviewCount int       `json:"reviewCount" db:"review_count" yaml:"reviewCount"`
	CreatedAt   time.Time `json:"createdAt" db:"created_at" yaml:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt" db:"updated_at" yaml:"updatedAt"`
}

// Store is a retailer that lists offers.
type Store struct {
	ID   string `json:"id" db:"id" yaml:"id"`
	Name string `json:"name" db:"name" yaml:"name"`
	URL  string `json:"url,omitempty" db:"url" yaml:"url"`
}

// Offer is the current price of a product at one store.
type Offer struct {
	ProductID string    `json:"productId" db:"product_id" yaml:"-"`
	StoreID   string    `json:"storeId" db:"store_id" yaml:"store"`
	StoreName string    `json:"storeName" db:"store_name" yaml:"-"`
	Price     float64   `json:"price" db:"price" yaml:"price"`
	Currency  string    `json:"currency" db:"currency" yaml:"currency"`
	URL       string    `json:"url,omitempty" db:"url" yaml:"url"`
	InStock   bool      `json:"inStock" db:"in_stock" yaml:"inStock"`
	UpdatedAt time.Time `json:"updatedAt" db:"updated_at" yaml:"-"`
}

// ProductSummary is the list view of a product with its price range.
type ProductSummary struct {
	Product
	LowestPrice  *float64 `json:"lowestPrice,omitempty"`
	HighestPrice *float64 `json:"highestPrice,omitempty"`
	Currency     string   `json:"currency,omitempty"`
	OfferCount   int      `json:"offerCount"`
	InStock      bool     `json:"inStock"`
}

// ProductDetail is a product with all of its current offers, cheapest first.
type ProductDetail struct {
	ProductSummary
	Offers []Offer `json:"offers"`
}

// Summarize derives the price range of a product from its offers.
func Summarize(p Product, offers []Offer) ProductSummary {
	s := ProductSummary{Product: p, OfferCount: len(offers)}
	for i := range offers {
		o := offers[i]
		if o.InStock {
			s.InStock = true
		}
		if s.LowestPrice == nil || o.Price < *s.LowestPrice {
			price := o.Price
			s.LowestPrice = &price
			s.Currency = o.Currency
		}
		if s.HighestPrice == nil || o.Price > *s.HighestPrice {
			price := o.Price
			s.HighestPrice = &price
		}
	}
	return s
}
