package service

import (
	"context"
	"time"

	"pricehunt/internal/model"

	"github.com/google/uuid"
)

// Limits enforced by the services.
const (
	MinCompareProducts = 2
	MaxCompareProducts = 10
	DefaultHistoryDays = 30
	MaxHistoryDays     = 365
	MaxActiveAlerts    = 20
	MinPasswordLength  = 8
)

// ProductService defines read operations over products and their prices.
type ProductService interface {
	// Search filters, orders and paginates products.
	Search(ctx context.Context, params model.SearchParams) (*model.SearchResult, error)

	// GetByID retrieves a product with its current offers.
	GetByID(ctx context.Context, id string) (*model.ProductDetail, error)

	// GetByBarcode retrieves a product by EAN-13, EAN-8 or UPC-A barcode.
	GetByBarcode(ctx context.Context, code string) (*model.ProductDetail, error)

	// Compare returns the best offer of each product and the cheapest product.
	Compare(ctx context.Context, ids []string) (*model.Comparison, error)

	// History returns the price points of the last days days with statistics.
	// A zero days uses DefaultHistoryDays; an empty storeID covers every store.
	History(ctx context.Context, productID string, days int, storeID string) (*model.PriceHistory, error)
}

// PriceService defines operations for recording price observations.
type PriceService interface {
	// RecordPrices upserts offers and appends history in one transaction.
	// It returns the number of updates recorded.
	RecordPrices(ctx context.Context, updates []model.PriceUpdate) (int, error)
}

// AlertService defines operations for price alert management.
type AlertService interface {
	// Create registers a new alert for the user.
	Create(ctx context.Context, userID uuid.UUID, req *model.AlertRequest) (*model.PriceAlert, error)

	// List returns the user's alerts, newest first.
	List(ctx context.Context, userID uuid.UUID) ([]model.PriceAlert, error)

	// Delete removes an alert. Alerts of other users are reported as not found.
	Delete(ctx context.Context, userID, id uuid.UUID) error

	// ListActive returns every alert that has not fired yet.
	ListActive(ctx context.Context) ([]model.PriceAlert, error)

	// Evaluate reports the current lowest in-stock price of the alert's product
	// and whether it is at or below the target.
	Evaluate(ctx context.Context, alert model.PriceAlert) (price float64, triggered bool, err error)

	// MarkTriggered deactivates an alert.
	MarkTriggered(ctx context.Context, id uuid.UUID, at time.Time) error
}

// UserService defines account operations.
type UserService interface {
	// Register creates an account and signs the user in.
	Register(ctx context.Context, req *model.RegisterRequest) (*model.AuthResponse, error)

	// Login verifies credentials and issues an access token.
	Login(ctx context.Context, req *model.LoginRequest) (*model.AuthResponse, error)

	// Get retrieves a user by ID.
	Get(ctx context.Context, id uuid.UUID) (*model.User, error)
}
