package repository

import (
	"context"
	"time"

	"pricehunt/internal/model"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// ProductRepository defines the interface for product data access operations.
type ProductRepository interface {
	// Search filters, orders and paginates products with facet counts.
	Search(ctx context.Context, params model.SearchParams) (*model.SearchResult, error)

	// GetByID retrieves a single product by its ID. Returns nil when absent.
	GetByID(ctx context.Context, id string) (*model.Product, error)

	// GetByBarcode retrieves a product by its normalized barcode. Returns nil when absent.
	GetByBarcode(ctx context.Context, code string) (*model.Product, error)

	// GetOffers returns the current offers for a product.
	GetOffers(ctx context.Context, productID string) ([]model.Offer, error)

	// ExistingIDs returns the subset of ids that exist.
	ExistingIDs(ctx context.Context, ids []string) (map[string]bool, error)

	// Upsert inserts or updates a product.
	Upsert(ctx context.Context, p *model.Product) error
}

// PriceRepository defines the interface for offer and price history access.
type PriceRepository interface {
	// BeginTx starts a new database transaction.
	BeginTx(ctx context.Context) (pgx.Tx, error)

	// UpsertStore inserts a store or refreshes its name and URL.
	UpsertStore(ctx context.Context, tx pgx.Tx, store model.Store) error

	// UpsertOffer sets the current offer of a product at a store.
	UpsertOffer(ctx context.Context, tx pgx.Tx, offer model.Offer) error

	// RecordPrice appends a point to the price history.
	RecordPrice(ctx context.Context, tx pgx.Tx, point model.PricePoint) error

	// History returns points recorded since the given time, oldest first.
	// An empty storeID returns points from every store.
	History(ctx context.Context, productID string, since time.Time, storeID string) ([]model.PricePoint, error)

	// LowestPrice returns the lowest in-stock offer price of a product.
	LowestPrice(ctx context.Context, productID string) (price float64, found bool, err error)
}

// AlertRepository defines the interface for price alert persistence.
type AlertRepository interface {
	// Create inserts a new alert. Returns model.ErrAlertLimit when the user
	// already has maxActive active alerts.
	Create(ctx context.Context, alert *model.PriceAlert, maxActive int) error

	// GetByID retrieves an alert. Returns nil when absent.
	GetByID(ctx context.Context, id uuid.UUID) (*model.PriceAlert, error)

	// ListByUser returns a user's alerts, newest first.
	ListByUser(ctx context.Context, userID uuid.UUID) ([]model.PriceAlert, error)

	// Delete removes an alert owned by userID. Reports whether a row was removed.
	Delete(ctx context.Context, id, userID uuid.UUID) (bool, error)

	// ListActive returns every alert that has not fired yet.
	ListActive(ctx context.Context) ([]model.PriceAlert, error)

	// MarkTriggered deactivates an alert and stamps when it fired.
	MarkTriggered(ctx context.Context, id uuid.UUID, at time.Time) error
}

// UserRepository defines the interface for user persistence.
type UserRepository interface {
	// Create inserts a user. Returns model.ErrEmailTaken on a duplicate email.
	Create(ctx context.Context, user *model.User) error

	// GetByEmail retrieves a user by email. Returns nil when absent.
	GetByEmail(ctx context.Context, email string) (*model.User, error)

	// GetByID retrieves a user by ID. Returns nil when absent.
	GetByID(ctx context.Context, id uuid.UUID) (*model.User, error)
}
