package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"pricehunt/internal/model"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

// priceRepository implements the PriceRepository interface using PostgreSQL.
type priceRepository struct {
	pool   *pgxpool.Pool
	logger zerolog.Logger
}

// NewPriceRepository creates a new PostgreSQL-backed price repository.
func NewPriceRepository(pool *pgxpool.Pool, logger zerolog.Logger) PriceRepository {
	return &priceRepository{
		pool:   pool,
		logger: logger.With().Str("repository", "price").Logger(),
	}
}

// BeginTx starts a new database transaction.
func (r *priceRepository) BeginTx(ctx context.Context) (pgx.Tx, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		r.logger.Error().Err(err).Msg("failed to begin transaction")
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	return tx, nil
}

// UpsertStore inserts a store or refreshes its name and URL.
// Blank names and URLs never overwrite existing values.
func (r *priceRepository) UpsertStore(ctx context.Context, tx pgx.Tx, store model.Store) error {
	query := `
		INSERT INTO stores (id, name, url)
		VALUES ($1, COALESCE(NULLIF($2, ''), $1), $3)
		ON CONFLICT (id) DO UPDATE SET
			name = COALESCE(NULLIF($2, ''), stores.name),
			url = COALESCE(NULLIF($3, ''), stores.url)
	`

	if _, err := tx.Exec(ctx, query, store.ID, store.Name, store.URL); err != nil {
		r.logger.Error().Err(err).Str("store_id", store.ID).Msg("failed to upsert store")
		return fmt.Errorf("failed to upsert store: %w", err)
	}
	return nil
}

// UpsertOffer sets the current offer of a product at a store.
func (r *priceRepository) UpsertOffer(ctx context.Context, tx pgx.Tx, offer model.Offer) error {
	query := `
		INSERT INTO offers (product_id, store_id, price, currency, url, in_stock, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (product_id, store_id) DO UPDATE SET
			price = EXCLUDED.price,
			currency = EXCLUDED.currency,
			url = COALESCE(NULLIF(EXCLUDED.url, ''), offers.url),
			in_stock = EXCLUDED.in_stock,
			updated_at = EXCLUDED.updated_at
	`

	updatedAt := offer.UpdatedAt
	if updatedAt.IsZero() {
		updatedAt = time.Now()
	}

	_, err := tx.Exec(ctx, query,
		offer.ProductID, offer.StoreID, offer.Price, offer.Currency, offer.URL, offer.InStock, updatedAt,
	)
	if err != nil {
		r.logger.Error().Err(err).
			Str("product_id", offer.ProductID).
			Str("store_id", offer.StoreID).
			Msg("failed to upsert offer")
		return fmt.Errorf("failed to upsert offer: %w", err)
	}
	return nil
}

// RecordPrice appends a point to the price history.
func (r *priceRepository) RecordPrice(ctx context.Context, tx pgx.Tx, point model.PricePoint) error {
	query := `
		INSERT INTO price_history (id, product_id, store_id, price, currency, recorded_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	_, err := tx.Exec(ctx, query,
		point.ID, point.ProductID, point.StoreID, point.Price, point.Currency, point.RecordedAt,
	)
	if err != nil {
		r.logger.Error().Err(err).
			Str("product_id", point.ProductID).
			Str("store_id", point.StoreID).
			Msg("failed to record price")
		return fmt.Errorf("failed to record price: %w", err)
	}
	return nil
}

// History returns points recorded since the given time, oldest first.
func (r *priceRepository) History(ctx context.Context, productID string, since time.Time, storeID string) ([]model.PricePoint, error) {
	query := `
		SELECT id, product_id, store_id, price::float8, currency, recorded_at
		FROM price_history
		WHERE product_id = $1
		  AND recorded_at >= $2
		  AND ($3 = '' OR store_id = $3)
		ORDER BY recorded_at, store_id
	`

	rows, err := r.pool.Query(ctx, query, productID, since, storeID)
	if err != nil {
		r.logger.Error().Err(err).Str("product_id", productID).Msg("failed to query price history")
		return nil, fmt.Errorf("failed to query price history: %w", err)
	}
	defer rows.Close()

	points := make([]model.PricePoint, 0)
	for rows.Next() {
		var p model.PricePoint
		if err := rows.Scan(&p.ID, &p.ProductID, &p.StoreID, &p.Price, &p.Currency, &p.RecordedAt); err != nil {
			r.logger.Error().Err(err).Msg("failed to scan price history row")
			return nil, fmt.Errorf("failed to scan price point: %w", err)
		}
		points = append(points, p)
	}

	if err := rows.Err(); err != nil {
		r.logger.Error().Err(err).Msg("error iterating price history rows")
		return nil, fmt.Errorf("error iterating price history: %w", err)
	}

	return points, nil
}

// LowestPrice returns the lowest in-stock offer price of a product.
func (r *priceRepository) LowestPrice(ctx context.Context, productID string) (float64, bool, error) {
	query := `
		SELECT MIN(price)::float8
		FROM offers
		WHERE product_id = $1 AND in_stock
	`

	var price *float64
	err := r.pool.QueryRow(ctx, query, productID).Scan(&price)
	if err != nil && !errors.Is(err, pgx.ErrNoRows) {
		r.logger.Error().Err(err).Str("product_id", productID).Msg("failed to query lowest price")
		return 0, false, fmt.Errorf("failed to query lowest price: %w", err)
	}

	if price == nil {
		return 0, false, nil
	}
	return *price, true, nil
}
