package service

import (
	"context"
	"fmt"
	"time"

	"pricehunt/internal/model"
	"pricehunt/internal/money"
	"pricehunt/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// priceService implements PriceService.
type priceService struct {
	priceRepo   repository.PriceRepository
	productRepo repository.ProductRepository
	logger      zerolog.Logger
	now         func() time.Time
}

// NewPriceService creates a new price service.
func NewPriceService(
	priceRepo repository.PriceRepository,
	productRepo repository.ProductRepository,
	logger zerolog.Logger,
) PriceService {
	return &priceService{
		priceRepo:   priceRepo,
		productRepo: productRepo,
		logger:      logger.With().Str("service", "price").Logger(),
		now:         time.Now,
	}
}

// RecordPrices upserts offers and appends history in one transaction.
// Either every update is recorded or none is.
func (s *priceService) RecordPrices(ctx context.Context, updates []model.PriceUpdate) (int, error) {
	// Validate request
	normalized, err := s.validateUpdates(updates)
	if err != nil {
		return 0, err
	}

	// Every product must exist before anything is written
	productIDs := make([]string, 0, len(normalized))
	seen := make(map[string]bool, len(normalized))
	for _, u := range normalized {
		if !seen[u.ProductID] {
			seen[u.ProductID] = true
			productIDs = append(productIDs, u.ProductID)
		}
	}

	existing, err := s.productRepo.ExistingIDs(ctx, productIDs)
	if err != nil {
		s.logger.Error().Err(err).Int("product_count", len(productIDs)).Msg("failed to check products")
		return 0, fmt.Errorf("failed to check products: %w", err)
	}
	for i, u := range normalized {
		if !existing[u.ProductID] {
			s.logger.Warn().Str("product_id", u.ProductID).Msg("price update for unknown product")
			return 0, model.NewDomainError(model.ErrCodeProductNotFound,
				fmt.Sprintf("update %d: product %s not found", i, u.ProductID))
		}
	}

	// Start transaction
	tx, err := s.priceRepo.BeginTx(ctx)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to begin transaction")
		return 0, fmt.Errorf("failed to record prices: %w", err)
	}

	// Ensure transaction is rolled back on error
	defer func() {
		if err != nil {
			if rbErr := tx.Rollback(ctx); rbErr != nil {
				s.logger.Error().Err(rbErr).Msg("failed to rollback transaction")
			}
		}
	}()

	now := s.now()
	stores := make(map[string]bool)
	for _, u := range normalized {
		if !stores[u.StoreID] {
			stores[u.StoreID] = true
			if err = s.priceRepo.UpsertStore(ctx, tx, model.Store{ID: u.StoreID, Name: u.StoreName}); err != nil {
				return 0, fmt.Errorf("failed to record prices: %w", err)
			}
		}

		offer := model.Offer{
			ProductID: u.ProductID,
			StoreID:   u.StoreID,
			Price:     u.Price,
			Currency:  u.Currency,
			URL:       u.URL,
			InStock:   u.InStock,
			UpdatedAt: now,
		}
		if err = s.priceRepo.UpsertOffer(ctx, tx, offer); err != nil {
			return 0, fmt.Errorf("failed to record prices: %w", err)
		}

		point := model.PricePoint{
			ID:         uuid.New(),
			ProductID:  u.ProductID,
			StoreID:    u.StoreID,
			Price:      u.Price,
			Currency:   u.Currency,
			RecordedAt: now,
		}
		if err = s.priceRepo.RecordPrice(ctx, tx, point); err != nil {
			return 0, fmt.Errorf("failed to record prices: %w", err)
		}
	}

	// Commit transaction
	if err = tx.Commit(ctx); err != nil {
		s.logger.Error().Err(err).Int("update_count", len(normalized)).Msg("failed to commit transaction")
		return 0, fmt.Errorf("failed to record prices: %w", err)
	}

	s.logger.Info().
		Int("update_count", len(normalized)).
		Int("store_count", len(stores)).
		Msg("prices recorded")

	return len(normalized), nil
}

// validateUpdates checks every update and returns copies with rounded prices
// and canonical currency codes.
func (s *priceService) validateUpdates(updates []model.PriceUpdate) ([]model.PriceUpdate, error) {
	if len(updates) == 0 {
		return nil, model.NewDomainError(model.ErrCodeMissingField, "at least one price update is required")
	}

	out := make([]model.PriceUpdate, len(updates))
	for i, u := range updates {
		if u.StoreID == "" {
			return nil, model.NewDomainError(model.ErrCodeMissingField, fmt.Sprintf("update %d: storeId is required", i))
		}
		if u.ProductID == "" {
			return nil, model.NewDomainError(model.ErrCodeMissingField, fmt.Sprintf("update %d: productId is required", i))
		}
		u.Price = money.Round(u.Price)
		if u.Price <= 0 {
			s.logger.Warn().
				Int("update_index", i).
				Str("product_id", u.ProductID).
				Float64("price", u.Price).
				Msg("invalid price")
			return nil, model.NewDomainError(model.ErrCodeInvalidPrice, fmt.Sprintf("update %d: price must be greater than zero", i))
		}

		code, err := money.ParseCurrency(u.Currency)
		if err != nil {
			return nil, model.NewDomainError(model.ErrCodeInvalidCurrency, fmt.Sprintf("update %d: unknown currency %q", i, u.Currency))
		}

		u.Currency = code
		out[i] = u
	}
	return out, nil
}
