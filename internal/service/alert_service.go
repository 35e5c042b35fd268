package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"pricehunt/internal/model"
	"pricehunt/internal/money"
	"pricehunt/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// alertService implements AlertService.
type alertService struct {
	alertRepo   repository.AlertRepository
	productRepo repository.ProductRepository
	priceRepo   repository.PriceRepository
	logger      zerolog.Logger
	now         func() time.Time
}

// NewAlertService creates a new alert service.
func NewAlertService(
	alertRepo repository.AlertRepository,
	productRepo repository.ProductRepository,
	priceRepo repository.PriceRepository,
	logger zerolog.Logger,
) AlertService {
	return &alertService{
		alertRepo:   alertRepo,
		productRepo: productRepo,
		priceRepo:   priceRepo,
		logger:      logger.With().Str("service", "alert").Logger(),
		now:         time.Now,
	}
}

// Create registers a new alert for the user.
func (s *alertService) Create(ctx context.Context, userID uuid.UUID, req *model.AlertRequest) (*model.PriceAlert, error) {
	if req == nil || req.ProductID == "" {
		return nil, model.NewDomainError(model.ErrCodeMissingField, "productId is required")
	}
	if req.TargetPrice <= 0 {
		return nil, model.ErrInvalidTargetPrice
	}

	currency, err := money.ParseCurrency(req.Currency)
	if err != nil {
		return nil, err
	}

	product, err := s.productRepo.GetByID(ctx, req.ProductID)
	if err != nil {
		s.logger.Error().Err(err).Str("product_id", req.ProductID).Msg("failed to get product by ID")
		return nil, fmt.Errorf("failed to create alert: %w", err)
	}
	if product == nil {
		return nil, model.ErrProductNotFound
	}

	alert := &model.PriceAlert{
		ID:          uuid.New(),
		UserID:      userID,
		ProductID:   req.ProductID,
		TargetPrice: money.Round(req.TargetPrice),
		Currency:    currency,
		Active:      true,
		CreatedAt:   s.now(),
	}

	if err := s.alertRepo.Create(ctx, alert, MaxActiveAlerts); err != nil {
		if errors.Is(err, model.ErrAlertLimit) {
			s.logger.Warn().
				Str("user_id", userID.String()).
				Int("limit", MaxActiveAlerts).
				Msg("alert limit reached")
			return nil, model.ErrAlertLimit
		}
		return nil, fmt.Errorf("failed to create alert: %w", err)
	}

	s.logger.Info().
		Str("alert_id", alert.ID.String()).
		Str("user_id", userID.String()).
		Str("product_id", alert.ProductID).
		Float64("target_price", alert.TargetPrice).
		Msg("alert created")

	return alert, nil
}

// List returns the user's alerts, newest first.
func (s *alertService) List(ctx context.Context, userID uuid.UUID) ([]model.PriceAlert, error) {
	alerts, err := s.alertRepo.ListByUser(ctx, userID)
	if err != nil {
		s.logger.Error().Err(err).Str("user_id", userID.String()).Msg("failed to list alerts")
		return nil, fmt.Errorf("failed to list alerts: %w", err)
	}
	return alerts, nil
}

// Delete removes an alert owned by the user.
func (s *alertService) Delete(ctx context.Context, userID, id uuid.UUID) error {
	deleted, err := s.alertRepo.Delete(ctx, id, userID)
	if err != nil {
		return fmt.Errorf("failed to delete alert: %w", err)
	}
	if !deleted {
		s.logger.Debug().
			Str("alert_id", id.String()).
			Str("user_id", userID.String()).
			Msg("alert not found for user")
		return model.ErrAlertNotFound
	}

	s.logger.Info().Str("alert_id", id.String()).Msg("alert deleted")
	return nil
}

// ListActive returns every alert that has not fired yet.
func (s *alertService) ListActive(ctx context.Context) ([]model.PriceAlert, error) {
	alerts, err := s.alertRepo.ListActive(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list active alerts: %w", err)
	}
	return alerts, nil
}

// Evaluate reports the current lowest in-stock price of the alert's product
// and whether it is at or below the target. Products with nothing in stock
// never trigger.
func (s *alertService) Evaluate(ctx context.Context, alert model.PriceAlert) (float64, bool, error) {
	price, found, err := s.priceRepo.LowestPrice(ctx, alert.ProductID)
	if err != nil {
		return 0, false, fmt.Errorf("failed to evaluate alert %s: %w", alert.ID, err)
	}
	if !found {
		return 0, false, nil
	}
	return price, price <= alert.TargetPrice, nil
}

// MarkTriggered deactivates an alert.
func (s *alertService) MarkTriggered(ctx context.Context, id uuid.UUID, at time.Time) error {
	if err := s.alertRepo.MarkTriggered(ctx, id, at); err != nil {
		return fmt.Errorf("failed to mark alert triggered: %w", err)
	}
	return nil
}
