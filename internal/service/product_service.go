package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"pricehunt/internal/barcode"
	"pricehunt/internal/catalog"
	"pricehunt/internal/model"
	"pricehunt/internal/money"
	"pricehunt/internal/repository"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

// productService implements ProductService.
type productService struct {
	productRepo repository.ProductRepository
	priceRepo   repository.PriceRepository
	logger      zerolog.Logger
	now         func() time.Time
}

// NewProductService creates a new product service.
func NewProductService(
	productRepo repository.ProductRepository,
	priceRepo repository.PriceRepository,
	logger zerolog.Logger,
) ProductService {
	return &productService{
		productRepo: productRepo,
		priceRepo:   priceRepo,
		logger:      logger.With().Str("service", "product").Logger(),
		now:         time.Now,
	}
}

// Search filters, orders and paginates products.
func (s *productService) Search(ctx context.Context, params model.SearchParams) (*model.SearchResult, error) {
	if err := params.Normalize(); err != nil {
		s.logger.Debug().Err(err).Msg("invalid search parameters")
		return nil, err
	}

	result, err := s.productRepo.Search(ctx, params)
	if err != nil {
		s.logger.Error().Err(err).
			Str("query", params.Query).
			Int("page", params.Page).
			Msg("failed to search products")
		return nil, fmt.Errorf("failed to search products: %w", err)
	}

	s.logger.Debug().
		Str("query", params.Query).
		Int("total", result.Total).
		Int("page", result.Page).
		Msg("searched products")

	return result, nil
}

// GetByID retrieves a product with its current offers.
func (s *productService) GetByID(ctx context.Context, id string) (*model.ProductDetail, error) {
	if id == "" {
		s.logger.Warn().Msg("product ID is empty")
		return nil, model.ErrProductNotFound
	}

	product, err := s.productRepo.GetByID(ctx, id)
	if err != nil {
		s.logger.Error().Err(err).Str("product_id", id).Msg("failed to get product by ID")
		return nil, fmt.Errorf("failed to get product: %w", err)
	}

	if product == nil {
		s.logger.Debug().Str("product_id", id).Msg("product not found")
		return nil, model.ErrProductNotFound
	}

	return s.detail(ctx, product)
}

// GetByBarcode retrieves a product by EAN-13, EAN-8 or UPC-A barcode.
func (s *productService) GetByBarcode(ctx context.Context, code string) (*model.ProductDetail, error) {
	normalized, format, err := barcode.Normalize(code)
	if err != nil {
		s.logger.Debug().Str("barcode", code).Msg("invalid barcode")
		return nil, err
	}

	product, err := s.productRepo.GetByBarcode(ctx, normalized)
	if err != nil {
		s.logger.Error().Err(err).Str("barcode", normalized).Msg("failed to get product by barcode")
		return nil, fmt.Errorf("failed to get product: %w", err)
	}

	if product == nil {
		s.logger.Debug().
			Str("barcode", normalized).
			Str("format", string(format)).
			Msg("no product for barcode")
		return nil, model.ErrProductNotFound
	}

	return s.detail(ctx, product)
}

func (s *productService) detail(ctx context.Context, product *model.Product) (*model.ProductDetail, error) {
	offers, err := s.productRepo.GetOffers(ctx, product.ID)
	if err != nil {
		s.logger.Error().Err(err).Str("product_id", product.ID).Msg("failed to get offers")
		return nil, fmt.Errorf("failed to get offers: %w", err)
	}

	catalog.SortOffers(offers)

	return &model.ProductDetail{
		ProductSummary: model.Summarize(*product, offers),
		Offers:         offers,
	}, nil
}

// Compare returns the best offer of each product and the cheapest product.
// Duplicate ids are compared once. Prices are not converted: the currency of
// the first best offer is the comparison currency, and products whose best
// offer is priced in another currency are listed but never cheapest.
func (s *productService) Compare(ctx context.Context, ids []string) (*model.Comparison, error) {
	unique := make([]string, 0, len(ids))
	seen := make(map[string]bool, len(ids))
	for _, id := range ids {
		if id == "" || seen[id] {
			continue
		}
		seen[id] = true
		unique = append(unique, id)
	}

	if len(unique) < MinCompareProducts || len(unique) > MaxCompareProducts {
		return nil, model.NewDomainError(model.ErrCodeInvalidParameter,
			fmt.Sprintf("compare requires between %d and %d distinct product ids", MinCompareProducts, MaxCompareProducts))
	}

	details := make([]*model.ProductDetail, len(unique))
	g, gctx := errgroup.WithContext(ctx)
	for i, id := range unique {
		g.Go(func() error {
			d, err := s.GetByID(gctx, id)
			if err != nil {
				if errors.Is(err, model.ErrProductNotFound) {
					return model.NewDomainError(model.ErrCodeProductNotFound, fmt.Sprintf("Product %s not found", id))
				}
				return err
			}
			details[i] = d
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	comparison := &model.Comparison{Entries: make([]model.ComparisonEntry, 0, len(details))}
	var cheapest *float64
	for _, d := range details {
		entry := model.ComparisonEntry{Product: d.ProductSummary}
		// Offers are sorted in stock first, so the first in-stock offer is the best.
		if len(d.Offers) > 0 && d.Offers[0].InStock {
			best := d.Offers[0]
			entry.BestOffer = &best
			if cheapest == nil {
				comparison.Currency = best.Currency
			}
			if best.Currency != comparison.Currency {
				s.logger.Debug().
					Str("product_id", d.ID).
					Str("currency", best.Currency).
					Str("comparison_currency", comparison.Currency).
					Msg("best offer priced in another currency")
			} else if cheapest == nil || best.Price < *cheapest {
				cheapest = &best.Price
				comparison.CheapestID = d.ID
			}
		}
		comparison.Entries = append(comparison.Entries, entry)
	}

	s.logger.Debug().
		Int("products", len(comparison.Entries)).
		Str("cheapest", comparison.CheapestID).
		Msg("compared products")

	return comparison, nil
}

// History returns the price points of the last days days with statistics.
func (s *productService) History(ctx context.Context, productID string, days int, storeID string) (*model.PriceHistory, error) {
	if days == 0 {
		days = DefaultHistoryDays
	}
	if days < 1 || days > MaxHistoryDays {
		return nil, model.NewDomainError(model.ErrCodeInvalidParameter,
			fmt.Sprintf("days must be between 1 and %d", MaxHistoryDays))
	}

	product, err := s.productRepo.GetByID(ctx, productID)
	if err != nil {
		s.logger.Error().Err(err).Str("product_id", productID).Msg("failed to get product by ID")
		return nil, fmt.Errorf("failed to get product: %w", err)
	}
	if product == nil {
		return nil, model.ErrProductNotFound
	}

	since := s.now().Add(-time.Duration(days) * 24 * time.Hour)
	points, err := s.priceRepo.History(ctx, productID, since, storeID)
	if err != nil {
		s.logger.Error().Err(err).
			Str("product_id", productID).
			Int("days", days).
			Msg("failed to get price history")
		return nil, fmt.Errorf("failed to get price history: %w", err)
	}

	return &model.PriceHistory{
		ProductID: productID,
		StoreID:   storeID,
		Days:      days,
		Points:    points,
		Stats:     priceStats(points),
	}, nil
}

// priceStats summarises points ordered oldest first. It returns nil for no points.
func priceStats(points []model.PricePoint) *model.PriceStats {
	if len(points) == 0 {
		return nil
	}

	first := points[0].Price
	stats := &model.PriceStats{Min: first, Max: first}
	sum := 0.0
	for _, p := range points {
		stats.Min = min(stats.Min, p.Price)
		stats.Max = max(stats.Max, p.Price)
		sum += p.Price
	}

	stats.Current = points[len(points)-1].Price
	stats.Average = money.Round(sum / float64(len(points)))
	stats.Change = money.Round(stats.Current - first)
	return stats
}
