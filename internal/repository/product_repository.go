package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"pricehunt/internal/model"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

// summaryCTE derives each product's price range from its offers.
const summaryCTE = `
	WITH summary AS (
		SELECT p.id, p.name, p.brand, p.category, p.description,
		       COALESCE(p.barcode, '') AS barcode, p.image_url, p.rating, p.review_count,
		       p.created_at, p.updated_at,
		       o.lowest, o.highest,
		       COALESCE(o.offer_count, 0) AS offer_count,
		       COALESCE(o.in_stock, false) AS in_stock,
		       COALESCE(o.currency, '') AS currency
		FROM products p
		LEFT JOIN LATERAL (
			SELECT MIN(price)::float8 AS lowest,
			       MAX(price)::float8 AS highest,
			       COUNT(*)::int AS offer_count,
			       BOOL_OR(in_stock) AS in_stock,
			       (ARRAY_AGG(currency ORDER BY price, store_id))[1] AS currency
			FROM offers
			WHERE product_id = p.id
		) o ON true
	)
`

const productColumns = `id, name, brand, category, description, COALESCE(barcode, ''), image_url, rating, review_count, created_at, updated_at`

// productRepository implements the ProductRepository interface using PostgreSQL.
type productRepository struct {
	pool   *pgxpool.Pool
	logger zerolog.Logger
}

// NewProductRepository creates a new PostgreSQL-backed product repository.
func NewProductRepository(pool *pgxpool.Pool, logger zerolog.Logger) ProductRepository {
	return &productRepository{
		pool:   pool,
		logger: logger.With().Str("repository", "product").Logger(),
	}
}

// searchQuery accumulates the WHERE clause and positional arguments of a search.
type searchQuery struct {
	where []string
	args  []any
	score string
}

func (q *searchQuery) arg(v any) string {
	q.args = append(q.args, v)
	return fmt.Sprintf("$%d", len(q.args))
}

func (q *searchQuery) whereClause() string {
	if len(q.where) == 0 {
		return ""
	}
	return " WHERE " + strings.Join(q.where, " AND ")
}

// buildSearchQuery translates normalized search params into SQL over the summary CTE.
// Every query term must match one of the text columns; name matches score higher.
func buildSearchQuery(p model.SearchParams) *searchQuery {
	q := &searchQuery{score: "0"}

	var scores []string
	for _, term := range strings.Fields(strings.ToLower(p.Query)) {
		ph := q.arg(term)
		q.where = append(q.where, fmt.Sprintf(
			"(strpos(lower(s.name), %[1]s) > 0 OR strpos(lower(s.brand), %[1]s) > 0 OR "+
				"strpos(lower(s.category), %[1]s) > 0 OR strpos(lower(s.description), %[1]s) > 0)", ph))
		scores = append(scores, fmt.Sprintf("CASE WHEN strpos(lower(s.name), %s) > 0 THEN 2 ELSE 1 END", ph))
	}
	if len(scores) > 0 {
		q.score = strings.Join(scores, " + ")
	}

	if p.Category != "" {
		q.where = append(q.where, "lower(s.category) = lower("+q.arg(p.Category)+")")
	}
	if p.Brand != "" {
		q.where = append(q.where, "lower(s.brand) = lower("+q.arg(p.Brand)+")")
	}
	if p.MinPrice != nil {
		q.where = append(q.where, "s.lowest >= "+q.arg(*p.MinPrice))
	}
	if p.MaxPrice != nil {
		q.where = append(q.where, "s.lowest <= "+q.arg(*p.MaxPrice))
	}
	if p.MinRating != nil {
		q.where = append(q.where, "s.rating >= "+q.arg(*p.MinRating))
	}
	if p.InStock {
		q.where = append(q.where, "s.in_stock")
	}

	return q
}

// orderClause returns the ORDER BY for a sort key. Ties break on id.
func orderClause(sort string) string {
	const name = `lower(s.name) COLLATE "C"`
	switch sort {
	case model.SortPriceAsc:
		return " ORDER BY s.lowest ASC NULLS LAST, s.id"
	case model.SortPriceDesc:
		return " ORDER BY s.lowest DESC NULLS LAST, s.id"
	case model.SortRating:
		return " ORDER BY s.rating DESC, s.review_count DESC, s.id"
	case model.SortName:
		return " ORDER BY " + name + ", s.id"
	case model.SortNewest:
		return " ORDER BY s.created_at DESC, s.id"
	default:
		return " ORDER BY score DESC, " + name + ", s.id"
	}
}

// Search filters, orders and paginates products with facet counts.
func (r *productRepository) Search(ctx context.Context, params model.SearchParams) (*model.SearchResult, error) {
	if err := params.Normalize(); err != nil {
		return nil, err
	}

	q := buildSearchQuery(params)
	where := q.whereClause()

	categories, err := r.facet(ctx, "category", where, q.args)
	if err != nil {
		return nil, err
	}
	brands, err := r.facet(ctx, "brand", where, q.args)
	if err != nil {
		return nil, err
	}

	// Every matching product falls in exactly one category group, blank included.
	total := 0
	for _, c := range categories {
		total += c.Count
	}

	result := &model.SearchResult{
		Items:      make([]model.ProductSummary, 0, params.PageSize),
		Total:      total,
		Page:       params.Page,
		PageSize:   params.PageSize,
		TotalPages: model.TotalPages(total, params.PageSize),
		Facets: model.Facets{
			Categories: nonBlank(categories),
			Brands:     nonBlank(brands),
		},
	}

	if params.Offset() >= total {
		return result, nil
	}

	args := append([]any{}, q.args...)
	limit := fmt.Sprintf("$%d", len(args)+1)
	offset := fmt.Sprintf("$%d", len(args)+2)
	args = append(args, params.PageSize, params.Offset())

	query := summaryCTE + `
		SELECT s.id, s.name, s.brand, s.category, s.description, s.barcode, s.image_url,
		       s.rating, s.review_count, s.created_at, s.updated_at,
		       s.lowest, s.highest, s.offer_count, s.in_stock, s.currency,
		       ` + q.score + ` AS score
		FROM summary s` + where + orderClause(params.Sort) + `
		LIMIT ` + limit + ` OFFSET ` + offset

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		r.logger.Error().Err(err).
			Str("query", params.Query).
			Int("page", params.Page).
			Msg("failed to search products")
		return nil, fmt.Errorf("failed to search products: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var s model.ProductSummary
		var score int
		err := rows.Scan(
			&s.ID, &s.Name, &s.Brand, &s.Category, &s.Description, &s.Barcode, &s.ImageURL,
			&s.Rating, &s.ReviewCount, &s.CreatedAt, &s.UpdatedAt,
			&s.LowestPrice, &s.HighestPrice, &s.OfferCount, &s.InStock, &s.Currency,
			&score,
		)
		if err != nil {
			r.logger.Error().Err(err).Msg("failed to scan product summary row")
			return nil, fmt.Errorf("failed to scan product summary: %w", err)
		}
		result.Items = append(result.Items, s)
	}

	if err := rows.Err(); err != nil {
		r.logger.Error().Err(err).Msg("error iterating product summary rows")
		return nil, fmt.Errorf("error iterating product summaries: %w", err)
	}

	return result, nil
}

// facet counts matching products grouped by column.
func (r *productRepository) facet(ctx context.Context, column, where string, args []any) ([]model.FacetCount, error) {
	query := summaryCTE + `
		SELECT s.` + column + `, COUNT(*)::int
		FROM summary s` + where + `
		GROUP BY s.` + column

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		r.logger.Error().Err(err).Str("facet", column).Msg("failed to query facet")
		return nil, fmt.Errorf("failed to query %s facet: %w", column, err)
	}

	counts, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (model.FacetCount, error) {
		var fc model.FacetCount
		err := row.Scan(&fc.Value, &fc.Count)
		return fc, err
	})
	if err != nil {
		r.logger.Error().Err(err).Str("facet", column).Msg("failed to scan facet rows")
		return nil, fmt.Errorf("failed to scan %s facet: %w", column, err)
	}

	return counts, nil
}

// nonBlank drops the empty-value group and sorts the rest.
func nonBlank(counts []model.FacetCount) []model.FacetCount {
	out := make([]model.FacetCount, 0, len(counts))
	for _, c := range counts {
		if c.Value != "" {
			out = append(out, c)
		}
	}
	model.SortFacets(out)
	return out
}

// GetByID retrieves a single product by its ID.
func (r *productRepository) GetByID(ctx context.Context, id string) (*model.Product, error) {
	return r.getOne(ctx, "id", id)
}

// GetByBarcode retrieves a product by its normalized barcode.
func (r *productRepository) GetByBarcode(ctx context.Context, code string) (*model.Product, error) {
	return r.getOne(ctx, "barcode", code)
}

func (r *productRepository) getOne(ctx context.Context, column, value string) (*model.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE ` + column + ` = $1`

	var p model.Product
	err := r.pool.QueryRow(ctx, query, value).Scan(
		&p.ID, &p.Name, &p.Brand, &p.Category, &p.Description, &p.Barcode,
		&p.ImageURL, &p.Rating, &p.ReviewCount, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			r.logger.Debug().Str(column, value).Msg("product not found")
			return nil, nil
		}
		r.logger.Error().Err(err).Str(column, value).Msg("failed to query product")
		return nil, fmt.Errorf("failed to query product: %w", err)
	}

	return &p, nil
}

// GetOffers returns the current offers for a product, in stock first then cheapest.
func (r *productRepository) GetOffers(ctx context.Context, productID string) ([]model.Offer, error) {
	query := `
		SELECT o.product_id, o.store_id, st.name, o.price::float8, o.currency, o.url, o.in_stock, o.updated_at
		FROM offers o
		JOIN stores st ON st.id = o.store_id
		WHERE o.product_id = $1
		ORDER BY o.in_stock DESC, o.price, o.store_id
	`

	rows, err := r.pool.Query(ctx, query, productID)
	if err != nil {
		r.logger.Error().Err(err).Str("product_id", productID).Msg("failed to query offers")
		return nil, fmt.Errorf("failed to query offers: %w", err)
	}
	defer rows.Close()

	offers := make([]model.Offer, 0)
	for rows.Next() {
		var o model.Offer
		if err := rows.Scan(&o.ProductID, &o.StoreID, &o.StoreName, &o.Price, &o.Currency, &o.URL, &o.InStock, &o.UpdatedAt); err != nil {
			r.logger.Error().Err(err).Msg("failed to scan offer row")
			return nil, fmt.Errorf("failed to scan offer: %w", err)
		}
		offers = append(offers, o)
	}

	if err := rows.Err(); err != nil {
		r.logger.Error().Err(err).Msg("error iterating offer rows")
		return nil, fmt.Errorf("error iterating offers: %w", err)
	}

	return offers, nil
}

// ExistingIDs returns the subset of ids present in the products table.
func (r *productRepository) ExistingIDs(ctx context.Context, ids []string) (map[string]bool, error) {
	found := make(map[string]bool, len(ids))
	if len(ids) == 0 {
		return found, nil
	}

	rows, err := r.pool.Query(ctx, `SELECT id FROM products WHERE id = ANY($1)`, ids)
	if err != nil {
		r.logger.Error().Err(err).Int("count", len(ids)).Msg("failed to query product ids")
		return nil, fmt.Errorf("failed to query product ids: %w", err)
	}

	existing, err := pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
		return nil, fmt.Errorf("failed to scan product ids: %w", err)
	}
	for _, id := range existing {
		found[id] = true
	}

	return found, nil
}

// Upsert inserts or updates a product.
func (r *productRepository) Upsert(ctx context.Context, p *model.Product) error {
	query := `
		INSERT INTO products (id, name, brand, category, description, barcode, image_url, rating, review_count, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, NULLIF($6, ''), $7, $8, $9, COALESCE($10, NOW()), NOW())
		ON CONFLICT (id) DO UPDATE SET
			name = EXCLUDED.name,
			brand = EXCLUDED.brand,
			category = EXCLUDED.category,
			description = EXCLUDED.description,
			barcode = EXCLUDED.barcode,
			image_url = EXCLUDED.image_url,
			rating = EXCLUDED.rating,
			review_count = EXCLUDED.review_count,
			updated_at = NOW()
		RETURNING created_at, updated_at
	`

	var createdAt any
	if !p.CreatedAt.IsZero() {
		createdAt = p.CreatedAt
	}

	err := r.pool.QueryRow(ctx, query,
		p.ID, p.Name, p.Brand, p.Category, p.Description, p.Barcode,
		p.ImageURL, p.Rating, p.ReviewCount, createdAt,
	).Scan(&p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		r.logger.Error().Err(err).Str("product_id", p.ID).Msg("failed to upsert product")
		return fmt.Errorf("failed to upsert product: %w", err)
	}

	return nil
}
