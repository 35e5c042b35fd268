// Package catalog serves an in-memory product catalogue with the same
// filtering, sorting and pagination rules as the database-backed search.
// The storefront uses it for demo data and offline development.
package catalog

import (
	"cmp"
	"slices"
	"strings"

	"pricehunt/internal/barcode"
	"pricehunt/internal/model"

	"github.com/rs/zerolog"
)

// entry is a product with its derived summary and offers sorted best first.
type entry struct {
	summary model.ProductSummary
	offers  []model.Offer
	// lowercased searchable fields
	name, brand, category, description string
}

// Catalog is a read-only product catalogue. It is safe for concurrent use.
type Catalog struct {
	entries   []entry
	byID      map[string]int
	byBarcode map[string]int
	logger    zerolog.Logger
}

// New builds a catalogue from seed products.
func New(products []SeedProduct, logger zerolog.Logger) *Catalog {
	c := &Catalog{
		entries:   make([]entry, 0, len(products)),
		byID:      make(map[string]int, len(products)),
		byBarcode: make(map[string]int, len(products)),
		logger:    logger.With().Str("component", "catalog").Logger(),
	}

	for _, p := range products {
		offers := slices.Clone(p.Offers)
		SortOffers(offers)

		c.byID[p.ID] = len(c.entries)
		if p.Barcode != "" {
			c.byBarcode[p.Barcode] = len(c.entries)
		}
		c.entries = append(c.entries, entry{
			summary:     model.Summarize(p.Product, offers),
			offers:      offers,
			name:        strings.ToLower(p.Name),
			brand:       strings.ToLower(p.Brand),
			category:    strings.ToLower(p.Category),
			description: strings.ToLower(p.Description),
		})
	}

	c.logger.Info().Int("products", len(c.entries)).Msg("catalog loaded")

	return c
}

// NewFromSeed builds a catalogue from a decoded seed.
func NewFromSeed(seed *Seed, logger zerolog.Logger) *Catalog {
	return New(seed.Products, logger)
}

// Len returns the number of products in the catalogue.
func (c *Catalog) Len() int {
	return len(c.entries)
}

// Get returns a product with its offers.
func (c *Catalog) Get(id string) (*model.ProductDetail, error) {
	i, ok := c.byID[id]
	if !ok {
		return nil, model.ErrProductNotFound
	}
	return c.detail(i), nil
}

// ByBarcode returns the product registered under a scanned barcode.
func (c *Catalog) ByBarcode(code string) (*model.ProductDetail, error) {
	normalized, _, err := barcode.Normalize(code)
	if err != nil {
		return nil, err
	}
	i, ok := c.byBarcode[normalized]
	if !ok {
		return nil, model.ErrProductNotFound
	}
	return c.detail(i), nil
}

func (c *Catalog) detail(i int) *model.ProductDetail {
	e := c.entries[i]
	return &model.ProductDetail{
		ProductSummary: e.summary,
		Offers:         slices.Clone(e.offers),
	}
}

// Search filters, orders and paginates the catalogue.
func (c *Catalog) Search(params model.SearchParams) (model.SearchResult, error) {
	if err := params.Normalize(); err != nil {
		return model.SearchResult{}, err
	}

	terms := strings.Fields(strings.ToLower(params.Query))

	type hit struct {
		idx   int
		score int
	}
	hits := make([]hit, 0, len(c.entries))
	for i := range c.entries {
		score, ok := c.entries[i].match(params, terms)
		if ok {
			hits = append(hits, hit{idx: i, score: score})
		}
	}

	categories := make(map[string]int)
	brands := make(map[string]int)
	for _, h := range hits {
		s := c.entries[h.idx].summary
		if s.Category != "" {
			categories[s.Category]++
		}
		if s.Brand != "" {
			brands[s.Brand]++
		}
	}
	facets := model.Facets{
		Categories: facetList(categories),
		Brands:     facetList(brands),
	}

	slices.SortStableFunc(hits, func(a, b hit) int {
		ea, eb := c.entries[a.idx].summary, c.entries[b.idx].summary
		var r int
		switch params.Sort {
		case model.SortPriceAsc:
			r = comparePrice(ea.LowestPrice, eb.LowestPrice, false)
		case model.SortPriceDesc:
			r = comparePrice(ea.LowestPrice, eb.LowestPrice, true)
		case model.SortRating:
			r = cmp.Or(cmp.Compare(eb.Rating, ea.Rating), cmp.Compare(eb.ReviewCount, ea.ReviewCount))
		case model.SortName:
			r = strings.Compare(c.entries[a.idx].name, c.entries[b.idx].name)
		case model.SortNewest:
			r = eb.CreatedAt.Compare(ea.CreatedAt)
		default:
			r = cmp.Or(cmp.Compare(b.score, a.score), strings.Compare(c.entries[a.idx].name, c.entries[b.idx].name))
		}
		return cmp.Or(r, strings.Compare(ea.ID, eb.ID))
	})

	result := model.SearchResult{
		Items:      make([]model.ProductSummary, 0, params.PageSize),
		Total:      len(hits),
		Page:       params.Page,
		PageSize:   params.PageSize,
		TotalPages: model.TotalPages(len(hits), params.PageSize),
		Facets:     facets,
	}

	start := params.Offset()
	if start < len(hits) {
		end := min(start+params.PageSize, len(hits))
		for _, h := range hits[start:end] {
			result.Items = append(result.Items, c.entries[h.idx].summary)
		}
	}

	c.logger.Debug().
		Str("query", params.Query).
		Int("total", result.Total).
		Int("page", result.Page).
		Msg("catalog search")

	return result, nil
}

// match applies the filters and returns a relevance score for the query.
func (e *entry) match(p model.SearchParams, terms []string) (int, bool) {
	if p.Category != "" && !strings.EqualFold(e.summary.Category, p.Category) {
		return 0, false
	}
	if p.Brand != "" && !strings.EqualFold(e.summary.Brand, p.Brand) {
		return 0, false
	}
	if p.MinPrice != nil || p.MaxPrice != nil {
		low := e.summary.LowestPrice
		if low == nil {
			return 0, false
		}
		if p.MinPrice != nil && *low < *p.MinPrice {
			return 0, false
		}
		if p.MaxPrice != nil && *low > *p.MaxPrice {
			return 0, false
		}
	}
	if p.MinRating != nil && e.summary.Rating < *p.MinRating {
		return 0, false
	}
	if p.InStock && !e.summary.InStock {
		return 0, false
	}

	score := 0
	for _, t := range terms {
		switch {
		case strings.Contains(e.name, t):
			score += 2
		case strings.Contains(e.brand, t),
			strings.Contains(e.category, t),
			strings.Contains(e.description, t):
			score++
		default:
			return 0, false
		}
	}
	return score, true
}

// comparePrice orders products by price, keeping unpriced products last
// in both directions.
func comparePrice(a, b *float64, desc bool) int {
	switch {
	case a == nil && b == nil:
		return 0
	case a == nil:
		return 1
	case b == nil:
		return -1
	case desc:
		return cmp.Compare(*b, *a)
	default:
		return cmp.Compare(*a, *b)
	}
}

func facetList(counts map[string]int) []model.FacetCount {
	out := make([]model.FacetCount, 0, len(counts))
	for v, n := range counts {
		out = append(out, model.FacetCount{Value: v, Count: n})
	}
	model.SortFacets(out)
	return out
}

// SortOffers orders offers in stock first, then by price, then by store.
func SortOffers(offers []model.Offer) {
	slices.SortStableFunc(offers, func(a, b model.Offer) int {
		if a.InStock != b.InStock {
			if a.InStock {
				return -1
			}
			return 1
		}
		return cmp.Or(cmp.Compare(a.Price, b.Price), strings.Compare(a.StoreID, b.StoreID))
	})
}
