package model

import (
	"cmp"
	"fmt"
	"slices"
	"strings"
)

// Sort orders accepted by product search.
const (
	SortRelevance = "relevance"
	SortPriceAsc  = "price_asc"
	SortPriceDesc = "price_desc"
	SortRating    = "rating"
	SortName      = "name"
	SortNewest    = "newest"
)

// Pagination bounds for search.
const (
	DefaultPageSize = 20
	MaxPageSize     = 100
)

var validSorts = map[string]bool{
	SortRelevance: true,
	SortPriceAsc:  true,
	SortPriceDesc: true,
	SortRating:    true,
	SortName:      true,
	SortNewest:    true,
}

// SearchParams holds product search filters, ordering and pagination.
type SearchParams struct {
	Query     string
	Category  string
	Brand     string
	MinPrice  *float64
	MaxPrice  *float64
	MinRating *float64
	InStock   bool
	Sort      string
	Page      int
	PageSize  int
}

// Normalize applies defaults and rejects contradictory filters.
// Oversized pages are clamped rather than rejected.
func (p *SearchParams) Normalize() error {
	if p.Sort == "" {
		p.Sort = SortRelevance
	}
	if !validSorts[p.Sort] {
		return NewDomainError(ErrCodeInvalidParameter, fmt.Sprintf("unknown sort %q", p.Sort))
	}

	if p.Page == 0 {
		p.Page = 1
	}
	if p.Page < 1 {
		return NewDomainError(ErrCodeInvalidParameter, "page must be at least 1")
	}

	if p.PageSize == 0 {
		p.PageSize = DefaultPageSize
	}
	if p.PageSize < 1 {
		return NewDomainError(ErrCodeInvalidParameter, "pageSize must be at least 1")
	}
	if p.PageSize > MaxPageSize {
		p.PageSize = MaxPageSize
	}

	if p.MinPrice != nil && *p.MinPrice < 0 {
		return NewDomainError(ErrCodeInvalidParameter, "minPrice must not be negative")
	}
	if p.MaxPrice != nil && *p.MaxPrice < 0 {
		return NewDomainError(ErrCodeInvalidParameter, "maxPrice must not be negative")
	}
	if p.MinPrice != nil && p.MaxPrice != nil && *p.MinPrice > *p.MaxPrice {
		return NewDomainError(ErrCodeInvalidParameter, "minPrice cannot exceed maxPrice")
	}
	if p.MinRating != nil && (*p.MinRating < 0 || *p.MinRating > 5) {
		return NewDomainError(ErrCodeInvalidParameter, "minRating must be between 0 and 5")
	}

	return nil
}

// Offset returns the number of items skipped before the current page.
func (p SearchParams) Offset() int {
	return (p.Page - 1) * p.PageSize
}

// FacetCount is the number of matching products sharing a value.
type FacetCount struct {
	Value string `json:"value"`
	Count int    `json:"count"`
}

// SortFacets orders facet counts by count descending, then by value.
func SortFacets(f []FacetCount) {
	slices.SortFunc(f, func(a, b FacetCount) int {
		return cmp.Or(cmp.Compare(b.Count, a.Count), strings.Compare(a.Value, b.Value))
	})
}

// Facets groups result counts by category and brand.
type Facets struct {
	Categories []FacetCount `json:"categories"`
	Brands     []FacetCount `json:"brands"`
}

// SearchResult is one page of search results.
type SearchResult struct {
	Items      []ProductSummary `json:"items"`
	Total      int              `json:"total"`
	Page       int              `json:"page"`
	PageSize   int              `json:"pageSize"`
	TotalPages int              `json:"totalPages"`
	Facets     Facets           `json:"facets"`
}

// TotalPages returns how many pages of size pageSize hold total items.
func TotalPages(total, pageSize int) int {
	if pageSize <= 0 || total <= 0 {
		return 0
	}
	return (total + pageSize - 1) / pageSize
}
