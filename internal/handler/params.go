package handler

import (
	"fmt"
	"math"
	"net/url"
	"strconv"
	"strings"

	"pricehunt/internal/model"
)

// parseSearchParams reads product search filters from the query string.
// Range and paging checks are left to SearchParams.Normalize.
func parseSearchParams(q url.Values) (model.SearchParams, error) {
	params := model.SearchParams{
		Query:    strings.TrimSpace(q.Get("q")),
		Category: strings.TrimSpace(q.Get("category")),
		Brand:    strings.TrimSpace(q.Get("brand")),
		Sort:     strings.TrimSpace(q.Get("sort")),
	}

	var err error
	if params.MinPrice, err = optionalFloat(q, "minPrice"); err != nil {
		return params, err
	}
	if params.MaxPrice, err = optionalFloat(q, "maxPrice"); err != nil {
		return params, err
	}
	if params.MinRating, err = optionalFloat(q, "minRating"); err != nil {
		return params, err
	}
	if params.Page, err = optionalInt(q, "page"); err != nil {
		return params, err
	}
	if params.PageSize, err = optionalInt(q, "pageSize"); err != nil {
		return params, err
	}

	if s := q.Get("inStock"); s != "" {
		params.InStock, err = strconv.ParseBool(s)
		if err != nil {
			return params, invalidParam("inStock", "a boolean")
		}
	}

	return params, nil
}

// parseIDs collects ids from repeated and comma-separated "ids" parameters.
func parseIDs(q url.Values) []string {
	var ids []string
	for _, v := range q["ids"] {
		for id := range strings.SplitSeq(v, ",") {
			if id = strings.TrimSpace(id); id != "" {
				ids = append(ids, id)
			}
		}
	}
	return ids
}

func optionalFloat(q url.Values, key string) (*float64, error) {
	s := q.Get(key)
	if s == "" {
		return nil, nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return nil, invalidParam(key, "a number")
	}
	return &f, nil
}

func optionalInt(q url.Values, key string) (int, error) {
	s := q.Get(key)
	if s == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, invalidParam(key, "an integer")
	}
	return n, nil
}

func invalidParam(key, want string) error {
	return model.NewDomainError(model.ErrCodeInvalidParameter, fmt.Sprintf("%s must be %s", key, want))
}
