// Package feed ingests gzipped CSV price feeds published by retailers.
//
// Each row is
//
//	store_id,store_name,product_id,price,currency,url,in_stock
//
// with an optional header line. Rows that cannot be parsed are skipped and
// counted rather than failing the whole feed.
package feed

import (
	"compress/gzip"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"pricehunt/internal/model"
	"pricehunt/internal/money"
)

// Column positions in a feed row.
const (
	colStoreID = iota
	colStoreName
	colProductID
	colPrice
	colCurrency
	colURL
	colInStock
	numColumns
)

// Feed is the parsed content of one feed file.
type Feed struct {
	Source  string
	Updates []model.PriceUpdate
	Rows    int
	Skipped int
}

// Loader defines the interface for loading price feeds.
type Loader interface {
	// Load reads a gzipped CSV feed and returns its price updates.
	Load(ctx context.Context, path string) (*Feed, error)
}

// Decode decompresses and parses a gzipped feed.
func Decode(ctx context.Context, r io.Reader, source string) (*Feed, error) {
	gzipReader, err := gzip.NewReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to create gzip reader for %s: %w", source, err)
	}
	defer gzipReader.Close()

	return Parse(ctx, gzipReader, source)
}

// Parse reads an uncompressed CSV feed.
func Parse(ctx context.Context, r io.Reader, source string) (*Feed, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true
	reader.LazyQuotes = true
	reader.ReuseRecord = true

	feed := &Feed{Source: source, Updates: make([]model.PriceUpdate, 0, 1024)}

	for line := 1; ; line++ {
		// Check context cancellation periodically
		if line%10_000 == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}

		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("error reading feed %s at line %d: %w", source, line, err)
		}

		if line == 1 && isHeader(record) {
			continue
		}
		if len(record) == 1 && strings.TrimSpace(record[0]) == "" {
			continue
		}

		feed.Rows++
		update, ok := parseRow(record)
		if !ok {
			feed.Skipped++
			continue
		}
		feed.Updates = append(feed.Updates, update)
	}

	return feed, nil
}

func isHeader(record []string) bool {
	return len(record) > 0 && strings.EqualFold(strings.TrimSpace(record[colStoreID]), "store_id")
}

// parseRow converts a record into an update. The in_stock column may be
// omitted, in which case the offer is assumed to be in stock.
func parseRow(record []string) (model.PriceUpdate, bool) {
	if len(record) != numColumns && len(record) != numColumns-1 {
		return model.PriceUpdate{}, false
	}

	field := func(i int) string { return strings.TrimSpace(record[i]) }

	u := model.PriceUpdate{
		StoreID:   field(colStoreID),
		StoreName: field(colStoreName),
		ProductID: field(colProductID),
		URL:       field(colURL),
		InStock:   true,
	}
	if u.StoreID == "" || u.ProductID == "" {
		return model.PriceUpdate{}, false
	}

	price, err := strconv.ParseFloat(field(colPrice), 64)
	if err != nil || price <= 0 {
		return model.PriceUpdate{}, false
	}
	u.Price = money.Round(price)

	code, err := money.ParseCurrency(field(colCurrency))
	if err != nil {
		return model.PriceUpdate{}, false
	}
	u.Currency = code

	if len(record) == numColumns {
		inStock, ok := parseStock(field(colInStock))
		if !ok {
			return model.PriceUpdate{}, false
		}
		u.InStock = inStock
	}

	return u, true
}

func parseStock(s string) (bool, bool) {
	switch strings.ToLower(s) {
	case "", "1", "true", "yes", "y":
		return true, true
	case "0", "false", "no", "n":
		return false, true
	default:
		return false, false
	}
}
