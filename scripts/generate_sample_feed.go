//go:build ignore

package main

import (
	"compress/gzip"
	"encoding/csv"
	"fmt"
	"log"
	"math/rand/v2"
	"os"
	"path/filepath"
	"strconv"

	"pricehunt/internal/catalog"
	"pricehunt/internal/money"
)

// generateSampleFeeds writes one gzipped CSV price feed per store in the
// catalogue seed. Prices drift a few percent from the seeded offers and one
// malformed row per feed exercises the skip path.
func main() {
	dataDir := "data/feeds"

	// Create directory if it doesn't exist
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		log.Fatalf("Failed to create directory: %v", err)
	}

	seed, err := catalog.LoadSeedFile("data/catalog.yaml")
	if err != nil {
		log.Fatalf("Failed to load seed: %v", err)
	}

	rng := rand.New(rand.NewPCG(42, 2025))

	rowsByStore := make(map[string][][]string)
	for _, st := range seed.Stores {
		rowsByStore[st.ID] = nil
	}
	for _, p := range seed.Products {
		for _, o := range p.Offers {
			drift := 1 + (rng.Float64()-0.5)*0.1
			rowsByStore[o.StoreID] = append(rowsByStore[o.StoreID], []string{
				o.StoreID,
				o.StoreName,
				o.ProductID,
				strconv.FormatFloat(money.Round(o.Price*drift), 'f', 2, 64),
				o.Currency,
				o.URL,
				strconv.FormatBool(rng.IntN(10) > 0),
			})
		}
	}

	for storeID, rows := range rowsByStore {
		filePath := filepath.Join(dataDir, storeID+".csv.gz")

		if err := createFeedFile(filePath, rows); err != nil {
			log.Fatalf("Failed to create %s: %v", filePath, err)
		}

		fmt.Printf("Created %s with %d rows\n", filePath, len(rows))
	}

	fmt.Println("\nSample feeds created successfully!")
	fmt.Println("Import them with: FEED_PATHS=data/feeds/megamart.csv.gz,... or POST /api/admin/feeds/import")
}

func createFeedFile(filePath string, rows [][]string) error {
	file, err := os.Create(filePath)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	defer file.Close()

	gzipWriter := gzip.NewWriter(file)
	defer gzipWriter.Close()

	w := csv.NewWriter(gzipWriter)
	if err := w.Write([]string{"store_id", "store_name", "product_id", "price", "currency", "url", "in_stock"}); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}
	if err := w.WriteAll(rows); err != nil {
		return fmt.Errorf("failed to write rows: %w", err)
	}
	if err := w.Write([]string{"broken", "row"}); err != nil {
		return fmt.Errorf("failed to write row: %w", err)
	}
	w.Flush()
	return w.Error()
}
