// Command seed loads the catalogue seed file into PostgreSQL.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"time"

	"pricehunt/internal/catalog"
	"pricehunt/internal/config"
	"pricehunt/internal/database"
	"pricehunt/internal/repository"

	"github.com/caarlos0/env/v11"
)

// seedConfig is the subset of the server configuration the seeder needs.
type seedConfig struct {
	Database config.DatabaseConfig
	Logger   config.LoggerConfig
	Catalog  config.CatalogConfig
}

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	var cfg seedConfig
	if err := env.Parse(&cfg); err != nil {
		return fmt.Errorf("failed to parse environment: %w", err)
	}

	file := flag.String("file", cfg.Catalog.SeedPath, "catalogue seed YAML file")
	timeout := flag.Duration("timeout", time.Minute, "overall time limit")
	flag.Parse()

	logger := config.NewLogger(cfg.Logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	ctx, cancel := context.WithTimeout(ctx, *timeout)
	defer cancel()

	seed, err := catalog.LoadSeedFile(*file)
	if err != nil {
		return err
	}

	pool, err := database.NewPool(ctx, cfg.Database, logger)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer pool.Close()

	if err := database.Migrate(ctx, pool, logger); err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}

	products := repository.NewProductRepository(pool, logger)
	prices := repository.NewPriceRepository(pool, logger)
	if err := repository.ImportSeed(ctx, products, prices, seed); err != nil {
		return err
	}

	offers := 0
	for _, p := range seed.Products {
		offers += len(p.Offers)
	}
	logger.Info().
		Str("file", *file).
		Int("stores", len(seed.Stores)).
		Int("products", len(seed.Products)).
		Int("offers", offers).
		Msg("catalogue seeded")

	return nil
}
