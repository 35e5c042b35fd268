//go:build ignore

package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"pricehunt/internal/config"

	"github.com/caarlos0/env/v11"
	"github.com/jackc/pgx/v5"
)

// Connects with the DB_* environment, prints the server's databases and the
// migrations applied to the configured one.
func main() {
	var cfg config.DatabaseConfig
	if err := env.Parse(&cfg); err != nil {
		fmt.Fprintf(os.Stderr, "Invalid database environment: %v\n", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	conn, err := pgx.Connect(ctx, cfg.ConnectionString())
	if err != nil {
		fmt.Fprintf(os.Stderr, "Unable to connect to database: %v\n", err)
		os.Exit(1)
	}
	defer conn.Close(ctx)

	var dbName string
	err = conn.QueryRow(ctx, "SELECT current_database()").Scan(&dbName)
	if err != nil {
		fmt.Fprintf(os.Stderr, "QueryRow failed: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Successfully connected to database: %s\n", dbName)

	// List all databases
	names, err := collect(ctx, conn, "SELECT datname FROM pg_database WHERE datistemplate = false ORDER BY datname")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Query failed: %v\n", err)
		os.Exit(1)
	}
	fmt.Println("\nAvailable databases:")
	for _, name := range names {
		fmt.Printf("  - %s\n", name)
	}

	migrations, err := collect(ctx, conn, "SELECT name FROM schema_migrations ORDER BY name")
	if err != nil {
		fmt.Println("\nNo migrations applied yet (run the API or cmd/seed once)")
		return
	}
	fmt.Println("\nApplied migrations:")
	for _, name := range migrations {
		fmt.Printf("  - %s\n", name)
	}
}

func collect(ctx context.Context, conn *pgx.Conn, query string) ([]string, error) {
	rows, err := conn.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, pgx.RowTo[string])
}
