package repository

import (
	"context"
	"testing"
	"time"

	"pricehunt/internal/catalog"
	"pricehunt/internal/database"
	"pricehunt/internal/model"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
)

// setupTestDB creates a PostgreSQL testcontainer with the schema applied.
func setupTestDB(t *testing.T) (*pgxpool.Pool, func()) {
	ctx := context.Background()

	// Start PostgreSQL container
	pgContainer, err := postgres.Run(ctx,
		"postgres:16-alpine",
		postgres.WithDatabase("testdb"),
		postgres.WithUsername("postgres"),
		postgres.WithPassword("postgres"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second)),
	)
	require.NoError(t, err)

	// Get connection string
	connStr, err := pgContainer.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	// Create connection pool
	pool, err := pgxpool.New(ctx, connStr)
	require.NoError(t, err)

	// Create schema
	require.NoError(t, database.Migrate(ctx, pool, zerolog.Nop()))

	// Cleanup function
	cleanup := func() {
		pool.Close()
		_ = pgContainer.Terminate(ctx)
	}

	return pool, cleanup
}

// seedCatalog loads the shipped catalogue seed into the database and returns it.
func seedCatalog(t *testing.T, pool *pgxpool.Pool) *catalog.Seed {
	t.Helper()
	ctx := context.Background()

	seed, err := catalog.LoadSeedFile("../../data/catalog.yaml")
	require.NoError(t, err)

	products := NewProductRepository(pool, zerolog.Nop())
	prices := NewPriceRepository(pool, zerolog.Nop())
	require.NoError(t, ImportSeed(ctx, products, prices, seed))

	return seed
}

// createUser inserts a user directly and returns it.
func createUser(t *testing.T, pool *pgxpool.Pool, email string) *model.User {
	t.Helper()

	u := &model.User{
		ID:           uuid.New(),
		Email:        email,
		Name:         "Test User",
		PasswordHash: "$2a$10$abcdefghijklmnopqrstuv",
		CreatedAt:    time.Now().UTC().Truncate(time.Microsecond),
	}
	require.NoError(t, NewUserRepository(pool, zerolog.Nop()).Create(context.Background(), u))
	return u
}
