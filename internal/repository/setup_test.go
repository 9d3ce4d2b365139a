package repository

import (
	"context"
	"testing"
	"time"

	"dealer-kart/internal/database"
	"dealer-kart/internal/model"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
)

// setupTestDB creates a PostgreSQL testcontainer with the application schema and returns a connection pool.
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

	connStr, err := pgContainer.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	pool, err := pgxpool.New(ctx, connStr)
	require.NoError(t, err)

	require.NoError(t, database.Migrate(ctx, pool, zerolog.Nop()))

	cleanup := func() {
		pool.Close()
		_ = pgContainer.Terminate(ctx)
	}

	return pool, cleanup
}

func seedDealer(t *testing.T, pool *pgxpool.Pool, email string) model.Dealer {
	now := time.Now().UTC().Truncate(time.Microsecond)
	d := model.Dealer{
		ID:           uuid.New(),
		Name:         "Dealer " + email,
		Email:        email,
		BusinessName: "Biz " + email,
		PasswordHash: "hash",
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	require.NoError(t, NewDealerRepository(pool, zerolog.Nop()).Create(context.Background(), &d))
	return d
}

func seedCustomer(t *testing.T, pool *pgxpool.Pool, email string) model.Customer {
	now := time.Now().UTC().Truncate(time.Microsecond)
	c := model.Customer{
		ID:           uuid.New(),
		Name:         "Customer " + email,
		Email:        email,
		PasswordHash: "hash",
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	require.NoError(t, NewCustomerRepository(pool, zerolog.Nop()).Create(context.Background(), &c))
	return c
}

func seedProduct(t *testing.T, pool *pgxpool.Pool, dealerID uuid.UUID, name, category string, price float64, stock int) model.Product {
	now := time.Now().UTC().Truncate(time.Microsecond)
	p := model.Product{
		ID:          uuid.New(),
		DealerID:    dealerID,
		Name:        name,
		Description: name + " description",
		Category:    category,
		Price:       price,
		Images:      []string{"https://img.example.com/" + name + ".png"},
		Stock:       model.Stock{Quantity: stock, LowStockThreshold: 5},
		IsActive:    true,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	require.NoError(t, NewProductRepository(pool, zerolog.Nop()).Create(context.Background(), &p))
	return p
}

func lineItem(p model.Product, qty int) model.LineItem {
	return model.LineItem{
		ProductID: p.ID,
		DealerID:  p.DealerID,
		Name:      p.Name,
		Price:     p.Price,
		Quantity:  qty,
		Image:     p.PrimaryImage(),
	}
}
