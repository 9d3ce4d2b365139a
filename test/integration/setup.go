package integration

import (
	"bytes"
	"compress/gzip"
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"dealer-kart/internal/config"
	"dealer-kart/internal/database"
	"dealer-kart/internal/model"
	"dealer-kart/internal/realtime"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
)

// TestDB represents a migrated test database instance.
type TestDB struct {
	Container *postgres.PostgresContainer
	Pool      *pgxpool.Pool
}

// SetupTestDB creates a PostgreSQL test container, connects through database.NewPool and applies
// the application migrations.
func SetupTestDB(t *testing.T) *TestDB {
	t.Helper()

	ctx := context.Background()

	postgresContainer, err := postgres.Run(ctx,
		"postgres:16-alpine",
		postgres.WithDatabase("testdb"),
		postgres.WithUsername("testuser"),
		postgres.WithPassword("testpass"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second)),
	)
	if err != nil {
		t.Fatalf("failed to start postgres container: %v", err)
	}

	host, err := postgresContainer.Host(ctx)
	require.NoError(t, err)
	port, err := postgresContainer.MappedPort(ctx, "5432/tcp")
	require.NoError(t, err)

	logger := zerolog.Nop()
	pool, err := database.NewPool(ctx, config.DatabaseConfig{
		Host:            host,
		Port:            port.Int(),
		User:            "testuser",
		Password:        "testpass",
		Database:        "testdb",
		MaxConnections:  20,
		MinConnections:  2,
		MaxConnLifetime: 300,
	}, logger)
	if err != nil {
		t.Fatalf("failed to create connection pool: %v", err)
	}

	if err := database.Migrate(ctx, pool, logger); err != nil {
		t.Fatalf("failed to apply migrations: %v", err)
	}

	t.Cleanup(func() {
		pool.Close()
		if err := postgresContainer.Terminate(ctx); err != nil {
			t.Logf("failed to terminate container: %v", err)
		}
	})

	return &TestDB{
		Container: postgresContainer,
		Pool:      pool,
	}
}

// CleanupDB cleans all data from application tables.
func CleanupDB(t *testing.T, pool *pgxpool.Pool) {
	t.Helper()

	_, err := pool.Exec(context.Background(),
		"TRUNCATE bills, carts, orders, products, customers, dealers, contacts, test_submissions")
	if err != nil {
		t.Fatalf("failed to clean tables: %v", err)
	}
}

// SeedDealer inserts a dealer account and returns its ID.
func SeedDealer(t *testing.T, pool *pgxpool.Pool, email string) uuid.UUID {
	t.Helper()

	id := uuid.New()
	_, err := pool.Exec(context.Background(),
		"INSERT INTO dealers (id, name, email, business_name, password_hash) VALUES ($1, $2, $3, $2, 'x')",
		id, "Dealer "+email, email)
	if err != nil {
		t.Fatalf("failed to seed dealer %s: %v", email, err)
	}
	return id
}

// SeedCustomer inserts a customer account and returns its ID.
func SeedCustomer(t *testing.T, pool *pgxpool.Pool, email string) uuid.UUID {
	t.Helper()

	id := uuid.New()
	_, err := pool.Exec(context.Background(),
		"INSERT INTO customers (id, name, email, password_hash) VALUES ($1, $2, $3, 'x')",
		id, "Customer "+email, email)
	if err != nil {
		t.Fatalf("failed to seed customer %s: %v", email, err)
	}
	return id
}

// SeedProduct inserts an active product owned by dealerID.
func SeedProduct(t *testing.T, pool *pgxpool.Pool, dealerID uuid.UUID, name string, price float64, stock int) model.Product {
	t.Helper()

	now := time.Now().UTC()
	p := model.Product{
		ID:       uuid.New(),
		DealerID: dealerID,
		Name:     name,
		Category: "General",
		Price:    price,
		Images:   []string{},
		Stock:    model.Stock{Quantity: stock, LowStockThreshold: 1},
		IsActive: true,
	}
	_, err := pool.Exec(context.Background(), `
		INSERT INTO products (id, dealer_id, name, description, category, price, images,
			stock_quantity, low_stock_threshold, is_active, created_at, updated_at)
		VALUES ($1, $2, $3, '', $4, $5, $6, $7, $8, true, $9, $9)`,
		p.ID, p.DealerID, p.Name, p.Category, p.Price, p.Images, p.Stock.Quantity, p.Stock.LowStockThreshold, now,
	)
	if err != nil {
		t.Fatalf("failed to seed product %s: %v", name, err)
	}
	return p
}

// StockOf reads a product's current stock quantity.
func StockOf(t *testing.T, pool *pgxpool.Pool, productID uuid.UUID) int {
	t.Helper()

	var qty int
	err := pool.QueryRow(context.Background(), "SELECT stock_quantity FROM products WHERE id = $1", productID).Scan(&qty)
	require.NoError(t, err)
	return qty
}

// CountRows counts rows in table matching the optional where clause.
func CountRows(t *testing.T, pool *pgxpool.Pool, table, where string, args ...any) int {
	t.Helper()

	query := "SELECT COUNT(*) FROM " + table
	if where != "" {
		query += " WHERE " + where
	}
	var n int
	require.NoError(t, pool.QueryRow(context.Background(), query, args...).Scan(&n))
	return n
}

// WritePromoFile writes a gzipped promo code list and returns its path.
func WritePromoFile(t *testing.T, name string, codes ...string) string {
	t.Helper()

	var buf bytes.Buffer
	gz := gzip.NewWriter(&buf)
	for _, c := range codes {
		_, err := gz.Write([]byte(c + "\n"))
		require.NoError(t, err)
	}
	require.NoError(t, gz.Close())

	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0o600))
	return path
}

// EventLog records published realtime events.
type EventLog struct {
	mu     sync.Mutex
	events []realtime.Event
}

// Publish implements realtime.Publisher.
func (l *EventLog) Publish(evt realtime.Event) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.events = append(l.events, evt)
}

// Names returns the recorded event names in order.
func (l *EventLog) Names() []realtime.EventName {
	l.mu.Lock()
	defer l.mu.Unlock()
	names := make([]realtime.EventName, 0, len(l.events))
	for _, e := range l.events {
		names = append(names, e.Event)
	}
	return names
}
