package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"dealer-kart/internal/model"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

// cartRepository implements the CartRepository interface using PostgreSQL.
type cartRepository struct {
	pool   *pgxpool.Pool
	logger zerolog.Logger
}

// NewCartRepository creates a new PostgreSQL-backed cart repository.
func NewCartRepository(pool *pgxpool.Pool, logger zerolog.Logger) CartRepository {
	return &cartRepository{
		pool:   pool,
		logger: logger.With().Str("repository", "cart").Logger(),
	}
}

// Get retrieves the customer's cart.
func (r *cartRepository) Get(ctx context.Context, customerID uuid.UUID) (*model.Cart, error) {
	cart := &model.Cart{CustomerID: customerID}

	err := r.pool.QueryRow(ctx, `SELECT items, updated_at FROM carts WHERE customer_id = $1`, customerID).
		Scan(&cart.Items, &cart.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			cart.Items = []model.LineItem{}
			return cart, nil
		}
		r.logger.Error().Err(err).Str("customer_id", customerID.String()).Msg("failed to query cart")
		return nil, fmt.Errorf("failed to query cart: %w", err)
	}

	return cart, nil
}

// GetForUpdate creates the cart row if needed and locks it.
func (r *cartRepository) GetForUpdate(ctx context.Context, tx pgx.Tx, customerID uuid.UUID) (*model.Cart, error) {
	_, err := tx.Exec(ctx, `
		INSERT INTO carts (customer_id, items, updated_at)
		VALUES ($1, '[]', NOW())
		ON CONFLICT (customer_id) DO NOTHING
	`, customerID)
	if err != nil {
		r.logger.Error().Err(err).Str("customer_id", customerID.String()).Msg("failed to create cart")
		return nil, fmt.Errorf("failed to create cart: %w", err)
	}

	cart := &model.Cart{CustomerID: customerID}
	err = tx.QueryRow(ctx, `SELECT items, updated_at FROM carts WHERE customer_id = $1 FOR UPDATE`, customerID).
		Scan(&cart.Items, &cart.UpdatedAt)
	if err != nil {
		r.logger.Error().Err(err).Str("customer_id", customerID.String()).Msg("failed to lock cart")
		return nil, fmt.Errorf("failed to lock cart: %w", err)
	}
	if cart.Items == nil {
		cart.Items = []model.LineItem{}
	}

	return cart, nil
}

// Save replaces the cart's items.
func (r *cartRepository) Save(ctx context.Context, tx pgx.Tx, cart *model.Cart) error {
	if cart.UpdatedAt.IsZero() {
		cart.UpdatedAt = time.Now().UTC()
	}

	_, err := tx.Exec(ctx, `
		UPDATE carts SET items = $2, updated_at = $3 WHERE customer_id = $1
	`, cart.CustomerID, itemsOrEmpty(cart.Items), cart.UpdatedAt)
	if err != nil {
		r.logger.Error().Err(err).Str("customer_id", cart.CustomerID.String()).Msg("failed to save cart")
		return fmt.Errorf("failed to save cart: %w", err)
	}

	return nil
}
