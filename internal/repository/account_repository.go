package repository

import (
	"context"
	"errors"
	"fmt"

	"dealer-kart/internal/model"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

// customerRepository implements the CustomerRepository interface using PostgreSQL.
type customerRepository struct {
	pool   *pgxpool.Pool
	logger zerolog.Logger
}

// NewCustomerRepository creates a new PostgreSQL-backed customer repository.
func NewCustomerRepository(pool *pgxpool.Pool, logger zerolog.Logger) CustomerRepository {
	return &customerRepository{
		pool:   pool,
		logger: logger.With().Str("repository", "customer").Logger(),
	}
}

const customerColumns = `id, name, email, phone, address, password_hash, created_at, updated_at`

func scanCustomer(row pgx.Row) (*model.Customer, error) {
	var c model.Customer
	err := row.Scan(&c.ID, &c.Name, &c.Email, &c.Phone, &c.Address, &c.PasswordHash, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// Create inserts a new customer.
func (r *customerRepository) Create(ctx context.Context, c *model.Customer) error {
	query := `
		INSERT INTO customers (id, name, email, phone, address, password_hash, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	_, err := r.pool.Exec(ctx, query, c.ID, c.Name, c.Email, c.Phone, c.Address, c.PasswordHash, c.CreatedAt, c.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			r.logger.Debug().Str("email", c.Email).Msg("customer email already registered")
			return model.ErrEmailTaken
		}
		r.logger.Error().Err(err).Str("customer_id", c.ID.String()).Msg("failed to create customer")
		return fmt.Errorf("failed to create customer: %w", err)
	}

	return nil
}

// GetByID retrieves a customer by ID.
func (r *customerRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Customer, error) {
	query := `SELECT ` + customerColumns + ` FROM customers WHERE id = $1`

	c, err := scanCustomer(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		r.logger.Error().Err(err).Str("customer_id", id.String()).Msg("failed to query customer")
		return nil, fmt.Errorf("failed to query customer: %w", err)
	}

	return c, nil
}

// GetByEmail retrieves a customer by email.
func (r *customerRepository) GetByEmail(ctx context.Context, email string) (*model.Customer, error) {
	query := `SELECT ` + customerColumns + ` FROM customers WHERE LOWER(email) = LOWER($1)`

	c, err := scanCustomer(r.pool.QueryRow(ctx, query, email))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		r.logger.Error().Err(err).Msg("failed to query customer by email")
		return nil, fmt.Errorf("failed to query customer: %w", err)
	}

	return c, nil
}

// Update persists the customer's profile fields.
func (r *customerRepository) Update(ctx context.Context, c *model.Customer) error {
	query := `
		UPDATE customers
		SET name = $2, phone = $3, address = $4, updated_at = $5
		WHERE id = $1
	`

	tag, err := r.pool.Exec(ctx, query, c.ID, c.Name, c.Phone, c.Address, c.UpdatedAt)
	if err != nil {
		r.logger.Error().Err(err).Str("customer_id", c.ID.String()).Msg("failed to update customer")
		return fmt.Errorf("failed to update customer: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrAccountNotFound
	}

	return nil
}

// dealerRepository implements the DealerRepository interface using PostgreSQL.
type dealerRepository struct {
	pool   *pgxpool.Pool
	logger zerolog.Logger
}

// NewDealerRepository creates a new PostgreSQL-backed dealer repository.
func NewDealerRepository(pool *pgxpool.Pool, logger zerolog.Logger) DealerRepository {
	return &dealerRepository{
		pool:   pool,
		logger: logger.With().Str("repository", "dealer").Logger(),
	}
}

const dealerColumns = `id, name, email, business_name, phone, password_hash, created_at, updated_at`

func scanDealer(row pgx.Row) (*model.Dealer, error) {
	var d model.Dealer
	err := row.Scan(&d.ID, &d.Name, &d.Email, &d.BusinessName, &d.Phone, &d.PasswordHash, &d.CreatedAt, &d.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &d, nil
}

// Create inserts a new dealer.
func (r *dealerRepository) Create(ctx context.Context, d *model.Dealer) error {
	query := `
		INSERT INTO dealers (id, name, email, business_name, phone, password_hash, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	_, err := r.pool.Exec(ctx, query, d.ID, d.Name, d.Email, d.BusinessName, d.Phone, d.PasswordHash, d.CreatedAt, d.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			r.logger.Debug().Str("email", d.Email).Msg("dealer email already registered")
			return model.ErrEmailTaken
		}
		r.logger.Error().Err(err).Str("dealer_id", d.ID.String()).Msg("failed to create dealer")
		return fmt.Errorf("failed to create dealer: %w", err)
	}

	return nil
}

// GetByID retrieves a dealer by ID.
func (r *dealerRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Dealer, error) {
	query := `SELECT ` + dealerColumns + ` FROM dealers WHERE id = $1`

	d, err := scanDealer(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		r.logger.Error().Err(err).Str("dealer_id", id.String()).Msg("failed to query dealer")
		return nil, fmt.Errorf("failed to query dealer: %w", err)
	}

	return d, nil
}

// GetByEmail retrieves a dealer by email.
func (r *dealerRepository) GetByEmail(ctx context.Context, email string) (*model.Dealer, error) {
	query := `SELECT ` + dealerColumns + ` FROM dealers WHERE LOWER(email) = LOWER($1)`

	d, err := scanDealer(r.pool.QueryRow(ctx, query, email))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		r.logger.Error().Err(err).Msg("failed to query dealer by email")
		return nil, fmt.Errorf("failed to query dealer: %w", err)
	}

	return d, nil
}

// Update persists the dealer's profile fields.
func (r *dealerRepository) Update(ctx context.Context, d *model.Dealer) error {
	query := `
		UPDATE dealers
		SET name = $2, business_name = $3, phone = $4, updated_at = $5
		WHERE id = $1
	`

	tag, err := r.pool.Exec(ctx, query, d.ID, d.Name, d.BusinessName, d.Phone, d.UpdatedAt)
	if err != nil {
		r.logger.Error().Err(err).Str("dealer_id", d.ID.String()).Msg("failed to update dealer")
		return fmt.Errorf("failed to update dealer: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrAccountNotFound
	}

	return nil
}
