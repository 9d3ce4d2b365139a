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

// orderRepository implements the OrderRepository interface using PostgreSQL.
type orderRepository struct {
	pool   *pgxpool.Pool
	logger zerolog.Logger
}

// NewOrderRepository creates a new PostgreSQL-backed order repository.
func NewOrderRepository(pool *pgxpool.Pool, logger zerolog.Logger) OrderRepository {
	return &orderRepository{
		pool:   pool,
		logger: logger.With().Str("repository", "order").Logger(),
	}
}

const orderColumns = `id, customer_id, guest_email, items, dealer_ids,
	subtotal, shipping, discount, tax, total,
	shipping_address, payment_method, promo_code, status, notes,
	placed_at, created_at, updated_at`

func scanOrder(row pgx.Row) (model.Order, error) {
	var o model.Order
	err := row.Scan(
		&o.ID,
		&o.CustomerID,
		&o.GuestEmail,
		&o.Items,
		&o.DealerIDs,
		&o.Subtotal,
		&o.Shipping,
		&o.Discount,
		&o.Tax,
		&o.Total,
		&o.ShippingAddress,
		&o.PaymentMethod,
		&o.PromoCode,
		&o.Status,
		&o.Notes,
		&o.PlacedAt,
		&o.CreatedAt,
		&o.UpdatedAt,
	)
	return o, err
}

func (r *orderRepository) collect(rows pgx.Rows) ([]model.Order, error) {
	defer rows.Close()

	orders := []model.Order{}
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			r.logger.Error().Err(err).Msg("failed to scan order row")
			return nil, fmt.Errorf("failed to scan order: %w", err)
		}
		orders = append(orders, o)
	}

	if err := rows.Err(); err != nil {
		r.logger.Error().Err(err).Msg("error iterating order rows")
		return nil, fmt.Errorf("error iterating orders: %w", err)
	}

	return orders, nil
}

// BeginTx starts a new database transaction.
func (r *orderRepository) BeginTx(ctx context.Context) (pgx.Tx, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		r.logger.Error().Err(err).Msg("failed to begin transaction")
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	return tx, nil
}

// Create inserts a new order within the provided transaction.
func (r *orderRepository) Create(ctx context.Context, tx pgx.Tx, o *model.Order) error {
	query := `
		INSERT INTO orders (id, customer_id, guest_email, items, dealer_ids,
			subtotal, shipping, discount, tax, total,
			shipping_address, payment_method, promo_code, status, notes,
			placed_at, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18)
	`

	_, err := tx.Exec(ctx, query,
		o.ID, o.CustomerID, o.GuestEmail, itemsOrEmpty(o.Items), model.DealerIDsOf(o.Items),
		o.Subtotal, o.Shipping, o.Discount, o.Tax, o.Total,
		o.ShippingAddress, o.PaymentMethod, o.PromoCode, o.Status, o.Notes,
		o.PlacedAt, o.CreatedAt, o.UpdatedAt,
	)
	if err != nil {
		r.logger.Error().
			Err(err).
			Str("order_id", o.ID.String()).
			Msg("failed to create order")
		return fmt.Errorf("failed to create order: %w", err)
	}

	r.logger.Debug().
		Str("order_id", o.ID.String()).
		Int("items", len(o.Items)).
		Msg("order created successfully")

	return nil
}

// GetByID retrieves an order by its ID.
func (r *orderRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders WHERE id = $1`

	o, err := scanOrder(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			r.logger.Debug().Str("order_id", id.String()).Msg("order not found")
			return nil, nil
		}
		r.logger.Error().Err(err).Str("order_id", id.String()).Msg("failed to query order")
		return nil, fmt.Errorf("failed to query order: %w", err)
	}

	return &o, nil
}

// GetByIDs retrieves the orders that exist among ids.
func (r *orderRepository) GetByIDs(ctx context.Context, ids []uuid.UUID) ([]model.Order, error) {
	if len(ids) == 0 {
		return []model.Order{}, nil
	}

	query := `SELECT ` + orderColumns + ` FROM orders WHERE id = ANY($1)`

	rows, err := r.pool.Query(ctx, query, ids)
	if err != nil {
		r.logger.Error().Err(err).Int("count", len(ids)).Msg("failed to query orders by IDs")
		return nil, fmt.Errorf("failed to query orders by IDs: %w", err)
	}

	return r.collect(rows)
}

// ListByCustomer retrieves a customer's orders, newest first.
func (r *orderRepository) ListByCustomer(ctx context.Context, customerID uuid.UUID) ([]model.Order, error) {
	query := `
		SELECT ` + orderColumns + `
		FROM orders
		WHERE customer_id = $1
		ORDER BY created_at DESC, id
	`

	rows, err := r.pool.Query(ctx, query, customerID)
	if err != nil {
		r.logger.Error().Err(err).Str("customer_id", customerID.String()).Msg("failed to query customer orders")
		return nil, fmt.Errorf("failed to query customer orders: %w", err)
	}

	return r.collect(rows)
}

// ListByDealer retrieves orders that reference the dealer in any line item.
func (r *orderRepository) ListByDealer(ctx context.Context, dealerID uuid.UUID, status *model.OrderStatus) ([]model.Order, error) {
	query := `
		SELECT ` + orderColumns + `
		FROM orders
		WHERE dealer_ids @> ARRAY[$1::uuid]
		  AND ($2::text IS NULL OR status = $2::text)
		ORDER BY created_at DESC, id
	`

	var statusArg *string
	if status != nil {
		s := string(*status)
		statusArg = &s
	}

	rows, err := r.pool.Query(ctx, query, dealerID, statusArg)
	if err != nil {
		r.logger.Error().Err(err).Str("dealer_id", dealerID.String()).Msg("failed to query dealer orders")
		return nil, fmt.Errorf("failed to query dealer orders: %w", err)
	}

	return r.collect(rows)
}

// GetPendingForUpdate locks and returns the customer's cart-mirror order.
func (r *orderRepository) GetPendingForUpdate(ctx context.Context, tx pgx.Tx, customerID uuid.UUID) (*model.Order, error) {
	query := `
		SELECT ` + orderColumns + `
		FROM orders
		WHERE customer_id = $1 AND status = 'pending' AND placed_at IS NULL
		FOR UPDATE
	`

	o, err := scanOrder(tx.QueryRow(ctx, query, customerID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		r.logger.Error().Err(err).Str("customer_id", customerID.String()).Msg("failed to query pending order")
		return nil, fmt.Errorf("failed to query pending order: %w", err)
	}

	return &o, nil
}

// UpsertPending creates or replaces the customer's cart-mirror order.
func (r *orderRepository) UpsertPending(ctx context.Context, tx pgx.Tx, o *model.Order) (bool, error) {
	query := `
		INSERT INTO orders (id, customer_id, items, dealer_ids,
			subtotal, shipping, discount, tax, total, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, 'pending', $10, $10)
		ON CONFLICT (customer_id) WHERE status = 'pending' AND placed_at IS NULL
		DO UPDATE SET
			items = EXCLUDED.items,
			dealer_ids = EXCLUDED.dealer_ids,
			subtotal = EXCLUDED.subtotal,
			shipping = EXCLUDED.shipping,
			discount = EXCLUDED.discount,
			tax = EXCLUDED.tax,
			total = EXCLUDED.total,
			updated_at = EXCLUDED.updated_at
		RETURNING id, created_at, (xmax = 0) AS inserted
	`

	var inserted bool
	err := tx.QueryRow(ctx, query,
		o.ID, o.CustomerID, itemsOrEmpty(o.Items), model.DealerIDsOf(o.Items),
		o.Subtotal, o.Shipping, o.Discount, o.Tax, o.Total, o.UpdatedAt,
	).Scan(&o.ID, &o.CreatedAt, &inserted)
	if err != nil {
		r.logger.Error().Err(err).Msg("failed to upsert pending order")
		return false, fmt.Errorf("failed to upsert pending order: %w", err)
	}

	o.Status = model.StatusPending
	return inserted, nil
}

// DeletePending removes the customer's cart-mirror order.
func (r *orderRepository) DeletePending(ctx context.Context, tx pgx.Tx, customerID uuid.UUID) (*uuid.UUID, error) {
	query := `
		DELETE FROM orders
		WHERE customer_id = $1 AND status = 'pending' AND placed_at IS NULL
		RETURNING id
	`

	var id uuid.UUID
	err := tx.QueryRow(ctx, query, customerID).Scan(&id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		r.logger.Error().Err(err).Str("customer_id", customerID.String()).Msg("failed to delete pending order")
		return nil, fmt.Errorf("failed to delete pending order: %w", err)
	}

	return &id, nil
}

// Place records checkout details on a cart-mirror order.
func (r *orderRepository) Place(ctx context.Context, tx pgx.Tx, o *model.Order) error {
	query := `
		UPDATE orders
		SET shipping_address = $2, payment_method = $3, notes = $4, promo_code = $5,
			subtotal = $6, shipping = $7, discount = $8, tax = $9, total = $10,
			placed_at = $11, updated_at = $11
		WHERE id = $1 AND status = 'pending' AND placed_at IS NULL
	`

	tag, err := tx.Exec(ctx, query,
		o.ID, o.ShippingAddress, o.PaymentMethod, o.Notes, o.PromoCode,
		o.Subtotal, o.Shipping, o.Discount, o.Tax, o.Total, o.PlacedAt,
	)
	if err != nil {
		r.logger.Error().Err(err).Str("order_id", o.ID.String()).Msg("failed to place order")
		return fmt.Errorf("failed to place order: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrOrderNotFound
	}

	return nil
}

// TransitionStatus moves a placed order from one status to another.
func (r *orderRepository) TransitionStatus(ctx context.Context, tx pgx.Tx, id uuid.UUID, from, to model.OrderStatus) (bool, error) {
	query := `
		UPDATE orders
		SET status = $3, updated_at = NOW()
		WHERE id = $1 AND status = $2 AND placed_at IS NOT NULL
	`

	tag, err := tx.Exec(ctx, query, id, string(from), string(to))
	if err != nil {
		r.logger.Error().Err(err).
			Str("order_id", id.String()).
			Str("from", string(from)).
			Str("to", string(to)).
			Msg("failed to update order status")
		return false, fmt.Errorf("failed to update order status: %w", err)
	}

	return tag.RowsAffected() > 0, nil
}

// DeleteOwned removes those of ids that are checked out and whose line items all belong to the dealer.
func (r *orderRepository) DeleteOwned(ctx context.Context, dealerID uuid.UUID, ids []uuid.UUID) (int, error) {
	if len(ids) == 0 {
		return 0, nil
	}

	query := `DELETE FROM orders WHERE id = ANY($1) AND dealer_ids = ARRAY[$2::uuid] AND placed_at IS NOT NULL`

	tag, err := r.pool.Exec(ctx, query, ids, dealerID)
	if err != nil {
		r.logger.Error().Err(err).Str("dealer_id", dealerID.String()).Msg("failed to delete orders")
		return 0, fmt.Errorf("failed to delete orders: %w", err)
	}

	return int(tag.RowsAffected()), nil
}

func itemsOrEmpty(items []model.LineItem) []model.LineItem {
	if items == nil {
		return []model.LineItem{}
	}
	return items
}
