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

// billRepository implements the BillRepository interface using PostgreSQL.
type billRepository struct {
	pool   *pgxpool.Pool
	logger zerolog.Logger
}

// NewBillRepository creates a new PostgreSQL-backed bill repository.
func NewBillRepository(pool *pgxpool.Pool, logger zerolog.Logger) BillRepository {
	return &billRepository{
		pool:   pool,
		logger: logger.With().Str("repository", "bill").Logger(),
	}
}

const billColumns = `id, bill_number, order_id, customer_id, items, dealer_ids,
	subtotal, shipping, discount, tax, total,
	shipping_address, payment_method, status, issued_at`

func scanBill(row pgx.Row) (model.Bill, error) {
	var b model.Bill
	err := row.Scan(
		&b.ID,
		&b.BillNumber,
		&b.OrderID,
		&b.CustomerID,
		&b.Items,
		&b.DealerIDs,
		&b.Subtotal,
		&b.Shipping,
		&b.Discount,
		&b.Tax,
		&b.Total,
		&b.ShippingAddress,
		&b.PaymentMethod,
		&b.Status,
		&b.IssuedAt,
	)
	return b, err
}

func (r *billRepository) getOne(ctx context.Context, where string, arg any) (*model.Bill, error) {
	b, err := scanBill(r.pool.QueryRow(ctx, `SELECT `+billColumns+` FROM bills WHERE `+where, arg))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		r.logger.Error().Err(err).Msg("failed to query bill")
		return nil, fmt.Errorf("failed to query bill: %w", err)
	}
	return &b, nil
}

func (r *billRepository) list(ctx context.Context, where string, arg any) ([]model.Bill, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+billColumns+` FROM bills WHERE `+where+` ORDER BY issued_at DESC, id`, arg)
	if err != nil {
		r.logger.Error().Err(err).Msg("failed to query bills")
		return nil, fmt.Errorf("failed to query bills: %w", err)
	}
	defer rows.Close()

	bills := []model.Bill{}
	for rows.Next() {
		b, err := scanBill(rows)
		if err != nil {
			r.logger.Error().Err(err).Msg("failed to scan bill row")
			return nil, fmt.Errorf("failed to scan bill: %w", err)
		}
		bills = append(bills, b)
	}

	if err := rows.Err(); err != nil {
		r.logger.Error().Err(err).Msg("error iterating bill rows")
		return nil, fmt.Errorf("error iterating bills: %w", err)
	}

	return bills, nil
}

// GetByID retrieves a bill by its ID.
func (r *billRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Bill, error) {
	return r.getOne(ctx, "id = $1", id)
}

// GetByOrderID retrieves the bill generated for an order.
func (r *billRepository) GetByOrderID(ctx context.Context, orderID uuid.UUID) (*model.Bill, error) {
	return r.getOne(ctx, "order_id = $1", orderID)
}

// ListByCustomer retrieves a customer's bills, newest first.
func (r *billRepository) ListByCustomer(ctx context.Context, customerID uuid.UUID) ([]model.Bill, error) {
	return r.list(ctx, "customer_id = $1", customerID)
}

// ListByDealer retrieves bills whose orders reference the dealer.
func (r *billRepository) ListByDealer(ctx context.Context, dealerID uuid.UUID) ([]model.Bill, error) {
	return r.list(ctx, "dealer_ids @> ARRAY[$1::uuid]", dealerID)
}

// CreateIfAbsent inserts the bill unless its order already has one.
func (r *billRepository) CreateIfAbsent(ctx context.Context, b *model.Bill) (*model.Bill, bool, error) {
	query := `
		INSERT INTO bills (id, bill_number, order_id, customer_id, items, dealer_ids,
			subtotal, shipping, discount, tax, total,
			shipping_address, payment_method, status, issued_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
		ON CONFLICT (order_id) DO NOTHING
	`

	tag, err := r.pool.Exec(ctx, query,
		b.ID, b.BillNumber, b.OrderID, b.CustomerID, itemsOrEmpty(b.Items), model.DealerIDsOf(b.Items),
		b.Subtotal, b.Shipping, b.Discount, b.Tax, b.Total,
		b.ShippingAddress, b.PaymentMethod, string(b.Status), b.IssuedAt,
	)
	if err != nil {
		r.logger.Error().Err(err).Str("order_id", b.OrderID.String()).Msg("failed to create bill")
		return nil, false, fmt.Errorf("failed to create bill: %w", err)
	}

	created := tag.RowsAffected() > 0
	stored, err := r.GetByOrderID(ctx, b.OrderID)
	if err != nil {
		return nil, false, err
	}
	if stored == nil {
		return nil, false, fmt.Errorf("bill for order %s missing after insert", b.OrderID)
	}

	if created {
		r.logger.Info().
			Str("bill_number", stored.BillNumber).
			Str("order_id", b.OrderID.String()).
			Msg("bill created")
	}

	return stored, created, nil
}
