package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"dealer-kart/internal/model"
	"dealer-kart/internal/ordering"
	"dealer-kart/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// billService implements BillService.
type billService struct {
	billRepo repository.BillRepository
	logger   zerolog.Logger
	now      func() time.Time
}

// NewBillService creates a new bill service.
func NewBillService(billRepo repository.BillRepository, logger zerolog.Logger) BillService {
	return &billService{
		billRepo: billRepo,
		logger:   logger.With().Str("service", "bill").Logger(),
		now:      time.Now,
	}
}

// billNumber formats a human-readable bill number such as BILL-20240131-1A2B3C4D.
func billNumber(issuedAt time.Time, id uuid.UUID) string {
	return fmt.Sprintf("BILL-%s-%s", issuedAt.Format("20060102"), strings.ToUpper(id.String()[:8]))
}

// Ensure returns the order's bill, creating a snapshot of the order on first call.
func (s *billService) Ensure(ctx context.Context, order *model.Order) (*model.Bill, bool, error) {
	existing, err := s.billRepo.GetByOrderID(ctx, order.ID)
	if err != nil {
		return nil, false, fmt.Errorf("failed to look up bill: %w", err)
	}
	if existing != nil {
		s.logger.Debug().Str("order_id", order.ID.String()).Msg("bill already exists")
		return existing, false, nil
	}

	issuedAt := s.now().UTC()
	id := uuid.New()
	bill := &model.Bill{
		ID:              id,
		BillNumber:      billNumber(issuedAt, id),
		OrderID:         order.ID,
		CustomerID:      order.CustomerID,
		Items:           order.Items,
		Totals:          order.Totals,
		ShippingAddress: order.ShippingAddress,
		PaymentMethod:   order.PaymentMethod,
		Status:          order.Status,
		IssuedAt:        issuedAt,
	}

	stored, created, err := s.billRepo.CreateIfAbsent(ctx, bill)
	if err != nil {
		return nil, false, fmt.Errorf("failed to generate bill: %w", err)
	}
	return stored, created, nil
}

// ListForCustomer retrieves the customer's bills.
func (s *billService) ListForCustomer(ctx context.Context, customerID uuid.UUID) ([]model.Bill, error) {
	bills, err := s.billRepo.ListByCustomer(ctx, customerID)
	if err != nil {
		return nil, fmt.Errorf("failed to get bills: %w", err)
	}
	return bills, nil
}

// GetForCustomer retrieves one of the customer's bills.
func (s *billService) GetForCustomer(ctx context.Context, id, customerID uuid.UUID) (*model.Bill, error) {
	bill, err := s.billRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get bill: %w", err)
	}
	if bill == nil {
		return nil, model.ErrBillNotFound
	}
	if bill.CustomerID == nil || *bill.CustomerID != customerID {
		s.logger.Warn().
			Str("bill_id", id.String()).
			Str("customer_id", customerID.String()).
			Msg("customer does not own bill")
		return nil, model.ErrBillForbidden
	}
	return bill, nil
}

// ListForDealer retrieves the dealer's view of every bill that contains their items.
func (s *billService) ListForDealer(ctx context.Context, dealerID uuid.UUID) ([]model.Bill, error) {
	bills, err := s.billRepo.ListByDealer(ctx, dealerID)
	if err != nil {
		return nil, fmt.Errorf("failed to get bills: %w", err)
	}

	views := make([]model.Bill, 0, len(bills))
	for i := range bills {
		if view, ok := ordering.BillForDealer(&bills[i], dealerID); ok {
			views = append(views, *view)
		}
	}
	return views, nil
}

// GetForDealer retrieves the dealer's view of one bill.
func (s *billService) GetForDealer(ctx context.Context, id, dealerID uuid.UUID) (*model.Bill, error) {
	bill, err := s.billRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get bill: %w", err)
	}
	if bill == nil {
		return nil, model.ErrBillNotFound
	}

	view, ok := ordering.BillForDealer(bill, dealerID)
	if !ok {
		s.logger.Warn().
			Str("bill_id", id.String()).
			Str("dealer_id", dealerID.String()).
			Msg("dealer has no items on bill")
		return nil, model.ErrBillForbidden
	}
	return view, nil
}
