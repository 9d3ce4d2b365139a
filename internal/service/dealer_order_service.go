package service

import (
	"context"
	"fmt"
	"time"

	"dealer-kart/internal/cache"
	"dealer-kart/internal/model"
	"dealer-kart/internal/ordering"
	"dealer-kart/internal/realtime"
	"dealer-kart/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

const maxBulkOrders = 500

// dealerOrderService implements DealerOrderService.
type dealerOrderService struct {
	orderRepo   repository.OrderRepository
	productRepo repository.ProductRepository
	bills       BillService
	cache       cache.ProductCache
	publisher   realtime.Publisher
	logger      zerolog.Logger
}

// NewDealerOrderService creates a new dealer order service.
func NewDealerOrderService(
	orderRepo repository.OrderRepository,
	productRepo repository.ProductRepository,
	bills BillService,
	productCache cache.ProductCache,
	publisher realtime.Publisher,
	logger zerolog.Logger,
) DealerOrderService {
	return &dealerOrderService{
		orderRepo:   orderRepo,
		productRepo: productRepo,
		bills:       bills,
		cache:       productCache,
		publisher:   publisher,
		logger:      logger.With().Str("service", "dealer_order").Logger(),
	}
}

// List retrieves the dealer's view of every order containing their items.
func (s *dealerOrderService) List(ctx context.Context, dealerID uuid.UUID, status *model.OrderStatus) ([]model.Order, error) {
	if status != nil {
		if _, err := ordering.ParseStatus(string(*status)); err != nil {
			return nil, err
		}
	}

	orders, err := s.orderRepo.ListByDealer(ctx, dealerID, status)
	if err != nil {
		s.logger.Error().Err(err).Str("dealer_id", dealerID.String()).Msg("failed to list orders")
		return nil, fmt.Errorf("failed to get orders: %w", err)
	}

	views := make([]model.Order, 0, len(orders))
	for i := range orders {
		if view, ok := ordering.ForDealer(&orders[i], dealerID); ok {
			views = append(views, *view)
		}
	}
	return views, nil
}

// load retrieves the full order and checks that the dealer may see it.
func (s *dealerOrderService) load(ctx context.Context, id, dealerID uuid.UUID) (*model.Order, error) {
	order, err := s.orderRepo.GetByID(ctx, id)
	if err != nil {
		s.logger.Error().Err(err).Str("order_id", id.String()).Msg("failed to get order")
		return nil, fmt.Errorf("failed to get order: %w", err)
	}
	if order == nil {
		s.logger.Debug().Str("order_id", id.String()).Msg("order not found")
		return nil, model.ErrOrderNotFound
	}
	if !ordering.Visible(order, dealerID) {
		s.logger.Warn().
			Str("order_id", id.String()).
			Str("dealer_id", dealerID.String()).
			Msg("dealer has no items on order")
		return nil, model.ErrOrderForbidden
	}
	return order, nil
}

// Get retrieves the dealer's view of one order.
func (s *dealerOrderService) Get(ctx context.Context, id, dealerID uuid.UUID) (*model.Order, error) {
	order, err := s.load(ctx, id, dealerID)
	if err != nil {
		return nil, err
	}
	view, _ := ordering.ForDealer(order, dealerID)
	return view, nil
}

// SetStatus moves one order to status. Moving to the current status changes nothing but
// still makes sure the bill exists when the status calls for one.
func (s *dealerOrderService) SetStatus(ctx context.Context, id, dealerID uuid.UUID, status model.OrderStatus) (*model.StatusUpdateResult, error) {
	if _, err := ordering.ParseStatus(string(status)); err != nil {
		return nil, err
	}

	order, err := s.load(ctx, id, dealerID)
	if err != nil {
		return nil, err
	}

	if err := ordering.CheckTransition(order, status); err != nil {
		s.logger.Warn().
			Str("order_id", id.String()).
			Str("from", string(order.Status)).
			Str("to", string(status)).
			Err(err).
			Msg("status change rejected")
		return nil, err
	}

	if order.Status != status {
		if err := s.transition(ctx, order, status); err != nil {
			return nil, err
		}
	}

	view, _ := ordering.ForDealer(order, dealerID)
	result := &model.StatusUpdateResult{Order: view}
	if ordering.GeneratesBill(order.Status) {
		result.Bill = s.ensureBill(ctx, order, dealerID)
	}
	return result, nil
}

// transition applies the stock effect and the compare-and-set status update in one
// transaction, then publishes the change. order is updated in place on success.
func (s *dealerOrderService) transition(ctx context.Context, order *model.Order, to model.OrderStatus) (err error) {
	from := order.Status
	effect := ordering.StockEffectOf(from, to)

	tx, err := s.orderRepo.BeginTx(ctx)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to begin transaction")
		return fmt.Errorf("failed to update order status: %w", err)
	}

	// Ensure transaction is rolled back on error
	defer func() {
		if err != nil {
			if rbErr := tx.Rollback(ctx); rbErr != nil {
				s.logger.Error().Err(rbErr).Msg("failed to rollback transaction")
			}
		}
	}()

	switch effect {
	case ordering.StockReserve:
		for _, item := range order.Items {
			var ok bool
			if ok, err = s.productRepo.AdjustStock(ctx, tx, item.ProductID, -item.Quantity); err != nil {
				return fmt.Errorf("failed to update order status: %w", err)
			}
			if !ok {
				s.logger.Warn().
					Str("order_id", order.ID.String()).
					Str("product_id", item.ProductID.String()).
					Int("quantity", item.Quantity).
					Msg("not enough stock to confirm order")
				return model.ErrInsufficientStock
			}
		}
	case ordering.StockRelease:
		for _, item := range order.Items {
			var ok bool
			if ok, err = s.productRepo.AdjustStock(ctx, tx, item.ProductID, item.Quantity); err != nil {
				return fmt.Errorf("failed to update order status: %w", err)
			}
			if !ok {
				s.logger.Warn().
					Str("order_id", order.ID.String()).
					Str("product_id", item.ProductID.String()).
					Msg("product gone, stock not restored")
			}
		}
	}

	changed, err := s.orderRepo.TransitionStatus(ctx, tx, order.ID, from, to)
	if err != nil {
		return fmt.Errorf("failed to update order status: %w", err)
	}
	if !changed {
		s.logger.Warn().Str("order_id", order.ID.String()).Msg("order status changed concurrently")
		return model.ErrStatusConflict
	}

	if err = tx.Commit(ctx); err != nil {
		s.logger.Error().Err(err).Str("order_id", order.ID.String()).Msg("failed to commit transaction")
		return fmt.Errorf("failed to update order status: %w", err)
	}

	order.Status = to
	order.UpdatedAt = time.Now().UTC()

	s.logger.Info().
		Str("order_id", order.ID.String()).
		Str("from", string(from)).
		Str("to", string(to)).
		Msg("order status updated")

	s.publisher.Publish(realtime.OrderEvent(realtime.EventOrderUpdated, order))
	if effect != ordering.StockNone {
		s.stockChanged(ctx, order.Items)
	}
	return nil
}

// stockChanged drops cached catalogue reads and broadcasts the products whose stock moved.
func (s *dealerOrderService) stockChanged(ctx context.Context, items []model.LineItem) {
	s.cache.Invalidate(ctx)

	ids := make([]uuid.UUID, 0, len(items))
	for _, item := range items {
		ids = append(ids, item.ProductID)
	}
	products, err := s.productRepo.GetByIDs(ctx, ids)
	if err != nil {
		s.logger.Error().Err(err).Int("count", len(ids)).Msg("failed to load products after stock change")
		return
	}
	for i := range products {
		s.publisher.Publish(realtime.ProductEvent(realtime.EventProductUpdated, &products[i]))
	}
}

// ensureBill generates the bill for an order as a side effect. Failures are logged only.
func (s *dealerOrderService) ensureBill(ctx context.Context, order *model.Order, dealerID uuid.UUID) *model.Bill {
	bill, created, err := s.bills.Ensure(ctx, order)
	if err != nil {
		s.logger.Error().Err(err).Str("order_id", order.ID.String()).Msg("bill generation failed")
		return nil
	}
	if created {
		s.logger.Debug().Str("order_id", order.ID.String()).Str("bill_number", bill.BillNumber).Msg("bill generated")
	}

	view, _ := ordering.BillForDealer(bill, dealerID)
	return view
}

// BulkSetStatus applies one status to many orders. Each order is handled independently, so one
// bad order never fails the batch.
func (s *dealerOrderService) BulkSetStatus(ctx context.Context, dealerID uuid.UUID, req *model.BulkStatusRequest) (*model.BulkStatusResult, error) {
	if req == nil || len(req.OrderIDs) == 0 {
		return nil, model.NewValidationError("orderIds must not be empty")
	}
	if len(req.OrderIDs) > maxBulkOrders {
		return nil, model.NewValidationError(fmt.Sprintf("at most %d orders can be updated at once", maxBulkOrders))
	}
	if _, err := ordering.ParseStatus(string(req.Status)); err != nil {
		return nil, err
	}

	found, err := s.orderRepo.GetByIDs(ctx, req.OrderIDs)
	if err != nil {
		s.logger.Error().Err(err).Int("count", len(req.OrderIDs)).Msg("failed to get orders")
		return nil, fmt.Errorf("failed to get orders: %w", err)
	}

	c := ordering.Classify(req.OrderIDs, found, dealerID)
	result := &model.BulkStatusResult{
		Requested:  len(c.Requested),
		Authorized: len(c.Authorized),
		NotFound:   orEmpty(c.NotFound),
		Forbidden:  orEmpty(c.Forbidden),
		Skipped:    []uuid.UUID{},
		Updated:    []uuid.UUID{},
	}

	for _, order := range c.Authorized {
		if order.Status == req.Status {
			result.Skipped = append(result.Skipped, order.ID)
			if ordering.GeneratesBill(order.Status) {
				s.ensureBill(ctx, order, dealerID)
			}
			continue
		}
		if err := ordering.CheckTransition(order, req.Status); err != nil {
			result.Skipped = append(result.Skipped, order.ID)
			continue
		}
		if err := s.transition(ctx, order, req.Status); err != nil {
			if _, ok := model.AsDomainError(err); !ok {
				s.logger.Error().Err(err).Str("order_id", order.ID.String()).Msg("bulk status update failed for order")
			}
			result.Skipped = append(result.Skipped, order.ID)
			continue
		}

		result.Modified++
		result.Updated = append(result.Updated, order.ID)
		if ordering.GeneratesBill(order.Status) {
			s.ensureBill(ctx, order, dealerID)
		}
	}

	s.logger.Info().
		Str("dealer_id", dealerID.String()).
		Str("status", string(req.Status)).
		Int("requested", result.Requested).
		Int("authorized", result.Authorized).
		Int("modified", result.Modified).
		Msg("bulk status update")

	return result, nil
}

func orEmpty(ids []uuid.UUID) []uuid.UUID {
	if ids == nil {
		return []uuid.UUID{}
	}
	return ids
}

// Clear deletes the dealer's checked-out orders, keeping any order that also holds another
// dealer's items.
func (s *dealerOrderService) Clear(ctx context.Context, dealerID uuid.UUID, status *model.OrderStatus) (*model.ClearResult, error) {
	if status != nil {
		if _, err := ordering.ParseStatus(string(*status)); err != nil {
			return nil, err
		}
	}

	orders, err := s.orderRepo.ListByDealer(ctx, dealerID, status)
	if err != nil {
		return nil, fmt.Errorf("failed to get orders: %w", err)
	}

	var ids []uuid.UUID
	for i := range orders {
		// Cart mirrors belong to the customer's cart, not to the dealer.
		if orders[i].PlacedAt == nil {
			continue
		}
		if ordering.OwnsAll(&orders[i], dealerID) {
			ids = append(ids, orders[i].ID)
		}
	}

	deleted, err := s.orderRepo.DeleteOwned(ctx, dealerID, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to clear orders: %w", err)
	}

	s.logger.Info().
		Str("dealer_id", dealerID.String()).
		Int("matched", len(orders)).
		Int("deleted", deleted).
		Msg("dealer orders cleared")

	return &model.ClearResult{Matched: len(orders), Deleted: deleted}, nil
}

// GenerateBill returns the order's bill, creating it if needed. Only orders that have been
// confirmed can be billed.
func (s *dealerOrderService) GenerateBill(ctx context.Context, id, dealerID uuid.UUID) (*model.Bill, error) {
	order, err := s.load(ctx, id, dealerID)
	if err != nil {
		return nil, err
	}

	switch order.Status {
	case model.StatusConfirmed, model.StatusProcessing, model.StatusShipped, model.StatusDelivered:
	default:
		return nil, model.ErrBillNotAvailable
	}

	bill, _, err := s.bills.Ensure(ctx, order)
	if err != nil {
		s.logger.Error().Err(err).Str("order_id", id.String()).Msg("failed to generate bill")
		return nil, err
	}

	view, _ := ordering.BillForDealer(bill, dealerID)
	return view, nil
}
