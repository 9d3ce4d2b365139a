package service

import (
	"context"
	"fmt"

	"dealer-kart/internal/model"
	"dealer-kart/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// orderService implements OrderService.
type orderService struct {
	orderRepo repository.OrderRepository
	logger    zerolog.Logger
}

// NewOrderService creates a new order service.
func NewOrderService(orderRepo repository.OrderRepository, logger zerolog.Logger) OrderService {
	return &orderService{
		orderRepo: orderRepo,
		logger:    logger.With().Str("service", "order").Logger(),
	}
}

// ListForCustomer retrieves the customer's orders, including the pending cart order.
func (s *orderService) ListForCustomer(ctx context.Context, customerID uuid.UUID) ([]model.Order, error) {
	orders, err := s.orderRepo.ListByCustomer(ctx, customerID)
	if err != nil {
		s.logger.Error().Err(err).Str("customer_id", customerID.String()).Msg("failed to list orders")
		return nil, fmt.Errorf("failed to get orders: %w", err)
	}
	return orders, nil
}

// GetForCustomer retrieves one of the customer's orders.
func (s *orderService) GetForCustomer(ctx context.Context, id, customerID uuid.UUID) (*model.Order, error) {
	order, err := s.orderRepo.GetByID(ctx, id)
	if err != nil {
		s.logger.Error().Err(err).Str("order_id", id.String()).Msg("failed to get order")
		return nil, fmt.Errorf("failed to get order: %w", err)
	}

	if order == nil {
		s.logger.Debug().Str("order_id", id.String()).Msg("order not found")
		return nil, model.ErrOrderNotFound
	}
	if order.CustomerID == nil || *order.CustomerID != customerID {
		s.logger.Warn().
			Str("order_id", id.String()).
			Str("customer_id", customerID.String()).
			Msg("customer does not own order")
		return nil, model.ErrOrderForbidden
	}

	return order, nil
}
