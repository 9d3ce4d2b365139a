package service

import (
	"context"
	"fmt"
	"time"

	"dealer-kart/internal/model"
	"dealer-kart/internal/pricing"
	"dealer-kart/internal/realtime"
	"dealer-kart/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// cartService implements CartService.
type cartService struct {
	cartRepo    repository.CartRepository
	orderRepo   repository.OrderRepository
	productRepo repository.ProductRepository
	rules       pricing.Rules
	publisher   realtime.Publisher
	logger      zerolog.Logger
}

// NewCartService creates a new cart service.
func NewCartService(
	cartRepo repository.CartRepository,
	orderRepo repository.OrderRepository,
	productRepo repository.ProductRepository,
	rules pricing.Rules,
	publisher realtime.Publisher,
	logger zerolog.Logger,
) CartService {
	return &cartService{
		cartRepo:    cartRepo,
		orderRepo:   orderRepo,
		productRepo: productRepo,
		rules:       rules,
		publisher:   publisher,
		logger:      logger.With().Str("service", "cart").Logger(),
	}
}

// Get retrieves the customer's cart with current totals.
func (s *cartService) Get(ctx context.Context, customerID uuid.UUID) (*model.Cart, error) {
	cart, err := s.cartRepo.Get(ctx, customerID)
	if err != nil {
		s.logger.Error().Err(err).Str("customer_id", customerID.String()).Msg("failed to get cart")
		return nil, fmt.Errorf("failed to get cart: %w", err)
	}

	cart.Totals = s.rules.Compute(cart.Items, 0)
	return cart, nil
}

// AddItem adds a product to the cart, merging with an existing line for the same product.
func (s *cartService) AddItem(ctx context.Context, customerID uuid.UUID, req *model.CartItemRequest) (*model.Cart, error) {
	if req == nil || req.ProductID == uuid.Nil {
		return nil, model.NewValidationError("productId is required")
	}
	if req.Quantity <= 0 {
		return nil, model.ErrInvalidQuantity
	}

	product, err := s.available(ctx, req.ProductID)
	if err != nil {
		return nil, err
	}

	return s.mutate(ctx, customerID, func(cart *model.Cart) error {
		i := cart.IndexOf(product.ID)
		quantity := req.Quantity
		if i >= 0 {
			quantity += cart.Items[i].Quantity
		}
		if quantity > product.Stock.Quantity {
			s.logger.Warn().
				Str("product_id", product.ID.String()).
				Int("requested", quantity).
				Int("available", product.Stock.Quantity).
				Msg("cart quantity exceeds stock")
			return model.ErrInsufficientStock
		}

		line := lineItemFor(product, quantity)
		if i >= 0 {
			cart.Items[i] = line
		} else {
			cart.Items = append(cart.Items, line)
		}
		return nil
	})
}

// UpdateItem sets the quantity of a cart line. Zero removes the line.
func (s *cartService) UpdateItem(ctx context.Context, customerID, productID uuid.UUID, quantity int) (*model.Cart, error) {
	if quantity < 0 {
		return nil, model.ErrInvalidQuantity
	}
	if quantity == 0 {
		return s.RemoveItem(ctx, customerID, productID)
	}

	product, err := s.available(ctx, productID)
	if err != nil {
		return nil, err
	}
	if quantity > product.Stock.Quantity {
		return nil, model.ErrInsufficientStock
	}

	return s.mutate(ctx, customerID, func(cart *model.Cart) error {
		i := cart.IndexOf(productID)
		if i < 0 {
			return model.ErrCartItemNotFound
		}
		cart.Items[i] = lineItemFor(product, quantity)
		return nil
	})
}

// RemoveItem deletes a product's line from the cart.
func (s *cartService) RemoveItem(ctx context.Context, customerID, productID uuid.UUID) (*model.Cart, error) {
	return s.mutate(ctx, customerID, func(cart *model.Cart) error {
		i := cart.IndexOf(productID)
		if i < 0 {
			return model.ErrCartItemNotFound
		}
		cart.Items = append(cart.Items[:i], cart.Items[i+1:]...)
		return nil
	})
}

// Clear empties the cart and removes the pending order.
func (s *cartService) Clear(ctx context.Context, customerID uuid.UUID) (*model.Cart, error) {
	return s.mutate(ctx, customerID, func(cart *model.Cart) error {
		cart.Items = []model.LineItem{}
		return nil
	})
}

// available returns the product if it can be put in a cart.
func (s *cartService) available(ctx context.Context, productID uuid.UUID) (*model.Product, error) {
	product, err := s.productRepo.GetByID(ctx, productID)
	if err != nil {
		return nil, fmt.Errorf("failed to get product: %w", err)
	}
	if product == nil {
		return nil, model.ErrProductNotFound
	}
	if !product.IsActive {
		return nil, model.ErrProductInactive
	}
	return product, nil
}

func lineItemFor(p *model.Product, quantity int) model.LineItem {
	return model.LineItem{
		ProductID: p.ID,
		DealerID:  p.DealerID,
		Name:      p.Name,
		Price:     p.Price,
		Quantity:  quantity,
		Image:     p.PrimaryImage(),
	}
}

// mutate runs fn against the locked cart, then reprices it and mirrors it into the customer's
// pending order in the same transaction. The order event is published after commit.
func (s *cartService) mutate(ctx context.Context, customerID uuid.UUID, fn func(cart *model.Cart) error) (_ *model.Cart, err error) {
	tx, err := s.orderRepo.BeginTx(ctx)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to begin transaction")
		return nil, fmt.Errorf("failed to update cart: %w", err)
	}

	// Ensure transaction is rolled back on error
	defer func() {
		if err != nil {
			if rbErr := tx.Rollback(ctx); rbErr != nil {
				s.logger.Error().Err(rbErr).Msg("failed to rollback transaction")
			}
		}
	}()

	cart, err := s.cartRepo.GetForUpdate(ctx, tx, customerID)
	if err != nil {
		return nil, fmt.Errorf("failed to update cart: %w", err)
	}

	if err = fn(cart); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	cart.Totals = s.rules.Compute(cart.Items, 0)
	cart.UpdatedAt = now

	if err = s.cartRepo.Save(ctx, tx, cart); err != nil {
		return nil, fmt.Errorf("failed to update cart: %w", err)
	}

	var (
		order   *model.Order
		created bool
	)
	if len(cart.Items) == 0 {
		var removed *uuid.UUID
		if removed, err = s.orderRepo.DeletePending(ctx, tx, customerID); err != nil {
			return nil, fmt.Errorf("failed to update cart: %w", err)
		}
		if removed != nil {
			s.logger.Debug().Str("order_id", removed.String()).Msg("pending order removed with empty cart")
		}
	} else {
		order = &model.Order{
			ID:         uuid.New(),
			CustomerID: &customerID,
			Items:      cart.Items,
			Totals:     cart.Totals,
			Status:     model.StatusPending,
			CreatedAt:  now,
			UpdatedAt:  now,
		}
		if created, err = s.orderRepo.UpsertPending(ctx, tx, order); err != nil {
			return nil, fmt.Errorf("failed to update cart: %w", err)
		}
	}

	if err = tx.Commit(ctx); err != nil {
		s.logger.Error().Err(err).Str("customer_id", customerID.String()).Msg("failed to commit transaction")
		return nil, fmt.Errorf("failed to update cart: %w", err)
	}

	if order != nil {
		name := realtime.EventOrderUpdated
		if created {
			name = realtime.EventNewOrder
		}
		s.publisher.Publish(realtime.OrderEvent(name, order))
	}

	s.logger.Debug().
		Str("customer_id", customerID.String()).
		Int("item_count", len(cart.Items)).
		Float64("total", cart.Total).
		Msg("cart updated")

	return cart, nil
}
