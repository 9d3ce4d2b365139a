package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"dealer-kart/internal/model"
	"dealer-kart/internal/pricing"
	"dealer-kart/internal/promo"
	"dealer-kart/internal/realtime"
	"dealer-kart/internal/repository"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"
)

// checkoutService implements CheckoutService.
type checkoutService struct {
	orderRepo   repository.OrderRepository
	cartRepo    repository.CartRepository
	productRepo repository.ProductRepository
	validator   promo.Validator
	rules       pricing.Rules
	publisher   realtime.Publisher
	logger      zerolog.Logger
}

// NewCheckoutService creates a new checkout service.
func NewCheckoutService(
	orderRepo repository.OrderRepository,
	cartRepo repository.CartRepository,
	productRepo repository.ProductRepository,
	validator promo.Validator,
	rules pricing.Rules,
	publisher realtime.Publisher,
	logger zerolog.Logger,
) CheckoutService {
	return &checkoutService{
		orderRepo:   orderRepo,
		cartRepo:    cartRepo,
		productRepo: productRepo,
		validator:   validator,
		rules:       rules,
		publisher:   publisher,
		logger:      logger.With().Str("service", "checkout").Logger(),
	}
}

func validateCheckout(req *model.CheckoutRequest) error {
	if req == nil {
		return model.NewValidationError("request body is required")
	}
	if err := validateAddress(req.ShippingAddress); err != nil {
		return err
	}
	if strings.TrimSpace(req.PaymentMethod) == "" {
		return model.NewValidationError("payment method is required")
	}
	return nil
}

// discount validates the optional promo code and returns the normalized code and its rate.
func (s *checkoutService) discount(ctx context.Context, code string) (string, float64, error) {
	code = strings.ToUpper(strings.TrimSpace(code))
	if code == "" {
		return "", 0, nil
	}

	rate, err := s.validator.DiscountRate(ctx, code)
	if err != nil {
		s.logger.Warn().
			Str("promo_code", code).
			Err(err).
			Msg("invalid promo code")
		return "", 0, err
	}

	s.logger.Debug().Str("promo_code", code).Float64("rate", rate).Msg("promo code validated")
	return code, rate, nil
}

// checkStock verifies every line is still orderable.
func (s *checkoutService) checkStock(ctx context.Context, items []model.LineItem) (map[uuid.UUID]model.Product, error) {
	ids := make([]uuid.UUID, 0, len(items))
	for _, item := range items {
		ids = append(ids, item.ProductID)
	}

	products, err := s.productRepo.GetByIDs(ctx, ids)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to retrieve product details")
		return nil, fmt.Errorf("failed to retrieve product details: %w", err)
	}

	byID := make(map[uuid.UUID]model.Product, len(products))
	for _, p := range products {
		byID[p.ID] = p
	}

	for _, item := range items {
		p, ok := byID[item.ProductID]
		if !ok {
			return nil, model.ErrProductNotFound
		}
		if !p.IsActive {
			return nil, model.ErrProductInactive
		}
		if item.Quantity > p.Stock.Quantity {
			s.logger.Warn().
				Str("product_id", p.ID.String()).
				Int("requested", item.Quantity).
				Int("available", p.Stock.Quantity).
				Msg("insufficient stock at checkout")
			return nil, model.ErrInsufficientStock
		}
	}
	return byID, nil
}

func (s *checkoutService) rollback(ctx context.Context, tx pgx.Tx) {
	if err := tx.Rollback(ctx); err != nil {
		s.logger.Error().Err(err).Msg("failed to rollback transaction")
	}
}

// Checkout converts the customer's pending order into a placed order and empties the cart.
func (s *checkoutService) Checkout(ctx context.Context, customerID uuid.UUID, req *model.CheckoutRequest) (_ *model.Order, err error) {
	if err := validateCheckout(req); err != nil {
		return nil, err
	}

	code, rate, err := s.discount(ctx, req.PromoCode)
	if err != nil {
		return nil, err
	}

	tx, err := s.orderRepo.BeginTx(ctx)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to begin transaction")
		return nil, fmt.Errorf("failed to place order: %w", err)
	}

	// Ensure transaction is rolled back on error
	defer func() {
		if err != nil {
			s.rollback(ctx, tx)
		}
	}()

	// The cart is locked first, in the same order as cart mutations.
	cart, err := s.cartRepo.GetForUpdate(ctx, tx, customerID)
	if err != nil {
		return nil, fmt.Errorf("failed to place order: %w", err)
	}

	order, err := s.orderRepo.GetPendingForUpdate(ctx, tx, customerID)
	if err != nil {
		return nil, fmt.Errorf("failed to place order: %w", err)
	}
	if order == nil && len(cart.Items) > 0 {
		// The cart is authoritative; restore a missing mirror before placing it.
		s.logger.Warn().Str("customer_id", customerID.String()).Msg("cart has no pending order, rebuilding it")
		order = &model.Order{
			ID:         uuid.New(),
			CustomerID: &customerID,
			Items:      cart.Items,
			Totals:     s.rules.Compute(cart.Items, 0),
			Status:     model.StatusPending,
			UpdatedAt:  time.Now().UTC(),
		}
		if _, err = s.orderRepo.UpsertPending(ctx, tx, order); err != nil {
			return nil, fmt.Errorf("failed to place order: %w", err)
		}
	}
	if order == nil || len(order.Items) == 0 {
		s.logger.Warn().Str("customer_id", customerID.String()).Msg("checkout with empty cart")
		return nil, model.ErrEmptyCart
	}

	if _, err = s.checkStock(ctx, order.Items); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	order.Totals = s.rules.Compute(order.Items, rate)
	order.ShippingAddress = req.ShippingAddress
	order.PaymentMethod = strings.TrimSpace(req.PaymentMethod)
	order.Notes = req.Notes
	order.PromoCode = code
	order.PlacedAt = &now
	order.UpdatedAt = now

	if err = s.orderRepo.Place(ctx, tx, order); err != nil {
		return nil, err
	}

	cart.Items = []model.LineItem{}
	cart.UpdatedAt = now
	if err = s.cartRepo.Save(ctx, tx, cart); err != nil {
		return nil, fmt.Errorf("failed to place order: %w", err)
	}

	if err = tx.Commit(ctx); err != nil {
		s.logger.Error().Err(err).Str("order_id", order.ID.String()).Msg("failed to commit transaction")
		return nil, fmt.Errorf("failed to place order: %w", err)
	}

	s.logger.Info().
		Str("order_id", order.ID.String()).
		Str("customer_id", customerID.String()).
		Int("item_count", len(order.Items)).
		Float64("total", order.Total).
		Msg("order placed")

	s.publisher.Publish(realtime.OrderEvent(realtime.EventNewOrder, order))
	return order, nil
}

// GuestCheckout places a standalone order for an anonymous buyer.
func (s *checkoutService) GuestCheckout(ctx context.Context, req *model.CheckoutRequest) (_ *model.Order, err error) {
	if err := validateCheckout(req); err != nil {
		return nil, err
	}
	email := normalizeEmail(req.GuestEmail)
	if !validEmail(email) {
		return nil, model.NewValidationError("a valid guestEmail is required")
	}
	if len(req.Items) == 0 {
		return nil, model.NewValidationError("order must contain at least one item")
	}

	// Merge repeated products into one line each, keeping first-seen order.
	var items []model.LineItem
	index := map[uuid.UUID]int{}
	for i, it := range req.Items {
		if it.ProductID == uuid.Nil {
			return nil, model.NewValidationError(fmt.Sprintf("item %d: productId is required", i))
		}
		if it.Quantity <= 0 {
			s.logger.Warn().
				Int("item_index", i).
				Str("product_id", it.ProductID.String()).
				Int("quantity", it.Quantity).
				Msg("invalid quantity")
			return nil, model.ErrInvalidQuantity
		}
		if j, ok := index[it.ProductID]; ok {
			items[j].Quantity += it.Quantity
			continue
		}
		index[it.ProductID] = len(items)
		items = append(items, model.LineItem{ProductID: it.ProductID, Quantity: it.Quantity})
	}

	code, rate, err := s.discount(ctx, req.PromoCode)
	if err != nil {
		return nil, err
	}

	products, err := s.checkStock(ctx, items)
	if err != nil {
		return nil, err
	}
	for i := range items {
		p := products[items[i].ProductID]
		items[i] = lineItemFor(&p, items[i].Quantity)
	}

	now := time.Now().UTC()
	order := &model.Order{
		ID:              uuid.New(),
		GuestEmail:      email,
		Items:           items,
		Totals:          s.rules.Compute(items, rate),
		ShippingAddress: req.ShippingAddress,
		PaymentMethod:   strings.TrimSpace(req.PaymentMethod),
		PromoCode:       code,
		Status:          model.StatusPending,
		Notes:           req.Notes,
		PlacedAt:        &now,
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	tx, err := s.orderRepo.BeginTx(ctx)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to begin transaction")
		return nil, fmt.Errorf("failed to create order: %w", err)
	}

	// Ensure transaction is rolled back on error
	defer func() {
		if err != nil {
			s.rollback(ctx, tx)
		}
	}()

	if err = s.orderRepo.Create(ctx, tx, order); err != nil {
		s.logger.Error().Err(err).Str("order_id", order.ID.String()).Msg("failed to create order")
		return nil, fmt.Errorf("failed to create order: %w", err)
	}

	if err = tx.Commit(ctx); err != nil {
		s.logger.Error().Err(err).Str("order_id", order.ID.String()).Msg("failed to commit transaction")
		return nil, fmt.Errorf("failed to create order: %w", err)
	}

	s.logger.Info().
		Str("order_id", order.ID.String()).
		Int("item_count", len(order.Items)).
		Float64("total", order.Total).
		Msg("guest order created")

	s.publisher.Publish(realtime.OrderEvent(realtime.EventNewOrder, order))
	return order, nil
}
