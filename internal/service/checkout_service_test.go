package service

import (
	"context"
	"testing"

	"dealer-kart/internal/model"
	"dealer-kart/internal/pricing"
	"dealer-kart/internal/realtime"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type checkoutFixture struct {
	orderRepo   *MockOrderRepository
	cartRepo    *MockCartRepository
	productRepo *MockProductRepository
	validator   *MockPromoValidator
	tx          *MockTx
	publisher   *recordingPublisher
	service     CheckoutService
}

func newCheckoutFixture() *checkoutFixture {
	f := &checkoutFixture{
		orderRepo:   new(MockOrderRepository),
		cartRepo:    new(MockCartRepository),
		productRepo: new(MockProductRepository),
		validator:   new(MockPromoValidator),
		tx:          new(MockTx),
		publisher:   &recordingPublisher{},
	}
	f.service = NewCheckoutService(f.orderRepo, f.cartRepo, f.productRepo, f.validator, pricing.DefaultRules(), f.publisher, zerolog.Nop())
	return f
}

func testAddress() *model.Address {
	return &model.Address{
		FullName:   "Asha Rao",
		Phone:      "9999999999",
		Line1:      "12 MG Road",
		City:       "Bengaluru",
		State:      "KA",
		PostalCode: "560001",
		Country:    "IN",
	}
}

func TestCheckoutService_Checkout(t *testing.T) {
	ctx := context.Background()
	f := newCheckoutFixture()

	customerID := uuid.New()
	p1 := testProduct(uuid.New(), "Phone", 100, 10)
	p2 := testProduct(uuid.New(), "Case", 50, 10)
	items := []model.LineItem{lineItemFor(p1, 2), lineItemFor(p2, 1)}
	cart := &model.Cart{CustomerID: customerID, Items: items}
	pending := &model.Order{
		ID:         uuid.New(),
		CustomerID: &customerID,
		Items:      items,
		Totals:     pricing.DefaultRules().Compute(items, 0),
		Status:     model.StatusPending,
	}

	f.validator.On("DiscountRate", ctx, "HAPPY2024").Return(0.1, nil)
	f.orderRepo.On("BeginTx", ctx).Return(f.tx, nil)
	f.cartRepo.On("GetForUpdate", ctx, f.tx, customerID).Return(cart, nil)
	f.orderRepo.On("GetPendingForUpdate", ctx, f.tx, customerID).Return(pending, nil)
	f.productRepo.On("GetByIDs", ctx, []uuid.UUID{p1.ID, p2.ID}).Return([]model.Product{*p1, *p2}, nil)
	f.orderRepo.On("Place", ctx, f.tx, pending).Return(nil)
	f.cartRepo.On("Save", ctx, f.tx, cart).Return(nil)
	f.tx.On("Commit", ctx).Return(nil)

	order, err := f.service.Checkout(ctx, customerID, &model.CheckoutRequest{
		ShippingAddress: testAddress(),
		PaymentMethod:   " cod ",
		PromoCode:       " happy2024",
	})
	require.NoError(t, err)

	assert.Equal(t, pending.ID, order.ID)
	assert.Equal(t, model.StatusPending, order.Status)
	assert.NotNil(t, order.PlacedAt)
	assert.Equal(t, "HAPPY2024", order.PromoCode)
	assert.Equal(t, "cod", order.PaymentMethod)
	assert.Equal(t, 250.0, order.Subtotal)
	assert.Equal(t, 25.0, order.Discount)
	assert.Equal(t, 287.5, order.Total)
	assert.Empty(t, cart.Items)

	assert.Equal(t, []realtime.EventName{realtime.EventNewOrder}, f.publisher.names())
	f.orderRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything, mock.Anything)
	f.orderRepo.AssertExpectations(t)
	f.cartRepo.AssertExpectations(t)
	f.tx.AssertExpectations(t)
}

func TestCheckoutService_Checkout_Errors(t *testing.T) {
	ctx := context.Background()
	customerID := uuid.New()

	t.Run("empty cart", func(t *testing.T) {
		f := newCheckoutFixture()

		f.orderRepo.On("BeginTx", ctx).Return(f.tx, nil)
		f.cartRepo.On("GetForUpdate", ctx, f.tx, customerID).Return(&model.Cart{CustomerID: customerID}, nil)
		f.orderRepo.On("GetPendingForUpdate", ctx, f.tx, customerID).Return(nil, nil)
		f.tx.On("Rollback", ctx).Return(nil)

		_, err := f.service.Checkout(ctx, customerID, &model.CheckoutRequest{
			ShippingAddress: testAddress(),
			PaymentMethod:   "cod",
		})

		assert.ErrorIs(t, err, model.ErrEmptyCart)
		f.tx.AssertExpectations(t)
		f.orderRepo.AssertNotCalled(t, "Place", mock.Anything, mock.Anything, mock.Anything)
		assert.Empty(t, f.publisher.names())
	})

	t.Run("invalid promo code", func(t *testing.T) {
		f := newCheckoutFixture()

		f.validator.On("DiscountRate", ctx, "NOTACODE1").Return(0.0, model.ErrInvalidPromoCode)

		_, err := f.service.Checkout(ctx, customerID, &model.CheckoutRequest{
			ShippingAddress: testAddress(),
			PaymentMethod:   "cod",
			PromoCode:       "notacode1",
		})

		assert.ErrorIs(t, err, model.ErrInvalidPromoCode)
		f.orderRepo.AssertNotCalled(t, "BeginTx", mock.Anything)
	})

	t.Run("missing address", func(t *testing.T) {
		f := newCheckoutFixture()

		_, err := f.service.Checkout(ctx, customerID, &model.CheckoutRequest{PaymentMethod: "cod"})

		require.Error(t, err)
		assert.True(t, model.IsKind(err, model.KindValidation))
		assert.Contains(t, err.Error(), "shipping address")
	})

	t.Run("stock ran out since adding to cart", func(t *testing.T) {
		f := newCheckoutFixture()
		p := testProduct(uuid.New(), "Phone", 100, 1)
		items := []model.LineItem{lineItemFor(p, 3)}

		f.orderRepo.On("BeginTx", ctx).Return(f.tx, nil)
		f.cartRepo.On("GetForUpdate", ctx, f.tx, customerID).Return(&model.Cart{CustomerID: customerID, Items: items}, nil)
		f.orderRepo.On("GetPendingForUpdate", ctx, f.tx, customerID).
			Return(&model.Order{ID: uuid.New(), CustomerID: &customerID, Items: items, Status: model.StatusPending}, nil)
		f.productRepo.On("GetByIDs", ctx, []uuid.UUID{p.ID}).Return([]model.Product{*p}, nil)
		f.tx.On("Rollback", ctx).Return(nil)

		_, err := f.service.Checkout(ctx, customerID, &model.CheckoutRequest{
			ShippingAddress: testAddress(),
			PaymentMethod:   "cod",
		})

		assert.ErrorIs(t, err, model.ErrInsufficientStock)
		f.tx.AssertExpectations(t)
		f.cartRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestCheckoutService_Checkout_RebuildsMissingPendingOrder(t *testing.T) {
	ctx := context.Background()
	f := newCheckoutFixture()

	customerID := uuid.New()
	p := testProduct(uuid.New(), "Lamp", 120, 5)
	cart := &model.Cart{CustomerID: customerID, Items: []model.LineItem{lineItemFor(p, 2)}}
	isRebuilt := mock.MatchedBy(func(o *model.Order) bool {
		return o.CustomerID != nil && *o.CustomerID == customerID &&
			len(o.Items) == 1 && o.Items[0].ProductID == p.ID && o.Items[0].Quantity == 2
	})

	f.orderRepo.On("BeginTx", ctx).Return(f.tx, nil)
	f.cartRepo.On("GetForUpdate", ctx, f.tx, customerID).Return(cart, nil)
	f.orderRepo.On("GetPendingForUpdate", ctx, f.tx, customerID).Return(nil, nil)
	f.orderRepo.On("UpsertPending", ctx, f.tx, isRebuilt).Return(true, nil)
	f.productRepo.On("GetByIDs", ctx, []uuid.UUID{p.ID}).Return([]model.Product{*p}, nil)
	f.orderRepo.On("Place", ctx, f.tx, isRebuilt).Return(nil)
	f.cartRepo.On("Save", ctx, f.tx, cart).Return(nil)
	f.tx.On("Commit", ctx).Return(nil)

	order, err := f.service.Checkout(ctx, customerID, &model.CheckoutRequest{
		ShippingAddress: testAddress(),
		PaymentMethod:   "cod",
	})
	require.NoError(t, err)

	assert.NotNil(t, order.PlacedAt)
	assert.Equal(t, 240.0, order.Subtotal)
	assert.Empty(t, cart.Items)
	assert.Equal(t, []realtime.EventName{realtime.EventNewOrder}, f.publisher.names())
	f.orderRepo.AssertExpectations(t)
	f.cartRepo.AssertExpectations(t)
	f.tx.AssertExpectations(t)
}

func TestCheckoutService_GuestCheckout(t *testing.T) {
	ctx := context.Background()
	f := newCheckoutFixture()

	dealerID := uuid.New()
	p1 := testProduct(dealerID, "Lamp", 400, 10)
	p2 := testProduct(dealerID, "Bulb", 25, 10)

	var created *model.Order
	f.productRepo.On("GetByIDs", ctx, []uuid.UUID{p1.ID, p2.ID}).Return([]model.Product{*p1, *p2}, nil)
	f.orderRepo.On("BeginTx", ctx).Return(f.tx, nil)
	f.orderRepo.On("Create", ctx, f.tx, mock.AnythingOfType("*model.Order")).
		Run(func(args mock.Arguments) { created = args.Get(2).(*model.Order) }).
		Return(nil)
	f.tx.On("Commit", ctx).Return(nil)

	order, err := f.service.GuestCheckout(ctx, &model.CheckoutRequest{
		GuestEmail:      "Guest@Example.com",
		ShippingAddress: testAddress(),
		PaymentMethod:   "card",
		Items: []model.OrderItemRequest{
			{ProductID: p1.ID, Quantity: 1},
			{ProductID: p2.ID, Quantity: 2},
			{ProductID: p1.ID, Quantity: 1},
		},
	})
	require.NoError(t, err)

	assert.Same(t, created, order)
	assert.Nil(t, order.CustomerID)
	assert.Equal(t, "guest@example.com", order.GuestEmail)
	assert.NotNil(t, order.PlacedAt)
	require.Len(t, order.Items, 2)
	assert.Equal(t, 2, order.Items[0].Quantity)
	assert.Equal(t, "Lamp", order.Items[0].Name)
	assert.Equal(t, dealerID, order.Items[1].DealerID)
	assert.Equal(t, 850.0, order.Subtotal)
	assert.Equal(t, 0.0, order.Shipping)
	assert.Equal(t, 892.5, order.Total)
	assert.Equal(t, []realtime.EventName{realtime.EventNewOrder}, f.publisher.names())
	f.validator.AssertNotCalled(t, "DiscountRate", mock.Anything, mock.Anything)
}

func TestCheckoutService_GuestCheckout_Validation(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name          string
		req           *model.CheckoutRequest
		expectedError error
		message       string
	}{
		{
			name:    "missing guest email",
			req:     &model.CheckoutRequest{ShippingAddress: testAddress(), PaymentMethod: "cod", Items: []model.OrderItemRequest{{ProductID: uuid.New(), Quantity: 1}}},
			message: "guestEmail",
		},
		{
			name:    "no items",
			req:     &model.CheckoutRequest{GuestEmail: "g@example.com", ShippingAddress: testAddress(), PaymentMethod: "cod"},
			message: "at least one item",
		},
		{
			name:          "zero quantity",
			req:           &model.CheckoutRequest{GuestEmail: "g@example.com", ShippingAddress: testAddress(), PaymentMethod: "cod", Items: []model.OrderItemRequest{{ProductID: uuid.New(), Quantity: 0}}},
			expectedError: model.ErrInvalidQuantity,
		},
		{
			name:    "missing payment method",
			req:     &model.CheckoutRequest{GuestEmail: "g@example.com", ShippingAddress: testAddress(), Items: []model.OrderItemRequest{{ProductID: uuid.New(), Quantity: 1}}},
			message: "payment method",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newCheckoutFixture()

			order, err := f.service.GuestCheckout(ctx, tt.req)

			assert.Nil(t, order)
			require.Error(t, err)
			if tt.expectedError != nil {
				assert.ErrorIs(t, err, tt.expectedError)
			} else {
				assert.True(t, model.IsKind(err, model.KindValidation))
				assert.Contains(t, err.Error(), tt.message)
			}
			f.orderRepo.AssertNotCalled(t, "BeginTx", mock.Anything)
		})
	}
}

func TestCheckoutService_GuestCheckout_UnknownProduct(t *testing.T) {
	ctx := context.Background()
	f := newCheckoutFixture()

	missing := uuid.New()
	f.productRepo.On("GetByIDs", ctx, []uuid.UUID{missing}).Return([]model.Product{}, nil)

	_, err := f.service.GuestCheckout(ctx, &model.CheckoutRequest{
		GuestEmail:      "g@example.com",
		ShippingAddress: testAddress(),
		PaymentMethod:   "cod",
		Items:           []model.OrderItemRequest{{ProductID: missing, Quantity: 1}},
	})

	assert.ErrorIs(t, err, model.ErrProductNotFound)
	f.orderRepo.AssertNotCalled(t, "BeginTx", mock.Anything)
}
