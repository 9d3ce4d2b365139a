package service

import (
	"context"
	"errors"
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

func testProduct(dealerID uuid.UUID, name string, price float64, stock int) *model.Product {
	return &model.Product{
		ID:       uuid.New(),
		DealerID: dealerID,
		Name:     name,
		Category: "Electronics",
		Price:    price,
		Images:   []string{name + ".png"},
		Stock:    model.Stock{Quantity: stock, LowStockThreshold: 2},
		IsActive: true,
	}
}

type cartFixture struct {
	cartRepo    *MockCartRepository
	orderRepo   *MockOrderRepository
	productRepo *MockProductRepository
	tx          *MockTx
	publisher   *recordingPublisher
	service     CartService
}

func newCartFixture() *cartFixture {
	f := &cartFixture{
		cartRepo:    new(MockCartRepository),
		orderRepo:   new(MockOrderRepository),
		productRepo: new(MockProductRepository),
		tx:          new(MockTx),
		publisher:   &recordingPublisher{},
	}
	f.service = NewCartService(f.cartRepo, f.orderRepo, f.productRepo, pricing.DefaultRules(), f.publisher, zerolog.Nop())
	return f
}

func TestCartService_AddItem_MirrorsPendingOrder(t *testing.T) {
	ctx := context.Background()
	f := newCartFixture()

	customerID := uuid.New()
	p1 := testProduct(uuid.New(), "Phone", 100, 10)
	p2 := testProduct(uuid.New(), "Case", 50, 10)
	cart := &model.Cart{CustomerID: customerID, Items: []model.LineItem{}}

	var upserted []*model.Order
	f.productRepo.On("GetByID", ctx, p1.ID).Return(p1, nil)
	f.productRepo.On("GetByID", ctx, p2.ID).Return(p2, nil)
	f.orderRepo.On("BeginTx", ctx).Return(f.tx, nil)
	f.cartRepo.On("GetForUpdate", ctx, f.tx, customerID).Return(cart, nil)
	f.cartRepo.On("Save", ctx, f.tx, cart).Return(nil)
	f.orderRepo.On("UpsertPending", ctx, f.tx, mock.AnythingOfType("*model.Order")).
		Run(func(args mock.Arguments) { upserted = append(upserted, args.Get(2).(*model.Order)) }).
		Return(true, nil).Once()
	f.orderRepo.On("UpsertPending", ctx, f.tx, mock.AnythingOfType("*model.Order")).
		Run(func(args mock.Arguments) { upserted = append(upserted, args.Get(2).(*model.Order)) }).
		Return(false, nil).Once()
	f.tx.On("Commit", ctx).Return(nil)

	_, err := f.service.AddItem(ctx, customerID, &model.CartItemRequest{ProductID: p1.ID, Quantity: 2})
	require.NoError(t, err)

	result, err := f.service.AddItem(ctx, customerID, &model.CartItemRequest{ProductID: p2.ID, Quantity: 1})
	require.NoError(t, err)

	require.Len(t, result.Items, 2)
	assert.Equal(t, 250.0, result.Subtotal)
	assert.Equal(t, 50.0, result.Shipping)
	assert.Equal(t, 12.5, result.Tax)
	assert.Equal(t, 312.5, result.Total)
	assert.Equal(t, p1.DealerID, result.Items[0].DealerID)
	assert.Equal(t, "Phone.png", result.Items[0].Image)

	require.Len(t, upserted, 2)
	last := upserted[1]
	assert.Equal(t, model.StatusPending, last.Status)
	assert.Nil(t, last.PlacedAt)
	assert.Equal(t, customerID, *last.CustomerID)
	assert.Equal(t, result.Totals, last.Totals)

	assert.Equal(t, []realtime.EventName{realtime.EventNewOrder, realtime.EventOrderUpdated}, f.publisher.names())
	f.orderRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything, mock.Anything)
	f.orderRepo.AssertExpectations(t)
	f.tx.AssertExpectations(t)
}

func TestCartService_AddItem_MergesQuantity(t *testing.T) {
	ctx := context.Background()
	f := newCartFixture()

	customerID := uuid.New()
	p := testProduct(uuid.New(), "Phone", 100, 5)
	cart := &model.Cart{CustomerID: customerID, Items: []model.LineItem{lineItemFor(p, 2)}}

	f.productRepo.On("GetByID", ctx, p.ID).Return(p, nil)
	f.orderRepo.On("BeginTx", ctx).Return(f.tx, nil)
	f.cartRepo.On("GetForUpdate", ctx, f.tx, customerID).Return(cart, nil)
	f.cartRepo.On("Save", ctx, f.tx, cart).Return(nil)
	f.orderRepo.On("UpsertPending", ctx, f.tx, mock.AnythingOfType("*model.Order")).Return(false, nil)
	f.tx.On("Commit", ctx).Return(nil)

	result, err := f.service.AddItem(ctx, customerID, &model.CartItemRequest{ProductID: p.ID, Quantity: 3})
	require.NoError(t, err)

	require.Len(t, result.Items, 1)
	assert.Equal(t, 5, result.Items[0].Quantity)
}

func TestCartService_AddItem_Errors(t *testing.T) {
	ctx := context.Background()
	customerID := uuid.New()

	tests := []struct {
		name          string
		req           *model.CartItemRequest
		product       *model.Product
		cartItems     func(p *model.Product) []model.LineItem
		expectedError error
		expectTx      bool
	}{
		{
			name:          "zero quantity",
			req:           &model.CartItemRequest{ProductID: uuid.New(), Quantity: 0},
			expectedError: model.ErrInvalidQuantity,
		},
		{
			name:          "unknown product",
			req:           &model.CartItemRequest{ProductID: uuid.New(), Quantity: 1},
			expectedError: model.ErrProductNotFound,
		},
		{
			name: "inactive product",
			product: func() *model.Product {
				p := testProduct(uuid.New(), "Old", 10, 5)
				p.IsActive = false
				return p
			}(),
			expectedError: model.ErrProductInactive,
		},
		{
			name:    "merged quantity exceeds stock",
			product: testProduct(uuid.New(), "Rare", 10, 3),
			cartItems: func(p *model.Product) []model.LineItem {
				return []model.LineItem{lineItemFor(p, 2)}
			},
			expectedError: model.ErrInsufficientStock,
			expectTx:      true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newCartFixture()

			req := tt.req
			if tt.product != nil {
				req = &model.CartItemRequest{ProductID: tt.product.ID, Quantity: 2}
				f.productRepo.On("GetByID", ctx, tt.product.ID).Return(tt.product, nil)
			} else if req.Quantity > 0 {
				f.productRepo.On("GetByID", ctx, req.ProductID).Return(nil, nil)
			}

			if tt.expectTx {
				cart := &model.Cart{CustomerID: customerID, Items: tt.cartItems(tt.product)}
				f.orderRepo.On("BeginTx", ctx).Return(f.tx, nil)
				f.cartRepo.On("GetForUpdate", ctx, f.tx, customerID).Return(cart, nil)
				f.tx.On("Rollback", ctx).Return(nil)
			}

			result, err := f.service.AddItem(ctx, customerID, req)

			assert.Nil(t, result)
			assert.ErrorIs(t, err, tt.expectedError)
			f.cartRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything, mock.Anything)
			assert.Empty(t, f.publisher.names())
			if tt.expectTx {
				f.tx.AssertExpectations(t)
				f.tx.AssertNotCalled(t, "Commit", mock.Anything)
			} else {
				f.orderRepo.AssertNotCalled(t, "BeginTx", mock.Anything)
			}
		})
	}
}

func TestCartService_RemoveLastItem_DeletesPendingOrder(t *testing.T) {
	ctx := context.Background()
	f := newCartFixture()

	customerID := uuid.New()
	p := testProduct(uuid.New(), "Phone", 100, 5)
	cart := &model.Cart{CustomerID: customerID, Items: []model.LineItem{lineItemFor(p, 1)}}
	pendingID := uuid.New()

	f.orderRepo.On("BeginTx", ctx).Return(f.tx, nil)
	f.cartRepo.On("GetForUpdate", ctx, f.tx, customerID).Return(cart, nil)
	f.cartRepo.On("Save", ctx, f.tx, cart).Return(nil)
	f.orderRepo.On("DeletePending", ctx, f.tx, customerID).Return(&pendingID, nil)
	f.tx.On("Commit", ctx).Return(nil)

	result, err := f.service.RemoveItem(ctx, customerID, p.ID)
	require.NoError(t, err)

	assert.Empty(t, result.Items)
	assert.Equal(t, model.Totals{}, result.Totals)
	f.orderRepo.AssertNotCalled(t, "UpsertPending", mock.Anything, mock.Anything, mock.Anything)
	f.orderRepo.AssertExpectations(t)
	assert.Empty(t, f.publisher.names())
}

func TestCartService_UpdateItem(t *testing.T) {
	ctx := context.Background()
	customerID := uuid.New()

	t.Run("zero quantity removes the line", func(t *testing.T) {
		f := newCartFixture()
		keep := testProduct(uuid.New(), "Keep", 20, 5)
		drop := testProduct(uuid.New(), "Drop", 30, 5)
		cart := &model.Cart{CustomerID: customerID, Items: []model.LineItem{lineItemFor(keep, 1), lineItemFor(drop, 1)}}

		f.orderRepo.On("BeginTx", ctx).Return(f.tx, nil)
		f.cartRepo.On("GetForUpdate", ctx, f.tx, customerID).Return(cart, nil)
		f.cartRepo.On("Save", ctx, f.tx, cart).Return(nil)
		f.orderRepo.On("UpsertPending", ctx, f.tx, mock.AnythingOfType("*model.Order")).Return(false, nil)
		f.tx.On("Commit", ctx).Return(nil)

		result, err := f.service.UpdateItem(ctx, customerID, drop.ID, 0)
		require.NoError(t, err)

		require.Len(t, result.Items, 1)
		assert.Equal(t, keep.ID, result.Items[0].ProductID)
		f.productRepo.AssertNotCalled(t, "GetByID", mock.Anything, mock.Anything)
	})

	t.Run("negative quantity", func(t *testing.T) {
		f := newCartFixture()

		_, err := f.service.UpdateItem(ctx, customerID, uuid.New(), -1)

		assert.ErrorIs(t, err, model.ErrInvalidQuantity)
	})

	t.Run("product not in cart", func(t *testing.T) {
		f := newCartFixture()
		p := testProduct(uuid.New(), "Phone", 100, 5)

		f.productRepo.On("GetByID", ctx, p.ID).Return(p, nil)
		f.orderRepo.On("BeginTx", ctx).Return(f.tx, nil)
		f.cartRepo.On("GetForUpdate", ctx, f.tx, customerID).Return(&model.Cart{CustomerID: customerID}, nil)
		f.tx.On("Rollback", ctx).Return(nil)

		_, err := f.service.UpdateItem(ctx, customerID, p.ID, 2)

		assert.ErrorIs(t, err, model.ErrCartItemNotFound)
		f.tx.AssertExpectations(t)
	})
}

func TestCartService_Clear_RollsBackOnSaveFailure(t *testing.T) {
	ctx := context.Background()
	f := newCartFixture()

	customerID := uuid.New()
	cart := &model.Cart{CustomerID: customerID, Items: []model.LineItem{{ProductID: uuid.New(), Price: 10, Quantity: 1}}}

	f.orderRepo.On("BeginTx", ctx).Return(f.tx, nil)
	f.cartRepo.On("GetForUpdate", ctx, f.tx, customerID).Return(cart, nil)
	f.cartRepo.On("Save", ctx, f.tx, cart).Return(errors.New("connection reset"))
	f.tx.On("Rollback", ctx).Return(nil)

	_, err := f.service.Clear(ctx, customerID)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to update cart")
	f.orderRepo.AssertNotCalled(t, "DeletePending", mock.Anything, mock.Anything, mock.Anything)
	f.tx.AssertExpectations(t)
	assert.True(t, f.tx.rolledBack)
	assert.False(t, f.tx.committed)
}

func TestCartService_Get_ComputesTotals(t *testing.T) {
	ctx := context.Background()
	f := newCartFixture()

	customerID := uuid.New()
	f.cartRepo.On("Get", ctx, customerID).Return(&model.Cart{
		CustomerID: customerID,
		Items:      []model.LineItem{{ProductID: uuid.New(), Price: 700, Quantity: 1}},
	}, nil)

	cart, err := f.service.Get(ctx, customerID)
	require.NoError(t, err)

	assert.Equal(t, 700.0, cart.Subtotal)
	assert.Equal(t, 0.0, cart.Shipping)
	assert.Equal(t, 35.0, cart.Tax)
	assert.Equal(t, 735.0, cart.Total)
}
