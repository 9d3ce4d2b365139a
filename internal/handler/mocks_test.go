package handler

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"dealer-kart/internal/auth"
	"dealer-kart/internal/middleware"
	"dealer-kart/internal/model"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockAccountService is a mock implementation of AccountService.
type MockAccountService struct {
	mock.Mock
}

func (m *MockAccountService) RegisterCustomer(ctx context.Context, req *model.RegisterRequest) (*model.AuthResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.AuthResponse), args.Error(1)
}

func (m *MockAccountService) LoginCustomer(ctx context.Context, req *model.LoginRequest) (*model.AuthResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.AuthResponse), args.Error(1)
}

func (m *MockAccountService) GetCustomer(ctx context.Context, id uuid.UUID) (*model.Customer, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Customer), args.Error(1)
}

func (m *MockAccountService) UpdateCustomer(ctx context.Context, id uuid.UUID, update *model.ProfileUpdate) (*model.Customer, error) {
	args := m.Called(ctx, id, update)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Customer), args.Error(1)
}

func (m *MockAccountService) RegisterDealer(ctx context.Context, req *model.RegisterRequest) (*model.AuthResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.AuthResponse), args.Error(1)
}

func (m *MockAccountService) LoginDealer(ctx context.Context, req *model.LoginRequest) (*model.AuthResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.AuthResponse), args.Error(1)
}

func (m *MockAccountService) GetDealer(ctx context.Context, id uuid.UUID) (*model.Dealer, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Dealer), args.Error(1)
}

func (m *MockAccountService) UpdateDealer(ctx context.Context, id uuid.UUID, update *model.ProfileUpdate) (*model.Dealer, error) {
	args := m.Called(ctx, id, update)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Dealer), args.Error(1)
}

// MockProductService is a mock implementation of ProductService.
type MockProductService struct {
	mock.Mock
}

func (m *MockProductService) List(ctx context.Context, filter model.ProductFilter) ([]model.Product, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Product), args.Error(1)
}

func (m *MockProductService) GetByID(ctx context.Context, id uuid.UUID) (*model.Product, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Product), args.Error(1)
}

func (m *MockProductService) ListForDealer(ctx context.Context, dealerID uuid.UUID, lowStockOnly bool) ([]model.Product, error) {
	args := m.Called(ctx, dealerID, lowStockOnly)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Product), args.Error(1)
}

func (m *MockProductService) Create(ctx context.Context, dealerID uuid.UUID, req *model.ProductRequest) (*model.Product, error) {
	args := m.Called(ctx, dealerID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Product), args.Error(1)
}

func (m *MockProductService) Update(ctx context.Context, id, dealerID uuid.UUID, req *model.ProductRequest) (*model.Product, error) {
	args := m.Called(ctx, id, dealerID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Product), args.Error(1)
}

func (m *MockProductService) Delete(ctx context.Context, id, dealerID uuid.UUID) error {
	args := m.Called(ctx, id, dealerID)
	return args.Error(0)
}

func (m *MockProductService) UpdateStock(ctx context.Context, id, dealerID uuid.UUID, req *model.StockRequest) (*model.Product, error) {
	args := m.Called(ctx, id, dealerID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Product), args.Error(1)
}

// MockCartService is a mock implementation of CartService.
type MockCartService struct {
	mock.Mock
}

func (m *MockCartService) Get(ctx context.Context, customerID uuid.UUID) (*model.Cart, error) {
	args := m.Called(ctx, customerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Cart), args.Error(1)
}

func (m *MockCartService) AddItem(ctx context.Context, customerID uuid.UUID, req *model.CartItemRequest) (*model.Cart, error) {
	args := m.Called(ctx, customerID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Cart), args.Error(1)
}

func (m *MockCartService) UpdateItem(ctx context.Context, customerID, productID uuid.UUID, quantity int) (*model.Cart, error) {
	args := m.Called(ctx, customerID, productID, quantity)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Cart), args.Error(1)
}

func (m *MockCartService) RemoveItem(ctx context.Context, customerID, productID uuid.UUID) (*model.Cart, error) {
	args := m.Called(ctx, customerID, productID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Cart), args.Error(1)
}

func (m *MockCartService) Clear(ctx context.Context, customerID uuid.UUID) (*model.Cart, error) {
	args := m.Called(ctx, customerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Cart), args.Error(1)
}

// MockCheckoutService is a mock implementation of CheckoutService.
type MockCheckoutService struct {
	mock.Mock
}

func (m *MockCheckoutService) Checkout(ctx context.Context, customerID uuid.UUID, req *model.CheckoutRequest) (*model.Order, error) {
	args := m.Called(ctx, customerID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Order), args.Error(1)
}

func (m *MockCheckoutService) GuestCheckout(ctx context.Context, req *model.CheckoutRequest) (*model.Order, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Order), args.Error(1)
}

// MockOrderService is a mock implementation of OrderService.
type MockOrderService struct {
	mock.Mock
}

func (m *MockOrderService) ListForCustomer(ctx context.Context, customerID uuid.UUID) ([]model.Order, error) {
	args := m.Called(ctx, customerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Order), args.Error(1)
}

func (m *MockOrderService) GetForCustomer(ctx context.Context, id, customerID uuid.UUID) (*model.Order, error) {
	args := m.Called(ctx, id, customerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Order), args.Error(1)
}

// MockDealerOrderService is a mock implementation of DealerOrderService.
type MockDealerOrderService struct {
	mock.Mock
}

func (m *MockDealerOrderService) List(ctx context.Context, dealerID uuid.UUID, status *model.OrderStatus) ([]model.Order, error) {
	args := m.Called(ctx, dealerID, status)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Order), args.Error(1)
}

func (m *MockDealerOrderService) Get(ctx context.Context, id, dealerID uuid.UUID) (*model.Order, error) {
	args := m.Called(ctx, id, dealerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Order), args.Error(1)
}

func (m *MockDealerOrderService) SetStatus(ctx context.Context, id, dealerID uuid.UUID, status model.OrderStatus) (*model.StatusUpdateResult, error) {
	args := m.Called(ctx, id, dealerID, status)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.StatusUpdateResult), args.Error(1)
}

func (m *MockDealerOrderService) BulkSetStatus(ctx context.Context, dealerID uuid.UUID, req *model.BulkStatusRequest) (*model.BulkStatusResult, error) {
	args := m.Called(ctx, dealerID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.BulkStatusResult), args.Error(1)
}

func (m *MockDealerOrderService) Clear(ctx context.Context, dealerID uuid.UUID, status *model.OrderStatus) (*model.ClearResult, error) {
	args := m.Called(ctx, dealerID, status)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.ClearResult), args.Error(1)
}

func (m *MockDealerOrderService) GenerateBill(ctx context.Context, id, dealerID uuid.UUID) (*model.Bill, error) {
	args := m.Called(ctx, id, dealerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Bill), args.Error(1)
}

// MockBillService is a mock implementation of BillService.
type MockBillService struct {
	mock.Mock
}

func (m *MockBillService) Ensure(ctx context.Context, order *model.Order) (*model.Bill, bool, error) {
	args := m.Called(ctx, order)
	if args.Get(0) == nil {
		return nil, args.Bool(1), args.Error(2)
	}
	return args.Get(0).(*model.Bill), args.Bool(1), args.Error(2)
}

func (m *MockBillService) ListForCustomer(ctx context.Context, customerID uuid.UUID) ([]model.Bill, error) {
	args := m.Called(ctx, customerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Bill), args.Error(1)
}

func (m *MockBillService) GetForCustomer(ctx context.Context, id, customerID uuid.UUID) (*model.Bill, error) {
	args := m.Called(ctx, id, customerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Bill), args.Error(1)
}

func (m *MockBillService) ListForDealer(ctx context.Context, dealerID uuid.UUID) ([]model.Bill, error) {
	args := m.Called(ctx, dealerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Bill), args.Error(1)
}

func (m *MockBillService) GetForDealer(ctx context.Context, id, dealerID uuid.UUID) (*model.Bill, error) {
	args := m.Called(ctx, id, dealerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Bill), args.Error(1)
}

// MockContactService is a mock implementation of ContactService.
type MockContactService struct {
	mock.Mock
}

func (m *MockContactService) CreateContact(ctx context.Context, contact *model.Contact) (*model.Contact, error) {
	args := m.Called(ctx, contact)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Contact), args.Error(1)
}

func (m *MockContactService) ListContacts(ctx context.Context, limit, offset int) ([]model.Contact, error) {
	args := m.Called(ctx, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Contact), args.Error(1)
}

func (m *MockContactService) CreateSubmission(ctx context.Context, submission *model.TestSubmission) (*model.TestSubmission, error) {
	args := m.Called(ctx, submission)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.TestSubmission), args.Error(1)
}

func (m *MockContactService) ListSubmissions(ctx context.Context, limit, offset int) ([]model.TestSubmission, error) {
	args := m.Called(ctx, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.TestSubmission), args.Error(1)
}

// newRequest builds a request carrying an optional identity and chi URL parameters.
func newRequest(method, target, body string, id *auth.Identity, params map[string]string) *http.Request {
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, reader)

	ctx := req.Context()
	if len(params) > 0 {
		rctx := chi.NewRouteContext()
		for k, v := range params {
			rctx.URLParams.Add(k, v)
		}
		ctx = context.WithValue(ctx, chi.RouteCtxKey, rctx)
	}
	if id != nil {
		ctx = middleware.WithIdentity(ctx, *id)
	}
	return req.WithContext(ctx)
}

func customer(id uuid.UUID) *auth.Identity {
	return &auth.Identity{UserID: id, Role: model.RoleCustomer}
}

func dealer(id uuid.UUID) *auth.Identity {
	return &auth.Identity{UserID: id, Role: model.RoleDealer}
}

// decodeResponse decodes the envelope and returns it with the raw data field.
func decodeResponse(t *testing.T, w *httptest.ResponseRecorder) (Response, json.RawMessage) {
	t.Helper()
	var envelope struct {
		Response
		Data json.RawMessage `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope))
	return envelope.Response, envelope.Data
}
