package service

import (
	"context"

	"dealer-kart/internal/model"

	"github.com/google/uuid"
)

// TokenIssuer signs access tokens for authenticated accounts.
type TokenIssuer interface {
	Issue(userID uuid.UUID, role model.Role) (string, error)
}

// AccountService defines registration, login and profile operations for both account types.
type AccountService interface {
	RegisterCustomer(ctx context.Context, req *model.RegisterRequest) (*model.AuthResponse, error)
	LoginCustomer(ctx context.Context, req *model.LoginRequest) (*model.AuthResponse, error)
	GetCustomer(ctx context.Context, id uuid.UUID) (*model.Customer, error)
	UpdateCustomer(ctx context.Context, id uuid.UUID, update *model.ProfileUpdate) (*model.Customer, error)

	RegisterDealer(ctx context.Context, req *model.RegisterRequest) (*model.AuthResponse, error)
	LoginDealer(ctx context.Context, req *model.LoginRequest) (*model.AuthResponse, error)
	GetDealer(ctx context.Context, id uuid.UUID) (*model.Dealer, error)
	UpdateDealer(ctx context.Context, id uuid.UUID, update *model.ProfileUpdate) (*model.Dealer, error)
}

// ProductService defines operations for product management.
type ProductService interface {
	// List retrieves active products for the public catalogue.
	List(ctx context.Context, filter model.ProductFilter) ([]model.Product, error)

	// GetByID retrieves a single active product by ID.
	GetByID(ctx context.Context, id uuid.UUID) (*model.Product, error)

	// ListForDealer retrieves the dealer's own products, including inactive ones.
	ListForDealer(ctx context.Context, dealerID uuid.UUID, lowStockOnly bool) ([]model.Product, error)

	Create(ctx context.Context, dealerID uuid.UUID, req *model.ProductRequest) (*model.Product, error)
	Update(ctx context.Context, id, dealerID uuid.UUID, req *model.ProductRequest) (*model.Product, error)
	Delete(ctx context.Context, id, dealerID uuid.UUID) error
	UpdateStock(ctx context.Context, id, dealerID uuid.UUID, req *model.StockRequest) (*model.Product, error)
}

// CartService defines cart operations. Every mutation also updates the customer's pending order.
type CartService interface {
	Get(ctx context.Context, customerID uuid.UUID) (*model.Cart, error)
	AddItem(ctx context.Context, customerID uuid.UUID, req *model.CartItemRequest) (*model.Cart, error)

	// UpdateItem sets a line's quantity. A quantity of zero removes the line.
	UpdateItem(ctx context.Context, customerID, productID uuid.UUID, quantity int) (*model.Cart, error)

	RemoveItem(ctx context.Context, customerID, productID uuid.UUID) (*model.Cart, error)
	Clear(ctx context.Context, customerID uuid.UUID) (*model.Cart, error)
}

// CheckoutService defines order placement.
type CheckoutService interface {
	// Checkout places the customer's pending order and empties the cart.
	Checkout(ctx context.Context, customerID uuid.UUID, req *model.CheckoutRequest) (*model.Order, error)

	// GuestCheckout creates a standalone placed order from the request items.
	GuestCheckout(ctx context.Context, req *model.CheckoutRequest) (*model.Order, error)
}

// OrderService defines the customer's view of their orders.
type OrderService interface {
	ListForCustomer(ctx context.Context, customerID uuid.UUID) ([]model.Order, error)
	GetForCustomer(ctx context.Context, id, customerID uuid.UUID) (*model.Order, error)
}

// DealerOrderService defines dealer-scoped order operations. Every method sees orders only
// through the dealer projection.
type DealerOrderService interface {
	List(ctx context.Context, dealerID uuid.UUID, status *model.OrderStatus) ([]model.Order, error)
	Get(ctx context.Context, id, dealerID uuid.UUID) (*model.Order, error)
	SetStatus(ctx context.Context, id, dealerID uuid.UUID, status model.OrderStatus) (*model.StatusUpdateResult, error)
	BulkSetStatus(ctx context.Context, dealerID uuid.UUID, req *model.BulkStatusRequest) (*model.BulkStatusResult, error)

	// Clear deletes the dealer's orders with the given status (all statuses when nil).
	// Orders that also contain another dealer's items are kept.
	Clear(ctx context.Context, dealerID uuid.UUID, status *model.OrderStatus) (*model.ClearResult, error)

	// GenerateBill returns the order's bill, creating it if the order is past confirmation.
	GenerateBill(ctx context.Context, id, dealerID uuid.UUID) (*model.Bill, error)
}

// BillService defines bill generation and retrieval.
type BillService interface {
	// Ensure returns the order's bill, creating it on first call. Reports whether it was created.
	Ensure(ctx context.Context, order *model.Order) (*model.Bill, bool, error)

	ListForCustomer(ctx context.Context, customerID uuid.UUID) ([]model.Bill, error)
	GetForCustomer(ctx context.Context, id, customerID uuid.UUID) (*model.Bill, error)
	ListForDealer(ctx context.Context, dealerID uuid.UUID) ([]model.Bill, error)
	GetForDealer(ctx context.Context, id, dealerID uuid.UUID) (*model.Bill, error)
}

// ContactService defines contact form and test submission storage.
type ContactService interface {
	CreateContact(ctx context.Context, contact *model.Contact) (*model.Contact, error)
	ListContacts(ctx context.Context, limit, offset int) ([]model.Contact, error)
	CreateSubmission(ctx context.Context, submission *model.TestSubmission) (*model.TestSubmission, error)
	ListSubmissions(ctx context.Context, limit, offset int) ([]model.TestSubmission, error)
}
