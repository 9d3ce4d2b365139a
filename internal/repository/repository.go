package repository

import (
	"context"

	"dealer-kart/internal/model"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// CustomerRepository defines the interface for customer account data access.
type CustomerRepository interface {
	// Create inserts a new customer. Returns model.ErrEmailTaken on a duplicate email.
	Create(ctx context.Context, customer *model.Customer) error

	// GetByID retrieves a customer by ID. Returns nil, nil when absent.
	GetByID(ctx context.Context, id uuid.UUID) (*model.Customer, error)

	// GetByEmail retrieves a customer by email, case-insensitively.
	GetByEmail(ctx context.Context, email string) (*model.Customer, error)

	// Update persists the mutable profile fields.
	Update(ctx context.Context, customer *model.Customer) error
}

// DealerRepository defines the interface for dealer account data access.
type DealerRepository interface {
	Create(ctx context.Context, dealer *model.Dealer) error
	GetByID(ctx context.Context, id uuid.UUID) (*model.Dealer, error)
	GetByEmail(ctx context.Context, email string) (*model.Dealer, error)
	Update(ctx context.Context, dealer *model.Dealer) error
}

// ProductRepository defines the interface for product data access operations.
type ProductRepository interface {
	// List retrieves active products matching the filter, with pagination.
	List(ctx context.Context, filter model.ProductFilter) ([]model.Product, error)

	// GetByID retrieves a single product by its ID.
	GetByID(ctx context.Context, id uuid.UUID) (*model.Product, error)

	// GetByIDs retrieves multiple products by their IDs.
	GetByIDs(ctx context.Context, ids []uuid.UUID) ([]model.Product, error)

	// ListByDealer retrieves every product owned by the dealer, optionally only those at or below
	// their low-stock threshold.
	ListByDealer(ctx context.Context, dealerID uuid.UUID, lowStockOnly bool) ([]model.Product, error)

	Create(ctx context.Context, product *model.Product) error
	Update(ctx context.Context, product *model.Product) error

	// Delete removes a product. Reports whether a row was deleted.
	Delete(ctx context.Context, id uuid.UUID) (bool, error)

	// AdjustStock adds delta to the product's stock within tx. It reports false, without
	// changing anything, when the result would be negative or the product no longer exists.
	AdjustStock(ctx context.Context, tx pgx.Tx, productID uuid.UUID, delta int) (bool, error)
}

// OrderRepository defines the interface for order data access operations.
type OrderRepository interface {
	// BeginTx starts a new database transaction.
	BeginTx(ctx context.Context) (pgx.Tx, error)

	// Create inserts a new order within the provided transaction.
	Create(ctx context.Context, tx pgx.Tx, order *model.Order) error

	// GetByID retrieves an order by its ID. Returns nil, nil when absent.
	GetByID(ctx context.Context, id uuid.UUID) (*model.Order, error)

	// GetByIDs retrieves the orders that exist among ids.
	GetByIDs(ctx context.Context, ids []uuid.UUID) ([]model.Order, error)

	// ListByCustomer retrieves a customer's orders, newest first.
	ListByCustomer(ctx context.Context, customerID uuid.UUID) ([]model.Order, error)

	// ListByDealer retrieves orders that reference the dealer in any line item, newest first.
	// A nil status means every status.
	ListByDealer(ctx context.Context, dealerID uuid.UUID, status *model.OrderStatus) ([]model.Order, error)

	// GetPendingForUpdate locks and returns the customer's cart-mirror order, or nil.
	GetPendingForUpdate(ctx context.Context, tx pgx.Tx, customerID uuid.UUID) (*model.Order, error)

	// UpsertPending creates or replaces the customer's cart-mirror order. Reports whether
	// the order was newly created. order.ID is set to the stored order's ID.
	UpsertPending(ctx context.Context, tx pgx.Tx, order *model.Order) (bool, error)

	// DeletePending removes the customer's cart-mirror order and returns its ID, or nil.
	DeletePending(ctx context.Context, tx pgx.Tx, customerID uuid.UUID) (*uuid.UUID, error)

	// Place records checkout details on an existing cart-mirror order and stamps placed_at.
	Place(ctx context.Context, tx pgx.Tx, order *model.Order) error

	// TransitionStatus moves an order from one status to another. Reports false when the
	// order is no longer in the from status.
	TransitionStatus(ctx context.Context, tx pgx.Tx, id uuid.UUID, from, to model.OrderStatus) (bool, error)

	// DeleteOwned removes those of ids that are checked out and whose line items all belong to
	// the dealer, and returns how many rows were deleted. Cart mirrors are never removed.
	DeleteOwned(ctx context.Context, dealerID uuid.UUID, ids []uuid.UUID) (int, error)
}

// CartRepository defines the interface for cart data access operations.
type CartRepository interface {
	// Get retrieves the customer's cart. An absent cart is returned empty.
	Get(ctx context.Context, customerID uuid.UUID) (*model.Cart, error)

	// GetForUpdate creates the cart row if needed and locks it for the rest of tx.
	GetForUpdate(ctx context.Context, tx pgx.Tx, customerID uuid.UUID) (*model.Cart, error)

	// Save replaces the cart's items within tx.
	Save(ctx context.Context, tx pgx.Tx, cart *model.Cart) error
}

// BillRepository defines the interface for bill data access operations.
type BillRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*model.Bill, error)
	GetByOrderID(ctx context.Context, orderID uuid.UUID) (*model.Bill, error)
	ListByCustomer(ctx context.Context, customerID uuid.UUID) ([]model.Bill, error)
	ListByDealer(ctx context.Context, dealerID uuid.UUID) ([]model.Bill, error)

	// CreateIfAbsent inserts the bill unless one already exists for its order, then returns
	// the stored bill. Reports whether this call created it.
	CreateIfAbsent(ctx context.Context, bill *model.Bill) (*model.Bill, bool, error)
}

// ContactRepository defines the interface for contact form and test submission storage.
type ContactRepository interface {
	CreateContact(ctx context.Context, contact *model.Contact) error
	ListContacts(ctx context.Context, limit, offset int) ([]model.Contact, error)
	CreateSubmission(ctx context.Context, submission *model.TestSubmission) error
	ListSubmissions(ctx context.Context, limit, offset int) ([]model.TestSubmission, error)
}
