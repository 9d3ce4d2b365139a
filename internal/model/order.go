package model

import (
	"time"

	"github.com/google/uuid"
)

// OrderStatus is a state in the order lifecycle.
type OrderStatus string

const (
	StatusPending    OrderStatus = "pending"
	StatusConfirmed  OrderStatus = "confirmed"
	StatusProcessing OrderStatus = "processing"
	StatusShipped    OrderStatus = "shipped"
	StatusDelivered  OrderStatus = "delivered"
	StatusCancelled  OrderStatus = "cancelled"
)

// Totals are the money fields shared by carts, orders and bills.
// Invariant: Total == Subtotal + Shipping - Discount + Tax.
type Totals struct {
	Subtotal float64 `json:"subtotal"`
	Shipping float64 `json:"shipping"`
	Discount float64 `json:"discount"`
	Tax      float64 `json:"tax"`
	Total    float64 `json:"total"`
}

// LineItem is a product snapshot inside a cart, order or bill.
type LineItem struct {
	ProductID uuid.UUID `json:"productId"`
	DealerID  uuid.UUID `json:"dealerId"`
	Name      string    `json:"name"`
	Price     float64   `json:"price"`
	Quantity  int       `json:"quantity"`
	Image     string    `json:"image,omitempty"`
}

// Address is a shipping destination.
type Address struct {
	FullName   string `json:"fullName"`
	Phone      string `json:"phone"`
	Line1      string `json:"line1"`
	Line2      string `json:"line2,omitempty"`
	City       string `json:"city"`
	State      string `json:"state"`
	PostalCode string `json:"postalCode"`
	Country    string `json:"country"`
}

// Order is a customer or guest order. While PlacedAt is nil the order mirrors the customer's cart.
type Order struct {
	ID              uuid.UUID   `json:"id"`
	CustomerID      *uuid.UUID  `json:"customerId"`
	GuestEmail      string      `json:"guestEmail,omitempty"`
	Items           []LineItem  `json:"items"`
	Totals
	ShippingAddress *Address    `json:"shippingAddress,omitempty"`
	PaymentMethod   string      `json:"paymentMethod,omitempty"`
	PromoCode       string      `json:"promoCode,omitempty"`
	Status          OrderStatus `json:"status"`
	Notes           string      `json:"notes,omitempty"`
	PlacedAt        *time.Time  `json:"placedAt,omitempty"`
	DealerIDs       []uuid.UUID `json:"-"`
	CreatedAt       time.Time   `json:"createdAt"`
	UpdatedAt       time.Time   `json:"updatedAt"`
}

// IsPlaced reports whether the order has gone through checkout.
func (o *Order) IsPlaced() bool {
	return o.PlacedAt != nil
}

// DealerIDsOf returns the distinct dealer IDs referenced by items, in first-seen order.
func DealerIDsOf(items []LineItem) []uuid.UUID {
	seen := make(map[uuid.UUID]struct{}, len(items))
	ids := make([]uuid.UUID, 0, len(items))
	for _, item := range items {
		if _, ok := seen[item.DealerID]; ok {
			continue
		}
		seen[item.DealerID] = struct{}{}
		ids = append(ids, item.DealerID)
	}
	return ids
}

// CheckoutRequest is the payload for POST /api/orders.
type CheckoutRequest struct {
	ShippingAddress *Address           `json:"shippingAddress"`
	PaymentMethod   string             `json:"paymentMethod"`
	Notes           string             `json:"notes,omitempty"`
	PromoCode       string             `json:"promoCode,omitempty"`
	GuestEmail      string             `json:"guestEmail,omitempty"`
	Items           []OrderItemRequest `json:"items,omitempty"`
}

// OrderItemRequest is a single item in a guest order or a cart add.
type OrderItemRequest struct {
	ProductID uuid.UUID `json:"productId"`
	Quantity  int       `json:"quantity"`
}

// StatusRequest is the payload for a single status update.
type StatusRequest struct {
	Status OrderStatus `json:"status"`
}

// BulkStatusRequest is the payload for a bulk status update.
type BulkStatusRequest struct {
	OrderIDs []uuid.UUID `json:"orderIds"`
	Status   OrderStatus `json:"status"`
}

// BulkStatusResult reports a bulk transition. Requested counts distinct IDs.
type BulkStatusResult struct {
	Requested  int         `json:"requested"`
	Authorized int         `json:"authorized"`
	Modified   int         `json:"modified"`
	NotFound   []uuid.UUID `json:"notFound"`
	Forbidden  []uuid.UUID `json:"forbidden"`
	Skipped    []uuid.UUID `json:"skipped"`
	Updated    []uuid.UUID `json:"updated"`
}

// StatusUpdateResult is returned by a single status update.
type StatusUpdateResult struct {
	Order *Order `json:"order"`
	Bill  *Bill  `json:"bill,omitempty"`
}

// ClearResult reports a dealer bulk-clear.
type ClearResult struct {
	Matched int `json:"matched"`
	Deleted int `json:"deleted"`
}
