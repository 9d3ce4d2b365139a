package model

import (
	"time"

	"github.com/google/uuid"
)

// Cart is a customer's staging area. It is mirrored into a pending order on every change.
type Cart struct {
	CustomerID uuid.UUID  `json:"customerId"`
	Items      []LineItem `json:"items"`
	Totals
	UpdatedAt time.Time `json:"updatedAt"`
}

// IndexOf returns the position of productID in the cart or -1.
func (c *Cart) IndexOf(productID uuid.UUID) int {
	for i, item := range c.Items {
		if item.ProductID == productID {
			return i
		}
	}
	return -1
}

// CartItemRequest is the payload for adding to the cart.
type CartItemRequest struct {
	ProductID uuid.UUID `json:"productId"`
	Quantity  int       `json:"quantity"`
}

// CartQuantityRequest is the payload for changing a cart line quantity.
type CartQuantityRequest struct {
	Quantity int `json:"quantity"`
}
