package model

import (
	"time"

	"github.com/google/uuid"
)

// Bill is an immutable snapshot of an order taken when it was confirmed or delivered.
type Bill struct {
	ID              uuid.UUID   `json:"id"`
	BillNumber      string      `json:"billNumber"`
	OrderID         uuid.UUID   `json:"orderId"`
	CustomerID      *uuid.UUID  `json:"customerId"`
	Items           []LineItem  `json:"items"`
	Totals
	ShippingAddress *Address    `json:"shippingAddress,omitempty"`
	PaymentMethod   string      `json:"paymentMethod,omitempty"`
	Status          OrderStatus `json:"status"`
	IssuedAt        time.Time   `json:"issuedAt"`
	DealerIDs       []uuid.UUID `json:"-"`
}
