package model

import (
	"time"

	"github.com/google/uuid"
)

// Stock tracks on-hand inventory for a product.
type Stock struct {
	Quantity          int `json:"quantity"`
	LowStockThreshold int `json:"lowStockThreshold"`
}

// IsLow reports whether the quantity is at or below the threshold.
func (s Stock) IsLow() bool {
	return s.Quantity <= s.LowStockThreshold
}

// Product is a catalogue entry owned by exactly one dealer.
type Product struct {
	ID          uuid.UUID `json:"id" db:"id"`
	DealerID    uuid.UUID `json:"dealerId" db:"dealer_id"`
	Name        string    `json:"name" db:"name"`
	Description string    `json:"description" db:"description"`
	Category    string    `json:"category" db:"category"`
	Price       float64   `json:"price" db:"price"`
	Images      []string  `json:"images" db:"images"`
	Stock       Stock     `json:"stock"`
	IsActive    bool      `json:"isActive" db:"is_active"`
	CreatedAt   time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt   time.Time `json:"updatedAt" db:"updated_at"`
}

// PrimaryImage returns the first image or an empty string.
func (p *Product) PrimaryImage() string {
	if len(p.Images) == 0 {
		return ""
	}
	return p.Images[0]
}

// ProductFilter narrows the public catalogue listing.
type ProductFilter struct {
	Category string
	Search   string
	Limit    int
	Offset   int
}

// ProductRequest is the payload for creating or replacing a product.
type ProductRequest struct {
	Name              string   `json:"name"`
	Description       string   `json:"description"`
	Category          string   `json:"category"`
	Price             float64  `json:"price"`
	Images            []string `json:"images"`
	StockQuantity     int      `json:"stockQuantity"`
	LowStockThreshold int      `json:"lowStockThreshold"`
	IsActive          *bool    `json:"isActive,omitempty"`
}

// StockRequest is the payload for PATCH /api/products/{id}/stock.
type StockRequest struct {
	Quantity          int  `json:"quantity"`
	LowStockThreshold *int `json:"lowStockThreshold,omitempty"`
}
