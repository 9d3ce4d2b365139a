// Package promo validates checkout promo codes against gzipped code lists.
package promo

import (
	"context"
)

// Validator checks promo codes at checkout.
type Validator interface {
	// DiscountRate returns the fraction of the subtotal a valid code takes off.
	// Invalid codes return model.ErrInvalidPromoLength or model.ErrInvalidPromoCode.
	DiscountRate(ctx context.Context, code string) (float64, error)

	// Close releases the loaded code lists.
	Close() error
}

// CodeSet is a read-only set of promo codes.
type CodeSet interface {
	Contains(code string) bool
	Size() int
}

// Loader reads a gzipped code list, one code per line.
type Loader interface {
	Load(ctx context.Context, path string) (CodeSet, error)
}
