// Package pricing computes cart and order totals.
package pricing

import (
	"dealer-kart/internal/model"

	"github.com/shopspring/decimal"
)

// Rules are the fixed shipping and tax rules.
type Rules struct {
	// FreeShippingThreshold is the subtotal above which shipping is free.
	FreeShippingThreshold float64
	// ShippingFee is the flat fee charged at or below the threshold.
	ShippingFee float64
	// TaxRate is the fraction of the subtotal charged as tax.
	TaxRate float64
}

// DefaultRules returns the storefront defaults: free shipping above 599, flat 50 otherwise, 5% tax.
func DefaultRules() Rules {
	return Rules{
		FreeShippingThreshold: 599,
		ShippingFee:           50,
		TaxRate:               0.05,
	}
}

// Compute prices items under the rules. discountRate is a fraction of the subtotal (0 for none).
func (r Rules) Compute(items []model.LineItem, discountRate float64) model.Totals {
	subtotal := decimal.Zero
	for _, item := range items {
		line := decimal.NewFromFloat(item.Price).Mul(decimal.NewFromInt(int64(item.Quantity)))
		subtotal = subtotal.Add(line)
	}
	subtotal = subtotal.Round(2)

	shipping := decimal.Zero
	if len(items) > 0 && !subtotal.GreaterThan(decimal.NewFromFloat(r.FreeShippingThreshold)) {
		shipping = decimal.NewFromFloat(r.ShippingFee).Round(2)
	}

	tax := subtotal.Mul(decimal.NewFromFloat(r.TaxRate)).Round(2)
	discount := subtotal.Mul(decimal.NewFromFloat(discountRate)).Round(2)

	return assemble(subtotal, shipping, discount, tax)
}

// Apportion scales the order-level charges of full down to a part of the order whose items
// sum to partSubtotal. Tax stays exact because it is proportional to the subtotal already.
func Apportion(full model.Totals, partSubtotal float64) model.Totals {
	part := decimal.NewFromFloat(partSubtotal).Round(2)
	whole := decimal.NewFromFloat(full.Subtotal)
	if whole.IsZero() {
		return assemble(part, decimal.Zero, decimal.Zero, decimal.Zero)
	}

	share := part.Div(whole)
	shipping := decimal.NewFromFloat(full.Shipping).Mul(share).Round(2)
	discount := decimal.NewFromFloat(full.Discount).Mul(share).Round(2)
	tax := decimal.NewFromFloat(full.Tax).Mul(share).Round(2)

	return assemble(part, shipping, discount, tax)
}

// Subtotal sums price*quantity over items, rounded to cents.
func Subtotal(items []model.LineItem) float64 {
	sum := decimal.Zero
	for _, item := range items {
		sum = sum.Add(decimal.NewFromFloat(item.Price).Mul(decimal.NewFromInt(int64(item.Quantity))))
	}
	return sum.Round(2).InexactFloat64()
}

// Consistent reports whether t satisfies the totals invariant to the cent.
func Consistent(t model.Totals) bool {
	want := decimal.NewFromFloat(t.Subtotal).
		Add(decimal.NewFromFloat(t.Shipping)).
		Sub(decimal.NewFromFloat(t.Discount)).
		Add(decimal.NewFromFloat(t.Tax)).
		Round(2)
	return want.Equal(decimal.NewFromFloat(t.Total).Round(2))
}

func assemble(subtotal, shipping, discount, tax decimal.Decimal) model.Totals {
	total := subtotal.Add(shipping).Sub(discount).Add(tax)
	return model.Totals{
		Subtotal: subtotal.InexactFloat64(),
		Shipping: shipping.InexactFloat64(),
		Discount: discount.InexactFloat64(),
		Tax:      tax.InexactFloat64(),
		Total:    total.InexactFloat64(),
	}
}
