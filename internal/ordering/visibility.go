package ordering

import (
	"dealer-kart/internal/model"
	"dealer-kart/internal/pricing"

	"github.com/google/uuid"
)

// Visible reports whether the dealer owns at least one line item of the order.
func Visible(order *model.Order, dealerID uuid.UUID) bool {
	for _, item := range order.Items {
		if item.DealerID == dealerID {
			return true
		}
	}
	return false
}

// OwnsAll reports whether every line item of the order belongs to the dealer.
func OwnsAll(order *model.Order, dealerID uuid.UUID) bool {
	if len(order.Items) == 0 {
		return false
	}
	for _, item := range order.Items {
		if item.DealerID != dealerID {
			return false
		}
	}
	return true
}

// ForDealer returns the dealer's view of an order: only the dealer's own line items, with
// shipping, discount and tax apportioned to those items. ok is false when the dealer owns none.
// The original order is not modified.
func ForDealer(order *model.Order, dealerID uuid.UUID) (*model.Order, bool) {
	if order == nil {
		return nil, false
	}

	items := make([]model.LineItem, 0, len(order.Items))
	for _, item := range order.Items {
		if item.DealerID == dealerID {
			items = append(items, item)
		}
	}
	if len(items) == 0 {
		return nil, false
	}

	view := *order
	view.Items = items
	view.DealerIDs = []uuid.UUID{dealerID}
	if len(items) == len(order.Items) {
		return &view, true
	}

	view.Totals = pricing.Apportion(order.Totals, pricing.Subtotal(items))
	return &view, true
}

// BillForDealer applies the same projection to a bill snapshot.
func BillForDealer(bill *model.Bill, dealerID uuid.UUID) (*model.Bill, bool) {
	if bill == nil {
		return nil, false
	}

	items := make([]model.LineItem, 0, len(bill.Items))
	for _, item := range bill.Items {
		if item.DealerID == dealerID {
			items = append(items, item)
		}
	}
	if len(items) == 0 {
		return nil, false
	}

	view := *bill
	view.Items = items
	if len(items) != len(bill.Items) {
		view.Totals = pricing.Apportion(bill.Totals, pricing.Subtotal(items))
	}
	return &view, true
}

// Classification splits a batch of requested order IDs by what the dealer may do with them.
type Classification struct {
	Requested  []uuid.UUID
	NotFound   []uuid.UUID
	Forbidden  []uuid.UUID
	Authorized []*model.Order
}

// Classify deduplicates ids and sorts them into not found, forbidden and authorized using the
// same rule as ForDealer. Authorized orders are the full stored orders, not projections.
func Classify(ids []uuid.UUID, found []model.Order, dealerID uuid.UUID) Classification {
	byID := make(map[uuid.UUID]*model.Order, len(found))
	for i := range found {
		byID[found[i].ID] = &found[i]
	}

	var c Classification
	seen := make(map[uuid.UUID]struct{}, len(ids))
	for _, id := range ids {
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		c.Requested = append(c.Requested, id)

		order, ok := byID[id]
		switch {
		case !ok:
			c.NotFound = append(c.NotFound, id)
		case !Visible(order, dealerID):
			c.Forbidden = append(c.Forbidden, id)
		default:
			c.Authorized = append(c.Authorized, order)
		}
	}
	return c
}
