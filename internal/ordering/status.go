// Package ordering holds the order status state machine and the dealer visibility rules.
// Every API path that reads or mutates an order on behalf of a dealer goes through ForDealer.
package ordering

import (
	"fmt"

	"dealer-kart/internal/model"
)

var validNext = map[model.OrderStatus]map[model.OrderStatus]bool{
	model.StatusPending:    {model.StatusConfirmed: true, model.StatusCancelled: true},
	model.StatusConfirmed:  {model.StatusProcessing: true, model.StatusCancelled: true},
	model.StatusProcessing: {model.StatusShipped: true, model.StatusCancelled: true},
	model.StatusShipped:    {model.StatusDelivered: true, model.StatusCancelled: true},
	model.StatusDelivered:  {},
	model.StatusCancelled:  {},
}

// ParseStatus validates a status string.
func ParseStatus(s string) (model.OrderStatus, error) {
	status := model.OrderStatus(s)
	if _, ok := validNext[status]; !ok {
		return "", model.NewValidationError(fmt.Sprintf("invalid status %q", s))
	}
	return status, nil
}

// CanTransition reports whether an order may move from one status to another.
func CanTransition(from, to model.OrderStatus) bool {
	return validNext[from][to]
}

// IsTerminal reports whether no transition leaves status.
func IsTerminal(status model.OrderStatus) bool {
	next, ok := validNext[status]
	return ok && len(next) == 0
}

// GeneratesBill reports whether entering status triggers bill generation.
func GeneratesBill(status model.OrderStatus) bool {
	return status == model.StatusConfirmed || status == model.StatusDelivered
}

// StockEffect is the inventory change a transition causes.
type StockEffect int

const (
	StockNone StockEffect = iota
	// StockReserve removes the ordered quantities from stock.
	StockReserve
	// StockRelease puts previously reserved quantities back.
	StockRelease
)

// StockEffectOf returns the inventory effect of moving from one status to another.
// Stock is taken when an order is confirmed and returned if it is cancelled afterwards.
func StockEffectOf(from, to model.OrderStatus) StockEffect {
	switch {
	case from == model.StatusPending && to == model.StatusConfirmed:
		return StockReserve
	case to == model.StatusCancelled && holdsStock(from):
		return StockRelease
	default:
		return StockNone
	}
}

func holdsStock(status model.OrderStatus) bool {
	switch status {
	case model.StatusConfirmed, model.StatusProcessing, model.StatusShipped:
		return true
	}
	return false
}

// CheckTransition validates a transition for an order and returns a client-facing error.
// A transition to the current status is not an error; callers treat it as a no-op.
func CheckTransition(order *model.Order, to model.OrderStatus) error {
	if order.Status == to {
		return nil
	}
	if !order.IsPlaced() {
		return model.ErrOrderNotPlaced
	}
	if !CanTransition(order.Status, to) {
		return model.NewDomainError(
			model.KindValidation,
			model.ErrCodeInvalidTransition,
			fmt.Sprintf("cannot change order status from %s to %s", order.Status, to),
		)
	}
	return nil
}
