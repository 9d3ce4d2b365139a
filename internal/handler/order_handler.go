package handler

import (
	"net/http"

	"dealer-kart/internal/middleware"
	"dealer-kart/internal/model"
	"dealer-kart/internal/service"

	"github.com/rs/zerolog"
)

// OrderHandler handles checkout and the customer's order history.
type OrderHandler struct {
	checkout service.CheckoutService
	orders   service.OrderService
	logger   zerolog.Logger
}

// NewOrderHandler creates a new order handler.
func NewOrderHandler(checkout service.CheckoutService, orders service.OrderService, logger zerolog.Logger) *OrderHandler {
	return &OrderHandler{
		checkout: checkout,
		orders:   orders,
		logger:   logger.With().Str("handler", "order").Logger(),
	}
}

// Create handles POST /api/orders. A signed-in customer checks out their cart; an anonymous
// caller places a guest order from the items in the body.
func (h *OrderHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req model.CheckoutRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, r, err, h.logger)
		return
	}

	var (
		order *model.Order
		err   error
	)
	id, signedIn := middleware.IdentityFrom(r.Context())
	switch {
	case !signedIn:
		order, err = h.checkout.GuestCheckout(r.Context(), &req)
	case id.Role == model.RoleCustomer:
		order, err = h.checkout.Checkout(r.Context(), id.UserID, &req)
	default:
		err = model.NewDomainError(model.KindForbidden, model.ErrCodeForbidden, "dealers cannot place orders")
	}
	if err != nil {
		respondError(w, r, err, h.logger)
		return
	}

	writeMessage(w, http.StatusCreated, order, "Order placed")
}

// List handles GET /api/orders.
func (h *OrderHandler) List(w http.ResponseWriter, r *http.Request) {
	customerID, err := callerID(r)
	if err != nil {
		respondError(w, r, err, h.logger)
		return
	}

	orders, err := h.orders.ListForCustomer(r.Context(), customerID)
	if err != nil {
		respondError(w, r, err, h.logger)
		return
	}

	writeData(w, http.StatusOK, orders)
}

// GetByID handles GET /api/orders/{id}.
func (h *OrderHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	customerID, err := callerID(r)
	if err != nil {
		respondError(w, r, err, h.logger)
		return
	}
	id, err := pathID(r, "id")
	if err != nil {
		respondError(w, r, err, h.logger)
		return
	}

	order, err := h.orders.GetForCustomer(r.Context(), id, customerID)
	if err != nil {
		respondError(w, r, err, h.logger)
		return
	}

	writeData(w, http.StatusOK, order)
}
