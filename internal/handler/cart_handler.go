package handler

import (
	"net/http"

	"dealer-kart/internal/model"
	"dealer-kart/internal/service"

	"github.com/rs/zerolog"
)

// CartHandler handles the signed-in customer's cart.
type CartHandler struct {
	service service.CartService
	logger  zerolog.Logger
}

// NewCartHandler creates a new cart handler.
func NewCartHandler(service service.CartService, logger zerolog.Logger) *CartHandler {
	return &CartHandler{
		service: service,
		logger:  logger.With().Str("handler", "cart").Logger(),
	}
}

// Get handles GET /api/cart.
func (h *CartHandler) Get(w http.ResponseWriter, r *http.Request) {
	customerID, err := callerID(r)
	if err != nil {
		respondError(w, r, err, h.logger)
		return
	}

	cart, err := h.service.Get(r.Context(), customerID)
	if err != nil {
		respondError(w, r, err, h.logger)
		return
	}

	writeData(w, http.StatusOK, cart)
}

// AddItem handles POST /api/cart/items.
func (h *CartHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	customerID, err := callerID(r)
	if err != nil {
		respondError(w, r, err, h.logger)
		return
	}

	var req model.CartItemRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, r, err, h.logger)
		return
	}

	cart, err := h.service.AddItem(r.Context(), customerID, &req)
	if err != nil {
		respondError(w, r, err, h.logger)
		return
	}

	writeMessage(w, http.StatusOK, cart, "Item added to cart")
}

// UpdateItem handles PUT /api/cart/items/{productId}.
func (h *CartHandler) UpdateItem(w http.ResponseWriter, r *http.Request) {
	customerID, err := callerID(r)
	if err != nil {
		respondError(w, r, err, h.logger)
		return
	}
	productID, err := pathID(r, "productId")
	if err != nil {
		respondError(w, r, err, h.logger)
		return
	}

	var req model.CartQuantityRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, r, err, h.logger)
		return
	}

	cart, err := h.service.UpdateItem(r.Context(), customerID, productID, req.Quantity)
	if err != nil {
		respondError(w, r, err, h.logger)
		return
	}

	writeMessage(w, http.StatusOK, cart, "Cart updated")
}

// RemoveItem handles DELETE /api/cart/items/{productId}.
func (h *CartHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	customerID, err := callerID(r)
	if err != nil {
		respondError(w, r, err, h.logger)
		return
	}
	productID, err := pathID(r, "productId")
	if err != nil {
		respondError(w, r, err, h.logger)
		return
	}

	cart, err := h.service.RemoveItem(r.Context(), customerID, productID)
	if err != nil {
		respondError(w, r, err, h.logger)
		return
	}

	writeMessage(w, http.StatusOK, cart, "Item removed from cart")
}

// Clear handles DELETE /api/cart.
func (h *CartHandler) Clear(w http.ResponseWriter, r *http.Request) {
	customerID, err := callerID(r)
	if err != nil {
		respondError(w, r, err, h.logger)
		return
	}

	cart, err := h.service.Clear(r.Context(), customerID)
	if err != nil {
		respondError(w, r, err, h.logger)
		return
	}

	writeMessage(w, http.StatusOK, cart, "Cart cleared")
}
