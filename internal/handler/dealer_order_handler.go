package handler

import (
	"net/http"

	"dealer-kart/internal/model"
	"dealer-kart/internal/service"

	"github.com/rs/zerolog"
)

// DealerOrderHandler handles the dealer order dashboard endpoints.
type DealerOrderHandler struct {
	service service.DealerOrderService
	logger  zerolog.Logger
}

// NewDealerOrderHandler creates a new dealer order handler.
func NewDealerOrderHandler(service service.DealerOrderService, logger zerolog.Logger) *DealerOrderHandler {
	return &DealerOrderHandler{
		service: service,
		logger:  logger.With().Str("handler", "dealer_order").Logger(),
	}
}

// List handles GET /api/admin/dealer/orders?status=.
func (h *DealerOrderHandler) List(w http.ResponseWriter, r *http.Request) {
	dealerID, err := callerID(r)
	if err != nil {
		respondError(w, r, err, h.logger)
		return
	}

	orders, err := h.service.List(r.Context(), dealerID, queryStatus(r))
	if err != nil {
		respondError(w, r, err, h.logger)
		return
	}

	writeData(w, http.StatusOK, orders)
}

// Get handles GET /api/admin/dealer/orders/{id}.
func (h *DealerOrderHandler) Get(w http.ResponseWriter, r *http.Request) {
	dealerID, err := callerID(r)
	if err != nil {
		respondError(w, r, err, h.logger)
		return
	}
	id, err := pathID(r, "id")
	if err != nil {
		respondError(w, r, err, h.logger)
		return
	}

	order, err := h.service.Get(r.Context(), id, dealerID)
	if err != nil {
		respondError(w, r, err, h.logger)
		return
	}

	writeData(w, http.StatusOK, order)
}

// UpdateStatus handles PUT /api/admin/dealer/orders/{id}/status.
func (h *DealerOrderHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	dealerID, err := callerID(r)
	if err != nil {
		respondError(w, r, err, h.logger)
		return
	}
	id, err := pathID(r, "id")
	if err != nil {
		respondError(w, r, err, h.logger)
		return
	}

	var req model.StatusRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, r, err, h.logger)
		return
	}

	result, err := h.service.SetStatus(r.Context(), id, dealerID, req.Status)
	if err != nil {
		respondError(w, r, err, h.logger)
		return
	}

	writeMessage(w, http.StatusOK, result, "Order status updated")
}

// BulkUpdateStatus handles PUT /api/admin/dealer/orders/bulk-status.
func (h *DealerOrderHandler) BulkUpdateStatus(w http.ResponseWriter, r *http.Request) {
	dealerID, err := callerID(r)
	if err != nil {
		respondError(w, r, err, h.logger)
		return
	}

	var req model.BulkStatusRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, r, err, h.logger)
		return
	}

	result, err := h.service.BulkSetStatus(r.Context(), dealerID, &req)
	if err != nil {
		respondError(w, r, err, h.logger)
		return
	}

	writeData(w, http.StatusOK, result)
}

// Clear handles DELETE /api/admin/dealer/orders?status=.
func (h *DealerOrderHandler) Clear(w http.ResponseWriter, r *http.Request) {
	dealerID, err := callerID(r)
	if err != nil {
		respondError(w, r, err, h.logger)
		return
	}

	result, err := h.service.Clear(r.Context(), dealerID, queryStatus(r))
	if err != nil {
		respondError(w, r, err, h.logger)
		return
	}

	writeData(w, http.StatusOK, result)
}

// GenerateBill handles POST /api/admin/dealer/orders/{id}/bill.
func (h *DealerOrderHandler) GenerateBill(w http.ResponseWriter, r *http.Request) {
	dealerID, err := callerID(r)
	if err != nil {
		respondError(w, r, err, h.logger)
		return
	}
	id, err := pathID(r, "id")
	if err != nil {
		respondError(w, r, err, h.logger)
		return
	}

	bill, err := h.service.GenerateBill(r.Context(), id, dealerID)
	if err != nil {
		respondError(w, r, err, h.logger)
		return
	}

	writeData(w, http.StatusOK, bill)
}
