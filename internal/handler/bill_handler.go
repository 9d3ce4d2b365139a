package handler

import (
	"net/http"

	"dealer-kart/internal/service"

	"github.com/rs/zerolog"
)

// BillHandler serves bills to customers and dealers.
type BillHandler struct {
	service service.BillService
	logger  zerolog.Logger
}

// NewBillHandler creates a new bill handler.
func NewBillHandler(service service.BillService, logger zerolog.Logger) *BillHandler {
	return &BillHandler{
		service: service,
		logger:  logger.With().Str("handler", "bill").Logger(),
	}
}

// ListMine handles GET /api/bills.
func (h *BillHandler) ListMine(w http.ResponseWriter, r *http.Request) {
	customerID, err := callerID(r)
	if err != nil {
		respondError(w, r, err, h.logger)
		return
	}

	bills, err := h.service.ListForCustomer(r.Context(), customerID)
	if err != nil {
		respondError(w, r, err, h.logger)
		return
	}

	writeData(w, http.StatusOK, bills)
}

// GetMine handles GET /api/bills/{id}.
func (h *BillHandler) GetMine(w http.ResponseWriter, r *http.Request) {
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

	bill, err := h.service.GetForCustomer(r.Context(), id, customerID)
	if err != nil {
		respondError(w, r, err, h.logger)
		return
	}

	writeData(w, http.StatusOK, bill)
}

// ListForDealer handles GET /api/admin/dealer/bills.
func (h *BillHandler) ListForDealer(w http.ResponseWriter, r *http.Request) {
	dealerID, err := callerID(r)
	if err != nil {
		respondError(w, r, err, h.logger)
		return
	}

	bills, err := h.service.ListForDealer(r.Context(), dealerID)
	if err != nil {
		respondError(w, r, err, h.logger)
		return
	}

	writeData(w, http.StatusOK, bills)
}

// GetForDealer handles GET /api/admin/dealer/bills/{id}.
func (h *BillHandler) GetForDealer(w http.ResponseWriter, r *http.Request) {
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

	bill, err := h.service.GetForDealer(r.Context(), id, dealerID)
	if err != nil {
		respondError(w, r, err, h.logger)
		return
	}

	writeData(w, http.StatusOK, bill)
}
