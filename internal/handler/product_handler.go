package handler

import (
	"net/http"
	"strconv"

	"dealer-kart/internal/model"
	"dealer-kart/internal/service"

	"github.com/rs/zerolog"
)

// ProductHandler handles product-related HTTP requests.
type ProductHandler struct {
	service service.ProductService
	logger  zerolog.Logger
}

// NewProductHandler creates a new product handler.
func NewProductHandler(service service.ProductService, logger zerolog.Logger) *ProductHandler {
	return &ProductHandler{
		service: service,
		logger:  logger.With().Str("handler", "product").Logger(),
	}
}

// List handles GET /api/products requests with filtering and pagination.
func (h *ProductHandler) List(w http.ResponseWriter, r *http.Request) {
	limit, err := queryInt(r, "limit")
	if err != nil {
		respondError(w, r, err, h.logger)
		return
	}
	offset, err := queryInt(r, "offset")
	if err != nil {
		respondError(w, r, err, h.logger)
		return
	}

	products, err := h.service.List(r.Context(), model.ProductFilter{
		Category: r.URL.Query().Get("category"),
		Search:   r.URL.Query().Get("search"),
		Limit:    limit,
		Offset:   offset,
	})
	if err != nil {
		respondError(w, r, err, h.logger)
		return
	}

	writeData(w, http.StatusOK, products)
}

// GetByID handles GET /api/products/{id} requests.
func (h *ProductHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		respondError(w, r, err, h.logger)
		return
	}

	product, err := h.service.GetByID(r.Context(), id)
	if err != nil {
		respondError(w, r, err, h.logger)
		return
	}

	writeData(w, http.StatusOK, product)
}

// ListMine handles GET /api/admin/dealer/products. ?lowStock=true keeps only products at or
// below their threshold.
func (h *ProductHandler) ListMine(w http.ResponseWriter, r *http.Request) {
	dealerID, err := callerID(r)
	if err != nil {
		respondError(w, r, err, h.logger)
		return
	}

	lowStock := false
	if raw := r.URL.Query().Get("lowStock"); raw != "" {
		if lowStock, err = strconv.ParseBool(raw); err != nil {
			respondError(w, r, model.NewValidationError("invalid lowStock parameter"), h.logger)
			return
		}
	}

	products, err := h.service.ListForDealer(r.Context(), dealerID, lowStock)
	if err != nil {
		respondError(w, r, err, h.logger)
		return
	}

	writeData(w, http.StatusOK, products)
}

// Create handles POST /api/products.
func (h *ProductHandler) Create(w http.ResponseWriter, r *http.Request) {
	dealerID, err := callerID(r)
	if err != nil {
		respondError(w, r, err, h.logger)
		return
	}

	var req model.ProductRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, r, err, h.logger)
		return
	}

	product, err := h.service.Create(r.Context(), dealerID, &req)
	if err != nil {
		respondError(w, r, err, h.logger)
		return
	}

	writeMessage(w, http.StatusCreated, product, "Product created")
}

// Update handles PUT /api/products/{id}.
func (h *ProductHandler) Update(w http.ResponseWriter, r *http.Request) {
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

	var req model.ProductRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, r, err, h.logger)
		return
	}

	product, err := h.service.Update(r.Context(), id, dealerID, &req)
	if err != nil {
		respondError(w, r, err, h.logger)
		return
	}

	writeMessage(w, http.StatusOK, product, "Product updated")
}

// UpdateStock handles PATCH /api/products/{id}/stock.
func (h *ProductHandler) UpdateStock(w http.ResponseWriter, r *http.Request) {
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

	var req model.StockRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, r, err, h.logger)
		return
	}

	product, err := h.service.UpdateStock(r.Context(), id, dealerID, &req)
	if err != nil {
		respondError(w, r, err, h.logger)
		return
	}

	writeMessage(w, http.StatusOK, product, "Stock updated")
}

// Delete handles DELETE /api/products/{id}.
func (h *ProductHandler) Delete(w http.ResponseWriter, r *http.Request) {
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

	if err := h.service.Delete(r.Context(), id, dealerID); err != nil {
		respondError(w, r, err, h.logger)
		return
	}

	writeMessage(w, http.StatusOK, nil, "Product deleted")
}
