package handler

import (
	"net/http"

	"dealer-kart/internal/model"
	"dealer-kart/internal/service"

	"github.com/rs/zerolog"
)

// AccountHandler handles registration, login and profiles for customers and dealers.
type AccountHandler struct {
	service service.AccountService
	logger  zerolog.Logger
}

// NewAccountHandler creates a new account handler.
func NewAccountHandler(service service.AccountService, logger zerolog.Logger) *AccountHandler {
	return &AccountHandler{
		service: service,
		logger:  logger.With().Str("handler", "account").Logger(),
	}
}

// RegisterCustomer handles POST /api/customers/register.
func (h *AccountHandler) RegisterCustomer(w http.ResponseWriter, r *http.Request) {
	var req model.RegisterRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, r, err, h.logger)
		return
	}

	resp, err := h.service.RegisterCustomer(r.Context(), &req)
	if err != nil {
		respondError(w, r, err, h.logger)
		return
	}

	writeMessage(w, http.StatusCreated, resp, "Registration successful")
}

// LoginCustomer handles POST /api/customers/login.
func (h *AccountHandler) LoginCustomer(w http.ResponseWriter, r *http.Request) {
	var req model.LoginRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, r, err, h.logger)
		return
	}

	resp, err := h.service.LoginCustomer(r.Context(), &req)
	if err != nil {
		respondError(w, r, err, h.logger)
		return
	}

	writeMessage(w, http.StatusOK, resp, "Login successful")
}

// CustomerProfile handles GET /api/customers/me.
func (h *AccountHandler) CustomerProfile(w http.ResponseWriter, r *http.Request) {
	id, err := callerID(r)
	if err != nil {
		respondError(w, r, err, h.logger)
		return
	}

	customer, err := h.service.GetCustomer(r.Context(), id)
	if err != nil {
		respondError(w, r, err, h.logger)
		return
	}

	writeData(w, http.StatusOK, customer)
}

// UpdateCustomerProfile handles PUT /api/customers/me.
func (h *AccountHandler) UpdateCustomerProfile(w http.ResponseWriter, r *http.Request) {
	id, err := callerID(r)
	if err != nil {
		respondError(w, r, err, h.logger)
		return
	}

	var update model.ProfileUpdate
	if err := decodeJSON(r, &update); err != nil {
		respondError(w, r, err, h.logger)
		return
	}

	customer, err := h.service.UpdateCustomer(r.Context(), id, &update)
	if err != nil {
		respondError(w, r, err, h.logger)
		return
	}

	writeMessage(w, http.StatusOK, customer, "Profile updated")
}

// RegisterDealer handles POST /api/dealers/register.
func (h *AccountHandler) RegisterDealer(w http.ResponseWriter, r *http.Request) {
	var req model.RegisterRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, r, err, h.logger)
		return
	}

	resp, err := h.service.RegisterDealer(r.Context(), &req)
	if err != nil {
		respondError(w, r, err, h.logger)
		return
	}

	writeMessage(w, http.StatusCreated, resp, "Registration successful")
}

// LoginDealer handles POST /api/dealers/login.
func (h *AccountHandler) LoginDealer(w http.ResponseWriter, r *http.Request) {
	var req model.LoginRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, r, err, h.logger)
		return
	}

	resp, err := h.service.LoginDealer(r.Context(), &req)
	if err != nil {
		respondError(w, r, err, h.logger)
		return
	}

	writeMessage(w, http.StatusOK, resp, "Login successful")
}

// DealerProfile handles GET /api/dealers/me.
func (h *AccountHandler) DealerProfile(w http.ResponseWriter, r *http.Request) {
	id, err := callerID(r)
	if err != nil {
		respondError(w, r, err, h.logger)
		return
	}

	dealer, err := h.service.GetDealer(r.Context(), id)
	if err != nil {
		respondError(w, r, err, h.logger)
		return
	}

	writeData(w, http.StatusOK, dealer)
}

// UpdateDealerProfile handles PUT /api/dealers/me.
func (h *AccountHandler) UpdateDealerProfile(w http.ResponseWriter, r *http.Request) {
	id, err := callerID(r)
	if err != nil {
		respondError(w, r, err, h.logger)
		return
	}

	var update model.ProfileUpdate
	if err := decodeJSON(r, &update); err != nil {
		respondError(w, r, err, h.logger)
		return
	}

	dealer, err := h.service.UpdateDealer(r.Context(), id, &update)
	if err != nil {
		respondError(w, r, err, h.logger)
		return
	}

	writeMessage(w, http.StatusOK, dealer, "Profile updated")
}
