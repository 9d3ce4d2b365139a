package handler

import (
	"net/http"

	"dealer-kart/internal/model"
	"dealer-kart/internal/service"

	"github.com/rs/zerolog"
)

// ContactHandler handles contact form messages and test submissions.
type ContactHandler struct {
	service service.ContactService
	logger  zerolog.Logger
}

// NewContactHandler creates a new contact handler.
func NewContactHandler(service service.ContactService, logger zerolog.Logger) *ContactHandler {
	return &ContactHandler{
		service: service,
		logger:  logger.With().Str("handler", "contact").Logger(),
	}
}

func pagination(r *http.Request) (int, int, error) {
	limit, err := queryInt(r, "limit")
	if err != nil {
		return 0, 0, err
	}
	offset, err := queryInt(r, "offset")
	if err != nil {
		return 0, 0, err
	}
	return limit, offset, nil
}

// CreateContact handles POST /api/contact.
func (h *ContactHandler) CreateContact(w http.ResponseWriter, r *http.Request) {
	var contact model.Contact
	if err := decodeJSON(r, &contact); err != nil {
		respondError(w, r, err, h.logger)
		return
	}

	created, err := h.service.CreateContact(r.Context(), &contact)
	if err != nil {
		respondError(w, r, err, h.logger)
		return
	}

	writeMessage(w, http.StatusCreated, created, "Message received")
}

// ListContacts handles GET /api/admin/dealer/contacts.
func (h *ContactHandler) ListContacts(w http.ResponseWriter, r *http.Request) {
	limit, offset, err := pagination(r)
	if err != nil {
		respondError(w, r, err, h.logger)
		return
	}

	contacts, err := h.service.ListContacts(r.Context(), limit, offset)
	if err != nil {
		respondError(w, r, err, h.logger)
		return
	}

	writeData(w, http.StatusOK, contacts)
}

// CreateSubmission handles POST /api/test-submissions.
func (h *ContactHandler) CreateSubmission(w http.ResponseWriter, r *http.Request) {
	var submission model.TestSubmission
	if err := decodeJSON(r, &submission); err != nil {
		respondError(w, r, err, h.logger)
		return
	}

	created, err := h.service.CreateSubmission(r.Context(), &submission)
	if err != nil {
		respondError(w, r, err, h.logger)
		return
	}

	writeMessage(w, http.StatusCreated, created, "Submission received")
}

// ListSubmissions handles GET /api/admin/dealer/test-submissions.
func (h *ContactHandler) ListSubmissions(w http.ResponseWriter, r *http.Request) {
	limit, offset, err := pagination(r)
	if err != nil {
		respondError(w, r, err, h.logger)
		return
	}

	submissions, err := h.service.ListSubmissions(r.Context(), limit, offset)
	if err != nil {
		respondError(w, r, err, h.logger)
		return
	}

	writeData(w, http.StatusOK, submissions)
}
