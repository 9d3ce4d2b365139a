package handler

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"

	"dealer-kart/internal/middleware"
	"dealer-kart/internal/model"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

const maxBodyBytes = 1 << 20

// Response is the envelope for every JSON response.
type Response struct {
	Success bool   `json:"success"`
	Data    any    `json:"data,omitempty"`
	Error   string `json:"error,omitempty"`
	Code    string `json:"code,omitempty"`
	Message string `json:"message,omitempty"`
}

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		// Log the error but don't expose it to the client
		return
	}
}

// writeData writes a successful envelope.
func writeData(w http.ResponseWriter, status int, data any) {
	writeJSON(w, status, Response{Success: true, Data: data})
}

// writeMessage writes a successful envelope with a message.
func writeMessage(w http.ResponseWriter, status int, data any, message string) {
	writeJSON(w, status, Response{Success: true, Data: data, Message: message})
}

// writeError writes an error response with the given status code and message.
func writeError(w http.ResponseWriter, status int, message string, logger zerolog.Logger) {
	event := logger.Warn()
	if status >= http.StatusInternalServerError {
		event = logger.Error()
	}
	event.Str("error", message).Int("status", status).Msg("handler error")
	writeJSON(w, status, Response{Success: false, Error: message})
}

// statusFor maps a domain error kind to an HTTP status.
func statusFor(kind model.ErrorKind) int {
	switch kind {
	case model.KindValidation:
		return http.StatusBadRequest
	case model.KindUnauthorized:
		return http.StatusUnauthorized
	case model.KindForbidden:
		return http.StatusForbidden
	case model.KindNotFound:
		return http.StatusNotFound
	case model.KindConflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// respondError writes err as an envelope. Errors that are not domain errors are logged with
// their cause and reported as a generic 500.
func respondError(w http.ResponseWriter, r *http.Request, err error, logger zerolog.Logger) {
	if de, ok := model.AsDomainError(err); ok {
		status := statusFor(de.Kind)
		if status == http.StatusInternalServerError {
			logger.Error().Err(err).Str("path", r.URL.Path).Msg("internal domain error")
			writeError(w, status, "internal server error", logger)
			return
		}
		writeJSON(w, status, Response{Success: false, Error: de.Message, Code: de.Code})
		logger.Debug().Str("code", de.Code).Int("status", status).Str("path", r.URL.Path).Msg("request rejected")
		return
	}

	logger.Error().Err(err).Str("method", r.Method).Str("path", r.URL.Path).Msg("request failed")
	writeError(w, http.StatusInternalServerError, "internal server error", logger)
}

// decodeJSON reads a JSON request body into v.
func decodeJSON(r *http.Request, v any) error {
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	if err := dec.Decode(v); err != nil {
		if errors.Is(err, io.EOF) {
			return model.NewDomainError(model.KindValidation, model.ErrCodeInvalidJSON, "request body is required")
		}
		return model.NewDomainError(model.KindValidation, model.ErrCodeInvalidJSON, "invalid request body")
	}
	return nil
}

// pathID parses a UUID path parameter.
func pathID(r *http.Request, name string) (uuid.UUID, error) {
	raw := chi.URLParam(r, name)
	if raw == "" {
		return uuid.Nil, model.NewValidationError(name + " is required")
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, model.NewValidationError("invalid " + name + " format")
	}
	return id, nil
}

// queryInt parses an optional integer query parameter.
func queryInt(r *http.Request, name string) (int, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, model.NewValidationError("invalid " + name + " parameter")
	}
	return n, nil
}

// queryStatus parses the optional status filter.
func queryStatus(r *http.Request) *model.OrderStatus {
	raw := r.URL.Query().Get("status")
	if raw == "" {
		return nil
	}
	status := model.OrderStatus(raw)
	return &status
}

// callerID returns the authenticated user's ID.
func callerID(r *http.Request) (uuid.UUID, error) {
	id, ok := middleware.IdentityFrom(r.Context())
	if !ok {
		return uuid.Nil, model.NewDomainError(model.KindUnauthorized, model.ErrCodeUnauthorised, "authentication required")
	}
	return id.UserID, nil
}

// Health handles GET /health.
func Health(w http.ResponseWriter, r *http.Request) {
	writeData(w, http.StatusOK, map[string]string{"status": "healthy"})
}
