package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/rs/zerolog/log"

	"hrrecords/internal/domain/identity"
	"hrrecords/internal/platform/db"
	"hrrecords/internal/platform/storage"
	"hrrecords/internal/platform/validate"
)

type Error struct {
	Code    string         `json:"code"`
	Message string         `json:"message"`
	Details map[string]any `json:"details,omitempty"`
}

type Envelope struct {
	Success   bool   `json:"success"`
	Data      any    `json:"data,omitempty"`
	Error     *Error `json:"error,omitempty"`
	RequestID string `json:"requestId,omitempty"`
}

func WriteJSON(w http.ResponseWriter, status int, payload Envelope) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		log.Warn().Err(err).Msg("write json failed")
	}
}

func Success(w http.ResponseWriter, data any, requestID string) {
	WriteJSON(w, http.StatusOK, Envelope{Success: true, Data: data, RequestID: requestID})
}

func Created(w http.ResponseWriter, data any, requestID string) {
	WriteJSON(w, http.StatusCreated, Envelope{Success: true, Data: data, RequestID: requestID})
}

// Acknowledge answers a mutation that returns no entity.
func Acknowledge(w http.ResponseWriter, requestID string) {
	Success(w, map[string]bool{"success": true}, requestID)
}

func Fail(w http.ResponseWriter, status int, code, message, requestID string) {
	WriteJSON(w, status, Envelope{Success: false, Error: &Error{Code: code, Message: message}, RequestID: requestID})
}

func FailWithDetails(w http.ResponseWriter, status int, code, message string, details map[string]any, requestID string) {
	WriteJSON(w, status, Envelope{Success: false, Error: &Error{Code: code, Message: message, Details: details}, RequestID: requestID})
}

// WriteError maps a procedure error onto the envelope. Errors it does not
// recognise become a 500 with the given code and message.
func WriteError(w http.ResponseWriter, err error, code, message, requestID string) {
	var verr *validate.Error
	switch {
	case errors.As(err, &verr):
		FailWithDetails(w, http.StatusBadRequest, "validation_error", "invalid input", map[string]any{
			"fields": verr.Issues,
		}, requestID)
	case errors.Is(err, identity.ErrUnauthenticated):
		Fail(w, http.StatusUnauthorized, "unauthorized", identity.ErrUnauthenticated.Error(), requestID)
	case errors.Is(err, identity.ErrForbidden):
		Fail(w, http.StatusForbidden, "forbidden", identity.ErrForbidden.Error(), requestID)
	case errors.Is(err, db.ErrUnavailable):
		Fail(w, http.StatusServiceUnavailable, "database_unavailable", db.ErrUnavailable.Error(), requestID)
	case errors.Is(err, storage.ErrUnavailable):
		Fail(w, http.StatusServiceUnavailable, "storage_unavailable", storage.ErrUnavailable.Error(), requestID)
	default:
		log.Error().Err(err).Str("requestId", requestID).Str("code", code).Msg("request failed")
		Fail(w, http.StatusInternalServerError, code, message, requestID)
	}
}
