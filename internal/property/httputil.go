package property

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strings"
)

// maxBodyBytes bounds create and patch request bodies.
const maxBodyBytes = 1 << 20

// apiError is the error body every handler returns. Error is a short key;
// Code, Details, Hint and StoreDetail are the record store's own diagnostics.
type apiError struct {
	Error       string `json:"error"`
	Message     string `json:"message"`
	Field       string `json:"field,omitempty"`
	Code        string `json:"code,omitempty"`
	Details     string `json:"details,omitempty"`
	Hint        string `json:"hint,omitempty"`
	StoreDetail string `json:"store_detail,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// writeError maps err onto a status and error body. failure is the general
// message shown for store errors, e.g. "Failed to update property". Store
// details and hints are only included when h.verbose is set.
func (h *Handlers) writeError(w http.ResponseWriter, failure string, err error) {
	var ve *ValidationError
	var se *StoreError
	switch {
	case errors.As(err, &ve):
		writeJSON(w, http.StatusBadRequest, apiError{
			Error:   "validation_error",
			Message: ve.Error(),
			Field:   ve.Field,
		})
	case errors.Is(err, ErrNotFound):
		writeJSON(w, http.StatusNotFound, apiError{
			Error:   "not_found",
			Message: "Property not found",
		})
	case errors.As(err, &se):
		log.Printf("[property] %s: %v", failure, se)
		body := apiError{
			Error:   "store_error",
			Message: failure,
			Code:    se.Code,
		}
		if h.verbose {
			body.Details = se.Message
			body.Hint = se.Hint
			body.StoreDetail = se.Details
			if body.Hint == "" && missingRelation(se.Message) {
				body.Hint = "The properties table is missing a column or does not exist; run the pending database migrations."
			}
		}
		writeJSON(w, http.StatusInternalServerError, body)
	default:
		log.Printf("[property] %s: %v", failure, err)
		writeJSON(w, http.StatusInternalServerError, apiError{
			Error:   "internal_error",
			Message: failure,
		})
	}
}

func missingRelation(msg string) bool {
	msg = strings.ToLower(msg)
	return strings.Contains(msg, "does not exist") || strings.Contains(msg, "no such column") ||
		strings.Contains(msg, "no such table")
}
