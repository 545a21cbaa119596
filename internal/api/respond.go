package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/emel-04/FlatmateHarmony/internal/auth"
	"github.com/emel-04/FlatmateHarmony/internal/chat"
	"github.com/emel-04/FlatmateHarmony/internal/household"
	"github.com/emel-04/FlatmateHarmony/internal/ledger"
	"github.com/emel-04/FlatmateHarmony/internal/storage"
)

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v != nil {
		if err := json.NewEncoder(w).Encode(v); err != nil {
			slog.Error("failed to encode response", "error", err)
		}
	}
}

// writeError maps service errors onto HTTP statuses so clients can tell
// "fix your input" from "not there" from "try again". Internal errors
// get a generic body; the detail goes to the log only.
func writeError(w http.ResponseWriter, err error) {
	status := statusFor(err)
	msg := err.Error()
	if status == http.StatusInternalServerError {
		slog.Error("request failed", "error", err)
		msg = "internal error"
	}
	writeJSON(w, status, errorResponse{Error: msg})
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, ledger.ErrInvalidAmount),
		errors.Is(err, ledger.ErrInvalidTransfer),
		errors.Is(err, ledger.ErrInvalidPayer),
		errors.Is(err, household.ErrEmptyName),
		errors.Is(err, chat.ErrEmptyMessage),
		errors.Is(err, auth.ErrWeakPassword):
		return http.StatusBadRequest
	case errors.Is(err, auth.ErrInvalidCredentials),
		errors.Is(err, auth.ErrInvalidToken),
		errors.Is(err, auth.ErrMissingToken):
		return http.StatusUnauthorized
	case errors.Is(err, ledger.ErrHouseholdNotFound),
		errors.Is(err, household.ErrNotFound),
		errors.Is(err, household.ErrInvalidCode),
		errors.Is(err, storage.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, auth.ErrEmailExists):
		return http.StatusConflict
	case errors.Is(err, ledger.ErrEmptyHousehold):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

// decode reads a JSON body into v, rejecting unknown fields.
func decode(r *http.Request, v interface{}) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(v)
}
