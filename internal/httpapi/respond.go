package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"

	"log/slog"

	"github.com/norrbil/rentals/internal/domain/authz"
	"github.com/norrbil/rentals/internal/domain/bookings"
	"github.com/norrbil/rentals/internal/domain/cars"
	"github.com/norrbil/rentals/internal/domain/customers"
	"github.com/norrbil/rentals/internal/domain/identity"
	"github.com/norrbil/rentals/internal/domain/validation"
)

func respondJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		// If encoding fails there's not much we can do; log to stderr.
		slog.Default().Error("failed to encode response", "err", err)
	}
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}

// respondRedirect reports a condition that the UI resolves by sending the
// user somewhere else (customer signup, booking creation).
func respondRedirect(w http.ResponseWriter, status int, message, location string) {
	respondJSON(w, status, map[string]string{"error": message, "redirect": location})
}

// respondServiceError maps domain errors onto HTTP responses. Anything
// unrecognized is treated as fatal: logged and answered with a bare 500.
func respondServiceError(w http.ResponseWriter, logger *slog.Logger, action string, err error) {
	var verr *validation.Error

	switch {
	case errors.As(err, &verr):
		respondJSON(w, http.StatusUnprocessableEntity, map[string]any{
			"error":  "validation failed",
			"fields": verr.Fields,
		})
	case errors.Is(err, authz.ErrUnauthenticated):
		respondError(w, http.StatusUnauthorized, "authentication required")
	case errors.Is(err, authz.ErrForbidden):
		respondError(w, http.StatusForbidden, "forbidden")
	case errors.Is(err, cars.ErrNotFound),
		errors.Is(err, customers.ErrNotFound),
		errors.Is(err, bookings.ErrNotFound),
		errors.Is(err, identity.ErrNotFound):
		respondError(w, http.StatusNotFound, "not found")
	case errors.Is(err, bookings.ErrCustomerRequired):
		respondRedirect(w, http.StatusConflict, "customer profile required before booking", "/v1/customers")
	case errors.Is(err, customers.ErrAlreadyRegistered):
		respondRedirect(w, http.StatusConflict, "customer profile already exists", "/v1/bookings")
	case errors.Is(err, bookings.ErrDatesUnavailable):
		respondError(w, http.StatusConflict, "car is already booked for the requested dates")
	case errors.Is(err, cars.ErrConflict),
		errors.Is(err, customers.ErrConflict),
		errors.Is(err, bookings.ErrConflict):
		respondError(w, http.StatusConflict, "record was modified concurrently")
	case errors.Is(err, cars.ErrNotImplemented),
		errors.Is(err, customers.ErrNotImplemented),
		errors.Is(err, bookings.ErrNotImplemented),
		errors.Is(err, identity.ErrNotImplemented):
		respondError(w, http.StatusNotImplemented, action+" not yet implemented")
	default:
		logger.Error(action+" failed", "err", err)
		respondError(w, http.StatusInternalServerError, "internal error")
	}
}
