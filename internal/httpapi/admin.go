package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"

	"log/slog"

	"github.com/norrbil/rentals/internal/auth"
	"github.com/norrbil/rentals/internal/domain"
	"github.com/norrbil/rentals/internal/domain/identity"
)

func registerAdminRoutes(mux *http.ServeMux, logger *slog.Logger, services domain.Container, sessions *auth.Store) {
	mux.HandleFunc("/admin/login", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		handleAdminLogin(w, r, logger, services.Identity, sessions)
	})

	mux.HandleFunc("/admin/dashboard", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		handleAdminDashboard(w, r, logger, services, sessions)
	})
}

func handleAdminLogin(w http.ResponseWriter, r *http.Request, logger *slog.Logger, service identity.Service, sessions *auth.Store) {
	var payload loginPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		respondError(w, http.StatusBadRequest, "invalid JSON payload")
		return
	}

	user, err := service.AuthenticateAdmin(payload.Email, payload.Password)
	if err != nil {
		// Every failure mode gets the same message so the response does not
		// reveal whether the account exists or lacks the admin role.
		if errors.Is(err, identity.ErrInvalidCredentials) {
			respondError(w, http.StatusUnauthorized, "invalid login or not authorized")
			return
		}
		respondServiceError(w, logger, "admin login", err)
		return
	}

	session := sessions.Issue(user.ID)
	respondJSON(w, http.StatusOK, map[string]any{
		"user":     user,
		"token":    session.Token,
		"redirect": "/admin/dashboard",
	})
}

// handleAdminDashboard requires a live session but not the admin role; it
// exposes only aggregate counts.
func handleAdminDashboard(w http.ResponseWriter, r *http.Request, logger *slog.Logger, services domain.Container, sessions *auth.Store) {
	token := bearerToken(r)
	if token == "" {
		respondError(w, http.StatusUnauthorized, "authentication required")
		return
	}
	if _, ok := sessions.Get(token); !ok {
		respondError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	carCount, err := services.Cars.Count()
	if err != nil {
		respondServiceError(w, logger, "count cars", err)
		return
	}
	customerCount, err := services.Customers.Count()
	if err != nil {
		respondServiceError(w, logger, "count customers", err)
		return
	}
	bookingCount, err := services.Bookings.Count()
	if err != nil {
		respondServiceError(w, logger, "count bookings", err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]any{
		"cars":      carCount,
		"customers": customerCount,
		"bookings":  bookingCount,
	})
}
