package httpapi

import (
	"net/http"
	"time"

	"log/slog"

	"github.com/norrbil/rentals/internal/auth"
	"github.com/norrbil/rentals/internal/domain"
)

// Register attaches API routes to the provided mux.
func Register(mux *http.ServeMux, logger *slog.Logger, services domain.Container, sessions *auth.Store) {
	mux.HandleFunc("/v1/ping", func(w http.ResponseWriter, r *http.Request) {
		respondJSON(w, http.StatusOK, map[string]any{
			"status":  "ok",
			"time":    time.Now().UTC().Format(time.RFC3339),
			"server":  "norrbil-rentals",
			"version": "v1",
		})
	})

	resolve := newActorResolver(sessions, services.Identity, services.Customers)

	registerAuthRoutes(mux, logger, services.Identity, sessions)
	registerAdminRoutes(mux, logger, services, sessions)
	registerCarRoutes(mux, logger, services.Cars, resolve)
	registerCustomerRoutes(mux, logger, services.Customers, resolve)
	registerBookingRoutes(mux, logger, services.Bookings, resolve)
}
