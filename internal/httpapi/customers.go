package httpapi

import (
	"encoding/json"
	"net/http"
	"strings"

	"log/slog"

	"github.com/norrbil/rentals/internal/domain/customers"
)

type customerPayload struct {
	FirstName   string `json:"first_name"`
	LastName    string `json:"last_name"`
	PhoneNumber string `json:"phone_number"`
	Email       string `json:"email"`
	RawPassword string `json:"raw_password"`
}

func registerCustomerRoutes(mux *http.ServeMux, logger *slog.Logger, service customers.Service, resolve actorResolver) {
	mux.HandleFunc("/v1/customers", func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			handleCustomerList(w, r, logger, service, resolve)
		case http.MethodPost:
			handleCustomerCreate(w, r, logger, service, resolve)
		default:
			w.WriteHeader(http.StatusMethodNotAllowed)
		}
	})

	mux.HandleFunc("/v1/customers/", func(w http.ResponseWriter, r *http.Request) {
		id := strings.TrimPrefix(r.URL.Path, "/v1/customers/")
		if id == "" || strings.Contains(id, "/") {
			respondError(w, http.StatusBadRequest, "missing customer id")
			return
		}

		switch r.Method {
		case http.MethodGet:
			handleCustomerGet(w, r, logger, service, id, resolve)
		case http.MethodPut:
			handleCustomerUpdate(w, r, logger, service, id, resolve)
		case http.MethodDelete:
			handleCustomerDelete(w, r, logger, service, id, resolve)
		default:
			w.WriteHeader(http.StatusMethodNotAllowed)
		}
	})
}

func handleCustomerList(w http.ResponseWriter, r *http.Request, logger *slog.Logger, service customers.Service, resolve actorResolver) {
	list, err := service.List(resolve(r))
	if err != nil {
		respondServiceError(w, logger, "list customers", err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]any{
		"data":  list,
		"count": len(list),
	})
}

func handleCustomerGet(w http.ResponseWriter, r *http.Request, logger *slog.Logger, service customers.Service, id string, resolve actorResolver) {
	customer, err := service.Get(id, resolve(r))
	if err != nil {
		respondServiceError(w, logger, "get customer", err)
		return
	}
	respondJSON(w, http.StatusOK, customer)
}

func handleCustomerCreate(w http.ResponseWriter, r *http.Request, logger *slog.Logger, service customers.Service, resolve actorResolver) {
	var payload customerPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		respondError(w, http.StatusBadRequest, "invalid JSON payload")
		return
	}

	actor := resolve(r)
	customer, err := service.Create(customers.CreateInput{
		FirstName:   payload.FirstName,
		LastName:    payload.LastName,
		PhoneNumber: payload.PhoneNumber,
		Email:       payload.Email,
		RawPassword: payload.RawPassword,
	}, actor)
	if err != nil {
		respondServiceError(w, logger, "create customer", err)
		return
	}

	// Self-service signups continue to booking creation; admins go back to
	// the customer list.
	redirect := "/v1/customers"
	if !actor.Admin {
		redirect = "/v1/bookings"
	}
	respondJSON(w, http.StatusCreated, map[string]any{
		"customer": customer,
		"redirect": redirect,
	})
}

func handleCustomerUpdate(w http.ResponseWriter, r *http.Request, logger *slog.Logger, service customers.Service, id string, resolve actorResolver) {
	var payload customerPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		respondError(w, http.StatusBadRequest, "invalid JSON payload")
		return
	}

	customer, err := service.Update(id, customers.UpdateInput{
		FirstName:   payload.FirstName,
		LastName:    payload.LastName,
		PhoneNumber: payload.PhoneNumber,
		Email:       payload.Email,
	}, resolve(r))
	if err != nil {
		respondServiceError(w, logger, "update customer", err)
		return
	}
	respondJSON(w, http.StatusOK, customer)
}

func handleCustomerDelete(w http.ResponseWriter, r *http.Request, logger *slog.Logger, service customers.Service, id string, resolve actorResolver) {
	if err := service.Delete(id, resolve(r)); err != nil {
		respondServiceError(w, logger, "delete customer", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
