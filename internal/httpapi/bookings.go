package httpapi

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"log/slog"

	"github.com/norrbil/rentals/internal/domain/bookings"
)

type bookingPayload struct {
	CarID      string `json:"car_id"`
	CustomerID string `json:"customer_id"`
	StartDate  string `json:"start_date"`
	EndDate    string `json:"end_date"`
}

// input parses the date-only fields. Unparseable dates come back as a field
// message; absent dates stay zero for the service's required-field checks.
func (p bookingPayload) input() (bookings.Input, map[string]string) {
	problems := make(map[string]string)

	parse := func(field, value string) time.Time {
		if value == "" {
			return time.Time{}
		}
		t, err := time.Parse(time.DateOnly, value)
		if err != nil {
			problems[field] = "must be a date in YYYY-MM-DD form"
			return time.Time{}
		}
		return t
	}

	input := bookings.Input{
		CarID:      p.CarID,
		CustomerID: p.CustomerID,
		StartDate:  parse("start_date", p.StartDate),
		EndDate:    parse("end_date", p.EndDate),
	}
	if len(problems) == 0 {
		return input, nil
	}
	return input, problems
}

func registerBookingRoutes(mux *http.ServeMux, logger *slog.Logger, service bookings.Service, resolve actorResolver) {
	mux.HandleFunc("/v1/bookings", func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			handleBookingList(w, logger, service)
		case http.MethodPost:
			handleBookingCreate(w, r, logger, service, resolve)
		default:
			w.WriteHeader(http.StatusMethodNotAllowed)
		}
	})

	mux.HandleFunc("/v1/bookings/", func(w http.ResponseWriter, r *http.Request) {
		remainder := strings.TrimPrefix(r.URL.Path, "/v1/bookings/")

		if id, ok := strings.CutSuffix(remainder, "/confirmation"); ok && id != "" {
			if r.Method != http.MethodGet {
				w.WriteHeader(http.StatusMethodNotAllowed)
				return
			}
			handleBookingConfirmation(w, logger, service, id)
			return
		}

		if remainder == "" || strings.Contains(remainder, "/") {
			respondError(w, http.StatusBadRequest, "missing booking id")
			return
		}

		switch r.Method {
		case http.MethodGet:
			handleBookingGet(w, logger, service, remainder)
		case http.MethodPut:
			handleBookingUpdate(w, r, logger, service, remainder, resolve)
		case http.MethodDelete:
			handleBookingDelete(w, r, logger, service, remainder, resolve)
		default:
			w.WriteHeader(http.StatusMethodNotAllowed)
		}
	})

	mux.HandleFunc("/v1/my/bookings", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		handleBookingListMine(w, r, logger, service, resolve)
	})
}

func handleBookingList(w http.ResponseWriter, logger *slog.Logger, service bookings.Service) {
	list, err := service.List()
	if err != nil {
		respondServiceError(w, logger, "list bookings", err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]any{
		"data":  list,
		"count": len(list),
	})
}

func handleBookingListMine(w http.ResponseWriter, r *http.Request, logger *slog.Logger, service bookings.Service, resolve actorResolver) {
	list, err := service.ListForUser(resolve(r))
	if err != nil {
		respondServiceError(w, logger, "list my bookings", err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]any{
		"data":  list,
		"count": len(list),
	})
}

func handleBookingGet(w http.ResponseWriter, logger *slog.Logger, service bookings.Service, id string) {
	booking, err := service.Get(id)
	if err != nil {
		respondServiceError(w, logger, "get booking", err)
		return
	}
	respondJSON(w, http.StatusOK, booking)
}

func handleBookingConfirmation(w http.ResponseWriter, logger *slog.Logger, service bookings.Service, id string) {
	booking, err := service.Confirmation(id)
	if err != nil {
		respondServiceError(w, logger, "booking confirmation", err)
		return
	}
	respondJSON(w, http.StatusOK, booking)
}

func handleBookingCreate(w http.ResponseWriter, r *http.Request, logger *slog.Logger, service bookings.Service, resolve actorResolver) {
	var payload bookingPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		respondError(w, http.StatusBadRequest, "invalid JSON payload")
		return
	}

	input, problems := payload.input()
	if problems != nil {
		respondJSON(w, http.StatusUnprocessableEntity, map[string]any{
			"error":  "validation failed",
			"fields": problems,
		})
		return
	}

	booking, err := service.Create(input, resolve(r))
	if err != nil {
		respondServiceError(w, logger, "create booking", err)
		return
	}

	respondJSON(w, http.StatusCreated, map[string]any{
		"booking":  booking,
		"redirect": "/v1/bookings/" + booking.ID + "/confirmation",
	})
}

func handleBookingUpdate(w http.ResponseWriter, r *http.Request, logger *slog.Logger, service bookings.Service, id string, resolve actorResolver) {
	var payload bookingPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		respondError(w, http.StatusBadRequest, "invalid JSON payload")
		return
	}

	input, problems := payload.input()
	if problems != nil {
		respondJSON(w, http.StatusUnprocessableEntity, map[string]any{
			"error":  "validation failed",
			"fields": problems,
		})
		return
	}

	booking, err := service.Update(id, input, resolve(r))
	if err != nil {
		respondServiceError(w, logger, "update booking", err)
		return
	}
	respondJSON(w, http.StatusOK, booking)
}

func handleBookingDelete(w http.ResponseWriter, r *http.Request, logger *slog.Logger, service bookings.Service, id string, resolve actorResolver) {
	if err := service.Delete(id, resolve(r)); err != nil {
		respondServiceError(w, logger, "delete booking", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
