package httpapi

import (
	"encoding/json"
	"net/http"
	"strings"

	"log/slog"

	"github.com/norrbil/rentals/internal/domain/cars"
)

type carPayload struct {
	Brand       string `json:"brand"`
	Model       string `json:"model"`
	Color       string `json:"color"`
	IsAvailable *bool  `json:"is_available"`
	ImageURL    string `json:"image_url"`
}

func (p carPayload) input() cars.Input {
	return cars.Input{
		Brand:       p.Brand,
		Model:       p.Model,
		Color:       p.Color,
		IsAvailable: p.IsAvailable,
		ImageURL:    p.ImageURL,
	}
}

func registerCarRoutes(mux *http.ServeMux, logger *slog.Logger, service cars.Service, resolve actorResolver) {
	mux.HandleFunc("/v1/cars", func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			handleCarList(w, logger, service)
		case http.MethodPost:
			handleCarCreate(w, r, logger, service, resolve)
		default:
			w.WriteHeader(http.StatusMethodNotAllowed)
		}
	})

	mux.HandleFunc("/v1/cars/", func(w http.ResponseWriter, r *http.Request) {
		id := strings.TrimPrefix(r.URL.Path, "/v1/cars/")
		if id == "" || strings.Contains(id, "/") {
			respondError(w, http.StatusBadRequest, "missing car id")
			return
		}

		switch r.Method {
		case http.MethodGet:
			handleCarGet(w, logger, service, id)
		case http.MethodPut:
			handleCarUpdate(w, r, logger, service, id, resolve)
		case http.MethodDelete:
			handleCarDelete(w, r, logger, service, id, resolve)
		default:
			w.WriteHeader(http.StatusMethodNotAllowed)
		}
	})
}

func handleCarList(w http.ResponseWriter, logger *slog.Logger, service cars.Service) {
	list, err := service.List()
	if err != nil {
		respondServiceError(w, logger, "list cars", err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]any{
		"data":  list,
		"count": len(list),
	})
}

func handleCarGet(w http.ResponseWriter, logger *slog.Logger, service cars.Service, id string) {
	car, err := service.Get(id)
	if err != nil {
		respondServiceError(w, logger, "get car", err)
		return
	}
	respondJSON(w, http.StatusOK, car)
}

func handleCarCreate(w http.ResponseWriter, r *http.Request, logger *slog.Logger, service cars.Service, resolve actorResolver) {
	var payload carPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		respondError(w, http.StatusBadRequest, "invalid JSON payload")
		return
	}

	car, err := service.Create(payload.input(), resolve(r))
	if err != nil {
		respondServiceError(w, logger, "create car", err)
		return
	}
	respondJSON(w, http.StatusCreated, car)
}

func handleCarUpdate(w http.ResponseWriter, r *http.Request, logger *slog.Logger, service cars.Service, id string, resolve actorResolver) {
	var payload carPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		respondError(w, http.StatusBadRequest, "invalid JSON payload")
		return
	}

	car, err := service.Update(id, payload.input(), resolve(r))
	if err != nil {
		respondServiceError(w, logger, "update car", err)
		return
	}
	respondJSON(w, http.StatusOK, car)
}

func handleCarDelete(w http.ResponseWriter, r *http.Request, logger *slog.Logger, service cars.Service, id string, resolve actorResolver) {
	if err := service.Delete(id, resolve(r)); err != nil {
		respondServiceError(w, logger, "delete car", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
