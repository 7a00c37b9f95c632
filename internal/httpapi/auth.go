package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"

	"log/slog"

	"github.com/norrbil/rentals/internal/auth"
	"github.com/norrbil/rentals/internal/domain/identity"
)

type registerPayload struct {
	Email    string `json:"email"`
	Name     string `json:"name"`
	Password string `json:"password"`
}

type loginPayload struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func registerAuthRoutes(mux *http.ServeMux, logger *slog.Logger, service identity.Service, sessions *auth.Store) {
	mux.HandleFunc("/v1/auth/register", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		handleAuthRegister(w, r, logger, service, sessions)
	})

	mux.HandleFunc("/v1/auth/login", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		handleAuthLogin(w, r, logger, service, sessions)
	})
}

func handleAuthRegister(w http.ResponseWriter, r *http.Request, logger *slog.Logger, service identity.Service, sessions *auth.Store) {
	var payload registerPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		respondError(w, http.StatusBadRequest, "invalid JSON payload")
		return
	}

	user, err := service.Register(identity.RegisterInput{
		Email:    payload.Email,
		Name:     payload.Name,
		Password: payload.Password,
	})
	if err != nil {
		if errors.Is(err, identity.ErrEmailExists) {
			respondError(w, http.StatusConflict, "email already registered")
			return
		}
		respondServiceError(w, logger, "register user", err)
		return
	}

	session := sessions.Issue(user.ID)
	respondJSON(w, http.StatusCreated, map[string]any{
		"user":  user,
		"token": session.Token,
	})
}

func handleAuthLogin(w http.ResponseWriter, r *http.Request, logger *slog.Logger, service identity.Service, sessions *auth.Store) {
	var payload loginPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		respondError(w, http.StatusBadRequest, "invalid JSON payload")
		return
	}

	user, err := service.Authenticate(payload.Email, payload.Password)
	if err != nil {
		if errors.Is(err, identity.ErrInvalidCredentials) {
			respondError(w, http.StatusUnauthorized, "invalid credentials")
			return
		}
		respondServiceError(w, logger, "login", err)
		return
	}

	session := sessions.Issue(user.ID)
	respondJSON(w, http.StatusOK, map[string]any{
		"user":  user,
		"token": session.Token,
	})
}
