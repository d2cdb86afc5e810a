package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"brewalgo_client/internal/common"
	"brewalgo_client/internal/devserver/service"
	"brewalgo_client/internal/domain/model"

	"github.com/go-chi/chi/v5"
)

type AuthHandler struct {
	authService *service.AuthService
}

func NewAuthHandler(authService *service.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

func (h *AuthHandler) RegisterRoutes(r chi.Router) {
	r.Post("/register", h.register)
	r.Post("/login", h.login)
}

func (h *AuthHandler) register(w http.ResponseWriter, r *http.Request) {
	var req model.RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		common.RespondWithError(w, http.StatusBadRequest, "Invalid request payload: "+err.Error())
		return
	}

	resp, err := h.authService.Register(r.Context(), req)
	if err != nil {
		respondError(w, err, "Registration failed")
		return
	}
	common.RespondWithJSON(w, http.StatusCreated, resp)
}

func (h *AuthHandler) login(w http.ResponseWriter, r *http.Request) {
	var req model.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		common.RespondWithError(w, http.StatusBadRequest, "Invalid request payload: "+err.Error())
		return
	}
	resp, err := h.authService.Login(r.Context(), req)
	if err != nil {
		respondError(w, err, "Login failed")
		return
	}
	common.RespondWithJSON(w, http.StatusOK, resp)
}

// respondError writes err with the status it maps to. Client errors carry a
// readable message; server errors get fallback so internals stay private.
func respondError(w http.ResponseWriter, err error, fallback string) {
	code := common.HTTPStatusFromError(err)
	switch {
	case errors.Is(err, service.ErrInvalidCredentials):
		common.RespondWithError(w, code, "Invalid username or password")
	case errors.Is(err, service.ErrAccountTaken):
		common.RespondWithError(w, code, "Username or email already exists")
	case code >= http.StatusInternalServerError:
		common.RespondWithError(w, code, fallback)
	default:
		common.RespondWithError(w, code, err.Error())
	}
}
