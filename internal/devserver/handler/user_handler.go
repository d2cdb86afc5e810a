package handler

import (
	"net/http"

	"brewalgo_client/internal/common"
	"brewalgo_client/internal/devserver/service"

	"github.com/go-chi/chi/v5"
)

type UserHandler struct {
	userService *service.UserService
}

func NewUserHandler(us *service.UserService) *UserHandler {
	return &UserHandler{userService: us}
}

func (h *UserHandler) RegisterRoutes(r chi.Router) {
	r.Get("/{userID}", h.getUser)
	r.Get("/by-username/{username}", h.getUserByUsername)
}

func (h *UserHandler) getUser(w http.ResponseWriter, r *http.Request) {
	id, ok := int64Param(w, r, "userID")
	if !ok {
		return
	}
	user, err := h.userService.GetUser(r.Context(), id)
	if err != nil {
		respondError(w, err, "Failed to load user")
		return
	}
	common.RespondWithJSON(w, http.StatusOK, user)
}

func (h *UserHandler) getUserByUsername(w http.ResponseWriter, r *http.Request) {
	user, err := h.userService.GetUserByUsername(r.Context(), chi.URLParam(r, "username"))
	if err != nil {
		respondError(w, err, "Failed to load user")
		return
	}
	common.RespondWithJSON(w, http.StatusOK, user)
}
