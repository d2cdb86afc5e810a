package handler

import (
	"errors"
	"net/http"
	"strings"

	"brewalgo_client/internal/api/middleware"
	"brewalgo_client/internal/common"
	"brewalgo_client/internal/domain/model"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type UserHandler struct {
	sessions Sessions
	users    UserAPI
	logger   *zap.Logger
}

func NewUserHandler(sessions Sessions, users UserAPI, logger *zap.Logger) *UserHandler {
	return &UserHandler{sessions: sessions, users: users, logger: logger}
}

func (h *UserHandler) RegisterRoutes(r chi.Router) {
	r.Get("/profile", h.profile)
	r.Get("/users/{username}", h.getUser)
}

type userResponse struct {
	View  string      `json:"view"`
	User  *model.User `json:"user"`
	Error string      `json:"error,omitempty"`
}

// profile shows the signed-in user, refreshed from the backend when it is
// reachable and from the stored snapshot otherwise.
func (h *UserHandler) profile(w http.ResponseWriter, r *http.Request) {
	cached, ok := middleware.IdentityFromContext(r.Context())
	if !ok {
		common.RespondWithError(w, http.StatusUnauthorized, "Missing user context")
		return
	}

	fresh, err := h.users.GetUser(r.Context(), cached.ID)
	if err != nil {
		h.logger.Warn("failed to refresh profile", zap.Int64("user_id", cached.ID), zap.Error(err))
		common.RespondWithJSON(w, http.StatusOK, userResponse{View: "profile", User: cached})
		return
	}
	h.sessions.UpdateIdentity(r.Context(), fresh)
	common.RespondWithJSON(w, http.StatusOK, userResponse{View: "profile", User: fresh})
}

func (h *UserHandler) getUser(w http.ResponseWriter, r *http.Request) {
	username := strings.TrimSpace(chi.URLParam(r, "username"))
	if username == "" {
		respondNotFound(w, "User not found")
		return
	}

	u, err := h.users.GetUserByUsername(r.Context(), username)
	if errors.Is(err, common.ErrNotFound) {
		respondNotFound(w, "User not found")
		return
	}
	if err != nil {
		h.logger.Error("failed to load user", zap.String("username", username), zap.Error(err))
		respondViewError(w, "user", err, "Failed to load user.")
		return
	}
	common.RespondWithJSON(w, http.StatusOK, userResponse{View: "user", User: u})
}
