package handler

import (
	"net/http"

	"brewalgo_client/internal/app/submission"
	"brewalgo_client/internal/common"
	"brewalgo_client/internal/domain/model"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type AuthHandler struct {
	sessions Sessions
	attempts *submission.Registry
	logger   *zap.Logger
}

func NewAuthHandler(sessions Sessions, attempts *submission.Registry, logger *zap.Logger) *AuthHandler {
	return &AuthHandler{sessions: sessions, attempts: attempts, logger: logger}
}

func (h *AuthHandler) RegisterRoutes(r chi.Router) {
	r.Get("/session", h.session)
	r.Get("/login", h.loginView)
	r.Post("/login", h.login)
	r.Post("/register", h.register)
	r.Post("/logout", h.logout)
}

type sessionResponse struct {
	View   string      `json:"view"`
	Status string      `json:"status"`
	User   *model.User `json:"user,omitempty"`
	Error  string      `json:"error,omitempty"`
}

func (h *AuthHandler) session(w http.ResponseWriter, r *http.Request) {
	snap := h.sessions.Snapshot()
	common.RespondWithJSON(w, http.StatusOK, sessionResponse{View: "session", Status: snap.Status.String(), User: snap.Identity})
}

func (h *AuthHandler) loginView(w http.ResponseWriter, r *http.Request) {
	snap := h.sessions.Snapshot()
	common.RespondWithJSON(w, http.StatusOK, sessionResponse{View: "login", Status: snap.Status.String(), User: snap.Identity})
}

func (h *AuthHandler) login(w http.ResponseWriter, r *http.Request) {
	var req model.LoginRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respondViewError(w, "login", err, "")
		return
	}

	user, err := h.sessions.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		h.logger.Warn("login failed", zap.String("username", req.Username), zap.Error(err))
		respondViewError(w, "login", err, "Login failed. Please try again.")
		return
	}
	common.RespondWithJSON(w, http.StatusOK, sessionResponse{View: "login", Status: "authenticated", User: user})
}

func (h *AuthHandler) register(w http.ResponseWriter, r *http.Request) {
	var req model.RegisterRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respondViewError(w, "register", err, "")
		return
	}

	user, err := h.sessions.Register(r.Context(), req.Username, req.Email, req.Password)
	if err != nil {
		h.logger.Warn("registration failed", zap.String("username", req.Username), zap.Error(err))
		respondViewError(w, "register", err, "Registration failed. Please try again.")
		return
	}
	common.RespondWithJSON(w, http.StatusCreated, sessionResponse{View: "register", Status: "authenticated", User: user})
}

// logout is local only; open problem views are dropped with the session.
func (h *AuthHandler) logout(w http.ResponseWriter, r *http.Request) {
	h.sessions.Logout()
	h.attempts.ReleaseAll()
	common.RespondWithJSON(w, http.StatusOK, sessionResponse{View: "logout", Status: "anonymous"})
}
