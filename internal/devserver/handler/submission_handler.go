package handler

import (
	"encoding/json"
	"net/http"

	"brewalgo_client/internal/common"
	"brewalgo_client/internal/devserver/middleware"
	"brewalgo_client/internal/devserver/service"
	"brewalgo_client/internal/domain/model"

	"github.com/go-chi/chi/v5"
)

type SubmissionHandler struct {
	submissionService *service.SubmissionService
}

func NewSubmissionHandler(ss *service.SubmissionService) *SubmissionHandler {
	return &SubmissionHandler{submissionService: ss}
}

// RegisterRoutes expects the router to be behind Authenticator.
func (h *SubmissionHandler) RegisterRoutes(r chi.Router) {
	r.Post("/", h.createSubmission)
	r.Get("/user/{userID}/problem/{problemID}", h.listUserProblemSubmissions)
}

func (h *SubmissionHandler) createSubmission(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		common.RespondWithError(w, http.StatusUnauthorized, "Authorization token required")
		return
	}

	var req model.SubmitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		common.RespondWithError(w, http.StatusBadRequest, "Invalid request payload: "+err.Error())
		return
	}

	resp, err := h.submissionService.CreateSubmission(r.Context(), userID, req)
	if err != nil {
		respondError(w, err, "Failed to submit solution")
		return
	}
	// judged synchronously, so the verdict is already in the body
	common.RespondWithJSON(w, http.StatusOK, resp)
}

func (h *SubmissionHandler) listUserProblemSubmissions(w http.ResponseWriter, r *http.Request) {
	callerID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		common.RespondWithError(w, http.StatusUnauthorized, "Authorization token required")
		return
	}
	userID, ok := int64Param(w, r, "userID")
	if !ok {
		return
	}
	problemID, ok := int64Param(w, r, "problemID")
	if !ok {
		return
	}

	subs, err := h.submissionService.ListUserProblemSubmissions(r.Context(), callerID, userID, problemID)
	if err != nil {
		respondError(w, err, "Failed to load submissions")
		return
	}
	common.RespondWithJSON(w, http.StatusOK, subs)
}
