package handler

import (
	"errors"
	"net/http"
	"strings"

	"brewalgo_client/internal/api/middleware"
	"brewalgo_client/internal/app/submission"
	"brewalgo_client/internal/common"
	"brewalgo_client/internal/domain/model"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type SubmissionHandler struct {
	problems ProblemAPI
	attempts *submission.Registry
	logger   *zap.Logger
}

func NewSubmissionHandler(problems ProblemAPI, attempts *submission.Registry, logger *zap.Logger) *SubmissionHandler {
	return &SubmissionHandler{problems: problems, attempts: attempts, logger: logger}
}

// RegisterRoutes mounts under /problems.
func (h *SubmissionHandler) RegisterRoutes(r chi.Router) {
	r.Get("/{problemSlug}/attempt", h.getAttempt)
	r.Delete("/{problemSlug}/attempt", h.leave)
	r.Post("/{problemSlug}/submit", h.submit)
	r.Post("/{problemSlug}/reset", h.reset)
}

type SubmitSolutionRequest struct {
	Code     string `json:"code"`
	Language string `json:"language"`
}

type attemptResponse struct {
	View    string      `json:"view"`
	Attempt attemptView `json:"attempt"`
	Error   string      `json:"error,omitempty"`
}

func (h *SubmissionHandler) getAttempt(w http.ResponseWriter, r *http.Request) {
	c := h.attempts.Get(problemKey(r))
	common.RespondWithJSON(w, http.StatusOK, attemptResponse{View: "problem-detail", Attempt: newAttemptView(c.State())})
}

func (h *SubmissionHandler) submit(w http.ResponseWriter, r *http.Request) {
	key := problemKey(r)
	user, ok := middleware.IdentityFromContext(r.Context())
	if !ok {
		common.RespondWithError(w, http.StatusUnauthorized, "Missing user context")
		return
	}

	var req SubmitSolutionRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respondViewError(w, "problem-detail", err, "")
		return
	}

	problem, err := h.problems.GetProblemBySlug(r.Context(), key)
	if errors.Is(err, common.ErrNotFound) {
		respondNotFound(w, "Problem not found")
		return
	}
	if err != nil {
		h.logger.Error("failed to load problem for submission", zap.String("slug", key), zap.Error(err))
		respondViewError(w, "problem-detail", err, "Failed to load problem.")
		return
	}

	lang, ok := model.ParseLanguage(req.Language)
	if !ok {
		// the coordinator rejects it and records the failed attempt
		lang = model.Language(strings.ToUpper(strings.TrimSpace(req.Language)))
	}

	c := h.attempts.Get(key)
	_, err = c.Submit(r.Context(), user.ID, problem.ID, req.Code, lang)
	resp := attemptResponse{View: "problem-detail", Attempt: newAttemptView(c.State())}
	if err != nil {
		resp.Error = common.UserMessage(err, submission.FailureMessage)
		if errors.Is(err, submission.ErrAbandoned) {
			common.RespondWithJSON(w, http.StatusConflict, resp)
			return
		}
		common.RespondWithJSON(w, common.HTTPStatusFromError(err), resp)
		return
	}
	common.RespondWithJSON(w, http.StatusOK, resp)
}

func (h *SubmissionHandler) reset(w http.ResponseWriter, r *http.Request) {
	c := h.attempts.Get(problemKey(r))
	resp := attemptResponse{View: "problem-detail"}
	if err := c.Reset(); err != nil {
		resp.Attempt = newAttemptView(c.State())
		resp.Error = common.UserMessage(err, "")
		common.RespondWithJSON(w, common.HTTPStatusFromError(err), resp)
		return
	}
	resp.Attempt = newAttemptView(c.State())
	common.RespondWithJSON(w, http.StatusOK, resp)
}

// leave is sent when the problem view is closed. A verdict still on its
// way is dropped.
func (h *SubmissionHandler) leave(w http.ResponseWriter, r *http.Request) {
	h.attempts.Release(problemKey(r))
	w.WriteHeader(http.StatusNoContent)
}
