package handler

import (
	"net/http"
	"strconv"

	"brewalgo_client/internal/common"
	"brewalgo_client/internal/devserver/service"

	"github.com/go-chi/chi/v5"
)

type ProblemHandler struct {
	problemService *service.ProblemService
}

func NewProblemHandler(ps *service.ProblemService) *ProblemHandler {
	return &ProblemHandler{problemService: ps}
}

func (h *ProblemHandler) RegisterRoutes(r chi.Router) {
	r.Get("/", h.listProblems)
	r.Get("/{problemID}", h.getProblem)
	r.Get("/slug/{problemSlug}", h.getProblemBySlug)
	r.Get("/difficulty/{difficulty}", h.listByDifficulty)
}

func (h *ProblemHandler) listProblems(w http.ResponseWriter, r *http.Request) {
	problems, err := h.problemService.ListProblems(r.Context())
	if err != nil {
		respondError(w, err, "Failed to list problems")
		return
	}
	common.RespondWithJSON(w, http.StatusOK, problems)
}

func (h *ProblemHandler) listByDifficulty(w http.ResponseWriter, r *http.Request) {
	problems, err := h.problemService.ListByDifficulty(r.Context(), chi.URLParam(r, "difficulty"))
	if err != nil {
		respondError(w, err, "Failed to list problems")
		return
	}
	common.RespondWithJSON(w, http.StatusOK, problems)
}

func (h *ProblemHandler) getProblem(w http.ResponseWriter, r *http.Request) {
	id, ok := int64Param(w, r, "problemID")
	if !ok {
		return
	}
	problem, err := h.problemService.GetProblem(r.Context(), id)
	if err != nil {
		respondError(w, err, "Failed to load problem")
		return
	}
	common.RespondWithJSON(w, http.StatusOK, problem)
}

func (h *ProblemHandler) getProblemBySlug(w http.ResponseWriter, r *http.Request) {
	problem, err := h.problemService.GetProblemBySlug(r.Context(), chi.URLParam(r, "problemSlug"))
	if err != nil {
		respondError(w, err, "Failed to load problem")
		return
	}
	common.RespondWithJSON(w, http.StatusOK, problem)
}

func int64Param(w http.ResponseWriter, r *http.Request, name string) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, name), 10, 64)
	if err != nil {
		common.RespondWithError(w, http.StatusBadRequest, "Invalid "+name)
		return 0, false
	}
	return id, true
}
