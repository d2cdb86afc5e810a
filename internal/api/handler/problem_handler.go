package handler

import (
	"errors"
	"net/http"

	"brewalgo_client/internal/api/middleware"
	"brewalgo_client/internal/app/submission"
	"brewalgo_client/internal/common"
	"brewalgo_client/internal/domain/model"

	"github.com/go-chi/chi/v5"
	"github.com/gosimple/slug"
	"go.uber.org/zap"
)

const filterAll = "ALL"

type ProblemHandler struct {
	problems ProblemAPI
	attempts *submission.Registry
	logger   *zap.Logger
}

func NewProblemHandler(problems ProblemAPI, attempts *submission.Registry, logger *zap.Logger) *ProblemHandler {
	return &ProblemHandler{problems: problems, attempts: attempts, logger: logger}
}

func (h *ProblemHandler) RegisterRoutes(r chi.Router) {
	r.Get("/", h.listProblems)            // GET /problems?difficulty=EASY
	r.Get("/{problemSlug}", h.getProblem) // GET /problems/two-sum
	r.Get("/{problemSlug}/submissions", h.listSubmissions)
}

type problemListResponse struct {
	View     string        `json:"view"`
	Filter   string        `json:"filter"`
	Filters  []string      `json:"filters"`
	Problems []problemView `json:"problems"`
}

func (h *ProblemHandler) listProblems(w http.ResponseWriter, r *http.Request) {
	filter := r.URL.Query().Get("difficulty")

	var (
		problems []model.Problem
		err      error
	)
	if filter == "" || filter == filterAll || filter == "all" {
		filter = filterAll
		problems, err = h.problems.ListProblems(r.Context())
	} else {
		d, ok := model.ParseDifficulty(filter)
		if !ok {
			respondViewError(w, "problem-list", &common.ValidationError{Field: "difficulty", Message: "Unknown difficulty"}, "")
			return
		}
		filter = string(d)
		problems, err = h.problems.ListProblemsByDifficulty(r.Context(), d)
	}
	if err != nil {
		h.logger.Error("failed to load problems", zap.String("filter", filter), zap.Error(err))
		respondViewError(w, "problem-list", err, "Failed to load problems.")
		return
	}

	filters := []string{filterAll}
	for _, d := range model.Difficulties {
		filters = append(filters, string(d))
	}
	views := make([]problemView, 0, len(problems))
	for _, p := range problems {
		views = append(views, newProblemView(p))
	}
	common.RespondWithJSON(w, http.StatusOK, problemListResponse{View: "problem-list", Filter: filter, Filters: filters, Problems: views})
}

type problemDetailResponse struct {
	View        string           `json:"view"`
	Problem     problemView      `json:"problem"`
	Languages   []model.Language `json:"languages"`
	Attempt     attemptView      `json:"attempt"`
	Submissions []submissionView `json:"submissions"`
	Error       string           `json:"error,omitempty"`
}

func (h *ProblemHandler) getProblem(w http.ResponseWriter, r *http.Request) {
	key := problemKey(r)
	problem, ok := h.loadProblem(w, r, key)
	if !ok {
		return
	}
	user, _ := middleware.IdentityFromContext(r.Context())

	resp := problemDetailResponse{
		View:      "problem-detail",
		Problem:   newProblemView(*problem),
		Languages: model.Languages,
		Attempt:   newAttemptView(h.attempts.Get(key).State()),
	}

	// prior submissions are a nicety; the page still renders without them
	subs, err := h.problems.ListUserProblemSubmissions(r.Context(), user.ID, problem.ID)
	if err != nil {
		h.logger.Warn("failed to load prior submissions", zap.Int64("problem_id", problem.ID), zap.Error(err))
	}
	resp.Submissions = newSubmissionViews(subs)

	common.RespondWithJSON(w, http.StatusOK, resp)
}

type submissionListResponse struct {
	View        string           `json:"view"`
	Problem     problemView      `json:"problem"`
	Submissions []submissionView `json:"submissions"`
}

func (h *ProblemHandler) listSubmissions(w http.ResponseWriter, r *http.Request) {
	problem, ok := h.loadProblem(w, r, problemKey(r))
	if !ok {
		return
	}
	user, _ := middleware.IdentityFromContext(r.Context())

	subs, err := h.problems.ListUserProblemSubmissions(r.Context(), user.ID, problem.ID)
	if err != nil {
		h.logger.Error("failed to load submissions", zap.Int64("problem_id", problem.ID), zap.Error(err))
		respondViewError(w, "submission-history", err, "Failed to load submissions.")
		return
	}
	common.RespondWithJSON(w, http.StatusOK, submissionListResponse{
		View:        "submission-history",
		Problem:     newProblemView(*problem),
		Submissions: newSubmissionViews(subs),
	})
}

// loadProblem writes the not-found or error view itself and reports false
// when the problem cannot be shown.
func (h *ProblemHandler) loadProblem(w http.ResponseWriter, r *http.Request, key string) (*model.Problem, bool) {
	if key == "" {
		respondNotFound(w, "Problem not found")
		return nil, false
	}
	problem, err := h.problems.GetProblemBySlug(r.Context(), key)
	if errors.Is(err, common.ErrNotFound) {
		respondNotFound(w, "Problem not found")
		return nil, false
	}
	if err != nil {
		h.logger.Error("failed to load problem", zap.String("slug", key), zap.Error(err))
		respondViewError(w, "problem-detail", err, "Failed to load problem.")
		return nil, false
	}
	return problem, true
}

// problemKey normalises the path parameter so "Two Sum" and "two-sum" land
// on the same view.
func problemKey(r *http.Request) string {
	return slug.Make(chi.URLParam(r, "problemSlug"))
}
