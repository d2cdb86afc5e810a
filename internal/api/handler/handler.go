package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"brewalgo_client/internal/app/display"
	"brewalgo_client/internal/app/session"
	"brewalgo_client/internal/app/submission"
	"brewalgo_client/internal/common"
	"brewalgo_client/internal/domain/model"
)

// Sessions is the part of the session manager the views use.
type Sessions interface {
	Snapshot() session.Snapshot
	Login(ctx context.Context, usernameOrEmail, password string) (*model.User, error)
	Register(ctx context.Context, username, email, password string) (*model.User, error)
	Logout()
	UpdateIdentity(ctx context.Context, u *model.User)
}

type ProblemAPI interface {
	ListProblems(ctx context.Context) ([]model.Problem, error)
	ListProblemsByDifficulty(ctx context.Context, d model.Difficulty) ([]model.Problem, error)
	GetProblemBySlug(ctx context.Context, slug string) (*model.Problem, error)
	ListUserProblemSubmissions(ctx context.Context, userID, problemID int64) ([]model.SubmissionRecord, error)
}

type UserAPI interface {
	GetUser(ctx context.Context, id int64) (*model.User, error)
	GetUserByUsername(ctx context.Context, username string) (*model.User, error)
}

// View is the envelope every page answers with. Error carries the inline,
// dismissible message for a failed action.
type View struct {
	View    string `json:"view"`
	Error   string `json:"error,omitempty"`
	Message string `json:"message,omitempty"`
}

type problemView struct {
	model.Problem
	DifficultyCategory display.Category `json:"difficultyCategory"`
}

func newProblemView(p model.Problem) problemView {
	return problemView{Problem: p, DifficultyCategory: display.DifficultyCategory(p.Difficulty)}
}

type attemptView struct {
	Phase          string                  `json:"phase"`
	Message        string                  `json:"message,omitempty"`
	Result         *model.ReconciledResult `json:"result,omitempty"`
	StatusLabel    string                  `json:"statusLabel,omitempty"`
	StatusCategory display.Category        `json:"statusCategory,omitempty"`
	Rows           []display.Row           `json:"rows,omitempty"`
}

func newAttemptView(st submission.State) attemptView {
	v := attemptView{Phase: st.Phase.String(), Message: st.Message}
	if st.Result != nil {
		v.Result = st.Result
		v.StatusLabel = display.StatusLabel(st.Result.Status)
		v.StatusCategory = display.StatusCategory(st.Result.Status)
		v.Rows = display.ResultRows(st.Result)
	}
	return v
}

type submissionView struct {
	model.SubmissionRecord
	StatusLabel    string           `json:"statusLabel"`
	StatusCategory display.Category `json:"statusCategory"`
}

func newSubmissionViews(subs []model.SubmissionRecord) []submissionView {
	out := make([]submissionView, 0, len(subs))
	for _, s := range subs {
		out = append(out, submissionView{
			SubmissionRecord: s,
			StatusLabel:      display.StatusLabel(s.Status),
			StatusCategory:   display.StatusCategory(s.Status),
		})
	}
	return out
}

func respondViewError(w http.ResponseWriter, view string, err error, fallback string) {
	common.RespondWithJSON(w, common.HTTPStatusFromError(err), View{View: view, Error: common.UserMessage(err, fallback)})
}

func respondNotFound(w http.ResponseWriter, message string) {
	common.RespondWithJSON(w, http.StatusNotFound, View{View: "not-found", Message: message})
}

func decodeJSON(w http.ResponseWriter, r *http.Request, dst interface{}) error {
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, 1<<20)).Decode(dst); err != nil {
		return &common.ValidationError{Message: "Invalid request payload"}
	}
	return nil
}
