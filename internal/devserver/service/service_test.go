package service

import (
	"context"
	"testing"
	"time"

	"brewalgo_client/internal/common"
	"brewalgo_client/internal/common/security"
	"brewalgo_client/internal/devserver/repository"
	"brewalgo_client/internal/domain/model"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newAuth(t *testing.T) (*AuthService, repository.UserRepository) {
	t.Helper()
	users := repository.NewMemUserRepository()
	return NewAuthService(users, security.NewTokenAuth([]byte("test-secret")), time.Hour), users
}

func TestRegisterAndLogin(t *testing.T) {
	auth, _ := newAuth(t)
	ctx := t.Context()

	resp, err := auth.Register(ctx, model.RegisterRequest{Username: "ada", Email: "ada@example.com", Password: "hunter22"})
	require.NoError(t, err)
	require.NotEmpty(t, resp.Token)
	require.Equal(t, "ada", resp.User.Username)
	require.Equal(t, model.RoleUser, resp.User.Role)

	tok, err := auth.tokenAuth.Decode(resp.Token)
	require.NoError(t, err)
	claims, err := tok.AsMap(ctx)
	require.NoError(t, err)
	id, err := security.GetUserIDFromClaims(claims)
	require.NoError(t, err)
	require.Equal(t, resp.User.ID, id)

	byEmail, err := auth.Login(ctx, model.LoginRequest{Username: "ADA@example.com", Password: "hunter22"})
	require.NoError(t, err)
	require.Equal(t, resp.User.ID, byEmail.User.ID)

	byName, err := auth.Login(ctx, model.LoginRequest{Username: "ada", Password: "hunter22"})
	require.NoError(t, err)
	require.False(t, byName.User.LastLoginAt.IsZero())
}

func TestRegisterRejects(t *testing.T) {
	auth, _ := newAuth(t)
	ctx := t.Context()

	_, err := auth.Register(ctx, model.RegisterRequest{Username: "ada", Email: "ada@example.com", Password: "pw"})
	require.NoError(t, err)

	_, err = auth.Register(ctx, model.RegisterRequest{Username: "ADA", Email: "other@example.com", Password: "pw"})
	require.ErrorIs(t, err, ErrAccountTaken)
	require.ErrorIs(t, err, common.ErrConflict)

	_, err = auth.Register(ctx, model.RegisterRequest{Username: "bob", Email: "not-an-email", Password: "pw"})
	require.ErrorIs(t, err, common.ErrBadRequest)

	_, err = auth.Register(ctx, model.RegisterRequest{Username: "bob", Email: "bob@example.com"})
	require.ErrorIs(t, err, common.ErrBadRequest)
}

func TestLoginRejects(t *testing.T) {
	auth, _ := newAuth(t)
	ctx := t.Context()
	_, err := auth.Register(ctx, model.RegisterRequest{Username: "ada", Email: "ada@example.com", Password: "hunter22"})
	require.NoError(t, err)

	_, err = auth.Login(ctx, model.LoginRequest{Username: "ada", Password: "wrong"})
	require.ErrorIs(t, err, ErrInvalidCredentials)
	require.Equal(t, 401, common.HTTPStatusFromError(err))

	_, err = auth.Login(ctx, model.LoginRequest{Username: "nobody", Password: "hunter22"})
	require.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = auth.Login(ctx, model.LoginRequest{Username: " ", Password: "x"})
	require.ErrorIs(t, err, common.ErrBadRequest)
}

func TestProblemSeedAndLookup(t *testing.T) {
	problems := NewProblemService(repository.NewMemProblemRepository())
	ctx := t.Context()

	require.NoError(t, problems.Seed(ctx))
	require.NoError(t, problems.Seed(ctx)) // idempotent

	all, err := problems.ListProblems(ctx)
	require.NoError(t, err)
	require.Len(t, all, len(seedProblems))

	p, err := problems.GetProblemBySlug(ctx, "Two Sum")
	require.NoError(t, err)
	require.Equal(t, "two-sum", p.Slug)
	require.Equal(t, 100, p.BaseScore)

	hard, err := problems.ListByDifficulty(ctx, "hard")
	require.NoError(t, err)
	require.Len(t, hard, 1)
	require.Equal(t, 300, hard[0].BaseScore)

	_, err = problems.ListByDifficulty(ctx, "trivial")
	require.ErrorIs(t, err, common.ErrBadRequest)

	_, err = problems.GetProblem(ctx, 999)
	require.ErrorIs(t, err, common.ErrNotFound)
}

type submissionFixture struct {
	svc      *SubmissionService
	users    repository.UserRepository
	problems repository.ProblemRepository
	userID   int64
	problem  *model.Problem
}

func newSubmissionFixture(t *testing.T) *submissionFixture {
	t.Helper()
	ctx := t.Context()
	users := repository.NewMemUserRepository()
	problemRepo := repository.NewMemProblemRepository()
	subs := repository.NewMemSubmissionRepository()

	user := &repository.UserRecord{User: model.User{Username: "ada", Email: "ada@example.com"}}
	require.NoError(t, users.Create(ctx, user))
	problem, err := NewProblemService(problemRepo).CreateProblem(ctx, CreateProblemRequest{
		Title: "Two Sum", Description: "add", Difficulty: model.DifficultyEasy,
	})
	require.NoError(t, err)

	return &submissionFixture{
		svc:      NewSubmissionService(subs, problemRepo, users, StubJudge{}, zap.NewNop()),
		users:    users,
		problems: problemRepo,
		userID:   user.ID,
		problem:  problem,
	}
}

func (f *submissionFixture) submit(t *testing.T, code string) *model.SubmitResponse {
	t.Helper()
	resp, err := f.svc.CreateSubmission(t.Context(), f.userID, model.SubmitRequest{
		UserID: f.userID, ProblemID: f.problem.ID, Code: code, Language: model.LanguagePython,
	})
	require.NoError(t, err)
	return resp
}

func TestScoreOnlyOnFirstAccept(t *testing.T) {
	f := newSubmissionFixture(t)
	ctx := t.Context()

	wrong := f.submit(t, "return wrong")
	require.Equal(t, model.StatusWrongAnswer, *wrong.Submission.Status)
	require.Equal(t, 0, *wrong.Submission.ScoreAwarded)
	require.Equal(t, 3, *wrong.ExecutionResult.PassedTestCases)

	first := f.submit(t, "return [0, 1]")
	require.Equal(t, model.StatusAccepted, *first.ExecutionResult.Status)
	require.Equal(t, 100, *first.Submission.ScoreAwarded)

	again := f.submit(t, "return [0, 1]")
	require.Equal(t, 0, *again.Submission.ScoreAwarded)

	user, err := f.users.FindByID(ctx, f.userID)
	require.NoError(t, err)
	require.Equal(t, 1, user.ProblemsSolved)

	p, err := f.problems.FindProblemByID(ctx, f.problem.ID)
	require.NoError(t, err)
	require.Equal(t, 3, p.TotalSubmissions)
	require.InDelta(t, 66.67, p.AcceptanceRate, 0.01)

	history, err := f.svc.ListUserProblemSubmissions(ctx, f.userID, f.userID, f.problem.ID)
	require.NoError(t, err)
	require.Len(t, history, 3)
	require.Equal(t, *again.Submission.ID, *history[0].ID)
}

func TestCreateSubmissionRejects(t *testing.T) {
	f := newSubmissionFixture(t)
	ctx := t.Context()

	_, err := f.svc.CreateSubmission(ctx, f.userID, model.SubmitRequest{UserID: f.userID + 1, ProblemID: f.problem.ID, Code: "x", Language: model.LanguageJava})
	require.ErrorIs(t, err, common.ErrForbidden)

	_, err = f.svc.CreateSubmission(ctx, f.userID, model.SubmitRequest{UserID: f.userID, ProblemID: f.problem.ID, Code: "  ", Language: model.LanguageJava})
	require.ErrorIs(t, err, common.ErrBadRequest)

	_, err = f.svc.CreateSubmission(ctx, f.userID, model.SubmitRequest{UserID: f.userID, ProblemID: f.problem.ID, Code: "x", Language: "COBOL"})
	require.ErrorIs(t, err, common.ErrBadRequest)

	_, err = f.svc.CreateSubmission(ctx, f.userID, model.SubmitRequest{UserID: f.userID, ProblemID: 404, Code: "x", Language: model.LanguageJava})
	require.ErrorIs(t, err, common.ErrNotFound)

	_, err = f.svc.ListUserProblemSubmissions(ctx, f.userID, f.userID+1, f.problem.ID)
	require.ErrorIs(t, err, common.ErrForbidden)
}

func TestStubJudgeVerdicts(t *testing.T) {
	tests := []struct {
		code string
		want model.SubmissionStatus
	}{
		{"print(1)", model.StatusAccepted},
		{"// syntax error", model.StatusCompilationError},
		{"while True: pass", model.StatusTimeLimitExceeded},
		{"raise ValueError()", model.StatusRuntimeError},
		{"return wrong", model.StatusWrongAnswer},
	}
	for _, tt := range tests {
		t.Run(string(tt.want), func(t *testing.T) {
			res, err := StubJudge{}.Evaluate(context.Background(), nil, tt.code, model.LanguagePython)
			require.NoError(t, err)
			require.Equal(t, tt.want, *res.Status)
		})
	}
}
