package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"brewalgo_client/internal/app/session"
	"brewalgo_client/internal/app/submission"
	"brewalgo_client/internal/common"
	"brewalgo_client/internal/domain/model"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeSessions struct {
	mu      sync.Mutex
	snap    session.Snapshot
	updated *model.User
}

func (f *fakeSessions) set(status session.Status, u *model.User) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.snap = session.Snapshot{Status: status, Identity: u}
}

func (f *fakeSessions) Snapshot() session.Snapshot {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.snap
}

func (f *fakeSessions) Login(ctx context.Context, usernameOrEmail, password string) (*model.User, error) {
	if password != "secret" {
		return nil, &common.AuthError{StatusCode: http.StatusUnauthorized, Message: "Invalid username or password"}
	}
	u := &model.User{ID: 7, Username: usernameOrEmail}
	f.set(session.StatusAuthenticated, u)
	return u, nil
}

func (f *fakeSessions) Register(ctx context.Context, username, email, password string) (*model.User, error) {
	u := &model.User{ID: 8, Username: username, Email: email}
	f.set(session.StatusAuthenticated, u)
	return u, nil
}

func (f *fakeSessions) Logout() { f.set(session.StatusAnonymous, nil) }

func (f *fakeSessions) UpdateIdentity(ctx context.Context, u *model.User) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.updated = u
}

type fakeBackend struct {
	ListProblemsFunc     func(ctx context.Context) ([]model.Problem, error)
	GetProblemBySlugFunc func(ctx context.Context, slug string) (*model.Problem, error)
	HistoryFunc          func(ctx context.Context, userID, problemID int64) ([]model.SubmissionRecord, error)
	GetUserFunc          func(ctx context.Context, id int64) (*model.User, error)
	SubmitFunc           func(ctx context.Context, req model.SubmitRequest) (*model.SubmitResponse, error)
}

func (f *fakeBackend) ListProblems(ctx context.Context) ([]model.Problem, error) {
	return f.ListProblemsFunc(ctx)
}

func (f *fakeBackend) ListProblemsByDifficulty(ctx context.Context, d model.Difficulty) ([]model.Problem, error) {
	all, err := f.ListProblemsFunc(ctx)
	if err != nil {
		return nil, err
	}
	var out []model.Problem
	for _, p := range all {
		if p.Difficulty == d {
			out = append(out, p)
		}
	}
	return out, nil
}

func (f *fakeBackend) GetProblemBySlug(ctx context.Context, slug string) (*model.Problem, error) {
	return f.GetProblemBySlugFunc(ctx, slug)
}

func (f *fakeBackend) ListUserProblemSubmissions(ctx context.Context, userID, problemID int64) ([]model.SubmissionRecord, error) {
	if f.HistoryFunc == nil {
		return nil, nil
	}
	return f.HistoryFunc(ctx, userID, problemID)
}

func (f *fakeBackend) GetUser(ctx context.Context, id int64) (*model.User, error) {
	return f.GetUserFunc(ctx, id)
}

func (f *fakeBackend) GetUserByUsername(ctx context.Context, username string) (*model.User, error) {
	return nil, &common.TransportError{Op: "GET /users/by-username", StatusCode: http.StatusNotFound}
}

func (f *fakeBackend) Submit(ctx context.Context, req model.SubmitRequest) (*model.SubmitResponse, error) {
	return f.SubmitFunc(ctx, req)
}

var twoSum = model.Problem{ID: 1, Slug: "two-sum", Title: "Two Sum", Difficulty: model.DifficultyEasy, BaseScore: 100}

func newBackend() *fakeBackend {
	return &fakeBackend{
		ListProblemsFunc: func(context.Context) ([]model.Problem, error) {
			return []model.Problem{twoSum, {ID: 2, Slug: "median", Title: "Median", Difficulty: model.DifficultyHard}}, nil
		},
		GetProblemBySlugFunc: func(_ context.Context, slug string) (*model.Problem, error) {
			if slug == twoSum.Slug {
				p := twoSum
				return &p, nil
			}
			return nil, &common.TransportError{Op: "GET /problems/slug/" + slug, StatusCode: http.StatusNotFound}
		},
		GetUserFunc: func(_ context.Context, id int64) (*model.User, error) {
			return &model.User{ID: id, Username: "ada"}, nil
		},
		SubmitFunc: func(_ context.Context, req model.SubmitRequest) (*model.SubmitResponse, error) {
			return &model.SubmitResponse{
				Submission: &model.SubmissionRecord{ID: model.Ptr(int64(1)), UserID: model.Ptr(req.UserID), Status: model.Ptr(model.StatusAccepted), ScoreAwarded: model.Ptr(100)},
				ExecutionResult: &model.ExecutionResult{
					Status:          model.Ptr(model.StatusAccepted),
					ExecutionTimeMs: model.Ptr(int64(42)),
					PassedTestCases: model.Ptr(10),
					TotalTestCases:  model.Ptr(10),
				},
			}, nil
		},
	}
}

func newTestRouter(sessions *fakeSessions, backend *fakeBackend) http.Handler {
	attempts := submission.NewRegistry(backend, zap.NewNop())
	return NewRouter(sessions, backend, attempts, zap.NewNop(), 0)
}

func serve(t *testing.T, h http.Handler, method, path, body string) (*httptest.ResponseRecorder, map[string]interface{}) {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	var decoded map[string]interface{}
	if strings.HasPrefix(rec.Header().Get("Content-Type"), "application/json") {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &decoded))
	}
	return rec, decoded
}

func TestProtectedViewWaitsForRestore(t *testing.T) {
	sessions := &fakeSessions{}
	sessions.set(session.StatusInitializing, nil)
	h := newTestRouter(sessions, newBackend())

	rec, body := serve(t, h, http.MethodGet, "/problems", "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "loading", body["view"])
	require.Equal(t, "1", rec.Header().Get("Retry-After"))
	require.Empty(t, rec.Header().Get("Location"))

	sessions.set(session.StatusAnonymous, nil)
	rec, _ = serve(t, h, http.MethodGet, "/problems", "")
	require.Equal(t, http.StatusSeeOther, rec.Code)
	require.Equal(t, "/login", rec.Header().Get("Location"))
}

func TestRestoredSessionRendersProtectedView(t *testing.T) {
	sessions := &fakeSessions{}
	sessions.set(session.StatusAuthenticated, &model.User{ID: 7, Username: "ada"})
	h := newTestRouter(sessions, newBackend())

	rec, body := serve(t, h, http.MethodGet, "/problems?difficulty=hard", "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "problem-list", body["view"])
	require.Equal(t, "HARD", body["filter"])
	problems := body["problems"].([]interface{})
	require.Len(t, problems, 1)
	require.Equal(t, "hard", problems[0].(map[string]interface{})["difficultyCategory"])
}

func TestUnknownDifficultyIsRejected(t *testing.T) {
	sessions := &fakeSessions{}
	sessions.set(session.StatusAuthenticated, &model.User{ID: 7})
	h := newTestRouter(sessions, newBackend())

	rec, body := serve(t, h, http.MethodGet, "/problems?difficulty=IMPOSSIBLE", "")
	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Equal(t, "Unknown difficulty", body["error"])
}

func TestUnknownSlugRendersNotFound(t *testing.T) {
	sessions := &fakeSessions{}
	sessions.set(session.StatusAuthenticated, &model.User{ID: 7})
	h := newTestRouter(sessions, newBackend())

	rec, body := serve(t, h, http.MethodGet, "/problems/no-such-problem", "")
	require.Equal(t, http.StatusNotFound, rec.Code)
	require.Equal(t, "not-found", body["view"])
}

func TestProblemDetailDegradesWithoutHistory(t *testing.T) {
	sessions := &fakeSessions{}
	sessions.set(session.StatusAuthenticated, &model.User{ID: 7})
	backend := newBackend()
	backend.HistoryFunc = func(context.Context, int64, int64) ([]model.SubmissionRecord, error) {
		return nil, &common.TransportError{Op: "GET history", Err: errors.New("connection refused")}
	}
	h := newTestRouter(sessions, backend)

	rec, body := serve(t, h, http.MethodGet, "/problems/two-sum", "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "problem-detail", body["view"])
	require.Empty(t, body["submissions"])
	require.Len(t, body["languages"], 4)
	require.Equal(t, "idle", body["attempt"].(map[string]interface{})["phase"])
}

func TestSubmitFlow(t *testing.T) {
	sessions := &fakeSessions{}
	sessions.set(session.StatusAuthenticated, &model.User{ID: 7})
	h := newTestRouter(sessions, newBackend())

	rec, body := serve(t, h, http.MethodPost, "/problems/two-sum/submit", `{"code":"print(1)","language":"python"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	attempt := body["attempt"].(map[string]interface{})
	require.Equal(t, "resolved", attempt["phase"])
	require.Equal(t, "ACCEPTED", attempt["statusLabel"])
	require.Equal(t, "accepted", attempt["statusCategory"])

	rows := attempt["rows"].([]interface{})
	require.Equal(t, "Test Cases", rows[0].(map[string]interface{})["label"])
	require.Equal(t, "10/10 passed", rows[0].(map[string]interface{})["value"])

	// a differently spelled slug lands on the same view
	rec, body = serve(t, h, http.MethodGet, "/problems/Two%20Sum/attempt", "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "resolved", body["attempt"].(map[string]interface{})["phase"])

	rec, body = serve(t, h, http.MethodPost, "/problems/two-sum/reset", "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "idle", body["attempt"].(map[string]interface{})["phase"])
}

func TestSubmitBlankCodeShowsInlineError(t *testing.T) {
	sessions := &fakeSessions{}
	sessions.set(session.StatusAuthenticated, &model.User{ID: 7})
	backend := newBackend()
	backend.SubmitFunc = func(context.Context, model.SubmitRequest) (*model.SubmitResponse, error) {
		t.Fatal("backend must not be called for blank code")
		return nil, nil
	}
	h := newTestRouter(sessions, backend)

	rec, body := serve(t, h, http.MethodPost, "/problems/two-sum/submit", `{"code":"   ","language":"java"}`)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Equal(t, submission.EmptyCodeMessage, body["error"])
	require.Equal(t, "failed", body["attempt"].(map[string]interface{})["phase"])
}

func TestSubmitFailureIsGeneric(t *testing.T) {
	sessions := &fakeSessions{}
	sessions.set(session.StatusAuthenticated, &model.User{ID: 7})
	backend := newBackend()
	backend.SubmitFunc = func(context.Context, model.SubmitRequest) (*model.SubmitResponse, error) {
		return nil, &common.TransportError{Op: "POST /submissions", StatusCode: http.StatusInternalServerError, Message: "NullPointerException"}
	}
	h := newTestRouter(sessions, backend)

	_, body := serve(t, h, http.MethodPost, "/problems/two-sum/submit", `{"code":"x","language":"cpp"}`)
	require.Equal(t, submission.FailureMessage, body["error"])
	require.NotContains(t, encode(body), "NullPointerException")
}

func encode(body map[string]interface{}) string {
	b, _ := json.Marshal(body)
	return string(b)
}

func TestLoginAndLogoutViews(t *testing.T) {
	sessions := &fakeSessions{}
	sessions.set(session.StatusAnonymous, nil)
	h := newTestRouter(sessions, newBackend())

	rec, body := serve(t, h, http.MethodPost, "/login", `{"username":"ada","password":"nope"}`)
	require.Equal(t, http.StatusUnauthorized, rec.Code)
	require.Equal(t, "Invalid username or password", body["error"])

	rec, body = serve(t, h, http.MethodPost, "/login", `{"username":"ada","password":"secret"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "authenticated", body["status"])

	rec, body = serve(t, h, http.MethodGet, "/profile", "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "profile", body["view"])

	rec, body = serve(t, h, http.MethodPost, "/logout", "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "anonymous", body["status"])

	rec, _ = serve(t, h, http.MethodGet, "/profile", "")
	require.Equal(t, http.StatusSeeOther, rec.Code)
}

func TestProfileFallsBackToStoredIdentity(t *testing.T) {
	sessions := &fakeSessions{}
	sessions.set(session.StatusAuthenticated, &model.User{ID: 7, Username: "ada", ProblemsSolved: 3})
	backend := newBackend()
	backend.GetUserFunc = func(context.Context, int64) (*model.User, error) {
		return nil, &common.TransportError{Op: "GET /users/7", Err: errors.New("timeout")}
	}
	h := newTestRouter(sessions, backend)

	rec, body := serve(t, h, http.MethodGet, "/profile", "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "ada", body["user"].(map[string]interface{})["username"])
	require.Nil(t, sessions.updated)

	backend.GetUserFunc = func(context.Context, int64) (*model.User, error) {
		return &model.User{ID: 7, Username: "ada", ProblemsSolved: 4}, nil
	}
	_, body = serve(t, h, http.MethodGet, "/profile", "")
	require.EqualValues(t, 4, body["user"].(map[string]interface{})["problemsSolved"])
	require.NotNil(t, sessions.updated)
}
