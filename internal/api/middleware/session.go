package middleware

import (
	"context"
	"net/http"

	"brewalgo_client/internal/app/session"
	"brewalgo_client/internal/common"
	"brewalgo_client/internal/domain/model"
)

type contextKey string

const identityCtxKey contextKey = "identity"

// LoginPath is where anonymous visitors of protected views are sent.
const LoginPath = "/login"

type SessionReader interface {
	Snapshot() session.Snapshot
}

// RequireSession guards protected views. While the session is still being
// restored it answers with the loading view and never redirects, so a
// returning user is not bounced to the login page.
func RequireSession(sessions SessionReader) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			snap := sessions.Snapshot()
			switch session.Decide(snap.Status) {
			case session.DecisionLoading:
				w.Header().Set("Retry-After", "1")
				common.RespondWithJSON(w, http.StatusOK, map[string]string{"view": "loading"})
			case session.DecisionRedirect:
				http.Redirect(w, r, LoginPath, http.StatusSeeOther)
			default:
				ctx := context.WithValue(r.Context(), identityCtxKey, snap.Identity)
				next.ServeHTTP(w, r.WithContext(ctx))
			}
		})
	}
}

// IdentityFromContext returns the user RequireSession let through.
func IdentityFromContext(ctx context.Context) (*model.User, bool) {
	u, ok := ctx.Value(identityCtxKey).(*model.User)
	return u, ok && u != nil
}
