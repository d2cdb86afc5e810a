package api

import (
	"net/http"
	"time"

	"brewalgo_client/internal/api/handler"
	"brewalgo_client/internal/api/middleware"
	"brewalgo_client/internal/app/submission"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
)

// Backend is everything the views need from the platform API.
type Backend interface {
	handler.ProblemAPI
	handler.UserAPI
}

// NewRouter builds the local view server. Every page of the app is one JSON
// view; protected pages sit behind RequireSession.
func NewRouter(
	sessions handler.Sessions,
	backend Backend,
	attempts *submission.Registry,
	logger *zap.Logger,
	requestTimeout time.Duration,
) http.Handler {
	r := chi.NewRouter()

	// Base Middlewares
	r.Use(chiMiddleware.RequestID)
	r.Use(chiMiddleware.RealIP)
	r.Use(middleware.RequestLogger(logger))
	r.Use(chiMiddleware.Recoverer)
	if requestTimeout > 0 {
		r.Use(chiMiddleware.Timeout(requestTimeout))
	}

	// Public health check
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("OK"))
	})

	authHandler := handler.NewAuthHandler(sessions, attempts, logger)
	authHandler.RegisterRoutes(r)

	problemHandler := handler.NewProblemHandler(backend, attempts, logger)
	submissionHandler := handler.NewSubmissionHandler(backend, attempts, logger)
	userHandler := handler.NewUserHandler(sessions, backend, logger)

	r.Group(func(protected chi.Router) {
		protected.Use(middleware.RequireSession(sessions))
		protected.Route("/problems", func(pr chi.Router) {
			problemHandler.RegisterRoutes(pr)
			submissionHandler.RegisterRoutes(pr)
		})
		userHandler.RegisterRoutes(protected)
	})

	return r
}
