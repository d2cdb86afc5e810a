// Package devserver is an in-memory stand-in for the BrewAlgo platform API,
// used for local development and end-to-end tests of the client.
package devserver

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"brewalgo_client/internal/common/security"
	"brewalgo_client/internal/devserver/handler"
	"brewalgo_client/internal/devserver/middleware"
	"brewalgo_client/internal/devserver/repository"
	"brewalgo_client/internal/devserver/service"
	"brewalgo_client/internal/devserver/worker"
	"brewalgo_client/internal/domain/model"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/jwtauth/v5"
	"go.uber.org/zap"
)

type Options struct {
	JWTSecret []byte
	TokenTTL  time.Duration
	// Judge defaults to service.StubJudge.
	Judge  service.Judge
	Logger *zap.Logger
	// DemoUser, when set, is registered at startup.
	DemoUser *model.RegisterRequest
}

type Server struct {
	handler http.Handler
	worker  *worker.JudgeWorker
}

// New wires repositories, services and routes and loads the seed problems.
// The judge worker does not run until Start.
func New(ctx context.Context, opts Options) (*Server, error) {
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	if opts.Judge == nil {
		opts.Judge = service.StubJudge{}
	}
	if opts.TokenTTL <= 0 {
		opts.TokenTTL = 72 * time.Hour
	}
	tokenAuth := security.NewTokenAuth(opts.JWTSecret)

	userRepo := repository.NewMemUserRepository()
	problemRepo := repository.NewMemProblemRepository()
	submissionRepo := repository.NewMemSubmissionRepository()

	judgeWorker := worker.NewJudgeWorker(opts.Judge, 16, opts.Logger.Named("judge"))

	authService := service.NewAuthService(userRepo, tokenAuth, opts.TokenTTL)
	userService := service.NewUserService(userRepo)
	problemService := service.NewProblemService(problemRepo)
	submissionService := service.NewSubmissionService(submissionRepo, problemRepo, userRepo, judgeWorker, opts.Logger)

	if err := problemService.Seed(ctx); err != nil {
		return nil, fmt.Errorf("seed problems: %w", err)
	}
	if opts.DemoUser != nil {
		if _, err := authService.Register(ctx, *opts.DemoUser); err != nil {
			return nil, fmt.Errorf("register demo user: %w", err)
		}
	}

	r := chi.NewRouter()
	r.Use(chiMiddleware.RequestID)
	r.Use(chiMiddleware.RealIP)
	r.Use(chiMiddleware.Recoverer)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("OK"))
	})

	r.Route("/api", func(api chi.Router) {
		api.Route("/auth", handler.NewAuthHandler(authService).RegisterRoutes)
		api.Route("/problems", handler.NewProblemHandler(problemService).RegisterRoutes)

		api.Group(func(protected chi.Router) {
			protected.Use(jwtauth.Verifier(tokenAuth))
			protected.Use(middleware.Authenticator)
			protected.Route("/users", handler.NewUserHandler(userService).RegisterRoutes)
			protected.Route("/submissions", handler.NewSubmissionHandler(submissionService).RegisterRoutes)
		})
	})

	return &Server{handler: r, worker: judgeWorker}, nil
}

func (s *Server) Handler() http.Handler {
	return s.handler
}

// Start runs the judge worker until ctx is cancelled.
func (s *Server) Start(ctx context.Context) {
	s.worker.Start(ctx)
}
