package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"brewalgo_client/internal/api"
	"brewalgo_client/internal/api/client"
	"brewalgo_client/internal/app/display"
	"brewalgo_client/internal/app/session"
	"brewalgo_client/internal/app/submission"
	"brewalgo_client/internal/common"
	"brewalgo_client/internal/domain/model"
	"brewalgo_client/internal/platform/config"
	"brewalgo_client/internal/platform/kvstore"
	"brewalgo_client/internal/platform/logger"

	"go.uber.org/zap"
)

var (
	version   string
	buildDate string
)

type options struct {
	cmd        string
	username   string
	email      string
	password   string
	difficulty string
	slug       string
	file       string
	lang       string
}

// app bundles what every command needs.
type app struct {
	cfg      *config.Config
	logger   *zap.Logger
	api      *client.Client
	sessions *session.Manager
}

func main() {
	var (
		opts    options
		showVer bool
	)

	flag.StringVar(&opts.cmd, "cmd", "", "command: serve | register | login | logout | whoami | problems | problem | submit | history | user")
	flag.StringVar(&opts.username, "username", "", "username (or email for login)")
	flag.StringVar(&opts.email, "email", "", "email for registration")
	flag.StringVar(&opts.password, "password", "", "password; prompted when empty")
	flag.StringVar(&opts.difficulty, "difficulty", "ALL", "problem filter: ALL | EASY | MEDIUM | HARD")
	flag.StringVar(&opts.slug, "slug", "", "problem slug")
	flag.StringVar(&opts.file, "file", "", "source file to submit")
	flag.StringVar(&opts.lang, "lang", "python", "language: java | python | cpp | javascript")
	flag.BoolVar(&showVer, "version", false, "show build version and date")
	flag.Parse()

	if showVer {
		fmt.Printf("BrewAlgo Client\nVersion: %s\nBuild Date: %s\n", version, buildDate)
		return
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	zl := logger.New(cfg.LogLevel)
	defer zl.Sync()

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	store, err := kvstore.Open(ctx, cfg)
	if err != nil {
		zl.Fatal("failed to open session storage", zap.String("backend", cfg.StorageBackend), zap.Error(err))
	}
	defer store.Close()

	apiClient := client.New(cfg.APIBaseURL, client.WithTimeout(cfg.HTTPTimeout), client.WithLogger(zl))
	sessions := session.NewManager(store, apiClient, zl)
	apiClient.SetTokenSource(sessions.Token)

	a := &app{cfg: cfg, logger: zl, api: apiClient, sessions: sessions}

	if opts.cmd == "serve" {
		if err := a.serve(ctx); err != nil {
			zl.Fatal("view server failed", zap.Error(err))
		}
		return
	}

	if err := sessions.Initialize(ctx); err != nil {
		zl.Warn("session restore failed, continuing signed out", zap.Error(err))
	}
	if err := a.run(ctx, opts); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// serve starts the local view server. Session restore runs in the
// background so the first requests see the loading view.
func (a *app) serve(ctx context.Context) error {
	go func() {
		if err := a.sessions.Initialize(ctx); err != nil {
			a.logger.Warn("session restore failed, continuing signed out", zap.Error(err))
		}
	}()

	attempts := submission.NewRegistry(a.api, a.logger, submission.WithTimeout(a.cfg.SubmitTimeout))
	defer attempts.ReleaseAll()

	server := &http.Server{
		Addr:         a.cfg.UIAddr,
		Handler:      api.NewRouter(a.sessions, a.api, attempts, a.logger, a.cfg.SubmitTimeout+5*time.Second),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: a.cfg.SubmitTimeout + 10*time.Second,
		IdleTimeout:  120 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		a.logger.Info("view server starting", zap.String("addr", server.Addr), zap.String("api", a.cfg.APIBaseURL))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	a.logger.Info("shutting down view server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}

func (a *app) run(ctx context.Context, opts options) error {
	switch opts.cmd {
	case "register":
		if opts.username == "" || opts.email == "" {
			return errors.New("please provide -username and -email")
		}
		user, err := a.sessions.Register(ctx, opts.username, opts.email, passwordOrPrompt(opts.password))
		if err != nil {
			return errors.New(common.UserMessage(err, "Registration failed. Please try again."))
		}
		fmt.Printf("Welcome, %s!\n", user.Username)
	case "login":
		if opts.username == "" {
			return errors.New("please provide -username")
		}
		user, err := a.sessions.Login(ctx, opts.username, passwordOrPrompt(opts.password))
		if err != nil {
			return errors.New(common.UserMessage(err, "Login failed. Please try again."))
		}
		fmt.Printf("Logged in as %s\n", user.Username)
	case "logout":
		a.sessions.Logout()
		fmt.Println("Logged out")
	case "whoami":
		user, err := a.requireUser()
		if err != nil {
			return err
		}
		if fresh, err := a.api.GetUser(ctx, user.ID); err == nil {
			a.sessions.UpdateIdentity(ctx, fresh)
			user = fresh
		}
		fmt.Println(display.RenderProfile(user))
	case "user":
		if opts.username == "" {
			return errors.New("please provide -username")
		}
		if _, err := a.requireUser(); err != nil {
			return err
		}
		user, err := a.api.GetUserByUsername(ctx, opts.username)
		if err != nil {
			return errors.New(common.UserMessage(err, "Failed to load user."))
		}
		fmt.Println(display.RenderProfile(user))
	case "problems":
		return a.listProblems(ctx, opts.difficulty)
	case "problem":
		problem, err := a.loadProblem(ctx, opts.slug)
		if err != nil {
			return err
		}
		fmt.Println(display.RenderProblem(problem))
	case "submit":
		return a.submit(ctx, opts)
	case "history":
		user, err := a.requireUser()
		if err != nil {
			return err
		}
		problem, err := a.loadProblem(ctx, opts.slug)
		if err != nil {
			return err
		}
		subs, err := a.api.ListUserProblemSubmissions(ctx, user.ID, problem.ID)
		if err != nil {
			return errors.New(common.UserMessage(err, "Failed to load submissions."))
		}
		fmt.Println(display.RenderHistory(subs))
	default:
		return fmt.Errorf("unknown command: %q (see -help)", opts.cmd)
	}
	return nil
}

func (a *app) requireUser() (*model.User, error) {
	if user := a.sessions.CurrentIdentity(); user != nil {
		return user, nil
	}
	return nil, errors.New("not logged in; run -cmd login first")
}

func (a *app) listProblems(ctx context.Context, filter string) error {
	if _, err := a.requireUser(); err != nil {
		return err
	}
	var (
		problems []model.Problem
		err      error
	)
	if filter == "" || strings.EqualFold(filter, "ALL") {
		problems, err = a.api.ListProblems(ctx)
	} else {
		d, ok := model.ParseDifficulty(filter)
		if !ok {
			return fmt.Errorf("unknown difficulty %q", filter)
		}
		problems, err = a.api.ListProblemsByDifficulty(ctx, d)
	}
	if err != nil {
		return errors.New(common.UserMessage(err, "Failed to load problems."))
	}
	fmt.Println(display.RenderProblemList(problems))
	return nil
}

func (a *app) loadProblem(ctx context.Context, problemSlug string) (*model.Problem, error) {
	if _, err := a.requireUser(); err != nil {
		return nil, err
	}
	if problemSlug == "" {
		return nil, errors.New("please provide -slug")
	}
	problem, err := a.api.GetProblemBySlug(ctx, problemSlug)
	if errors.Is(err, common.ErrNotFound) {
		return nil, errors.New("problem not found")
	}
	if err != nil {
		return nil, errors.New(common.UserMessage(err, "Failed to load problem."))
	}
	return problem, nil
}

func (a *app) submit(ctx context.Context, opts options) error {
	user, err := a.requireUser()
	if err != nil {
		return err
	}
	problem, err := a.loadProblem(ctx, opts.slug)
	if err != nil {
		return err
	}
	if opts.file == "" {
		return errors.New("please provide -file")
	}
	code, err := os.ReadFile(opts.file)
	if err != nil {
		return fmt.Errorf("read source: %w", err)
	}
	lang, ok := model.ParseLanguage(opts.lang)
	if !ok {
		lang = model.Language(strings.ToUpper(opts.lang))
	}

	coord := submission.NewCoordinator(a.api, a.logger, submission.WithTimeout(a.cfg.SubmitTimeout))
	defer coord.Close()

	fmt.Println("Submitting...")
	result, err := coord.Submit(ctx, user.ID, problem.ID, string(code), lang)
	if err != nil {
		if msg := coord.State().Message; msg != "" {
			return errors.New(msg)
		}
		return errors.New(common.UserMessage(err, submission.FailureMessage))
	}
	fmt.Println(display.RenderResult(result))
	return nil
}

func passwordOrPrompt(password string) string {
	if password != "" {
		return password
	}
	fmt.Print("Password: ")
	scanner := bufio.NewScanner(os.Stdin)
	if !scanner.Scan() {
		return ""
	}
	return strings.TrimSpace(scanner.Text())
}
