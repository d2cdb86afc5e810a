package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"brewalgo_client/internal/devserver"
	"brewalgo_client/internal/domain/model"
	"brewalgo_client/internal/platform/config"
	"brewalgo_client/internal/platform/logger"

	"go.uber.org/zap"
)

func main() {
	// 1. Load Configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// 2. Logger
	zl := logger.New(cfg.LogLevel)
	defer zl.Sync()

	// 3. Backend with seed data
	opts := devserver.Options{
		JWTSecret: []byte(cfg.DevJWTSecret),
		TokenTTL:  cfg.DevJWTExpiration,
		Logger:    zl,
	}
	if cfg.DevSeedDemoUser {
		opts.DemoUser = &model.RegisterRequest{Username: "demo", Email: "demo@brewalgo.dev", Password: "demo1234"}
	}
	srv, err := devserver.New(context.Background(), opts)
	if err != nil {
		zl.Fatal("failed to build dev server", zap.Error(err))
	}

	// 4. Judge worker
	workerCtx, workerCancel := context.WithCancel(context.Background())
	defer workerCancel()
	go srv.Start(workerCtx)

	// 5. HTTP Server
	server := &http.Server{
		Addr:         ":" + cfg.DevServerPort,
		Handler:      srv.Handler(),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 70 * time.Second, // submissions block until judged
		IdleTimeout:  120 * time.Second,
	}

	// 6. Graceful Shutdown
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	go func() {
		zl.Info("dev server starting", zap.String("addr", server.Addr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zl.Fatal("could not listen", zap.String("addr", server.Addr), zap.Error(err))
		}
	}()

	<-stop

	zl.Info("shutting down dev server")
	workerCancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		zl.Fatal("server shutdown failed", zap.Error(err))
	}
	zl.Info("dev server stopped")
}
