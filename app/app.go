// Package app assembles the application: it opens the stores, builds the services
// and the HTTP router, and runs the server until its context is cancelled.
// This is the counterpart of the root AppModule plus `main.ts` bootstrap in Nest.js,
// with every dependency wired by hand instead of by a DI container.
package app

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/user/taskmanager-go/auth"
	"github.com/user/taskmanager-go/config"
	"github.com/user/taskmanager-go/tasks"
	"github.com/user/taskmanager-go/users"
	"github.com/user/taskmanager-go/validation"
	"github.com/user/taskmanager-go/webutil"
)

const shutdownTimeout = 30 * time.Second

// App owns the long-lived objects of a running server.
type App struct {
	cfg    *config.AppConfig
	logger *slog.Logger
	stores *Stores

	Tokens *auth.TokenService
	Users  *users.UserService
	Tasks  *tasks.TaskService

	responder *webutil.Responder
	handler   http.Handler
}

// New connects to the configured backend and builds the App.
func New(ctx context.Context, cfg *config.AppConfig, logger *slog.Logger) (*App, error) {
	stores, err := OpenStores(ctx, cfg.Database, logger)
	if err != nil {
		return nil, err
	}
	return NewWithStores(cfg, logger, stores), nil
}

// NewWithStores builds the App on already opened stores.
func NewWithStores(cfg *config.AppConfig, logger *slog.Logger, stores *Stores) *App {
	v := validation.New()
	tokens := auth.NewTokenService(cfg.Auth.JWTSecret, cfg.Auth.TokenDuration)
	taskService := tasks.NewTaskService(stores.Tasks, v)

	a := &App{
		cfg:       cfg,
		logger:    logger,
		stores:    stores,
		Tokens:    tokens,
		Tasks:     taskService,
		Users:     users.NewUserService(stores.Users, taskService, tokens, v),
		responder: webutil.NewResponder(logger, cfg.IsProduction()),
	}
	a.handler = a.routes()
	return a
}

// Handler returns the root HTTP handler.
func (a *App) Handler() http.Handler {
	return a.handler
}

// Run serves HTTP until ctx is cancelled, then shuts the server down gracefully.
func (a *App) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:         a.cfg.Server.Addr(),
		Handler:      a.handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		a.logger.Info("server starting", "addr", srv.Addr, "env", a.cfg.Server.Environment)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		a.logger.Info("server shutting down")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		return err
	}
	a.logger.Info("server stopped gracefully")
	return nil
}

// Close releases the store connections.
func (a *App) Close(ctx context.Context) error {
	return a.stores.Close(ctx)
}
