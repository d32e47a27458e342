package app

import (
	"context"
	"net/http"
	"runtime/debug"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/user/taskmanager-go/apperror"
	"github.com/user/taskmanager-go/auth"
	_ "github.com/user/taskmanager-go/docs" // registers the OpenAPI document
	"github.com/user/taskmanager-go/logging"
	"github.com/user/taskmanager-go/tasks"
	"github.com/user/taskmanager-go/users"
)

const readinessTimeout = 2 * time.Second

// routes builds the router. Chi requires all middleware to be registered before any routes.
func (a *App) routes() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(logging.RequestLogger(a.logger))
	r.Use(a.recoverer)
	r.Use(middleware.Timeout(60 * time.Second))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   a.cfg.Server.FrontendURLs,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Get("/", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("Server is Working 👌"))
	})
	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		a.responder.Message(w, http.StatusOK, "ok", nil)
	})
	r.Get("/readyz", a.handleReady)
	r.Get("/swagger/*", httpSwagger.Handler(httpSwagger.URL("/swagger/doc.json")))

	requireAuth := auth.Middleware(a.Tokens, a.stores.Users, a.responder)

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/user", users.NewHandlers(a.Users, a.responder).RegisterRoutes)
		r.Route("/task", func(r chi.Router) {
			tasks.NewHandlers(a.Tasks, a.responder).RegisterRoutes(r, requireAuth)
		})
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		a.responder.Error(w, r, apperror.NewNotFoundError("Route not found.", nil))
	})

	return r
}

func (a *App) handleReady(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), readinessTimeout)
	defer cancel()

	if err := a.stores.Ping(ctx); err != nil {
		a.logger.Warn("readiness check failed", "error", err)
		a.responder.Message(w, http.StatusServiceUnavailable, "Database unavailable.", nil)
		return
	}
	a.responder.Message(w, http.StatusOK, "ready", nil)
}

// recoverer turns a panic in a handler into a 500 error envelope.
func (a *App) recoverer(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rvr := recover(); rvr != nil {
				if rvr == http.ErrAbortHandler {
					panic(rvr)
				}
				a.logger.Error("panic recovered", "panic", rvr, "stack", string(debug.Stack()))
				a.responder.Error(w, r, apperror.NewInternalError("internal server error", nil))
			}
		}()
		next.ServeHTTP(w, r)
	})
}
