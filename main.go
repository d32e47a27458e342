// This is the entry point of the task manager API.
// It loads configuration, then dispatches to one of the CLI commands: `serve` (the
// default) starts the HTTP server, `migrate` applies the PostgreSQL schema, and
// `delete-user` removes an account together with its tasks.
//
// Analogy to Nest.js: `serve` is what `main.ts` does when it bootstraps the app; the
// other commands are the kind of thing you would put in a nest-commander script.
//
// @title Task Manager API
// @version 1.0
// @description Users sign up, sign in, and manage their own tasks.
// @BasePath /api/v1
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type 'Bearer YOUR_JWT_TOKEN' to authorize
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/urfave/cli/v2"

	"github.com/user/taskmanager-go/app"
	"github.com/user/taskmanager-go/config"
	"github.com/user/taskmanager-go/db"
	"github.com/user/taskmanager-go/logging"
)

func main() {
	// A missing .env is normal outside development; real deployments set the
	// environment directly.
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		slog.Warn("error loading .env file", "error", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := newCLI().RunContext(ctx, os.Args); err != nil {
		slog.Error("fatal", "error", err)
		os.Exit(1)
	}
}

func newCLI() *cli.App {
	return &cli.App{
		Name:   "taskmanager",
		Usage:  "task manager REST API",
		Action: serve,
		Commands: []*cli.Command{
			{
				Name:   "serve",
				Usage:  "start the HTTP server",
				Action: serve,
			},
			{
				Name:   "migrate",
				Usage:  "apply pending PostgreSQL migrations and exit",
				Action: migrate,
			},
			{
				Name:  "delete-user",
				Usage: "delete a user account and every task it owns",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "email", Usage: "email of the account to delete", Required: true},
				},
				Action: deleteUser,
			},
		},
	}
}

// setup loads the configuration and installs the process-wide logger.
func setup() (*config.AppConfig, *slog.Logger, error) {
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load config: %w", err)
	}
	logger := logging.New(cfg.Log.Level, cfg.Log.Format)
	return cfg, logger, nil
}

func serve(c *cli.Context) error {
	cfg, logger, err := setup()
	if err != nil {
		return err
	}

	// Startup failures (unreachable store, failed migrations) end the process
	// instead of leaving a server that can't answer.
	a, err := app.New(c.Context, cfg, logger)
	if err != nil {
		return fmt.Errorf("failed to initialize application: %w", err)
	}
	defer func() {
		if err := a.Close(context.Background()); err != nil {
			logger.Warn("error closing stores", "error", err)
		}
	}()

	return a.Run(c.Context)
}

func migrate(c *cli.Context) error {
	cfg, logger, err := setup()
	if err != nil {
		return err
	}

	backend, err := cfg.Database.Backend()
	if err != nil {
		return err
	}
	if backend != config.BackendPostgres {
		logger.Info("no migrations needed for this backend", "backend", backend)
		return nil
	}

	if err := db.RunMigrations(cfg.Database.URI); err != nil {
		return err
	}
	logger.Info("database migrations applied")
	return nil
}

func deleteUser(c *cli.Context) error {
	cfg, logger, err := setup()
	if err != nil {
		return err
	}

	a, err := app.New(c.Context, cfg, logger)
	if err != nil {
		return fmt.Errorf("failed to initialize application: %w", err)
	}
	defer a.Close(context.Background())

	user, purged, err := a.Users.DeleteAccountByEmail(c.Context, c.String("email"))
	if err != nil {
		return err
	}
	logger.Info("user deleted", "user_id", user.ID, "email", user.Email, "tasks_deleted", purged)
	return nil
}
