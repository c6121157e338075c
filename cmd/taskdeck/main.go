package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/mtlprog/taskdeck/internal/auth"
	"github.com/mtlprog/taskdeck/internal/config"
	"github.com/mtlprog/taskdeck/internal/database"
	"github.com/mtlprog/taskdeck/internal/domain"
	"github.com/mtlprog/taskdeck/internal/handler"
	"github.com/mtlprog/taskdeck/internal/logger"
	"github.com/mtlprog/taskdeck/internal/middleware"
	"github.com/mtlprog/taskdeck/internal/notify"
	"github.com/mtlprog/taskdeck/internal/repository"
	"github.com/mtlprog/taskdeck/internal/service"
	"github.com/urfave/cli/v2"
)

func main() {
	app := &cli.App{
		Name:  "taskdeck",
		Usage: "Project task tracker with a workflow state machine",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Aliases: []string{"l"},
				Value:   "info",
				Usage:   "Log level (debug, info, warn, error)",
				EnvVars: []string{"LOG_LEVEL"},
			},
			&cli.StringFlag{
				Name:    "database-url",
				Aliases: []string{"d"},
				Value:   config.DefaultDatabaseURL,
				Usage:   "PostgreSQL database URL",
				EnvVars: []string{"DATABASE_URL"},
			},
			&cli.StringFlag{
				Name:    "jwt-secret",
				Usage:   "Secret for signing and verifying auth tokens",
				EnvVars: []string{"JWT_SECRET"},
			},
		},
		Before: func(c *cli.Context) error {
			logger.Setup(logger.ParseLevel(c.String("log-level")))
			return nil
		},
		Commands: []*cli.Command{
			{
				Name:  "serve",
				Usage: "Start the web server",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "port",
						Aliases: []string{"p"},
						Value:   config.DefaultPort,
						Usage:   "HTTP server port",
						EnvVars: []string{"PORT"},
					},
					&cli.StringFlag{
						Name:    "slack-token",
						Usage:   "Slack bot token for assignment notices (optional)",
						EnvVars: []string{"SLACK_TOKEN"},
					},
					&cli.StringFlag{
						Name:    "slack-channel",
						Usage:   "Slack channel for assignment notices",
						EnvVars: []string{"SLACK_CHANNEL"},
					},
				},
				Action: runServe,
			},
			{
				Name:  "create-user",
				Usage: "Register a user account",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "name", Required: true, Usage: "Display name"},
					&cli.StringFlag{Name: "email", Required: true, Usage: "Email address (unique)"},
					&cli.StringFlag{Name: "role", Value: "DEVELOPER", Usage: "Role (ADMIN, MANAGER, DEVELOPER, VIEWER)"},
				},
				Action: runCreateUser,
			},
			{
				Name:  "issue-token",
				Usage: "Mint an auth token for a user",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "user-id", Required: true, Usage: "User id (token subject)"},
					&cli.StringFlag{Name: "role", Usage: "Role claim; omit for a role-less token"},
					&cli.DurationFlag{Name: "ttl", Value: config.DefaultTokenTTL, Usage: "Token lifetime"},
				},
				Action: runIssueToken,
			},
		},
		Action: runServe,
	}

	if err := app.Run(os.Args); err != nil {
		slog.Error("application error", "error", err)
		os.Exit(1)
	}
}

func connect(c *cli.Context) (*database.DB, error) {
	databaseURL := c.String("database-url")
	if databaseURL == "" {
		return nil, fmt.Errorf("database-url is required")
	}

	db, err := database.New(c.Context, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := database.RunMigrations(c.Context, db.Pool()); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return db, nil
}

func runServe(c *cli.Context) error {
	ctx := c.Context

	port := c.String("port")
	if port == "" {
		port = config.DefaultPort
	}
	jwtSecret := c.String("jwt-secret")
	if jwtSecret == "" {
		return fmt.Errorf("jwt-secret is required")
	}

	db, err := connect(c)
	if err != nil {
		return err
	}
	defer db.Close()

	var notifier service.Notifier = notify.LogNotifier{}
	if token := c.String("slack-token"); token != "" {
		slackNotifier, err := notify.NewSlackNotifier(token, c.String("slack-channel"))
		if err != nil {
			return fmt.Errorf("configure slack notifier: %w", err)
		}
		notifier = slackNotifier
		slog.Info("slack notifications enabled", "channel", c.String("slack-channel"))
	}

	taskRepo := repository.NewTaskRepository(db.Pool())
	userRepo := repository.NewUserRepository(db.Pool())
	taskService := service.NewTaskService(taskRepo, userRepo, notifier)
	authMiddleware := middleware.NewAuthMiddleware(jwtSecret)

	h := handler.New(taskService, authMiddleware, db.Pool())

	mux := http.NewServeMux()
	h.RegisterRoutes(mux)

	server := &http.Server{
		Addr:              ":" + port,
		Handler:           mux,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
	}

	serverErr := make(chan error, 1)
	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGTERM)

	go func() {
		slog.Info("starting server", "server_addr", "http://localhost:"+port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErr <- err
		}
	}()

	select {
	case err := <-serverErr:
		return fmt.Errorf("server error: %w", err)
	case <-done:
		slog.Info("shutting down server")
	}

	shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	slog.Info("server stopped")
	return nil
}

func runCreateUser(c *cli.Context) error {
	role, err := domain.ParseRole(c.String("role"))
	if err != nil {
		return err
	}

	db, err := connect(c)
	if err != nil {
		return err
	}
	defer db.Close()

	userRepo := repository.NewUserRepository(db.Pool())
	user, err := userRepo.Create(c.Context, domain.User{
		ID:    uuid.NewString(),
		Name:  c.String("name"),
		Email: c.String("email"),
		Role:  role,
	})
	if err != nil {
		return fmt.Errorf("create user: %w", err)
	}

	slog.Info("user created",
		"user_id", user.ID,
		"email", user.Email,
		"role", user.Role,
	)
	fmt.Println(user.ID)
	return nil
}

func runIssueToken(c *cli.Context) error {
	jwtSecret := c.String("jwt-secret")
	if jwtSecret == "" {
		return fmt.Errorf("jwt-secret is required")
	}

	var role domain.Role
	if raw := c.String("role"); raw != "" {
		parsed, err := domain.ParseRole(raw)
		if err != nil {
			return err
		}
		role = parsed
	}

	token, err := auth.MintToken(jwtSecret, c.String("user-id"), role, c.Duration("ttl"))
	if err != nil {
		return fmt.Errorf("issue token: %w", err)
	}

	fmt.Println(token)
	return nil
}
