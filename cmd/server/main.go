package main

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/getsentry/sentry-go"
	sentryfiber "github.com/getsentry/sentry-go/fiber"

	"github.com/gofiber/fiber/v2"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/polito-log/backend/internal/auth"
	"github.com/polito-log/backend/internal/config"
	"github.com/polito-log/backend/internal/database"
	"github.com/polito-log/backend/internal/email"
	"github.com/polito-log/backend/internal/handlers"
	"github.com/polito-log/backend/internal/logging"
	"github.com/polito-log/backend/internal/middleware"
	"github.com/polito-log/backend/internal/repositories"
	"github.com/polito-log/backend/internal/routes"
	"github.com/polito-log/backend/internal/services"
	"github.com/polito-log/backend/internal/validator"
)

func main() {
	cfg := config.Load()

	// Structured logging (JSON to stdout)
	stdout := logging.Setup(cfg.LogLevel)

	if err := cfg.Validate(); err != nil {
		slog.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	codec, err := auth.NewCodec(cfg.JWTSecret, cfg.JWTAlgorithm, cfg.SessionTTL)
	if err != nil {
		slog.Error("session codec setup failed", "error", err)
		os.Exit(1)
	}

	sender, err := email.New(cfg)
	if err != nil {
		slog.Error("email sender setup failed", "error", err)
		os.Exit(1)
	}

	// Database
	db, err := database.Connect(cfg)
	if err != nil {
		slog.Error("database connection failed", "error", err)
		os.Exit(1)
	}

	migrateCtx, cancel := context.WithTimeout(context.Background(), time.Minute)
	err = database.Migrate(migrateCtx, db)
	cancel()
	if err != nil {
		slog.Error("migration failed", "error", err)
		os.Exit(1)
	}

	// PostgreSQL log handler (ERROR+ async batch)
	pgLogHandler := logging.NewPGHandler(db)
	slog.SetDefault(slog.New(logging.NewMultiHandler(stdout, pgLogHandler)))

	// Services
	users := repositories.NewUserRepository(db)
	authService := services.NewAuthService(users, repositories.NewMagicLinkRepository(db), sender, codec, cfg)
	statementService := services.NewStatementService(repositories.NewStatementRepository(db))

	// Handlers
	validate := validator.New()
	h := routes.Handlers{
		Auth:       handlers.NewAuthHandler(authService, validate),
		Statements: handlers.NewStatementHandler(statementService, validate),
		Admin:      handlers.NewAdminHandler(authService, validate),
		Health: handlers.NewHealthHandler(cfg, func(ctx context.Context) error {
			return database.Ping(ctx, db)
		}),
	}

	// Sentry error tracking
	if cfg.SentryDSN != "" {
		if err := sentry.Init(sentry.ClientOptions{
			Dsn:              cfg.SentryDSN,
			EnableTracing:    true,
			TracesSampleRate: 0.2,
			Environment:      cfg.Environment,
			Release:          cfg.Version,
		}); err != nil {
			slog.Error("sentry init failed", "error", err)
		}
	}

	// Fiber app
	app := fiber.New(fiber.Config{
		AppName:      cfg.ProjectName,
		BodyLimit:    1 * 1024 * 1024,
		UnescapePath: true,
		ErrorHandler: customErrorHandler,
	})

	// Sentry middleware
	app.Use(sentryfiber.New(sentryfiber.Options{
		Repanic:         true,
		WaitForDelivery: false,
	}))

	// Global middleware
	app.Use(recover.New())
	app.Use(requestid.New())
	app.Use(fiberlogger.New(fiberlogger.Config{
		Format: "${time} | ${status} | ${latency} | ${ip} | ${method} | ${path} | ${locals:requestid}\n",
	}))
	app.Use(middleware.CORS(cfg))
	app.Use(func(c *fiber.Ctx) error {
		c.Set("X-Content-Type-Options", "nosniff")
		c.Set("X-Frame-Options", "DENY")
		return c.Next()
	})

	// Routes
	routes.Setup(app, cfg, codec, authService, h)

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		slog.Info("server starting", "port", cfg.Port, "env", cfg.Environment)
		if err := app.Listen(":" + cfg.Port); err != nil {
			slog.Error("server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	<-quit
	slog.Info("shutting down server...")

	if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
		slog.Error("server shutdown error", "error", err)
	}

	pgLogHandler.Stop()
	sentry.Flush(2 * time.Second)

	if err := database.Close(db); err != nil {
		slog.Error("database close error", "error", err)
	}

	slog.Info("server stopped")
}

func customErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	message := "Internal server error"
	var e *fiber.Error
	if errors.As(err, &e) {
		code = e.Code
		message = e.Message
	}

	// Only expose error details for client errors (4xx), not server errors (5xx)
	if code >= 500 {
		attrs := []any{"method", c.Method(), "path", c.Path(), "error", err.Error()}
		if id, ok := c.Locals("requestid").(string); ok {
			attrs = append(attrs, "request_id", id)
		}
		slog.Error("unhandled server error", attrs...)
		if hub := sentryfiber.GetHubFromContext(c); hub != nil {
			hub.CaptureException(err)
		}
		message = "Internal server error"
	}

	return c.Status(code).JSON(fiber.Map{
		"error":   true,
		"message": message,
	})
}
