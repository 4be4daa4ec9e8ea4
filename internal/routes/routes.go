package routes

import (
	"github.com/gofiber/fiber/v2"
	"github.com/polito-log/backend/internal/auth"
	"github.com/polito-log/backend/internal/config"
	"github.com/polito-log/backend/internal/handlers"
	"github.com/polito-log/backend/internal/middleware"
)

type Handlers struct {
	Auth       *handlers.AuthHandler
	Statements *handlers.StatementHandler
	Admin      *handlers.AdminHandler
	Health     *handlers.HealthHandler
}

func Setup(
	app *fiber.App,
	cfg *config.Config,
	codec *auth.Codec,
	users middleware.Authenticator,
	h Handlers,
) {
	requireUser := middleware.RequireUser(codec, users)

	// Health
	app.Get("/", h.Health.Check)

	api := app.Group(cfg.APIPrefix)
	api.Get("/", h.Health.APIInfo)

	// Auth
	authGroup := api.Group("/auth")
	authGroup.Post("/magic-link", h.Auth.RequestMagicLink)
	authGroup.Post("/verify", h.Auth.Verify)
	authGroup.Get("/me", requireUser, h.Auth.Me)
	authGroup.Put("/me", requireUser, h.Auth.UpdateMe)

	// Statements. Static paths are registered before /:id.
	statements := api.Group("/statements", middleware.OptionalUser(codec, users))
	statements.Get("/", h.Statements.List)
	statements.Get("/count", h.Statements.Count)
	statements.Get("/search", h.Statements.Search)
	statements.Get("/politician/:name", h.Statements.ByPolitician)
	statements.Get("/party/:party", h.Statements.ByParty)
	statements.Get("/status/:status", h.Statements.ByStatus)
	statements.Get("/:id", h.Statements.Get)
	statements.Post("/", requireUser, h.Statements.Create)
	statements.Put("/:id", requireUser, h.Statements.Update)
	statements.Delete("/:id", requireUser, h.Statements.Delete)

	// Admin
	admin := api.Group("/admin", requireUser, middleware.AdminRequired())
	admin.Put("/users/:id", h.Admin.UpdateUser)
	admin.Post("/magic-links/cleanup", h.Admin.CleanupMagicLinks)
}
