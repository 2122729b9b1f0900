package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/guest-list/internal/api/http/handlers"
	"github.com/spec-kit/guest-list/internal/auth"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Guests         *handlers.GuestsHandler
	Page           *handlers.PageHandler
	Auth           *handlers.AuthHandler
	AuthMiddleware *auth.AuthMiddleware
}

// NewApp builds the fiber app. Params and form values reach the controller,
// which keeps them past the request, so they must not alias fasthttp buffers.
func NewApp(name string) *fiber.App {
	return fiber.New(fiber.Config{
		AppName:   name,
		Immutable: true,
	})
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)
	app.Get("/health/metrics", cfg.Health.Metrics)

	app.Post("/auth/login", cfg.Auth.Login)

	site := app.Group("", cfg.AuthMiddleware.Handle)
	host := cfg.AuthMiddleware.RequireHost()

	site.Get("/", cfg.Page.Index)

	// Literal paths go before /guests/:id.
	guests := site.Group("/guests")
	guests.Get("/export", cfg.Guests.Export)
	guests.Post("/", host, cfg.Guests.SubmitForm)
	guests.Post("/reload", host, cfg.Guests.ReloadForm)
	guests.Post("/edit/cancel", host, cfg.Guests.CancelEditForm)
	guests.Post("/:id/edit", host, cfg.Guests.BeginEditForm)
	guests.Post("/:id", host, cfg.Guests.SaveEditForm)

	api := site.Group("/api")
	api.Get("/state", cfg.Guests.State)
	api.Get("/guests", cfg.Guests.List)
	api.Post("/guests", host, cfg.Guests.Create)
	api.Put("/guests/:id", host, cfg.Guests.Update)
}
