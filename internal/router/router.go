package router

import (
	"github.com/gofiber/fiber/v2"

	"github.com/vireo-cms/vireo-api/internal/config"
	"github.com/vireo-cms/vireo-api/internal/handler"
	"github.com/vireo-cms/vireo-api/internal/middleware"
	"github.com/vireo-cms/vireo-api/internal/observability"
)

// Dependencies groups router dependencies for registration.
type Dependencies struct {
	PageHandler      *handler.PageHandler
	BlockHandler     *handler.BlockHandler
	FormHandler      *handler.FormHandler
	BlogHandler      *handler.BlogHandler
	MediaHandler     *handler.MediaHandler
	AnalyticsHandler *handler.AnalyticsHandler
	SettingsHandler  *handler.SettingsHandler
	FaqHandler       *handler.FaqHandler
	SitemapHandler   *handler.SitemapHandler
	JWTMiddleware    fiber.Handler
	TrackRateLimit   fiber.Handler
}

// Register wires the HTTP routes into the fiber application.
func Register(app *fiber.App, cfg config.Config, deps Dependencies) {
	api := app.Group("/api", func(c *fiber.Ctx) error {
		c.Set("X-Application", cfg.AppName)
		return c.Next()
	})
	api.Get("/health", handler.HealthCheck(cfg))

	app.Get("/metrics", observability.MetricsHandler())

	jwtMiddleware := deps.JWTMiddleware
	if jwtMiddleware == nil {
		jwtMiddleware = func(c *fiber.Ctx) error { return c.Next() }
	}

	// Public surface
	if deps.PageHandler != nil {
		deps.PageHandler.RegisterPublic(api.Group("/pages"))
	}
	if deps.FormHandler != nil {
		deps.FormHandler.RegisterPublic(api.Group("/forms"))
	}
	if deps.BlogHandler != nil {
		deps.BlogHandler.RegisterPublic(api.Group("/blogs"))
	}
	if deps.FaqHandler != nil {
		deps.FaqHandler.RegisterPublic(api.Group("/faq"))
	}
	if deps.SettingsHandler != nil {
		deps.SettingsHandler.RegisterPublic(api)
	}
	if deps.SitemapHandler != nil {
		deps.SitemapHandler.Register(app)
	}
	if deps.AnalyticsHandler != nil {
		track := api.Group("/analytics")
		if deps.TrackRateLimit != nil {
			track.Use(deps.TrackRateLimit)
		}
		deps.AnalyticsHandler.RegisterPublic(track)
	}

	// Admin surface
	admin := api.Group("/admin", jwtMiddleware, middleware.RequireRole("admin", "editor"))
	if deps.PageHandler != nil {
		deps.PageHandler.RegisterAdmin(admin.Group("/pages"))
	}
	if deps.BlockHandler != nil {
		deps.BlockHandler.RegisterAdmin(admin.Group("/blocks"))
	}
	if deps.FormHandler != nil {
		deps.FormHandler.RegisterAdmin(admin.Group("/forms"))
	}
	if deps.BlogHandler != nil {
		deps.BlogHandler.RegisterAdmin(admin.Group("/blogs"))
	}
	if deps.MediaHandler != nil {
		deps.MediaHandler.RegisterAdmin(admin.Group("/media"))
	}
	if deps.AnalyticsHandler != nil {
		deps.AnalyticsHandler.RegisterAdmin(admin.Group("/analytics"))
	}
	if deps.SettingsHandler != nil {
		deps.SettingsHandler.RegisterAdmin(admin)
	}
	if deps.FaqHandler != nil {
		deps.FaqHandler.RegisterAdmin(admin.Group("/faq"))
	}
}
