package routes

import (
	"time"

	"github.com/denizozen/glucolink-backend/internal/config"
	"github.com/denizozen/glucolink-backend/internal/handlers"
	"github.com/denizozen/glucolink-backend/internal/middleware"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"
)

func Setup(
	app *fiber.App,
	cfg *config.Config,
	syncHandler *handlers.SyncHandler,
	healthHandler *handlers.HealthHandler,
) {
	api := app.Group("/api")

	// General API rate limiter: 60 req/min per IP
	api.Use(limiter.New(limiter.Config{
		Max:               60,
		Expiration:        1 * time.Minute,
		LimiterMiddleware: limiter.SlidingWindow{},
		KeyGenerator:      func(c *fiber.Ctx) string { return c.IP() },
	}))

	// Health (no auth required)
	api.Get("/health", healthHandler.Check)

	// Sync trigger: authenticated caller, identity resolved once at the
	// boundary. Vendor quota makes this worth a stricter limit.
	syncRoutes := api.Group("/sync",
		limiter.New(limiter.Config{
			Max:               10,
			Expiration:        1 * time.Minute,
			LimiterMiddleware: limiter.SlidingWindow{},
			KeyGenerator:      func(c *fiber.Ctx) string { return c.IP() },
		}),
		middleware.CallerAuth(cfg),
		middleware.ResolveIdentity(),
	)
	syncRoutes.Post("/", syncHandler.Trigger)
}
