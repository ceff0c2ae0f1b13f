package routes

import (
	"time"

	"github.com/gestorerp/admin-api/internal/config"
	"github.com/gestorerp/admin-api/internal/handlers"
	"github.com/gestorerp/admin-api/internal/middleware"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"gorm.io/gorm"
)

func Setup(
	app *fiber.App,
	cfg *config.Config,
	db *gorm.DB,
	authHandler *handlers.AuthHandler,
	registerHandler *handlers.RegisterHandler,
	userHandler *handlers.UserHandler,
	catalogHandler *handlers.CatalogHandler,
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

	api.Get("/health", healthHandler.Check)

	// Login and refresh get a stricter limit: 10 req/min per IP
	authLimiter := limiter.New(limiter.Config{
		Max:               10,
		Expiration:        1 * time.Minute,
		LimiterMiddleware: limiter.SlidingWindow{},
		KeyGenerator:      func(c *fiber.Ctx) string { return c.IP() },
	})
	api.Post("/login", authLimiter, authHandler.Login)
	api.Post("/refresh", authLimiter, authHandler.Refresh)

	// Session-bound routes: token plus live account-state check
	session := []fiber.Handler{middleware.JWTProtected(cfg), middleware.RequireSession(db)}

	api.Post("/logout", middleware.JWTProtected(cfg), authHandler.Logout)
	api.Get("/session", append(session, authHandler.Session)...)

	// Catalog: any authenticated user; per-view role gates apply inside
	api.Get("/views", append(session, catalogHandler.ListViews)...)
	api.Get("/views/alias/:alias", append(session, catalogHandler.GetViewByAlias)...)
	api.Get("/views/:id", append(session, catalogHandler.GetView)...)
	api.Get("/modules", append(session, catalogHandler.ListModules)...)
	api.Get("/modules/:name", append(session, catalogHandler.GetModule)...)

	// Administrative surface
	admin := append(session, middleware.AdminRequired())

	register := api.Group("/register", admin...)
	register.Post("/", registerHandler.Register)
	register.Post("/check-availability", registerHandler.CheckAvailability)
	register.Get("/options", registerHandler.Options)

	users := api.Group("/users", admin...)
	users.Get("/", userHandler.List)
	users.Post("/batch", userHandler.Batch)
	users.Get("/:id", userHandler.Get)
	users.Put("/:id", userHandler.Update)
	users.Patch("/:id/status", userHandler.UpdateStatus)
	users.Post("/:id/force-logout", userHandler.ForceLogout)
	users.Delete("/:id", userHandler.Delete)
}
