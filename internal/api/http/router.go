package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/fusion-kit/auth-service/internal/api/http/handlers"
	"github.com/fusion-kit/auth-service/internal/auth"
	"github.com/fusion-kit/auth-service/internal/domain"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Auth           *handlers.AuthHandler
	Products       *handlers.ProductsHandler
	AuthMiddleware *auth.Middleware
}

// RegisterRoutes wires HTTP routes. Each protected group fixes the store
// context its tokens resolve against.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)

	authGroup := app.Group("/auth")

	user := authGroup.Group("/user")
	user.Post("/register", cfg.Auth.Register(domain.StoreContextUser))
	user.Post("/login", cfg.Auth.Login(domain.StoreContextUser))
	user.Post("/refresh", cfg.Auth.Refresh(domain.StoreContextUser))

	userProtected := user.Group("", cfg.AuthMiddleware.Require(domain.StoreContextUser))
	userProtected.Get("/profile", cfg.Auth.Profile)
	userProtected.Post("/logout", cfg.Auth.Logout)

	admin := authGroup.Group("/admin")
	admin.Post("/register", cfg.Auth.Register(domain.StoreContextAdmin))
	admin.Post("/login", cfg.Auth.Login(domain.StoreContextAdmin))
	admin.Post("/refresh", cfg.Auth.Refresh(domain.StoreContextAdmin))

	adminProtected := admin.Group("", cfg.AuthMiddleware.Require(domain.StoreContextAdmin))
	adminProtected.Get("/profile", cfg.Auth.Profile)
	adminProtected.Post("/logout", cfg.Auth.Logout)

	products := app.Group("/products", cfg.AuthMiddleware.Require(domain.StoreContextUser))
	products.Post("", cfg.Products.Create)
	products.Get("", cfg.Products.List)
	products.Get("/:id", cfg.Products.Get)
	products.Put("/:id", cfg.Products.Update)
	products.Delete("/:id", cfg.Products.Delete)
}
