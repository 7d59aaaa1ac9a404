// Package app wires configuration, storage and handlers into a Fiber app.
package app

import (
	"time"

	"storefront/internal/cache"
	"storefront/internal/config"
	"storefront/internal/handlers"
	"storefront/internal/middleware"
	"storefront/internal/repositories"
	"storefront/internal/services"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/session"
	"gorm.io/gorm"
)

// App is the assembled HTTP application with the services behind it.
type App struct {
	Fiber    *fiber.App
	Auth     *services.AuthService
	Products *services.ProductService
	Carts    *services.CartService
	Orders   *services.OrderService
	Sessions *session.Store
}

// New builds the application. publisher may be nil when no broker is
// available; orders are then placed without events.
func New(cfg config.Config, db *gorm.DB, publisher services.OrderEventPublisher) (*App, error) {
	policy, err := services.ParseMergePolicy(cfg.CartMergePolicy)
	if err != nil {
		return nil, err
	}

	// --- Repositories ---
	repos := repositories.NewGORMRepositories(db)
	tx := repositories.NewGORMTransactor(db)

	// --- Services ---
	ordersCache := cache.New(cfg.OrdersCacheTTL, 2*cfg.OrdersCacheTTL)
	authService := services.NewAuthService(repos.Users, cfg.JWTSecret, cfg.TokenTTL)
	productService := services.NewProductService(repos.Products)
	cartService := services.NewCartService(tx, repos.Carts, repos.Products, policy)
	orderService := services.NewOrderService(tx, repos.Orders, ordersCache, cfg.OrdersCacheTTL, publisher)

	sessions := session.New(session.Config{
		Expiration:     cfg.SessionTTL,
		KeyLookup:      "cookie:session_id",
		CookieHTTPOnly: true,
		CookieSameSite: "Lax",
	})

	// --- Handlers ---
	authHandler := handlers.NewAuthHandler(authService, cartService, sessions)
	productHandler := handlers.NewProductHandler(productService)
	cartHandler := handlers.NewCartHandler(cartService)
	orderHandler := handlers.NewOrderHandler(orderService)
	userHandler := handlers.NewUserHandler(authService, orderService)

	app := fiber.New(fiber.Config{
		AppName: "storefront",
	})

	// --- Middleware ---
	app.Use(recover.New())
	app.Use(logger.New()) // Request logger

	// --- Health Check Endpoint ---
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusOK).JSON(fiber.Map{
			"status":   "healthy",
			"time":     time.Now().Format(time.RFC3339),
			"rabbitMQ": publisher != nil,
		})
	})

	// --- API Routes ---
	// Only the routes that touch the anonymous cart start a session.
	apiV1 := app.Group("/api/v1")
	withSession := middleware.Session(sessions)
	authRequired := middleware.AuthRequired(authService)
	staffRequired := middleware.StaffRequired()

	authHandler.RegisterRoutes(apiV1, withSession)
	productHandler.RegisterRoutes(apiV1, authRequired, staffRequired)
	cartHandler.RegisterRoutes(apiV1, withSession, middleware.OptionalAuth(authService))
	orderHandler.RegisterRoutes(apiV1, authRequired, staffRequired)
	userHandler.RegisterRoutes(apiV1, authRequired)

	return &App{
		Fiber:    app,
		Auth:     authService,
		Products: productService,
		Carts:    cartService,
		Orders:   orderService,
		Sessions: sessions,
	}, nil
}
