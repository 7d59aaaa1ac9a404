package handlers

import (
	"log"

	"storefront/internal/middleware"
	"storefront/internal/services"

	"github.com/gofiber/fiber/v2"
)

// UserHandler serves the profile page data.
type UserHandler struct {
	authService  *services.AuthService
	orderService *services.OrderService
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(authService *services.AuthService, orderService *services.OrderService) *UserHandler {
	return &UserHandler{
		authService:  authService,
		orderService: orderService,
	}
}

// RegisterRoutes registers the user routes behind auth.
func (h *UserHandler) RegisterRoutes(router fiber.Router, auth fiber.Handler) {
	userRoutes := router.Group("/users", auth)
	userRoutes.Get("/profile", h.HandleProfile)
}

// HandleProfile returns the user with their order history. The history is
// served from cache and may lag behind recent orders.
func (h *UserHandler) HandleProfile(c *fiber.Ctx) error {
	userID := middleware.UserID(c)
	user, err := h.authService.GetUser(userID)
	if err != nil {
		log.Printf("Error getting profile of user %s: %v", userID, err)
		return respondError(c, err, "Could not retrieve profile")
	}

	orders, err := h.orderService.GetUserOrders(userID)
	if err != nil {
		log.Printf("Error getting orders of user %s: %v", userID, err)
		return respondError(c, err, "Could not retrieve orders")
	}

	return c.JSON(fiber.Map{
		"user":   user,
		"orders": orders,
	})
}
