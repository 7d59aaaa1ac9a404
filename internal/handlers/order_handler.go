package handlers

import (
	"fmt"
	"log"

	"storefront/internal/middleware"
	"storefront/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// OrderHandler handles HTTP requests for orders.
type OrderHandler struct {
	service  *services.OrderService
	validate *validator.Validate
}

// NewOrderHandler creates a new OrderHandler.
func NewOrderHandler(service *services.OrderService) *OrderHandler {
	return &OrderHandler{
		service:  service,
		validate: newValidator(),
	}
}

// RegisterRoutes registers the order routes with the Fiber app. Every route
// requires auth; status changes are for staff only.
func (h *OrderHandler) RegisterRoutes(router fiber.Router, auth, staff fiber.Handler) {
	orderRoutes := router.Group("/orders", auth)
	orderRoutes.Get("/", h.HandleGetOrders)
	orderRoutes.Get("/:id", h.HandleGetOrderByID)
	orderRoutes.Post("/", h.HandleCreateOrder)
	orderRoutes.Patch("/:id/status", staff, h.HandleUpdateOrderStatus)
}

// CheckoutRequest is the checkout form.
type CheckoutRequest struct {
	PhoneNumber      string `json:"phone_number" validate:"required,numeric,min=7,max=20"`
	RequiresDelivery bool   `json:"requires_delivery"`
	DeliveryAddress  string `json:"delivery_address" validate:"required_if=RequiresDelivery true,max=255"`
	PaymentOnGet     bool   `json:"payment_on_get"`
}

func (r CheckoutRequest) toInput() services.CheckoutInput {
	return services.CheckoutInput{
		PhoneNumber:      r.PhoneNumber,
		RequiresDelivery: r.RequiresDelivery,
		DeliveryAddress:  r.DeliveryAddress,
		PaymentOnGet:     r.PaymentOnGet,
	}
}

// HandleGetOrders returns the current user's order history.
func (h *OrderHandler) HandleGetOrders(c *fiber.Ctx) error {
	userID := middleware.UserID(c)
	orders, err := h.service.GetUserOrders(userID)
	if err != nil {
		log.Printf("Error getting orders of user %s: %v", userID, err)
		return respondError(c, err, "Could not retrieve orders")
	}
	return c.JSON(orders)
}

// HandleGetOrderByID retrieves one of the current user's orders.
func (h *OrderHandler) HandleGetOrderByID(c *fiber.Ctx) error {
	orderID := c.Params("id")
	order, err := h.service.GetUserOrder(middleware.UserID(c), orderID)
	if err != nil {
		log.Printf("Error getting order by ID %s: %v", orderID, err)
		return respondError(c, err, "Could not retrieve order")
	}
	return c.JSON(order)
}

// HandleCreateOrder checks out the current user's cart.
func (h *OrderHandler) HandleCreateOrder(c *fiber.Ctx) error {
	var req CheckoutRequest
	if err := c.BodyParser(&req); err != nil {
		log.Printf("Error parsing request body: %v", err)
		return badRequestBody(c, err)
	}
	if ok, err := validateRequest(c, h.validate, req); !ok {
		return err
	}

	userID := middleware.UserID(c)
	order, err := h.service.PlaceOrder(userID, req.toInput())
	if err != nil {
		log.Printf("Error creating order for user %s: %v", userID, err)
		return respondError(c, err, "Could not place order")
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "Order placed",
		"order":   order,
	})
}

// HandleUpdateOrderStatus updates the status of any order. Staff only.
func (h *OrderHandler) HandleUpdateOrderStatus(c *fiber.Ctx) error {
	orderID := c.Params("id")
	var updateData struct {
		Status string `json:"status" validate:"required"`
	}

	if err := c.BodyParser(&updateData); err != nil {
		log.Printf("Error parsing request body for status update: %v", err)
		return badRequestBody(c, err)
	}
	if ok, err := validateRequest(c, h.validate, updateData); !ok {
		return err
	}

	if err := h.service.UpdateOrderStatus(orderID, updateData.Status); err != nil {
		log.Printf("Error updating order status for order %s: %v", orderID, err)
		return respondError(c, err, "Could not update order status")
	}

	return c.JSON(fiber.Map{
		"message": fmt.Sprintf("Order %s status updated successfully to %s", orderID, updateData.Status),
	})
}
