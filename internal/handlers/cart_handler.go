package handlers

import (
	"log"

	"storefront/internal/middleware"
	"storefront/internal/models"
	"storefront/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// CartHandler handles the cart of the current visitor: the user's cart when
// a token is presented, the session's cart otherwise.
type CartHandler struct {
	service  *services.CartService
	validate *validator.Validate
}

// NewCartHandler creates a new CartHandler.
func NewCartHandler(service *services.CartService) *CartHandler {
	return &CartHandler{
		service:  service,
		validate: newValidator(),
	}
}

// RegisterRoutes registers the cart routes. identify must resolve an
// optional user; anonymous visitors fall back to the session withSession
// starts.
func (h *CartHandler) RegisterRoutes(router fiber.Router, withSession, identify fiber.Handler) {
	cartRoutes := router.Group("/cart", withSession, identify)
	cartRoutes.Get("/", h.HandleGetCart)
	cartRoutes.Post("/items", h.HandleAddItem)
	cartRoutes.Patch("/items/:id", h.HandleUpdateItem)
	cartRoutes.Delete("/items/:id", h.HandleRemoveItem)
}

func cartOwner(c *fiber.Ctx) models.CartOwner {
	if userID := middleware.UserID(c); userID != "" {
		return models.UserOwner(userID)
	}
	return models.SessionOwner(middleware.SessionID(c))
}

// AddItemRequest is the body of POST /cart/items. Quantity defaults to 1.
type AddItemRequest struct {
	ProductID string `json:"product_id" validate:"required"`
	Quantity  int    `json:"quantity" validate:"omitempty,gt=0"`
}

// UpdateItemRequest is the body of PATCH /cart/items/:id.
type UpdateItemRequest struct {
	Quantity int `json:"quantity" validate:"required,gt=0"`
}

// HandleGetCart returns the cart with line and grand totals.
func (h *CartHandler) HandleGetCart(c *fiber.Ctx) error {
	cart, err := h.service.GetCart(cartOwner(c))
	if err != nil {
		log.Printf("Error getting cart: %v", err)
		return respondError(c, err, "Could not retrieve cart")
	}
	return c.JSON(cart)
}

// HandleAddItem puts a product in the cart.
func (h *CartHandler) HandleAddItem(c *fiber.Ctx) error {
	var req AddItemRequest
	if err := c.BodyParser(&req); err != nil {
		log.Printf("Error parsing cart request body: %v", err)
		return badRequestBody(c, err)
	}
	if ok, err := validateRequest(c, h.validate, req); !ok {
		return err
	}
	if req.Quantity == 0 {
		req.Quantity = 1
	}

	line, err := h.service.AddProduct(cartOwner(c), req.ProductID, req.Quantity)
	if err != nil {
		log.Printf("Error adding product %s to cart: %v", req.ProductID, err)
		return respondError(c, err, "Could not add product to cart")
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "Product added to cart",
		"line":    line,
	})
}

// HandleUpdateItem sets the quantity of a cart line.
func (h *CartHandler) HandleUpdateItem(c *fiber.Ctx) error {
	lineID, err := c.ParamsInt("id")
	if err != nil || lineID <= 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid cart line ID",
		})
	}

	var req UpdateItemRequest
	if err := c.BodyParser(&req); err != nil {
		log.Printf("Error parsing cart request body: %v", err)
		return badRequestBody(c, err)
	}
	if ok, err := validateRequest(c, h.validate, req); !ok {
		return err
	}

	line, err := h.service.UpdateQuantity(cartOwner(c), uint(lineID), req.Quantity)
	if err != nil {
		log.Printf("Error updating cart line %d: %v", lineID, err)
		return respondError(c, err, "Could not update cart")
	}
	return c.JSON(fiber.Map{
		"message": "Cart updated",
		"line":    line,
	})
}

// HandleRemoveItem deletes a cart line.
func (h *CartHandler) HandleRemoveItem(c *fiber.Ctx) error {
	lineID, err := c.ParamsInt("id")
	if err != nil || lineID <= 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid cart line ID",
		})
	}

	if err := h.service.RemoveLine(cartOwner(c), uint(lineID)); err != nil {
		log.Printf("Error removing cart line %d: %v", lineID, err)
		return respondError(c, err, "Could not remove product from cart")
	}
	return c.JSON(fiber.Map{
		"message": "Product removed from cart",
	})
}
