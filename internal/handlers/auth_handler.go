package handlers

import (
	"log"

	"storefront/internal/middleware"
	"storefront/internal/models"
	"storefront/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/session"
)

// AuthHandler handles HTTP requests for authentication.
type AuthHandler struct {
	authService *services.AuthService
	cartService *services.CartService
	sessions    *session.Store
	validate    *validator.Validate
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(authService *services.AuthService, cartService *services.CartService, sessions *session.Store) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		cartService: cartService,
		sessions:    sessions,
		validate:    newValidator(),
	}
}

// RegisterRoutes registers the authentication routes with the Fiber app.
// withSession must run first so login can find the visitor's cart.
func (h *AuthHandler) RegisterRoutes(router fiber.Router, withSession fiber.Handler) {
	authRoutes := router.Group("/auth", withSession)
	authRoutes.Post("/register", h.HandleRegister)
	authRoutes.Post("/login", h.HandleLogin)
	authRoutes.Post("/logout", h.HandleLogout)
}

// RegisterRequest represents the request body for registration.
type RegisterRequest struct {
	Username  string `json:"username" validate:"required,alphanum,min=3,max=100"`
	Email     string `json:"email" validate:"required,email,max=255"`
	Password  string `json:"password" validate:"required,min=8,max=72"`
	FirstName string `json:"first_name" validate:"max=150"`
	LastName  string `json:"last_name" validate:"max=150"`
}

// HandleRegister creates the account, logs the visitor in and moves their
// session cart to the new user.
func (h *AuthHandler) HandleRegister(c *fiber.Ctx) error {
	var req RegisterRequest
	if err := c.BodyParser(&req); err != nil {
		log.Printf("Error parsing register request body: %v", err)
		return badRequestBody(c, err)
	}
	if ok, err := validateRequest(c, h.validate, req); !ok {
		return err
	}

	user := models.User{
		Username:  req.Username,
		Email:     req.Email,
		Password:  req.Password,
		FirstName: req.FirstName,
		LastName:  req.LastName,
	}
	if err := h.authService.RegisterUser(&user); err != nil {
		log.Printf("Error registering user: %v", err)
		return respondError(c, err, "Registration failed")
	}

	if err := h.cartService.MergeAnonymousCart(middleware.SessionID(c), user.ID); err != nil {
		log.Printf("Error merging session cart for user %s: %v", user.ID, err)
		return respondError(c, err, "Could not transfer cart")
	}

	token, err := h.authService.IssueToken(&user)
	if err != nil {
		log.Printf("Error issuing token for user %s: %v", user.ID, err)
		return respondError(c, err, "Could not log in")
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "User registered successfully",
		"user":    user,
		"token":   token,
	})
}

// LoginRequest represents the request body for login.
type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// HandleLogin handles user login and issues a JWT token.
func (h *AuthHandler) HandleLogin(c *fiber.Ctx) error {
	var req LoginRequest
	if err := c.BodyParser(&req); err != nil {
		log.Printf("Error parsing login request body: %v", err)
		return badRequestBody(c, err)
	}
	if ok, err := validateRequest(c, h.validate, req); !ok {
		return err
	}

	user, token, err := h.authService.LoginUser(req.Username, req.Password)
	if err != nil {
		log.Printf("Error during login for user %s: %v", req.Username, err)
		return respondError(c, err, "Authentication failed")
	}

	if err := h.cartService.MergeAnonymousCart(middleware.SessionID(c), user.ID); err != nil {
		log.Printf("Error merging session cart for user %s: %v", user.ID, err)
		return respondError(c, err, "Could not transfer cart")
	}

	return c.JSON(fiber.Map{
		"message": "Login successful",
		"user":    user,
		"token":   token,
	})
}

// HandleLogout destroys the visitor's session. The client drops its token.
func (h *AuthHandler) HandleLogout(c *fiber.Ctx) error {
	sess, err := h.sessions.Get(c)
	if err != nil {
		log.Printf("Error loading session on logout: %v", err)
		return respondError(c, err, "Could not log out")
	}
	if err := sess.Destroy(); err != nil {
		log.Printf("Error destroying session: %v", err)
		return respondError(c, err, "Could not log out")
	}
	return c.JSON(fiber.Map{
		"message": "Logged out",
	})
}
