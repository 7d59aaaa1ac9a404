package middleware

import (
	"log"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/session"
)

// Session makes sure every visitor carries a session cookie and stores the
// session ID in the context under "session_id". Anonymous carts are keyed by it.
func Session(store *session.Store) fiber.Handler {
	return func(c *fiber.Ctx) error {
		sess, err := store.Get(c)
		if err != nil {
			log.Printf("Error loading session: %v", err)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"message": "Could not load session",
				"error":   err.Error(),
			})
		}

		// Save releases the session, so read the ID first.
		id := sess.ID()
		if sess.Fresh() {
			sess.Set("started_at", time.Now().UTC().Format(time.RFC3339))
			if err := sess.Save(); err != nil {
				log.Printf("Error saving session: %v", err)
				return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
					"message": "Could not save session",
					"error":   err.Error(),
				})
			}
		}

		c.Locals("session_id", id)
		return c.Next()
	}
}

// SessionID returns the visitor's session ID set by Session.
func SessionID(c *fiber.Ctx) string {
	id, _ := c.Locals("session_id").(string)
	return id
}
