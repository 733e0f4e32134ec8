package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/pragatibook/pragatibook-backend/internal/storage"
	"github.com/pragatibook/pragatibook-backend/internal/utils"
)

// UserIDKey is the locals key under which RequireAuth stores the
// authenticated user's id.
const UserIDKey = "userID"

// RequireAuth validates the Bearer token and loads the account behind it.
// A valid token for a deleted account is rejected like a bad token.
func RequireAuth(store storage.Store) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		if !strings.HasPrefix(authHeader, "Bearer ") {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Unauthorized",
			})
		}

		userID, err := utils.ParseToken(strings.TrimPrefix(authHeader, "Bearer "))
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Unauthorized",
			})
		}

		user, err := store.GetUserByID(userID)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Unauthorized",
			})
		}

		c.Locals(UserIDKey, user.ID)
		return c.Next()
	}
}

// AuthenticatedUserID returns the user id stored by RequireAuth
func AuthenticatedUserID(c *fiber.Ctx) uint {
	id, _ := c.Locals(UserIDKey).(uint)
	return id
}
