package auth

import (
	"strings"

	"github.com/gofiber/fiber/v2"
)

// SessionEmailKey is the fiber locals key carrying the authenticated
// staff email.
const SessionEmailKey = "sessionEmail"

// Middleware returns a fiber handler that rejects requests without a
// valid session token. The 401 body is uniform and includes the
// originally requested path so the login page can redirect back.
func Middleware(a *Authenticator) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get(fiber.HeaderAuthorization)
		tokenString := strings.TrimPrefix(authHeader, "Bearer ")
		if authHeader == "" || tokenString == authHeader {
			return unauthorized(c)
		}

		claims, err := a.Verify(tokenString)
		if err != nil {
			return unauthorized(c)
		}

		c.Locals(SessionEmailKey, claims.Email)
		return c.Next()
	}
}

func unauthorized(c *fiber.Ctx) error {
	return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
		"error":      "Unauthorized",
		"redirectTo": c.OriginalURL(),
	})
}
