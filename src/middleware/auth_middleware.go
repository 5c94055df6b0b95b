package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/picshare/backend/src/lib"
	"github.com/picshare/backend/src/storage"
)

// ProtectRoute checks for a valid Bearer token, loads the acting user and
// attaches it to the request context under "user".
func ProtectRoute(store storage.Storage) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		if authHeader == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(lib.ErrorResponse("No token provided"))
		}

		if !strings.HasPrefix(authHeader, "Bearer ") {
			return c.Status(fiber.StatusUnauthorized).JSON(lib.ErrorResponse("Invalid token format"))
		}
		token := strings.TrimPrefix(authHeader, "Bearer ")

		claims, err := lib.VerifyJWT(token)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(lib.ErrorResponse("Invalid token"))
		}

		userIDHex, ok := claims["userId"].(string)
		if !ok {
			return c.Status(fiber.StatusUnauthorized).JSON(lib.ErrorResponse("Invalid token"))
		}

		userID, err := primitive.ObjectIDFromHex(userIDHex)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(lib.ErrorResponse("Invalid user ID"))
		}

		user, err := store.GetUserByID(c.Context(), userID)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(lib.ErrorResponse("User not found"))
		}

		user.Password = ""
		c.Locals("user", user)

		return c.Next()
	}
}
