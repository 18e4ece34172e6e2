package middleware

import (
	"github.com/gofiber/fiber/v2"
	"github.com/xreward/backend/internal/service"
)

const (
	AdminKey   = "is_admin"
	AdminIDKey = "admin_id"
)

// AdminAuth lets through configured admins only.
func AdminAuth(verifiers *service.VerifierService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID := GetUserID(c)
		if userID == 0 {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "unauthorized",
			})
		}

		if !verifiers.IsAdmin(userID) {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
				"error": "only admins can do this",
			})
		}

		c.Locals(AdminKey, true)
		c.Locals(AdminIDKey, userID)

		return c.Next()
	}
}

// VerifierAuth lets through admins and verifiers.
func VerifierAuth(verifiers *service.VerifierService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID := GetUserID(c)
		if userID == 0 {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "unauthorized",
			})
		}

		allowed, err := verifiers.CanViewVerifiers(c.Context(), userID)
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "failed to check verifier status",
			})
		}
		if !allowed {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
				"error": "access denied",
			})
		}

		c.Locals(AdminKey, verifiers.IsAdmin(userID))
		return c.Next()
	}
}

// GetAdminID returns the admin user ID from context
func GetAdminID(c *fiber.Ctx) int64 {
	adminID, ok := c.Locals(AdminIDKey).(int64)
	if !ok {
		return 0
	}
	return adminID
}

func IsAdmin(c *fiber.Ctx) bool {
	isAdmin, ok := c.Locals(AdminKey).(bool)
	return ok && isAdmin
}
