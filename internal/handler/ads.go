package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/xreward/backend/internal/middleware"
)

// WatchAd records one ad watch for the caller, same as the boost button in the bot.
func (h *Handler) WatchAd(c *fiber.Ctx) error {
	userID := middleware.GetUserID(c)
	if userID == 0 {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "unauthorized",
		})
	}

	if _, err := h.userService.EnsureUser(c.Context(), userID, ""); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "failed to get user",
		})
	}

	result, err := h.adService.WatchAd(c.Context(), userID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "failed to record ad watch",
		})
	}

	return c.JSON(result)
}
