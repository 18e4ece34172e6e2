package handler

import (
	"errors"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/xreward/backend/internal/middleware"
	"github.com/xreward/backend/internal/service"
)

type VerifierRequest struct {
	UserID int64 `json:"user_id"`
}

// ListVerifiers is open to admins and verifiers.
func (h *Handler) ListVerifiers(c *fiber.Ctx) error {
	ids, err := h.verifierSvc.ListVerifiers(c.Context())
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "failed to list verifiers",
		})
	}

	return c.JSON(fiber.Map{
		"verifiers": ids,
	})
}

func (h *Handler) AddVerifier(c *fiber.Ctx) error {
	adminID := middleware.GetAdminID(c)

	var req VerifierRequest
	if err := c.BodyParser(&req); err != nil || req.UserID == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid user_id",
		})
	}

	added, err := h.verifierSvc.AddVerifier(c.Context(), adminID, req.UserID)
	if err != nil {
		return verifierError(c, err)
	}
	if !added {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"error": "user is already a verifier",
		})
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"success": true})
}

func (h *Handler) RemoveVerifier(c *fiber.Ctx) error {
	adminID := middleware.GetAdminID(c)
	targetUserID, err := strconv.ParseInt(c.Params("user_id"), 10, 64)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid user_id",
		})
	}

	removed, err := h.verifierSvc.RemoveVerifier(c.Context(), adminID, targetUserID)
	if err != nil {
		return verifierError(c, err)
	}
	if !removed {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "user not found in verifiers",
		})
	}

	return c.JSON(fiber.Map{"success": true})
}

func verifierError(c *fiber.Ctx, err error) error {
	status := fiber.StatusInternalServerError
	if errors.Is(err, service.ErrNotAdmin) {
		status = fiber.StatusForbidden
	}
	return c.Status(status).JSON(fiber.Map{
		"error": err.Error(),
	})
}
