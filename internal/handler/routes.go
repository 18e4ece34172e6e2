package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/xreward/backend/internal/middleware"
)

// Register mounts the mini app API on app.
func (h *Handler) Register(app *fiber.App) {
	api := app.Group("/api", middleware.TelegramAuth(h.cfg))

	api.Get("/me", h.GetMe)
	api.Get("/leaderboard", h.GetLeaderboard)
	api.Post("/ads/watch", h.WatchAd)

	admin := api.Group("/admin")
	admin.Get("/verifiers", middleware.VerifierAuth(h.verifierSvc), h.ListVerifiers)
	admin.Post("/verifiers", middleware.AdminAuth(h.verifierSvc), h.AddVerifier)
	admin.Delete("/verifiers/:user_id", middleware.AdminAuth(h.verifierSvc), h.RemoveVerifier)
}
