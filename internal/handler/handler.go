package handler

import (
	"context"
	"log"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/xreward/backend/internal/config"
	"github.com/xreward/backend/internal/repository"
	"github.com/xreward/backend/internal/service"
)

type Handler struct {
	cfg         *config.Config
	store       repository.Store
	userService *service.UserService
	adService   *service.AdService
	referralSvc *service.ReferralService
	balanceSvc  *service.BalanceService
	verifierSvc *service.VerifierService
}

func New(
	cfg *config.Config,
	store repository.Store,
	userService *service.UserService,
	adService *service.AdService,
	referralSvc *service.ReferralService,
	balanceSvc *service.BalanceService,
	verifierSvc *service.VerifierService,
) *Handler {
	return &Handler{
		cfg:         cfg,
		store:       store,
		userService: userService,
		adService:   adService,
		referralSvc: referralSvc,
		balanceSvc:  balanceSvc,
		verifierSvc: verifierSvc,
	}
}

func (h *Handler) Health(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.Context(), 2*time.Second)
	defer cancel()

	if err := h.store.Ping(ctx); err != nil {
		log.Printf("[Health] Store ping failed: %v", err)
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
			"status": "unavailable",
		})
	}

	return c.JSON(fiber.Map{
		"status": "ok",
	})
}
