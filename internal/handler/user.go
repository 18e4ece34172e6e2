package handler

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/xreward/backend/internal/middleware"
)

type MeResponse struct {
	UserID       int64      `json:"user_id"`
	Name         string     `json:"name,omitempty"`
	Coins        int64      `json:"coins"`
	Referrals    int64      `json:"referrals"`
	RefCode      string     `json:"ref_code"`
	ReferralLink string     `json:"referral_link"`
	RecentAds    int        `json:"recent_ads"`
	AdsRequired  int        `json:"ads_required"`
	Boosted      bool       `json:"boosted"`
	BoostUntil   *time.Time `json:"boost_until,omitempty"`
}

// GetMe registers the mini app user on first visit and returns their wallet.
func (h *Handler) GetMe(c *fiber.Ctx) error {
	telegramUser := middleware.GetTelegramUser(c)
	if telegramUser == nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "unauthorized",
		})
	}

	if _, err := h.userService.EnsureUser(c.Context(), telegramUser.UserID, ""); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "failed to get user",
		})
	}

	balance, err := h.balanceSvc.GetBalance(c.Context(), telegramUser.UserID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "failed to get balance",
		})
	}

	referral, err := h.referralSvc.GetReferralInfo(c.Context(), telegramUser.UserID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "failed to get referral info",
		})
	}

	return c.JSON(MeResponse{
		UserID:       balance.UserID,
		Name:         telegramUser.DisplayName(),
		Coins:        balance.Coins,
		Referrals:    balance.Referrals,
		RefCode:      referral.Code,
		ReferralLink: referral.Link,
		RecentAds:    balance.RecentAds,
		AdsRequired:  balance.AdsRequired,
		Boosted:      balance.Boosted,
		BoostUntil:   balance.BoostUntil,
	})
}

func (h *Handler) GetLeaderboard(c *fiber.Ctx) error {
	entries, err := h.userService.Leaderboard(c.Context())
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "failed to get leaderboard",
		})
	}

	return c.JSON(fiber.Map{
		"leaderboard": entries,
	})
}
