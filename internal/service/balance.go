package service

import (
	"context"
	"time"

	"github.com/xreward/backend/internal/model"
	"github.com/xreward/backend/internal/reward"
)

// BalanceService assembles the read-only wallet view shown in the bot and the mini app.
type BalanceService struct {
	users *UserService
	ads   *AdService
}

func NewBalanceService(users *UserService, ads *AdService) *BalanceService {
	return &BalanceService{users: users, ads: ads}
}

// GetBalance returns the user's coins together with the current boost progress.
func (s *BalanceService) GetBalance(ctx context.Context, userID int64) (*model.Balance, error) {
	user, err := s.users.GetUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	count, err := s.ads.CountRecentAdWatches(ctx, userID, reward.AdWindow)
	if err != nil {
		return nil, err
	}

	now := s.users.now()
	balance := &model.Balance{
		UserID:      user.ID,
		Coins:       user.Coins,
		Referrals:   user.Referrals,
		RecentAds:   count,
		AdsRequired: reward.BoostAdsRequired,
		Boosted:     user.IsBoosted(now),
	}
	if balance.Boosted {
		balance.BoostUntil = user.BoostExpiresAt()
		balance.BoostRemaining = time.Unix(user.BoostUntil, 0).Sub(now)
	}
	return balance, nil
}
