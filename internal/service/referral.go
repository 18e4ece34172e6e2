package service

import (
	"context"
	"errors"
	"log"

	"github.com/xreward/backend/internal/metrics"
	"github.com/xreward/backend/internal/model"
	"github.com/xreward/backend/internal/repository"
	"github.com/xreward/backend/internal/reward"
)

type ReferralService struct {
	repo        repository.Store
	users       *UserService
	metrics     *metrics.Metrics
	botUsername string
}

func NewReferralService(repo repository.Store, users *UserService, m *metrics.Metrics, botUsername string) *ReferralService {
	return &ReferralService{
		repo:        repo,
		users:       users,
		metrics:     m,
		botUsername: botUsername,
	}
}

// CreditReferral pays the owner of code for bringing in newUserID. It must only
// be called right after newUserID was created. Malformed codes, unknown
// referrers and self-referrals are skipped silently; the result reports
// whether the referrer was credited.
func (s *ReferralService) CreditReferral(ctx context.Context, code string, newUserID int64) bool {
	if !reward.IsReferralCode(code) {
		return false
	}

	referrer, err := s.resolveReferrer(ctx, code)
	if err != nil {
		if !errors.Is(err, repository.ErrUserNotFound) {
			log.Printf("[Referral] Failed to resolve code %q: %v", code, err)
		}
		return false
	}

	if referrer.ID == newUserID {
		return false
	}

	if err := s.users.Credit(ctx, referrer.ID, reward.ReferralReward); err != nil {
		log.Printf("[Referral] Failed to credit referrer %d: %v", referrer.ID, err)
		return false
	}
	if err := s.users.IncrementReferrals(ctx, referrer.ID); err != nil {
		log.Printf("[Referral] Failed to count referral for %d: %v", referrer.ID, err)
	}

	s.metrics.CoinsCredited(metrics.ReasonReferral, reward.ReferralReward)
	s.metrics.ReferralCredited()
	return true
}

// resolveReferrer looks the code up among issued codes, then falls back to
// REF<user id> links.
func (s *ReferralService) resolveReferrer(ctx context.Context, code string) (*model.User, error) {
	referrer, err := s.repo.GetUserByReferralCode(ctx, code)
	if err == nil || !errors.Is(err, repository.ErrUserNotFound) {
		return referrer, err
	}

	id, ok := reward.LegacyReferrerID(code)
	if !ok {
		return nil, repository.ErrUserNotFound
	}
	return s.repo.GetUser(ctx, id)
}

func (s *ReferralService) GetReferralLink(code string) string {
	return "https://t.me/" + s.botUsername + "?start=" + code
}

func (s *ReferralService) GetReferralInfo(ctx context.Context, userID int64) (*model.ReferralInfo, error) {
	user, err := s.repo.GetUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	return &model.ReferralInfo{
		Code:      user.RefCode,
		Link:      s.GetReferralLink(user.RefCode),
		Referrals: user.Referrals,
		Reward:    reward.ReferralReward,
	}, nil
}
