package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/xreward/backend/internal/metrics"
	"github.com/xreward/backend/internal/model"
	"github.com/xreward/backend/internal/repository"
	"github.com/xreward/backend/internal/reward"
)

// UserService is the coin ledger: balances, referral counters and boost state.
type UserService struct {
	repo    repository.Store
	metrics *metrics.Metrics
	now     func() time.Time
	newUUID func() (uuid.UUID, error)
}

func NewUserService(repo repository.Store, m *metrics.Metrics) *UserService {
	return &UserService{
		repo:    repo,
		metrics: m,
		now:     time.Now,
		newUUID: uuid.NewRandom,
	}
}

// SetClock replaces the time source (used by tests)
func (s *UserService) SetClock(now func() time.Time) {
	s.now = now
}

func (s *UserService) GetUser(ctx context.Context, id int64) (*model.User, error) {
	return s.repo.GetUser(ctx, id)
}

// EnsureUser creates the user on first contact and reports whether it did.
// Existing users are left untouched. codeHint, when well formed and unused,
// becomes the user's referral code.
func (s *UserService) EnsureUser(ctx context.Context, id int64, codeHint string) (bool, error) {
	_, err := s.repo.GetUser(ctx, id)
	if err == nil {
		return false, nil
	}
	if !errors.Is(err, repository.ErrUserNotFound) {
		return false, err
	}

	now := s.now()
	code, err := s.referralCode(ctx, id, codeHint, now)
	if err != nil {
		return false, err
	}

	created, err := s.repo.CreateUser(ctx, &model.User{
		ID:       id,
		RefCode:  code,
		JoinedAt: now.Unix(),
	})
	if err != nil {
		return false, err
	}
	if created {
		s.metrics.UserCreated()
	}
	return created, nil
}

func (s *UserService) referralCode(ctx context.Context, id int64, hint string, now time.Time) (string, error) {
	if reward.IsReferralCode(hint) {
		taken, err := s.repo.ReferralCodeExists(ctx, hint)
		if err != nil {
			return "", err
		}
		if !taken {
			return hint, nil
		}
	}

	for attempt := 0; attempt < 3; attempt++ {
		u, err := s.newUUID()
		if err != nil {
			break
		}
		code := reward.ReferralPrefix + strings.ToUpper(strings.ReplaceAll(u.String(), "-", "")[:10])
		taken, err := s.repo.ReferralCodeExists(ctx, code)
		if err != nil {
			return "", err
		}
		if !taken {
			return code, nil
		}
	}

	return reward.FallbackReferralCode(id, now), nil
}

// Credit adds amount to the user's balance atomically in the store.
func (s *UserService) Credit(ctx context.Context, id int64, amount int) error {
	return s.repo.AddCoins(ctx, id, int64(amount))
}

func (s *UserService) IncrementReferrals(ctx context.Context, id int64) error {
	return s.repo.IncrementReferrals(ctx, id)
}

// IsBoosted is evaluated lazily against the stored expiry. Unknown users are not boosted.
func (s *UserService) IsBoosted(ctx context.Context, id int64) (bool, error) {
	user, err := s.repo.GetUser(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return false, nil
		}
		return false, err
	}
	return user.IsBoosted(s.now()), nil
}

// ActivateBoost sets the boost to expire one BoostDuration from now, replacing
// any running boost instead of adding to it.
func (s *UserService) ActivateBoost(ctx context.Context, id int64) (time.Time, error) {
	until := reward.BoostUntil(s.now())
	if err := s.repo.SetBoostUntil(ctx, id, until.Unix()); err != nil {
		return time.Time{}, err
	}
	s.metrics.BoostActivated()
	return until, nil
}

// Leaderboard returns the top users by balance.
func (s *UserService) Leaderboard(ctx context.Context) ([]model.LeaderboardEntry, error) {
	return s.repo.TopUsers(ctx, reward.LeaderboardSize)
}
