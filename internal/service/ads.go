package service

import (
	"context"
	"time"

	"github.com/xreward/backend/internal/metrics"
	"github.com/xreward/backend/internal/model"
	"github.com/xreward/backend/internal/repository"
	"github.com/xreward/backend/internal/reward"
)

// AdService keeps the ad-watch log and turns enough recent watches into a boost.
type AdService struct {
	repo    repository.Store
	users   *UserService
	metrics *metrics.Metrics
	now     func() time.Time
}

func NewAdService(repo repository.Store, users *UserService, m *metrics.Metrics) *AdService {
	return &AdService{
		repo:    repo,
		users:   users,
		metrics: m,
		now:     time.Now,
	}
}

// SetClock replaces the time source (used by tests)
func (s *AdService) SetClock(now func() time.Time) {
	s.now = now
}

func (s *AdService) RecordAdWatch(ctx context.Context, userID int64) error {
	if err := s.repo.InsertAdWatch(ctx, userID, s.now().Unix()); err != nil {
		return err
	}
	s.metrics.AdWatched()
	return nil
}

// CountRecentAdWatches counts watches newer than now-window.
func (s *AdService) CountRecentAdWatches(ctx context.Context, userID int64, window time.Duration) (int, error) {
	since := s.now().Add(-window).Unix()
	return s.repo.CountAdWatchesSince(ctx, userID, since)
}

// WatchAd records a watch and always pays the ad reward. When the rolling
// count reaches the threshold the boost is (re)started from now.
func (s *AdService) WatchAd(ctx context.Context, userID int64) (*model.AdWatchResult, error) {
	if err := s.RecordAdWatch(ctx, userID); err != nil {
		return nil, err
	}

	count, err := s.CountRecentAdWatches(ctx, userID, reward.AdWindow)
	if err != nil {
		return nil, err
	}

	if err := s.users.Credit(ctx, userID, reward.AdsReward); err != nil {
		return nil, err
	}
	s.metrics.CoinsCredited(metrics.ReasonAds, reward.AdsReward)

	result := &model.AdWatchResult{
		Reward:   reward.AdsReward,
		Count:    count,
		Required: reward.BoostAdsRequired,
	}

	if reward.QualifiesForBoost(count) {
		until, err := s.users.ActivateBoost(ctx, userID)
		if err != nil {
			return nil, err
		}
		result.Boosted = true
		result.BoostUntil = &until
	}

	return result, nil
}

// PruneBefore deletes watch events at or before cutoff.
func (s *AdService) PruneBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	return s.repo.DeleteAdWatchesBefore(ctx, cutoff.Unix())
}

// PruneExpired drops events that can no longer count towards a boost.
func (s *AdService) PruneExpired(ctx context.Context) (int64, error) {
	return s.PruneBefore(ctx, s.now().Add(-reward.AdWindow))
}
