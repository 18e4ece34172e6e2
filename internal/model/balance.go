package model

import (
	"time"
)

type AdWatch struct {
	ID        int64 `json:"id" db:"id"`
	UserID    int64 `json:"user_id" db:"user_id"`
	WatchedAt int64 `json:"watched_at" db:"watched_at"`
}

// AdWatchResult is the outcome of one press of the boost button.
type AdWatchResult struct {
	Reward     int        `json:"reward"`
	Count      int        `json:"count"`
	Required   int        `json:"required"`
	Boosted    bool       `json:"boosted"`
	BoostUntil *time.Time `json:"boost_until,omitempty"`
}

type Balance struct {
	UserID         int64         `json:"user_id"`
	Coins          int64         `json:"coins"`
	Referrals      int64         `json:"referrals"`
	RecentAds      int           `json:"recent_ads"`
	AdsRequired    int           `json:"ads_required"`
	Boosted        bool          `json:"boosted"`
	BoostUntil     *time.Time    `json:"boost_until,omitempty"`
	BoostRemaining time.Duration `json:"-"`
}
