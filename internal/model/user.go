package model

import (
	"time"
)

type User struct {
	ID         int64  `json:"id" db:"user_id"`
	Coins      int64  `json:"coins" db:"coins"`
	Referrals  int64  `json:"referrals" db:"referrals"`
	RefCode    string `json:"ref_code" db:"ref_code"`
	BoostUntil int64  `json:"boost_until" db:"boost_until"` // unix seconds, 0 = never boosted
	JoinedAt   int64  `json:"joined_at" db:"joined_at"`     // unix seconds
}

// IsBoosted reports whether the boost window is still open at now.
func (u *User) IsBoosted(now time.Time) bool {
	return u.BoostUntil > now.Unix()
}

// BoostExpiresAt returns the boost expiry, or nil when no boost was ever set.
func (u *User) BoostExpiresAt() *time.Time {
	if u.BoostUntil == 0 {
		return nil
	}
	t := time.Unix(u.BoostUntil, 0)
	return &t
}

type LeaderboardEntry struct {
	Rank   int    `json:"rank"`
	UserID int64  `json:"user_id" db:"user_id"`
	Coins  int64  `json:"coins" db:"coins"`
	Name   string `json:"name,omitempty"`
}
