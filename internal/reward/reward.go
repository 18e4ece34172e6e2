// Package reward holds the coin amounts and the eligibility rules of the bot.
// Everything here is pure; persistence lives in the repository package.
package reward

import (
	"strconv"
	"strings"
	"time"
)

// Coin rewards
const (
	JoinReward     = 100
	ReferralReward = 200
	LikeReward     = 50
	CommentReward  = 80
	RepostReward   = 50
	DailyReward    = 50
	AdsReward      = 100
)

// Boost mode
const (
	BoostAdsRequired = 3
	BoostDuration    = time.Hour
	AdWindow         = time.Hour
)

// LeaderboardSize is the number of rows shown on the leaderboard.
const LeaderboardSize = 10

// ReferralPrefix marks a /start argument as a referral code.
const ReferralPrefix = "REF"

// IsReferralCode reports whether code has the referral code shape.
func IsReferralCode(code string) bool {
	return strings.HasPrefix(code, ReferralPrefix) && len(code) > len(ReferralPrefix)
}

// LegacyReferrerID decodes codes of the form REF<user id>.
func LegacyReferrerID(code string) (int64, bool) {
	if !IsReferralCode(code) {
		return 0, false
	}
	id, err := strconv.ParseInt(strings.TrimPrefix(code, ReferralPrefix), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

// FallbackReferralCode derives a code from the user id and creation time.
func FallbackReferralCode(userID int64, at time.Time) string {
	return ReferralPrefix + strconv.FormatInt(userID, 10) + strconv.FormatInt(at.Unix(), 10)
}

// QualifiesForBoost reports whether the ad count inside the window activates boost.
func QualifiesForBoost(recentAds int) bool {
	return recentAds >= BoostAdsRequired
}

// BoostUntil is the expiry of a boost activated at now. Activation always restarts
// the clock; previous windows are not extended.
func BoostUntil(now time.Time) time.Time {
	return now.Add(BoostDuration)
}

// Task is an entry of the task list shown to users.
type Task struct {
	Name   string
	Reward int
}

// Tasks lists the social tasks and their rewards.
func Tasks() []Task {
	return []Task{
		{Name: "Like a post", Reward: LikeReward},
		{Name: "Comment on a post", Reward: CommentReward},
		{Name: "Repost a post", Reward: RepostReward},
		{Name: "Daily check-in", Reward: DailyReward},
	}
}
