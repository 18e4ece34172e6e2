package model

type ReferralInfo struct {
	Code      string `json:"code"`
	Link      string `json:"link"`
	Referrals int64  `json:"referrals"`
	Reward    int    `json:"reward_per_referral"`
}
