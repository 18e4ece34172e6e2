package service

import (
	"context"
	"errors"

	"github.com/xreward/backend/internal/metrics"
	"github.com/xreward/backend/internal/reward"
)

// ErrChannelNotFound means the required channel itself could not be resolved.
// It is a configuration problem, not a membership answer.
var ErrChannelNotFound = errors.New("channel not found")

// Chat member statuses that count as joined.
const (
	StatusMember        = "member"
	StatusAdministrator = "administrator"
	StatusCreator       = "creator"
)

// MembershipLookup asks the messaging platform for a user's status in a channel.
type MembershipLookup interface {
	MemberStatus(ctx context.Context, channel string, userID int64) (string, error)
}

type MembershipService struct {
	lookup  MembershipLookup
	channel string
	users   *UserService
	metrics *metrics.Metrics
}

func NewMembershipService(lookup MembershipLookup, channel string, users *UserService, m *metrics.Metrics) *MembershipService {
	return &MembershipService{
		lookup:  lookup,
		channel: channel,
		users:   users,
		metrics: m,
	}
}

func (s *MembershipService) Channel() string {
	return s.channel
}

// SetLookup wires the platform lookup (to avoid circular deps with the bot)
func (s *MembershipService) SetLookup(lookup MembershipLookup) {
	s.lookup = lookup
}

// CheckMember asks the platform every time; results are not cached.
func (s *MembershipService) CheckMember(ctx context.Context, userID int64) (bool, error) {
	if s.lookup == nil {
		return false, errors.New("membership lookup not configured")
	}
	status, err := s.lookup.MemberStatus(ctx, s.channel, userID)
	if err != nil {
		return false, err
	}
	switch status {
	case StatusMember, StatusAdministrator, StatusCreator:
		return true, nil
	}
	return false, nil
}

// VerifyJoin pays the join reward when the user is a member of the channel.
func (s *MembershipService) VerifyJoin(ctx context.Context, userID int64) (bool, error) {
	ok, err := s.CheckMember(ctx, userID)
	if err != nil || !ok {
		return false, err
	}
	if err := s.users.Credit(ctx, userID, reward.JoinReward); err != nil {
		return false, err
	}
	s.metrics.CoinsCredited(metrics.ReasonJoin, reward.JoinReward)
	return true, nil
}
