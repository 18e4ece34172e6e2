package service

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/xreward/backend/internal/config"
	"github.com/xreward/backend/internal/metrics"
	"github.com/xreward/backend/internal/repository"
)

const (
	testAdmin    int64 = 1
	testVerifier int64 = 900
)

type testClock struct {
	now time.Time
}

func (c *testClock) Now() time.Time { return c.now }

func (c *testClock) Advance(d time.Duration) { c.now = c.now.Add(d) }

type testEnv struct {
	repo      *repository.Repository
	clock     *testClock
	metrics   *metrics.Metrics
	users     *UserService
	ads       *AdService
	referrals *ReferralService
	verifiers *VerifierService
	balance   *BalanceService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	repo, err := repository.NewSQLite(filepath.Join(t.TempDir(), "bot.db"))
	require.NoError(t, err)
	t.Cleanup(func() { repo.Close() })
	require.NoError(t, repo.Migrate())

	clock := &testClock{now: time.Unix(1_700_000_000, 0)}
	m := metrics.New()

	users := NewUserService(repo, m)
	users.SetClock(clock.Now)
	ads := NewAdService(repo, users, m)
	ads.SetClock(clock.Now)
	verifiers := NewVerifierService(repo, config.RolesConfig{
		Admins:    []int64{testAdmin, 2},
		Verifiers: []int64{testVerifier, 901},
	})
	verifiers.SetClock(clock.Now)

	return &testEnv{
		repo:      repo,
		clock:     clock,
		metrics:   m,
		users:     users,
		ads:       ads,
		referrals: NewReferralService(repo, users, m, "X_Reward_Bot"),
		verifiers: verifiers,
		balance:   NewBalanceService(users, ads),
	}
}
