package telegram

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xreward/backend/internal/config"
	"github.com/xreward/backend/internal/metrics"
	"github.com/xreward/backend/internal/model"
	"github.com/xreward/backend/internal/repository"
	"github.com/xreward/backend/internal/service"
)

const (
	adminID    int64 = 1
	verifierID int64 = 900
	miniAppURL       = "https://mini.example.com"
)

type stubMembership struct {
	statuses map[int64]string
	err      error
}

func (s *stubMembership) MemberStatus(_ context.Context, _ string, userID int64) (string, error) {
	if s.err != nil {
		return "", s.err
	}
	if status, ok := s.statuses[userID]; ok {
		return status, nil
	}
	return "left", nil
}

type stubProfiles map[int64]string

func (s stubProfiles) DisplayName(_ context.Context, userID int64) (string, error) {
	if name, ok := s[userID]; ok {
		return name, nil
	}
	return "", errors.New("chat not found")
}

type routerEnv struct {
	router     *Router
	repo       *repository.Repository
	users      *service.UserService
	membership *stubMembership
}

func newRouterEnv(t *testing.T) *routerEnv {
	t.Helper()

	repo, err := repository.NewSQLite(filepath.Join(t.TempDir(), "bot.db"))
	require.NoError(t, err)
	t.Cleanup(func() { repo.Close() })
	require.NoError(t, repo.Migrate())

	m := metrics.New()
	users := service.NewUserService(repo, m)
	ads := service.NewAdService(repo, users, m)
	referrals := service.NewReferralService(repo, users, m, "X_Reward_Bot")
	verifiers := service.NewVerifierService(repo, config.RolesConfig{
		Admins:    []int64{adminID},
		Verifiers: []int64{verifierID},
	})
	lookup := &stubMembership{statuses: map[int64]string{}}
	membership := service.NewMembershipService(lookup, "X_Reward_botChannel", users, m)

	router := NewRouter(users, ads, referrals, verifiers, membership,
		service.NewPendingActions(config.PendingActionTTL), miniAppURL)
	router.SetProfiles(stubProfiles{})

	return &routerEnv{router: router, repo: repo, users: users, membership: lookup}
}

func (e *routerEnv) coins(t *testing.T, id int64) int64 {
	t.Helper()
	user, err := e.users.GetUser(context.Background(), id)
	require.NoError(t, err)
	return user.Coins
}

func verifierGrant(id int64) *model.VerifierGrant {
	return &model.VerifierGrant{UserID: id, AddedBy: adminID, AddedAt: 1}
}

func TestStartMemberGetsMainMenu(t *testing.T) {
	env := newRouterEnv(t)
	env.membership.statuses[10] = "member"

	reply := env.router.Start(context.Background(), 10, "")
	assert.Equal(t, msgWelcome, reply.Text)
	require.NotNil(t, reply.Markup)

	rows := reply.Markup.InlineKeyboard
	require.Len(t, rows, 4)
	assert.Equal(t, cbCoins, rows[0][0].Unique)
	assert.Equal(t, cbRefer, rows[0][1].Unique)
	assert.Equal(t, cbTasks, rows[1][0].Unique)
	assert.Equal(t, cbBoost, rows[1][1].Unique)
	assert.Equal(t, cbLeaderboard, rows[2][0].Unique)
	assert.Equal(t, cbSupport, rows[2][1].Unique)
	require.NotNil(t, rows[3][0].WebApp)
	assert.Equal(t, miniAppURL, rows[3][0].WebApp.URL)
}

func TestStartNonMemberGetsJoinKeyboard(t *testing.T) {
	env := newRouterEnv(t)

	reply := env.router.Start(context.Background(), 10, "")
	assert.Equal(t, msgMustJoin, reply.Text)
	require.NotNil(t, reply.Markup)

	rows := reply.Markup.InlineKeyboard
	require.Len(t, rows, 2)
	assert.Equal(t, "https://t.me/X_Reward_botChannel", rows[0][0].URL)
	assert.Equal(t, cbVerifyJoin, rows[1][0].Unique)
}

func TestStartChannelNotFound(t *testing.T) {
	env := newRouterEnv(t)
	env.membership.err = service.ErrChannelNotFound

	reply := env.router.Start(context.Background(), 10, "")
	assert.Equal(t, msgChannelNotFound, reply.Text)
	assert.Nil(t, reply.Markup)

	// the user is still registered
	assert.Zero(t, env.coins(t, 10))
}

func TestStartCreditsReferrerOnce(t *testing.T) {
	env := newRouterEnv(t)
	ctx := context.Background()

	env.router.Start(ctx, 100, "")
	referrer, err := env.users.GetUser(ctx, 100)
	require.NoError(t, err)

	env.router.Start(ctx, 200, referrer.RefCode)
	assert.Equal(t, int64(200), env.coins(t, 100))
	assert.Zero(t, env.coins(t, 200))

	// returning users do not pay out again
	env.router.Start(ctx, 200, referrer.RefCode)
	assert.Equal(t, int64(200), env.coins(t, 100))
}

func TestAdmin(t *testing.T) {
	env := newRouterEnv(t)

	reply := env.router.Admin(adminID)
	assert.Equal(t, msgAdminPanel, reply.Text)
	require.NotNil(t, reply.Markup)
	assert.Equal(t, cbAddVerifier, reply.Markup.InlineKeyboard[0][0].Unique)
	assert.Equal(t, cbRemoveVerifier, reply.Markup.InlineKeyboard[0][1].Unique)
	assert.Equal(t, cbListVerifiers, reply.Markup.InlineKeyboard[1][0].Unique)

	reply = env.router.Admin(verifierID)
	assert.Equal(t, msgAccessDenied, reply.Text)
	assert.Nil(t, reply.Markup)
}

func TestVerifyJoinCallback(t *testing.T) {
	env := newRouterEnv(t)
	ctx := context.Background()

	reply := env.router.Callback(ctx, 10, "\f"+cbVerifyJoin)
	assert.Equal(t, msgNotJoined, reply.Text)
	assert.True(t, reply.Answer)
	assert.True(t, reply.Alert)
	assert.Zero(t, env.coins(t, 10))

	env.membership.statuses[10] = "creator"
	reply = env.router.Callback(ctx, 10, "\f"+cbVerifyJoin)
	assert.Equal(t, msgVerified, reply.Text)
	assert.True(t, reply.Edit)
	assert.Equal(t, int64(100), env.coins(t, 10))

	env.membership.err = service.ErrChannelNotFound
	reply = env.router.Callback(ctx, 10, "\f"+cbVerifyJoin)
	assert.Equal(t, msgChannelMissing, reply.Text)
	assert.False(t, reply.Edit)
}

func TestCoinsAndReferCallbacks(t *testing.T) {
	env := newRouterEnv(t)
	ctx := context.Background()
	env.router.Start(ctx, 10, "")

	reply := env.router.Callback(ctx, 10, "\fcoins")
	assert.Equal(t, "💰 Your Coins: 0", reply.Text)
	assert.True(t, reply.Edit)
	assert.NotNil(t, reply.Markup)

	user, err := env.users.GetUser(ctx, 10)
	require.NoError(t, err)
	reply = env.router.Callback(ctx, 10, "\frefer")
	assert.Equal(t, fmt.Sprintf(
		"👥 Share your referral link:\n\nhttps://t.me/X_Reward_Bot?start=%s\n\nYou'll get 200 coins for each referral!",
		user.RefCode), reply.Text)
}

func TestBoostCallback(t *testing.T) {
	env := newRouterEnv(t)
	ctx := context.Background()

	reply := env.router.Callback(ctx, 10, "\fboost")
	assert.Equal(t, "👀 You watched 1/3 ads.\nWatch more to activate Boost Mode!", reply.Text)
	env.router.Callback(ctx, 10, "\fboost")
	reply = env.router.Callback(ctx, 10, "\fboost")
	assert.Equal(t, msgBoostActivated, reply.Text)

	assert.Equal(t, int64(300), env.coins(t, 10))
	boosted, err := env.users.IsBoosted(ctx, 10)
	require.NoError(t, err)
	assert.True(t, boosted)
}

func TestLeaderboardCallback(t *testing.T) {
	env := newRouterEnv(t)
	ctx := context.Background()
	env.router.SetProfiles(stubProfiles{11: "alice"})

	for id, coins := range map[int64]int{11: 500, 12: 300} {
		_, err := env.users.EnsureUser(ctx, id, "")
		require.NoError(t, err)
		require.NoError(t, env.users.Credit(ctx, id, coins))
	}

	reply := env.router.Callback(ctx, 13, "\fleaderboard")
	assert.Equal(t, "🏆 Coins Leaderboard:\n\n1. alice - 500 coins\n2. User 12 - 300 coins\n3. User 13 - 0 coins\n", reply.Text)
}

func TestTasksAndSupportCallbacks(t *testing.T) {
	env := newRouterEnv(t)
	ctx := context.Background()

	reply := env.router.Callback(ctx, 10, "\ftasks")
	assert.True(t, strings.HasPrefix(reply.Text, "📋 Tasks:"))
	assert.Contains(t, reply.Text, "Comment on a post: +80 coins")

	reply = env.router.Callback(ctx, 10, "\fsupport")
	assert.Equal(t, msgSupport, reply.Text)
}

func TestUnknownCallbackIsIgnored(t *testing.T) {
	env := newRouterEnv(t)
	reply := env.router.Callback(context.Background(), 10, "\fnope|x")
	assert.Empty(t, reply.Text)
}

func TestAddVerifierFlow(t *testing.T) {
	env := newRouterEnv(t)
	ctx := context.Background()

	reply := env.router.Callback(ctx, adminID, "\fadd_verifier")
	assert.Equal(t, msgAskAddVerifier, reply.Text)
	assert.True(t, reply.Edit)

	reply, ok := env.router.Text(ctx, adminID, "555")
	require.True(t, ok)
	assert.Equal(t, "✅ User 555 added as verifier!", reply.Text)

	// the prompt is consumed
	_, ok = env.router.Text(ctx, adminID, "555")
	assert.False(t, ok)

	env.router.Callback(ctx, adminID, "\fadd_verifier")
	reply, ok = env.router.Text(ctx, adminID, "555")
	require.True(t, ok)
	assert.Equal(t, msgAlreadyVerifier, reply.Text)
}

func TestAddVerifierInvalidID(t *testing.T) {
	env := newRouterEnv(t)
	ctx := context.Background()

	env.router.Callback(ctx, adminID, "\fadd_verifier")
	reply, ok := env.router.Text(ctx, adminID, "not a number")
	require.True(t, ok)
	assert.Equal(t, msgInvalidUserID, reply.Text)

	_, ok = env.router.Text(ctx, adminID, "555")
	assert.False(t, ok)
}

func TestRemoveVerifierFlow(t *testing.T) {
	env := newRouterEnv(t)
	ctx := context.Background()

	reply := env.router.Callback(ctx, adminID, "\fremove_verifier")
	assert.Equal(t, msgNoVerifiers, reply.Text)
	_, ok := env.router.Text(ctx, adminID, "555")
	assert.False(t, ok, "no prompt without verifiers")

	env.router.Callback(ctx, adminID, "\fadd_verifier")
	env.router.Text(ctx, adminID, "555")

	reply = env.router.Callback(ctx, adminID, "\fremove_verifier")
	assert.Equal(t, "Current verifiers:\n- 555\n\nSend the user ID to remove:", reply.Text)

	reply, ok = env.router.Text(ctx, adminID, "777")
	require.True(t, ok)
	assert.Equal(t, msgNotAVerifier, reply.Text)

	env.router.Callback(ctx, adminID, "\fremove_verifier")
	reply, ok = env.router.Text(ctx, adminID, "555")
	require.True(t, ok)
	assert.Equal(t, "✅ User 555 removed from verifiers!", reply.Text)
}

func TestVerifierActionsRequireAdmin(t *testing.T) {
	env := newRouterEnv(t)
	ctx := context.Background()

	for _, data := range []string{"\fadd_verifier", "\fremove_verifier"} {
		reply := env.router.Callback(ctx, verifierID, data)
		assert.Equal(t, msgOnlyAdmins, reply.Text)
		assert.True(t, reply.Answer)
	}

	_, ok := env.router.Text(ctx, verifierID, "555")
	assert.False(t, ok)
}

func TestListVerifiers(t *testing.T) {
	env := newRouterEnv(t)
	ctx := context.Background()
	env.router.SetProfiles(stubProfiles{555: "bob"})

	reply := env.router.Callback(ctx, 42, "\flist_verifiers")
	assert.Equal(t, msgAccessDenied, reply.Text)
	assert.True(t, reply.Answer)

	reply = env.router.Callback(ctx, adminID, "\flist_verifiers")
	assert.Equal(t, msgNoVerifiers, reply.Text)

	_, err := env.repo.InsertVerifier(ctx, verifierGrant(verifierID))
	require.NoError(t, err)
	_, err = env.repo.InsertVerifier(ctx, verifierGrant(555))
	require.NoError(t, err)

	reply = env.router.Callback(ctx, verifierID, "\flist_verifiers")
	assert.Contains(t, reply.Text, "📋 Verifiers List:\n\n")
	assert.Contains(t, reply.Text, "- bob (ID: 555)\n")
	assert.Contains(t, reply.Text, fmt.Sprintf("- User ID: %d\n", verifierID))
}

func TestPendingPromptsArePerAdmin(t *testing.T) {
	env := newRouterEnv(t)
	ctx := context.Background()

	pending := service.NewPendingActions(time.Minute)
	env.router.pending = pending
	env.router.verifiers = service.NewVerifierService(env.repo, config.RolesConfig{Admins: []int64{1, 2}})

	env.router.Callback(ctx, 1, "\fadd_verifier")
	env.router.Callback(ctx, 2, "\fadd_verifier")

	reply, ok := env.router.Text(ctx, 2, "700")
	require.True(t, ok)
	assert.Equal(t, "✅ User 700 added as verifier!", reply.Text)

	reply, ok = env.router.Text(ctx, 1, "701")
	require.True(t, ok)
	assert.Equal(t, "✅ User 701 added as verifier!", reply.Text)
}

func TestCallbackAction(t *testing.T) {
	assert.Equal(t, "coins", callbackAction("\fcoins"))
	assert.Equal(t, "coins", callbackAction("coins"))
	assert.Equal(t, "coins", callbackAction("\fcoins|extra"))
}
