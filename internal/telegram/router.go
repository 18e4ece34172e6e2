package telegram

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/xreward/backend/internal/model"
	"github.com/xreward/backend/internal/reward"
	"github.com/xreward/backend/internal/service"
	tele "gopkg.in/telebot.v3"
)

const (
	msgWelcome           = "🎉 Welcome to X Reward Bot!"
	msgMustJoin          = "🚨 You must join our channel first:"
	msgChannelNotFound   = "⚠️ Channel not found. Contact admin."
	msgChannelMissing    = "⚠️ Channel not found."
	msgAccessDenied      = "❌ Access denied!"
	msgAdminPanel        = "🛠 Admin Panel"
	msgVerified          = "✅ Verified! +100 coins awarded."
	msgNotJoined         = "❌ You haven't joined yet!"
	msgBoostActivated    = "🔥 You watched enough ads! Boost Mode activated for 1 hour."
	msgOnlyAdmins        = "❌ Only admins can do this!"
	msgAskAddVerifier    = "Send the user ID to add as verifier:"
	msgAskRemoveVerifier = "Send the user ID to remove:"
	msgNoVerifiers       = "No verifiers found!"
	msgAlreadyVerifier   = "❌ User is already a verifier!"
	msgNotAVerifier      = "❌ User not found in verifiers!"
	msgInvalidUserID     = "❌ Invalid user ID!"
	msgSupport           = "🆘 Support\n\nHaving trouble? Write to the channel admins and we will get back to you."
	msgFailed            = "⚠️ Something went wrong. Please try again later."
)

// Reply is what the bot should do in response to one update.
type Reply struct {
	Text   string
	Markup *tele.ReplyMarkup
	// Edit replaces the message the pressed button belongs to.
	Edit bool
	// Answer sends Text as a callback notification instead of a message.
	Answer bool
	Alert  bool
}

// ProfileLookup resolves a display name for a user id.
type ProfileLookup interface {
	DisplayName(ctx context.Context, userID int64) (string, error)
}

// Router turns bot commands, button presses and typed replies into service
// calls. It has no telegram I/O of its own so it can be driven directly.
type Router struct {
	users      *service.UserService
	ads        *service.AdService
	referrals  *service.ReferralService
	verifiers  *service.VerifierService
	membership *service.MembershipService
	pending    *service.PendingActions
	profiles   ProfileLookup
	miniAppURL string
}

func NewRouter(
	users *service.UserService,
	ads *service.AdService,
	referrals *service.ReferralService,
	verifiers *service.VerifierService,
	membership *service.MembershipService,
	pending *service.PendingActions,
	miniAppURL string,
) *Router {
	return &Router{
		users:      users,
		ads:        ads,
		referrals:  referrals,
		verifiers:  verifiers,
		membership: membership,
		pending:    pending,
		miniAppURL: miniAppURL,
	}
}

// SetProfiles wires the name lookup (to avoid circular deps with the bot)
func (r *Router) SetProfiles(p ProfileLookup) {
	r.profiles = p
}

// Start registers the user, credits the referrer for first-time users and
// gates the main menu behind channel membership.
func (r *Router) Start(ctx context.Context, userID int64, payload string) Reply {
	payload = strings.TrimSpace(payload)

	created, err := r.users.EnsureUser(ctx, userID, "")
	if err != nil {
		log.Printf("[Bot] Failed to register user %d: %v", userID, err)
		return Reply{Text: msgFailed}
	}
	if created && payload != "" {
		r.referrals.CreditReferral(ctx, payload, userID)
	}

	member, err := r.membership.CheckMember(ctx, userID)
	switch {
	case errors.Is(err, service.ErrChannelNotFound):
		return Reply{Text: msgChannelNotFound}
	case err != nil:
		log.Printf("[Bot] Membership check failed for %d: %v", userID, err)
		return Reply{Text: msgFailed}
	case member:
		return Reply{Text: msgWelcome, Markup: mainMenu(r.miniAppURL)}
	default:
		return Reply{Text: msgMustJoin, Markup: joinKeyboard(r.membership.Channel())}
	}
}

// Admin opens the management panel.
func (r *Router) Admin(userID int64) Reply {
	if !r.verifiers.IsAdmin(userID) {
		return Reply{Text: msgAccessDenied}
	}
	return Reply{Text: msgAdminPanel, Markup: adminKeyboard()}
}

// Callback handles a button press. data is the raw callback payload.
func (r *Router) Callback(ctx context.Context, userID int64, data string) Reply {
	action := callbackAction(data)

	if _, err := r.users.EnsureUser(ctx, userID, ""); err != nil {
		log.Printf("[Bot] Failed to register user %d: %v", userID, err)
		return Reply{Text: msgFailed, Answer: true}
	}

	switch action {
	case cbVerifyJoin:
		return r.verifyJoin(ctx, userID)
	case cbCoins:
		return r.coins(ctx, userID)
	case cbRefer:
		return r.refer(ctx, userID)
	case cbTasks:
		return r.edit(tasksText())
	case cbBoost:
		return r.boost(ctx, userID)
	case cbLeaderboard:
		return r.leaderboard(ctx)
	case cbSupport:
		return r.edit(msgSupport)
	case cbAddVerifier:
		return r.promptAddVerifier(userID)
	case cbRemoveVerifier:
		return r.promptRemoveVerifier(ctx, userID)
	case cbListVerifiers:
		return r.listVerifiers(ctx, userID)
	default:
		log.Printf("[Bot] Unknown callback data: %q", data)
		return Reply{}
	}
}

// Text handles a free-text message. It only reacts when the sender has a
// pending admin prompt; ok is false otherwise.
func (r *Router) Text(ctx context.Context, userID int64, text string) (reply Reply, ok bool) {
	kind, ok := r.pending.Take(userID)
	if !ok {
		return Reply{}, false
	}
	if !r.verifiers.IsAdmin(userID) {
		return Reply{Text: msgOnlyAdmins}, true
	}

	target, err := service.ParseUserID(text)
	if err != nil {
		return Reply{Text: msgInvalidUserID}, true
	}

	switch kind {
	case model.PendingAddVerifier:
		added, err := r.verifiers.AddVerifier(ctx, userID, target)
		if err != nil {
			return r.adminFailure(err), true
		}
		if !added {
			return Reply{Text: msgAlreadyVerifier}, true
		}
		return Reply{Text: fmt.Sprintf("✅ User %d added as verifier!", target)}, true

	case model.PendingRemoveVerifier:
		removed, err := r.verifiers.RemoveVerifier(ctx, userID, target)
		if err != nil {
			return r.adminFailure(err), true
		}
		if !removed {
			return Reply{Text: msgNotAVerifier}, true
		}
		return Reply{Text: fmt.Sprintf("✅ User %d removed from verifiers!", target)}, true
	}

	return Reply{}, false
}

func (r *Router) verifyJoin(ctx context.Context, userID int64) Reply {
	ok, err := r.membership.VerifyJoin(ctx, userID)
	switch {
	case errors.Is(err, service.ErrChannelNotFound):
		return Reply{Text: msgChannelMissing}
	case err != nil:
		log.Printf("[Bot] Join verification failed for %d: %v", userID, err)
		return Reply{Text: msgFailed, Answer: true}
	case !ok:
		return Reply{Text: msgNotJoined, Answer: true, Alert: true}
	}
	return r.edit(msgVerified)
}

func (r *Router) coins(ctx context.Context, userID int64) Reply {
	user, err := r.users.GetUser(ctx, userID)
	if err != nil {
		log.Printf("[Bot] Failed to load user %d: %v", userID, err)
		return Reply{Text: msgFailed, Answer: true}
	}
	return r.edit(fmt.Sprintf("💰 Your Coins: %d", user.Coins))
}

func (r *Router) refer(ctx context.Context, userID int64) Reply {
	info, err := r.referrals.GetReferralInfo(ctx, userID)
	if err != nil {
		log.Printf("[Bot] Failed to load referral info for %d: %v", userID, err)
		return Reply{Text: msgFailed, Answer: true}
	}
	return r.edit(fmt.Sprintf("👥 Share your referral link:\n\n%s\n\nYou'll get %d coins for each referral!",
		info.Link, info.Reward))
}

func (r *Router) boost(ctx context.Context, userID int64) Reply {
	res, err := r.ads.WatchAd(ctx, userID)
	if err != nil {
		log.Printf("[Bot] Failed to record ad watch for %d: %v", userID, err)
		return Reply{Text: msgFailed, Answer: true}
	}
	if res.Boosted {
		return r.edit(msgBoostActivated)
	}
	return r.edit(fmt.Sprintf("👀 You watched %d/%d ads.\nWatch more to activate Boost Mode!", res.Count, res.Required))
}

func (r *Router) leaderboard(ctx context.Context) Reply {
	top, err := r.users.Leaderboard(ctx)
	if err != nil {
		log.Printf("[Bot] Failed to load leaderboard: %v", err)
		return Reply{Text: msgFailed, Answer: true}
	}

	var sb strings.Builder
	sb.WriteString("🏆 Coins Leaderboard:\n\n")
	for _, entry := range top {
		name, ok := r.displayName(ctx, entry.UserID)
		if !ok {
			name = fmt.Sprintf("User %d", entry.UserID)
		}
		fmt.Fprintf(&sb, "%d. %s - %d coins\n", entry.Rank, name, entry.Coins)
	}
	return r.edit(sb.String())
}

func (r *Router) promptAddVerifier(userID int64) Reply {
	if !r.verifiers.IsAdmin(userID) {
		return Reply{Text: msgOnlyAdmins, Answer: true}
	}
	r.pending.Set(userID, model.PendingAddVerifier)
	return Reply{Text: msgAskAddVerifier, Edit: true}
}

func (r *Router) promptRemoveVerifier(ctx context.Context, userID int64) Reply {
	if !r.verifiers.IsAdmin(userID) {
		return Reply{Text: msgOnlyAdmins, Answer: true}
	}

	ids, err := r.verifiers.ListVerifiers(ctx)
	if err != nil {
		log.Printf("[Bot] Failed to list verifiers: %v", err)
		return Reply{Text: msgFailed, Answer: true}
	}
	if len(ids) == 0 {
		return Reply{Text: msgNoVerifiers, Edit: true}
	}

	var sb strings.Builder
	sb.WriteString("Current verifiers:\n")
	for _, id := range ids {
		fmt.Fprintf(&sb, "- %d\n", id)
	}
	sb.WriteString("\n" + msgAskRemoveVerifier)

	r.pending.Set(userID, model.PendingRemoveVerifier)
	return Reply{Text: sb.String(), Edit: true}
}

func (r *Router) listVerifiers(ctx context.Context, userID int64) Reply {
	allowed, err := r.verifiers.CanViewVerifiers(ctx, userID)
	if err != nil {
		log.Printf("[Bot] Failed to check verifier role of %d: %v", userID, err)
		return Reply{Text: msgFailed, Answer: true}
	}
	if !allowed {
		return Reply{Text: msgAccessDenied, Answer: true}
	}

	ids, err := r.verifiers.ListVerifiers(ctx)
	if err != nil {
		log.Printf("[Bot] Failed to list verifiers: %v", err)
		return Reply{Text: msgFailed, Answer: true}
	}
	if len(ids) == 0 {
		return Reply{Text: msgNoVerifiers, Edit: true}
	}

	var sb strings.Builder
	sb.WriteString("📋 Verifiers List:\n\n")
	for _, id := range ids {
		if name, ok := r.displayName(ctx, id); ok {
			fmt.Fprintf(&sb, "- %s (ID: %d)\n", name, id)
		} else {
			fmt.Fprintf(&sb, "- User ID: %d\n", id)
		}
	}
	return Reply{Text: sb.String(), Edit: true}
}

func (r *Router) displayName(ctx context.Context, userID int64) (string, bool) {
	if r.profiles == nil {
		return "", false
	}
	name, err := r.profiles.DisplayName(ctx, userID)
	if err != nil || name == "" {
		if err != nil {
			log.Printf("[Bot] Profile lookup failed for %d: %v", userID, err)
		}
		return "", false
	}
	return name, true
}

func (r *Router) adminFailure(err error) Reply {
	if errors.Is(err, service.ErrNotAdmin) {
		return Reply{Text: msgOnlyAdmins}
	}
	log.Printf("[Bot] Verifier update failed: %v", err)
	return Reply{Text: msgFailed}
}

// edit shows text in place of the pressed message, keeping the main menu.
func (r *Router) edit(text string) Reply {
	return Reply{Text: text, Markup: mainMenu(r.miniAppURL), Edit: true}
}

func tasksText() string {
	var sb strings.Builder
	sb.WriteString("📋 Tasks:\n\n")
	for _, task := range reward.Tasks() {
		fmt.Fprintf(&sb, "- %s: +%d coins\n", task.Name, task.Reward)
	}
	sb.WriteString("\nNew tasks are announced in the channel.")
	return sb.String()
}

// callbackAction strips the telebot "\f" marker and any "|data" suffix.
func callbackAction(data string) string {
	data = strings.TrimPrefix(data, "\f")
	if i := strings.IndexByte(data, '|'); i >= 0 {
		data = data[:i]
	}
	return data
}
