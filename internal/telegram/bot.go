package telegram

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/xreward/backend/internal/config"
	"github.com/xreward/backend/internal/service"
	tele "gopkg.in/telebot.v3"
)

const handlerTimeout = 15 * time.Second

type Bot struct {
	bot    *tele.Bot
	cfg    *config.Config
	router *Router
}

var (
	_ service.MembershipLookup = (*Bot)(nil)
	_ ProfileLookup            = (*Bot)(nil)
)

func NewBot(cfg *config.Config, router *Router) (*Bot, error) {
	pref := tele.Settings{
		Token:  cfg.Telegram.BotToken,
		Poller: &tele.LongPoller{Timeout: 60 * time.Second},
		OnError: func(err error, c tele.Context) {
			if c != nil && c.Sender() != nil {
				log.Printf("[Bot] Update from %d failed: %v", c.Sender().ID, err)
				return
			}
			log.Printf("[Bot] %v", err)
		},
	}

	bot, err := tele.NewBot(pref)
	if err != nil {
		return nil, fmt.Errorf("failed to create bot: %w", err)
	}

	b := &Bot{
		bot:    bot,
		cfg:    cfg,
		router: router,
	}
	router.SetProfiles(b)

	b.registerHandlers()

	return b, nil
}

func (b *Bot) registerHandlers() {
	b.bot.Handle("/start", b.handleStart)
	b.bot.Handle("/admin", b.handleAdmin)

	b.bot.Handle(tele.OnCallback, b.handleCallback)
	b.bot.Handle(tele.OnText, b.handleText)
}

func (b *Bot) StartPolling(ctx context.Context) {
	go func() {
		<-ctx.Done()
		b.bot.Stop()
	}()
	b.bot.Start()
}

func (b *Bot) GetBotUsername() string {
	return b.bot.Me.Username
}

func (b *Bot) handleStart(c tele.Context) error {
	ctx, cancel := context.WithTimeout(context.Background(), handlerTimeout)
	defer cancel()

	return b.deliver(c, b.router.Start(ctx, c.Sender().ID, c.Message().Payload))
}

func (b *Bot) handleAdmin(c tele.Context) error {
	return b.deliver(c, b.router.Admin(c.Sender().ID))
}

func (b *Bot) handleCallback(c tele.Context) error {
	ctx, cancel := context.WithTimeout(context.Background(), handlerTimeout)
	defer cancel()

	reply := b.router.Callback(ctx, c.Sender().ID, c.Callback().Data)
	if reply.Answer {
		return c.Respond(&tele.CallbackResponse{Text: reply.Text, ShowAlert: reply.Alert})
	}

	// Acknowledge callback to remove loading state
	defer c.Respond()
	return b.deliver(c, reply)
}

func (b *Bot) handleText(c tele.Context) error {
	ctx, cancel := context.WithTimeout(context.Background(), handlerTimeout)
	defer cancel()

	reply, ok := b.router.Text(ctx, c.Sender().ID, c.Text())
	if !ok {
		return nil
	}
	return b.deliver(c, reply)
}

func (b *Bot) deliver(c tele.Context, reply Reply) error {
	if reply.Text == "" {
		return nil
	}

	var opts []interface{}
	if reply.Markup != nil {
		opts = append(opts, reply.Markup)
	}

	if reply.Edit && c.Callback() != nil {
		err := c.Edit(reply.Text, opts...)
		if errors.Is(err, tele.ErrSameMessageContent) {
			return nil
		}
		return err
	}
	return c.Send(reply.Text, opts...)
}

// MemberStatus reports the user's status in the public channel. An
// unresolvable channel is reported as service.ErrChannelNotFound.
func (b *Bot) MemberStatus(ctx context.Context, channel string, userID int64) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	chat, err := b.bot.ChatByUsername("@" + channel)
	if err != nil {
		if errors.Is(err, tele.ErrChatNotFound) {
			return "", service.ErrChannelNotFound
		}
		return "", fmt.Errorf("failed to resolve channel: %w", err)
	}

	member, err := b.bot.ChatMemberOf(chat, &tele.User{ID: userID})
	if err != nil {
		if errors.Is(err, tele.ErrChatNotFound) {
			return "", service.ErrChannelNotFound
		}
		return "", fmt.Errorf("failed to get chat member: %w", err)
	}
	return string(member.Role), nil
}

// DisplayName prefers the username and falls back to the first name.
func (b *Bot) DisplayName(ctx context.Context, userID int64) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	chat, err := b.bot.ChatByID(userID)
	if err != nil {
		return "", err
	}
	if chat.Username != "" {
		return chat.Username, nil
	}
	if chat.FirstName != "" {
		return chat.FirstName, nil
	}
	return "", errors.New("profile has no name")
}
