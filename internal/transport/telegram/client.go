package telegram

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"github.com/samber/oops"

	channeldomain "telewatch/internal/modules/channel/domain"
	sessiondomain "telewatch/internal/modules/session/domain"
	"telewatch/internal/shared/config"
	"telewatch/internal/shared/errors"
)

// Client adapts go-telegram/bot to the session manager's platform boundary.
//
// Bot API authentication is token-based, so the interactive code and
// second-factor steps of the login state machine complete immediately here;
// they stay on the interface for clients that need them.
//
// The Bot API has no dialog listing either: ListChannels reports the
// channels the bot has observed posts from, refreshed via GetChat.
type Client struct {
	cfg *config.Config
	bot *bot.Bot

	mu         sync.Mutex
	events     chan sessiondomain.Event
	cancelPoll context.CancelFunc
	seen       map[int64]*channeldomain.Channel
	closed     bool
}

// New creates the adapter. The bot instance is constructed eagerly so a bad
// token fails at build time, but no network I/O happens until Connect.
func New(cfg *config.Config) (*Client, error) {
	c := &Client{
		cfg:  cfg,
		seen: make(map[int64]*channeldomain.Channel),
	}

	opts := []bot.Option{
		bot.WithDefaultHandler(c.handleUpdate),
		bot.WithSkipGetMe(),
	}
	if cfg.TelegramAPIURL != "" {
		opts = append(opts, bot.WithServerURL(cfg.TelegramAPIURL))
	}

	b, err := bot.New(cfg.TelegramBotToken, opts...)
	if err != nil {
		return nil, oops.With("context", "failed to create telegram bot").Wrap(err)
	}
	c.bot = b
	return c, nil
}

// Connect verifies the API is reachable and starts the update poller. The
// event stream it produces closes when the poller stops.
func (c *Client) Connect(ctx context.Context) error {
	if _, err := c.bot.GetMe(ctx); err != nil {
		return oops.Wrapf(errors.ErrConnection, "telegram api unreachable: %v", err)
	}

	pollCtx, cancel := context.WithCancel(context.Background())

	c.mu.Lock()
	if c.cancelPoll != nil {
		c.cancelPoll()
	}
	c.cancelPoll = cancel
	c.events = make(chan sessiondomain.Event, 64)
	events := c.events
	c.mu.Unlock()

	go func() {
		c.bot.Start(pollCtx)
		close(events)
	}()
	return nil
}

// SendCode is a no-op for token auth; kept for the login contract.
func (c *Client) SendCode(ctx context.Context, phone string) error {
	return nil
}

// SignIn completes immediately: the token was validated by Connect.
func (c *Client) SignIn(ctx context.Context, phone, code string) (sessiondomain.Identity, bool, error) {
	me, err := c.bot.GetMe(ctx)
	if err != nil {
		return sessiondomain.Identity{}, false, oops.Wrapf(errors.ErrAuth, "token rejected: %v", err)
	}
	return sessiondomain.Identity{
		UserID:   me.ID,
		Name:     me.FirstName,
		Username: me.Username,
		Phone:    phone,
	}, false, nil
}

// SignInWithPassword is unreachable with token auth.
func (c *Client) SignInWithPassword(ctx context.Context, password string) (sessiondomain.Identity, error) {
	return sessiondomain.Identity{}, oops.Wrapf(errors.ErrAuth, "second factor not supported by bot token auth")
}

// Events returns the stream for the current connection.
func (c *Client) Events() <-chan sessiondomain.Event {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.events
}

// ListChannels returns the channels observed so far, with titles refreshed
// from the platform.
func (c *Client) ListChannels(ctx context.Context) ([]*channeldomain.Channel, error) {
	c.mu.Lock()
	ids := make([]int64, 0, len(c.seen))
	for id := range c.seen {
		ids = append(ids, id)
	}
	c.mu.Unlock()
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	channels := make([]*channeldomain.Channel, 0, len(ids))
	for _, id := range ids {
		chat, err := c.bot.GetChat(ctx, &bot.GetChatParams{ChatID: id})
		if err != nil {
			// Keep the stale record rather than dropping the channel.
			c.mu.Lock()
			if stale, ok := c.seen[id]; ok {
				channels = append(channels, &channeldomain.Channel{
					ID:       stale.ID,
					Username: stale.Username,
					Title:    stale.Title,
				})
			}
			c.mu.Unlock()
			continue
		}
		channels = append(channels, &channeldomain.Channel{
			ID:       chat.ID,
			Username: chat.Username,
			Title:    chat.Title,
		})
	}
	return channels, nil
}

// Disconnect stops polling; safe to call more than once.
func (c *Client) Disconnect(ctx context.Context) error {
	c.mu.Lock()
	if c.cancelPoll != nil {
		c.cancelPoll()
		c.cancelPoll = nil
	}
	alreadyClosed := c.closed
	c.closed = true
	c.mu.Unlock()

	if alreadyClosed {
		return nil
	}
	if _, err := c.bot.Close(ctx); err != nil {
		return oops.With("context", "failed to close bot").Wrap(err)
	}
	return nil
}

func (c *Client) handleUpdate(ctx context.Context, b *bot.Bot, update *models.Update) {
	var (
		msg    *models.Message
		edited bool
	)
	switch {
	case update.ChannelPost != nil:
		msg = update.ChannelPost
	case update.EditedChannelPost != nil:
		msg = update.EditedChannelPost
		edited = true
	case update.Message != nil && update.Message.Chat.Type == "channel":
		msg = update.Message
	default:
		return
	}

	c.remember(&msg.Chat)

	text := msg.Text
	if text == "" && msg.Caption != "" {
		text = msg.Caption
	}

	event := sessiondomain.Event{
		ChannelID: msg.Chat.ID,
		Sender:    authorName(msg),
		Timestamp: time.Unix(int64(msg.Date), 0),
		Body:      text,
		Edited:    edited,
	}

	c.mu.Lock()
	events := c.events
	c.mu.Unlock()
	if events == nil {
		return
	}
	select {
	case events <- event:
	case <-ctx.Done():
	}
}

// remember records a channel the bot has seen so ListChannels can report it.
func (c *Client) remember(chat *models.Chat) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.seen[chat.ID] = &channeldomain.Channel{
		ID:       chat.ID,
		Username: chat.Username,
		Title:    chat.Title,
	}
}

func authorName(msg *models.Message) string {
	switch {
	case msg.AuthorSignature != "":
		return msg.AuthorSignature
	case msg.From != nil && msg.From.FirstName != "":
		return msg.From.FirstName
	case msg.SenderChat != nil && msg.SenderChat.Title != "":
		return msg.SenderChat.Title
	default:
		return msg.Chat.Title
	}
}
