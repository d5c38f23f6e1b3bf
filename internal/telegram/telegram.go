// Package telegram bridges the assistant to field reps over a Telegram bot,
// so notes can be logged from a phone between appointments.
package telegram

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/failsafe-go/failsafe-go"
	"github.com/failsafe-go/failsafe-go/retrypolicy"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/anatolykoptev/repnote/internal/bus"
)

const welcomeText = "Hi! Tell me about your HCP meetings in plain words and " +
	"I'll log them to the CRM. You can also ask me to search past interactions."

// Channel is a Telegram bot that bridges rep messages to/from the bus.
type Channel struct {
	bot     *tgbotapi.BotAPI
	bus     *bus.Bus
	allowed map[int64]bool // whitelisted rep user IDs
	ctx     context.Context

	// typing indicator cancellation per chat
	stopTyping sync.Map // chatID string → chan struct{}
}

// New creates a Telegram channel. allowed is a list of numeric user IDs;
// empty means open to all.
func New(token string, allowed []string, msgBus *bus.Bus) (*Channel, error) {
	if token == "" {
		return nil, fmt.Errorf("telegram token not set")
	}

	bot, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("create telegram bot: %w", err)
	}

	allowedIDs := make(map[int64]bool)
	for _, s := range allowed {
		s = strings.TrimSpace(s)
		if s == "" {
			continue
		}
		id, err := strconv.ParseInt(s, 10, 64)
		if err != nil {
			slog.Warn("telegram: ignoring non-numeric allowed id", slog.String("id", s))
			continue
		}
		allowedIDs[id] = true
	}

	return &Channel{
		bot:     bot,
		bus:     msgBus,
		allowed: allowedIDs,
	}, nil
}

// Start begins polling for updates and dispatching outbound messages.
func (c *Channel) Start(ctx context.Context) {
	c.ctx = ctx

	slog.Info("telegram bot started",
		slog.String("username", c.bot.Self.UserName),
		slog.Int("allowed_users", len(c.allowed)))

	// Inbound: poll for updates.
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 30
	updates := c.bot.GetUpdatesChan(u)

	go func() {
		for {
			select {
			case <-ctx.Done():
				c.bot.StopReceivingUpdates()
				return
			case update, ok := <-updates:
				if !ok {
					return
				}
				if update.Message != nil {
					c.handleMessage(update.Message)
				}
			}
		}
	}()

	// Outbound: send replies matching "telegram" channel.
	go func() {
		for {
			msg, ok := c.bus.SubscribeOutbound(ctx)
			if !ok {
				return
			}
			if msg.Channel != "telegram" {
				continue
			}
			c.sendReply(msg)
		}
	}()
}

func (c *Channel) handleMessage(msg *tgbotapi.Message) {
	if msg.From == nil {
		return
	}

	userID := msg.From.ID
	// Whitelist check (skip if no whitelist configured — open to all).
	if len(c.allowed) > 0 && !c.allowed[userID] {
		slog.Warn("telegram: unauthorized user", slog.Int64("user_id", userID))
		return
	}

	text := msg.Text
	if text == "" {
		text = msg.Caption
	}
	if text == "" {
		return // ignore non-text messages
	}

	if msg.IsCommand() {
		c.handleCommand(msg)
		return
	}

	chatID := fmt.Sprintf("%d", msg.Chat.ID)

	// Start typing indicator while the agent works.
	c.bot.Send(tgbotapi.NewChatAction(msg.Chat.ID, tgbotapi.ChatTyping))
	stopChan := make(chan struct{})
	c.stopTyping.Store(chatID, stopChan)
	go c.typingLoop(msg.Chat.ID, stopChan)

	c.bus.PublishInbound(bus.Message{
		ID:        fmt.Sprintf("tg-%d", msg.MessageID),
		Channel:   "telegram",
		SenderID:  fmt.Sprintf("%d", userID),
		ChatID:    chatID,
		Text:      text,
		Timestamp: time.Now(),
	})
}

func (c *Channel) handleCommand(msg *tgbotapi.Message) {
	switch msg.Command() {
	case "start", "help":
		reply := tgbotapi.NewMessage(msg.Chat.ID, welcomeText)
		if _, err := c.bot.Send(reply); err != nil {
			slog.Error("telegram: send failed", slog.Any("error", err))
		}
	default:
		// Unknown commands are passed through as plain text minus the slash,
		// reps often type "/log met dr smith" out of habit.
		text := strings.TrimSpace(msg.CommandArguments())
		if text == "" {
			return
		}
		c.bus.PublishInbound(bus.Message{
			ID:        fmt.Sprintf("tg-%d", msg.MessageID),
			Channel:   "telegram",
			SenderID:  fmt.Sprintf("%d", msg.From.ID),
			ChatID:    fmt.Sprintf("%d", msg.Chat.ID),
			Text:      text,
			Timestamp: time.Now(),
		})
	}
}

func (c *Channel) sendReply(msg bus.Message) {
	chatID, err := strconv.ParseInt(msg.ChatID, 10, 64)
	if err != nil {
		slog.Error("telegram: invalid chat ID", slog.String("chat_id", msg.ChatID))
		return
	}

	// Stop typing indicator.
	if stop, ok := c.stopTyping.LoadAndDelete(msg.ChatID); ok {
		if ch, ok := stop.(chan struct{}); ok {
			close(ch)
		}
	}

	text := msg.Text
	if text == "" {
		return
	}

	text = sanitizeUTF8(text)

	// Try HTML mode first, fall back to plain text.
	htmlText := markdownToTelegramHTML(text)
	if err := c.sendChunked(chatID, htmlText, tgbotapi.ModeHTML); err != nil {
		slog.Warn("telegram: HTML send failed, falling back to plain text", slog.Any("error", err))
		plain := stripMarkdown(text)
		if err := c.sendChunked(chatID, plain, ""); err != nil {
			slog.Error("telegram: send failed", slog.Any("error", err))
		}
	}
}

func (c *Channel) sendChunked(chatID int64, text string, parseMode string) error {
	const maxLen = 4096
	policy := retrypolicy.NewBuilder[any]().
		HandleIf(func(_ any, err error) bool { return isTransientTelegramError(err) }).
		WithBackoff(time.Second, 10*time.Second).
		WithMaxRetries(3).
		Build()

	for _, chunk := range splitMessage(text, maxLen) {
		if chunk == "" {
			continue
		}
		tgMsg := tgbotapi.NewMessage(chatID, chunk)
		if parseMode != "" {
			tgMsg.ParseMode = parseMode
		}
		err := failsafe.With[any](policy).Run(func() error {
			_, err := c.bot.Send(tgMsg)
			return err
		})
		if err != nil {
			return err
		}
	}
	return nil
}

// isTransientTelegramError reports whether a Bot API failure is worth
// retrying: rate limits, gateway errors and network hiccups. Parse errors
// and auth failures are not.
func isTransientTelegramError(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	for _, marker := range []string{
		"429", "502", "503", "504",
		"timeout", "connection reset", "connection refused",
	} {
		if strings.Contains(msg, marker) {
			return true
		}
	}
	return false
}

func (c *Channel) typingLoop(chatID int64, stop <-chan struct{}) {
	ticker := time.NewTicker(4 * time.Second)
	defer ticker.Stop()
	for {
		select {
		case <-stop:
			return
		case <-c.ctx.Done():
			return
		case <-ticker.C:
			c.bot.Send(tgbotapi.NewChatAction(chatID, tgbotapi.ChatTyping))
		}
	}
}
