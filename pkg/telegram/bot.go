package telegram

import (
	"fmt"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/korjavin/lunchbot/pkg/logger"
)

// Bot represents a Telegram bot instance
type Bot struct {
	api    *tgbotapi.BotAPI
	logger *logger.Logger
}

// MessageHandler is a function that handles one inbound text message.
// Handlers run in their own goroutine: identity resolution may block, and a
// stalled lookup must not stop the update loop.
type MessageHandler func(message *tgbotapi.Message, text string)

// New creates a new Telegram bot instance
func New(token string) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("failed to create Telegram bot: %w", err)
	}

	bot := &Bot{
		api:    api,
		logger: logger.New("telegram"),
	}

	bot.logger.Info("Telegram bot created: @%s", api.Self.UserName)
	return bot, nil
}

// Start starts the bot and feeds every text message to the handler.
// In group chats a leading @mention of the bot is stripped first, so
// "@lunchbot order from Subway at 12:30" parses like a direct message.
func (b *Bot) Start(handler MessageHandler) error {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60

	updates := b.api.GetUpdatesChan(u)

	for update := range updates {
		if update.Message == nil || update.Message.Text == "" {
			continue
		}

		text := strings.TrimSpace(strings.TrimPrefix(update.Message.Text, "@"+b.api.Self.UserName))
		b.logger.Debug("Message from %s in chat %d", update.Message.From.UserName, update.Message.Chat.ID)
		go handler(update.Message, text)
	}

	return nil
}

// SendMessage sends a text message to a chat
func (b *Bot) SendMessage(chatID int64, text string) (tgbotapi.Message, error) {
	msg := tgbotapi.NewMessage(chatID, text)
	return b.api.Send(msg)
}

// Announce sends an unsolicited message to a chat, logging failures.
// Reminder delivery is at-most-once; a failed send is lost.
func (b *Bot) Announce(chatID int64, text string) {
	if _, err := b.SendMessage(chatID, text); err != nil {
		b.logger.Error("Failed to announce to chat %d: %v", chatID, err)
	}
}

// Username returns the bot's own username.
func (b *Bot) Username() string {
	return b.api.Self.UserName
}
