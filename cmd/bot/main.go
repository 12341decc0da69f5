package main

import (
	"context"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/korjavin/lunchbot/pkg/commands"
	"github.com/korjavin/lunchbot/pkg/config"
	"github.com/korjavin/lunchbot/pkg/identity"
	"github.com/korjavin/lunchbot/pkg/logger"
	"github.com/korjavin/lunchbot/pkg/lunch"
	"github.com/korjavin/lunchbot/pkg/messages"
	"github.com/korjavin/lunchbot/pkg/openai"
	"github.com/korjavin/lunchbot/pkg/scheduler"
	"github.com/korjavin/lunchbot/pkg/shops"
	"github.com/korjavin/lunchbot/pkg/storage"
	"github.com/korjavin/lunchbot/pkg/telegram"
)

func main() {
	// Initialize logger
	log := logger.Global
	log.Info("Starting lunchbot...")

	// Load configuration
	cfg, err := config.LoadFromEnv()
	if err != nil {
		log.Error("Failed to load configuration: %v", err)
		os.Exit(1)
	}

	// Initialize storage (user registry and reminder journal; open orders
	// and outings live in memory only)
	store, err := storage.New(cfg.DataDir)
	if err != nil {
		log.Error("Failed to initialize storage: %v", err)
		os.Exit(1)
	}
	defer store.Close()

	// Start BadgerDB garbage collection
	store.StartGCRoutine(10 * time.Minute)

	// Initialize OpenAI client if configured; reminders fall back to the
	// static rendering without it
	var aiClient *openai.Client
	if cfg.OpenAIAPIKey != "" {
		aiClient = openai.New(cfg.OpenAIAPIKey, cfg.OpenAIAPIBase, cfg.OpenAIModel)
	}

	// Initialize services
	render := messages.New(aiClient)
	registry := identity.NewRegistry(store)
	sched := scheduler.New(scheduler.SystemClock(), cfg.TickInterval)
	sched.Start()

	// Initialize Telegram bot
	bot, err := telegram.New(cfg.BotToken)
	if err != nil {
		log.Error("Failed to initialize Telegram bot: %v", err)
		os.Exit(1)
	}

	dir := shops.Default()
	svc := lunch.New(dir, sched, bot, render, store)
	dispatcher := commands.NewDispatcher(svc, dir, render)

	// Handle graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-sigChan
		log.Info("Shutting down...")
		sched.Stop()
		store.Close()
		os.Exit(0)
	}()

	// Start the bot
	log.Info("Bot is now running. Press CTRL-C to exit.")
	err = bot.Start(func(message *tgbotapi.Message, text string) {
		if message.From == nil {
			return
		}

		// Keep the user registry current: everyone who talks near the bot
		// becomes resolvable as a join/ask target
		if err := registry.Record(message.From.UserName, displayName(message.From)); err != nil {
			log.Error("Failed to record user %s: %v", message.From.UserName, err)
		}

		ctx := &commands.Context{
			Ctx:      context.Background(),
			ChatID:   message.Chat.ID,
			Private:  message.Chat.IsPrivate(),
			UserRef:  message.From.UserName,
			Resolver: registry,
			Reply: func(reply string) {
				if _, err := bot.SendMessage(message.Chat.ID, reply); err != nil {
					log.Error("Failed to reply in chat %d: %v", message.Chat.ID, err)
				}
			},
		}
		dispatcher.Dispatch(ctx, text)
	})
	if err != nil {
		log.Error("Error running bot: %v", err)
		os.Exit(1)
	}
}

func displayName(u *tgbotapi.User) string {
	name := strings.TrimSpace(u.FirstName + " " + u.LastName)
	if name == "" {
		return u.UserName
	}
	return name
}
