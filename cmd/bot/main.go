// Package main contains the entrypoint for the detective game bot.
package main

import (
	"context"
	"errors"
	"flag"
	"log/slog"
	"math/rand/v2"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	tgbot "github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/lingosleuth/detectivebot/internal/bot"
	"github.com/lingosleuth/detectivebot/internal/bot/handlers"
	"github.com/lingosleuth/detectivebot/internal/bot/tasks"
	"github.com/lingosleuth/detectivebot/internal/config"
	"github.com/lingosleuth/detectivebot/internal/content"
	"github.com/lingosleuth/detectivebot/internal/game"
	"github.com/lingosleuth/detectivebot/internal/llm"
	"github.com/lingosleuth/detectivebot/internal/logger"
	"github.com/lingosleuth/detectivebot/internal/metrics"
	"github.com/lingosleuth/detectivebot/internal/progress"
	"github.com/lingosleuth/detectivebot/internal/session"
	"github.com/lingosleuth/detectivebot/internal/storage"
	"github.com/lingosleuth/detectivebot/internal/telegram"
)

const chunkDelay = 500 * time.Millisecond

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	exitCode := run(ctx)
	stop()
	os.Exit(exitCode)
}

// run wires every component, runs the bot until ctx is cancelled and returns
// the process exit code.
func run(ctx context.Context) int {
	configPath := flag.String("config", "./config.yaml", "Path to configuration file")
	flag.Parse()

	boot := slog.Default()
	cfg, err := config.LoadConfig(ctx, *configPath, boot)
	if err != nil {
		boot.Error("Failed to load configuration", "path", *configPath, "error", err)
		return 1
	}

	log := logger.NewLogger(cfg.Logger.Level, cfg.Logger.JSON)
	slog.SetDefault(log)
	log.Info("Logger initialized", "level", cfg.Logger.Level, "json", cfg.Logger.JSON)

	loc, err := time.LoadLocation(cfg.Game.Timezone)
	if err != nil {
		log.Error("Unknown timezone", "timezone", cfg.Game.Timezone, "error", err)
		return 1
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.New(reg)

	store, err := storage.Open(ctx, cfg.Storage, log)
	if err != nil {
		log.Error("Failed to open storage", "driver", cfg.Storage.Driver, "error", err)
		return 1
	}
	defer func() {
		if err := store.Close(); err != nil {
			log.Error("Failed to close storage", "error", err)
		}
	}()

	loader := content.NewLoader(os.DirFS(cfg.Content.Dir), log)

	completer, err := llm.NewCompleter(ctx, cfg.LLM, log)
	if err != nil {
		log.Error("Failed to initialize LLM client", "provider", cfg.LLM.Provider, "error", err)
		return 1
	}
	gateway := llm.NewGateway(completer, llm.NewValidator(), loader, m, log, llm.Options{DirectorModel: cfg.LLM.DirectorModel})

	sessions := session.New(store, m, log)

	// The default handler needs the messenger, which needs the bot.
	var dispatch tgbot.HandlerFunc
	botOpts := []tgbot.Option{
		tgbot.WithMiddlewares(logger.Middleware(log)),
		tgbot.WithDefaultHandler(func(ctx context.Context, b *tgbot.Bot, update *models.Update) {
			dispatch(ctx, b, update)
		}),
	}
	if cfg.Telegram.WebhookSecret != "" {
		botOpts = append(botOpts, tgbot.WithWebhookSecretToken(cfg.Telegram.WebhookSecret))
	}
	tg, err := telegram.NewTelegramBot(cfg.Telegram.Token, log, botOpts...)
	if err != nil {
		log.Error("Failed to create Telegram bot", "error", err)
		return 1
	}
	messenger := telegram.NewMessenger(tg, cfg.Telegram.MaxMessageLength, chunkDelay, log)

	tDeps := tasks.TaskDeps{
		Logger:   log,
		Sessions: sessions,
		Storage:  store,
		Metrics:  m,
		Config:   cfg,
	}
	sched, err := bot.NewScheduler(log, &cfg.Scheduler, tasks.RegisterAllTasks(tDeps), loc)
	if err != nil {
		log.Error("Failed to create scheduler", "error", err)
		return 1
	}

	hDeps := handlers.HandlerDeps{
		Logger:    log,
		Config:    cfg,
		Messenger: messenger,
		Sessions:  sessions,
		Progress:  progress.NewStore(store, loc, m, log),
		ChatLog:   progress.NewChatLog(store, loc, m, log),
		Gateway:   gateway,
		Resolver:  game.NewResolver(game.NewShortcuts(game.DefaultTopics, rand.IntN), gateway, log),
		Content:   loader,
		Reminders: bot.NewReminders(sched, sessions, messenger, loader, log),
		Metrics:   m,
		Messages:  handlers.NewMessageCache(handlers.DefaultMessageCacheSize),
	}
	dispatch = handlers.DefaultHandler(hDeps)

	if err := telegram.RegisterHandlers(tg, log, handlers.RegisterAllHandlers(hDeps)); err != nil {
		log.Error("Failed to register Telegram handlers", "error", err)
		return 1
	}

	var webhook http.Handler
	if cfg.Telegram.Mode == "webhook" {
		webhook = tg.WebhookHandler()
	}
	server := bot.NewHTTPServer(cfg.Server, bot.NewRouter(cfg.Server.WebhookPath, webhook, reg), log)

	app := bot.NewBot(log, cfg, tg, server, sched, sessions, messenger, handlers.Commands())

	log.Info("Starting bot...")
	runErr := app.Run(ctx)
	log.Info("Bot run loop finished. Initiating shutdown...")

	if runErr != nil && !errors.Is(runErr, context.Canceled) {
		log.Error("Bot stopped due to error", "error", runErr)
		return 1
	}

	log.Info("Bot stopped gracefully.")
	return 0
}
