// Package bot wires the Telegram client, the HTTP server and the scheduler
// together and manages their lifecycle.
package bot

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	tgbot "github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"golang.org/x/sync/errgroup"

	"github.com/lingosleuth/detectivebot/internal/config"
	"github.com/lingosleuth/detectivebot/internal/session"
)

const flushTimeout = 15 * time.Second

// CommandPublisher publishes the bot's command list.
type CommandPublisher interface {
	SetCommands(ctx context.Context, commands []models.BotCommand) error
}

// Bot runs every long-lived component until shutdown.
type Bot struct {
	logger      *slog.Logger
	cfg         *config.Config
	tgBot       *tgbot.Bot
	server      *HTTPServer
	scheduler   *Scheduler
	sessions    *session.Store
	commands    CommandPublisher
	commandList []models.BotCommand
}

// NewBot creates the orchestrator.
func NewBot(
	logger *slog.Logger,
	cfg *config.Config,
	tgBot *tgbot.Bot,
	server *HTTPServer,
	scheduler *Scheduler,
	sessions *session.Store,
	commands CommandPublisher,
	commandList []models.BotCommand,
) *Bot {
	return &Bot{
		logger:      logger.With("component", "bot_orchestrator"),
		cfg:         cfg,
		tgBot:       tgBot,
		server:      server,
		scheduler:   scheduler,
		sessions:    sessions,
		commands:    commands,
		commandList: commandList,
	}
}

// Run starts update delivery, the HTTP server and the scheduler, and blocks
// until ctx is cancelled or one of them fails. Dirty sessions are saved on
// the way out.
func (b *Bot) Run(ctx context.Context) error {
	b.logger.Info("Starting bot orchestrator...", "mode", b.cfg.Telegram.Mode)

	if err := b.commands.SetCommands(ctx, b.commandList); err != nil {
		b.logger.Warn("Failed to publish bot commands", "error", err)
	}

	g, gCtx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return b.receiveUpdates(gCtx)
	})

	g.Go(func() error {
		return b.server.Run(gCtx)
	})

	g.Go(func() error {
		if err := b.scheduler.Start(); err != nil {
			return fmt.Errorf("failed to start scheduler: %w", err)
		}
		<-gCtx.Done()
		b.logger.Info("Shutdown signal received, stopping scheduler...")
		if err := b.scheduler.Stop(); err != nil {
			b.logger.Error("Error stopping scheduler", "error", err)
		}
		return nil
	})

	err := g.Wait()

	flushCtx, cancel := context.WithTimeout(context.Background(), flushTimeout)
	defer cancel()
	if n := b.sessions.FlushDirty(flushCtx); n > 0 {
		b.logger.Info("Saved dirty sessions before exit", "count", n)
	}

	if err != nil && !errors.Is(err, context.Canceled) {
		b.logger.Error("Bot orchestrator stopped due to error", "error", err)
		return err
	}
	b.logger.Info("Bot orchestrator stopped gracefully.")
	return nil
}

func (b *Bot) receiveUpdates(ctx context.Context) error {
	tg := b.cfg.Telegram

	if tg.Mode == "webhook" {
		ok, err := b.tgBot.SetWebhook(ctx, &tgbot.SetWebhookParams{
			URL:                tg.WebhookURL,
			SecretToken:        tg.WebhookSecret,
			DropPendingUpdates: tg.DropPendingUpdates,
		})
		if err != nil {
			return fmt.Errorf("failed to set webhook: %w", err)
		}
		if !ok {
			return fmt.Errorf("telegram rejected webhook %s", tg.WebhookURL)
		}
		b.logger.Info("Webhook registered, waiting for updates", "path", b.cfg.Server.WebhookPath)
		b.tgBot.StartWebhook(ctx)
		return nil
	}

	if _, err := b.tgBot.DeleteWebhook(ctx, &tgbot.DeleteWebhookParams{DropPendingUpdates: tg.DropPendingUpdates}); err != nil {
		b.logger.Warn("Failed to delete webhook before polling", "error", err)
	}
	b.logger.Info("Starting Telegram long polling...")
	b.tgBot.Start(ctx)

	if ctx.Err() == nil {
		return fmt.Errorf("telegram listener stopped unexpectedly")
	}
	b.logger.Info("Telegram long polling stopped.")
	return nil
}
