package handlers

import (
	tgbot "github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"

	"github.com/lingosleuth/detectivebot/internal/telegram"
)

// Commands is the command list published to Telegram.
func Commands() []models.BotCommand {
	return []models.BotCommand{
		{Command: "start", Description: "Start or resume the investigation"},
		{Command: "restart", Description: "Throw away your progress and start over"},
		{Command: "menu", Description: "Open the game menu"},
		{Command: "progress", Description: "Show your language progress"},
		{Command: "update_keyboard", Description: "Refresh the menu buttons"},
	}
}

func routeMiddleware(deps HandlerDeps) []tgbot.Middleware {
	return []tgbot.Middleware{CountUpdates(deps), Recover(deps), PerUser(deps)}
}

// RegisterAllHandlers returns every update route of the game. Each route
// counts the update, recovers panics and is serialized per user.
func RegisterAllHandlers(deps HandlerDeps) map[string]telegram.RegisteredHandler {
	mw := routeMiddleware(deps)
	routes := make(map[string]telegram.RegisteredHandler)

	command := func(name string, h tgbot.HandlerFunc) {
		routes["/"+name] = telegram.RegisteredHandler{
			HandlerType: tgbot.HandlerTypeMessageText,
			Pattern:     name,
			Handler:     h,
			MatchType:   tgbot.MatchTypeCommandStartOnly,
			Middleware:  mw,
		}
	}
	label := func(text string, h tgbot.HandlerFunc) {
		routes[text] = telegram.RegisteredHandler{
			HandlerType: tgbot.HandlerTypeMessageText,
			Pattern:     text,
			Handler:     h,
			MatchType:   tgbot.MatchTypeExact,
			Middleware:  mw,
		}
	}

	command("start", NewStartHandler(deps))
	command("restart", NewRestartHandler(deps))
	command("menu", NewMenuHandler(deps))
	command("progress", NewProgressHandler(deps))
	command("update_keyboard", NewUpdateKeyboardHandler(deps))

	label(telegram.GameMenuLabel, NewMenuHandler(deps))
	label(telegram.LearningMenuLabel, NewLearningMenuHandler(deps))
	label(telegram.LegacyProgressLabel, NewLearningMenuHandler(deps))

	routes["callback"] = telegram.RegisteredHandler{
		HandlerType: tgbot.HandlerTypeCallbackQueryData,
		Pattern:     "",
		Handler:     NewCallbackHandler(deps),
		MatchType:   tgbot.MatchTypePrefix,
		Middleware:  mw,
	}

	return routes
}

// DefaultHandler handles every update no route matched, which is free text
// typed by the player. It carries the same middleware as the routes.
func DefaultHandler(deps HandlerDeps) tgbot.HandlerFunc {
	h := NewMessageHandler(deps)
	mw := routeMiddleware(deps)
	for i := len(mw) - 1; i >= 0; i-- {
		h = mw[i](h)
	}
	return h
}
