package telegram

import (
	"context"
	"time"
)

// typingInterval is below Telegram's five second indicator lifetime.
const typingInterval = 4 * time.Second

// KeepTyping shows the typing indicator until the returned stop func is
// called or ctx ends.
func (m *Messenger) KeepTyping(ctx context.Context, chatID int64) (stop func()) {
	ctx, cancel := context.WithCancel(ctx)

	go func() {
		ticker := time.NewTicker(typingInterval)
		defer ticker.Stop()

		if err := m.Typing(ctx, chatID); err != nil {
			m.log.DebugContext(ctx, "Initial typing action failed", "chat_id", chatID, "error", err)
		}
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if err := m.Typing(ctx, chatID); err != nil && ctx.Err() == nil {
					m.log.DebugContext(ctx, "Typing action failed", "chat_id", chatID, "error", err)
				}
			}
		}
	}()

	return cancel
}
