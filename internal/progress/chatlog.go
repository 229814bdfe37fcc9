package progress

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/lingosleuth/detectivebot/internal/metrics"
	"github.com/lingosleuth/detectivebot/internal/storage"
)

// Chat log roles.
const (
	RoleUser       = "user"
	RoleUserAction = "user_action"
	RoleDirector   = "director"
	RoleTutor      = "tutor_log"
)

const maxUserContentRunes = 100

// ChatLog appends a transcript line per event. User-authored text is
// shortened so long personal messages are not kept verbatim.
type ChatLog struct {
	backend storage.Store
	metrics *metrics.Metrics
	log     *slog.Logger
	loc     *time.Location
	now     func() time.Time
	mu      sync.Mutex
}

// NewChatLog creates a transcript writer.
func NewChatLog(backend storage.Store, loc *time.Location, m *metrics.Metrics, logger *slog.Logger) *ChatLog {
	if loc == nil {
		loc = time.UTC
	}
	if m == nil {
		m = metrics.Nop()
	}
	return &ChatLog{
		backend: backend,
		metrics: m,
		log:     logger.With("component", "chat_log"),
		loc:     loc,
		now:     time.Now,
	}
}

// FormatLine renders one transcript line.
func FormatLine(at time.Time, role, content string) string {
	if role == RoleUser {
		if r := []rune(content); len(r) > maxUserContentRunes {
			content = string(r[:maxUserContentRunes]) + "... [truncated]"
		}
	}
	return fmt.Sprintf("[%s] (%s): %s\n", at.Format(time.DateTime), role, content)
}

// Append writes a line for the user. Failures are logged and dropped.
func (c *ChatLog) Append(ctx context.Context, userID int64, code, role, content string) {
	line := FormatLine(c.now().In(c.loc), role, content)

	c.mu.Lock()
	defer c.mu.Unlock()
	if err := storage.Append(ctx, c.backend, storage.ChatLogKey(userID, code), []byte(line)); err != nil {
		c.metrics.StorageErrors.WithLabelValues("chat_log").Inc()
		c.log.WarnContext(ctx, "Failed to append chat log", "user_id", userID, "error", err)
	}
}
