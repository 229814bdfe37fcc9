package bot

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/go-telegram/bot/models"
	"github.com/google/uuid"

	"github.com/lingosleuth/detectivebot/internal/content"
	"github.com/lingosleuth/detectivebot/internal/session"
)

const (
	reminderFile     = "post_test_reminder.txt"
	reminderFallback = "📝 Thank you for playing so far! Please take a few minutes to fill in the post-test questionnaire from the pinned message."
	reminderTimeout  = 30 * time.Second
)

// OnceScheduler runs cancellable one-time jobs. *Scheduler satisfies it.
type OnceScheduler interface {
	ScheduleOnce(name string, at time.Time, fn func()) (uuid.UUID, error)
	Cancel(id uuid.UUID)
}

// Sender delivers a chat message. *telegram.Messenger satisfies it.
type Sender interface {
	Send(ctx context.Context, chatID int64, text string, markup models.ReplyMarkup) (*models.Message, error)
}

// Reminders owns the post-test questionnaire reminder of every session.
// Each user has at most one pending reminder.
type Reminders struct {
	scheduler OnceScheduler
	sessions  *session.Store
	sender    Sender
	content   *content.Loader
	logger    *slog.Logger

	mu   sync.Mutex
	jobs map[int64]uuid.UUID
}

// NewReminders creates the reminder registry.
func NewReminders(s OnceScheduler, sessions *session.Store, sender Sender, c *content.Loader, logger *slog.Logger) *Reminders {
	return &Reminders{
		scheduler: s,
		sessions:  sessions,
		sender:    sender,
		content:   c,
		logger:    logger.With("component", "reminders"),
		jobs:      make(map[int64]uuid.UUID),
	}
}

// Schedule sets the user's reminder to fire at at, replacing any pending one.
func (r *Reminders) Schedule(userID int64, at time.Time) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if id, ok := r.jobs[userID]; ok {
		r.scheduler.Cancel(id)
		delete(r.jobs, userID)
	}

	id, err := r.scheduler.ScheduleOnce(fmt.Sprintf("post_test_reminder_%d", userID), at, func() { r.fire(userID) })
	if err != nil {
		r.logger.Error("Failed to schedule post-test reminder", "user_id", userID, "error", err)
		return
	}
	r.jobs[userID] = id
	r.logger.Info("Post-test reminder scheduled", "user_id", userID, "at", at)
}

// Cancel drops the user's pending reminder, if any.
func (r *Reminders) Cancel(userID int64) {
	r.mu.Lock()
	defer r.mu.Unlock()

	id, ok := r.jobs[userID]
	if !ok {
		return
	}
	r.scheduler.Cancel(id)
	delete(r.jobs, userID)
	r.logger.Debug("Post-test reminder cancelled", "user_id", userID)
}

// Pending reports whether the user has a reminder scheduled.
func (r *Reminders) Pending(userID int64) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.jobs[userID]
	return ok
}

func (r *Reminders) fire(userID int64) {
	r.mu.Lock()
	delete(r.jobs, userID)
	r.mu.Unlock()

	unlock := r.sessions.Lock(userID)
	defer unlock()

	ctx, cancel := context.WithTimeout(context.Background(), reminderTimeout)
	defer cancel()

	sess, ok := r.sessions.Get(ctx, userID)
	if !ok || sess.PostTestSent || sess.GameCompleted {
		r.logger.DebugContext(ctx, "Post-test reminder no longer needed", "user_id", userID)
		return
	}

	text := r.content.TextOr(content.GameText(reminderFile), reminderFallback)
	if _, err := r.sender.Send(ctx, userID, text, nil); err != nil {
		r.logger.ErrorContext(ctx, "Failed to send post-test reminder", "user_id", userID, "error", err)
		return
	}

	sess.PostTestSent = true
	r.sessions.Save(ctx, userID)
	r.logger.InfoContext(ctx, "Post-test reminder sent", "user_id", userID)
}
