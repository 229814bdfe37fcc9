package bot_test

import (
	"context"
	"sync"
	"testing"
	"testing/fstest"
	"time"

	"github.com/go-telegram/bot/models"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gocloud.dev/blob/memblob"

	"github.com/lingosleuth/detectivebot/internal/bot"
	"github.com/lingosleuth/detectivebot/internal/content"
	"github.com/lingosleuth/detectivebot/internal/game"
	"github.com/lingosleuth/detectivebot/internal/session"
	"github.com/lingosleuth/detectivebot/internal/storage"
)

type manualScheduler struct {
	mu        sync.Mutex
	jobs      map[uuid.UUID]func()
	cancelled []uuid.UUID
}

func (m *manualScheduler) ScheduleOnce(_ string, _ time.Time, fn func()) (uuid.UUID, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.jobs == nil {
		m.jobs = make(map[uuid.UUID]func())
	}
	id := uuid.New()
	m.jobs[id] = fn
	return id, nil
}

func (m *manualScheduler) Cancel(id uuid.UUID) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.jobs, id)
	m.cancelled = append(m.cancelled, id)
}

func (m *manualScheduler) runAll() {
	m.mu.Lock()
	jobs := make([]func(), 0, len(m.jobs))
	for id, fn := range m.jobs {
		jobs = append(jobs, fn)
		delete(m.jobs, id)
	}
	m.mu.Unlock()
	for _, fn := range jobs {
		fn()
	}
}

type capturingSender struct {
	mu   sync.Mutex
	sent []string
}

func (c *capturingSender) Send(_ context.Context, _ int64, text string, _ models.ReplyMarkup) (*models.Message, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.sent = append(c.sent, text)
	return &models.Message{ID: len(c.sent)}, nil
}

func newReminders(t *testing.T) (*bot.Reminders, *manualScheduler, *capturingSender, *session.Store) {
	t.Helper()
	backend := storage.NewBucketStore(memblob.OpenBucket(nil), quietLogger())
	t.Cleanup(func() { _ = backend.Close() })

	sessions := session.New(backend, nil, quietLogger())
	loader := content.NewLoader(fstest.MapFS{
		"game_texts/post_test_reminder.txt": &fstest.MapFile{Data: []byte("Time for the post-test!")},
	}, quietLogger())

	sched := &manualScheduler{}
	sender := &capturingSender{}
	return bot.NewReminders(sched, sessions, sender, loader, quietLogger()), sched, sender, sessions
}

func TestReminderFiresOnce(t *testing.T) {
	t.Parallel()
	r, sched, sender, sessions := newReminders(t)
	sess := game.NewSession()
	sess.StartInvestigation(time.Now())
	sessions.Put(5, sess)

	r.Schedule(5, time.Now().Add(time.Minute))
	assert.True(t, r.Pending(5))

	sched.runAll()

	assert.Equal(t, []string{"Time for the post-test!"}, sender.sent)
	assert.True(t, sess.PostTestSent)
	assert.False(t, r.Pending(5))

	r.Schedule(5, time.Now())
	sched.runAll()
	assert.Len(t, sender.sent, 1)
}

func TestReminderRescheduleReplacesPending(t *testing.T) {
	t.Parallel()
	r, sched, _, _ := newReminders(t)

	r.Schedule(5, time.Now().Add(time.Minute))
	r.Schedule(5, time.Now().Add(2*time.Minute))

	assert.Len(t, sched.cancelled, 1)
	assert.Len(t, sched.jobs, 1)
}

func TestReminderCancel(t *testing.T) {
	t.Parallel()
	r, sched, sender, sessions := newReminders(t)
	sessions.Put(5, game.NewSession())

	r.Schedule(5, time.Now().Add(time.Minute))
	r.Cancel(5)
	r.Cancel(5)

	require.Len(t, sched.cancelled, 1)
	sched.runAll()
	assert.Empty(t, sender.sent)
	assert.False(t, r.Pending(5))
}

func TestReminderSkipsCompletedGame(t *testing.T) {
	t.Parallel()
	r, sched, sender, sessions := newReminders(t)
	sess := game.NewSession()
	_, err := sess.Accuse(game.Culprit)
	require.NoError(t, err)
	sessions.Put(5, sess)

	r.Schedule(5, time.Now())
	sched.runAll()

	assert.Empty(t, sender.sent)
	assert.False(t, sess.PostTestSent)
}
