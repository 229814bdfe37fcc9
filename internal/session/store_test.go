package session_test

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"strconv"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gocloud.dev/blob/memblob"

	"github.com/lingosleuth/detectivebot/internal/game"
	"github.com/lingosleuth/detectivebot/internal/session"
	"github.com/lingosleuth/detectivebot/internal/storage"
)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newBackend(t *testing.T) storage.Store {
	t.Helper()
	b := storage.NewBucketStore(memblob.OpenBucket(nil), quietLogger())
	t.Cleanup(func() { _ = b.Close() })
	return b
}

func TestStoreSaveAndRestore(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	backend := newBackend(t)

	s := session.New(backend, nil, quietLogger())
	sess := game.NewSession()
	sess.ExamineClue("2")
	sess.ExamineClue("4")
	sess.TopicMemory.SetTopic("the party")
	sess.TopicMemory.MarkPredefinedUsed("usb_drive")
	s.Put(7, sess)
	s.Save(ctx, 7)

	raw, err := backend.Read(ctx, storage.GameStateKey(7))
	require.NoError(t, err)
	var envelope map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(raw, &envelope))
	assert.Contains(t, envelope, "state")
	assert.Contains(t, envelope, "last_saved")
	assert.JSONEq(t, "7", string(envelope["user_id"]))

	restored := session.New(backend, nil, quietLogger())
	assert.False(t, restored.Cached(7))

	got, ok := restored.Get(ctx, 7)
	require.True(t, ok)
	assert.True(t, restored.Cached(7))
	assert.Equal(t, []string{"2", "4"}, got.CluesExamined.Sorted())
	assert.Equal(t, "the party", got.TopicMemory.Topic)
	assert.Equal(t, []string{"usb_drive"}, got.TopicMemory.PredefinedUsed)
}

func TestStoreGetMissing(t *testing.T) {
	t.Parallel()

	s := session.New(newBackend(t), nil, quietLogger())
	_, ok := s.Get(context.Background(), 99)
	assert.False(t, ok)
}

func TestStoreDelete(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	backend := newBackend(t)

	s := session.New(backend, nil, quietLogger())
	s.Put(1, game.NewSession())
	s.Save(ctx, 1)
	s.Delete(ctx, 1)

	assert.False(t, s.Cached(1))
	_, err := backend.Read(ctx, storage.GameStateKey(1))
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestStoreFlushDirty(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	backend := newBackend(t)

	s := session.New(backend, nil, quietLogger())
	s.Put(1, game.NewSession())
	s.Put(2, game.NewSession())

	assert.Equal(t, 2, s.FlushDirty(ctx))
	assert.Equal(t, 0, s.FlushDirty(ctx))

	s.MarkDirty(2)
	assert.Equal(t, 1, s.FlushDirty(ctx))

	for _, id := range []int64{1, 2} {
		_, err := backend.Read(ctx, storage.GameStateKey(id))
		assert.NoError(t, err)
	}
}

func TestStoreLockSerializesUser(t *testing.T) {
	t.Parallel()

	s := session.New(newBackend(t), nil, quietLogger())
	sess := game.NewSession()
	s.Put(5, sess)

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			unlock := s.Lock(5)
			defer unlock()
			sess.MessageCount++
		}()
	}
	wg.Wait()

	assert.Equal(t, 50, sess.MessageCount)
}

func TestStoreFlushSkipsLockedUser(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	backend := newBackend(t)

	s := session.New(backend, nil, quietLogger())
	s.Put(3, game.NewSession())

	unlock := s.Lock(3)
	assert.Equal(t, 0, s.FlushDirty(ctx))
	_, err := backend.Read(ctx, storage.GameStateKey(3))
	assert.ErrorIs(t, err, storage.ErrNotFound)
	unlock()

	assert.Equal(t, 1, s.FlushDirty(ctx))
	_, err = backend.Read(ctx, storage.GameStateKey(3))
	assert.NoError(t, err)
}

// Run with -race: flushing must never read a session a handler is changing.
func TestStoreFlushConcurrentWithLockedUpdates(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	backend := newBackend(t)

	s := session.New(backend, nil, quietLogger())
	sess := game.NewSession()
	s.Put(9, sess)

	done := make(chan struct{})
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		for {
			select {
			case <-done:
				return
			default:
				s.FlushDirty(ctx)
			}
		}
	}()

	for i := 0; i < 200; i++ {
		unlock := s.Lock(9)
		sess.ExamineClue(strconv.Itoa(i))
		sess.TopicMemory.SetTopic("topic " + strconv.Itoa(i))
		s.MarkDirty(9)
		unlock()
	}
	close(done)
	wg.Wait()

	unlock := s.Lock(9)
	s.Save(ctx, 9)
	unlock()

	restored := session.New(backend, nil, quietLogger())
	got, ok := restored.Get(ctx, 9)
	require.True(t, ok)
	assert.Len(t, got.CluesExamined.Sorted(), 200)
}
