package progress_test

import (
	"context"
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gocloud.dev/blob/memblob"

	"github.com/lingosleuth/detectivebot/internal/progress"
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

func TestAddWordDeduplicates(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	s := progress.NewStore(newBackend(t), nil, nil, quietLogger())
	s.AddWord(ctx, 1, "", "detective", "a person who investigates crimes")
	s.AddWord(ctx, 1, "", "detective", "another definition")
	s.AddWord(ctx, 1, "", "alibi", "proof of being elsewhere")

	rec := s.Get(ctx, 1, "")
	require.Len(t, rec.WordsLearned, 2)
	assert.Equal(t, "detective", rec.WordsLearned[0].Query)
	assert.Equal(t, "a person who investigates crimes", rec.WordsLearned[0].Feedback)
	assert.Empty(t, rec.WritingFeedback)
}

func TestAddFeedbackUsesParticipantKey(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	backend := newBackend(t)

	berlin, err := time.LoadLocation("Europe/Berlin")
	require.NoError(t, err)

	s := progress.NewStore(backend, berlin, nil, quietLogger())
	s.AddFeedback(ctx, 1, "AN0842", "where was you", "Use 'were' with 'you'.")
	s.AddFeedback(ctx, 1, "AN0842", "where was you", "duplicate")

	_, err = backend.Read(ctx, storage.ProgressKey(1, "AN0842"))
	require.NoError(t, err)
	_, err = backend.Read(ctx, storage.ProgressKey(1, ""))
	assert.ErrorIs(t, err, storage.ErrNotFound)

	rec := s.Get(ctx, 1, "AN0842")
	require.Len(t, rec.WritingFeedback, 1)
	ts, err := time.Parse(time.RFC3339, rec.WritingFeedback[0].Timestamp)
	require.NoError(t, err)
	_, offset := ts.Zone()
	assert.Contains(t, []int{3600, 7200}, offset)
}

func TestClear(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	s := progress.NewStore(newBackend(t), nil, nil, quietLogger())
	s.AddWord(ctx, 3, "", "motive", "reason")
	s.Clear(ctx, 3, "")

	assert.True(t, s.Get(ctx, 3, "").Empty())
}

func TestFormatLine(t *testing.T) {
	t.Parallel()

	at := time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)
	long := strings.Repeat("é", 150)

	testCases := []struct {
		name    string
		role    string
		content string
		want    string
	}{
		{name: "short user text", role: progress.RoleUser, content: "hello", want: "[2025-01-02 03:04:05] (user): hello\n"},
		{name: "long user text truncated", role: progress.RoleUser, content: long, want: "[2025-01-02 03:04:05] (user): " + strings.Repeat("é", 100) + "... [truncated]\n"},
		{name: "other roles untouched", role: progress.RoleDirector, content: long, want: "[2025-01-02 03:04:05] (director): " + long + "\n"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tc.want, progress.FormatLine(at, tc.role, tc.content))
		})
	}
}

func TestChatLogAppend(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	backend := newBackend(t)

	log := progress.NewChatLog(backend, nil, nil, quietLogger())
	log.Append(ctx, 9, "", progress.RoleUser, "first")
	log.Append(ctx, 9, "", progress.RoleUserAction, "second")

	data, err := backend.Read(ctx, storage.ChatLogKey(9, ""))
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSuffix(string(data), "\n"), "\n")
	require.Len(t, lines, 2)
	assert.True(t, strings.HasSuffix(lines[0], "(user): first"))
	assert.True(t, strings.HasSuffix(lines[1], "(user_action): second"))
}
