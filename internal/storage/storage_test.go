package storage_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gocloud.dev/blob/memblob"

	"github.com/lingosleuth/detectivebot/internal/storage"
)

func backends(t *testing.T) map[string]storage.Store {
	t.Helper()

	sqliteStore, err := storage.OpenSQLite(filepath.Join(t.TempDir(), "objects.db"), nil)
	require.NoError(t, err)

	stores := map[string]storage.Store{
		"bucket": storage.NewBucketStore(memblob.OpenBucket(nil), nil),
		"sqlite": sqliteStore,
	}
	t.Cleanup(func() {
		for _, s := range stores {
			_ = s.Close()
		}
	})
	return stores
}

func TestStoreRoundTrip(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	for name, s := range backends(t) {
		t.Run(name, func(t *testing.T) {
			key := storage.GameStateKey(42)

			_, err := s.Read(ctx, key)
			require.ErrorIs(t, err, storage.ErrNotFound)

			require.NoError(t, s.Write(ctx, key, []byte(`{"a":1}`)))
			require.NoError(t, s.Write(ctx, key, []byte(`{"a":2}`)))

			data, err := s.Read(ctx, key)
			require.NoError(t, err)
			assert.JSONEq(t, `{"a":2}`, string(data))

			require.NoError(t, s.Delete(ctx, key))
			require.NoError(t, s.Delete(ctx, key), "deleting a missing key is not an error")

			_, err = s.Read(ctx, key)
			assert.ErrorIs(t, err, storage.ErrNotFound)
		})
	}
}

func TestAppend(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	for name, s := range backends(t) {
		t.Run(name, func(t *testing.T) {
			key := storage.ChatLogKey(7, "")
			require.NoError(t, storage.Append(ctx, s, key, []byte("one\n")))
			require.NoError(t, storage.Append(ctx, s, key, []byte("two\n")))

			data, err := s.Read(ctx, key)
			require.NoError(t, err)
			assert.Equal(t, "one\ntwo\n", string(data))
		})
	}
}

func TestSQLiteMaintain(t *testing.T) {
	t.Parallel()

	s, err := storage.OpenSQLite(filepath.Join(t.TempDir(), "objects.db"), nil)
	require.NoError(t, err)
	defer s.Close()

	var m storage.Maintainer = s
	assert.NoError(t, m.Maintain(context.Background()))
}

func TestKeys(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		got      string
		expected string
	}{
		{"game state", storage.GameStateKey(5), "game_states/user_5_state.json"},
		{"progress by user", storage.ProgressKey(5, ""), "user_progress/user_5_progress.json"},
		{"progress by code", storage.ProgressKey(5, "AB1234"), "participant_logs/AB1234_language_progress.json"},
		{"chat log by user", storage.ChatLogKey(5, ""), "user_logs/chat_history_5.txt"},
		{"chat log by code", storage.ChatLogKey(5, "AB1234"), "participant_logs/AB1234_chat_history.txt"},
	}

	for _, tt := range tests {
		if tt.got != tt.expected {
			t.Errorf("%s: got %q, want %q", tt.name, tt.got, tt.expected)
		}
	}
}
