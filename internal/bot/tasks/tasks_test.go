package tasks_test

import (
	"context"
	"io"
	"log/slog"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gocloud.dev/blob/memblob"

	"github.com/lingosleuth/detectivebot/internal/bot/tasks"
	"github.com/lingosleuth/detectivebot/internal/game"
	"github.com/lingosleuth/detectivebot/internal/metrics"
	"github.com/lingosleuth/detectivebot/internal/session"
	"github.com/lingosleuth/detectivebot/internal/storage"
)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestRegisterAllTasks(t *testing.T) {
	t.Parallel()
	got := tasks.RegisterAllTasks(tasks.TaskDeps{Logger: quietLogger()})
	assert.Contains(t, got, "session_flush")
	assert.Contains(t, got, "storage_maintenance")
}

func TestSessionFlushTask(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	backend := storage.NewBucketStore(memblob.OpenBucket(nil), quietLogger())
	t.Cleanup(func() { _ = backend.Close() })

	m := metrics.Nop()
	sessions := session.New(backend, m, quietLogger())
	sessions.Put(1, game.NewSession())
	sessions.MarkDirty(1)

	flush := tasks.RegisterAllTasks(tasks.TaskDeps{Logger: quietLogger(), Sessions: sessions, Storage: backend, Metrics: m})["session_flush"]
	require.NoError(t, flush(ctx))

	_, err := backend.Read(ctx, storage.GameStateKey(1))
	assert.NoError(t, err)
	assert.Equal(t, 1, sessions.Len())
}

func TestStorageMaintenanceTask(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	sqliteStore, err := storage.OpenSQLite(filepath.Join(t.TempDir(), "objects.db"), quietLogger())
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqliteStore.Close() })

	bucket := storage.NewBucketStore(memblob.OpenBucket(nil), quietLogger())
	t.Cleanup(func() { _ = bucket.Close() })

	for name, backend := range map[string]storage.Store{"sqlite": sqliteStore, "bucket": bucket} {
		t.Run(name, func(t *testing.T) {
			run := tasks.RegisterAllTasks(tasks.TaskDeps{Logger: quietLogger(), Storage: backend})["storage_maintenance"]
			assert.NoError(t, run(ctx))
		})
	}
}
