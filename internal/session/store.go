// Package session keeps per-user game sessions in memory and snapshots them
// to object storage.
package session

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/lingosleuth/detectivebot/internal/game"
	"github.com/lingosleuth/detectivebot/internal/metrics"
	"github.com/lingosleuth/detectivebot/internal/storage"
)

type snapshot struct {
	State     *game.Session `json:"state"`
	LastSaved time.Time     `json:"last_saved"`
	UserID    int64         `json:"user_id"`
}

// Store is the session cache. Storage failures never reach callers: they are
// logged and the operation becomes a no-op.
type Store struct {
	backend storage.Store
	metrics *metrics.Metrics
	log     *slog.Logger
	now     func() time.Time

	mu       sync.Mutex
	sessions map[int64]*game.Session
	dirty    map[int64]struct{}
	locks    map[int64]*sync.Mutex
}

// New creates a store over backend.
func New(backend storage.Store, m *metrics.Metrics, logger *slog.Logger) *Store {
	if m == nil {
		m = metrics.Nop()
	}
	return &Store{
		backend:  backend,
		metrics:  m,
		log:      logger.With("component", "session_store"),
		now:      time.Now,
		sessions: make(map[int64]*game.Session),
		dirty:    make(map[int64]struct{}),
		locks:    make(map[int64]*sync.Mutex),
	}
}

// Lock serializes updates for one user and returns the unlock func.
// Anything that reads or changes a session, Save included, runs under it.
func (s *Store) Lock(userID int64) func() {
	l := s.userLock(userID)
	l.Lock()
	return l.Unlock
}

func (s *Store) userLock(userID int64) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()
	l, ok := s.locks[userID]
	if !ok {
		l = &sync.Mutex{}
		s.locks[userID] = l
	}
	return l
}

// Cached reports whether the session is already in memory.
func (s *Store) Cached(userID int64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.sessions[userID]
	return ok
}

// Get returns the user's session, restoring it from storage when it is not
// in memory. It reports false when the user has no session anywhere.
func (s *Store) Get(ctx context.Context, userID int64) (*game.Session, bool) {
	s.mu.Lock()
	sess, ok := s.sessions[userID]
	s.mu.Unlock()
	if ok {
		return sess, true
	}

	data, err := s.backend.Read(ctx, storage.GameStateKey(userID))
	if err != nil {
		if !errors.Is(err, storage.ErrNotFound) {
			s.metrics.StorageErrors.WithLabelValues("session_read").Inc()
			s.log.WarnContext(ctx, "Failed to load session snapshot", "user_id", userID, "error", err)
		}
		return nil, false
	}

	var snap snapshot
	if err := json.Unmarshal(data, &snap); err != nil || snap.State == nil {
		s.log.WarnContext(ctx, "Discarding unreadable session snapshot", "user_id", userID, "error", err)
		return nil, false
	}
	snap.State.Normalize()

	s.mu.Lock()
	defer s.mu.Unlock()
	if existing, ok := s.sessions[userID]; ok {
		return existing, true
	}
	s.sessions[userID] = snap.State
	s.metrics.ActiveSessions.Set(float64(len(s.sessions)))
	s.log.InfoContext(ctx, "Restored session from storage", "user_id", userID, "last_saved", snap.LastSaved)
	return snap.State, true
}

// Put installs sess for the user and marks it for saving.
func (s *Store) Put(userID int64, sess *game.Session) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[userID] = sess
	s.dirty[userID] = struct{}{}
	s.metrics.ActiveSessions.Set(float64(len(s.sessions)))
}

// MarkDirty schedules the session for the next flush.
func (s *Store) MarkDirty(userID int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.sessions[userID]; ok {
		s.dirty[userID] = struct{}{}
	}
}

// Save writes the user's session snapshot now. The caller must hold
// Lock(userID).
func (s *Store) Save(ctx context.Context, userID int64) {
	s.mu.Lock()
	sess, ok := s.sessions[userID]
	var data []byte
	var err error
	if ok {
		data, err = json.Marshal(snapshot{State: sess, LastSaved: s.now().UTC(), UserID: userID})
		delete(s.dirty, userID)
	}
	s.mu.Unlock()
	if !ok {
		return
	}
	if err != nil {
		s.log.ErrorContext(ctx, "Failed to encode session snapshot", "user_id", userID, "error", err)
		return
	}

	if err := s.backend.Write(ctx, storage.GameStateKey(userID), data); err != nil {
		s.metrics.StorageErrors.WithLabelValues("session_write").Inc()
		s.log.WarnContext(ctx, "Failed to save session snapshot", "user_id", userID, "error", err)
		s.MarkDirty(userID)
		return
	}
	s.log.DebugContext(ctx, "Saved session snapshot", "user_id", userID)
}

// Delete forgets the session in memory and in storage.
func (s *Store) Delete(ctx context.Context, userID int64) {
	s.mu.Lock()
	delete(s.sessions, userID)
	delete(s.dirty, userID)
	s.metrics.ActiveSessions.Set(float64(len(s.sessions)))
	s.mu.Unlock()

	if err := s.backend.Delete(ctx, storage.GameStateKey(userID)); err != nil {
		s.metrics.StorageErrors.WithLabelValues("session_delete").Inc()
		s.log.WarnContext(ctx, "Failed to delete session snapshot", "user_id", userID, "error", err)
	}
}

// FlushDirty saves every session changed since its last save and returns
// how many were written. A user whose lock is held by a running handler is
// skipped and stays dirty; the handler saves on its own.
func (s *Store) FlushDirty(ctx context.Context) int {
	s.mu.Lock()
	ids := make([]int64, 0, len(s.dirty))
	for id := range s.dirty {
		ids = append(ids, id)
	}
	s.mu.Unlock()

	written := 0
	for _, id := range ids {
		if ctx.Err() != nil {
			break
		}
		l := s.userLock(id)
		if !l.TryLock() {
			s.log.DebugContext(ctx, "Session busy, deferring flush", "user_id", id)
			continue
		}
		s.Save(ctx, id)
		l.Unlock()
		written++
	}
	return written
}

// Len is the number of sessions in memory.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}
