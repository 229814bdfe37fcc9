// Package progress records what a player learned: explained words and
// tutor feedback on their writing. It also keeps the plain-text chat log.
package progress

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/lingosleuth/detectivebot/internal/metrics"
	"github.com/lingosleuth/detectivebot/internal/storage"
)

// Entry is one learned word or one piece of writing feedback.
type Entry struct {
	Timestamp string `json:"timestamp"`
	Query     string `json:"query"`
	Feedback  string `json:"feedback"`
}

// Record is a player's learning progress.
type Record struct {
	WordsLearned    []Entry `json:"words_learned"`
	WritingFeedback []Entry `json:"writing_feedback"`
}

// Empty reports whether nothing was recorded.
func (r Record) Empty() bool {
	return len(r.WordsLearned) == 0 && len(r.WritingFeedback) == 0
}

func addEntry(list []Entry, e Entry) ([]Entry, bool) {
	for _, existing := range list {
		if existing.Query == e.Query {
			return list, false
		}
	}
	return append(list, e), true
}

// Store reads and updates progress records in object storage.
type Store struct {
	backend storage.Store
	metrics *metrics.Metrics
	log     *slog.Logger
	loc     *time.Location
	now     func() time.Time

	// mu serializes read-modify-write cycles.
	mu sync.Mutex
}

// NewStore creates a progress store. Timestamps are written in loc.
func NewStore(backend storage.Store, loc *time.Location, m *metrics.Metrics, logger *slog.Logger) *Store {
	if loc == nil {
		loc = time.UTC
	}
	if m == nil {
		m = metrics.Nop()
	}
	return &Store{
		backend: backend,
		metrics: m,
		log:     logger.With("component", "progress_store"),
		loc:     loc,
		now:     time.Now,
	}
}

// Get loads the record, or an empty one if none exists or it cannot be read.
func (s *Store) Get(ctx context.Context, userID int64, code string) Record {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.load(ctx, userID, code)
}

func (s *Store) load(ctx context.Context, userID int64, code string) Record {
	rec := Record{WordsLearned: []Entry{}, WritingFeedback: []Entry{}}

	data, err := s.backend.Read(ctx, storage.ProgressKey(userID, code))
	if err != nil {
		if !errors.Is(err, storage.ErrNotFound) {
			s.metrics.StorageErrors.WithLabelValues("progress_read").Inc()
			s.log.WarnContext(ctx, "Failed to load progress", "user_id", userID, "error", err)
		}
		return rec
	}
	if err := json.Unmarshal(data, &rec); err != nil {
		s.log.WarnContext(ctx, "Discarding unreadable progress record", "user_id", userID, "error", err)
		return Record{WordsLearned: []Entry{}, WritingFeedback: []Entry{}}
	}
	if rec.WordsLearned == nil {
		rec.WordsLearned = []Entry{}
	}
	if rec.WritingFeedback == nil {
		rec.WritingFeedback = []Entry{}
	}
	return rec
}

func (s *Store) save(ctx context.Context, userID int64, code string, rec Record) {
	data, err := json.MarshalIndent(rec, "", "  ")
	if err != nil {
		s.log.ErrorContext(ctx, "Failed to encode progress", "user_id", userID, "error", err)
		return
	}
	if err := s.backend.Write(ctx, storage.ProgressKey(userID, code), data); err != nil {
		s.metrics.StorageErrors.WithLabelValues("progress_write").Inc()
		s.log.WarnContext(ctx, "Failed to save progress", "user_id", userID, "error", err)
	}
}

func (s *Store) entry(query, feedback string) Entry {
	return Entry{Timestamp: s.now().In(s.loc).Format(time.RFC3339), Query: query, Feedback: feedback}
}

// AddWord records an explained word. A word already recorded is ignored.
func (s *Store) AddWord(ctx context.Context, userID int64, code, word, definition string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec := s.load(ctx, userID, code)
	var added bool
	if rec.WordsLearned, added = addEntry(rec.WordsLearned, s.entry(word, definition)); added {
		s.save(ctx, userID, code, rec)
	}
}

// AddFeedback records tutor feedback on a sentence the player wrote. A
// sentence already recorded is ignored.
func (s *Store) AddFeedback(ctx context.Context, userID int64, code, text, feedback string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec := s.load(ctx, userID, code)
	var added bool
	if rec.WritingFeedback, added = addEntry(rec.WritingFeedback, s.entry(text, feedback)); added {
		s.save(ctx, userID, code, rec)
	}
}

// Clear deletes the record.
func (s *Store) Clear(ctx context.Context, userID int64, code string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.backend.Delete(ctx, storage.ProgressKey(userID, code)); err != nil {
		s.metrics.StorageErrors.WithLabelValues("progress_delete").Inc()
		s.log.WarnContext(ctx, "Failed to clear progress", "user_id", userID, "error", err)
	}
}
