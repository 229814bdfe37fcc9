package llm

import "sync"

// History keeps a bounded rolling dialogue per user.
type History struct {
	mu      sync.Mutex
	max     int
	entries map[int64][]Message
}

// NewHistory keeps at most max messages per user.
func NewHistory(max int) *History {
	return &History{max: max, entries: make(map[int64][]Message)}
}

// Recent returns up to n of the user's latest messages, oldest first.
func (h *History) Recent(userID int64, n int) []Message {
	h.mu.Lock()
	defer h.mu.Unlock()

	msgs := h.entries[userID]
	if len(msgs) > n {
		msgs = msgs[len(msgs)-n:]
	}
	out := make([]Message, len(msgs))
	copy(out, msgs)
	return out
}

// Append adds msgs and drops the oldest beyond the cap.
func (h *History) Append(userID int64, msgs ...Message) {
	h.mu.Lock()
	defer h.mu.Unlock()

	all := append(h.entries[userID], msgs...)
	if len(all) > h.max {
		all = append([]Message(nil), all[len(all)-h.max:]...)
	}
	h.entries[userID] = all
}

// Clear forgets the user's history.
func (h *History) Clear(userID int64) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.entries, userID)
}

// Len reports how many messages are kept for the user.
func (h *History) Len(userID int64) int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.entries[userID])
}
