package handlers

import "sync"

// DefaultMessageCacheSize bounds how many bot messages stay explainable.
const DefaultMessageCacheSize = 2000

// CachedMessage is the raw text behind a bot message and, for character
// lines, who spoke it.
type CachedMessage struct {
	Text         string
	CharacterKey string
}

type messageKey struct {
	chatID    int64
	messageID int
}

// MessageCache remembers recent bot messages so explain buttons and replies
// can find what they refer to. The oldest entries are evicted first.
type MessageCache struct {
	mu    sync.Mutex
	max   int
	order []messageKey
	items map[messageKey]CachedMessage
}

// NewMessageCache creates a cache holding at most max messages.
func NewMessageCache(max int) *MessageCache {
	if max <= 0 {
		max = DefaultMessageCacheSize
	}
	return &MessageCache{max: max, items: make(map[messageKey]CachedMessage)}
}

// Put stores m under the chat and message id.
func (c *MessageCache) Put(chatID int64, messageID int, m CachedMessage) {
	c.mu.Lock()
	defer c.mu.Unlock()

	k := messageKey{chatID, messageID}
	if _, ok := c.items[k]; !ok {
		c.order = append(c.order, k)
	}
	c.items[k] = m

	for len(c.order) > c.max {
		delete(c.items, c.order[0])
		c.order = c.order[1:]
	}
}

// Get looks a message up.
func (c *MessageCache) Get(chatID int64, messageID int) (CachedMessage, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	m, ok := c.items[messageKey{chatID, messageID}]
	return m, ok
}

// Len is the number of cached messages.
func (c *MessageCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.items)
}
