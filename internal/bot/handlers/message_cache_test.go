package handlers_test

import (
	"testing"

	"github.com/lingosleuth/detectivebot/internal/bot/handlers"
)

func TestMessageCacheEvictsOldest(t *testing.T) {
	t.Parallel()
	c := handlers.NewMessageCache(2)

	c.Put(1, 10, handlers.CachedMessage{Text: "first"})
	c.Put(1, 11, handlers.CachedMessage{Text: "second", CharacterKey: "tim"})
	c.Put(2, 10, handlers.CachedMessage{Text: "other chat"})

	if _, ok := c.Get(1, 10); ok {
		t.Error("oldest message should have been evicted")
	}
	if got, ok := c.Get(1, 11); !ok || got.CharacterKey != "tim" {
		t.Errorf("Get(1, 11) = %+v, %v", got, ok)
	}
	if got, _ := c.Get(2, 10); got.Text != "other chat" {
		t.Errorf("Get(2, 10).Text = %q", got.Text)
	}
	if c.Len() != 2 {
		t.Errorf("Len() = %d, want 2", c.Len())
	}
}

func TestMessageCacheOverwriteKeepsPosition(t *testing.T) {
	t.Parallel()
	c := handlers.NewMessageCache(2)

	c.Put(1, 1, handlers.CachedMessage{Text: "a"})
	c.Put(1, 1, handlers.CachedMessage{Text: "b"})
	c.Put(1, 2, handlers.CachedMessage{Text: "c"})

	if got, ok := c.Get(1, 1); !ok || got.Text != "b" {
		t.Errorf("Get(1, 1) = %+v, %v", got, ok)
	}
	if c.Len() != 2 {
		t.Errorf("Len() = %d, want 2", c.Len())
	}
}
