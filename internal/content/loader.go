// Package content loads static game content (prompts, narrative copy and
// images) from a directory tree and caches it in memory.
package content

import (
	"bufio"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"path"
	"strings"
	"sync"
)

// DefaultPrompt is returned for a prompt file that cannot be read.
const DefaultPrompt = "You are a helpful assistant."

// Loader reads files from an fs.FS. Text is cached by path for the lifetime
// of the process.
type Loader struct {
	fsys fs.FS
	log  *slog.Logger

	mu    sync.RWMutex
	cache map[string]string
}

// NewLoader creates a Loader over fsys, usually os.DirFS(cfg.Content.Dir).
func NewLoader(fsys fs.FS, logger *slog.Logger) *Loader {
	if logger == nil {
		logger = slog.Default()
	}
	return &Loader{
		fsys:  fsys,
		log:   logger.With("component", "content_loader"),
		cache: make(map[string]string),
	}
}

// Load returns the trimmed contents of name, reading it at most once.
func (l *Loader) Load(name string) (string, error) {
	l.mu.RLock()
	text, ok := l.cache[name]
	l.mu.RUnlock()
	if ok {
		return text, nil
	}

	data, err := fs.ReadFile(l.fsys, name)
	if err != nil {
		return "", fmt.Errorf("failed to read content file %s: %w", name, err)
	}
	text = strings.TrimSpace(string(data))

	l.mu.Lock()
	l.cache[name] = text
	l.mu.Unlock()
	return text, nil
}

// Text returns a prompt file or DefaultPrompt when it is missing.
func (l *Loader) Text(name string) string {
	return l.TextOr(name, DefaultPrompt)
}

// TextOr returns the contents of name or fallback when it cannot be read.
func (l *Loader) TextOr(name, fallback string) string {
	text, err := l.Load(name)
	if err != nil {
		l.log.Error("Content file unavailable, using fallback", "path", name, "error", err)
		return fallback
	}
	return text
}

// Lines returns the non-empty lines of name.
func (l *Loader) Lines(name string) ([]string, error) {
	text, err := l.Load(name)
	if err != nil {
		return nil, err
	}

	var lines []string
	sc := bufio.NewScanner(strings.NewReader(text))
	for sc.Scan() {
		if line := strings.TrimSpace(sc.Text()); line != "" {
			lines = append(lines, line)
		}
	}
	return lines, sc.Err()
}

// File returns the raw bytes of a binary file such as an image. Binary files
// are not cached.
func (l *Loader) File(name string) ([]byte, error) {
	data, err := fs.ReadFile(l.fsys, name)
	if err != nil {
		return nil, fmt.Errorf("failed to read content file %s: %w", name, err)
	}
	return data, nil
}

// CharacterPrompt combines a character's system prompt with the instructions
// for the player's language level. A missing level file yields the character
// prompt alone.
func (l *Loader) CharacterPrompt(characterKey, level string) string {
	base := l.Text(PromptPath(characterKey))

	levelText, err := l.Load(path.Join("prompts", "language_levels", level+".md"))
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			l.log.Warn("Failed to read language level prompt", "level", level, "error", err)
		}
		return base
	}
	return base + "\n\n" + levelText
}

// PromptPath is the location of a role's system prompt.
func PromptPath(key string) string {
	return path.Join("prompts", "prompt_"+key+".md")
}

// GameText is the location of a narrative text file.
func GameText(name string) string {
	return path.Join("game_texts", name)
}

// Image is the location of an image file.
func Image(name string) string {
	return path.Join("images", name)
}
