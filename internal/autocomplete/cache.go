// Package autocomplete offers journal name suggestions while a name is
// being typed.
package autocomplete

import (
	"strings"
	"sync"
)

// JournalCache holds a snapshot of known journal names. It is replaced
// wholesale by Rebuild; there are no incremental updates.
type JournalCache struct {
	mu    sync.RWMutex
	names []string
	lower []string
}

// NewJournalCache returns a cache over names.
func NewJournalCache(names []string) *JournalCache {
	c := &JournalCache{}
	c.Rebuild(names)
	return c
}

// Rebuild replaces the snapshot.
func (c *JournalCache) Rebuild(names []string) {
	lower := make([]string, len(names))
	for i, n := range names {
		lower[i] = strings.ToLower(n)
	}
	c.mu.Lock()
	c.names = append([]string(nil), names...)
	c.lower = lower
	c.mu.Unlock()
}

// Len returns the number of names in the snapshot.
func (c *JournalCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.names)
}

// Lookup returns the names starting with prefix, ignoring case, in
// snapshot order.
func (c *JournalCache) Lookup(prefix string) []string {
	p := strings.ToLower(prefix)
	c.mu.RLock()
	defer c.mu.RUnlock()

	var out []string
	for i, l := range c.lower {
		if strings.HasPrefix(l, p) {
			out = append(out, c.names[i])
		}
	}
	return out
}

// Suggest looks text up and drops the result when the only match is text
// itself, ignoring case. Empty text has no suggestions.
func (c *JournalCache) Suggest(text string) []string {
	if text == "" {
		return nil
	}
	res := c.Lookup(text)
	if len(res) == 1 && strings.EqualFold(res[0], text) {
		return nil
	}
	return res
}
