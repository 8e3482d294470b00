package ticker

import (
	"strings"
	"sync"
)

// entry is one (key, symbol) pair. Keys are lowercased name fragments.
type entry struct {
	key    string
	symbol string
}

// Cache maps lowercased company-name fragments to ticker symbols.
// Lookups scan entries in insertion order and match by substring
// containment against the lowercased query; the first match wins.
// Learned entries are keyed by the full lowercased company name, so a
// learned key only matches later queries that contain that exact
// phrase. The scan order is deterministic by construction.
type Cache struct {
	mu      sync.RWMutex
	entries []entry
	index   map[string]int
}

// NewCache creates a cache seeded with well-known US companies.
func NewCache() *Cache {
	c := &Cache{index: make(map[string]int, len(seedEntries))}
	for _, e := range seedEntries {
		c.entries = append(c.entries, e)
		c.index[e.key] = len(c.entries) - 1
	}
	return c
}

// Lookup returns the ticker for the first cached key contained in the
// lowercased company name.
func (c *Cache) Lookup(companyName string) (string, bool) {
	needle := strings.ToLower(companyName)

	c.mu.RLock()
	defer c.mu.RUnlock()

	for _, e := range c.entries {
		if strings.Contains(needle, e.key) {
			return e.symbol, true
		}
	}
	return "", false
}

// Learn stores the full lowercased company name as a new key. An
// existing key is updated in place, keeping its scan position.
func (c *Cache) Learn(companyName, symbol string) {
	key := strings.ToLower(companyName)

	c.mu.Lock()
	defer c.mu.Unlock()

	if i, ok := c.index[key]; ok {
		c.entries[i].symbol = symbol
		return
	}
	c.entries = append(c.entries, entry{key: key, symbol: symbol})
	c.index[key] = len(c.entries) - 1
}

// Len returns the number of cached entries.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// Symbols returns all cached ticker symbols in insertion order,
// without duplicates. Used by the cache-warm job.
func (c *Cache) Symbols() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()

	seen := make(map[string]bool, len(c.entries))
	symbols := make([]string, 0, len(c.entries))
	for _, e := range c.entries {
		if !seen[e.symbol] {
			seen[e.symbol] = true
			symbols = append(symbols, e.symbol)
		}
	}
	return symbols
}
