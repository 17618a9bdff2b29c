package locator

import (
	"os"
	"sync"
)

// dirCache memoizes directory listings for the duration of a run. Many
// tracks from one album probe the same directories during the identifier
// scan; without the cache that is O(tracks × directory size) redundant I/O.
// Listing failures are cached as empty listings.
type dirCache struct {
	mu      sync.Mutex
	entries map[string][]os.DirEntry
}

func newDirCache() *dirCache {
	return &dirCache{entries: make(map[string][]os.DirEntry)}
}

// list returns the cached entries for dir, reading it on first use.
// os.ReadDir returns entries sorted by name, so listing order is stable.
func (c *dirCache) list(dir string) []os.DirEntry {
	c.mu.Lock()
	defer c.mu.Unlock()

	if entries, ok := c.entries[dir]; ok {
		return entries
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		entries = nil
	}
	c.entries[dir] = entries
	return entries
}
