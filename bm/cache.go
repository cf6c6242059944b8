package bm

import "sync"

// Cache maps patterns to Searchers so that tables are built once per distinct
// pattern. The cache is owned by the caller; nothing in this package keeps a
// process-wide instance.
//
// A Cache is safe for concurrent use. The zero value is ready to use.
type Cache struct {
	mu       sync.RWMutex
	searcher map[string]*Searcher
}

// NewCache returns an empty Cache.
func NewCache() *Cache {
	return &Cache{}
}

// Get returns the Searcher for pattern, building its tables on first use.
func (c *Cache) Get(pattern []byte) *Searcher {
	c.mu.RLock()
	s, ok := c.searcher[string(pattern)]
	c.mu.RUnlock()
	if ok {
		return s
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	// Another goroutine may have built it between the two locks.
	if s, ok := c.searcher[string(pattern)]; ok {
		return s
	}
	if c.searcher == nil {
		c.searcher = make(map[string]*Searcher)
	}
	s = New(pattern)
	c.searcher[string(pattern)] = s
	return s
}

// Len returns the number of cached patterns.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.searcher)
}

// Reset drops every cached Searcher. Searchers already handed out stay valid.
func (c *Cache) Reset() {
	c.mu.Lock()
	c.searcher = nil
	c.mu.Unlock()
}
