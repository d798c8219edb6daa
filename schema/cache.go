package schema

import (
	"crypto/md5"
	"fmt"
	"sync"

	"github.com/surqlx/surlint/ast"
	"github.com/surqlx/surlint/parser"
)

// Cache memoizes extracted models keyed by source content identity. A
// model is only ever valid for the exact text it was extracted from; any
// edit produces a different key and a fresh extraction, so callers never
// observe a stale or mutated model.
type Cache struct {
	mutex   sync.RWMutex
	entries map[string]*Model
}

// NewCache returns an empty schema cache.
func NewCache() *Cache {
	return &Cache{entries: make(map[string]*Model)}
}

// ContentKey computes the cache key for a source text.
func ContentKey(src string) string {
	return fmt.Sprintf("%x", md5.Sum([]byte(src)))
}

// ForSource returns the schema model for the source text, parsing and
// extracting on a miss. The returned model is shared and read-only.
func (c *Cache) ForSource(src string) *Model {
	key := ContentKey(src)

	c.mutex.RLock()
	m, ok := c.entries[key]
	c.mutex.RUnlock()
	if ok {
		return m
	}

	m = Extract(parser.Parse(src))

	c.mutex.Lock()
	c.entries[key] = m
	c.mutex.Unlock()
	return m
}

// ForTree returns the schema model for an already parsed tree, memoized by
// the tree's source text.
func (c *Cache) ForTree(tree *ast.Tree) *Model {
	key := ContentKey(tree.Source)

	c.mutex.RLock()
	m, ok := c.entries[key]
	c.mutex.RUnlock()
	if ok {
		return m
	}

	m = Extract(tree)

	c.mutex.Lock()
	c.entries[key] = m
	c.mutex.Unlock()
	return m
}

// Invalidate removes the entry for the given source text, if present.
func (c *Cache) Invalidate(src string) {
	c.mutex.Lock()
	delete(c.entries, ContentKey(src))
	c.mutex.Unlock()
}

// Len reports the number of cached models.
func (c *Cache) Len() int {
	c.mutex.RLock()
	defer c.mutex.RUnlock()
	return len(c.entries)
}
